package inspect

import (
	"context"
	"fmt"

	"github.com/squidgame/squid-ops/internal/entity"
)

type GameReport struct {
	PlayerContracts []entity.PlayerContract
	Games           []entity.Game
	WithdrawalFee   uint64
	DecreaseByDay   uint64
	RecoveryTime    uint64
}

// Game dumps the player contracts, games and fee schedule of MainSquidGame.
func (i *Inspector) Game(ctx context.Context) (*GameReport, error) {
	game, err := i.game(ctx)
	if err != nil {
		return nil, err
	}

	report := &GameReport{}

	if _, err := indexed(maxIndexed, func(index uint64) error {
		pc, err := game.PlayerContracts(ctx, index)
		if err != nil {
			return err
		}
		report.PlayerContracts = append(report.PlayerContracts, *pc)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("player contracts: %w", err)
	}

	count, err := game.GetGameCount(ctx)
	if err != nil {
		return nil, err
	}
	for index := uint64(0); index < count; index++ {
		g, err := game.Games(ctx, index)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", index, err)
		}
		report.Games = append(report.Games, *g)
	}

	if report.WithdrawalFee, err = game.WithdrawalFee(ctx); err != nil {
		return nil, err
	}
	if report.DecreaseByDay, err = game.DecreaseWithdrawalFeeByDay(ctx); err != nil {
		return nil, err
	}
	if report.RecoveryTime, err = game.RecoveryTime(ctx); err != nil {
		return nil, err
	}

	return report, nil
}
