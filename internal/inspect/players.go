package inspect

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/internal/selector"
	"go.uber.org/zap"
)

type Selection struct {
	Game     entity.Game
	Players  []entity.Player
	Selected []entity.Player
	Now      uint64
}

func (s Selection) TokenIds() []uint64 {
	return selector.TokenIds(s.Selected)
}

// Players lists the players of wallet as the minter reports them.
func (i *Inspector) Players(ctx context.Context, wallet common.Address) ([]entity.Player, error) {
	minter, err := i.minter(ctx)
	if err != nil {
		return nil, err
	}
	return minter.GetPlayerTokens(ctx, wallet)
}

// Select picks the players of wallet to commit to gameIndex at the latest
// block time.
func (i *Inspector) Select(ctx context.Context, wallet common.Address, gameIndex uint64) (*Selection, error) {
	players, err := i.Players(ctx, wallet)
	if err != nil {
		return nil, err
	}

	game, err := i.game(ctx)
	if err != nil {
		return nil, err
	}
	g, err := game.Games(ctx, gameIndex)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameIndex, err)
	}

	now, err := i.now(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := selector.SortPlayersBySquidEnergyEfficient(players, g.MinSeAmount, now)
	if err != nil {
		return nil, fmt.Errorf("game %d (%s): %w", gameIndex, g.Name, err)
	}

	zap.L().With(
		zap.String("wallet", wallet.Hex()),
		zap.String("game", g.Slug()),
		zap.Uint64s("tokenIds", selector.TokenIds(selected)),
	).Info("Inspect: Players selected")

	return &Selection{Game: *g, Players: players, Selected: selected, Now: now}, nil
}
