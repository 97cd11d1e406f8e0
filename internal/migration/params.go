package migration

import (
	"context"

	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/internal/squid"
	"go.uber.org/zap"
)

func init() {
	Register(Task{Name: "gamefi-changes-2602", Description: "Upgrade player, game and minter, reprice player contracts and stop player mints", Run: gameFiChanges2602})
	Register(Task{Name: "game-params-0102", Description: "Upgrade the game, move AutoBSW to the holder pool and reset prices and game parameters", Run: gameParams0102})
	Register(Task{Name: "game-params-1502", Description: "Reprice the three player contracts", Run: changePlayerContracts(squid.PlayerContracts1502)})
	Register(Task{Name: "game-params-2002", Description: "Disable the 60 day contract, pay rewards in BSW and BFG and limit player mints to 500", Run: gameParams2002})
	Register(Task{Name: "game-params-2802", Description: "Disable all player contracts", Run: changePlayerContracts(squid.PlayerContracts2802)})
	Register(Task{Name: "game-params-2303", Description: "Pay game rewards in BSW only", Run: setRewardTokens(squid.RewardTokens2303)})
	Register(Task{Name: "game-params-1204", Description: "Replace the v1 games with BSW and BFG rewards", Run: setV1Games(squid.Games1204)})
	Register(Task{Name: "game-params-1205", Description: "Replace the v1 games with BSW rewards", Run: setV1Games(squid.Games1205)})
	Register(Task{Name: "change-reward-tokens", Description: "Pay game rewards 85/15 in BSW and WBNB valued in USD", Run: setRewardTokens(squid.RewardTokens)})
}

func (r *Runner) changePlayerContracts(ctx context.Context, game *contract.MainSquidGame, contracts []entity.PlayerContract) error {
	for i, pc := range contracts {
		if _, err := game.ChangePlayerContract(ctx, uint64(i), pc); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("contract", pc.String())).Info("Game: Player contract changed")
	}
	return nil
}

func changePlayerContracts(contracts []entity.PlayerContract) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		game, err := r.game(ctx)
		if err != nil {
			return err
		}
		return r.changePlayerContracts(ctx, game, contracts)
	}
}

func setRewardTokens(table func() []entity.RewardTokens) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		game, err := r.game(ctx)
		if err != nil {
			return err
		}
		return rewardTokens(ctx, game, table())
	}
}

func rewardTokens(ctx context.Context, game *contract.MainSquidGame, rewards []entity.RewardTokens) error {
	for i, tokens := range rewards {
		if _, err := game.SetRewardTokensToGame(ctx, uint64(i), tokens); err != nil {
			return err
		}
		zap.L().With(zap.Int("game", i+1), zap.Int("tokens", len(tokens))).Info("Game: Reward tokens updated")
	}
	return nil
}

func setV1Games(table func() []entity.Game) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		game, err := r.game(ctx)
		if err != nil {
			return err
		}
		return setGames(ctx, game, table())
	}
}

// setGames replaces the v1 game records in index order.
func setGames(ctx context.Context, game *contract.MainSquidGame, games []entity.Game) error {
	for i, g := range games {
		if _, err := game.SetGame(ctx, uint64(i), g, squid.GameVersion1); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("game", g.Slug())).Info("Game: Parameters changed")
	}
	return nil
}

func gameFiChanges2602(ctx context.Context, r *Runner) error {
	for _, keys := range []proxyKeys{playerKeys, gameKeys, minterKeys} {
		if err := r.upgradeProxy(ctx, keys, upgradeGas); err != nil {
			return err
		}
	}

	game, err := r.game(ctx)
	if err != nil {
		return err
	}
	if err := r.changePlayerContracts(ctx, game, squid.PlayerContracts2602); err != nil {
		return err
	}

	minter, err := r.minter(ctx)
	if err != nil {
		return err
	}
	_, err = minter.SetPeriodLimitPlayers(ctx, 0, true)
	return err
}

func gameParams0102(ctx context.Context, r *Runner) error {
	if err := r.upgradeProxy(ctx, gameKeys, callGas); err != nil {
		return err
	}

	game, err := r.game(ctx)
	if err != nil {
		return err
	}
	if _, err := game.SetAutoBsw(ctx, squid.HolderPool); err != nil {
		return err
	}
	if err := r.changePlayerContracts(ctx, game, squid.PlayerContracts0102); err != nil {
		return err
	}

	for i, params := range squid.GameParameters0102() {
		if _, err := game.SetGameParameters(ctx, uint64(i), params); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("params", params.String())).Info("Game: Parameters changed")
	}

	return nil
}

func gameParams2002(ctx context.Context, r *Runner) error {
	game, err := r.game(ctx)
	if err != nil {
		return err
	}

	if _, err := game.ChangePlayerContract(ctx, squid.SixtyDayContract, entity.DisabledPlayerContract()); err != nil {
		return err
	}
	if err := rewardTokens(ctx, game, squid.RewardTokens2002()); err != nil {
		return err
	}

	minter, err := r.minter(ctx)
	if err != nil {
		return err
	}
	_, err = minter.SetPeriodLimitPlayers(ctx, 500, true)
	return err
}
