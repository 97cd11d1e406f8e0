package migration

import (
	"context"
	"time"

	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/squid"
	"go.uber.org/zap"
)

// Gas of the upgrade transactions.
const (
	upgradeGas     = 5000000
	callGas        = 3000000
	limitChangeGas = 5000000
)

func init() {
	Register(Task{Name: "upgrade-bus", Description: "Upgrade the SquidBusNFT proxy", Run: upgradeTask(busKeys)})
	Register(Task{Name: "upgrade-player", Description: "Upgrade the SquidPlayerNFT proxy and start the mint lock", Run: upgradePlayer})
	Register(Task{Name: "upgrade-game", Description: "Upgrade the MainSquidGame proxy", Run: upgradeTask(gameKeys)})
	Register(Task{Name: "upgrade-minter", Description: "Upgrade the NFTMinter proxy", Run: upgradeTask(minterKeys)})
	Register(Task{Name: "upgrade-worker-game", Description: "Upgrade the SquidWorkerGame proxy", Run: upgradeTask(workerKeys)})
	Register(Task{Name: "upgrade-game-contracts-limit", Description: "Upgrade MainSquidGame and limit player contracts per period", Run: upgradeGameContractsLimit})
	Register(Task{Name: "upgrade-gamefi-v2", Description: "Upgrade player, game and minter and add the v2 contracts and games", Run: upgradeGameFiV2})
}

func (r *Runner) upgradeProxy(ctx context.Context, keys proxyKeys, gasLimit uint64) error {
	_, err := r.upgrade(ctx, keys.proxy, keys.imp, keys.contract, gasLimit)
	return err
}

func upgradeTask(keys proxyKeys) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		return r.upgradeProxy(ctx, keys, upgradeGas)
	}
}

func upgradePlayer(ctx context.Context, r *Runner) error {
	if err := r.upgradeProxy(ctx, playerKeys, upgradeGas); err != nil {
		return err
	}

	player, err := r.playerNFT(ctx)
	if err != nil {
		return err
	}
	start, err := r.latestTimestamp(ctx)
	if err != nil {
		return err
	}

	duration := uint64(squid.PlayerMintLockDuration / time.Second)
	zap.L().With(zap.Uint64("start", start), zap.Uint64("duration", duration)).Info("Player: Set mint lock")

	_, err = player.TransactWith(ctx, contract.TxOptions{GasLimit: upgradeGas}, "setMintLockTime", duration, start)
	return err
}

func upgradeGameContractsLimit(ctx context.Context, r *Runner) error {
	if err := r.upgradeProxy(ctx, gameKeys, upgradeGas); err != nil {
		return err
	}

	game, err := r.game(ctx)
	if err != nil {
		return err
	}

	_, err = game.TransactWith(ctx, contract.TxOptions{GasLimit: limitChangeGas}, "setPeriodLimitContracts", squid.ContractsPeriodLimit, true)
	return err
}

func upgradeGameFiV2(ctx context.Context, r *Runner) error {
	for _, keys := range []proxyKeys{playerKeys, gameKeys, minterKeys} {
		if err := r.upgradeProxy(ctx, keys, upgradeGas); err != nil {
			return err
		}
	}

	game, err := r.game(ctx)
	if err != nil {
		return err
	}

	for i, pc := range squid.PlayerContractsV2 {
		if _, err := game.AddPlayerContractVersion(ctx, pc, squid.GameVersion2); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("contract", pc.String())).Info("Game: V2 player contract added")
	}

	for i, g := range squid.GamesV2() {
		if _, err := game.AddNewGameVersion(ctx, g, squid.GameVersion2); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("game", g.Name)).Info("Game: V2 game added")
	}

	return setGames(ctx, game, squid.GamesV1Upgrade())
}
