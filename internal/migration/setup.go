package migration

import (
	"context"
	"time"

	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/squid"
	"go.uber.org/zap"
)

func init() {
	Register(Task{Name: "setup-roles", Description: "Grant minter and game roles and load the launch contracts and games", Run: setupRoles})
	Register(Task{Name: "claimer-chance-table", Description: "Set the player chance table of the registered NFTClaimer", Run: claimerChanceTable})
	Register(Task{Name: "mint-players", Description: "Mint promo players with a 15 day contract", Run: mintPlayers(squid.PromoPlayers, false)})
	Register(Task{Name: "mint-players-160322", Description: "Grant the promo owner the minter role and mint the 16.03.22 promo players", Run: mintPlayers(squid.PromoPlayers160322, true)})
}

func setupRoles(ctx context.Context, r *Runner) error {
	bus, err := r.busNFT(ctx)
	if err != nil {
		return err
	}
	player, err := r.playerNFT(ctx)
	if err != nil {
		return err
	}
	game, err := r.game(ctx)
	if err != nil {
		return err
	}
	minter, err := r.minter(ctx)
	if err != nil {
		return err
	}

	if _, err := bus.GrantRole(ctx, squid.TokenMinterRole, minter.Address); err != nil {
		return err
	}
	if _, err := player.GrantRole(ctx, squid.TokenMinterRole, minter.Address); err != nil {
		return err
	}
	if _, err := player.GrantRole(ctx, squid.GameRole, game.Address); err != nil {
		return err
	}
	zap.L().Info("Setup: Roles granted")

	if _, err := game.SetWithdrawalFee(ctx, squid.DecreaseWithdrawalFeeByDay, squid.WithdrawalFee); err != nil {
		return err
	}
	if _, err := minter.SetPeriodLimitPlayers(ctx, squid.PlayerMintLimit, true); err != nil {
		return err
	}
	if _, err := player.SetSeDivide(ctx, true, squid.SeDivide, uint64(squid.SeDivideGracePeriod/time.Second)); err != nil {
		return err
	}

	for i, pc := range squid.PlayerContracts {
		if _, err := game.AddPlayerContract(ctx, pc); err != nil {
			return err
		}
		zap.L().With(zap.Int("index", i), zap.String("contract", pc.String())).Info("Setup: Player contract added")
	}

	for _, g := range squid.Games() {
		if _, err := game.AddNewGame(ctx, g); err != nil {
			return err
		}
		zap.L().With(zap.String("game", g.Slug())).Info("Setup: Game added")
	}

	return nil
}

func claimerChanceTable(ctx context.Context, r *Runner) error {
	address, err := r.lookup(ctx, registry.NFTClaimer)
	if err != nil {
		return err
	}
	claimer, err := r.binder.NFTClaimer(address)
	if err != nil {
		return err
	}

	_, err = claimer.SetPlayerChanceTable(ctx, squid.ClaimerTableGas, squid.PlayerChanceTable)
	return err
}

func mintPlayers(promo squid.PromoMint, grantOwner bool) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		player, err := r.playerNFT(ctx)
		if err != nil {
			return err
		}

		if grantOwner {
			if _, err := player.GrantRole(ctx, squid.TokenMinterRole, squid.PromoOwner); err != nil {
				return err
			}
		}

		var blockTime uint64
		if promo.ContractEnd == 0 {
			if blockTime, err = r.latestTimestamp(ctx); err != nil {
				return err
			}
		}
		contractEnd := promo.ContractEndFrom(blockTime)

		for i := 0; i < promo.Count; i++ {
			if _, err := player.Mint(ctx, squid.PromoPlayerReceive, promo.SquidEnergy, contractEnd, promo.Rarity); err != nil {
				return err
			}
			zap.L().With(zap.Int("token", i+1), zap.Uint64("contractEnd", contractEnd)).Info("Player: Minted")
		}

		return nil
	}
}
