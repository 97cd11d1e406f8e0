package contract

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/entity"
)

type MainSquidGame struct {
	*Contract
}

func (c MainSquidGame) AddPlayerContract(ctx context.Context, pc entity.PlayerContract) (*types.Transaction, error) {
	return c.Transact(ctx, "addPlayerContract", pc.Tuple())
}

// AddPlayerContractVersion is the overload taking the contract version.
func (c MainSquidGame) AddPlayerContractVersion(ctx context.Context, pc entity.PlayerContract, version uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "addPlayerContract", pc.Tuple(), version)
}

func (c MainSquidGame) ChangePlayerContract(ctx context.Context, index uint64, pc entity.PlayerContract) (*types.Transaction, error) {
	return c.Transact(ctx, "changePlayerContract", index, pc.Tuple())
}

func (c MainSquidGame) AddNewGame(ctx context.Context, game entity.Game) (*types.Transaction, error) {
	return c.Transact(ctx, "addNewGame", game.Tuple())
}

func (c MainSquidGame) AddNewGameVersion(ctx context.Context, game entity.Game, version uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "addNewGame", game.Tuple(), version)
}

// SetGameParameters is the legacy setter of the min SE, min stake and chance triple.
func (c MainSquidGame) SetGameParameters(ctx context.Context, index uint64, p entity.GameParameters) (*types.Transaction, error) {
	return c.Transact(ctx, "setGameParameters", index, p.MinSeAmount, p.MinStakeAmount, p.ChanceToWin)
}

// SetGame replaces the whole game record of a contract version.
func (c MainSquidGame) SetGame(ctx context.Context, index uint64, game entity.Game, version uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "setGameParameters", index, game.Tuple(), version)
}

func (c MainSquidGame) SetRewardTokensToGame(ctx context.Context, index uint64, tokens entity.RewardTokens) (*types.Transaction, error) {
	return c.Transact(ctx, "setRewardTokensToGame", index, tokens.Tuples())
}

func (c MainSquidGame) SetWithdrawalFee(ctx context.Context, decreaseByDay uint64, fee uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "setWithdrawalFee", decreaseByDay, fee)
}

func (c MainSquidGame) SetAutoBsw(ctx context.Context, autoBsw common.Address) (*types.Transaction, error) {
	return c.Transact(ctx, "setAutoBsw", autoBsw)
}

func (c MainSquidGame) SetPeriodLimitContracts(ctx context.Context, limit uint64, enabled bool) (*types.Transaction, error) {
	return c.Transact(ctx, "setPeriodLimitContracts", limit, enabled)
}

func (c MainSquidGame) EnableGame(ctx context.Context, index uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "enableGame", index)
}

func (c MainSquidGame) PlayGame(ctx context.Context, index uint64, tokenIds []uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "playGame", index, tokenIds)
}

func (c MainSquidGame) PlayerContracts(ctx context.Context, index uint64) (*entity.PlayerContract, error) {
	var pc entity.PlayerContract
	if err := c.CallInto(ctx, &pc, "playerContracts", index); err != nil {
		return nil, err
	}
	return &pc, nil
}

// Games reads a game record. The public getter omits the reward tokens.
func (c MainSquidGame) Games(ctx context.Context, index uint64) (*entity.Game, error) {
	var game entity.Game
	if err := c.CallInto(ctx, &game, "games", index); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c MainSquidGame) GetGameCount(ctx context.Context) (uint64, error) {
	return c.uint(ctx, "getGameCount")
}

func (c MainSquidGame) WithdrawalFee(ctx context.Context) (uint64, error) {
	return c.uint(ctx, "withdrawalFee")
}

func (c MainSquidGame) DecreaseWithdrawalFeeByDay(ctx context.Context) (uint64, error) {
	return c.uint(ctx, "decreaseWithdrawalFeeByDay")
}

func (c MainSquidGame) RecoveryTime(ctx context.Context) (uint64, error) {
	return c.uint(ctx, "recoveryTime")
}

func (c MainSquidGame) WithdrawTimeLock(ctx context.Context, user common.Address) (uint64, error) {
	return c.uint(ctx, "withdrawTimeLock", user)
}

func (c MainSquidGame) uint(ctx context.Context, method string, args ...interface{}) (uint64, error) {
	var v uint64
	err := c.CallInto(ctx, &v, method, args...)
	return v, err
}

type NFTMinter struct {
	*Contract
}

func (c NFTMinter) SetPeriodLimitPlayers(ctx context.Context, limit uint64, enabled bool) (*types.Transaction, error) {
	return c.Transact(ctx, "setPeriodLimitPlayers", limit, enabled)
}

func (c NFTMinter) GetPlayerTokens(ctx context.Context, user common.Address) ([]entity.Player, error) {
	var players []entity.Player
	err := c.CallInto(ctx, &players, "getPlayerTokens", user)
	return players, err
}

func (c NFTMinter) GetBusTokens(ctx context.Context, user common.Address) ([]entity.BusToken, error) {
	var buses []entity.BusToken
	err := c.CallInto(ctx, &buses, "getBusTokens", user)
	return buses, err
}
