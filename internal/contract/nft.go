package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/entity"
)

// AccessControl covers the OpenZeppelin role methods shared by the NFTs.
type AccessControl struct {
	*Contract
}

func (c AccessControl) GrantRole(ctx context.Context, role common.Hash, account common.Address) (*types.Transaction, error) {
	return c.Transact(ctx, "grantRole", role, account)
}

func (c AccessControl) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	var ok bool
	err := c.CallInto(ctx, &ok, "hasRole", role, account)
	return ok, err
}

func (c AccessControl) TokenMinterRole(ctx context.Context) (common.Hash, error) {
	var role common.Hash
	err := c.CallInto(ctx, &role, "TOKEN_MINTER_ROLE")
	return role, err
}

func (c AccessControl) UpgradeTo(ctx context.Context, implementation common.Address) (*types.Transaction, error) {
	return c.Transact(ctx, "upgradeTo", implementation)
}

type SquidBusNFT struct {
	AccessControl
}

func (c SquidBusNFT) Mint(ctx context.Context, to common.Address, level uint8) (*types.Transaction, error) {
	return c.Transact(ctx, "mint", to, level)
}

func (c SquidBusNFT) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.CallInto(ctx, &balance, "balanceOf", owner)
	return balance, err
}

func (c SquidBusNFT) SeatsInBuses(ctx context.Context, user common.Address) (uint64, error) {
	var seats uint64
	err := c.CallInto(ctx, &seats, "seatsInBuses", user)
	return seats, err
}

func (c SquidBusNFT) AllowedBusBalance(ctx context.Context, user common.Address) (uint64, error) {
	var allowed uint64
	err := c.CallInto(ctx, &allowed, "allowedBusBalance", user)
	return allowed, err
}

func (c SquidBusNFT) GetToken(ctx context.Context, tokenId uint64) (*entity.BusToken, error) {
	var bus entity.BusToken
	if err := c.CallInto(ctx, &bus, "getToken", tokenId); err != nil {
		return nil, err
	}
	return &bus, nil
}

type SquidPlayerNFT struct {
	AccessControl
}

func (c SquidPlayerNFT) SetSeDivide(ctx context.Context, enable bool, seDivide uint64, gracePeriod uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "setSeDivide", enable, seDivide, gracePeriod)
}

func (c SquidPlayerNFT) SetEnableSeDivide(ctx context.Context, enable bool, seDivide uint64, gracePeriod uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "setEnableSeDivide", enable, seDivide, gracePeriod)
}

func (c SquidPlayerNFT) SetMintLockTime(ctx context.Context, duration uint64, start uint64) (*types.Transaction, error) {
	return c.Transact(ctx, "setMintLockTime", duration, start)
}

func (c SquidPlayerNFT) Mint(ctx context.Context, to common.Address, squidEnergy *big.Int, contractEnd uint64, rarity uint8) (*types.Transaction, error) {
	return c.Transact(ctx, "mint", to, squidEnergy, contractEnd, rarity)
}

func (c SquidPlayerNFT) ArrayUserPlayers(ctx context.Context, user common.Address) ([]entity.Player, error) {
	var players []entity.Player
	err := c.CallInto(ctx, &players, "arrayUserPlayers", user)
	return players, err
}

func (c SquidPlayerNFT) GetToken(ctx context.Context, tokenId uint64) (*entity.Player, error) {
	var player entity.Player
	if err := c.CallInto(ctx, &player, "getToken", tokenId); err != nil {
		return nil, err
	}
	return &player, nil
}

func (c SquidPlayerNFT) GracePeriod(ctx context.Context) (uint64, error) {
	var period uint64
	err := c.CallInto(ctx, &period, "gracePeriod")
	return period, err
}
