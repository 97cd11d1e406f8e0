package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/entity"
)

type SquidWorkerGame struct {
	*Contract
}

func (c SquidWorkerGame) SetWeeklyWorkersLimit(ctx context.Context, limits entity.WeeklyLimits) (*types.Transaction, error) {
	weeks, values := limits.Split()
	return c.Transact(ctx, "setWeeklyWorkersLimit", weeks, values)
}

type Launchpad struct {
	*Contract
}

func (c Launchpad) BoxPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.CallInto(ctx, &price, "boxPrice")
	return price, err
}

func (c Launchpad) ProbabilityBase(ctx context.Context) (uint64, error) {
	var base uint64
	err := c.CallInto(ctx, &base, "probabilityBase")
	return base, err
}

func (c Launchpad) Probability(ctx context.Context, index uint64) (uint64, error) {
	var p uint64
	err := c.CallInto(ctx, &p, "probability", index)
	return p, err
}

type NFTClaimer struct {
	*Contract
}

func (c NFTClaimer) RecordSalt(ctx context.Context, gasLimit uint64) (*types.Transaction, error) {
	return c.TransactWith(ctx, TxOptions{GasLimit: gasLimit}, "recordSalt")
}

func (c NFTClaimer) SetVouchersId(ctx context.Context, gasLimit uint64, tokenIds []uint64) (*types.Transaction, error) {
	return c.TransactWith(ctx, TxOptions{GasLimit: gasLimit}, "setVouchersId", tokenIds)
}

func (c NFTClaimer) SetPlayerChanceTable(ctx context.Context, gasLimit uint64, table []entity.ChanceTableEntry) (*types.Transaction, error) {
	rows := make([]interface{}, len(table))
	for i, row := range table {
		rows[i] = row.Tuple()
	}
	return c.TransactWith(ctx, TxOptions{GasLimit: gasLimit}, "setPlayerChanceTable", rows)
}

type ProxyAdmin struct {
	*Contract
}

func (c ProxyAdmin) Upgrade(ctx context.Context, proxy common.Address, implementation common.Address) (*types.Transaction, error) {
	return c.Transact(ctx, "upgrade", proxy, implementation)
}

func (c ProxyAdmin) GetProxyImplementation(ctx context.Context, proxy common.Address) (common.Address, error) {
	var impl common.Address
	err := c.CallInto(ctx, &impl, "getProxyImplementation", proxy)
	return impl, err
}
