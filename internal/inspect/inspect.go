// Package inspect reads a live deployment back and checks it against what
// the deployment tasks are expected to have left on chain.
package inspect

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/registry"
	"go.uber.org/zap"
)

// maxIndexed bounds the scan of public arrays that have no length getter.
const maxIndexed = 64

type Inspector struct {
	binder   *contract.Binder
	registry *registry.Registry
}

func New(binder *contract.Binder, registry *registry.Registry) *Inspector {
	return &Inspector{binder: binder, registry: registry}
}

func (i *Inspector) now(ctx context.Context) (uint64, error) {
	block, err := i.binder.Session().Chain().LatestBlock(ctx)
	if err != nil {
		return 0, err
	}
	return block.Timestamp, nil
}

// optional looks key up and reports false when it was never deployed.
func (i *Inspector) optional(ctx context.Context, key string) (common.Address, bool, error) {
	address, err := i.registry.LookupAddress(ctx, key)
	if errors.Is(err, registry.ErrNotFound) {
		zap.L().With(zap.String("key", key)).Debug("Inspect: Not deployed")
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, err
	}
	return address, true, nil
}

func (i *Inspector) game(ctx context.Context) (*contract.MainSquidGame, error) {
	address, err := i.registry.LookupAddress(ctx, registry.ProxyMainSquidGame)
	if err != nil {
		return nil, err
	}
	return i.binder.MainSquidGame(address)
}

func (i *Inspector) minter(ctx context.Context) (*contract.NFTMinter, error) {
	address, err := i.registry.LookupAddress(ctx, registry.ProxyNFTMinter)
	if err != nil {
		return nil, err
	}
	return i.binder.NFTMinter(address)
}

// indexed reads get(0), get(1), ... until the contract reverts, which marks
// the end of the array. A failure at index 0 and any failure other than a
// revert are returned as errors.
func indexed(n int, get func(index uint64) error) (int, error) {
	for index := 0; index < n; index++ {
		if err := get(uint64(index)); err != nil {
			if index == 0 || !chain.IsCallReverted(err) {
				return index, err
			}
			return index, nil
		}
	}
	return n, nil
}
