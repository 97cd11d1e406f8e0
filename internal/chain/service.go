package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrReverted = errors.New("transaction reverted")
	ErrNotProxy = errors.New("not an EIP-1967 proxy")

	// EIP-1967 storage slots.
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	AdminSlot          = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
)

// IsCallReverted reports whether err comes from a call the contract
// reverted, as opposed to a transport or decoding failure. Nodes return the
// revert as a JSON-RPC error message, so the message is matched.
func IsCallReverted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, vm.ErrExecutionReverted) {
		return true
	}
	return strings.Contains(err.Error(), vm.ErrExecutionReverted.Error())
}

// Backend is everything the tool needs from a node. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

type Block struct {
	Number    uint64
	Timestamp uint64
}

type Service interface {
	Backend() Backend
	ChainID(ctx context.Context) (*big.Int, error)
	LatestNonce(ctx context.Context, account common.Address) (uint64, error)
	LatestBlock(ctx context.Context) (*Block, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	StorageAt(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error)
	ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error)
	AdminAddress(ctx context.Context, proxy common.Address) (common.Address, error)
	ForgetProxy(proxy common.Address)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	Close()
}

type service struct {
	backend        Backend
	cache          *cache.Cache
	confirmTimeout time.Duration
}

func NewService(backend Backend, cache *cache.Cache, confirmTimeout time.Duration) Service {
	return service{backend, cache, confirmTimeout}
}

func (s service) Backend() Backend {
	return s.backend
}

func (s service) ChainID(ctx context.Context) (*big.Int, error) {
	if cached, ok := s.cache.Get("chainId"); ok {
		return new(big.Int).Set(cached.(*big.Int)), nil
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set("chainId", chainID, cache.NoExpiration)

	return new(big.Int).Set(chainID), nil
}

func (s service) LatestNonce(ctx context.Context, account common.Address) (uint64, error) {
	return s.backend.NonceAt(ctx, account, nil)
}

func (s service) LatestBlock(ctx context.Context) (*Block, error) {
	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Block{Number: header.Number.Uint64(), Timestamp: header.Time}, nil
}

func (s service) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return s.backend.SuggestGasPrice(ctx)
}

func (s service) StorageAt(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error) {
	data, err := s.backend.StorageAt(ctx, account, slot, nil)
	if err != nil {
		return common.Hash{}, err
	}

	return common.BytesToHash(data), nil
}

func (s service) ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error) {
	return s.slotAddress(ctx, "impl", proxy, ImplementationSlot)
}

func (s service) AdminAddress(ctx context.Context, proxy common.Address) (common.Address, error) {
	return s.slotAddress(ctx, "admin", proxy, AdminSlot)
}

func (s service) slotAddress(ctx context.Context, prefix string, proxy common.Address, slot common.Hash) (common.Address, error) {
	key := fmt.Sprintf("%s:%s", prefix, proxy.Hex())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(common.Address), nil
	}

	value, err := s.StorageAt(ctx, proxy, slot)
	if err != nil {
		return common.Address{}, err
	}

	addr := common.BytesToAddress(value.Bytes())
	if addr == (common.Address{}) {
		return addr, fmt.Errorf("%s is %w: empty %s slot", proxy.Hex(), ErrNotProxy, prefix)
	}
	s.cache.Set(key, addr, cache.DefaultExpiration)

	return addr, nil
}

// ForgetProxy drops cached slot reads after an upgrade.
func (s service) ForgetProxy(proxy common.Address) {
	s.cache.Delete("impl:" + proxy.Hex())
	s.cache.Delete("admin:" + proxy.Hex())
}

func (s service) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if s.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.confirmTimeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		zap.L().With(zap.String("tx", tx.Hash().Hex())).Error("Transaction reverted")
		return receipt, fmt.Errorf("%w: %s", ErrReverted, tx.Hash().Hex())
	}

	return receipt, nil
}

func (s service) Close() {
	if closer, ok := s.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}
