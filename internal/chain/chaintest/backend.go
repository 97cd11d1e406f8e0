// Package chaintest provides an in-memory node for exercising transaction
// and call paths without a network.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/squidgame/squid-ops/internal/abiconv"
)

const DefaultGasUsed = 100000

// CallFunc answers an eth_call with the decoded arguments.
type CallFunc func(args []interface{}) ([]interface{}, error)

type mockedCall struct {
	method abi.Method
	fn     CallFunc
}

type Backend struct {
	mu sync.Mutex

	chainID  *big.Int
	gasPrice *big.Int
	head     *types.Header

	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	storage  map[common.Address]map[common.Hash]common.Hash
	receipts map[common.Hash]*types.Receipt
	calls    map[string]mockedCall
	sent     []*types.Transaction
	revert   func(tx *types.Transaction) bool
}

func NewBackend(chainID int64) *Backend {
	return &Backend{
		chainID:  big.NewInt(chainID),
		gasPrice: big.NewInt(5000000000),
		head:     &types.Header{Number: big.NewInt(1), Time: 1650000000},
		nonces:   make(map[common.Address]uint64),
		code:     make(map[common.Address][]byte),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		receipts: make(map[common.Hash]*types.Receipt),
		calls:    make(map[string]mockedCall),
	}
}

func (b *Backend) SetNonce(account common.Address, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nonces[account] = nonce
}

func (b *Backend) SetHead(number uint64, timestamp uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = &types.Header{Number: new(big.Int).SetUint64(number), Time: timestamp}
}

func (b *Backend) SetCode(account common.Address, code []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.code[account] = code
}

func (b *Backend) SetStorage(account common.Address, slot common.Hash, value common.Hash) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.storage[account] == nil {
		b.storage[account] = make(map[common.Hash]common.Hash)
	}
	b.storage[account][slot] = value
}

// RevertWhen makes matching transactions mine with a failed status.
func (b *Backend) RevertWhen(fn func(tx *types.Transaction) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revert = fn
}

// Mock answers calls to method on to with fixed outputs. Outputs are
// converted like transaction arguments, so literals are accepted.
func (b *Backend) Mock(to common.Address, contractAbi abi.ABI, method string, outputs ...interface{}) {
	b.MockFunc(to, contractAbi, method, func([]interface{}) ([]interface{}, error) {
		return outputs, nil
	})
}

func (b *Backend) MockFunc(to common.Address, contractAbi abi.ABI, method string, fn CallFunc) {
	m, ok := contractAbi.Methods[method]
	if !ok {
		panic(fmt.Sprintf("chaintest: no method %s", method))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[callKey(to, m.ID)] = mockedCall{method: m, fn: fn}
	if len(b.code[to]) == 0 {
		b.code[to] = []byte{0x60}
	}
}

func (b *Backend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	sent := make([]*types.Transaction, len(b.sent))
	copy(sent, b.sent)
	return sent
}

func (b *Backend) Receipt(hash common.Hash) *types.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.receipts[hash]
}

// Decode returns the method and arguments of a sent call transaction.
func Decode(contractAbi abi.ABI, tx *types.Transaction) (string, []interface{}, error) {
	data := tx.Data()
	if len(data) < 4 {
		return "", nil, errors.New("chaintest: no selector")
	}
	m, err := contractAbi.MethodById(data[:4])
	if err != nil {
		return "", nil, err
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, err
	}

	return m.Name, args, nil
}

func callKey(to common.Address, selector []byte) string {
	return to.Hex() + common.Bytes2Hex(selector)
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.chainID), nil
}

func (b *Backend) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return b.NonceAt(ctx, account, nil)
}

func (b *Backend) StorageAt(_ context.Context, account common.Address, key common.Hash, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value := b.storage[account][key]
	return value.Bytes(), nil
}

func (b *Backend) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.code[account], nil
}

func (b *Backend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *Backend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return types.CopyHeader(b.head), nil
}

func (b *Backend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.gasPrice), nil
}

func (b *Backend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (b *Backend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return DefaultGasUsed, nil
}

func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if call.To == nil || len(call.Data) < 4 {
		return nil, errors.New("chaintest: invalid call")
	}

	b.mu.Lock()
	mocked, ok := b.calls[callKey(*call.To, call.Data[:4])]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("chaintest: no mock for %s selector %x", call.To.Hex(), call.Data[:4])
	}

	args, err := mocked.method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	outputs, err := mocked.fn(args)
	if err != nil {
		return nil, err
	}

	converted, err := abiconv.Args(mocked.method.Outputs, outputs)
	if err != nil {
		return nil, err
	}

	return mocked.method.Outputs.Pack(converted...)
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if expected := b.nonces[from]; tx.Nonce() != expected {
		return fmt.Errorf("chaintest: nonce %d, expected %d", tx.Nonce(), expected)
	}
	b.nonces[from]++
	b.sent = append(b.sent, tx)

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		GasUsed:     DefaultGasUsed,
		BlockNumber: new(big.Int).Add(b.head.Number, big.NewInt(1)),
	}
	if b.revert != nil && b.revert(tx) {
		receipt.Status = types.ReceiptStatusFailed
	}
	if tx.To() == nil && receipt.Status == types.ReceiptStatusSuccessful {
		receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
		b.code[receipt.ContractAddress] = []byte{0x60}
	}
	b.receipts[tx.Hash()] = receipt

	return nil
}

func (b *Backend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	receipt, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (b *Backend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *Backend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("chaintest: subscriptions are not supported")
}

var _ bind.ContractBackend = (*Backend)(nil)
var _ bind.DeployBackend = (*Backend)(nil)
