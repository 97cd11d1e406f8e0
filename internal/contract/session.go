package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/squidgame/squid-ops/internal/nonce"
	"go.uber.org/zap"
)

var ErrReadOnly = errors.New("no signer: read-only session")

type SessionConfig struct {
	Task           string
	GasPrice       *big.Int
	CallGasLimit   uint64
	DeployGasLimit uint64
	WaitReceipts   bool
	DryRun         bool
}

// Planned is a transaction recorded instead of sent in dry-run mode.
type Planned struct {
	Nonce    uint64
	Contract string
	Address  common.Address
	Method   string
	Args     []interface{}
}

func (p Planned) String() string {
	args := make([]string, len(p.Args))
	for i, arg := range p.Args {
		args[i] = fmt.Sprintf("%v", arg)
	}
	return fmt.Sprintf("#%d %s(%s).%s(%s)", p.Nonce, p.Contract, p.Address.Hex(), p.Method, strings.Join(args, ", "))
}

// Session signs and sends the transactions of one task run with a single
// account, handing out nonces in submission order.
type Session struct {
	cfg    SessionConfig
	chain  chain.Service
	events *event.Manager
	signer *bind.TransactOpts
	nonces *nonce.Manager

	mu      sync.Mutex
	planned []Planned
}

func NewSession(ctx context.Context, chainSvc chain.Service, key *ecdsa.PrivateKey, events *event.Manager, cfg SessionConfig) (*Session, error) {
	chainID, err := chainSvc.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}

	nonces, err := nonce.New(ctx, chainSvc, signer.From)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	if cfg.GasPrice == nil || cfg.GasPrice.Sign() == 0 {
		if cfg.GasPrice, err = chainSvc.SuggestGasPrice(ctx); err != nil {
			return nil, fmt.Errorf("gas price: %w", err)
		}
	}
	if events == nil {
		events = event.NewManager()
	}

	zap.L().With(
		zap.String("task", cfg.Task),
		zap.String("from", signer.From.Hex()),
		zap.Uint64("chainId", chainID.Uint64()),
		zap.String("gasPrice", cfg.GasPrice.String()),
		zap.Bool("dryRun", cfg.DryRun),
	).Info("Session opened")

	return &Session{cfg: cfg, chain: chainSvc, events: events, signer: signer, nonces: nonces}, nil
}

// NewReadOnlySession serves calls only.
func NewReadOnlySession(chainSvc chain.Service) *Session {
	return &Session{chain: chainSvc, events: event.NewManager()}
}

func (s *Session) Chain() chain.Service {
	return s.chain
}

func (s *Session) Events() *event.Manager {
	return s.events
}

func (s *Session) Task() string {
	return s.cfg.Task
}

func (s *Session) DryRun() bool {
	return s.cfg.DryRun
}

func (s *Session) From() common.Address {
	if s.signer == nil {
		return common.Address{}
	}
	return s.signer.From
}

func (s *Session) DeployGasLimit() uint64 {
	return s.cfg.DeployGasLimit
}

func (s *Session) CallGasLimit() uint64 {
	return s.cfg.CallGasLimit
}

func (s *Session) Nonces() *nonce.Manager {
	return s.nonces
}

func (s *Session) Planned() []Planned {
	s.mu.Lock()
	defer s.mu.Unlock()

	planned := make([]Planned, len(s.planned))
	copy(planned, s.planned)
	return planned
}

// ConstructorMethod is the method name of creation transactions.
const ConstructorMethod = "constructor"

// NextDeployAddress is the address the next creation transaction will
// produce, the nonce not being consumed.
func (s *Session) NextDeployAddress() common.Address {
	return crypto.CreateAddress(s.From(), s.nonces.Peek())
}

// TxOptions override the session defaults for one transaction.
type TxOptions struct {
	Label    string
	GasLimit uint64
	Wait     bool
}

// SendFunc builds and signs a transaction with the given options and sends it.
type SendFunc func(opts *bind.TransactOpts) (*types.Transaction, error)

// Send runs one transaction through the session: it takes the next nonce,
// emits the lifecycle events and waits for the receipt when configured to.
// In dry-run mode the call is recorded and nothing is sent; the returned
// transaction is nil.
func (s *Session) Send(ctx context.Context, meta event.Tx, o TxOptions, args []interface{}, send SendFunc) (*types.Transaction, *types.Receipt, error) {
	if s.signer == nil {
		return nil, nil, ErrReadOnly
	}

	meta.Task = s.cfg.Task
	if o.Label != "" {
		meta.Label = o.Label
	}
	meta.Nonce = s.nonces.Next()
	if meta.Method == ConstructorMethod && meta.Address == (common.Address{}) {
		meta.Address = crypto.CreateAddress(s.From(), meta.Nonce)
	}
	logger := zap.L().With(
		zap.String("contract", meta.Contract),
		zap.String("address", meta.Address.Hex()),
		zap.String("method", meta.Method),
		zap.Uint64("nonce", meta.Nonce),
	)

	if s.cfg.DryRun {
		s.mu.Lock()
		s.planned = append(s.planned, Planned{Nonce: meta.Nonce, Contract: meta.Contract, Address: meta.Address, Method: meta.Method, Args: args})
		s.mu.Unlock()
		logger.Info("Dry run: transaction not sent")
		return nil, nil, nil
	}

	gasLimit := o.GasLimit
	if gasLimit == 0 {
		gasLimit = s.cfg.CallGasLimit
	}
	opts := &bind.TransactOpts{
		From:     s.signer.From,
		Signer:   s.signer.Signer,
		Nonce:    new(big.Int).SetUint64(meta.Nonce),
		GasLimit: gasLimit,
		GasPrice: s.cfg.GasPrice,
		Context:  ctx,
	}

	tx, err := send(opts)
	if err != nil {
		meta.Err = err
		s.events.EmitEvent(event.TxFailedEvent, meta)
		logger.With(zap.Error(err)).Error("Transaction failed")
		return nil, nil, fmt.Errorf("%s.%s (nonce %d): %w", meta.Contract, meta.Method, meta.Nonce, err)
	}

	meta.Hash = tx.Hash()
	s.events.EmitEvent(event.TxSubmittedEvent, meta)
	logger.With(zap.String("tx", tx.Hash().Hex())).Info("Transaction submitted")

	if !s.cfg.WaitReceipts && !o.Wait {
		return tx, nil, nil
	}

	receipt, err := s.chain.WaitMined(ctx, tx)
	meta.Receipt = receipt
	if err != nil {
		meta.Err = err
		s.events.EmitEvent(event.TxFailedEvent, meta)
		logger.With(zap.Error(err)).Error("Transaction failed")
		return tx, receipt, fmt.Errorf("%s.%s (nonce %d): %w", meta.Contract, meta.Method, meta.Nonce, err)
	}

	s.events.EmitEvent(event.TxMinedEvent, meta)
	logger.With(zap.String("tx", tx.Hash().Hex()), zap.Uint64("gasUsed", receipt.GasUsed)).Info("Transaction mined")

	return tx, receipt, nil
}
