package nonce

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type Source interface {
	LatestNonce(ctx context.Context, account common.Address) (uint64, error)
}

// Manager hands out strictly increasing nonces for one signer, starting at
// the account's mined transaction count.
type Manager struct {
	mu      sync.Mutex
	account common.Address
	next    uint64
}

func New(ctx context.Context, src Source, account common.Address) (*Manager, error) {
	latest, err := src.LatestNonce(ctx, account)
	if err != nil {
		return nil, err
	}
	zap.L().With(zap.String("account", account.Hex()), zap.Uint64("nonce", latest)).Info("Nonce initialised")

	return &Manager{account: account, next: latest}, nil
}

func (m *Manager) Account() common.Address {
	return m.account
}

func (m *Manager) Next() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.next
	m.next++
	return n
}

// Skip reserves n nonces that are consumed outside Next.
func (m *Manager) Skip(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next += n
}

func (m *Manager) Peek() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}
