// Package contracttest wires a signing session to the in-memory node and the
// test artifacts.
package contracttest

import (
	"context"
	"crypto/ecdsa"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/patrickmn/go-cache"
	"github.com/squidgame/squid-ops/internal/artifact"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/chain/chaintest"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/stretchr/testify/require"
)

const ChainID = 97

type Env struct {
	Backend   *chaintest.Backend
	Chain     chain.Service
	Artifacts artifact.Store
	Events    *event.Manager
	Session   *contract.Session
	Binder    *contract.Binder
	Key       *ecdsa.PrivateKey
	From      common.Address
}

// ArtifactsDir is the repository testdata/artifacts directory.
func ArtifactsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "testdata", "artifacts")
}

// NewEnv opens a session for a fresh key. The nonce of the account starts at
// startNonce.
func NewEnv(t *testing.T, cfg contract.SessionConfig, startNonce uint64) *Env {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	backend := chaintest.NewBackend(ChainID)
	backend.SetNonce(from, startNonce)

	chainSvc := chain.NewService(backend, cache.New(5*time.Minute, 10*time.Minute), 5*time.Second)
	artifacts := artifact.NewStore(ArtifactsDir(), cache.New(5*time.Minute, 10*time.Minute))
	events := event.NewManager()

	if cfg.Task == "" {
		cfg.Task = "test"
	}
	if cfg.CallGasLimit == 0 {
		cfg.CallGasLimit = 3000000
	}
	if cfg.DeployGasLimit == 0 {
		cfg.DeployGasLimit = 5000000
	}

	session, err := contract.NewSession(context.Background(), chainSvc, key, events, cfg)
	require.NoError(t, err)

	return &Env{
		Backend:   backend,
		Chain:     chainSvc,
		Artifacts: artifacts,
		Events:    events,
		Session:   session,
		Binder:    contract.NewBinder(artifacts, session),
		Key:       key,
		From:      from,
	}
}

// Decode returns the method name and arguments of the i-th sent transaction
// against the named artifact.
func (e *Env) Decode(t *testing.T, i int, name string) (string, []interface{}) {
	t.Helper()

	sent := e.Backend.Sent()
	require.Greater(t, len(sent), i, "transaction %d was not sent", i)

	a, err := e.Artifacts.Get(name)
	require.NoError(t, err)

	method, args, err := chaintest.Decode(a.ABI, sent[i])
	require.NoError(t, err)
	return method, args
}
