package plan_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/abiconv"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/contract/contracttest"
	"github.com/squidgame/squid-ops/internal/deployer"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/internal/migration"
	"github.com/squidgame/squid-ops/internal/plan"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/squid"
	"github.com/squidgame/squid-ops/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gameProxy   = common.HexToAddress("0x3000000000000000000000000000000000000003")
	minterProxy = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

const rewardsPlan = `name: Reward tokens 0104
description: BSW rewards for the first game
steps:
  - contract: MainSquidGame
    registryKey: proxy_mainSquidGame
    method: setRewardTokensToGame
    args:
      - 0
      - - token: "0x965f527d9159dce6288a2219db51fc6eef120dd1"
          rewardInUSD: 0
          rewardInToken: "731e16"
  - contract: NFTMinter
    address: "0x4000000000000000000000000000000000000004"
    method: setPeriodLimitPlayers
    args: [500, true]
    gasLimit: 1000000
`

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner(t *testing.T, cfg contract.SessionConfig) (*contracttest.Env, *migration.Runner) {
	t.Helper()

	cfg.WaitReceipts = true
	env := contracttest.NewEnv(t, cfg, 0)
	reg := registry.New(registry.NewFileStore(t.TempDir()))
	require.NoError(t, reg.Update(context.Background(), registry.GameFile, func(rec *registry.Record) {
		rec.SetAddress(registry.ProxyMainSquidGame, gameProxy)
		rec.SetAddress(registry.ProxyNFTMinter, minterProxy)
	}))

	return env, migration.NewRunner(migration.Options{
		Binder:   env.Binder,
		Deployer: deployer.New(env.Binder, deployer.UUPS),
		Registry: reg,
		Now:      func() time.Time { return time.Unix(1650000000, 0) },
	})
}

func TestLoadYaml(t *testing.T) {
	p, err := plan.Load(writePlan(t, "rewards.yaml", rewardsPlan))
	require.NoError(t, err)

	assert.Equal(t, "Reward tokens 0104", p.Name)
	assert.Equal(t, "reward-tokens-0104", p.Task().Name)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, registry.ProxyMainSquidGame, p.Steps[0].RegistryKey)
	assert.Equal(t, uint64(1000000), p.Steps[1].GasLimit)

	tuples := p.Steps[0].Args[1].([]interface{})
	_, ok := tuples[0].(map[string]interface{})
	assert.True(t, ok, "tuple components are string keyed")
}

func TestLoadJsonNamesPlanAfterFile(t *testing.T) {
	path := writePlan(t, "disable-contracts.json", `{
  "steps": [
    {"contract": "MainSquidGame", "registryKey": "proxy_mainSquidGame", "method": "changePlayerContract", "args": [2, [0, 0, false]]}
  ]
}`)

	p, err := plan.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "disable-contracts", p.Name)
	assert.Len(t, p.Steps, 1)
}

func TestValidate(t *testing.T) {
	cases := map[string]plan.Plan{
		"no steps":    {Name: "empty"},
		"no contract": {Steps: []plan.Step{{Method: "enableGame", Address: minterProxy.Hex()}}},
		"no method":   {Steps: []plan.Step{{Contract: "MainSquidGame", Address: minterProxy.Hex()}}},
		"no target":   {Steps: []plan.Step{{Contract: "MainSquidGame", Method: "enableGame"}}},
		"two targets": {Steps: []plan.Step{{Contract: "MainSquidGame", Method: "enableGame", Address: minterProxy.Hex(), RegistryKey: "proxy_mainSquidGame"}}},
		"bad address": {Steps: []plan.Step{{Contract: "MainSquidGame", Method: "enableGame", Address: "0x12"}}},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Validate(), plan.ErrInvalid)
		})
	}
}

func TestApply(t *testing.T) {
	env, runner := newRunner(t, contract.SessionConfig{})
	p, err := plan.Load(writePlan(t, "rewards.yml", rewardsPlan))
	require.NoError(t, err)

	require.NoError(t, runner.RunTask(context.Background(), p.Task()))

	sent := env.Backend.Sent()
	require.Len(t, sent, 2)

	assert.Equal(t, gameProxy, *sent[0].To())
	method, args := env.Decode(t, 0, contract.MainSquidGameName)
	assert.Equal(t, "setRewardTokensToGame", method)
	assert.Equal(t, big.NewInt(0).Int64(), args[0].(*big.Int).Int64())

	var rewards []entity.RewardToken
	require.NoError(t, abiconv.Assign(&rewards, args[1]))
	require.Len(t, rewards, 1)
	assert.Equal(t, squid.BSW, rewards[0].Token)
	assert.Equal(t, units.ToBN(731, 16), rewards[0].RewardInToken)

	assert.Equal(t, minterProxy, *sent[1].To())
	assert.Equal(t, uint64(1000000), sent[1].Gas())
	method, args = env.Decode(t, 1, contract.NFTMinterName)
	assert.Equal(t, "setPeriodLimitPlayers", method)
	assert.Equal(t, []interface{}{big.NewInt(500), true}, args)
}

func TestApplyStopsAtFirstBadStep(t *testing.T) {
	env, runner := newRunner(t, contract.SessionConfig{})
	p := &plan.Plan{Name: "broken", Steps: []plan.Step{
		{Contract: contract.MainSquidGameName, RegistryKey: registry.ProxyMainSquidGame, Method: "enableGame", Args: []interface{}{1}},
		{Contract: contract.MainSquidGameName, RegistryKey: registry.NFTClaimer, Method: "enableGame", Args: []interface{}{2}},
		{Contract: contract.MainSquidGameName, RegistryKey: registry.ProxyMainSquidGame, Method: "enableGame", Args: []interface{}{3}},
	}}

	err := runner.RunTask(context.Background(), p.Task())
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, env.Backend.Sent(), 1)
}

func TestApplyDryRun(t *testing.T) {
	env, runner := newRunner(t, contract.SessionConfig{DryRun: true})
	p, err := plan.Load(writePlan(t, "rewards.yaml", rewardsPlan))
	require.NoError(t, err)

	require.NoError(t, runner.RunTask(context.Background(), p.Task()))

	assert.Empty(t, env.Backend.Sent())
	planned := env.Session.Planned()
	require.Len(t, planned, 2)
	assert.Equal(t, "setRewardTokensToGame", planned[0].Method)
	assert.Equal(t, minterProxy, planned[1].Address)
}
