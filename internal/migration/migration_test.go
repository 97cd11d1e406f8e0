package migration_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/squidgame/squid-ops/internal/abiconv"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/contract/contracttest"
	"github.com/squidgame/squid-ops/internal/deployer"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/internal/migration"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/squid"
	"github.com/squidgame/squid-ops/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	busProxy    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	playerProxy = common.HexToAddress("0x2000000000000000000000000000000000000002")
	gameProxy   = common.HexToAddress("0x3000000000000000000000000000000000000003")
	minterProxy = common.HexToAddress("0x4000000000000000000000000000000000000004")
	proxyAdmin  = common.HexToAddress("0x5000000000000000000000000000000000000005")

	deployTime = time.Date(2022, 3, 16, 10, 0, 0, 0, time.UTC)
)

type harness struct {
	*contracttest.Env
	dir      string
	registry *registry.Registry
	runner   *migration.Runner
}

type options struct {
	kind     deployer.Kind
	verifier migration.Verifier
	idsFile  string
}

func newHarness(t *testing.T, cfg contract.SessionConfig, o options) *harness {
	t.Helper()

	if o.kind == "" {
		o.kind = deployer.Transparent
	}
	cfg.WaitReceipts = true

	env := contracttest.NewEnv(t, cfg, 0)
	dir := t.TempDir()
	reg := registry.New(registry.NewFileStore(dir))

	runner := migration.NewRunner(migration.Options{
		Binder:     env.Binder,
		Deployer:   deployer.New(env.Binder, o.kind),
		Registry:   reg,
		Verifier:   o.verifier,
		IdsFile:    o.idsFile,
		VerifyKeys: []string{registry.ProxyMainSquidGame},
		Now:        func() time.Time { return deployTime },
	})

	return &harness{Env: env, dir: dir, registry: reg, runner: runner}
}

// seed writes the NFT and game registry files of an existing deployment.
func (h *harness) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	nft := registry.NewDeployment(deployTime)
	nft.SetAddress(registry.ProxySquidBusNFT, busProxy)
	nft.SetAddress(registry.ProxySquidPlayerNFT, playerProxy)
	nft.SetAddress(registry.ProxyAdmin, proxyAdmin)
	require.NoError(t, h.registry.Save(ctx, registry.NFTFile, nft))

	game := registry.NewDeployment(deployTime)
	game.SetAddress(registry.ProxyMainSquidGame, gameProxy)
	game.SetAddress(registry.ProxyNFTMinter, minterProxy)
	require.NoError(t, h.registry.Save(ctx, registry.GameFile, game))
}

func (h *harness) abi(t *testing.T, name string) abi.ABI {
	t.Helper()
	a, err := h.Artifacts.Get(name)
	require.NoError(t, err)
	return a.ABI
}

// call decodes a sent call and drops the overload suffix of its method name.
func (h *harness) call(t *testing.T, i int, name string) (string, []interface{}) {
	t.Helper()
	method, args := h.Decode(t, i, name)
	return strings.TrimRight(method, "0123456789"), args
}

func (h *harness) address(t *testing.T, file, key string) common.Address {
	t.Helper()
	address, err := h.registry.Address(context.Background(), file, key)
	require.NoError(t, err)
	return address
}

func (h *harness) created(nonce uint64) common.Address {
	return crypto.CreateAddress(h.From, nonce)
}

func proxyInitArgs(t *testing.T, h *harness, i int, proxyName, implName string) []interface{} {
	t.Helper()

	proxy, err := h.Artifacts.Get(proxyName)
	require.NoError(t, err)
	code, err := proxy.Code()
	require.NoError(t, err)

	tx := h.Backend.Sent()[i]
	require.Nil(t, tx.To())
	ctorArgs, err := proxy.ABI.Constructor.Inputs.Unpack(tx.Data()[len(code):])
	require.NoError(t, err)

	data := ctorArgs[len(ctorArgs)-1].([]byte)
	implABI := h.abi(t, implName)
	method, err := implABI.MethodById(data[:4])
	require.NoError(t, err)
	assert.Equal(t, "initialize", strings.TrimRight(method.Name, "0123456789"))

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	return args
}

func TestTaskRegistry(t *testing.T) {
	names := make([]string, 0)
	for _, task := range migration.List() {
		names = append(names, task.Name)
		assert.NotEmpty(t, task.Description, task.Name)
	}

	for _, name := range []string{
		"deploy-nft", "deploy-game", "deploy-prod", "deploy-worker-game", "deploy-launchpad", "deploy-launchpad-v2",
		"deploy-claimer", "claimer-chance-table", "setup-roles", "upgrade-bus", "upgrade-player", "upgrade-game",
		"upgrade-minter", "upgrade-worker-game", "upgrade-game-contracts-limit", "upgrade-gamefi-v2",
		"gamefi-changes-2602", "game-params-0102", "game-params-1502", "game-params-2002", "game-params-2802",
		"game-params-2303", "game-params-1204", "game-params-1205", "change-reward-tokens", "mint-players",
		"mint-players-160322", "verify",
	} {
		assert.Contains(t, names, name)
	}
	assert.IsIncreasing(t, names)

	task, err := migration.Get("Deploy NFT")
	require.NoError(t, err)
	assert.Equal(t, "deploy-nft", task.Name)

	_, err = migration.Get("deploy-everything")
	assert.ErrorIs(t, err, migration.ErrUnknown)
}

func TestDeployNFTTransparent(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})

	require.NoError(t, h.runner.Run(context.Background(), "deploy-nft"))

	// bus impl, proxy admin, bus proxy, player impl, player proxy
	require.Len(t, h.Backend.Sent(), 5)
	assert.Equal(t, h.created(2), h.address(t, registry.NFTFile, registry.ProxySquidBusNFT))
	assert.Equal(t, h.created(0), h.address(t, registry.NFTFile, registry.ImpSquidBusNFT))
	assert.Equal(t, h.created(4), h.address(t, registry.NFTFile, registry.ProxySquidPlayerNFT))
	assert.Equal(t, h.created(3), h.address(t, registry.NFTFile, registry.ImpSquidPlayerNFT))
	assert.Equal(t, h.created(1), h.address(t, registry.NFTFile, registry.ProxyAdmin))

	rec, err := h.registry.Load(context.Background(), registry.NFTFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		registry.KeyDeployTime,
		registry.ProxySquidBusNFT, registry.ProxySquidPlayerNFT,
		registry.ImpSquidBusNFT, registry.ImpSquidPlayerNFT,
		registry.ProxyAdmin,
	}, rec.Keys())

	bus := proxyInitArgs(t, h, 2, contract.TransparentUpgradeableProxyName, contract.SquidBusNFTName)
	assert.Equal(t, "", bus[0])
	assert.EqualValues(t, 5, bus[1])
	assert.Equal(t, big.NewInt(1800), bus[4])

	player := proxyInitArgs(t, h, 4, contract.TransparentUpgradeableProxyName, contract.SquidPlayerNFTName)
	require.Len(t, player, 4)
	assert.Equal(t, big.NewInt(100), player[1])
	assert.Equal(t, big.NewInt(2700), player[2])
	assert.Equal(t, true, player[3])
}

func TestDeployNFTUUPS(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})

	require.NoError(t, h.runner.Run(context.Background(), "deploy-nft"))

	require.Len(t, h.Backend.Sent(), 4)
	assert.Equal(t, h.created(1), h.address(t, registry.NFTFile, registry.ProxySquidBusNFT))
	assert.Equal(t, h.created(3), h.address(t, registry.NFTFile, registry.ProxySquidPlayerNFT))

	rec, err := h.registry.Load(context.Background(), registry.NFTFile)
	require.NoError(t, err)
	assert.False(t, rec.Has(registry.ProxyAdmin))
}

func TestDeployGameReusesRegisteredAdmin(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "deploy-game"))

	// game impl, game proxy, minter impl, minter proxy
	require.Len(t, h.Backend.Sent(), 4)
	assert.Equal(t, h.created(1), h.address(t, registry.GameFile, registry.ProxyMainSquidGame))
	assert.Equal(t, h.created(3), h.address(t, registry.GameFile, registry.ProxyNFTMinter))
	assert.Equal(t, proxyAdmin, h.address(t, registry.GameFile, registry.ProxyAdmin))

	game := proxyInitArgs(t, h, 1, contract.TransparentUpgradeableProxyName, contract.MainSquidGameName)
	require.Len(t, game, 9)
	assert.Equal(t, squid.USDT, game[0])
	assert.Equal(t, busProxy, game[2])
	assert.Equal(t, playerProxy, game[3])
	assert.Equal(t, squid.GameTreasury, game[7])
	assert.Equal(t, big.NewInt(48*3600), game[8])

	minter := proxyInitArgs(t, h, 3, contract.TransparentUpgradeableProxyName, contract.NFTMinterName)
	require.Len(t, minter, 9)
	assert.Equal(t, busProxy, minter[2])
	assert.Equal(t, units.ToWei(30), minter[7])
}

func TestDeployGameNeedsNFTs(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})

	err := h.runner.Run(context.Background(), "deploy-game")
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Empty(t, h.Backend.Sent())
}

func TestDeployProdWritesCache(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})

	require.NoError(t, h.runner.Run(context.Background(), "deploy-prod"))

	require.Len(t, h.Backend.Sent(), 8)
	rec, err := h.registry.Load(context.Background(), registry.CacheFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		registry.KeyDeployTime,
		registry.ProxySquidBusNFT, registry.ProxySquidPlayerNFT, registry.ProxyMainSquidGame, registry.ProxyNFTMinter,
		registry.ImpSquidBusNFT, registry.ImpSquidPlayerNFT, registry.ImpMainSquidGame, registry.ImpNFTMinter,
	}, rec.Keys())

	game := proxyInitArgs(t, h, 5, contract.ERC1967ProxyName, contract.MainSquidGameName)
	assert.Equal(t, h.created(1), game[2])
	assert.Equal(t, squid.TestTreasury, game[7])
	assert.Equal(t, big.NewInt(300), game[8])
}

func TestDeployWorkerGame(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})

	require.NoError(t, h.runner.Run(context.Background(), "deploy-worker-game"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3)
	proxy := h.address(t, registry.WorkerGameFile, registry.ProxyStaffWorkGame)
	assert.Equal(t, h.created(1), proxy)
	assert.Equal(t, proxy, *sent[2].To())

	method, args := h.call(t, 2, contract.SquidWorkerGameName)
	assert.Equal(t, "setWeeklyWorkersLimit", method)
	weeks, limits := squid.WeeklyWorkersLimits().Split()
	assert.Equal(t, len(weeks), len(args[0].([]*big.Int)))
	assert.Equal(t, len(limits), len(args[1].([]*big.Int)))
}

func TestDeployLaunchpadGrantsMinterRoles(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "deploy-launchpad-v2"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, uint64(squid.LaunchpadV2DeployGas), sent[0].Gas())
	launchpad := h.created(0)

	for i, target := range []common.Address{busProxy, playerProxy} {
		assert.Equal(t, target, *sent[i+1].To())
		method, args := h.call(t, i+1, contract.SquidBusNFTName)
		assert.Equal(t, "grantRole", method)
		assert.Equal(t, [32]byte(squid.TokenMinterRole), args[0])
		assert.Equal(t, launchpad, args[1])
	}

	assert.Equal(t, launchpad, h.address(t, registry.LaunchpadFile, registry.LaunchpadV2))
	// other files are left alone
	assert.Equal(t, busProxy, h.address(t, registry.NFTFile, registry.ProxySquidBusNFT))
}

func TestDeployClaimer(t *testing.T) {
	ids := make([]string, 1200)
	for i := range ids {
		ids[i] = big.NewInt(int64(i + 1)).String()
	}
	idsFile := filepath.Join(t.TempDir(), "ids.json")
	require.NoError(t, os.WriteFile(idsFile, []byte(`{"tokenIds": [`+strings.Join(ids, ",")+`]}`), 0o644))

	h := newHarness(t, contract.SessionConfig{}, options{idsFile: idsFile})
	h.seed(t)
	h.Backend.Mock(playerProxy, h.abi(t, contract.SquidPlayerNFTName), "TOKEN_MINTER_ROLE", squid.TokenMinterRole)

	require.NoError(t, h.runner.Run(context.Background(), "deploy-claimer"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 6)
	claimer := h.created(0)

	gas := make([]uint64, len(sent))
	for i, tx := range sent {
		gas[i] = tx.Gas()
	}
	assert.Equal(t, []uint64{5000000, 5000000, 12000000, 12000000, 12000000, 5000000}, gas)

	method, _ := h.call(t, 1, contract.NFTClaimerName)
	assert.Equal(t, "recordSalt", method)

	var chunkSizes []int
	for i := 2; i < 5; i++ {
		method, args := h.call(t, i, contract.NFTClaimerName)
		assert.Equal(t, "setVouchersId", method)
		chunkSizes = append(chunkSizes, len(args[0].([]*big.Int)))
	}
	assert.Equal(t, []int{500, 500, 200}, chunkSizes)

	method, args := h.call(t, 5, contract.SquidPlayerNFTName)
	assert.Equal(t, "grantRole", method)
	assert.Equal(t, claimer, args[1])

	assert.Equal(t, claimer, h.address(t, registry.ClaimerFile, registry.NFTClaimer))
}

func TestReadVoucherIds(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ids.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"tokenIds": [3, 1, 2]}`), 0o644))

	ids, err := migration.ReadVoucherIds(file)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, ids)

	_, err = migration.ReadVoucherIds(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupRoles(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "setup-roles"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3+3+3+7)

	type step struct {
		to     common.Address
		abi    string
		method string
	}
	steps := []step{
		{busProxy, contract.SquidBusNFTName, "grantRole"},
		{playerProxy, contract.SquidPlayerNFTName, "grantRole"},
		{playerProxy, contract.SquidPlayerNFTName, "grantRole"},
		{gameProxy, contract.MainSquidGameName, "setWithdrawalFee"},
		{minterProxy, contract.NFTMinterName, "setPeriodLimitPlayers"},
		{playerProxy, contract.SquidPlayerNFTName, "setSeDivide"},
	}
	for i, s := range steps {
		assert.Equal(t, s.to, *sent[i].To(), "step %d", i)
		method, _ := h.call(t, i, s.abi)
		assert.Equal(t, s.method, method, "step %d", i)
		assert.Equal(t, uint64(i), sent[i].Nonce())
	}

	_, args := h.call(t, 2, contract.SquidPlayerNFTName)
	assert.Equal(t, [32]byte(squid.GameRole), args[0])
	assert.Equal(t, gameProxy, args[1])

	_, args = h.call(t, 5, contract.SquidPlayerNFTName)
	assert.Equal(t, []interface{}{true, big.NewInt(100), big.NewInt(45 * 24 * 3600)}, args)

	for i := 6; i < 9; i++ {
		method, _ := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "addPlayerContract", method)
	}
	for i := 9; i < 16; i++ {
		method, _ := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "addNewGame", method)
	}
}

func TestTaskAbortsOnFirstRevert(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)
	h.Backend.RevertWhen(func(*types.Transaction) bool { return true })

	err := h.runner.Run(context.Background(), "setup-roles")
	assert.ErrorIs(t, err, chain.ErrReverted)
	assert.Contains(t, err.Error(), "setup-roles")
	assert.Len(t, h.Backend.Sent(), 1)
}

func TestUpgradePlayerSetsMintLock(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)
	h.Backend.SetHead(100, 1650000000)

	require.NoError(t, h.runner.Run(context.Background(), "upgrade-player"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3)
	impl := h.created(0)

	assert.Equal(t, proxyAdmin, *sent[1].To())
	method, args := h.call(t, 1, contract.ProxyAdminName)
	assert.Equal(t, "upgrade", method)
	assert.Equal(t, []interface{}{playerProxy, impl}, args)

	method, args = h.call(t, 2, contract.SquidPlayerNFTName)
	assert.Equal(t, "setMintLockTime", method)
	assert.Equal(t, []interface{}{big.NewInt(7 * 24 * 3600), big.NewInt(1650000000)}, args)
	assert.Equal(t, uint64(5000000), sent[2].Gas())

	assert.Equal(t, impl, h.address(t, registry.NFTFile, registry.ImpSquidPlayerNFT))
	assert.Equal(t, playerProxy, h.address(t, registry.NFTFile, registry.ProxySquidPlayerNFT))
}

func TestUpgradeUUPSReadsNoAdmin(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "upgrade-game"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, gameProxy, *sent[1].To())
	method, args := h.call(t, 1, contract.MainSquidGameName)
	assert.Equal(t, "upgradeTo", method)
	assert.Equal(t, h.created(0), args[0])
}

func TestUpgradeGameFiV2(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "upgrade-gamefi-v2"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 6+2+7+7)

	for i := 6; i < 8; i++ {
		_, args := h.call(t, i, contract.MainSquidGameName)
		require.Len(t, args, 2)
		assert.Equal(t, big.NewInt(2), args[1])
	}
	for i := 8; i < 15; i++ {
		method, args := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "addNewGame", method)
		assert.Equal(t, big.NewInt(2), args[1])
	}
	for i := 15; i < 22; i++ {
		method, args := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "setGameParameters", method)
		require.Len(t, args, 3)
		assert.Equal(t, big.NewInt(int64(i-15)), args[0])
		assert.Equal(t, big.NewInt(1), args[2])
	}
}

func TestGameParams0102(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{kind: deployer.UUPS})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "game-params-0102"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 2+1+3+7)
	assert.Equal(t, uint64(3000000), sent[0].Gas())

	method, args := h.call(t, 2, contract.MainSquidGameName)
	assert.Equal(t, "setAutoBsw", method)
	assert.Equal(t, squid.HolderPool, args[0])

	for i := 6; i < 13; i++ {
		method, args := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "setGameParameters", method)
		assert.Len(t, args, 4)
	}
}

func TestGameParams2002(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "game-params-2002"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 1+7+1)

	method, args := h.call(t, 0, contract.MainSquidGameName)
	assert.Equal(t, "changePlayerContract", method)
	assert.Equal(t, big.NewInt(squid.SixtyDayContract), args[0])

	for i := 1; i < 8; i++ {
		method, _ := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "setRewardTokensToGame", method)
	}

	assert.Equal(t, minterProxy, *sent[8].To())
	method, args = h.call(t, 8, contract.NFTMinterName)
	assert.Equal(t, "setPeriodLimitPlayers", method)
	assert.Equal(t, []interface{}{big.NewInt(500), true}, args)
}

func (h *harness) lookup(t *testing.T, key string) common.Address {
	t.Helper()
	address, err := h.registry.LookupAddress(context.Background(), key)
	require.NoError(t, err)
	return address
}

// assertPlayerContracts checks that sent[from:] changes the player contracts
// at indexes 0.. to want.
func (h *harness) assertPlayerContracts(t *testing.T, from int, want []entity.PlayerContract) {
	t.Helper()
	for i, pc := range want {
		assert.Equal(t, gameProxy, *h.Backend.Sent()[from+i].To())
		method, args := h.call(t, from+i, contract.MainSquidGameName)
		assert.Equal(t, "changePlayerContract", method)
		assert.Equal(t, big.NewInt(int64(i)), args[0])

		var sent entity.PlayerContract
		require.NoError(t, abiconv.Assign(&sent, args[1]))
		assert.Equal(t, pc.String(), sent.String(), "player contract %d", i)
	}
}

func rewardsString(r entity.RewardTokens) []string {
	out := make([]string, len(r))
	for i, token := range r {
		out[i] = token.Token.Hex() + " usd=" + orZero(token.RewardInUSD) + " token=" + orZero(token.RewardInToken)
	}
	return out
}

func orZero(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func TestGameFiChanges2602(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "gamefi-changes-2602"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3*2+3+1)

	upgrades := []struct {
		proxy  common.Address
		impKey string
	}{
		{playerProxy, registry.ImpSquidPlayerNFT},
		{gameProxy, registry.ImpMainSquidGame},
		{minterProxy, registry.ImpNFTMinter},
	}
	for i, u := range upgrades {
		impl := h.created(uint64(2 * i))
		require.Nil(t, sent[2*i].To(), "implementation %d", i)

		assert.Equal(t, proxyAdmin, *sent[2*i+1].To())
		method, args := h.call(t, 2*i+1, contract.ProxyAdminName)
		assert.Equal(t, "upgrade", method)
		assert.Equal(t, []interface{}{u.proxy, impl}, args)
		assert.Equal(t, impl, h.lookup(t, u.impKey))
	}

	h.assertPlayerContracts(t, 6, squid.PlayerContracts2602)

	assert.Equal(t, minterProxy, *sent[9].To())
	method, args := h.call(t, 9, contract.NFTMinterName)
	assert.Equal(t, "setPeriodLimitPlayers", method)
	assert.Equal(t, []interface{}{big.NewInt(0), true}, args)
}

func TestUpgradeGameContractsLimit(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "upgrade-game-contracts-limit"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 3)

	method, args := h.call(t, 1, contract.ProxyAdminName)
	assert.Equal(t, "upgrade", method)
	assert.Equal(t, []interface{}{gameProxy, h.created(0)}, args)

	assert.Equal(t, gameProxy, *sent[2].To())
	method, args = h.call(t, 2, contract.MainSquidGameName)
	assert.Equal(t, "setPeriodLimitContracts", method)
	assert.Equal(t, []interface{}{big.NewInt(1000000), true}, args)
	assert.Equal(t, uint64(5000000), sent[2].Gas())
}

func TestGameParams1502(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "game-params-1502"))

	require.Len(t, h.Backend.Sent(), 3)
	h.assertPlayerContracts(t, 0, squid.PlayerContracts1502)
}

func TestRewardTokenTasks(t *testing.T) {
	tasks := map[string][]entity.RewardTokens{
		"game-params-2303":     squid.RewardTokens2303(),
		"change-reward-tokens": squid.RewardTokens(),
	}

	for name, want := range tasks {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, contract.SessionConfig{}, options{})
			h.seed(t)

			require.NoError(t, h.runner.Run(context.Background(), name))

			require.Len(t, h.Backend.Sent(), len(want))
			for i, tokens := range want {
				method, args := h.call(t, i, contract.MainSquidGameName)
				assert.Equal(t, "setRewardTokensToGame", method)
				assert.Equal(t, big.NewInt(int64(i)), args[0])

				var sent entity.RewardTokens
				require.NoError(t, abiconv.Assign(&sent, args[1]))
				assert.Equal(t, rewardsString(tokens), rewardsString(sent), "game %d", i)
			}
		})
	}
}

func TestV1GameTasks(t *testing.T) {
	tasks := map[string][]entity.Game{
		"game-params-1204": squid.Games1204(),
		"game-params-1205": squid.Games1205(),
	}

	for name, want := range tasks {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, contract.SessionConfig{}, options{})
			h.seed(t)

			require.NoError(t, h.runner.Run(context.Background(), name))

			require.Len(t, h.Backend.Sent(), len(want))
			for i, g := range want {
				method, args := h.call(t, i, contract.MainSquidGameName)
				assert.Equal(t, "setGameParameters", method)
				require.Len(t, args, 3)
				assert.Equal(t, big.NewInt(int64(i)), args[0])
				assert.Equal(t, big.NewInt(squid.GameVersion1), args[2])

				var sent entity.Game
				require.NoError(t, abiconv.Assign(&sent, args[1]))
				assert.Equal(t, g.Name, sent.Name)
				assert.Equal(t, g.ChanceToWin, sent.ChanceToWin)
				assert.Equal(t, 0, g.MinSeAmount.Cmp(sent.MinSeAmount), g.Name)
				assert.Equal(t, 0, g.MinStakeAmount.Cmp(sent.MinStakeAmount), g.Name)
				assert.Equal(t, rewardsString(g.RewardTokens), rewardsString(sent.RewardTokens), g.Name)
			}
		})
	}
}

func TestDisablePlayerContracts2802(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "game-params-2802"))

	require.Len(t, h.Backend.Sent(), 3)
	for i := 0; i < 3; i++ {
		method, args := h.call(t, i, contract.MainSquidGameName)
		assert.Equal(t, "changePlayerContract", method)
		assert.Equal(t, big.NewInt(int64(i)), args[0])
	}
}

func TestMintPlayers(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)
	h.Backend.SetHead(100, 1650000000)

	require.NoError(t, h.runner.Run(context.Background(), "mint-players"))

	require.Len(t, h.Backend.Sent(), 3)
	for i := 0; i < 3; i++ {
		method, args := h.call(t, i, contract.SquidPlayerNFTName)
		assert.Equal(t, "mint", method)
		assert.Equal(t, squid.PromoPlayerReceive, args[0])
		assert.Equal(t, units.ToWei(1000), args[1])
		assert.Equal(t, uint32(1650000000+15*24*3600), args[2])
		assert.EqualValues(t, 1, args[3])
	}
}

func TestMintPlayers160322GrantsOwner(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	h.seed(t)

	require.NoError(t, h.runner.Run(context.Background(), "mint-players-160322"))

	require.Len(t, h.Backend.Sent(), 5)
	method, args := h.call(t, 0, contract.SquidPlayerNFTName)
	assert.Equal(t, "grantRole", method)
	assert.Equal(t, squid.PromoOwner, args[1])

	_, args = h.call(t, 4, contract.SquidPlayerNFTName)
	assert.Equal(t, units.ToWei(900), args[1])
	assert.Equal(t, uint32(1655385843), args[2])
}

func TestClaimerChanceTable(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})
	claimer := common.HexToAddress("0x6000000000000000000000000000000000000006")
	require.NoError(t, h.registry.Update(context.Background(), registry.ClaimerFile, func(rec *registry.Record) {
		rec.SetAddress(registry.NFTClaimer, claimer)
	}))

	require.NoError(t, h.runner.Run(context.Background(), "claimer-chance-table"))

	sent := h.Backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, claimer, *sent[0].To())
	assert.Equal(t, uint64(1000000), sent[0].Gas())
	method, args := h.call(t, 0, contract.NFTClaimerName)
	assert.Equal(t, "setPlayerChanceTable", method)
	assert.Equal(t, 5, reflect.ValueOf(args[0]).Len())
}

func TestDryRunSendsNothing(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{DryRun: true}, options{})

	require.NoError(t, h.runner.Run(context.Background(), "deploy-nft"))

	assert.Empty(t, h.Backend.Sent())
	planned := h.Session.Planned()
	require.Len(t, planned, 5)
	for i, p := range planned {
		assert.Equal(t, uint64(i), p.Nonce)
	}

	_, err := h.registry.Load(context.Background(), registry.NFTFile)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

type fakeVerifier struct {
	implementations []common.Address
	names           []string
	proxies         []common.Address
}

func (f *fakeVerifier) VerifyImplementation(_ context.Context, address common.Address, name string) error {
	f.implementations = append(f.implementations, address)
	f.names = append(f.names, name)
	return nil
}

func (f *fakeVerifier) VerifyProxy(_ context.Context, proxy common.Address) error {
	f.proxies = append(f.proxies, proxy)
	return nil
}

func TestVerifyResolvesImplementation(t *testing.T) {
	verifier := &fakeVerifier{}
	h := newHarness(t, contract.SessionConfig{}, options{verifier: verifier})
	h.seed(t)
	impl := common.HexToAddress("0x7000000000000000000000000000000000000007")
	h.Backend.SetStorage(gameProxy, chain.ImplementationSlot, common.BytesToHash(impl.Bytes()))

	require.NoError(t, h.runner.Run(context.Background(), "verify"))

	assert.Equal(t, []common.Address{impl}, verifier.implementations)
	assert.Equal(t, []string{contract.MainSquidGameName}, verifier.names)
	assert.Equal(t, []common.Address{gameProxy}, verifier.proxies)
	assert.Empty(t, h.Backend.Sent())
}

func TestVerifyWithoutExplorer(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{})

	err := h.runner.Verify(context.Background(), []string{registry.ProxyMainSquidGame})
	assert.ErrorIs(t, err, migration.ErrNoVerifier)
}

func TestVerifyRejectsNonProxyKey(t *testing.T) {
	h := newHarness(t, contract.SessionConfig{}, options{verifier: &fakeVerifier{}})

	err := h.runner.Verify(context.Background(), []string{registry.NFTClaimer})
	assert.Error(t, err)
}
