package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/deployer"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/squid"
	"go.uber.org/zap"
)

func init() {
	Register(Task{Name: "deploy-nft", Description: "Deploy the SquidBusNFT and SquidPlayerNFT proxies", Run: deployNFT})
	Register(Task{Name: "deploy-game", Description: "Deploy the MainSquidGame and NFTMinter proxies against the registered NFTs", Run: deployGame})
	Register(Task{Name: "deploy-prod", Description: "Deploy all four proxies with test parameters into the deployment cache", Run: deployProd})
	Register(Task{Name: "deploy-worker-game", Description: "Deploy the SquidWorkerGame proxy and its weekly worker limits", Run: deployWorkerGame})
	Register(Task{
		Name:        "deploy-launchpad",
		Description: "Deploy LaunchpadNftMysteryBoxes and grant it the minter role on both NFTs",
		Run:         deployLaunchpad(contract.LaunchpadNftMysteryBoxesName, registry.Launchpad, squid.LaunchpadDeployGas, squid.Launchpad.ConstructorArgs),
	})
	Register(Task{
		Name:        "deploy-launchpad-v2",
		Description: "Deploy LaunchpadMysteryBoxV2 and grant it the minter role on both NFTs",
		Run:         deployLaunchpad(contract.LaunchpadMysteryBoxV2Name, registry.LaunchpadV2, squid.LaunchpadV2DeployGas, squid.LaunchpadV2.ConstructorArgs),
	})
	Register(Task{Name: "deploy-claimer", Description: "Deploy NFTClaimer, load its voucher ids and grant it the player minter role", Run: deployClaimer})
}

// proxyKeys name the registry entries of one proxied contract.
type proxyKeys struct {
	contract string
	proxy    string
	imp      string
}

var (
	busKeys    = proxyKeys{contract.SquidBusNFTName, registry.ProxySquidBusNFT, registry.ImpSquidBusNFT}
	playerKeys = proxyKeys{contract.SquidPlayerNFTName, registry.ProxySquidPlayerNFT, registry.ImpSquidPlayerNFT}
	gameKeys   = proxyKeys{contract.MainSquidGameName, registry.ProxyMainSquidGame, registry.ImpMainSquidGame}
	minterKeys = proxyKeys{contract.NFTMinterName, registry.ProxyNFTMinter, registry.ImpNFTMinter}
	workerKeys = proxyKeys{contract.SquidWorkerGameName, registry.ProxyStaffWorkGame, registry.ImpStaffWorkGame}

	proxied = []proxyKeys{busKeys, playerKeys, gameKeys, minterKeys, workerKeys}
)

type deployed struct {
	keys proxyKeys
	*deployer.Deployment
}

// deploymentRecord lists the proxies first and the implementations after
// them, stamped with the deployment time.
func (r *Runner) deploymentRecord(deployments ...deployed) *registry.Record {
	rec := registry.NewDeployment(r.now())
	for _, d := range deployments {
		rec.SetAddress(d.keys.proxy, d.Proxy)
	}
	for _, d := range deployments {
		rec.SetAddress(d.keys.imp, d.Implementation)
	}
	if admin := r.deployer.ProxyAdmin(); admin != (common.Address{}) && r.deployer.Kind() == deployer.Transparent {
		rec.SetAddress(registry.ProxyAdmin, admin)
	}

	return rec
}

func (r *Runner) deployProxy(ctx context.Context, keys proxyKeys, initArgs ...interface{}) (deployed, error) {
	d, err := r.deployer.DeployProxy(ctx, keys.contract, initArgs...)
	if err != nil {
		return deployed{}, err
	}
	return deployed{keys: keys, Deployment: d}, nil
}

func deployNFT(ctx context.Context, r *Runner) error {
	bus, err := r.deployProxy(ctx, busKeys, squid.BusNFT.InitArgs()...)
	if err != nil {
		return err
	}
	player, err := r.deployProxy(ctx, playerKeys, squid.PlayerNFT.InitArgs()...)
	if err != nil {
		return err
	}

	return r.save(ctx, registry.NFTFile, r.deploymentRecord(bus, player))
}

func deployGame(ctx context.Context, r *Runner) error {
	bus, err := r.lookup(ctx, registry.ProxySquidBusNFT)
	if err != nil {
		return err
	}
	player, err := r.lookup(ctx, registry.ProxySquidPlayerNFT)
	if err != nil {
		return err
	}

	game, err := r.deployProxy(ctx, gameKeys, squid.Game.InitArgs(bus, player)...)
	if err != nil {
		return err
	}
	minter, err := r.deployProxy(ctx, minterKeys, squid.Minter.InitArgs(bus, player)...)
	if err != nil {
		return err
	}

	return r.save(ctx, registry.GameFile, r.deploymentRecord(game, minter))
}

func deployProd(ctx context.Context, r *Runner) error {
	bus, err := r.deployProxy(ctx, busKeys, squid.BusNFT.InitArgs()...)
	if err != nil {
		return err
	}
	player, err := r.deployProxy(ctx, playerKeys, squid.PlayerNFT.InitArgs()...)
	if err != nil {
		return err
	}
	game, err := r.deployProxy(ctx, gameKeys, squid.TestGame.InitArgs(bus.Proxy, player.Proxy)...)
	if err != nil {
		return err
	}
	minter, err := r.deployProxy(ctx, minterKeys, squid.TestMinter.InitArgs(bus.Proxy, player.Proxy)...)
	if err != nil {
		return err
	}

	return r.save(ctx, registry.CacheFile, r.deploymentRecord(bus, player, game, minter))
}

func deployWorkerGame(ctx context.Context, r *Runner) error {
	worker, err := r.deployProxy(ctx, workerKeys, squid.WorkerGame.InitArgs()...)
	if err != nil {
		return err
	}

	workerGame, err := r.binder.SquidWorkerGame(worker.Proxy)
	if err != nil {
		return err
	}
	if _, err := workerGame.SetWeeklyWorkersLimit(ctx, squid.WeeklyWorkersLimits()); err != nil {
		return err
	}

	return r.save(ctx, registry.WorkerGameFile, r.deploymentRecord(worker))
}

func deployLaunchpad(name, key string, gasLimit uint64, args func(player, bus common.Address) []interface{}) func(context.Context, *Runner) error {
	return func(ctx context.Context, r *Runner) error {
		bus, err := r.busNFT(ctx)
		if err != nil {
			return err
		}
		player, err := r.playerNFT(ctx)
		if err != nil {
			return err
		}

		launchpad, err := r.deployer.DeployWith(ctx, contract.TxOptions{GasLimit: gasLimit}, name, args(player.Address, bus.Address)...)
		if err != nil {
			return err
		}

		if _, err := bus.GrantRole(ctx, squid.TokenMinterRole, launchpad); err != nil {
			return err
		}
		if _, err := player.GrantRole(ctx, squid.TokenMinterRole, launchpad); err != nil {
			return err
		}

		return r.record(ctx, map[string]common.Address{key: launchpad})
	}
}

type voucherIds struct {
	TokenIds []uint64 `json:"tokenIds"`
}

// ReadVoucherIds loads the {"tokenIds": [...]} file of the claimer.
func ReadVoucherIds(path string) ([]uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ids voucherIds
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ids.TokenIds, nil
}

func deployClaimer(ctx context.Context, r *Runner) error {
	ids, err := ReadVoucherIds(r.idsFile)
	if err != nil {
		return err
	}

	player, err := r.playerNFT(ctx)
	if err != nil {
		return err
	}

	address, err := r.deployer.DeployWith(ctx, contract.TxOptions{GasLimit: squid.ClaimerDeployGas}, contract.NFTClaimerName, player.Address, squid.BinanceNFT)
	if err != nil {
		return err
	}
	claimer, err := r.binder.NFTClaimer(address)
	if err != nil {
		return err
	}

	if _, err := claimer.RecordSalt(ctx, squid.ClaimerDeployGas); err != nil {
		return err
	}

	chunks := squid.Chunks(ids, squid.ClaimerVouchersChunk)
	for i, chunk := range chunks {
		if _, err := claimer.SetVouchersId(ctx, squid.ClaimerVouchersGas, chunk); err != nil {
			return err
		}
		zap.L().With(zap.Int("chunk", i+1), zap.Int("of", len(chunks)), zap.Int("ids", len(chunk))).Info("Claimer: Voucher ids set")
	}

	role, err := player.TokenMinterRole(ctx)
	if err != nil {
		return err
	}
	if _, err := player.TransactWith(ctx, contract.TxOptions{GasLimit: squid.ClaimerDeployGas}, "grantRole", role, address); err != nil {
		return err
	}

	return r.record(ctx, map[string]common.Address{registry.NFTClaimer: address})
}
