package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/deployer"
	"github.com/squidgame/squid-ops/internal/registry"
	"go.uber.org/zap"
)

// Verifier submits implementation sources to a block explorer.
type Verifier interface {
	VerifyImplementation(ctx context.Context, address common.Address, contractName string) error
	VerifyProxy(ctx context.Context, proxy common.Address) error
}

type Options struct {
	Binder   *contract.Binder
	Deployer *deployer.Deployer
	Registry *registry.Registry
	Verifier Verifier

	// IdsFile lists the voucher token ids of the claimer deployment.
	IdsFile string
	// VerifyKeys are the registry proxy keys verified by the verify task.
	VerifyKeys []string

	Now func() time.Time
}

// Runner carries everything a task needs: bound contracts, the proxy
// deployer and the address registry, all sharing one signing session.
type Runner struct {
	binder   *contract.Binder
	deployer *deployer.Deployer
	registry *registry.Registry
	verifier Verifier

	idsFile    string
	verifyKeys []string
	now        func() time.Time
}

func NewRunner(o Options) *Runner {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Deployer == nil {
		o.Deployer = deployer.New(o.Binder, deployer.Transparent)
	}

	return &Runner{
		binder:     o.Binder,
		deployer:   o.Deployer,
		registry:   o.Registry,
		verifier:   o.Verifier,
		idsFile:    o.IdsFile,
		verifyKeys: o.VerifyKeys,
		now:        o.Now,
	}
}

func (r *Runner) Session() *contract.Session {
	return r.binder.Session()
}

func (r *Runner) Binder() *contract.Binder {
	return r.binder
}

func (r *Runner) Registry() *registry.Registry {
	return r.registry
}

func (r *Runner) DryRun() bool {
	return r.Session().DryRun()
}

// Run executes the named task. The first failing step aborts the task.
func (r *Runner) Run(ctx context.Context, name string) error {
	task, err := Get(name)
	if err != nil {
		return err
	}

	return r.RunTask(ctx, task)
}

func (r *Runner) RunTask(ctx context.Context, task Task) error {
	logger := zap.L().With(
		zap.String("task", task.Name),
		zap.String("from", r.Session().From().Hex()),
		zap.Bool("dryRun", r.DryRun()),
	)
	logger.Info("Task: Start")

	if err := r.loadProxyAdmin(ctx); err != nil {
		return err
	}

	start := time.Now()
	if err := task.Run(ctx, r); err != nil {
		logger.With(zap.Error(err)).Error("Task: Failed")
		return fmt.Errorf("%s: %w", task.Name, err)
	}

	logger.With(zap.Duration("elapsed", time.Since(start))).Info("Task: Complete")

	return nil
}

// loadProxyAdmin reuses the ProxyAdmin of earlier transparent deployments.
func (r *Runner) loadProxyAdmin(ctx context.Context) error {
	if r.deployer.Kind() != deployer.Transparent || r.deployer.ProxyAdmin() != (common.Address{}) {
		return nil
	}

	admin, err := r.registry.LookupAddress(ctx, registry.ProxyAdmin)
	if errors.Is(err, registry.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	zap.L().With(zap.String("proxyAdmin", admin.Hex())).Debug("Task: Using registered proxy admin")
	r.deployer.SetProxyAdmin(admin)

	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (common.Address, error) {
	return r.registry.LookupAddress(ctx, key)
}

func (r *Runner) busNFT(ctx context.Context) (*contract.SquidBusNFT, error) {
	address, err := r.lookup(ctx, registry.ProxySquidBusNFT)
	if err != nil {
		return nil, err
	}
	return r.binder.SquidBusNFT(address)
}

func (r *Runner) playerNFT(ctx context.Context) (*contract.SquidPlayerNFT, error) {
	address, err := r.lookup(ctx, registry.ProxySquidPlayerNFT)
	if err != nil {
		return nil, err
	}
	return r.binder.SquidPlayerNFT(address)
}

func (r *Runner) game(ctx context.Context) (*contract.MainSquidGame, error) {
	address, err := r.lookup(ctx, registry.ProxyMainSquidGame)
	if err != nil {
		return nil, err
	}
	return r.binder.MainSquidGame(address)
}

func (r *Runner) minter(ctx context.Context) (*contract.NFTMinter, error) {
	address, err := r.lookup(ctx, registry.ProxyNFTMinter)
	if err != nil {
		return nil, err
	}
	return r.binder.NFTMinter(address)
}

func (r *Runner) latestTimestamp(ctx context.Context) (uint64, error) {
	block, err := r.Session().Chain().LatestBlock(ctx)
	if err != nil {
		return 0, err
	}
	return block.Timestamp, nil
}

// save writes a deployment record. Dry runs only log what would be written.
func (r *Runner) save(ctx context.Context, file string, rec *registry.Record) error {
	if r.DryRun() {
		zap.L().With(zap.String("file", file), zap.Strings("keys", rec.Keys())).Info("Dry run: registry not written")
		return nil
	}

	if err := r.registry.Save(ctx, file, rec); err != nil {
		return err
	}
	zap.L().With(zap.String("file", file)).Info("Registry: Saved")

	return nil
}

// record sets the given keys in their canonical file, keeping the others.
func (r *Runner) record(ctx context.Context, values map[string]common.Address) error {
	byFile := map[string][]string{}
	for key := range values {
		file, ok := registry.CanonicalFile(key)
		if !ok {
			return fmt.Errorf("no registry file for key %s", key)
		}
		byFile[file] = append(byFile[file], key)
	}

	for _, file := range registry.Files {
		keys, ok := byFile[file]
		if !ok {
			continue
		}
		if r.DryRun() {
			zap.L().With(zap.String("file", file), zap.Strings("keys", keys)).Info("Dry run: registry not written")
			continue
		}
		err := r.registry.Update(ctx, file, func(rec *registry.Record) {
			for _, key := range keys {
				rec.SetAddress(key, values[key])
			}
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// upgrade points the proxy registered under proxyKey at a new build of name
// and records the implementation under impKey.
func (r *Runner) upgrade(ctx context.Context, proxyKey, impKey, name string, gasLimit uint64) (common.Address, error) {
	proxy, err := r.lookup(ctx, proxyKey)
	if err != nil {
		return common.Address{}, err
	}

	impl, err := r.deployer.UpgradeProxyWith(ctx, contract.TxOptions{GasLimit: gasLimit}, proxy, name)
	if err != nil {
		return common.Address{}, err
	}

	return proxy, r.record(ctx, map[string]common.Address{impKey: impl})
}
