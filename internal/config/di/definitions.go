package di

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"github.com/squidgame/squid-ops/internal/artifact"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/config"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/deployer"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/squidgame/squid-ops/internal/explorer"
	"github.com/squidgame/squid-ops/internal/gasreport"
	"github.com/squidgame/squid-ops/internal/inspect"
	"github.com/squidgame/squid-ops/internal/journal"
	"github.com/squidgame/squid-ops/internal/migration"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/server"
	"github.com/squidgame/squid-ops/pkg/units"
	"go.uber.org/zap"
)

const (
	configDef     = "config"
	cacheDef      = "cache"
	backendDef    = "backend"
	chainDef      = "chain"
	artifactsDef  = "artifacts"
	eventsDef     = "events"
	registryDef   = "registry"
	journalDef    = "journal"
	gasReportDef  = "gas.report"
	sessionDef    = "session"
	binderDef     = "binder"
	readBinderDef = "read.binder"
	deployerDef   = "deployer"
	httpDef       = "http"
	explorerDef   = "explorer"
	runnerDef     = "runner"
	inspectorDef  = "inspector"
	serverDef     = "server"
)

var ErrNoExplorer = errors.New("EXPLORER_API_KEY is not set")

// Options scope a container to one run of a task.
type Options struct {
	Config *config.Config
	Task   string
	DryRun bool
	// Backend replaces the dialled RPC client.
	Backend chain.Backend
}

func definitions(o Options) []di.Def {
	cfg := o.Config

	return []di.Def{
		{
			Name: configDef,
			Build: func(di.Container) (interface{}, error) {
				return cfg, nil
			},
		},
		{
			Name: cacheDef,
			Build: func(di.Container) (interface{}, error) {
				return cache.New(5*time.Minute, 10*time.Minute), nil
			},
		},
		{
			Name: backendDef,
			Build: func(di.Container) (interface{}, error) {
				if o.Backend != nil {
					return o.Backend, nil
				}
				return chain.Dial(context.Background(), cfg.Rpc.Url, cfg.Rpc.Timeout, cfg.Rpc.Retries, cfg.Rpc.Debug)
			},
		},
		{
			Name: chainDef,
			Build: func(ctn di.Container) (interface{}, error) {
				backend, err := fetch[chain.Backend](ctn, backendDef)
				if err != nil {
					return nil, err
				}
				timeout := time.Duration(cfg.Gas.ConfirmTimeout) * time.Second
				return chain.NewService(backend, ctn.Get(cacheDef).(*cache.Cache), timeout), nil
			},
			Close: func(obj interface{}) error {
				obj.(chain.Service).Close()
				return nil
			},
		},
		{
			Name: artifactsDef,
			Build: func(ctn di.Container) (interface{}, error) {
				return artifact.NewStore(cfg.ArtifactsDir, ctn.Get(cacheDef).(*cache.Cache)), nil
			},
		},
		{
			Name: eventsDef,
			Build: func(di.Container) (interface{}, error) {
				return event.NewManager(), nil
			},
		},
		{
			Name: registryDef,
			Build: func(di.Container) (interface{}, error) {
				store := registry.NewFileStore(cfg.RegistryDir)
				if cfg.Aws.Bucket == "" {
					return registry.New(store), nil
				}

				client, err := registry.NewS3Client(cfg.Aws.Region, cfg.Aws.AccessKey, cfg.Aws.SecretKey)
				if err != nil {
					return nil, err
				}
				return registry.New(registry.NewMirror(store, registry.NewS3Store(client, cfg.Aws.Bucket, cfg.Aws.Prefix))), nil
			},
		},
		{
			Name: journalDef,
			Build: func(ctn di.Container) (interface{}, error) {
				j, err := journal.New(cfg.JournalDir, o.Task)
				if err != nil {
					return nil, err
				}
				j.Listen(ctn.Get(eventsDef).(*event.Manager))
				return j, nil
			},
			Close: func(obj interface{}) error {
				j := obj.(*journal.Journal)
				zap.L().With(zap.String("path", j.Path()), zap.Int("entries", len(j.Entries()))).Info("Journal: Closed")
				return nil
			},
		},
		{
			Name: gasReportDef,
			Build: func(ctn di.Container) (interface{}, error) {
				report := gasreport.New(cfg.GasReport.GasPriceGwei, cfg.GasReport.NativeUsd, cfg.NativeCurrency())
				report.Listen(ctn.Get(eventsDef).(*event.Manager))
				return report, nil
			},
		},
		{
			Name: sessionDef,
			Build: func(ctn di.Container) (interface{}, error) {
				hexKey, err := cfg.RequirePrivateKey()
				if err != nil {
					return nil, err
				}
				key, err := crypto.HexToECDSA(hexKey)
				if err != nil {
					return nil, err
				}

				sessionCfg := contract.SessionConfig{
					Task:           o.Task,
					CallGasLimit:   cfg.Gas.CallLimit,
					DeployGasLimit: cfg.Gas.DeployLimit,
					WaitReceipts:   cfg.Gas.WaitReceipts,
					DryRun:         o.DryRun,
				}
				if cfg.Gas.PriceGwei > 0 {
					sessionCfg.GasPrice = units.ToGwei(int64(cfg.Gas.PriceGwei))
				}

				chainSvc, err := fetch[chain.Service](ctn, chainDef)
				if err != nil {
					return nil, err
				}
				// The journal and gas report listen before the first transaction.
				if _, err := fetch[*journal.Journal](ctn, journalDef); err != nil {
					return nil, err
				}
				ctn.Get(gasReportDef)

				return contract.NewSession(context.Background(), chainSvc, key, ctn.Get(eventsDef).(*event.Manager), sessionCfg)
			},
		},
		{
			Name: binderDef,
			Build: func(ctn di.Container) (interface{}, error) {
				session, err := fetch[*contract.Session](ctn, sessionDef)
				if err != nil {
					return nil, err
				}
				return contract.NewBinder(ctn.Get(artifactsDef).(artifact.Store), session), nil
			},
		},
		{
			Name: readBinderDef,
			Build: func(ctn di.Container) (interface{}, error) {
				chainSvc, err := fetch[chain.Service](ctn, chainDef)
				if err != nil {
					return nil, err
				}
				return contract.NewBinder(ctn.Get(artifactsDef).(artifact.Store), contract.NewReadOnlySession(chainSvc)), nil
			},
		},
		{
			Name: deployerDef,
			Build: func(ctn di.Container) (interface{}, error) {
				kind, err := deployer.ParseKind(cfg.ProxyKind)
				if err != nil {
					return nil, err
				}
				binder, err := fetch[*contract.Binder](ctn, binderDef)
				if err != nil {
					return nil, err
				}
				return deployer.New(binder, kind), nil
			},
		},
		{
			Name: httpDef,
			Build: func(di.Container) (interface{}, error) {
				client := retryablehttp.NewClient()
				client.Logger = nil
				client.RetryMax = cfg.Rpc.Retries
				client.HTTPClient.Timeout = time.Duration(cfg.Rpc.Timeout) * time.Second
				return client, nil
			},
		},
		{
			Name: explorerDef,
			Build: func(ctn di.Container) (interface{}, error) {
				if cfg.Explorer.ApiKey == "" {
					return nil, ErrNoExplorer
				}
				return explorer.NewClient(explorer.Options{
					ApiUrl:          cfg.Explorer.ApiUrl,
					ApiKey:          cfg.Explorer.ApiKey,
					CompilerVersion: cfg.Explorer.CompilerVersion,
					OptimizerRuns:   cfg.Explorer.OptimizerRuns,
					FlattenDir:      cfg.FlattenDir,
					PollInterval:    time.Duration(cfg.Explorer.PollInterval) * time.Second,
				}, ctn.Get(httpDef).(*retryablehttp.Client)), nil
			},
		},
		{
			Name: runnerDef,
			Build: func(ctn di.Container) (interface{}, error) {
				d, err := fetch[*deployer.Deployer](ctn, deployerDef)
				if err != nil {
					return nil, err
				}
				reg, err := fetch[*registry.Registry](ctn, registryDef)
				if err != nil {
					return nil, err
				}

				opts := migration.Options{
					Binder:     ctn.Get(binderDef).(*contract.Binder),
					Deployer:   d,
					Registry:   reg,
					IdsFile:    cfg.IdsFile,
					VerifyKeys: cfg.Explorer.VerifyKeys,
				}
				if client, err := ctn.SafeGet(explorerDef); err == nil {
					opts.Verifier = client.(*explorer.Client)
				}
				return migration.NewRunner(opts), nil
			},
		},
		{
			Name: inspectorDef,
			Build: func(ctn di.Container) (interface{}, error) {
				binder, err := fetch[*contract.Binder](ctn, readBinderDef)
				if err != nil {
					return nil, err
				}
				reg, err := fetch[*registry.Registry](ctn, registryDef)
				if err != nil {
					return nil, err
				}
				return inspect.New(binder, reg), nil
			},
		},
		{
			Name: serverDef,
			Build: func(ctn di.Container) (interface{}, error) {
				chainSvc, err := fetch[chain.Service](ctn, chainDef)
				if err != nil {
					return nil, err
				}
				reg, err := fetch[*registry.Registry](ctn, registryDef)
				if err != nil {
					return nil, err
				}
				return server.NewServer(reg, chainSvc), nil
			},
		},
	}
}

// fetch is SafeGet with the type assertion of the definition.
func fetch[T any](ctn di.Container, name string) (T, error) {
	var zero T
	obj, err := ctn.SafeGet(name)
	if err != nil {
		return zero, err
	}
	return obj.(T), nil
}
