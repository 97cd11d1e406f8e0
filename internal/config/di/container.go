// Package di wires the services of one squidctl run.
package di

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sarulabs/di/v2"
	"github.com/squidgame/squid-ops/internal/artifact"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/config"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/squidgame/squid-ops/internal/explorer"
	"github.com/squidgame/squid-ops/internal/gasreport"
	"github.com/squidgame/squid-ops/internal/inspect"
	"github.com/squidgame/squid-ops/internal/journal"
	"github.com/squidgame/squid-ops/internal/migration"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/server"
)

type Container struct {
	ctn di.Container
}

func NewContainer(o Options) (*Container, error) {
	if o.Config == nil {
		o.Config = config.Get()
	}

	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}
	if err := builder.Add(definitions(o)...); err != nil {
		return nil, err
	}

	return &Container{ctn: builder.Build()}, nil
}

// Delete runs the close hooks of every built service.
func (c *Container) Delete() error {
	return c.ctn.Delete()
}

func (c *Container) GetConfig() *config.Config {
	return c.ctn.Get(configDef).(*config.Config)
}

func (c *Container) SafeGetChain() (chain.Service, error) {
	return fetch[chain.Service](c.ctn, chainDef)
}

func (c *Container) GetChain() chain.Service {
	return c.ctn.Get(chainDef).(chain.Service)
}

func (c *Container) GetArtifacts() artifact.Store {
	return c.ctn.Get(artifactsDef).(artifact.Store)
}

func (c *Container) GetEvents() *event.Manager {
	return c.ctn.Get(eventsDef).(*event.Manager)
}

func (c *Container) SafeGetRegistry() (*registry.Registry, error) {
	return fetch[*registry.Registry](c.ctn, registryDef)
}

func (c *Container) GetRegistry() *registry.Registry {
	return c.ctn.Get(registryDef).(*registry.Registry)
}

func (c *Container) SafeGetJournal() (*journal.Journal, error) {
	return fetch[*journal.Journal](c.ctn, journalDef)
}

func (c *Container) GetGasReport() *gasreport.Report {
	return c.ctn.Get(gasReportDef).(*gasreport.Report)
}

func (c *Container) SafeGetSession() (*contract.Session, error) {
	return fetch[*contract.Session](c.ctn, sessionDef)
}

func (c *Container) GetHttpClient() *retryablehttp.Client {
	return c.ctn.Get(httpDef).(*retryablehttp.Client)
}

func (c *Container) SafeGetExplorer() (*explorer.Client, error) {
	return fetch[*explorer.Client](c.ctn, explorerDef)
}

func (c *Container) SafeGetRunner() (*migration.Runner, error) {
	return fetch[*migration.Runner](c.ctn, runnerDef)
}

func (c *Container) SafeGetInspector() (*inspect.Inspector, error) {
	return fetch[*inspect.Inspector](c.ctn, inspectorDef)
}

func (c *Container) SafeGetServer() (server.Server, error) {
	return fetch[server.Server](c.ctn, serverDef)
}
