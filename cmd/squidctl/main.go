package main

import (
	"os"

	"github.com/squidgame/squid-ops/internal/config"
	"github.com/squidgame/squid-ops/internal/config/di"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var dryRunFlag = &cli.BoolFlag{Name: "dry-run", Usage: "plan the transactions without sending them"}

func main() {
	config.Init("squidctl")

	app := &cli.App{
		Name:  "squidctl",
		Usage: "deploy, upgrade and operate the SquidGame contracts",
		Commands: []*cli.Command{
			{
				Name:  "task",
				Usage: "registered deployment and migration tasks",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "list the tasks", Action: listTasks},
					{Name: "run", Usage: "run a task by name", ArgsUsage: "<name>", Action: runTask, Flags: []cli.Flag{dryRunFlag}},
				},
			},
			{
				Name:  "plan",
				Usage: "declarative call plans",
				Subcommands: []*cli.Command{
					{Name: "apply", Usage: "apply a YAML, JSON or TOML plan", ArgsUsage: "<file>", Action: applyPlan, Flags: []cli.Flag{dryRunFlag}},
				},
			},
			{
				Name:   "verify",
				Usage:  "verify proxy implementations on the explorer",
				Action: verify,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "proxy", Usage: "registry proxy key, repeatable (defaults to VERIFY_KEYS)"},
					dryRunFlag,
				},
			},
			{
				Name:  "inspect",
				Usage: "read the live deployment",
				Subcommands: []*cli.Command{
					{Name: "roles", Usage: "check the expected role grants", Action: inspectRoles},
					{Name: "game", Usage: "dump player contracts, games and withdrawal fee", Action: inspectGame},
					{
						Name:      "players",
						Usage:     "list the players of a wallet and select them for a game",
						ArgsUsage: "<wallet>",
						Action:    inspectPlayers,
						Flags:     []cli.Flag{&cli.IntFlag{Name: "game", Value: -1, Usage: "game index to select players for"}},
					},
					{
						Name:   "launchpad",
						Usage:  "box price and probability table",
						Action: inspectLaunchpad,
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "v1", Usage: "read the first launchpad instead of v2"}},
					},
					{Name: "fee", Usage: "withdrawal fee a wallet would pay now", ArgsUsage: "<wallet>", Action: inspectFee},
				},
			},
			{
				Name:  "registry",
				Usage: "deployment address files",
				Subcommands: []*cli.Command{
					{Name: "show", Usage: "print one or every registry file", ArgsUsage: "[file]", Action: showRegistry},
				},
			},
			{
				Name:   "serve",
				Usage:  "serve health, registry and implementation lookups over HTTP",
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("squidctl failed")
	}
}

func newContainer(task string, dryRun bool) (*di.Container, error) {
	return di.NewContainer(di.Options{Config: config.Get(), Task: task, DryRun: dryRun})
}

func closeContainer(container *di.Container) {
	if err := container.Delete(); err != nil {
		zap.L().With(zap.Error(err)).Warn("Failed to close services")
	}
}
