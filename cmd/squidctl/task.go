package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/squidgame/squid-ops/internal/migration"
	"github.com/squidgame/squid-ops/internal/plan"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var errMissingArg = errors.New("missing argument")

func listTasks(_ *cli.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, task := range migration.List() {
		fmt.Fprintf(w, "%s\t%s\n", color.GreenString(task.Name), task.Description)
	}
	return w.Flush()
}

func runTask(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("%w: task name", errMissingArg)
	}

	task, err := migration.Get(name)
	if err != nil {
		return err
	}

	return execute(c.Context, task, c.Bool("dry-run"))
}

func applyPlan(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("%w: plan file", errMissingArg)
	}

	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	return execute(c.Context, p.Task(), c.Bool("dry-run"))
}

func verify(c *cli.Context) error {
	proxies := c.StringSlice("proxy")
	if len(proxies) == 0 {
		task, err := migration.Get("verify")
		if err != nil {
			return err
		}
		return execute(c.Context, task, c.Bool("dry-run"))
	}

	return execute(c.Context, migration.Task{
		Name:        "verify",
		Description: "Verify the given proxies",
		Run: func(ctx context.Context, r *migration.Runner) error {
			return r.Verify(ctx, proxies)
		},
	}, c.Bool("dry-run"))
}

// execute runs task in a container of its own and prints the gas report,
// plus the planned transactions of a dry run.
func execute(ctx context.Context, task migration.Task, dryRun bool) error {
	container, err := newContainer(task.Name, dryRun)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	runner, err := container.SafeGetRunner()
	if err != nil {
		return err
	}

	runErr := runner.RunTask(ctx, task)

	if dryRun {
		planned := runner.Session().Planned()
		color.New(color.FgYellow, color.Bold).Fprintf(os.Stdout, "DRY RUN: %d transactions planned\n", len(planned))
		for _, p := range planned {
			fmt.Fprintln(os.Stdout, p.String())
		}
	}
	container.GetGasReport().Print(os.Stdout)

	if j, err := container.SafeGetJournal(); err == nil {
		zap.L().With(zap.String("path", j.Path()), zap.String("run", j.RunID())).Info("Journal written")
	}

	return runErr
}
