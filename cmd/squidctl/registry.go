package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func showRegistry(c *cli.Context) error {
	container, err := newContainer("registry", false)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	reg, err := container.SafeGetRegistry()
	if err != nil {
		return err
	}

	files := []string{c.Args().First()}
	if files[0] == "" {
		if files, err = reg.Files(c.Context); err != nil {
			return err
		}
	}

	for _, file := range files {
		rec, err := reg.Load(c.Context, file)
		if err != nil {
			return err
		}
		if err := printRecord(file, rec); err != nil {
			return err
		}
	}

	return nil
}

func printRecord(file string, rec *registry.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Fprintln(os.Stdout, file)
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func serve(_ *cli.Context) error {
	container, err := newContainer("serve", false)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	srv, err := container.SafeGetServer()
	if err != nil {
		return err
	}

	port := container.GetConfig().HealthPort
	zap.L().With(zap.String("port", port)).Info("Status server started")

	return http.ListenAndServe(":"+port, srv.Router())
}
