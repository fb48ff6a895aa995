package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/architeacher/mobile-devices/internal/adapters/inbound/cli"
	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/runtime"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := cli.New(config.Init, newBackend, version())

	err := app.Execute(ctx, os.Args[1:])

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func newBackend(ctx context.Context, cfg *config.ServiceConfig) (cli.Backend, error) {
	return runtime.New(ctx, cfg)
}

func version() string {
	v := config.ServiceVersion
	if v == "" {
		v = "dev"
	}

	if config.CommitSHA != "" {
		v += " (" + config.CommitSHA + ")"
	}

	return v
}
