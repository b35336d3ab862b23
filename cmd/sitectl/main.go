// Package main is the entry point for sitectl, the operator tool for the site cache and backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vijayapps/vac_site/cmd/sitectl/commands"
	"github.com/vijayapps/vac_site/internal/config"
	"github.com/vijayapps/vac_site/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	if _, err := logger.SetLevel(cfg.Misc.LogLevel); err != nil {
		logger.WithComponent("sitectl").Warnf("invalid log level '%s': %v", cfg.Misc.LogLevel, err)
	}

	cli := commands.New(cfg, commands.DefaultDeps())
	cli.SetArgs(args)
	if err := cli.Execute(ctx); err != nil {
		logger.WithComponent("sitectl").Error(err)
		return 1
	}
	return 0
}
