// Package commands implements the sitectl commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vijayapps/vac_site/internal/config"
	"github.com/vijayapps/vac_site/internal/localstore"
	"github.com/vijayapps/vac_site/internal/remote"
	"github.com/vijayapps/vac_site/internal/remote/migrations"
)

// Deps opens the resources a command needs.
type Deps struct {
	OpenStore  func(cfg *config.Config) (localstore.Admin, error)
	OpenRemote func(ctx context.Context, cfg *config.Config) (remote.Client, error)
	Migrate    func(ctx context.Context, cfg *config.Config) error
}

// DefaultDeps opens the store directory and the backend named in the configuration.
func DefaultDeps() Deps {
	return Deps{
		OpenStore:  openFileStore,
		OpenRemote: openRemote,
		Migrate:    migrateUp,
	}
}

// CLI represents the sitectl command line.
type CLI struct {
	cfg     *config.Config
	deps    Deps
	rootCmd *cobra.Command
}

func New(cfg *config.Config, deps Deps) *CLI {
	rootCmd := &cobra.Command{
		Use:           "sitectl",
		Short:         "Inspect the local content cache and operate the site backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{
		cfg:     cfg,
		deps:    deps,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newMigrateCmd())
	rootCmd.AddCommand(c.newRefreshCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error writers for the root command.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func openFileStore(cfg *config.Config) (localstore.Admin, error) {
	if cfg.Store.Dir == "" {
		return nil, errors.New("store.dir is not configured")
	}
	// No emitter: sitectl has no in-process consumers; servers watching the
	// directory pick the change up themselves.
	return localstore.NewFileStore(cfg.Store.Dir, nil)
}

// requirePostgres rejects backends that live only inside one process; an
// in-memory backend opened by sitectl would start empty and answer nothing.
func requirePostgres(cfg *config.Config, what string) error {
	if cfg.Remote.Type != remote.ClientTypePostgres {
		return fmt.Errorf("%s needs remote.type=%s, got %q", what, remote.ClientTypePostgres, cfg.Remote.Type)
	}
	return nil
}

func openRemote(ctx context.Context, cfg *config.Config) (remote.Client, error) {
	if err := requirePostgres(cfg, "refresh"); err != nil {
		return nil, err
	}
	return remote.NewClientFromConfig(ctx, remote.Options{
		Type:          cfg.Remote.Type,
		URL:           cfg.Remote.URL,
		NotifyChannel: cfg.Remote.NotifyChannel,
		InstanceID:    "sitectl-" + uuid.NewString(),
	})
}

func migrateUp(ctx context.Context, cfg *config.Config) error {
	if err := requirePostgres(cfg, "migrate"); err != nil {
		return err
	}
	pool, err := remote.NewConnectionPool(ctx, cfg.Remote.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return migrations.RunMigrationsUp(ctx, pool)
}
