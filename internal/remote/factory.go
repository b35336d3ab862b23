package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote/migrations"
)

const (
	ClientTypePostgres = "postgres"
	ClientTypeMemory   = "memory"
)

// Options selects and configures the backend client.
type Options struct {
	Type           string
	URL            string
	NotifyChannel  string
	InstanceID     string
	MigrateOnStart bool
}

// NewClientFromConfig creates a Client based on opts.Type.
// "memory" creates an empty in-process backend; "postgres" (default) connects a pool.
func NewClientFromConfig(ctx context.Context, opts Options) (Client, error) {
	switch opts.Type {
	case ClientTypeMemory:
		logger.WithComponent("remote").Warn("using in-memory backend; content is lost on restart")
		return NewMemoryClient(), nil
	case ClientTypePostgres, "":
		if opts.URL == "" {
			return nil, errors.New("database url is required for the postgres backend")
		}
		pool, err := NewConnectionPool(ctx, opts.URL)
		if err != nil {
			return nil, fmt.Errorf("connect backend: %w", err)
		}
		if opts.MigrateOnStart {
			if err := migrations.RunMigrationsUp(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return NewPostgresClient(pool, opts.NotifyChannel, opts.InstanceID), nil
	default:
		return nil, fmt.Errorf("unknown backend type: %s (supported: %s, %s)", opts.Type, ClientTypePostgres, ClientTypeMemory)
	}
}
