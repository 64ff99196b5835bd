package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/monitor"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/seen"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/source"
)

// deps is everything the commands wire together from configuration.
type deps struct {
	monitor   *monitor.Monitor
	prefStore prefs.Store
	console   *notify.Console
	cleanup   func()
}

func buildDeps(ctx context.Context, config *Config, logger *zap.Logger) (*deps, error) {
	if len(config.Sources) == 0 {
		return nil, fmt.Errorf("at least one job source is required under 'sources'")
	}

	sources := make([]source.Source, 0, len(config.Sources))
	for _, src := range config.Sources {
		if src.Name == "" || src.URL == "" {
			return nil, fmt.Errorf("every source needs a name and a url")
		}
		sources = append(sources, source.NewFeed(src.Name, src.URL, logger))
	}

	cleanup := func() {}

	prefStore, err := buildPrefStore(ctx, config)
	if err != nil {
		return nil, err
	}

	seenStore, err := buildSeenStore(ctx, config)
	if err != nil {
		return nil, err
	}

	console := notify.NewConsole(os.Stdout)

	var deliverer notify.Deliverer = console
	if config.NATS != nil && config.NATS.URL != "" {
		nats, err := notify.NewNATSDeliverer(config.NATS.URL, config.NATS.Subject, logger)
		if err != nil {
			return nil, err
		}
		deliverer = nats
		cleanup = nats.Close
	}

	return &deps{
		monitor:   monitor.New(sources, seenStore, prefStore, deliverer, logger),
		prefStore: prefStore,
		console:   console,
		cleanup:   cleanup,
	}, nil
}

func buildPrefStore(ctx context.Context, config *Config) (prefs.Store, error) {
	if config.Storage != nil && config.Storage.PostgresURL != "" {
		pool, err := prefs.NewPostgresPool(ctx, config.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}
		store := prefs.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	return prefs.NewFileStore(filepath.Join(config.DataDir, "user_preferences.json"))
}

func buildSeenStore(ctx context.Context, config *Config) (seen.Store, error) {
	if config.Storage != nil && config.Storage.RedisURL != "" {
		client, err := seen.NewRedisClient(ctx, config.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return seen.NewRedisStore(client), nil
	}

	return seen.NewFileStore(filepath.Join(config.DataDir, "seen_jobs.json"))
}
