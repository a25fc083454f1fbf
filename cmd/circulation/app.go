package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell/observable"
	"github.com/AntonStoeckl/circulation-manager-go/config"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/circulation-manager-go/identity"
	"github.com/AntonStoeckl/circulation-manager-go/identity/clever"
	"github.com/AntonStoeckl/circulation-manager-go/settings"
	"github.com/AntonStoeckl/circulation-manager-go/settings/rediscache"
	"github.com/AntonStoeckl/circulation-manager-go/settings/sqlstore"
)

const defaultLibrary = "default"

// app is the infrastructure of one command run, built from the config file.
type app struct {
	cfg              config.Config
	library          string
	logger           *slog.Logger
	contextualLogger shell.ContextualLogger
	tracing          shell.TracingCollector
	metrics          shell.MetricsCollector
	settings         settings.Store
	closers          []func() error
}

func newApp(ctx context.Context, opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg := config.Default()

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	a := &app{
		cfg:     cfg,
		library: libraryOf(opts, cfg),
		logger:  slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if err := a.openObservability(ctx); err != nil {
		return nil, errors.Join(err, a.Close())
	}

	if err := a.openSettings(ctx); err != nil {
		return nil, errors.Join(err, a.Close())
	}

	return a, nil
}

func libraryOf(opts *rootOptions, cfg config.Config) string {
	switch {
	case opts.Library != "":
		return opts.Library
	case cfg.Library != "":
		return cfg.Library
	default:
		return defaultLibrary
	}
}

// Close releases everything opened, newest first.
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, a.closers[i]())
	}

	a.closers = nil

	return err
}

func (a *app) openObservability(ctx context.Context) error {
	if !a.cfg.Observability.Enabled {
		return nil
	}

	providers, err := config.NewObservabilityProviders(ctx, a.cfg.Observability.ServiceName)
	if err != nil {
		return err
	}

	a.closers = append(a.closers, func() error { return providers.Shutdown(context.Background()) })

	name := a.cfg.Observability.ServiceName
	a.tracing = oteladapters.NewTracingCollector(otel.Tracer(name))
	a.metrics = oteladapters.NewMetricsCollector(otel.Meter(name))
	a.contextualLogger = oteladapters.NewSlogBridgeLogger(name)

	return nil
}

func (a *app) openSettings(ctx context.Context) error {
	var store settings.Store

	switch a.cfg.Settings.Driver {
	case config.SettingsDriverMemory:
		store = settings.NewMemoryStore()
	default:
		db, err := config.SettingsSQLX(ctx, a.cfg.Settings.Driver, a.cfg.Settings.DSN)
		if err != nil {
			return err
		}

		a.closers = append(a.closers, db.Close)

		sqlStore, err := sqlstore.New(db)
		if err != nil {
			return err
		}

		if err = sqlStore.EnsureSchema(ctx); err != nil {
			return err
		}

		store = sqlStore
	}

	if a.cfg.Settings.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: a.cfg.Settings.RedisAddr})
		a.closers = append(a.closers, client.Close)

		cached, err := rediscache.New(store, client, rediscache.WithTTL(a.cfg.Settings.CacheTTL))
		if err != nil {
			return err
		}

		store = cached
	}

	a.settings = store

	return nil
}

// openEventStore connects the configured event store engine and creates its schema.
func (a *app) openEventStore(ctx context.Context) (shell.EventStore, error) {
	if a.cfg.EventStore.InMemory {
		return memoryengine.NewEventStore(memoryengine.WithLogger(a.logger)), nil
	}

	pool, err := config.PostgresPGXPool(ctx, a.cfg.EventStore.DSN)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})

	options := []postgresengine.Option{postgresengine.WithLogger(a.logger)}

	if a.cfg.EventStore.TableName != "" {
		options = append(options, postgresengine.WithTableName(a.cfg.EventStore.TableName))
	}

	if a.tracing != nil {
		options = append(options,
			postgresengine.WithTracing(a.tracing),
			postgresengine.WithMetrics(a.metrics),
			postgresengine.WithContextualLogger(a.contextualLogger),
		)
	}

	es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
	if err != nil {
		return nil, err
	}

	if err = es.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return es, nil
}

func (a *app) cleverProvider() (*clever.Provider, error) {
	schools := identity.TitleISchools{}

	if path := a.cfg.Clever.TitleISchoolsPath; path != "" {
		loaded, err := identity.LoadTitleISchools(path)
		if err != nil {
			return nil, err
		}

		schools = loaded
	}

	options := []clever.Option{
		clever.WithTimeout(a.cfg.Clever.Timeout),
		clever.WithLogger(a.logger),
	}

	if a.cfg.Clever.HasEndpointOverrides() {
		options = append(options, clever.WithEndpoints(a.cfg.Clever.AuthorizeURL, a.cfg.Clever.TokenURL, a.cfg.Clever.APIBaseURL))
	}

	return clever.NewProvider(a.cfg.Clever.ClientID, a.cfg.Clever.ClientSecret, a.cfg.Clever.RedirectURI, schools, options...)
}

func commandOptions[C shell.Command](a *app) []observable.CommandOption[C] {
	options := []observable.CommandOption[C]{observable.WithCommandLogging[C](a.logger)}

	if a.tracing != nil {
		options = append(options,
			observable.WithCommandTracing[C](a.tracing),
			observable.WithCommandMetrics[C](a.metrics),
			observable.WithCommandContextualLogging[C](a.contextualLogger),
		)
	}

	return options
}

func queryOptions[Q shell.Query, R any](a *app) []observable.QueryOption[Q, R] {
	options := []observable.QueryOption[Q, R]{observable.WithQueryLogging[Q, R](a.logger)}

	if a.tracing != nil {
		options = append(options,
			observable.WithQueryTracing[Q, R](a.tracing),
			observable.WithQueryMetrics[Q, R](a.metrics),
			observable.WithQueryContextualLogging[Q, R](a.contextualLogger),
		)
	}

	return options
}
