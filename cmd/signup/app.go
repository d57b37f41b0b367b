package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-signup/internal/config"
	"github.com/goliatone/go-signup/internal/ctxlog"
	"github.com/goliatone/go-signup/pkg/field"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/modal"
	"github.com/goliatone/go-signup/pkg/store"
	"github.com/goliatone/go-signup/pkg/submit"
)

// app bundles the pieces every surface shares.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	inputs     *field.InputSet
	registry   *field.Registry
	store      store.Store
	client     *submit.Client
	controller *form.Controller
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

// newApp wires the registry, client, store and controller from cfg and
// restores the last successful submission into the inputs.
func newApp(ctx context.Context, cfg config.Config, logOut io.Writer) (*app, error) {
	logger := cfg.Log.Logger(logOut)
	ctx = ctxlog.WithLogger(ctx, logger)

	inputs := field.NewInputSet()
	registry, err := field.Newsletter(inputs)
	if err != nil {
		return nil, err
	}

	clientOpts := []submit.Option{submit.WithLogger(logger)}
	if cfg.Endpoint.Timeout > 0 {
		clientOpts = append(clientOpts, submit.WithTimeout(cfg.Endpoint.Timeout))
	}
	if cfg.Endpoint.RateLimit > 0 {
		clientOpts = append(clientOpts, submit.WithRateLimit(cfg.Endpoint.RateLimit, cfg.Endpoint.Burst))
	}
	client, err := submit.New(cfg.Endpoint.URL, clientOpts...)
	if err != nil {
		return nil, err
	}

	records, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	controller, err := form.New(registry, client,
		form.WithErrorSink(form.NewErrorBoard()),
		form.WithModal(modal.New()),
		form.WithStore(records),
		form.WithRecordKey(cfg.Storage.Key),
		form.WithLogger(logger),
	)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	if restored := controller.Restore(ctx); len(restored) > 0 {
		logger.Info("restored previous submission", "fields", len(restored))
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		inputs:     inputs,
		registry:   registry,
		store:      records,
		client:     client,
		controller: controller,
	}, nil
}

// sessionController builds a controller with its own inputs for one web
// session. The client and store are shared; the record key is scoped to
// the session so each browser restores only its own submission.
func (a *app) sessionController(ctx context.Context, sessionID string) (*form.Controller, error) {
	registry, err := field.Newsletter(field.NewInputSet())
	if err != nil {
		return nil, err
	}
	logger := a.logger.With("session", sessionID)
	controller, err := form.New(registry, a.client,
		form.WithErrorSink(form.NewErrorBoard()),
		form.WithModal(modal.New()),
		form.WithStore(a.store),
		form.WithRecordKey(a.cfg.Storage.Key+":"+sessionID),
		form.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if restored := controller.Restore(ctxlog.WithLogger(ctx, logger)); len(restored) > 0 {
		logger.Debug("restored session submission", "fields", len(restored))
	}
	return controller, nil
}

func (a *app) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func openStore(ctx context.Context, cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendFile:
		return store.NewFileStore(cfg.File, store.WithFileLogger(ctxlog.FromContext(ctx)))
	case config.BackendSQLite:
		return store.OpenSQLiteStore(ctx, cfg.SQLite)
	case config.BackendRedis:
		rs := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
