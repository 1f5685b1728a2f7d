// ABOUTME: Shared command environment: config, logger, credential store and API clients
// ABOUTME: Every subcommand builds one env and closes it when done

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/auth"
	"github.com/2389/assist-console/internal/config"
	"github.com/2389/assist-console/internal/dashboard"
	"github.com/2389/assist-console/internal/session"
	"github.com/2389/assist-console/internal/store"
)

// env holds everything a subcommand needs.
type env struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger

	store      session.Store
	client     *api.Client
	chatClient *api.Client
	gate       *auth.Gate

	db      *store.SQLiteStore
	closers []func() error
}

// loadEnv resolves and loads config, installs the default logger and opens
// the credential store.
func loadEnv() (*env, error) {
	path, explicit := config.ResolvePath(configPath)
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	e := &env{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		closers:    []func() error{closeLog},
	}

	st, err := e.openSessionStore()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store = st

	opts := []api.Option{
		api.WithTimeout(cfg.Backend.Timeout),
		api.WithLogger(logger.With("component", "api")),
	}
	e.client = api.New(cfg.Backend.BaseURL, st, opts...)
	// The reply endpoint is public; it never carries the operator credential.
	e.chatClient = api.New(cfg.Backend.ChatURL, nil, opts...)
	e.gate = auth.NewGate(st, auth.WithExpiryCheck(cfg.Auth.CheckExpiry))
	return e, nil
}

// openSessionStore picks the credential store named by session.driver.
func (e *env) openSessionStore() (session.Store, error) {
	switch e.cfg.Session.Driver {
	case config.DriverFile, "":
		return session.NewFileStore(e.cfg.Session.Dir), nil
	case config.DriverMemory:
		return session.NewMemoryStore(), nil
	case config.DriverSQLite:
		db, err := e.database()
		if err != nil {
			return nil, err
		}
		return session.NewKVStore(db), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", e.cfg.Session.Driver)
	}
}

// database opens the SQLite database once per env.
func (e *env) database() (*store.SQLiteStore, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := store.NewSQLiteStore(e.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	e.db = db
	e.closers = append(e.closers, db.Close)
	return db, nil
}

// views returns dashboard views over the operator's credential.
func (e *env) views() *dashboard.Views {
	return dashboard.NewViews(e.client)
}

// requireLogin fails with a login hint when the gate is closed.
func (e *env) requireLogin() error {
	return e.gate.Require()
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// withEnv runs fn with a loaded env and closes it afterwards.
func withEnv(fn func(e *env) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// withLoggedInEnv is withEnv guarded by the authentication gate.
func withLoggedInEnv(fn func(e *env) error) error {
	return withEnv(func(e *env) error {
		if err := e.requireLogin(); err != nil {
			return err
		}
		return fn(e)
	})
}
