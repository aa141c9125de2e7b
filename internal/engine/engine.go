// Package engine is the entry point to a strata project.
// Every editing operation runs in its own transaction, reads the project
// settings at its start and threads them into the services it drives.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/strata/internal/config"
	"github.com/leapstack-labs/strata/internal/correlation"
	"github.com/leapstack-labs/strata/internal/interval"
	"github.com/leapstack-labs/strata/internal/state"
	"github.com/leapstack-labs/strata/internal/survey"
	"github.com/leapstack-labs/strata/pkg/core"
)

// Engine runs editing operations against a project store.
type Engine struct {
	store    core.Store
	fallback core.Settings
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// StatePath is the path to the SQLite project database, or state.MemoryPath.
	StatePath string
	// Settings are used until the project persists its own.
	Settings *core.Settings
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New opens the project database and applies pending migrations.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("initializing engine", slog.String("state_path", cfg.StatePath))

	store := state.NewSQLiteStore(logger)
	if err := store.Open(ctx, cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	return NewWithStore(store, cfg.Settings, logger), nil
}

// NewWithStore wraps an opened store.
func NewWithStore(store core.Store, settings *core.Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fallback := config.Default()
	if settings != nil {
		fallback = *settings
		config.ApplyDefaults(&fallback)
	}
	return &Engine{store: store, fallback: fallback, logger: logger}
}

// Close releases the project database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// services bundles the per-transaction services of one operation.
type services struct {
	tx          core.Tx
	settings    core.Settings
	survey      *survey.Service
	intervals   *interval.Editor
	correlation *correlation.Service
}

// run executes fn in a transaction with freshly read settings.
func (e *Engine) run(ctx context.Context, op string, fn func(s *services) error) error {
	err := e.store.WithTx(ctx, func(tx core.Tx) error {
		settings, err := e.loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		return fn(&services{
			tx:          tx,
			settings:    settings,
			survey:      survey.NewService(tx, settings, e.logger),
			intervals:   interval.NewEditor(tx, settings, e.logger),
			correlation: correlation.NewService(tx, settings, e.logger),
		})
	})
	if err != nil {
		e.logger.Debug("operation failed", slog.String("op", op), slog.String("error", err.Error()))
	}
	return err
}

func (e *Engine) loadSettings(ctx context.Context, tx core.Tx) (core.Settings, error) {
	settings, err := tx.GetSettings(ctx)
	if errors.Is(err, core.ErrNotFound) {
		return e.fallback, nil
	}
	if err != nil {
		return core.Settings{}, err
	}
	config.ApplyDefaults(&settings)
	return settings, nil
}
