package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/strata/internal/config"
	"github.com/leapstack-labs/strata/pkg/core"
)

// Init persists the fallback settings unless the project already has some.
// It reports whether settings were written.
func (e *Engine) Init(ctx context.Context) (bool, error) {
	created := false
	err := e.store.WithTx(ctx, func(tx core.Tx) error {
		_, err := tx.GetSettings(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		created = true
		return tx.SaveSettings(ctx, e.fallback)
	})
	return created, err
}

// Settings returns the settings the next operation will use.
func (e *Engine) Settings(ctx context.Context) (core.Settings, error) {
	var out core.Settings
	err := e.run(ctx, "settings", func(s *services) error {
		out = s.settings
		return nil
	})
	return out, err
}

// UpdateSettings validates and persists new settings. Stored records are not
// revisited.
func (e *Engine) UpdateSettings(ctx context.Context, settings core.Settings) error {
	if err := config.Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return e.store.WithTx(ctx, func(tx core.Tx) error {
		return tx.SaveSettings(ctx, settings)
	})
}
