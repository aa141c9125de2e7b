package engine

import (
	"context"

	"github.com/leapstack-labs/strata/internal/interval"
)

// InsertInterval resolves a drawn or manual edit into a new interval.
func (e *Engine) InsertInterval(ctx context.Context, req interval.Request) (*interval.Result, error) {
	var res *interval.Result
	err := e.run(ctx, "insert interval", func(s *services) error {
		var err error
		res, err = s.intervals.Insert(ctx, req)
		return err
	})
	return res, err
}

// UpdateInterval resolves an edit against an existing interval.
func (e *Engine) UpdateInterval(ctx context.Context, id string, req interval.Request) (*interval.Result, error) {
	var res *interval.Result
	err := e.run(ctx, "update interval", func(s *services) error {
		var err error
		res, err = s.intervals.Update(ctx, id, req)
		return err
	})
	return res, err
}

// DeleteInterval removes an interval.
func (e *Engine) DeleteInterval(ctx context.Context, id string) error {
	return e.run(ctx, "delete interval", func(s *services) error {
		return s.intervals.Delete(ctx, id)
	})
}
