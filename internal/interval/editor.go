// Package interval resolves drawn formation edits into persisted intervals.
//
// An edit names a drawn line in section or world coordinates and optional
// manual bounds. The editor finds the hole and section the line belongs to,
// infers the missing depths, rounds them, enforces the minimum thickness,
// closes small gaps against neighbouring intervals and inherits comments from
// intervals sharing the same code.
package interval

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leapstack-labs/strata/internal/section"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
)

// Request is an interval edit.
type Request struct {
	// HoleID pins the hole; it is searched first when a drawing is given.
	HoleID string
	// SectionID restricts the search to one section.
	SectionID string
	// Drawing is the drawn line. Without one, HoleID and both bounds are required.
	Drawing geometry.Drawing
	// From and To are manual bounds, kept verbatim when set.
	From *float64
	To   *float64
	// Code is the formation code. On update an empty code keeps the current one.
	Code string
	// Comments overrides comment inheritance when set.
	Comments *string
}

func (r Request) hasDrawing() bool {
	return len(r.Drawing.Line2) > 0 || len(r.Drawing.Line3) > 0
}

// Result is the normalized interval with the values resolved for it.
type Result struct {
	Interval  *core.Interval `json:"interval"`
	SectionID string         `json:"section_id,omitempty"`
	Geom      geometry.Line3 `json:"-"`
}

// Editor applies interval edits inside one transaction.
type Editor struct {
	tx       core.Tx
	settings core.Settings
	logger   *slog.Logger
	ghost    *GhostMatcher
}

// NewEditor creates an editor bound to tx.
func NewEditor(tx core.Tx, settings core.Settings, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Editor{
		tx:       tx,
		settings: settings,
		logger:   logger,
		ghost:    NewGhostMatcher(settings.GhostPattern),
	}
}

// Insert resolves and stores a new interval.
func (e *Editor) Insert(ctx context.Context, req Request) (*Result, error) {
	loc, b, err := e.resolve(ctx, req, "", nil)
	if err != nil {
		return nil, err
	}
	if err := e.normalize(ctx, loc.hole, &b, ""); err != nil {
		return nil, err
	}

	iv := &core.Interval{HoleID: loc.hole.ID, From: b.from, To: b.to, Code: req.Code}
	if req.Comments != nil {
		iv.Comments = *req.Comments
	} else if iv.Comments, err = e.defaultComment(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	if err := e.tx.InsertInterval(ctx, iv); err != nil {
		return nil, err
	}
	return e.result(iv, loc, b)
}

// Update resolves an edit against an existing interval and stores it.
func (e *Editor) Update(ctx context.Context, id string, req Request) (*Result, error) {
	existing, err := e.tx.GetInterval(ctx, id)
	if err != nil {
		return nil, err
	}

	loc, b, err := e.resolve(ctx, req, existing.HoleID, existing)
	if err != nil {
		return nil, err
	}
	if err := e.normalize(ctx, loc.hole, &b, id); err != nil {
		return nil, err
	}

	code := req.Code
	if code == "" {
		code = existing.Code
	}
	comments := existing.Comments
	if req.Comments != nil {
		comments = *req.Comments
	}
	if code != existing.Code {
		oldDefault, err := e.defaultComment(ctx, existing.Code, id)
		if err != nil {
			return nil, err
		}
		if comments == "" || comments == oldDefault {
			if comments, err = e.defaultComment(ctx, code, id); err != nil {
				return nil, err
			}
		}
	}

	iv := &core.Interval{ID: id, HoleID: loc.hole.ID, From: b.from, To: b.to, Code: code, Comments: comments}
	if err := e.tx.UpdateInterval(ctx, iv); err != nil {
		return nil, err
	}
	return e.result(iv, loc, b)
}

// Delete removes an interval.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.tx.DeleteInterval(ctx, id); err != nil {
		return err
	}
	e.logger.Debug("interval deleted", slog.String("interval", id))
	return nil
}

// resolve locates the edit on a hole and infers its raw bounds. Without a
// drawing, the bounds come from the request or from the existing interval.
func (e *Editor) resolve(ctx context.Context, req Request, pinnedHole string, existing *core.Interval) (*location, bounds, error) {
	holeID := req.HoleID
	if holeID == "" {
		holeID = pinnedHole
	}

	if req.hasDrawing() {
		var loc *location
		var err error
		if len(req.Drawing.Line3) > 0 {
			loc, err = e.locate3D(ctx, req.Drawing.Line3, holeID, req.SectionID)
		} else {
			loc, err = e.locate2D(ctx, req.Drawing.Line2, holeID, req.SectionID)
		}
		if err != nil {
			return nil, bounds{}, err
		}
		return loc, inferBounds(loc, req.From, req.To), nil
	}

	from, to := req.From, req.To
	if existing != nil {
		if from == nil {
			from = &existing.From
		}
		if to == nil {
			to = &existing.To
		}
	}
	if holeID == "" || from == nil || to == nil {
		return nil, bounds{}, &core.ResolutionError{
			SectionID: req.SectionID,
			Reason:    "a drawing, or a hole with both bounds, is required",
		}
	}

	hole, err := e.tx.GetHole(ctx, holeID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, bounds{}, &core.ResolutionError{SectionID: req.SectionID, Reason: "hole " + holeID + " does not exist"}
	}
	if err != nil {
		return nil, bounds{}, err
	}
	return &location{hole: hole, sectionID: req.SectionID}, bounds{from: *from, to: *to}, nil
}

// normalize applies thickness growth and snapping, then checks the result.
func (e *Editor) normalize(ctx context.Context, hole *core.Hole, b *bounds, selfID string) error {
	if b.from < 0 {
		return &core.BoundsError{HoleID: hole.ID, From: b.from, To: b.to, Reason: "from must not be negative"}
	}
	if !b.autoFrom && !b.autoTo && b.from > b.to {
		return &core.BoundsError{HoleID: hole.ID, From: b.from, To: b.to, Reason: "from is deeper than to"}
	}
	eps := e.settings.MinThickness
	b.enforceThickness(eps, hole.Depth)

	if err := e.snap(ctx, b, hole.ID, selfID); err != nil {
		return err
	}
	if b.thickness() < eps-floatGuard {
		return &core.ThicknessError{
			HoleID:        hole.ID,
			From:          b.from,
			To:            b.to,
			MinThickness:  eps,
			SnapTolerance: e.settings.SnapTolerance,
		}
	}
	return nil
}

func (e *Editor) result(iv *core.Interval, loc *location, b bounds) (*Result, error) {
	res := &Result{Interval: iv, SectionID: loc.sectionID}
	if loc.hole.HasGeometry() {
		var err error
		if res.Geom, err = section.HolePiece(iv.From, iv.To, loc.hole); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("interval resolved",
		slog.String("interval", iv.ID),
		slog.String("hole", iv.HoleID),
		slog.String("section", loc.sectionID),
		slog.Float64("from", iv.From),
		slog.Float64("to", iv.To),
		slog.Bool("auto_from", b.autoFrom),
		slog.Bool("auto_to", b.autoTo))
	return res, nil
}
