// Package service runs the roster fetch cycle: fetch, unwrap, filter,
// aggregate and publish to a display.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/rosterboard/internal/render"
	"github.com/dgallion1/rosterboard/internal/roster"
	"github.com/dgallion1/rosterboard/internal/sheets"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Fetcher returns the raw upstream response body.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Display is the surface a cycle writes to.
type Display interface {
	SetRows(rows []render.Row)
	SetTotals(s roster.Summary)
	SetLoading(active bool)
	SetError(msg string)
	Snapshot() render.View
}

// Options configures filtering and tallying.
type Options struct {
	Filter  roster.Options
	Genders roster.Genders
}

// Result is the output of one pipeline run.
type Result struct {
	Records []roster.Record `json:"records"`
	Summary roster.Summary  `json:"summary"`
}

// Service owns the display and serializes fetch cycles.
type Service struct {
	fetcher Fetcher
	display Display
	opts    Options
	log     *slog.Logger
	tracer  trace.Tracer

	group singleflight.Group
}

func New(fetcher Fetcher, display Display, opts Options, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		display: display,
		opts:    opts,
		log:     log,
		tracer:  otel.Tracer("rosterboard/service"),
	}
}

// Load runs fetch, unwrap, filter and aggregate without touching the display.
// Concurrent calls, including the one made by an in-flight Refresh, share one
// upstream request.
func (s *Service) Load(ctx context.Context) (*Result, error) {
	v, err, _ := s.group.Do("load", func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (s *Service) load(ctx context.Context) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "service.Load")
	defer span.End()

	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "fetch")
		return nil, err
	}
	table, err := sheets.Unwrap(raw)
	if err != nil {
		span.SetStatus(codes.Error, "unwrap")
		return nil, err
	}
	if len(table.Cols) > 0 {
		if err := s.opts.Filter.Columns.Fits(len(table.Cols)); err != nil {
			span.SetStatus(codes.Error, "layout")
			return nil, &sheets.ParseError{Reason: "sheet layout changed", Err: err}
		}
	}

	records := roster.Filter(table.Rows, s.opts.Filter)
	summary := roster.Aggregate(records, s.opts.Genders)
	span.SetAttributes(
		attribute.Int("roster.rows", len(table.Rows)),
		attribute.Int("roster.records", summary.Total),
	)
	return &Result{Records: records, Summary: summary}, nil
}

// Refresh runs one display cycle and returns the display as that cycle left
// it. A trigger that arrives while a cycle is in flight joins it instead of
// starting another, and every joiner gets the same view. On failure the table
// stays empty, the totals keep their previous values and the loader shows a
// generic error.
func (s *Service) Refresh(ctx context.Context) (render.View, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		err := s.cycle(context.WithoutCancel(ctx))
		// No other cycle can start until this closure returns.
		return s.display.Snapshot(), err
	})
	if shared {
		s.log.Debug("refresh coalesced with in-flight cycle")
	}
	return v.(render.View), err
}

func (s *Service) cycle(ctx context.Context) error {
	log := s.log.With("cycle_id", uuid.NewString())
	ctx, span := s.tracer.Start(ctx, "service.Refresh")
	defer span.End()

	start := time.Now()
	s.display.SetLoading(true)
	defer s.display.SetLoading(false)
	s.display.SetError("")
	s.display.SetRows(nil)

	res, err := s.Load(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Error("fetch cycle failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		s.display.SetError(render.LoadErrorMessage)
		return err
	}

	s.display.SetRows(render.Rows(res.Records))
	s.display.SetTotals(res.Summary)
	log.Info("fetch cycle complete",
		"total", res.Summary.Total,
		"male", res.Summary.Male,
		"female", res.Summary.Female,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
