package disclosure

import (
	"context"
	"errors"
	"fmt"
	"fulldisclosure-backend/lib/timezone"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var ErrUnknownSource = errors.New("unknown source")

const DefaultMaxAge = 24 * time.Hour

type RefresherOptions struct {
	Pages   PageStore
	Times   TimestampStore
	Fetcher Fetcher
	// Clock defaults to timezone.StandardClock.
	Clock timezone.Clock
	// MaxAge defaults to DefaultMaxAge.
	MaxAge time.Duration
	// URLs overrides the upstream url of individual sources.
	URLs map[string]string
}

// Refresher re-fetches a source's page when its cached copy is too old.
// There is no locking, two callers that both observe a stale page will
// both refresh it and the last write wins.
type Refresher struct {
	pages   PageStore
	times   TimestampStore
	fetcher Fetcher
	clock   timezone.Clock
	maxAge  time.Duration
	urls    map[string]string
}

func NewRefresher(opts RefresherOptions) *Refresher {
	if opts.Clock == nil {
		opts.Clock = timezone.StandardClock{}
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Refresher{
		pages:   opts.Pages,
		times:   opts.Times,
		fetcher: opts.Fetcher,
		clock:   opts.Clock,
		maxAge:  opts.MaxAge,
		urls:    opts.URLs,
	}
}

func (r *Refresher) MaxAge() time.Duration {
	return r.maxAge
}

func (r *Refresher) URL(id string) (string, error) {
	source, ok := LookupSource(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	if override := r.urls[id]; override != "" {
		return override, nil
	}
	return source.URL, nil
}

// Refresh fetches the upstream page for id and replaces the cached copy.
// The page is only written once the fetch succeeded and the timestamp is
// only written once the page was, so a failure leaves both untouched.
func (r *Refresher) Refresh(ctx context.Context, id string) (time.Time, error) {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("source", id))

	t, err := r.refresh(ctx, id)
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
	}
	refreshCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", id),
		attribute.String("result", result),
	))
	return t, err
}

func (r *Refresher) refresh(ctx context.Context, id string) (time.Time, error) {
	link, err := r.URL(id)
	if err != nil {
		return time.Time{}, err
	}

	slog.InfoContext(ctx, "refreshing source", "source", id, "url", link)
	body, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		return time.Time{}, err
	}

	err = r.pages.Write(ctx, id, body)
	if err != nil {
		return time.Time{}, fmt.Errorf("write page %s: %w", id, err)
	}

	now := r.clock.Now()
	err = SetTimestamp(ctx, r.times, id, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("write timestamp %s: %w", id, err)
	}
	slog.DebugContext(ctx, "refreshed source", "source", id, "bytes", len(body))
	return now, nil
}

// Stale reports whether id has never been refreshed or was last refreshed at
// least MaxAge ago.
func (r *Refresher) Stale(ctx context.Context, id string) (bool, error) {
	last, ok, err := GetTimestamp(ctx, r.times, id)
	if err != nil {
		return false, fmt.Errorf("read timestamps: %w", err)
	}
	if !ok {
		return true, nil
	}
	elapsed := r.clock.Now().Sub(last)
	return elapsed >= r.maxAge, nil
}

// RefreshIfStale refreshes id only when Stale says so, refreshed reports
// whether an upstream fetch happened.
func (r *Refresher) RefreshIfStale(ctx context.Context, id string) (refreshed bool, err error) {
	ctx, span := tracer.Start(ctx, "RefreshIfStale")
	defer span.End()
	span.SetAttributes(attribute.String("source", id))

	if _, err := r.URL(id); err != nil {
		return false, err
	}
	stale, err := r.Stale(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read timestamps")
		return false, err
	}
	if !stale {
		return false, nil
	}
	_, err = r.Refresh(ctx, id)
	if err != nil {
		return false, err
	}
	return true, nil
}

// LastRefreshed returns the last refresh instant of id, ok is false when it
// was never refreshed.
func (r *Refresher) LastRefreshed(ctx context.Context, id string) (t time.Time, ok bool, err error) {
	return GetTimestamp(ctx, r.times, id)
}

func (r *Refresher) Now() time.Time {
	return r.clock.Now()
}
