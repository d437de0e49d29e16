// Package dashboard folds the last 24 hours of posts into chart series,
// a congestion histogram and an anomaly list.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/seatboard/internal/analysis"
	"github.com/kiranshivaraju/seatboard/internal/metrics"
	"github.com/kiranshivaraju/seatboard/pkg/models"
)

const (
	Window       = 24 * time.Hour
	RecentWindow = time.Hour
	MaxSeriesLen = 200
	MaxAnomalies = 50
	labelLayout  = "15:04"
)

// RecordSource is the store surface the dashboard reads from.
type RecordSource interface {
	// ListPublishedBetween returns posts with start <= published_at <= end,
	// oldest first.
	ListPublishedBetween(ctx context.Context, start, end time.Time) ([]*models.Post, error)
	// CountPublishedSince counts posts with published_at >= since.
	CountPublishedSince(ctx context.Context, since time.Time) (int, error)
}

// Service builds dashboard payloads. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	src     RecordSource
	loc     *time.Location
	metrics *metrics.Metrics
}

// NewService creates a Service. Timestamps in the payload are rendered in
// loc (UTC when nil). m may be nil.
func NewService(src RecordSource, loc *time.Location, m *metrics.Metrics) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{src: src, loc: loc, metrics: m}
}

// Build assembles the payload for the 24 hours ending at now.
// Any store error aborts the build; no partial payload is returned.
func (s *Service) Build(ctx context.Context, now time.Time) (*Payload, error) {
	start := time.Now()

	posts, err := s.src.ListPublishedBetween(ctx, now.Add(-Window), now)
	if err != nil {
		s.metrics.DashboardFailed()
		return nil, fmt.Errorf("fetch window: %w", err)
	}

	p := Fold(posts, s.loc)

	// Summary counts come from their own queries, not from the window.
	p.Summary.Events1h, err = s.src.CountPublishedSince(ctx, now.Add(-RecentWindow))
	if err != nil {
		s.metrics.DashboardFailed()
		return nil, fmt.Errorf("count last hour: %w", err)
	}
	p.Summary.Events24h, err = s.src.CountPublishedSince(ctx, now.Add(-Window))
	if err != nil {
		s.metrics.DashboardFailed()
		return nil, fmt.Errorf("count last day: %w", err)
	}

	elapsed := time.Since(start)
	s.metrics.ObserveDashboard(elapsed, len(posts), len(p.Anomalies))
	slog.Debug("dashboard built",
		"records", len(posts),
		"points", len(p.Charts.Line.Labels),
		"anomalies", len(p.Anomalies),
		"duration_ms", elapsed.Milliseconds(),
	)

	return p, nil
}

// Fold runs the per-record pipeline over posts, which must be sorted by
// published_at ascending. Summary counts are left at zero.
func Fold(posts []*models.Post, loc *time.Location) *Payload {
	p := &Payload{
		Charts: Charts{
			Line: LineChart{
				Labels: []string{},
				Remain: []*int{},
				Queue:  []*int{},
			},
		},
		Anomalies: []analysis.Anomaly{},
	}

	var buckets analysis.Bucketer
	var latestAt time.Time
	var seen bool

	for _, post := range posts {
		if post.PublishedAt == nil {
			continue
		}
		ts := post.PublishedAt.In(loc)
		// Advances even when the body has no stats.
		latestAt, seen = ts, true

		stats := analysis.ParseStats(post.Text)
		if stats == nil {
			continue
		}

		p.Charts.Line.Labels = append(p.Charts.Line.Labels, ts.Format(labelLayout))
		p.Charts.Line.Remain = append(p.Charts.Line.Remain, stats.Remain)
		p.Charts.Line.Queue = append(p.Charts.Line.Queue, stats.Queue)

		if status, ok := analysis.Classify(stats.Queue, stats.Remain, stats.Total); ok {
			p.Charts.Status.add(status)
			p.LatestStatus = &status
		}

		buckets.Add(ts)
		p.Anomalies = append(p.Anomalies, analysis.DetectAnomalies(stats, ts)...)
	}

	if seen {
		formatted := latestAt.Format(analysis.TimestampLayout)
		p.LatestAt = &formatted
	}

	labels, values := buckets.Series()
	p.Charts.Events = EventsChart{
		Labels: tail(labels, MaxSeriesLen),
		Values: tail(values, MaxSeriesLen),
	}
	p.Charts.Line.Labels = tail(p.Charts.Line.Labels, MaxSeriesLen)
	p.Charts.Line.Remain = tail(p.Charts.Line.Remain, MaxSeriesLen)
	p.Charts.Line.Queue = tail(p.Charts.Line.Queue, MaxSeriesLen)
	p.Anomalies = tail(p.Anomalies, MaxAnomalies)

	return p
}
