package analysis

import (
	"strings"
	"testing"
	"time"
)

func TestDetectAnomalies(t *testing.T) {
	ts := time.Date(2026, 10, 19, 14, 37, 5, 0, time.UTC)

	tests := []struct {
		name   string
		stats  *ParsedStats
		issues []string
	}{
		{
			name:   "negative remain",
			stats:  &ParsedStats{Remain: intPtr(-3)},
			issues: []string{"negative remaining seats (-3)"},
		},
		{
			name:   "remain exceeds total",
			stats:  &ParsedStats{Total: intPtr(10), Remain: intPtr(15)},
			issues: []string{"remaining exceeds total (15>10)"},
		},
		{
			name:   "negative queue",
			stats:  &ParsedStats{Queue: intPtr(-1)},
			issues: []string{"negative queue (-1)"},
		},
		{
			name:   "negative remain and negative queue",
			stats:  &ParsedStats{Total: intPtr(10), Remain: intPtr(-1), Queue: intPtr(-2)},
			issues: []string{"negative remaining seats (-1)", "negative queue (-2)"},
		},
		{
			name:   "clean record",
			stats:  &ParsedStats{Total: intPtr(10), Remain: intPtr(10), Queue: intPtr(0)},
			issues: nil,
		},
		{
			name:   "remain without total is not compared",
			stats:  &ParsedStats{Remain: intPtr(500)},
			issues: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectAnomalies(tt.stats, ts)
			if len(got) != len(tt.issues) {
				t.Fatalf("expected %d anomalies, got %d: %+v", len(tt.issues), len(got), got)
			}
			for i, a := range got {
				if a.Issue != tt.issues[i] {
					t.Errorf("anomaly %d: expected issue %q, got %q", i, tt.issues[i], a.Issue)
				}
				if a.Time != "2026-10-19 14:37:05" {
					t.Errorf("anomaly %d: unexpected time %q", i, a.Time)
				}
			}
		})
	}
}

func TestDetectAnomalies_BothRemainChecksFire(t *testing.T) {
	// A negative total lets a negative remain also exceed it.
	s := &ParsedStats{Total: intPtr(-5), Remain: intPtr(-3)}
	got := DetectAnomalies(s, time.Now())
	if len(got) != 2 {
		t.Fatalf("expected 2 anomalies, got %+v", got)
	}
	if !strings.Contains(got[0].Issue, "-3") || !strings.Contains(got[1].Issue, "-3>-5") {
		t.Errorf("unexpected issues: %+v", got)
	}
}

func TestDetectAnomalies_NilStats(t *testing.T) {
	if got := DetectAnomalies(nil, time.Now()); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
