package dashboard

import "github.com/kiranshivaraju/seatboard/internal/analysis"

// Payload is the dashboard data returned to the admin UI.
type Payload struct {
	LatestAt     *string            `json:"latest_at"`
	LatestStatus *analysis.Status   `json:"latest_status"`
	Summary      Summary            `json:"summary"`
	Charts       Charts             `json:"charts"`
	Anomalies    []analysis.Anomaly `json:"anomalies"`
}

type Summary struct {
	Events1h  int `json:"events_1h"`
	Events24h int `json:"events_24h"`
}

type Charts struct {
	Line   LineChart    `json:"line"`
	Events EventsChart  `json:"events"`
	Status StatusCounts `json:"status"`
}

// LineChart holds one point per parseable post. Remain and Queue entries are
// nil where the post did not report that counter.
type LineChart struct {
	Labels []string `json:"labels"`
	Remain []*int   `json:"remain"`
	Queue  []*int   `json:"queue"`
}

type EventsChart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type StatusCounts struct {
	Relaxed   int `json:"Relaxed"`
	Normal    int `json:"Normal"`
	Congested int `json:"Congested"`
}

func (c *StatusCounts) add(s analysis.Status) {
	switch s {
	case analysis.StatusRelaxed:
		c.Relaxed++
	case analysis.StatusNormal:
		c.Normal++
	case analysis.StatusCongested:
		c.Congested++
	}
}

// tail returns the last n elements of s, or s itself if it is shorter.
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
