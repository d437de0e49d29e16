package analysis

import (
	"fmt"
	"time"
)

// TimestampLayout is the layout used for anomaly times and latest_at.
const TimestampLayout = "2006-01-02 15:04:05"

// Anomaly is a record whose counters fail a sanity check.
type Anomaly struct {
	Time  string `json:"time"`
	Issue string `json:"issue"`
}

// DetectAnomalies runs every sanity check against s and returns one entry per
// failed check, in check order. Returns nil when s is nil or clean.
func DetectAnomalies(s *ParsedStats, at time.Time) []Anomaly {
	if s == nil {
		return nil
	}

	ts := at.Format(TimestampLayout)
	var out []Anomaly

	if s.Remain != nil && *s.Remain < 0 {
		out = append(out, Anomaly{Time: ts, Issue: fmt.Sprintf("negative remaining seats (%d)", *s.Remain)})
	}
	if s.Total != nil && s.Remain != nil && *s.Remain > *s.Total {
		out = append(out, Anomaly{Time: ts, Issue: fmt.Sprintf("remaining exceeds total (%d>%d)", *s.Remain, *s.Total)})
	}
	if s.Queue != nil && *s.Queue < 0 {
		out = append(out, Anomaly{Time: ts, Issue: fmt.Sprintf("negative queue (%d)", *s.Queue)})
	}

	return out
}
