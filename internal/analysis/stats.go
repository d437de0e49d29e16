// Package analysis extracts seat statistics from post bodies and derives the
// per-record signals the dashboard aggregates: congestion status, 10-minute
// buckets and sanity anomalies. Everything here is pure and allocation-light.
package analysis

import (
	"regexp"
	"strconv"
)

// Seat report patterns compiled once at package init.
var (
	reTotal  = regexp.MustCompile(`총\s*좌석\s*수:\s*(\d+)\s*석`)
	reSeated = regexp.MustCompile(`착석\s*인원:\s*(\d+)\s*명`)
	// The queue label is often followed by a qualifier such as "(예상)"
	// before the colon, so anything up to the first colon is accepted.
	reQueue  = regexp.MustCompile(`대기열\s*인원.*?:\s*(\d+)\s*명`)
	reRemain = regexp.MustCompile(`남은\s*좌석:\s*(\d+)\s*석`)
)

// ParsedStats holds the counters found in a single post body.
// A nil field means the pattern was not present.
type ParsedStats struct {
	Total  *int `json:"total"`
	Seated *int `json:"seated"`
	Queue  *int `json:"queue"`
	Remain *int `json:"remain"`
}

// ParseStats extracts seat counters from text.
// Returns nil for empty text. For non-empty text it always returns a value,
// with fields left nil when their pattern does not match.
func ParseStats(text string) *ParsedStats {
	if text == "" {
		return nil
	}
	return &ParsedStats{
		Total:  pick(reTotal, text),
		Seated: pick(reSeated, text),
		Queue:  pick(reQueue, text),
		Remain: pick(reRemain, text),
	}
}

func pick(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// out of range for int
		return nil
	}
	return &n
}
