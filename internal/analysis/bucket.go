package analysis

import (
	"sort"
	"time"
)

// BucketWidth is the size of an event-count interval.
const BucketWidth = 10 * time.Minute

// BucketStart floors t to its 10-minute interval in t's location.
func BucketStart(t time.Time) time.Time {
	minute := t.Minute() / 10 * 10
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// BucketKey returns the "HH:MM" label of t's 10-minute interval.
func BucketKey(t time.Time) string {
	return BucketStart(t).Format("15:04")
}

// Bucketer counts events per 10-minute interval.
// The zero value is ready to use. Not safe for concurrent use.
type Bucketer struct {
	counts map[string]int
}

// Add counts one event at t.
func (b *Bucketer) Add(t time.Time) {
	if b.counts == nil {
		b.counts = make(map[string]int)
	}
	b.counts[BucketKey(t)]++
}

// Series returns the bucket labels in ascending order with their counts.
// Both slices are non-nil.
func (b *Bucketer) Series() (labels []string, values []int) {
	labels = make([]string, 0, len(b.counts))
	for k := range b.counts {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	values = make([]int, len(labels))
	for i, k := range labels {
		values[i] = b.counts[k]
	}
	return labels, values
}
