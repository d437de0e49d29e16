package analysis

// Status is a congestion label derived from seat counters.
type Status string

const (
	StatusRelaxed   Status = "Relaxed"
	StatusNormal    Status = "Normal"
	StatusCongested Status = "Congested"
)

// normalRatio is the share of total seats at or below which remaining
// capacity counts as Normal rather than Relaxed.
const normalRatio = 0.3

// Classify maps queue, remain and total to a congestion label.
// ok is false when any input is nil.
func Classify(queue, remain, total *int) (status Status, ok bool) {
	if total == nil || remain == nil || queue == nil {
		return "", false
	}
	if *queue > 0 || *remain <= 0 {
		return StatusCongested, true
	}
	if float64(*remain) <= float64(*total)*normalRatio {
		return StatusNormal, true
	}
	return StatusRelaxed, true
}
