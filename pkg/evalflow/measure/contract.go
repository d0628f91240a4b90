package measure

import "time"

// Measure collects one Metric per evaluation stage.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates timing information for a single stage.
type Metric interface {
	// AddDuration records the processing time of one row.
	AddDuration(elapsed time.Duration)
	// AVGDuration returns the rounded average row processing time.
	AVGDuration() time.Duration
	// Rows returns how many rows were recorded.
	Rows() int64
	// SetTotalDuration records the wall-clock time of the whole stage.
	SetTotalDuration(endDuration time.Duration)
	// GetTotalDuration returns the wall-clock time of the whole stage.
	GetTotalDuration() time.Duration
}
