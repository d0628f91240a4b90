package measure

import (
	"sync"
	"time"
)

// DefaultMetric accumulates row durations for one stage. Rows may be
// recorded from concurrent workers.
type DefaultMetric struct {
	mu          *sync.Mutex
	rowElapsed  time.Duration
	endDuration time.Duration
	total       int64
	concurrent  int
}

func newDefaultMetric(concurrent int) *DefaultMetric {
	return &DefaultMetric{
		mu:         &sync.Mutex{},
		concurrent: concurrent,
	}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.rowElapsed += elapsed
}

func (mt *DefaultMetric) Rows() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.rowElapsed) / float64(mt.total)))
}

var _ Metric = (*DefaultMetric)(nil)

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Minute:
		d = d.Round(time.Second)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	case d > time.Microsecond:
		d = d.Round(time.Nanosecond)
	}

	return d
}
