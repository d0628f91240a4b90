package measure

// DefaultMeasure keeps one metric per stage name. Metrics are registered
// while the evaluation is prepared, before any concurrent work starts.
type DefaultMeasure struct {
	Stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, concurrent int) Metric {
	mt := newDefaultMetric(concurrent)
	m.Stages[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	return m.Stages[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	return m.Stages
}

var _ Measure = (*DefaultMeasure)(nil)
