package measure

import "time"

type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	AddDuration(elapsed time.Duration)
	AddTransitionDuration(parentStageName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransitionDuration() map[string]*TransitionInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	AllTransitions() map[string]*TransitionInfo
}
