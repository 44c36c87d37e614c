package measure

import (
	"sync"
	"time"
)

// TransitionInfo holds the time spent entering a stage from its parent stage.
type TransitionInfo struct {
	Elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	allTransitions map[string]*TransitionInfo
	mu             *sync.Mutex
	EndDuration    time.Duration
	stageElapsed   time.Duration
	total          int64
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stageElapsed += elapsed
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) AddTransitionDuration(parentStageName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allTransitions[parentStageName] == nil {
		mt.allTransitions[parentStageName] = &TransitionInfo{}
	}
	tr := mt.allTransitions[parentStageName]
	tr.Elapsed += elapsed
	tr.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) AVGTransitionDuration() map[string]*TransitionInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for name, tr := range mt.allTransitions {
		if tr.Elapsed == 0 {
			continue
		}
		mt.allTransitions[name].Elapsed = round(time.Duration(float64(tr.Elapsed) / float64(tr.total)))
	}

	return mt.allTransitions
}

func (mt *DefaultMetric) AllTransitions() map[string]*TransitionInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.allTransitions
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Hour:
		d = d.Round(time.Hour)
	}

	return d
}
