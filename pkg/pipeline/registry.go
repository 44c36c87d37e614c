package pipeline

import (
	"sort"
	"sync"
)

// Factory creates a new instance of a training pipeline.
type Factory func() TrainingPipeline

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a training pipeline available under the given name. Registering the
// same name twice overwrites the previous factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get returns the factory registered under the given name, or nil when the name is
// unknown.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	return registry[name]
}

// Names returns the sorted names of all registered pipelines.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
