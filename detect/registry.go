package detect

import (
	"sort"
	"sync"

	"github.com/scenelab/scenedetect/errs"
)

// Constructor builds a Detector from an options value whose concrete
// type the constructor knows how to assert. Construction-time failures
// (e.g. a threshold out of range) are returned as *errs.ConfigError,
// never deferred into ProcessFrame.
type Constructor func(options any) (Detector, error)

// Registry maps detector names to constructors, so a config/CLI layer
// can instantiate "content", "adaptive", "threshold", "histogram", or
// "hash" by string rather than importing each detector package
// directly. The map/mutex shape mirrors a lifecycle registry: register
// at init time (write-locked, rare), look up per job (read-locked, hot).
type Registry struct {
	mu   sync.RWMutex
	ctor map[string]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctor: make(map[string]Constructor)}
}

// Register adds a constructor under name, overwriting any existing
// registration for that name.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctor[name] = ctor
}

// Build looks up name and constructs a Detector from options.
func (r *Registry) Build(name string, options any) (Detector, error) {
	r.mu.RLock()
	ctor, ok := r.ctor[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &errs.ConfigError{Option: "detector", Reason: "unknown detector name " + name}
	}
	return ctor(options)
}

// Names returns every registered detector name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctor))
	for name := range r.ctor {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Default is the package-level registry pre-populated with the five
// built-in detectors via each detector file's init().
var Default = NewRegistry()
