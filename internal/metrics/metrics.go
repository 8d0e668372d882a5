// Package metrics is a tiny backend-agnostic metrics facade.
//
// Extraction code records counters and histograms against this package and
// never sees a concrete metrics client. Binaries pick the backend at startup
// via SetBackend; until then every call lands on a nop backend, so library
// code can instrument unconditionally.
package metrics

import "sync"

// Labels are free-form metric dimensions (e.g. {"status": "ok"}).
type Labels map[string]string

// Backend receives recorded metrics.
//
// Implementations must be safe for concurrent use; callers record from
// multiple goroutines without coordination.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}

var (
	mu      sync.RWMutex
	current Backend = nopBackend{}
)

// SetBackend installs the active backend. Passing nil restores the nop
// backend, which keeps recording calls safe in tests and in runs with
// metrics disabled.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		current = nopBackend{}
		return
	}
	current = b
}

func backend() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// IncCounter adds delta to a named counter on the active backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend().IncCounter(name, delta, labels)
}

// ObserveHistogram records one sample of a named histogram on the active
// backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	backend().ObserveHistogram(name, value, labels)
}

// Flush asks the active backend to submit buffered metrics, when it
// supports flushing. Backends without a Flush method are a no-op.
func Flush() error {
	if f, ok := backend().(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
