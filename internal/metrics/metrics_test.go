package metrics

import "testing"

type recordingBackend struct {
	counters   []string
	histograms []string
	lastDelta  float64
	lastValue  float64
	lastLabels Labels

	flushed  int
	flushErr error
}

func (r *recordingBackend) IncCounter(name string, delta float64, labels Labels) {
	r.counters = append(r.counters, name)
	r.lastDelta = delta
	r.lastLabels = labels
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, labels Labels) {
	r.histograms = append(r.histograms, name)
	r.lastValue = value
	r.lastLabels = labels
}

func (r *recordingBackend) Flush() error {
	r.flushed++
	return r.flushErr
}

func TestPackageFuncsDelegate(t *testing.T) {
	rb := &recordingBackend{}
	SetBackend(rb)
	t.Cleanup(func() { SetBackend(nil) })

	IncCounter("wid_containers_total", 1, Labels{"status": "ok"})
	ObserveHistogram("wid_container_duration_seconds", 0.25, Labels{"status": "ok"})

	if len(rb.counters) != 1 || rb.counters[0] != "wid_containers_total" {
		t.Fatalf("counter not delegated: %v", rb.counters)
	}
	if rb.lastDelta != 1 {
		t.Fatalf("delta=%v want 1", rb.lastDelta)
	}
	if len(rb.histograms) != 1 || rb.lastValue != 0.25 {
		t.Fatalf("histogram not delegated: %v value=%v", rb.histograms, rb.lastValue)
	}
	if rb.lastLabels["status"] != "ok" {
		t.Fatalf("labels not delegated: %v", rb.lastLabels)
	}
}

func TestFlush_DelegatesWhenSupported(t *testing.T) {
	rb := &recordingBackend{}
	SetBackend(rb)
	t.Cleanup(func() { SetBackend(nil) })

	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if rb.flushed != 1 {
		t.Fatalf("flush not delegated: %d", rb.flushed)
	}
}

func TestNilBackendIsSafe(t *testing.T) {
	SetBackend(nil)

	// Must not panic and must not error.
	IncCounter("wid_containers_total", 1, nil)
	ObserveHistogram("wid_container_duration_seconds", 0.1, nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush on nop backend: %v", err)
	}
}
