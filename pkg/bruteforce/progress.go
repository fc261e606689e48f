package bruteforce

import (
	"sync"
	"sync/atomic"
)

// Reporter receives notifications while a run is in progress.
// Methods are called from the worker goroutines and must be safe
// for concurrent use.
type Reporter interface {
	// Progress is called with the number of completed probes, sampled
	// every SampleInterval completions and once when checked == total.
	// Successive calls never report a smaller checked value.
	Progress(checked, total int)
	// Found is called once for every subdomain that resolved.
	Found(name string, addresses []string)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) Progress(checked, total int)           {}
func (NopReporter) Found(name string, addresses []string) {}

// tracker is the progress counter of a single run.
type tracker struct {
	count    atomic.Int64
	total    int64
	every    int64
	reporter Reporter

	mu       sync.Mutex
	reported int64
}

func newTracker(total, every int, reporter Reporter) *tracker {
	return &tracker{
		total:    int64(total),
		every:    int64(every),
		reporter: reporter,
	}
}

// increment marks one probe as completed and notifies the reporter
// when the count hits the sampling cadence or the total.
func (t *tracker) increment() {
	n := t.count.Add(1)
	if n%t.every != 0 && n != t.total {
		return
	}
	t.notify(n)
}

// flush reports the current count, used when a run stops early.
func (t *tracker) flush() {
	t.notify(t.count.Load())
}

func (t *tracker) notify(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= t.reported {
		return
	}
	t.reported = n
	t.reporter.Progress(int(n), int(t.total))
}

func (t *tracker) checked() int {
	return int(t.count.Load())
}
