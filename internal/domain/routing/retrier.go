package routing

import (
	"sync"
	"time"
)

// defaultRetryDelays cover slow webview startup: one quick re-emission
// and one late enough for a cold first paint.
var defaultRetryDelays = []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}

// Retrier re-emits a link event at fixed delays after a window is
// created or the process launches with a pending link. The consuming
// side de-duplicates by URL, so redundant delivery is safe; the
// emissions always fire regardless of whether an earlier one was
// observed. Each schedule runs on a detached goroutine holding only
// the label and URL, never a store lock.
type Retrier struct {
	delays []time.Duration
	emit   func(label, url string)
	wg     sync.WaitGroup
}

// NewRetrier creates a retrier with the given emission callback.
// Without explicit delays the production defaults apply.
func NewRetrier(emit func(label, url string), delays ...time.Duration) *Retrier {
	if len(delays) == 0 {
		delays = defaultRetryDelays
	}
	return &Retrier{
		delays: delays,
		emit:   emit,
	}
}

// Schedule queues the delayed emissions for one (label, URL) pair.
// Never blocks; once scheduled the emissions cannot be cancelled.
func (r *Retrier) Schedule(label, url string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for _, delay := range r.delays {
			time.Sleep(delay)
			r.emit(label, url)
		}
	}()
}

// Wait blocks until all scheduled emissions have fired. Used by tests
// and by shutdown to flush in-flight deliveries.
func (r *Retrier) Wait() {
	r.wg.Wait()
}
