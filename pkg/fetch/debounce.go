package fetch

import (
	"sync"
	"time"
)

// DefaultDebounceQuiet is how long input must stay quiet before a debounced
// call fires.
const DefaultDebounceQuiet = 300 * time.Millisecond

// Debouncer coalesces rapid triggers so that at most one call runs per quiet
// period, last call wins. It only coalesces - result caching is a separate
// concern handled by SearchCache.
type Debouncer struct {
	mutex sync.Mutex

	quiet      time.Duration
	timer      *time.Timer
	generation uint64
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultDebounceQuiet
	}

	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn to run once the quiet period elapses with no further
// triggers. fn receives a check reporting whether this invocation is still
// the most recent one - a superseded invocation must discard its result
// rather than apply it.
func (d *Debouncer) Trigger(fn func(current func() bool)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.generation++
	generation := d.generation

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.quiet, func() {
		fn(func() bool {
			d.mutex.Lock()
			defer d.mutex.Unlock()
			return generation == d.generation
		})
	})
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
