package routecheck

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietPeriod is how long inputs must stay unchanged before a
// validation call is issued, roughly a human typing pause.
const DefaultQuietPeriod = 800 * time.Millisecond

// Checker is what Debounced drives; satisfied by *Service.
type Checker interface {
	Validate(ctx context.Context, in Input) Result
}

// Debounced wraps a Checker so route inputs can change on every keystroke
// without hammering the geocoder. A check runs only after the quiet period,
// and when inputs change again before an earlier check resolves, the earlier
// call is cancelled and its result discarded: the surviving result always
// belongs to the most recently issued call. Callers poll the result, nothing
// is ever thrown across this boundary.
type Debounced struct {
	checker Checker
	delay   time.Duration

	mu       sync.Mutex
	seq      uint64
	timer    *time.Timer
	cancel   context.CancelFunc
	pending  bool
	inFlight int
	result   *Result
}

// NewDebounced creates a debounced validator around checker.
func NewDebounced(checker Checker, delay time.Duration) *Debounced {
	if delay <= 0 {
		delay = DefaultQuietPeriod
	}
	return &Debounced{
		checker: checker,
		delay:   delay,
	}
}

// Update registers changed inputs. Any scheduled or in-flight check becomes
// stale immediately.
func (d *Debounced) Update(in Input) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.run(seq, in)
	})
}

func (d *Debounced) run(seq uint64, in Input) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.inFlight++
	d.mu.Unlock()

	res := d.checker.Validate(ctx, in)

	d.mu.Lock()
	d.inFlight--
	// last-write-wins: only the newest issued call may publish its result
	if seq == d.seq && ctx.Err() == nil {
		d.result = &res
		d.pending = false
		d.cancel = nil
	}
	d.mu.Unlock()
	cancel()
}

// Result returns the latest published result, if any.
func (d *Debounced) Result() (Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.result == nil {
		return Result{}, false
	}
	return *d.result, true
}

// Calculating reports whether a check is scheduled or still running.
func (d *Debounced) Calculating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending || d.inFlight > 0
}

// Reset drops any scheduled check and the published result, for when the
// route inputs become incomplete again.
func (d *Debounced) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.pending = false
	d.result = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Close cancels everything outstanding. The Debounced must not be reused.
func (d *Debounced) Close() {
	d.Reset()
}
