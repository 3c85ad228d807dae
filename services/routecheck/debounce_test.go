package routecheck

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingChecker lets the test decide when each validation call returns,
// keyed by the start address.
type blockingChecker struct {
	started chan string
	release map[string]chan Result
}

func newBlockingChecker(keys ...string) *blockingChecker {
	c := &blockingChecker{
		started: make(chan string, 10),
		release: make(map[string]chan Result),
	}
	for _, key := range keys {
		c.release[key] = make(chan Result, 1)
	}
	return c
}

func (c *blockingChecker) Validate(_ context.Context, in Input) Result {
	c.started <- in.Start.Address
	return <-c.release[in.Start.Address]
}

func inputFor(start string) Input {
	return Input{
		Start:                Endpoint{Address: start},
		End:                  Endpoint{Address: "end"},
		ExpectedPickupDate:   time.Date(2025, 6, 2, 8, 0, 0, 0, time.Local),
		ExpectedDeliveryDate: time.Date(2025, 6, 3, 8, 0, 0, 0, time.Local),
	}
}

func waitForStart(t *testing.T, c *blockingChecker, want string) {
	t.Helper()
	select {
	case got := <-c.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("validation for %q never started", want)
	}
}

func TestDebouncedStaleResultIsDiscarded(t *testing.T) {
	checker := newBlockingChecker("A", "B")
	d := NewDebounced(checker, 10*time.Millisecond)
	defer d.Close()

	// A starts, then B supersedes it while A is still in flight
	d.Update(inputFor("A"))
	waitForStart(t, checker, "A")

	d.Update(inputFor("B"))
	waitForStart(t, checker, "B")

	// B resolves first and publishes
	checker.release["B"] <- Result{IsValid: true, Message: "result B"}
	assert.Eventually(t, func() bool {
		res, ok := d.Result()
		return ok && res.Message == "result B"
	}, 2*time.Second, 5*time.Millisecond)

	// the slow A resolves afterwards; its result must not overwrite B's
	checker.release["A"] <- Result{IsValid: false, Message: "result A"}
	assert.Never(t, func() bool {
		res, ok := d.Result()
		return !ok || res.Message != "result B"
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestDebouncedCoalescesRapidUpdates(t *testing.T) {
	var calls atomic.Int32
	checker := checkerFunc(func(ctx context.Context, in Input) Result {
		calls.Add(1)
		return Result{IsValid: true, Message: in.Start.Address}
	})
	d := NewDebounced(checker, 50*time.Millisecond)
	defer d.Close()

	// edits faster than the quiet period produce a single call
	d.Update(inputFor("first"))
	d.Update(inputFor("second"))
	d.Update(inputFor("third"))

	assert.Eventually(t, func() bool {
		res, ok := d.Result()
		return ok && res.Message == "third"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncedResetDropsEverything(t *testing.T) {
	checker := checkerFunc(func(ctx context.Context, in Input) Result {
		return Result{IsValid: true}
	})
	d := NewDebounced(checker, 20*time.Millisecond)
	defer d.Close()

	d.Update(inputFor("A"))
	d.Reset()

	time.Sleep(60 * time.Millisecond)
	_, ok := d.Result()
	assert.False(t, ok)
	assert.False(t, d.Calculating())
}

func TestDebouncedCalculatingLifecycle(t *testing.T) {
	checker := newBlockingChecker("A")
	d := NewDebounced(checker, 10*time.Millisecond)
	defer d.Close()

	assert.False(t, d.Calculating())

	d.Update(inputFor("A"))
	assert.True(t, d.Calculating())

	waitForStart(t, checker, "A")
	checker.release["A"] <- Result{IsValid: true}

	assert.Eventually(t, func() bool {
		return !d.Calculating()
	}, 2*time.Second, 5*time.Millisecond)
}

type checkerFunc func(ctx context.Context, in Input) Result

func (f checkerFunc) Validate(ctx context.Context, in Input) Result {
	return f(ctx, in)
}
