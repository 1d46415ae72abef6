// Package fence tracks a single queue's position on the GPU timeline.
package fence

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"golang.org/x/exp/slog"
)

// Value is a point on a queue's submission timeline. Values are handed out strictly increasing, starting
// at 1; 0 is the value every fence starts at and is therefore always complete.
type Value uint64

// Tracker pairs a monotonically increasing counter with a native fence. Every Signal appends a
// "signal to this value" instruction to the native queue, and because the GPU completes work in submission
// order, a completed value implies every smaller value is complete too.
type Tracker struct {
	logger *slog.Logger
	queue  driver.Queue
	fence  driver.Fence

	mutex         utils.OptionalMutex
	lastSignaled  Value
	lastCompleted Value
	// broken holds the first fatal error seen. A tracker whose signal failed has an unknown relationship
	// with the GPU timeline, so it refuses to be used again.
	broken error
}

// NewTracker creates a tracker for queue, using fence as its completion counter. fence must have
// been created with an initial value of 0.
func NewTracker(logger *slog.Logger, queue driver.Queue, fence driver.Fence, useMutex bool) *Tracker {
	return &Tracker{
		logger: utils.LoggerOrDiscard(logger),
		queue:  queue,
		fence:  fence,
		mutex:  utils.OptionalMutex{UseMutex: useMutex},
	}
}

// Signal advances the counter, asks the GPU to signal the new value once all previously submitted work
// is complete, and returns that value. It must be called exactly once per submission.
func (t *Tracker) Signal() (Value, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.broken != nil {
		return 0, t.broken
	}

	value := t.lastSignaled + 1
	err := t.queue.Signal(t.fence, uint64(value))
	if err != nil {
		t.broken = syncutils.DeviceLost(err, "failed to signal fence value %d", value)
		t.logger.LogAttrs(context.Background(), slog.LevelError, "Tracker::Signal failed", slog.Uint64("value", uint64(value)), slog.Any("error", err))
		return 0, t.broken
	}

	t.lastSignaled = value
	t.logger.LogAttrs(context.Background(), slog.LevelDebug, "Tracker::Signal", slog.Uint64("value", uint64(value)))
	return value, nil
}

// LastSignaled returns the most recent value returned by Signal
func (t *Tracker) LastSignaled() Value {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.lastSignaled
}

// CompletedValue queries the GPU for the highest value it has reached
func (t *Tracker) CompletedValue() (Value, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.refreshCompleted()
}

func (t *Tracker) refreshCompleted() (Value, error) {
	if t.broken != nil {
		return t.lastCompleted, t.broken
	}

	completed, err := t.fence.CompletedValue()
	if err != nil {
		t.broken = syncutils.DeviceLost(err, "failed to read fence completed value")
		return t.lastCompleted, t.broken
	}

	t.observe(Value(completed))
	return t.lastCompleted, nil
}

func (t *Tracker) observe(completed Value) {
	if completed > t.lastCompleted {
		t.lastCompleted = completed
	}
}

// IsComplete reports whether the GPU has finished all work up to and including value. It never blocks.
// If the native fence cannot be read, value is reported incomplete and the tracker is marked broken.
func (t *Tracker) IsComplete(value Value) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if value <= t.lastCompleted {
		return true
	}

	completed, err := t.refreshCompleted()
	if err != nil {
		t.logger.LogAttrs(context.Background(), slog.LevelError, "Tracker::IsComplete failed", slog.Any("error", err))
		return false
	}

	return value <= completed
}

// Wait blocks until value is complete or timeout elapses. Pass common.NoTimeout to wait indefinitely.
//
// A timeout is reported as an error marked syncutils.ErrTimeout: resources associated with value must
// then be considered in use.
func (t *Tracker) Wait(value Value, timeout time.Duration) error {
	t.mutex.Lock()
	if t.broken != nil {
		t.mutex.Unlock()
		return t.broken
	}
	if value > t.lastSignaled {
		signaled := t.lastSignaled
		t.mutex.Unlock()
		return syncutils.Misusef("attempted to wait for fence value %d, but only %d has been signaled", value, signaled)
	}
	t.mutex.Unlock()

	if t.IsComplete(value) {
		return nil
	}

	t.logger.LogAttrs(context.Background(), slog.LevelDebug, "Tracker::Wait", slog.Uint64("value", uint64(value)), slog.Duration("timeout", timeout))

	// The native wait happens outside the mutex so other goroutines can keep signaling
	reached, err := t.fence.WaitFor(uint64(value), timeout)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if err != nil {
		if t.broken == nil {
			t.broken = syncutils.DeviceLost(err, "failed while waiting for fence value %d", value)
		}
		return t.broken
	}

	if !reached {
		return syncutils.Timeoutf("fence value %d was not reached within %s (completed value is %d)", value, timeout, t.lastCompleted)
	}

	t.observe(value)
	return nil
}

// Flush signals a new value and waits for it, guaranteeing that all previously submitted work has
// drained when it returns without error
func (t *Tracker) Flush() error {
	value, err := t.Signal()
	if err != nil {
		return err
	}

	return t.Wait(value, common.NoTimeout)
}

// Fail breaks the tracker with err if err is fatal. Work submitted to the queue the tracker signals can
// no longer be assumed to reach the GPU, so every later call returns the first fatal error. Fail returns
// that error, or err unchanged when it is not fatal.
func (t *Tracker) Fail(err error) error {
	if !syncutils.IsFatal(err) {
		return err
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.broken == nil {
		t.broken = err
		t.logger.LogAttrs(context.Background(), slog.LevelError, "Tracker::Fail", slog.Any("error", err))
	}
	return t.broken
}

// Err returns the fatal error that broke the tracker, if any
func (t *Tracker) Err() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.broken
}

// Validate checks the tracker's invariants. It is used with syncutils.DebugValidate.
func (t *Tracker) Validate() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.lastCompleted > t.lastSignaled {
		return errors.Errorf("fence completed value %d is ahead of the last signaled value %d", t.lastCompleted, t.lastSignaled)
	}

	return nil
}

// Destroy releases the native fence. The caller must have flushed first.
func (t *Tracker) Destroy() {
	t.fence.Destroy()
}
