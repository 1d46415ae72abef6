package gpuq

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"golang.org/x/exp/slog"
)

// Event is a window or input notification the frame loop reacts to
type Event interface {
	isEvent()
}

// ResizeEvent reports the new client area size of the window
type ResizeEvent struct {
	Width, Height int
}

// ToggleVSyncEvent flips between presenting on vertical blank and presenting immediately
type ToggleVSyncEvent struct{}

// ToggleFullscreenEvent asks the window to switch between fullscreen and windowed mode
type ToggleFullscreenEvent struct{}

func (ResizeEvent) isEvent()           {}
func (ToggleVSyncEvent) isEvent()      {}
func (ToggleFullscreenEvent) isEvent() {}

// FrameContext is passed to a RecordFunc. List is open for recording and BackBuffer is already in
// driver.ResourceStateRenderTarget and cleared.
type FrameContext struct {
	List             *CommandList
	Slot             int
	BackBuffer       driver.Resource
	RenderTargetView driver.RenderTargetView
	// Frame counts rendered frames, starting at 1
	Frame     uint64
	DeltaTime time.Duration
}

// RecordFunc records a frame's commands into frame.List. It must not execute the list.
type RecordFunc func(frame *FrameContext) error

const (
	defaultWaitTimeout    = time.Second
	defaultMaxWaitRetries = 3
)

// FrameLoopOptions contains optional settings when creating a FrameLoop
type FrameLoopOptions struct {
	VSync      bool
	ClearColor [4]float32
	// WaitTimeout bounds each wait for a back buffer slot to become reusable. If 0, one second is used.
	// Pass common.NoTimeout to wait indefinitely.
	WaitTimeout time.Duration
	// MaxWaitRetries is the number of timed out waits tolerated for a single frame before the device is
	// considered lost. If 0, 3 is used. Negative values disable retries.
	MaxWaitRetries int
	// OnToggleFullscreen is called on ToggleFullscreenEvent. The loop does not own the window, so this is
	// the only way it can reach it.
	OnToggleFullscreen func() error
}

// FrameLoop drives acquire, record, submit, present and wait for a single swapchain
type FrameLoop struct {
	logger    *slog.Logger
	queue     *Queue
	swapchain *Swapchain
	timer     *FrameTimer

	vsync              bool
	clearColor         [4]float32
	waitTimeout        time.Duration
	maxWaitRetries     int
	onToggleFullscreen func() error

	// err is the first fatal error. Once set, the loop refuses to submit more work.
	err error
}

func NewFrameLoop(logger *slog.Logger, queue *Queue, swapchain *Swapchain, options FrameLoopOptions) *FrameLoop {
	logger = utils.LoggerOrDiscard(logger)

	waitTimeout := options.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = defaultWaitTimeout
	}

	maxWaitRetries := options.MaxWaitRetries
	if maxWaitRetries == 0 {
		maxWaitRetries = defaultMaxWaitRetries
	} else if maxWaitRetries < 0 {
		maxWaitRetries = 0
	}

	return &FrameLoop{
		logger:             logger,
		queue:              queue,
		swapchain:          swapchain,
		timer:              NewFrameTimer(logger),
		vsync:              options.VSync,
		clearColor:         options.ClearColor,
		waitTimeout:        waitTimeout,
		maxWaitRetries:     maxWaitRetries,
		onToggleFullscreen: options.OnToggleFullscreen,
	}
}

func (l *FrameLoop) VSync() bool {
	return l.vsync
}

func (l *FrameLoop) Timer() *FrameTimer {
	return l.timer
}

// Err returns the fatal error that stopped the loop, if any
func (l *FrameLoop) Err() error {
	return l.err
}

func (l *FrameLoop) fail(err error) error {
	if err != nil && syncutils.IsFatal(err) && l.err == nil {
		l.err = err
		l.logger.LogAttrs(context.Background(), slog.LevelError, "FrameLoop stopped", slog.Any("error", err))
	}
	return err
}

// RenderFrame renders and presents a single frame, then waits until the back buffer slot the next frame
// will use is reusable. After a fatal error, every call returns that error without submitting work.
func (l *FrameLoop) RenderFrame(record RecordFunc) error {
	if l.err != nil {
		return l.err
	}

	return l.fail(l.renderFrame(record))
}

func (l *FrameLoop) renderFrame(record RecordFunc) error {
	delta := l.timer.Tick()

	slot := l.swapchain.CurrentIndex()
	backBuffer := l.swapchain.CurrentBackBuffer()
	view := l.swapchain.CurrentRenderTargetView()
	if backBuffer == nil || view == nil {
		return syncutils.Misusef("back buffer slot %d has no buffer, the last resize failed", slot)
	}

	list, err := l.queue.GetCommandList()
	if err != nil {
		return err
	}

	err = list.Transition(backBuffer, driver.ResourceStatePresent, driver.ResourceStateRenderTarget)
	if err != nil {
		l.queue.abandonCommandList(list)
		return err
	}

	err = list.ClearRenderTarget(view, l.clearColor)
	if err != nil {
		l.queue.abandonCommandList(list)
		return err
	}

	var recordErr error
	if record != nil {
		recordErr = record(&FrameContext{
			List:             list,
			Slot:             slot,
			BackBuffer:       backBuffer,
			RenderTargetView: view,
			Frame:            l.timer.Frames(),
			DeltaTime:        delta,
		})
	}

	// The list is submitted even if recording failed so it returns to the pool
	err = list.Transition(backBuffer, driver.ResourceStateRenderTarget, driver.ResourceStatePresent)
	if err != nil {
		l.queue.abandonCommandList(list)
		return err
	}

	value, err := l.queue.ExecuteCommandList(list)
	if err != nil {
		return err
	}

	err = l.swapchain.SetFrameFence(slot, value)
	if err != nil {
		return err
	}

	if recordErr != nil {
		return errors.Wrapf(recordErr, "failed to record frame %d", l.timer.Frames())
	}

	_, err = l.swapchain.Present(l.vsync)
	if errors.Is(err, syncutils.ErrOutOfDate) {
		err = l.swapchain.Recreate()
	}
	if err != nil {
		return err
	}

	return l.waitForSlot(l.swapchain.CurrentIndex())
}

func (l *FrameLoop) waitForSlot(slot int) error {
	value := l.swapchain.FrameFence(slot)

	for attempt := 0; ; attempt++ {
		err := l.swapchain.WaitForFrame(slot, l.waitTimeout)
		if err == nil || !syncutils.IsTimeout(err) {
			return err
		}

		if attempt >= l.maxWaitRetries {
			return syncutils.DeviceLost(err, "back buffer slot %d did not become reusable after %d attempts", slot, attempt+1)
		}

		l.logger.LogAttrs(context.Background(), slog.LevelWarn, "FrameLoop::waitForSlot timed out",
			slog.Int("slot", slot),
			slog.Uint64("value", uint64(value)),
			slog.Int("attempt", attempt+1),
		)
	}
}

// HandleEvent applies a window event. Resize failures that are fatal stop the loop like a failed frame.
func (l *FrameLoop) HandleEvent(event Event) error {
	if l.err != nil {
		return l.err
	}

	switch e := event.(type) {
	case ResizeEvent:
		return l.fail(l.swapchain.Resize(e.Width, e.Height))
	case ToggleVSyncEvent:
		l.vsync = !l.vsync
		l.logger.LogAttrs(context.Background(), slog.LevelDebug, "FrameLoop::HandleEvent vsync", slog.Bool("vsync", l.vsync))
		return nil
	case ToggleFullscreenEvent:
		if l.onToggleFullscreen == nil {
			return nil
		}
		return l.onToggleFullscreen()
	default:
		return syncutils.Misusef("unknown frame loop event %T", event)
	}
}

// Run renders frames until ctx is done or an error occurs, applying events between frames. All GPU
// work is flushed before Run returns. Cancellation is not an error.
func (l *FrameLoop) Run(ctx context.Context, events <-chan Event, record RecordFunc) (err error) {
	l.logger.Debug("FrameLoop::Run")

	defer func() {
		flushErr := l.swapchain.flusher.Flush()
		if err == nil {
			err = flushErr
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		err = l.drainEvents(events)
		if err != nil {
			return err
		}

		err = l.RenderFrame(record)
		if err != nil {
			return err
		}
	}
}

func (l *FrameLoop) drainEvents(events <-chan Event) error {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			err := l.HandleEvent(event)
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// LastFrameValue returns the fence value of the most recent submission
func (l *FrameLoop) LastFrameValue() fence.Value {
	return l.queue.LastSignaled()
}

// WaitIdle blocks until the GPU has finished every submitted frame
func (l *FrameLoop) WaitIdle() error {
	return l.fail(l.queue.WaitForFenceValue(l.queue.LastSignaled(), common.NoTimeout))
}
