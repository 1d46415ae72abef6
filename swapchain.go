package gpuq

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"golang.org/x/exp/slog"
)

const (
	MinBufferCount = 2
	MaxBufferCount = 16
)

// SwapchainOptions contains optional settings when creating a Swapchain
type SwapchainOptions struct {
	// BufferCount is the number of back buffers to request on resize. If 0, the native swapchain's
	// current buffer count is used.
	BufferCount int
	// Width and Height are the size the native swapchain was created with. Resize is a no-op when called
	// with this size.
	Width, Height int
	// Flusher is flushed before the back buffers are released on resize. If nil, the present queue is
	// used. Use a QueueSet when other queues may reference the back buffers.
	Flusher Flusher
	// DisableTearing prevents PresentAllowTearing from being used even on adapters that support it
	DisableTearing bool
}

// Swapchain coordinates a native swapchain with the queue that renders into it. It owns the back buffer
// references, their render target views and the fence value of the last submission that used each back
// buffer slot.
//
// A Swapchain is not safe for concurrent use: it belongs to the goroutine that presents.
type Swapchain struct {
	logger  *slog.Logger
	device  driver.Device
	queue   *Queue
	native  driver.Swapchain
	flusher Flusher

	bufferCount      int
	width, height    int
	tearingSupported bool

	buffers     []driver.Resource
	views       []driver.RenderTargetView
	frameFences []fence.Value
	index       int
	destroyed   bool
}

// NewSwapchain wraps native, acquiring a reference to and a render target view of each back buffer.
// queue is the queue that renders into and presents the back buffers.
func NewSwapchain(logger *slog.Logger, device driver.Device, queue *Queue, native driver.Swapchain, options SwapchainOptions) (*Swapchain, error) {
	logger = utils.LoggerOrDiscard(logger)

	bufferCount := options.BufferCount
	if bufferCount == 0 {
		bufferCount = native.BufferCount()
	}
	if bufferCount < MinBufferCount || bufferCount > MaxBufferCount {
		return nil, syncutils.Misusef("swapchain buffer count must be between %d and %d, but was %d", MinBufferCount, MaxBufferCount, bufferCount)
	}
	if native.BufferCount() != bufferCount {
		return nil, syncutils.Misusef("swapchain was created with %d buffers, but %d were requested", native.BufferCount(), bufferCount)
	}

	flusher := options.Flusher
	if flusher == nil {
		flusher = queue
	}

	s := &Swapchain{
		logger:           logger,
		device:           device,
		queue:            queue,
		native:           native,
		flusher:          flusher,
		bufferCount:      bufferCount,
		width:            clampDimension(options.Width),
		height:           clampDimension(options.Height),
		tearingSupported: !options.DisableTearing && device.TearingSupported(),
		frameFences:      make([]fence.Value, bufferCount),
	}

	err := s.acquireBuffers()
	if err != nil {
		s.releaseBuffers()
		return nil, err
	}

	err = s.queryIndex()
	if err != nil {
		s.releaseBuffers()
		return nil, err
	}

	return s, nil
}

func clampDimension(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

func (s *Swapchain) acquireBuffers() error {
	s.buffers = make([]driver.Resource, 0, s.bufferCount)
	s.views = make([]driver.RenderTargetView, 0, s.bufferCount)

	for i := 0; i < s.bufferCount; i++ {
		buffer, err := s.native.Buffer(i)
		if err != nil {
			return syncutils.CreationFailed(err, "failed to get back buffer %d", i)
		}
		s.buffers = append(s.buffers, buffer)

		view, err := s.device.CreateRenderTargetView(buffer)
		if err != nil {
			return syncutils.CreationFailed(err, "failed to create render target view for back buffer %d", i)
		}
		s.views = append(s.views, view)
	}

	return nil
}

func (s *Swapchain) releaseBuffers() {
	for _, view := range s.views {
		view.Destroy()
	}
	s.views = nil

	for _, buffer := range s.buffers {
		buffer.Release()
	}
	s.buffers = nil
}

func (s *Swapchain) queryIndex() error {
	index, err := s.native.CurrentBackBufferIndex()
	if err != nil {
		return syncutils.DeviceLost(err, "failed to query current back buffer index")
	}
	if index < 0 || index >= s.bufferCount {
		return syncutils.DeviceLost(errors.Newf("index %d out of range", index), "swapchain returned an invalid back buffer index")
	}

	s.index = index
	return nil
}

// Present presents the current back buffer and returns the index of the back buffer the next frame
// must render into. With vsync, presentation waits for one vertical blank. Without vsync, tearing is
// allowed if the adapter supports it.
//
// If the presentation surface changed, the returned error is marked syncutils.ErrOutOfDate and the
// caller should Resize. Every other failure is fatal.
func (s *Swapchain) Present(vsync bool) (int, error) {
	if s.destroyed {
		return s.index, syncutils.Misusef("attempted to present a destroyed swapchain")
	}

	syncInterval := 0
	var flags driver.PresentFlags
	if vsync {
		syncInterval = 1
	} else if s.tearingSupported {
		flags |= driver.PresentAllowTearing
	}

	err := s.native.Present(syncInterval, flags)
	if errors.Is(err, driver.ErrOutOfDate) {
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Swapchain::Present out of date",
			slog.Int("width", s.width),
			slog.Int("height", s.height),
		)
		return s.index, errors.Mark(errors.Wrap(err, "swapchain must be resized"), syncutils.ErrOutOfDate)
	} else if err != nil {
		err = syncutils.DeviceLost(err, "failed to present back buffer %d", s.index)
		s.logger.LogAttrs(context.Background(), slog.LevelError, "Swapchain::Present failed", slog.Any("error", err))
		return s.index, err
	}

	// The presentation engine picks the next buffer, which is not necessarily (index+1) % count
	err = s.queryIndex()
	return s.index, err
}

// Resize recreates the back buffers at the given size. Both dimensions are clamped to at least 1, and
// resizing to the current size does nothing. All GPU work is flushed before any back buffer reference
// is released.
func (s *Swapchain) Resize(width, height int) error {
	if s.destroyed {
		return syncutils.Misusef("attempted to resize a destroyed swapchain")
	}

	width = clampDimension(width)
	height = clampDimension(height)
	if width == s.width && height == s.height {
		return nil
	}

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Swapchain::Resize",
		slog.Int("oldWidth", s.width),
		slog.Int("oldHeight", s.height),
		slog.Int("width", width),
		slog.Int("height", height),
	)

	return s.recreate(width, height)
}

// Recreate recreates the back buffers at their current size. It is used after Present reports that the
// swapchain is out of date without the window having changed size.
func (s *Swapchain) Recreate() error {
	s.logger.Debug("Swapchain::Recreate")

	if s.destroyed {
		return syncutils.Misusef("attempted to recreate a destroyed swapchain")
	}

	return s.recreate(s.width, s.height)
}

func (s *Swapchain) recreate(width, height int) error {
	err := s.flusher.Flush()
	if err != nil {
		return err
	}

	s.releaseBuffers()

	err = s.native.ResizeBuffers(s.bufferCount, width, height)
	if err != nil {
		return syncutils.DeviceLost(err, "failed to resize swapchain to %dx%d", width, height)
	}
	s.width = width
	s.height = height

	err = s.acquireBuffers()
	if err != nil {
		s.releaseBuffers()
		return err
	}

	return s.queryIndex()
}

// CurrentIndex returns the back buffer slot the next frame renders into
func (s *Swapchain) CurrentIndex() int {
	return s.index
}

// CurrentBackBuffer returns the back buffer the next frame renders into, or nil if the back buffers
// could not be recreated after a resize
func (s *Swapchain) CurrentBackBuffer() driver.Resource {
	if s.index >= len(s.buffers) {
		return nil
	}
	return s.buffers[s.index]
}

// CurrentRenderTargetView returns the view of CurrentBackBuffer, or nil if there is none
func (s *Swapchain) CurrentRenderTargetView() driver.RenderTargetView {
	if s.index >= len(s.views) {
		return nil
	}
	return s.views[s.index]
}

func (s *Swapchain) BufferCount() int {
	return s.bufferCount
}

// Size returns the current back buffer dimensions
func (s *Swapchain) Size() (int, int) {
	return s.width, s.height
}

// TearingSupported reports whether Present will allow tearing when vsync is off
func (s *Swapchain) TearingSupported() bool {
	return s.tearingSupported
}

func (s *Swapchain) checkSlot(slot int) error {
	if slot < 0 || slot >= s.bufferCount {
		return syncutils.Misusef("back buffer slot %d is out of range [0, %d)", slot, s.bufferCount)
	}
	return nil
}

// SetFrameFence records value as the last submission that uses slot
func (s *Swapchain) SetFrameFence(slot int, value fence.Value) error {
	err := s.checkSlot(slot)
	if err != nil {
		return err
	}

	s.frameFences[slot] = value
	return nil
}

// FrameFence returns the last fence value recorded for slot. Slots that were never used return 0,
// which is always complete.
func (s *Swapchain) FrameFence(slot int) fence.Value {
	if slot < 0 || slot >= s.bufferCount {
		return 0
	}
	return s.frameFences[slot]
}

// IsFrameReusable reports, without blocking, whether the GPU has finished the last submission that used slot
func (s *Swapchain) IsFrameReusable(slot int) bool {
	if s.checkSlot(slot) != nil {
		return false
	}
	return s.queue.IsFenceComplete(s.frameFences[slot])
}

// WaitForFrame blocks until the last submission that used slot has completed, or timeout elapses
func (s *Swapchain) WaitForFrame(slot int, timeout time.Duration) error {
	err := s.checkSlot(slot)
	if err != nil {
		return err
	}

	return s.queue.WaitForFenceValue(s.frameFences[slot], timeout)
}

// Destroy flushes, releases the back buffers and destroys the native swapchain
func (s *Swapchain) Destroy() error {
	s.logger.Debug("Swapchain::Destroy")

	if s.destroyed {
		return syncutils.Misusef("attempted to destroy a swapchain twice")
	}

	err := s.flusher.Flush()
	if err != nil && !syncutils.IsFatal(err) {
		return err
	}

	s.releaseBuffers()
	s.native.Destroy()
	s.destroyed = true
	return err
}
