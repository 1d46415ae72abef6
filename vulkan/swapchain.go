package vulkan

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
	"github.com/vkngwrapper/gpuq/driver"
	"golang.org/x/exp/slog"
)

// Image is a swapchain image handed out by Swapchain.Buffer
type Image struct {
	swapchain   *Swapchain
	handle      core1_0.Image
	format      core1_0.Format
	initialized bool
	released    bool
}

var _ driver.Resource = &Image{}

func (i *Image) Release() {
	if i.released {
		return
	}
	i.released = true
	i.swapchain.outstanding--
}

type RenderTargetView struct {
	image *Image
	view  core1_0.ImageView
}

var _ driver.RenderTargetView = &RenderTargetView{}

func (v *RenderTargetView) Resource() driver.Resource {
	return v.image
}

func (v *RenderTargetView) Destroy() {
	v.view.Destroy(nil)
}

// Swapchain adapts a VK_KHR_swapchain swapchain. The next image is acquired eagerly, right after
// creation and after every present, and the CPU waits for the acquisition to finish, so
// CurrentBackBufferIndex never blocks and rendering never needs an acquire semaphore.
//
// Vulkan fixes the present mode at creation. When Present asks for a different mode than the
// swapchain was built with, it presents once more and then reports driver.ErrOutOfDate so that
// the caller recreates the swapchain in the new mode.
type Swapchain struct {
	device *Device
	queue  *Queue

	handle       khr_swapchain.Swapchain
	format       khr_surface.SurfaceFormat
	images       []core1_0.Image
	renderDone   []core1_0.Semaphore
	acquireFence core1_0.Fence

	presentMode   khr_surface.PresentMode
	requestedMode khr_surface.PresentMode
	index         int
	outstanding   int
	width, height int
}

var _ driver.Swapchain = &Swapchain{}

// CreateSwapchain creates a swapchain on the device's surface that presents from queue
func (d *Device) CreateSwapchain(queue *Queue, bufferCount, width, height int) (*Swapchain, error) {
	d.logger.Debug("Device::CreateSwapchain")

	if d.surface == nil {
		return nil, errors.New("cannot create a swapchain without a surface")
	}

	formats, _, err := d.surface.PhysicalDeviceSurfaceFormats(d.physicalDevice)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query surface formats")
	}
	if len(formats) == 0 {
		return nil, errors.New("surface reports no formats")
	}

	acquireFence, _, err := d.device.CreateFence(nil, core1_0.FenceCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create acquire fence")
	}

	s := &Swapchain{
		device:        d,
		queue:         queue,
		format:        chooseSurfaceFormat(formats),
		acquireFence:  acquireFence,
		presentMode:   khr_surface.PresentModeFIFO,
		requestedMode: khr_surface.PresentModeFIFO,
	}

	err = s.ResizeBuffers(bufferCount, width, height)
	if err != nil {
		acquireFence.Destroy(nil)
		return nil, err
	}

	return s, nil
}

func chooseSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}
	return formats[0]
}

// presentModeFor maps a sync interval and present flags to the present mode that honors them
func presentModeFor(syncInterval int, flags driver.PresentFlags) khr_surface.PresentMode {
	if syncInterval > 0 {
		return khr_surface.PresentModeFIFO
	}
	if flags&driver.PresentAllowTearing != 0 {
		return khr_surface.PresentModeImmediate
	}
	return khr_surface.PresentModeMailbox
}

func (s *Swapchain) BufferCount() int {
	return len(s.images)
}

func (s *Swapchain) Buffer(index int) (driver.Resource, error) {
	if index < 0 || index >= len(s.images) {
		return nil, errors.Newf("buffer index %d is out of range for %d buffers", index, len(s.images))
	}

	s.outstanding++
	return &Image{swapchain: s, handle: s.images[index], format: s.format.Format}, nil
}

func (s *Swapchain) CurrentBackBufferIndex() (int, error) {
	if s.index < 0 {
		return 0, errors.New("no image is acquired")
	}
	return s.index, nil
}

func (s *Swapchain) acquire() error {
	s.index = -1

	index, res, err := s.handle.AcquireNextImage(common.NoTimeout, nil, s.acquireFence)
	if res == khr_swapchain.VKErrorOutOfDate {
		return driver.ErrOutOfDate
	}
	if err != nil {
		return errors.Wrap(err, "failed to acquire swapchain image")
	}

	_, err = s.acquireFence.Wait(common.NoTimeout)
	if err != nil {
		return errors.Wrap(err, "failed to wait for image acquisition")
	}
	_, err = s.acquireFence.Reset()
	if err != nil {
		return errors.Wrap(err, "failed to reset acquire fence")
	}

	s.index = index
	return nil
}

func (s *Swapchain) Present(syncInterval int, flags driver.PresentFlags) error {
	if flags&driver.PresentAllowTearing != 0 && (syncInterval != 0 || !s.device.TearingSupported()) {
		return errors.New("tearing may only be requested with a sync interval of 0 on surfaces that support it")
	}
	if s.index < 0 {
		return errors.New("no image is acquired")
	}

	mode := presentModeFor(syncInterval, flags)
	if !s.device.presentModeSupported(mode) {
		mode = khr_surface.PresentModeFIFO
	}
	s.requestedMode = mode

	semaphore := s.renderDone[s.index]
	shared := s.queue.shared
	shared.mutex.Lock()
	// Present does not wait for earlier submissions on its own
	_, err := shared.handle.Submit(nil, []core1_0.SubmitInfo{
		{SignalSemaphores: []core1_0.Semaphore{semaphore}},
	})
	if err != nil {
		shared.mutex.Unlock()
		return errors.Wrap(err, "failed to signal render semaphore")
	}
	res, err := s.device.swapchainExt.QueuePresent(shared.handle, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{semaphore},
		Swapchains:     []khr_swapchain.Swapchain{s.handle},
		ImageIndices:   []int{s.index},
	})
	shared.mutex.Unlock()

	if res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal {
		return driver.ErrOutOfDate
	}
	if err != nil {
		return errors.Wrap(err, "failed to present")
	}

	if s.requestedMode != s.presentMode {
		s.device.logger.LogAttrs(context.Background(), slog.LevelDebug, "Swapchain::Present present mode changed",
			slog.Int("from", int(s.presentMode)),
			slog.Int("to", int(s.requestedMode)),
		)
		return driver.ErrOutOfDate
	}

	return s.acquire()
}

func (s *Swapchain) ResizeBuffers(count, width, height int) error {
	if s.outstanding > 0 {
		return errors.Newf("%d swapchain images have not been released", s.outstanding)
	}

	capabilities, _, err := s.device.surface.PhysicalDeviceSurfaceCapabilities(s.device.physicalDevice)
	if err != nil {
		return errors.Wrap(err, "failed to query surface capabilities")
	}

	extent := core1_0.Extent2D{Width: width, Height: height}
	if capabilities.CurrentExtent.Width != -1 {
		extent = capabilities.CurrentExtent
	}
	extent.Width = clamp(extent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width)
	extent.Height = clamp(extent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height)

	if count < capabilities.MinImageCount {
		count = capabilities.MinImageCount
	}
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}

	s.destroySwapchain()

	handle, _, err := s.device.swapchainExt.CreateSwapchain(s.device.device, nil, khr_swapchain.SwapchainCreateInfo{
		Surface:          s.device.surface,
		MinImageCount:    count,
		ImageFormat:      s.format.Format,
		ImageColorSpace:  s.format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment | core1_0.ImageUsageTransferDst,
		ImageSharingMode: core1_0.SharingModeExclusive,
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   khr_surface.CompositeAlphaOpaque,
		PresentMode:      s.requestedMode,
		Clipped:          true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create swapchain")
	}
	s.handle = handle
	s.presentMode = s.requestedMode
	s.width = extent.Width
	s.height = extent.Height

	s.images, _, err = handle.SwapchainImages()
	if err != nil {
		return errors.Wrap(err, "failed to get swapchain images")
	}

	for range s.images {
		semaphore, _, err := s.device.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errors.Wrap(err, "failed to create render semaphore")
		}
		s.renderDone = append(s.renderDone, semaphore)
	}

	s.device.logger.LogAttrs(context.Background(), slog.LevelDebug, "Swapchain::ResizeBuffers",
		slog.Int("images", len(s.images)),
		slog.Int("width", extent.Width),
		slog.Int("height", extent.Height),
	)

	return s.acquire()
}

func clamp(value, minimum, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}

// Size returns the extent the swapchain was last created with, which the surface may have overridden
func (s *Swapchain) Size() (int, int) {
	return s.width, s.height
}

func (s *Swapchain) destroySwapchain() {
	for _, semaphore := range s.renderDone {
		semaphore.Destroy(nil)
	}
	s.renderDone = nil
	s.images = nil
	s.index = -1

	if s.handle != nil {
		s.handle.Destroy(nil)
		s.handle = nil
	}
}

func (s *Swapchain) Destroy() {
	s.device.logger.Debug("Swapchain::Destroy")

	s.destroySwapchain()
	s.acquireFence.Destroy(nil)
}
