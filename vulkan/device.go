// Package vulkan implements the driver interfaces on top of vkngwrapper. Vulkan has no monotonic fence,
// and its command buffers cannot move between pools, so both are emulated here: see Fence and CommandList.
package vulkan

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"golang.org/x/exp/slog"
)

// DeviceOptions configures NewDevice
type DeviceOptions struct {
	// Surface is required to create swapchains. The caller must make sure the graphics queue family
	// can present to it.
	Surface khr_surface.Surface
}

// Device adapts a logical core1_0.Device to driver.Device
type Device struct {
	logger         *slog.Logger
	physicalDevice core1_0.PhysicalDevice
	device         core1_0.Device
	surface        khr_surface.Surface
	swapchainExt   khr_swapchain.Extension

	families     map[driver.ListType]int
	presentModes []khr_surface.PresentMode

	queueMutex sync.Mutex
	queues     map[int]*sharedQueue
}

var _ driver.Device = &Device{}

// sharedQueue serializes access to a VkQueue. Several list types may resolve to the same queue family,
// and Vulkan requires external synchronization for submission.
type sharedQueue struct {
	family int
	mutex  sync.Mutex
	handle core1_0.Queue
}

func NewDevice(logger *slog.Logger, physicalDevice core1_0.PhysicalDevice, device core1_0.Device, options DeviceOptions) (*Device, error) {
	logger = utils.LoggerOrDiscard(logger)

	var familyFlags []core1_0.QueueFlags
	for _, family := range physicalDevice.QueueFamilyProperties() {
		familyFlags = append(familyFlags, family.QueueFlags)
	}

	families, err := selectQueueFamilies(familyFlags)
	if err != nil {
		return nil, err
	}

	d := &Device{
		logger:         logger,
		physicalDevice: physicalDevice,
		device:         device,
		surface:        options.Surface,
		families:       families,
		queues:         make(map[int]*sharedQueue),
	}

	if options.Surface != nil {
		d.swapchainExt = khr_swapchain.CreateExtensionFromDevice(device)
		d.presentModes, _, err = options.Surface.PhysicalDeviceSurfacePresentModes(physicalDevice)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query surface present modes")
		}
	}

	logger.LogAttrs(context.Background(), slog.LevelDebug, "Device::NewDevice",
		slog.Int("directFamily", families[driver.ListTypeDirect]),
		slog.Int("computeFamily", families[driver.ListTypeCompute]),
		slog.Int("copyFamily", families[driver.ListTypeCopy]),
	)

	return d, nil
}

// selectQueueFamilies maps each list type to a queue family. Compute and copy lists prefer dedicated
// families, and fall back to the most capable family that can still run them.
func selectQueueFamilies(familyFlags []core1_0.QueueFlags) (map[driver.ListType]int, error) {
	direct, compute, copyFamily := -1, -1, -1

	for index, flags := range familyFlags {
		graphics := flags&core1_0.QueueGraphics != 0
		computes := flags&core1_0.QueueCompute != 0
		transfers := flags&core1_0.QueueTransfer != 0

		if graphics && computes && direct < 0 {
			direct = index
		}
		if computes && !graphics && compute < 0 {
			compute = index
		}
		if transfers && !computes && !graphics && copyFamily < 0 {
			copyFamily = index
		}
	}

	if direct < 0 {
		return nil, errors.New("no queue family supports both graphics and compute")
	}
	if compute < 0 {
		compute = direct
	}
	if copyFamily < 0 {
		copyFamily = compute
	}

	return map[driver.ListType]int{
		driver.ListTypeDirect:  direct,
		driver.ListTypeCompute: compute,
		driver.ListTypeCopy:    copyFamily,
	}, nil
}

// QueueFamily returns the queue family index lists of listType are submitted to
func (d *Device) QueueFamily(listType driver.ListType) int {
	return d.families[listType]
}

func (d *Device) queue(family int) *sharedQueue {
	d.queueMutex.Lock()
	defer d.queueMutex.Unlock()

	queue, ok := d.queues[family]
	if !ok {
		queue = &sharedQueue{family: family, handle: d.device.GetQueue(family, 0)}
		d.queues[family] = queue
	}
	return queue
}

func (d *Device) CreateCommandQueue(listType driver.ListType) (driver.Queue, error) {
	d.logger.Debug("Device::CreateCommandQueue")

	family, ok := d.families[listType]
	if !ok {
		return nil, errors.Newf("unknown list type %s", listType)
	}

	return &Queue{device: d, listType: listType, shared: d.queue(family)}, nil
}

func (d *Device) CreateFence(initialValue uint64) (driver.Fence, error) {
	d.logger.Debug("Device::CreateFence")

	return &Fence{device: d, completed: initialValue}, nil
}

func (d *Device) CreateCommandAllocator(listType driver.ListType) (driver.CommandAllocator, error) {
	d.logger.Debug("Device::CreateCommandAllocator")

	family, ok := d.families[listType]
	if !ok {
		return nil, errors.Newf("unknown list type %s", listType)
	}

	pool, _, err := d.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: family,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create command pool for queue family %d", family)
	}

	return &CommandAllocator{device: d, pool: pool}, nil
}

func (d *Device) CreateCommandList(listType driver.ListType, allocator driver.CommandAllocator) (driver.CommandList, error) {
	d.logger.Debug("Device::CreateCommandList")

	list := &CommandList{device: d, listType: listType}
	err := list.Reset(allocator)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (d *Device) CreateRenderTargetView(resource driver.Resource) (driver.RenderTargetView, error) {
	d.logger.Debug("Device::CreateRenderTargetView")

	image, ok := resource.(*Image)
	if !ok {
		return nil, errors.Newf("render target views can only be created for swapchain images, not %T", resource)
	}

	view, _, err := d.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		ViewType: core1_0.ImageViewType2D,
		Image:    image.handle,
		Format:   image.format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorSubresourceRange,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create image view")
	}

	return &RenderTargetView{image: image, view: view}, nil
}

// TearingSupported reports whether the surface offers the immediate present mode
func (d *Device) TearingSupported() bool {
	return d.presentModeSupported(khr_surface.PresentModeImmediate)
}

func (d *Device) presentModeSupported(mode khr_surface.PresentMode) bool {
	for _, supported := range d.presentModes {
		if supported == mode {
			return true
		}
	}
	return false
}

// WaitIdle blocks until every queue of the device is idle
func (d *Device) WaitIdle() error {
	_, err := d.device.WaitIdle()
	return err
}
