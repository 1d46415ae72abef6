package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
	"github.com/vkngwrapper/gpuq/driver"
)

var colorSubresourceRange = core1_0.ImageSubresourceRange{
	AspectMask: core1_0.ImageAspectColor,
	LevelCount: 1,
	LayerCount: 1,
}

// CommandAllocator owns a VkCommandPool and the single primary buffer allocated from it. Only one list
// records against an allocator at a time, so one buffer is all it ever needs.
type CommandAllocator struct {
	device *Device
	pool   core1_0.CommandPool
	buffer core1_0.CommandBuffer
}

var _ driver.CommandAllocator = &CommandAllocator{}

func (a *CommandAllocator) commandBuffer() (core1_0.CommandBuffer, error) {
	if a.buffer != nil {
		return a.buffer, nil
	}

	buffers, _, err := a.device.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        a.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate command buffer")
	}

	a.buffer = buffers[0]
	return a.buffer, nil
}

func (a *CommandAllocator) Reset() error {
	_, err := a.pool.Reset(0)
	return errors.Wrap(err, "failed to reset command pool")
}

// Destroy destroys the pool, which frees its buffer as well
func (a *CommandAllocator) Destroy() {
	a.pool.Destroy(nil)
	a.buffer = nil
}

// CommandList records into the buffer of whichever allocator it was last reset against. Vulkan buffers
// cannot move between pools, so the list borrows the allocator's buffer instead of owning one.
type CommandList struct {
	device    *Device
	listType  driver.ListType
	allocator *CommandAllocator
	buffer    core1_0.CommandBuffer
	recording bool
}

var _ driver.CommandList = &CommandList{}

func (l *CommandList) Reset(allocator driver.CommandAllocator) error {
	if l.recording {
		return errors.New("command list is still recording")
	}

	vkAllocator, ok := allocator.(*CommandAllocator)
	if !ok {
		return errors.Newf("cannot record into allocator of type %T", allocator)
	}

	buffer, err := vkAllocator.commandBuffer()
	if err != nil {
		return err
	}

	_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return errors.Wrap(err, "failed to begin command buffer")
	}

	l.allocator = vkAllocator
	l.buffer = buffer
	l.recording = true
	return nil
}

func (l *CommandList) Close() error {
	if !l.recording {
		return errors.New("command list is not recording")
	}

	l.recording = false
	_, err := l.buffer.End()
	return errors.Wrap(err, "failed to end command buffer")
}

type imageUsage struct {
	layout core1_0.ImageLayout
	access core1_0.AccessFlags
}

// The general layout is used for render targets so that they can both be cleared by transfer and be
// bound as attachments.
var resourceStateUsage = map[driver.ResourceState]imageUsage{
	driver.ResourceStatePresent: {
		layout: khr_swapchain.ImageLayoutPresentSrc,
	},
	driver.ResourceStateRenderTarget: {
		layout: core1_0.ImageLayoutGeneral,
		access: core1_0.AccessTransferWrite | core1_0.AccessColorAttachmentWrite,
	},
}

func (l *CommandList) ResourceBarrier(resource driver.Resource, before, after driver.ResourceState) error {
	if !l.recording {
		return errors.New("command list is not recording")
	}

	image, ok := resource.(*Image)
	if !ok {
		return errors.Newf("cannot transition resource of type %T", resource)
	}

	src, ok := resourceStateUsage[before]
	if !ok {
		return errors.Newf("unknown resource state %s", before)
	}
	dst, ok := resourceStateUsage[after]
	if !ok {
		return errors.Newf("unknown resource state %s", after)
	}

	// Fresh swapchain images have no contents worth preserving
	if !image.initialized {
		src.layout = core1_0.ImageLayoutUndefined
		image.initialized = true
	}

	l.buffer.CmdPipelineBarrier(
		core1_0.PipelineStageAllCommands,
		core1_0.PipelineStageAllCommands,
		0,
		nil,
		nil,
		[]core1_0.ImageMemoryBarrier{
			{
				SrcAccessMask:    src.access,
				DstAccessMask:    dst.access,
				OldLayout:        src.layout,
				NewLayout:        dst.layout,
				Image:            image.handle,
				SubresourceRange: colorSubresourceRange,
			},
		},
	)
	return nil
}

func (l *CommandList) ClearRenderTargetView(view driver.RenderTargetView, color [4]float32) error {
	if !l.recording {
		return errors.New("command list is not recording")
	}

	vkView, ok := view.(*RenderTargetView)
	if !ok {
		return errors.Newf("cannot clear view of type %T", view)
	}

	l.buffer.CmdClearColorImage(
		vkView.image.handle,
		core1_0.ImageLayoutGeneral,
		core1_0.ClearValueFloat(color),
		[]core1_0.ImageSubresourceRange{colorSubresourceRange},
	)
	return nil
}

// Destroy forgets the borrowed buffer. The allocator frees it.
func (l *CommandList) Destroy() {
	l.allocator = nil
	l.buffer = nil
	l.recording = false
}
