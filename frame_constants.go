package gpuq

import (
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/syncutils"
)

// ConstantBufferAlignment is the alignment of each per-frame region of a FrameConstants buffer
const ConstantBufferAlignment uint = 256

// FrameConstants is a persistently mapped upload buffer with one region per back buffer slot. A region
// may only be written once the GPU has finished the last frame that rendered into its slot, so the CPU
// never overwrites constants the GPU is still reading.
type FrameConstants struct {
	buffer     driver.UploadBuffer
	swapchain  *Swapchain
	size       int
	regionSize int
}

// NewFrameConstants creates an upload buffer holding size bytes of constants for every back buffer of swapchain
func NewFrameConstants(device driver.Device, swapchain *Swapchain, size int) (*FrameConstants, error) {
	if size <= 0 {
		return nil, syncutils.Misusef("frame constants size must be positive, but was %d", size)
	}

	regionSize := memutils.AlignUp(size, ConstantBufferAlignment)
	buffer, err := device.CreateUploadBuffer(regionSize * swapchain.BufferCount())
	if err != nil {
		return nil, syncutils.CreationFailed(err, "failed to create %d byte constant buffer", regionSize*swapchain.BufferCount())
	}

	return &FrameConstants{
		buffer:     buffer,
		swapchain:  swapchain,
		size:       size,
		regionSize: regionSize,
	}, nil
}

// Write copies data into slot's region and returns the region's offset into the buffer. It fails with
// syncutils.ErrResourceInFlight if the GPU may still be reading the region.
func (c *FrameConstants) Write(slot int, data []byte) (int, error) {
	err := c.swapchain.checkSlot(slot)
	if err != nil {
		return 0, err
	}
	if len(data) > c.size {
		return 0, syncutils.Misusef("attempted to write %d bytes of frame constants into a %d byte region", len(data), c.size)
	}
	if !c.swapchain.IsFrameReusable(slot) {
		return 0, syncutils.InFlightf("frame constants for slot %d are still in use by fence value %d", slot, c.swapchain.FrameFence(slot))
	}

	offset := c.Offset(slot)
	copy(c.buffer.Bytes()[offset:offset+c.regionSize], data)
	return offset, nil
}

// Offset returns the byte offset of slot's region
func (c *FrameConstants) Offset(slot int) int {
	return slot * c.regionSize
}

func (c *FrameConstants) RegionSize() int {
	return c.regionSize
}

func (c *FrameConstants) Buffer() driver.UploadBuffer {
	return c.buffer
}

func (c *FrameConstants) Destroy() {
	c.buffer.Destroy()
}
