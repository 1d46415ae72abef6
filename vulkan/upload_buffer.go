package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gpuq/driver"
)

const uploadMemoryProperties = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

// UploadBuffer is a uniform buffer in host-coherent memory that stays mapped until it is destroyed
type UploadBuffer struct {
	buffer core1_0.Buffer
	memory core1_0.DeviceMemory
	data   []byte
}

var _ driver.UploadBuffer = &UploadBuffer{}

// findMemoryType returns the first memory type allowed by typeBits that has every required property
func findMemoryType(properties *core1_0.PhysicalDeviceMemoryProperties, typeBits uint32, required core1_0.MemoryPropertyFlags) (int, error) {
	for index, memoryType := range properties.MemoryTypes {
		if typeBits&(1<<index) != 0 && memoryType.PropertyFlags&required == required {
			return index, nil
		}
	}

	return -1, errors.Newf("no memory type has properties %s", required)
}

func (d *Device) CreateUploadBuffer(size int) (driver.UploadBuffer, error) {
	d.logger.Debug("Device::CreateUploadBuffer")

	buffer, _, err := d.device.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       core1_0.BufferUsageUniformBuffer | core1_0.BufferUsageTransferSrc,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %d byte buffer", size)
	}

	requirements := buffer.MemoryRequirements()
	memoryType, err := findMemoryType(d.physicalDevice.MemoryProperties(), requirements.MemoryTypeBits, uploadMemoryProperties)
	if err != nil {
		buffer.Destroy(nil)
		return nil, err
	}

	memory, _, err := d.device.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	})
	if err != nil {
		buffer.Destroy(nil)
		return nil, errors.Wrapf(err, "failed to allocate %d bytes", requirements.Size)
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	if err != nil {
		buffer.Destroy(nil)
		memory.Free(nil)
		return nil, errors.Wrap(err, "failed to bind buffer memory")
	}

	ptr, _, err := memory.Map(0, size, 0)
	if err != nil {
		buffer.Destroy(nil)
		memory.Free(nil)
		return nil, errors.Wrap(err, "failed to map buffer memory")
	}

	return &UploadBuffer{
		buffer: buffer,
		memory: memory,
		data:   unsafe.Slice((*byte)(ptr), size),
	}, nil
}

// Handle returns the buffer, for binding as a uniform buffer
func (b *UploadBuffer) Handle() core1_0.Buffer {
	return b.buffer
}

func (b *UploadBuffer) Size() int {
	return len(b.data)
}

func (b *UploadBuffer) Bytes() []byte {
	return b.data
}

func (b *UploadBuffer) Destroy() {
	b.memory.Unmap()
	b.data = nil
	b.buffer.Destroy(nil)
	b.memory.Free(nil)
}
