package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/gpuq/driver"
)

func TestSelectQueueFamilies_Dedicated(t *testing.T) {
	families, err := selectQueueFamilies([]core1_0.QueueFlags{
		core1_0.QueueGraphics | core1_0.QueueCompute | core1_0.QueueTransfer,
		core1_0.QueueCompute | core1_0.QueueTransfer,
		core1_0.QueueTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, map[driver.ListType]int{
		driver.ListTypeDirect:  0,
		driver.ListTypeCompute: 1,
		driver.ListTypeCopy:    2,
	}, families)
}

func TestSelectQueueFamilies_SingleFamily(t *testing.T) {
	families, err := selectQueueFamilies([]core1_0.QueueFlags{
		core1_0.QueueGraphics | core1_0.QueueCompute | core1_0.QueueTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, 0, families[driver.ListTypeDirect])
	require.Equal(t, 0, families[driver.ListTypeCompute])
	require.Equal(t, 0, families[driver.ListTypeCopy])
}

func TestSelectQueueFamilies_CopyFallsBackToCompute(t *testing.T) {
	families, err := selectQueueFamilies([]core1_0.QueueFlags{
		core1_0.QueueGraphics | core1_0.QueueCompute,
		core1_0.QueueCompute | core1_0.QueueTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, 1, families[driver.ListTypeCompute])
	require.Equal(t, 1, families[driver.ListTypeCopy])
}

func TestSelectQueueFamilies_NoGraphics(t *testing.T) {
	_, err := selectQueueFamilies([]core1_0.QueueFlags{core1_0.QueueCompute})
	require.Error(t, err)
}

func TestPresentModeFor(t *testing.T) {
	require.Equal(t, khr_surface.PresentModeFIFO, presentModeFor(1, 0))
	require.Equal(t, khr_surface.PresentModeFIFO, presentModeFor(2, 0))
	require.Equal(t, khr_surface.PresentModeMailbox, presentModeFor(0, 0))
	require.Equal(t, khr_surface.PresentModeImmediate, presentModeFor(0, driver.PresentAllowTearing))
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := khr_surface.SurfaceFormat{
		Format:     core1_0.FormatB8G8R8A8SRGB,
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}
	other := khr_surface.SurfaceFormat{
		Format:     core1_0.FormatA8B8G8R8UnsignedIntPacked,
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}

	require.Equal(t, preferred, chooseSurfaceFormat([]khr_surface.SurfaceFormat{other, preferred}))
	require.Equal(t, other, chooseSurfaceFormat([]khr_surface.SurfaceFormat{other}))
}

func TestFindMemoryType(t *testing.T) {
	properties := &core1_0.PhysicalDeviceMemoryProperties{
		MemoryTypes: []core1_0.MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal},
			{PropertyFlags: core1_0.MemoryPropertyHostVisible},
			{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent},
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent},
		},
	}

	index, err := findMemoryType(properties, 0xffffffff, uploadMemoryProperties)
	require.NoError(t, err)
	require.Equal(t, 2, index)

	// Type 2 is excluded by the buffer's requirements
	index, err = findMemoryType(properties, 0b1011, uploadMemoryProperties)
	require.NoError(t, err)
	require.Equal(t, 3, index)

	_, err = findMemoryType(properties, 0b0011, uploadMemoryProperties)
	require.Error(t, err)
}
