package gpuq

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gpuq/syncutils"
)

func TestFrameConstants_Layout(t *testing.T) {
	gpu, queue := newTestQueue(t, 0)
	_, swapchain := newTestSwapchain(t, gpu, queue, 3)

	constants, err := NewFrameConstants(gpu, swapchain, 100)
	require.NoError(t, err)
	defer constants.Destroy()

	require.Equal(t, 256, constants.RegionSize())
	require.Equal(t, 768, constants.Buffer().Size())
	require.Contains(t, gpu.Calls(), "Device.CreateUploadBuffer(768)")

	for slot := 0; slot < 3; slot++ {
		offset, err := constants.Write(slot, []byte{byte(slot + 1), 0xff})
		require.NoError(t, err)
		require.Equal(t, slot*256, offset)
		require.Equal(t, byte(slot+1), constants.Buffer().Bytes()[offset])
	}

	_, err = NewFrameConstants(gpu, swapchain, 0)
	require.True(t, errors.Is(err, syncutils.ErrMisuse))
}

func TestFrameConstants_WriteWhileInFlight(t *testing.T) {
	gpu, queue := newTestQueue(t, 0)
	_, swapchain := newTestSwapchain(t, gpu, queue, 2)

	constants, err := NewFrameConstants(gpu, swapchain, 64)
	require.NoError(t, err)

	value, err := queue.Signal()
	require.NoError(t, err)
	require.NoError(t, swapchain.SetFrameFence(1, value))

	_, err = constants.Write(1, make([]byte, 64))
	require.True(t, errors.Is(err, syncutils.ErrResourceInFlight))

	// Other slots are unaffected
	_, err = constants.Write(0, make([]byte, 64))
	require.NoError(t, err)

	gpu.Drain()
	offset, err := constants.Write(1, make([]byte, 64))
	require.NoError(t, err)
	require.Equal(t, 256, offset)
}

func TestFrameConstants_WriteMisuse(t *testing.T) {
	gpu, queue := newTestQueue(t, 0)
	_, swapchain := newTestSwapchain(t, gpu, queue, 2)

	constants, err := NewFrameConstants(gpu, swapchain, 16)
	require.NoError(t, err)

	_, err = constants.Write(0, make([]byte, 17))
	require.True(t, errors.Is(err, syncutils.ErrMisuse))

	_, err = constants.Write(2, nil)
	require.True(t, errors.Is(err, syncutils.ErrMisuse))
}
