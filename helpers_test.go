package gpuq

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/driver/fakegpu"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.HandlerOptions{Level: slog.LevelWarn}.NewTextHandler(os.Stderr))
}

func newTestQueue(t testing.TB, flags QueueCreateFlags) (*fakegpu.GPU, *Queue) {
	gpu := fakegpu.New()

	queue, err := New(testLogger(), gpu, driver.ListTypeDirect, CreateOptions{Flags: flags})
	require.NoError(t, err)

	return gpu, queue
}

// runGPU executes submitted work in the background for the rest of the test
func runGPU(t testing.TB, gpu *fakegpu.GPU) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	gpu.Run(ctx, 0)
}

func newTestSwapchain(t testing.TB, gpu *fakegpu.GPU, queue *Queue, bufferCount int) (*fakegpu.Swapchain, *Swapchain) {
	native := gpu.CreateSwapchain(bufferCount, 800, 600)

	swapchain, err := NewSwapchain(testLogger(), gpu, queue, native, SwapchainOptions{
		Width:  800,
		Height: 600,
	})
	require.NoError(t, err)

	return native, swapchain
}

func indexOfCall(calls []string, prefix string) int {
	for i, call := range calls {
		if strings.HasPrefix(call, prefix) {
			return i
		}
	}
	return -1
}

func lastIndexOfCall(calls []string, prefix string) int {
	for i := len(calls) - 1; i >= 0; i-- {
		if strings.HasPrefix(calls[i], prefix) {
			return i
		}
	}
	return -1
}

func countCalls(calls []string, prefix string) int {
	count := 0
	for _, call := range calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

func fakeList(t testing.TB, list *CommandList) *fakegpu.CommandList {
	native, err := list.Native()
	require.NoError(t, err)

	fake, ok := native.(*fakegpu.CommandList)
	require.True(t, ok)
	return fake
}
