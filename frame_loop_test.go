package gpuq

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/driver/fakegpu"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
)

func newTestLoop(t *testing.T, bufferCount int, options FrameLoopOptions) (*fakegpu.GPU, *fakegpu.Swapchain, *FrameLoop) {
	gpu, queue := newTestQueue(t, 0)
	native, swapchain := newTestSwapchain(t, gpu, queue, bufferCount)
	return gpu, native, NewFrameLoop(testLogger(), queue, swapchain, options)
}

func TestFrameLoop_RenderFrameRecordsInOrder(t *testing.T) {
	gpu, _, loop := newTestLoop(t, 3, FrameLoopOptions{VSync: true})
	runGPU(t, gpu)

	var recorded *fakegpu.CommandList
	var frame FrameContext
	err := loop.RenderFrame(func(ctx *FrameContext) error {
		frame = *ctx
		recorded = fakeList(t, ctx.List)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 0, frame.Slot)
	require.Equal(t, uint64(1), frame.Frame)
	require.Equal(t, []string{
		"barrier backbuffer1.0 ResourceStatePresent->ResourceStateRenderTarget",
		"clear backbuffer1.0",
		"barrier backbuffer1.0 ResourceStateRenderTarget->ResourceStatePresent",
	}, recorded.Commands())

	require.NoError(t, loop.queue.Flush())
	require.Equal(t, 1, recorded.Executions())

	calls := gpu.Calls()
	execute := indexOfCall(calls, "Queue.ExecuteCommandLists")
	signal := indexOfCall(calls, "Queue.Signal(1)")
	present := indexOfCall(calls, "Swapchain.Present")
	require.Less(t, execute, signal)
	require.Less(t, signal, present)

	require.Equal(t, fence.Value(1), loop.swapchain.FrameFence(0))
	require.Equal(t, 1, loop.swapchain.CurrentIndex())
}

func TestFrameLoop_FramesAtDepthThree(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 3, FrameLoopOptions{})
	runGPU(t, gpu)

	var slots []int
	for i := 0; i < 5; i++ {
		require.NoError(t, loop.RenderFrame(func(ctx *FrameContext) error {
			slots = append(slots, ctx.Slot)
			return nil
		}))
	}

	require.Equal(t, []int{0, 1, 2, 0, 1}, slots)
	require.Equal(t, 5, native.Presents())
	require.Equal(t, fence.Value(5), loop.LastFrameValue())
	require.Equal(t, fence.Value(4), loop.swapchain.FrameFence(0))
	require.Equal(t, fence.Value(5), loop.swapchain.FrameFence(1))
	require.Equal(t, fence.Value(3), loop.swapchain.FrameFence(2))
	require.LessOrEqual(t, gpu.AllocatorsCreated(), 3)

	destroyed, err := loop.queue.TrimIdleAllocators(3)
	require.NoError(t, err)
	require.Zero(t, destroyed)
}

func TestFrameLoop_WaitsForNextSlot(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{WaitTimeout: common.NoTimeout})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gpu.Run(ctx, 5*time.Millisecond)

	for i := 0; i < 4; i++ {
		require.NoError(t, loop.RenderFrame(nil))

		// The slot the next frame renders into is never still in flight
		require.True(t, loop.swapchain.IsFrameReusable(loop.swapchain.CurrentIndex()))
	}
	require.Equal(t, 4, native.Presents())
}

func TestFrameLoop_TimeoutEscalatesToDeviceLost(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{
		WaitTimeout:    5 * time.Millisecond,
		MaxWaitRetries: 2,
	})

	// The first frame's next slot was never used, so nothing is waited on
	require.NoError(t, loop.RenderFrame(nil))

	// The second frame must wait on the first, which the stalled GPU never completes
	err := loop.RenderFrame(nil)
	require.Error(t, err)
	require.True(t, syncutils.IsFatal(err))
	require.True(t, syncutils.IsTimeout(err))
	require.Equal(t, 3, countCalls(gpu.Calls(), "Fence.WaitFor(1)"))

	pending := gpu.Pending()
	presents := native.Presents()

	// The loop is poisoned: no more work is submitted
	err = loop.RenderFrame(nil)
	require.Same(t, loop.Err(), err)
	require.Equal(t, pending, gpu.Pending())
	require.Equal(t, presents, native.Presents())
	require.Same(t, loop.Err(), loop.HandleEvent(ToggleVSyncEvent{}))
}

func TestFrameLoop_RecordFailure(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	recordErr := errors.New("pipeline missing")
	err := loop.RenderFrame(func(ctx *FrameContext) error {
		return recordErr
	})
	require.True(t, errors.Is(err, recordErr))
	require.False(t, syncutils.IsFatal(err))
	require.NoError(t, loop.Err())
	require.Equal(t, 0, native.Presents())

	// The list went back to the pool, so the loop keeps working
	require.Equal(t, 0, loop.queue.Statistics().OpenLists)
	require.NoError(t, loop.RenderFrame(nil))
	require.Equal(t, 1, native.Presents())
}

func TestFrameLoop_RecordingFailureReleasesList(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	var list *CommandList
	err := loop.RenderFrame(func(ctx *FrameContext) error {
		list = ctx.List

		// Closing the native list makes the final barrier fail
		nativeList, err := ctx.List.Native()
		if err != nil {
			return err
		}
		return nativeList.Close()
	})
	require.True(t, syncutils.IsFatal(err))
	require.Same(t, err, loop.Err())
	require.True(t, syncutils.IsFatal(loop.queue.Err()))
	require.Equal(t, 0, native.Presents())

	require.Equal(t, CommandListAbandoned, list.State())
	require.Equal(t, 0, loop.queue.Statistics().OpenLists)

	require.True(t, syncutils.IsFatal(loop.queue.Destroy()))
	calls := gpu.Calls()
	require.Equal(t, 1, countCalls(calls, "CommandAllocator.Destroy"))
	require.Equal(t, 1, countCalls(calls, "Fence.Destroy"))
	require.Equal(t, 1, countCalls(calls, "Queue.Destroy"))
}

func TestFrameLoop_OutOfDateRecreatesSwapchain(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	gpu.FailNext("Present", driver.ErrOutOfDate)
	require.NoError(t, loop.RenderFrame(nil))
	require.NoError(t, loop.Err())
	require.Equal(t, 1, countCalls(gpu.Calls(), "Swapchain.ResizeBuffers"))

	require.NoError(t, loop.RenderFrame(nil))
	require.Equal(t, 1, native.Presents())
}

func TestFrameLoop_HandleEvents(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	require.NoError(t, loop.HandleEvent(ResizeEvent{Width: 1920, Height: 1080}))
	width, height := native.Size()
	require.Equal(t, 1920, width)
	require.Equal(t, 1080, height)

	require.False(t, loop.VSync())
	require.NoError(t, loop.HandleEvent(ToggleVSyncEvent{}))
	require.True(t, loop.VSync())

	require.NoError(t, loop.RenderFrame(nil))
	interval, _ := native.LastPresent()
	require.Equal(t, 1, interval)

	// Without a registered window, fullscreen toggles are ignored
	require.NoError(t, loop.HandleEvent(ToggleFullscreenEvent{}))
}

func TestFrameLoop_ToggleFullscreenCallback(t *testing.T) {
	toggles := 0
	_, _, loop := newTestLoop(t, 2, FrameLoopOptions{
		OnToggleFullscreen: func() error {
			toggles++
			return nil
		},
	})

	require.NoError(t, loop.HandleEvent(ToggleFullscreenEvent{}))
	require.NoError(t, loop.HandleEvent(ToggleFullscreenEvent{}))
	require.Equal(t, 2, toggles)
}

func TestFrameLoop_ResizeFailureIsFatal(t *testing.T) {
	gpu, _, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	gpu.FailNext("ResizeBuffers", errors.New("device removed"))
	err := loop.HandleEvent(ResizeEvent{Width: 10, Height: 10})
	require.True(t, syncutils.IsFatal(err))
	require.Same(t, loop.Err(), err)
}

func TestFrameLoop_Run(t *testing.T) {
	gpu, native, loop := newTestLoop(t, 3, FrameLoopOptions{})
	runGPU(t, gpu)

	events := make(chan Event, 2)
	events <- ResizeEvent{Width: 1024, Height: 768}
	events <- ToggleVSyncEvent{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := loop.Run(ctx, events, func(frame *FrameContext) error {
		frames++
		if frame.Frame == 10 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 10, frames)
	require.Equal(t, 10, native.Presents())
	require.True(t, loop.VSync())

	width, height := native.Size()
	require.Equal(t, 1024, width)
	require.Equal(t, 768, height)

	// Run flushes before returning
	require.Equal(t, 0, gpu.Pending())
	require.True(t, loop.queue.IsFenceComplete(loop.queue.LastSignaled()))
}

func TestFrameLoop_RunStopsOnFatalError(t *testing.T) {
	gpu, _, loop := newTestLoop(t, 2, FrameLoopOptions{})
	runGPU(t, gpu)

	frames := 0
	err := loop.Run(context.Background(), nil, func(frame *FrameContext) error {
		frames++
		if frame.Frame == 3 {
			gpu.FailNext("Present", errors.New("device hung"))
		}
		return nil
	})
	require.True(t, syncutils.IsFatal(err))
	require.Equal(t, 3, frames)
}

func TestFrameTimer(t *testing.T) {
	timer := NewFrameTimer(nil)
	now := time.Unix(0, 0)
	timer.now = func() time.Time { return now }

	require.Equal(t, time.Duration(0), timer.Tick())

	for i := 0; i < 120; i++ {
		now = now.Add(time.Second / 60)
		require.Equal(t, time.Second/60, timer.Tick())
	}

	require.Equal(t, uint64(121), timer.Frames())
	require.InDelta(t, 60, timer.FPS(), 0.5)
}
