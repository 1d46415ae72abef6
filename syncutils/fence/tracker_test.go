package fence_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/driver/fakegpu"
	mock_driver "github.com/vkngwrapper/gpuq/driver/mocks"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"go.uber.org/mock/gomock"
)

func newFakeTracker(t *testing.T) (*fakegpu.GPU, *fakegpu.Fence, *fence.Tracker) {
	gpu := fakegpu.New()

	queue, err := gpu.CreateCommandQueue(driver.ListTypeDirect)
	require.NoError(t, err)

	nativeFence, err := gpu.CreateFence(0)
	require.NoError(t, err)

	return gpu, nativeFence.(*fakegpu.Fence), fence.NewTracker(nil, queue, nativeFence, true)
}

func TestTracker_SignalIncreasesStrictly(t *testing.T) {
	_, _, tracker := newFakeTracker(t)

	var previous fence.Value
	for i := 0; i < 10; i++ {
		value, err := tracker.Signal()
		require.NoError(t, err)
		require.Greater(t, value, previous)
		previous = value
	}

	require.Equal(t, fence.Value(10), tracker.LastSignaled())
}

func TestTracker_SignalReturnsTheSignaledValue(t *testing.T) {
	gpu, nativeFence, tracker := newFakeTracker(t)

	value, err := tracker.Signal()
	require.NoError(t, err)
	require.Equal(t, fence.Value(1), value)
	require.False(t, tracker.IsComplete(value))

	require.True(t, gpu.StepUntil(nativeFence, uint64(value)))
	require.True(t, tracker.IsComplete(value))

	completed, err := tracker.CompletedValue()
	require.NoError(t, err)
	require.Equal(t, value, completed)
}

func TestTracker_ZeroIsAlwaysComplete(t *testing.T) {
	_, _, tracker := newFakeTracker(t)

	require.True(t, tracker.IsComplete(0))
	require.NoError(t, tracker.Wait(0, 0))
}

func TestTracker_CompletionImpliesEarlierValues(t *testing.T) {
	gpu, nativeFence, tracker := newFakeTracker(t)

	first, err := tracker.Signal()
	require.NoError(t, err)
	second, err := tracker.Signal()
	require.NoError(t, err)
	third, err := tracker.Signal()
	require.NoError(t, err)

	require.True(t, gpu.StepUntil(nativeFence, uint64(second)))
	require.True(t, tracker.IsComplete(first))
	require.True(t, tracker.IsComplete(second))
	require.False(t, tracker.IsComplete(third))
}

func TestTracker_WaitTimeout(t *testing.T) {
	_, _, tracker := newFakeTracker(t)

	value, err := tracker.Signal()
	require.NoError(t, err)

	err = tracker.Wait(value, 10*time.Millisecond)
	require.Error(t, err)
	require.True(t, syncutils.IsTimeout(err))
	require.False(t, syncutils.IsFatal(err))
	require.NoError(t, tracker.Err())
	require.False(t, tracker.IsComplete(value))
}

func TestTracker_WaitForUnsignaledValue(t *testing.T) {
	_, _, tracker := newFakeTracker(t)

	err := tracker.Wait(1, time.Second)
	require.Error(t, err)
	require.True(t, errors.Is(err, syncutils.ErrMisuse))
}

func TestTracker_WaitBlocksUntilGPUCompletes(t *testing.T) {
	gpu, _, tracker := newFakeTracker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gpu.Run(ctx, time.Millisecond)

	value, err := tracker.Signal()
	require.NoError(t, err)

	require.NoError(t, tracker.Wait(value, 5*time.Second))
	require.True(t, tracker.IsComplete(value))
}

func TestTracker_Flush(t *testing.T) {
	gpu, _, tracker := newFakeTracker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gpu.Run(ctx, 0)

	for i := 0; i < 5; i++ {
		_, err := tracker.Signal()
		require.NoError(t, err)
	}

	require.NoError(t, tracker.Flush())
	require.Equal(t, fence.Value(6), tracker.LastSignaled())
	require.True(t, tracker.IsComplete(tracker.LastSignaled()))
	require.NoError(t, tracker.Validate())
}

func TestTracker_WaitWithoutTimeoutBlocks(t *testing.T) {
	gpu, _, tracker := newFakeTracker(t)

	value, err := tracker.Signal()
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		gpu.Drain()
	}()

	require.NoError(t, tracker.Wait(value, common.NoTimeout))
	require.True(t, tracker.IsComplete(value))
}

func TestTracker_FlushIdle(t *testing.T) {
	gpu, _, tracker := newFakeTracker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gpu.Run(ctx, time.Millisecond)

	require.NoError(t, tracker.Flush())
	require.Equal(t, fence.Value(1), tracker.LastSignaled())
}

func TestTracker_Fail(t *testing.T) {
	_, _, tracker := newFakeTracker(t)

	// Errors that are not fatal pass through without breaking the tracker
	misuse := syncutils.Misusef("closed twice")
	require.Same(t, misuse, tracker.Fail(misuse))
	require.Nil(t, tracker.Fail(nil))
	require.NoError(t, tracker.Err())

	lost := syncutils.DeviceLost(errors.New("device removed"), "failed to execute")
	require.Same(t, lost, tracker.Fail(lost))
	require.Same(t, lost, tracker.Err())

	// The first fatal error sticks
	require.Same(t, lost, tracker.Fail(syncutils.DeviceLost(errors.New("again"), "failed to reset")))

	_, err := tracker.Signal()
	require.Same(t, lost, err)
	require.Same(t, lost, tracker.Flush())
}

func TestTracker_SignalFailureBreaksTracker(t *testing.T) {
	gpu, _, tracker := newFakeTracker(t)

	_, err := tracker.Signal()
	require.NoError(t, err)

	gpu.FailNext("Signal", errors.New("device removed"))
	_, err = tracker.Signal()
	require.Error(t, err)
	require.True(t, syncutils.IsFatal(err))
	require.Equal(t, fence.Value(1), tracker.LastSignaled())

	_, err = tracker.Signal()
	require.True(t, syncutils.IsFatal(err))
	require.True(t, syncutils.IsFatal(tracker.Err()))
	require.True(t, syncutils.IsFatal(tracker.Flush()))
}

func TestTracker_CompletedValueFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mock_driver.NewMockQueue(ctrl)
	nativeFence := mock_driver.NewMockFence(ctrl)
	tracker := fence.NewTracker(nil, queue, nativeFence, false)

	queue.EXPECT().Signal(nativeFence, uint64(1)).Return(nil)
	nativeFence.EXPECT().CompletedValue().Return(uint64(0), errors.New("device hung"))

	value, err := tracker.Signal()
	require.NoError(t, err)

	require.False(t, tracker.IsComplete(value))
	require.True(t, syncutils.IsFatal(tracker.Err()))

	// A broken tracker no longer talks to the driver
	require.False(t, tracker.IsComplete(value))
	_, err = tracker.Signal()
	require.True(t, syncutils.IsFatal(err))
}

func TestTracker_WaitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mock_driver.NewMockQueue(ctrl)
	nativeFence := mock_driver.NewMockFence(ctrl)
	tracker := fence.NewTracker(nil, queue, nativeFence, true)

	gomock.InOrder(
		queue.EXPECT().Signal(nativeFence, uint64(1)).Return(nil),
		nativeFence.EXPECT().CompletedValue().Return(uint64(0), nil),
		nativeFence.EXPECT().WaitFor(uint64(1), time.Second).Return(false, errors.New("device hung")),
	)

	value, err := tracker.Signal()
	require.NoError(t, err)

	err = tracker.Wait(value, time.Second)
	require.True(t, syncutils.IsFatal(err))
	require.False(t, syncutils.IsTimeout(err))
}
