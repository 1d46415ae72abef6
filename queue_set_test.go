package gpuq

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/driver/fakegpu"
	mock_driver "github.com/vkngwrapper/gpuq/driver/mocks"
	"github.com/vkngwrapper/gpuq/syncutils"
	"go.uber.org/mock/gomock"
)

func TestQueueSet(t *testing.T) {
	gpu := fakegpu.New()
	runGPU(t, gpu)

	set, err := NewQueueSet(nil, gpu, CreateOptions{})
	require.NoError(t, err)

	for _, listType := range driver.ListTypes {
		queue := set.Queue(listType)
		require.NotNil(t, queue)
		require.Equal(t, listType, queue.ListType())

		list, err := queue.GetCommandList()
		require.NoError(t, err)
		_, err = queue.ExecuteCommandList(list)
		require.NoError(t, err)
	}
	require.Same(t, set.Queue(driver.ListTypeCopy), set.Copy())
	require.Same(t, set.Queue(driver.ListTypeCompute), set.Compute())

	require.NoError(t, set.Flush())
	for _, listType := range driver.ListTypes {
		queue := set.Queue(listType)
		require.True(t, queue.IsFenceComplete(queue.LastSignaled()))
	}

	stats := set.Statistics()
	require.Equal(t, 3, stats.Submissions)
	require.Equal(t, 3, stats.AllocatorsCreated)
	require.Equal(t, 0, stats.InFlight())

	json := set.BuildStatsString()
	require.Contains(t, json, `"Submissions":3`)
	require.Contains(t, json, `"ListType":"ListTypeCopy"`)
	require.Equal(t, 3, strings.Count(json, `"ListType"`))

	require.NoError(t, set.Destroy())
	require.Equal(t, 3, countCalls(gpu.Calls(), "Queue.Destroy"))
	require.Nil(t, set.Direct())
}

func TestQueueSet_InFlightSumsEveryQueue(t *testing.T) {
	gpu := fakegpu.New()

	set, err := NewQueueSet(nil, gpu, CreateOptions{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		list, err := set.Direct().GetCommandList()
		require.NoError(t, err)
		_, err = set.Direct().ExecuteCommandList(list)
		require.NoError(t, err)
	}
	list, err := set.Compute().GetCommandList()
	require.NoError(t, err)
	_, err = set.Compute().ExecuteCommandList(list)
	require.NoError(t, err)

	// Each queue counts on its own timeline: 3 direct values and 1 compute value are outstanding
	directStats := set.Direct().Statistics()
	computeStats := set.Compute().Statistics()
	setStats := set.Statistics()
	require.Equal(t, 3, directStats.InFlight())
	require.Equal(t, 1, computeStats.InFlight())
	require.Equal(t, 4, setStats.InFlight())
	require.Contains(t, set.BuildStatsString(), `"InFlight":4`)

	gpu.Drain()
	drainedStats := set.Statistics()
	require.Equal(t, 0, drainedStats.InFlight())
}

func TestQueueSet_WrongListTypeIsRejected(t *testing.T) {
	gpu := fakegpu.New()

	set, err := NewQueueSet(nil, gpu, CreateOptions{})
	require.NoError(t, err)

	list, err := set.Copy().GetCommandList()
	require.NoError(t, err)

	_, err = set.Direct().ExecuteCommandList(list)
	require.True(t, errors.Is(err, syncutils.ErrMisuse))
}

func TestNewQueueSet_CreationFailureCleansUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := mock_driver.NewMockDevice(ctrl)
	directQueue := mock_driver.NewMockQueue(ctrl)
	directFence := mock_driver.NewMockFence(ctrl)

	device.EXPECT().CreateCommandQueue(driver.ListTypeDirect).Return(directQueue, nil)
	device.EXPECT().CreateFence(uint64(0)).Return(directFence, nil)
	device.EXPECT().CreateCommandQueue(driver.ListTypeCompute).Return(nil, errors.New("no compute queue"))

	gomock.InOrder(
		directQueue.EXPECT().Signal(directFence, uint64(1)).Return(nil),
		directFence.EXPECT().CompletedValue().Return(uint64(1), nil),
		directFence.EXPECT().Destroy(),
		directQueue.EXPECT().Destroy(),
	)

	_, err := NewQueueSet(nil, device, CreateOptions{})
	require.True(t, errors.Is(err, syncutils.ErrCreationFailed))
}
