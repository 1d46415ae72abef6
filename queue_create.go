package gpuq

import (
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"golang.org/x/exp/slog"
)

// CreateOptions contains optional settings when creating a queue
type CreateOptions struct {
	// Flags indicates specific queue behaviors to activate or deactivate
	Flags QueueCreateFlags
}

// New creates a command queue of type listType on device, along with the fence that tracks its
// progress. A failure to create either is marked syncutils.ErrCreationFailed.
func New(logger *slog.Logger, device driver.Device, listType driver.ListType, options CreateOptions) (*Queue, error) {
	logger = utils.LoggerOrDiscard(logger)
	useMutex := options.Flags&QueueCreateExternallySynchronized == 0

	native, err := device.CreateCommandQueue(listType)
	if err != nil {
		return nil, syncutils.CreationFailed(err, "failed to create %s command queue", listType)
	}

	nativeFence, err := device.CreateFence(0)
	if err != nil {
		native.Destroy()
		return nil, syncutils.CreationFailed(err, "failed to create fence for %s command queue", listType)
	}

	queue := &Queue{
		logger:      logger,
		device:      device,
		listType:    listType,
		native:      native,
		tracker:     fence.NewTracker(logger, native, nativeFence, useMutex),
		submitMutex: utils.OptionalMutex{UseMutex: useMutex},
	}
	queue.pool = newCommandPool(logger, device, listType, queue.tracker, queue, useMutex)

	return queue, nil
}
