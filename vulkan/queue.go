package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gpuq/driver"
)

// Queue submits to the VkQueue of its list type's family
type Queue struct {
	device   *Device
	listType driver.ListType
	shared   *sharedQueue
}

var _ driver.Queue = &Queue{}

func (q *Queue) submit(fence core1_0.Fence, submits []core1_0.SubmitInfo) error {
	q.shared.mutex.Lock()
	defer q.shared.mutex.Unlock()

	_, err := q.shared.handle.Submit(fence, submits)
	return err
}

func (q *Queue) ExecuteCommandLists(lists []driver.CommandList) error {
	buffers := make([]core1_0.CommandBuffer, 0, len(lists))
	for _, list := range lists {
		vkList, ok := list.(*CommandList)
		if !ok {
			return errors.Newf("cannot execute command list of type %T", list)
		}
		if vkList.recording {
			return errors.New("cannot execute a command list that is still recording")
		}
		buffers = append(buffers, vkList.buffer)
	}

	err := q.submit(nil, []core1_0.SubmitInfo{
		{CommandBuffers: buffers},
	})
	return errors.Wrapf(err, "failed to submit %d command buffers to %s queue", len(buffers), q.listType)
}

// Signal submits an empty batch that signals a fresh binary fence. The batch completes only after
// every earlier submission to the queue, which is what a timeline signal promises.
func (q *Queue) Signal(fence driver.Fence, value uint64) error {
	vkFence, ok := fence.(*Fence)
	if !ok {
		return errors.Newf("cannot signal fence of type %T", fence)
	}

	return vkFence.signal(q, value)
}

func (q *Queue) Destroy() {
	q.device.logger.Debug("Queue::Destroy")

	q.shared.mutex.Lock()
	defer q.shared.mutex.Unlock()

	_, _ = q.shared.handle.WaitIdle()
}
