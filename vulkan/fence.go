package vulkan

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gpuq/driver"
)

type pendingSignal struct {
	value uint64
	fence core1_0.Fence
}

// Fence emulates a monotonic fence with one binary VkFence per signaled value. Signals complete in
// submission order, so the completed value is the value of the last binary fence that has signaled
// with every earlier one signaled too.
//
// A binary fence is recycled once it has signaled, unless a goroutine may still be waiting on it.
type Fence struct {
	device *Device

	mutex     sync.Mutex
	completed uint64
	pending   []pendingSignal
	free      []core1_0.Fence
	retired   []core1_0.Fence
	waiters   int
	destroyed bool
}

var _ driver.Fence = &Fence{}

func (f *Fence) signal(queue *Queue, value uint64) error {
	f.mutex.Lock()
	if f.destroyed {
		f.mutex.Unlock()
		return errors.New("fence was destroyed")
	}
	native, err := f.takeFree()
	f.mutex.Unlock()
	if err != nil {
		return err
	}

	err = queue.submit(native, nil)
	if err != nil {
		native.Destroy(nil)
		return errors.Wrapf(err, "failed to signal fence value %d", value)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.pending = append(f.pending, pendingSignal{value: value, fence: native})
	return nil
}

func (f *Fence) takeFree() (core1_0.Fence, error) {
	if len(f.free) > 0 {
		native := f.free[len(f.free)-1]
		f.free = f.free[:len(f.free)-1]
		return native, nil
	}

	native, _, err := f.device.device.CreateFence(nil, core1_0.FenceCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create binary fence")
	}
	return native, nil
}

// poll advances the completed value past every pending signal that has completed. The caller must hold mutex.
func (f *Fence) poll() error {
	for len(f.pending) > 0 {
		front := f.pending[0]
		res, err := front.fence.Status()
		if err != nil {
			return errors.Wrapf(err, "failed to query fence value %d", front.value)
		}
		if res != core1_0.VKSuccess {
			return nil
		}

		f.completed = front.value
		f.pending[0] = pendingSignal{}
		f.pending = f.pending[1:]
		f.retire(front.fence)
	}

	return nil
}

func (f *Fence) retire(native core1_0.Fence) {
	f.retired = append(f.retired, native)
	if f.waiters == 0 {
		f.recycleRetired()
	}
}

func (f *Fence) recycleRetired() {
	for _, retired := range f.retired {
		_, err := retired.Reset()
		if err != nil {
			retired.Destroy(nil)
			continue
		}
		f.free = append(f.free, retired)
	}
	f.retired = f.retired[:0]
}

func (f *Fence) CompletedValue() (uint64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	err := f.poll()
	return f.completed, err
}

func (f *Fence) WaitFor(value uint64, timeout time.Duration) (bool, error) {
	f.mutex.Lock()
	err := f.poll()
	if err != nil || f.completed >= value {
		f.mutex.Unlock()
		return err == nil, err
	}

	var native core1_0.Fence
	for _, signal := range f.pending {
		if signal.value >= value {
			native = signal.fence
			break
		}
	}
	if native == nil {
		f.mutex.Unlock()
		return false, errors.Newf("fence value %d has not been signaled", value)
	}
	f.waiters++
	f.mutex.Unlock()

	res, err := native.Wait(timeout)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.waiters--
	if f.waiters == 0 {
		defer f.recycleRetired()
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to wait for fence value %d", value)
	}
	if res == core1_0.VKTimeout {
		return false, nil
	}

	err = f.poll()
	return f.completed >= value, err
}

func (f *Fence) Destroy() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.destroyed = true
	for _, signal := range f.pending {
		signal.fence.Destroy(nil)
	}
	for _, native := range f.free {
		native.Destroy(nil)
	}
	for _, native := range f.retired {
		native.Destroy(nil)
	}
	f.pending = nil
	f.free = nil
	f.retired = nil
}
