package fakegpu

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gpuq/driver"
)

type Queue struct {
	gpu       *GPU
	listType  driver.ListType
	destroyed bool
}

var _ driver.Queue = &Queue{}

func (q *Queue) ExecuteCommandLists(lists []driver.CommandList) error {
	q.gpu.mutex.Lock()
	defer q.gpu.mutex.Unlock()

	if err := q.gpu.injected("ExecuteCommandLists"); err != nil {
		return err
	}

	submitted := op{kind: opExecute}
	for _, list := range lists {
		fakeList, ok := list.(*CommandList)
		if !ok {
			return errors.Newf("fakegpu cannot execute list of type %T", list)
		}
		if fakeList.open {
			return errors.Newf("command list %d was executed while still open", fakeList.id)
		}
		if fakeList.listType != q.listType {
			return errors.Newf("command list %d of type %s executed on a %s queue", fakeList.id, fakeList.listType, q.listType)
		}

		fakeList.inFlight++
		fakeList.allocator.inFlight++
		submitted.lists = append(submitted.lists, fakeList)
		submitted.allocators = append(submitted.allocators, fakeList.allocator)
		q.gpu.record("Queue.ExecuteCommandLists(%d)", fakeList.id)
	}

	q.gpu.enqueue(submitted)
	return nil
}

func (q *Queue) Signal(fence driver.Fence, value uint64) error {
	q.gpu.mutex.Lock()
	defer q.gpu.mutex.Unlock()

	q.gpu.record("Queue.Signal(%d)", value)
	if err := q.gpu.injected("Signal"); err != nil {
		return err
	}

	fakeFence, ok := fence.(*Fence)
	if !ok {
		return errors.Newf("fakegpu cannot signal fence of type %T", fence)
	}

	q.gpu.enqueue(op{kind: opSignal, fence: fakeFence, value: value})
	return nil
}

func (q *Queue) Destroy() {
	q.gpu.mutex.Lock()
	defer q.gpu.mutex.Unlock()

	q.gpu.record("Queue.Destroy")
	q.destroyed = true
}

// Fence is a simulated fence. Its completed value only moves when the GPU executes a signal.
type Fence struct {
	gpu       *GPU
	id        int
	completed uint64
	destroyed bool
}

var _ driver.Fence = &Fence{}

func (f *Fence) CompletedValue() (uint64, error) {
	f.gpu.mutex.Lock()
	defer f.gpu.mutex.Unlock()

	if err := f.gpu.injected("CompletedValue"); err != nil {
		return 0, err
	}

	return f.completed, nil
}

func (f *Fence) WaitFor(value uint64, timeout time.Duration) (bool, error) {
	f.gpu.mutex.Lock()
	f.gpu.record("Fence.WaitFor(%d)", value)
	if err := f.gpu.injected("WaitFor"); err != nil {
		f.gpu.mutex.Unlock()
		return false, err
	}
	f.gpu.mutex.Unlock()

	// common.NoTimeout is negative and waits forever
	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		f.gpu.mutex.Lock()
		if f.completed >= value {
			f.gpu.mutex.Unlock()
			return true, nil
		}
		changed := f.gpu.changed
		f.gpu.mutex.Unlock()

		select {
		case <-changed:
		case <-expired:
			return false, nil
		}
	}
}

func (f *Fence) Destroy() {
	f.gpu.mutex.Lock()
	defer f.gpu.mutex.Unlock()

	f.gpu.record("Fence.Destroy")
	f.destroyed = true
}

type CommandAllocator struct {
	gpu       *GPU
	id        int
	listType  driver.ListType
	inFlight  int
	resets    int
	destroyed bool
}

var _ driver.CommandAllocator = &CommandAllocator{}

// ID identifies the allocator in the call log
func (a *CommandAllocator) ID() int { return a.id }

// Resets returns the number of times Reset succeeded
func (a *CommandAllocator) Resets() int {
	a.gpu.mutex.Lock()
	defer a.gpu.mutex.Unlock()

	return a.resets
}

// InFlight returns the number of submitted lists recorded against the allocator that the GPU has
// not yet executed
func (a *CommandAllocator) InFlight() int {
	a.gpu.mutex.Lock()
	defer a.gpu.mutex.Unlock()

	return a.inFlight
}

func (a *CommandAllocator) Reset() error {
	a.gpu.mutex.Lock()
	defer a.gpu.mutex.Unlock()

	a.gpu.record("CommandAllocator.Reset(%d)", a.id)
	if err := a.gpu.injected("ResetAllocator"); err != nil {
		return err
	}
	if a.destroyed {
		return errors.Newf("command allocator %d was reset after being destroyed", a.id)
	}
	if a.inFlight > 0 {
		return errors.Newf("command allocator %d was reset while %d of its lists are still executing", a.id, a.inFlight)
	}

	a.resets++
	return nil
}

func (a *CommandAllocator) Destroy() {
	a.gpu.mutex.Lock()
	defer a.gpu.mutex.Unlock()

	a.gpu.record("CommandAllocator.Destroy(%d)", a.id)
	a.destroyed = true
}

type CommandList struct {
	gpu        *GPU
	id         int
	listType   driver.ListType
	allocator  *CommandAllocator
	open       bool
	inFlight   int
	executions int
	commands   []string
	destroyed  bool
}

var _ driver.CommandList = &CommandList{}

func (l *CommandList) ID() int { return l.id }

// Allocator returns the allocator the list was last reset against
func (l *CommandList) Allocator() *CommandAllocator {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	return l.allocator
}

// Commands returns the commands recorded since the last reset
func (l *CommandList) Commands() []string {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	commands := make([]string, len(l.commands))
	copy(commands, l.commands)
	return commands
}

func (l *CommandList) Executions() int {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	return l.executions
}

func (l *CommandList) Reset(allocator driver.CommandAllocator) error {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	if err := l.gpu.injected("ResetList"); err != nil {
		return err
	}

	fakeAllocator, ok := allocator.(*CommandAllocator)
	if !ok {
		return errors.Newf("fakegpu cannot record into allocator of type %T", allocator)
	}
	if l.open {
		return errors.Newf("command list %d was reset while still open", l.id)
	}

	l.gpu.record("CommandList.Reset(%d, allocator=%d)", l.id, fakeAllocator.id)
	l.allocator = fakeAllocator
	l.open = true
	l.commands = nil
	return nil
}

func (l *CommandList) Close() error {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	if !l.open {
		return errors.Newf("command list %d was closed twice", l.id)
	}

	l.gpu.record("CommandList.Close(%d)", l.id)
	l.open = false
	return nil
}

func (l *CommandList) ResourceBarrier(resource driver.Resource, before, after driver.ResourceState) error {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	if !l.open {
		return errors.Newf("command list %d recorded a barrier while closed", l.id)
	}

	name := "<unknown>"
	if fakeResource, ok := resource.(*Resource); ok {
		name = fakeResource.name
	}
	l.commands = append(l.commands, "barrier "+name+" "+before.String()+"->"+after.String())
	return nil
}

func (l *CommandList) ClearRenderTargetView(view driver.RenderTargetView, color [4]float32) error {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	if !l.open {
		return errors.Newf("command list %d recorded a clear while closed", l.id)
	}

	name := "<unknown>"
	if fakeView, ok := view.(*RenderTargetView); ok {
		name = fakeView.resource.name
	}
	l.commands = append(l.commands, "clear "+name)
	return nil
}

func (l *CommandList) Destroy() {
	l.gpu.mutex.Lock()
	defer l.gpu.mutex.Unlock()

	l.gpu.record("CommandList.Destroy(%d)", l.id)
	l.destroyed = true
}

// Resource is a simulated back buffer
type Resource struct {
	gpu      *GPU
	name     string
	released bool
}

var _ driver.Resource = &Resource{}

func (r *Resource) Name() string { return r.name }

func (r *Resource) Released() bool {
	r.gpu.mutex.Lock()
	defer r.gpu.mutex.Unlock()

	return r.released
}

func (r *Resource) Release() {
	r.gpu.mutex.Lock()
	defer r.gpu.mutex.Unlock()

	r.gpu.record("Resource.Release(%s)", r.name)
	r.released = true
}

type RenderTargetView struct {
	gpu      *GPU
	resource *Resource
}

var _ driver.RenderTargetView = &RenderTargetView{}

func (v *RenderTargetView) Resource() driver.Resource { return v.resource }

func (v *RenderTargetView) Destroy() {
	v.gpu.mutex.Lock()
	defer v.gpu.mutex.Unlock()

	v.gpu.record("RenderTargetView.Destroy(%s)", v.resource.name)
}

type UploadBuffer struct {
	data []byte
}

var _ driver.UploadBuffer = &UploadBuffer{}

func (b *UploadBuffer) Size() int     { return len(b.data) }
func (b *UploadBuffer) Bytes() []byte { return b.data }
func (b *UploadBuffer) Destroy()      {}
