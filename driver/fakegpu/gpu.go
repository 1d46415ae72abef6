// Package fakegpu is an in-process simulation of a GPU that implements every interface in the driver
// package. Submitted work sits in a queue until the GPU is stepped, either explicitly from a test with
// Step/Drain or by a background goroutine started with Run, which makes it possible to observe exactly
// which resources the CPU touches while work is in flight.
//
// The simulation is strict where real drivers are undefined: resetting an allocator whose lists are still
// executing, resetting an open list, executing an open list or resizing a swapchain whose buffers are still
// referenced all fail.
package fakegpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gpuq/driver"
)

type opKind int

const (
	opExecute opKind = iota
	opSignal
)

type op struct {
	kind       opKind
	lists      []*CommandList
	allocators []*CommandAllocator
	fence      *Fence
	value      uint64
}

// GPU is the simulated device. The zero value is not usable, call New.
type GPU struct {
	mutex   sync.Mutex
	changed chan struct{}
	work    chan struct{}

	pending  []op
	calls    []string
	failures map[string]error
	tearing  bool
	nextID   int

	allocatorsCreated int
	listsCreated      int
	executed          int
}

var _ driver.Device = &GPU{}

func New() *GPU {
	return &GPU{
		changed:  make(chan struct{}),
		work:     make(chan struct{}, 1),
		failures: make(map[string]error),
	}
}

// SetTearingSupported controls the value returned from TearingSupported
func (g *GPU) SetTearingSupported(supported bool) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.tearing = supported
}

// FailNext makes the next call to method return err. method is the bare method name, for example
// "CreateCommandAllocator", "Signal" or "Present".
func (g *GPU) FailNext(method string, err error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.failures[method] = err
}

// Calls returns the log of native calls made so far, in order
func (g *GPU) Calls() []string {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	calls := make([]string, len(g.calls))
	copy(calls, g.calls)
	return calls
}

// ClearCalls empties the call log
func (g *GPU) ClearCalls() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.calls = nil
}

func (g *GPU) AllocatorsCreated() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.allocatorsCreated
}

func (g *GPU) ListsCreated() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.listsCreated
}

// Executed returns the number of command lists the GPU has finished executing
func (g *GPU) Executed() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.executed
}

// Pending returns the number of submitted operations (list batches and signals) not yet executed
func (g *GPU) Pending() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return len(g.pending)
}

func (g *GPU) record(format string, args ...any) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *GPU) injected(method string) error {
	err, ok := g.failures[method]
	if !ok {
		return nil
	}
	delete(g.failures, method)
	return err
}

func (g *GPU) id() int {
	g.nextID++
	return g.nextID
}

func (g *GPU) enqueue(o op) {
	g.pending = append(g.pending, o)

	select {
	case g.work <- struct{}{}:
	default:
	}
}

func (g *GPU) notify() {
	close(g.changed)
	g.changed = make(chan struct{})
}

// Step executes the oldest pending operation. It returns false if nothing was pending.
func (g *GPU) Step() bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.stepLocked()
}

func (g *GPU) stepLocked() bool {
	if len(g.pending) == 0 {
		return false
	}

	next := g.pending[0]
	g.pending = g.pending[1:]

	switch next.kind {
	case opExecute:
		for i, list := range next.lists {
			list.executions++
			list.inFlight--
			next.allocators[i].inFlight--
			g.executed++
		}
	case opSignal:
		if next.value > next.fence.completed {
			next.fence.completed = next.value
		}
	}

	g.notify()
	return true
}

// Drain executes every pending operation
func (g *GPU) Drain() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for g.stepLocked() {
	}
}

// StepUntil executes pending operations until fence has reached value or nothing is pending. It returns
// whether fence reached value.
func (g *GPU) StepUntil(fence *Fence, value uint64) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for fence.completed < value {
		if !g.stepLocked() {
			return false
		}
	}
	return true
}

// Run executes pending operations on a background goroutine until ctx is done. Each operation takes
// latency to complete.
func (g *GPU) Run(ctx context.Context, latency time.Duration) {
	go func() {
		for {
			if !g.Step() {
				select {
				case <-ctx.Done():
					return
				case <-g.work:
				}
				continue
			}

			if latency > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(latency):
				}
			} else {
				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		}
	}()
}

func (g *GPU) CreateCommandQueue(listType driver.ListType) (driver.Queue, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.record("Device.CreateCommandQueue(%s)", listType)
	if err := g.injected("CreateCommandQueue"); err != nil {
		return nil, err
	}

	return &Queue{gpu: g, listType: listType}, nil
}

func (g *GPU) CreateFence(initialValue uint64) (driver.Fence, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.record("Device.CreateFence(%d)", initialValue)
	if err := g.injected("CreateFence"); err != nil {
		return nil, err
	}

	return &Fence{gpu: g, id: g.id(), completed: initialValue}, nil
}

func (g *GPU) CreateCommandAllocator(listType driver.ListType) (driver.CommandAllocator, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.injected("CreateCommandAllocator"); err != nil {
		return nil, err
	}

	allocator := &CommandAllocator{gpu: g, id: g.id(), listType: listType}
	g.allocatorsCreated++
	g.record("Device.CreateCommandAllocator(%d)", allocator.id)
	return allocator, nil
}

func (g *GPU) CreateCommandList(listType driver.ListType, allocator driver.CommandAllocator) (driver.CommandList, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.injected("CreateCommandList"); err != nil {
		return nil, err
	}

	fakeAllocator, ok := allocator.(*CommandAllocator)
	if !ok {
		return nil, errors.Newf("fakegpu cannot record into allocator of type %T", allocator)
	}

	list := &CommandList{gpu: g, id: g.id(), listType: listType, allocator: fakeAllocator, open: true}
	g.listsCreated++
	g.record("Device.CreateCommandList(%d, allocator=%d)", list.id, fakeAllocator.id)
	return list, nil
}

func (g *GPU) CreateRenderTargetView(resource driver.Resource) (driver.RenderTargetView, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.injected("CreateRenderTargetView"); err != nil {
		return nil, err
	}

	fakeResource, ok := resource.(*Resource)
	if !ok {
		return nil, errors.Newf("fakegpu cannot create a view of resource type %T", resource)
	}

	g.record("Device.CreateRenderTargetView(%s)", fakeResource.name)
	return &RenderTargetView{gpu: g, resource: fakeResource}, nil
}

func (g *GPU) CreateUploadBuffer(size int) (driver.UploadBuffer, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.injected("CreateUploadBuffer"); err != nil {
		return nil, err
	}

	g.record("Device.CreateUploadBuffer(%d)", size)
	return &UploadBuffer{data: make([]byte, size)}, nil
}

func (g *GPU) TearingSupported() bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.tearing
}
