package gpuq

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"golang.org/x/exp/slog"
)

type allocatorEntry struct {
	fenceValue fence.Value
	allocator  driver.CommandAllocator
}

type openList struct {
	list      *CommandList
	allocator driver.CommandAllocator
}

// commandPool recycles command allocators and command lists for a single queue. Allocators are kept in
// submission order, which is also completion order, so only the front of the queue ever needs to be
// checked against the fence.
type commandPool struct {
	logger   *slog.Logger
	device   driver.Device
	listType driver.ListType
	tracker  *fence.Tracker
	owner    *Queue

	mutex      utils.OptionalMutex
	allocators []allocatorEntry
	lists      []*CommandList
	// open maps the id of every list that has been handed out and not yet released to the allocator
	// it is recording into
	open      *swiss.Map[uint64, openList]
	nextID    uint64
	destroyed bool

	allocatorsCreated   int
	allocatorsReused    int
	allocatorsDestroyed int
	listsCreated        int
	listsReused         int
}

func newCommandPool(logger *slog.Logger, device driver.Device, listType driver.ListType, tracker *fence.Tracker, owner *Queue, useMutex bool) *commandPool {
	return &commandPool{
		logger:   logger,
		device:   device,
		listType: listType,
		tracker:  tracker,
		owner:    owner,
		mutex:    utils.OptionalMutex{UseMutex: useMutex},
		open:     swiss.NewMap[uint64, openList](8),
	}
}

// acquire returns a list that is open for recording against an allocator nobody else is using. It
// never waits on the GPU: if the oldest allocator is still in flight, a new one is created.
func (p *commandPool) acquire() (*CommandList, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.destroyed {
		return nil, syncutils.Misusef("attempted to get a command list from a destroyed queue")
	}

	err := p.tracker.Err()
	if err != nil {
		return nil, err
	}

	allocator, err := p.acquireAllocator()
	if err != nil {
		return nil, err
	}

	list, err := p.acquireList(allocator)
	if err != nil {
		allocator.Destroy()
		p.allocatorsDestroyed++
		return nil, err
	}

	list.state = CommandListRecording
	p.open.Put(list.id, openList{list: list, allocator: allocator})
	return list, nil
}

func (p *commandPool) acquireAllocator() (driver.CommandAllocator, error) {
	if len(p.allocators) > 0 && p.tracker.IsComplete(p.allocators[0].fenceValue) {
		entry := p.allocators[0]
		p.allocators[0] = allocatorEntry{}
		p.allocators = p.allocators[1:]

		err := entry.allocator.Reset()
		if err != nil {
			entry.allocator.Destroy()
			p.allocatorsDestroyed++
			return nil, p.tracker.Fail(syncutils.DeviceLost(err, "failed to reset command allocator for fence value %d", entry.fenceValue))
		}

		p.allocatorsReused++
		return entry.allocator, nil
	}

	allocator, err := p.device.CreateCommandAllocator(p.listType)
	if err != nil {
		return nil, p.tracker.Fail(syncutils.CreationFailed(err, "failed to create %s command allocator", p.listType))
	}

	p.allocatorsCreated++
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "commandPool::acquireAllocator created allocator",
		slog.String("listType", p.listType.String()),
		slog.Int("pooled", len(p.allocators)),
		slog.Int("created", p.allocatorsCreated),
	)
	return allocator, nil
}

func (p *commandPool) acquireList(allocator driver.CommandAllocator) (*CommandList, error) {
	if len(p.lists) > 0 {
		list := p.lists[0]
		p.lists[0] = nil
		p.lists = p.lists[1:]

		err := list.native.Reset(allocator)
		if err != nil {
			list.native.Destroy()
			return nil, p.tracker.Fail(syncutils.DeviceLost(err, "failed to reset command list"))
		}

		p.listsReused++
		return list, nil
	}

	native, err := p.device.CreateCommandList(p.listType, allocator)
	if err != nil {
		return nil, p.tracker.Fail(syncutils.CreationFailed(err, "failed to create %s command list", p.listType))
	}

	p.nextID++
	p.listsCreated++
	return &CommandList{
		id:     p.nextID,
		queue:  p.owner,
		native: native,
	}, nil
}

// closeList moves a recording list to the submitted state and closes the native list
func (p *commandPool) closeList(list *CommandList) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if list.queue != p.owner {
		return syncutils.Misusef("attempted to execute a command list on a queue that did not create it")
	}
	if !p.open.Has(list.id) || list.state != CommandListRecording {
		return syncutils.Misusef("attempted to execute a command list in state %s", list.state)
	}

	list.state = CommandListSubmitted
	err := list.native.Close()
	return p.tracker.Fail(syncutils.DeviceLost(err, "failed to close command list"))
}

// abandon destroys a list that will never be submitted, together with the allocator it was recording
// into. Lists this pool did not hand out, or already released, are left alone.
func (p *commandPool) abandon(list *CommandList) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	entry, ok := p.open.Get(list.id)
	if !ok || entry.list != list {
		return
	}
	p.open.Delete(list.id)

	list.native.Destroy()
	entry.allocator.Destroy()
	p.allocatorsDestroyed++
	list.state = CommandListAbandoned

	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "commandPool::abandon",
		slog.String("listType", p.listType.String()),
		slog.Uint64("list", list.id),
	)
}

// release returns a submitted list and its allocator to the pool. The allocator may not be reset until
// value is complete.
func (p *commandPool) release(list *CommandList, value fence.Value) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	entry, ok := p.open.Get(list.id)
	if !ok || entry.list != list {
		return syncutils.Misusef("attempted to release a command list that was not handed out by this pool")
	}
	p.open.Delete(list.id)

	p.allocators = append(p.allocators, allocatorEntry{fenceValue: value, allocator: entry.allocator})
	list.state = CommandListIdle
	p.lists = append(p.lists, list)
	return nil
}

// trimIdle destroys completed allocators, and idle lists, until no more than keep of each remain pooled.
// Nothing that is still in flight is destroyed. It returns the number of allocators destroyed.
func (p *commandPool) trimIdle(keep int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if keep < 0 {
		keep = 0
	}

	destroyed := 0
	for len(p.allocators) > keep && p.tracker.IsComplete(p.allocators[0].fenceValue) {
		p.allocators[0].allocator.Destroy()
		p.allocators[0] = allocatorEntry{}
		p.allocators = p.allocators[1:]
		destroyed++
	}

	// Pooled lists belong to submissions no newer than the tail of the allocator queue
	listsIdle := len(p.allocators) == 0 || p.tracker.IsComplete(p.allocators[len(p.allocators)-1].fenceValue)
	for listsIdle && len(p.lists) > keep {
		p.lists[0].native.Destroy()
		p.lists[0] = nil
		p.lists = p.lists[1:]
	}

	p.allocatorsDestroyed += destroyed
	return destroyed
}

func (p *commandPool) addStatistics(stats *syncutils.Statistics) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	stats.AllocatorsCreated += p.allocatorsCreated
	stats.AllocatorsReused += p.allocatorsReused
	stats.AllocatorsDestroyed += p.allocatorsDestroyed
	stats.ListsCreated += p.listsCreated
	stats.ListsReused += p.listsReused
	stats.PooledAllocators += len(p.allocators)
	stats.PooledLists += len(p.lists)
	stats.OpenLists += p.open.Count()
}

// Validate checks that the allocator queue is in submission order and that no list is both pooled and open
func (p *commandPool) Validate() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i := 1; i < len(p.allocators); i++ {
		if p.allocators[i].fenceValue < p.allocators[i-1].fenceValue {
			return errors.Errorf("allocator queue out of order: fence value %d follows %d", p.allocators[i].fenceValue, p.allocators[i-1].fenceValue)
		}
	}

	for _, list := range p.lists {
		if p.open.Has(list.id) {
			return errors.Errorf("command list %d is both pooled and open", list.id)
		}
		if list.state != CommandListIdle {
			return errors.Errorf("pooled command list %d is in state %s", list.id, list.state)
		}
	}

	return nil
}

// destroy releases every pooled object. It fails if a list is still recording, unless the queue is
// broken, in which case the recording lists can never be submitted and are destroyed too.
func (p *commandPool) destroy() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.tracker.Err() == nil {
		var recording error
		p.open.Iter(func(id uint64, entry openList) bool {
			if entry.list.state == CommandListRecording {
				recording = syncutils.Misusef("attempted to destroy a queue while command list %d is still recording", id)
				return true
			}
			return false
		})
		if recording != nil {
			return recording
		}
	}

	// Lists that were never released belong to a submission that failed fatally
	p.open.Iter(func(id uint64, entry openList) bool {
		entry.list.native.Destroy()
		entry.allocator.Destroy()
		entry.list.state = CommandListAbandoned
		p.allocatorsDestroyed++
		return false
	})
	p.open = swiss.NewMap[uint64, openList](8)

	for _, list := range p.lists {
		list.native.Destroy()
	}
	p.lists = nil

	for _, entry := range p.allocators {
		entry.allocator.Destroy()
	}
	p.allocatorsDestroyed += len(p.allocators)
	p.allocators = nil
	p.destroyed = true

	return nil
}
