package gpuq

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"github.com/vkngwrapper/gpuq/syncutils/fence"
	"golang.org/x/exp/slog"
)

// Queue is the single point of submission for one hardware queue. It hands out command lists from a
// pool, submits them, and tracks their completion with a monotonically increasing fence value.
type Queue struct {
	logger   *slog.Logger
	device   driver.Device
	listType driver.ListType
	native   driver.Queue
	tracker  *fence.Tracker
	pool     *commandPool

	// submitMutex keeps ExecuteCommandLists and the following Signal adjacent on the native queue
	submitMutex utils.OptionalMutex
	submissions int
	destroyed   bool
}

func (q *Queue) ListType() driver.ListType {
	return q.listType
}

// Native returns the backend queue
func (q *Queue) Native() driver.Queue {
	return q.native
}

// GetCommandList returns a list open for recording. It never blocks on the GPU.
func (q *Queue) GetCommandList() (*CommandList, error) {
	q.logger.Debug("Queue::GetCommandList")

	if q.isDestroyed() {
		return nil, syncutils.Misusef("attempted to get a command list from a destroyed queue")
	}

	return q.pool.acquire()
}

func (q *Queue) isDestroyed() bool {
	q.submitMutex.Lock()
	defer q.submitMutex.Unlock()

	return q.destroyed
}

// abandonCommandList destroys a recording list that will not be submitted, so that a failed frame
// does not keep the queue from being destroyed
func (q *Queue) abandonCommandList(list *CommandList) {
	q.pool.abandon(list)
}

// ExecuteCommandList closes list, submits it and signals the queue's fence. It returns the fence value
// that will be complete once the GPU has finished executing list. list returns to the pool and must
// not be used again.
func (q *Queue) ExecuteCommandList(list *CommandList) (fence.Value, error) {
	q.logger.Debug("Queue::ExecuteCommandList")

	if list == nil {
		return 0, syncutils.Misusef("attempted to execute a nil command list")
	}

	q.submitMutex.Lock()
	defer q.submitMutex.Unlock()

	if q.destroyed {
		return 0, syncutils.Misusef("attempted to execute a command list on a destroyed queue")
	}

	// A broken queue submits nothing, and the list can never leave the recording state
	err := q.tracker.Err()
	if err != nil {
		q.pool.abandon(list)
		return 0, err
	}

	err = q.pool.closeList(list)
	if err != nil {
		return 0, err
	}

	err = q.native.ExecuteCommandLists([]driver.CommandList{list.native})
	if err != nil {
		err = q.tracker.Fail(syncutils.DeviceLost(err, "failed to execute %s command list", q.listType))
		q.logger.LogAttrs(context.Background(), slog.LevelError, "Queue::ExecuteCommandList failed", slog.Any("error", err))
		return 0, err
	}

	value, err := q.tracker.Signal()
	if err != nil {
		return 0, err
	}

	q.submissions++
	err = q.pool.release(list, value)
	if err != nil {
		return 0, err
	}

	syncutils.DebugValidate(q.pool)
	syncutils.DebugValidate(q.tracker)
	return value, nil
}

// Signal inserts a fence signal after all previously submitted work and returns its value
func (q *Queue) Signal() (fence.Value, error) {
	q.submitMutex.Lock()
	defer q.submitMutex.Unlock()

	return q.tracker.Signal()
}

// IsFenceComplete reports whether the GPU has reached value. It never blocks.
func (q *Queue) IsFenceComplete(value fence.Value) bool {
	return q.tracker.IsComplete(value)
}

// WaitForFenceValue blocks until value is complete or timeout elapses. A timeout is reported with an
// error marked syncutils.ErrTimeout.
func (q *Queue) WaitForFenceValue(value fence.Value, timeout time.Duration) error {
	return q.tracker.Wait(value, timeout)
}

// LastSignaled returns the highest fence value handed out so far
func (q *Queue) LastSignaled() fence.Value {
	return q.tracker.LastSignaled()
}

// Flush blocks until every command submitted so far has finished executing
func (q *Queue) Flush() error {
	q.logger.Debug("Queue::Flush")

	value, err := q.Signal()
	if err != nil {
		return err
	}

	return q.tracker.Wait(value, common.NoTimeout)
}

// Err returns the fatal error that broke the queue, if any
func (q *Queue) Err() error {
	return q.tracker.Err()
}

// TrimIdleAllocators destroys pooled allocators whose work has completed until at most keep remain.
// A render loop that briefly outran the GPU can use this to return to its usual buffering depth.
func (q *Queue) TrimIdleAllocators(keep int) (int, error) {
	if q.isDestroyed() {
		return 0, syncutils.Misusef("attempted to trim a destroyed queue")
	}

	destroyed := q.pool.trimIdle(keep)
	if destroyed > 0 {
		q.logger.LogAttrs(context.Background(), slog.LevelDebug, "Queue::TrimIdleAllocators",
			slog.String("listType", q.listType.String()),
			slog.Int("destroyed", destroyed),
		)
	}
	return destroyed, q.tracker.Err()
}

// Statistics returns a snapshot of the queue's pool and fence counters
func (q *Queue) Statistics() syncutils.Statistics {
	var stats syncutils.Statistics
	q.AddStatistics(&stats)
	return stats
}

// AddStatistics accumulates the queue's counters into stats
func (q *Queue) AddStatistics(stats *syncutils.Statistics) {
	q.submitMutex.Lock()
	submissions := q.submissions
	q.submitMutex.Unlock()

	q.pool.addStatistics(stats)

	var queueStats syncutils.Statistics
	queueStats.Submissions = submissions
	queueStats.LastSignaled = uint64(q.tracker.LastSignaled())
	completed, _ := q.tracker.CompletedValue()
	queueStats.LastCompleted = uint64(completed)
	if queueStats.LastSignaled > queueStats.LastCompleted {
		queueStats.Pending = int(queueStats.LastSignaled - queueStats.LastCompleted)
	}
	stats.AddStatistics(&queueStats)
}

// BuildStatsString returns the queue's statistics as a JSON document
func (q *Queue) BuildStatsString() string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	q.printStats(&obj)
	obj.End()
	return string(writer.Bytes())
}

func (q *Queue) printStats(obj *jwriter.ObjectState) {
	stats := q.Statistics()

	obj.Name("ListType").String(q.listType.String())
	obj.Name("Submissions").Int(stats.Submissions)

	allocators := obj.Name("Allocators").Object()
	allocators.Name("Created").Int(stats.AllocatorsCreated)
	allocators.Name("Reused").Int(stats.AllocatorsReused)
	allocators.Name("Destroyed").Int(stats.AllocatorsDestroyed)
	allocators.Name("Pooled").Int(stats.PooledAllocators)
	allocators.End()

	lists := obj.Name("Lists").Object()
	lists.Name("Created").Int(stats.ListsCreated)
	lists.Name("Reused").Int(stats.ListsReused)
	lists.Name("Pooled").Int(stats.PooledLists)
	lists.Name("Open").Int(stats.OpenLists)
	lists.End()

	fenceObj := obj.Name("Fence").Object()
	fenceObj.Name("LastSignaled").Int(int(stats.LastSignaled))
	fenceObj.Name("LastCompleted").Int(int(stats.LastCompleted))
	fenceObj.Name("InFlight").Int(stats.InFlight())
	fenceObj.End()
}

// Destroy flushes the queue and destroys every pooled allocator and list, the fence and the native
// queue. It is a misuse error to destroy a healthy queue while one of its lists is still recording. If
// the queue is broken or the flush fails because the device was lost, the objects are destroyed anyway
// and the fatal error is returned.
func (q *Queue) Destroy() error {
	q.logger.Debug("Queue::Destroy")

	q.submitMutex.Lock()
	defer q.submitMutex.Unlock()

	if q.destroyed {
		return syncutils.Misusef("attempted to destroy a queue twice")
	}

	flushErr := q.tracker.Flush()
	if flushErr != nil && !syncutils.IsFatal(flushErr) {
		return flushErr
	}

	err := q.pool.destroy()
	if err != nil {
		return errors.CombineErrors(err, flushErr)
	}

	q.tracker.Destroy()
	q.native.Destroy()
	q.destroyed = true

	return flushErr
}
