package gpuq

import (
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/syncutils"
)

// CommandListState is the position of a CommandList in its Idle -> Recording -> Submitted -> Idle cycle
type CommandListState int32

const (
	// CommandListIdle lists sit in their queue's pool and must not be touched by the caller
	CommandListIdle CommandListState = iota
	// CommandListRecording lists were returned by Queue.GetCommandList and accept commands
	CommandListRecording
	// CommandListSubmitted lists were passed to Queue.ExecuteCommandList and may still be executing
	CommandListSubmitted
	// CommandListAbandoned lists were destroyed without being submitted and never return to the pool
	CommandListAbandoned
)

var commandListStateMapping = map[CommandListState]string{
	CommandListIdle:      "CommandListIdle",
	CommandListRecording: "CommandListRecording",
	CommandListSubmitted: "CommandListSubmitted",
	CommandListAbandoned: "CommandListAbandoned",
}

func (s CommandListState) String() string {
	return commandListStateMapping[s]
}

// CommandList is a pooled native command list handed out by Queue.GetCommandList. It may only be used
// between GetCommandList and ExecuteCommandList on the queue that produced it.
type CommandList struct {
	id     uint64
	queue  *Queue
	native driver.CommandList
	state  CommandListState
}

func (l *CommandList) State() CommandListState {
	return l.state
}

// Queue returns the queue the list must be executed on
func (l *CommandList) Queue() *Queue {
	return l.queue
}

func (l *CommandList) checkRecording(operation string) error {
	if l.state != CommandListRecording {
		return syncutils.Misusef("attempted to %s a command list in state %s", operation, l.state)
	}
	return nil
}

// Native returns the backend command list so that pipeline code can record arbitrary commands into it
func (l *CommandList) Native() (driver.CommandList, error) {
	err := l.checkRecording("access")
	if err != nil {
		return nil, err
	}

	return l.native, nil
}

// Transition records a barrier moving resource from before to after
func (l *CommandList) Transition(resource driver.Resource, before, after driver.ResourceState) error {
	err := l.checkRecording("record a barrier into")
	if err != nil {
		return err
	}

	err = l.native.ResourceBarrier(resource, before, after)
	return l.queue.tracker.Fail(syncutils.DeviceLost(err, "failed to record transition from %s to %s", before, after))
}

// ClearRenderTarget records a clear of view to color
func (l *CommandList) ClearRenderTarget(view driver.RenderTargetView, color [4]float32) error {
	err := l.checkRecording("record a clear into")
	if err != nil {
		return err
	}

	err = l.native.ClearRenderTargetView(view, color)
	return l.queue.tracker.Fail(syncutils.DeviceLost(err, "failed to record render target clear"))
}
