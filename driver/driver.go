// Package driver declares the native GPU objects that gpuq drives. A backend (Vulkan via the vulkan
// package, the fakegpu simulator, or anything else) implements these interfaces; gpuq never talks to a
// graphics API directly.
//
// Every method that can fail returns an error. Backends should not attempt to classify errors: gpuq
// treats every native failure as fatal and marks it accordingly, except for ErrOutOfDate.
package driver

//go:generate mockgen -source driver.go -destination ./mocks/mocks.go -package mock_driver

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
)

// ErrOutOfDate is returned by Swapchain.Present when the presentation surface has changed and the swapchain
// must be resized before it can present again.
var ErrOutOfDate = errors.New("swapchain is out of date")

// ListType identifies the kind of hardware queue, and the kind of command list it accepts
type ListType int32

const (
	ListTypeDirect ListType = iota
	ListTypeCompute
	ListTypeCopy
)

var listTypeMapping = map[ListType]string{
	ListTypeDirect:  "ListTypeDirect",
	ListTypeCompute: "ListTypeCompute",
	ListTypeCopy:    "ListTypeCopy",
}

func (t ListType) String() string {
	return listTypeMapping[t]
}

// ListTypes lists every ListType, in creation order
var ListTypes = []ListType{ListTypeDirect, ListTypeCompute, ListTypeCopy}

// ResourceState is the usage a resource is transitioned into by ResourceBarrier
type ResourceState int32

const (
	ResourceStatePresent ResourceState = iota
	ResourceStateRenderTarget
)

var resourceStateMapping = map[ResourceState]string{
	ResourceStatePresent:      "ResourceStatePresent",
	ResourceStateRenderTarget: "ResourceStateRenderTarget",
}

func (s ResourceState) String() string {
	return resourceStateMapping[s]
}

// PresentFlags modify the behavior of Swapchain.Present
type PresentFlags int32

var presentFlagsMapping = common.NewFlagStringMapping[PresentFlags]()

func (f PresentFlags) Register(str string) {
	presentFlagsMapping.Register(f, str)
}
func (f PresentFlags) String() string {
	return presentFlagsMapping.FlagsToString(f)
}

const (
	// PresentAllowTearing asks the presentation engine to display the image immediately, even if that
	// tears. It is only valid with a sync interval of 0 on adapters where Device.TearingSupported is true.
	PresentAllowTearing PresentFlags = 1 << iota
)

func init() {
	PresentAllowTearing.Register("PresentAllowTearing")
}

// Device creates every other native object
type Device interface {
	CreateCommandQueue(listType ListType) (Queue, error)
	// CreateFence creates a fence whose completed value starts at initialValue
	CreateFence(initialValue uint64) (Fence, error)
	CreateCommandAllocator(listType ListType) (CommandAllocator, error)
	// CreateCommandList creates a command list backed by allocator. The list is returned open and ready
	// to record.
	CreateCommandList(listType ListType, allocator CommandAllocator) (CommandList, error)
	CreateRenderTargetView(resource Resource) (RenderTargetView, error)
	// CreateUploadBuffer creates a CPU-writable, GPU-readable buffer that stays mapped for its lifetime
	CreateUploadBuffer(size int) (UploadBuffer, error)
	// TearingSupported reports whether PresentAllowTearing may be used
	TearingSupported() bool
}

// Queue is a hardware queue. Submission is append-only: the GPU executes lists and signals in submission order.
type Queue interface {
	ExecuteCommandLists(lists []CommandList) error
	// Signal appends an instruction that sets fence's completed value to value once every
	// previously submitted command has finished executing
	Signal(fence Fence, value uint64) error
	Destroy()
}

// Fence exposes a GPU-written, monotonically increasing completion counter
type Fence interface {
	CompletedValue() (uint64, error)
	// WaitFor blocks the calling goroutine until the completed value reaches value or timeout elapses.
	// It returns false, nil on timeout. Implementations must block on an OS or driver event rather
	// than poll.
	WaitFor(value uint64, timeout time.Duration) (bool, error)
	Destroy()
}

// CommandAllocator is the backing memory for recorded commands
type CommandAllocator interface {
	// Reset reclaims the memory of every list recorded against the allocator. It must not be called
	// while the GPU may still be executing any of those lists.
	Reset() error
	Destroy()
}

// CommandList records commands into the allocator it was last reset against
type CommandList interface {
	// Reset reopens a closed list for recording against allocator
	Reset(allocator CommandAllocator) error
	Close() error
	ResourceBarrier(resource Resource, before, after ResourceState) error
	ClearRenderTargetView(view RenderTargetView, color [4]float32) error
	Destroy()
}

// Swapchain is a rotating set of presentable back buffers
type Swapchain interface {
	BufferCount() int
	Buffer(index int) (Resource, error)
	// CurrentBackBufferIndex returns the buffer the next frame must render into. It is chosen by the
	// presentation engine, not by the application.
	CurrentBackBufferIndex() (int, error)
	Present(syncInterval int, flags PresentFlags) error
	// ResizeBuffers recreates the back buffers. Every Resource previously returned by Buffer must have
	// been released first.
	ResizeBuffers(count, width, height int) error
	Destroy()
}

// Resource is a GPU resource reference, such as a swapchain back buffer
type Resource interface {
	Release()
}

type RenderTargetView interface {
	Resource() Resource
	Destroy()
}

// UploadBuffer is persistently mapped host-visible memory
type UploadBuffer interface {
	Size() int
	Bytes() []byte
	Destroy()
}
