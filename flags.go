package gpuq

import "github.com/vkngwrapper/core/v2/common"

// QueueCreateFlags indicate specific queue behaviors to activate or deactivate
type QueueCreateFlags int32

var queueCreateFlagsMapping = common.NewFlagStringMapping[QueueCreateFlags]()

func (f QueueCreateFlags) Register(str string) {
	queueCreateFlagsMapping.Register(f, str)
}
func (f QueueCreateFlags) String() string {
	return queueCreateFlagsMapping.FlagsToString(f)
}

const (
	// QueueCreateExternallySynchronized ensures that this queue, its fence tracker and its command pool
	// will not be synchronized internally. The consumer must guarantee that GetCommandList, ExecuteCommandList
	// and the fence methods are called from only one goroutine at a time, but performance may improve because
	// internal mutexes are not used.
	QueueCreateExternallySynchronized QueueCreateFlags = 1 << iota
)

func init() {
	QueueCreateExternallySynchronized.Register("QueueCreateExternallySynchronized")
}
