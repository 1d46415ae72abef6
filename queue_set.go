package gpuq

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gpuq/driver"
	"github.com/vkngwrapper/gpuq/internal/utils"
	"github.com/vkngwrapper/gpuq/syncutils"
	"golang.org/x/exp/slog"
)

// Flusher is anything that can block until all of its submitted GPU work has completed. Both Queue
// and QueueSet satisfy it.
type Flusher interface {
	Flush() error
}

var _ Flusher = &Queue{}
var _ Flusher = &QueueSet{}

// QueueSet owns one Queue of every driver.ListType. It is the usual owner of a renderer's queues, and
// the Flusher a Swapchain should use when resources are shared between queues.
type QueueSet struct {
	logger *slog.Logger
	queues map[driver.ListType]*Queue
}

// NewQueueSet creates one queue of every type in driver.ListTypes. If any queue cannot be created, the
// queues created so far are destroyed and the error is returned.
func NewQueueSet(logger *slog.Logger, device driver.Device, options CreateOptions) (*QueueSet, error) {
	logger = utils.LoggerOrDiscard(logger)
	set := &QueueSet{
		logger: logger,
		queues: make(map[driver.ListType]*Queue, len(driver.ListTypes)),
	}

	for _, listType := range driver.ListTypes {
		queue, err := New(logger, device, listType, options)
		if err != nil {
			destroyErr := set.Destroy()
			if destroyErr != nil {
				logger.Error("error attempting to destroy queue set after creation failure", slog.Any("error", destroyErr))
			}
			return nil, err
		}

		set.queues[listType] = queue
	}

	return set, nil
}

// Queue returns the queue of the requested type
func (s *QueueSet) Queue(listType driver.ListType) *Queue {
	return s.queues[listType]
}

func (s *QueueSet) Direct() *Queue  { return s.queues[driver.ListTypeDirect] }
func (s *QueueSet) Compute() *Queue { return s.queues[driver.ListTypeCompute] }
func (s *QueueSet) Copy() *Queue    { return s.queues[driver.ListTypeCopy] }

// Flush flushes every queue, in driver.ListTypes order. Every queue is flushed even if an earlier one
// fails; the errors are combined.
func (s *QueueSet) Flush() error {
	s.logger.Debug("QueueSet::Flush")

	var err error
	for _, listType := range driver.ListTypes {
		queue, ok := s.queues[listType]
		if !ok {
			continue
		}

		err = errors.CombineErrors(err, queue.Flush())
	}

	return err
}

// Statistics sums the statistics of every queue
func (s *QueueSet) Statistics() syncutils.Statistics {
	var stats syncutils.Statistics
	for _, listType := range driver.ListTypes {
		queue, ok := s.queues[listType]
		if ok {
			queue.AddStatistics(&stats)
		}
	}
	return stats
}

// BuildStatsString returns the statistics of every queue as a JSON document
func (s *QueueSet) BuildStatsString() string {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	total := s.Statistics()
	obj.Name("Submissions").Int(total.Submissions)
	obj.Name("InFlight").Int(total.InFlight())

	queues := obj.Name("Queues").Array()
	for _, listType := range driver.ListTypes {
		queue, ok := s.queues[listType]
		if ok {
			o := queues.Object()
			queue.printStats(&o)
			o.End()
		}
	}
	queues.End()
	obj.End()

	return string(writer.Bytes())
}

// Destroy destroys every queue
func (s *QueueSet) Destroy() error {
	s.logger.Debug("QueueSet::Destroy")

	var err error
	for _, listType := range driver.ListTypes {
		queue, ok := s.queues[listType]
		if !ok {
			continue
		}

		err = errors.CombineErrors(err, queue.Destroy())
		delete(s.queues, listType)
	}

	return err
}
