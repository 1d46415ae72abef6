package syncutils

// Statistics is a snapshot of how a command queue has been recycling its allocators and lists
type Statistics struct {
	// Submissions is the number of command lists executed on the queue
	Submissions int
	// AllocatorsCreated is the number of command allocators the pool had to create because no pooled
	// allocator was confirmed complete
	AllocatorsCreated int
	// AllocatorsReused is the number of times a pooled allocator was reset and handed out again
	AllocatorsReused int
	// AllocatorsDestroyed is the number of allocators released by trimming
	AllocatorsDestroyed int
	ListsCreated        int
	ListsReused         int

	// PooledAllocators is the current length of the allocator queue, in flight or not
	PooledAllocators int
	// PooledLists is the current length of the list pool
	PooledLists int
	// OpenLists is the number of lists currently handed out for recording
	OpenLists int

	// Pending is the number of signaled fence values the GPU has not yet reached, summed per queue
	Pending int
	// LastSignaled and LastCompleted are the fence values of a single queue. When statistics of several
	// queues are added, they keep the highest value seen, and because each queue has its own timeline
	// they must not be compared with each other.
	LastSignaled  uint64
	LastCompleted uint64
}

func (s *Statistics) Clear() {
	*s = Statistics{}
}

// AddStatistics accumulates other into s. Counters are summed, fence values keep the highest value seen.
func (s *Statistics) AddStatistics(other *Statistics) {
	s.Submissions += other.Submissions
	s.Pending += other.Pending
	s.AllocatorsCreated += other.AllocatorsCreated
	s.AllocatorsReused += other.AllocatorsReused
	s.AllocatorsDestroyed += other.AllocatorsDestroyed
	s.ListsCreated += other.ListsCreated
	s.ListsReused += other.ListsReused
	s.PooledAllocators += other.PooledAllocators
	s.PooledLists += other.PooledLists
	s.OpenLists += other.OpenLists

	if other.LastSignaled > s.LastSignaled {
		s.LastSignaled = other.LastSignaled
	}

	if other.LastCompleted > s.LastCompleted {
		s.LastCompleted = other.LastCompleted
	}
}

// InFlight is the number of fence signals the GPU has not yet confirmed, across every queue added
func (s *Statistics) InFlight() int {
	return s.Pending
}
