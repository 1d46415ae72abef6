package fakegpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gpuq/driver"
)

// Swapchain is a simulated swapchain. By default it rotates through its buffers round robin, but
// SetIndexSequence can make it hand out indices in any order, as real presentation engines may.
type Swapchain struct {
	gpu *GPU

	width, height int
	generation    int
	buffers       []*Resource
	current       int
	sequence      []int
	sequencePos   int
	presents      int
	lastInterval  int
	lastFlags     driver.PresentFlags
	destroyed     bool
}

var _ driver.Swapchain = &Swapchain{}

// CreateSwapchain creates a simulated swapchain with bufferCount back buffers
func (g *GPU) CreateSwapchain(bufferCount, width, height int) *Swapchain {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	s := &Swapchain{gpu: g, width: width, height: height}
	s.createBuffers(bufferCount)
	g.record("Device.CreateSwapchain(%d, %dx%d)", bufferCount, width, height)
	return s
}

func (s *Swapchain) createBuffers(count int) {
	s.generation++
	s.buffers = make([]*Resource, count)
	for i := range s.buffers {
		s.buffers[i] = &Resource{gpu: s.gpu, name: fmt.Sprintf("backbuffer%d.%d", s.generation, i)}
	}
	s.current = 0
}

// SetIndexSequence makes every subsequent present move the current index to the next entry of sequence,
// cycling. Passing nil restores round robin.
func (s *Swapchain) SetIndexSequence(sequence []int) {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	s.sequence = sequence
	s.sequencePos = 0
}

func (s *Swapchain) Presents() int {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	return s.presents
}

// LastPresent returns the arguments of the most recent successful Present
func (s *Swapchain) LastPresent() (int, driver.PresentFlags) {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	return s.lastInterval, s.lastFlags
}

func (s *Swapchain) Size() (int, int) {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	return s.width, s.height
}

func (s *Swapchain) BufferCount() int {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	return len(s.buffers)
}

func (s *Swapchain) Buffer(index int) (driver.Resource, error) {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	if index < 0 || index >= len(s.buffers) {
		return nil, errors.Newf("back buffer index %d is out of range [0, %d)", index, len(s.buffers))
	}

	s.gpu.record("Swapchain.Buffer(%d)", index)
	return s.buffers[index], nil
}

func (s *Swapchain) CurrentBackBufferIndex() (int, error) {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	s.gpu.record("Swapchain.CurrentBackBufferIndex")
	return s.current, nil
}

func (s *Swapchain) Present(syncInterval int, flags driver.PresentFlags) error {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	s.gpu.record("Swapchain.Present(%d, %s)", syncInterval, flags)
	if err := s.gpu.injected("Present"); err != nil {
		return err
	}
	if flags&driver.PresentAllowTearing != 0 && (syncInterval != 0 || !s.gpu.tearing) {
		return errors.New("PresentAllowTearing requires a sync interval of 0 and tearing support")
	}

	if len(s.sequence) > 0 {
		s.current = s.sequence[s.sequencePos%len(s.sequence)]
		s.sequencePos++
	} else {
		s.current = (s.current + 1) % len(s.buffers)
	}

	s.presents++
	s.lastInterval = syncInterval
	s.lastFlags = flags
	return nil
}

func (s *Swapchain) ResizeBuffers(count, width, height int) error {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	s.gpu.record("Swapchain.ResizeBuffers(%d, %dx%d)", count, width, height)
	if err := s.gpu.injected("ResizeBuffers"); err != nil {
		return err
	}

	for _, buffer := range s.buffers {
		if !buffer.released {
			return errors.Newf("swapchain resized while %s is still referenced", buffer.name)
		}
	}
	if len(s.gpu.pending) > 0 {
		return errors.Newf("swapchain resized while %d operations are still pending on the GPU", len(s.gpu.pending))
	}

	s.width = width
	s.height = height
	s.sequencePos = 0
	s.createBuffers(count)
	return nil
}

func (s *Swapchain) Destroy() {
	s.gpu.mutex.Lock()
	defer s.gpu.mutex.Unlock()

	s.gpu.record("Swapchain.Destroy")
	s.destroyed = true
}
