package gpuq

import (
	"context"
	"time"

	"github.com/vkngwrapper/gpuq/internal/utils"
	"golang.org/x/exp/slog"
)

// FrameTimer measures the time between frames and reports the frame rate once per second
type FrameTimer struct {
	logger *slog.Logger
	now    func() time.Time

	started     bool
	last        time.Time
	windowStart time.Time
	window      int
	frames      uint64
	fps         float64
}

func NewFrameTimer(logger *slog.Logger) *FrameTimer {
	return &FrameTimer{
		logger: utils.LoggerOrDiscard(logger),
		now:    time.Now,
	}
}

// Tick marks the start of a frame and returns the time elapsed since the previous Tick. The first
// Tick returns 0.
func (t *FrameTimer) Tick() time.Duration {
	now := t.now()
	t.frames++

	if !t.started {
		t.started = true
		t.last = now
		t.windowStart = now
		return 0
	}

	delta := now.Sub(t.last)
	t.last = now
	t.window++

	elapsed := now.Sub(t.windowStart)
	if elapsed >= time.Second {
		t.fps = float64(t.window) / elapsed.Seconds()
		t.logger.LogAttrs(context.Background(), slog.LevelDebug, "FrameTimer",
			slog.Float64("fps", t.fps),
			slog.Duration("frameTime", elapsed/time.Duration(t.window)),
			slog.Uint64("frames", t.frames),
		)
		t.window = 0
		t.windowStart = now
	}

	return delta
}

// FPS returns the frame rate measured over the last complete one second window
func (t *FrameTimer) FPS() float64 {
	return t.fps
}

// Frames returns the number of times Tick was called
func (t *FrameTimer) Frames() uint64 {
	return t.frames
}
