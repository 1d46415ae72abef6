// Command framesim runs the gpuq frame loop against a simulated GPU and prints the queue statistics
// when it is done. It is useful for watching allocator recycling converge at different buffering
// depths and GPU latencies.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gpuq"
	"github.com/vkngwrapper/gpuq/config"
	"github.com/vkngwrapper/gpuq/driver/fakegpu"
	"golang.org/x/exp/slog"
)

// frameConstantsSize is the size of the per-frame data written by the simulated pipeline: the frame
// number and the delta time in nanoseconds
const frameConstantsSize = 16

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a TOML config file")
	frames := flag.Int("frames", -1, "number of frames to render, overriding the config")
	resizeEvery := flag.Int("resize-every", 0, "send a resize event every N frames")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
			return 2
		}
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}

	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := simulate(ctx, logger, cfg, *resizeEvery, os.Stdout)
	if err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		return 1
	}

	return 0
}

// simulate renders cfg.Frames frames, or until ctx is done, then writes the queue set statistics to out
func simulate(ctx context.Context, logger *slog.Logger, cfg config.Config, resizeEvery int, out io.Writer) (err error) {
	// The GPU keeps running after the loop stops so that teardown can flush
	gpuCtx, stopGPU := context.WithCancel(context.Background())
	defer stopGPU()

	gpu := fakegpu.New()
	gpu.SetTearingSupported(true)
	gpu.Run(gpuCtx, cfg.GPULatency.Duration)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queues, err := gpuq.NewQueueSet(logger, gpu, cfg.CreateOptions())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, queues.Destroy())
	}()

	native := gpu.CreateSwapchain(cfg.BufferCount, cfg.Width, cfg.Height)
	swapchain, err := gpuq.NewSwapchain(logger, gpu, queues.Direct(), native, cfg.SwapchainOptions(queues))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, swapchain.Destroy())
	}()

	constants, err := gpuq.NewFrameConstants(gpu, swapchain, frameConstantsSize)
	if err != nil {
		return err
	}
	defer constants.Destroy()

	loop := gpuq.NewFrameLoop(logger, queues.Direct(), swapchain, cfg.FrameLoopOptions())

	events := make(chan gpuq.Event, 1)
	width, height := cfg.Width, cfg.Height
	data := make([]byte, frameConstantsSize)

	err = loop.Run(ctx, events, func(frame *gpuq.FrameContext) error {
		binary.LittleEndian.PutUint64(data[0:8], frame.Frame)
		binary.LittleEndian.PutUint64(data[8:16], uint64(frame.DeltaTime))
		_, err := constants.Write(frame.Slot, data)
		if err != nil {
			return err
		}

		if resizeEvery > 0 && frame.Frame%uint64(resizeEvery) == 0 {
			// Alternate between the configured size and a size one pixel smaller
			if width == cfg.Width {
				width, height = cfg.Width-1, cfg.Height-1
			} else {
				width, height = cfg.Width, cfg.Height
			}
			events <- gpuq.ResizeEvent{Width: width, Height: height}
		}

		if cfg.Frames > 0 && frame.Frame >= uint64(cfg.Frames) {
			cancel()
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.LogAttrs(context.Background(), slog.LevelInfo, "simulation complete",
		slog.Uint64("frames", loop.Timer().Frames()),
		slog.Float64("fps", loop.Timer().FPS()),
	)

	_, err = fmt.Fprintln(out, queues.BuildStatsString())
	return err
}
