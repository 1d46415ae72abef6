// Package config loads the settings of a frame loop from TOML and maps them onto the gpuq option types
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq"
	"golang.org/x/exp/slog"
)

// Duration is a time.Duration that reads and writes as a string such as "250ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Config struct {
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	BufferCount int `toml:"buffer_count"`

	VSync        bool `toml:"vsync"`
	AllowTearing bool `toml:"allow_tearing"`
	// WaitTimeout bounds each wait for a back buffer slot. Zero waits indefinitely.
	WaitTimeout    Duration `toml:"wait_timeout"`
	MaxWaitRetries int      `toml:"max_wait_retries"`
	// ExternallySynchronized disables the internal mutexes of every queue
	ExternallySynchronized bool `toml:"externally_synchronized"`

	ClearColor [4]float32 `toml:"clear_color"`
	LogLevel   string     `toml:"log_level"`

	// Frames is the number of frames framesim renders before exiting. Zero runs until interrupted.
	Frames int `toml:"frames"`
	// GPULatency is how long the simulated GPU takes to execute each queued operation
	GPULatency Duration `toml:"gpu_latency"`
}

func Default() Config {
	return Config{
		Width:          1280,
		Height:         720,
		BufferCount:    3,
		AllowTearing:   true,
		WaitTimeout:    Duration{time.Second},
		MaxWaitRetries: 3,
		ClearColor:     [4]float32{0.4, 0.6, 0.9, 1},
		LogLevel:       "info",
		Frames:         600,
		GPULatency:     Duration{2 * time.Millisecond},
	}
}

// Load reads a TOML file on top of Default and validates the result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}

	err = Decode(bytes.NewReader(data), &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to load config %s", path)
	}

	return cfg, nil
}

// Decode reads TOML from r into cfg, keeping the current value of every key r does not set, then
// validates cfg
func Decode(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(cfg)
	if err != nil {
		return err
	}

	return cfg.Validate()
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var err error

	if c.Width < 1 || c.Height < 1 {
		err = errors.CombineErrors(err, errors.Newf("window size %dx%d must be at least 1x1", c.Width, c.Height))
	}
	if c.BufferCount < gpuq.MinBufferCount || c.BufferCount > gpuq.MaxBufferCount {
		err = errors.CombineErrors(err, errors.Newf("buffer_count %d must be between %d and %d", c.BufferCount, gpuq.MinBufferCount, gpuq.MaxBufferCount))
	}
	if c.WaitTimeout.Duration < 0 {
		err = errors.CombineErrors(err, errors.Newf("wait_timeout %s must not be negative", c.WaitTimeout))
	}
	if c.MaxWaitRetries < 0 {
		err = errors.CombineErrors(err, errors.Newf("max_wait_retries %d must not be negative", c.MaxWaitRetries))
	}
	for i, channel := range c.ClearColor {
		if channel < 0 || channel > 1 {
			err = errors.CombineErrors(err, errors.Newf("clear_color[%d] %f must be between 0 and 1", i, channel))
		}
	}
	if _, ok := logLevelMapping[c.LogLevel]; !ok {
		err = errors.CombineErrors(err, errors.Newf("unknown log_level %q", c.LogLevel))
	}
	if c.Frames < 0 {
		err = errors.CombineErrors(err, errors.Newf("frames %d must not be negative", c.Frames))
	}
	if c.GPULatency.Duration < 0 {
		err = errors.CombineErrors(err, errors.Newf("gpu_latency %s must not be negative", c.GPULatency))
	}

	return err
}

func (c Config) Level() slog.Level {
	level, ok := logLevelMapping[c.LogLevel]
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.HandlerOptions{Level: c.Level()}.NewTextHandler(w))
}

func (c Config) CreateOptions() gpuq.CreateOptions {
	var options gpuq.CreateOptions
	if c.ExternallySynchronized {
		options.Flags |= gpuq.QueueCreateExternallySynchronized
	}
	return options
}

// SwapchainOptions returns the options for a swapchain whose resizes flush flusher
func (c Config) SwapchainOptions(flusher gpuq.Flusher) gpuq.SwapchainOptions {
	return gpuq.SwapchainOptions{
		BufferCount:    c.BufferCount,
		Width:          c.Width,
		Height:         c.Height,
		Flusher:        flusher,
		DisableTearing: !c.AllowTearing,
	}
}

func (c Config) FrameLoopOptions() gpuq.FrameLoopOptions {
	options := gpuq.FrameLoopOptions{
		VSync:          c.VSync,
		ClearColor:     c.ClearColor,
		WaitTimeout:    c.WaitTimeout.Duration,
		MaxWaitRetries: c.MaxWaitRetries,
	}
	if options.WaitTimeout == 0 {
		options.WaitTimeout = common.NoTimeout
	}
	if options.MaxWaitRetries == 0 {
		// FrameLoopOptions treats 0 as "use the default"
		options.MaxWaitRetries = -1
	}
	return options
}
