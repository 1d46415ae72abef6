package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gpuq"
	"golang.org/x/exp/slog"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framesim.toml")
	err := os.WriteFile(path, []byte(`
width = 1920
height = 1080
buffer_count = 2
vsync = true
wait_timeout = "250ms"
clear_color = [0.0, 0.0, 0.0, 1.0]
log_level = "debug"
gpu_latency = "8ms"
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 1920, cfg.Width)
	require.Equal(t, 1080, cfg.Height)
	require.Equal(t, 2, cfg.BufferCount)
	require.True(t, cfg.VSync)
	require.Equal(t, 250*time.Millisecond, cfg.WaitTimeout.Duration)
	require.Equal(t, [4]float32{0, 0, 0, 1}, cfg.ClearColor)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, 8*time.Millisecond, cfg.GPULatency.Duration)

	// Keys missing from the file keep their defaults
	require.True(t, cfg.AllowTearing)
	require.Equal(t, 3, cfg.MaxWaitRetries)
	require.Equal(t, 600, cfg.Frames)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestDecode_UnknownKey(t *testing.T) {
	cfg := Default()
	err := Decode(strings.NewReader("buffers = 3\n"), &cfg)
	require.Error(t, err)
}

func TestDecode_BadDuration(t *testing.T) {
	cfg := Default()
	err := Decode(strings.NewReader(`wait_timeout = "soon"`), &cfg)
	require.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.BufferCount = gpuq.MaxBufferCount + 1
	cfg.LogLevel = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "window size")

	// Combined errors are kept as secondary errors, visible in the verbose form
	verbose := fmt.Sprintf("%+v", err)
	require.Contains(t, verbose, "buffer_count")
	require.Contains(t, verbose, "verbose")
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.ExternallySynchronized = true
	cfg.AllowTearing = false
	cfg.WaitTimeout = Duration{}
	cfg.MaxWaitRetries = 0

	require.Equal(t, gpuq.QueueCreateExternallySynchronized, cfg.CreateOptions().Flags)

	swapchainOptions := cfg.SwapchainOptions(nil)
	require.True(t, swapchainOptions.DisableTearing)
	require.Equal(t, 3, swapchainOptions.BufferCount)
	require.Equal(t, 1280, swapchainOptions.Width)

	loopOptions := cfg.FrameLoopOptions()
	require.Equal(t, common.NoTimeout, loopOptions.WaitTimeout)
	require.Equal(t, -1, loopOptions.MaxWaitRetries)
	require.Equal(t, cfg.ClearColor, loopOptions.ClearColor)
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"

	var out bytes.Buffer
	logger := cfg.NewLogger(&out)
	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
}
