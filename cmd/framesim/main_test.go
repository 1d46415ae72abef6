package main

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gpuq/config"
)

func TestSimulate(t *testing.T) {
	cfg := config.Default()
	cfg.Frames = 30
	cfg.GPULatency = config.Duration{Duration: 100 * time.Microsecond}

	var out bytes.Buffer
	err := simulate(context.Background(), cfg.NewLogger(io.Discard), cfg, 10, &out)
	require.NoError(t, err)

	stats := out.String()
	require.Contains(t, stats, `"Submissions":30`)
	require.Contains(t, stats, `"InFlight":0`)
	require.Contains(t, stats, `"ListType":"ListTypeDirect"`)
}

func TestSimulate_StopsWithContext(t *testing.T) {
	cfg := config.Default()
	cfg.Frames = 0
	cfg.GPULatency = config.Duration{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := simulate(ctx, cfg.NewLogger(io.Discard), cfg, 0, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), `"Queues":[`)
}
