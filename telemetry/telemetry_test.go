package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledInstallsNoop(t *testing.T) {
	require.NoError(t, Init(context.Background(), Settings{}))
	t.Cleanup(func() { Shutdown(context.Background()) })

	assert.Empty(t, shutdownFns)

	_, span := Tracer("").Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	counter, err := Meter("").Int64Counter("noop.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}

func TestInitStdoutRegistersShutdown(t *testing.T) {
	require.NoError(t, Init(context.Background(), Settings{Enabled: true, Stdout: true, Version: "test"}))
	assert.Len(t, shutdownFns, 2)

	Shutdown(context.Background())
	assert.Empty(t, shutdownFns)

	require.NoError(t, Init(context.Background(), Settings{}))
}
