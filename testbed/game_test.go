package testbed

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/rlgo/engine"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSceneOverflowsTheDefaultBatch(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.Width, config.Height = 320, 240
	config.Frames = 2
	config.LogLevel = "error"

	tg := NewTestGame(&config, "")
	e, err := engine.New(tg.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()
	require.NoError(t, e.Run())

	stats := e.Context().Stats()
	// per frame: buffer overflow, camera and perspective flushes and the end of frame
	assert.GreaterOrEqual(t, stats.Flushes, 2*6)
	assert.Greater(t, stats.VerticesUploaded, 2*STRESS_QUAD_COUNT*4)
	assert.Zero(t, e.Context().StackDepth())
	assert.Positive(t, e.Backend().Stats().Fragments)
}
