package core

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierPoolNeverIssuesZero(t *testing.T) {
	p := NewIdentifierPool()

	a := p.AquireNewID("a")
	b := p.AquireNewID("b")
	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(2), b)
	assert.Equal(t, 2, p.Live())
	assert.Equal(t, "b", p.Owner(b))
	assert.Nil(t, p.Owner(0))
}

func TestIdentifierPoolReusesReleasedSlots(t *testing.T) {
	p := NewIdentifierPool()
	a := p.AquireNewID(nil)
	_ = p.AquireNewID(nil)

	require.NoError(t, p.ReleaseID(a))
	assert.Equal(t, a, p.AquireNewID(nil))

	assert.Error(t, p.ReleaseID(0))
	assert.Error(t, p.ReleaseID(42))
	require.NoError(t, p.ReleaseID(a))
	assert.Error(t, p.ReleaseID(a))
}

func TestEventsRegisterFireUnregister(t *testing.T) {
	require.True(t, EventInitialize())
	defer EventShutdown()

	listener := &struct{ hits int }{}
	onReload := func(code SystemEventCode, sender interface{}, inst interface{}, data EventContext) bool {
		inst.(*struct{ hits int }).hits++
		assert.Equal(t, "app.toml", data.Data.C[0])
		return true
	}

	require.True(t, EventRegister(EVENT_CODE_CONFIG_RELOADED, listener, onReload))
	assert.False(t, EventRegister(EVENT_CODE_CONFIG_RELOADED, listener, onReload))

	ctx := EventContext{}
	ctx.Data.C[0] = "app.toml"
	assert.True(t, EventFire(EVENT_CODE_CONFIG_RELOADED, nil, ctx))
	assert.Equal(t, 1, listener.hits)

	assert.False(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))

	require.True(t, EventUnregister(EVENT_CODE_CONFIG_RELOADED, listener))
	assert.False(t, EventUnregister(EVENT_CODE_CONFIG_RELOADED, listener))
	assert.False(t, EventFire(EVENT_CODE_CONFIG_RELOADED, nil, ctx))
}

func TestEventsStopAtFirstHandler(t *testing.T) {
	require.True(t, EventInitialize())
	defer EventShutdown()

	var order []string
	first := func(code SystemEventCode, sender interface{}, inst interface{}, data EventContext) bool {
		order = append(order, "first")
		return false
	}
	second := func(code SystemEventCode, sender interface{}, inst interface{}, data EventContext) bool {
		order = append(order, "second")
		return true
	}
	third := func(code SystemEventCode, sender interface{}, inst interface{}, data EventContext) bool {
		order = append(order, "third")
		return true
	}
	EventRegister(EVENT_CODE_APPLICATION_QUIT, "a", first)
	EventRegister(EVENT_CODE_APPLICATION_QUIT, "b", second)
	EventRegister(EVENT_CODE_APPLICATION_QUIT, "c", third)

	assert.True(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventsRequireInitialization(t *testing.T) {
	assert.False(t, EventRegister(EVENT_CODE_RESIZED, nil, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return true }))
	assert.False(t, EventFire(EVENT_CODE_RESIZED, nil, EventContext{}))
}

func TestMetricsAverageAndFPS(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.016)
	}
	assert.InDelta(t, 16.0, m.FrameTime(), 1e-9)

	for i := 0; i < 100; i++ {
		m.Update(0.016)
	}
	fps, _ := m.Frame()
	assert.InDelta(t, 62, fps, 1)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	elapsed := c.Elapsed()
	assert.Greater(t, elapsed, 0.0)

	c.Stop()
	c.Update()
	assert.Equal(t, elapsed, c.Elapsed())
}

func TestSetLogLevel(t *testing.T) {
	SetLogOutput(io.Discard)
	require.NoError(t, SetLogLevel("debug"))
	require.NoError(t, SetLogLevel("info"))
	assert.Error(t, SetLogLevel("loud"))
}
