package systems

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/rlgo/engine/assets"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, c color.Color, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f, img))
	require.NoError(t, f.Close())
}

func encodePNG(f *os.File, img image.Image) error { return png.Encode(f, img) }
func encodeBMP(f *os.File, img image.Image) error { return bmp.Encode(f, img) }

type textureFixture struct {
	ts                *TextureSystem
	red, blue, broken string
}

func newTextureSystem(t *testing.T, maxCount int) (*textureFixture, func() int) {
	t.Helper()
	_, rc, sr := newFontSystem(t)

	dir := t.TempDir()
	fx := &textureFixture{
		red:    filepath.Join(dir, "red.png"),
		blue:   filepath.Join(dir, "blue.bmp"),
		broken: filepath.Join(dir, "broken.png"),
	}
	writeImage(t, fx.red, color.RGBA{R: 255, A: 255}, encodePNG)
	writeImage(t, fx.blue, color.RGBA{B: 255, A: 255}, encodeBMP)
	require.NoError(t, os.WriteFile(fx.broken, []byte("not an image"), 0o644))

	am, err := assets.NewAssetManager()
	require.NoError(t, err)
	t.Cleanup(func() { am.Shutdown() })
	require.NoError(t, am.Initialize(dir))

	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	t.Cleanup(func() { js.Shutdown() })

	fx.ts, err = NewTextureSystem(&TextureSystemConfig{MaxTextureCount: maxCount}, js, am, rc)
	require.NoError(t, err)
	return fx, sr.LiveObjects
}

func TestTextureSystemReferenceCounting(t *testing.T) {
	fx, live := newTextureSystem(t, 4)
	before := live()

	first, err := fx.ts.Acquire(fx.red, true)
	require.NoError(t, err)
	second, err := fx.ts.Acquire(fx.red, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), first.Width)
	assert.Equal(t, before+1, live())

	fx.ts.Release(fx.red)
	_, ok := fx.ts.Get(fx.red)
	assert.True(t, ok)

	fx.ts.Release(fx.red)
	_, ok = fx.ts.Get(fx.red)
	assert.False(t, ok, "auto released with the last reference")
	assert.Equal(t, before, live())

	fx.ts.Release(fx.red)
	_, err = fx.ts.Acquire(fx.broken, false)
	assert.Error(t, err)
	_, err = fx.ts.Acquire(filepath.Join(t.TempDir(), "unknown.png"), false)
	assert.Error(t, err)
}

func TestTextureSystemPreload(t *testing.T) {
	fx, live := newTextureSystem(t, 2)
	before := live()

	err := fx.ts.Preload([]string{fx.red, fx.blue, fx.broken, fx.red}, false)
	assert.Error(t, err)
	assert.Len(t, fx.ts.Names(), 2)
	assert.Equal(t, before+2, live())

	_, err = fx.ts.Acquire(fx.broken, false)
	assert.Error(t, err)

	// references without autoRelease keep the texture alive
	fx.ts.Release(fx.red)
	fx.ts.Release(fx.red)
	_, ok := fx.ts.Get(fx.red)
	assert.True(t, ok)

	require.NoError(t, fx.ts.Shutdown())
	assert.Empty(t, fx.ts.Names())
	assert.Equal(t, before, live())
}

func TestTextureSystemRespectsCapacity(t *testing.T) {
	fx, _ := newTextureSystem(t, 1)
	_, err := fx.ts.Acquire(fx.red, false)
	require.NoError(t, err)
	_, err = fx.ts.Acquire(fx.blue, false)
	assert.Error(t, err)
}

func TestTextureSystemDraw(t *testing.T) {
	fx, _ := newTextureSystem(t, 2)
	rc := fx.ts.rc

	blue, err := fx.ts.Acquire(fx.blue, false)
	require.NoError(t, err)
	fx.ts.Draw(blue, math.Rectangle{X: 0, Y: 0, Width: 16, Height: 32}, math.ColorWhite)
	assert.Equal(t, 4, rc.VertexCounter())
	batch := rc.ActiveRenderBatch()
	assert.Equal(t, blue.ID, batch.Draws[batch.DrawCounter-1].TextureID)
	rc.DrawRenderBatchActive()

	img := rc.Backend().(interface{ Image() *image.RGBA }).Image()
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(4, 4))
	assert.Equal(t, uint8(0), img.RGBAAt(24, 4).B)
}

func TestJobSystem(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)

	js, err := NewJobSystem(3, 0)
	require.NoError(t, err)

	var completed, failed atomic.Int32
	failure := errors.New("boom")
	for i := 0; i < 10; i++ {
		js.Submit(JobTask{
			Name: "count",
			Run: func() error {
				if i%2 == 0 {
					return failure
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure: func(err error) {
				assert.ErrorIs(t, err, failure)
				failed.Add(1)
			},
		})
	}
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.Equal(t, int32(5), completed.Load())
	assert.Equal(t, int32(5), failed.Load())
}
