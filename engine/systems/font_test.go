package systems

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	"github.com/spaghettifunk/rlgo/engine/renderer/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFont = `info face="Test" size=8 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=10 base=8 scaleW=16 scaleH=16 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="test.png"
chars count=2
char id=65   x=0     y=0     width=4     height=6     xoffset=0     yoffset=2     xadvance=5     page=0  chnl=15
char id=66   x=4     y=0     width=4     height=6     xoffset=1     yoffset=2     xadvance=6     page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

// writeFont writes a font whose 'A' glyph is solid white.
func writeFont(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	sheet := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			sheet.Set(x, y, color.White)
		}
	}
	f, err := os.Create(filepath.Join(dir, "test.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, sheet))
	require.NoError(t, f.Close())

	path := filepath.Join(dir, "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFont), 0o644))
	return path
}

func newFontSystem(t *testing.T) (*FontSystem, *renderer.RenderContext, *software.SoftwareRenderer) {
	t.Helper()
	sr := software.New(0)
	rc, err := renderer.NewRenderContext(sr, renderer.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, rc.Initialize(32, 32))
	rc.MatrixMode(metadata.PROJECTION)
	rc.Ortho(0, 32, 32, 0, 0, 1)
	rc.MatrixMode(metadata.MODELVIEW)

	fs, err := NewFontSystem(&FontSystemConfig{MaxFontCount: 1}, rc)
	require.NoError(t, err)
	return fs, rc, sr
}

func TestFontSystemLoad(t *testing.T) {
	fs, rc, sr := newFontSystem(t)
	path := writeFont(t)

	font, err := fs.Load("test", path)
	require.NoError(t, err)
	assert.Equal(t, "Test", font.Face)
	assert.Equal(t, int32(8), font.Size)
	assert.Equal(t, int32(10), font.LineHeight)
	assert.Len(t, font.Glyphs, 2)
	assert.Equal(t, int32(-1), font.Kernings[FontKerning{Codepoint0: 'A', Codepoint1: 'B'}])
	require.Len(t, font.Pages, 1)
	assert.Equal(t, int32(16), font.Pages[0].Width)

	again, err := fs.Load("test", path)
	require.NoError(t, err)
	assert.Same(t, font, again)

	_, err = fs.Load("other", path)
	assert.Error(t, err, "font count is limited")

	live := sr.LiveObjects()
	require.NoError(t, fs.Shutdown())
	assert.Equal(t, live-1, sr.LiveObjects())
	_, ok := fs.Get("test")
	assert.False(t, ok)
	require.NoError(t, rc.Shutdown())
}

func TestFontSystemRejectsMissingFiles(t *testing.T) {
	fs, _, _ := newFontSystem(t)
	_, err := fs.Load("missing", filepath.Join(t.TempDir(), "missing.fnt"))
	assert.Error(t, err)

	_, err = NewFontSystem(&FontSystemConfig{}, nil)
	assert.Error(t, err)
}

func TestFontLayout(t *testing.T) {
	font := &FontData{
		Size:       8,
		LineHeight: 10,
		AtlasSizeX: 16,
		AtlasSizeY: 16,
		Glyphs: map[rune]FontGlyph{
			'A': {Codepoint: 'A', Width: 4, Height: 6, YOffset: 2, XAdvance: 5},
			'B': {Codepoint: 'B', X: 4, Width: 4, Height: 6, XOffset: 1, YOffset: 2, XAdvance: 6},
			' ': {Codepoint: ' ', XAdvance: 3},
		},
		Kernings: map[FontKerning]int32{{Codepoint0: 'A', Codepoint1: 'B'}: -1},
	}

	quads := font.Layout("AB", 8)
	require.Len(t, quads, 2)
	assert.Equal(t, math.Rectangle{X: 0, Y: 2, Width: 4, Height: 6}, quads[0].Dst)
	assert.Equal(t, math.Rectangle{X: 5, Y: 2, Width: 4, Height: 6}, quads[1].Dst)
	assert.Equal(t, math.Rectangle{X: 0.25, Y: 0, Width: 0.25, Height: 0.375}, quads[1].Src)

	quads = font.Layout("A Z\nA", 16)
	require.Len(t, quads, 2, "spaces and unknown codepoints emit no quads")
	assert.Equal(t, math.Rectangle{X: 0, Y: 24, Width: 8, Height: 12}, quads[1].Dst)

	assert.Equal(t, math.NewVec2(10, 10), font.Measure("AB", 8))
	assert.Equal(t, math.NewVec2(28, 40), font.Measure("A B\nA", 16), "the space breaks the kerning pair")
}

func TestDrawText(t *testing.T) {
	fs, rc, sr := newFontSystem(t)
	_, err := fs.Load("test", writeFont(t))
	require.NoError(t, err)

	require.NoError(t, fs.DrawText("test", "AA", math.NewVec2(2, 2), 8, math.ColorWhite))
	assert.Equal(t, 8, rc.VertexCounter())
	draws := rc.ActiveRenderBatch().ActiveDraws()
	require.Len(t, draws, 1, "glyphs of one page share a draw call")
	rc.DrawRenderBatchActive()

	img := sr.Image()
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(3, 5))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(8, 9))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(6, 5))

	assert.Error(t, fs.DrawText("missing", "A", math.NewVec2Zero(), 8, math.ColorWhite))
}
