package systems

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

/** @brief The maximum number of fonts loaded by default. */
const DEFAULT_MAX_FONT_COUNT int = 8

type FontGlyph struct {
	Codepoint rune
	X         int32
	Y         int32
	Width     int32
	Height    int32
	XOffset   int32
	YOffset   int32
	XAdvance  int32
	PageID    int
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
}

/**
 * @brief A bitmap font: the glyph metrics of a BMFont descriptor and one
 * texture per page sheet.
 */
type FontData struct {
	Name       string
	Face       string
	Size       int32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[rune]FontGlyph
	Kernings   map[FontKerning]int32
	Pages      []metadata.Texture
}

// GlyphQuad is one laid out glyph: its screen rectangle and the normalized
// source rectangle in its page texture.
type GlyphQuad struct {
	PageID int
	Dst    math.Rectangle
	Src    math.Rectangle
}

type FontSystemConfig struct {
	MaxFontCount int
}

// FontSystem draws text as textured quads through the render batch.
type FontSystem struct {
	Config *FontSystemConfig
	fonts  map[string]*FontData
	rc     *renderer.RenderContext
}

func NewFontSystem(config *FontSystemConfig, rc *renderer.RenderContext) (*FontSystem, error) {
	if config.MaxFontCount <= 0 {
		err := fmt.Errorf("func NewFontSystem - config.MaxFontCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &FontSystem{
		Config: config,
		fonts:  make(map[string]*FontData, config.MaxFontCount),
		rc:     rc,
	}, nil
}

// Shutdown unloads every font.
func (fs *FontSystem) Shutdown() error {
	for name := range fs.fonts {
		fs.Unload(name)
	}
	return nil
}

// Load reads a text BMFont descriptor and uploads its page sheets.
func (fs *FontSystem) Load(name, path string) (*FontData, error) {
	if font, ok := fs.fonts[name]; ok {
		core.LogWarn("a font named '%s' already exists and will not be loaded again", name)
		return font, nil
	}
	if len(fs.fonts) >= fs.Config.MaxFontCount {
		return nil, fmt.Errorf("no space left to load font '%s', increase MaxFontCount", name)
	}

	bf, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load font '%s': %w", name, err)
	}

	font := &FontData{
		Name:       name,
		Face:       bf.Descriptor.Info.Face,
		Size:       int32(bf.Descriptor.Info.Size),
		LineHeight: int32(bf.Descriptor.Common.LineHeight),
		Baseline:   int32(bf.Descriptor.Common.Base),
		AtlasSizeX: int32(bf.Descriptor.Common.ScaleW),
		AtlasSizeY: int32(bf.Descriptor.Common.ScaleH),
		Glyphs:     make(map[rune]FontGlyph, len(bf.Descriptor.Chars)),
		Kernings:   make(map[FontKerning]int32, len(bf.Descriptor.Kerning)),
	}
	if font.Size < 0 {
		// negative sizes select the character height instead of the cell height
		font.Size = -font.Size
	}

	for _, g := range bf.Descriptor.Chars {
		font.Glyphs[g.ID] = FontGlyph{
			Codepoint: g.ID,
			X:         int32(g.X),
			Y:         int32(g.Y),
			Width:     int32(g.Width),
			Height:    int32(g.Height),
			XOffset:   int32(g.XOffset),
			YOffset:   int32(g.YOffset),
			XAdvance:  int32(g.XAdvance),
			PageID:    int(g.Page),
		}
	}
	for p, k := range bf.Descriptor.Kerning {
		font.Kernings[FontKerning{Codepoint0: p.First, Codepoint1: p.Second}] = int32(k.Amount)
	}

	font.Pages = make([]metadata.Texture, len(bf.Descriptor.Pages))
	for _, p := range bf.Descriptor.Pages {
		if int(p.ID) < 0 || int(p.ID) >= len(font.Pages) {
			fs.unloadPages(font)
			return nil, fmt.Errorf("font '%s' page id %d out of range", name, p.ID)
		}
		tex, err := fs.loadPage(filepath.Join(filepath.Dir(path), p.File))
		if err != nil {
			fs.unloadPages(font)
			return nil, fmt.Errorf("font '%s' page %d: %w", name, p.ID, err)
		}
		font.Pages[p.ID] = tex
	}

	fs.fonts[name] = font
	core.LogInfo("FONT: '%s' loaded (%s, %d glyphs, %d pages)", name, font.Face, len(font.Glyphs), len(font.Pages))
	return font, nil
}

func (fs *FontSystem) loadPage(path string) (metadata.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return metadata.Texture{}, err
	}
	defer f.Close()

	rgba, err := decodeRGBA(f)
	if err != nil {
		return metadata.Texture{}, err
	}
	b := rgba.Bounds()
	tex := fs.rc.LoadTextureImage(rgba.Pix, int32(b.Dx()), int32(b.Dy()))
	if tex.ID == 0 {
		return tex, fmt.Errorf("texture upload of %s failed", path)
	}
	return tex, nil
}

func (fs *FontSystem) unloadPages(font *FontData) {
	for _, page := range font.Pages {
		fs.rc.UnloadTexture(page.ID)
	}
	font.Pages = nil
}

// Unload releases the page textures of a font.
func (fs *FontSystem) Unload(name string) {
	font, ok := fs.fonts[name]
	if !ok {
		core.LogWarn("FontSystem.Unload failed lookup of '%s'. Nothing was done.", name)
		return
	}
	fs.unloadPages(font)
	delete(fs.fonts, name)
}

func (fs *FontSystem) Get(name string) (*FontData, bool) {
	font, ok := fs.fonts[name]
	return font, ok
}

func (f *FontData) scale(size float32) float32 {
	if f.Size == 0 || size <= 0 {
		return 1
	}
	return size / float32(f.Size)
}

/**
 * @brief Lays out text starting at the origin with glyphs scaled to size
 * pixels. Newlines move down by the line height, kerning pairs adjust the
 * advance and codepoints missing from the font are skipped.
 */
func (f *FontData) Layout(text string, size float32) []GlyphQuad {
	s := f.scale(size)
	quads := make([]GlyphQuad, 0, len(text))

	var x, y float32
	var prev rune = -1
	for _, r := range text {
		if r == '\n' {
			x = 0
			y += float32(f.LineHeight) * s
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			prev = -1
			continue
		}
		if prev >= 0 {
			x += float32(f.Kernings[FontKerning{Codepoint0: prev, Codepoint1: r}]) * s
		}
		prev = r

		if g.Width > 0 && g.Height > 0 {
			quads = append(quads, GlyphQuad{
				PageID: g.PageID,
				Dst: math.Rectangle{
					X:      x + float32(g.XOffset)*s,
					Y:      y + float32(g.YOffset)*s,
					Width:  float32(g.Width) * s,
					Height: float32(g.Height) * s,
				},
				Src: math.Rectangle{
					X:      float32(g.X) / float32(f.AtlasSizeX),
					Y:      float32(g.Y) / float32(f.AtlasSizeY),
					Width:  float32(g.Width) / float32(f.AtlasSizeX),
					Height: float32(g.Height) / float32(f.AtlasSizeY),
				},
			})
		}
		x += float32(g.XAdvance) * s
	}
	return quads
}

// Measure returns the width of the longest line and the height of all lines.
func (f *FontData) Measure(text string, size float32) math.Vec2 {
	s := f.scale(size)
	lines := 1
	var width, x float32
	var prev rune = -1
	for _, r := range text {
		if r == '\n' {
			width = max(width, x)
			x = 0
			lines++
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			prev = -1
			continue
		}
		if prev >= 0 {
			x += float32(f.Kernings[FontKerning{Codepoint0: prev, Codepoint1: r}]) * s
		}
		prev = r
		x += float32(g.XAdvance) * s
	}
	return math.NewVec2(max(width, x), float32(lines*int(f.LineHeight))*s)
}

/**
 * @brief Draws text with its top-left corner at position. Each glyph is a
 * textured quad; consecutive glyphs of the same page share a draw call.
 */
func (fs *FontSystem) DrawText(name, text string, position math.Vec2, size float32, tint math.Color) error {
	font, ok := fs.fonts[name]
	if !ok {
		return fmt.Errorf("font '%s' is not loaded", name)
	}

	rc := fs.rc
	for _, q := range font.Layout(text, size) {
		if q.PageID < 0 || q.PageID >= len(font.Pages) {
			continue
		}
		x0, y0 := position.X+q.Dst.X, position.Y+q.Dst.Y
		x1, y1 := x0+q.Dst.Width, y0+q.Dst.Height
		u0, v0 := q.Src.X, q.Src.Y
		u1, v1 := u0+q.Src.Width, v0+q.Src.Height

		rc.CheckRenderBatchLimit(4)
		rc.SetTexture(font.Pages[q.PageID].ID)
		rc.Begin(metadata.QUADS)
		rc.SetColor(tint)
		rc.Normal3f(0, 0, 1)
		rc.TexCoord2f(u0, v0)
		rc.Vertex2f(x0, y0)
		rc.TexCoord2f(u0, v1)
		rc.Vertex2f(x0, y1)
		rc.TexCoord2f(u1, v1)
		rc.Vertex2f(x1, y1)
		rc.TexCoord2f(u1, v0)
		rc.Vertex2f(x1, y0)
		rc.End()
	}
	rc.SetTexture(0)
	return nil
}
