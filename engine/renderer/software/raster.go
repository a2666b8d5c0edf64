package software

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// screenVertex is a vertex after the viewport transform. x and y are image
// coordinates (origin top-left), z is the window depth in [0, 1].
type screenVertex struct {
	x, y, z float32
	invW    float32
	uv      math.Vec2
	color   math.Vec4
}

// rasterContext holds what a draw call reads from the bound program.
type rasterContext struct {
	mvp     math.Mat4
	diffuse math.Vec4
	texture *texture
}

// DrawArrays draws count vertices of the bound vertex array from vertex offset.
func (sr *SoftwareRenderer) DrawArrays(mode metadata.PrimitiveMode, offset, count int32) {
	sr.record(Command{Kind: COMMAND_DRAW_ARRAYS, Mode: mode, Offset: offset, Count: count, Texture: sr.slots[0]})
	sr.draw(mode, int(count), func(i int) int {
		return int(offset) + i
	})
}

// DrawElements draws count indices of the bound index buffer from index offset.
func (sr *SoftwareRenderer) DrawElements(mode metadata.PrimitiveMode, offset, count int32) {
	sr.record(Command{Kind: COMMAND_DRAW_ELEMENTS, Mode: mode, Offset: offset, Count: count, Texture: sr.slots[0]})
	vao, ok := sr.vertexArrays[sr.vertexArray]
	if !ok {
		core.LogError("SOFTWARE: DrawElements without a vertex array")
		return
	}
	indices := vao.indices(sr)
	if offset < 0 || int(offset+count) > len(indices) {
		core.LogError("SOFTWARE: DrawElements range %d+%d exceeds %d indices", offset, count, len(indices))
		return
	}
	sr.draw(mode, int(count), func(i int) int {
		return int(indices[int(offset)+i])
	})
}

func (sr *SoftwareRenderer) draw(mode metadata.PrimitiveMode, count int, index func(int) int) {
	vao, ok := sr.vertexArrays[sr.vertexArray]
	if !ok {
		core.LogError("SOFTWARE: Draw without a vertex array")
		return
	}
	p := sr.current()
	if p == nil {
		core.LogWarn("SOFTWARE: Draw without a program")
		return
	}
	if sr.target.color == nil {
		core.LogWarn("SOFTWARE: Framebuffer has no colour attachment")
		return
	}
	sr.stats.DrawCalls++

	rc := &rasterContext{mvp: p.mvp(), diffuse: p.diffuse()}
	if unit := p.samplerUnit(); unit >= 0 && int(unit) < MAX_TEXTURE_SLOTS {
		rc.texture = sr.textures[sr.slots[unit]]
	}

	fetch := func(i int) (screenVertex, bool) {
		v, ok := vao.vertex(sr, index(i))
		if !ok {
			return screenVertex{}, false
		}
		return sr.project(rc, v)
	}

	switch mode {
	case metadata.LINES:
		for i := 0; i+1 < count; i += 2 {
			a, okA := fetch(i)
			b, okB := fetch(i + 1)
			if okA && okB {
				sr.drawLine(rc, a, b)
			}
		}
	case metadata.TRIANGLES:
		for i := 0; i+2 < count; i += 3 {
			a, okA := fetch(i)
			b, okB := fetch(i + 1)
			c, okC := fetch(i + 2)
			if okA && okB && okC {
				sr.drawTriangle(rc, a, b, c)
			}
		}
	case metadata.QUADS:
		for i := 0; i+3 < count; i += 4 {
			a, okA := fetch(i)
			b, okB := fetch(i + 1)
			c, okC := fetch(i + 2)
			d, okD := fetch(i + 3)
			if okA && okB && okC && okD {
				sr.drawTriangle(rc, a, b, c)
				sr.drawTriangle(rc, a, c, d)
			}
		}
	}
}

// project runs the vertex stage. Vertices behind the eye are rejected, there
// is no clipping against the other planes.
func (sr *SoftwareRenderer) project(rc *rasterContext, v math.Vertex) (screenVertex, bool) {
	clip := v.Position.TransformHomogeneous(rc.mvp)
	if clip.W <= 0 {
		return screenVertex{}, false
	}
	invW := 1 / clip.W
	nx, ny, nz := clip.X*invW, clip.Y*invW, clip.Z*invW

	vp := sr.state.viewport
	wx := float32(vp[0]) + (nx+1)*0.5*float32(vp[2])
	wy := float32(vp[1]) + (ny+1)*0.5*float32(vp[3])

	return screenVertex{
		x:     wx,
		y:     float32(sr.target.height) - wy,
		z:     (nz + 1) * 0.5,
		invW:  invW,
		uv:    v.Texcoord,
		color: v.Color.Normalized(),
	}, true
}

// clipRect returns the writable pixel rectangle [x0, x1) x [y0, y1) in image coordinates.
func (sr *SoftwareRenderer) clipRect() (x0, y0, x1, y1 int32) {
	fb := sr.target
	x0, y0, x1, y1 = 0, 0, fb.width, fb.height
	if sr.enabled(metadata.CAPABILITY_SCISSOR_TEST) {
		s := sr.state.scissor
		x0 = max(x0, s[0])
		x1 = min(x1, s[0]+s[2])
		y0 = max(y0, fb.height-(s[1]+s[3]))
		y1 = min(y1, fb.height-s[1])
	}
	return x0, y0, x1, y1
}

// edge returns the signed area spanned by a->b and (x, y); its sign tells the side of the edge.
func edge(a, b screenVertex, x, y float32) float32 {
	return (x-a.x)*(b.y-a.y) - (y-a.y)*(b.x-a.x)
}

// topLeft implements the fill convention for pixels centred exactly on an edge,
// so triangles sharing an edge never both cover a pixel.
func topLeft(a, b screenVertex) bool {
	return (a.y == b.y && b.x < a.x) || b.y > a.y
}

func inside(w float32, a, b screenVertex) bool {
	return w > 0 || (w == 0 && topLeft(a, b))
}

func (sr *SoftwareRenderer) drawTriangle(rc *rasterContext, a, b, c screenVertex) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	// positive area is counter-clockwise on screen, the GL front face
	front := area > 0
	if sr.enabled(metadata.CAPABILITY_CULL_FACE) {
		if (sr.state.cullMode == metadata.CULL_FACE_BACK && !front) || (sr.state.cullMode == metadata.CULL_FACE_FRONT && front) {
			sr.stats.CulledTriangles++
			return
		}
	}
	sr.stats.Triangles++

	if sr.enabled(metadata.CAPABILITY_WIRE_MODE) {
		sr.drawLine(rc, a, b)
		sr.drawLine(rc, b, c)
		sr.drawLine(rc, c, a)
		return
	}

	if !front {
		b, c = c, b
		area = -area
	}

	cx0, cy0, cx1, cy1 := sr.clipRect()
	minX := max(cx0, int32(math32.Floor(min(a.x, b.x, c.x))))
	minY := max(cy0, int32(math32.Floor(min(a.y, b.y, c.y))))
	maxX := min(cx1, int32(math32.Ceil(max(a.x, b.x, c.x))))
	maxY := min(cy1, int32(math32.Ceil(max(a.y, b.y, c.y))))

	for py := minY; py < maxY; py++ {
		y := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			x := float32(px) + 0.5

			w0 := edge(b, c, x, y)
			w1 := edge(c, a, x, y)
			w2 := edge(a, b, x, y)
			if !inside(w0, b, c) || !inside(w1, c, a) || !inside(w2, a, b) {
				continue
			}

			l0, l1, l2 := w0/area, w1/area, w2/area
			z := l0*a.z + l1*b.z + l2*c.z

			// perspective correct weights for the varyings
			p0, p1, p2 := l0*a.invW, l1*b.invW, l2*c.invW
			sum := p0 + p1 + p2
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			uv := math.NewVec2(
				p0*a.uv.X+p1*b.uv.X+p2*c.uv.X,
				p0*a.uv.Y+p1*b.uv.Y+p2*c.uv.Y,
			)
			color := math.NewVec4(
				p0*a.color.X+p1*b.color.X+p2*c.color.X,
				p0*a.color.Y+p1*b.color.Y+p2*c.color.Y,
				p0*a.color.Z+p1*b.color.Z+p2*c.color.Z,
				p0*a.color.W+p1*b.color.W+p2*c.color.W,
			)
			sr.shade(rc, px, py, z, uv, color)
		}
	}
}

// drawLine steps along the major axis, the last pixel is not drawn.
func (sr *SoftwareRenderer) drawLine(rc *rasterContext, a, b screenVertex) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math32.Ceil(max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		return
	}
	sr.stats.Lines++

	thickness := int32(max(1, math32.Round(sr.state.lineWidth)))
	cx0, cy0, cx1, cy1 := sr.clipRect()

	for i := 0; i < steps; i++ {
		t := float32(i) / float32(steps)
		px := int32(math32.Floor(a.x + dx*t))
		py := int32(math32.Floor(a.y + dy*t))
		z := a.z + (b.z-a.z)*t
		uv := math.NewVec2(a.uv.X+(b.uv.X-a.uv.X)*t, a.uv.Y+(b.uv.Y-a.uv.Y)*t)
		color := math.NewVec4(
			a.color.X+(b.color.X-a.color.X)*t,
			a.color.Y+(b.color.Y-a.color.Y)*t,
			a.color.Z+(b.color.Z-a.color.Z)*t,
			a.color.W+(b.color.W-a.color.W)*t,
		)

		start := -(thickness - 1) / 2
		for oy := start; oy < start+thickness; oy++ {
			for ox := start; ox < start+thickness; ox++ {
				x, y := px+ox, py+oy
				if x < cx0 || x >= cx1 || y < cy0 || y >= cy1 {
					continue
				}
				sr.shade(rc, x, y, z, uv, color)
			}
		}
	}
}

// shade runs the fragment stage for pixel (px, py): depth test, vertex colour
// * texture0 * colDiffuse, then blending into the colour attachment.
func (sr *SoftwareRenderer) shade(rc *rasterContext, px, py int32, z float32, uv math.Vec2, color math.Vec4) {
	fb := sr.target
	idx := py*fb.width + px

	if sr.enabled(metadata.CAPABILITY_DEPTH_TEST) && fb.depth != nil {
		if z > fb.depth[idx] {
			return
		}
		fb.depth[idx] = z
	}

	texel := math.NewVec4One()
	if rc.texture != nil {
		texel = rc.texture.sample(uv.X, uv.Y)
	}
	src := [4]float32{
		color.X * texel.X * rc.diffuse.X,
		color.Y * texel.Y * rc.diffuse.Y,
		color.Z * texel.Z * rc.diffuse.Z,
		color.W * texel.W * rc.diffuse.W,
	}

	pix := fb.color.pix[4*idx : 4*idx+4]
	out := src
	if sr.enabled(metadata.CAPABILITY_BLEND) {
		dst := [4]float32{}
		for i := range dst {
			dst[i] = float32(pix[i]) / 255
		}
		out = blend(sr.state.blend, src, dst)
	}
	for i := range out {
		pix[i] = channel(out[i])
	}
	sr.stats.Fragments++
}

// channel converts a normalized value to a byte, rounding to nearest.
func channel(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}

func blend(state metadata.BlendState, src, dst [4]float32) [4]float32 {
	srcRGB := blendFactor(state.SrcRGB, src, dst)
	dstRGB := blendFactor(state.DstRGB, src, dst)
	srcA := blendFactor(state.SrcAlpha, src, dst)
	dstA := blendFactor(state.DstAlpha, src, dst)

	var out [4]float32
	for i := 0; i < 3; i++ {
		out[i] = blendEquation(state.EqRGB, src[i]*srcRGB[i], dst[i]*dstRGB[i], src[i], dst[i])
	}
	out[3] = blendEquation(state.EqAlpha, src[3]*srcA[3], dst[3]*dstA[3], src[3], dst[3])
	return out
}

func blendFactor(factor int32, src, dst [4]float32) [4]float32 {
	splat := func(v float32) [4]float32 {
		return [4]float32{v, v, v, v}
	}
	invert := func(v [4]float32) [4]float32 {
		return [4]float32{1 - v[0], 1 - v[1], 1 - v[2], 1 - v[3]}
	}

	switch factor {
	case metadata.GL_ZERO:
		return splat(0)
	case metadata.GL_SRC_COLOR:
		return src
	case metadata.GL_ONE_MINUS_SRC_COLOR:
		return invert(src)
	case metadata.GL_SRC_ALPHA:
		return splat(src[3])
	case metadata.GL_ONE_MINUS_SRC_ALPHA:
		return splat(1 - src[3])
	case metadata.GL_DST_ALPHA:
		return splat(dst[3])
	case metadata.GL_ONE_MINUS_DST_ALPHA:
		return splat(1 - dst[3])
	case metadata.GL_DST_COLOR:
		return dst
	case metadata.GL_ONE_MINUS_DST_COLOR:
		return invert(dst)
	case metadata.GL_SRC_ALPHA_SATURATE:
		f := min(src[3], 1-dst[3])
		return [4]float32{f, f, f, 1}
	}
	return splat(1)
}

func blendEquation(equation int32, srcTerm, dstTerm, src, dst float32) float32 {
	switch equation {
	case metadata.GL_FUNC_SUBTRACT:
		return srcTerm - dstTerm
	case metadata.GL_FUNC_REVERSE_SUBTRACT:
		return dstTerm - srcTerm
	case metadata.GL_MIN:
		return min(src, dst)
	case metadata.GL_MAX:
		return max(src, dst)
	}
	return srcTerm + dstTerm
}
