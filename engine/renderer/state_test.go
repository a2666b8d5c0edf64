package renderer

import (
	"fmt"
	"testing"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushedTransformAppliesToVertices(t *testing.T) {
	rc, _ := newTestContext(t, nil)
	vb := rc.ActiveRenderBatch().activeBuffer()

	rc.Begin(metadata.TRIANGLES)
	rc.PushMatrix()
	rc.Translatef(10, 20, 0)
	rc.Scalef(2, 2, 1)
	require.True(t, rc.TransformRequired())
	rc.Vertex3f(1, 1, 0)
	rc.PopMatrix()
	assert.False(t, rc.TransformRequired())
	rc.Vertex3f(1, 1, 0)
	rc.Vertex3f(0, 0, 0)
	rc.End()

	p := vb.Vertex(0).Position
	assert.InDelta(t, 12, p.X, 1e-5)
	assert.InDelta(t, 22, p.Y, 1e-5)
	assert.Equal(t, math.NewVec3(1, 1, 0), vb.Vertex(1).Position)

	// the modelview itself was never touched
	assert.Equal(t, math.NewMat4Identity(), rc.MatrixModelview())
}

func TestDepthCursorAdvancesPerEnd(t *testing.T) {
	rc, _ := newTestContext(t, nil)
	vb := rc.ActiveRenderBatch().activeBuffer()

	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()
	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()

	assert.InDelta(t, metadata.BATCH_DEPTH_START, vb.Vertex(0).Position.Z, 1e-7)
	assert.InDelta(t, metadata.BATCH_DEPTH_START+metadata.BATCH_DEPTH_STEP, vb.Vertex(4).Position.Z, 1e-7)
}

func TestSetBlendModeFlushesOnChange(t *testing.T) {
	rc, backend := newTestContext(t, nil)

	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()

	rc.SetBlendMode(metadata.BLEND_ADDITIVE)
	assert.Equal(t, []string{"draw", "blend"}, backend.events)
	assert.Equal(t, metadata.BLEND_ADDITIVE, rc.BlendMode())
	assert.Equal(t, metadata.GL_ONE, backend.blendStates[0].DstRGB)

	rc.SetBlendMode(metadata.BLEND_ADDITIVE)
	assert.Len(t, backend.blendStates, 1)

	rc.SetBlendFactors(metadata.GL_ONE, metadata.GL_ZERO, metadata.GL_FUNC_ADD)
	rc.SetBlendMode(metadata.BLEND_CUSTOM)
	rc.SetBlendMode(metadata.BLEND_CUSTOM)
	require.Len(t, backend.blendStates, 2)
	assert.Equal(t, metadata.BlendState{
		SrcRGB: metadata.GL_ONE, DstRGB: metadata.GL_ZERO,
		SrcAlpha: metadata.GL_ONE, DstAlpha: metadata.GL_ZERO,
		EqRGB: metadata.GL_FUNC_ADD, EqAlpha: metadata.GL_FUNC_ADD,
	}, backend.blendStates[1])

	// new factors are picked up even though the mode is unchanged
	rc.SetBlendFactors(metadata.GL_ONE, metadata.GL_ONE, metadata.GL_FUNC_SUBTRACT)
	rc.SetBlendMode(metadata.BLEND_CUSTOM)
	require.Len(t, backend.blendStates, 3)
	assert.Equal(t, metadata.GL_FUNC_SUBTRACT, backend.blendStates[2].EqRGB)

	rc.SetBlendFactorsSeparate(metadata.GL_ONE, metadata.GL_ZERO, metadata.GL_ZERO, metadata.GL_ONE, metadata.GL_FUNC_ADD, metadata.GL_MAX)
	rc.SetBlendMode(metadata.BLEND_CUSTOM_SEPARATE)
	require.Len(t, backend.blendStates, 4)
	assert.Equal(t, metadata.GL_MAX, backend.blendStates[3].EqAlpha)
}

func TestShaderSwitchFlushesWithPreviousProgram(t *testing.T) {
	rc, backend := newTestContext(t, nil)

	assert.Equal(t, rc.ShaderIDDefault(), rc.LoadShaderCode("", ""))
	custom := rc.LoadShaderCode("#version 330\nvoid main() {}", "")
	require.NotEqual(t, rc.ShaderIDDefault(), custom)

	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()

	rc.SetShader(custom, rc.ShaderLocsDefault())
	require.Len(t, backend.submissions, 1)
	assert.Equal(t, rc.ShaderIDDefault(), backend.submissions[0].shader)

	rc.SetShader(custom, rc.ShaderLocsDefault())
	assert.Equal(t, 1, rc.Stats().Flushes)

	submitQuad(rc, 0, 0)
	rc.ResetShader()
	require.Len(t, backend.submissions, 2)
	assert.Equal(t, custom, backend.submissions[1].shader)
	assert.Equal(t, rc.ShaderIDDefault(), rc.CurrentShader().ID)

	backend.shaderErr = core.ErrShaderCompile
	assert.Equal(t, rc.ShaderIDDefault(), rc.LoadShaderCode("broken", "broken"))
}

func TestSetUniformSamplerUsesAuxiliaryUnits(t *testing.T) {
	rc, backend := newTestContext(t, nil)

	rc.SetUniformSampler(5, 200)
	rc.SetUniformSampler(5, 200)
	rc.SetUniformSampler(6, 201)
	assert.Equal(t, int32(1), backend.uniformInts[5])
	assert.Equal(t, int32(2), backend.uniformInts[6])
	assert.Equal(t, []uint32{200, 201, 0, 0}, rc.ActiveTextureIDs())

	rc.SetUniformSampler(7, 202)
	rc.SetUniformSampler(8, 203)
	rc.SetUniformSampler(9, 204)
	assert.Equal(t, []uint32{200, 201, 202, 203}, rc.ActiveTextureIDs())
	_, registered := backend.uniformInts[9]
	assert.False(t, registered)

	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()
	rc.DrawRenderBatchActive()

	assert.Equal(t, uint32(200), backend.textureSlots[1])
	assert.Equal(t, uint32(203), backend.textureSlots[4])
	assert.Equal(t, []uint32{0, 0, 0, 0}, rc.ActiveTextureIDs())
}

func TestStereoRenderDrawsBothEyes(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	right := math.NewMat4Translation(math.NewVec3(1, 0, 0))
	left := math.NewMat4Translation(math.NewVec3(-1, 0, 0))
	rc.SetMatrixProjectionStereo(right, left)
	rc.EnableStereoRender()
	require.True(t, rc.IsStereoRenderEnabled())

	rc.Begin(metadata.QUADS)
	submitQuad(rc, 0, 0)
	rc.End()
	rc.DrawRenderBatchActive()

	assert.Equal(t, [][4]int32{{0, 0, 400, 600}, {400, 0, 400, 600}, {0, 0, 800, 600}}, backend.viewports)
	assert.Len(t, backend.submissions, 2)
	require.Len(t, backend.mvps, 2)
	assert.Equal(t, right, backend.mvps[0])
	assert.Equal(t, left, backend.mvps[1])
	assert.Equal(t, 4, rc.Stats().VerticesUploaded)

	rc.DisableStereoRender()
	backend.reset()
	submitQuad(rc, 0, 0)
	rc.DrawRenderBatchActive()
	assert.Empty(t, backend.viewports)
	assert.Len(t, backend.submissions, 1)
}

func TestFlushUsesModelviewAndProjection(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	rc.MatrixMode(metadata.PROJECTION)
	rc.LoadIdentity()
	rc.Ortho(0, 800, 600, 0, 0, 1)
	rc.MatrixMode(metadata.MODELVIEW)
	rc.LoadIdentity()
	rc.Translatef(5, 5, 0)

	submitQuad(rc, 0, 0)
	rc.DrawRenderBatchActive()

	require.Len(t, backend.mvps, 1)
	expected := rc.MatrixModelview().Mul(rc.MatrixProjection())
	assert.Equal(t, expected, backend.mvps[0])
}

func TestCompressedTextureNeedsExtension(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	loads := len(backend.textureLoads)

	id := rc.LoadTexture(make([]byte, 8), 4, 4, metadata.PIXELFORMAT_COMPRESSED_DXT1_RGB, 1)
	assert.Zero(t, id)
	assert.Len(t, backend.textureLoads, loads)

	backend = newRecordingBackend()
	backend.extensions.TexCompDXT = true
	rc, err := NewRenderContext(backend, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, rc.Initialize(64, 64))
	assert.NotZero(t, rc.LoadTexture(make([]byte, 8), 4, 4, metadata.PIXELFORMAT_COMPRESSED_DXT1_RGB, 0))

	tex := rc.LoadTextureImage(make([]byte, 16), 2, 2)
	assert.NotZero(t, tex.ID)
	assert.Equal(t, metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8A8, tex.Format)
}

func TestSetRenderBatchActive(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	custom, err := rc.LoadRenderBatch(1, 16)
	require.NoError(t, err)

	submitQuad(rc, 0, 0)
	rc.SetRenderBatchActive(custom)
	require.Len(t, backend.submissions, 1)
	assert.Same(t, custom, rc.ActiveRenderBatch())

	submitQuad(rc, 0, 0)
	rc.SetRenderBatchActive(nil)
	require.Len(t, backend.submissions, 2)
	assert.Equal(t, custom.VertexBuffers[0].VaoID, backend.submissions[1].vao)
	assert.Same(t, rc.DefaultRenderBatch(), rc.ActiveRenderBatch())

	rc.UnloadRenderBatch(custom)
	assert.False(t, backend.loadedVAOs[custom.VertexBuffers[0].VaoID])
	assert.Same(t, rc.DefaultRenderBatch(), rc.ActiveRenderBatch())

	_, err = rc.LoadRenderBatch(0, 16)
	assert.ErrorIs(t, err, core.ErrInvalidBatchConfig)
}

func TestReloadDefaultRenderBatch(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	old := rc.DefaultRenderBatch()

	submitQuad(rc, 0, 0)
	config := rc.Config()
	config.BatchBuffers = 2
	config.BatchBufferElements = 16
	config.BatchDrawCalls = 8
	require.NoError(t, rc.ReloadDefaultRenderBatch(config))

	assert.Len(t, backend.submissions, 1)
	batch := rc.DefaultRenderBatch()
	assert.NotSame(t, old, batch)
	assert.Same(t, batch, rc.ActiveRenderBatch())
	assert.Len(t, batch.VertexBuffers, 2)
	assert.Len(t, batch.Draws, 8)
	assert.Equal(t, 64, batch.activeBuffer().VertexCapacity())
	assert.False(t, backend.loadedVAOs[old.VertexBuffers[0].VaoID])
	assert.Equal(t, 2, rc.Config().BatchBuffers)

	config.BatchBuffers = 0
	assert.ErrorIs(t, rc.ReloadDefaultRenderBatch(config), core.ErrInvalidBatchConfig)
	assert.Same(t, batch, rc.DefaultRenderBatch())
}

func TestFramebufferSwitchFlushes(t *testing.T) {
	rc, backend := newTestContext(t, nil)
	fbo := rc.LoadFramebuffer(256, 256)
	require.NotZero(t, fbo)
	assert.True(t, rc.FramebufferAttach(fbo, 99, metadata.ATTACHMENT_COLOR_CHANNEL0))

	submitQuad(rc, 0, 0)
	rc.EnableFramebuffer(fbo)
	submitQuad(rc, 0, 0)
	rc.DisableFramebuffer()

	assert.Equal(t, []string{"draw", fmt.Sprintf("framebuffer %d", fbo), "draw", "framebuffer 0"}, backend.events)
}

func TestFlushFiresEvent(t *testing.T) {
	require.True(t, core.EventInitialize())
	defer func() {
		require.NoError(t, core.EventShutdown())
	}()

	var flushed [][2]uint32
	listener := &struct{}{}
	core.EventRegister(core.EVENT_CODE_BATCH_FLUSHED, listener, func(code core.SystemEventCode, sender, inst interface{}, data core.EventContext) bool {
		flushed = append(flushed, [2]uint32{data.Data.U32[0], data.Data.U32[1]})
		return false
	})

	rc, _ := newTestContext(t, nil)
	rc.DrawRenderBatchActive()
	submitQuad(rc, 0, 0)
	rc.SetTexture(7)
	submitQuad(rc, 0, 0)
	rc.DrawRenderBatchActive()

	// vertex count and draw calls
	assert.Equal(t, [][2]uint32{{8, 2}}, flushed)
}

func TestVertexHelpers(t *testing.T) {
	rc, _ := newTestContext(t, nil)
	vb := rc.ActiveRenderBatch().activeBuffer()

	rc.TexCoord2f(0.5, 1)
	rc.Color4f(0, 0, 1, 1)
	rc.Normal3f(0, 0, 1)
	rc.Vertex2i(3, 4)
	rc.Color3f(1, 1, 1)
	rc.Vertex2f(5, 6)
	rc.SetColor(math.ColorBlank)
	rc.Vertex3f(7, 8, 9)

	v := vb.Vertex(0)
	assert.Equal(t, math.NewVec3(3, 4, metadata.BATCH_DEPTH_START), v.Position)
	assert.Equal(t, math.NewVec2(0.5, 1), v.Texcoord)
	assert.Equal(t, math.Color{B: 255, A: 255}, v.Color)
	assert.Equal(t, math.ColorWhite, vb.Vertex(1).Color)
	assert.Equal(t, math.ColorBlank, vb.Vertex(2).Color)
	assert.Equal(t, math.NewVec3(7, 8, 9), vb.Vertex(2).Position)
}
