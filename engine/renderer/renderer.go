package renderer

import (
	"fmt"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// Stats counts the work handed to the backend since Initialize.
type Stats struct {
	Flushes          int
	DrawSubmissions  int
	VerticesUploaded int
}

// RenderContext accumulates immediate-mode vertices into the active render
// batch and flushes them to the backend. It is not safe for concurrent use.
type RenderContext struct {
	*TransformStack

	backend     RendererBackend
	config      Config
	extensions  metadata.ExtensionSupport
	initialized bool

	defaultBatch  *RenderBatch
	currentBatch  *RenderBatch
	vertexCounter int

	texcoord math.Vec2
	// stored for API completeness, vertex buffers carry no normals
	normal math.Vec3
	color  math.Color
	// a SetTexture call is waiting for the next Begin
	textureBound bool

	defaultTextureID uint32
	activeTextureID  []uint32

	defaultShader metadata.Shader
	currentShader metadata.Shader

	stereoRender     bool
	projectionStereo [2]math.Mat4
	viewOffsetStereo [2]math.Mat4

	currentBlendMode    metadata.BlendMode
	blendFactors        metadata.BlendState
	blendFactorsSep     metadata.BlendState
	customBlendModified bool

	framebufferWidth  int32
	framebufferHeight int32

	stats Stats
}

// NewRenderContext creates a context drawing through backend. The matrix
// operations are usable right away; everything else needs Initialize.
func NewRenderContext(backend RendererBackend, config Config) (*RenderContext, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RenderContext{
		TransformStack:   NewTransformStack(config.MatrixStackSize),
		backend:          backend,
		config:           config,
		color:            math.ColorWhite,
		activeTextureID:  make([]uint32, config.BatchMaxTextureUnits),
		projectionStereo: [2]math.Mat4{math.NewMat4Identity(), math.NewMat4Identity()},
		viewOffsetStereo: [2]math.Mat4{math.NewMat4Identity(), math.NewMat4Identity()},
		currentBlendMode: metadata.BLEND_ALPHA,
		blendFactors: metadata.BlendState{
			SrcRGB: metadata.GL_SRC_ALPHA, DstRGB: metadata.GL_ONE_MINUS_SRC_ALPHA,
			SrcAlpha: metadata.GL_SRC_ALPHA, DstAlpha: metadata.GL_ONE_MINUS_SRC_ALPHA,
			EqRGB: metadata.GL_FUNC_ADD, EqAlpha: metadata.GL_FUNC_ADD,
		},
		blendFactorsSep: metadata.BlendState{
			SrcRGB: metadata.GL_SRC_ALPHA, DstRGB: metadata.GL_ONE_MINUS_SRC_ALPHA,
			SrcAlpha: metadata.GL_ONE, DstAlpha: metadata.GL_ONE_MINUS_SRC_ALPHA,
			EqRGB: metadata.GL_FUNC_ADD, EqAlpha: metadata.GL_FUNC_ADD,
		},
	}, nil
}

// Initialize creates the device, the default texture, the default shader and
// the default render batch.
func (rc *RenderContext) Initialize(width, height int32) error {
	if rc.initialized {
		return nil
	}
	if err := rc.backend.Initialize(width, height); err != nil {
		return fmt.Errorf("%w: %w", core.ErrDeviceCreation, err)
	}
	rc.extensions = rc.backend.Extensions()

	// 1x1 white texture, sampled by untextured primitives
	pixels := []byte{255, 255, 255, 255}
	rc.defaultTextureID = rc.backend.TextureLoad(pixels, 1, 1, metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8A8, 1)
	if rc.defaultTextureID == 0 {
		return core.ErrDefaultTexture
	}
	core.LogInfo("TEXTURE: [ID %d] Default texture loaded successfully", rc.defaultTextureID)

	if err := rc.loadShaderDefault(); err != nil {
		rc.backend.TextureUnload(rc.defaultTextureID)
		return err
	}
	rc.currentShader = rc.defaultShader

	batch, err := rc.LoadRenderBatch(rc.config.BatchBuffers, rc.config.BatchBufferElements)
	if err != nil {
		rc.backend.ShaderUnload(rc.defaultShader.ID)
		rc.backend.TextureUnload(rc.defaultTextureID)
		return err
	}
	rc.defaultBatch = batch
	rc.currentBatch = batch

	rc.framebufferWidth = width
	rc.framebufferHeight = height

	// Init state: depth test off, alpha blending on, back faces culled
	rc.backend.SetCapability(metadata.CAPABILITY_DEPTH_TEST, false)
	rc.backend.SetCapability(metadata.CAPABILITY_BLEND, true)
	rc.backend.SetBlendState(rc.blendStateFor(metadata.BLEND_ALPHA))
	rc.backend.CullFace(metadata.CULL_FACE_BACK)
	rc.backend.SetCapability(metadata.CAPABILITY_CULL_FACE, true)
	rc.backend.Viewport(0, 0, width, height)
	rc.backend.ClearColor(math.ColorBlack)
	rc.backend.Clear(metadata.CLEAR_COLOR | metadata.CLEAR_DEPTH)

	rc.initialized = true
	core.LogInfo("RLGL: Default state initialized successfully (%dx%d)", width, height)
	return nil
}

// Shutdown releases the default batch, shader and texture and closes the device.
// Pending vertices of the active batch are drawn first.
func (rc *RenderContext) Shutdown() error {
	if !rc.initialized {
		return core.ErrNotInitialized
	}
	rc.DrawRenderBatchActive()
	if rc.currentBatch != rc.defaultBatch {
		rc.SetRenderBatchActive(nil)
	}
	rc.UnloadRenderBatch(rc.defaultBatch)

	rc.backend.UseShader(0)
	rc.backend.ShaderUnload(rc.defaultShader.ID)
	core.LogInfo("SHADER: [ID %d] Default shader unloaded successfully", rc.defaultShader.ID)
	rc.backend.TextureUnload(rc.defaultTextureID)
	core.LogInfo("TEXTURE: [ID %d] Default texture unloaded successfully", rc.defaultTextureID)

	rc.initialized = false
	return rc.backend.Shutdown()
}

// Backend returns the device the context draws with.
func (rc *RenderContext) Backend() RendererBackend {
	return rc.backend
}

func (rc *RenderContext) Config() Config {
	return rc.config
}

func (rc *RenderContext) Extensions() metadata.ExtensionSupport {
	return rc.extensions
}

func (rc *RenderContext) Stats() Stats {
	return rc.stats
}

// VertexCounter returns the number of vertex slots used in the active buffer,
// alignment padding included.
func (rc *RenderContext) VertexCounter() int {
	return rc.vertexCounter
}

// ------------------------------------------
// Immediate mode vertex submission
// ------------------------------------------

// Begin starts a group of primitives of the given mode.
func (rc *RenderContext) Begin(mode metadata.PrimitiveMode) {
	draw := rc.currentBatch.currentDraw()
	if draw.Mode == mode {
		return
	}
	keepTexture := draw.VertexCount == 0 && rc.textureBound

	draw = rc.nextDrawCall()
	draw.Mode = mode
	draw.VertexCount = 0
	if !keepTexture {
		draw.TextureID = rc.defaultTextureID
	}
	rc.textureBound = false
}

// End closes the current group of primitives and moves the 2D depth cursor forward.
func (rc *RenderContext) End() {
	rc.currentBatch.CurrentDepth += metadata.BATCH_DEPTH_STEP
}

// SetTexture selects the texture of the next vertices. 0 keeps the current
// texture and only flushes when the vertex buffer is full.
func (rc *RenderContext) SetTexture(id uint32) {
	if id == 0 {
		if rc.vertexCounter >= rc.currentBatch.activeBuffer().VertexCapacity() {
			rc.DrawRenderBatch(rc.currentBatch)
		}
		return
	}

	draw := rc.currentBatch.currentDraw()
	if draw.TextureID != id {
		mode := draw.Mode
		draw = rc.nextDrawCall()
		draw.Mode = mode
		draw.TextureID = id
		draw.VertexCount = 0
	}
	rc.textureBound = true
}

// nextDrawCall closes the current draw call when it holds vertices and returns
// the draw call that receives the following ones. The closed draw call is
// padded so the next one starts on a quad boundary.
func (rc *RenderContext) nextDrawCall() *metadata.DrawCall {
	batch := rc.currentBatch
	draw := batch.currentDraw()
	if draw.VertexCount == 0 {
		return draw
	}

	draw.VertexAlignment = draw.Alignment()
	if rc.CheckRenderBatchLimit(draw.VertexAlignment) {
		return batch.currentDraw()
	}
	if batch.DrawCounter >= len(batch.Draws) {
		rc.DrawRenderBatch(batch)
		return batch.currentDraw()
	}

	rc.vertexCounter += draw.VertexAlignment
	batch.DrawCounter++
	return batch.currentDraw()
}

// Vertex3f submits one vertex with the current texcoord and colour.
func (rc *RenderContext) Vertex3f(x, y, z float32) {
	position := rc.TransformStack.apply(math.NewVec3(x, y, z))

	batch := rc.currentBatch
	capacity := batch.activeBuffer().VertexCapacity()
	draw := batch.currentDraw()

	// Primitives are never split across batches: flush only when the vertex
	// starts a new line, triangle or quad.
	if rc.vertexCounter > capacity-4 && draw.AtPrimitiveBoundary() {
		switch draw.Mode {
		case metadata.LINES:
			rc.CheckRenderBatchLimit(2 + 1)
		case metadata.TRIANGLES:
			rc.CheckRenderBatchLimit(3 + 1)
		case metadata.QUADS:
			rc.CheckRenderBatchLimit(4 + 1)
		}
	}
	if rc.vertexCounter >= capacity {
		// unbalanced primitive stream, the buffer is full anyway
		rc.CheckRenderBatchLimit(1)
	}

	draw = batch.currentDraw()
	batch.activeBuffer().Write(rc.vertexCounter, position, rc.texcoord, rc.color)

	rc.vertexCounter++
	draw.VertexCount++
	rc.textureBound = false
}

// Vertex2f submits a 2D vertex placed at the batch depth cursor.
func (rc *RenderContext) Vertex2f(x, y float32) {
	rc.Vertex3f(x, y, rc.currentBatch.CurrentDepth)
}

func (rc *RenderContext) Vertex2i(x, y int32) {
	rc.Vertex3f(float32(x), float32(y), rc.currentBatch.CurrentDepth)
}

// TexCoord2f sets the texture coordinate of the next vertices.
func (rc *RenderContext) TexCoord2f(x, y float32) {
	rc.texcoord = math.NewVec2(x, y)
}

// Normal3f sets the current normal. Batches do not store normals.
func (rc *RenderContext) Normal3f(x, y, z float32) {
	rc.normal = math.NewVec3(x, y, z)
}

func (rc *RenderContext) Color4ub(r, g, b, a uint8) {
	rc.color = math.Color{R: r, G: g, B: b, A: a}
}

func (rc *RenderContext) Color4f(r, g, b, a float32) {
	rc.color = math.NewColorFromFloats(r, g, b, a)
}

func (rc *RenderContext) Color3f(r, g, b float32) {
	rc.color = math.NewColorFromFloats(r, g, b, 1)
}

// SetColor sets the colour of the next vertices.
func (rc *RenderContext) SetColor(c math.Color) {
	rc.color = c
}

// ------------------------------------------
// Render batch management
// ------------------------------------------

// CheckRenderBatchLimit flushes the active batch when vCount more vertices
// would not fit. The mode and texture of the current draw call survive the
// flush so the caller can keep submitting the same primitives.
func (rc *RenderContext) CheckRenderBatchLimit(vCount int) bool {
	batch := rc.currentBatch
	if rc.vertexCounter+vCount < batch.activeBuffer().VertexCapacity() {
		return false
	}

	// continuation record
	draw := batch.currentDraw()
	mode, texture := draw.Mode, draw.TextureID

	rc.DrawRenderBatch(batch)

	draw = batch.currentDraw()
	draw.Mode = mode
	draw.TextureID = texture
	return true
}

// DrawRenderBatch uploads the pending vertices of batch, issues one backend
// draw per draw call and resets the batch onto its next vertex buffer.
func (rc *RenderContext) DrawRenderBatch(batch *RenderBatch) {
	vertexCount := rc.vertexCounter
	vb := batch.activeBuffer()

	if vertexCount > 0 {
		rc.backend.BindVertexArray(vb.VaoID)
		rc.backend.VertexBufferUpdate(vb.VboID[metadata.VBO_POSITIONS], vb.Vertices[:vertexCount*3], 0)
		rc.backend.VertexBufferUpdate(vb.VboID[metadata.VBO_TEXCOORDS], vb.Texcoords[:vertexCount*2], 0)
		rc.backend.VertexBufferUpdate(vb.VboID[metadata.VBO_COLORS], vb.Colors[:vertexCount*4], 0)
		rc.backend.BindVertexArray(0)
		rc.stats.VerticesUploaded += vertexCount

		matProjection := rc.projection
		matModelView := rc.modelview

		eyeCount := 1
		if rc.stereoRender {
			eyeCount = 2
		}

		for eye := 0; eye < eyeCount; eye++ {
			modelview, projection := matModelView, matProjection
			if eyeCount == 2 {
				rc.backend.Viewport(int32(eye)*rc.framebufferWidth/2, 0, rc.framebufferWidth/2, rc.framebufferHeight)
				modelview = matModelView.Mul(rc.viewOffsetStereo[eye])
				projection = rc.projectionStereo[eye]
			}
			rc.drawBatchEye(batch, modelview.Mul(projection))
		}

		if eyeCount == 2 {
			rc.backend.Viewport(0, 0, rc.framebufferWidth, rc.framebufferHeight)
		}
	}

	drawCalls := batch.DrawCounter
	rc.vertexCounter = 0
	batch.reset(rc.defaultTextureID)
	for i := range rc.activeTextureID {
		rc.activeTextureID[i] = 0
	}
	rc.stats.Flushes++

	if vertexCount > 0 {
		ctx := core.EventContext{}
		ctx.Data.U32[0] = uint32(vertexCount)
		ctx.Data.U32[1] = uint32(drawCalls)
		core.EventFire(core.EVENT_CODE_BATCH_FLUSHED, rc, ctx)
	}
}

// drawBatchEye submits every draw call of the batch with the given MVP.
func (rc *RenderContext) drawBatchEye(batch *RenderBatch, mvp math.Mat4) {
	locs := rc.currentShader.Locs
	vb := batch.activeBuffer()

	rc.backend.UseShader(rc.currentShader.ID)
	rc.backend.SetUniformMatrix(locs[metadata.SHADER_LOC_MATRIX_MVP], mvp)
	rc.backend.BindVertexArray(vb.VaoID)

	rc.backend.SetUniformVec4(locs[metadata.SHADER_LOC_COLOR_DIFFUSE], math.NewVec4One())
	rc.backend.SetUniformInt(locs[metadata.SHADER_LOC_MAP_DIFFUSE], 0)

	// auxiliary samplers are shared by every draw call of the batch
	for i, id := range rc.activeTextureID {
		if id > 0 {
			rc.backend.ActiveTextureSlot(int32(1 + i))
			rc.backend.BindTexture(id)
		}
	}
	rc.backend.ActiveTextureSlot(0)

	vertexOffset := 0
	for _, draw := range batch.ActiveDraws() {
		rc.backend.BindTexture(draw.TextureID)

		switch draw.Mode {
		case metadata.LINES, metadata.TRIANGLES:
			rc.backend.DrawArrays(draw.Mode, int32(vertexOffset), int32(draw.VertexCount))
		default:
			rc.backend.DrawElements(metadata.TRIANGLES, int32(vertexOffset/4*6), int32(draw.VertexCount/4*6))
		}
		rc.stats.DrawSubmissions++

		vertexOffset += draw.VertexCount + draw.VertexAlignment
	}

	rc.backend.BindTexture(0)
	rc.backend.BindVertexArray(0)
	rc.backend.UseShader(0)
}

// DrawRenderBatchActive flushes the active batch.
func (rc *RenderContext) DrawRenderBatchActive() {
	rc.DrawRenderBatch(rc.currentBatch)
}

// SetRenderBatchActive flushes the active batch and makes batch the active
// one. nil selects the default batch.
func (rc *RenderContext) SetRenderBatchActive(batch *RenderBatch) {
	rc.DrawRenderBatch(rc.currentBatch)

	if batch != nil {
		rc.currentBatch = batch
	} else {
		rc.currentBatch = rc.defaultBatch
	}
}

// ActiveRenderBatch returns the batch receiving vertices.
func (rc *RenderContext) ActiveRenderBatch() *RenderBatch {
	return rc.currentBatch
}

// DefaultRenderBatch returns the batch created by Initialize.
func (rc *RenderContext) DefaultRenderBatch() *RenderBatch {
	return rc.defaultBatch
}

// ReloadDefaultRenderBatch draws the pending vertices and replaces the
// default batch with one sized by config. A batch capacity cannot change in
// place, so the old one is destroyed.
func (rc *RenderContext) ReloadDefaultRenderBatch(config Config) error {
	if !rc.initialized {
		return core.ErrNotInitialized
	}
	if err := config.Validate(); err != nil {
		return err
	}
	rc.DrawRenderBatchActive()

	old := rc.defaultBatch
	drawCalls := rc.config.BatchDrawCalls
	rc.config.BatchDrawCalls = config.BatchDrawCalls
	batch, err := rc.LoadRenderBatch(config.BatchBuffers, config.BatchBufferElements)
	if err != nil {
		rc.config.BatchDrawCalls = drawCalls
		return err
	}
	wasActive := rc.currentBatch == old
	rc.UnloadRenderBatch(old)

	rc.config.BatchBuffers = config.BatchBuffers
	rc.config.BatchBufferElements = config.BatchBufferElements
	rc.defaultBatch = batch
	if wasActive {
		rc.currentBatch = batch
	}
	return nil
}

// ------------------------------------------
// Stereo rendering
// ------------------------------------------

func (rc *RenderContext) EnableStereoRender() {
	rc.stereoRender = true
}

func (rc *RenderContext) DisableStereoRender() {
	rc.stereoRender = false
}

func (rc *RenderContext) IsStereoRenderEnabled() bool {
	return rc.stereoRender
}

// SetMatrixProjectionStereo sets the per eye projections, right eye first.
func (rc *RenderContext) SetMatrixProjectionStereo(right, left math.Mat4) {
	rc.projectionStereo[0] = right
	rc.projectionStereo[1] = left
}

// SetMatrixViewOffsetStereo sets the per eye view offsets, right eye first.
func (rc *RenderContext) SetMatrixViewOffsetStereo(right, left math.Mat4) {
	rc.viewOffsetStereo[0] = right
	rc.viewOffsetStereo[1] = left
}

// ------------------------------------------
// Viewport and framebuffers
// ------------------------------------------

func (rc *RenderContext) Viewport(x, y, width, height int32) {
	rc.backend.Viewport(x, y, width, height)
}

func (rc *RenderContext) SetFramebufferWidth(width int32) {
	rc.framebufferWidth = width
}

func (rc *RenderContext) SetFramebufferHeight(height int32) {
	rc.framebufferHeight = height
}

func (rc *RenderContext) FramebufferWidth() int32 {
	return rc.framebufferWidth
}

func (rc *RenderContext) FramebufferHeight() int32 {
	return rc.framebufferHeight
}

// LoadFramebuffer creates an offscreen framebuffer, 0 on failure.
func (rc *RenderContext) LoadFramebuffer(width, height int32) uint32 {
	id := rc.backend.FramebufferLoad(width, height)
	if id == 0 {
		core.LogWarn("FBO: Framebuffer object could not be created")
	}
	return id
}

func (rc *RenderContext) FramebufferAttach(fboID, texID uint32, attachType metadata.FramebufferAttachType) bool {
	return rc.backend.FramebufferAttach(fboID, texID, attachType)
}

// EnableFramebuffer draws the pending vertices and redirects rendering to id.
func (rc *RenderContext) EnableFramebuffer(id uint32) {
	rc.DrawRenderBatchActive()
	rc.backend.FramebufferEnable(id)
}

// DisableFramebuffer draws the pending vertices and renders to the screen again.
func (rc *RenderContext) DisableFramebuffer() {
	rc.DrawRenderBatchActive()
	rc.backend.FramebufferEnable(0)
}

func (rc *RenderContext) UnloadFramebuffer(id uint32) {
	rc.backend.FramebufferUnload(id)
	core.LogInfo("FBO: [ID %d] Unloaded framebuffer from VRAM (GPU)", id)
}

// ------------------------------------------
// State toggles
// ------------------------------------------

func (rc *RenderContext) EnableCapability(capability metadata.Capability) {
	rc.backend.SetCapability(capability, true)
}

func (rc *RenderContext) DisableCapability(capability metadata.Capability) {
	rc.backend.SetCapability(capability, false)
}

func (rc *RenderContext) Scissor(x, y, width, height int32) {
	rc.backend.Scissor(x, y, width, height)
}

func (rc *RenderContext) SetCullFace(mode metadata.CullMode) {
	rc.backend.CullFace(mode)
}

func (rc *RenderContext) SetLineWidth(width float32) {
	rc.backend.LineWidth(width)
}

func (rc *RenderContext) ClearColor(c math.Color) {
	rc.backend.ClearColor(c)
}

func (rc *RenderContext) ClearScreenBuffers() {
	rc.backend.Clear(metadata.CLEAR_COLOR | metadata.CLEAR_DEPTH)
}
