package software

import (
	"fmt"

	"github.com/spaghettifunk/rlgo/engine/containers"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*SoftwareRenderer)(nil)

/** @brief Texture units addressable with ActiveTextureSlot. */
const MAX_TEXTURE_SLOTS int = 16

/** @brief Commands kept by default in the history of a renderer. */
const DEFAULT_HISTORY_SIZE int = 256

// CommandKind tells which device call produced a Command.
type CommandKind uint8

const (
	COMMAND_DRAW_ARRAYS CommandKind = iota
	COMMAND_DRAW_ELEMENTS
	COMMAND_CLEAR
)

// Command is one entry of the renderer history.
type Command struct {
	Kind        CommandKind
	Mode        metadata.PrimitiveMode
	Offset      int32
	Count       int32
	Texture     uint32
	Program     uint32
	Framebuffer uint32
}

// Stats counts the rasterizer work since Initialize.
type Stats struct {
	DrawCalls       int
	Triangles       int
	CulledTriangles int
	Lines           int
	Fragments       int
}

// pipelineState is the fixed function state set through the toggles.
type pipelineState struct {
	capabilities map[metadata.Capability]bool
	blend        metadata.BlendState
	cullMode     metadata.CullMode
	lineWidth    float32
	clearColor   math.Color
	viewport     [4]int32
	scissor      [4]int32
}

// SoftwareRenderer rasterizes the render batches on the CPU. Object handles
// come from a single identifier pool, so a texture and a buffer never share an id.
type SoftwareRenderer struct {
	ids *core.IdentifierPool

	textures     map[uint32]*texture
	programs     map[uint32]*program
	buffers      map[uint32]*bufferObject
	vertexArrays map[uint32]*vertexArray
	framebuffers map[uint32]*framebuffer

	screen      *framebuffer
	target      *framebuffer
	targetID    uint32
	state       pipelineState
	activeSlot  int32
	slots       [MAX_TEXTURE_SLOTS]uint32
	program     uint32
	vertexArray uint32

	history     *containers.RingQueue[Command]
	stats       Stats
	initialized bool
}

func New(historySize int) *SoftwareRenderer {
	if historySize <= 0 {
		historySize = DEFAULT_HISTORY_SIZE
	}
	return &SoftwareRenderer{
		history: containers.NewRingQueue[Command](historySize),
	}
}

func (sr *SoftwareRenderer) Initialize(width, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("software renderer: invalid surface size %dx%d", width, height)
	}

	sr.ids = core.NewIdentifierPool()
	sr.textures = make(map[uint32]*texture)
	sr.programs = make(map[uint32]*program)
	sr.buffers = make(map[uint32]*bufferObject)
	sr.vertexArrays = make(map[uint32]*vertexArray)
	sr.framebuffers = make(map[uint32]*framebuffer)

	sr.screen = newFramebuffer(width, height)
	sr.screen.color = newTexture(width, height)
	sr.screen.depth = newDepthBuffer(width, height)
	sr.target = sr.screen
	sr.targetID = 0

	// GL defaults
	sr.state = pipelineState{
		capabilities: make(map[metadata.Capability]bool),
		blend: metadata.BlendState{
			SrcRGB: metadata.GL_ONE, DstRGB: metadata.GL_ZERO,
			SrcAlpha: metadata.GL_ONE, DstAlpha: metadata.GL_ZERO,
			EqRGB: metadata.GL_FUNC_ADD, EqAlpha: metadata.GL_FUNC_ADD,
		},
		cullMode:  metadata.CULL_FACE_BACK,
		lineWidth: 1,
		viewport:  [4]int32{0, 0, width, height},
		scissor:   [4]int32{0, 0, width, height},
	}
	sr.stats = Stats{}
	sr.initialized = true

	core.LogInfo("SOFTWARE: Device initialized, screen framebuffer %s (%dx%d)", sr.screen.name, width, height)
	return nil
}

func (sr *SoftwareRenderer) Shutdown() error {
	if !sr.initialized {
		return core.ErrNotInitialized
	}
	if live := sr.ids.Live(); live > 0 {
		core.LogWarn("SOFTWARE: %d objects still alive at shutdown", live)
	}
	sr.textures = nil
	sr.programs = nil
	sr.buffers = nil
	sr.vertexArrays = nil
	sr.framebuffers = nil
	sr.initialized = false
	core.LogInfo("SOFTWARE: Device shut down")
	return nil
}

// Extensions reports float and NPOT texture support. Block compressed
// formats cannot be decoded.
func (sr *SoftwareRenderer) Extensions() metadata.ExtensionSupport {
	return metadata.ExtensionSupport{
		TexNPOT:      true,
		TexFloat32:   true,
		MaxDepthBits: 32,
	}
}

// LiveObjects returns the number of device objects not yet unloaded.
func (sr *SoftwareRenderer) LiveObjects() int {
	return sr.ids.Live()
}

func (sr *SoftwareRenderer) Stats() Stats {
	return sr.stats
}

// History returns the last recorded commands, oldest first.
func (sr *SoftwareRenderer) History() []Command {
	return sr.history.Items()
}

func (sr *SoftwareRenderer) record(cmd Command) {
	cmd.Program = sr.program
	cmd.Framebuffer = sr.targetID
	sr.history.Push(cmd)
}

// ------------------------------------------
// Pipeline state
// ------------------------------------------

func (sr *SoftwareRenderer) SetCapability(capability metadata.Capability, enabled bool) {
	sr.state.capabilities[capability] = enabled
}

func (sr *SoftwareRenderer) enabled(capability metadata.Capability) bool {
	return sr.state.capabilities[capability]
}

func (sr *SoftwareRenderer) SetBlendState(state metadata.BlendState) {
	sr.state.blend = state
}

func (sr *SoftwareRenderer) Scissor(x, y, width, height int32) {
	sr.state.scissor = [4]int32{x, y, width, height}
}

func (sr *SoftwareRenderer) CullFace(mode metadata.CullMode) {
	sr.state.cullMode = mode
}

func (sr *SoftwareRenderer) LineWidth(width float32) {
	sr.state.lineWidth = width
}

func (sr *SoftwareRenderer) Viewport(x, y, width, height int32) {
	sr.state.viewport = [4]int32{x, y, width, height}
}

func (sr *SoftwareRenderer) ClearColor(color math.Color) {
	sr.state.clearColor = color
}

// Clear fills the buffers of the bound framebuffer.
func (sr *SoftwareRenderer) Clear(flags metadata.ClearFlags) {
	fb := sr.target
	if flags&metadata.CLEAR_COLOR != 0 && fb.color != nil {
		c := sr.state.clearColor
		pix := fb.color.pix
		for i := 0; i < len(pix); i += 4 {
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	if flags&metadata.CLEAR_DEPTH != 0 && fb.depth != nil {
		for i := range fb.depth {
			fb.depth[i] = 1
		}
	}
	sr.record(Command{Kind: COMMAND_CLEAR})
}
