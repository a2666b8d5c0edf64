package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

type upload struct {
	id     uint32
	length int
	offset int
}

type submission struct {
	indexed bool
	mode    metadata.PrimitiveMode
	offset  int32
	count   int32
	texture uint32
	shader  uint32
	vao     uint32
}

// vertices returns how many batch vertices the submission covers.
func (s submission) vertices() int {
	if s.indexed {
		return int(s.count) / 6 * 4
	}
	return int(s.count)
}

// recordingBackend implements RendererBackend in memory and records what the
// render context asks of it.
type recordingBackend struct {
	initErr    error
	shaderErr  error
	extensions metadata.ExtensionSupport

	nextID uint32
	// ordered log of state changing calls, used to check flush ordering
	events []string

	textureLoads []metadata.PixelFormat
	uploads      []upload
	submissions  []submission
	viewports    [][4]int32
	mvps         []math.Mat4
	blendStates  []metadata.BlendState
	uniformInts  map[int32]int32
	textureSlots map[int32]uint32
	loadedVAOs   map[uint32]bool

	boundTexture uint32
	activeSlot   int32
	usedShader   uint32
	boundVAO     uint32
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		uniformInts:  make(map[int32]int32),
		textureSlots: make(map[int32]uint32),
		loadedVAOs:   make(map[uint32]bool),
	}
}

func (b *recordingBackend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *recordingBackend) Initialize(width, height int32) error {
	return b.initErr
}

func (b *recordingBackend) Shutdown() error {
	b.events = append(b.events, "shutdown")
	return nil
}

func (b *recordingBackend) Extensions() metadata.ExtensionSupport {
	return b.extensions
}

func (b *recordingBackend) TextureLoad(data []byte, width, height int32, format metadata.PixelFormat, mipmaps int32) uint32 {
	b.textureLoads = append(b.textureLoads, format)
	return b.id()
}

func (b *recordingBackend) TextureUnload(id uint32) {}

func (b *recordingBackend) ShaderLoad(vsCode, fsCode string) (uint32, error) {
	if b.shaderErr != nil {
		return 0, b.shaderErr
	}
	return b.id(), nil
}

func (b *recordingBackend) ShaderUnload(id uint32) {}

func (b *recordingBackend) ShaderLocation(id uint32, uniformName string) int32 {
	switch uniformName {
	case metadata.UNIFORM_NAME_MVP:
		return 10
	case metadata.UNIFORM_NAME_DIFFUSE:
		return 11
	case metadata.SAMPLER_NAME_TEXTURE0:
		return 12
	}
	return 20
}

func (b *recordingBackend) ShaderAttribLocation(id uint32, attribName string) int32 {
	switch attribName {
	case metadata.ATTRIB_NAME_POSITION:
		return 0
	case metadata.ATTRIB_NAME_TEXCOORD:
		return 1
	case metadata.ATTRIB_NAME_COLOR:
		return 2
	}
	return -1
}

func (b *recordingBackend) UseShader(id uint32) {
	b.usedShader = id
}

func (b *recordingBackend) SetUniformMatrix(location int32, m math.Mat4) {
	b.mvps = append(b.mvps, m)
}

func (b *recordingBackend) SetUniformVec4(location int32, v math.Vec4) {}

func (b *recordingBackend) SetUniformInt(location int32, v int32) {
	b.uniformInts[location] = v
}

func (b *recordingBackend) VertexArrayLoad(buffer *metadata.VertexBuffer) error {
	buffer.VaoID = b.id()
	for i := range buffer.VboID {
		buffer.VboID[i] = b.id()
	}
	b.loadedVAOs[buffer.VaoID] = true
	return nil
}

func (b *recordingBackend) VertexArrayUnload(buffer *metadata.VertexBuffer) {
	delete(b.loadedVAOs, buffer.VaoID)
}

func (b *recordingBackend) VertexBufferUpdate(id uint32, data interface{}, offset int) {
	length := 0
	switch d := data.(type) {
	case []float32:
		length = len(d)
	case []uint8:
		length = len(d)
	default:
		panic(fmt.Sprintf("unexpected buffer data %T", data))
	}
	b.uploads = append(b.uploads, upload{id: id, length: length, offset: offset})
}

func (b *recordingBackend) BindVertexArray(id uint32) {
	b.boundVAO = id
}

func (b *recordingBackend) ActiveTextureSlot(slot int32) {
	b.activeSlot = slot
}

func (b *recordingBackend) BindTexture(id uint32) {
	b.boundTexture = id
	b.textureSlots[b.activeSlot] = id
}

func (b *recordingBackend) submit(indexed bool, mode metadata.PrimitiveMode, offset, count int32) {
	b.submissions = append(b.submissions, submission{
		indexed: indexed,
		mode:    mode,
		offset:  offset,
		count:   count,
		texture: b.boundTexture,
		shader:  b.usedShader,
		vao:     b.boundVAO,
	})
	b.events = append(b.events, "draw")
}

func (b *recordingBackend) DrawArrays(mode metadata.PrimitiveMode, offset, count int32) {
	b.submit(false, mode, offset, count)
}

func (b *recordingBackend) DrawElements(mode metadata.PrimitiveMode, offset, count int32) {
	b.submit(true, mode, offset, count)
}

func (b *recordingBackend) Viewport(x, y, width, height int32) {
	b.viewports = append(b.viewports, [4]int32{x, y, width, height})
}

func (b *recordingBackend) FramebufferLoad(width, height int32) uint32 {
	return b.id()
}

func (b *recordingBackend) FramebufferAttach(fboID, texID uint32, attachType metadata.FramebufferAttachType) bool {
	return true
}

func (b *recordingBackend) FramebufferEnable(id uint32) {
	b.events = append(b.events, fmt.Sprintf("framebuffer %d", id))
}

func (b *recordingBackend) FramebufferUnload(id uint32) {}

func (b *recordingBackend) SetCapability(capability metadata.Capability, enabled bool) {}

func (b *recordingBackend) SetBlendState(state metadata.BlendState) {
	b.blendStates = append(b.blendStates, state)
	b.events = append(b.events, "blend")
}

func (b *recordingBackend) Scissor(x, y, width, height int32) {}

func (b *recordingBackend) CullFace(mode metadata.CullMode) {}

func (b *recordingBackend) LineWidth(width float32) {}

func (b *recordingBackend) ClearColor(color math.Color) {}

func (b *recordingBackend) Clear(flags metadata.ClearFlags) {}

// reset forgets everything recorded so far.
func (b *recordingBackend) reset() {
	b.events = nil
	b.uploads = nil
	b.submissions = nil
	b.viewports = nil
	b.mvps = nil
	b.blendStates = nil
	b.textureSlots = make(map[int32]uint32)
}

func (b *recordingBackend) drawnVertices() int {
	n := 0
	for _, s := range b.submissions {
		n += s.vertices()
	}
	return n
}

var errNoDevice = errors.New("no device")
