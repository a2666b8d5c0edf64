package renderer

import (
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// RendererBackend is the graphics device the render batches are drawn with.
// Handles returned by the Load methods are never 0; 0 signals a failed load.
type RendererBackend interface {
	Initialize(width, height int32) error
	Shutdown() error
	Extensions() metadata.ExtensionSupport

	TextureLoad(data []byte, width, height int32, format metadata.PixelFormat, mipmaps int32) uint32
	TextureUnload(id uint32)

	ShaderLoad(vsCode, fsCode string) (uint32, error)
	ShaderUnload(id uint32)
	ShaderLocation(id uint32, uniformName string) int32
	ShaderAttribLocation(id uint32, attribName string) int32
	UseShader(id uint32)
	SetUniformMatrix(location int32, m math.Mat4)
	SetUniformVec4(location int32, v math.Vec4)
	SetUniformInt(location int32, v int32)

	// VertexArrayLoad creates the vertex array of a batch buffer: three dynamic
	// buffers for positions, texcoords and colours, plus the static index buffer
	// which is uploaded once here. It fills buffer.VaoID and buffer.VboID.
	VertexArrayLoad(buffer *metadata.VertexBuffer) error
	VertexArrayUnload(buffer *metadata.VertexBuffer)
	// VertexBufferUpdate replaces data starting at element offset of the buffer
	// object id. data is a []float32 or a []uint8.
	VertexBufferUpdate(id uint32, data interface{}, offset int)
	BindVertexArray(id uint32)

	ActiveTextureSlot(slot int32)
	BindTexture(id uint32)
	// DrawArrays draws count vertices starting at vertex offset.
	DrawArrays(mode metadata.PrimitiveMode, offset, count int32)
	// DrawElements draws count indices of the bound index buffer starting at index offset.
	DrawElements(mode metadata.PrimitiveMode, offset, count int32)
	Viewport(x, y, width, height int32)

	FramebufferLoad(width, height int32) uint32
	FramebufferAttach(fboID, texID uint32, attachType metadata.FramebufferAttachType) bool
	FramebufferEnable(id uint32)
	FramebufferUnload(id uint32)

	SetCapability(capability metadata.Capability, enabled bool)
	SetBlendState(state metadata.BlendState)
	Scissor(x, y, width, height int32)
	CullFace(mode metadata.CullMode)
	LineWidth(width float32)
	ClearColor(color math.Color)
	Clear(flags metadata.ClearFlags)
}
