package metadata

const (
	/** @brief Default number of quads per vertex buffer (4 vertices and 6 indices each). */
	DEFAULT_BATCH_BUFFER_ELEMENTS int = 8192
	/** @brief Default number of vertex buffers rotated by a batch. */
	DEFAULT_BATCH_BUFFERS int = 1
	/** @brief Default capacity of the draw call list of a batch. */
	DEFAULT_BATCH_DRAWCALLS int = 256
	/** @brief Default number of auxiliary texture units bound per flush (texture0 excluded). */
	DEFAULT_BATCH_MAX_TEXTURE_UNITS int = 4
	/** @brief Default depth of the matrix stack. */
	MAX_MATRIX_STACK_SIZE int = 32
	/** @brief Default projection near cull distance. */
	CULL_DISTANCE_NEAR float64 = 0.01
	/** @brief Default projection far cull distance. */
	CULL_DISTANCE_FAR float64 = 1000.0

	/** @brief Depth cursor value right after a flush. */
	BATCH_DEPTH_START float32 = -1.0
	/** @brief Depth cursor increment applied on every End(). */
	BATCH_DEPTH_STEP float32 = 1.0 / 20000.0
)

/**
 * @brief The primitive topology of a draw call. Values match the
 * legacy GL enums so they can be handed to a GL style backend as-is.
 */
type PrimitiveMode int32

const (
	LINES     PrimitiveMode = 0x0001
	TRIANGLES PrimitiveMode = 0x0004
	QUADS     PrimitiveMode = 0x0007
)

func (m PrimitiveMode) String() string {
	switch m {
	case LINES:
		return "LINES"
	case TRIANGLES:
		return "TRIANGLES"
	case QUADS:
		return "QUADS"
	}
	return "UNKNOWN"
}

/** @brief The matrix addressed by transform operations. */
type MatrixMode int32

const (
	MODELVIEW  MatrixMode = 0x1700
	PROJECTION MatrixMode = 0x1701
	TEXTURE    MatrixMode = 0x1702
)

/** @brief Predefined colour blending setups. */
type BlendMode int32

const (
	/** @brief Blend textures considering alpha (default) */
	BLEND_ALPHA BlendMode = iota
	/** @brief Blend textures adding colors */
	BLEND_ADDITIVE
	/** @brief Blend textures multiplying colors */
	BLEND_MULTIPLIED
	/** @brief Blend textures adding colors (alternative) */
	BLEND_ADD_COLORS
	/** @brief Blend textures subtracting colors (alternative) */
	BLEND_SUBTRACT_COLORS
	/** @brief Blend premultiplied textures considering alpha */
	BLEND_ALPHA_PREMULTIPLY
	/** @brief Blend textures using custom src/dst factors */
	BLEND_CUSTOM
	/** @brief Blend textures using custom src/dst factors, separate for RGB and alpha */
	BLEND_CUSTOM_SEPARATE
)

// Blend factors and equations, GL numbering.
const (
	GL_ZERO                     int32 = 0
	GL_ONE                      int32 = 1
	GL_SRC_COLOR                int32 = 0x0300
	GL_ONE_MINUS_SRC_COLOR      int32 = 0x0301
	GL_SRC_ALPHA                int32 = 0x0302
	GL_ONE_MINUS_SRC_ALPHA      int32 = 0x0303
	GL_DST_ALPHA                int32 = 0x0304
	GL_ONE_MINUS_DST_ALPHA      int32 = 0x0305
	GL_DST_COLOR                int32 = 0x0306
	GL_ONE_MINUS_DST_COLOR      int32 = 0x0307
	GL_SRC_ALPHA_SATURATE       int32 = 0x0308
	GL_FUNC_ADD                 int32 = 0x8006
	GL_MIN                      int32 = 0x8007
	GL_MAX                      int32 = 0x8008
	GL_FUNC_SUBTRACT            int32 = 0x800A
	GL_FUNC_REVERSE_SUBTRACT    int32 = 0x800B
	GL_BLEND_EQUATION           int32 = 0x8009
	GL_BLEND_DST_RGB            int32 = 0x80C8
	GL_BLEND_SRC_RGB            int32 = 0x80C9
	GL_BLEND_DST_ALPHA          int32 = 0x80CA
	GL_BLEND_SRC_ALPHA          int32 = 0x80CB
	GL_BLEND_COLOR              int32 = 0x8005
	GL_CONSTANT_COLOR           int32 = 0x8001
	GL_ONE_MINUS_CONSTANT_COLOR int32 = 0x8002
)

/**
 * @brief Holds the blend function and equation handed to the backend.
 */
type BlendState struct {
	SrcRGB   int32
	DstRGB   int32
	SrcAlpha int32
	DstAlpha int32
	EqRGB    int32
	EqAlpha  int32
}

/** @brief Pipeline switches forwarded to the backend untouched. */
type Capability int32

const (
	CAPABILITY_DEPTH_TEST Capability = iota
	CAPABILITY_BLEND
	CAPABILITY_CULL_FACE
	CAPABILITY_SCISSOR_TEST
	CAPABILITY_WIRE_MODE
	CAPABILITY_COLOR_BLEND
	CAPABILITY_SMOOTH_LINES
)

/** @brief Face culling selection. */
type CullMode int32

const (
	CULL_FACE_FRONT CullMode = iota
	CULL_FACE_BACK
)

/** @brief Bits for Clear. */
type ClearFlags uint8

const (
	CLEAR_COLOR ClearFlags = 0x1
	CLEAR_DEPTH ClearFlags = 0x2
)

/**
 * @brief What the backend device can do. Queried once at initialization.
 */
type ExtensionSupport struct {
	/** @brief Non-power-of-two textures. */
	TexNPOT bool
	/** @brief 32 bit float textures. */
	TexFloat32 bool
	/** @brief DXT texture compression. */
	TexCompDXT bool
	/** @brief ETC1 texture compression. */
	TexCompETC1 bool
	/** @brief ETC2/EAC texture compression. */
	TexCompETC2 bool
	/** @brief PVR texture compression. */
	TexCompPVRT bool
	/** @brief ASTC texture compression. */
	TexCompASTC bool
	/** @brief Depth buffer bits. */
	MaxDepthBits int32
	/** @brief Anisotropic filter level. */
	MaxAnisotropyLevel float32
}

/** @brief Attachment slots of a framebuffer. */
type FramebufferAttachType int32

const (
	ATTACHMENT_COLOR_CHANNEL0 FramebufferAttachType = 0
	ATTACHMENT_COLOR_CHANNEL1 FramebufferAttachType = 1
	ATTACHMENT_DEPTH          FramebufferAttachType = 100
	ATTACHMENT_STENCIL        FramebufferAttachType = 200
)

/**
 * @brief A slice of the accumulated vertices drawn with one backend submission.
 */
type DrawCall struct {
	/** @brief The primitive topology. */
	Mode PrimitiveMode
	/** @brief Vertices accumulated so far. */
	VertexCount int
	/**
	 * @brief Filler vertices reserved after this draw call but never drawn, keeping
	 * the quad index buffer offsets of the following draw call valid.
	 */
	VertexAlignment int
	/** @brief The texture bound while drawing. */
	TextureID uint32
}

/**
 * @brief Returns the number of filler vertices that keep the next draw call
 * aligned to the 4-vertex quad boundary.
 */
func (d *DrawCall) Alignment() int {
	switch d.Mode {
	case LINES:
		if d.VertexCount < 4 {
			return d.VertexCount
		}
		return d.VertexCount % 4
	case TRIANGLES:
		if d.VertexCount < 4 {
			return 1
		}
		return 4 - (d.VertexCount % 4)
	default:
		return 0
	}
}

/**
 * @brief Returns true when the draw call holds a whole number of primitives,
 * i.e. the next vertex starts a new line/triangle/quad.
 */
func (d *DrawCall) AtPrimitiveBoundary() bool {
	switch d.Mode {
	case LINES:
		return d.VertexCount%2 == 0
	case TRIANGLES:
		return d.VertexCount%3 == 0
	case QUADS:
		return d.VertexCount%4 == 0
	}
	return true
}

/** @brief Reset puts the draw call back in its post-flush state. */
func (d *DrawCall) Reset(defaultTexture uint32) {
	d.Mode = QUADS
	d.VertexCount = 0
	d.VertexAlignment = 0
	d.TextureID = defaultTexture
}
