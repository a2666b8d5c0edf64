package metadata

import (
	"github.com/spaghettifunk/rlgo/engine/math"
)

const (
	/** @brief Vertex buffer slot of the positions. */
	VBO_POSITIONS = 0
	/** @brief Vertex buffer slot of the texture coordinates. */
	VBO_TEXCOORDS = 1
	/** @brief Vertex buffer slot of the colours. */
	VBO_COLORS = 2
	/** @brief Vertex buffer slot of the quad indices. */
	VBO_INDICES = 3
)

/**
 * @brief CPU side storage of one batch buffer, filled vertex by vertex and
 * uploaded on flush. Capacity is expressed in quads (elements).
 */
type VertexBuffer struct {
	/** @brief Number of quads the buffer can hold. */
	ElementCount int
	/** @brief Positions, 3 floats per vertex. */
	Vertices []float32
	/** @brief Texture coordinates, 2 floats per vertex. */
	Texcoords []float32
	/** @brief Colours, 4 bytes per vertex. */
	Colors []uint8
	/** @brief Quad indices, 6 per element. Built once. */
	Indices []uint32
	/** @brief Backend vertex array object. */
	VaoID uint32
	/** @brief Backend buffer objects, see the VBO_* slots. */
	VboID [4]uint32
}

/**
 * @brief Creates a vertex buffer able to hold elementCount quads with its
 * index array precomputed as two triangles per quad.
 */
func NewVertexBuffer(elementCount int) *VertexBuffer {
	vb := &VertexBuffer{
		ElementCount: elementCount,
		Vertices:     make([]float32, elementCount*3*4),
		Texcoords:    make([]float32, elementCount*2*4),
		Colors:       make([]uint8, elementCount*4*4),
		Indices:      make([]uint32, elementCount*6),
	}

	k := uint32(0)
	for j := 0; j < 6*elementCount; j += 6 {
		vb.Indices[j] = 4 * k
		vb.Indices[j+1] = 4*k + 1
		vb.Indices[j+2] = 4*k + 2
		vb.Indices[j+3] = 4 * k
		vb.Indices[j+4] = 4*k + 2
		vb.Indices[j+5] = 4*k + 3
		k++
	}
	return vb
}

/** @brief Returns how many vertices fit in the buffer. */
func (vb *VertexBuffer) VertexCapacity() int {
	return vb.ElementCount * 4
}

/**
 * @brief Writes one vertex at the given slot. The slot must be below
 * VertexCapacity(); callers check it before writing.
 */
func (vb *VertexBuffer) Write(slot int, position math.Vec3, texcoord math.Vec2, color math.Color) {
	vb.Vertices[3*slot] = position.X
	vb.Vertices[3*slot+1] = position.Y
	vb.Vertices[3*slot+2] = position.Z

	vb.Texcoords[2*slot] = texcoord.X
	vb.Texcoords[2*slot+1] = texcoord.Y

	vb.Colors[4*slot] = color.R
	vb.Colors[4*slot+1] = color.G
	vb.Colors[4*slot+2] = color.B
	vb.Colors[4*slot+3] = color.A
}

/** @brief Reads back the vertex stored at slot. */
func (vb *VertexBuffer) Vertex(slot int) math.Vertex {
	return math.Vertex{
		Position: math.NewVec3(vb.Vertices[3*slot], vb.Vertices[3*slot+1], vb.Vertices[3*slot+2]),
		Texcoord: math.NewVec2(vb.Texcoords[2*slot], vb.Texcoords[2*slot+1]),
		Color: math.Color{
			R: vb.Colors[4*slot],
			G: vb.Colors[4*slot+1],
			B: vb.Colors[4*slot+2],
			A: vb.Colors[4*slot+3],
		},
	}
}
