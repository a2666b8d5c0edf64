package software

import (
	"fmt"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// bufferObject stores one typed buffer; only the slice matching its content is set.
type bufferObject struct {
	floats  []float32
	bytes   []uint8
	indices []uint32
}

// vertexArray references the four buffers of a batch vertex buffer.
type vertexArray struct {
	buffers [4]uint32
}

// VertexArrayLoad copies the initial content of the batch buffer into device
// buffers. The index buffer is static from here on.
func (sr *SoftwareRenderer) VertexArrayLoad(buffer *metadata.VertexBuffer) error {
	if buffer == nil || buffer.ElementCount <= 0 {
		return fmt.Errorf("software renderer: empty vertex buffer")
	}

	vao := &vertexArray{}
	objects := [4]*bufferObject{
		metadata.VBO_POSITIONS: {floats: append([]float32(nil), buffer.Vertices...)},
		metadata.VBO_TEXCOORDS: {floats: append([]float32(nil), buffer.Texcoords...)},
		metadata.VBO_COLORS:    {bytes: append([]uint8(nil), buffer.Colors...)},
		metadata.VBO_INDICES:   {indices: append([]uint32(nil), buffer.Indices...)},
	}

	buffer.VaoID = sr.ids.AquireNewID(vao)
	sr.vertexArrays[buffer.VaoID] = vao
	for i, bo := range objects {
		id := sr.ids.AquireNewID(bo)
		sr.buffers[id] = bo
		vao.buffers[i] = id
		buffer.VboID[i] = id
	}

	core.LogDebug("SOFTWARE: [VAO ID %d] Vertex array loaded, %d quads", buffer.VaoID, buffer.ElementCount)
	return nil
}

func (sr *SoftwareRenderer) VertexArrayUnload(buffer *metadata.VertexBuffer) {
	vao, ok := sr.vertexArrays[buffer.VaoID]
	if !ok {
		return
	}
	for _, id := range vao.buffers {
		delete(sr.buffers, id)
		if err := sr.ids.ReleaseID(id); err != nil {
			core.LogError("SOFTWARE: %s", err)
		}
	}
	delete(sr.vertexArrays, buffer.VaoID)
	if err := sr.ids.ReleaseID(buffer.VaoID); err != nil {
		core.LogError("SOFTWARE: %s", err)
	}
	if sr.vertexArray == buffer.VaoID {
		sr.vertexArray = 0
	}
	buffer.VaoID = 0
	buffer.VboID = [4]uint32{}
}

// VertexBufferUpdate overwrites part of a buffer. Updates running past the end
// of the buffer are rejected.
func (sr *SoftwareRenderer) VertexBufferUpdate(id uint32, data interface{}, offset int) {
	bo, ok := sr.buffers[id]
	if !ok {
		core.LogError("SOFTWARE: [VBO ID %d] Update of unknown buffer", id)
		return
	}

	var n, size int
	switch d := data.(type) {
	case []float32:
		n, size = len(d), len(bo.floats)
		if offset >= 0 && offset+n <= size {
			copy(bo.floats[offset:], d)
			return
		}
	case []uint8:
		n, size = len(d), len(bo.bytes)
		if offset >= 0 && offset+n <= size {
			copy(bo.bytes[offset:], d)
			return
		}
	default:
		core.LogError("SOFTWARE: [VBO ID %d] Unsupported buffer data %T", id, data)
		return
	}
	core.LogError("SOFTWARE: [VBO ID %d] Update of %d elements at %d exceeds size %d", id, n, offset, size)
}

func (sr *SoftwareRenderer) BindVertexArray(id uint32) {
	sr.vertexArray = id
}

// vertex assembles vertex i of the bound vertex array.
func (vao *vertexArray) vertex(sr *SoftwareRenderer, i int) (math.Vertex, bool) {
	positions := sr.buffers[vao.buffers[metadata.VBO_POSITIONS]]
	texcoords := sr.buffers[vao.buffers[metadata.VBO_TEXCOORDS]]
	colors := sr.buffers[vao.buffers[metadata.VBO_COLORS]]
	if i < 0 || 3*i+2 >= len(positions.floats) || 2*i+1 >= len(texcoords.floats) || 4*i+3 >= len(colors.bytes) {
		return math.Vertex{}, false
	}
	return math.Vertex{
		Position: math.NewVec3(positions.floats[3*i], positions.floats[3*i+1], positions.floats[3*i+2]),
		Texcoord: math.NewVec2(texcoords.floats[2*i], texcoords.floats[2*i+1]),
		Color: math.Color{
			R: colors.bytes[4*i],
			G: colors.bytes[4*i+1],
			B: colors.bytes[4*i+2],
			A: colors.bytes[4*i+3],
		},
	}, true
}

func (vao *vertexArray) indices(sr *SoftwareRenderer) []uint32 {
	return sr.buffers[vao.buffers[metadata.VBO_INDICES]].indices
}
