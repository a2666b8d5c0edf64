package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// RenderBatch owns the rotating vertex buffers and the draw call list that
// describes how the accumulated vertices are split into backend submissions.
type RenderBatch struct {
	ID uuid.UUID

	BufferCount   int
	CurrentBuffer int
	VertexBuffers []*metadata.VertexBuffer

	Draws       []metadata.DrawCall
	DrawCounter int
	// Synthetic z used by the 2D vertex helpers, increased on every End().
	CurrentDepth float32
}

func newRenderBatch(numBuffers, bufferElements, drawCalls int, defaultTexture uint32) *RenderBatch {
	batch := &RenderBatch{
		ID:            uuid.New(),
		BufferCount:   numBuffers,
		VertexBuffers: make([]*metadata.VertexBuffer, numBuffers),
		Draws:         make([]metadata.DrawCall, drawCalls),
		DrawCounter:   1,
		CurrentDepth:  metadata.BATCH_DEPTH_START,
	}
	for i := range batch.VertexBuffers {
		batch.VertexBuffers[i] = metadata.NewVertexBuffer(bufferElements)
	}
	for i := range batch.Draws {
		batch.Draws[i].Reset(defaultTexture)
	}
	return batch
}

// currentDraw returns the draw call receiving vertices.
func (b *RenderBatch) currentDraw() *metadata.DrawCall {
	return &b.Draws[b.DrawCounter-1]
}

// activeBuffer returns the vertex buffer being filled.
func (b *RenderBatch) activeBuffer() *metadata.VertexBuffer {
	return b.VertexBuffers[b.CurrentBuffer]
}

// reset collapses the draw call list back to one default entry, restarts the
// depth cursor and rotates to the next vertex buffer.
func (b *RenderBatch) reset(defaultTexture uint32) {
	b.CurrentDepth = metadata.BATCH_DEPTH_START
	for i := range b.Draws {
		b.Draws[i].Reset(defaultTexture)
	}
	b.DrawCounter = 1
	b.CurrentBuffer = (b.CurrentBuffer + 1) % b.BufferCount
}

// ActiveDraws returns the live draw calls.
func (b *RenderBatch) ActiveDraws() []metadata.DrawCall {
	return b.Draws[:b.DrawCounter]
}

// LoadRenderBatch creates a batch of numBuffers vertex buffers holding
// bufferElements quads each and uploads their vertex arrays to the backend.
func (rc *RenderContext) LoadRenderBatch(numBuffers, bufferElements int) (*RenderBatch, error) {
	if numBuffers <= 0 || bufferElements <= 0 {
		return nil, fmt.Errorf("%w: %d buffers of %d elements", core.ErrInvalidBatchConfig, numBuffers, bufferElements)
	}
	batch := newRenderBatch(numBuffers, bufferElements, rc.config.BatchDrawCalls, rc.defaultTextureID)

	for i, vb := range batch.VertexBuffers {
		if err := rc.backend.VertexArrayLoad(vb); err != nil {
			for _, loaded := range batch.VertexBuffers[:i] {
				rc.backend.VertexArrayUnload(loaded)
			}
			return nil, fmt.Errorf("render batch %s: %w", batch.ID, err)
		}
	}
	rc.backend.BindVertexArray(0)

	core.LogInfo("RLGL: Render batch %s loaded: %d buffers of %d quads, %d draw calls", batch.ID, numBuffers, bufferElements, len(batch.Draws))
	return batch, nil
}

// UnloadRenderBatch releases the backend objects of the batch. An active
// batch is drawn first and the default batch takes its place.
func (rc *RenderContext) UnloadRenderBatch(batch *RenderBatch) {
	if batch == nil {
		return
	}
	if rc.currentBatch == batch && rc.vertexCounter > 0 {
		rc.DrawRenderBatch(batch)
	}
	rc.backend.BindVertexArray(0)
	for _, vb := range batch.VertexBuffers {
		rc.backend.VertexArrayUnload(vb)
	}
	if rc.defaultBatch == batch {
		rc.defaultBatch = nil
	}
	if rc.currentBatch == batch {
		rc.currentBatch = rc.defaultBatch
	}
	core.LogInfo("RLGL: Render batch %s unloaded", batch.ID)
}
