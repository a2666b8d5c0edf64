package renderer

import (
	"testing"

	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
)

func TestPushPopRestoresModelview(t *testing.T) {
	ts := NewTransformStack(metadata.MAX_MATRIX_STACK_SIZE)

	ts.PushMatrix()
	ts.Translatef(1, 2, 3)
	assert.True(t, ts.TransformRequired())
	assert.Equal(t, 1, ts.StackDepth())
	assert.Equal(t, math.NewMat4Translation(math.NewVec3(1, 2, 3)), ts.MatrixTransform())

	ts.PushMatrix()
	ts.Scalef(2, 2, 2)
	assert.Equal(t, 2, ts.StackDepth())

	ts.PopMatrix()
	assert.True(t, ts.TransformRequired())
	assert.Equal(t, math.NewMat4Translation(math.NewVec3(1, 2, 3)), ts.MatrixTransform())

	ts.PopMatrix()
	assert.False(t, ts.TransformRequired())
	assert.Equal(t, 0, ts.StackDepth())
	assert.Equal(t, math.NewMat4Identity(), ts.MatrixTransform())
	assert.Equal(t, math.NewMat4Identity(), ts.MatrixModelview())
}

func TestPushMatrixOverflowIsIgnored(t *testing.T) {
	ts := NewTransformStack(2)

	ts.PushMatrix()
	ts.PushMatrix()
	ts.Translatef(5, 0, 0)
	ts.PushMatrix()
	assert.Equal(t, 2, ts.StackDepth())

	ts.PopMatrix()
	ts.PopMatrix()
	ts.PopMatrix()
	assert.Equal(t, 0, ts.StackDepth())
	assert.False(t, ts.TransformRequired())
}

func TestPopMatrixOnEmptyStack(t *testing.T) {
	ts := NewTransformStack(4)
	ts.Translatef(3, 0, 0)
	ts.PopMatrix()
	assert.Equal(t, 0, ts.StackDepth())
	assert.Equal(t, math.NewMat4Translation(math.NewVec3(3, 0, 0)), ts.MatrixModelview())
}

func TestProjectionPushDoesNotTransformVertices(t *testing.T) {
	ts := NewTransformStack(4)
	ts.MatrixMode(metadata.PROJECTION)
	assert.Equal(t, metadata.PROJECTION, ts.CurrentMatrixMode())

	ts.PushMatrix()
	ts.Ortho(0, 800, 600, 0, 0, 1)
	assert.False(t, ts.TransformRequired())
	assert.True(t, ts.MatrixProjection().Compare(math.NewMat4Orthographic(0, 800, 600, 0, 0, 1), 1e-6))

	ts.PopMatrix()
	assert.Equal(t, math.NewMat4Identity(), ts.MatrixProjection())
	assert.Equal(t, math.NewVec3(1, 2, 3), ts.apply(math.NewVec3(1, 2, 3)))
}

func TestFrustumAndMultMatrix(t *testing.T) {
	ts := NewTransformStack(4)
	ts.MatrixMode(metadata.PROJECTION)
	ts.Frustum(-1, 1, -1, 1, 1, 10)
	assert.True(t, ts.MatrixProjection().Compare(math.NewMat4Frustum(-1, 1, -1, 1, 1, 10), 1e-6))

	ts.MatrixMode(metadata.MODELVIEW)
	translation := math.NewMat4Translation(math.NewVec3(4, 5, 6))
	ts.MultMatrixf(translation.Data)
	assert.Equal(t, translation, ts.MatrixModelview())

	ts.LoadIdentity()
	assert.Equal(t, math.NewMat4Identity(), ts.MatrixModelview())
}

func TestRotatefUsesDegrees(t *testing.T) {
	ts := NewTransformStack(4)
	ts.PushMatrix()
	ts.Rotatef(90, 0, 0, 1)

	p := ts.apply(math.NewVec3(1, 0, 0))
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 1, p.Y, 1e-5)
}

func TestSetMatrices(t *testing.T) {
	ts := NewTransformStack(4)
	m := math.NewMat4Scale(math.NewVec3(2, 3, 4))
	ts.SetMatrixModelview(m)
	ts.SetMatrixProjection(m)
	assert.Equal(t, m, ts.MatrixModelview())
	assert.Equal(t, m, ts.MatrixProjection())
}
