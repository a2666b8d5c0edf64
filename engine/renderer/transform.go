package renderer

import (
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// matrixTarget selects which matrix the transform operations write to.
type matrixTarget uint8

const (
	targetModelview matrixTarget = iota
	targetProjection
	// scratch matrix used inside PushMatrix/PopMatrix scopes on the modelview
	targetTransform
)

// TransformStack holds the modelview and projection matrices, the transform
// accumulator applied to vertices inside push/pop scopes and the bounded
// matrix stack.
type TransformStack struct {
	mode   metadata.MatrixMode
	target matrixTarget

	modelview  math.Mat4
	projection math.Mat4
	transform  math.Mat4

	transformRequired bool

	stack   []math.Mat4
	counter int
}

func NewTransformStack(size int) *TransformStack {
	ts := &TransformStack{
		mode:       metadata.MODELVIEW,
		target:     targetModelview,
		modelview:  math.NewMat4Identity(),
		projection: math.NewMat4Identity(),
		transform:  math.NewMat4Identity(),
		stack:      make([]math.Mat4, size),
	}
	for i := range ts.stack {
		ts.stack[i] = math.NewMat4Identity()
	}
	return ts
}

// current returns the matrix transform operations are applied to.
func (ts *TransformStack) current() *math.Mat4 {
	switch ts.target {
	case targetProjection:
		return &ts.projection
	case targetTransform:
		return &ts.transform
	default:
		return &ts.modelview
	}
}

// MatrixMode selects the matrix addressed by the next transform operations.
func (ts *TransformStack) MatrixMode(mode metadata.MatrixMode) {
	switch mode {
	case metadata.PROJECTION:
		ts.target = targetProjection
	case metadata.MODELVIEW:
		ts.target = targetModelview
	}
	ts.mode = mode
}

// PushMatrix saves the current matrix. Pushing the modelview redirects the
// following operations to the transform accumulator, which is then applied to
// every submitted vertex until the matching PopMatrix.
func (ts *TransformStack) PushMatrix() {
	if ts.counter >= len(ts.stack) {
		core.LogError("%s (size %d)", core.ErrMatrixStackOverflow, len(ts.stack))
		return
	}

	if ts.mode == metadata.MODELVIEW {
		ts.transformRequired = true
		ts.target = targetTransform
	}

	ts.stack[ts.counter] = *ts.current()
	ts.counter++
}

// PopMatrix restores the last pushed matrix. Popping an empty stack does nothing.
func (ts *TransformStack) PopMatrix() {
	if ts.counter > 0 {
		*ts.current() = ts.stack[ts.counter-1]
		ts.counter--
	}

	if ts.counter == 0 && ts.mode == metadata.MODELVIEW {
		ts.target = targetModelview
		ts.transformRequired = false
	}
}

// LoadIdentity resets the current matrix.
func (ts *TransformStack) LoadIdentity() {
	*ts.current() = math.NewMat4Identity()
}

func (ts *TransformStack) Translatef(x, y, z float32) {
	m := math.NewMat4Translation(math.NewVec3(x, y, z))
	*ts.current() = m.Mul(*ts.current())
}

// Rotatef rotates the current matrix by angle degrees around the given axis.
func (ts *TransformStack) Rotatef(angle, x, y, z float32) {
	m := math.NewMat4Rotation(math.NewVec3(x, y, z), math.DegToRad(angle))
	*ts.current() = m.Mul(*ts.current())
}

func (ts *TransformStack) Scalef(x, y, z float32) {
	m := math.NewMat4Scale(math.NewVec3(x, y, z))
	*ts.current() = m.Mul(*ts.current())
}

// MultMatrixf multiplies the current matrix by the 16 column-major values of matf.
func (ts *TransformStack) MultMatrixf(matf [16]float32) {
	m := math.Mat4{Data: matf}
	*ts.current() = ts.current().Mul(m)
}

func (ts *TransformStack) Frustum(left, right, bottom, top, znear, zfar float64) {
	m := math.NewMat4Frustum(float32(left), float32(right), float32(bottom), float32(top), float32(znear), float32(zfar))
	*ts.current() = ts.current().Mul(m)
}

func (ts *TransformStack) Ortho(left, right, bottom, top, znear, zfar float64) {
	m := math.NewMat4Orthographic(float32(left), float32(right), float32(bottom), float32(top), float32(znear), float32(zfar))
	*ts.current() = ts.current().Mul(m)
}

// MatrixModelview returns the base modelview matrix.
func (ts *TransformStack) MatrixModelview() math.Mat4 {
	return ts.modelview
}

func (ts *TransformStack) MatrixProjection() math.Mat4 {
	return ts.projection
}

// MatrixTransform returns the accumulator applied to vertices inside push/pop scopes.
func (ts *TransformStack) MatrixTransform() math.Mat4 {
	return ts.transform
}

func (ts *TransformStack) SetMatrixModelview(m math.Mat4) {
	ts.modelview = m
}

func (ts *TransformStack) SetMatrixProjection(m math.Mat4) {
	ts.projection = m
}

// TransformRequired reports whether submitted vertices go through MatrixTransform.
func (ts *TransformStack) TransformRequired() bool {
	return ts.transformRequired
}

// StackDepth returns the number of pushed matrices.
func (ts *TransformStack) StackDepth() int {
	return ts.counter
}

// CurrentMatrixMode returns the mode selected with MatrixMode.
func (ts *TransformStack) CurrentMatrixMode() metadata.MatrixMode {
	return ts.mode
}

// apply transforms a submitted vertex position when inside a push/pop scope.
func (ts *TransformStack) apply(position math.Vec3) math.Vec3 {
	if !ts.transformRequired {
		return position
	}
	return position.Transform(ts.transform)
}
