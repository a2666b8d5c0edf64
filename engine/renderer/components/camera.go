package components

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/rlgo/engine/math"
)

/**
 * @brief A 2D camera. The view matrix moves Target to Offset on screen,
 * rotated by Rotation degrees around it and scaled by Zoom.
 */
type Camera2D struct {
	/**
	 * @brief Screen position the target is drawn at.
	 * NOTE: Do not set this directly, use SetOffset() instead
	 * so the view matrix is recalculated when needed.
	 */
	Offset math.Vec2
	/** @brief World position the camera looks at. */
	Target math.Vec2
	/** @brief Rotation in degrees. */
	Rotation float32
	/** @brief Scale factor, 1 draws the world unscaled. */
	Zoom float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead.
	 */
	ViewMatrix math.Mat4
}

func NewCamera2D() *Camera2D {
	camera := &Camera2D{}
	camera.Reset()
	return camera
}

func (c *Camera2D) Reset() {
	c.Offset = math.NewVec2Zero()
	c.Target = math.NewVec2Zero()
	c.Rotation = 0
	c.Zoom = 1
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera2D) SetOffset(offset math.Vec2) {
	c.Offset = offset
	c.IsDirty = true
}

func (c *Camera2D) SetTarget(target math.Vec2) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera2D) SetRotation(degrees float32) {
	c.Rotation = degrees
	c.IsDirty = true
}

func (c *Camera2D) SetZoom(zoom float32) {
	c.Zoom = zoom
	c.IsDirty = true
}

// Move shifts the target by delta world units.
func (c *Camera2D) Move(delta math.Vec2) {
	c.Target = math.NewVec2(c.Target.X+delta.X, c.Target.Y+delta.Y)
	c.IsDirty = true
}

/**
 * @brief Returns the view matrix: translate by -Target, scale, rotate,
 * then translate by Offset.
 */
func (c *Camera2D) GetView() math.Mat4 {
	if c.IsDirty {
		origin := math.NewMat4Translation(math.NewVec3(-c.Target.X, -c.Target.Y, 0))
		scale := math.NewMat4Scale(math.NewVec3(c.Zoom, c.Zoom, 1))
		rotation := math.NewMat4Rotation(math.NewVec3(0, 0, 1), math.DegToRad(c.Rotation))
		translation := math.NewMat4Translation(math.NewVec3(c.Offset.X, c.Offset.Y, 0))

		c.ViewMatrix = origin.Mul(scale).Mul(rotation).Mul(translation)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// WorldToScreen returns where a world position is drawn.
func (c *Camera2D) WorldToScreen(position math.Vec2) math.Vec2 {
	p := math.NewVec3(position.X, position.Y, 0).Transform(c.GetView())
	return math.NewVec2(p.X, p.Y)
}

// ScreenToWorld is the inverse of WorldToScreen. A zero zoom maps every
// screen position to the target.
func (c *Camera2D) ScreenToWorld(position math.Vec2) math.Vec2 {
	if c.Zoom == 0 {
		return c.Target
	}
	x := (position.X - c.Offset.X) / c.Zoom
	y := (position.Y - c.Offset.Y) / c.Zoom

	angle := math.DegToRad(c.Rotation)
	sin, cos := math32.Sin(angle), math32.Cos(angle)
	return math.NewVec2(
		c.Target.X+x*cos+y*sin,
		c.Target.Y-x*sin+y*cos,
	)
}
