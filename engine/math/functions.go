package math

import (
	"time"

	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI multiplied by 2. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

var rand_seeded bool = false

func ksin(x float32) float32 {
	return math32.Sin(x)
}

func kcos(x float32) float32 {
	return math32.Cos(x)
}

func ktan(x float32) float32 {
	return math32.Tan(x)
}

func ksqrt(x float32) float32 {
	return math32.Sqrt(x)
}

func kabs(x float32) float32 {
	return math32.Abs(x)
}

func seed() {
	if !rand_seeded {
		rand.Seed(uint64(time.Now().UnixNano()))
		rand_seeded = true
	}
}

// RandomInRange returns a pseudo-random integer in [min, max].
func RandomInRange(min, max int32) int32 {
	seed()
	if max <= min {
		return min
	}
	return rand.Int31n(max-min+1) + min
}

// FRandomInRange returns a pseudo-random float in [min, max).
func FRandomInRange(min, max float32) float32 {
	seed()
	return min + rand.Float32()*(max-min)
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @return A new 2-element vector.
 */
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

/**
 * @brief Creates and returns a 2-component vector with all components set to 0.0f.
 */
func NewVec2Zero() Vec2 {
	return Vec2{}
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @return A new 3-element vector.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.0f.
 */
func NewVec3Zero() Vec3 {
	return Vec3{}
}

/**
 * @brief Returns the squared length of the provided vector.
 */
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. Zero length and
 * already normalized vectors are returned unchanged.
 */
func (v Vec3) Normalized() Vec3 {
	lengthSquared := v.LengthSquared()
	if lengthSquared == 0 || lengthSquared == 1 {
		return v
	}
	inverseLength := 1.0 / ksqrt(lengthSquared)
	return Vec3{X: v.X * inverseLength, Y: v.Y * inverseLength, Z: v.Z * inverseLength}
}

/**
 * @brief Transform v by m. NOTE: It is assumed by this function that the
 * vector v is a point, not a direction, and is calculated as if a w component
 * with a value of 1.0f is there.
 *
 * @param v The vector to transform.
 * @param m The matrix to transform by.
 * @return A transformed copy of v.
 */
func (v Vec3) Transform(m Mat4) Vec3 {
	out := Vec3{}
	out.X = v.X*m.Data[0+0] + v.Y*m.Data[4+0] + v.Z*m.Data[8+0] + 1.0*m.Data[12+0]
	out.Y = v.X*m.Data[0+1] + v.Y*m.Data[4+1] + v.Z*m.Data[8+1] + 1.0*m.Data[12+1]
	out.Z = v.X*m.Data[0+2] + v.Y*m.Data[4+2] + v.Z*m.Data[8+2] + 1.0*m.Data[12+2]
	return out
}

/**
 * @brief Transform v by m including the perspective row and returns the
 * homogeneous result (clip space position for an MVP matrix).
 */
func (v Vec3) TransformHomogeneous(m Mat4) Vec4 {
	out := Vec4{}
	out.X = v.X*m.Data[0] + v.Y*m.Data[4] + v.Z*m.Data[8] + m.Data[12]
	out.Y = v.X*m.Data[1] + v.Y*m.Data[5] + v.Z*m.Data[9] + m.Data[13]
	out.Z = v.X*m.Data[2] + v.Y*m.Data[6] + v.Z*m.Data[10] + m.Data[14]
	out.W = v.X*m.Data[3] + v.Y*m.Data[7] + v.Z*m.Data[11] + m.Data[15]
	return out
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

/**
 * @brief Creates and returns a new 4-element vector using the supplied values.
 */
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief Creates and returns a 4-component vector with all components set to 1.0f.
 */
func NewVec4One() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

// ------------------------------------------
// Color
// ------------------------------------------

var (
	ColorWhite     = Color{R: 255, G: 255, B: 255, A: 255}
	ColorBlack     = Color{R: 0, G: 0, B: 0, A: 255}
	ColorRed       = Color{R: 230, G: 41, B: 55, A: 255}
	ColorGreen     = Color{R: 0, G: 228, B: 48, A: 255}
	ColorBlue      = Color{R: 0, G: 121, B: 241, A: 255}
	ColorYellow    = Color{R: 253, G: 249, B: 0, A: 255}
	ColorRayWhite  = Color{R: 245, G: 245, B: 245, A: 255}
	ColorDarkGray  = Color{R: 80, G: 80, B: 80, A: 255}
	ColorBlank     = Color{}
	ColorLightGray = Color{R: 200, G: 200, B: 200, A: 255}
)

/**
 * @brief Creates a colour from normalized [0, 1] channels.
 */
func NewColorFromFloats(r, g, b, a float32) Color {
	return Color{R: UnitToByte(r), G: UnitToByte(g), B: UnitToByte(b), A: UnitToByte(a)}
}

/**
 * @brief Returns the colour as normalized [0, 1] channels.
 */
func (c Color) Normalized() Vec4 {
	return Vec4{X: float32(c.R) / 255, Y: float32(c.G) / 255, Z: float32(c.B) / 255, W: float32(c.A) / 255}
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns the result of multiplying matrix_0 and matrix_1.
 * With column-major storage this composes `other` after `mt`, so
 * a.Mul(b) applied to a point equals applying a first and then b.
 *
 * @param matrix_0 The first matrix to be multiplied.
 * @param matrix_1 The second matrix to be multiplied.
 * @return The result of the matrix multiplication.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}

	return out_matrix
}

/**
 * @brief Creates and returns an orthographic projection matrix. Typically used to
 * render flat or 2D scenes.
 *
 * @param left The left side of the view frustum.
 * @param right The right side of the view frustum.
 * @param bottom The bottom side of the view frustum.
 * @param top The top side of the view frustum.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new orthographic projection matrix.
 */
func NewMat4Orthographic(left, right, bottom, top, near_clip, far_clip float32) Mat4 {
	out_matrix := NewMat4Identity()

	lr := 1.0 / (left - right)
	bt := 1.0 / (bottom - top)
	nf := 1.0 / (near_clip - far_clip)

	out_matrix.Data[0] = -2.0 * lr
	out_matrix.Data[5] = -2.0 * bt
	out_matrix.Data[10] = 2.0 * nf

	out_matrix.Data[12] = (left + right) * lr
	out_matrix.Data[13] = (top + bottom) * bt
	out_matrix.Data[14] = (far_clip + near_clip) * nf
	return out_matrix
}

/**
 * @brief Creates and returns a perspective matrix from the six planes of the
 * view frustum.
 */
func NewMat4Frustum(left, right, bottom, top, near_clip, far_clip float32) Mat4 {
	out_matrix := Mat4{}

	rl := right - left
	tb := top - bottom
	fn := far_clip - near_clip

	out_matrix.Data[0] = (near_clip * 2.0) / rl
	out_matrix.Data[5] = (near_clip * 2.0) / tb
	out_matrix.Data[8] = (right + left) / rl
	out_matrix.Data[9] = (top + bottom) / tb
	out_matrix.Data[10] = -(far_clip + near_clip) / fn
	out_matrix.Data[11] = -1.0
	out_matrix.Data[14] = -(far_clip * near_clip * 2.0) / fn
	return out_matrix
}

/**
 * @brief Creates and returns a perspective matrix. Typically used to render 3d scenes.
 *
 * @param fov_radians The field of view in radians.
 * @param aspect_ratio The aspect ratio.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new perspective matrix.
 */
func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float32) Mat4 {
	half_tan_fov := ktan(fov_radians * 0.5)
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 / (aspect_ratio * half_tan_fov)
	out_matrix.Data[5] = 1.0 / half_tan_fov
	out_matrix.Data[10] = -((far_clip + near_clip) / (far_clip - near_clip))
	out_matrix.Data[11] = -1.0
	out_matrix.Data[14] = -((2.0 * far_clip * near_clip) / (far_clip - near_clip))
	return out_matrix
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 *
 * @param position The position to be used to create the matrix.
 * @return A newly created translation matrix.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

/**
 * @brief Returns a scale matrix using the provided scale.
 *
 * @param scale The 3-component scale.
 * @return A scale matrix.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

/**
 * @brief Creates a right-handed rotation matrix around an arbitrary axis.
 * The axis is normalized when needed.
 *
 * @param axis The axis to rotate around.
 * @param angle_radians The angle in radians.
 * @return A rotation matrix.
 */
func NewMat4Rotation(axis Vec3, angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()

	a := axis.Normalized()
	x, y, z := a.X, a.Y, a.Z

	sinres := ksin(angle_radians)
	cosres := kcos(angle_radians)
	t := 1.0 - cosres

	out_matrix.Data[0] = x*x*t + cosres
	out_matrix.Data[1] = y*x*t + z*sinres
	out_matrix.Data[2] = z*x*t - y*sinres

	out_matrix.Data[4] = x*y*t - z*sinres
	out_matrix.Data[5] = y*y*t + cosres
	out_matrix.Data[6] = z*y*t + x*sinres

	out_matrix.Data[8] = x*z*t + y*sinres
	out_matrix.Data[9] = y*z*t - x*sinres
	out_matrix.Data[10] = z*z*t + cosres
	return out_matrix
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 *
 * @param matrix The matrix to be transposed.
 * @return A transposed copy of of the provided matrix.
 */
func NewMat4Transposed(matrix Mat4) Mat4 {
	out_matrix := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out_matrix.Data[row*4+col] = matrix.Data[col*4+row]
		}
	}
	return out_matrix
}

/**
 * @brief Compares all the elements of two matrices within the given tolerance.
 */
func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := 0; i < 16; i++ {
		if kabs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

/**
 * @brief Converts provided degrees to radians.
 *
 * @param degrees The degrees to be converted.
 * @return The amount in radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 *
 * @param radians The radians to be converted.
 * @return The amount in degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}
