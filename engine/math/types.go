package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 matrix stored column-major: element (row, col) lives at
 * Data[col*4+row], so the translation part is Data[12], Data[13], Data[14].
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief An 8-bit per channel RGBA colour, the per-vertex colour format
 * written into the batch vertex buffers.
 */
type Color struct {
	R, G, B, A uint8
}

/**
 * @brief Represents a single vertex as accumulated by the immediate-mode batch.
 */
type Vertex struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
	/** @brief The colour of the vertex. */
	Color Color
}

/**
 * @brief An axis aligned rectangle, used for viewports, scissor areas and
 * glyph source regions.
 */
type Rectangle struct {
	X, Y, Width, Height float32
}
