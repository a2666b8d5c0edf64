package metadata

/** @brief Maximum number of predefined locations stored per shader. */
const MAX_SHADER_LOCATIONS int = 32

/** @brief Indices into a shader location table. */
type ShaderLocationIndex int

const (
	SHADER_LOC_VERTEX_POSITION ShaderLocationIndex = iota
	SHADER_LOC_VERTEX_TEXCOORD01
	SHADER_LOC_VERTEX_TEXCOORD02
	SHADER_LOC_VERTEX_NORMAL
	SHADER_LOC_VERTEX_TANGENT
	SHADER_LOC_VERTEX_COLOR
	SHADER_LOC_MATRIX_MVP
	SHADER_LOC_MATRIX_VIEW
	SHADER_LOC_MATRIX_PROJECTION
	SHADER_LOC_MATRIX_MODEL
	SHADER_LOC_MATRIX_NORMAL
	SHADER_LOC_VECTOR_VIEW
	SHADER_LOC_COLOR_DIFFUSE
	SHADER_LOC_COLOR_SPECULAR
	SHADER_LOC_COLOR_AMBIENT
	SHADER_LOC_MAP_DIFFUSE
)

// Attribute and uniform names bound by the default shader.
const (
	ATTRIB_NAME_POSITION  string = "vertexPosition"
	ATTRIB_NAME_TEXCOORD  string = "vertexTexCoord"
	ATTRIB_NAME_COLOR     string = "vertexColor"
	UNIFORM_NAME_MVP      string = "mvp"
	UNIFORM_NAME_DIFFUSE  string = "colDiffuse"
	SAMPLER_NAME_TEXTURE0 string = "texture0"
)

/** @brief Vertex shader of the default program. */
const DEFAULT_VERTEX_SHADER string = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
out vec2 fragTexCoord;
out vec4 fragColor;
uniform mat4 mvp;
void main()
{
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    gl_Position = mvp*vec4(vertexPosition, 1.0);
}
`

/** @brief Fragment shader of the default program. */
const DEFAULT_FRAGMENT_SHADER string = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
void main()
{
    vec4 texelColor = texture(texture0, fragTexCoord);
    finalColor = texelColor*colDiffuse*fragColor;
}
`

/**
 * @brief A shader program and its location table.
 */
type Shader struct {
	/** @brief The backend program handle. */
	ID uint32
	/** @brief Locations indexed by ShaderLocationIndex, -1 when missing. */
	Locs []int32
}

/** @brief Returns a location table with every entry unset. */
func NewShaderLocations() []int32 {
	locs := make([]int32, MAX_SHADER_LOCATIONS)
	for i := range locs {
		locs[i] = -1
	}
	return locs
}
