package renderer

import (
	"fmt"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

func (rc *RenderContext) loadShaderDefault() error {
	id, err := rc.backend.ShaderLoad(metadata.DEFAULT_VERTEX_SHADER, metadata.DEFAULT_FRAGMENT_SHADER)
	if err != nil || id == 0 {
		core.LogWarn("SHADER: Failed to load default shader")
		if err == nil {
			err = core.ErrShaderCompile
		}
		return fmt.Errorf("%w: %w", core.ErrDefaultShader, err)
	}

	locs := metadata.NewShaderLocations()
	locs[metadata.SHADER_LOC_VERTEX_POSITION] = rc.backend.ShaderAttribLocation(id, metadata.ATTRIB_NAME_POSITION)
	locs[metadata.SHADER_LOC_VERTEX_TEXCOORD01] = rc.backend.ShaderAttribLocation(id, metadata.ATTRIB_NAME_TEXCOORD)
	locs[metadata.SHADER_LOC_VERTEX_COLOR] = rc.backend.ShaderAttribLocation(id, metadata.ATTRIB_NAME_COLOR)
	locs[metadata.SHADER_LOC_MATRIX_MVP] = rc.backend.ShaderLocation(id, metadata.UNIFORM_NAME_MVP)
	locs[metadata.SHADER_LOC_COLOR_DIFFUSE] = rc.backend.ShaderLocation(id, metadata.UNIFORM_NAME_DIFFUSE)
	locs[metadata.SHADER_LOC_MAP_DIFFUSE] = rc.backend.ShaderLocation(id, metadata.SAMPLER_NAME_TEXTURE0)

	rc.defaultShader = metadata.Shader{ID: id, Locs: locs}
	core.LogInfo("SHADER: [ID %d] Default shader loaded successfully", id)
	return nil
}

// LoadShaderCode compiles a program from GLSL sources. An empty source uses
// the default stage. Compilation failures fall back to the default program,
// so the returned id is always usable.
func (rc *RenderContext) LoadShaderCode(vsCode, fsCode string) uint32 {
	if vsCode == "" && fsCode == "" {
		return rc.defaultShader.ID
	}
	if vsCode == "" {
		vsCode = metadata.DEFAULT_VERTEX_SHADER
	}
	if fsCode == "" {
		fsCode = metadata.DEFAULT_FRAGMENT_SHADER
	}

	id, err := rc.backend.ShaderLoad(vsCode, fsCode)
	if err != nil || id == 0 {
		if err == nil {
			err = core.ErrShaderCompile
		}
		core.LogWarn("SHADER: Failed to load custom shader code, using default shader: %s", err)
		return rc.defaultShader.ID
	}
	core.LogInfo("SHADER: [ID %d] Program shader loaded successfully", id)
	return id
}

// UnloadShaderProgram releases a program. The default program is kept.
func (rc *RenderContext) UnloadShaderProgram(id uint32) {
	if id == rc.defaultShader.ID {
		return
	}
	rc.backend.ShaderUnload(id)
	core.LogInfo("SHADER: [ID %d] Unloaded shader program data from VRAM (GPU)", id)
}

// SetShader makes id the program used by the next flush. Pending vertices are
// drawn with the previous program.
func (rc *RenderContext) SetShader(id uint32, locs []int32) {
	if rc.currentShader.ID == id {
		return
	}
	rc.DrawRenderBatch(rc.currentBatch)
	rc.currentShader = metadata.Shader{ID: id, Locs: locs}
}

// ResetShader goes back to the default program.
func (rc *RenderContext) ResetShader() {
	rc.SetShader(rc.defaultShader.ID, rc.defaultShader.Locs)
}

func (rc *RenderContext) ShaderIDDefault() uint32 {
	return rc.defaultShader.ID
}

func (rc *RenderContext) ShaderLocsDefault() []int32 {
	return rc.defaultShader.Locs
}

func (rc *RenderContext) CurrentShader() metadata.Shader {
	return rc.currentShader
}

func (rc *RenderContext) LocationUniform(shaderID uint32, uniformName string) int32 {
	return rc.backend.ShaderLocation(shaderID, uniformName)
}

func (rc *RenderContext) LocationAttrib(shaderID uint32, attribName string) int32 {
	return rc.backend.ShaderAttribLocation(shaderID, attribName)
}

func (rc *RenderContext) SetUniformMatrix(location int32, m math.Mat4) {
	rc.backend.SetUniformMatrix(location, m)
}

func (rc *RenderContext) SetUniformVec4(location int32, v math.Vec4) {
	rc.backend.SetUniformVec4(location, v)
}

func (rc *RenderContext) SetUniformInt(location int32, v int32) {
	rc.backend.SetUniformInt(location, v)
}

// SetUniformSampler binds textureID to an auxiliary texture unit for the next
// flush. Texture unit 0 is reserved for the draw call textures.
func (rc *RenderContext) SetUniformSampler(location int32, textureID uint32) {
	for _, id := range rc.activeTextureID {
		if id == textureID {
			return
		}
	}

	for i, id := range rc.activeTextureID {
		if id == 0 {
			rc.backend.SetUniformInt(location, int32(1+i))
			rc.activeTextureID[i] = textureID
			return
		}
	}
	core.LogWarn("SHADER: No free texture unit for texture [ID %d] (max %d)", textureID, len(rc.activeTextureID))
}

// ActiveTextureIDs returns the textures registered by SetUniformSampler.
func (rc *RenderContext) ActiveTextureIDs() []uint32 {
	return rc.activeTextureID
}
