package software

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

var (
	uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)
	attribDecl  = regexp.MustCompile(`(?m)^\s*(?:in|attribute)\s+\w+\s+(\w+)\s*;`)
)

// program is a linked shader. The rasterizer does not run GLSL: fragments are
// always vertex colour * texture0 * colDiffuse, and the declared uniforms only
// provide the locations and the values that feed that pipeline.
type program struct {
	uniforms map[string]int32
	attribs  map[string]int32

	matrices map[int32]math.Mat4
	vectors  map[int32]math.Vec4
	ints     map[int32]int32
}

// ShaderLoad checks that both stages declare an entry point and assigns
// uniform and attribute locations in declaration order.
func (sr *SoftwareRenderer) ShaderLoad(vsCode, fsCode string) (uint32, error) {
	if !strings.Contains(vsCode, "void main") {
		return 0, fmt.Errorf("%w: vertex shader has no entry point", core.ErrShaderCompile)
	}
	if !strings.Contains(fsCode, "void main") {
		return 0, fmt.Errorf("%w: fragment shader has no entry point", core.ErrShaderCompile)
	}

	p := &program{
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
		matrices: make(map[int32]math.Mat4),
		vectors:  make(map[int32]math.Vec4),
		ints:     make(map[int32]int32),
	}
	for _, src := range []string{vsCode, fsCode} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := p.uniforms[m[1]]; !ok {
				p.uniforms[m[1]] = int32(len(p.uniforms))
			}
		}
	}
	for _, m := range attribDecl.FindAllStringSubmatch(vsCode, -1) {
		p.attribs[m[1]] = int32(len(p.attribs))
	}

	id := sr.ids.AquireNewID(p)
	sr.programs[id] = p
	core.LogDebug("SOFTWARE: [ID %d] Program linked, %d uniforms, %d attributes", id, len(p.uniforms), len(p.attribs))
	return id, nil
}

func (sr *SoftwareRenderer) ShaderUnload(id uint32) {
	if _, ok := sr.programs[id]; !ok {
		return
	}
	delete(sr.programs, id)
	if sr.program == id {
		sr.program = 0
	}
	if err := sr.ids.ReleaseID(id); err != nil {
		core.LogError("SOFTWARE: %s", err)
	}
}

func (sr *SoftwareRenderer) ShaderLocation(id uint32, uniformName string) int32 {
	if p, ok := sr.programs[id]; ok {
		if loc, ok := p.uniforms[uniformName]; ok {
			return loc
		}
	}
	return -1
}

func (sr *SoftwareRenderer) ShaderAttribLocation(id uint32, attribName string) int32 {
	if p, ok := sr.programs[id]; ok {
		if loc, ok := p.attribs[attribName]; ok {
			return loc
		}
	}
	return -1
}

func (sr *SoftwareRenderer) UseShader(id uint32) {
	sr.program = id
}

// current returns the program in use, nil when none is.
func (sr *SoftwareRenderer) current() *program {
	return sr.programs[sr.program]
}

func (sr *SoftwareRenderer) SetUniformMatrix(location int32, m math.Mat4) {
	if p := sr.current(); p != nil && location >= 0 {
		p.matrices[location] = m
	}
}

func (sr *SoftwareRenderer) SetUniformVec4(location int32, v math.Vec4) {
	if p := sr.current(); p != nil && location >= 0 {
		p.vectors[location] = v
	}
}

func (sr *SoftwareRenderer) SetUniformInt(location int32, v int32) {
	if p := sr.current(); p != nil && location >= 0 {
		p.ints[location] = v
	}
}

// mvp returns the transform of the program, identity when unset.
func (p *program) mvp() math.Mat4 {
	if loc, ok := p.uniforms[metadata.UNIFORM_NAME_MVP]; ok {
		if m, ok := p.matrices[loc]; ok {
			return m
		}
	}
	return math.NewMat4Identity()
}

func (p *program) diffuse() math.Vec4 {
	if loc, ok := p.uniforms[metadata.UNIFORM_NAME_DIFFUSE]; ok {
		if v, ok := p.vectors[loc]; ok {
			return v
		}
	}
	return math.NewVec4One()
}

// samplerUnit returns the texture unit read by texture0.
func (p *program) samplerUnit() int32 {
	if loc, ok := p.uniforms[metadata.SAMPLER_NAME_TEXTURE0]; ok {
		return p.ints[loc]
	}
	return 0
}
