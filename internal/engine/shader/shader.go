// Package shader provides OpenGL shader programs.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/render"
)

// Program is a linked shader program of one kind. It implements render.Shader.
type Program struct {
	id   uint32
	kind render.Kind
	locs map[string]int32
}

// NewProgram compiles and links a program and resolves every uniform its kind uses.
// Uniforms the compiler optimised away resolve to -1, which GL ignores.
func NewProgram(kind render.Kind, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", kind, err)
	}

	p := &Program{id: id, kind: kind, locs: make(map[string]int32)}
	for _, name := range kind.Uniforms() {
		loc := uniformLocation(id, name)
		p.locs[name] = loc
		if loc < 0 {
			logger.Debug("inactive uniform", zap.Stringer("kind", kind), zap.String("name", name))
		}
	}
	logger.Debug("shader program linked", zap.Stringer("kind", kind), zap.Uint32("program", id))
	return p, nil
}

// Kind returns the program's kind.
func (p *Program) Kind() render.Kind { return p.kind }

// Activate selects the program for subsequent draws.
func (p *Program) Activate() {
	gl.UseProgram(p.id)
}

// Set assigns a uniform of the active program. Names outside the kind are ignored.
func (p *Program) Set(name string, value any) {
	loc, ok := p.locs[name]
	if !ok {
		logger.Warn("uniform not in program kind", zap.Stringer("kind", p.kind), zap.String("name", name))
		return
	}
	if loc < 0 {
		return
	}

	switch v := value.(type) {
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case int:
		gl.Uniform1i(loc, int32(v))
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case [2]int32:
		gl.Uniform2i(loc, v[0], v[1])
	case mgl32.Vec2:
		gl.Uniform2f(loc, v[0], v[1])
	case mgl32.Vec3:
		gl.Uniform3f(loc, v[0], v[1], v[2])
	case mgl32.Vec4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	default:
		logger.Warn("unsupported uniform type",
			zap.String("name", name),
			zap.String("type", fmt.Sprintf("%T", value)),
		)
	}
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
