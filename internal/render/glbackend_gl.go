//go:build linux

package render

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"xcomp/internal/xerr"
)

// glBackend is the production GLBackend, a thin wrapper over
// github.com/go-gl/gl/v3.3-core/gl — the Core-profile binding spec
// §6.2 names. It assumes a context is already current (made current by
// glenv.Display's CreateContext) and that NewGLBackend has run gl.Init().
type glBackend struct{}

// NewGLBackend initializes the GL function pointers for the current
// context and returns the production backend. Call once, after
// glenv.Display.CreateContext.
func NewGLBackend() (GLBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, xerr.Wrap(xerr.KindConfigError, "gl.Init", err)
	}
	return glBackend{}, nil
}

func (glBackend) CompileProgram(vsSource, fsSource string) (ProgramId, error) {
	vs, err := compileShader(vsSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fsSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, xerr.New(xerr.KindShaderError, log)
	}
	return ProgramId(prog), nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, xerr.New(xerr.KindShaderError, log)
	}
	return shader, nil
}

func (glBackend) UniformLocation(p ProgramId, name string) (int32, error) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	if loc < 0 {
		return -1, xerr.New(xerr.KindConfigError, "missing uniform "+name)
	}
	return loc, nil
}

func (glBackend) CreateQuad(verts []float32, indices []uint32) (VaoId, error) {
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	const stride = 4 * 4 // (x,y,u,v) float32
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return VaoId(vao), nil
}

func (glBackend) CreateOffscreenFBO(width, height uint16) (FBOId, TextureId, error) {
	var fbo, tex uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, int32(width), int32(height), 0, gl.RGB, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return 0, 0, xerr.New(xerr.KindConfigError, "offscreen framebuffer incomplete")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return FBOId(fbo), TextureId(tex), nil
}

func (glBackend) GenTexture() (TextureId, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	return TextureId(tex), nil
}

// SetTextureWrapRepeatFilterNearest applies REPEAT/NEAREST — NEAREST
// chosen deliberately for 1:1 pixel correspondence; LINEAR blurred the
// composited window content (spec §4.5).
func (glBackend) SetTextureWrapRepeatFilterNearest(tex TextureId) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
}

func (glBackend) DeleteTexture(tex TextureId) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
}

func (glBackend) UseProgram(p ProgramId)   { gl.UseProgram(uint32(p)) }
func (glBackend) BindVAO(v VaoId)          { gl.BindVertexArray(uint32(v)) }
func (glBackend) BindFBO(f FBOId)          { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f)) }
func (glBackend) BindDefaultFBO()          { gl.BindFramebuffer(gl.FRAMEBUFFER, 0) }

func (glBackend) BindTexture2D(unit int, tex TextureId) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (glBackend) SetUniform1i(loc int32, v int32)            { gl.Uniform1i(loc, v) }
func (glBackend) SetUniform2f(loc int32, x, y float32)       { gl.Uniform2f(loc, x, y) }
func (glBackend) SetUniform4f(loc int32, v [4]float32)       { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (glBackend) ClearBlack() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (glBackend) DisableDepthTest() { gl.Disable(gl.DEPTH_TEST) }

func (glBackend) DrawQuad() {
	gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_INT, nil)
}

var _ GLBackend = glBackend{}
