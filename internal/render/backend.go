// Package render owns the static draw pipeline (DrawDescription) and the
// per-frame compositing algorithm (Compositor), spec §4.2 and §4.5.
//
// Everything that is not GLX-specific — shader compilation, VAO/VBO/EBO
// and FBO allocation, uniform setting, draw calls — goes through the
// GLBackend interface below, backed in production by
// github.com/go-gl/gl/v3.3-core/gl (glbackend_gl.go) and in tests by a
// recording FakeBackend, since `go test` never has a live GL context.
package render

import "xcomp/internal/glenv"

// VaoId and TextureId are GL object names; declared in glenv since
// package window needs to name them too (Window.VAO, Resources.Texture).
type VaoId = glenv.VaoId
type TextureId = glenv.TextureId

// ProgramId and FBOId are GL object names (GLuint).
type ProgramId uint32
type FBOId uint32

// GLBackend is the desktop-GL capability the draw pipeline and
// compositor use for everything except GLX itself (pixmap binding,
// BindTexImage/ReleaseTexImage, SwapBuffers — see internal/glenv).
type GLBackend interface {
	// CompileProgram compiles and links vsSource/fsSource. On failure
	// it returns the captured info log as the error's message (spec
	// §4.2: "capture info log, surface as ShaderError(log)").
	CompileProgram(vsSource, fsSource string) (ProgramId, error)
	// UniformLocation resolves a uniform name. A negative location is
	// treated as "missing uniform X" (spec §4.2).
	UniformLocation(p ProgramId, name string) (int32, error)

	// CreateQuad allocates a VAO/VBO/EBO triple with STATIC_DRAW data
	// (spec §4.2).
	CreateQuad(verts []float32, indices []uint32) (VaoId, error)
	// CreateOffscreenFBO allocates an FBO with an RGB, NEAREST-filtered
	// color attachment of the given size (spec §3 DrawDescription).
	CreateOffscreenFBO(width, height uint16) (FBOId, TextureId, error)

	GenTexture() (TextureId, error)
	// SetTextureWrapRepeatFilterNearest applies the wrap/filter policy
	// spec §4.5 requires for window textures (REPEAT wrap, NEAREST
	// filter — "LINEAR was observed to blur and is disabled").
	SetTextureWrapRepeatFilterNearest(tex TextureId)
	DeleteTexture(tex TextureId)

	UseProgram(p ProgramId)
	BindVAO(v VaoId)
	BindFBO(f FBOId)
	BindDefaultFBO()
	BindTexture2D(unit int, tex TextureId)

	SetUniform1i(loc int32, v int32)
	SetUniform2f(loc int32, x, y float32)
	SetUniform4f(loc int32, v [4]float32)

	ClearBlack()
	DisableDepthTest()
	DrawQuad()
}
