package render

import "xcomp/internal/xerr"

// FakeBackend is a recording GLBackend used by every test in this
// package — no real GL context runs under `go test`. It hands out
// monotonically increasing object names, counts draw calls (spec §8
// property 6) and records the texture bound on each unit; the
// BindTexImage/ReleaseTexImage counts live on FakeDisplay.
type FakeBackend struct {
	nextID uint32

	// MissingUniforms lets a test simulate a shader missing a required
	// uniform (spec §4.2 ConfigError path).
	MissingUniforms map[string]bool
	// FailCompile lets a test simulate a shader compile/link failure.
	FailCompile bool

	DrawCalls      int
	CurrentProgram ProgramId
	CurrentVAO     VaoId
	CurrentFBO     FBOId
	BoundTextures  map[int]TextureId
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{nextID: 1, BoundTextures: map[int]TextureId{}}
}

func (f *FakeBackend) alloc() uint32 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *FakeBackend) CompileProgram(vsSource, fsSource string) (ProgramId, error) {
	if f.FailCompile {
		return 0, xerr.New(xerr.KindShaderError, "fake link failure")
	}
	return ProgramId(f.alloc()), nil
}

func (f *FakeBackend) UniformLocation(p ProgramId, name string) (int32, error) {
	if f.MissingUniforms[name] {
		return -1, xerr.New(xerr.KindConfigError, "missing uniform "+name)
	}
	return int32(f.alloc()), nil
}

func (f *FakeBackend) CreateQuad(verts []float32, indices []uint32) (VaoId, error) {
	return VaoId(f.alloc()), nil
}

func (f *FakeBackend) CreateOffscreenFBO(width, height uint16) (FBOId, TextureId, error) {
	return FBOId(f.alloc()), TextureId(f.alloc()), nil
}

func (f *FakeBackend) GenTexture() (TextureId, error) { return TextureId(f.alloc()), nil }

func (f *FakeBackend) SetTextureWrapRepeatFilterNearest(TextureId) {}
func (f *FakeBackend) DeleteTexture(TextureId)                    {}

func (f *FakeBackend) UseProgram(p ProgramId) { f.CurrentProgram = p }
func (f *FakeBackend) BindVAO(v VaoId)        { f.CurrentVAO = v }
func (f *FakeBackend) BindFBO(fb FBOId)       { f.CurrentFBO = fb }
func (f *FakeBackend) BindDefaultFBO()        { f.CurrentFBO = 0 }
func (f *FakeBackend) BindTexture2D(unit int, tex TextureId) {
	f.BoundTextures[unit] = tex
}

func (f *FakeBackend) SetUniform1i(int32, int32)         {}
func (f *FakeBackend) SetUniform2f(int32, float32, float32) {}
func (f *FakeBackend) SetUniform4f(int32, [4]float32)    {}

func (f *FakeBackend) ClearBlack()        {}
func (f *FakeBackend) DisableDepthTest()  {}
func (f *FakeBackend) DrawQuad()          { f.DrawCalls++ }

var _ GLBackend = (*FakeBackend)(nil)
