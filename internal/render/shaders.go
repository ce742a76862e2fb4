package render

import (
	"os"
	"path/filepath"

	"xcomp/internal/xerr"
)

// ShaderLoader reads the four GLSL sources a DrawDescription compiles
// (spec §6.5: loaded from files relative to the CWD). Production uses
// FileShaderLoader; tests supply an in-memory stub.
type ShaderLoader interface {
	Load() (Shaders, error)
}

// FileShaderLoader reads default_{vs,fs}.glsl and present_{vs,fs}.glsl
// from Dir (spec §6.5: "./shaders/default_vs.glsl, etc.").
type FileShaderLoader struct {
	Dir string
}

// NewFileShaderLoader returns a loader rooted at "./shaders".
func NewFileShaderLoader() FileShaderLoader {
	return FileShaderLoader{Dir: "shaders"}
}

func (l FileShaderLoader) Load() (Shaders, error) {
	read := func(name string) (string, error) {
		data, err := os.ReadFile(filepath.Join(l.Dir, name))
		if err != nil {
			return "", xerr.Wrap(xerr.KindIoError, "read shader "+name, err)
		}
		return string(data), nil
	}

	windowVS, err := read("default_vs.glsl")
	if err != nil {
		return Shaders{}, err
	}
	windowFS, err := read("default_fs.glsl")
	if err != nil {
		return Shaders{}, err
	}
	presentVS, err := read("present_vs.glsl")
	if err != nil {
		return Shaders{}, err
	}
	presentFS, err := read("present_fs.glsl")
	if err != nil {
		return Shaders{}, err
	}

	return Shaders{
		WindowVS:  windowVS,
		WindowFS:  windowFS,
		PresentVS: presentVS,
		PresentFS: presentFS,
	}, nil
}

var _ ShaderLoader = FileShaderLoader{}
