package render

import (
	"errors"
	"testing"

	"xcomp/internal/xerr"
)

func testShaders() Shaders {
	return Shaders{
		WindowVS:  "window-vs", WindowFS: "window-fs",
		PresentVS: "present-vs", PresentFS: "present-fs",
	}
}

// quadVerts mirrors the spec's literal example: 4 vertices (x,y,u,v);
// the tests pass its 2 triangles (0,1,2 / 2,1,3) as inline index slices.
func quadVerts() []float32 {
	return []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		0, 1, 0, 1,
		1, 1, 1, 1,
	}
}

func TestNewDrawDescriptionSucceeds(t *testing.T) {
	backend := NewFakeBackend()
	dd, err := NewDrawDescription(backend, quadVerts(), []uint32{0, 1, 2, 2, 1, 3}, testShaders(), 800, 600)
	if err != nil {
		t.Fatalf("NewDrawDescription: %v", err)
	}
	if dd.quadVAO == 0 {
		t.Fatal("quad VAO not allocated")
	}
	if dd.targetFBO == 0 || dd.backgroundFBO == 0 {
		t.Fatal("ping-pong FBOs not allocated")
	}
	if dd.targetFBO == dd.backgroundFBO {
		t.Fatal("target and background FBO must be distinct")
	}
}

func TestDrawDescriptionVertexCountNotMultipleOf4(t *testing.T) {
	backend := NewFakeBackend()
	_, err := NewDrawDescription(backend, []float32{0, 0, 0}, []uint32{0, 1, 2}, testShaders(), 100, 100)
	assertConfigError(t, err)
}

func TestDrawDescriptionTooFewVerts(t *testing.T) {
	backend := NewFakeBackend()
	_, err := NewDrawDescription(backend, []float32{0, 0, 0, 0}, []uint32{0, 0, 0}, testShaders(), 100, 100)
	assertConfigError(t, err)
}

func TestDrawDescriptionIndexCountNotMultipleOf3(t *testing.T) {
	backend := NewFakeBackend()
	_, err := NewDrawDescription(backend, quadVerts(), []uint32{0, 1}, testShaders(), 100, 100)
	assertConfigError(t, err)
}

// TestDrawDescriptionIndexBoundary reproduces spec §8's literal
// boundary case: verts.len()=12 (3 vertices), indices=[0,1,2] succeeds,
// indices=[0,1,3] fails (index 3 is out of range of 3 vertices).
func TestDrawDescriptionIndexBoundary(t *testing.T) {
	verts := []float32{0, 0, 0, 0, 1, 0, 1, 0, 0, 1, 0, 1}

	backend := NewFakeBackend()
	if _, err := NewDrawDescription(backend, verts, []uint32{0, 1, 2}, testShaders(), 100, 100); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	backend2 := NewFakeBackend()
	_, err := NewDrawDescription(backend2, verts, []uint32{0, 1, 3}, testShaders(), 100, 100)
	assertConfigError(t, err)
}

func TestDrawDescriptionShaderCompileFailure(t *testing.T) {
	backend := NewFakeBackend()
	backend.FailCompile = true
	_, err := NewDrawDescription(backend, quadVerts(), []uint32{0, 1, 2, 2, 1, 3}, testShaders(), 100, 100)
	var ce *xerr.CompError
	if !errors.As(err, &ce) || ce.Kind != xerr.KindShaderError {
		t.Fatalf("expected ShaderError, got %v", err)
	}
}

func TestDrawDescriptionMissingUniform(t *testing.T) {
	backend := NewFakeBackend()
	backend.MissingUniforms = map[string]bool{"win_rect": true}
	_, err := NewDrawDescription(backend, quadVerts(), []uint32{0, 1, 2, 2, 1, 3}, testShaders(), 100, 100)
	if err == nil {
		t.Fatal("expected an error for a missing uniform")
	}
}

func assertConfigError(t *testing.T, err error) {
	t.Helper()
	var ce *xerr.CompError
	if !errors.As(err, &ce) || ce.Kind != xerr.KindConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
