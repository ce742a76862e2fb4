package render

import "xcomp/internal/xerr"

// DrawDescription is the static render pipeline built once per program
// lifetime: compiled programs, quad geometry, cached uniform locations,
// and the two ping-pong offscreen framebuffers (spec §3, §4.2).
type DrawDescription struct {
	quadVAO VaoId

	windowProgram  ProgramId
	presentProgram ProgramId

	winRectLoc    int32
	screenRectLoc int32
	winTextureLoc int32
	bgTextureLoc  int32

	screenTextureLoc int32

	targetFBO     FBOId
	targetTexture TextureId

	backgroundFBO     FBOId
	backgroundTexture TextureId
}

// QuadVAO returns the shared quad VAO, passed to each Window at
// construction by value (spec §9: "the DrawDescription's quad VAO is
// passed in at Window construction by value").
func (d *DrawDescription) QuadVAO() VaoId { return d.quadVAO }

// Shaders bundles the four GLSL sources a DrawDescription compiles
// (spec §6.5: window VS/FS, present VS/FS).
type Shaders struct {
	WindowVS, WindowFS   string
	PresentVS, PresentFS string
}

// NewDrawDescription validates verts/indices, compiles both programs,
// resolves the required uniforms, and allocates the quad and ping-pong
// FBOs (spec §4.2). Any validation failure is a ConfigError; shader
// failures surface as ShaderError via the backend.
func NewDrawDescription(backend GLBackend, verts []float32, indices []uint32, shaders Shaders, screenWidth, screenHeight uint16) (*DrawDescription, error) {
	if len(verts)%4 != 0 {
		return nil, xerr.New(xerr.KindConfigError, "vertex slice length must be a multiple of 4")
	}
	if len(verts) < 12 {
		return nil, xerr.New(xerr.KindConfigError, "vertex slice must describe at least 3 vertices")
	}
	if len(indices)%3 != 0 || len(indices) < 3 {
		return nil, xerr.New(xerr.KindConfigError, "index slice must describe at least one triangle")
	}
	vertCount := uint32(len(verts) / 4)
	for _, idx := range indices {
		if idx >= vertCount {
			return nil, xerr.New(xerr.KindConfigError, "index out of range of vertex slice")
		}
	}

	windowProgram, err := backend.CompileProgram(shaders.WindowVS, shaders.WindowFS)
	if err != nil {
		return nil, err
	}
	presentProgram, err := backend.CompileProgram(shaders.PresentVS, shaders.PresentFS)
	if err != nil {
		return nil, err
	}

	winRectLoc, err := backend.UniformLocation(windowProgram, "win_rect")
	if err != nil {
		return nil, err
	}
	screenRectLoc, err := backend.UniformLocation(windowProgram, "screen_rect")
	if err != nil {
		return nil, err
	}
	winTextureLoc, err := backend.UniformLocation(windowProgram, "win_texture")
	if err != nil {
		return nil, err
	}
	bgTextureLoc, err := backend.UniformLocation(windowProgram, "bg_texture")
	if err != nil {
		return nil, err
	}
	screenTextureLoc, err := backend.UniformLocation(presentProgram, "screen_texture")
	if err != nil {
		return nil, err
	}

	quadVAO, err := backend.CreateQuad(verts, indices)
	if err != nil {
		return nil, err
	}

	targetFBO, targetTex, err := backend.CreateOffscreenFBO(screenWidth, screenHeight)
	if err != nil {
		return nil, err
	}
	backgroundFBO, backgroundTex, err := backend.CreateOffscreenFBO(screenWidth, screenHeight)
	if err != nil {
		return nil, err
	}

	return &DrawDescription{
		quadVAO:           quadVAO,
		windowProgram:     windowProgram,
		presentProgram:    presentProgram,
		winRectLoc:        winRectLoc,
		screenRectLoc:     screenRectLoc,
		winTextureLoc:     winTextureLoc,
		bgTextureLoc:      bgTextureLoc,
		screenTextureLoc:  screenTextureLoc,
		targetFBO:         targetFBO,
		targetTexture:     targetTex,
		backgroundFBO:     backgroundFBO,
		backgroundTexture: backgroundTex,
	}, nil
}
