// Package glenv is the GLX capability the core renders through (spec
// §6.2). GLX itself has no pure-Go binding anywhere in the ecosystem —
// every GLX-using example in the reference corpus reaches it through
// cgo against libGL/libX11 — so this package is a small cgo wrapper
// (glx_linux.go) behind the Display interface declared here, keeping
// "C" out of every other package (Design Notes §9: GL context and
// function loader are process-singletons, modeled as an injected
// environment created once in the bootstrap collaborator).
package glenv

import "xcomp/internal/xserver"

// TextureId and VaoId are GL object names (GLuint); GLDrawableId is a
// GLXPixmap handle, the GL-side binding of a server pixmap.
type TextureId uint32
type VaoId uint32
type GLDrawableId uint32

// FBConfig is an opaque handle to a chosen GLXFBConfig satisfying the
// attribute list in spec §6.2 (pixmap-drawable, true-color, RGBA 8888,
// BIND_TO_TEXTURE_RGBA, TEXTURE_2D target, doublebuffered, WINDOW_BIT
// for the overlay).
type FBConfig struct{ handle uintptr }

// Context is an opaque GLX 3.3 Core context handle.
type Context struct{ handle uintptr }

// PixmapAttribs names the GLX pixmap attributes spec §6.2 requires:
// TEXTURE_TARGET=TEXTURE_2D, TEXTURE_FORMAT=TEXTURE_FORMAT_RGBA.
type PixmapAttribs struct {
	TextureTarget int32
	TextureFormat int32
}

// GLX_TEXTURE_2D_EXT / GLX_TEXTURE_FORMAT_RGBA_EXT from GLX_EXT_texture_from_pixmap.
const (
	glxTextureTarget2D    int32 = 0x20DC
	glxTextureFormatRGBA  int32 = 0x20DA
)

// DefaultPixmapAttribs is the attribute list spec §6.2 names verbatim.
var DefaultPixmapAttribs = PixmapAttribs{
	TextureTarget: glxTextureTarget2D,
	TextureFormat: glxTextureFormatRGBA,
}

// Display is the GLX capability surface. A production Display is opened
// once in cmd/xcomp's bootstrap and handed to internal/render; tests use
// a recording fake (internal/render.FakeDisplay) since no GL context runs
// under `go test`.
type Display interface {
	// ChooseFBConfig selects the single FB config spec §6.2 describes.
	ChooseFBConfig() (FBConfig, error)
	// CreateContext creates a 3.3 Core context for fbc and makes it
	// current against overlay (spec §6.2).
	CreateContext(fbc FBConfig, overlay xserver.WindowId) (Context, error)

	// CreatePixmap binds a server pixmap as a GLX pixmap drawable using
	// attrs, ready for BindTexImage (spec §6.2, §4.5 acquire).
	CreatePixmap(fbc FBConfig, pixmap xserver.PixmapId, attrs PixmapAttribs) (GLDrawableId, error)
	DestroyPixmap(d GLDrawableId) error

	// BindTexImage/ReleaseTexImage must be scoped tightly around the
	// draw call that samples the window (spec §4.6); they are never
	// kept bound across frames.
	BindTexImage(d GLDrawableId) error
	ReleaseTexImage(d GLDrawableId) error

	SwapBuffers(overlay xserver.WindowId) error

	Close() error
}
