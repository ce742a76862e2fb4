//go:build linux

package glenv

/*
#cgo linux LDFLAGS: -lGL -lX11
#define GLX_GLXEXT_PROTOTYPES 1
#include <X11/Xlib.h>
#include <GL/glx.h>
#include <stdlib.h>

// glXCreatePixmap's attrib list and glXChooseFBConfig's attrib list are
// built on the Go side and passed through as int arrays; these thin
// wrappers exist only to keep cgo call sites out of the .go file body
// below so the unsafe.Pointer plumbing stays in one place.
static GLXFBConfig choose_fbconfig(Display *dpy, int screen, int *attribs, int *count) {
	GLXFBConfig *configs = glXChooseFBConfig(dpy, screen, attribs, count);
	if (configs == NULL || *count == 0) {
		return NULL;
	}
	GLXFBConfig chosen = configs[0];
	XFree(configs);
	return chosen;
}
*/
import "C"

import (
	"unsafe"

	"xcomp/internal/xerr"
	"xcomp/internal/xserver"
)

// glxDisplay wraps a dedicated Xlib connection opened purely so libGL
// has the Display* that every glX* entry point expects; the rest of the
// core talks to the server over the xgb protocol connection in
// internal/xserver. Keeping the two connections separate mirrors what
// compositors written against a pure-Go X protocol library generally do
// (xgb has no Xlib Display of its own to hand to libGL).
type glxDisplay struct {
	dpy    *C.Display
	screen C.int
}

// Open starts a dedicated Xlib connection to the default display for
// GLX use. Call once, from the bootstrap collaborator.
func Open() (Display, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, xerr.New(xerr.KindConnectionError, "XOpenDisplay failed")
	}
	return &glxDisplay{dpy: dpy, screen: C.XDefaultScreen(dpy)}, nil
}

// fbAttribs is the fixed attribute list spec §6.2 requires: pixmap
// drawable, X-renderable, true-color, RGBA 8/8/8/8, buffer size 32, no
// depth/stencil, bind-to-texture RGBA, TEXTURE_2D target, doublebuffer,
// WINDOW_BIT included (the overlay is a window, the per-window
// drawables are pixmaps — one FB config must satisfy both).
func fbAttribs() []C.int {
	return []C.int{
		C.GLX_DRAWABLE_TYPE, C.GLX_PIXMAP_BIT | C.GLX_WINDOW_BIT,
		C.GLX_RENDER_TYPE, C.GLX_RGBA_BIT,
		C.GLX_X_RENDERABLE, C.True,
		C.GLX_X_VISUAL_TYPE, C.GLX_TRUE_COLOR,
		C.GLX_RED_SIZE, 8,
		C.GLX_GREEN_SIZE, 8,
		C.GLX_BLUE_SIZE, 8,
		C.GLX_ALPHA_SIZE, 8,
		C.GLX_DEPTH_SIZE, 0,
		C.GLX_STENCIL_SIZE, 0,
		C.GLX_BUFFER_SIZE, 32,
		C.GLX_DOUBLEBUFFER, C.True,
		C.GLX_BIND_TO_TEXTURE_RGBA_EXT, C.True,
		C.GLX_BIND_TO_TEXTURE_TARGETS_EXT, C.GLX_TEXTURE_2D_BIT_EXT,
		C.GLX_Y_INVERTED_EXT, C.GLX_DONT_CARE,
		0, // terminator
	}
}

func (g *glxDisplay) ChooseFBConfig() (FBConfig, error) {
	attribs := fbAttribs()
	var count C.int
	cfg := C.choose_fbconfig(g.dpy, g.screen, &attribs[0], &count)
	if cfg == nil {
		return FBConfig{}, xerr.New(xerr.KindConfigError, "no GLXFBConfig satisfies the required attribute list")
	}
	return FBConfig{handle: uintptr(unsafe.Pointer(cfg))}, nil
}

func (g *glxDisplay) CreateContext(fbc FBConfig, overlay xserver.WindowId) (Context, error) {
	cfg := C.GLXFBConfig(unsafe.Pointer(fbc.handle)) //nolint:unsafe -- opaque handle round-trip
	contextAttribs := []C.int{
		C.GLX_CONTEXT_MAJOR_VERSION_ARB, 3,
		C.GLX_CONTEXT_MINOR_VERSION_ARB, 3,
		C.GLX_CONTEXT_PROFILE_MASK_ARB, C.GLX_CONTEXT_CORE_PROFILE_BIT_ARB,
		0,
	}
	ctx := C.glXCreateContextAttribsARB(g.dpy, cfg, nil, C.True, &contextAttribs[0])
	if ctx == nil {
		return Context{}, xerr.New(xerr.KindConfigError, "glXCreateContextAttribsARB failed")
	}
	drawable := C.GLXDrawable(C.Window(overlay))
	if C.glXMakeCurrent(g.dpy, drawable, ctx) == 0 {
		return Context{}, xerr.New(xerr.KindConfigError, "glXMakeCurrent failed")
	}
	return Context{handle: uintptr(unsafe.Pointer(ctx))}, nil
}

func (g *glxDisplay) CreatePixmap(fbc FBConfig, pixmap xserver.PixmapId, attrs PixmapAttribs) (GLDrawableId, error) {
	cfg := C.GLXFBConfig(unsafe.Pointer(fbc.handle))
	pixAttribs := []C.int{
		C.GLX_TEXTURE_TARGET_EXT, C.int(attrs.TextureTarget),
		C.GLX_TEXTURE_FORMAT_EXT, C.int(attrs.TextureFormat),
		0,
	}
	glxPixmap := C.glXCreatePixmap(g.dpy, cfg, C.Pixmap(pixmap), &pixAttribs[0])
	if glxPixmap == 0 {
		return 0, xerr.New(xerr.KindConfigError, "glXCreatePixmap failed")
	}
	return GLDrawableId(glxPixmap), nil
}

func (g *glxDisplay) DestroyPixmap(d GLDrawableId) error {
	C.glXDestroyPixmap(g.dpy, C.GLXPixmap(d))
	return nil
}

func (g *glxDisplay) BindTexImage(d GLDrawableId) error {
	C.glXBindTexImageEXT(g.dpy, C.GLXDrawable(d), C.GLX_FRONT_EXT, nil)
	return nil
}

func (g *glxDisplay) ReleaseTexImage(d GLDrawableId) error {
	C.glXReleaseTexImageEXT(g.dpy, C.GLXDrawable(d), C.GLX_FRONT_EXT)
	return nil
}

func (g *glxDisplay) SwapBuffers(overlay xserver.WindowId) error {
	C.glXSwapBuffers(g.dpy, C.GLXDrawable(C.Window(overlay)))
	return nil
}

func (g *glxDisplay) Close() error {
	C.XCloseDisplay(g.dpy)
	return nil
}

var _ Display = (*glxDisplay)(nil)
