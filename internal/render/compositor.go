package render

import (
	"xcomp/internal/glenv"
	"xcomp/internal/window"
	"xcomp/internal/xserver"
)

// Compositor owns the DrawDescription and implements window.Binder: it
// is the one-way capability Windows call into to (re)acquire or release
// their GPU resources (spec §4.5, §9 "cyclic references avoided").
type Compositor struct {
	pipeline *DrawDescription
	backend  GLBackend
	display  glenv.Display
	fbConfig glenv.FBConfig
	attribs  glenv.PixmapAttribs
}

// NewCompositor builds a Compositor around an already-constructed
// DrawDescription and the GLX display/fb_config chosen at bootstrap.
func NewCompositor(pipeline *DrawDescription, backend GLBackend, display glenv.Display, fbConfig glenv.FBConfig) *Compositor {
	return &Compositor{
		pipeline: pipeline,
		backend:  backend,
		display:  display,
		fbConfig: fbConfig,
		attribs:  glenv.DefaultPixmapAttribs,
	}
}

// Acquire binds w's current backing pixmap as a GL drawable and
// allocates a fresh texture (spec §4.5 acquire). Any prior binding is
// released first.
func (c *Compositor) Acquire(w *window.Window) error {
	if w.Resources.GLDrawable != 0 {
		if err := c.Release(w); err != nil {
			return err
		}
	}

	drawable, err := c.display.CreatePixmap(c.fbConfig, w.BackingPixmap, c.attribs)
	if err != nil {
		return err
	}
	tex, err := c.backend.GenTexture()
	if err != nil {
		return err
	}
	c.backend.SetTextureWrapRepeatFilterNearest(tex)

	w.Resources = window.Resources{GLDrawable: drawable, Texture: tex}
	return nil
}

// Release destroys w's GL drawable and texture and clears its handles
// (spec §4.5 release).
func (c *Compositor) Release(w *window.Window) error {
	if w.Resources.GLDrawable != 0 {
		if err := c.display.DestroyPixmap(w.Resources.GLDrawable); err != nil {
			return err
		}
	}
	if w.Resources.Texture != 0 {
		c.backend.DeleteTexture(w.Resources.Texture)
	}
	w.Resources = window.Resources{}
	return nil
}

// Render executes the ping-pong compositing pass over mapped (in
// bottom-to-top order, as returned by Tracker.MappedOrder) and presents
// to overlay (spec §4.5 render algorithm). For N windows it issues
// exactly 2N+1 draw calls and N BindTexImage/ReleaseTexImage pairs
// (spec §8 property 6).
func (c *Compositor) Render(screenWidth, screenHeight uint16, mapped []*window.Window, overlay xserver.WindowId) error {
	p := c.pipeline
	b := c.backend

	b.BindVAO(p.quadVAO)
	b.DisableDepthTest()
	b.BindFBO(p.targetFBO)
	b.ClearBlack()
	b.BindFBO(p.backgroundFBO)
	b.ClearBlack()

	frontFBO, frontTex := p.targetFBO, p.targetTexture
	backFBO, backTex := p.backgroundFBO, p.backgroundTexture

	for _, w := range mapped {
		frontFBO, backFBO = backFBO, frontFBO
		frontTex, backTex = backTex, frontTex

		// Pass A: carry the prior composition into the new target.
		b.UseProgram(p.presentProgram)
		b.BindTexture2D(0, backTex)
		b.SetUniform1i(p.screenTextureLoc, 0)
		b.BindFBO(frontFBO)
		b.DrawQuad()

		// Pass B: composite w over the background.
		b.UseProgram(p.windowProgram)
		b.SetUniform1i(p.winTextureLoc, 0)
		b.SetUniform1i(p.bgTextureLoc, 1)
		b.SetUniform2f(p.screenRectLoc, float32(screenWidth), float32(screenHeight))
		b.SetUniform4f(p.winRectLoc, w.Rect.Vec4())

		b.BindTexture2D(0, w.Resources.Texture)
		if err := c.display.BindTexImage(w.Resources.GLDrawable); err != nil {
			return err
		}
		b.BindTexture2D(1, backTex)
		b.BindFBO(frontFBO)
		b.DrawQuad()
		if err := c.display.ReleaseTexImage(w.Resources.GLDrawable); err != nil {
			return err
		}
	}

	b.UseProgram(p.presentProgram)
	b.BindTexture2D(0, frontTex)
	b.SetUniform1i(p.screenTextureLoc, 0)
	b.BindDefaultFBO()
	b.DrawQuad()

	return c.display.SwapBuffers(overlay)
}

var _ window.Binder = (*Compositor)(nil)
