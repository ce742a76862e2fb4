// Package window tracks the server's top-level window tree: Window is a
// single tracked window with its GPU resources; Tracker is the
// authoritative ordered list of them, mutated by the X event stream
// (spec §3, §4.3, §4.4).
package window

import (
	"xcomp/internal/glenv"
	"xcomp/internal/rect"
	"xcomp/internal/xerr"
	"xcomp/internal/xserver"
)

// Resources holds a Window's GPU-side handles: the GLX drawable bound
// to its backing pixmap and the texture that samples it (spec §3
// GLWindowResources). The quad VAO is kept on Window itself.
type Resources struct {
	GLDrawable glenv.GLDrawableId
	Texture    glenv.TextureId
}

func (r Resources) bound() bool { return r.GLDrawable != 0 }

// Binder is the one-way capability Window calls into to (re)acquire or
// release its GPU resources. It is implemented by the compositor;
// Window never holds a reference back to it (Design Notes §9: "Windows
// never hold a back-reference to the Compositor").
type Binder interface {
	Acquire(w *Window) error
	Release(w *Window) error
}

// Window is a single tracked top-level window (spec §3).
type Window struct {
	ID               xserver.WindowId
	Rect             rect.Rect
	BorderWidth      uint16
	OverrideRedirect bool
	Mapped           bool
	Class            xserver.WindowClass
	TrackDamage      bool
	VAO              glenv.VaoId

	DamageID      xserver.DamageId // 0 == none
	BackingPixmap xserver.PixmapId // 0 == none, only valid while Mapped
	Resources     Resources
}

// newFromAttributes is the canonical constructor (spec §4.3
// from_attributes). If class != InputOnly and trackDamage, it creates a
// NON_EMPTY damage object and augments the window's event mask with
// EXPOSURE.
func newFromAttributes(conn xserver.Conn, id xserver.WindowId, geom xserver.Geometry,
	attrs xserver.Attributes, mapped bool, trackDamage bool, vao glenv.VaoId) (*Window, error) {

	w := &Window{
		ID:               id,
		Rect:             geom.Rect,
		BorderWidth:      geom.BorderWidth,
		OverrideRedirect: attrs.OverrideRedirect,
		Mapped:           mapped,
		Class:            attrs.Class,
		TrackDamage:      trackDamage,
		VAO:              vao,
	}

	if w.Class != xserver.ClassInputOnly && trackDamage {
		damageID, err := conn.GenerateID()
		if err != nil {
			return nil, xerr.Wrap(xerr.KindProtocolReplyOrId, "generate damage id", err)
		}
		if err := conn.DamageCreate(xserver.DamageId(damageID), id); err != nil {
			return nil, xerr.Wrap(xerr.KindProtocolReply, "damage_create", err)
		}
		w.DamageID = xserver.DamageId(damageID)
		if err := conn.AugmentEventMask(id, xserver.EventMaskExposure); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// NewFromHandle queries the server for geometry and attributes, then
// delegates to the canonical constructor (spec §4.3 from_handle).
func NewFromHandle(conn xserver.Conn, id xserver.WindowId, trackDamage bool, vao glenv.VaoId) (*Window, error) {
	geom, err := conn.GetGeometry(id)
	if err != nil {
		return nil, err
	}
	attrs, err := conn.GetWindowAttributes(id)
	if err != nil {
		return nil, err
	}
	return newFromAttributes(conn, id, geom, attrs, attrs.Mapped, trackDamage, vao)
}

// NewFromCreateEvent uses the CreateNotify event's own geometry and
// queries only the window class from the server; the window starts
// unmapped (spec §4.3 from_create_event).
func NewFromCreateEvent(conn xserver.Conn, evt xserver.CreateNotifyEvent, trackDamage bool, vao glenv.VaoId) (*Window, error) {
	attrs, err := conn.GetWindowAttributes(evt.Window)
	if err != nil {
		return nil, err
	}
	geom := xserver.Geometry{Rect: evt.Rect, BorderWidth: evt.BorderWidth}
	attrs.OverrideRedirect = evt.OverrideRedirect
	return newFromAttributes(conn, evt.Window, geom, attrs, false, trackDamage, vao)
}

// Map handles MapNotify: sets Mapped, captures override-redirect, and
// reacquires the backing pixmap (spec §4.3 map).
func (w *Window) Map(conn xserver.Conn, binder Binder, evt xserver.MapNotifyEvent) error {
	w.Mapped = true
	w.OverrideRedirect = evt.OverrideRedirect
	return w.ReacquirePixmap(conn, binder)
}

// Unmap handles UnmapNotify. By default GPU resources are not freed here
// (lazy-until-destroy, spec §4.6); with eagerRelease, which the tracker
// passes from Tracker.EagerUnmapRelease, they are released immediately.
func (w *Window) Unmap(_ xserver.Conn, binder Binder, eagerRelease bool) error {
	w.Mapped = false
	if eagerRelease {
		return w.ReleasePixmap(binder)
	}
	return nil
}

// Destroy handles DestroyNotify: destroys the damage object and
// releases GPU resources. Any error from damage_destroy is swallowed —
// a known server race (BadDamage, and BadValue when the server already
// implicitly destroyed the damage via DestroyNotify ordering — spec
// §4.3/§7, SPEC_FULL §9).
func (w *Window) Destroy(conn xserver.Conn, binder Binder) error {
	if w.DamageID != 0 {
		_ = conn.DamageDestroy(w.DamageID)
		w.DamageID = 0
	}
	return w.ReleasePixmap(binder)
}

// Configure handles ConfigureNotify: position always updates; size
// changes force a pixmap reacquire before width/height are written
// (spec §4.3 configure).
func (w *Window) Configure(conn xserver.Conn, binder Binder, evt xserver.ConfigureNotifyEvent) error {
	w.Rect.X, w.Rect.Y = evt.Rect.X, evt.Rect.Y
	w.OverrideRedirect = evt.OverrideRedirect
	w.BorderWidth = evt.BorderWidth

	sizeChanged := w.Rect.Width != evt.Rect.Width || w.Rect.Height != evt.Rect.Height
	if sizeChanged {
		if err := w.ReacquirePixmap(conn, binder); err != nil {
			return err
		}
		w.Rect.Width, w.Rect.Height = evt.Rect.Width, evt.Rect.Height
	}
	return nil
}

// ReacquirePixmap names a fresh backing pixmap and rebinds GPU
// resources. A no-op while unmapped (spec §4.3 reacquire_pixmap).
func (w *Window) ReacquirePixmap(conn xserver.Conn, binder Binder) error {
	if !w.Mapped {
		return nil
	}
	id, err := conn.GenerateID()
	if err != nil {
		return xerr.Wrap(xerr.KindProtocolReplyOrId, "generate pixmap id", err)
	}
	pixmap := xserver.PixmapId(id)
	if err := conn.CompositeNameWindowPixmap(w.ID, pixmap); err != nil {
		return err
	}
	w.BackingPixmap = pixmap
	return binder.Acquire(w)
}

// ReleasePixmap releases GPU resources if any are bound, whether or not
// the window is still mapped (eager Unmap and Destroy both reach it
// after Mapped may already be false), and clears the backing pixmap.
func (w *Window) ReleasePixmap(binder Binder) error {
	if w.Resources.bound() {
		if err := binder.Release(w); err != nil {
			return err
		}
	}
	w.BackingPixmap = 0
	return nil
}
