//go:build linux

package xserver

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/composite"
	"github.com/jezek/xgb/damage"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"

	"xcomp/internal/rect"
	"xcomp/internal/xerr"
)

// realConn is the production Conn, backed by github.com/jezek/xgb — the
// maintained fork of the unmaintained github.com/BurntSushi/xgb that the
// teacher's own shiny/driver/x11driver was built against. Same package
// API (xgb, xproto, composite, damage, xfixes), different upstream.
type realConn struct {
	c       *xgb.Conn
	screen  *xproto.ScreenInfo
	root    WindowId
	overlay WindowId
}

// Required extension versions, spec §6.1.
const (
	minCompositeMajor, minCompositeMinor = 0, 5
	minXFixesMajor                       = 5
	minDamageMajor, minDamageMinor       = 1, 1
)

// Connect opens the X display, probes the Composite, DAMAGE and XFIXES
// extensions and their minimum versions, obtains exclusive compositing
// of root's subwindows, fetches the composite overlay window and makes
// it click-through. RENDER and SHAPE are not probed, and there is no
// separate GLX probe: a missing GLX only shows up when the glenv package
// fails to choose an FB config or create a context. Any failure here
// aborts before the event loop is entered (spec §7).
func Connect() (Conn, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "open X display", err)
	}

	if err := composite.Init(c); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "Composite extension required", err)
	}
	if cv, err := composite.QueryVersion(c, minCompositeMajor, minCompositeMinor).Reply(); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "Composite QueryVersion", err)
	} else if cv.MajorVersion == 0 && cv.MinorVersion < minCompositeMinor {
		return nil, xerr.New(xerr.KindConnectionError, "Composite extension too old")
	}

	if err := damage.Init(c); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "DAMAGE extension required", err)
	}
	if dv, err := damage.QueryVersion(c, minDamageMajor, minDamageMinor).Reply(); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "DAMAGE QueryVersion", err)
	} else if dv.MajorVersion < minDamageMajor || (dv.MajorVersion == minDamageMajor && dv.MinorVersion < minDamageMinor) {
		return nil, xerr.New(xerr.KindConnectionError, "DAMAGE extension too old")
	}

	if err := xfixes.Init(c); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "XFIXES extension required", err)
	}
	if xv, err := xfixes.QueryVersion(c, minXFixesMajor, 0).Reply(); err != nil {
		return nil, xerr.Wrap(xerr.KindConnectionError, "XFIXES QueryVersion", err)
	} else if xv.MajorVersion < minXFixesMajor {
		return nil, xerr.New(xerr.KindConnectionError, "XFIXES extension too old")
	}

	setup := xproto.Setup(c)
	screen := setup.DefaultScreen(c)
	root := WindowId(screen.Root)

	if err := composite.RedirectSubwindowsChecked(c, screen.Root, composite.RedirectManual).Check(); err != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "composite_redirect_subwindows", err)
	}

	ov, err := composite.GetOverlayWindow(c, screen.Root).Reply()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "composite_get_overlay_window", err)
	}

	rc := &realConn{c: c, screen: screen, root: root, overlay: WindowId(ov.OverlayWin)}

	// An empty input shape on the overlay makes it click-through, per
	// spec §6.1.
	if err := rc.XFixesSetWindowShapeRegionEmpty(rc.overlay); err != nil {
		return nil, err
	}

	return rc, nil
}

func (r *realConn) Root() WindowId { return r.root }

func (r *realConn) ScreenSize() (uint16, uint16) {
	return r.screen.WidthInPixels, r.screen.HeightInPixels
}

func (r *realConn) Close() error { r.c.Close(); return nil }

func (r *realConn) GenerateID() (uint32, error) {
	id, err := r.c.NewId()
	if err != nil {
		return 0, xerr.Wrap(xerr.KindProtocolReplyOrId, "generate_id", err)
	}
	return id, nil
}

func (r *realConn) CompositeRedirectSubwindowsManual(root WindowId) error {
	if err := composite.RedirectSubwindowsChecked(r.c, xproto.Window(root), composite.RedirectManual).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "composite_redirect_subwindows", err)
	}
	return nil
}

func (r *realConn) CompositeGetOverlayWindow(root WindowId) (WindowId, error) {
	reply, err := composite.GetOverlayWindow(r.c, xproto.Window(root)).Reply()
	if err != nil {
		return 0, xerr.Wrap(xerr.KindProtocolReply, "composite_get_overlay_window", err)
	}
	return WindowId(reply.OverlayWin), nil
}

func (r *realConn) CompositeNameWindowPixmap(win WindowId, pixmap PixmapId) error {
	if err := composite.NameWindowPixmapChecked(r.c, xproto.Window(win), xproto.Pixmap(pixmap)).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "composite_name_window_pixmap", err)
	}
	return nil
}

func (r *realConn) XFixesCreateRegion(rects []rect.Rect) (RegionId, error) {
	id, err := r.GenerateID()
	if err != nil {
		return 0, err
	}
	xr := make([]xproto.Rectangle, len(rects))
	for i, rr := range rects {
		xr[i] = xproto.Rectangle{X: rr.X, Y: rr.Y, Width: rr.Width, Height: rr.Height}
	}
	if err := xfixes.CreateRegionChecked(r.c, xfixes.Region(id), xr).Check(); err != nil {
		return 0, xerr.Wrap(xerr.KindProtocolReply, "xfixes_create_region", err)
	}
	return RegionId(id), nil
}

func (r *realConn) XFixesSetWindowShapeRegionEmpty(win WindowId) error {
	empty, err := r.XFixesCreateRegion(nil)
	if err != nil {
		return err
	}
	const shapeKindInput = 2 // SHAPE extension's ShapeInput kind
	if err := xfixes.SetWindowShapeRegionChecked(r.c, xproto.Window(win), shapeKindInput, 0, 0, xfixes.Region(empty)).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "xfixes_set_window_shape_region", err)
	}
	return nil
}

func (r *realConn) DamageCreate(damageID DamageId, win WindowId) error {
	if err := damage.CreateChecked(r.c, damage.Damage(damageID), xproto.Drawable(win), damage.ReportLevelNonEmpty).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "damage_create", err)
	}
	return nil
}

func (r *realConn) DamageSubtract(damageID DamageId, parts RegionId) error {
	if err := damage.SubtractChecked(r.c, damage.Damage(damageID), xfixes.Region(0), xfixes.Region(parts)).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "damage_subtract", err)
	}
	return nil
}

func (r *realConn) DamageDestroy(damageID DamageId) error {
	if err := damage.DestroyChecked(r.c, damage.Damage(damageID)).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "damage_destroy", err)
	}
	return nil
}

func (r *realConn) FetchRegionRects(region RegionId) ([]rect.Rect, error) {
	reply, err := xfixes.FetchRegion(r.c, xfixes.Region(region)).Reply()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "xfixes_fetch_region", err)
	}
	out := make([]rect.Rect, len(reply.Rectangles))
	for i, rr := range reply.Rectangles {
		out[i] = rect.New(rr.X, rr.Y, rr.Width, rr.Height)
	}
	return out, nil
}

func (r *realConn) QueryTree(win WindowId) ([]WindowId, error) {
	reply, err := xproto.QueryTree(r.c, xproto.Window(win)).Reply()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "query_tree", err)
	}
	out := make([]WindowId, len(reply.Children))
	for i, w := range reply.Children {
		out[i] = WindowId(w)
	}
	return out, nil
}

func (r *realConn) GetGeometry(win WindowId) (Geometry, error) {
	reply, err := xproto.GetGeometry(r.c, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, xerr.Wrap(xerr.KindProtocolReply, "get_geometry", err)
	}
	return Geometry{
		Rect:        rect.New(reply.X, reply.Y, reply.Width, reply.Height),
		BorderWidth: reply.BorderWidth,
	}, nil
}

func (r *realConn) GetWindowAttributes(win WindowId) (Attributes, error) {
	reply, err := xproto.GetWindowAttributes(r.c, xproto.Window(win)).Reply()
	if err != nil {
		return Attributes{}, xerr.Wrap(xerr.KindProtocolReply, "get_window_attributes", err)
	}
	class := ClassInputOutput
	if reply.Class == xproto.WindowClassInputOnly {
		class = ClassInputOnly
	}
	return Attributes{
		Mapped:           reply.MapState == xproto.MapStateViewable,
		OverrideRedirect: reply.OverrideRedirect,
		Class:            class,
	}, nil
}

func (r *realConn) GetProperty(win WindowId, atom Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(r.c, false, xproto.Window(win), xproto.Atom(atom),
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "get_property", err)
	}
	return reply.Value, nil
}

func (r *realConn) InternAtom(name string) (Atom, error) {
	reply, err := xproto.InternAtom(r.c, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, xerr.Wrap(xerr.KindProtocolReply, "intern_atom", err)
	}
	return Atom(reply.Atom), nil
}

func (r *realConn) GetAtomName(atom Atom) (string, error) {
	reply, err := xproto.GetAtomName(r.c, xproto.Atom(atom)).Reply()
	if err != nil {
		return "", xerr.Wrap(xerr.KindProtocolReply, "get_atom_name", err)
	}
	return string(reply.Name), nil
}

func (r *realConn) AugmentEventMask(win WindowId, mask EventMask) error {
	if err := xproto.ChangeWindowAttributesChecked(r.c, xproto.Window(win),
		xproto.CwEventMask, []uint32{toXMask(mask)}).Check(); err != nil {
		return xerr.Wrap(xerr.KindProtocolReply, "change_window_attributes", err)
	}
	return nil
}

func (r *realConn) ChangeRootEventMask(mask EventMask) error {
	return r.AugmentEventMask(r.root, mask)
}

func toXMask(m EventMask) uint32 {
	var out uint32
	if m&EventMaskStructureNotify != 0 {
		out |= uint32(xproto.EventMaskStructureNotify)
	}
	if m&EventMaskSubstructureNotify != 0 {
		out |= uint32(xproto.EventMaskSubstructureNotify)
	}
	if m&EventMaskPropertyChange != 0 {
		out |= uint32(xproto.EventMaskPropertyChange)
	}
	if m&EventMaskExposure != 0 {
		out |= uint32(xproto.EventMaskExposure)
	}
	return out
}

// PollEvent translates the next pending xgb.Event into our tagged
// xserver.Event, non-blocking (jezek/xgb buffers incoming events on an
// internal channel and PollForEvent drains it without waiting).
func (r *realConn) PollEvent() (Event, error) {
	ev, xerror := r.c.PollForEvent()
	if xerror != nil {
		return nil, xerr.Wrap(xerr.KindProtocolReply, "poll_for_event", xerror)
	}
	if ev == nil {
		return nil, nil
	}
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		return CreateNotifyEvent{
			Window:           WindowId(e.Window),
			Rect:             rect.New(e.X, e.Y, e.Width, e.Height),
			BorderWidth:      e.BorderWidth,
			OverrideRedirect: e.OverrideRedirect,
		}, nil
	case xproto.MapNotifyEvent:
		return MapNotifyEvent{Window: WindowId(e.Window), OverrideRedirect: e.OverrideRedirect}, nil
	case xproto.UnmapNotifyEvent:
		return UnmapNotifyEvent{Window: WindowId(e.Window)}, nil
	case xproto.ConfigureNotifyEvent:
		return ConfigureNotifyEvent{
			Window:           WindowId(e.Window),
			Rect:             rect.New(e.X, e.Y, e.Width, e.Height),
			BorderWidth:      e.BorderWidth,
			AboveSibling:     WindowId(e.AboveSibling),
			OverrideRedirect: e.OverrideRedirect,
		}, nil
	case xproto.DestroyNotifyEvent:
		return DestroyNotifyEvent{Window: WindowId(e.Window)}, nil
	case xproto.PropertyNotifyEvent:
		return PropertyNotifyEvent{Window: WindowId(e.Window), Atom: Atom(e.Atom)}, nil
	case damage.NotifyEvent:
		return DamageNotifyEvent{Window: WindowId(e.Drawable), Damage: DamageId(e.Damage)}, nil
	default:
		return OtherEvent{Name: fmt.Sprintf("%T", ev)}, nil
	}
}

var _ Conn = (*realConn)(nil)
