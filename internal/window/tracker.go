package window

import (
	"slices"

	"xcomp/internal/atoms"
	"xcomp/internal/glenv"
	"xcomp/internal/xerr"
	"xcomp/internal/xserver"
)

// Tracker is the single authoritative owner of all Windows: the ordered
// stacking-order list, event dispatch, and the per-event mutation of
// Windows (spec §4.4). Index 0 is always the composite pseudo-window
// wrapping the root; indices 1.. are live top-level children ordered
// bottom-to-top.
type Tracker struct {
	conn   xserver.Conn
	atoms  *atoms.Table
	vao    glenv.VaoId
	binder Binder

	// EagerUnmapRelease selects the Unmap resource policy (spec §4.6,
	// §9 open question): false (default) is lazy-until-destroy, true
	// releases GPU resources immediately on Unmap.
	EagerUnmapRelease bool

	windows []*Window

	// region is the reusable XFixes region used to drain damage-subtract
	// replies (spec §4.4 construction step 3).
	region xserver.RegionId

	// StackingList is the last decoded _NET_CLIENT_LIST_STACKING value,
	// exposed for callers/tests that want to observe the hint (spec
	// §6.3, §8 scenario S6).
	StackingList []xserver.WindowId
}

// New builds a Tracker: a sentinel for root at index 0, one Window per
// existing child (queried via query_tree), and a reusable empty XFixes
// region (spec §4.4 construction).
func New(conn xserver.Conn, overlay xserver.WindowId, vao glenv.VaoId, binder Binder) (*Tracker, error) {
	table, err := atoms.Intern(conn)
	if err != nil {
		return nil, err
	}

	root := conn.Root()
	rootGeom, err := conn.GetGeometry(root)
	if err != nil {
		return nil, err
	}
	rootAttrs, err := conn.GetWindowAttributes(root)
	if err != nil {
		return nil, err
	}
	sentinel, err := newFromAttributes(conn, root, rootGeom, rootAttrs, rootAttrs.Mapped, false, vao)
	if err != nil {
		return nil, err
	}

	t := &Tracker{conn: conn, atoms: table, vao: vao, binder: binder, windows: []*Window{sentinel}}

	children, err := conn.QueryTree(root)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		w, err := NewFromHandle(conn, child, child != overlay, vao)
		if err != nil {
			return nil, err
		}
		t.windows = append(t.windows, w)
	}

	region, err := conn.XFixesCreateRegion(nil)
	if err != nil {
		return nil, err
	}
	t.region = region

	if err := conn.ChangeRootEventMask(xserver.EventMaskStructureNotify |
		xserver.EventMaskSubstructureNotify | xserver.EventMaskPropertyChange); err != nil {
		return nil, err
	}

	return t, nil
}

// Windows returns the full stacking-order list, sentinel included.
func (t *Tracker) Windows() []*Window { return t.windows }

// MappedOrder returns, bottom-to-top, every mapped child window that
// tracks damage — exactly the set the renderer composites (spec §4.5
// tracker.mapped_order()).
func (t *Tracker) MappedOrder() []*Window {
	var out []*Window
	for _, w := range t.windows[1:] {
		if w.Mapped && w.TrackDamage {
			out = append(out, w)
		}
	}
	return out
}

func (t *Tracker) indexOf(id xserver.WindowId) int {
	return slices.IndexFunc(t.windows, func(w *Window) bool { return w.ID == id })
}

// Apply dispatches one event to the tracker, mutating Windows as spec
// §4.4's table describes. A nil event (nothing was pending) is a no-op.
func (t *Tracker) Apply(evt xserver.Event) error {
	switch e := evt.(type) {
	case xserver.CreateNotifyEvent:
		w, err := NewFromCreateEvent(t.conn, e, true, t.vao)
		if err != nil {
			return err
		}
		t.windows = append(t.windows, w)

	case xserver.MapNotifyEvent:
		w, idx := t.find(e.Window)
		if idx < 0 {
			return xerr.New(xerr.KindUntrackedWindow, "MapNotify")
		}
		return w.Map(t.conn, t.binder, e)

	case xserver.UnmapNotifyEvent:
		w, idx := t.find(e.Window)
		if idx < 0 {
			return xerr.New(xerr.KindUntrackedWindow, "UnmapNotify")
		}
		return w.Unmap(t.conn, t.binder, t.EagerUnmapRelease)

	case xserver.ConfigureNotifyEvent:
		return t.applyConfigure(e)

	case xserver.DestroyNotifyEvent:
		w, idx := t.find(e.Window)
		if idx < 0 {
			return xerr.New(xerr.KindUntrackedWindow, "DestroyNotify")
		}
		if err := w.Destroy(t.conn, t.binder); err != nil {
			return err
		}
		t.windows = slices.Delete(t.windows, idx, idx+1)

	case xserver.PropertyNotifyEvent:
		return t.applyProperty(e)

	case xserver.DamageNotifyEvent:
		// damage_subtract errors are a known race after the window was
		// already destroyed; silently discard (spec §4.4, §7).
		if err := t.conn.DamageSubtract(e.Damage, t.region); err == nil {
			_, _ = t.conn.FetchRegionRects(t.region)
		}

	default:
		// Other/unknown event kinds are logged by the caller and
		// dropped here (Design Notes §9).
	}
	return nil
}

func (t *Tracker) find(id xserver.WindowId) (*Window, int) {
	idx := t.indexOf(id)
	if idx < 0 {
		return nil, -1
	}
	return t.windows[idx], idx
}

// applyConfigure updates geometry and reorders the subject per the
// ConfigureNotify's above_sibling field (spec §4.4 stacking reorder).
func (t *Tracker) applyConfigure(e xserver.ConfigureNotifyEvent) error {
	w, pos := t.find(e.Window)
	if pos < 0 {
		return xerr.New(xerr.KindUntrackedWindow, "ConfigureNotify")
	}
	if err := w.Configure(t.conn, t.binder, e); err != nil {
		return err
	}

	above := e.AboveSibling
	needsReorder := (pos == 1 && above != 0) || (pos > 1 && t.windows[pos-1].ID != above)
	if pos == 0 {
		// The sentinel is never reordered.
		needsReorder = false
	}
	if !needsReorder {
		return nil
	}

	t.windows = slices.Delete(t.windows, pos, pos+1)

	if above == 0 {
		// Bottom of the children range, i.e. just after the sentinel.
		t.windows = slices.Insert(t.windows, 1, w)
		return nil
	}

	targetIdx := t.indexOf(above)
	if targetIdx < 0 {
		return xerr.New(xerr.KindSiblingNotFound, "ConfigureNotify above_sibling")
	}
	insertAt := targetIdx + 1
	if insertAt >= len(t.windows) {
		t.windows = append(t.windows, w)
	} else {
		t.windows = slices.Insert(t.windows, insertAt, w)
	}
	return nil
}

// applyProperty validates and classifies a root-window PropertyNotify
// (spec §6.3, §4.4).
func (t *Tracker) applyProperty(e xserver.PropertyNotifyEvent) error {
	if e.Window != t.conn.Root() {
		return xerr.New(xerr.KindStringError, "PropertyNotify on a non-root window")
	}
	switch t.atoms.Classify(e.Atom) {
	case atoms.HintClientListStacking:
		value, err := t.conn.GetProperty(e.Window, e.Atom)
		if err != nil {
			return err
		}
		t.StackingList = atoms.DecodeWindowList(value)
	case atoms.HintActiveWindow:
		// Presence acknowledged only (spec §6.3); no state to update.
	default:
		// Not a recognized hint; ignored.
	}
	return nil
}
