package xserver

import "xcomp/internal/rect"

// Conn is the request surface spec §6.1 names, nothing more. Every
// method is a blocking request/reply round-trip except PollEvent, which
// is explicitly non-blocking (spec §5: "poll_for_event is non-blocking
// and returns an optional event").
type Conn interface {
	// Root returns the root window of the default screen.
	Root() WindowId
	// ScreenSize returns the default screen's pixel dimensions.
	ScreenSize() (width, height uint16)

	// GenerateID allocates a fresh server-side XID, used to name pixmaps,
	// damage objects and regions before they are created.
	GenerateID() (uint32, error)

	CompositeRedirectSubwindowsManual(root WindowId) error
	CompositeGetOverlayWindow(root WindowId) (WindowId, error)
	CompositeNameWindowPixmap(win WindowId, pixmap PixmapId) error

	XFixesCreateRegion(rects []rect.Rect) (RegionId, error)
	XFixesSetWindowShapeRegionEmpty(win WindowId) error

	// DamageCreate creates a damage object at report level NON_EMPTY,
	// the only level the core uses (spec §4.3).
	DamageCreate(damage DamageId, win WindowId) error
	// DamageSubtract subtracts the whole of the damage region (repair is
	// always None, so the damage is fully acknowledged), depositing the
	// subtracted rectangles into parts. A BadDamage error from the server
	// is returned to the caller (the production Conn wraps it as a
	// ProtocolReply CompError); callers swallow it per spec §7.
	DamageSubtract(damage DamageId, parts RegionId) error
	// DamageDestroy destroys a damage object. A BadDamage error is
	// returned the same way; callers swallow it per spec §7.
	DamageDestroy(damage DamageId) error
	// FetchRegionRects returns the rectangles currently held by region,
	// used after DamageSubtract to read the dirty area.
	FetchRegionRects(region RegionId) ([]rect.Rect, error)

	QueryTree(win WindowId) (children []WindowId, err error)
	GetGeometry(win WindowId) (Geometry, error)
	GetWindowAttributes(win WindowId) (Attributes, error)
	GetProperty(win WindowId, atom Atom) ([]byte, error)

	InternAtom(name string) (Atom, error)
	GetAtomName(atom Atom) (string, error)

	AugmentEventMask(win WindowId, mask EventMask) error
	ChangeRootEventMask(mask EventMask) error

	// PollEvent returns the next pending event, or (nil, nil) if none is
	// pending. It never blocks.
	PollEvent() (Event, error)

	Close() error
}
