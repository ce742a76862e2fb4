// Package xserver is the narrow capability surface the core uses to talk
// to the X server (spec §6.1). Dynamic dispatch is kept behind this one
// interface (Design Notes §9: "no hidden static connection"); production
// code gets a *realConn backed by github.com/jezek/xgb, tests get a
// *FakeConn.
package xserver

import "xcomp/internal/rect"

// WindowId is the server's 32-bit handle for a window.
type WindowId uint32

// PixmapId is the server's handle for a backing pixmap.
type PixmapId uint32

// DamageId is the server's handle for a DAMAGE extension damage object.
type DamageId uint32

// RegionId is the server's handle for an XFIXES region.
type RegionId uint32

// Atom is an interned X atom.
type Atom uint32

// WindowClass mirrors the X11 window class (CopyFromParent is never
// surfaced to the core; by the time a Window is constructed the class
// has been resolved to one of these two).
type WindowClass int

const (
	ClassInputOutput WindowClass = iota
	ClassInputOnly
)

// EventMask is a bitmask of X11 event types, used when augmenting a
// window's attributes (e.g. adding EXPOSURE after creating its damage
// object).
type EventMask uint32

const (
	EventMaskStructureNotify    EventMask = 1 << 0
	EventMaskSubstructureNotify EventMask = 1 << 1
	EventMaskPropertyChange     EventMask = 1 << 2
	EventMaskExposure           EventMask = 1 << 3
)

// Geometry is the reply shape of GetGeometry.
type Geometry struct {
	Rect        rect.Rect
	BorderWidth uint16
}

// Attributes is the reply shape of GetWindowAttributes, trimmed to the
// fields the core actually consumes.
type Attributes struct {
	Mapped           bool
	OverrideRedirect bool
	Class            WindowClass
}
