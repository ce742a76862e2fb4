package xserver

import (
	"xcomp/internal/rect"
	"xcomp/internal/xerr"
)

// FakeConn is an in-memory Conn used by every package's tests (spec §8:
// "property tests against a mocked X server"). It models just enough of
// the server's behavior for the tracker/renderer/loop tests: window
// attribute storage, id generation, damage bookkeeping and an atom
// table. Field access is not synchronized; tests run single-threaded.
type FakeConn struct {
	RootWindow    WindowId
	OverlayWindow WindowId
	Width, Height uint16

	nextID uint32

	attrs map[WindowId]Attributes
	geom  map[WindowId]Geometry

	atomsByName map[string]Atom
	namesByAtom map[Atom]string
	nextAtom    Atom

	regions map[RegionId][]rect.Rect

	// PixmapNameCount counts CompositeNameWindowPixmap calls, used by
	// tests asserting that a size-unchanged ConfigureNotify never
	// reacquires a pixmap (spec §8 property 4).
	PixmapNameCount int

	// BadDamageOn marks damage ids that respond to DamageSubtract and
	// DamageDestroy with the swallowed BadDamage error, simulating the
	// known server race after a window is destroyed.
	BadDamageOn map[DamageId]bool

	events []Event
	closed bool

	// PropertyValues lets tests stub GetProperty replies per (window,
	// atom) pair (spec §8 S6).
	PropertyValues map[propKey][]byte
}

type propKey struct {
	Window WindowId
	Atom   Atom
}

// NewFakeConn returns a FakeConn with a root and overlay window already
// registered, mirroring what WindowTracker.New expects to find.
func NewFakeConn(root, overlay WindowId, width, height uint16) *FakeConn {
	c := &FakeConn{
		RootWindow:    root,
		OverlayWindow: overlay,
		Width:         width,
		Height:        height,
		nextID:        1,
		attrs:         map[WindowId]Attributes{},
		geom:          map[WindowId]Geometry{},
		atomsByName:   map[string]Atom{},
		namesByAtom:   map[Atom]string{},
		nextAtom:      1,
		regions:       map[RegionId][]rect.Rect{},
		BadDamageOn:   map[DamageId]bool{},
	}
	c.geom[root] = Geometry{Rect: rect.New(0, 0, width, height)}
	c.attrs[root] = Attributes{Mapped: true, Class: ClassInputOutput}
	c.attrs[overlay] = Attributes{Mapped: true, Class: ClassInputOutput}
	return c
}

// AddWindow registers a window's attributes and geometry as if the
// server already knew about it (used to seed bootstrap/query_tree
// scenarios).
func (c *FakeConn) AddWindow(id WindowId, g Geometry, a Attributes) {
	c.geom[id] = g
	c.attrs[id] = a
}

// QueueEvent appends an event to the pending queue PollEvent drains.
func (c *FakeConn) QueueEvent(e Event) { c.events = append(c.events, e) }

// SetProperty stubs the GetProperty reply for a (window, atom) pair.
func (c *FakeConn) SetProperty(win WindowId, atom Atom, value []byte) {
	if c.PropertyValues == nil {
		c.PropertyValues = map[propKey][]byte{}
	}
	c.PropertyValues[propKey{win, atom}] = value
}

func (c *FakeConn) Root() WindowId                  { return c.RootWindow }
func (c *FakeConn) ScreenSize() (uint16, uint16)    { return c.Width, c.Height }
func (c *FakeConn) Close() error                    { c.closed = true; return nil }

func (c *FakeConn) GenerateID() (uint32, error) {
	id := c.nextID
	c.nextID++
	return id, nil
}

func (c *FakeConn) CompositeRedirectSubwindowsManual(WindowId) error { return nil }

func (c *FakeConn) CompositeGetOverlayWindow(WindowId) (WindowId, error) {
	return c.OverlayWindow, nil
}

func (c *FakeConn) CompositeNameWindowPixmap(win WindowId, _ PixmapId) error {
	c.PixmapNameCount++
	return nil
}

func (c *FakeConn) XFixesCreateRegion(rects []rect.Rect) (RegionId, error) {
	id, _ := c.GenerateID()
	rid := RegionId(id)
	c.regions[rid] = append([]rect.Rect(nil), rects...)
	return rid, nil
}

func (c *FakeConn) XFixesSetWindowShapeRegionEmpty(WindowId) error { return nil }

func (c *FakeConn) DamageCreate(DamageId, WindowId) error { return nil }

func (c *FakeConn) DamageSubtract(damage DamageId, _ RegionId) error {
	// parts is unused: FakeConn does not model region contents, only
	// whether the subtract itself fails (BadDamageOn).
	if c.BadDamageOn[damage] {
		return xerr.New(xerr.KindProtocolReply, "BadDamage")
	}
	return nil
}

func (c *FakeConn) DamageDestroy(damage DamageId) error {
	if c.BadDamageOn[damage] {
		return xerr.New(xerr.KindProtocolReply, "BadDamage")
	}
	return nil
}

func (c *FakeConn) FetchRegionRects(region RegionId) ([]rect.Rect, error) {
	return c.regions[region], nil
}

func (c *FakeConn) QueryTree(win WindowId) ([]WindowId, error) {
	var children []WindowId
	for id := range c.geom {
		if id != win {
			children = append(children, id)
		}
	}
	return children, nil
}

func (c *FakeConn) GetGeometry(win WindowId) (Geometry, error) {
	g, ok := c.geom[win]
	if !ok {
		return Geometry{}, xerr.New(xerr.KindProtocolReply, "no such window")
	}
	return g, nil
}

func (c *FakeConn) GetWindowAttributes(win WindowId) (Attributes, error) {
	a, ok := c.attrs[win]
	if !ok {
		return Attributes{}, xerr.New(xerr.KindProtocolReply, "no such window")
	}
	return a, nil
}

func (c *FakeConn) GetProperty(win WindowId, atom Atom) ([]byte, error) {
	return c.PropertyValues[propKey{win, atom}], nil
}

func (c *FakeConn) InternAtom(name string) (Atom, error) {
	if a, ok := c.atomsByName[name]; ok {
		return a, nil
	}
	a := c.nextAtom
	c.nextAtom++
	c.atomsByName[name] = a
	c.namesByAtom[a] = name
	return a, nil
}

func (c *FakeConn) GetAtomName(atom Atom) (string, error) {
	return c.namesByAtom[atom], nil
}

func (c *FakeConn) AugmentEventMask(WindowId, EventMask) error { return nil }
func (c *FakeConn) ChangeRootEventMask(EventMask) error         { return nil }

func (c *FakeConn) PollEvent() (Event, error) {
	if len(c.events) == 0 {
		return nil, nil
	}
	e := c.events[0]
	c.events = c.events[1:]
	return e, nil
}

var _ Conn = (*FakeConn)(nil)
