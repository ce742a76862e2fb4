package render

import (
	"xcomp/internal/glenv"
	"xcomp/internal/xserver"
)

// FakeDisplay is a recording glenv.Display used by this package's tests
// — no real GLX connection runs under `go test`.
type FakeDisplay struct {
	nextDrawable uint32

	DestroyedPixmaps []glenv.GLDrawableId
	BindCount        int
	ReleaseCount     int
	SwapCount        int

	// bound tracks BindTexImage/ReleaseTexImage balance per drawable, so
	// tests can assert every bind is released before the next one starts
	// (spec §4.6: "scoped tightly around the draw call").
	bound map[glenv.GLDrawableId]bool
}

// NewFakeDisplay returns a ready-to-use FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{nextDrawable: 1, bound: map[glenv.GLDrawableId]bool{}}
}

func (d *FakeDisplay) ChooseFBConfig() (glenv.FBConfig, error) { return glenv.FBConfig{}, nil }

func (d *FakeDisplay) CreateContext(glenv.FBConfig, xserver.WindowId) (glenv.Context, error) {
	return glenv.Context{}, nil
}

func (d *FakeDisplay) CreatePixmap(glenv.FBConfig, xserver.PixmapId, glenv.PixmapAttribs) (glenv.GLDrawableId, error) {
	id := d.nextDrawable
	d.nextDrawable++
	return glenv.GLDrawableId(id), nil
}

func (d *FakeDisplay) DestroyPixmap(drawable glenv.GLDrawableId) error {
	d.DestroyedPixmaps = append(d.DestroyedPixmaps, drawable)
	return nil
}

func (d *FakeDisplay) BindTexImage(drawable glenv.GLDrawableId) error {
	d.BindCount++
	d.bound[drawable] = true
	return nil
}

func (d *FakeDisplay) ReleaseTexImage(drawable glenv.GLDrawableId) error {
	d.ReleaseCount++
	delete(d.bound, drawable)
	return nil
}

// AnyStillBound reports whether a drawable is bound right now — true
// would mean a BindTexImage was left unreleased across a frame boundary.
func (d *FakeDisplay) AnyStillBound() bool { return len(d.bound) != 0 }

func (d *FakeDisplay) SwapBuffers(xserver.WindowId) error {
	d.SwapCount++
	return nil
}

func (d *FakeDisplay) Close() error { return nil }

var _ glenv.Display = (*FakeDisplay)(nil)
