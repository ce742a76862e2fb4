package loop

import (
	"errors"
	"testing"

	"xcomp/internal/window"
	"xcomp/internal/xerr"
	"xcomp/internal/xserver"
)

type recordingRenderer struct {
	calls int
	err   error
}

func (r *recordingRenderer) Render(screenWidth, screenHeight uint16, mapped []*window.Window, overlay xserver.WindowId) error {
	r.calls++
	return r.err
}

func newTestLoop(t *testing.T) (*Loop, *xserver.FakeConn, *recordingRenderer) {
	t.Helper()
	root, overlay := xserver.WindowId(1), xserver.WindowId(2)
	conn := xserver.NewFakeConn(root, overlay, 800, 600)
	tr, err := window.New(conn, overlay, 0, noopBinder{})
	if err != nil {
		t.Fatalf("window.New: %v", err)
	}
	r := &recordingRenderer{}
	return &Loop{Conn: conn, Tracker: tr, Renderer: r, Overlay: overlay, ScreenWidth: 800, ScreenHeight: 600}, conn, r
}

type noopBinder struct{}

func (noopBinder) Acquire(*window.Window) error { return nil }
func (noopBinder) Release(*window.Window) error { return nil }

// TestTickAlwaysRendersWithNoEvent covers spec §4.4: "after event
// application (including the no event case), always invoke render".
func TestTickAlwaysRendersWithNoEvent(t *testing.T) {
	l, _, r := newTestLoop(t)
	if err := l.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("expected exactly 1 render call, got %d", r.calls)
	}
}

func TestTickAppliesEventThenRenders(t *testing.T) {
	l, conn, r := newTestLoop(t)
	conn.AddWindow(42, xserver.Geometry{}, xserver.Attributes{Class: xserver.ClassInputOutput})
	conn.QueueEvent(xserver.CreateNotifyEvent{Window: 42})

	if err := l.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("expected 1 render call, got %d", r.calls)
	}
	if idx := indexOfWindow(l.Tracker, 42); idx < 0 {
		t.Fatal("expected window 42 to be tracked after CreateNotify")
	}
}

// TestTickAbortsOnFatalEventError covers spec §7: a failing event
// aborts with its error, and the renderer is never reached.
func TestTickAbortsOnFatalEventError(t *testing.T) {
	l, conn, r := newTestLoop(t)
	conn.QueueEvent(xserver.MapNotifyEvent{Window: 999}) // untracked

	err := l.tick()
	var ce *xerr.CompError
	if !errors.As(err, &ce) || ce.Kind != xerr.KindUntrackedWindow {
		t.Fatalf("expected UntrackedWindow, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("expected render to be skipped on a fatal event error, got %d calls", r.calls)
	}
}

func TestTickPropagatesRendererError(t *testing.T) {
	l, _, r := newTestLoop(t)
	r.err = errors.New("boom")

	if err := l.tick(); err == nil {
		t.Fatal("expected renderer error to propagate")
	}
}

func indexOfWindow(tr *window.Tracker, id xserver.WindowId) int {
	for i, w := range tr.Windows() {
		if w.ID == id {
			return i
		}
	}
	return -1
}
