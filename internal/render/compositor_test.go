package render

import (
	"testing"

	"xcomp/internal/glenv"
	"xcomp/internal/rect"
	"xcomp/internal/window"
	"xcomp/internal/xserver"
)

func newTestCompositor(t *testing.T) (*Compositor, *FakeBackend, *FakeDisplay) {
	t.Helper()
	backend := NewFakeBackend()
	dd, err := NewDrawDescription(backend, quadVerts(), []uint32{0, 1, 2, 2, 1, 3}, testShaders(), 800, 600)
	if err != nil {
		t.Fatalf("NewDrawDescription: %v", err)
	}
	display := NewFakeDisplay()
	c := NewCompositor(dd, backend, display, glenv.FBConfig{})
	return c, backend, display
}

func mappedWindow(id xserver.WindowId, r rect.Rect, pixmap xserver.PixmapId) *window.Window {
	return &window.Window{
		ID:            id,
		Rect:          r,
		Mapped:        true,
		TrackDamage:   true,
		BackingPixmap: pixmap,
	}
}

// TestScenarioS1 mirrors spec §8 S1: one mapped window renders 3 draw
// calls and exactly one SwapBuffers.
func TestScenarioS1(t *testing.T) {
	c, backend, display := newTestCompositor(t)
	w1 := mappedWindow(1, rect.New(0, 0, 100, 100), 11)
	if err := c.Acquire(w1); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if w1.Resources.Texture == 0 {
		t.Fatal("expected w1 to get a texture")
	}

	if err := c.Render(800, 600, []*window.Window{w1}, 999); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if backend.DrawCalls != 3 {
		t.Fatalf("expected 3 draw calls, got %d", backend.DrawCalls)
	}
	if display.SwapCount != 1 {
		t.Fatalf("expected 1 SwapBuffers, got %d", display.SwapCount)
	}
	if display.BindCount != 1 || display.ReleaseCount != 1 {
		t.Fatalf("expected exactly 1 bind/release pair, got bind=%d release=%d", display.BindCount, display.ReleaseCount)
	}
}

// TestScenarioS2 mirrors spec §8 S2: two mapped windows render 5 draw
// calls (2N+1 with N=2).
func TestScenarioS2(t *testing.T) {
	c, backend, display := newTestCompositor(t)
	w1 := mappedWindow(1, rect.New(0, 0, 100, 100), 11)
	w2 := mappedWindow(2, rect.New(50, 50, 100, 100), 12)
	for _, w := range []*window.Window{w1, w2} {
		if err := c.Acquire(w); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}

	if err := c.Render(800, 600, []*window.Window{w1, w2}, 999); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if backend.DrawCalls != 5 {
		t.Fatalf("expected 5 draw calls, got %d", backend.DrawCalls)
	}
	if display.BindCount != 2 || display.ReleaseCount != 2 {
		t.Fatalf("expected 2 bind/release pairs, got bind=%d release=%d", display.BindCount, display.ReleaseCount)
	}
	if display.SwapCount != 1 {
		t.Fatalf("expected 1 SwapBuffers, got %d", display.SwapCount)
	}
}

// TestScenarioS4 mirrors spec §8 S4: nothing mapped renders the present
// pass only — 1 draw call, no BindTexImage, 1 SwapBuffers.
func TestScenarioS4(t *testing.T) {
	c, backend, display := newTestCompositor(t)
	if err := c.Render(800, 600, nil, 999); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if backend.DrawCalls != 1 {
		t.Fatalf("expected 1 draw call, got %d", backend.DrawCalls)
	}
	if display.BindCount != 0 {
		t.Fatalf("expected no BindTexImage calls, got %d", display.BindCount)
	}
	if display.SwapCount != 1 {
		t.Fatalf("expected 1 SwapBuffers, got %d", display.SwapCount)
	}
}

// TestRenderDrawCallProperty generalizes spec §8 property 6: N mapped
// windows always produce 2N+1 draw calls, N bind/release pairs, and
// exactly one swap.
func TestRenderDrawCallProperty(t *testing.T) {
	for n := 0; n <= 5; n++ {
		c, backend, display := newTestCompositor(t)
		var windows []*window.Window
		for i := 0; i < n; i++ {
			w := mappedWindow(xserver.WindowId(i+1), rect.New(0, 0, 10, 10), xserver.PixmapId(i+1))
			if err := c.Acquire(w); err != nil {
				t.Fatalf("Acquire: %v", err)
			}
			windows = append(windows, w)
		}
		if err := c.Render(640, 480, windows, 999); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if want := 2*n + 1; backend.DrawCalls != want {
			t.Fatalf("n=%d: expected %d draw calls, got %d", n, want, backend.DrawCalls)
		}
		if display.BindCount != n || display.ReleaseCount != n {
			t.Fatalf("n=%d: expected %d bind/release pairs, got bind=%d release=%d", n, n, display.BindCount, display.ReleaseCount)
		}
		if display.SwapCount != 1 {
			t.Fatalf("n=%d: expected 1 SwapBuffers, got %d", n, display.SwapCount)
		}
		if display.AnyStillBound() {
			t.Fatalf("n=%d: a BindTexImage was left unreleased", n)
		}
	}
}

func TestAcquireReleaseAcquireIdempotent(t *testing.T) {
	c, _, display := newTestCompositor(t)
	w := mappedWindow(1, rect.New(0, 0, 50, 50), 21)

	if err := c.Acquire(w); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	firstDrawable := w.Resources.GLDrawable

	if err := c.Release(w); err != nil {
		t.Fatalf("release: %v", err)
	}
	if w.Resources.GLDrawable != 0 || w.Resources.Texture != 0 {
		t.Fatal("expected handles cleared after release")
	}

	if err := c.Acquire(w); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if w.Resources.GLDrawable == 0 || w.Resources.Texture == 0 {
		t.Fatal("expected fresh handles after re-acquire")
	}
	if len(display.DestroyedPixmaps) != 1 || display.DestroyedPixmaps[0] != firstDrawable {
		t.Fatalf("expected exactly the first drawable destroyed, got %v", display.DestroyedPixmaps)
	}
}

func TestAcquireReleasesPriorBinding(t *testing.T) {
	c, _, display := newTestCompositor(t)
	w := mappedWindow(1, rect.New(0, 0, 50, 50), 21)

	if err := c.Acquire(w); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	first := w.Resources.GLDrawable

	if err := c.Acquire(w); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if len(display.DestroyedPixmaps) != 1 || display.DestroyedPixmaps[0] != first {
		t.Fatalf("expected the prior drawable to be released before re-acquiring, got %v", display.DestroyedPixmaps)
	}
	if w.Resources.GLDrawable == first {
		t.Fatal("expected a new drawable identity after re-acquire")
	}
}
