package rect

import "testing"

func TestRightBottom(t *testing.T) {
	r := New(10, 20, 100, 50)
	if got, want := r.Right(), int32(110); got != want {
		t.Errorf("Right()=%d, want %d", got, want)
	}
	if got, want := r.Bottom(), int32(70); got != want {
		t.Errorf("Bottom()=%d, want %d", got, want)
	}
}

func TestEmpty(t *testing.T) {
	cases := []struct {
		r    Rect
		want bool
	}{
		{New(0, 0, 0, 10), true},
		{New(0, 0, 10, 0), true},
		{New(0, 0, 10, 10), false},
	}
	for _, c := range cases {
		if got := c.r.Empty(); got != c.want {
			t.Errorf("Empty(%+v)=%v, want %v", c.r, got, c.want)
		}
	}
}

func TestVec4(t *testing.T) {
	r := New(1, 2, 3, 4)
	got := r.Vec4()
	want := [4]float32{1, 2, 3, 4}
	if got != want {
		t.Errorf("Vec4()=%v, want %v", got, want)
	}
}
