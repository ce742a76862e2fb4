// Package rect defines the screen-space rectangle value type shared by the
// window tracker and the renderer.
package rect

// Rect is a screen-space rectangle, origin top-left, y growing downward
// (the X11 convention). Construction performs no validation: the field
// types alone bound the representable range.
type Rect struct {
	X, Y          int16
	Width, Height uint16
}

// New returns a Rect with the given position and size.
func New(x, y int16, width, height uint16) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the exclusive right edge, x+width.
func (r Rect) Right() int32 { return int32(r.X) + int32(r.Width) }

// Bottom returns the exclusive bottom edge, y+height.
func (r Rect) Bottom() int32 { return int32(r.Y) + int32(r.Height) }

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Vec4 returns (x, y, width, height) as float32, the form the window
// fragment shader's win_rect uniform expects.
func (r Rect) Vec4() [4]float32 {
	return [4]float32{float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)}
}
