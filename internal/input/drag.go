package input

import "city-viewer/internal/view"

// Button identifies a pointer button the way the host reports it.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

// Drag maps pointer movement onto the interaction state while a primary or
// auxiliary button is held. Horizontal position spans 0..360 degrees of
// rotation and vertical position spans zoom 1..100 across the canvas.
type Drag struct {
	active bool
}

// Press starts a drag for the primary and auxiliary buttons; other buttons are ignored.
func (d *Drag) Press(b Button) {
	if b == ButtonPrimary || b == ButtonAuxiliary {
		d.active = true
	}
}

// Release ends any drag regardless of which button was released.
func (d *Drag) Release() {
	d.active = false
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// Move applies the pointer position (canvas-relative pixels) to s while a drag
// is active. It reports whether s was changed. A canvas with no area is ignored.
func (d *Drag) Move(x, y float32, width, height int32, s *view.State) bool {
	if !d.active || s == nil || width <= 0 || height <= 0 {
		return false
	}
	w, h := float32(width), float32(height)
	x = view.Clamp(x, 0, w)
	y = view.Clamp(y, 0, h)
	s.Rotation = x / w * 360
	s.SetZoom(y/h*(view.MaxZoom-view.MinZoom) + view.MinZoom)
	return true
}
