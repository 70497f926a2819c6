// Package view turns the interaction state and the scene pivot into the
// model, view and projection matrices for one frame.
package view

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Projection is the projection mode selected by the user.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return fmt.Sprintf("Projection(%d)", int(p))
}

// ParseProjection accepts "perspective" or "orthographic" (case-insensitive).
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perspective":
		return Perspective, nil
	case "orthographic":
		return Orthographic, nil
	}
	return 0, fmt.Errorf("unknown projection %q (want perspective or orthographic)", s)
}

// Zoom control range.
const (
	MinZoom = 1
	MaxZoom = 100
)

// State is the interaction state: mutated by input and controls, read by the pipeline.
type State struct {
	// Rotation about the vertical axis through the pivot, in degrees. Not wrapped.
	Rotation   float32
	Zoom       float32
	Projection Projection
}

// DefaultState is the state before any input: no rotation, farthest zoom, perspective.
func DefaultState() State {
	return State{Zoom: MinZoom, Projection: Perspective}
}

// SetZoom sets the zoom clamped to [MinZoom, MaxZoom]. NaN is ignored.
func (s *State) SetZoom(z float32) {
	if math32.IsNaN(z) {
		return
	}
	s.Zoom = Clamp(z, MinZoom, MaxZoom)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
