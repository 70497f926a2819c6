package view

import (
	"city-viewer/internal/mat"
)

// Params are the fixed camera constants. Camera distance and orthographic
// half-extent share a formula but have separate constants:
//
//	distance = MaxZoom - zoom/100 * MaxZoom * ZoomSensitivity
//	size     = MaxOrthoSize - zoom/100 * MaxOrthoSize * OrthoSensitivity
type Params struct {
	FovY      float32 // degrees
	Near, Far float32

	OrthoNear, OrthoFar float32

	MaxZoom         float32
	ZoomSensitivity float32

	MaxOrthoSize     float32
	OrthoSensitivity float32
}

// DefaultParams returns the viewer defaults: 45° FOV, near 1, far 50000 and
// 5000 / 0.99 for both zoom formulas.
func DefaultParams() Params {
	return Params{
		FovY:             45,
		Near:             1,
		Far:              50000,
		OrthoNear:        -1,
		OrthoFar:         50000,
		MaxZoom:          5000,
		ZoomSensitivity:  0.99,
		MaxOrthoSize:     5000,
		OrthoSensitivity: 0.99,
	}
}

// Up is the world up axis; the city lies in the XY plane.
var Up = mat.Vec3{0, 0, 1}

// Frame holds the three matrices for one frame. It is recomputed every frame.
type Frame struct {
	Model      mat.Mat4
	View       mat.Mat4
	Projection mat.Mat4
}

// CameraDistance is the per-axis offset of the eye from the pivot.
func (p Params) CameraDistance(zoom float32) float32 {
	return p.MaxZoom - (zoom/100)*p.MaxZoom*p.ZoomSensitivity
}

// OrthoHalfExtent is the vertical half-size of the orthographic box.
func (p Params) OrthoHalfExtent(zoom float32) float32 {
	return p.MaxOrthoSize - (zoom/100)*p.MaxOrthoSize*p.OrthoSensitivity
}

// ModelMatrix rotates about the vertical axis through pivot:
// translate(pivot) · rotateZ(rotation) · translate(-pivot).
func ModelMatrix(pivot mat.Vec3, rotationDeg float32) mat.Mat4 {
	return mat.MultiplyChain(
		mat.TranslateVec(pivot),
		mat.RotateZ(mat.Radians(rotationDeg)),
		mat.TranslateVec(pivot.Negate()),
	)
}

// ViewMatrix looks at pivot from pivot + (d, d, d) with Z up.
func (p Params) ViewMatrix(pivot mat.Vec3, zoom float32) mat.Mat4 {
	d := p.CameraDistance(zoom)
	return mat.LookAt(pivot.Add(mat.Vec3{d, d, d}), pivot, Up)
}

// ProjectionMatrix returns the projection for s.Projection. The perspective
// matrix does not depend on zoom. Invalid constants yield the identity.
func (p Params) ProjectionMatrix(s State, aspect float32) mat.Mat4 {
	if s.Projection == Orthographic {
		size := p.OrthoHalfExtent(s.Zoom)
		m, _ := mat.Orthographic(-aspect*size, aspect*size, -size, size, p.OrthoNear, p.OrthoFar)
		return m
	}
	m, _ := mat.Perspective(mat.Radians(p.FovY), aspect, p.Near, p.Far)
	return m
}

// Frame derives all three matrices from s around pivot.
func (p Params) Frame(s State, pivot mat.Vec3, aspect float32) Frame {
	return Frame{
		Model:      ModelMatrix(pivot, s.Rotation),
		View:       p.ViewMatrix(pivot, s.Zoom),
		Projection: p.ProjectionMatrix(s, aspect),
	}
}

// Aspect returns width/height, or 1 for an empty viewport.
func Aspect(width, height int32) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
