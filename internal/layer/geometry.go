package layer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidGeometry is returned for malformed or inconsistent vertex, index or normal data.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is a triangle mesh: flat xyz position triplets, triangle-vertex
// indices into those triplets, and for buildings a normal per position.
type Geometry struct {
	Positions []float32
	Indices   []uint32
	Normals   []float32
}

// VertexCount returns the number of xyz triplets in Positions.
func (g Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of whole triangles described by Indices.
func (g Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Validate checks the geometry for the given kind. Positions must be finite.
// Normals are required, finite and must match Positions in length for
// buildings; they are ignored otherwise.
func (g Geometry) Validate(kind Kind) error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%d position values is not a multiple of 3: %w", len(g.Positions), ErrInvalidGeometry)
	}
	if i := nonFinite(g.Positions); i >= 0 {
		return fmt.Errorf("position value %v at %d: %w", g.Positions[i], i, ErrInvalidGeometry)
	}
	n := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range for %d vertices: %w", idx, i, n, ErrInvalidGeometry)
		}
	}
	if kind == KindBuilding && len(g.Normals) != len(g.Positions) {
		return fmt.Errorf("%d normal values for %d position values: %w", len(g.Normals), len(g.Positions), ErrInvalidGeometry)
	}
	if kind == KindBuilding {
		if i := nonFinite(g.Normals); i >= 0 {
			return fmt.Errorf("normal value %v at %d: %w", g.Normals[i], i, ErrInvalidGeometry)
		}
	}
	return nil
}

// nonFinite returns the index of the first NaN or infinite value, or -1.
func nonFinite(vs []float32) int {
	for i, v := range vs {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Color is a flat RGBA color with components in [0,1].
type Color [4]float32

// NewColor returns the color with every component clamped to [0,1]. NaN becomes 0.
func NewColor(r, g, b, a float32) Color {
	c := Color{r, g, b, a}
	for i, v := range c {
		if math32.IsNaN(v) {
			v = 0
		}
		c[i] = min(max(v, 0), 1)
	}
	return c
}
