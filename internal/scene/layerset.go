// Package scene holds the named collection of layers that makes up the city
// and the pivot every layer rotates around.
package scene

import (
	"fmt"

	"city-viewer/internal/gpu"
	"city-viewer/internal/layer"
	"city-viewer/internal/mat"
	"city-viewer/internal/view"
)

// LayerSet maps unique layer names to layers and caches the centroid of all
// their vertices. The centroid is recomputed on every Add and Remove, so it is
// never stale at draw time.
//
// Layers are kept in insertion order; DrawAll follows it. Callers should not
// rely on draw order across layers. A LayerSet is used from the render thread only.
type LayerSet struct {
	dev      gpu.Device
	progs    *layer.Programs
	layers   map[string]layer.Drawable
	order    []string
	centroid mat.Vec3
}

// NewLayerSet returns an empty set whose layers upload to dev.
func NewLayerSet(dev gpu.Device) *LayerSet {
	return &LayerSet{
		dev:    dev,
		progs:  layer.NewPrograms(dev),
		layers: make(map[string]layer.Drawable),
	}
}

// Add builds a layer of the given kind and stores it under name. An existing
// layer with that name is replaced and its GPU resources released; it keeps its
// position in the draw order. If construction fails the set is unchanged and
// the error (layer.ErrInvalidGeometry or gpu.ErrResourceCreation) is returned.
func (s *LayerSet) Add(name string, kind layer.Kind, geom layer.Geometry, color layer.Color) error {
	l, err := layer.New(s.dev, s.progs, kind, geom, color)
	if err != nil {
		return fmt.Errorf("layer %q: %w", name, err)
	}
	if old, ok := s.layers[name]; ok {
		old.Release(s.dev)
	} else {
		s.order = append(s.order, name)
	}
	s.layers[name] = l
	s.centroid = s.computeCentroid()
	return nil
}

// Remove deletes and releases the named layer. It reports whether the layer existed.
func (s *LayerSet) Remove(name string) bool {
	l, ok := s.layers[name]
	if ok {
		l.Release(s.dev)
		delete(s.layers, name)
		for i, n := range s.order {
			if n == name {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.centroid = s.computeCentroid()
	return ok
}

// Clear removes every layer.
func (s *LayerSet) Clear() {
	for _, name := range s.order {
		s.layers[name].Release(s.dev)
	}
	clear(s.layers)
	s.order = nil
	s.centroid = mat.Vec3{}
}

// Release clears the set and deletes the shared programs.
func (s *LayerSet) Release() {
	s.Clear()
	s.progs.Release()
}

// Get returns the named layer.
func (s *LayerSet) Get(name string) (layer.Drawable, bool) {
	l, ok := s.layers[name]
	return l, ok
}

// Names returns the layer names in draw order.
func (s *LayerSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of layers.
func (s *LayerSet) Len() int {
	return len(s.order)
}

// Centroid returns the average of every vertex position across all layers,
// or the origin when there are no vertices.
func (s *LayerSet) Centroid() mat.Vec3 {
	return s.centroid
}

func (s *LayerSet) computeCentroid() mat.Vec3 {
	var sum [3]float64
	var n int
	for _, name := range s.order {
		pos := s.layers[name].Geometry().Positions
		for i := 0; i+2 < len(pos); i += 3 {
			sum[0] += float64(pos[i])
			sum[1] += float64(pos[i+1])
			sum[2] += float64(pos[i+2])
		}
		n += len(pos) / 3
	}
	if n == 0 {
		return mat.Vec3{}
	}
	return mat.Vec3{
		float32(sum[0] / float64(n)),
		float32(sum[1] / float64(n)),
		float32(sum[2] / float64(n)),
	}
}

// DrawAll computes the frame matrices around the current centroid and draws
// every layer with them. An empty set draws nothing.
func (s *LayerSet) DrawAll(state view.State, params view.Params, aspect float32) {
	if len(s.order) == 0 {
		return
	}
	f := params.Frame(state, s.centroid, aspect)
	for _, name := range s.order {
		s.layers[name].Draw(s.dev, f)
	}
}
