package sceneio

import (
	"errors"
	"sort"

	"city-viewer/internal/layer"
	"city-viewer/internal/scene"
)

// Report lists the outcome of an import per category.
type Report struct {
	Added  []string
	Failed map[string]error
}

// Err joins every per-category failure, sorted by category name, or returns nil.
func (r Report) Err() error {
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, r.Failed[name])
	}
	return errors.Join(errs...)
}

// Import adds every entry of d to set under its category name, replacing
// layers of the same name. Categories that failed to decode, or whose layer
// could not be built, are reported in Failed and leave the set untouched.
func Import(set *scene.LayerSet, d *Description) Report {
	r := Report{Failed: make(map[string]error)}
	for _, c := range Categories {
		if err, ok := d.Errors[c.Name]; ok {
			r.Failed[c.Name] = err
			continue
		}
		e, ok := d.Entries[c.Name]
		if !ok {
			continue
		}
		if err := set.Add(c.Name, c.Kind, e.Geometry(c.Kind), e.LayerColor()); err != nil {
			r.Failed[c.Name] = err
			continue
		}
		r.Added = append(r.Added, c.Name)
	}
	return r
}

// FromLayerSet describes the layers currently in set, one entry per layer
// named after a category. Normals are kept for building layers only.
func FromLayerSet(set *scene.LayerSet) *Description {
	d := NewDescription()
	for _, name := range set.Names() {
		if _, ok := CategoryKind(name); !ok {
			continue
		}
		l, _ := set.Get(name)
		g := l.Geometry()
		c := l.Color()
		e := Entry{
			Coordinates: g.Positions,
			Indices:     g.Indices,
			Color:       []float32{c[0], c[1], c[2], c[3]},
		}
		if l.Kind() == layer.KindBuilding {
			e.Normals = g.Normals
		}
		d.Entries[name] = e
	}
	return d
}
