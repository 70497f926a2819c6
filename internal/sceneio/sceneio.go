// Package sceneio decodes scene descriptions and imports them into a LayerSet.
//
// A scene is an object with one key per layer category:
//
//	{"buildings": {"coordinates": [...], "indices": [...], "normals": [...], "color": [r,g,b,a]},
//	 "water": {...}, "parks": {...}, "surface": {...}}
//
// Unknown keys are ignored. Each category is decoded on its own so one bad
// entry does not prevent the others from loading.
package sceneio

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"city-viewer/internal/layer"
	"gopkg.in/yaml.v3"
)

// ErrMalformedScene is returned when a scene document or one of its
// recognized categories is missing required fields or has the wrong shape.
var ErrMalformedScene = errors.New("malformed scene")

// Category is a recognized top-level key and the layer kind it produces.
type Category struct {
	Name string
	Kind layer.Kind
}

// Categories lists the recognized keys in import order.
var Categories = []Category{
	{"buildings", layer.KindBuilding},
	{"water", layer.KindFlat},
	{"parks", layer.KindFlat},
	{"surface", layer.KindFlat},
}

// CategoryKind returns the layer kind for a recognized category name.
func CategoryKind(name string) (layer.Kind, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// Entry is one category's payload.
type Entry struct {
	Coordinates []float32 `json:"coordinates" yaml:"coordinates"`
	Indices     []uint32  `json:"indices" yaml:"indices"`
	Normals     []float32 `json:"normals,omitempty" yaml:"normals,omitempty"`
	Color       []float32 `json:"color" yaml:"color"`
}

// check reports missing fields for the given kind. A building entry with no
// vertices may omit normals.
func (e Entry) check(kind layer.Kind) error {
	var missing []string
	if e.Coordinates == nil {
		missing = append(missing, "coordinates")
	}
	if e.Indices == nil {
		missing = append(missing, "indices")
	}
	if kind == layer.KindBuilding && e.Normals == nil && len(e.Coordinates) > 0 {
		missing = append(missing, "normals")
	}
	if e.Color == nil {
		missing = append(missing, "color")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrMalformedScene)
	}
	if len(e.Color) != 4 {
		return fmt.Errorf("color has %d components, want 4: %w", len(e.Color), ErrMalformedScene)
	}
	return nil
}

// Geometry returns the entry's geometry. Normals are dropped for flat kinds.
func (e Entry) Geometry(kind layer.Kind) layer.Geometry {
	g := layer.Geometry{Positions: e.Coordinates, Indices: e.Indices}
	if kind == layer.KindBuilding {
		g.Normals = e.Normals
	}
	return g
}

// LayerColor returns the entry's color clamped to [0,1].
func (e Entry) LayerColor() layer.Color {
	if len(e.Color) != 4 {
		return layer.Color{}
	}
	return layer.NewColor(e.Color[0], e.Color[1], e.Color[2], e.Color[3])
}

// Description is a decoded scene. Entries holds the categories that decoded
// and passed field checks; Errors holds the recognized categories that did not.
type Description struct {
	Entries map[string]Entry
	Errors  map[string]error
}

// NewDescription returns an empty description.
func NewDescription() *Description {
	return &Description{Entries: make(map[string]Entry), Errors: make(map[string]error)}
}

// Format is a scene document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode parses a scene document. It fails only when the document itself is
// not an object; per-category problems are recorded in Description.Errors.
func Decode(data []byte, format Format) (*Description, error) {
	if format == YAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (*Description, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: %v: %w", err, ErrMalformedScene)
	}
	d := NewDescription()
	for _, c := range Categories {
		msg, ok := raw[c.Name]
		if !ok {
			continue
		}
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			d.Errors[c.Name] = fmt.Errorf("%s: %v: %w", c.Name, err, ErrMalformedScene)
			continue
		}
		d.add(c, e)
	}
	return d, nil
}

func decodeYAML(data []byte) (*Description, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: %v: %w", err, ErrMalformedScene)
	}
	d := NewDescription()
	for _, c := range Categories {
		node, ok := raw[c.Name]
		if !ok {
			continue
		}
		var e Entry
		if err := node.Decode(&e); err != nil {
			d.Errors[c.Name] = fmt.Errorf("%s: %v: %w", c.Name, err, ErrMalformedScene)
			continue
		}
		d.add(c, e)
	}
	return d, nil
}

func (d *Description) add(c Category, e Entry) {
	if err := e.check(c.Kind); err != nil {
		d.Errors[c.Name] = fmt.Errorf("%s: %w", c.Name, err)
		return
	}
	d.Entries[c.Name] = e
}

// Encode writes the description's entries as a JSON scene document.
func Encode(d *Description) ([]byte, error) {
	return json.Marshal(d.Entries)
}
