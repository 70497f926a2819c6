package sceneio

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"city-viewer/internal/gpu/gputest"
	"city-viewer/internal/layer"
	"city-viewer/internal/mat"
	"city-viewer/internal/scene"
	"city-viewer/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waterOnly = `{"water":{"coordinates":[0,0,0, 1,0,0, 0,1,0],"indices":[0,1,2],"color":[0,0,1,1]}}`

func TestImportWaterEndToEnd(t *testing.T) {
	d, err := Decode([]byte(waterOnly), JSON)
	require.NoError(t, err)

	dev := gputest.New()
	set := scene.NewLayerSet(dev)
	r := Import(set, d)
	require.NoError(t, r.Err())
	assert.Equal(t, []string{"water"}, r.Added)
	assert.Equal(t, []string{"water"}, set.Names())

	c := set.Centroid()
	assert.InDelta(t, 0.333, c[0], 1e-3)
	assert.InDelta(t, 0.333, c[1], 1e-3)
	assert.InDelta(t, 0, c[2], 1e-6)

	set.DrawAll(view.State{Rotation: 0, Zoom: 50, Projection: view.Perspective}, view.DefaultParams(), 1)
	require.Len(t, dev.Draws, 1)
	model := mat.Mat4(dev.Draws[0].Mat4["uModel"])
	assert.True(t, model.ApproxEqual(mat.Identity(), 1e-6), "%v", model)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, dev.Draws[0].Vec4["uColor"])
}

func TestBuildingsWithoutNormalsIsMalformed(t *testing.T) {
	doc := `{
		"buildings": {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[1,1,1,1]},
		"water":     {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[0,0,1,1]},
		"parks":     {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[0,1,0,1]},
		"surface":   {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[0.5,0.5,0.5,1]},
		"roads":     {"anything": true}
	}`
	d, err := Decode([]byte(doc), JSON)
	require.NoError(t, err)
	require.Contains(t, d.Errors, "buildings")
	assert.ErrorIs(t, d.Errors["buildings"], ErrMalformedScene)
	assert.NotContains(t, d.Errors, "roads")

	set := scene.NewLayerSet(gputest.New())
	r := Import(set, d)
	assert.ErrorIs(t, r.Err(), ErrMalformedScene)
	assert.Equal(t, []string{"water", "parks", "surface"}, r.Added)
	assert.ElementsMatch(t, []string{"water", "parks", "surface"}, set.Names())
}

func TestOutOfRangeIndexIsInvalidGeometry(t *testing.T) {
	doc := `{
		"water":   {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,3], "color":[0,0,1,1]},
		"surface": {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[0.5,0.5,0.5,1]}
	}`
	d, err := Decode([]byte(doc), JSON)
	require.NoError(t, err)
	set := scene.NewLayerSet(gputest.New())
	r := Import(set, d)

	assert.ErrorIs(t, r.Failed["water"], layer.ErrInvalidGeometry)
	_, ok := set.Get("water")
	assert.False(t, ok)
	_, ok = set.Get("surface")
	assert.True(t, ok)
}

func TestDecodeEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing coordinates", `{"parks":{"indices":[],"color":[0,0,0,1]}}`},
		{"missing indices", `{"parks":{"coordinates":[],"color":[0,0,0,1]}}`},
		{"missing color", `{"parks":{"coordinates":[],"indices":[]}}`},
		{"short color", `{"parks":{"coordinates":[],"indices":[],"color":[1,1,1]}}`},
		{"negative index", `{"parks":{"coordinates":[0,0,0],"indices":[-1],"color":[0,0,0,1]}}`},
		{"not an object", `{"parks":[1,2,3]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode([]byte(tt.doc), JSON)
			require.NoError(t, err)
			assert.ErrorIs(t, d.Errors["parks"], ErrMalformedScene)
			assert.Empty(t, d.Entries)
		})
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	for _, doc := range []string{``, `[]`, `{"water":`, `42`} {
		_, err := Decode([]byte(doc), JSON)
		assert.ErrorIs(t, err, ErrMalformedScene, "%q", doc)
	}
	_, err := Decode([]byte("- a\n- b\n"), YAML)
	assert.ErrorIs(t, err, ErrMalformedScene)
}

func TestDecodeEmptyCategoryIsValid(t *testing.T) {
	d, err := Decode([]byte(`{"surface":{"coordinates":[],"indices":[],"color":[1,1,1,1]}}`), JSON)
	require.NoError(t, err)
	assert.Contains(t, d.Entries, "surface")
}

func TestDecodeYAML(t *testing.T) {
	doc := `
buildings:
  coordinates: [0, 0, 0, 1, 0, 0, 0, 1, 0]
  indices: [0, 1, 2]
  normals: [0, 0, 1, 0, 0, 1, 0, 0, 1]
  color: [0.9, 0.9, 0.9, 1]
parks:
  coordinates: [0, 0, 0]
  color: [0, 1, 0, 1]
`
	d, err := Decode([]byte(doc), YAML)
	require.NoError(t, err)
	require.Contains(t, d.Entries, "buildings")
	assert.Equal(t, []uint32{0, 1, 2}, d.Entries["buildings"].Indices)
	assert.ErrorIs(t, d.Errors["parks"], ErrMalformedScene)
}

func TestImportRejectsNonFiniteCoordinates(t *testing.T) {
	doc := `
water:
  coordinates: [.nan, 0, 0, 1, 0, 0, 0, 1, 0]
  indices: [0, 1, 2]
  color: [0, 0, 1, 1]
parks:
  coordinates: [0, 0, 0, .inf, 0, 0, 0, 1, 0]
  indices: [0, 1, 2]
  color: [0, 1, 0, 1]
surface:
  coordinates: [0, 0, 0, 1, 0, 0, 0, 1, 0]
  indices: [0, 1, 2]
  color: [0.5, 0.5, 0.5, 1]
`
	d, err := Decode([]byte(doc), YAML)
	require.NoError(t, err)

	set := scene.NewLayerSet(gputest.New())
	r := Import(set, d)
	assert.ErrorIs(t, r.Failed["water"], layer.ErrInvalidGeometry)
	assert.ErrorIs(t, r.Failed["parks"], layer.ErrInvalidGeometry)
	assert.Equal(t, []string{"surface"}, r.Added)
	assert.Equal(t, []string{"surface"}, set.Names())

	c := set.Centroid()
	assert.InDelta(t, 0.333, c[0], 1e-3)
	assert.InDelta(t, 0.333, c[1], 1e-3)
	assert.InDelta(t, 0, c[2], 1e-6)
}

func TestFlatEntryDropsNormals(t *testing.T) {
	e := Entry{Coordinates: []float32{0, 0, 0}, Indices: []uint32{0}, Normals: []float32{1}, Color: []float32{2, 0, 0, 1}}
	assert.Nil(t, e.Geometry(layer.KindFlat).Normals)
	assert.Equal(t, layer.Color{1, 0, 0, 1}, e.LayerColor())
}

func TestEncodeRoundTrip(t *testing.T) {
	d, err := Decode([]byte(waterOnly), JSON)
	require.NoError(t, err)
	data, err := Encode(d)
	require.NoError(t, err)
	again, err := Decode(data, JSON)
	require.NoError(t, err)
	assert.Equal(t, d.Entries, again.Entries)
}

func TestReadFileFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "city.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(waterOnly), 0644))
	d, err := ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, d.Entries, "water")

	zipPath := filepath.Join(dir, "city.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("export/city.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(waterOnly))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	d, err = Read(context.Background(), zipPath, dir)
	require.NoError(t, err)
	assert.Contains(t, d.Entries, "water")

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCategoryKind(t *testing.T) {
	k, ok := CategoryKind("buildings")
	assert.True(t, ok)
	assert.Equal(t, layer.KindBuilding, k)
	_, ok = CategoryKind("roads")
	assert.False(t, ok)
	assert.Equal(t, YAML, FormatFromPath("a/B.YML"))
	assert.Equal(t, JSON, FormatFromPath("a/b"))
}

func TestFromLayerSetReimports(t *testing.T) {
	doc := `{
		"buildings": {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "normals":[0,0,1, 0,0,1, 0,0,1], "color":[1,1,1,1]},
		"water":     {"coordinates":[0,0,0, 1,0,0, 0,1,0], "indices":[0,1,2], "color":[0,0,1,1]}
	}`
	d, err := Decode([]byte(doc), JSON)
	require.NoError(t, err)
	set := scene.NewLayerSet(gputest.New())
	require.NoError(t, Import(set, d).Err())

	out := FromLayerSet(set)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, out.Entries["buildings"].Normals)
	assert.Nil(t, out.Entries["water"].Normals)

	data, err := Encode(out)
	require.NoError(t, err)
	again, err := Decode(data, JSON)
	require.NoError(t, err)
	other := scene.NewLayerSet(gputest.New())
	require.NoError(t, Import(other, again).Err())
	assert.Equal(t, set.Names(), other.Names())
	assert.Equal(t, set.Centroid(), other.Centroid())
}

func TestFromLayerSetSkipsUnknownNames(t *testing.T) {
	set := scene.NewLayerSet(gputest.New())
	geom := layer.Geometry{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}}
	require.NoError(t, set.Add("water", layer.KindFlat, geom, layer.NewColor(0, 0, 1, 1)))
	require.NoError(t, set.Add("roads", layer.KindFlat, geom, layer.NewColor(0, 0, 0, 1)))

	out := FromLayerSet(set)
	assert.Contains(t, out.Entries, "water")
	assert.NotContains(t, out.Entries, "roads")
}
