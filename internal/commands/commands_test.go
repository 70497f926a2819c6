package commands

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"city-viewer/internal/gpu/gputest"
	"city-viewer/internal/layer"
	"city-viewer/internal/logger"
	"city-viewer/internal/mapgen"
	"city-viewer/internal/render"
	"city-viewer/internal/scene"
	"city-viewer/internal/sceneio"
	"city-viewer/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewer struct {
	state    *render.State
	loaded   []string
	demo     *mapgen.CityOptions
	shotPath string
	shotArgs []float64
	saved    int
	overlays map[Overlay]bool
}

func newFakeViewer() *fakeViewer {
	return &fakeViewer{
		state:    render.NewState(scene.NewLayerSet(gputest.New())),
		overlays: make(map[Overlay]bool),
	}
}

func (f *fakeViewer) State() *render.State { return f.state }
func (f *fakeViewer) Load(src string) error {
	f.loaded = append(f.loaded, src)
	return nil
}
func (f *fakeViewer) Demo(opts mapgen.CityOptions) error {
	f.demo = &opts
	return nil
}
func (f *fakeViewer) Screenshot(path string, scale float64) (string, error) {
	f.shotPath = path
	f.shotArgs = append(f.shotArgs, scale)
	return "shots/x.png", nil
}
func (f *fakeViewer) SaveConfig() error             { f.saved++; return nil }
func (f *fakeViewer) Overlay(o Overlay) bool        { return f.overlays[o] }
func (f *fakeViewer) SetOverlay(o Overlay, on bool) { f.overlays[o] = on }

func setup(t *testing.T) (*Registry, *fakeViewer, *logger.Logger) {
	t.Helper()
	r := NewRegistry()
	v := newFakeViewer()
	log := logger.NewAt("")
	RegisterViewer(r, v, log)
	return r, v, log
}

func run(t *testing.T, r *Registry, line string) error {
	t.Helper()
	args, ok := Parse(line)
	require.True(t, ok, line)
	return r.Execute(args)
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"zoom 5", []string{"zoom", "5"}, true},
		{"cmd zoom 5", []string{"zoom", "5"}, true},
		{"  demo --seed 3  ", []string{"demo", "--seed", "3"}, true},
		{"cmd", nil, false},
		{"   ", nil, false},
		{"cmdx", []string{"cmdx"}, true},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Execute(nil))
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUnknownCommand)

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	n := fs.Int("n", 7, "")
	var got []int
	r.Register("x", "x: test", fs, func() error {
		got = append(got, *n)
		return nil
	})
	require.NoError(t, r.Execute([]string{"x", "-n", "2"}))
	require.NoError(t, r.Execute([]string{"x"}))
	assert.Equal(t, []int{2, 7}, got)
	assert.Error(t, r.Execute([]string{"x", "-bogus"}))
	assert.Equal(t, []string{"x"}, r.Names())
	assert.Equal(t, "x: test", r.Help("x"))
}

func TestRotateZoomProjection(t *testing.T) {
	r, v, _ := setup(t)
	s := &v.state.View

	require.NoError(t, run(t, r, "rotate 90"))
	assert.Equal(t, float32(90), s.Rotation)
	assert.Error(t, run(t, r, "rotate 12.5"))
	assert.Equal(t, float32(90), s.Rotation)

	require.NoError(t, run(t, r, "zoom 42.5"))
	assert.Equal(t, float32(42.5), s.Zoom)
	require.NoError(t, run(t, r, "zoom 1000"))
	assert.Equal(t, float32(view.MaxZoom), s.Zoom)
	assert.Error(t, run(t, r, "zoom far"))
	assert.Error(t, run(t, r, "zoom nan"))
	assert.Equal(t, float32(view.MaxZoom), s.Zoom)

	require.NoError(t, run(t, r, "projection orthographic"))
	assert.Equal(t, view.Orthographic, s.Projection)
	assert.Error(t, run(t, r, "projection fisheye"))
	assert.Equal(t, view.Orthographic, s.Projection)

	require.NoError(t, run(t, r, "reset"))
	assert.Equal(t, view.DefaultState(), *s)
}

func TestPauseResume(t *testing.T) {
	r, v, _ := setup(t)
	require.NoError(t, run(t, r, "pause"))
	assert.True(t, v.state.Paused)
	require.NoError(t, run(t, r, "resume"))
	assert.False(t, v.state.Paused)
}

func TestOverlays(t *testing.T) {
	r, v, _ := setup(t)
	require.NoError(t, run(t, r, "hud"))
	assert.True(t, v.overlays[OverlayHUD])
	require.NoError(t, run(t, r, "hud"))
	assert.False(t, v.overlays[OverlayHUD])
	require.NoError(t, run(t, r, "fps on"))
	assert.True(t, v.overlays[OverlayFPS])
	require.NoError(t, run(t, r, "fps off"))
	assert.False(t, v.overlays[OverlayFPS])
	assert.Error(t, run(t, r, "fps maybe"))
}

func TestLayersAndRemove(t *testing.T) {
	r, v, log := setup(t)
	set := v.state.Layers
	require.NoError(t, set.Add("water", layer.KindFlat, layer.Geometry{
		Positions: []float32{0, 0, 0, 2, 0, 0, 0, 2, 0},
		Indices:   []uint32{0, 1, 2},
	}, layer.NewColor(0, 0, 1, 1)))

	require.NoError(t, run(t, r, "layers"))
	out := strings.Join(log.Lines(), "\n")
	assert.Contains(t, out, "water (flat): 3 vertices, 1 triangles")
	assert.Contains(t, out, "centroid (0.67, 0.67, 0.00)")

	assert.Error(t, run(t, r, "remove parks"))
	require.NoError(t, run(t, r, "remove water"))
	assert.Equal(t, 0, set.Len())
	assert.Error(t, run(t, r, "remove"))
}

func TestLoadDemoScreenshotSave(t *testing.T) {
	r, v, _ := setup(t)
	require.NoError(t, run(t, r, "load scenes/chicago.json"))
	assert.Equal(t, []string{"scenes/chicago.json"}, v.loaded)
	assert.Error(t, run(t, r, "load"))

	require.NoError(t, run(t, r, "demo --seed 9 --size 4"))
	require.NotNil(t, v.demo)
	assert.Equal(t, int64(9), v.demo.Seed)
	assert.Equal(t, 4, v.demo.Blocks)
	require.NoError(t, run(t, r, "demo"))
	assert.Equal(t, int64(0), v.demo.Seed)
	assert.Equal(t, mapgen.DefaultCityOptions().Blocks, v.demo.Blocks)
	assert.Error(t, run(t, r, "demo --size 0"))

	require.NoError(t, run(t, r, "screenshot --scale 0.5 out.png"))
	assert.Equal(t, "out.png", v.shotPath)
	require.NoError(t, run(t, r, "screenshot"))
	assert.Equal(t, []float64{0.5, 1}, v.shotArgs)
	assert.Error(t, run(t, r, "screenshot --scale 0"))

	require.NoError(t, run(t, r, "save-config"))
	assert.Equal(t, 1, v.saved)
}

func TestExport(t *testing.T) {
	r, v, _ := setup(t)
	require.NoError(t, sceneio.Import(v.state.Layers, mapgen.GenerateCity(mapgen.CityOptions{Blocks: 2, Seed: 1})).Err())

	path := filepath.Join(t.TempDir(), "out", "city.json")
	require.NoError(t, run(t, r, "export "+path))
	d, err := sceneio.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, d.Entries, 4)
	assert.Empty(t, d.Errors)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestHelpListsCommands(t *testing.T) {
	r, _, log := setup(t)
	require.NoError(t, run(t, r, "help"))
	out := strings.Join(log.Lines(), "\n")
	for _, n := range r.Names() {
		assert.Contains(t, out, n)
	}
}

func TestScenesEmpty(t *testing.T) {
	r, _, log := setup(t)
	t.Chdir(t.TempDir())
	require.NoError(t, run(t, r, "scenes"))
	assert.Contains(t, strings.Join(log.Lines(), "\n"), "no scenes found")
}
