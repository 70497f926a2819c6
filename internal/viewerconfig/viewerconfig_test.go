package viewerconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"city-viewer/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, int32(1280), p.WindowWidth)
	assert.Equal(t, float32(45), p.FovY)
	assert.Equal(t, float32(5000), p.MaxOrthoSize)
	assert.InDelta(t, 190.0/255, p.ClearColor[0], 1e-6)
	params, err := p.ToParams()
	require.NoError(t, err)
	assert.Equal(t, view.DefaultParams(), params)
}

func TestLoadMissing(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"show_hud": false, "max_ortho_size": 800, "ortho_sensitivity": 0.5}`), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.False(t, p.ShowHUD)
	assert.True(t, p.MSAA)
	assert.Equal(t, int32(720), p.WindowHeight)

	params, err := p.ToParams()
	require.NoError(t, err)
	assert.Equal(t, float32(800), params.MaxOrthoSize)
	assert.Equal(t, float32(0.5), params.OrthoSensitivity)
	assert.Equal(t, float32(5000), params.MaxZoom)
	assert.Equal(t, float32(0.99), params.ZoomSensitivity)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"near": `), 0644))
	p, err := Load(bad)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"near": 10, "far": 5}`), 0644))
	_, err = Load(invalid)
	assert.True(t, errors.Is(err, ErrInvalidPrefs))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "viewer.json")
	p := Default()
	p.ShowFPS = true
	p.ScenePath = "scenes/chicago.json"
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Prefs)
	}{
		{"zero width", func(p *Prefs) { p.WindowWidth = 0 }},
		{"near zero", func(p *Prefs) { p.Near = 0 }},
		{"far below near", func(p *Prefs) { p.Far = p.Near }},
		{"fov", func(p *Prefs) { p.FovY = 180 }},
		{"ortho range", func(p *Prefs) { p.OrthoFar = p.OrthoNear }},
		{"max zoom", func(p *Prefs) { p.MaxZoom = -1 }},
		{"zoom sensitivity", func(p *Prefs) { p.ZoomSensitivity = 1.5 }},
		{"ortho size", func(p *Prefs) { p.MaxOrthoSize = 0 }},
		{"ortho sensitivity", func(p *Prefs) { p.OrthoSensitivity = 0 }},
		{"clear color", func(p *Prefs) { p.ClearColor[2] = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidPrefs)
		})
	}
}

func TestToParamsCopiesEveryCameraField(t *testing.T) {
	p := Default()
	p.FovY, p.Near, p.Far = 60, 2, 900
	p.OrthoNear, p.OrthoFar = -5, 800
	p.MaxZoom, p.ZoomSensitivity = 3000, 0.9
	p.MaxOrthoSize, p.OrthoSensitivity = 1200, 0.8

	params, err := p.ToParams()
	require.NoError(t, err)
	assert.Equal(t, view.Params{
		FovY: 60, Near: 2, Far: 900,
		OrthoNear: -5, OrthoFar: 800,
		MaxZoom: 3000, ZoomSensitivity: 0.9,
		MaxOrthoSize: 1200, OrthoSensitivity: 0.8,
	}, params)
}
