package viewerconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"city-viewer/internal/logger"
	"city-viewer/internal/view"
	"github.com/jinzhu/copier"
)

// ViewerConfigPath is the default prefs file, relative to the process working directory.
const ViewerConfigPath = "config/viewer.json"

// ErrInvalidPrefs is returned by Validate.
var ErrInvalidPrefs = errors.New("invalid viewer prefs")

// Prefs holds window, camera and overlay preferences. Persisted across runs.
// Camera fields share their names with view.Params.
type Prefs struct {
	WindowWidth  int32      `json:"window_width"`
	WindowHeight int32      `json:"window_height"`
	Title        string     `json:"title"`
	TargetFPS    int32      `json:"target_fps"`
	Fullscreen   bool       `json:"fullscreen"`
	MSAA         bool       `json:"msaa"`
	ClearColor   [4]float32 `json:"clear_color"`

	FovY             float32 `json:"fov_y_degrees"`
	Near             float32 `json:"near"`
	Far              float32 `json:"far"`
	OrthoNear        float32 `json:"ortho_near"`
	OrthoFar         float32 `json:"ortho_far"`
	MaxZoom          float32 `json:"max_zoom"`
	ZoomSensitivity  float32 `json:"zoom_sensitivity"`
	MaxOrthoSize     float32 `json:"max_ortho_size"`
	OrthoSensitivity float32 `json:"ortho_sensitivity"`

	ShowFPS bool `json:"show_fps"`
	ShowHUD bool `json:"show_hud"`

	ScenePath string `json:"scene_path,omitempty"`
	LogPath   string `json:"log_path,omitempty"`
}

// Default returns the default prefs: a 1280×720 window at 60 FPS and the
// default camera constants.
func Default() Prefs {
	d := view.DefaultParams()
	return Prefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		Title:        "City Viewer",
		TargetFPS:    60,
		MSAA:         true,
		ClearColor:   [4]float32{190.0 / 255, 210.0 / 255, 215.0 / 255, 1},
		ShowHUD:      true,
		LogPath:      logger.LogFilePath,

		FovY:             d.FovY,
		Near:             d.Near,
		Far:              d.Far,
		OrthoNear:        d.OrthoNear,
		OrthoFar:         d.OrthoFar,
		MaxZoom:          d.MaxZoom,
		ZoomSensitivity:  d.ZoomSensitivity,
		MaxOrthoSize:     d.MaxOrthoSize,
		OrthoSensitivity: d.OrthoSensitivity,
	}
}

// Load reads prefs from path (ViewerConfigPath when empty). A missing file
// yields Default() without creating it; keys absent from the file keep their
// defaults. Decoded prefs are validated.
func Load(path string) (Prefs, error) {
	if path == "" {
		path = ViewerConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes prefs to path (ViewerConfigPath when empty), creating the directory if needed.
func Save(path string, p Prefs) error {
	if path == "" {
		path = ViewerConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the window size and camera constants.
func (p Prefs) Validate() error {
	switch {
	case p.WindowWidth <= 0 || p.WindowHeight <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidPrefs, p.WindowWidth, p.WindowHeight)
	case p.FovY <= 0 || p.FovY >= 180:
		return fmt.Errorf("%w: fov_y_degrees %v", ErrInvalidPrefs, p.FovY)
	case p.Near <= 0:
		return fmt.Errorf("%w: near %v", ErrInvalidPrefs, p.Near)
	case p.Far <= p.Near:
		return fmt.Errorf("%w: far %v <= near %v", ErrInvalidPrefs, p.Far, p.Near)
	case p.OrthoFar <= p.OrthoNear:
		return fmt.Errorf("%w: ortho_far %v <= ortho_near %v", ErrInvalidPrefs, p.OrthoFar, p.OrthoNear)
	case p.MaxZoom <= 0:
		return fmt.Errorf("%w: max_zoom %v", ErrInvalidPrefs, p.MaxZoom)
	case p.ZoomSensitivity <= 0 || p.ZoomSensitivity > 1:
		return fmt.Errorf("%w: zoom_sensitivity %v", ErrInvalidPrefs, p.ZoomSensitivity)
	case p.MaxOrthoSize <= 0:
		return fmt.Errorf("%w: max_ortho_size %v", ErrInvalidPrefs, p.MaxOrthoSize)
	case p.OrthoSensitivity <= 0 || p.OrthoSensitivity > 1:
		return fmt.Errorf("%w: ortho_sensitivity %v", ErrInvalidPrefs, p.OrthoSensitivity)
	}
	for _, c := range p.ClearColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: clear_color %v", ErrInvalidPrefs, p.ClearColor)
		}
	}
	return nil
}

// ToParams returns the camera constants as view.Params.
func (p Prefs) ToParams() (view.Params, error) {
	var out view.Params
	if err := copier.Copy(&out, &p); err != nil {
		return view.DefaultParams(), fmt.Errorf("camera params: %w", err)
	}
	return out, nil
}
