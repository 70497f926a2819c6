package hud

import (
	"fmt"

	"city-viewer/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the FPS text every N frames to reduce allocations.
	updateInterval = 30
)

var panelColor = rl.NewColor(0, 0, 0, 110)

// HUD draws the FPS counter (top-right, green) and the interaction readout
// (top-left): rotation, zoom, projection, layer count and centroid.
type HUD struct {
	ShowFPS   bool
	ShowState bool

	frameCount  uint32
	lastFpsText string
	lines       [4]string
}

// New returns a HUD with the given overlays enabled.
func New(showFPS, showState bool) *HUD {
	return &HUD{ShowFPS: showFPS, ShowState: showState}
}

// Draw renders the enabled overlays. Call after the scene so text is on top.
func (h *HUD) Draw(s *render.State) {
	h.frameCount++
	if h.ShowFPS {
		if h.frameCount%updateInterval == 0 || h.lastFpsText == "" {
			h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		w := rl.MeasureText(h.lastFpsText, fontSize)
		rl.DrawText(h.lastFpsText, int32(rl.GetScreenWidth())-w-padding, padding, fontSize, rl.Green)
	}
	if h.ShowState && s != nil {
		h.drawState(s)
	}
}

func (h *HUD) drawState(s *render.State) {
	h.lines[0] = fmt.Sprintf("rotation %.0f deg  zoom %.1f", s.View.Rotation, s.View.Zoom)
	h.lines[1] = "projection " + s.View.Projection.String()
	h.lines[2] = "layers 0"
	h.lines[3] = ""
	if s.Layers != nil {
		c := s.Layers.Centroid()
		h.lines[2] = fmt.Sprintf("layers %d", s.Layers.Len())
		h.lines[3] = fmt.Sprintf("centroid %.1f, %.1f, %.1f", c[0], c[1], c[2])
	}
	if s.Paused {
		h.lines[1] += "  (paused)"
	}

	var width int32
	for _, l := range h.lines {
		width = max(width, rl.MeasureText(l, fontSize))
	}
	rl.DrawRectangle(padding/2, padding/2, width+padding, int32(len(h.lines))*lineHeight+padding, panelColor)
	for i, l := range h.lines {
		rl.DrawText(l, padding, padding+int32(i)*lineHeight, fontSize, rl.RayWhite)
	}
}
