// Package render owns the per-frame state and drives the frame loop.
package render

import (
	"city-viewer/internal/gpu"
	"city-viewer/internal/scene"
	"city-viewer/internal/view"
)

// Scheduler is the host's "run again next refresh" primitive. Next blocks
// until the next display refresh and reports false once the host is closing.
type Scheduler interface {
	Next() bool
}

// State is everything one frame reads. All mutation happens on the loop's
// goroutine between frames.
type State struct {
	View   view.State
	Params view.Params
	Layers *scene.LayerSet

	// Framebuffer size in pixels, refreshed by the host each frame.
	Width, Height int32

	// Paused skips scene drawing while frames keep being scheduled.
	Paused bool
}

// NewState returns a State with the default interaction state and params.
func NewState(layers *scene.LayerSet) *State {
	return &State{
		View:   view.DefaultState(),
		Params: view.DefaultParams(),
		Layers: layers,
	}
}

// Aspect is the framebuffer aspect ratio, 1 for an empty framebuffer.
func (s *State) Aspect() float32 {
	return view.Aspect(s.Width, s.Height)
}

// Renderer draws a State's layers through a gpu.Device.
type Renderer struct {
	dev gpu.Device
}

// NewRenderer returns a Renderer for dev.
func NewRenderer(dev gpu.Device) *Renderer {
	return &Renderer{dev: dev}
}

// Frame draws one frame: scene setup, every layer with the matrices for
// the current interaction state, scene teardown. A paused or nil-layer
// state only sets up and tears down the scene.
func (r *Renderer) Frame(s *State) {
	r.dev.BeginScene(s.Width, s.Height)
	if !s.Paused && s.Layers != nil {
		s.Layers.DrawAll(s.View, s.Params, s.Aspect())
	}
	r.dev.EndScene()
}

// Loop calls tick once per scheduled frame until the scheduler stops and
// returns the number of frames run.
func Loop(sched Scheduler, tick func()) int {
	frames := 0
	for sched.Next() {
		tick()
		frames++
	}
	return frames
}
