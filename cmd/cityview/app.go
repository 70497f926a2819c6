package main

import (
	"context"
	"fmt"
	"time"

	"city-viewer/internal/catalog"
	"city-viewer/internal/commands"
	"city-viewer/internal/download"
	"city-viewer/internal/graphics"
	"city-viewer/internal/hud"
	"city-viewer/internal/input"
	"city-viewer/internal/logger"
	"city-viewer/internal/mapgen"
	"city-viewer/internal/render"
	"city-viewer/internal/sceneio"
	"city-viewer/internal/snapshot"
	"city-viewer/internal/terminal"
	"city-viewer/internal/viewerconfig"
)

// loaded is a scene fetched off the render thread.
type loaded struct {
	src  string
	desc *sceneio.Description
	err  error
}

type screenshotRequest struct {
	path  string
	scale float64
}

// app owns everything the frame loop touches. Only the render thread calls
// its methods; downloads hand results back through pending.
type app struct {
	ctx      context.Context
	log      *logger.Logger
	win      *graphics.Window
	state    *render.State
	renderer *render.Renderer
	term     *terminal.Terminal
	hud      *hud.HUD
	drag     input.Drag

	prefs      viewerconfig.Prefs
	configPath string

	pending chan loaded
	shots   []screenshotRequest
}

var _ commands.Viewer = (*app)(nil)

func (a *app) tick() {
	a.drainPending()
	for _, f := range a.win.DroppedFiles() {
		if err := a.Load(f); err != nil {
			a.log.Errorf("%v", err)
		}
	}
	a.term.Update()
	a.win.PollPointer(&a.drag, a.state)

	a.state.Width, a.state.Height = a.win.FramebufferSize()
	a.renderer.Frame(a.state)
	a.takeScreenshots()

	a.hud.Draw(a.state)
	a.term.Draw()
}

func (a *app) State() *render.State { return a.state }

// Load imports local files immediately, resolving bare names against the
// scene directories. URLs are fetched in the background and imported on a
// later frame.
func (a *app) Load(src string) error {
	if !download.IsURL(src) {
		path, err := catalog.Resolve(src, catalog.BaseDirs())
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		d, err := sceneio.ReadFile(path)
		if err != nil {
			return err
		}
		a.importScene(path, d)
		return nil
	}
	a.log.Infof("downloading %s", src)
	go func() {
		d, err := sceneio.Read(a.ctx, src, download.DefaultDir)
		select {
		case a.pending <- loaded{src: src, desc: d, err: err}:
		case <-a.ctx.Done():
		}
	}()
	return nil
}

func (a *app) drainPending() {
	for {
		select {
		case l := <-a.pending:
			if l.err != nil {
				a.log.Errorf("%s: %v", l.src, l.err)
				continue
			}
			a.importScene(l.src, l.desc)
		default:
			return
		}
	}
}

func (a *app) importScene(src string, d *sceneio.Description) {
	r := sceneio.Import(a.state.Layers, d)
	for _, name := range r.Added {
		l, _ := a.state.Layers.Get(name)
		a.log.Infof("%s: layer %s, %d triangles", src, name, l.Geometry().TriangleCount())
	}
	for _, c := range sceneio.Categories {
		if err, ok := r.Failed[c.Name]; ok {
			a.log.Errorf("%s: %v", src, err)
		}
	}
	if len(r.Added) == 0 && len(r.Failed) == 0 {
		a.log.Warnf("%s: no recognized layers", src)
	}
}

func (a *app) Demo(opts mapgen.CityOptions) error {
	a.importScene(fmt.Sprintf("demo %dx%d", opts.Blocks, opts.Blocks), mapgen.GenerateCity(opts))
	return nil
}

// Screenshot queues a capture for after the scene is drawn this frame.
func (a *app) Screenshot(path string, scale float64) (string, error) {
	if path == "" {
		path = snapshot.DefaultPath(time.Now())
	}
	a.shots = append(a.shots, screenshotRequest{path: path, scale: scale})
	return path, nil
}

func (a *app) takeScreenshots() {
	if len(a.shots) == 0 {
		return
	}
	a.win.Flush()
	img := a.win.Capture()
	for _, s := range a.shots {
		p, err := snapshot.Save(img, s.path, s.scale)
		if err != nil {
			a.log.Errorf("screenshot: %v", err)
			continue
		}
		a.log.Infof("saved screenshot %s", p)
	}
	a.shots = a.shots[:0]
}

func (a *app) SaveConfig() error {
	a.prefs.ShowFPS = a.hud.ShowFPS
	a.prefs.ShowHUD = a.hud.ShowState
	return viewerconfig.Save(a.configPath, a.prefs)
}

func (a *app) Overlay(o commands.Overlay) bool {
	if o == commands.OverlayFPS {
		return a.hud.ShowFPS
	}
	return a.hud.ShowState
}

func (a *app) SetOverlay(o commands.Overlay, on bool) {
	if o == commands.OverlayFPS {
		a.hud.ShowFPS = on
		return
	}
	a.hud.ShowState = on
}
