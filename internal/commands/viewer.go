package commands

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"city-viewer/internal/catalog"
	"city-viewer/internal/logger"
	"city-viewer/internal/mapgen"
	"city-viewer/internal/render"
	"city-viewer/internal/sceneio"
	"city-viewer/internal/view"
)

// Overlay names a toggleable 2D overlay.
type Overlay string

const (
	OverlayHUD Overlay = "hud"
	OverlayFPS Overlay = "fps"
)

// Viewer is what the viewer commands act on. All methods are called on the render thread.
type Viewer interface {
	State() *render.State
	// Load imports a scene file, .zip bundle or http(s) URL. URL loads may
	// complete after Load returns.
	Load(src string) error
	Demo(opts mapgen.CityOptions) error
	// Screenshot captures the current frame scaled by scale and returns the saved path.
	Screenshot(path string, scale float64) (string, error)
	SaveConfig() error
	Overlay(o Overlay) bool
	SetOverlay(o Overlay, on bool)
}

// RegisterViewer adds the viewer commands to r. Command output goes to log.
func RegisterViewer(r *Registry, v Viewer, log *logger.Logger) {
	simple := func(name string) *flag.FlagSet { return flag.NewFlagSet(name, flag.ContinueOnError) }

	fs := simple("help")
	r.Register("help", "help: list commands", fs, func() error {
		for _, n := range r.Names() {
			log.Log(r.Help(n))
		}
		return nil
	})

	load := simple("load")
	r.Register("load", "load <file|name|url>: import a .json, .yaml or .zip scene, replacing same-named layers", load, func() error {
		src, err := oneArg(load, "path or url")
		if err != nil {
			return err
		}
		return v.Load(src)
	})

	scenes := simple("scenes")
	r.Register("scenes", "scenes: list scene files under "+strings.Join(catalog.BaseDirs(), ", "), scenes, func() error {
		list := catalog.Scan(catalog.BaseDirs())
		if len(list) == 0 {
			log.Log("no scenes found")
			return nil
		}
		for _, e := range list {
			log.Log(e.Path)
		}
		return nil
	})

	remove := simple("remove")
	r.Register("remove", "remove <layer>: remove a layer by name", remove, func() error {
		name, err := oneArg(remove, "layer name")
		if err != nil {
			return err
		}
		if !v.State().Layers.Remove(name) {
			return fmt.Errorf("no layer named %q", name)
		}
		log.Infof("removed layer %s", name)
		return nil
	})

	clr := simple("clear")
	r.Register("clear", "clear: remove every layer", clr, func() error {
		v.State().Layers.Clear()
		log.Log("cleared all layers")
		return nil
	})

	layers := simple("layers")
	r.Register("layers", "layers: list layers with vertex and triangle counts", layers, func() error {
		set := v.State().Layers
		if set.Len() == 0 {
			log.Log("no layers")
			return nil
		}
		for _, name := range set.Names() {
			l, _ := set.Get(name)
			g := l.Geometry()
			log.Infof("%s (%s): %d vertices, %d triangles", name, l.Kind(), g.VertexCount(), g.TriangleCount())
		}
		c := set.Centroid()
		log.Infof("centroid (%.2f, %.2f, %.2f)", c[0], c[1], c[2])
		return nil
	})

	rotate := simple("rotate")
	r.Register("rotate", "rotate <degrees>: set the rotation angle (integer degrees)", rotate, func() error {
		arg, err := oneArg(rotate, "degrees")
		if err != nil {
			return err
		}
		deg, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("rotate: %q is not an integer", arg)
		}
		v.State().View.Rotation = float32(deg)
		return nil
	})

	zoom := simple("zoom")
	r.Register("zoom", fmt.Sprintf("zoom <value>: set zoom, clamped to [%d, %d]", view.MinZoom, view.MaxZoom), zoom, func() error {
		arg, err := oneArg(zoom, "value")
		if err != nil {
			return err
		}
		z, err := strconv.ParseFloat(arg, 32)
		if err != nil || math.IsNaN(z) {
			return fmt.Errorf("zoom: %q is not a number", arg)
		}
		v.State().View.SetZoom(float32(z))
		return nil
	})

	projection := simple("projection")
	r.Register("projection", "projection <perspective|orthographic>: set the projection mode", projection, func() error {
		arg, err := oneArg(projection, "mode")
		if err != nil {
			return err
		}
		p, err := view.ParseProjection(arg)
		if err != nil {
			return err
		}
		v.State().View.Projection = p
		return nil
	})

	reset := simple("reset")
	r.Register("reset", "reset: restore rotation, zoom and projection", reset, func() error {
		v.State().View = view.DefaultState()
		return nil
	})

	pause := simple("pause")
	r.Register("pause", "pause: stop drawing the scene", pause, func() error {
		v.State().Paused = true
		return nil
	})
	resume := simple("resume")
	r.Register("resume", "resume: draw the scene again", resume, func() error {
		v.State().Paused = false
		return nil
	})

	for _, o := range []Overlay{OverlayHUD, OverlayFPS} {
		ofs := simple(string(o))
		r.Register(string(o), fmt.Sprintf("%s [on|off]: show, hide or toggle the %s overlay", o, o), ofs, func() error {
			on := !v.Overlay(o)
			if ofs.NArg() > 0 {
				b, err := parseSwitch(ofs.Arg(0))
				if err != nil {
					return err
				}
				on = b
			}
			v.SetOverlay(o, on)
			return nil
		})
	}

	demo := simple("demo")
	def := mapgen.DefaultCityOptions()
	seed := demo.Int64("seed", 0, "noise seed (0 = random)")
	size := demo.Int("size", def.Blocks, "blocks per side")
	r.Register("demo", "demo [--seed N] [--size N]: generate a procedural city", demo, func() error {
		if *size <= 0 || *size > 256 {
			return fmt.Errorf("demo: size must be in [1, 256], got %d", *size)
		}
		opts := mapgen.DefaultCityOptions()
		opts.Seed = *seed
		opts.Blocks = *size
		return v.Demo(opts)
	})

	shot := simple("screenshot")
	scale := shot.Float64("scale", 1, "resize factor")
	r.Register("screenshot", "screenshot [--scale F] [path]: save the current frame as PNG", shot, func() error {
		if *scale <= 0 || *scale > 4 {
			return fmt.Errorf("screenshot: scale must be in (0, 4], got %v", *scale)
		}
		path, err := v.Screenshot(shot.Arg(0), *scale)
		if err != nil {
			return err
		}
		log.Infof("screenshot %s", path)
		return nil
	})

	export := simple("export")
	r.Register("export", "export <path>: write the current layers as a JSON scene", export, func() error {
		path, err := oneArg(export, "path")
		if err != nil {
			return err
		}
		data, err := sceneio.Encode(sceneio.FromLayerSet(v.State().Layers))
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		log.Infof("exported %d layers to %s", v.State().Layers.Len(), path)
		return nil
	})

	save := simple("save-config")
	r.Register("save-config", "save-config: persist window, camera and overlay prefs", save, func() error {
		if err := v.SaveConfig(); err != nil {
			return err
		}
		log.Log("config saved")
		return nil
	})
}

func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

var errSwitch = errors.New("expected on or off")

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q: %w", s, errSwitch)
}
