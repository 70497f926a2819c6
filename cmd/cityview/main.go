package main

import (
	"context"
	"fmt"
	"os"

	"city-viewer/internal/commands"
	"city-viewer/internal/env"
	"city-viewer/internal/glgpu"
	"city-viewer/internal/graphics"
	"city-viewer/internal/hud"
	"city-viewer/internal/logger"
	"city-viewer/internal/render"
	"city-viewer/internal/scene"
	"city-viewer/internal/terminal"
	"city-viewer/internal/viewerconfig"
)

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}
	ov := env.ReadOverrides()
	configPath := env.Or(ov.ConfigPath, viewerconfig.ViewerConfigPath)

	prefs, cfgErr := viewerconfig.Load(configPath)
	log := logger.NewAt(env.Or(ov.LogPath, prefs.LogPath))
	if cfgErr != nil {
		log.Warnf("config: %v (using defaults)", cfgErr)
	}

	win := graphics.Open(graphics.Options{
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		Title:      prefs.Title,
		TargetFPS:  prefs.TargetFPS,
		Fullscreen: prefs.Fullscreen,
		MSAA:       prefs.MSAA,
		ClearColor: prefs.ClearColor,
	})
	defer win.Close()

	dev, err := glgpu.New(win.Flush)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	log.Infof("OpenGL %s", dev.Version())

	layers := scene.NewLayerSet(dev)
	defer layers.Release()
	state := render.NewState(layers)
	if state.Params, err = prefs.ToParams(); err != nil {
		log.Errorf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := commands.NewRegistry()
	a := &app{
		ctx:        ctx,
		log:        log,
		win:        win,
		state:      state,
		renderer:   render.NewRenderer(dev),
		term:       terminal.New(log, reg),
		hud:        hud.New(prefs.ShowFPS, prefs.ShowHUD),
		prefs:      prefs,
		configPath: configPath,
		pending:    make(chan loaded, 4),
	}
	commands.RegisterViewer(reg, a, log)

	if p := env.Or(ov.ScenePath, prefs.ScenePath); p != "" {
		if err := a.Load(p); err != nil {
			log.Errorf("%v", err)
		}
	}
	log.Log("press ESC for the console, type help for commands")

	render.Loop(win, a.tick)
}
