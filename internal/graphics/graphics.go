package graphics

import (
	"image"

	"city-viewer/internal/input"
	"city-viewer/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options configure the window.
type Options struct {
	Width, Height int32
	Title         string
	TargetFPS     int32
	Fullscreen    bool
	MSAA          bool
	ClearColor    [4]float32
}

// Window is the raylib window. It is the frame scheduler for render.Loop:
// each Next ends the previous frame, waits for the next refresh and begins
// a cleared frame. ESC is reserved for the console; close via the window button.
type Window struct {
	clear   rl.Color
	inFrame bool
}

var _ render.Scheduler = (*Window)(nil)

// Open creates the window and its GL context.
func Open(opts Options) *Window {
	flags := uint32(rl.FlagWindowResizable | rl.FlagVsyncHint)
	if opts.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	if opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	w, h := opts.Width, opts.Height
	if opts.Fullscreen {
		w, h = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	}
	rl.InitWindow(w, h, opts.Title)
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(opts.TargetFPS)
	return &Window{clear: toColor(opts.ClearColor)}
}

func toColor(c [4]float32) rl.Color {
	b := func(v float32) uint8 { return uint8(v*255 + 0.5) }
	return rl.NewColor(b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}

// Close ends any open frame and closes the window.
func (w *Window) Close() {
	if w.inFrame {
		rl.EndDrawing()
		w.inFrame = false
	}
	rl.CloseWindow()
}

// Next implements render.Scheduler.
func (w *Window) Next() bool {
	if w.inFrame {
		rl.EndDrawing()
		w.inFrame = false
	}
	if rl.WindowShouldClose() {
		return false
	}
	rl.BeginDrawing()
	rl.ClearBackground(w.clear)
	w.inFrame = true
	return true
}

// Flush submits raylib's batched 2D draws so raw GL calls draw on top of them.
func (w *Window) Flush() {
	rl.DrawRenderBatchActive()
}

// FramebufferSize is the drawable size in pixels.
func (w *Window) FramebufferSize() (int32, int32) {
	return int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight())
}

// ScreenSize is the window size in screen coordinates, the space pointer positions use.
func (w *Window) ScreenSize() (int32, int32) {
	return int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
}

var buttons = []struct {
	rl  rl.MouseButton
	btn input.Button
}{
	{rl.MouseButtonLeft, input.ButtonPrimary},
	{rl.MouseButtonMiddle, input.ButtonAuxiliary},
	{rl.MouseButtonRight, input.ButtonSecondary},
}

// PollPointer feeds this frame's button presses, releases and pointer
// position into d and applies the drag to s.
func (w *Window) PollPointer(d *input.Drag, s *render.State) {
	for _, b := range buttons {
		if rl.IsMouseButtonPressed(b.rl) {
			d.Press(b.btn)
		}
		if rl.IsMouseButtonReleased(b.rl) {
			d.Release()
		}
	}
	if !d.Active() {
		return
	}
	p := rl.GetMousePosition()
	sw, sh := w.ScreenSize()
	d.Move(p.X, p.Y, sw, sh, &s.View)
}

// DroppedFiles returns the paths dropped onto the window since the last call.
func (w *Window) DroppedFiles() []string {
	if !rl.IsFileDropped() {
		return nil
	}
	files := rl.LoadDroppedFiles()
	out := make([]string, len(files))
	copy(out, files)
	rl.UnloadDroppedFiles()
	return out
}

// Capture copies the current framebuffer into an image.
func (w *Window) Capture() image.Image {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	return img.ToImage()
}
