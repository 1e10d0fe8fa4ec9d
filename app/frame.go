package app

import (
	"fmt"
	"time"

	"github.com/glimt/imshell/profiler"
	"github.com/glimt/imshell/ui"
)

// minimizedPause caps CPU use while nothing is visible; frames are still
// submitted.
const minimizedPause = 10 * time.Millisecond

// redraw runs the full per-frame pipeline: one or more UI passes, the GPU
// paint, presentation, and the per-window control outputs.
func (a *App) redraw() (EventResult, error) {
	if a.state != stateInitialized {
		return Wait(), nil
	}
	defer profiler.Start("frame")()

	w, h := a.win.Size()
	fw, fh := a.win.FramebufferSize()
	in := ui.PassInput{
		DisplaySize:     [2]float32{float32(w), float32(h)},
		FramebufferSize: [2]float32{float32(fw), float32(fh)},
		Time:            time.Since(a.start).Seconds(),
	}

	endPass := profiler.Start("ui-pass")
	out := a.runner.RunFrame(in, a.content)
	endPass()

	endPaint := profiler.Start("paint")
	err := a.renderer.Paint(&out, in)
	endPaint()
	if err != nil {
		return Wait(), fmt.Errorf("paint frame: %w", err)
	}
	a.win.SwapBuffers()

	a.applyViewportCommands(out.Commands)

	// The window starts hidden to avoid flashing an unconfigured frame;
	// the first successful paint reveals it.
	if a.firstFrame {
		a.firstFrame = false
		a.win.SetVisible(true)
	}

	if a.win.Minimized() {
		time.Sleep(minimizedPause)
	}

	if a.runner.CloseConfirmed() {
		return Exit(), nil
	}
	return Wait(), nil
}

// applyViewportCommands applies a pass's per-window outputs to the real OS
// window.
func (a *App) applyViewportCommands(cmds []ui.ViewportCommand) {
	for _, c := range cmds {
		switch cmd := c.(type) {
		case ui.SetTitle:
			a.win.SetTitle(cmd.Title)
		case ui.SetInnerSize:
			if cmd.W > 0 && cmd.H > 0 {
				a.win.SetSize(cmd.W, cmd.H)
			}
		case ui.SetVisible:
			a.win.SetVisible(cmd.Visible)
		}
	}
}
