package platform

import (
	"log"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/glimt/imshell/app"
)

// Window wraps the GLFW window, owns the GL context, and translates OS
// events into UI toolkit input plus classified shell events.
type Window struct {
	w       *glfw.Window
	handler func(app.Event)
	input   inputState

	// redrawPending defers redraw delivery until the current wait call
	// returns, so frames are never painted re-entrantly from a callback.
	redrawPending  bool
	cursorDisabled bool
}

// NewWindow creates the (initially hidden) OS window and the GL context.
// Must be called on the main thread.
func NewWindow(cfg app.Config, handler func(app.Event)) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag). The
	// window stays hidden until the first frame has been painted.
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	log.Printf("GL: %s\n", gl.GoStr(gl.GetString(gl.VERSION)))

	pw := &Window{w: win, handler: handler}
	pw.installCallbacks()
	return pw, nil
}

func (w *Window) emit(ev app.Event) {
	if w.handler != nil {
		w.handler(ev)
	}
}

func (w *Window) installCallbacks() {
	w.w.SetCloseCallback(func(win *glfw.Window) {
		// The shell decides whether the window actually closes; keep GLFW's
		// own flag off so the loop stays alive for a veto.
		win.SetShouldClose(false)
		w.emit(app.EventCloseRequested{})
	})
	w.w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.emit(app.EventResized{W: width, H: height})
	})
	w.w.SetRefreshCallback(func(_ *glfw.Window) {
		w.emit(app.EventRedrawRequested{})
	})
	w.w.SetContentScaleCallback(func(_ *glfw.Window, x, _ float32) {
		w.emit(app.EventScaleChanged{Scale: x})
	})
	w.installInputCallbacks()
}

// BindIO attaches the toolkit's IO to the input translator; input events
// before this are classified but not forwarded.
func (w *Window) BindIO(io imgui.IO) {
	w.input.bind(io)
}

// app.Window implementation.

func (w *Window) WaitEvents() {
	glfw.WaitEvents()
	w.deliverPendingRedraw()
}

func (w *Window) WaitEventsTimeout(d time.Duration) {
	glfw.WaitEventsTimeout(d.Seconds())
	w.deliverPendingRedraw()
}

// Wake interrupts a pending wait. The only GLFW call that is safe from any
// goroutine.
func (w *Window) Wake() { glfw.PostEmptyEvent() }

func (w *Window) RequestRedraw() {
	w.redrawPending = true
	glfw.PostEmptyEvent()
}

func (w *Window) deliverPendingRedraw() {
	if w.redrawPending {
		w.redrawPending = false
		w.emit(app.EventRedrawRequested{})
	}
}

func (w *Window) SwapBuffers()                { w.w.SwapBuffers() }
func (w *Window) Size() (int, int)            { return w.w.GetSize() }
func (w *Window) FramebufferSize() (int, int) { return w.w.GetFramebufferSize() }

func (w *Window) ScaleFactor() float32 {
	x, _ := w.w.GetContentScale()
	return x
}

func (w *Window) Minimized() bool {
	return w.w.GetAttrib(glfw.Iconified) == glfw.True
}

func (w *Window) SetVisible(visible bool) {
	if visible {
		w.w.Show()
	} else {
		w.w.Hide()
	}
}

func (w *Window) SetTitle(title string) { w.w.SetTitle(title) }
func (w *Window) SetSize(wd, h int)     { w.w.SetSize(wd, h) }

func (w *Window) Destroy() {
	w.w.Destroy()
	glfw.Terminate()
}

// SetCursorDisabled toggles relative mouse mode; while disabled, motion is
// delivered as raw device deltas instead of cursor positions.
func (w *Window) SetCursorDisabled(disabled bool) {
	w.cursorDisabled = disabled
	if disabled {
		w.w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.w.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}
