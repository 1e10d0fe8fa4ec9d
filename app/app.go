package app

import (
	"runtime"
	"time"

	"github.com/glimt/imshell/ui"
)

// Window abstracts the OS window and its event loop.
type Window interface {
	// WaitEvents blocks until an event arrives.
	WaitEvents()
	// WaitEventsTimeout blocks until an event arrives or d elapses.
	WaitEventsTimeout(d time.Duration)
	// Wake interrupts a pending wait. Safe from any goroutine.
	Wake()
	// RequestRedraw asks for an EventRedrawRequested to be delivered after
	// the current wait returns (never re-entrantly).
	RequestRedraw()
	SwapBuffers()
	Size() (int, int)            // logical points
	FramebufferSize() (int, int) // pixels
	ScaleFactor() float32
	Minimized() bool
	SetVisible(visible bool)
	SetTitle(title string)
	SetSize(w, h int)
	Destroy()
}

// Renderer abstracts the frame compositor.
type Renderer interface {
	Resize(w, h int)
	Paint(out *ui.FrameOutput, in ui.PassInput) error
	Shutdown()
}

// PassRunner abstracts the UI pass runner (implemented by ui.Runner).
type PassRunner interface {
	RunFrame(in ui.PassInput, content func(*ui.Frame)) ui.FrameOutput
	NotifyCloseRequested()
	CloseConfirmed() bool
	CumulativePassNr() uint64
	Destroy()
}

// Backend supplies the collaborator factories; wiring happens in the
// executable, not here.
type Backend struct {
	NewWindow   func(cfg Config, handler func(Event)) (Window, error)
	NewRenderer func() (Renderer, error)
	NewRunner   func(win Window, post func(RepaintRequest)) (PassRunner, error)
}

type appState int

const (
	stateUninitialized appState = iota
	stateInitialized
	stateExited
)

// surfaceConfig mirrors the GPU surface configuration; dimensions are
// always positive (degenerate resizes never reach it).
type surfaceConfig struct {
	W, H  int
	Scale float32
}

// repaintNowInline: drawing inside an event callback is only done where the
// platform tolerates it; elsewhere RepaintNow schedules "now" and the next
// loop tick draws.
var repaintNowInline = runtime.GOOS == "windows"

// App is the application shell: a state machine over event-loop callbacks
// that owns the window, the renderer, and the repaint schedule.
type App struct {
	cfg     Config
	backend Backend
	content func(*ui.Frame)

	state    appState
	win      Window
	renderer Renderer
	runner   PassRunner
	surface  surfaceConfig

	sched    scheduler
	repaints *RepaintQueue

	start      time.Time
	firstFrame bool
	err        error // terminal error, reported by Run

	now func() time.Time // injectable clock
}

// New builds an App in the Uninitialized state.
func New(cfg Config, content func(*ui.Frame), backend Backend) *App {
	return &App{
		cfg:        cfg,
		backend:    backend,
		content:    content,
		repaints:   NewRepaintQueue(),
		start:      time.Now(),
		firstFrame: true,
		now:        time.Now,
	}
}

// initialize is the "resume" transition: create the window (hidden), the
// renderer, and the UI runner wired to the repaint queue.
func (a *App) initialize() error {
	win, err := a.backend.NewWindow(a.cfg, a.onEvent)
	if err != nil {
		return err
	}
	a.win = win
	a.repaints.SetWake(win.Wake)

	renderer, err := a.backend.NewRenderer()
	if err != nil {
		win.Destroy()
		return err
	}
	a.renderer = renderer

	runner, err := a.backend.NewRunner(win, a.repaints.Post)
	if err != nil {
		renderer.Shutdown()
		win.Destroy()
		return err
	}
	a.runner = runner

	fw, fh := win.FramebufferSize()
	a.surface = surfaceConfig{W: fw, H: fh, Scale: win.ScaleFactor()}
	renderer.Resize(fw, fh)

	a.state = stateInitialized
	return nil
}

// onEvent is the window event callback: dispatch, then apply the result.
func (a *App) onEvent(ev Event) {
	res, err := a.onWindowEvent(ev)
	a.handleResult(res, err)
}

// onWindowEvent classifies one window event. A window already marked as
// closing exits regardless of the event.
func (a *App) onWindowEvent(ev Event) (EventResult, error) {
	if a.state != stateInitialized {
		return Wait(), nil
	}
	if a.runner.CloseConfirmed() {
		return Exit(), nil
	}

	switch e := ev.(type) {
	case EventResized:
		if e.W == 0 || e.H == 0 {
			return Wait(), nil
		}
		a.surface.W, a.surface.H = e.W, e.H
		a.renderer.Resize(e.W, e.H)
		return RepaintNow(), nil

	case EventCloseRequested:
		// Let the next pass observe the close and veto or confirm it.
		a.runner.NotifyCloseRequested()
		return RepaintNext(), nil

	case EventRedrawRequested:
		return a.redraw()

	case EventScaleChanged:
		a.surface.Scale = e.Scale
		return RepaintNext(), nil

	case EventInput:
		switch e.Urgency {
		case UrgencyImmediate:
			return RepaintNow(), nil
		case UrgencyRepaint:
			return RepaintNext(), nil
		}
		return Wait(), nil

	case EventDevice:
		return a.onDeviceEvent(e.Event), nil
	}
	return Wait(), nil
}

// onDeviceEvent forwards mouse-motion deltas only; every other device event
// is a no-op.
func (a *App) onDeviceEvent(ev DeviceEvent) EventResult {
	if a.state != stateInitialized {
		return Wait()
	}
	if _, ok := ev.(DeviceMouseMotion); ok {
		return RepaintNext()
	}
	return Wait()
}

// onRepaintRequest honors an asynchronous repaint request only while its
// pass counter snapshot is still fresh.
func (a *App) onRepaintRequest(req RepaintRequest) EventResult {
	if a.state != stateInitialized {
		return Wait()
	}
	if passFresh(a.runner.CumulativePassNr(), req.PassNr) {
		return RepaintAt(req.When)
	}
	return Wait()
}

// handleResult applies an event result to the repaint schedule and the loop
// state, then runs the periodic redraw check.
func (a *App) handleResult(res EventResult, err error) {
	exit := false
	switch {
	case err != nil:
		a.err = err
		exit = true
	case res.kind == kindRepaintNow:
		if repaintNowInline && a.state == stateInitialized {
			inline, paintErr := a.redraw()
			if paintErr != nil {
				a.err = paintErr
				exit = true
			}
			// The inline paint's own result only matters for exit.
			exit = exit || inline.IsExit()
		} else {
			a.sched.RepaintAt(a.now())
		}
	case res.kind == kindRepaintNext:
		a.sched.RepaintAt(a.now())
	case res.kind == kindRepaintAt:
		a.sched.RepaintAt(res.at)
	case res.kind == kindExit:
		exit = true
	}

	if exit {
		a.state = stateExited
	}
	a.checkRedraw(a.now())
}

// checkRedraw is the periodic tick: a due deadline is consumed and turned
// into exactly one redraw request; a future one sets the loop's wake-up via
// the wait policy in loop().
func (a *App) checkRedraw(now time.Time) {
	if a.state != stateInitialized {
		return
	}
	if a.sched.Due(now) {
		a.sched.Clear()
		a.win.RequestRedraw()
	}
}

// Err reports the terminal error, if any.
func (a *App) Err() error { return a.err }
