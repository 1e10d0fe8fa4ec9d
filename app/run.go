package app

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/glimt/imshell/ui"
)

// Run wires the collaborators and drives the event loop until exit. The
// returned error is the terminal error, if any: a fatal startup failure or a
// fatal per-frame failure. Must be called from the program's main goroutine.
func Run(cfg Config, content func(*ui.Frame), backend Backend) error {
	// The window, GL context and UI context all require the main OS thread.
	runtime.LockOSThread()

	a := New(cfg, content, backend)
	return a.loop()
}

func (a *App) loop() error {
	defer a.shutdown()

	for a.state != stateExited {
		if a.state == stateUninitialized {
			// First loop entry is the "resume" signal: create everything,
			// then treat the result as "repaint now".
			if err := a.initialize(); err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			a.handleResult(RepaintNow(), nil)
			continue
		}

		// Wait policy: wake exactly at the scheduled deadline when one
		// exists, block indefinitely otherwise. Window callbacks fire inside
		// the wait and dispatch through onEvent.
		if next, ok := a.sched.Next(); ok {
			if d := time.Until(next); d > 0 {
				a.win.WaitEventsTimeout(d)
			}
		} else {
			a.win.WaitEvents()
		}
		if a.state == stateExited {
			break
		}

		for _, req := range a.repaints.Drain() {
			a.handleResult(a.onRepaintRequest(req), nil)
			if a.state == stateExited {
				break
			}
		}
		a.checkRedraw(a.now())
	}
	return a.err
}

func (a *App) shutdown() {
	if a.runner != nil {
		a.runner.Destroy()
		a.runner = nil
	}
	if a.renderer != nil {
		a.renderer.Shutdown()
		a.renderer = nil
	}
	if a.win != nil {
		a.win.Destroy()
		a.win = nil
	}
	log.Println("shell exit")
}
