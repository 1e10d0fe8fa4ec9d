package app

import "time"

// Event is a translated windowing event delivered to the shell.
type Event interface{ isEvent() }

// EventResized reports a new framebuffer size in pixels. Degenerate sizes
// (zero width or height) are ignored by the shell.
type EventResized struct{ W, H int }

func (EventResized) isEvent() {}

// EventCloseRequested is the window's close button; the next UI pass gets a
// chance to veto it.
type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

// EventRedrawRequested asks for the full frame pipeline, not lightweight
// event dispatch.
type EventRedrawRequested struct{}

func (EventRedrawRequested) isEvent() {}

// EventScaleChanged reports a content-scale (DPI) change.
type EventScaleChanged struct{ Scale float32 }

func (EventScaleChanged) isEvent() {}

// EventInput is any input already translated into the UI toolkit by the
// platform layer; only its repaint urgency reaches the shell.
type EventInput struct{ Urgency Urgency }

func (EventInput) isEvent() {}

// EventDevice wraps a device-level event for delivery through the window
// event handler.
type EventDevice struct{ Event DeviceEvent }

func (EventDevice) isEvent() {}

// DeviceEvent is a device-level (not window-level) event.
type DeviceEvent interface{ isDeviceEvent() }

// DeviceMouseMotion is a raw mouse delta; the only device event the shell
// forwards.
type DeviceMouseMotion struct{ DX, DY float64 }

func (DeviceMouseMotion) isDeviceEvent() {}

// Urgency is the input translator's tri-state repaint verdict.
type Urgency int

const (
	// UrgencyNone: the event changed nothing visible.
	UrgencyNone Urgency = iota
	// UrgencyRepaint: repaint whenever convenient.
	UrgencyRepaint
	// UrgencyImmediate: repaint before returning to the event loop
	// (resize needs visual continuity).
	UrgencyImmediate
)

// RepaintRequest is the asynchronous user event carrying a target repaint
// time and the pass counter snapshot taken when it was issued.
type RepaintRequest struct {
	When   time.Time
	PassNr uint64
}

type resultKind int

const (
	kindWait resultKind = iota
	kindRepaintNow
	kindRepaintNext
	kindRepaintAt
	kindExit
)

// EventResult classifies what must happen after an event: nothing, a repaint
// now / at the next opportunity / at a deadline, or event-loop exit.
type EventResult struct {
	kind resultKind
	at   time.Time
}

// Wait leaves the loop blocking for the next event.
func Wait() EventResult { return EventResult{kind: kindWait} }

// RepaintNow repaints before anything else; on platforms where drawing
// inside an event callback is unsafe it degrades to RepaintNext.
func RepaintNow() EventResult { return EventResult{kind: kindRepaintNow} }

// RepaintNext schedules a repaint at the next loop opportunity.
func RepaintNext() EventResult { return EventResult{kind: kindRepaintNext} }

// RepaintAt schedules a repaint no later than t; earlier existing deadlines
// win.
func RepaintAt(t time.Time) EventResult {
	return EventResult{kind: kindRepaintAt, at: t}
}

// Exit terminates the event loop after the current dispatch.
func Exit() EventResult { return EventResult{kind: kindExit} }

// IsExit reports whether the result terminates the loop.
func (r EventResult) IsExit() bool { return r.kind == kindExit }
