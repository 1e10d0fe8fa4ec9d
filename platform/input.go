package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/glimt/imshell/app"
)

// inputState adapts GLFW input callbacks into imgui IO and classifies each
// event's repaint urgency.
type inputState struct {
	io      imgui.IO
	bound   bool
	lastX   float64
	lastY   float64
	havePos bool
}

func (in *inputState) bind(io imgui.IO) {
	in.io = io
	in.bound = true
	setKeyMapping(io)
}

func (w *Window) installInputCallbacks() {
	w.w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		in := &w.input
		if w.cursorDisabled {
			// Relative mode: forward deltas as a device event.
			if in.havePos {
				w.emit(app.EventDevice{Event: app.DeviceMouseMotion{
					DX: x - in.lastX, DY: y - in.lastY,
				}})
			}
			in.lastX, in.lastY = x, y
			in.havePos = true
			return
		}
		in.lastX, in.lastY = x, y
		in.havePos = true
		if in.bound {
			in.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
		}
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		in := &w.input
		idx, known := mouseButtonIndex(button)
		if !known {
			w.emit(app.EventInput{Urgency: app.UrgencyNone})
			return
		}
		if in.bound {
			in.io.SetMouseButtonDown(idx, action == glfw.Press)
		}
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		in := &w.input
		if in.bound {
			in.io.AddMouseWheelDelta(float32(xoff), float32(yoff))
		}
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		in := &w.input
		if in.bound {
			switch action {
			case glfw.Press:
				in.io.KeyPress(int(key))
			case glfw.Release:
				in.io.KeyRelease(int(key))
			}
			// Modifier flags from the key state itself; callback mods are
			// not reliable across systems.
			in.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
			in.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
			in.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
			in.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
		}
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetCharCallback(func(_ *glfw.Window, char rune) {
		in := &w.input
		if in.bound {
			in.io.AddInputCharacters(string(char))
		}
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		w.emit(app.EventInput{Urgency: app.UrgencyRepaint})
	})

	w.w.SetFocusCallback(func(_ *glfw.Window, _ bool) {
		w.emit(app.EventInput{Urgency: app.UrgencyNone})
	})
}

func mouseButtonIndex(button glfw.MouseButton) (int, bool) {
	switch button {
	case glfw.MouseButton1:
		return 0, true
	case glfw.MouseButton2:
		return 1, true
	case glfw.MouseButton3:
		return 2, true
	}
	return 0, false
}

// setKeyMapping tells imgui which native keycodes drive its navigation and
// editing actions.
func setKeyMapping(io imgui.IO) {
	io.KeyMap(imgui.KeyTab, int(glfw.KeyTab))
	io.KeyMap(imgui.KeyLeftArrow, int(glfw.KeyLeft))
	io.KeyMap(imgui.KeyRightArrow, int(glfw.KeyRight))
	io.KeyMap(imgui.KeyUpArrow, int(glfw.KeyUp))
	io.KeyMap(imgui.KeyDownArrow, int(glfw.KeyDown))
	io.KeyMap(imgui.KeyPageUp, int(glfw.KeyPageUp))
	io.KeyMap(imgui.KeyPageDown, int(glfw.KeyPageDown))
	io.KeyMap(imgui.KeyHome, int(glfw.KeyHome))
	io.KeyMap(imgui.KeyEnd, int(glfw.KeyEnd))
	io.KeyMap(imgui.KeyInsert, int(glfw.KeyInsert))
	io.KeyMap(imgui.KeyDelete, int(glfw.KeyDelete))
	io.KeyMap(imgui.KeyBackspace, int(glfw.KeyBackspace))
	io.KeyMap(imgui.KeySpace, int(glfw.KeySpace))
	io.KeyMap(imgui.KeyEnter, int(glfw.KeyEnter))
	io.KeyMap(imgui.KeyEscape, int(glfw.KeyEscape))
	io.KeyMap(imgui.KeyA, int(glfw.KeyA))
	io.KeyMap(imgui.KeyC, int(glfw.KeyC))
	io.KeyMap(imgui.KeyV, int(glfw.KeyV))
	io.KeyMap(imgui.KeyX, int(glfw.KeyX))
	io.KeyMap(imgui.KeyY, int(glfw.KeyY))
	io.KeyMap(imgui.KeyZ, int(glfw.KeyZ))
}
