package platform

// Clipboard adapts the GLFW clipboard to the toolkit's clipboard interface.
type Clipboard struct {
	win *Window
}

// NewClipboard binds a clipboard to the window.
func NewClipboard(win *Window) Clipboard { return Clipboard{win: win} }

// Text returns the current clipboard contents.
func (c Clipboard) Text() (string, error) {
	return c.win.w.GetClipboardString(), nil
}

// SetText replaces the clipboard contents.
func (c Clipboard) SetText(value string) {
	c.win.w.SetClipboardString(value)
}
