package ui

// TextureID identifies a texture owned by the compositor. IDs are allocated
// by the Runner and never reused within a process.
type TextureID uint32

// TextureUpload carries RGBA8 pixels for a texture the compositor must
// create or replace before drawing the frame that references it.
type TextureUpload struct {
	ID     TextureID
	Width  int
	Height int
	Pixels []byte // len == Width*Height*4
}

// TexturesDelta lists textures to upload before painting and textures to
// free strictly after the frame's draw commands are recorded.
type TexturesDelta struct {
	Set  []TextureUpload
	Free []TextureID
}

func (d *TexturesDelta) merge(other TexturesDelta) {
	d.Set = append(d.Set, other.Set...)
	d.Free = append(d.Free, other.Free...)
}

// DrawCommand is one clipped draw within a Mesh. IndexOffset is in elements
// (not bytes) from the start of the mesh's index buffer. The clip rect is in
// framebuffer pixels, {x0, y0, x1, y1}.
type DrawCommand struct {
	ClipRect    [4]float32
	Texture     TextureID
	ElemCount   int
	IndexOffset int
}

// Mesh is one command list copied out of the toolkit's draw data. Vertices
// are interleaved bytes; the offsets describe the position/uv/color fields
// within each vertex.
type Mesh struct {
	Vertices     []byte
	VertexStride int
	PosOffset    int
	UVOffset     int
	ColorOffset  int
	Indices      []byte
	IndexSize    int // bytes per index: 2 or 4
	Commands     []DrawCommand
}

// ViewportCommand is a per-window control output of a UI pass; the shell
// applies these to the real OS window after painting.
type ViewportCommand interface{ isViewportCommand() }

// SetTitle changes the window title.
type SetTitle struct{ Title string }

func (SetTitle) isViewportCommand() {}

// SetInnerSize resizes the window's logical client area.
type SetInnerSize struct{ W, H int }

func (SetInnerSize) isViewportCommand() {}

// SetVisible shows or hides the window.
type SetVisible struct{ Visible bool }

func (SetVisible) isViewportCommand() {}

// ActionKind enumerates the clipboard side effects a pass may queue.
type ActionKind int

const (
	ActionCut ActionKind = iota
	ActionCopy
	ActionPaste
)

// Action is a clipboard side effect requested by the UI. It is queued and
// delivered as toolkit input on the next pass, never executed in place.
type Action struct {
	Kind ActionKind
	Text string // payload for Cut/Copy
}

// FrameOutput accumulates the not-yet-painted output of one or more UI
// passes. It is appended to across passes within a physical frame and
// drained exactly once when the frame paints.
type FrameOutput struct {
	Meshes   []Mesh
	Textures TexturesDelta
	Commands []ViewportCommand
	Passes   int

	// PixelsPerPoint is the scale the meshes were tessellated at.
	PixelsPerPoint float32
}

// Append merges the output of a newer pass into o. Geometry from the newer
// pass replaces the older geometry (a later layout pass supersedes the
// earlier one), while texture deltas and viewport commands accumulate.
func (o *FrameOutput) Append(n FrameOutput) {
	if n.Meshes != nil {
		o.Meshes = n.Meshes
	}
	o.Textures.merge(n.Textures)
	o.Commands = append(o.Commands, n.Commands...)
	o.Passes += n.Passes
	if n.PixelsPerPoint != 0 {
		o.PixelsPerPoint = n.PixelsPerPoint
	}
}

// Take drains the accumulator, resetting o to empty.
func (o *FrameOutput) Take() FrameOutput {
	out := *o
	*o = FrameOutput{}
	return out
}

// PassInput is the per-pass input snapshot handed to the Runner.
type PassInput struct {
	// DisplaySize is the window's logical size in points.
	DisplaySize [2]float32
	// FramebufferSize is the drawable size in pixels.
	FramebufferSize [2]float32
	// Time is seconds since process start, monotonic.
	Time float64
}

// Scale returns the framebuffer-pixels-per-point factor.
func (in PassInput) Scale() (x, y float32) {
	x, y = 1, 1
	if in.DisplaySize[0] > 0 {
		x = in.FramebufferSize[0] / in.DisplaySize[0]
	}
	if in.DisplaySize[1] > 0 {
		y = in.FramebufferSize[1] / in.DisplaySize[1]
	}
	return x, y
}
