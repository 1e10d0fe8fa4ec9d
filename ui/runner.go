package ui

import (
	"strings"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/inkyblackness/imgui-go/v4"
)

// Config configures a Runner.
type Config struct {
	// Clipboard backs imgui's internal cut/copy/paste and the deferred
	// action queue. Optional.
	Clipboard imgui.Clipboard
	// MaxPasses caps UI re-evaluation within one physical frame when a pass
	// requests a discard. Defaults to 2.
	MaxPasses int
	// OnRepaint is invoked (possibly from another goroutine) whenever the UI
	// asks to be repainted at a future time. passNr is the cumulative pass
	// counter snapshot taken at request time.
	OnRepaint func(when time.Time, passNr uint64)
}

// Runner owns the imgui context and runs UI passes. It accumulates draw
// output across passes and drains it once per physical frame.
type Runner struct {
	ctx *imgui.Context
	io  imgui.IO

	begin    time.Time
	lastTime float64

	passNr    atomic.Uint64
	maxPasses int
	onRepaint func(time.Time, uint64)
	clipboard imgui.Clipboard

	pending   FrameOutput
	texDelta  TexturesDelta
	nextTexID uint32
	fontTex   TextureID

	queuedActions []Action

	// closePending is a close request waiting to be observed by the next
	// pass; close is the terminal flag, irreversible once set.
	closePending bool
	close        bool
}

// NewRunner creates the imgui context and the pass runner around it.
func NewRunner(cfg Config) (*Runner, error) {
	r := &Runner{
		ctx:       imgui.CreateContext(nil),
		begin:     time.Now(),
		maxPasses: cfg.MaxPasses,
		onRepaint: cfg.OnRepaint,
		clipboard: cfg.Clipboard,
	}
	if r.maxPasses <= 0 {
		r.maxPasses = 2
	}
	r.io = imgui.CurrentIO()
	if cfg.Clipboard != nil {
		r.io.SetClipboard(cfg.Clipboard)
	}
	return r, nil
}

// IO exposes the imgui IO object for the platform input translator.
func (r *Runner) IO() imgui.IO { return r.io }

// Destroy tears the imgui context down.
func (r *Runner) Destroy() {
	if r.ctx != nil {
		r.ctx.Destroy()
		r.ctx = nil
	}
}

// CumulativePassNr reports how many passes have run since startup. Safe to
// call from any goroutine.
func (r *Runner) CumulativePassNr() uint64 { return r.passNr.Load() }

// RequestRepaintAfter asks the shell to repaint once d has elapsed. Safe to
// call from any goroutine; the request carries the current pass counter so
// the shell can drop it if it arrives stale.
func (r *Runner) RequestRepaintAfter(d time.Duration) {
	if r.onRepaint != nil {
		r.onRepaint(time.Now().Add(d), r.passNr.Load())
	}
}

// NotifyCloseRequested records a window close request; the next pass
// observes it and may cancel it.
func (r *Runner) NotifyCloseRequested() { r.closePending = true }

// CloseConfirmed reports whether a close request ran through a pass without
// being canceled. Once true it stays true.
func (r *Runner) CloseConfirmed() bool { return r.close }

// Frame is handed to the content callback during a pass.
type Frame struct {
	runner *Runner

	// CloseRequested is true when this pass is the one observing a pending
	// window close; call CancelClose to veto it.
	CloseRequested bool

	closeCanceled bool
	discard       bool
	commands      []ViewportCommand
}

// CancelClose vetoes the close request this pass is observing.
func (f *Frame) CancelClose() { f.closeCanceled = true }

// RequestDiscard asks for this pass's output to be discarded and the UI
// evaluated again within the same physical frame (layout feedback).
func (f *Frame) RequestDiscard() { f.discard = true }

// RequestRepaintAfter schedules a future repaint (e.g. for animations).
func (f *Frame) RequestRepaintAfter(d time.Duration) {
	f.runner.RequestRepaintAfter(d)
}

// Command emits a viewport command for the shell to apply after painting.
func (f *Frame) Command(c ViewportCommand) { f.commands = append(f.commands, c) }

// Queue defers a clipboard action to the next input cycle.
func (f *Frame) Queue(a Action) {
	f.runner.queuedActions = append(f.runner.queuedActions, a)
}

// RunFrame evaluates the UI for one physical frame: at least one pass, more
// if a pass requests discard, then drains the accumulated output.
func (r *Runner) RunFrame(in PassInput, content func(*Frame)) FrameOutput {
	for i := 0; i < r.maxPasses; i++ {
		if !r.runPass(in, content) {
			break
		}
	}
	return r.pending.Take()
}

func (r *Runner) runPass(in PassInput, content func(*Frame)) (discard bool) {
	io := r.io
	io.SetDisplaySize(imgui.Vec2{X: in.DisplaySize[0], Y: in.DisplaySize[1]})

	dt := in.Time - r.lastTime
	r.lastTime = in.Time
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	io.SetDeltaTime(float32(dt))

	// The atlas must exist before the first NewFrame.
	if r.fontTex == 0 {
		r.buildFontTexture()
	}
	r.deliverQueuedActions()

	closeRequested := r.closePending
	r.closePending = false

	imgui.NewFrame()
	f := &Frame{runner: r, CloseRequested: closeRequested}
	content(f)
	imgui.Render()
	r.passNr.Add(1)

	scaleX, _ := in.Scale()
	out := convertDrawData(imgui.RenderedDrawData(), in)
	out.Textures = r.texDelta
	r.texDelta = TexturesDelta{}
	out.Commands = f.commands
	out.Passes = 1
	out.PixelsPerPoint = scaleX
	r.pending.Append(out)

	if closeRequested && !f.closeCanceled {
		r.close = true
	}
	return f.discard
}

// deliverQueuedActions turns deferred clipboard actions into toolkit input
// for the pass about to run.
func (r *Runner) deliverQueuedActions() {
	actions := r.queuedActions
	r.queuedActions = nil
	for _, a := range actions {
		switch a.Kind {
		case ActionCut, ActionCopy:
			if r.clipboard != nil {
				r.clipboard.SetText(a.Text)
			}
		case ActionPaste:
			if r.clipboard == nil {
				continue
			}
			text, err := r.clipboard.Text()
			if err != nil {
				continue
			}
			if text = normalizePasteText(text); text != "" {
				r.io.AddInputCharacters(text)
			}
		}
	}
}

func (r *Runner) allocTextureID() TextureID {
	r.nextTexID++
	return TextureID(r.nextTexID)
}

// buildFontTexture bakes the font atlas and queues its upload. A previously
// baked atlas is queued for freeing after the frame that replaces it.
func (r *Runner) buildFontTexture() {
	img := r.io.Fonts().TextureDataRGBA32()
	n := img.Width * img.Height * 4
	pixels := make([]byte, n)
	copy(pixels, unsafe.Slice((*byte)(img.Pixels), n))

	if r.fontTex != 0 {
		r.texDelta.Free = append(r.texDelta.Free, r.fontTex)
	}
	r.fontTex = r.allocTextureID()
	r.io.Fonts().SetTextureID(imgui.TextureID(r.fontTex))
	r.texDelta.Set = append(r.texDelta.Set, TextureUpload{
		ID:     r.fontTex,
		Width:  img.Width,
		Height: img.Height,
		Pixels: pixels,
	})
}

// convertDrawData copies imgui's draw lists into owned meshes with clip
// rects pre-scaled to framebuffer pixels.
func convertDrawData(dd imgui.DrawData, in PassInput) FrameOutput {
	var out FrameOutput
	if !dd.Valid() {
		return out
	}
	scaleX, scaleY := in.Scale()
	dd.ScaleClipRects(imgui.Vec2{X: scaleX, Y: scaleY})

	vtxSize, posOff, uvOff, colOff := imgui.VertexBufferLayout()
	idxSize := imgui.IndexBufferLayout()

	for _, list := range dd.CommandLists() {
		vb, vbSize := list.VertexBuffer()
		ib, ibSize := list.IndexBuffer()
		mesh := Mesh{
			Vertices:     copyBytes(vb, vbSize),
			VertexStride: vtxSize,
			PosOffset:    posOff,
			UVOffset:     uvOff,
			ColorOffset:  colOff,
			Indices:      copyBytes(ib, ibSize),
			IndexSize:    idxSize,
		}

		indexOffset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				clip := cmd.ClipRect()
				mesh.Commands = append(mesh.Commands, DrawCommand{
					ClipRect:    [4]float32{clip.X, clip.Y, clip.Z, clip.W},
					Texture:     TextureID(cmd.TextureID()),
					ElemCount:   cmd.ElementCount(),
					IndexOffset: indexOffset,
				})
			}
			indexOffset += cmd.ElementCount()
		}
		out.Meshes = append(out.Meshes, mesh)
	}
	return out
}

func copyBytes(p unsafe.Pointer, n int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(p), n))
	return out
}

// normalizePasteText strips Windows line endings before injecting clipboard
// contents as text input.
func normalizePasteText(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
