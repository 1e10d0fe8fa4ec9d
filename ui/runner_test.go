package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The runner tests drive a real imgui context; no GL context is needed for
// pass evaluation.

type fakeClipboard struct {
	contents string
}

func (c *fakeClipboard) Text() (string, error) { return c.contents, nil }
func (c *fakeClipboard) SetText(value string)  { c.contents = value }

func testInput() PassInput {
	return PassInput{
		DisplaySize:     [2]float32{320, 240},
		FramebufferSize: [2]float32{320, 240},
	}
}

func newTestRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	r, err := NewRunner(cfg)
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	return r
}

func TestRunnerPassCounterAdvances(t *testing.T) {
	r := newTestRunner(t, Config{})
	assert.Zero(t, r.CumulativePassNr())

	in := testInput()
	r.RunFrame(in, func(*Frame) {})
	assert.Equal(t, uint64(1), r.CumulativePassNr())

	in.Time = 0.016
	r.RunFrame(in, func(*Frame) {})
	assert.Equal(t, uint64(2), r.CumulativePassNr())
}

func TestRunnerFontTextureUploadedOnce(t *testing.T) {
	r := newTestRunner(t, Config{})

	out := r.RunFrame(testInput(), func(*Frame) {})
	require.Len(t, out.Textures.Set, 1, "first frame carries the font atlas")
	up := out.Textures.Set[0]
	assert.NotZero(t, up.ID)
	assert.Greater(t, up.Width, 0)
	assert.Greater(t, up.Height, 0)
	assert.Len(t, up.Pixels, up.Width*up.Height*4)

	in := testInput()
	in.Time = 0.016
	out = r.RunFrame(in, func(*Frame) {})
	assert.Empty(t, out.Textures.Set, "the atlas is not re-uploaded")
}

func TestRunnerDiscardRerunsWithinFrame(t *testing.T) {
	r := newTestRunner(t, Config{MaxPasses: 2})

	calls := 0
	out := r.RunFrame(testInput(), func(f *Frame) {
		calls++
		if calls == 1 {
			f.RequestDiscard()
		}
	})
	assert.Equal(t, 2, calls, "discard reruns the content within the same frame")
	assert.Equal(t, 2, out.Passes)
	assert.Equal(t, uint64(2), r.CumulativePassNr())
}

func TestRunnerDiscardCappedByMaxPasses(t *testing.T) {
	r := newTestRunner(t, Config{MaxPasses: 2})

	calls := 0
	r.RunFrame(testInput(), func(f *Frame) {
		calls++
		f.RequestDiscard() // always asks for another pass
	})
	assert.Equal(t, 2, calls)
}

func TestRunnerOutputDrainedPerFrame(t *testing.T) {
	r := newTestRunner(t, Config{})

	out := r.RunFrame(testInput(), func(*Frame) {})
	assert.Equal(t, 1, out.Passes)

	in := testInput()
	in.Time = 0.016
	out = r.RunFrame(in, func(*Frame) {})
	assert.Equal(t, 1, out.Passes, "pending output does not leak across frames")
}

func TestRunnerCloseVeto(t *testing.T) {
	r := newTestRunner(t, Config{})

	r.NotifyCloseRequested()
	observed := false
	r.RunFrame(testInput(), func(f *Frame) {
		observed = f.CloseRequested
		f.CancelClose()
	})
	assert.True(t, observed, "the pass observes the pending close")
	assert.False(t, r.CloseConfirmed(), "a canceled close leaves the flag down")

	r.NotifyCloseRequested()
	in := testInput()
	in.Time = 0.016
	r.RunFrame(in, func(*Frame) {})
	assert.True(t, r.CloseConfirmed(), "an unanswered close is confirmed")

	// Irreversible once set.
	in.Time = 0.032
	r.RunFrame(in, func(f *Frame) { f.CancelClose() })
	assert.True(t, r.CloseConfirmed())
}

func TestRunnerRepaintRequestCarriesPassNr(t *testing.T) {
	var gotWhen time.Time
	var gotPass uint64
	r := newTestRunner(t, Config{
		OnRepaint: func(when time.Time, passNr uint64) {
			gotWhen, gotPass = when, passNr
		},
	})

	r.RunFrame(testInput(), func(*Frame) {})
	before := time.Now()
	r.RequestRepaintAfter(50 * time.Millisecond)
	assert.Equal(t, uint64(1), gotPass)
	assert.False(t, gotWhen.Before(before.Add(50*time.Millisecond)))
}

func TestRunnerRepaintRequestFromContent(t *testing.T) {
	requests := 0
	r := newTestRunner(t, Config{
		OnRepaint: func(time.Time, uint64) { requests++ },
	})
	r.RunFrame(testInput(), func(f *Frame) {
		f.RequestRepaintAfter(time.Millisecond)
	})
	assert.Equal(t, 1, requests)
}

func TestRunnerViewportCommandsCollected(t *testing.T) {
	r := newTestRunner(t, Config{})
	out := r.RunFrame(testInput(), func(f *Frame) {
		f.Command(SetTitle{Title: "t"})
		f.Command(SetInnerSize{W: 500, H: 300})
	})
	assert.Equal(t, []ViewportCommand{SetTitle{Title: "t"}, SetInnerSize{W: 500, H: 300}}, out.Commands)
}

func TestRunnerActionsDeliveredNextCycle(t *testing.T) {
	clip := &fakeClipboard{}
	r := newTestRunner(t, Config{Clipboard: clip})

	r.RunFrame(testInput(), func(f *Frame) {
		f.Queue(Action{Kind: ActionCopy, Text: "copied"})
	})
	assert.Empty(t, clip.contents, "actions are not executed in place")

	in := testInput()
	in.Time = 0.016
	r.RunFrame(in, func(*Frame) {})
	assert.Equal(t, "copied", clip.contents, "queued copy lands on the next input cycle")
}

func TestRunnerPasteQueuedNotSynchronous(t *testing.T) {
	clip := &fakeClipboard{contents: "line1\r\nline2"}
	r := newTestRunner(t, Config{Clipboard: clip})

	r.RunFrame(testInput(), func(f *Frame) {
		f.Queue(Action{Kind: ActionPaste})
	})
	// Delivery happens at the next pass start; just verify it does not
	// disturb the pass or the clipboard.
	in := testInput()
	in.Time = 0.016
	r.RunFrame(in, func(*Frame) {})
	assert.Equal(t, "line1\r\nline2", clip.contents)
}
