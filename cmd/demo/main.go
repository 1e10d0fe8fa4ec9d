package main

import (
	"fmt"
	"log"
	"time"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/glimt/imshell/app"
	glbackend "github.com/glimt/imshell/gfx/gl"
	"github.com/glimt/imshell/platform"
	"github.com/glimt/imshell/ui"
)

// demoState is the placeholder application content.
type demoState struct {
	name string
	age  int32
}

func (s *demoState) layout(f *ui.Frame) {
	// The demo never vetoes a close; a real app would inspect
	// f.CloseRequested and call f.CancelClose() for unsaved changes.

	imgui.Begin("My Window")
	imgui.Text("My imshell Application")
	imgui.InputText("Your name", &s.name)
	imgui.SliderInt("age", &s.age, 0, 120)
	if imgui.Button("Increment") {
		s.age++
	}
	imgui.Text(fmt.Sprintf("Hello '%s', age %d", s.name, s.age))
	imgui.End()
}

func main() {
	cfg, err := app.LoadConfig("demo.toml")
	if err != nil {
		log.Fatal(err)
	}

	state := &demoState{name: "John Doe", age: 42}

	backend := app.Backend{
		NewWindow: func(cfg app.Config, handler func(app.Event)) (app.Window, error) {
			return platform.NewWindow(cfg, handler)
		},
		NewRenderer: func() (app.Renderer, error) {
			return glbackend.New()
		},
		NewRunner: func(win app.Window, post func(app.RepaintRequest)) (app.PassRunner, error) {
			pw := win.(*platform.Window)
			runner, err := ui.NewRunner(ui.Config{
				Clipboard: platform.NewClipboard(pw),
				MaxPasses: cfg.MaxPasses,
				OnRepaint: func(when time.Time, passNr uint64) {
					post(app.RepaintRequest{When: when, PassNr: passNr})
				},
			})
			if err != nil {
				return nil, err
			}
			pw.BindIO(runner.IO())
			return runner, nil
		},
	}

	if err := app.Run(cfg, state.layout, backend); err != nil {
		log.Fatal(err)
	}
}
