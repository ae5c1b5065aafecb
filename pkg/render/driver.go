// pkg/render/driver.go
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-softbody/pkg/engine"
	"github.com/opd-ai/go-softbody/pkg/softbody"
)

// keyHold is how long a terminal key press keeps the platform moving
const keyHold = 150 * time.Millisecond

// RunTerminal runs the simulation on an initialized screen until the user
// quits or ctx is done. The caller owns the screen and finalizes it.
func RunTerminal(ctx context.Context, sim *engine.Simulation, screen tcell.Screen, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	bounds := sim.Config.World.Bounds()
	r := NewTerminalRenderer(screen, bounds)
	held := NewHeldDirection(keyHold)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	sim.Start()
	defer sim.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				action, dir := KeyAction(ev)
				switch action {
				case ActionQuit:
					return nil
				case ActionToggleGravity:
					sim.ToggleGravity()
				case ActionMove:
					held.Press(dir, time.Now())
				}
			case *tcell.EventResize:
				r.Fit(bounds)
				screen.Sync()
			}

		case <-ticker.C:
			sim.SetInput(held.Direction(time.Now()))
			result := sim.Update()
			sim.View(func(w *softbody.World) {
				r.SetStatus(fmt.Sprintf("tick %d  gravity %s  contacts %d  [arrows/wasd move, space gravity, q quit]",
					sim.CurrentTick, onOff(w.GravityEnabled), result.Contacts))
				DrawWorld(r, w)
			})
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
