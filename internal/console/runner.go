// internal/console/runner.go
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/engine"
)

// DefaultTick is how often the loop drains pending requests and
// evaluates the engine.
const DefaultTick = 100 * time.Millisecond

// Run drives the single cooperative loop: drain every pending request
// line, reply, then give the engine one tick. Ordering between
// operations is the textual order of this body; a ping accepted in a
// pass always precedes that pass's tick.
//
// A failed fire is logged and the loop keeps serving; a dead port ends
// the loop.
func Run(ctx context.Context, it *Interpreter, eng *engine.Engine, port Port, tick time.Duration) error {
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			for {
				line, err := port.ReadLine()
				if errors.Is(err, ErrNoLine) {
					break
				}
				if err != nil {
					return fmt.Errorf("console: read: %w", err)
				}
				for _, reply := range it.Execute(line) {
					if err := port.WriteLine(reply); err != nil {
						return fmt.Errorf("console: write: %w", err)
					}
				}
			}

			if err := eng.Tick(); err != nil {
				log.Printf("watchdog: %v", err)
			}
		}
	}
}
