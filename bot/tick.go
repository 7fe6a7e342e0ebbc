// File: bot/tick.go
package bot

import (
	"fmt"
	"time"

	"github.com/lguibr/asciiring/helpers"
	"github.com/lunarwatcher/albot/world"
)

// runTickLoop drives the 60Hz simulation tick and an optional 1Hz
// diagnostic pass until stopTick is closed. It is the sole writer of the
// live entity map once Connect has returned; the own-character slot is
// also written by the network context's event handlers.
func (b *Bot) runTickLoop() {
	defer b.tickWg.Done()

	ticker := time.NewTicker(b.cfg.TickPeriod)
	defer ticker.Stop()

	diagTicker := time.NewTicker(b.cfg.DiagnosticPeriod)
	defer diagTicker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-b.stopTick:
			return
		case now := <-ticker.C:
			delta := now.Sub(lastTick)
			lastTick = now
			b.runOneTick(delta)
		case <-diagTicker.C:
			b.runDiagnostics()
		}
	}
}

// runOneTick implements spec.md 4.G: drain staged updates into live, then
// advance the simulator in slices of at most MaxTickSlice.
func (b *Bot) runOneTick(delta time.Duration) {
	b.store.DrainIntoLive()
	// Deleting entities is a deliberate no-op: records marked dead=true
	// stay in live and are skipped by the integrator.

	remaining := delta
	for remaining > 0 {
		slice := remaining
		if slice > b.cfg.MaxTickSlice {
			slice = b.cfg.MaxTickSlice
		}
		sliceMillis := float64(slice.Microseconds()) / 1000.0

		b.store.WithLive(func(live map[string]world.Entity, own world.Entity) {
			world.AdvanceOwn(own, sliceMillis)
			for _, e := range live {
				b.fillMonsterSpeed(e)
				world.AdvanceMoving(e, sliceMillis)
			}
		})

		remaining -= slice
	}
}

// fillMonsterSpeed supplies a monster's speed from static game data when
// the server omitted it from the entity record.
func (b *Bot) fillMonsterSpeed(e world.Entity) {
	if e.Type() != "monster" || e.Speed() != 0 || b.gamedata == nil {
		return
	}
	if md, ok := b.gamedata.Monster(e.MType()); ok {
		e.SetSpeed(md.Speed)
	}
}

// runDiagnostics walks the live map for logging purposes. It holds the
// entity mutex for the whole walk: the original source's diagnostic pass
// iterated the live map without holding it, which the spec documents as
// a data race this reimplementation must not repeat.
//
// When Config.DiagnosticConsole is set, it also clears the terminal and
// prints a plain-text snapshot, the way pongoClient/main.go cleared the
// screen before printing whatever the server sent.
func (b *Bot) runDiagnostics() {
	b.store.WithLive(func(live map[string]world.Entity, own world.Entity) {
		summary := fmt.Sprintf("tick diagnostics: %d live entities, own at (%.1f, %.1f) hp=%.0f/%.0f",
			len(live), own.X(), own.Y(), own.HP(), own.MaxHP())

		if b.cfg.DiagnosticConsole {
			helpers.ClearScreen()
			fmt.Println(summary)
			for id, e := range live {
				fmt.Printf("  %-16s (%.1f, %.1f) hp=%.0f/%.0f moving=%v\n",
					id, e.X(), e.Y(), e.HP(), e.MaxHP(), e.Moving())
			}
		}

		b.logger.Logf("%s", summary)
	})
}
