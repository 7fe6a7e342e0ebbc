// File: bot/reconnect.go
package bot

import (
	"regexp"
	"strconv"
	"sync"
	"time"
)

// waitSecondsPattern matches the server's "wait N seconds" game_error
// text (case-insensitive, tolerant of surrounding words).
var waitSecondsPattern = regexp.MustCompile(`(?i)wait\s+(\d+)\s+second`)

// ParseWaitSeconds extracts N from a game_error message of the form
// "wait N seconds", returning ok=false if the message does not match.
func ParseWaitSeconds(message string) (int, bool) {
	m := waitSecondsPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ReconnectScheduler schedules a single re-login after a game_error
// "wait N seconds" notice. Unlike the original source's detached thread,
// the scheduled callback is a cancelable *time.Timer: Cancel (called from
// Bot.Stop) guarantees a late re-login never fires after the bot has
// already been torn down.
type ReconnectScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewReconnectScheduler returns an idle scheduler.
func NewReconnectScheduler() *ReconnectScheduler {
	return &ReconnectScheduler{}
}

// Schedule arranges for fn to run after (n+1) seconds, replacing any
// previously scheduled re-login.
func (r *ReconnectScheduler) Schedule(n int, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	delay := time.Duration(n+1) * time.Second
	r.timer = time.AfterFunc(delay, fn)
}

// Cancel stops any pending re-login. Safe to call when nothing is
// scheduled.
func (r *ReconnectScheduler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
