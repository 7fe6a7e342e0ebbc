// File: utils/config.go
package utils

import "time"

// Config holds all configurable parameters of a Bot instance.
type Config struct {
	// Timing
	TickPeriod       time.Duration `json:"tickPeriod"`       // Period of the simulation tick (60Hz default)
	DiagnosticPeriod time.Duration `json:"diagnosticPeriod"` // Period of the optional 1Hz diagnostic pass
	MaxTickSlice     time.Duration `json:"maxTickSlice"`     // Upper bound on a single integration slice (50ms)
	DialTimeout      time.Duration `json:"dialTimeout"`      // Timeout for the initial websocket dial

	// Protocol defaults
	DefaultPingInterval time.Duration `json:"defaultPingInterval"` // Assumed ping interval before OPEN arrives

	// loaded{} payload, sent in response to "welcome"
	ViewportWidth  int `json:"viewportWidth"`
	ViewportHeight int `json:"viewportHeight"`
	ViewportScale  int `json:"viewportScale"`

	// Player bounding box, injected into the own character and into every
	// ingested player record (h = horizontal, v = vertical up, vn = vertical down)
	BaseH  int `json:"baseH"`
	BaseV  int `json:"baseV"`
	BaseVn int `json:"baseVn"`

	// DiagnosticConsole enables the 1Hz diagnostic pass clearing the
	// terminal and printing a live-entity snapshot, for interactive use.
	DiagnosticConsole bool `json:"diagnosticConsole"`
}

// DefaultConfig returns a Config struct with the values the original client hard-codes.
func DefaultConfig() Config {
	return Config{
		TickPeriod:       time.Second / 60,
		DiagnosticPeriod: time.Second,
		MaxTickSlice:     50 * time.Millisecond,
		DialTimeout:      10 * time.Second,

		DefaultPingInterval: 4000 * time.Millisecond,

		ViewportWidth:  1920,
		ViewportHeight: 1080,
		ViewportScale:  2,

		BaseH:  8,
		BaseV:  7,
		BaseVn: 2,
	}
}

// FastTickConfig returns DefaultConfig with a 1ms tick period and a 10ms
// diagnostic period, so several simulated ticks settle quickly.
func FastTickConfig() Config {
	cfg := DefaultConfig()
	cfg.TickPeriod = time.Millisecond
	cfg.DiagnosticPeriod = 10 * time.Millisecond
	return cfg
}
