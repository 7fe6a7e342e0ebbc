// File: protocol/keepalive.go
package protocol

import (
	"sync"
	"time"
)

// Keepalive tracks the server's declared ping interval and the time of the
// last inbound traffic, so a caller can decide whether an opportunistic
// upstream ping is due.
type Keepalive struct {
	mu           sync.Mutex
	pingInterval time.Duration
	lastInbound  time.Time
}

// NewKeepalive starts with the protocol default ping interval.
func NewKeepalive() *Keepalive {
	return &Keepalive{
		pingInterval: DefaultPingInterval * time.Millisecond,
		lastInbound:  time.Now(),
	}
}

// AdoptOpenPayload sets the ping interval from a decoded OPEN frame. A
// zero or negative value is ignored and the default interval is kept.
func (k *Keepalive) AdoptOpenPayload(p OpenPayload) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if p.PingInterval > 0 {
		k.pingInterval = time.Duration(p.PingInterval) * time.Millisecond
	}
}

// NoteInbound records that traffic was just received, for opportunistic
// ping purposes.
func (k *Keepalive) NoteInbound(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lastInbound = now
}

// Interval returns the currently adopted ping interval.
func (k *Keepalive) Interval() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pingInterval
}

// UpstreamPingDue reports whether more than the adopted interval has
// elapsed since the last inbound traffic, meaning the next inbound
// message should be accompanied by an upstream ping.
func (k *Keepalive) UpstreamPingDue(now time.Time) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return now.Sub(k.lastInbound) > k.pingInterval
}
