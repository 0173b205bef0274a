// Package trigger provides edge-triggered start/stop latches shared
// between the GPIO buttons, the HTTP command surface, and signal
// handling. The control loop polls; a poll consumes the pending edge.
package trigger

import "sync/atomic"

// Latch is a one-shot request flag. Request arms it; Poll reports and
// clears it. Safe for concurrent use; the control loop is the only
// poller.
type Latch struct {
	armed atomic.Bool
}

// Request arms the latch. Repeated requests before the next poll
// collapse into one edge.
func (l *Latch) Request() {
	l.armed.Store(true)
}

// Poll reports whether a request is pending and consumes it.
func (l *Latch) Poll() bool {
	return l.armed.Swap(false)
}

// Pending reports whether a request is armed without consuming it.
func (l *Latch) Pending() bool {
	return l.armed.Load()
}
