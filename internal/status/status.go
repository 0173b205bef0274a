// Package status provides a thread-safe status tracker for the cycler
// daemon. The control loop and run logger write; HTTP handlers and
// telemetry snapshots read.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/thermal-cycler/internal/cycle"
	"github.com/sweeney/thermal-cycler/internal/runlog"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker       string
	HTTPAddr     string
	ProfilePath  string
	NumCycles    int
	ButtonPollMs int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Phase        cycle.Phase
	Fault        cycle.FaultKind
	Cycle        int // 1-based, 0 before the first run
	TempC        float64
	RunID        string
	Running      bool
	RunElapsed   time.Duration
	PhaseElapsed time.Duration

	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex. It implements
// runlog.Sink so every emitted record refreshes the visible state.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Emit updates the tracked run state from a log record.
func (t *Tracker) Emit(rec runlog.Record) error {
	t.mu.Lock()
	t.snap.Phase = rec.Phase
	t.snap.Fault = rec.Fault
	t.snap.Cycle = rec.Cycle
	t.snap.TempC = rec.TempC
	t.snap.RunElapsed = rec.Elapsed
	t.snap.PhaseElapsed = rec.PhaseElapsed
	t.mu.Unlock()
	return nil
}

// SetRun records the current run identity and whether a run is active.
func (t *Tracker) SetRun(runID string, running bool) {
	t.mu.Lock()
	t.snap.RunID = runID
	t.snap.Running = running
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
