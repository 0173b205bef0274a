package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/thermal-cycler/internal/cycle"
	"github.com/sweeney/thermal-cycler/internal/runlog"
)

func testTracker() *Tracker {
	return NewTracker(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Config{
		Broker:       "tcp://broker.local:1883",
		HTTPAddr:     ":8080",
		NumCycles:    30,
		ButtonPollMs: 100,
	})
}

func TestTrackerEmitUpdatesSnapshot(t *testing.T) {
	tr := testTracker()

	err := tr.Emit(runlog.Record{
		Elapsed:      90 * time.Second,
		Cycle:        3,
		Phase:        cycle.PhaseAnnealing,
		PhaseElapsed: 10 * time.Second,
		TempC:        55.2,
		Fault:        cycle.FaultNone,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := tr.Snapshot()
	if snap.Phase != cycle.PhaseAnnealing {
		t.Errorf("phase: got %s, want ANNEALING", snap.Phase)
	}
	if snap.Cycle != 3 {
		t.Errorf("cycle: got %d, want 3", snap.Cycle)
	}
	if snap.TempC != 55.2 {
		t.Errorf("temp: got %v, want 55.2", snap.TempC)
	}
	if snap.RunElapsed != 90*time.Second {
		t.Errorf("run elapsed: got %v, want 90s", snap.RunElapsed)
	}
}

func TestTrackerSetRun(t *testing.T) {
	tr := testTracker()

	tr.SetRun("run-1", true)
	snap := tr.Snapshot()
	if !snap.Running || snap.RunID != "run-1" {
		t.Errorf("got running=%v id=%q, want running run-1", snap.Running, snap.RunID)
	}

	tr.SetRun("run-1", false)
	if snap = tr.Snapshot(); snap.Running {
		t.Error("run should no longer be active")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := testTracker()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Emit(runlog.Record{Cycle: j, TempC: float64(j)})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Snapshot()
			}
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	tr := testTracker()
	tr.Emit(runlog.Record{
		Cycle: 5,
		Phase: cycle.PhaseExtending,
		TempC: 72.0,
	})
	tr.SetRun("run-9", true)
	tr.SetMQTTConnected(true)

	data := FormatJSON(tr.Snapshot())

	var payload StatusJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := payload.Status
	if s.Phase != "EXTENDING" {
		t.Errorf("phase: got %q", s.Phase)
	}
	if s.Cycle != 5 {
		t.Errorf("cycle: got %d", s.Cycle)
	}
	if !s.Running || s.RunID != "run-9" {
		t.Errorf("running/run_id: got %v/%q", s.Running, s.RunID)
	}
	if !s.MQTT.Connected {
		t.Error("mqtt connected not reported")
	}
	if s.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("broker: got %q", s.MQTT.Broker)
	}
	if s.Config.NumCycles != 30 {
		t.Errorf("num_cycles: got %d", s.Config.NumCycles)
	}
	if s.Event != "" {
		t.Errorf("web status must carry no event, got %q", s.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := testTracker()
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var payload StatusJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", payload.Status.Event)
	}
	if payload.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", payload.Status.Reason)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("event payload must be compact JSON")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Minute)}
	if snap.Uptime() != 90*time.Minute {
		t.Errorf("uptime: got %v, want 90m", snap.Uptime())
	}
}
