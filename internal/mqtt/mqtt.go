// Package mqtt publishes run records and system lifecycle events to the
// lab broker, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sweeney/thermal-cycler/internal/runlog"
)

// TopicRecords is the MQTT topic for per-sample run records.
const TopicRecords = "lab/cycler/records"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "lab/cycler/system"

// Publisher publishes cycler telemetry.
type Publisher interface {
	// PublishRecord sends a run record to the broker.
	// Returns error if publishing fails (should not crash the run).
	PublishRecord(rec runlog.Record) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g. startup,
// shutdown, run start, run completion, run fault).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "RUN_START", "RUN_FAULT"
	Reason     string // e.g. "SIGTERM", a fault name (fault events only)
	RunID      string // UUID of the run, empty for daemon-level events
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the broker should retain the message
}

// RecordPayload is the MQTT message payload for a run record.
type RecordPayload struct {
	Cycler CyclerPayload `json:"cycler"`
}

// CyclerPayload contains the run record details.
type CyclerPayload struct {
	Timestamp           string  `json:"timestamp"`
	RunElapsedSeconds   int64   `json:"run_elapsed_seconds"`
	Cycle               int     `json:"cycle"`
	Phase               string  `json:"phase"`
	PhaseElapsedSeconds int64   `json:"phase_elapsed_seconds"`
	TempC               float64 `json:"temp_c"`
	Fault               string  `json:"fault"`
	Record              string  `json:"record"`
}

// FormatRecordPayload creates the JSON payload for a run record. The
// Record field carries the raw serial line for consumers that mirror
// the console stream.
func FormatRecordPayload(rec runlog.Record) ([]byte, error) {
	payload := RecordPayload{
		Cycler: CyclerPayload{
			Timestamp:           rec.Timestamp.UTC().Format(time.RFC3339),
			RunElapsedSeconds:   int64(rec.Elapsed / time.Second),
			Cycle:               rec.Cycle,
			Phase:               rec.Phase.String(),
			PhaseElapsedSeconds: int64(rec.PhaseElapsed / time.Second),
			TempC:               rec.TempC,
			Fault:               rec.Fault.String(),
			Record:              strings.TrimRight(rec.SerialLine(), "\r\n"),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	RunID     string `json:"run_id,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			RunID:     event.RunID,
		},
	}
	return json.Marshal(payload)
}

// RecordSink adapts a Publisher to the runlog.Sink interface.
type RecordSink struct {
	Publisher Publisher
}

// Emit publishes the record.
func (s RecordSink) Emit(rec runlog.Record) error {
	return s.Publisher.PublishRecord(rec)
}
