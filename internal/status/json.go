package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event               string     `json:"event,omitempty"`
	Reason              string     `json:"reason,omitempty"`
	Phase               string     `json:"phase"`
	Fault               string     `json:"fault"`
	Cycle               int        `json:"cycle"`
	TempC               float64    `json:"temp_c"`
	RunID               string     `json:"run_id,omitempty"`
	Running             bool       `json:"running"`
	RunElapsedSeconds   int64      `json:"run_elapsed_seconds"`
	PhaseElapsedSeconds int64      `json:"phase_elapsed_seconds"`
	UptimeSeconds       int64      `json:"uptime_seconds"`
	StartTime           string     `json:"start_time"`
	Timestamp           string     `json:"timestamp"`
	MQTT                MQTTStatus `json:"mqtt"`
	Config              ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	ProfilePath  string `json:"profile_path,omitempty"`
	NumCycles    int    `json:"num_cycles"`
	ButtonPollMs int64  `json:"button_poll_ms"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Phase:               snap.Phase.String(),
		Fault:               snap.Fault.String(),
		Cycle:               snap.Cycle,
		TempC:               snap.TempC,
		RunID:               snap.RunID,
		Running:             snap.Running,
		RunElapsedSeconds:   int64(snap.RunElapsed / time.Second),
		PhaseElapsedSeconds: int64(snap.PhaseElapsed / time.Second),
		UptimeSeconds:       int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:           snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:           snap.Now.UTC().Format(time.RFC3339),
		MQTT:                MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			ProfilePath:  snap.Config.ProfilePath,
			NumCycles:    snap.Config.NumCycles,
			ButtonPollMs: snap.Config.ButtonPollMs,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no
// event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
