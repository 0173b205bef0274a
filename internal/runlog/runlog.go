// Package runlog emits the structured run record stream: one record per
// elapsed whole second of a run, plus forced records on phase
// transitions and run start/end. Records fan out to sinks (serial
// console, MQTT telemetry, status tracker).
package runlog

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/thermal-cycler/internal/cycle"
)

// Record is one emitted status line.
type Record struct {
	// Timestamp is when the record was produced.
	Timestamp time.Time
	// Elapsed is the total run time at emission.
	Elapsed time.Duration
	// Cycle is the 1-based cycle number.
	Cycle int
	Phase cycle.Phase
	// PhaseElapsed is the time spent in the current phase.
	PhaseElapsed time.Duration
	// TempC is the chamber temperature at the triggering sample.
	TempC float64
	Fault cycle.FaultKind
	// Forced marks phase-boundary and run start/end records, which
	// bypass rate limiting.
	Forced bool
}

// SerialLine renders the record in the serial wire format:
// total_elapsed;cycle;phase_letter;phase_elapsed;temperature;fault_code
// with CRLF termination. Both elapsed fields use full zero-padded
// HH:MM:SS.
func (r Record) SerialLine() string {
	return fmt.Sprintf("%s;%02d;%c;%s;%06.2f;%c\r\n",
		formatHMS(r.Elapsed), r.Cycle, r.Phase.Letter(),
		formatHMS(r.PhaseElapsed), r.TempC, r.Fault.Code())
}

func formatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Sink consumes emitted records. A sink failure must not stop the run;
// the emitter logs it and carries on.
type Sink interface {
	Emit(rec Record) error
}

// Emitter implements cycle.Logger: it builds records from run-state
// snapshots and rate-limits unforced records to one per elapsed whole
// second of the run. This bounds output volume during long holds while
// guaranteeing transition visibility.
type Emitter struct {
	now   func() time.Time
	sinks []Sink

	runStart time.Time
	lastMark int64
}

// NewEmitter creates an emitter over the given sinks. now is injectable
// for tests.
func NewEmitter(now func() time.Time, sinks ...Sink) *Emitter {
	return &Emitter{
		now:      now,
		sinks:    sinks,
		lastMark: -1,
	}
}

// Emit builds a record for the sample and fans it out, unless rate
// limiting suppresses it. A new run (changed RunStart) resets the rate
// limiter.
func (e *Emitter) Emit(st cycle.RunState, tempC float64, forced bool) {
	now := e.now()

	if !st.RunStart.Equal(e.runStart) {
		e.runStart = st.RunStart
		e.lastMark = -1
	}

	secs := int64(now.Sub(st.RunStart) / time.Second)
	if !forced && secs <= e.lastMark {
		return
	}
	e.lastMark = secs

	rec := Record{
		Timestamp:    now,
		Elapsed:      now.Sub(st.RunStart),
		Cycle:        st.Cycle + 1,
		Phase:        st.Phase,
		PhaseElapsed: now.Sub(st.PhaseStart),
		TempC:        tempC,
		Fault:        st.Fault,
		Forced:       forced,
	}
	for _, s := range e.sinks {
		if err := s.Emit(rec); err != nil {
			log.Printf("runlog: sink error: %v", err)
		}
	}
}
