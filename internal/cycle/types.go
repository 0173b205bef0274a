// Package cycle contains the pure control core for the thermal cycler:
// the phase state machine, the three temperature-regulation algorithms,
// and the safety thresholds they enforce.
// This package has NO hardware dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time and I/O are always injected via Ports.
package cycle

import "time"

// Phase is the current stage of a run. Exactly one is current at any
// instant; Fault is terminal for the run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseHeating
	PhaseCooling
	PhaseDenaturing
	PhaseAnnealing
	PhaseExtending
	PhaseFault
)

// Letter returns the single-character phase code used on the serial
// record format.
func (p Phase) Letter() byte {
	switch p {
	case PhaseIdle:
		return 'I'
	case PhaseHeating:
		return 'H'
	case PhaseCooling:
		return 'C'
	case PhaseDenaturing:
		return 'D'
	case PhaseAnnealing:
		return 'A'
	case PhaseExtending:
		return 'E'
	case PhaseFault:
		return 'F'
	}
	return '?'
}

// String returns the phase name for logs and telemetry.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseHeating:
		return "HEATING"
	case PhaseCooling:
		return "COOLING"
	case PhaseDenaturing:
		return "DENATURING"
	case PhaseAnnealing:
		return "ANNEALING"
	case PhaseExtending:
		return "EXTENDING"
	case PhaseFault:
		return "FAULT"
	}
	return "UNKNOWN"
}

// FaultKind classifies why a run was aborted. At most one is active per
// run; FaultNone while the phase is anything other than Fault.
type FaultKind int

const (
	FaultNone FaultKind = iota
	FaultOperatorStop
	FaultSensorFailure
	FaultEntryAboveSetpoint
	FaultUnstable
)

// Code returns the single-character fault code used on the serial
// record format ('0' through '4').
func (f FaultKind) Code() byte {
	return byte('0' + int(f))
}

// String returns the fault name for logs and telemetry.
func (f FaultKind) String() string {
	switch f {
	case FaultNone:
		return "NONE"
	case FaultOperatorStop:
		return "OPERATOR_STOP"
	case FaultSensorFailure:
		return "SENSOR_FAILURE"
	case FaultEntryAboveSetpoint:
		return "ENTRY_ABOVE_SETPOINT"
	case FaultUnstable:
		return "UNSTABLE"
	}
	return "UNKNOWN"
}

// FaultError carries the FaultKind that aborted a regulation routine up
// to the cycle controller. All faults are run-fatal; none are retried.
type FaultError struct {
	Kind FaultKind
}

func (e *FaultError) Error() string {
	return "run fault: " + e.Kind.String()
}

// RunState is the mutable state of the current run. It is exclusively
// owned and mutated by the Controller; everything else receives copies.
type RunState struct {
	// Cycle is the 0-based index of the current cycle. Forcing it to
	// the configured cycle count is the abort sentinel that stops the
	// sequence.
	Cycle int
	Phase Phase
	Fault FaultKind
	// RunStart is when the current run began.
	RunStart time.Time
	// PhaseStart is when the current phase was entered.
	PhaseStart time.Time
}

// Ports are the injected collaborators of the control core: sensor,
// actuators, operator abort, and time. Tests supply fakes; main wires
// the real hardware.
type Ports struct {
	// ReadTemp returns the chamber temperature in degrees Celsius.
	// A failing sensor reports an implausibly low value rather than an
	// error; the room-floor check catches it.
	ReadTemp func() float64

	// SetHeater and SetFan command the two on/off actuators.
	SetHeater func(on bool)
	SetFan    func(on bool)

	// AbortRequested reports whether an operator stop has been
	// requested. Edge-triggered: a true result consumes the request.
	AbortRequested func() bool

	Now   func() time.Time
	Sleep func(d time.Duration)
}

// Logger receives a run-state snapshot after every sensor sample and at
// every forced checkpoint (phase transitions, run start/end).
type Logger interface {
	Emit(st RunState, tempC float64, forced bool)
}
