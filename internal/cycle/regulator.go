package cycle

import "time"

// Regulator drives the chamber temperature toward and around a
// setpoint using the heater and fan. The three routines (RiseTo,
// FallTo, HoldAt) consume sensor samples, issue actuator commands, and
// enforce the safety thresholds from the profile. Each returns nil on
// success or a *FaultError on the first detected fault; all faults are
// run-fatal and never retried here.
type Regulator struct {
	profile *Profile
	ports   Ports
	state   *RunState
	logger  Logger
}

// NewRegulator creates a regulator over the given run state. The state
// is shared with the Controller, which owns all mutation; the regulator
// only reads it for log snapshots and phase timing.
func NewRegulator(profile *Profile, ports Ports, state *RunState, logger Logger) *Regulator {
	return &Regulator{
		profile: profile,
		ports:   ports,
		state:   state,
		logger:  logger,
	}
}

// sample reads the sensor and reports the reading to the logger. The
// logger rate-limits; transition records are forced elsewhere.
func (r *Regulator) sample() float64 {
	t := r.ports.ReadTemp()
	r.logger.Emit(*r.state, t, false)
	return t
}

func fault(kind FaultKind) error {
	return &FaultError{Kind: kind}
}

// RiseTo drives the temperature upward to setpoint with timed heater
// pulses, terminating on success or on the first detected fault.
func (r *Regulator) RiseTo(setpoint float64) error {
	temp := r.sample()

	// Entry checks before any pulsing. Implausibly cold means the
	// sensor is disconnected or broken; already above the setpoint
	// means the rising-approach assumption is violated.
	if temp < r.profile.RoomFloor {
		return fault(FaultSensorFailure)
	}
	if temp > setpoint {
		return fault(FaultEntryAboveSetpoint)
	}

	checkpoint := temp
	checkpointDue := false
	for temp < setpoint {
		if r.ports.AbortRequested() {
			return fault(FaultOperatorStop)
		}

		pulse := r.profile.PulseFor(setpoint - temp)
		r.ports.SetHeater(true)
		r.ports.Sleep(pulse)
		r.ports.SetHeater(false)

		prev := temp
		temp = r.sample()
		if temp >= setpoint {
			break
		}

		// Close to the setpoint, thermal lag can carry the chamber
		// past it after the pulse ends. Wait out the residual rise
		// before pulsing again.
		if setpoint-temp < r.profile.ApproachMargin {
			for {
				last := temp
				r.ports.Sleep(r.profile.SettlePause)
				temp = r.sample()
				if temp <= last {
					break
				}
			}
			if temp >= setpoint {
				break
			}
		}

		// Heating should be monotonically non-decreasing within
		// tolerance. Compared every second iteration against the
		// checkpoint from the iteration before.
		if checkpointDue {
			if temp < checkpoint-r.profile.StabilityMargin {
				return fault(FaultUnstable)
			}
		} else {
			checkpoint = temp
		}
		checkpointDue = !checkpointDue

		// Runaway rate: a stuck-on heater would overshoot before the
		// next safety sample. Pause until the slope is back under the
		// limit. Not fatal by itself.
		for temp-prev >= r.profile.MaxSlope {
			prev = temp
			r.ports.Sleep(r.profile.SettlePause)
			temp = r.sample()
		}

		// Absolute ceiling, independent of the setpoint. Not fatal by
		// itself.
		for temp >= r.profile.MaxTemp {
			r.ports.Sleep(r.profile.SettlePause)
			temp = r.sample()
		}
	}

	return nil
}

// FallTo drives the temperature down to setpoint (plus the fan margin)
// using the fan only. The chamber is already known-cooling from a hot,
// sensor-verified state, so no sensor or slope checks apply here. The
// fan is switched off on exit, success or failure.
func (r *Regulator) FallTo(setpoint float64) error {
	defer r.ports.SetFan(false)

	temp := r.sample()
	for temp > setpoint+r.profile.FanMargin {
		if r.ports.AbortRequested() {
			return fault(FaultOperatorStop)
		}
		r.ports.SetFan(true)
		r.ports.Sleep(r.profile.SampleInterval)
		temp = r.sample()
	}
	return nil
}

// HoldAt maintains setpoint for duration with short corrective pulses
// on a fixed duty cycle. At most one actuator fires per iteration;
// inside the dead-band neither does. Duration is measured from the
// phase start recorded in the run state.
func (r *Regulator) HoldAt(setpoint float64, duration time.Duration) error {
	for r.ports.Now().Sub(r.state.PhaseStart) < duration {
		if r.ports.AbortRequested() {
			return fault(FaultOperatorStop)
		}

		temp := r.sample()
		switch {
		case temp < setpoint:
			r.ports.SetHeater(true)
			r.ports.Sleep(r.profile.HoldPulse)
			r.ports.SetHeater(false)
		case temp > setpoint+r.profile.HoldMargin:
			r.ports.SetFan(true)
			r.ports.Sleep(r.profile.HoldPulse)
			r.ports.SetFan(false)
		default:
			r.ports.Sleep(r.profile.HoldPulse)
		}

		// Duty-cycle separation between correction pulses.
		r.ports.Sleep(r.profile.HoldPause)
	}
	return nil
}
