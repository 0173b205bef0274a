package cycle

import (
	"fmt"
	"time"
)

// Profile is the immutable configuration for a run: setpoints, phase
// durations (including the first-denature and final-extension
// exceptions), and every safety threshold the regulator enforces.
// Loaded once at startup, never mutated while a run is active.
type Profile struct {
	// NumCycles is the number of denature/anneal/extend cycles.
	NumCycles int

	// Setpoints, degrees Celsius.
	DenatureTemp float64
	AnnealTemp   float64
	ExtendTemp   float64

	// Hold durations. The first cycle uses InitialDenatureTime in
	// place of DenatureTime; the last cycle uses FinalExtendTime in
	// place of ExtendTime.
	InitialDenatureTime time.Duration
	DenatureTime        time.Duration
	AnnealTime          time.Duration
	ExtendTime          time.Duration
	FinalExtendTime     time.Duration

	// RoomFloor is the lowest plausible chamber temperature. A sample
	// below it on phase entry means the sensor is disconnected or
	// broken.
	RoomFloor float64

	// MaxTemp is the absolute ceiling. At or above it the regulator
	// pauses and rechecks until the chamber cools back under.
	MaxTemp float64

	// MaxSlope is the largest allowed rise between consecutive samples
	// before the runaway guard pauses heating.
	MaxSlope float64

	// StabilityMargin is how far a sample may fall below the previous
	// checkpoint during a rise before the run is declared unstable.
	StabilityMargin float64

	// ApproachMargin is the remaining gap below which the rise loop
	// switches to damped settling to avoid overshooting the setpoint.
	ApproachMargin float64

	// FanMargin is the overshoot allowance above the setpoint at which
	// a fall is considered complete.
	FanMargin float64

	// HoldMargin is the dead-band above the setpoint during a hold;
	// within [setpoint, setpoint+HoldMargin] neither actuator fires.
	HoldMargin float64

	// PulseGain scales heater pulse length with the remaining gap, in
	// seconds per degree. Pulse = clamp(gain*gap + MinPulse, MinPulse,
	// MaxPulse).
	PulseGain float64
	MinPulse  time.Duration
	MaxPulse  time.Duration

	// SettlePause is the wait between resamples in the approach
	// damping, runaway and ceiling loops.
	SettlePause time.Duration

	// SampleInterval is the wait between samples while fan-cooling.
	SampleInterval time.Duration

	// HoldPulse and HoldPause form the fixed duty cycle of corrective
	// pulses during a hold.
	HoldPulse time.Duration
	HoldPause time.Duration
}

// DefaultProfile returns a profile tuned for a standard 30-cycle PCR
// program on the reference chamber.
func DefaultProfile() Profile {
	return Profile{
		NumCycles: 30,

		DenatureTemp: 94.0,
		AnnealTemp:   55.0,
		ExtendTemp:   72.0,

		InitialDenatureTime: 2 * time.Minute,
		DenatureTime:        30 * time.Second,
		AnnealTime:          30 * time.Second,
		ExtendTime:          time.Minute,
		FinalExtendTime:     5 * time.Minute,

		RoomFloor:       15.0,
		MaxTemp:         105.0,
		MaxSlope:        2.5,
		StabilityMargin: 1.0,
		ApproachMargin:  3.0,
		FanMargin:       1.0,
		HoldMargin:      0.5,

		PulseGain: 0.25,
		MinPulse:  250 * time.Millisecond,
		MaxPulse:  5 * time.Second,

		SettlePause:    500 * time.Millisecond,
		SampleInterval: 500 * time.Millisecond,
		HoldPulse:      250 * time.Millisecond,
		HoldPause:      750 * time.Millisecond,
	}
}

// Validate checks that the profile is physically coherent before a run
// is allowed to start.
func (p *Profile) Validate() error {
	if p.NumCycles < 1 {
		return fmt.Errorf("num_cycles must be >= 1, got %d", p.NumCycles)
	}
	if p.AnnealTemp >= p.ExtendTemp || p.ExtendTemp >= p.DenatureTemp {
		return fmt.Errorf("setpoints must satisfy anneal < extend < denature, got %.1f/%.1f/%.1f",
			p.AnnealTemp, p.ExtendTemp, p.DenatureTemp)
	}
	if p.RoomFloor <= 0 || p.RoomFloor >= p.AnnealTemp {
		return fmt.Errorf("room_floor %.1f must be positive and below the anneal setpoint", p.RoomFloor)
	}
	if p.MaxTemp <= p.DenatureTemp {
		return fmt.Errorf("max_temp %.1f must exceed the denature setpoint %.1f", p.MaxTemp, p.DenatureTemp)
	}
	if p.MaxSlope <= 0 {
		return fmt.Errorf("max_slope must be positive, got %.2f", p.MaxSlope)
	}
	if p.StabilityMargin <= 0 || p.ApproachMargin <= 0 || p.FanMargin < 0 || p.HoldMargin < 0 {
		return fmt.Errorf("margins must be positive (stability %.2f, approach %.2f) or non-negative (fan %.2f, hold %.2f)",
			p.StabilityMargin, p.ApproachMargin, p.FanMargin, p.HoldMargin)
	}
	if p.PulseGain < 0 {
		return fmt.Errorf("pulse_gain must be non-negative, got %.3f", p.PulseGain)
	}
	if p.MinPulse <= 0 || p.MaxPulse < p.MinPulse {
		return fmt.Errorf("pulse bounds invalid: min %v, max %v", p.MinPulse, p.MaxPulse)
	}
	if p.SettlePause <= 0 || p.SampleInterval <= 0 || p.HoldPulse <= 0 || p.HoldPause <= 0 {
		return fmt.Errorf("intervals must be positive (settle %v, sample %v, hold pulse %v, hold pause %v)",
			p.SettlePause, p.SampleInterval, p.HoldPulse, p.HoldPause)
	}
	for _, d := range []struct {
		name string
		d    time.Duration
	}{
		{"initial_denature_time", p.InitialDenatureTime},
		{"denature_time", p.DenatureTime},
		{"anneal_time", p.AnnealTime},
		{"extend_time", p.ExtendTime},
		{"final_extend_time", p.FinalExtendTime},
	} {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.d)
		}
	}
	return nil
}

// PulseFor returns the heater pulse length for the remaining gap to the
// setpoint. Proportional to the gap, saturating at the configured
// bounds: near-setpoint pulses are short, far-from-setpoint pulses are
// capped.
func (p *Profile) PulseFor(gap float64) time.Duration {
	d := time.Duration(gap*p.PulseGain*float64(time.Second)) + p.MinPulse
	if d < p.MinPulse {
		d = p.MinPulse
	}
	if d > p.MaxPulse {
		d = p.MaxPulse
	}
	return d
}
