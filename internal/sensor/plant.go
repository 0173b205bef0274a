package sensor

import "time"

// Plant is a first-order thermal model of the reaction chamber, used in
// place of real hardware for regulator and integration tests. The
// temperature ramps linearly while an actuator is on and drifts toward
// ambient otherwise; tests advance it in lockstep with a simulated
// clock.
type Plant struct {
	// TempC is the current chamber temperature.
	TempC float64

	// Ambient is the temperature the chamber drifts toward when no
	// actuator is on.
	Ambient float64

	// HeatRate and CoolRate are the ramp rates in degrees per second
	// with heater or fan on. DriftRate is the passive loss rate.
	HeatRate  float64
	CoolRate  float64
	DriftRate float64

	heater bool
	fan    bool
}

// NewPlant creates a plant at ambient temperature with ramp rates
// typical of the reference chamber.
func NewPlant(ambient float64) *Plant {
	return &Plant{
		TempC:     ambient,
		Ambient:   ambient,
		HeatRate:  2.0,
		CoolRate:  1.5,
		DriftRate: 0.05,
	}
}

// SetHeater records the heater command.
func (p *Plant) SetHeater(on bool) {
	p.heater = on
}

// SetFan records the fan command.
func (p *Plant) SetFan(on bool) {
	p.fan = on
}

// HeaterOn reports the current heater command.
func (p *Plant) HeaterOn() bool { return p.heater }

// FanOn reports the current fan command.
func (p *Plant) FanOn() bool { return p.fan }

// Advance moves the model forward by d.
func (p *Plant) Advance(d time.Duration) {
	secs := d.Seconds()
	switch {
	case p.heater:
		p.TempC += p.HeatRate * secs
	case p.fan:
		p.TempC -= p.CoolRate * secs
		if p.TempC < p.Ambient {
			p.TempC = p.Ambient
		}
	default:
		p.TempC -= p.DriftRate * secs
		if p.TempC < p.Ambient {
			p.TempC = p.Ambient
		}
	}
}

// Read returns the model temperature.
func (p *Plant) Read() (float64, error) {
	return p.TempC, nil
}

// Close is a no-op for the model.
func (p *Plant) Close() error {
	return nil
}
