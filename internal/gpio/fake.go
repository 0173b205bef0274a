package gpio

import "errors"

// Command records a single actuator command for test assertions.
type Command struct {
	Actuator string // "heater" or "fan"
	On       bool
}

// FakeOutputs is a test double that records actuator commands.
type FakeOutputs struct {
	// Heater and Fan hold the last commanded states.
	Heater bool
	Fan    bool

	// History records every command in order.
	History []Command

	// SetError, if set, will be returned by SetHeater and SetFan.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs for testing.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetHeater records the heater command.
func (f *FakeOutputs) SetHeater(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Heater = on
	f.History = append(f.History, Command{Actuator: "heater", On: on})
	return nil
}

// SetFan records the fan command.
func (f *FakeOutputs) SetFan(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Fan = on
	f.History = append(f.History, Command{Actuator: "fan", On: on})
	return nil
}

// HeaterPulses counts heater-on commands.
func (f *FakeOutputs) HeaterPulses() int {
	n := 0
	for _, c := range f.History {
		if c.Actuator == "heater" && c.On {
			n++
		}
	}
	return n
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded commands.
func (f *FakeOutputs) Reset() {
	f.Heater = false
	f.Fan = false
	f.History = nil
	f.SetError = nil
	f.Closed = false
}

// ButtonSample represents a single buttons reading.
type ButtonSample struct {
	Start bool
	Stop  bool
}

// FakeButtons is a test double that returns scripted button states.
type FakeButtons struct {
	// Samples contains scripted (start, stop) values. Each call to
	// Read() consumes the next sample; when exhausted, the last sample
	// repeats.
	Samples []ButtonSample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by Read().
	ReadError error
}

// NewFakeButtons creates a FakeButtons with the given samples.
func NewFakeButtons(samples []ButtonSample) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeButtons) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Start, s.Stop, nil
}

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the buttons to the beginning of samples.
func (f *FakeButtons) Reset() {
	f.index = 0
	f.Closed = false
}
