package gpio

import (
	"errors"
	"testing"
)

func TestFakeOutputsRecordsHistory(t *testing.T) {
	f := NewFakeOutputs()

	f.SetHeater(true)
	f.SetHeater(false)
	f.SetFan(true)

	if f.Heater {
		t.Error("heater should be off")
	}
	if !f.Fan {
		t.Error("fan should be on")
	}

	want := []Command{
		{Actuator: "heater", On: true},
		{Actuator: "heater", On: false},
		{Actuator: "fan", On: true},
	}
	if len(f.History) != len(want) {
		t.Fatalf("history length: got %d, want %d", len(f.History), len(want))
	}
	for i, c := range want {
		if f.History[i] != c {
			t.Errorf("history[%d]: got %+v, want %+v", i, f.History[i], c)
		}
	}
	if f.HeaterPulses() != 1 {
		t.Errorf("heater pulses: got %d, want 1", f.HeaterPulses())
	}
}

func TestFakeOutputsSetError(t *testing.T) {
	f := NewFakeOutputs()
	f.SetError = errors.New("gpio unavailable")

	if err := f.SetHeater(true); err == nil {
		t.Error("expected heater error")
	}
	if err := f.SetFan(true); err == nil {
		t.Error("expected fan error")
	}
	if len(f.History) != 0 {
		t.Errorf("failed commands must not be recorded, got %d", len(f.History))
	}
}

func TestFakeButtonsScriptedSamples(t *testing.T) {
	f := NewFakeButtons([]ButtonSample{
		{Start: false, Stop: false},
		{Start: true, Stop: false},
		{Start: false, Stop: true},
	})

	want := []ButtonSample{
		{false, false},
		{true, false},
		{false, true},
		{false, true}, // last sample repeats
	}
	for i, w := range want {
		start, stop, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if start != w.Start || stop != w.Stop {
			t.Errorf("read %d: got (%v,%v), want (%v,%v)", i, start, stop, w.Start, w.Stop)
		}
	}
}

func TestFakeButtonsReadError(t *testing.T) {
	f := NewFakeButtons([]ButtonSample{{Start: true}})
	f.ReadError = errors.New("bounce")

	if _, _, err := f.Read(); err == nil {
		t.Fatal("expected read error")
	}
}
