package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/thermal-cycler/internal/cycle"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := cycle.DefaultProfile()
	if got != want {
		t.Errorf("got %+v, want defaults %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/profile.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyOverlaysOnlyPresentFields(t *testing.T) {
	doc := `
num_cycles: 25
setpoints:
  denature: 95.0
durations:
  anneal: 45s
`
	profile := cycle.DefaultProfile()
	if err := Apply([]byte(doc), &profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.NumCycles != 25 {
		t.Errorf("num_cycles: got %d, want 25", profile.NumCycles)
	}
	if profile.DenatureTemp != 95.0 {
		t.Errorf("denature: got %v, want 95.0", profile.DenatureTemp)
	}
	if profile.AnnealTime != 45*time.Second {
		t.Errorf("anneal duration: got %v, want 45s", profile.AnnealTime)
	}

	// Untouched fields keep defaults.
	def := cycle.DefaultProfile()
	if profile.AnnealTemp != def.AnnealTemp {
		t.Errorf("anneal setpoint changed: got %v, want %v", profile.AnnealTemp, def.AnnealTemp)
	}
	if profile.ExtendTime != def.ExtendTime {
		t.Errorf("extend duration changed: got %v, want %v", profile.ExtendTime, def.ExtendTime)
	}
}

func TestApplyDurationForms(t *testing.T) {
	doc := `
durations:
  denature: 1m30s
  extend: 20
`
	profile := cycle.DefaultProfile()
	if err := Apply([]byte(doc), &profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.DenatureTime != 90*time.Second {
		t.Errorf("duration string: got %v, want 1m30s", profile.DenatureTime)
	}
	if profile.ExtendTime != 20*time.Second {
		t.Errorf("bare seconds: got %v, want 20s", profile.ExtendTime)
	}
}

func TestApplyBadDuration(t *testing.T) {
	doc := `
durations:
  denature: ninety
`
	profile := cycle.DefaultProfile()
	err := Apply([]byte(doc), &profile)
	if err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestApplyRejectsUnknownFields(t *testing.T) {
	doc := `
num_cicles: 25
`
	profile := cycle.DefaultProfile()
	if err := Apply([]byte(doc), &profile); err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestLoadValidatesResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	doc := `
setpoints:
  denature: 50.0
  anneal: 80.0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for anneal above denature")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFullProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	doc := `
num_cycles: 35
setpoints:
  denature: 94.0
  anneal: 52.0
  extend: 72.0
durations:
  initial_denature: 3m
  denature: 30s
  anneal: 30s
  extend: 1m
  final_extend: 7m
safety:
  max_temp: 103.0
  max_slope: 2.0
timing:
  pulse_gain: 0.3
  hold_pulse: 300ms
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.NumCycles != 35 {
		t.Errorf("num_cycles: got %d, want 35", profile.NumCycles)
	}
	if profile.AnnealTemp != 52.0 {
		t.Errorf("anneal: got %v, want 52.0", profile.AnnealTemp)
	}
	if profile.InitialDenatureTime != 3*time.Minute {
		t.Errorf("initial denature: got %v, want 3m", profile.InitialDenatureTime)
	}
	if profile.FinalExtendTime != 7*time.Minute {
		t.Errorf("final extend: got %v, want 7m", profile.FinalExtendTime)
	}
	if profile.MaxTemp != 103.0 {
		t.Errorf("max temp: got %v, want 103.0", profile.MaxTemp)
	}
	if profile.PulseGain != 0.3 {
		t.Errorf("pulse gain: got %v, want 0.3", profile.PulseGain)
	}
	if profile.HoldPulse != 300*time.Millisecond {
		t.Errorf("hold pulse: got %v, want 300ms", profile.HoldPulse)
	}
}
