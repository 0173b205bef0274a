// Package config loads the setpoint profile from a YAML file. The
// profile is loaded once at startup and immutable for the daemon's
// lifetime.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/thermal-cycler/internal/cycle"
)

// Duration accepts either a Go duration string ("90s", "2m") or a bare
// number of seconds in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("duration must be a string or seconds: %w", err)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// File mirrors the YAML document. Zero/absent fields keep their
// defaults.
type File struct {
	NumCycles int `yaml:"num_cycles"`

	Setpoints struct {
		Denature float64 `yaml:"denature"`
		Anneal   float64 `yaml:"anneal"`
		Extend   float64 `yaml:"extend"`
	} `yaml:"setpoints"`

	Durations struct {
		InitialDenature Duration `yaml:"initial_denature"`
		Denature        Duration `yaml:"denature"`
		Anneal          Duration `yaml:"anneal"`
		Extend          Duration `yaml:"extend"`
		FinalExtend     Duration `yaml:"final_extend"`
	} `yaml:"durations"`

	Safety struct {
		RoomFloor       float64 `yaml:"room_floor"`
		MaxTemp         float64 `yaml:"max_temp"`
		MaxSlope        float64 `yaml:"max_slope"`
		StabilityMargin float64 `yaml:"stability_margin"`
		ApproachMargin  float64 `yaml:"approach_margin"`
		FanMargin       float64 `yaml:"fan_margin"`
		HoldMargin      float64 `yaml:"hold_margin"`
	} `yaml:"safety"`

	Timing struct {
		PulseGain      float64  `yaml:"pulse_gain"`
		MinPulse       Duration `yaml:"min_pulse"`
		MaxPulse       Duration `yaml:"max_pulse"`
		SettlePause    Duration `yaml:"settle_pause"`
		SampleInterval Duration `yaml:"sample_interval"`
		HoldPulse      Duration `yaml:"hold_pulse"`
		HoldPause      Duration `yaml:"hold_pause"`
	} `yaml:"timing"`
}

// Load reads a profile from path, applying it over the defaults and
// validating the result. An empty path returns the validated defaults.
func Load(path string) (cycle.Profile, error) {
	profile := cycle.DefaultProfile()
	if path == "" {
		return profile, profile.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read config: %w", err)
	}
	if err := Apply(data, &profile); err != nil {
		return profile, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return profile, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return profile, nil
}

// Apply overlays the YAML document onto profile. Only fields present
// and non-zero in the document are applied.
func Apply(data []byte, profile *cycle.Profile) error {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return err
	}

	if f.NumCycles != 0 {
		profile.NumCycles = f.NumCycles
	}

	applyFloat(&profile.DenatureTemp, f.Setpoints.Denature)
	applyFloat(&profile.AnnealTemp, f.Setpoints.Anneal)
	applyFloat(&profile.ExtendTemp, f.Setpoints.Extend)

	applyDuration(&profile.InitialDenatureTime, f.Durations.InitialDenature)
	applyDuration(&profile.DenatureTime, f.Durations.Denature)
	applyDuration(&profile.AnnealTime, f.Durations.Anneal)
	applyDuration(&profile.ExtendTime, f.Durations.Extend)
	applyDuration(&profile.FinalExtendTime, f.Durations.FinalExtend)

	applyFloat(&profile.RoomFloor, f.Safety.RoomFloor)
	applyFloat(&profile.MaxTemp, f.Safety.MaxTemp)
	applyFloat(&profile.MaxSlope, f.Safety.MaxSlope)
	applyFloat(&profile.StabilityMargin, f.Safety.StabilityMargin)
	applyFloat(&profile.ApproachMargin, f.Safety.ApproachMargin)
	applyFloat(&profile.FanMargin, f.Safety.FanMargin)
	applyFloat(&profile.HoldMargin, f.Safety.HoldMargin)

	applyFloat(&profile.PulseGain, f.Timing.PulseGain)
	applyDuration(&profile.MinPulse, f.Timing.MinPulse)
	applyDuration(&profile.MaxPulse, f.Timing.MaxPulse)
	applyDuration(&profile.SettlePause, f.Timing.SettlePause)
	applyDuration(&profile.SampleInterval, f.Timing.SampleInterval)
	applyDuration(&profile.HoldPulse, f.Timing.HoldPulse)
	applyDuration(&profile.HoldPause, f.Timing.HoldPause)

	return nil
}

func applyFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func applyDuration(dst *time.Duration, v Duration) {
	if v != 0 {
		*dst = time.Duration(v)
	}
}
