//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealOutputs drives the heater and fan lines on actual hardware using
// the Linux GPIO character device.
type RealOutputs struct {
	chip      *gpiocdev.Chip
	heaterPin *gpiocdev.Line
	fanPin    *gpiocdev.Line
}

// NewRealOutputs requests the heater and fan lines as outputs, both
// driven low (off) initially.
func NewRealOutputs(pinHeater, pinFan int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	heaterLine, err := chip.RequestLine(pinHeater, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request heater pin %d: %w", pinHeater, err)
	}

	fanLine, err := chip.RequestLine(pinFan, gpiocdev.AsOutput(0))
	if err != nil {
		heaterLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request fan pin %d: %w", pinFan, err)
	}

	return &RealOutputs{
		chip:      chip,
		heaterPin: heaterLine,
		fanPin:    fanLine,
	}, nil
}

// SetHeater drives the heater relay line.
func (o *RealOutputs) SetHeater(on bool) error {
	if err := o.heaterPin.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set heater pin: %w", err)
	}
	return nil
}

// SetFan drives the fan line.
func (o *RealOutputs) SetFan(on bool) error {
	if err := o.fanPin.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set fan pin: %w", err)
	}
	return nil
}

// Close drives both actuators off before releasing the lines, so an
// exiting daemon never leaves the heater energized.
func (o *RealOutputs) Close() error {
	var errs []error

	if o.heaterPin != nil {
		if err := o.heaterPin.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("heater off: %w", err))
		}
		if err := o.heaterPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close heater pin: %w", err))
		}
	}
	if o.fanPin != nil {
		if err := o.fanPin.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("fan off: %w", err))
		}
		if err := o.fanPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close fan pin: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButtons reads the start/stop panel buttons on actual hardware.
type RealButtons struct {
	chip     *gpiocdev.Chip
	startPin *gpiocdev.Line
	stopPin  *gpiocdev.Line
}

// NewRealButtons requests the button lines as inputs with pull-down to
// match Pi boot defaults; a pressed button reads high.
func NewRealButtons(pinStart, pinStop int) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	startLine, err := chip.RequestLine(pinStart, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request start pin %d: %w", pinStart, err)
	}

	stopLine, err := chip.RequestLine(pinStop, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		startLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request stop pin %d: %w", pinStop, err)
	}

	return &RealButtons{
		chip:     chip,
		startPin: startLine,
		stopPin:  stopLine,
	}, nil
}

// Read returns the pressed states of start and stop.
func (b *RealButtons) Read() (bool, bool, error) {
	startRaw, err := b.startPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read start pin: %w", err)
	}
	stopRaw, err := b.stopPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read stop pin: %w", err)
	}
	return startRaw != 0, stopRaw != 0, nil
}

// Close releases GPIO resources, restoring the boot-default pull-down
// input configuration first.
func (b *RealButtons) Close() error {
	var errs []error

	for _, pin := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"start", b.startPin},
		{"stop", b.stopPin},
	} {
		if pin.line == nil {
			continue
		}
		if err := pin.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", pin.name, err))
		}
		if err := pin.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", pin.name, err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
