// Package gpio provides the cycler's GPIO surface with hardware
// abstraction: heater and fan output lines plus the start/stop panel
// buttons. The real implementation uses the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package gpio

// Outputs commands the two on/off actuators. The control core keeps at
// most one of heater/fan commanded on at a time during a hold, and
// leaves neither on across a phase boundary except the fan during the
// post-run cooldown.
type Outputs interface {
	// SetHeater drives the heater relay line.
	SetHeater(on bool) error

	// SetFan drives the fan line.
	SetFan(on bool) error

	// Close turns both actuators off and releases GPIO resources.
	Close() error
}

// Buttons reads the momentary start and stop panel buttons.
type Buttons interface {
	// Read returns the current (pressed) states of start and stop.
	// Returns (start, stop, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinHeater = 17 // heater SSR
	DefaultPinFan    = 27 // fan MOSFET
	DefaultPinStart  = 23 // start button
	DefaultPinStop   = 24 // stop button
)
