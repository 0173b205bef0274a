// Package sensor provides chamber temperature reading with hardware
// abstraction. The real implementation reads a DS18B20 probe via the
// Linux 1-wire sysfs interface. Fakes allow testing without hardware.
package sensor

// Sensor reads the chamber temperature.
type Sensor interface {
	// Read returns the temperature in degrees Celsius.
	Read() (float64, error)

	// Close releases sensor resources.
	Close() error
}

// Failed is the implausible reading reported in place of a temperature
// when the sensor cannot be read. It sits far below any configurable
// room-temperature floor, so the regulator's sensor-failure check
// catches it on the next phase entry.
const Failed = -273.15

// ReadFunc adapts a Sensor to the plain read function the control core
// consumes: driver errors surface as the Failed sentinel rather than an
// error value.
func ReadFunc(s Sensor, onError func(error)) func() float64 {
	return func() float64 {
		t, err := s.Read()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return Failed
		}
		return t
	}
}
