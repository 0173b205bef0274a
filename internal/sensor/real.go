package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// W1Dir is the sysfs directory where the kernel 1-wire bus exposes
// enumerated slave devices.
const W1Dir = "/sys/bus/w1/devices"

// DS18B20 reads a Dallas 1-wire temperature probe through the kernel
// w1-therm driver.
type DS18B20 struct {
	path string
}

// NewDS18B20 opens the probe with the given device ID (e.g.
// "28-0316a2794bff"). An empty ID auto-discovers the first DS18B20 on
// the bus.
func NewDS18B20(deviceID string) (*DS18B20, error) {
	if deviceID == "" {
		matches, err := filepath.Glob(filepath.Join(W1Dir, "28-*"))
		if err != nil || len(matches) == 0 {
			return nil, fmt.Errorf("no DS18B20 found under %s (is w1-gpio loaded?)", W1Dir)
		}
		return &DS18B20{path: filepath.Join(matches[0], "w1_slave")}, nil
	}
	path := filepath.Join(W1Dir, deviceID, "w1_slave")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open probe %s: %w", deviceID, err)
	}
	return &DS18B20{path: path}, nil
}

// Read returns the probe temperature in degrees Celsius.
func (d *DS18B20) Read() (float64, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return 0, fmt.Errorf("read probe: %w", err)
	}
	return parseW1(string(raw))
}

// Close releases sensor resources. The sysfs driver holds no state.
func (d *DS18B20) Close() error {
	return nil
}

// parseW1 parses the two-line w1_slave format:
//
//	4b 01 4b 46 7f ff 05 10 d8 : crc=d8 YES
//	4b 01 4b 46 7f ff 05 10 d8 t=20687
//
// The first line carries the CRC verdict, the second the temperature in
// millidegrees.
func parseW1(raw string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("short w1_slave output: %q", raw)
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, fmt.Errorf("probe CRC check failed: %q", lines[0])
	}
	idx := strings.LastIndex(lines[1], "t=")
	if idx < 0 {
		return 0, fmt.Errorf("no temperature in w1_slave output: %q", lines[1])
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][idx+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}
	return float64(milli) / 1000.0, nil
}
