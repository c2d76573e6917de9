package weather

import (
	"errors"
	"fmt"
)

// ErrNotCalibrated is returned by Sample when the station fails to
// calibrate the sensor.
var ErrNotCalibrated = errors.New("weather: sensor not calibrated")

// Monitor watches a location through a Station and a Sensor and logs
// readings above Threshold.
type Monitor struct {
	Station    Station
	Sensor     Sensor
	Logger     EventLogger
	SensorName string
	Threshold  int
}

// Check reports the temperature and humidity at location. A temperature
// above the threshold is logged as a heat event.
func (m *Monitor) Check(location string) string {
	temp := m.Station.Temperature(location)
	humidity := m.Station.Humidity(location)
	if temp > m.Threshold {
		m.Logger.LogEvent("heat", map[string]any{
			"location":    location,
			"temperature": temp,
		})
	}
	return fmt.Sprintf("%s, %s", m.Station.Report("temperature", temp), m.Station.Report("humidity", humidity))
}

// Sample calibrates the sensor and takes n readings.
func (m *Monitor) Sample(n int) ([]int, error) {
	if !m.Station.Calibrate(m.SensorName) {
		return nil, fmt.Errorf("%w: %q", ErrNotCalibrated, m.SensorName)
	}
	readings := make([]int, n)
	for i := range readings {
		readings[i] = m.Sensor.Read()
	}
	return readings, nil
}

// Alert logs every reading above the threshold and returns how many were
// logged. Readings more than 10 above the threshold are high severity.
func (m *Monitor) Alert(readings []int) int {
	alerts := 0
	for _, r := range readings {
		if r <= m.Threshold {
			continue
		}
		severity := "low"
		if r > m.Threshold+10 {
			severity = "high"
		}
		m.Logger.LogEvent("alert", map[string]any{
			"reading":  r,
			"severity": severity,
		})
		alerts++
	}
	return alerts
}
