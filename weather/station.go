// Package weather is a small domain for exercising fakes: a weather station,
// the sensor it samples and a monitor that reports and raises alerts.
package weather

import "fmt"

// Station answers questions about the weather.
type Station interface {
	Temperature(location string) int
	Humidity(location string) int
	Report(condition string, value int) string
	Forecast(day string) string
	Calibrate(sensor string) bool
	LogEvent(event string, data map[string]any)
}

// Sensor produces raw readings.
type Sensor interface {
	Read() int
}

// EventLogger records notable events.
type EventLogger interface {
	LogEvent(event string, data map[string]any)
}

var temperatures = map[string]int{
	"NYC": 72,
	"LA":  78,
	"SF":  61,
}

// WeatherStation is a Station answering from fixed tables.
type WeatherStation struct{}

var _ Station = WeatherStation{}

func (WeatherStation) Temperature(location string) int {
	if t, ok := temperatures[location]; ok {
		return t
	}
	return 70
}

func (WeatherStation) Humidity(location string) int {
	return 40 + len(location)
}

func (WeatherStation) Report(condition string, value int) string {
	return fmt.Sprintf("%s: %d", condition, value)
}

func (WeatherStation) Forecast(day string) string {
	if day == "today" {
		return "sunny"
	}
	return "unknown"
}

func (WeatherStation) Calibrate(sensor string) bool {
	return sensor != ""
}

func (WeatherStation) LogEvent(string, map[string]any) {}
