//go:build fakestub

package weather

// FakeStation is a fake Station.
type FakeStation struct {
	Station
}

// FakeSensor is a fake Sensor.
type FakeSensor struct {
	Sensor
}

// FakeEventLogger is a fake EventLogger.
type FakeEventLogger struct {
	EventLogger
}
