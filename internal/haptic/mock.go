package haptic

import (
	"sync"

	"github.com/waypath-data/waypath/internal/vision"
)

// NopActuator discards all pulses. Used when no actuator hardware is
// configured.
type NopActuator struct{}

func (NopActuator) Pulse(vision.Intensity) error { return nil }
func (NopActuator) Close() error                 { return nil }

// MockActuator records pulses for tests.
type MockActuator struct {
	mu     sync.Mutex
	pulses []vision.Intensity
}

// NewMockActuator creates an empty mock.
func NewMockActuator() *MockActuator {
	return &MockActuator{}
}

// Pulse records the intensity. IntensityNone is ignored, matching the real
// actuator.
func (m *MockActuator) Pulse(intensity vision.Intensity) error {
	if intensity == vision.IntensityNone {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pulses = append(m.pulses, intensity)
	return nil
}

// Close does nothing.
func (m *MockActuator) Close() error { return nil }

// Pulses returns a copy of the recorded pulses.
func (m *MockActuator) Pulses() []vision.Intensity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]vision.Intensity, len(m.pulses))
	copy(out, m.pulses)
	return out
}
