package haptic

import (
	"bytes"
	"testing"

	"github.com/waypath-data/waypath/internal/vision"
)

type closableBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closableBuffer) Close() error {
	b.closed = true
	return nil
}

func TestSerialActuatorWritesCommands(t *testing.T) {
	buf := &closableBuffer{}
	a := NewSerialActuator(buf)

	if err := a.Pulse(vision.IntensityLight); err != nil {
		t.Fatalf("Pulse failed: %v", err)
	}
	if err := a.Pulse(vision.IntensityStrong); err != nil {
		t.Fatalf("Pulse failed: %v", err)
	}

	want := "PULSE light\nPULSE strong\n"
	if got := buf.String(); got != want {
		t.Errorf("wire output = %q, want %q", got, want)
	}
}

func TestSerialActuatorIgnoresNone(t *testing.T) {
	buf := &closableBuffer{}
	a := NewSerialActuator(buf)

	if err := a.Pulse(vision.IntensityNone); err != nil {
		t.Fatalf("Pulse failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("IntensityNone wrote %q to the wire", buf.String())
	}
}

func TestSerialActuatorClose(t *testing.T) {
	buf := &closableBuffer{}
	a := NewSerialActuator(buf)
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !buf.closed {
		t.Error("Close did not close the port")
	}
}

func TestMockActuatorRecordsPulses(t *testing.T) {
	m := NewMockActuator()
	m.Pulse(vision.IntensityStrong)
	m.Pulse(vision.IntensityNone)
	m.Pulse(vision.IntensityLight)

	pulses := m.Pulses()
	if len(pulses) != 2 {
		t.Fatalf("recorded %d pulses, want 2", len(pulses))
	}
	if pulses[0] != vision.IntensityStrong || pulses[1] != vision.IntensityLight {
		t.Errorf("pulses = %v", pulses)
	}
}

func TestDefaultPortOptions(t *testing.T) {
	mode := DefaultPortOptions().SerialMode()
	if mode.BaudRate != 115200 {
		t.Errorf("baud = %d, want 115200", mode.BaudRate)
	}
	if mode.DataBits != 8 {
		t.Errorf("data bits = %d, want 8", mode.DataBits)
	}
}
