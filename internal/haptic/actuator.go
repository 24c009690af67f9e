// Package haptic drives the vibration actuator that delivers obstacle
// warnings. The engine decides when and how strongly to fire; this package
// only turns a fired intensity into bytes on a wire.
package haptic

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/waypath-data/waypath/internal/monitoring"
	"github.com/waypath-data/waypath/internal/vision"
)

// Actuator delivers a haptic pulse at the given intensity. Implementations
// must tolerate IntensityNone by doing nothing.
type Actuator interface {
	Pulse(intensity vision.Intensity) error
	Close() error
}

// PortOptions configures the serial link to the actuator board.
type PortOptions struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

// DefaultPortOptions returns the mode the stock actuator firmware expects.
func DefaultPortOptions() PortOptions {
	return PortOptions{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// SerialMode converts the options to a go.bug.st/serial mode.
func (o PortOptions) SerialMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: o.DataBits,
		Parity:   o.Parity,
		StopBits: o.StopBits,
	}
}

// SerialActuator writes pulse commands to an actuator board over a serial
// port. The wire protocol is one ASCII line per pulse: "PULSE <intensity>\n".
type SerialActuator struct {
	mu   sync.Mutex
	port io.WriteCloser
}

// Open opens the serial port at path and returns an actuator over it.
func Open(path string, opts PortOptions) (*SerialActuator, error) {
	port, err := serial.Open(path, opts.SerialMode())
	if err != nil {
		return nil, fmt.Errorf("failed to open haptic port %s: %w", path, err)
	}
	monitoring.Logf("haptic: opened actuator port %s at %d baud", path, opts.BaudRate)
	return NewSerialActuator(port), nil
}

// NewSerialActuator wraps an already-open port. Split out from Open so tests
// can substitute an in-memory writer.
func NewSerialActuator(port io.WriteCloser) *SerialActuator {
	return &SerialActuator{port: port}
}

// Pulse sends one pulse command. IntensityNone is a no-op.
func (a *SerialActuator) Pulse(intensity vision.Intensity) error {
	if intensity == vision.IntensityNone {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := fmt.Fprintf(a.port, "PULSE %s\n", intensity); err != nil {
		return fmt.Errorf("failed to write pulse command: %w", err)
	}
	return nil
}

// Close closes the underlying port.
func (a *SerialActuator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.port.Close()
}
