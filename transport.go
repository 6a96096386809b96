package pixelstrip

import "time"

// Transport moves bytes from a Strip to the LEDs.
//
// Implementations are platform specific. A single Transport may serve several
// strips, each on its own bus, distinguished by Instance.
type Transport interface {
	// Init configures the bus for inst.
	Init(inst Instance) error
	// InitActions runs the strip specific sequence that follows bus
	// initialisation, such as a self-test or clearing the LEDs.
	InitActions(s *Strip) error
	// Transfer sends one byte on the bus for inst and blocks until it is out.
	Transfer(inst Instance, b byte) error
	// Delay blocks for d.
	Delay(d time.Duration)
}

// FrameWriter is implemented by transports that can send a whole frame in one
// bus transaction. Strip uses it instead of Transfer when available.
type FrameWriter interface {
	WriteFrame(inst Instance, frame []byte) error
}
