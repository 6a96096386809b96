package pixelstrip

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// TinyGo is a Transport over TinyGo SPI buses, one bus per Instance.
//
// The buses must already be configured by the board code (machine.SPI0.Configure
// and friends); Init only checks that a bus exists for the instance.
type TinyGo struct {
	buses map[Instance]drivers.SPI
}

// NewTinyGo creates a TinyGo transport for the given buses.
func NewTinyGo(buses map[Instance]drivers.SPI) *TinyGo {
	t := &TinyGo{buses: make(map[Instance]drivers.SPI, len(buses))}
	for inst, b := range buses {
		t.buses[inst] = b
	}
	return t
}

// Init checks that inst has a bus.
func (t *TinyGo) Init(inst Instance) error {
	_, err := t.bus(inst)
	return err
}

// InitActions blanks the strip.
func (t *TinyGo) InitActions(s *Strip) error {
	return s.TurnOff()
}

// Transfer sends a single byte.
func (t *TinyGo) Transfer(inst Instance, b byte) error {
	bus, err := t.bus(inst)
	if err != nil {
		return err
	}
	_, err = bus.Transfer(b)
	return err
}

// WriteFrame sends frame in one transaction.
func (t *TinyGo) WriteFrame(inst Instance, frame []byte) error {
	bus, err := t.bus(inst)
	if err != nil {
		return err
	}
	return bus.Tx(frame, nil)
}

// Delay sleeps for d.
func (t *TinyGo) Delay(d time.Duration) {
	time.Sleep(d)
}

func (t *TinyGo) bus(inst Instance) (drivers.SPI, error) {
	b, ok := t.buses[inst]
	if !ok || b == nil {
		return nil, fmt.Errorf("%w %d", ErrUnknownInstance, inst)
	}
	return b, nil
}

var (
	_ Transport   = &TinyGo{}
	_ FrameWriter = &TinyGo{}
)
