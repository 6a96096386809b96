package pixelstrip

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPIOpts is the configuration for the SPI transport.
type SPIOpts struct {
	Freq physic.Frequency // Clock speed (default: 6MHz)
	Mode spi.Mode         // SPI mode (default: Mode0)

	// SelfTest flashes red, green then blue on Init, SelfTestDelay apart,
	// before blanking the strip.
	SelfTest      bool
	SelfTestDelay time.Duration // default: 200ms
}

// SPI is a Transport over periph.io SPI ports, one port per Instance.
type SPI struct {
	opts  SPIOpts
	ports map[Instance]spi.Port
	conns map[Instance]spi.Conn
}

// NewSPI creates an SPI transport for the given ports.
//
// opts can be nil to use defaults.
func NewSPI(ports map[Instance]spi.Port, opts *SPIOpts) (*SPI, error) {
	if len(ports) == 0 {
		return nil, errors.New("pixelstrip: at least one SPI port is required")
	}
	o := SPIOpts{}
	if opts != nil {
		o = *opts
	}
	if o.Freq == 0 {
		// APA102 clocks up to ~20MHz; long strips need margin
		o.Freq = 6 * physic.MegaHertz
	}
	if o.Freq < 0 {
		return nil, errors.New("pixelstrip: SPI frequency must be positive")
	}
	if o.SelfTestDelay == 0 {
		o.SelfTestDelay = 200 * time.Millisecond
	}

	t := &SPI{
		opts:  o,
		ports: make(map[Instance]spi.Port, len(ports)),
		conns: make(map[Instance]spi.Conn, len(ports)),
	}
	for inst, p := range ports {
		if p == nil {
			return nil, fmt.Errorf("pixelstrip: nil SPI port for instance %d", inst)
		}
		t.ports[inst] = p
	}
	return t, nil
}

// Init connects to the port of inst. Connecting twice is a no-op.
func (t *SPI) Init(inst Instance) error {
	if _, ok := t.conns[inst]; ok {
		return nil
	}
	p, ok := t.ports[inst]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownInstance, inst)
	}
	c, err := p.Connect(t.opts.Freq, t.opts.Mode, 8)
	if err != nil {
		return err
	}
	t.conns[inst] = c
	return nil
}

// InitActions blanks the strip, after the self-test when enabled.
func (t *SPI) InitActions(s *Strip) error {
	if t.opts.SelfTest {
		for _, c := range [][3]byte{{0xFF, 0, 0}, {0, 0xFF, 0}, {0, 0, 0xFF}} {
			if err := s.SetStripColorBrightness(c[0], c[1], c[2], brightnessMask); err != nil {
				return err
			}
			t.Delay(t.opts.SelfTestDelay)
		}
	}
	return s.TurnOff()
}

// Transfer sends a single byte.
func (t *SPI) Transfer(inst Instance, b byte) error {
	c, err := t.conn(inst)
	if err != nil {
		return err
	}
	return c.Tx([]byte{b}, nil)
}

// WriteFrame sends frame in as few transactions as the port allows.
func (t *SPI) WriteFrame(inst Instance, frame []byte) error {
	c, err := t.conn(inst)
	if err != nil {
		return err
	}
	chunk := len(frame)
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		chunk = l.MaxTxSize()
	}
	for len(frame) > 0 {
		n := len(frame)
		if n > chunk {
			n = chunk
		}
		if err := c.Tx(frame[:n], nil); err != nil {
			return err
		}
		frame = frame[n:]
	}
	return nil
}

// Delay sleeps for d.
func (t *SPI) Delay(d time.Duration) {
	time.Sleep(d)
}

// String returns a string representation of the transport.
func (t *SPI) String() string {
	return fmt.Sprintf("pixelstrip.SPI{%d ports, %s}", len(t.ports), t.opts.Freq)
}

func (t *SPI) conn(inst Instance) (spi.Conn, error) {
	c, ok := t.conns[inst]
	if !ok {
		if _, known := t.ports[inst]; known {
			return nil, fmt.Errorf("pixelstrip: instance %d not initialized", inst)
		}
		return nil, fmt.Errorf("%w %d", ErrUnknownInstance, inst)
	}
	return c, nil
}

var (
	_ Transport   = &SPI{}
	_ FrameWriter = &SPI{}
)
