package pixelstrip

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/flavioheleno/pixelstrip/ledimage"
	"periph.io/x/conn/v3/display"
)

// Instance identifies the bus and strip a Strip drives.
type Instance uint8

// Wire format constants.
const (
	frameLen       = 4    // Bytes in the start and stop frames
	ledLen         = 4    // Bytes per transmitted LED
	ledHeader      = 0xE0 // Top 3 bits of every LED's first byte
	brightnessMask = 0x1F // 5-bit global brightness
)

var (
	startFrame = [frameLen]byte{0x00, 0x00, 0x00, 0x00}
	stopFrame  = [frameLen]byte{0xFF, 0xFF, 0xFF, 0xFF}
)

// Errors
var (
	ErrInvalidIndex    = errors.New("pixelstrip: invalid index")
	ErrInvalidRange    = errors.New("pixelstrip: invalid subset range")
	ErrNoTransport     = errors.New("pixelstrip: no transport")
	ErrUnknownInstance = errors.New("pixelstrip: unknown instance")
)

// Opts is the configuration for a Strip.
type Opts struct {
	NumPixels  int      // LEDs physically present
	NumVirtual int      // Extra slots with no LED behind them
	Instance   Instance // Bus identifier passed to the Transport

	// VirtualSlots lists the physical slots to mark virtual at construction.
	// Reserving NumVirtual slots does not mark anything by itself.
	VirtualSlots []int
}

// Strip is the handle for one APA102/SK9822 strip.
//
// Colour, brightness and the virtual marker are stored per physical slot.
// Methods taking a logical index resolve it through the index map first.
//
// The zero value is an empty strip with no transport: every indexed operation
// fails with ErrInvalidIndex and every transmission with ErrNoTransport.
type Strip struct {
	t        Transport
	instance Instance
	length   int

	// Per physical slot
	red, green, blue []byte
	bright           []byte
	virtual          []bool

	// Logical index -> physical slot
	index []int

	// Reused encode buffer
	frame []byte
}

// New creates a Strip that transmits through t.
//
// The strip holds opts.NumPixels+opts.NumVirtual slots. All slots start black
// at brightness 0, none are virtual except opts.VirtualSlots, and the index map
// is the identity.
func New(t Transport, opts *Opts) (*Strip, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	if opts == nil {
		return nil, errors.New("pixelstrip: options required")
	}
	if opts.NumPixels < 0 || opts.NumVirtual < 0 {
		return nil, errors.New("pixelstrip: pixel counts must not be negative")
	}
	n := opts.NumPixels + opts.NumVirtual
	if n == 0 {
		return nil, errors.New("pixelstrip: strip must have at least one slot")
	}

	s := &Strip{
		t:        t,
		instance: opts.Instance,
		length:   n,
		red:      make([]byte, n),
		green:    make([]byte, n),
		blue:     make([]byte, n),
		bright:   make([]byte, n),
		virtual:  make([]bool, n),
		index:    make([]int, n),
		frame:    make([]byte, 0, 2*frameLen+ledLen*n),
	}
	s.ResetMap()

	if err := s.SetVirtualLEDs(opts.VirtualSlots...); err != nil {
		return nil, err
	}
	return s, nil
}

// Init initializes the bus, then runs the transport's init actions.
// The first failure aborts; nothing is retried.
func (s *Strip) Init() error {
	if s.t == nil {
		return ErrNoTransport
	}
	if err := s.t.Init(s.instance); err != nil {
		return fmt.Errorf("pixelstrip: bus init: %w", err)
	}
	if err := s.t.InitActions(s); err != nil {
		return fmt.Errorf("pixelstrip: init actions: %w", err)
	}
	return nil
}

// Len returns the number of slots, virtual ones included.
func (s *Strip) Len() int {
	return s.length
}

// Instance returns the bus identifier of the strip.
func (s *Strip) Instance() Instance {
	return s.instance
}

// SendStartFrame sends the 4 zero bytes that open a frame.
func (s *Strip) SendStartFrame() error {
	return s.send(startFrame[:])
}

// SendStopFrame sends the 4 0xFF bytes that close a frame.
func (s *Strip) SendStopFrame() error {
	return s.send(stopFrame[:])
}

// Flush sends the whole buffer to the strip.
//
// Slots are sent in physical order, virtual ones skipped. Each LED is sent as
// brightness|0xE0, blue, green, red.
func (s *Strip) Flush() error {
	if s.t == nil {
		return ErrNoTransport
	}
	return s.send(s.encode())
}

// Frame returns a copy of the bytes Flush would send.
func (s *Strip) Frame() []byte {
	return append([]byte(nil), s.encode()...)
}

// encode serializes the buffer into s.frame.
func (s *Strip) encode() []byte {
	f := append(s.frame[:0], startFrame[:]...)
	for i := 0; i < s.length; i++ {
		if s.virtual[i] {
			continue
		}
		f = append(f, s.bright[i]&brightnessMask|ledHeader, s.blue[i], s.green[i], s.red[i])
	}
	f = append(f, stopFrame[:]...)
	s.frame = f
	return f
}

// send hands b to the transport, in one go when it supports it.
func (s *Strip) send(b []byte) error {
	if s.t == nil {
		return ErrNoTransport
	}
	if w, ok := s.t.(FrameWriter); ok {
		return w.WriteFrame(s.instance, b)
	}
	for _, c := range b {
		if err := s.t.Transfer(s.instance, c); err != nil {
			return err
		}
	}
	return nil
}

// SetStripBrightness sets the brightness of every slot and flushes.
func (s *Strip) SetStripBrightness(brightness byte) error {
	for i := range s.bright {
		s.bright[i] = brightness
	}
	return s.Flush()
}

// SetStripColor sets the colour of every slot and flushes.
// Brightness is left unchanged.
func (s *Strip) SetStripColor(r, g, b byte) error {
	for i := 0; i < s.length; i++ {
		s.setColor(i, r, g, b)
	}
	return s.Flush()
}

// SetStripColorBrightness sets the colour and brightness of every slot and
// flushes.
func (s *Strip) SetStripColorBrightness(r, g, b, brightness byte) error {
	for i := 0; i < s.length; i++ {
		s.setColor(i, r, g, b)
		s.bright[i] = brightness
	}
	return s.Flush()
}

// TurnOff blanks every slot and flushes.
func (s *Strip) TurnOff() error {
	return s.SetStripColorBrightness(0, 0, 0, 0)
}

// SetLED sets the colour of logical LED i and flushes.
// Nothing is written or sent when i is out of range.
func (s *Strip) SetLED(i int, r, g, b byte) error {
	p, err := s.Physical(i)
	if err != nil {
		return err
	}
	s.setColor(p, r, g, b)
	return s.Flush()
}

// SetLEDWithBrightness sets the colour and brightness of logical LED i and
// flushes.
func (s *Strip) SetLEDWithBrightness(i int, r, g, b, brightness byte) error {
	if err := s.BufferLED(i, r, g, b, brightness); err != nil {
		return err
	}
	return s.Flush()
}

// BufferLED sets the colour and brightness of logical LED i without sending
// anything. Call Flush once the batch is complete.
func (s *Strip) BufferLED(i int, r, g, b, brightness byte) error {
	p, err := s.Physical(i)
	if err != nil {
		return err
	}
	s.setColor(p, r, g, b)
	s.bright[p] = brightness
	return nil
}

// SetLEDBrightness sets the brightness of logical LED i and flushes.
func (s *Strip) SetLEDBrightness(i int, brightness byte) error {
	p, err := s.Physical(i)
	if err != nil {
		return err
	}
	s.bright[p] = brightness
	return s.Flush()
}

func (s *Strip) setColor(p int, r, g, b byte) {
	s.red[p] = r
	s.green[p] = g
	s.blue[p] = b
}

// LED returns the buffered state of logical LED i.
func (s *Strip) LED(i int) (ledimage.LED, error) {
	p, err := s.Physical(i)
	if err != nil {
		return ledimage.LED{}, err
	}
	return s.slot(p), nil
}

// Slot returns the buffered state of physical slot p.
func (s *Strip) Slot(p int) (ledimage.LED, error) {
	if err := s.check(p); err != nil {
		return ledimage.LED{}, err
	}
	return s.slot(p), nil
}

func (s *Strip) slot(p int) ledimage.LED {
	return ledimage.LED{R: s.red[p], G: s.green[p], B: s.blue[p], Brightness: s.bright[p]}
}

// Physical returns the physical slot logical LED i maps to.
func (s *Strip) Physical(i int) (int, error) {
	if err := s.check(i); err != nil {
		return 0, err
	}
	return s.index[i], nil
}

// Map returns a copy of the index map.
func (s *Strip) Map() []int {
	return append([]int(nil), s.index...)
}

// ResetMap restores the identity index map.
func (s *Strip) ResetMap() {
	for i := range s.index {
		s.index[i] = i
	}
}

// Remap makes logical LED logical address physical slot physical.
//
// Several logical LEDs may share a physical slot; keeping the map sane is up
// to the caller.
func (s *Strip) Remap(logical, physical int) error {
	if err := s.check(logical); err != nil {
		return err
	}
	if err := s.check(physical); err != nil {
		return err
	}
	s.index[logical] = physical
	return nil
}

// Swap exchanges the physical slots of logical LEDs a and b.
func (s *Strip) Swap(a, b int) error {
	if err := s.check(a); err != nil {
		return err
	}
	if err := s.check(b); err != nil {
		return err
	}
	s.index[a], s.index[b] = s.index[b], s.index[a]
	return nil
}

// SetVirtual marks physical slot p as virtual. Virtual slots keep their
// buffered values but are never transmitted.
func (s *Strip) SetVirtual(p int) error {
	if err := s.check(p); err != nil {
		return err
	}
	s.virtual[p] = true
	return nil
}

// SetVirtualLEDs marks each slot virtual in turn. It stops at the first slot
// out of range; slots before it stay marked.
func (s *Strip) SetVirtualLEDs(slots ...int) error {
	for _, p := range slots {
		if err := s.SetVirtual(p); err != nil {
			return err
		}
	}
	return nil
}

// IsVirtual reports whether physical slot p is virtual.
func (s *Strip) IsVirtual(p int) bool {
	return s.check(p) == nil && s.virtual[p]
}

func (s *Strip) check(i int) error {
	if i < 0 || i >= s.length {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, i, s.length)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Strip) ColorModel() color.Model {
	return ledimage.LEDModel
}

// Bounds implements display.Drawer. The strip is one pixel high; X is the
// logical LED index.
func (s *Strip) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.length, 1)
}

// Draw implements display.Drawer.
//
// Pixels of dst are written to the logical LEDs at the same X, then the strip
// is flushed once. LED colours from the source keep their brightness; any
// other colour only replaces R, G and B.
func (s *Strip) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	orig := dst
	dst = dst.Intersect(s.Bounds())
	if dst.Empty() {
		return nil
	}
	// Keep sp aligned with whatever was clipped off dst.
	sp = sp.Add(dst.Min.Sub(orig.Min))

	// Fast path: no color.Color boxing
	if row, ok := src.(*ledimage.Row); ok {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			c := row.LEDAt(sp.X+x-dst.Min.X, sp.Y)
			p := s.index[x]
			s.setColor(p, c.R, c.G, c.B)
			s.bright[p] = c.Brightness
		}
		return s.Flush()
	}

	for x := dst.Min.X; x < dst.Max.X; x++ {
		p := s.index[x]
		switch c := src.At(sp.X+x-dst.Min.X, sp.Y).(type) {
		case ledimage.LED:
			s.setColor(p, c.R, c.G, c.B)
			s.bright[p] = c.Brightness
		default:
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			s.setColor(p, n.R, n.G, n.B)
		}
	}
	return s.Flush()
}

// Halt implements conn.Resource. It turns every LED off.
func (s *Strip) Halt() error {
	return s.TurnOff()
}

// String returns a string representation of the strip.
func (s *Strip) String() string {
	return fmt.Sprintf("pixelstrip.Strip{%d, instance %d}", s.length, s.instance)
}

var _ display.Drawer = &Strip{}
