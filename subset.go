package pixelstrip

import (
	"errors"
	"fmt"
)

var errNoStrip = errors.New("pixelstrip: subset has no strip")

// Subset addresses a contiguous range of a Strip's logical LEDs as a strip of
// its own. It shares the owner's buffer and must not outlive it.
//
// Bulk writes (SetColor, SetColorBrightness, SetBrightness) update every
// element first and flush the owner once.
type Subset struct {
	strip *Strip
	index []int // Subset position -> owner logical index
	err   error
}

// Bind returns a Subset of s with no range. Call SetSubset before using it.
func Bind(s *Strip) *Subset {
	ss := &Subset{strip: s}
	if s == nil {
		ss.err = errNoStrip
	}
	return ss
}

// NewSubset returns a Subset of s covering logical LEDs first to last, both
// included. first may be greater than last, in which case the subset walks
// the owner downwards from first.
func NewSubset(s *Strip, first, last int) (*Subset, error) {
	ss := Bind(s)
	if err := ss.SetSubset(first, last); err != nil {
		return nil, err
	}
	return ss, nil
}

// SetSubset replaces the range of the subset. On failure the subset is left
// empty and every later operation returns the error until a valid range is
// set.
func (ss *Subset) SetSubset(first, last int) error {
	if ss.strip == nil {
		ss.err = errNoStrip
		return ss.err
	}
	n := ss.strip.Len()
	if first < 0 || first >= n || last < 0 || last >= n {
		ss.index = ss.index[:0]
		ss.err = fmt.Errorf("%w: [%d,%d] on %d LEDs", ErrInvalidRange, first, last, n)
		return ss.err
	}

	step := 1
	if first > last {
		step = -1
	}
	ss.index = ss.index[:0]
	for i := first; ; i += step {
		ss.index = append(ss.index, i)
		if i == last {
			break
		}
	}
	ss.err = nil
	return nil
}

// Err returns the error of the last SetSubset, if any.
func (ss *Subset) Err() error {
	return ss.err
}

// Strip returns the owner.
func (ss *Subset) Strip() *Strip {
	return ss.strip
}

// Len returns the number of LEDs in the subset.
func (ss *Subset) Len() int {
	return len(ss.index)
}

// Indices returns the owner logical indices in subset order.
func (ss *Subset) Indices() []int {
	return append([]int(nil), ss.index...)
}

// Flip reverses the order of the subset.
func (ss *Subset) Flip() error {
	if ss.err != nil {
		return ss.err
	}
	for i, j := 0, len(ss.index)-1; i < j; i, j = i+1, j-1 {
		ss.index[i], ss.index[j] = ss.index[j], ss.index[i]
	}
	return nil
}

// SetColor sets the colour of every LED in the subset and flushes once.
func (ss *Subset) SetColor(r, g, b byte) error {
	// Nothing written, nothing sent.
	if ss.err != nil || len(ss.index) == 0 {
		return ss.err
	}
	for _, i := range ss.index {
		p, err := ss.strip.Physical(i)
		if err != nil {
			return err
		}
		ss.strip.setColor(p, r, g, b)
	}
	return ss.strip.Flush()
}

// SetColorBrightness sets the colour and brightness of every LED in the
// subset and flushes once.
func (ss *Subset) SetColorBrightness(r, g, b, brightness byte) error {
	if ss.err != nil || len(ss.index) == 0 {
		return ss.err
	}
	for _, i := range ss.index {
		if err := ss.strip.BufferLED(i, r, g, b, brightness); err != nil {
			return err
		}
	}
	return ss.strip.Flush()
}

// SetBrightness sets the brightness of every LED in the subset and flushes
// once.
func (ss *Subset) SetBrightness(brightness byte) error {
	if ss.err != nil || len(ss.index) == 0 {
		return ss.err
	}
	for _, i := range ss.index {
		p, err := ss.strip.Physical(i)
		if err != nil {
			return err
		}
		ss.strip.bright[p] = brightness
	}
	return ss.strip.Flush()
}

// SetLED sets the colour of the n-th LED of the subset and flushes.
func (ss *Subset) SetLED(n int, r, g, b byte) error {
	i, err := ss.logical(n)
	if err != nil {
		return err
	}
	return ss.strip.SetLED(i, r, g, b)
}

// SetLEDWithBrightness sets the colour and brightness of the n-th LED of the
// subset and flushes.
func (ss *Subset) SetLEDWithBrightness(n int, r, g, b, brightness byte) error {
	i, err := ss.logical(n)
	if err != nil {
		return err
	}
	return ss.strip.SetLEDWithBrightness(i, r, g, b, brightness)
}

// SetLEDBrightness sets the brightness of the n-th LED of the subset and
// flushes.
func (ss *Subset) SetLEDBrightness(n int, brightness byte) error {
	i, err := ss.logical(n)
	if err != nil {
		return err
	}
	return ss.strip.SetLEDBrightness(i, brightness)
}

// BufferLED sets the colour and brightness of the n-th LED of the subset
// without flushing.
func (ss *Subset) BufferLED(n int, r, g, b, brightness byte) error {
	i, err := ss.logical(n)
	if err != nil {
		return err
	}
	return ss.strip.BufferLED(i, r, g, b, brightness)
}

// logical resolves subset position n to an owner logical index.
func (ss *Subset) logical(n int) (int, error) {
	if ss.err != nil {
		return 0, ss.err
	}
	if n < 0 || n >= len(ss.index) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, n, len(ss.index))
	}
	return ss.index[n], nil
}
