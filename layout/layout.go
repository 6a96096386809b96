// Package layout describes how a pixelstrip.Strip is wired and carved up,
// loaded from a TOML file.
//
// A layout file looks like:
//
//	instance = 0
//	leds = 30          # physical LEDs
//	virtual = 2        # extra virtual slots appended after them
//	virtual_slots = [30, 31]
//	swaps = [[0, 2]]
//
//	[[remap]]
//	logical = 3
//	physical = 5
//
//	[[subset]]
//	name = "left"
//	first = 0
//	last = 9
//	flip = false
//
// Apply resets the index map, then applies remaps, swaps, virtual slots and
// subsets, in that order.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/flavioheleno/pixelstrip"
	"github.com/pelletier/go-toml/v2"
)

// Layout is the decoded form of a layout file.
type Layout struct {
	Instance     uint8    `toml:"instance"`
	LEDs         int      `toml:"leds"`
	Virtual      int      `toml:"virtual"`
	VirtualSlots []int    `toml:"virtual_slots"`
	Swaps        [][2]int `toml:"swaps"`
	Remaps       []Remap  `toml:"remap"`
	Subsets      []Subset `toml:"subset"`
}

// Remap points a logical LED at a physical slot.
type Remap struct {
	Logical  int `toml:"logical"`
	Physical int `toml:"physical"`
}

// Subset names a range of logical LEDs.
type Subset struct {
	Name  string `toml:"name"`
	First int    `toml:"first"`
	Last  int    `toml:"last"`
	Flip  bool   `toml:"flip"`
}

// Parse decodes a layout from TOML. Unknown keys are rejected.
func Parse(data []byte) (*Layout, error) {
	l := &Layout{}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(l); err != nil {
		return nil, fmt.Errorf("layout: failed to parse TOML: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Load reads and decodes the layout file at path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return Parse(data)
}

// Validate checks the parts of the layout that do not need a strip.
// Index ranges are checked by the strip itself in Apply.
func (l *Layout) Validate() error {
	if l.LEDs < 0 || l.Virtual < 0 {
		return errors.New("layout: leds and virtual must not be negative")
	}
	if l.LEDs+l.Virtual == 0 {
		return errors.New("layout: strip must have at least one slot")
	}
	seen := make(map[string]bool, len(l.Subsets))
	for _, ss := range l.Subsets {
		if ss.Name == "" {
			return errors.New("layout: subset name must not be empty")
		}
		if seen[ss.Name] {
			return fmt.Errorf("layout: duplicate subset %q", ss.Name)
		}
		seen[ss.Name] = true
	}
	return nil
}

// Opts returns the strip options the layout describes.
// Virtual slots are marked by Apply, not here.
func (l *Layout) Opts() *pixelstrip.Opts {
	return &pixelstrip.Opts{
		NumPixels:  l.LEDs,
		NumVirtual: l.Virtual,
		Instance:   pixelstrip.Instance(l.Instance),
	}
}

// Apply configures s according to the layout and returns its subsets by name.
// On error s is left as it was.
func (l *Layout) Apply(s *pixelstrip.Strip) (map[string]*pixelstrip.Subset, error) {
	if want := l.LEDs + l.Virtual; s.Len() != want {
		return nil, fmt.Errorf("layout: strip has %d slots, layout needs %d", s.Len(), want)
	}

	// Check everything first so a bad layout leaves s untouched.
	if err := l.checkIndices(s.Len()); err != nil {
		return nil, err
	}

	s.ResetMap()
	for _, r := range l.Remaps {
		if err := s.Remap(r.Logical, r.Physical); err != nil {
			return nil, fmt.Errorf("layout: remap %d->%d: %w", r.Logical, r.Physical, err)
		}
	}
	for _, sw := range l.Swaps {
		if err := s.Swap(sw[0], sw[1]); err != nil {
			return nil, fmt.Errorf("layout: swap %d<->%d: %w", sw[0], sw[1], err)
		}
	}
	if err := s.SetVirtualLEDs(l.VirtualSlots...); err != nil {
		return nil, fmt.Errorf("layout: virtual slots: %w", err)
	}

	subsets := make(map[string]*pixelstrip.Subset, len(l.Subsets))
	for _, def := range l.Subsets {
		ss, err := pixelstrip.NewSubset(s, def.First, def.Last)
		if err != nil {
			return nil, fmt.Errorf("layout: subset %q: %w", def.Name, err)
		}
		if def.Flip {
			if err := ss.Flip(); err != nil {
				return nil, fmt.Errorf("layout: subset %q: %w", def.Name, err)
			}
		}
		subsets[def.Name] = ss
	}
	return subsets, nil
}

// checkIndices reports the first index in the layout outside [0,n).
func (l *Layout) checkIndices(n int) error {
	in := func(i int) bool { return i >= 0 && i < n }
	for _, r := range l.Remaps {
		if !in(r.Logical) || !in(r.Physical) {
			return fmt.Errorf("layout: remap %d->%d: %w", r.Logical, r.Physical, pixelstrip.ErrInvalidIndex)
		}
	}
	for _, sw := range l.Swaps {
		if !in(sw[0]) || !in(sw[1]) {
			return fmt.Errorf("layout: swap %d<->%d: %w", sw[0], sw[1], pixelstrip.ErrInvalidIndex)
		}
	}
	for _, v := range l.VirtualSlots {
		if !in(v) {
			return fmt.Errorf("layout: virtual slots: %w: %d", pixelstrip.ErrInvalidIndex, v)
		}
	}
	for _, def := range l.Subsets {
		if !in(def.First) || !in(def.Last) {
			return fmt.Errorf("layout: subset %q: %w: [%d,%d] on %d LEDs", def.Name, pixelstrip.ErrInvalidRange, def.First, def.Last, n)
		}
	}
	return nil
}

// Build creates a strip on t and applies the layout to it.
func (l *Layout) Build(t pixelstrip.Transport) (*pixelstrip.Strip, map[string]*pixelstrip.Subset, error) {
	s, err := pixelstrip.New(t, l.Opts())
	if err != nil {
		return nil, nil, err
	}
	subsets, err := l.Apply(s)
	if err != nil {
		return nil, nil, err
	}
	return s, subsets, nil
}
