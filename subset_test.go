package pixelstrip

import (
	"errors"
	"reflect"
	"testing"

	"github.com/flavioheleno/pixelstrip/ledimage"
)

func TestNewSubsetOrder(t *testing.T) {
	s, _ := newTestStrip(t, 5)
	tests := []struct {
		name        string
		first, last int
		want        []int
	}{
		{"forward", 1, 4, []int{1, 2, 3, 4}},
		{"backward", 4, 1, []int{4, 3, 2, 1}},
		{"single", 2, 2, []int{2}},
		{"whole strip", 0, 4, []int{0, 1, 2, 3, 4}},
		{"whole strip reversed", 4, 0, []int{4, 3, 2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := NewSubset(s, tt.first, tt.last)
			if err != nil {
				t.Fatalf("NewSubset(%d, %d) error = %v", tt.first, tt.last, err)
			}
			if got := ss.Indices(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Indices() = %v, want %v", got, tt.want)
			}
			if ss.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", ss.Len(), len(tt.want))
			}
			if ss.Err() != nil {
				t.Errorf("Err() = %v, want nil", ss.Err())
			}
			if ss.Strip() != s {
				t.Error("Strip() did not return the owner")
			}
		})
	}
}

func TestNewSubsetInvalidRange(t *testing.T) {
	s, _ := newTestStrip(t, 5)
	for _, r := range [][2]int{{0, 5}, {5, 0}, {-1, 2}, {2, -1}, {7, 9}} {
		ss, err := NewSubset(s, r[0], r[1])
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("NewSubset(%d, %d) error = %v, want ErrInvalidRange", r[0], r[1], err)
		}
		if ss != nil {
			t.Errorf("NewSubset(%d, %d) returned a subset", r[0], r[1])
		}
	}
}

func TestSubsetFailsFast(t *testing.T) {
	s, tr := newTestStrip(t, 5)
	ss := Bind(s)
	if err := ss.SetSubset(1, 9); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("SetSubset() error = %v, want ErrInvalidRange", err)
	}
	if !errors.Is(ss.Err(), ErrInvalidRange) {
		t.Fatalf("Err() = %v, want ErrInvalidRange", ss.Err())
	}
	if ss.Len() != 0 {
		t.Errorf("Len() = %d after failed SetSubset, want 0", ss.Len())
	}

	ops := map[string]func() error{
		"SetColor":             func() error { return ss.SetColor(1, 1, 1) },
		"SetColorBrightness":   func() error { return ss.SetColorBrightness(1, 1, 1, 1) },
		"SetBrightness":        func() error { return ss.SetBrightness(1) },
		"SetLED":               func() error { return ss.SetLED(0, 1, 1, 1) },
		"SetLEDWithBrightness": func() error { return ss.SetLEDWithBrightness(0, 1, 1, 1, 1) },
		"SetLEDBrightness":     func() error { return ss.SetLEDBrightness(0, 1) },
		"BufferLED":            func() error { return ss.BufferLED(0, 1, 1, 1, 1) },
		"Flip":                 ss.Flip,
	}
	for name, fn := range ops {
		if err := fn(); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s() error = %v, want ErrInvalidRange", name, err)
		}
	}
	if len(tr.out) != 0 {
		t.Errorf("invalid subset sent %d bytes, want none", len(tr.out))
	}

	// A valid range recovers the subset
	if err := ss.SetSubset(3, 1); err != nil {
		t.Fatalf("SetSubset(3, 1) error = %v", err)
	}
	if ss.Err() != nil {
		t.Errorf("Err() = %v after valid SetSubset, want nil", ss.Err())
	}
	if got, want := ss.Indices(), []int{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indices() = %v, want %v", got, want)
	}
}

func TestBindNil(t *testing.T) {
	ss := Bind(nil)
	if ss.Err() == nil {
		t.Fatal("Err() = nil for a subset without strip")
	}
	if err := ss.SetColor(1, 1, 1); err == nil {
		t.Error("SetColor() succeeded without strip")
	}
	if err := ss.SetSubset(0, 0); err == nil {
		t.Error("SetSubset() succeeded without strip")
	}
}

func TestBindWithoutRangeSendsNothing(t *testing.T) {
	s, tr := newTestStrip(t, 4)
	tr.reset()

	ss := Bind(s)
	if err := ss.SetColor(1, 2, 3); err != nil {
		t.Errorf("SetColor() error = %v", err)
	}
	if err := ss.SetColorBrightness(1, 2, 3, 4); err != nil {
		t.Errorf("SetColorBrightness() error = %v", err)
	}
	if err := ss.SetBrightness(5); err != nil {
		t.Errorf("SetBrightness() error = %v", err)
	}
	if len(tr.out) != 0 {
		t.Errorf("bulk writes on an empty subset sent %d bytes, want none", len(tr.out))
	}
	if !errors.Is(ss.SetLED(0, 1, 1, 1), ErrInvalidIndex) {
		t.Error("SetLED(0) on an empty subset should fail with ErrInvalidIndex")
	}
}

func TestSubsetFlip(t *testing.T) {
	s, _ := newTestStrip(t, 6)
	ss, err := NewSubset(s, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := ss.Flip(); err != nil {
		t.Fatal(err)
	}
	if got, want := ss.Indices(), []int{4, 3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indices() after Flip = %v, want %v", got, want)
	}
	if err := ss.Flip(); err != nil {
		t.Fatal(err)
	}
	if got, want := ss.Indices(), []int{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indices() after double Flip = %v, want %v", got, want)
	}

	// n-th LED follows the flipped order
	_ = ss.Flip()
	if err := ss.SetLED(0, 8, 8, 8); err != nil {
		t.Fatal(err)
	}
	if led, _ := s.LED(4); led.R != 8 {
		t.Errorf("LED(4).R = %d, want 8", led.R)
	}
}

func TestSubsetBulkWritesFlushOnce(t *testing.T) {
	tr := &frameTransport{}
	s, err := New(tr, &Opts{NumPixels: 6})
	if err != nil {
		t.Fatal(err)
	}
	ss, err := NewSubset(s, 4, 2)
	if err != nil {
		t.Fatal(err)
	}

	ops := []struct {
		name string
		fn   func() error
	}{
		{"SetColor", func() error { return ss.SetColor(1, 2, 3) }},
		{"SetBrightness", func() error { return ss.SetBrightness(7) }},
		{"SetColorBrightness", func() error { return ss.SetColorBrightness(4, 5, 6, 9) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			tr.frames = nil
			if err := op.fn(); err != nil {
				t.Fatalf("error = %v", err)
			}
			if len(tr.frames) != 1 {
				t.Errorf("flushes = %d, want 1", len(tr.frames))
			}
		})
	}

	for i := 0; i < s.Len(); i++ {
		led, _ := s.LED(i)
		want := ledimage.LED{}
		if i >= 2 && i <= 4 {
			want = ledimage.LED{R: 4, G: 5, B: 6, Brightness: 9}
		}
		if led != want {
			t.Errorf("LED(%d) = %+v, want %+v", i, led, want)
		}
	}
}

func TestSubsetSetColorKeepsBrightness(t *testing.T) {
	s, _ := newTestStrip(t, 4)
	_ = s.SetStripBrightness(3)
	ss, _ := NewSubset(s, 0, 1)
	if err := ss.SetColor(9, 8, 7); err != nil {
		t.Fatal(err)
	}
	if led, _ := s.LED(1); led != (ledimage.LED{R: 9, G: 8, B: 7, Brightness: 3}) {
		t.Errorf("LED(1) = %+v, want brightness kept", led)
	}
}

func TestSubsetFollowsOwnerMap(t *testing.T) {
	s, _ := newTestStrip(t, 4)
	_ = s.Swap(0, 3)
	ss, _ := NewSubset(s, 0, 1)
	if err := ss.SetColor(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if led, _ := s.Slot(3); led.R != 1 {
		t.Errorf("Slot(3).R = %d, want 1 (logical 0 is wired to slot 3)", led.R)
	}
	if led, _ := s.Slot(0); led.R != 0 {
		t.Errorf("Slot(0).R = %d, want 0", led.R)
	}
}

func TestSubsetNthLED(t *testing.T) {
	s, tr := newTestStrip(t, 6)
	ss, _ := NewSubset(s, 5, 3)

	if err := ss.SetLEDWithBrightness(1, 1, 2, 3, 4); err != nil {
		t.Fatal(err)
	}
	if led, _ := s.LED(4); led != (ledimage.LED{R: 1, G: 2, B: 3, Brightness: 4}) {
		t.Errorf("LED(4) = %+v", led)
	}
	if err := ss.SetLEDBrightness(2, 11); err != nil {
		t.Fatal(err)
	}
	if led, _ := s.LED(3); led.Brightness != 11 {
		t.Errorf("LED(3).Brightness = %d, want 11", led.Brightness)
	}

	tr.reset()
	if err := ss.BufferLED(0, 5, 5, 5, 5); err != nil {
		t.Fatal(err)
	}
	if len(tr.out) != 0 {
		t.Errorf("BufferLED sent %d bytes, want none", len(tr.out))
	}
	if led, _ := s.LED(5); led.R != 5 {
		t.Errorf("LED(5).R = %d, want 5", led.R)
	}

	for _, n := range []int{3, -1} {
		if err := ss.SetLED(n, 1, 1, 1); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("SetLED(%d) error = %v, want ErrInvalidIndex", n, err)
		}
	}
}

func TestOverlappingSubsetsLastWriteWins(t *testing.T) {
	s, _ := newTestStrip(t, 5)
	a, _ := NewSubset(s, 0, 3)
	b, _ := NewSubset(s, 2, 4)
	_ = a.SetColor(1, 1, 1)
	_ = b.SetColor(2, 2, 2)

	want := []byte{1, 1, 2, 2, 2}
	for i, r := range want {
		if led, _ := s.LED(i); led.R != r {
			t.Errorf("LED(%d).R = %d, want %d", i, led.R, r)
		}
	}
}
