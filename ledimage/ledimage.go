package ledimage

import (
	"image"
	"image/color"
)

// MaxBrightness is the largest value the 5-bit global brightness field holds.
const MaxBrightness = 0x1F

// LED is the state of a single LED.
// Only the lower 5 bits of Brightness reach the strip.
type LED struct {
	R, G, B    uint8
	Brightness uint8
}

// RGBA converts the LED colour to standard RGBA.
// Brightness is not folded into the channels; it is a separate current
// setting on the LED, not part of the colour.
func (c LED) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xFFFF
}

// toLED converts any color.Color to LED at full brightness.
func toLED(c color.Color) color.Color {
	if l, ok := c.(LED); ok {
		return l
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return LED{R: n.R, G: n.G, B: n.B, Brightness: MaxBrightness}
}

// LEDModel converts colors to LED.
var LEDModel = color.ModelFunc(toLED)

// Row is a one pixel high image of LEDs.
// Each LED takes 4 bytes: R, G, B, Brightness.
type Row struct {
	Pix  []byte          // Pixel data (4 bytes per LED)
	Rect image.Rectangle // Image bounds
}

// NewRow creates a new Row with the specified bounds.
// The height must be at most 1.
func NewRow(r image.Rectangle) *Row {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Row{Rect: r}
	}
	if h > 1 {
		panic("ledimage: height must be 1")
	}
	return &Row{
		Pix:  make([]byte, 4*w*h),
		Rect: r,
	}
}

// ColorModel returns the color model of the image.
func (p *Row) ColorModel() color.Model {
	return LEDModel
}

// Bounds returns the image bounds.
func (p *Row) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Row) At(x, y int) color.Color {
	return p.LEDAt(x, y)
}

// LEDAt returns the LED at (x, y).
func (p *Row) LEDAt(x, y int) LED {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return LED{}
	}
	i := p.pixOffset(x)
	s := p.Pix[i : i+4 : i+4]
	return LED{R: s[0], G: s[1], B: s[2], Brightness: s[3]}
}

// Set sets the color of the pixel at (x, y).
// Colors other than LED are stored at full brightness.
func (p *Row) Set(x, y int, c color.Color) {
	p.SetLED(x, y, LEDModel.Convert(c).(LED))
}

// SetLED sets the LED at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Row) SetLED(x, y int, c LED) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.pixOffset(x)
	s := p.Pix[i : i+4 : i+4]
	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
	s[3] = c.Brightness & MaxBrightness
}

// pixOffset returns the byte offset of the LED at column x.
func (p *Row) pixOffset(x int) int {
	return (x - p.Rect.Min.X) * 4
}
