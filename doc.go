// Package pixelstrip drives APA102/SK9822 ("DotStar") LED strips over SPI.
//
// A Strip keeps the colour and 5-bit brightness of every LED in memory and
// sends the whole buffer to the strip on Flush. Logical LED numbers are
// translated to physical positions through an index map, so wiring order can
// differ from the numbering the application uses.
//
// # Wire Format
//
// Every flush sends one frame:
//
//	0x00 0x00 0x00 0x00                 start frame
//	0xE0|bright  blue  green  red       per LED, physical order
//	0xFF 0xFF 0xFF 0xFF                 stop frame
//
// Only the low 5 bits of the brightness are used; the top 3 bits are always
// set.
//
// # Hardware Connection
//
//	Strip Pin → System Pin
//	GND       → GND
//	5V        → 5V supply (not the Pi's 3.3V rail)
//	CI/CLK    → SPI Clock (SCLK)
//	DI/DAT    → SPI Data (MOSI)
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/spi"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//
//		"github.com/flavioheleno/pixelstrip"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		port, _ := spireg.Open("")
//		defer port.Close()
//
//		// One transport can drive several strips, one port per instance
//		t, _ := pixelstrip.NewSPI(map[pixelstrip.Instance]spi.Port{0: port}, nil)
//
//		// Create a 30 LED strip
//		s, _ := pixelstrip.New(t, &pixelstrip.Opts{NumPixels: 30})
//		s.Init()
//		defer s.Halt()
//
//		// LED 4 red at full brightness
//		s.SetLEDWithBrightness(4, 255, 0, 0, 31)
//	}
//
// # Batching
//
// SetLED, SetStripColor and the other setters flush immediately. To change
// several LEDs with a single transmission, use BufferLED and call Flush once:
//
//	for i := 0; i < s.Len(); i++ {
//		s.BufferLED(i, byte(i*8), 0, 255-byte(i*8), 16)
//	}
//	s.Flush()
//
// # Remapping
//
// When LEDs are chained in a different order than they are laid out, remap
// them once at setup and address them by position from then on:
//
//	s.Swap(0, 2)       // logical 0 and 2 exchange physical slots
//	s.Remap(5, 9)      // logical 5 drives physical slot 9
//	s.ResetMap()       // back to identity
//
// # Virtual Slots
//
// Slots can be reserved without an LED behind them: they take writes like any
// other slot but are skipped on transmission. Reserve them with
// Opts.NumVirtual and mark them with Opts.VirtualSlots or SetVirtual:
//
//	s, _ := pixelstrip.New(t, &pixelstrip.Opts{
//		NumPixels:    30,
//		NumVirtual:   2,
//		VirtualSlots: []int{30, 31},
//	})
//
// # Subsets
//
// A Subset addresses a range of a strip as a strip of its own, optionally
// reversed. It shares the owner's buffer:
//
//	left, _ := pixelstrip.NewSubset(s, 0, 14)
//	right, _ := pixelstrip.NewSubset(s, 29, 15) // walks downwards
//	left.SetColorBrightness(0, 0, 255, 8)       // one flush
//	right.SetLED(0, 255, 255, 255)              // logical LED 29
//
// # Transports
//
// Strip is hardware agnostic; bytes leave through a Transport. SPI uses
// periph.io SPI ports on Linux hosts. TinyGo uses tinygo.org/x/drivers SPI
// buses on microcontrollers. Transports that also implement FrameWriter
// receive each frame in one call instead of byte by byte.
//
// # Compatibility with periph.io
//
// Strip implements the display.Drawer interface from periph.io as a 1 pixel
// high image, X being the logical LED index:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// Strip is not safe for concurrent use.
package pixelstrip
