// Package ledimage provides the pixel format of APA102/SK9822 LED strips.
//
// Every LED carries three 8-bit colour channels and a 5-bit global brightness
// (0-31) that the LED applies on top of the colour. A Row stores a strip as a
// one pixel high image, four bytes per LED:
//
//	Byte:   0  1  2  3    4  5  6  7
//	Value:  R  G  B  Br   R  G  B  Br
//	        (LED 0)       (LED 1)
//
// This package provides:
//
// - LED: a colour type holding R, G, B and Brightness
// - LEDModel: a colour model converting standard Go colours to LED at full brightness
// - Row: an image.Image implementation that pixelstrip.Strip.Draw copies without conversion
//
// Example usage:
//
//	// Create a 30 LED row
//	img := ledimage.NewRow(image.Rect(0, 0, 30, 1))
//
//	// Dim red on LED 4
//	img.SetLED(4, 0, ledimage.LED{R: 255, Brightness: 4})
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(ledimage.LED{B: 255, Brightness: 31}), image.Point{}, draw.Src)
package ledimage
