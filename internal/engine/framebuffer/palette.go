package framebuffer

import "image/color"

// Palette layout: 16 ramps of 16 shades, brightest first.
const (
	RampCount = 16
	RampSize  = 16
)

// ramp base colors. Ramp 0 is the grey ramp and holds black at index 15.
var rampColors = [RampCount]color.RGBA{
	{0xff, 0xff, 0xff, 0xff}, // grey
	{0xd8, 0x80, 0x50, 0xff}, // brick
	{0xa0, 0x80, 0x58, 0xff}, // brown
	{0x70, 0x98, 0x50, 0xff}, // moss
	{0x80, 0x88, 0x98, 0xff}, // slate
	{0xc0, 0xa0, 0x70, 0xff}, // tan
	{0xe0, 0x40, 0x30, 0xff}, // red
	{0x58, 0x70, 0xd0, 0xff}, // blue
	{0xd8, 0xc0, 0x40, 0xff}, // gold
	{0x60, 0xb0, 0xb0, 0xff}, // teal
	{0xb0, 0x60, 0xc0, 0xff}, // violet
	{0x90, 0x70, 0x60, 0xff}, // rust
	{0x98, 0xa0, 0x70, 0xff}, // olive
	{0xa0, 0xa0, 0xa0, 0xff}, // stone
	{0xe8, 0x98, 0x60, 0xff}, // orange
	{0x78, 0xa8, 0xe8, 0xff}, // sky
}

// SkyRamp is the ramp used for open sky.
const SkyRamp = RampCount - 1

// DefaultPalette builds the 256-color palette.
func DefaultPalette() color.Palette {
	pal := make(color.Palette, 0, RampCount*RampSize)
	for _, base := range rampColors {
		for shade := 0; shade < RampSize; shade++ {
			k := RampSize - shade
			pal = append(pal, color.RGBA{
				R: uint8(int(base.R) * k / RampSize),
				G: uint8(int(base.G) * k / RampSize),
				B: uint8(int(base.B) * k / RampSize),
				A: 0xff,
			})
		}
	}
	// Darkest grey is pure black.
	pal[RampSize-1] = color.RGBA{A: 0xff}
	return pal
}

// RampColor returns the palette index of a ramp at a brightness shade,
// 0 being the brightest.
func RampColor(ramp, shade int) byte {
	ramp = ((ramp % RampCount) + RampCount) % RampCount
	if shade < 0 {
		shade = 0
	}
	if shade >= RampSize {
		shade = RampSize - 1
	}
	return byte(ramp*RampSize + shade)
}
