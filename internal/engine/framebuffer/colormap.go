package framebuffer

import "image/color"

// Colormap layout: NumLightMaps light levels from full bright to dark,
// then the inverse (invulnerability) map and an all-black map.
const (
	NumLightMaps    = 32
	InverseColormap = NumLightMaps
	BlackColormap   = NumLightMaps + 1
	NumColormaps    = NumLightMaps + 2
)

// Colormap remaps palette indices for one light level.
type Colormap [256]byte

// Colormaps is the full set of light remapping tables.
type Colormaps [NumColormaps]Colormap

// BuildColormaps derives light maps from pal by scaling each color toward
// black and picking the nearest palette entry.
func BuildColormaps(pal color.Palette) *Colormaps {
	cm := &Colormaps{}
	for level := 0; level < NumLightMaps; level++ {
		k := NumLightMaps - level
		for i := range cm[level] {
			if i >= len(pal) {
				continue
			}
			c := color.RGBAModel.Convert(pal[i]).(color.RGBA)
			cm[level][i] = byte(pal.Index(color.RGBA{
				R: uint8(int(c.R) * k / NumLightMaps),
				G: uint8(int(c.G) * k / NumLightMaps),
				B: uint8(int(c.B) * k / NumLightMaps),
				A: 0xff,
			}))
		}
	}

	for i := range cm[InverseColormap] {
		if i >= len(pal) {
			continue
		}
		c := color.GrayModel.Convert(pal[i]).(color.Gray)
		inv := 0xff - c.Y
		cm[InverseColormap][i] = byte(pal.Index(color.RGBA{R: inv, G: inv, B: inv, A: 0xff}))
	}

	black := byte(pal.Index(color.RGBA{A: 0xff}))
	for i := range cm[BlackColormap] {
		cm[BlackColormap][i] = black
	}
	return cm
}
