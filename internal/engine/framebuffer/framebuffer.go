// Package framebuffer provides the palette-indexed software framebuffer
// the renderer paints into, plus palette and light colormap helpers.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"
)

// Framebuffer is a width*height grid of palette indices, row-major.
type Framebuffer struct {
	width  int
	height int
	pix    []byte
}

// New creates a framebuffer with the specified dimensions.
func New(width, height int) *Framebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Width returns the number of columns.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the number of rows.
func (fb *Framebuffer) Height() int { return fb.height }

// Pix returns the backing palette indices.
func (fb *Framebuffer) Pix() []byte {
	return fb.pix
}

// Clear fills the whole frame with one palette index.
func (fb *Framebuffer) Clear(c byte) {
	for i := range fb.pix {
		fb.pix[i] = c
	}
}

// At returns the palette index at (x, y), 0 outside the frame.
func (fb *Framebuffer) At(x, y int) byte {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return 0
	}
	return fb.pix[y*fb.width+x]
}

// Set writes one pixel; writes outside the frame are dropped.
func (fb *Framebuffer) Set(x, y int, c byte) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	fb.pix[y*fb.width+x] = c
}

// FillColumn paints rows y1..y2 inclusive of column x, clipped to the frame.
func (fb *Framebuffer) FillColumn(x, y1, y2 int, c byte) {
	if x < 0 || x >= fb.width {
		return
	}
	if y1 < 0 {
		y1 = 0
	}
	if y2 >= fb.height {
		y2 = fb.height - 1
	}
	for y, i := y1, y1*fb.width+x; y <= y2; y, i = y+1, i+fb.width {
		fb.pix[i] = c
	}
}

// Paletted wraps the frame as an image sharing its pixels.
func (fb *Framebuffer) Paletted(pal color.Palette) *image.Paletted {
	return &image.Paletted{
		Pix:     fb.pix,
		Stride:  fb.width,
		Rect:    image.Rect(0, 0, fb.width, fb.height),
		Palette: pal,
	}
}

// ExpandRGBA writes the frame as RGBA bytes into dst, which must hold
// width*height*4 bytes.
func (fb *Framebuffer) ExpandRGBA(pal color.Palette, dst []byte) error {
	if len(dst) != len(fb.pix)*4 {
		return fmt.Errorf("rgba buffer size mismatch: expected %d, got %d", len(fb.pix)*4, len(dst))
	}
	lut := rgbaTable(pal)
	for i, c := range fb.pix {
		copy(dst[i*4:i*4+4], lut[c][:])
	}
	return nil
}

// RGBA converts the frame to a new RGBA image.
func (fb *Framebuffer) RGBA(pal color.Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	// Sizes always match here.
	_ = fb.ExpandRGBA(pal, img.Pix)
	return img
}

func rgbaTable(pal color.Palette) [256][4]byte {
	var lut [256][4]byte
	for i := range lut {
		if i >= len(pal) {
			lut[i] = [4]byte{0, 0, 0, 0xff}
			continue
		}
		c := color.RGBAModel.Convert(pal[i]).(color.RGBA)
		lut[i] = [4]byte{c.R, c.G, c.B, c.A}
	}
	return lut
}
