package renderer

import "github.com/Faultbox/bspview/pkg/fixed"

// Silhouette flags of a drawseg.
const (
	SilNone   = 0
	SilBottom = 1
	SilTop    = 2
	SilBoth   = SilBottom | SilTop
)

// DrawSeg records a stored wall range for later sprite and masked
// texture clipping.
type DrawSeg struct {
	X1, X2 int
	Seg    int

	Scale1    fixed.Fixed
	Scale2    fixed.Fixed
	ScaleStep fixed.Fixed

	Silhouette int
	// BSilHeight: sprites lower than this are clipped by the bottom
	// silhouette. TSilHeight: sprites higher are clipped by the top.
	BSilHeight fixed.Fixed
	TSilHeight fixed.Fixed

	Masked bool
}
