package fixed

import "math"

// Angle is a binary angle: the full uint32 range is one turn, 0 points
// east and angles grow counter-clockwise. Wraparound is unsigned overflow.
type Angle uint32

// Common angles.
const (
	Ang45  Angle = 0x20000000
	Ang90  Angle = 0x40000000
	Ang180 Angle = 0x80000000
	Ang270 Angle = 0xc0000000
	AngMax Angle = 0xffffffff
)

// Fine angle tables.
const (
	FineAngles        = 8192
	FineMask          = FineAngles - 1
	AngleToFineShift  = 19
	SlopeRange        = 2048
	SlopeBits         = 11
	dBits             = FracBits - SlopeBits
	fineTangentLength = FineAngles / 2
)

var (
	// FineSine holds sin for fine angles, plus a quarter turn so that
	// FineCosine can alias into it.
	FineSine [5 * FineAngles / 4]Fixed
	// FineCosine is FineSine shifted by a quarter turn.
	FineCosine []Fixed
	// FineTangent holds tan for fine angles in (-90°, 90°).
	FineTangent [fineTangentLength]Fixed
	// TanToAngle maps a slope in [0, 1] scaled to SlopeRange to an angle.
	TanToAngle [SlopeRange + 1]Angle
)

func init() {
	for i := range FineSine {
		a := (float64(i) + 0.5) * 2 * math.Pi / FineAngles
		FineSine[i] = Fixed(float64(FracUnit) * math.Sin(a))
	}
	FineCosine = FineSine[FineAngles/4:]

	for i := range FineTangent {
		a := (float64(i-FineAngles/4) + 0.5) * 2 * math.Pi / FineAngles
		FineTangent[i] = Fixed(float64(FracUnit) * math.Tan(a))
	}

	for i := range TanToAngle {
		a := math.Atan(float64(i)/SlopeRange) / (2 * math.Pi)
		TanToAngle[i] = Angle(a * 4294967296.0)
	}
}

// FromDegrees converts degrees to a binary angle.
func FromDegrees(deg float64) Angle {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return Angle(uint64(deg / 360 * 4294967296.0))
}

// Degrees returns a in the range [0, 360).
func (a Angle) Degrees() float64 {
	return float64(a) / 4294967296.0 * 360
}

// Fine returns the fine table index for a.
func (a Angle) Fine() int {
	return int(a >> AngleToFineShift)
}

// Sin returns the fixed-point sine of a.
func (a Angle) Sin() Fixed {
	return FineSine[a.Fine()]
}

// Cos returns the fixed-point cosine of a.
func (a Angle) Cos() Fixed {
	return FineCosine[a.Fine()]
}

// SlopeDiv returns num/den scaled to SlopeRange, clamped to SlopeRange.
func SlopeDiv(num, den uint32) int {
	if den < 512 {
		return SlopeRange
	}
	ans := (num << 3) / (den >> 8)
	if ans <= SlopeRange {
		return int(ans)
	}
	return SlopeRange
}

// PointToAngle returns the angle of the vector (x, y) using the
// octant-folded tangent table.
func PointToAngle(x, y Fixed) Angle {
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 {
		if y >= 0 {
			if x > y {
				return TanToAngle[SlopeDiv(uint32(y), uint32(x))]
			}
			return Ang90 - 1 - TanToAngle[SlopeDiv(uint32(x), uint32(y))]
		}
		ny := uint32(-y)
		if uint32(x) > ny {
			return -TanToAngle[SlopeDiv(ny, uint32(x))]
		}
		return Ang270 + TanToAngle[SlopeDiv(uint32(x), ny)]
	}
	nx := uint32(-x)
	if y >= 0 {
		if nx > uint32(y) {
			return Ang180 - 1 - TanToAngle[SlopeDiv(uint32(y), nx)]
		}
		return Ang90 + TanToAngle[SlopeDiv(nx, uint32(y))]
	}
	ny := uint32(-y)
	if nx > ny {
		return Ang180 + TanToAngle[SlopeDiv(ny, nx)]
	}
	return Ang270 - 1 - TanToAngle[SlopeDiv(nx, ny)]
}

// PointToDist returns the approximate length of (dx, dy).
func PointToDist(dx, dy Fixed) Fixed {
	dx, dy = abs32(dx), abs32(dy)
	if dy > dx {
		dx, dy = dy, dx
	}
	if dx == 0 {
		return 0
	}
	slope := Div(dy, dx) >> dBits
	if slope > SlopeRange {
		slope = SlopeRange
	}
	angle := (TanToAngle[slope] + Ang90) >> AngleToFineShift
	return Div(dx, FineSine[angle])
}
