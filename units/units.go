// Package units provides distance-unit conversion between CSS pixels,
// typographic points, inches, and EMUs (English Metric Units, the native
// distance unit of the target presentation format), plus rotation
// normalization helpers.
//
// Conversions assume the CSS reference pixel: 96 pixels per inch and
// 72 points per inch, so one pixel is exactly 0.75 points.
package units

import "math"

const (
	// PixelsPerInch is the CSS reference pixel density.
	PixelsPerInch = 96.0

	// PointsPerInch is the typographic point density.
	PointsPerInch = 72.0

	// EMUPerInch is the number of English Metric Units per inch.
	EMUPerInch = 914400

	// PointsPerPixel converts CSS pixels to points (72/96).
	PointsPerPixel = PointsPerInch / PixelsPerInch
)

// PxToInches converts CSS pixels to inches.
func PxToInches(px float64) float64 {
	return px / PixelsPerInch
}

// InchesToPx converts inches to CSS pixels.
func InchesToPx(in float64) float64 {
	return in * PixelsPerInch
}

// PxToPoints converts CSS pixels to points.
func PxToPoints(px float64) float64 {
	return px * PointsPerPixel
}

// PointsToPx converts points to CSS pixels.
func PointsToPx(pt float64) float64 {
	return pt / PointsPerPixel
}

// PointsToInches converts points to inches.
func PointsToInches(pt float64) float64 {
	return pt / PointsPerInch
}

// InchesToPoints converts inches to points.
func InchesToPoints(in float64) float64 {
	return in * PointsPerInch
}

// InchesToEMU converts inches to EMUs, rounding to the nearest unit.
// Negative inputs clamp to zero; the presentation format has no
// negative extents.
func InchesToEMU(in float64) int64 {
	if in <= 0 {
		return 0
	}
	return int64(math.Round(in * EMUPerInch))
}

// EMUToInches converts EMUs to inches.
func EMUToInches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}

// NormalizeRotation maps an angle in degrees onto [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// IsQuarterTurn reports whether the normalized angle is 90 or 270
// degrees, the two rotations that swap an element's rendered width and
// height.
func IsQuarterTurn(deg float64) bool {
	r := NormalizeRotation(deg)
	return r == 90 || r == 270
}

// SwapAboutCenter returns the bounding box of a w×h box rotated a
// quarter turn about its own center: width and height exchange while
// the center point stays fixed.
func SwapAboutCenter(x, y, w, h float64) (nx, ny, nw, nh float64) {
	cx := x + w/2
	cy := y + h/2
	return cx - h/2, cy - w/2, h, w
}
