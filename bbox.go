package v7yolo

// Polygon to bounding box conversion.

import (
	"strconv"
)

// BoundingBox is an axis-aligned box in YOLO notation. All values are ratios of the image size,
// rounded to two decimal places.
type BoundingBox struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// ToBoundingBox returns the smallest axis-aligned box enclosing polygon, normalised by the image
// width and height.
//
// The extrema are seeded with (width, 0) horizontally and (height, 0) vertically rather than with
// the first point. A polygon lying completely outside the image therefore yields a box that
// reaches back to the image border. A single point yields a box of size zero at that point.
func ToBoundingBox(width, height int, polygon []Point) BoundingBox {
	w, h := float64(width), float64(height)

	xMin, xMax, yMin, yMax := w, 0.0, h, 0.0
	for _, p := range polygon {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
		if p.Y < yMin {
			yMin = p.Y
		}
		if p.Y > yMax {
			yMax = p.Y
		}
	}

	return BoundingBox{
		CenterX: round2((xMin + xMax) / 2 / w),
		CenterY: round2((yMin + yMax) / 2 / h),
		Width:   round2((xMax - xMin) / w),
		Height:  round2((yMax - yMin) / h),
	}
}

// round2 rounds v to two decimal places. Ties are resolved to even on the exact decimal value of v,
// so 0.125 becomes 0.12 and 0.375 becomes 0.38, while 0.145 (stored as 0.14499...) becomes 0.14.
func round2(v float64) float64 {
	// FormatFloat output always parses, NaN and Inf included.
	r, _ := strconv.ParseFloat(formatCoord(v), 64)
	if r == 0 {
		return 0 // No negative zero.
	}
	return r
}

// formatCoord formats a normalised coordinate with exactly two decimal places.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
