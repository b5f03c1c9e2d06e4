package v7yolo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBoundingBox(t *testing.T) {
	box := ToBoundingBox(100, 200, []Point{{10, 20}, {50, 80}})
	assert.Equal(t, BoundingBox{CenterX: 0.30, CenterY: 0.25, Width: 0.40, Height: 0.30}, box)
}

func TestToBoundingBoxSinglePoint(t *testing.T) {
	box := ToBoundingBox(200, 100, []Point{{50, 25}})
	assert.Equal(t, BoundingBox{CenterX: 0.25, CenterY: 0.25, Width: 0, Height: 0}, box)
}

func TestToBoundingBoxInsideImageIsNormalised(t *testing.T) {
	polygons := [][]Point{
		{{0, 0}, {640, 480}},
		{{12.5, 7}, {600.25, 33}, {320, 479.9}},
		{{639, 1}, {1, 479}, {320, 240}},
		{{0, 240}},
	}
	for _, polygon := range polygons {
		box := ToBoundingBox(640, 480, polygon)
		for _, v := range []float64{box.CenterX, box.CenterY, box.Width, box.Height} {
			assert.GreaterOrEqual(t, v, 0.0, "polygon %v", polygon)
			assert.LessOrEqual(t, v, 1.0, "polygon %v", polygon)
		}
	}
}

func TestToBoundingBoxSeedsExtremaWithImageSize(t *testing.T) {
	// All points right of and below the image: the minima stay at the image size and the maxima
	// follow the points.
	box := ToBoundingBox(100, 100, []Point{{150, 120}, {200, 140}})
	assert.Equal(t, BoundingBox{CenterX: 1.5, CenterY: 1.2, Width: 1, Height: 0.4}, box)

	// All points left of and above the image: the maxima stay at zero.
	box = ToBoundingBox(100, 100, []Point{{-20, -10}, {-10, -5}})
	assert.Equal(t, BoundingBox{CenterX: -0.1, CenterY: -0.05, Width: 0.2, Height: 0.1}, box)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.125, 0.12}, // Exact tie, rounds to even.
		{0.375, 0.38}, // Exact tie, rounds to even.
		{0.625, 0.62}, // Exact tie, rounds to even.
		{0.145, 0.14}, // Stored slightly below the tie.
		{0.155, 0.15}, // Stored slightly below the tie.
		{0.335, 0.34}, // Stored slightly above the tie.
		{0.3333, 0.33},
		{0.999, 1},
		{-0.001, 0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "0.30", formatCoord(0.3))
	assert.Equal(t, "0.00", formatCoord(0))
	assert.Equal(t, "1.00", formatCoord(1))
	assert.Equal(t, "0.25", formatCoord(0.25))
}
