package main

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRatio is returned when the configured maximum aspect ratio is
// below 1. The bound is symmetric (width:height and height:width), so a
// ratio under 1 can never be satisfied.
var ErrInvalidRatio = errors.New("tti: max ratio must be >= 1")

// Plan is the chosen pixel grid dimensions for one payload.
type Plan struct {
	Width  int
	Height int
}

// fitsRatio reports whether w:h stays within the symmetric ratio bound.
// Multiplication only, so there is no precision drift near the boundary.
func fitsRatio(w, h int, maxRatio float64) bool {
	return float64(w) <= maxRatio*float64(h) && float64(h) <= maxRatio*float64(w)
}

// planLess is the total order over candidate dimensions: least wasted
// pixels first, then closest to square, then narrower.
func planLess(a Plan, aWaste int, b Plan, bWaste int) bool {
	if aWaste != bWaste {
		return aWaste < bWaste
	}
	da := absInt(a.Width - a.Height)
	db := absInt(b.Width - b.Height)
	if da != db {
		return da < db
	}
	return a.Width < b.Width
}

// Plan picks grid dimensions for a payload of payloadLen bytes. The grid
// always holds the length header plus the payload, and both width:height
// and height:width stay within MaxRatio. For MaxRatio >= 1 the search
// cannot fail: the near-square candidate is always admissible.
func (c Config) Plan(payloadLen int) (Plan, error) {
	if err := c.validate(); err != nil {
		return Plan{}, err
	}
	if payloadLen < 0 {
		return Plan{}, fmt.Errorf("%w: negative payload length %d", ErrBadConfig, payloadLen)
	}
	if c.MaxRatio < 1 {
		return Plan{}, fmt.Errorf("%w: got %g", ErrInvalidRatio, c.MaxRatio)
	}

	pixels := (c.HeaderSize + payloadLen + c.Channels - 1) / c.Channels
	if pixels == 0 {
		pixels = 1
	}

	// Short side of any minimal-waste grid is at most the square root of
	// the pixel count; enumerating heights up to there covers every
	// candidate worth considering, transposes included.
	side := int(math.Ceil(math.Sqrt(float64(pixels))))

	var best Plan
	bestWaste := -1
	for h := 1; h <= side; h++ {
		w := (pixels + h - 1) / h
		// Widen until height:width is admissible; the other direction
		// only gets worse with a larger width, so it is checked once.
		for float64(h) > c.MaxRatio*float64(w) {
			w++
		}
		if !fitsRatio(w, h, c.MaxRatio) {
			continue
		}
		cand := Plan{Width: w, Height: h}
		waste := w*h - pixels
		if bestWaste < 0 || planLess(cand, waste, best, bestWaste) {
			best, bestWaste = cand, waste
		}
	}

	// Orientation is normalized after the search; the ratio bound is
	// symmetric, so swapping keeps every invariant.
	if c.Portrait != (best.Height >= best.Width) {
		best.Width, best.Height = best.Height, best.Width
	}
	return best, nil
}
