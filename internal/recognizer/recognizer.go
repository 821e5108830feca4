// Package recognizer defines the text-recognition boundary used by the
// highlight pipeline and provides a Tesseract-backed implementation.
//
// Coordinate convention: every observation box is normalized to [0,1] in
// both axes with a bottom-left origin, so a larger Y is higher on the page.
// The convention holds regardless of whether recognition ran on the full
// page or on a sub-crop; it is the implementation's job to convert from
// whatever pixel frame its engine reports.
package recognizer

import (
	"context"
	"image"
)

// BoundingBox is a normalized rectangle with a bottom-left origin.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MaxX returns the right edge of the box.
func (b BoundingBox) MaxX() float64 { return b.X + b.Width }

// MaxY returns the top edge of the box (bottom-left origin).
func (b BoundingBox) MaxY() float64 { return b.Y + b.Height }

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 { return b.Y + b.Height/2 }

// Union returns the smallest box covering both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	minX := b.X
	if o.X < minX {
		minX = o.X
	}
	minY := b.Y
	if o.Y < minY {
		minY = o.Y
	}
	maxX := b.MaxX()
	if o.MaxX() > maxX {
		maxX = o.MaxX()
	}
	maxY := b.MaxY()
	if o.MaxY() > maxY {
		maxY = o.MaxY()
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// VerticalOverlapRatio returns the vertical overlap between b and o as a
// fraction of the shorter box's height. Returns 0 when the boxes are
// vertically disjoint or either has no height.
func (b BoundingBox) VerticalOverlapRatio(o BoundingBox) float64 {
	low := b.Y
	if o.Y > low {
		low = o.Y
	}
	high := b.MaxY()
	if o.MaxY() < high {
		high = o.MaxY()
	}
	if high <= low {
		return 0
	}
	shorter := b.Height
	if o.Height < shorter {
		shorter = o.Height
	}
	if shorter <= 0 {
		return 0
	}
	return (high - low) / shorter
}

// Observation is one recognized text fragment with position and confidence.
type Observation struct {
	Text       string
	Confidence float64 // [0,1]
	Box        BoundingBox
}

// Recognizer is the external text-recognition collaborator. It may be
// invoked on a full page or on an arbitrary sub-crop. A failed recognition
// is reported as an error; callers in the pipeline treat it as zero
// observations rather than a fatal condition.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Observation, error)
}
