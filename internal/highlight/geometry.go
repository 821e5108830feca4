package highlight

import (
	"image"

	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// pixelRegion maps a normalized bottom-left-origin box into a
// top-left-origin pixel rectangle, clamped to the given dimensions.
//
// This is the only place the vertical-axis flip between the observation
// frame and the raster frame is performed; every component that needs mask
// or image pixels for a box goes through here.
func pixelRegion(box recognizer.BoundingBox, width, height int) image.Rectangle {
	w := float64(width)
	h := float64(height)

	x0 := int(box.X * w)
	x1 := int(box.MaxX() * w)
	// The normalized top edge (MaxY) is the smaller pixel row.
	y0 := int((1 - box.MaxY()) * h)
	y1 := int((1 - box.Y) * h)

	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, width, height))
}

// padRegion expands a pixel rectangle by the given margins, clamped to the
// image dimensions.
func padRegion(r image.Rectangle, padX, padY, width, height int) image.Rectangle {
	return image.Rect(r.Min.X-padX, r.Min.Y-padY, r.Max.X+padX, r.Max.Y+padY).
		Intersect(image.Rect(0, 0, width, height))
}

// medianOf returns the median of the given values. The slice is reordered.
// Returns 0 for an empty slice.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	// Insertion sort; observation counts per page are small.
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] < values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}
