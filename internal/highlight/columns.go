package highlight

import (
	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// estimateColumnBounds computes the extent of the body-text column as the
// union of all observation boxes. The bounds cap how far line crops are
// widened later. Returns false when there are no observations.
func estimateColumnBounds(observations []recognizer.Observation) (recognizer.BoundingBox, bool) {
	if len(observations) == 0 {
		return recognizer.BoundingBox{}, false
	}
	bounds := observations[0].Box
	for _, obs := range observations[1:] {
		bounds = bounds.Union(obs.Box)
	}
	return bounds, true
}

// withinColumn reports whether an observation's center falls inside the
// column bounds, with a small horizontal tolerance for recognizer jitter
// at the margins.
func withinColumn(box recognizer.BoundingBox, column recognizer.BoundingBox) bool {
	const tolerance = 0.01
	cx := box.X + box.Width/2
	cy := box.CenterY()
	if cx < column.X-tolerance || cx > column.MaxX()+tolerance {
		return false
	}
	return cy >= column.Y-tolerance && cy <= column.MaxY()+tolerance
}
