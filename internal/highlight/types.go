// Package highlight extracts passages of highlighted text from screenshots
// of document pages. Given a page image and a highlight color family, the
// pipeline builds a binary color mask, clusters the recognizer's text
// observations into lines, keeps the lines that overlap the mask,
// re-recognizes each kept line from an upscaled crop, and merges vertically
// consecutive lines into passage strings.
package highlight

import (
	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// TextLine is a cluster of observations judged to belong to one printed
// line. Immutable once built by the clusterer.
type TextLine struct {
	Box          recognizer.BoundingBox // union of member boxes, vertically expanded
	Text         string                 // draft text, members joined left-to-right
	Members      []recognizer.Observation
	MedianHeight float64
	CenterY      float64
}

// HighlightedLine is a line that passed the overlap filter, carrying its
// final re-recognized text and its position in reading order.
type HighlightedLine struct {
	Box       recognizer.BoundingBox
	Text      string
	LineIndex int
}
