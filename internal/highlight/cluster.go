/**
 * Line clustering
 *
 * Groups text observations into candidate printed lines. A single
 * vertical-proximity test is brittle against recognizer jitter on rotated
 * or skewed pages, so an observation joins the current line when either its
 * vertical center is close to the running line box's center or its vertical
 * overlap with the running box is substantial. Boxes of uneven height
 * within one printed line pass the second test even when their centers
 * drift apart.
 */

package highlight

import (
	"math"
	"sort"
	"strings"

	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// clusterLines groups observations into lines ordered top to bottom.
// Observations outside the column bounds or below the minimum height are
// discarded first. Empty input yields an empty slice.
func clusterLines(observations []recognizer.Observation, column recognizer.BoundingBox, cfg Config) []TextLine {
	filtered := make([]recognizer.Observation, 0, len(observations))
	for _, obs := range observations {
		if obs.Box.Height < cfg.MinObservationHeight {
			continue
		}
		if !withinColumn(obs.Box, column) {
			continue
		}
		filtered = append(filtered, obs)
	}
	if len(filtered) == 0 {
		return nil
	}

	// Bottom-left origin: descending centerY reads top of page first.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Box.CenterY() > filtered[j].Box.CenterY()
	})

	heights := make([]float64, len(filtered))
	for i, obs := range filtered {
		heights[i] = obs.Box.Height
	}
	clusterDistance := cfg.ClusterDistanceFactor * medianOf(heights)

	var lines []TextLine
	var members []recognizer.Observation
	var box recognizer.BoundingBox

	flush := func() {
		if len(members) == 0 {
			return
		}
		lines = append(lines, finishLine(members, box, cfg))
		members = nil
	}

	for _, obs := range filtered {
		if len(members) == 0 {
			members = []recognizer.Observation{obs}
			box = obs.Box
			continue
		}
		centerDist := math.Abs(obs.Box.CenterY() - box.CenterY())
		if centerDist < clusterDistance || obs.Box.VerticalOverlapRatio(box) > cfg.ClusterOverlapRatio {
			members = append(members, obs)
			box = box.Union(obs.Box)
			continue
		}
		flush()
		members = []recognizer.Observation{obs}
		box = obs.Box
	}
	flush()

	return lines
}

// finishLine orders the cluster's members left to right, joins their text
// into the draft line string, and expands the box vertically to tolerate
// the recognizer's tight cropping.
func finishLine(members []recognizer.Observation, box recognizer.BoundingBox, cfg Config) TextLine {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Box.X < members[j].Box.X
	})

	parts := make([]string, 0, len(members))
	heights := make([]float64, 0, len(members))
	for _, m := range members {
		if m.Text != "" {
			parts = append(parts, m.Text)
		}
		heights = append(heights, m.Box.Height)
	}

	margin := box.Height * cfg.LineBoxExpansion / 2
	expanded := recognizer.BoundingBox{
		X:      box.X,
		Y:      box.Y - margin,
		Width:  box.Width,
		Height: box.Height + 2*margin,
	}

	return TextLine{
		Box:          expanded,
		Text:         strings.Join(parts, " "),
		Members:      members,
		MedianHeight: medianOf(heights),
		CenterY:      box.CenterY(),
	}
}
