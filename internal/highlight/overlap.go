/**
 * Overlap filtering
 *
 * Decides which clustered lines are highlighted by sampling the color mask
 * under each line box. Grid sampling trades a small accuracy loss for a
 * large speed-up over scanning every pixel in the region.
 *
 * The tiered fallback encodes a product decision: silently returning
 * nothing is worse than over-including borderline lines. Extraneous text
 * can be discarded by the user; missing text is unrecoverable without
 * reprocessing.
 */

package highlight

// Overlap filter tiers, reported for logging and job results.
const (
	TierPrimary    = "primary"
	TierRelaxed    = "relaxed"
	TierUnfiltered = "unfiltered"
)

// filterHighlighted returns the subset of lines considered highlighted and
// the tier that produced it. For non-empty input the result is never empty:
// if neither the primary nor the relaxed threshold keeps any line, the mask
// evidence is treated as unreliable and the whole list passes through.
func filterHighlighted(lines []TextLine, mask *Mask, cfg Config) ([]TextLine, string) {
	if len(lines) == 0 {
		return nil, TierPrimary
	}

	coverages := make([]float64, len(lines))
	for i, line := range lines {
		coverages[i] = maskCoverage(line, mask, cfg)
	}

	if kept := keepAbove(lines, coverages, cfg.PrimaryCoverage); len(kept) > 0 {
		return kept, TierPrimary
	}
	if kept := keepAbove(lines, coverages, cfg.RelaxedCoverage); len(kept) > 0 {
		return kept, TierRelaxed
	}
	return lines, TierUnfiltered
}

func keepAbove(lines []TextLine, coverages []float64, threshold float64) []TextLine {
	var kept []TextLine
	for i, line := range lines {
		if coverages[i] >= threshold {
			kept = append(kept, line)
		}
	}
	return kept
}

// maskCoverage returns the fraction of grid sample points inside the line's
// box that land on a highlighted mask cell.
func maskCoverage(line TextLine, mask *Mask, cfg Config) float64 {
	region := pixelRegion(line.Box, mask.Width(), mask.Height())
	if region.Empty() {
		return 0
	}

	cols, rows := cfg.SampleColumns, cfg.SampleRows
	hits := 0
	for row := 0; row < rows; row++ {
		// Sample at cell centers so a single-row region is probed mid-height.
		y := region.Min.Y + (region.Dy()*(2*row+1))/(2*rows)
		for col := 0; col < cols; col++ {
			x := region.Min.X + (region.Dx()*(2*col+1))/(2*cols)
			if mask.At(x, y) {
				hits++
			}
		}
	}
	return float64(hits) / float64(cols*rows)
}
