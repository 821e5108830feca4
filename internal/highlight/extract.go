/**
 * Per-line text extraction
 *
 * Each highlighted line is cropped at full column width, padded, upscaled,
 * and re-recognized on its own. Consistent left/right margins across the
 * lines of a passage improve re-recognition, and small text benefits
 * disproportionately from upscaling before recognition.
 *
 * A recognition failure on one crop yields the clustering draft text for
 * that line only; it never aborts the sibling lines or the run.
 */

package highlight

import (
	"context"
	"image"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/pagemark/highlight-worker/internal/logging"
	"github.com/pagemark/highlight-worker/internal/recognizer"
)

type lineExtractor struct {
	rec    recognizer.Recognizer
	cfg    Config
	logger *logging.Logger
}

// extractAll re-recognizes every line concurrently through a bounded worker
// pool. Results are stored by line index, so the returned order is the
// geometric reading order regardless of completion order. On cancellation
// the partial results are discarded and the context error is returned.
func (e *lineExtractor) extractAll(ctx context.Context, img image.Image, lines []TextLine, column recognizer.BoundingBox) ([]HighlightedLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	results := make([]HighlightedLine, len(lines))
	jobs := make(chan int)

	workers := e.cfg.ExtractWorkers
	if workers > len(lines) {
		workers = len(lines)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.extractLine(ctx, img, lines[idx], column, idx)
			}
		}()
	}

feed:
	for i := range lines {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Lines whose text is empty after trimming are dropped rather than
	// emitted as blank passage segments.
	kept := results[:0]
	for _, line := range results {
		if strings.TrimSpace(line.Text) != "" {
			line.Text = strings.TrimSpace(line.Text)
			kept = append(kept, line)
		}
	}
	return kept, nil
}

// extractLine crops, upscales, and re-recognizes one line. Falls back to
// the cluster's draft text when re-recognition yields nothing.
func (e *lineExtractor) extractLine(ctx context.Context, img image.Image, line TextLine, column recognizer.BoundingBox, index int) HighlightedLine {
	out := HighlightedLine{
		Box:       line.Box,
		Text:      line.Text,
		LineIndex: index,
	}

	crop := e.cropLine(img, line, column)
	if crop == nil {
		return out
	}

	observations, err := e.rec.Recognize(ctx, crop)
	if err != nil {
		e.logger.Warn("Line re-recognition failed, using draft text",
			"line", index, "error", err)
		return out
	}
	if len(observations) == 0 {
		e.logger.Debug("Line re-recognition returned nothing, using draft text",
			"line", index)
		return out
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Box.X < observations[j].Box.X
	})
	parts := make([]string, 0, len(observations))
	for _, obs := range observations {
		if obs.Text != "" {
			parts = append(parts, obs.Text)
		}
	}
	if len(parts) == 0 {
		return out
	}

	out.Text = strings.Join(parts, " ")
	return out
}

// cropLine cuts the padded, column-wide region for a line from the source
// image and upscales it for re-recognition. Returns nil when the region
// degenerates to nothing after clamping.
func (e *lineExtractor) cropLine(img image.Image, line TextLine, column recognizer.BoundingBox) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Widen to the full column so every line of a passage is cut with the
	// same margins.
	wide := recognizer.BoundingBox{
		X:      column.X,
		Y:      line.Box.Y,
		Width:  column.Width,
		Height: line.Box.Height,
	}

	region := pixelRegion(wide, width, height)
	if region.Empty() {
		return nil
	}

	padX := int(float64(region.Dx()) * e.cfg.HorizontalPadRatio)
	if padX < e.cfg.MinPadPixels {
		padX = e.cfg.MinPadPixels
	}
	padY := int(float64(region.Dy()) * e.cfg.VerticalPadRatio)
	if padY < e.cfg.MinPadPixels {
		padY = e.cfg.MinPadPixels
	}
	region = padRegion(region, padX, padY, width, height)
	if region.Empty() {
		return nil
	}

	crop := imaging.Crop(img, region.Add(bounds.Min))

	scaledWidth := int(float64(region.Dx()) * e.cfg.UpscaleFactor)
	scaled := imaging.Resize(crop, scaledWidth, 0, imaging.Lanczos)

	if e.cfg.EnhanceCrops {
		enhanced := imaging.Grayscale(scaled)
		enhanced = imaging.AdjustContrast(enhanced, 20)
		return imaging.Sharpen(enhanced, 1.0)
	}
	return scaled
}
