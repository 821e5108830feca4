/**
 * Highlight extraction pipeline
 *
 * Orchestrates the stages: color mask, full-page recognition, column
 * bounds, line clustering, overlap filtering, per-line re-recognition, and
 * passage merging. Only two conditions are fatal: a degenerate source image
 * and a mask that could not be constructed; everything else degrades into
 * possibly-imperfect but non-empty output. An empty passage list with a nil
 * error means no highlighted text was found.
 */

package highlight

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/pagemark/highlight-worker/internal/errors"
	"github.com/pagemark/highlight-worker/internal/logging"
	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// Pipeline extracts highlighted passages from page images. Safe for
// concurrent use: each Extract call owns its image, mask, and intermediate
// state, and shares only the recognizer and config.
type Pipeline struct {
	rec    recognizer.Recognizer
	cfg    Config
	logger *logging.Logger
}

// NewPipeline creates a pipeline around the given recognizer. Zero-valued
// config fields are filled with defaults.
func NewPipeline(rec recognizer.Recognizer, cfg Config, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogger("highlight")
	}
	return &Pipeline{
		rec:    rec,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Extract returns the highlighted passages of the page image in reading
// order. The list is empty (with a nil error) when the page has no text or
// no line qualifies; errors are limited to an invalid image, a mask that
// could not be built, and context cancellation.
func (p *Pipeline) Extract(ctx context.Context, img image.Image, color Color) ([]string, error) {
	start := time.Now()
	runID := uuid.NewString()[:8]

	if img == nil {
		return nil, errors.NewInvalidImageError(runID, 0, 0)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.NewInvalidImageError(runID, bounds.Dx(), bounds.Dy())
	}

	mask, err := GenerateMask(img, color, p.cfg)
	if err != nil {
		return nil, errors.NewNoHighlightDetectedError(runID, string(color), err)
	}
	if mask.Count() == 0 {
		return nil, errors.NewNoHighlightDetectedError(runID, string(color), nil)
	}
	p.logger.Debug("Mask generated", "run", runID, "color", color, "cells", mask.Count())

	observations, err := p.rec.Recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Recognizer failure reads as a page with no text.
		p.logger.Warn("Full-page recognition failed", "run", runID, "error", err)
		observations = nil
	}
	if len(observations) == 0 {
		p.logger.Info("No text observations on page", "run", runID)
		return []string{}, nil
	}

	column, ok := estimateColumnBounds(observations)
	if !ok {
		return []string{}, nil
	}

	lines := clusterLines(observations, column, p.cfg)
	if len(lines) == 0 {
		p.logger.Info("No lines after clustering", "run", runID,
			"observations", len(observations))
		return []string{}, nil
	}

	selected, tier := filterHighlighted(lines, mask, p.cfg)
	p.logger.Debug("Lines filtered", "run", runID, "lines", len(lines),
		"selected", len(selected), "tier", tier)

	extractor := &lineExtractor{rec: p.rec, cfg: p.cfg, logger: p.logger}
	highlighted, err := extractor.extractAll(ctx, img, selected, column)
	if err != nil {
		return nil, err
	}

	passages := mergePassages(highlighted, p.cfg)
	p.logger.Info("Extraction complete", "run", runID,
		"observations", len(observations), "lines", len(lines),
		"selected", len(selected), "passages", len(passages),
		"tier", tier, "duration", time.Since(start))

	return passages, nil
}
