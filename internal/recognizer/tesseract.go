/**
 * Tesseract recognizer
 *
 * Offline word-level recognition via gosseract. A gosseract client is not
 * safe for concurrent use, so a fresh client is created per call; the
 * pipeline invokes Recognize from multiple line-extraction workers.
 */

package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig holds Tesseract configuration
type TesseractConfig struct {
	Language    string // "+"-separated tesseract language codes, default "eng"
	PageSegMode gosseract.PageSegMode
}

// Tesseract performs OCR using a local Tesseract installation
type Tesseract struct {
	language string
	psm      gosseract.PageSegMode
}

// NewTesseract creates a Tesseract-backed recognizer
func NewTesseract(cfg TesseractConfig) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PageSegMode == 0 {
		cfg.PageSegMode = gosseract.PSM_AUTO
	}
	return &Tesseract{
		language: cfg.Language,
		psm:      cfg.PageSegMode,
	}
}

// Recognize runs Tesseract on the image and returns word-level observations
// in the normalized bottom-left coordinate frame.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("cannot recognize empty image: %dx%d", bounds.Dx(), bounds.Dy())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(t.psm); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	observations := make([]Observation, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		observations = append(observations, Observation{
			Text:       box.Word,
			Confidence: clampConfidence(box.Confidence / 100.0),
			Box:        NormalizeRect(box.Box, bounds.Dx(), bounds.Dy()),
		})
	}

	return observations, nil
}

// NormalizeRect converts a top-left-origin pixel rectangle into the
// normalized bottom-left frame used by Observation boxes.
func NormalizeRect(r image.Rectangle, width, height int) BoundingBox {
	w := float64(width)
	h := float64(height)
	return BoundingBox{
		X:      float64(r.Min.X) / w,
		Y:      (h - float64(r.Max.Y)) / h,
		Width:  float64(r.Dx()) / w,
		Height: float64(r.Dy()) / h,
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
