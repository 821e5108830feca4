package highlight

import (
	"context"
	"image"

	"github.com/pagemark/highlight-worker/internal/recognizer"
)

// stubRecognizer delegates to a test-provided function so each test can
// script full-page and per-crop recognition behavior.
type stubRecognizer struct {
	fn func(img image.Image) ([]recognizer.Observation, error)
}

func (s *stubRecognizer) Recognize(ctx context.Context, img image.Image) ([]recognizer.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fn(img)
}
