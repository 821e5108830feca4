package highlight

import (
	"math"
	"testing"

	"github.com/pagemark/highlight-worker/internal/recognizer"
)

func maskWithRows(width, height, fromRow, toRow int) *Mask {
	mask := NewMask(width, height)
	for y := fromRow; y < toRow; y++ {
		for x := 0; x < width; x++ {
			mask.Set(x, y, true)
		}
	}
	return mask
}

func lineAt(text string, y, h float64) TextLine {
	return TextLine{
		Box:  recognizer.BoundingBox{X: 0, Y: y, Width: 1, Height: h},
		Text: text,
	}
}

func TestMaskCoverageAnalytic(t *testing.T) {
	cfg := Config{}.withDefaults()

	// Mask covers the top half of a 100x100 raster. A line box spanning
	// normalized Y 0.4..0.6 intersects it for half of its own area.
	mask := maskWithRows(100, 100, 0, 50)
	line := lineAt("half", 0.4, 0.2)

	cov := maskCoverage(line, mask, cfg)
	if math.Abs(cov-0.5) > 0.15 {
		t.Errorf("expected coverage near 0.5, got %f", cov)
	}
}

func TestMaskCoverageVerticalFlip(t *testing.T) {
	cfg := Config{}.withDefaults()

	// Only the top 10 pixel rows are highlighted. With a bottom-left
	// observation frame, the box at normalized Y 0.9..1.0 sits exactly on
	// those rows; the box at Y 0..0.1 does not.
	mask := maskWithRows(100, 100, 0, 10)

	top := lineAt("top", 0.9, 0.1)
	bottom := lineAt("bottom", 0.0, 0.1)

	if cov := maskCoverage(top, mask, cfg); cov < 0.9 {
		t.Errorf("expected full coverage for top-of-page box, got %f", cov)
	}
	if cov := maskCoverage(bottom, mask, cfg); cov > 0 {
		t.Errorf("expected zero coverage for bottom-of-page box, got %f", cov)
	}
}

func TestFilterHighlightedPrimaryTier(t *testing.T) {
	cfg := Config{}.withDefaults()
	mask := maskWithRows(100, 100, 0, 30) // normalized Y 0.7..1.0

	lines := []TextLine{
		lineAt("kept", 0.8, 0.1),
		lineAt("dropped", 0.1, 0.1),
	}

	kept, tier := filterHighlighted(lines, mask, cfg)
	if tier != TierPrimary {
		t.Errorf("expected primary tier, got %s", tier)
	}
	if len(kept) != 1 || kept[0].Text != "kept" {
		t.Fatalf("unexpected result: %+v", kept)
	}
}

func TestFilterHighlightedRelaxedTier(t *testing.T) {
	cfg := Config{PrimaryCoverage: 0.6, RelaxedCoverage: 0.3}.withDefaults()

	// Roughly 40% of the line box is covered: below primary, above relaxed.
	mask := maskWithRows(100, 100, 0, 24)
	lines := []TextLine{lineAt("borderline", 0.4, 0.6)}

	kept, tier := filterHighlighted(lines, mask, cfg)
	if tier != TierRelaxed {
		t.Errorf("expected relaxed tier, got %s", tier)
	}
	if len(kept) != 1 {
		t.Fatalf("expected the borderline line kept, got %+v", kept)
	}
}

func TestFilterHighlightedFallsBackToAllLines(t *testing.T) {
	cfg := Config{}.withDefaults()
	mask := NewMask(100, 100) // all-zero mask

	lines := []TextLine{
		lineAt("first", 0.8, 0.1),
		lineAt("second", 0.6, 0.1),
	}

	kept, tier := filterHighlighted(lines, mask, cfg)
	if tier != TierUnfiltered {
		t.Errorf("expected unfiltered tier, got %s", tier)
	}
	if len(kept) != len(lines) {
		t.Fatalf("expected every line returned, got %d of %d", len(kept), len(lines))
	}
}

func TestFilterHighlightedEmptyInput(t *testing.T) {
	cfg := Config{}.withDefaults()
	mask := NewMask(10, 10)

	kept, _ := filterHighlighted(nil, mask, cfg)
	if len(kept) != 0 {
		t.Fatalf("expected empty result for empty input, got %+v", kept)
	}
}

func TestPixelRegionClamping(t *testing.T) {
	box := recognizer.BoundingBox{X: -0.1, Y: 0.9, Width: 0.5, Height: 0.3}
	region := pixelRegion(box, 100, 100)
	if region.Min.X < 0 || region.Min.Y < 0 {
		t.Errorf("expected clamped region, got %v", region)
	}
	if region.Max.X > 100 || region.Max.Y > 100 {
		t.Errorf("expected clamped region, got %v", region)
	}
}
