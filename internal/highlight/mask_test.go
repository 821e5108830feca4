package highlight

import (
	"image"
	"image/color"
	"testing"
)

func newWhiteImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

var (
	highlightYellow = color.RGBA{250, 240, 120, 255}
	highlightPink   = color.RGBA{250, 180, 200, 255}
	highlightOrange = color.RGBA{250, 190, 110, 255}
	highlightBlue   = color.RGBA{170, 200, 250, 255}
)

func TestColorRuleMatching(t *testing.T) {
	testCases := []struct {
		name  string
		color Color
		pixel color.RGBA
		want  bool
	}{
		{"yellow matches yellow overlay", ColorYellow, highlightYellow, true},
		{"yellow rejects white paper", ColorYellow, color.RGBA{255, 255, 255, 255}, false},
		{"yellow rejects black ink", ColorYellow, color.RGBA{10, 10, 10, 255}, false},
		{"yellow rejects blue overlay", ColorYellow, highlightBlue, false},
		{"pink matches pink overlay", ColorPink, highlightPink, true},
		{"pink rejects white paper", ColorPink, color.RGBA{255, 255, 255, 255}, false},
		{"orange matches orange overlay", ColorOrange, highlightOrange, true},
		{"blue matches blue overlay", ColorBlue, highlightBlue, true},
		{"blue rejects yellow overlay", ColorBlue, highlightYellow, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule := colorRules[tc.color]
			rgb := [3]float64{
				float64(tc.pixel.R) / 255.0,
				float64(tc.pixel.G) / 255.0,
				float64(tc.pixel.B) / 255.0,
			}
			if got := rule.matches(rgb); got != tc.want {
				t.Errorf("rule for %s on %v: got %v, want %v", tc.color, tc.pixel, got, tc.want)
			}
		})
	}
}

func TestGenerateMask(t *testing.T) {
	cfg := Config{}.withDefaults()

	img := newWhiteImage(40, 40)
	fillRect(img, image.Rect(10, 10, 30, 20), highlightYellow)
	// Isolated speck that the opening pass should remove.
	img.Set(2, 35, highlightYellow)

	mask, err := GenerateMask(img, ColorYellow, cfg)
	if err != nil {
		t.Fatalf("GenerateMask failed: %v", err)
	}

	if !mask.At(20, 15) {
		t.Error("expected center of highlighted region to be set")
	}
	if mask.At(35, 35) {
		t.Error("expected unhighlighted area to be clear")
	}
	if mask.At(2, 35) {
		t.Error("expected isolated speck to be removed by opening")
	}
}

func TestGenerateMaskUnknownColor(t *testing.T) {
	img := newWhiteImage(10, 10)
	if _, err := GenerateMask(img, Color("chartreuse"), Config{}.withDefaults()); err == nil {
		t.Fatal("expected error for unknown color family")
	}
}

func TestGenerateMaskDegenerateImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := GenerateMask(img, ColorYellow, Config{}.withDefaults()); err == nil {
		t.Fatal("expected error for degenerate image")
	}
}

func TestClosingFillsInteriorHole(t *testing.T) {
	mask := NewMask(12, 12)
	for y := 3; y < 9; y++ {
		for x := 3; x < 9; x++ {
			mask.Set(x, y, true)
		}
	}
	mask.Set(5, 5, false)

	closed := mask.dilate(1).erode(1)
	if !closed.At(5, 5) {
		t.Error("expected closing to fill the interior hole")
	}
}

func TestOpeningRemovesIsolatedPixel(t *testing.T) {
	mask := NewMask(12, 12)
	mask.Set(6, 6, true)

	opened := mask.erode(1).dilate(1)
	if opened.At(6, 6) {
		t.Error("expected opening to remove the isolated pixel")
	}
	if opened.Count() != 0 {
		t.Errorf("expected empty mask after opening, got %d cells", opened.Count())
	}
}

func TestParseColor(t *testing.T) {
	for _, name := range []string{"pink", "yellow", "orange", "blue"} {
		if _, err := ParseColor(name); err != nil {
			t.Errorf("ParseColor(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseColor("green"); err == nil {
		t.Error("expected error for unsupported color name")
	}
}
