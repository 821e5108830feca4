package highlight

import (
	"reflect"
	"testing"

	"github.com/pagemark/highlight-worker/internal/recognizer"
)

func hline(text string, top, h float64, index int) HighlightedLine {
	return HighlightedLine{
		Box:       recognizer.BoundingBox{X: 0.1, Y: top - h, Width: 0.8, Height: h},
		Text:      text,
		LineIndex: index,
	}
}

func TestMergeHyphenationRepair(t *testing.T) {
	cfg := Config{}.withDefaults()
	testCases := []struct {
		name  string
		lines []HighlightedLine
		want  []string
	}{
		{
			name: "hyphen joins split word",
			lines: []HighlightedLine{
				hline("consis-", 0.80, 0.04, 0),
				hline("tent", 0.76, 0.04, 1),
			},
			want: []string{"consistent"},
		},
		{
			name: "no spurious join without hyphen",
			lines: []HighlightedLine{
				hline("the cat", 0.80, 0.04, 0),
				hline("sat", 0.76, 0.04, 1),
			},
			want: []string{"the cat sat"},
		},
		{
			name: "hyphen kept before capitalized word",
			lines: []HighlightedLine{
				hline("twentieth-", 0.80, 0.04, 0),
				hline("Century", 0.76, 0.04, 1),
			},
			want: []string{"twentieth- Century"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := mergePassages(tc.lines, cfg)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMergePassageBoundary(t *testing.T) {
	cfg := Config{}.withDefaults() // gap factor 1.5

	// Lead line height 0.04 gives a gap threshold of 0.06 between tops.
	t.Run("gap below threshold continues passage", func(t *testing.T) {
		lines := []HighlightedLine{
			hline("first", 0.800, 0.04, 0),
			hline("second", 0.745, 0.04, 1),
		}
		got := mergePassages(lines, cfg)
		if len(got) != 1 || got[0] != "first second" {
			t.Errorf("expected one merged passage, got %v", got)
		}
	})

	t.Run("gap at threshold starts new passage", func(t *testing.T) {
		lines := []HighlightedLine{
			hline("first", 0.800, 0.04, 0),
			hline("second", 0.740, 0.04, 1),
		}
		got := mergePassages(lines, cfg)
		if len(got) != 2 {
			t.Fatalf("expected two passages, got %v", got)
		}
		if got[0] != "first" || got[1] != "second" {
			t.Errorf("unexpected passages: %v", got)
		}
	})
}

func TestMergeNormalization(t *testing.T) {
	cfg := Config{}.withDefaults()
	lines := []HighlightedLine{
		hline("the  cat\tsat ,", 0.80, 0.04, 0),
		hline("down .", 0.76, 0.04, 1),
	}
	got := mergePassages(lines, cfg)
	if len(got) != 1 {
		t.Fatalf("expected one passage, got %v", got)
	}
	if got[0] != "the cat sat, down." {
		t.Errorf("expected normalized passage, got %q", got[0])
	}
}

func TestMergeSkipsEmptyLines(t *testing.T) {
	cfg := Config{}.withDefaults()
	lines := []HighlightedLine{
		hline("first", 0.800, 0.04, 0),
		hline("   ", 0.780, 0.04, 1),
		hline("second", 0.745, 0.04, 2),
	}
	got := mergePassages(lines, cfg)
	if len(got) != 1 || got[0] != "first second" {
		t.Fatalf("expected blank line skipped within one passage, got %v", got)
	}
}

func TestMergeEmptyInput(t *testing.T) {
	cfg := Config{}.withDefaults()
	if got := mergePassages(nil, cfg); len(got) != 0 {
		t.Fatalf("expected no passages, got %v", got)
	}
}
