/**
 * Passage merging
 *
 * Folds vertically consecutive highlighted lines into passage strings.
 * Passage boundaries are decided purely by the vertical gap between line
 * tops; once the gap reaches the threshold the current passage is closed,
 * so lines from separate highlighted blocks are never merged.
 */

package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// mergePassages walks the lines in reading order and emits one string per
// passage. A line continues the current passage when the gap between its
// top and the previous line's top is strictly below the threshold derived
// from the passage's first line; a gap equal to the threshold closes it.
func mergePassages(lines []HighlightedLine, cfg Config) []string {
	var passages []string
	var current strings.Builder
	var prevTop float64
	var leadHeight float64

	flush := func() {
		if current.Len() == 0 {
			return
		}
		passage := normalizePassage(current.String())
		if passage != "" {
			passages = append(passages, passage)
		}
		current.Reset()
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		top := line.Box.MaxY()

		if current.Len() == 0 {
			current.WriteString(text)
			prevTop = top
			leadHeight = line.Box.Height
			continue
		}

		gap := prevTop - top
		if gap < 0 {
			gap = -gap
		}
		if gap >= cfg.PassageGapFactor*leadHeight {
			flush()
			current.WriteString(text)
			leadHeight = line.Box.Height
		} else {
			appendLine(&current, text)
		}
		prevTop = top
	}
	flush()

	return passages
}

// appendLine joins the next line onto the passage, repairing hyphenation:
// a trailing hyphen followed by a lowercase letter means the recognizer
// split a word across a line break, so the hyphen is dropped and the halves
// concatenated directly.
func appendLine(b *strings.Builder, next string) {
	accumulated := b.String()
	if strings.HasSuffix(accumulated, "-") && startsLower(next) {
		b.Reset()
		b.WriteString(accumulated[:len(accumulated)-1])
		b.WriteString(next)
		return
	}
	b.WriteString(" ")
	b.WriteString(next)
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

var punctuationSpacing = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" !", "!",
	" ?", "?",
	" :", ":",
	" ;", ";",
)

// normalizePassage collapses runs of whitespace to single spaces and
// removes stray spaces before closing punctuation.
func normalizePassage(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return punctuationSpacing.Replace(collapsed)
}
