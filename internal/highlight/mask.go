/**
 * Color mask generation
 *
 * Converts the source raster into a binary mask marking pixels whose color
 * belongs to the selected highlight family. The per-family predicate is
 * deliberately permissive: it targets faint translucent overlays, and the
 * overlap filter works on fractional coverage rather than per-pixel
 * certainty. Two morphological passes clean the raw mask: a closing bridges
 * small gaps inside a highlighted stroke, then an opening removes isolated
 * noise pixels.
 */

package highlight

import (
	"fmt"
	"image"
)

// Color selects a highlight color family.
type Color string

const (
	ColorPink   Color = "pink"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorBlue   Color = "blue"
)

// ParseColor returns the Color for a user-supplied name.
func ParseColor(name string) (Color, error) {
	switch Color(name) {
	case ColorPink, ColorYellow, ColorOrange, ColorBlue:
		return Color(name), nil
	default:
		return "", fmt.Errorf("unknown highlight color: %q", name)
	}
}

// colorRule is the threshold parameter set for one color family. Each
// family is defined by a dominant channel that must exceed a baseline
// channel, a joint brightness floor, and a per-channel floor. A translucent
// overlay on white paper keeps every channel fairly high, so the floors
// separate highlight pixels from ink.
type colorRule struct {
	dominant      int // channel index: 0=R 1=G 2=B
	baseline      int
	excess        float64 // dominant must exceed baseline by this much
	minBrightness float64 // r+g+b floor
	channelFloor  float64 // every channel must reach this
}

var colorRules = map[Color]colorRule{
	ColorYellow: {dominant: 0, baseline: 2, excess: 0.10, minBrightness: 1.35, channelFloor: 0.15},
	ColorPink:   {dominant: 0, baseline: 1, excess: 0.06, minBrightness: 1.30, channelFloor: 0.25},
	ColorOrange: {dominant: 0, baseline: 2, excess: 0.18, minBrightness: 1.20, channelFloor: 0.12},
	ColorBlue:   {dominant: 2, baseline: 0, excess: 0.06, minBrightness: 1.25, channelFloor: 0.25},
}

// matches evaluates the predicate over normalized [0,1] channel values.
func (r colorRule) matches(rgb [3]float64) bool {
	if rgb[0]+rgb[1]+rgb[2] < r.minBrightness {
		return false
	}
	for _, c := range rgb {
		if c < r.channelFloor {
			return false
		}
	}
	return rgb[r.dominant]-rgb[r.baseline] >= r.excess
}

// Mask is a binary raster at source-image resolution, pixel-space with a
// top-left origin. Read-only after generation.
type Mask struct {
	width  int
	height int
	cells  []bool
}

// NewMask creates an empty mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// At reports whether the cell at (x, y) is highlighted. Out-of-bounds
// coordinates read as false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.cells[y*m.width+x]
}

// Set marks the cell at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.cells[y*m.width+x] = v
}

// Count returns the number of highlighted cells.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// GenerateMask builds the highlight mask for the given color family and
// applies the morphological cleanup passes.
func GenerateMask(img image.Image, color Color, cfg Config) (*Mask, error) {
	rule, ok := colorRules[color]
	if !ok {
		return nil, fmt.Errorf("no threshold rule for color: %q", color)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate image: %dx%d", width, height)
	}

	mask := NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb := [3]float64{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(b) / 65535.0,
			}
			if rule.matches(rgb) {
				mask.cells[y*width+x] = true
			}
		}
	}

	// Closing bridges gaps inside a stroke, opening drops isolated noise.
	// The radius stays small so genuinely separate regions never merge.
	radius := cfg.MorphologyRadius
	mask = mask.dilate(radius).erode(radius) // close
	mask = mask.erode(radius).dilate(radius) // open

	return mask, nil
}

// dilate returns a mask where a cell is set if any cell within the square
// neighborhood of the given radius is set.
func (m *Mask) dilate(radius int) *Mask {
	out := NewMask(m.width, m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.anyInNeighborhood(x, y, radius) {
				out.cells[y*m.width+x] = true
			}
		}
	}
	return out
}

// erode returns a mask where a cell is set only if every in-bounds cell
// within the square neighborhood of the given radius is set.
func (m *Mask) erode(radius int) *Mask {
	out := NewMask(m.width, m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.allInNeighborhood(x, y, radius) {
				out.cells[y*m.width+x] = true
			}
		}
	}
	return out
}

func (m *Mask) anyInNeighborhood(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if m.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

func (m *Mask) allInNeighborhood(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= m.width || ny >= m.height {
				continue
			}
			if !m.cells[ny*m.width+nx] {
				return false
			}
		}
	}
	return true
}
