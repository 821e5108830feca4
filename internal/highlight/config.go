package highlight

// Config holds the tuning constants for one pipeline invocation. The zero
// value is usable: missing fields are filled in by withDefaults when the
// pipeline is constructed, so tests can override single knobs without
// restating the rest.
//
// The coverage thresholds were tuned empirically against reader-app
// screenshots; treat them as defaults to validate against your own corpus,
// not as load-bearing constants.
type Config struct {
	// Clustering
	MinObservationHeight  float64 // discard observations shorter than this (normalized)
	ClusterDistanceFactor float64 // clustering distance as a fraction of median height
	ClusterOverlapRatio   float64 // vertical overlap ratio that joins a line regardless of distance
	LineBoxExpansion      float64 // vertical expansion of a finished line box, fraction of its height

	// Overlap filtering
	PrimaryCoverage float64 // tier-1 mask coverage threshold
	RelaxedCoverage float64 // tier-2 mask coverage threshold
	SampleColumns   int     // grid sampling resolution
	SampleRows      int

	// Line extraction
	VerticalPadRatio   float64 // crop padding, fraction of line height
	HorizontalPadRatio float64 // crop padding, fraction of line width
	MinPadPixels       int     // padding floor in pixels
	UpscaleFactor      float64 // crop upscale before re-recognition
	EnhanceCrops       bool    // grayscale/contrast/sharpen crops before re-recognition
	ExtractWorkers     int     // concurrent per-line recognition workers

	// Mask generation
	MorphologyRadius int // structuring element radius for close/open passes

	// Passage merging
	PassageGapFactor float64 // gap threshold as a multiple of the leading line's height
}

func (c Config) withDefaults() Config {
	if c.MinObservationHeight <= 0 {
		c.MinObservationHeight = 0.008
	}
	if c.ClusterDistanceFactor <= 0 {
		c.ClusterDistanceFactor = 0.5
	}
	if c.ClusterOverlapRatio <= 0 {
		c.ClusterOverlapRatio = 0.40
	}
	if c.LineBoxExpansion <= 0 {
		c.LineBoxExpansion = 0.10
	}
	if c.PrimaryCoverage <= 0 {
		c.PrimaryCoverage = 0.10
	}
	if c.RelaxedCoverage <= 0 {
		c.RelaxedCoverage = 0.05
	}
	if c.SampleColumns <= 0 {
		c.SampleColumns = 20
	}
	if c.SampleRows <= 0 {
		c.SampleRows = 5
	}
	if c.VerticalPadRatio <= 0 {
		c.VerticalPadRatio = 0.08
	}
	if c.HorizontalPadRatio <= 0 {
		c.HorizontalPadRatio = 0.03
	}
	if c.MinPadPixels <= 0 {
		c.MinPadPixels = 4
	}
	if c.UpscaleFactor <= 1 {
		c.UpscaleFactor = 2.0
	}
	if c.ExtractWorkers <= 0 {
		c.ExtractWorkers = 4
	}
	if c.MorphologyRadius <= 0 {
		c.MorphologyRadius = 1
	}
	if c.PassageGapFactor <= 0 {
		c.PassageGapFactor = 1.5
	}
	return c
}
