package detect

import (
	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

// ContentWeights scales the four delta components before they are
// averaged into content_val. The zero value is invalid; use
// DefaultContentWeights.
type ContentWeights struct {
	Hue, Sat, Lum, Edges float64
}

// DefaultContentWeights matches the historical default: hue, saturation
// and luminance contribute equally, edges are excluded unless the
// caller opts in (edge detection is the most expensive component).
var DefaultContentWeights = ContentWeights{Hue: 1, Sat: 1, Lum: 1, Edges: 0}

func (w ContentWeights) sum() float64 {
	return w.Hue + w.Sat + w.Lum + w.Edges
}

// ContentOptions configures a ContentDetector.
type ContentOptions struct {
	Weights     ContentWeights
	Threshold   float64 // content_val above this triggers a cut; default 27
	MinSceneLen int64   // frames; cuts closer than this to the previous cut are filtered
	Filter      FilterMode
	KernelSize  int // Canny kernel size; 0 selects autoKernelSize from frame dimensions
}

// DefaultContentOptions returns the historical defaults.
func DefaultContentOptions() ContentOptions {
	return ContentOptions{
		Weights:   DefaultContentWeights,
		Threshold: 27,
		Filter:    FilterMerge,
	}
}

const (
	metricContentVal = stats.MetricKey("content_val")
	metricDeltaHue   = stats.MetricKey("delta_hue")
	metricDeltaSat   = stats.MetricKey("delta_sat")
	metricDeltaLum   = stats.MetricKey("delta_lum")
	metricDeltaEdges = stats.MetricKey("delta_edges")
)

// ContentDetector flags a cut wherever the weighted HSV+edge difference
// between consecutive frames exceeds a threshold. It holds exactly one
// frame of history (the previous frame's HSV planes and edge map), so
// EventBuffer is 0: every decision is made as soon as the current frame
// arrives, with no retroactive adjustment.
type ContentDetector struct {
	opts ContentOptions

	haveLast   bool
	lastHue    []byte
	lastSat    []byte
	lastLum    []byte
	lastEdges  []byte
	lastW      int
	lastH      int
	lastCutIdx int64
	haveCut    bool

	pixelMathCalls int64
}

// NewContentDetector validates opts and returns a ready ContentDetector.
func NewContentDetector(opts ContentOptions) (*ContentDetector, error) {
	if opts.Weights.sum() <= 0 {
		return nil, &errs.ConfigError{Option: "weights", Reason: "at least one component weight must be positive"}
	}
	if opts.Threshold < 0 {
		return nil, &errs.ConfigError{Option: "threshold", Reason: "must be non-negative"}
	}
	return &ContentDetector{opts: opts}, nil
}

func (d *ContentDetector) Name() string { return "content" }

func (d *ContentDetector) MetricKeys() []stats.MetricKey {
	return []stats.MetricKey{metricContentVal, metricDeltaHue, metricDeltaSat, metricDeltaLum, metricDeltaEdges}
}

func (d *ContentDetector) EventBuffer() int { return 0 }

// PixelMathCalls reports how many frames were scored by the per-pixel
// HSV/edge path rather than served from a loaded stats table.
func (d *ContentDetector) PixelMathCalls() int64 { return d.pixelMathCalls }

func (d *ContentDetector) ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error) {
	if n := f.PTS.ToFrames(); table.MetricPresent(n, metricContentVal) {
		// Cache hit from a loaded stats table: decide from the stored
		// score and skip the pixel math entirely. The retained pixel
		// history is stale after a hit, so a later cache miss starts
		// over as if its frame were the first.
		d.haveLast = false
		contentVal := table.GetMetrics(n, metricContentVal)[metricContentVal]
		return d.decide(contentVal, f.PTS), nil
	}
	d.pixelMathCalls++

	hue := make([]byte, f.Width*f.Height)
	sat := make([]byte, f.Width*f.Height)
	lum := make([]byte, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.At(x, y)
			h, s, v := rgbToHSV(b, g, r)
			idx := y*f.Width + x
			hue[idx], sat[idx] = h, s
			lum[idx] = v
		}
	}

	var edges []byte
	if d.opts.Weights.Edges > 0 {
		kernel := d.opts.KernelSize
		if kernel == 0 {
			kernel = autoKernelSize(f.Width, f.Height)
		}
		edges = cannyEdgeMap(f, kernel, 0.4, 0.8)
	}

	frameNumber := f.PTS.ToFrames()

	if !d.haveLast {
		d.haveLast = true
		d.lastHue, d.lastSat, d.lastLum, d.lastEdges = hue, sat, lum, edges
		d.lastW, d.lastH = f.Width, f.Height
		table.SetMetrics(frameNumber, map[stats.MetricKey]float64{
			metricContentVal: 0,
			metricDeltaHue:   0,
			metricDeltaSat:   0,
			metricDeltaLum:   0,
			metricDeltaEdges: 0,
		})
		return nil, nil
	}

	if f.Width != d.lastW || f.Height != d.lastH {
		return nil, &errs.DetectorError{Detector: d.Name(), Err: errs.ErrUnsupportedOperation}
	}

	deltaHue := meanHueDiff(hue, d.lastHue)
	deltaSat := meanByteDiff(sat, d.lastSat)
	deltaLum := meanByteDiff(lum, d.lastLum)
	var deltaEdges float64
	if edges != nil {
		deltaEdges = meanByteDiff(edges, d.lastEdges)
	}

	contentVal := (d.opts.Weights.Hue*deltaHue +
		d.opts.Weights.Sat*deltaSat +
		d.opts.Weights.Lum*deltaLum +
		d.opts.Weights.Edges*deltaEdges) / d.opts.Weights.sum()

	table.SetMetrics(frameNumber, map[stats.MetricKey]float64{
		metricContentVal: contentVal,
		metricDeltaHue:   deltaHue,
		metricDeltaSat:   deltaSat,
		metricDeltaLum:   deltaLum,
		metricDeltaEdges: deltaEdges,
	})

	d.lastHue, d.lastSat, d.lastLum, d.lastEdges = hue, sat, lum, edges
	d.lastW, d.lastH = f.Width, f.Height

	return d.decide(contentVal, f.PTS), nil
}

// decide applies the threshold and the flash-suppression filter to a
// frame's score, shared by the computed and cache-hit paths.
func (d *ContentDetector) decide(contentVal float64, tc timecode.Timecode) []Cut {
	if contentVal <= d.opts.Threshold {
		return nil
	}
	frameNumber := tc.ToFrames()
	tooClose := d.haveCut && d.opts.MinSceneLen > 0 && frameNumber-d.lastCutIdx < d.opts.MinSceneLen
	switch {
	case !tooClose:
		d.lastCutIdx = frameNumber
		d.haveCut = true
		return []Cut{tc}
	case d.opts.Filter == FilterMerge:
		// Emit the cut anyway; the scene-assembly pass merges the
		// resulting short scene with its neighbor per min_scene_len.
		d.lastCutIdx = frameNumber
		return []Cut{tc}
	}
	// FilterSuppress with tooClose: drop the cut entirely.
	return nil
}

func (d *ContentDetector) PostProcess(lastTimecode timecode.Timecode) ([]Cut, error) {
	return nil, nil
}

func meanByteDiff(a, b []byte) float64 {
	var sum int
	for i := range a {
		sum += absInt(int(a[i]) - int(b[i]))
	}
	if len(a) == 0 {
		return 0
	}
	return float64(sum) / float64(len(a))
}

func meanHueDiff(a, b []byte) float64 {
	var sum int
	for i := range a {
		sum += int(hueDistance(a[i], b[i]))
	}
	if len(a) == 0 {
		return 0
	}
	return float64(sum) / float64(len(a))
}

func init() {
	Default.Register("content", func(options any) (Detector, error) {
		opts, ok := options.(ContentOptions)
		if !ok {
			return nil, &errs.ConfigError{Option: "options", Reason: "expected ContentOptions"}
		}
		return NewContentDetector(opts)
	})
}
