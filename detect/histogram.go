package detect

import (
	"math"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

const metricHistDiff = stats.MetricKey("hist_diff")

// HistogramOptions configures a HistogramDetector.
type HistogramOptions struct {
	Bins        int     // Y' histogram bucket count; must divide 256; default 256
	Threshold   float64 // 1-correlation above this triggers a cut; default 0.05
	MinSceneLen int64
	Filter      FilterMode
}

// DefaultHistogramOptions returns the historical defaults.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{Bins: 256, Threshold: 0.05, Filter: FilterMerge}
}

// HistogramDetector flags a cut wherever the Y' (luma) histogram
// correlation between consecutive frames drops, which is cheaper than
// ContentDetector's per-pixel HSV pass and more tolerant of camera pans
// that shift pixels without changing the overall tonal distribution.
type HistogramDetector struct {
	opts HistogramOptions

	haveLast   bool
	lastHist   []float64
	lastCutIdx int64
	haveCut    bool
}

// NewHistogramDetector validates opts and returns a ready HistogramDetector.
func NewHistogramDetector(opts HistogramOptions) (*HistogramDetector, error) {
	if opts.Bins <= 0 || 256%opts.Bins != 0 {
		return nil, &errs.ConfigError{Option: "bins", Reason: "must evenly divide 256"}
	}
	if opts.Threshold < 0 {
		return nil, &errs.ConfigError{Option: "threshold", Reason: "must be non-negative"}
	}
	return &HistogramDetector{opts: opts}, nil
}

func (d *HistogramDetector) Name() string { return "histogram" }

func (d *HistogramDetector) MetricKeys() []stats.MetricKey {
	return []stats.MetricKey{metricHistDiff}
}

func (d *HistogramDetector) EventBuffer() int { return 0 }

func (d *HistogramDetector) ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error) {
	binWidth := 256 / d.opts.Bins
	hist := make([]float64, d.opts.Bins)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.At(x, y)
			yy, _, _ := rgbToYCbCr(b, g, r)
			hist[int(yy)/binWidth]++
		}
	}
	total := float64(f.Width * f.Height)
	if total > 0 {
		for i := range hist {
			hist[i] /= total
		}
	}

	frameNumber := f.PTS.ToFrames()

	if !d.haveLast {
		d.haveLast = true
		d.lastHist = hist
		table.SetMetrics(frameNumber, map[stats.MetricKey]float64{metricHistDiff: 0})
		return nil, nil
	}

	corr := pearsonCorrelation(hist, d.lastHist)
	diff := 1 - corr
	table.SetMetrics(frameNumber, map[stats.MetricKey]float64{metricHistDiff: diff})
	d.lastHist = hist

	var cuts []Cut
	if diff > d.opts.Threshold {
		tooClose := d.haveCut && d.opts.MinSceneLen > 0 && frameNumber-d.lastCutIdx < d.opts.MinSceneLen
		switch {
		case !tooClose:
			cuts = append(cuts, f.PTS)
			d.lastCutIdx = frameNumber
			d.haveCut = true
		case d.opts.Filter == FilterMerge:
			cuts = append(cuts, f.PTS)
			d.lastCutIdx = frameNumber
		}
	}
	return cuts, nil
}

func (d *HistogramDetector) PostProcess(lastTimecode timecode.Timecode) ([]Cut, error) {
	return nil, nil
}

// pearsonCorrelation returns the Pearson correlation coefficient of a
// and b, which must have equal length. A zero-variance input (a
// perfectly flat histogram) yields 0 rather than NaN.
func pearsonCorrelation(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

func init() {
	Default.Register("histogram", func(options any) (Detector, error) {
		opts, ok := options.(HistogramOptions)
		if !ok {
			return nil, &errs.ConfigError{Option: "options", Reason: "expected HistogramOptions"}
		}
		return NewHistogramDetector(opts)
	})
}
