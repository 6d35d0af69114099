package detect

import (
	"sort"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

const metricHashDist = stats.MetricKey("hash_dist")

// HashOptions configures a HashDetector.
type HashOptions struct {
	Size        int     // side length of the grayscale block fed into the DCT; default 32
	LowFreq     int     // side length of the low-frequency corner used for the hash; default 8
	Threshold   float64 // Hamming distance, scaled to [0, 255], above which a cut fires; default 60
	MinSceneLen int64
	Filter      FilterMode
}

// DefaultHashOptions returns the historical defaults.
func DefaultHashOptions() HashOptions {
	return HashOptions{Size: 32, LowFreq: 8, Threshold: 60, Filter: FilterMerge}
}

// HashDetector flags a cut wherever the perceptual hash (a DCT-based
// fingerprint, as used for near-duplicate image detection) of
// consecutive frames differs by more than Threshold, where the Hamming
// distance is scaled from the fingerprint's bit count to [0, 255]. It tolerates
// minor compression noise and small camera jitter far better than a
// raw pixel difference would.
type HashDetector struct {
	opts       HashOptions
	nBits      int
	haveLast   bool
	lastHash   *hashBits
	lastCutIdx int64
	haveCut    bool
}

// NewHashDetector validates opts and returns a ready HashDetector.
func NewHashDetector(opts HashOptions) (*HashDetector, error) {
	if opts.Size <= 0 {
		return nil, &errs.ConfigError{Option: "size", Reason: "must be positive"}
	}
	if opts.LowFreq <= 1 || opts.LowFreq > opts.Size {
		return nil, &errs.ConfigError{Option: "low_freq", Reason: "must be in (1, size]"}
	}
	return &HashDetector{opts: opts, nBits: opts.LowFreq*opts.LowFreq - 1}, nil
}

func (d *HashDetector) Name() string { return "hash" }

func (d *HashDetector) MetricKeys() []stats.MetricKey {
	return []stats.MetricKey{metricHashDist}
}

func (d *HashDetector) EventBuffer() int { return 0 }

func (d *HashDetector) ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error) {
	h := d.fingerprint(f)
	frameNumber := f.PTS.ToFrames()

	if !d.haveLast {
		d.haveLast = true
		d.lastHash = h
		table.SetMetrics(frameNumber, map[stats.MetricKey]float64{metricHashDist: 0})
		return nil, nil
	}

	dist := hammingDistance(h, d.lastHash)
	scaled := float64(dist) * 255 / float64(d.nBits)
	table.SetMetrics(frameNumber, map[stats.MetricKey]float64{metricHashDist: scaled})
	d.lastHash = h

	var cuts []Cut
	if scaled > d.opts.Threshold {
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

func (d *HashDetector) PostProcess(lastTimecode timecode.Timecode) ([]Cut, error) {
	return nil, nil
}

// fingerprint downsamples f to a Size x Size grayscale block, runs a
// 2-D DCT over it, and thresholds the LowFreq x LowFreq low-frequency
// corner (skipping the DC term) against its own median to produce a
// fixed-width bit fingerprint.
func (d *HashDetector) fingerprint(f *frame.Frame) *hashBits {
	size := d.opts.Size
	block := make([][]float64, size)
	for i := range block {
		block[i] = make([]float64, size)
	}

	for ty := 0; ty < size; ty++ {
		y0 := ty * f.Height / size
		y1 := (ty + 1) * f.Height / size
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for tx := 0; tx < size; tx++ {
			x0 := tx * f.Width / size
			x1 := (tx + 1) * f.Width / size
			if x1 <= x0 {
				x1 = x0 + 1
			}
			var sum float64
			var count int
			for y := y0; y < y1 && y < f.Height; y++ {
				for x := x0; x < x1 && x < f.Width; x++ {
					b, g, r := f.At(x, y)
					sum += float64(rgbToLuma(b, g, r))
					count++
				}
			}
			if count > 0 {
				block[ty][tx] = sum / float64(count)
			}
		}
	}

	coeffs := dct2D(block, size)

	low := d.opts.LowFreq
	values := make([]float64, 0, low*low-1)
	for u := 0; u < low; u++ {
		for v := 0; v < low; v++ {
			if u == 0 && v == 0 {
				continue // skip the DC term, which reflects overall brightness
			}
			values = append(values, coeffs[u][v])
		}
	}
	median := medianOf(values)

	hb := newHashBits(len(values))
	for i, v := range values {
		hb.set(i, v > median)
	}
	return hb
}

func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func init() {
	Default.Register("hash", func(options any) (Detector, error) {
		opts, ok := options.(HashOptions)
		if !ok {
			return nil, &errs.ConfigError{Option: "options", Reason: "expected HashOptions"}
		}
		return NewHashDetector(opts)
	})
}
