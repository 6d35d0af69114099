package detect

import (
	"math"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

const metricAdaptiveRatio = stats.MetricKey("adaptive_ratio")

// AdaptiveOptions configures an AdaptiveDetector.
type AdaptiveOptions struct {
	Weights       ContentWeights
	WindowWidth   int     // frames of context on each side of a candidate; default 2
	Threshold     float64 // adaptive_ratio above this triggers a cut; default 3.0
	MinContentVal float64 // content_val floor below which a ratio spike is ignored; default 15
	MinSceneLen   int64
	Filter        FilterMode
	KernelSize    int
}

// DefaultAdaptiveOptions returns the historical defaults.
func DefaultAdaptiveOptions() AdaptiveOptions {
	return AdaptiveOptions{
		Weights:       DefaultContentWeights,
		WindowWidth:   2,
		Threshold:     3.0,
		MinContentVal: 15,
		Filter:        FilterMerge,
	}
}

type adaptiveEntry struct {
	frameNumber int64
	tc          timecode.Timecode
	contentVal  float64
}

// AdaptiveDetector normalizes ContentDetector's content_val against a
// rolling local average rather than a fixed threshold, so it tolerates
// video with gradually shifting lighting that would otherwise drift
// past a fixed content threshold. Its decisions lag real time by
// WindowWidth frames (EventBuffer), since a candidate frame's score
// cannot be finalized until WindowWidth frames after it have arrived.
type AdaptiveDetector struct {
	opts    AdaptiveOptions
	content *ContentDetector

	hist      []adaptiveEntry
	evaluated int // number of hist entries already evaluated (by index)
	table     *stats.Manager

	haveCut    bool
	lastCutIdx int64
}

// NewAdaptiveDetector validates opts and returns a ready AdaptiveDetector.
func NewAdaptiveDetector(opts AdaptiveOptions) (*AdaptiveDetector, error) {
	if opts.WindowWidth < 1 {
		return nil, &errs.ConfigError{Option: "window_width", Reason: "must be at least 1"}
	}
	if opts.Threshold <= 0 {
		return nil, &errs.ConfigError{Option: "threshold", Reason: "must be positive"}
	}
	contentOpts := ContentOptions{
		Weights:    opts.Weights,
		Threshold:  math.MaxFloat64, // the inner detector never cuts on its own
		KernelSize: opts.KernelSize,
	}
	content, err := NewContentDetector(contentOpts)
	if err != nil {
		return nil, err
	}
	return &AdaptiveDetector{opts: opts, content: content}, nil
}

func (d *AdaptiveDetector) Name() string { return "adaptive" }

func (d *AdaptiveDetector) MetricKeys() []stats.MetricKey {
	keys := d.content.MetricKeys()
	return append(keys, metricAdaptiveRatio)
}

func (d *AdaptiveDetector) EventBuffer() int { return d.opts.WindowWidth }

func (d *AdaptiveDetector) ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error) {
	if _, err := d.content.ProcessFrame(f, table); err != nil {
		return nil, err
	}
	frameNumber := f.PTS.ToFrames()
	contentVal := table.GetMetrics(frameNumber, metricContentVal)[metricContentVal]

	d.table = table
	d.hist = append(d.hist, adaptiveEntry{frameNumber: frameNumber, tc: f.PTS, contentVal: contentVal})

	W := d.opts.WindowWidth
	candidateIdx := len(d.hist) - 1 - W
	if candidateIdx < 0 || candidateIdx < d.evaluated {
		return nil, nil
	}
	return d.evaluate(candidateIdx)
}

// evaluate scores hist[idx] against its WindowWidth neighbors on each
// side and returns a cut if the adaptive ratio and content floor are
// both met. The ratio is defined over the full two-sided window, so a
// candidate inside the first or last WindowWidth frames is never
// scored.
func (d *AdaptiveDetector) evaluate(idx int) ([]Cut, error) {
	d.evaluated = idx + 1
	W := d.opts.WindowWidth
	if idx < W || idx+W > len(d.hist)-1 {
		return nil, nil
	}
	candidate := d.hist[idx]

	var sum float64
	for i := idx - W; i <= idx+W; i++ {
		if i == idx {
			continue
		}
		sum += d.hist[i].contentVal
	}
	avg := sum / float64(2*W)
	denom := avg
	if denom < 1.0 {
		denom = 1.0
	}
	ratio := candidate.contentVal / denom

	if d.table != nil {
		d.table.SetMetrics(candidate.frameNumber, map[stats.MetricKey]float64{metricAdaptiveRatio: ratio})
	}

	if ratio < d.opts.Threshold || candidate.contentVal < d.opts.MinContentVal {
		return nil, nil
	}

	tooClose := d.haveCut && d.opts.MinSceneLen > 0 && candidate.frameNumber-d.lastCutIdx < d.opts.MinSceneLen
	if tooClose && d.opts.Filter == FilterSuppress {
		return nil, nil
	}
	d.lastCutIdx = candidate.frameNumber
	d.haveCut = true
	return []Cut{candidate.tc}, nil
}

func (d *AdaptiveDetector) PostProcess(lastTimecode timecode.Timecode) ([]Cut, error) {
	if _, err := d.content.PostProcess(lastTimecode); err != nil {
		return nil, err
	}
	// Drain the unevaluated tail. The final WindowWidth candidates
	// have no right-side neighbors, so evaluate skips them and the
	// last full-window frames are all that can still cut.
	var cuts []Cut
	for idx := d.evaluated; idx < len(d.hist); idx++ {
		c, err := d.evaluate(idx)
		if err != nil {
			return cuts, err
		}
		cuts = append(cuts, c...)
	}
	return cuts, nil
}

func init() {
	Default.Register("adaptive", func(options any) (Detector, error) {
		opts, ok := options.(AdaptiveOptions)
		if !ok {
			return nil, &errs.ConfigError{Option: "options", Reason: "expected AdaptiveOptions"}
		}
		return NewAdaptiveDetector(opts)
	})
}
