package detect

import (
	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

const metricAverageRGB = stats.MetricKey("average_rgb")

// ThresholdOptions configures a ThresholdDetector.
type ThresholdOptions struct {
	Threshold    float64 // average_rgb below this marks a fade frame; default 12
	FadeBias     float64 // -1 places cuts at the fade start, +1 at the end; default 0
	MinSceneLen  int64
	AddLastScene bool // emit a trailing cut at PostProcess if the video ends mid-fade
}

// DefaultThresholdOptions returns the historical defaults.
func DefaultThresholdOptions() ThresholdOptions {
	return ThresholdOptions{
		Threshold:    12,
		FadeBias:     0,
		AddLastScene: true,
	}
}

// ThresholdDetector flags a cut wherever the frame's mean pixel value
// crosses a fixed floor, using a two-state machine (in scene / in fade)
// rather than frame-to-frame scoring. The cut for a completed fade is
// placed between the two threshold crossings per FadeBias, so it is
// dated up to the fade's length before the frame that resolves it.
// EventBuffer reports 0 regardless, since that lag has no fixed bound.
type ThresholdDetector struct {
	opts ThresholdOptions

	started    bool
	inFade     bool
	fadeStart  timecode.Timecode // first frame below the threshold
	lastCutIdx int64
	haveCut    bool
}

// NewThresholdDetector validates opts and returns a ready ThresholdDetector.
func NewThresholdDetector(opts ThresholdOptions) (*ThresholdDetector, error) {
	if opts.Threshold < 0 || opts.Threshold > 255 {
		return nil, &errs.ConfigError{Option: "threshold", Reason: "must be in [0, 255]"}
	}
	if opts.FadeBias < -1 || opts.FadeBias > 1 {
		return nil, &errs.ConfigError{Option: "fade_bias", Reason: "must be in [-1, 1]"}
	}
	return &ThresholdDetector{opts: opts}, nil
}

func (d *ThresholdDetector) Name() string { return "threshold" }

func (d *ThresholdDetector) MetricKeys() []stats.MetricKey {
	return []stats.MetricKey{metricAverageRGB}
}

func (d *ThresholdDetector) EventBuffer() int { return 0 }

func (d *ThresholdDetector) ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error) {
	mean := frameMean(f)
	table.SetMetrics(f.PTS.ToFrames(), map[stats.MetricKey]float64{metricAverageRGB: mean})

	below := mean < d.opts.Threshold

	if !d.started {
		d.started = true
		d.inFade = below
		if below {
			d.fadeStart = f.PTS
		}
		return nil, nil
	}

	switch {
	case !d.inFade && below:
		// Fade-out begins; the cut is decided when (and if) the fade
		// resolves.
		d.inFade = true
		d.fadeStart = f.PTS
	case d.inFade && !below:
		d.inFade = false
		cutTC := d.biasedCut(d.fadeStart, f.PTS)
		cutFrame := cutTC.ToFrames()
		tooClose := d.haveCut && d.opts.MinSceneLen > 0 && cutFrame-d.lastCutIdx < d.opts.MinSceneLen
		if tooClose {
			return nil, nil
		}
		d.lastCutIdx = cutFrame
		d.haveCut = true
		return []Cut{cutTC}, nil
	}
	return nil, nil
}

// biasedCut interpolates a cut timecode between the fade's first
// below-threshold frame (from) and the frame where the mean recovered
// (to), weighted by FadeBias: -1 picks from, +1 picks to, 0 the nearest
// integer midpoint.
func (d *ThresholdDetector) biasedCut(from, to timecode.Timecode) timecode.Timecode {
	fromN, toN := from.ToFrames(), to.ToFrames()
	if toN <= fromN {
		return to
	}
	weight := (d.opts.FadeBias + 1) / 2 // in [0, 1]
	offset := int64(float64(toN-fromN)*weight + 0.5)
	return timecode.FromFrames(fromN+offset, to.Framerate())
}

func (d *ThresholdDetector) PostProcess(lastTimecode timecode.Timecode) ([]Cut, error) {
	if d.opts.AddLastScene && d.inFade {
		frameNum := d.fadeStart.ToFrames()
		if !d.haveCut || frameNum-d.lastCutIdx >= d.opts.MinSceneLen {
			return []Cut{d.fadeStart}, nil
		}
	}
	return nil, nil
}

// frameMean returns the arithmetic mean of every pixel channel byte in
// f, i.e. the average over all B, G and R values.
func frameMean(f *frame.Frame) float64 {
	if f.Width == 0 || f.Height == 0 {
		return 0
	}
	var sum int64
	rowLen := f.Width * 3
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+rowLen]
		for _, v := range row {
			sum += int64(v)
		}
	}
	return float64(sum) / float64(f.Width*f.Height*3)
}

func init() {
	Default.Register("threshold", func(options any) (Detector, error) {
		opts, ok := options.(ThresholdOptions)
		if !ok {
			return nil, &errs.ConfigError{Option: "options", Reason: "expected ThresholdOptions"}
		}
		return NewThresholdDetector(opts)
	})
}
