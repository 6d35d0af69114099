// Package pipeline drives a frame.Source through a set of detect.Detector
// implementations, collecting and deduplicating the cuts they report,
// then assembling the final scene.Scene list.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scenelab/scenedetect/detect"
	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/scene"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

// Options configures a SceneManager run.
type Options struct {
	// FrameSkip discards this many frames between each one delivered to
	// the detectors, trading accuracy for throughput. Zero processes
	// every frame.
	FrameSkip int

	// Start and End bound the region of the source that is processed.
	// HasStart/HasEnd report whether the corresponding bound was set;
	// an unset bound means "from the beginning" / "to the end".
	Start, End       timecode.Timecode
	HasStart, HasEnd bool

	// Duration bounds the processed region by length instead of by an
	// absolute End. When both End and Duration are set, whichever ends
	// earlier wins.
	Duration    timecode.Timecode
	HasDuration bool

	// Crop restricts detection to a rectangle of each decoded frame,
	// applied before downscaling. Nil processes the full frame.
	Crop *frame.Rect

	// Downscale reduces each frame by this integer factor before
	// dispatch. Zero or one leaves frames at source resolution; see
	// also AutoDownscale.
	Downscale int

	// AutoDownscale picks the downscale factor from the source
	// resolution so the larger dimension lands near 400 px, overriding
	// Downscale.
	AutoDownscale bool

	// ScaleMethod selects the downscale sampling. The zero value is
	// nearest-neighbor.
	ScaleMethod frame.ScaleMethod

	// MaxDecodeFailures is how many consecutive transient decode
	// failures are tolerated (each skipping one frame) before the run
	// is aborted. Zero selects the default of 3.
	MaxDecodeFailures int

	// DecodeBuffer sizes the channel between the decode goroutine and
	// the dispatch loop. Zero selects a small default.
	DecodeBuffer int
}

// decodedFrame carries one delivered Frame from decodeLoop to
// dispatchLoop, which stops the run if err is set. decodeLoop handles
// transient decode failures itself (skipping and counting them) and
// only ever sends frames, so err is never set by it.
type decodedFrame struct {
	f   *frame.Frame
	err error
}

// SceneManager drives frames from a single frame.Source through every
// registered Detector, in presentation order, using a two-stage
// pipeline: one goroutine pulls frames from the source (the likely
// bottleneck when backed by real decoding) while the calling goroutine
// dispatches each delivered frame to every detector and tracks emitted
// cuts. The two stages are bridged by errgroup so a decode failure or a
// cancelled context unwinds both sides cleanly.
type SceneManager struct {
	log       *slog.Logger
	source    frame.Source
	table     *stats.Manager
	detectors []detect.Detector
	opts      Options
	onCut     func(detect.Cut)

	cuts            []detect.Cut
	seenCutFrame    map[int64]bool
	framesProcessed atomic.Int64
	lastTimecode    timecode.Timecode
}

// defaultMaxDecodeFailures is how many consecutive transient decode
// failures abort the run when Options.MaxDecodeFailures is unset.
const defaultMaxDecodeFailures = 3

// NewSceneManager creates a SceneManager reading from source and
// recording detector metrics into table. A nil table gets a private
// scratch table; FrameSkip > 0 likewise swaps in a scratch table, since
// skipped frames leave holes that would poison a persisted metric cache.
func NewSceneManager(source frame.Source, table *stats.Manager, opts Options) *SceneManager {
	log := slog.With("component", "scene_manager")
	if opts.FrameSkip > 0 && table != nil {
		log.Warn("frame skip leaves gaps in per-frame metrics, stats table disabled for this run",
			"frame_skip", opts.FrameSkip)
		table = nil
	}
	if table == nil {
		table = stats.NewManager(source.Framerate())
	}
	if opts.HasDuration {
		start := opts.Start
		if !opts.HasStart {
			start = timecode.Zero(source.Framerate())
		}
		durEnd := start.Add(opts.Duration)
		if !opts.HasEnd || durEnd.Before(opts.End) {
			opts.End, opts.HasEnd = durEnd, true
		}
	}
	return &SceneManager{
		log:          log,
		source:       source,
		table:        table,
		opts:         opts,
		seenCutFrame: make(map[int64]bool),
	}
}

// AddDetector registers a detector and its metric keys with the stats
// table. Detectors are dispatched in registration order.
func (m *SceneManager) AddDetector(d detect.Detector) {
	m.detectors = append(m.detectors, d)
	m.table.RegisterMetricKeys(d.MetricKeys()...)
}

// OnCut installs a callback invoked synchronously as each new cut is
// accepted during Run, in the order cuts are accepted. Cuts are not
// reordered: a detector that reports a cut dated before one already
// accepted produces an out-of-timecode-order call.
func (m *SceneManager) OnCut(fn func(detect.Cut)) {
	m.onCut = fn
}

// FramesProcessed returns the number of frames dispatched to detectors
// so far, safe to call concurrently with a running Run.
func (m *SceneManager) FramesProcessed() int64 {
	return m.framesProcessed.Load()
}

// Run drains the source and dispatches frames to every detector until
// the source is exhausted, a detector returns a fatal error, or ctx is
// cancelled. It does not call PostProcess; callers that want the final
// flush from hysteretic detectors must call PostProcess afterward.
func (m *SceneManager) Run(ctx context.Context) error {
	if m.opts.HasStart {
		if err := frame.TrySeek(m.source, m.opts.Start); err != nil && !errors.Is(err, errs.ErrUnsupportedOperation) {
			return err
		}
	}

	scale := m.opts.Downscale
	if m.opts.AutoDownscale {
		w, h := m.source.FrameSize()
		if m.opts.Crop != nil {
			w, h = m.opts.Crop.W, m.opts.Crop.H
		}
		scale = frame.AutoDownscaleFactor(w, h)
	}

	bufSize := m.opts.DecodeBuffer
	if bufSize <= 0 {
		bufSize = 4
	}
	ch := make(chan decodedFrame, bufSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		return m.decodeLoop(gctx, ch, scale)
	})
	g.Go(func() error {
		return m.dispatchLoop(gctx, ch)
	})

	return g.Wait()
}

// decodeLoop pulls frames from the source, honoring FrameSkip and the
// End bound, crops and downscales each delivered frame, and forwards it
// on ch. It is the producer half of the pipeline and the only goroutine
// that touches m.source.
func (m *SceneManager) decodeLoop(ctx context.Context, ch chan<- decodedFrame, scale int) error {
	maxFailures := m.opts.MaxDecodeFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxDecodeFailures
	}
	skip := 0
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := m.source.Read()
		if err != nil {
			if errors.Is(err, errs.ErrEndOfStream) {
				return nil
			}
			var de *errs.DecodeError
			if errors.As(err, &de) && !de.Fatal {
				failures++
				m.log.Warn("transient decode failure, skipping frame",
					"frame", de.FrameIndex, "consecutive", failures, "error", de.Err)
				if failures >= maxFailures {
					return &errs.DecodeError{FrameIndex: de.FrameIndex, Err: de.Err, Fatal: true}
				}
				continue
			}
			return err
		}
		failures = 0

		if m.opts.HasEnd && !f.PTS.Before(m.opts.End) {
			return nil
		}

		if skip > 0 {
			skip--
			continue
		}
		skip = m.opts.FrameSkip

		if m.opts.Crop != nil {
			f, err = frame.Crop(f, *m.opts.Crop)
			if err != nil {
				return err
			}
		}
		if scale > 1 {
			f = frame.Downscale(f, scale, m.opts.ScaleMethod)
		}

		select {
		case ch <- decodedFrame{f: f}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatchLoop consumes decoded frames and runs them through every
// detector in registration order, collecting and deduplicating cuts.
func (m *SceneManager) dispatchLoop(ctx context.Context, ch <-chan decodedFrame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case df, ok := <-ch:
			if !ok {
				return nil
			}
			if df.err != nil {
				return df.err
			}
			if err := m.dispatchOne(df.f); err != nil {
				return err
			}
		}
	}
}

func (m *SceneManager) dispatchOne(f *frame.Frame) error {
	m.lastTimecode = f.PTS
	m.framesProcessed.Add(1)
	for _, d := range m.detectors {
		cuts, err := d.ProcessFrame(f, m.table)
		if err != nil {
			return &errs.DetectorError{Detector: d.Name(), Err: err}
		}
		m.acceptCuts(cuts)
	}
	return nil
}

// acceptCuts merges newly reported cuts into m.cuts, collapsing any
// cut within one frame of an already-accepted one: two detectors (or a
// retroactive adaptive decision) flagging the same transition rarely
// agree on the exact frame, and adjacent cuts would otherwise produce a
// spurious one-frame scene.
func (m *SceneManager) acceptCuts(cuts []detect.Cut) {
	for _, c := range cuts {
		n := c.ToFrames()
		if m.seenCutFrame[n] || m.seenCutFrame[n-1] || m.seenCutFrame[n+1] {
			continue
		}
		m.seenCutFrame[n] = true
		m.cuts = append(m.cuts, c)
		if m.onCut != nil {
			m.onCut(c)
		}
	}
}

// PostProcess flushes every detector's pending hysteretic state (e.g.
// an unresolved fade or an adaptive-detector window tail) and merges
// any resulting cuts in, same as Run does during dispatch.
func (m *SceneManager) PostProcess() error {
	for _, d := range m.detectors {
		cuts, err := d.PostProcess(m.lastTimecode)
		if err != nil {
			return &errs.DetectorError{Detector: d.Name(), Err: err}
		}
		m.acceptCuts(cuts)
	}
	return nil
}

// Cuts returns every accepted cut, sorted ascending.
func (m *SceneManager) Cuts() []detect.Cut {
	out := make([]detect.Cut, len(m.cuts))
	copy(out, m.cuts)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Scenes assembles the final Scene list from the accepted cuts and the
// source's bounds.
func (m *SceneManager) Scenes(opts scene.AssembleOptions) []scene.Scene {
	start := timecode.Zero(m.source.Framerate())
	if m.opts.HasStart {
		start = m.opts.Start
	}
	end := m.lastTimecode.AddFrames(1)
	if m.opts.HasEnd {
		end = m.opts.End
	}
	return scene.Assemble(m.Cuts(), start, end, opts)
}
