// Package detect defines the contract every scene-cut detector
// implements, a small capability set rather than an inheritance
// hierarchy, plus the concrete detectors (content, adaptive, threshold,
// histogram, perceptual-hash) built against it.
package detect

import (
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

// Cut is a Timecode marking the first frame of a new scene. The implicit
// first cut (frame 1, start of video) is never returned by a detector;
// the pipeline adds it when assembling scenes.
type Cut = timecode.Timecode

// Detector is the capability set every scene-cut algorithm implements.
// The pipeline never introspects concrete detector types; it only calls
// through this interface, so variant dispatch (which detector produced a
// cut) happens entirely through the MetricKeys a detector publishes.
type Detector interface {
	// Name identifies the detector for error messages and CSV/report
	// labeling (e.g. "content", "adaptive").
	Name() string

	// MetricKeys returns the stats keys this detector will publish.
	MetricKeys() []stats.MetricKey

	// ProcessFrame is called once per delivered frame, in presentation
	// order. It returns any cuts decided at this call -- typically zero
	// or one, but a hysteretic detector (adaptive, threshold) may
	// return a cut dated earlier than the current frame; see
	// EventBuffer. f must not be retained past this call; a detector
	// that needs history should copy what it needs with frame.Clone.
	ProcessFrame(f *frame.Frame, table *stats.Manager) ([]Cut, error)

	// PostProcess is called once after the final frame to flush any
	// pending hysteretic state (e.g. an unresolved fade). lastTimecode
	// is the presentation time of the last frame seen.
	PostProcess(lastTimecode timecode.Timecode) ([]Cut, error)

	// EventBuffer is the maximum number of frames by which this
	// detector's decisions may lag real time: 0 for purely reactive
	// detectors, >0 for detectors that use a centered or trailing
	// window. It is informational: the SceneManager does not read it
	// and does not bound how far back a retroactive cut timestamp lands.
	EventBuffer() int
}

// FilterMode selects how a detector's flash-suppression filter resolves
// a cut that would otherwise produce a too-short scene.
type FilterMode int

const (
	// FilterMerge suppresses the later of two cuts that would bound a
	// scene shorter than min_scene_len, merging the two scenes.
	FilterMerge FilterMode = iota
	// FilterSuppress blocks any new cut until min_scene_len has elapsed
	// since the last emitted cut.
	FilterSuppress
)

func (m FilterMode) String() string {
	switch m {
	case FilterMerge:
		return "merge"
	case FilterSuppress:
		return "suppress"
	default:
		return "unknown"
	}
}
