// Package scene turns a sorted list of detector cuts into a list of
// Scenes: half-open frame intervals with minimum-length enforcement,
// matching the way the core's detectors only ever report boundaries,
// never scenes themselves.
package scene

import (
	"sort"

	"github.com/scenelab/scenedetect/detect"
	"github.com/scenelab/scenedetect/timecode"
)

// Scene is a half-open frame interval [Start, End): Start is the first
// frame belonging to the scene, End is the first frame that does not.
type Scene struct {
	Start timecode.Timecode
	End   timecode.Timecode
}

// Len returns the scene's length in frames.
func (s Scene) Len() int64 {
	return s.End.DiffFrames(s.Start)
}

// AssembleOptions controls how raw cut boundaries are turned into the
// final Scene list.
type AssembleOptions struct {
	// MinSceneLen is the minimum length, in frames, a scene may have
	// after assembly. Scenes shorter than this are merged into a
	// neighbor per Filter. Zero disables the check.
	MinSceneLen int64

	// Filter selects how a too-short scene is resolved: FilterMerge
	// deletes its right-bounding cut, so the later cut of the pair is
	// suppressed and the short scene extends into its successor;
	// FilterSuppress absorbs the short scene into its predecessor
	// instead (the earlier cut is the one dropped).
	Filter detect.FilterMode

	// DropShortScenes removes too-short scenes outright instead of
	// merging them: the short interval disappears from the output and
	// its neighbors keep their original bounds, leaving a gap.
	DropShortScenes bool

	// MergeLastScene controls whether a too-short final scene is merged
	// backward into its predecessor. If false, a short final scene is
	// left as-is regardless of Filter (there is no following scene to
	// donate it to).
	MergeLastScene bool

	// StartInScene controls whether the frames before the first cut
	// belong to a scene. When false and at least one cut exists, that
	// lead-in segment is dropped rather than emitted as a scene -- used
	// for sources with unclassified material (e.g. titles) before the
	// first real scene boundary.
	StartInScene bool
}

// DefaultAssembleOptions returns the historical defaults: no minimum
// length, merge-mode filtering, and the lead-in segment counted as a
// scene.
func DefaultAssembleOptions() AssembleOptions {
	return AssembleOptions{Filter: detect.FilterMerge, StartInScene: true}
}

// Assemble converts cuts (each the first frame of a new scene -- see
// detect.Cut; in any order, duplicates allowed, since Assemble keeps
// only those strictly inside (start, end), sorted and deduplicated)
// plus the [start, end) bounds of the source into a final Scene list.
func Assemble(cuts []timecode.Timecode, start, end timecode.Timecode, opts AssembleOptions) []Scene {
	bounds := dedupeSorted(cuts, start, end)

	var scenes []Scene
	if len(bounds) == 0 {
		if opts.StartInScene && end.After(start) {
			scenes = append(scenes, Scene{Start: start, End: end})
		}
		return scenes
	}

	first := 0
	if !opts.StartInScene {
		first = 1 // drop the lead-in segment before bounds[0]
	}
	prev := start
	if first == 1 {
		prev = bounds[0]
	}
	for i := first; i < len(bounds); i++ {
		scenes = append(scenes, Scene{Start: prev, End: bounds[i]})
		prev = bounds[i]
	}
	scenes = append(scenes, Scene{Start: prev, End: end})

	return enforceMinLen(scenes, opts)
}

// dedupeSorted filters cuts to those strictly inside (start, end),
// removes duplicates, and returns them in ascending order.
func dedupeSorted(cuts []timecode.Timecode, start, end timecode.Timecode) []timecode.Timecode {
	filtered := make([]timecode.Timecode, 0, len(cuts))
	for _, c := range cuts {
		if c.After(start) && c.Before(end) {
			filtered = append(filtered, c)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Before(filtered[j]) })

	out := filtered[:0]
	for i, c := range filtered {
		if i == 0 || !c.Equal(filtered[i-1]) {
			out = append(out, c)
		}
	}
	return out
}

// enforceMinLen repeatedly merges the first too-short scene it finds
// into its chosen neighbor until every scene (other than possibly the
// last, per MergeLastScene) meets MinSceneLen.
func enforceMinLen(scenes []Scene, opts AssembleOptions) []Scene {
	if opts.MinSceneLen <= 0 {
		return scenes
	}
	if opts.DropShortScenes {
		kept := scenes[:0]
		for _, s := range scenes {
			if s.Len() >= opts.MinSceneLen {
				kept = append(kept, s)
			}
		}
		return kept
	}
	for {
		idx := -1
		for i, s := range scenes {
			if s.Len() < opts.MinSceneLen {
				idx = i
				break
			}
		}
		if idx < 0 {
			return scenes
		}

		isLast := idx == len(scenes)-1
		if isLast && (!opts.MergeLastScene || idx == 0) {
			return scenes
		}

		switch {
		case isLast:
			// MergeLastScene: fold the short final scene backward.
			scenes[idx-1].End = scenes[idx].End
			scenes = scenes[:idx]
		case opts.Filter == detect.FilterSuppress && idx > 0:
			// Absorb into the preceding scene (the earlier cut goes).
			scenes[idx-1].End = scenes[idx].End
			scenes = append(scenes[:idx], scenes[idx+1:]...)
		default:
			// FilterMerge, or idx == 0 with nothing preceding: delete
			// the right-bounding cut so the later cut of the pair is
			// the one suppressed and the short scene extends forward.
			scenes[idx+1].Start = scenes[idx].Start
			scenes = append(scenes[:idx], scenes[idx+1:]...)
		}
	}
}
