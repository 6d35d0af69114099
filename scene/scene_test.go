package scene

import (
	"testing"

	"github.com/scenelab/scenedetect/detect"
	"github.com/scenelab/scenedetect/timecode"
)

func tc(n int64) timecode.Timecode {
	return timecode.FromFrames(n, timecode.FPS30)
}

func TestAssembleNoCutsYieldsOneScene(t *testing.T) {
	scenes := Assemble(nil, tc(1), tc(101), DefaultAssembleOptions())
	if len(scenes) != 1 {
		t.Fatalf("expected one scene, got %d", len(scenes))
	}
	if !scenes[0].Start.Equal(tc(1)) || !scenes[0].End.Equal(tc(101)) {
		t.Errorf("scene = [%s, %s), want [%s, %s)", scenes[0].Start, scenes[0].End, tc(1), tc(101))
	}
}

func TestAssembleNoCutsStartNotInSceneYieldsNone(t *testing.T) {
	opts := DefaultAssembleOptions()
	opts.StartInScene = false
	scenes := Assemble(nil, tc(1), tc(101), opts)
	if len(scenes) != 0 {
		t.Fatalf("expected no scenes, got %d", len(scenes))
	}
}

func TestAssembleTwoCutsYieldsThreeScenes(t *testing.T) {
	cuts := []timecode.Timecode{tc(31), tc(61)}
	scenes := Assemble(cuts, tc(1), tc(101), DefaultAssembleOptions())
	if len(scenes) != 3 {
		t.Fatalf("expected three scenes, got %d", len(scenes))
	}
	want := []Scene{
		{Start: tc(1), End: tc(31)},
		{Start: tc(31), End: tc(61)},
		{Start: tc(61), End: tc(101)},
	}
	for i, w := range want {
		if !scenes[i].Start.Equal(w.Start) || !scenes[i].End.Equal(w.End) {
			t.Errorf("scene %d = [%s, %s), want [%s, %s)", i, scenes[i].Start, scenes[i].End, w.Start, w.End)
		}
	}
}

func TestAssembleDedupesAndSortsCuts(t *testing.T) {
	cuts := []timecode.Timecode{tc(61), tc(31), tc(31)}
	scenes := Assemble(cuts, tc(1), tc(101), DefaultAssembleOptions())
	if len(scenes) != 3 {
		t.Fatalf("expected three scenes after dedup, got %d", len(scenes))
	}
}

func TestAssembleMinSceneLenMergeDropsLaterCut(t *testing.T) {
	// Cut at frame 31 and frame 35 produces a 4-frame middle scene, too
	// short against a 10-frame minimum. Merge mode suppresses the later
	// cut of the pair: 35 goes, 31 survives.
	cuts := []timecode.Timecode{tc(31), tc(35)}
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 10
	opts.Filter = detect.FilterMerge
	scenes := Assemble(cuts, tc(1), tc(101), opts)

	if len(scenes) != 2 {
		t.Fatalf("expected two scenes after merging the short one, got %d", len(scenes))
	}
	if !scenes[0].Start.Equal(tc(1)) || !scenes[0].End.Equal(tc(31)) {
		t.Errorf("first scene = [%s, %s), want [%s, %s)", scenes[0].Start, scenes[0].End, tc(1), tc(31))
	}
	if !scenes[1].Start.Equal(tc(31)) || !scenes[1].End.Equal(tc(101)) {
		t.Errorf("second scene = [%s, %s), want [%s, %s)", scenes[1].Start, scenes[1].End, tc(31), tc(101))
	}
}

func TestAssembleMinSceneLenMergeCloseCutPair(t *testing.T) {
	// Cuts nine frames apart against an 18-frame minimum in a 600-frame
	// video: the later cut is suppressed, leaving the two scenes bound
	// by the earlier one.
	cuts := []timecode.Timecode{tc(301), tc(310)}
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 18
	scenes := Assemble(cuts, tc(1), tc(601), opts)

	if len(scenes) != 2 {
		t.Fatalf("expected two scenes, got %d", len(scenes))
	}
	if !scenes[0].End.Equal(tc(301)) || !scenes[1].Start.Equal(tc(301)) {
		t.Errorf("scenes bound at %s/%s, want both at %s (cut 310 suppressed)",
			scenes[0].End, scenes[1].Start, tc(301))
	}
}

func TestAssembleMinSceneLenSuppressMergesBackward(t *testing.T) {
	cuts := []timecode.Timecode{tc(31), tc(35)}
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 10
	opts.Filter = detect.FilterSuppress
	scenes := Assemble(cuts, tc(1), tc(101), opts)

	if len(scenes) != 2 {
		t.Fatalf("expected two scenes, got %d", len(scenes))
	}
	if !scenes[0].End.Equal(tc(35)) || !scenes[1].Start.Equal(tc(35)) {
		t.Errorf("first scene should absorb the short segment: [%s, %s) then [%s, %s)",
			scenes[0].Start, scenes[0].End, scenes[1].Start, scenes[1].End)
	}
}

func TestAssembleMinSceneLenKeepsShortFinalScene(t *testing.T) {
	// Final scene from frame 95 to 101 is only 6 frames.
	cuts := []timecode.Timecode{tc(95)}
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 10
	opts.MergeLastScene = false
	scenes := Assemble(cuts, tc(1), tc(101), opts)

	if len(scenes) != 2 {
		t.Fatalf("expected the short final scene left intact (MergeLastScene=false), got %d scenes", len(scenes))
	}
}

func TestAssembleMergeLastSceneFoldsShortFinalScene(t *testing.T) {
	cuts := []timecode.Timecode{tc(95)}
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 10
	opts.MergeLastScene = true
	scenes := Assemble(cuts, tc(1), tc(101), opts)

	if len(scenes) != 1 {
		t.Fatalf("expected the short final scene merged backward, got %d scenes", len(scenes))
	}
	if !scenes[0].End.Equal(tc(101)) {
		t.Errorf("merged scene end = %s, want %s", scenes[0].End, tc(101))
	}
}

func TestSceneLen(t *testing.T) {
	s := Scene{Start: tc(1), End: tc(31)}
	if s.Len() != 30 {
		t.Errorf("Len() = %d, want 30", s.Len())
	}
}

func TestAssembleDropShortScenes(t *testing.T) {
	// Cuts at 100, 105, 500 in a 600-frame video with a 30-frame
	// minimum: [100, 105) is too short and disappears outright, its
	// neighbors keeping their original bounds.
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 30
	opts.DropShortScenes = true
	cuts := []timecode.Timecode{tc(100), tc(105), tc(500)}
	scenes := Assemble(cuts, tc(1), tc(601), opts)

	want := []Scene{
		{Start: tc(1), End: tc(100)},
		{Start: tc(105), End: tc(500)},
		{Start: tc(500), End: tc(601)},
	}
	if len(scenes) != len(want) {
		t.Fatalf("expected %d scenes, got %d: %v", len(want), len(scenes), scenes)
	}
	for i, w := range want {
		if !scenes[i].Start.Equal(w.Start) || !scenes[i].End.Equal(w.End) {
			t.Errorf("scene %d = [%s, %s), want [%s, %s)", i, scenes[i].Start, scenes[i].End, w.Start, w.End)
		}
	}
}

func TestAssembleDropShortScenesLeavesGap(t *testing.T) {
	opts := DefaultAssembleOptions()
	opts.MinSceneLen = 30
	opts.DropShortScenes = true
	scenes := Assemble([]timecode.Timecode{tc(50), tc(60)}, tc(1), tc(121), opts)
	if len(scenes) != 2 {
		t.Fatalf("expected two scenes around the dropped interval, got %d", len(scenes))
	}
	if !scenes[0].End.Equal(tc(50)) || !scenes[1].Start.Equal(tc(60)) {
		t.Errorf("neighbors expanded into the dropped interval: [%s, %s) then [%s, %s)",
			scenes[0].Start, scenes[0].End, scenes[1].Start, scenes[1].End)
	}
}
