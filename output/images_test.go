package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/timecode"
)

func TestSaveSceneImagesWritesOneFilePerShot(t *testing.T) {
	dir := t.TempDir()
	fetch := func(t timecode.Timecode) (*frame.Frame, error) {
		return frame.FillSolid(4, 4, 10, 20, 30, t), nil
	}

	opts := ImageOptions{Dir: dir, NumImages: 2, Format: FormatPNG}
	if err := SaveSceneImages(testScenes(), fetch, opts); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 { // 2 scenes x 2 shots
		t.Fatalf("expected 4 image files, got %d", len(entries))
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".png" {
			t.Errorf("unexpected file extension: %s", e.Name())
		}
	}
}

func TestShotTimecodeStaysWithinScene(t *testing.T) {
	s := testScenes()[0]
	for _, margin := range []int64{0, 2} {
		for k := 0; k < 3; k++ {
			shot := shotTimecode(s, k, 3, margin)
			if shot.Before(s.Start) || !shot.Before(s.End) {
				t.Errorf("margin %d shot %d timecode %s out of scene bounds [%s, %s)", margin, k, shot, s.Start, s.End)
			}
		}
	}
}

func TestShotTimecodeHonorsFrameMargin(t *testing.T) {
	s := testScenes()[0]
	first := shotTimecode(s, 0, 2, 3)
	last := shotTimecode(s, 1, 2, 3)
	if got := first.DiffFrames(s.Start); got != 3 {
		t.Errorf("first shot %d frames after scene start, want 3", got)
	}
	if !last.Before(s.End.AddFrames(-3)) {
		t.Errorf("last shot %s not clear of the end margin (scene end %s)", last, s.End)
	}
}

func TestExpandImageName(t *testing.T) {
	tc := timecode.FromFrames(91, timecode.FPS30) // 3.000s
	got := expandImageName("$VIDEO_NAME-Scene-$SCENE_NUMBER-$IMAGE_NUMBER-$FRAME_NUMBER-$TIMESTAMP_MS",
		"clip", 7, 3, 2, 2, tc)
	want := "clip-Scene-007-02-91-3000"
	if got != want {
		t.Errorf("expandImageName = %q, want %q", got, want)
	}
}

func TestResizeForOutputPreservesAspect(t *testing.T) {
	f := frame.FillSolid(40, 20, 1, 2, 3, timecode.Zero(timecode.FPS30))
	out := resizeForOutput(f, ImageOptions{Width: 20})
	if out.Width != 20 || out.Height != 10 {
		t.Errorf("width-only resize got %dx%d, want 20x10", out.Width, out.Height)
	}
	out = resizeForOutput(f, ImageOptions{Scale: 0.5})
	if out.Width != 20 || out.Height != 10 {
		t.Errorf("scale resize got %dx%d, want 20x10", out.Width, out.Height)
	}
	if got := resizeForOutput(f, ImageOptions{}); got != f {
		t.Error("no sizing options should return the source frame")
	}
}
