package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scenelab/scenedetect/scene"
	"github.com/scenelab/scenedetect/timecode"
)

func testScenes() []scene.Scene {
	fps := timecode.FPS30
	return []scene.Scene{
		{Start: timecode.FromFrames(1, fps), End: timecode.FromFrames(31, fps)},
		{Start: timecode.FromFrames(31, fps), End: timecode.FromFrames(91, fps)},
	}
}

func TestSaveSceneListCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.csv")
	if err := SaveSceneListCSV(path, testScenes(), SceneListOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "Timecode List:") {
		t.Error("expected leading cuts summary row")
	}
	if !strings.Contains(content, "Scene Number") {
		t.Error("expected header row")
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 4 { // cuts row + header + 2 scene rows
		t.Errorf("got %d lines, want 4", len(lines))
	}
}

func TestSaveSceneListCSVSkipCuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.csv")
	if err := SaveSceneListCSV(path, testScenes(), SceneListOptions{SkipCuts: true}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Timecode List:") {
		t.Error("expected no cuts summary row when SkipCuts is set")
	}
}
