package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveOTIOProducesValidJSONWithClipsPerScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.otio")
	if err := SaveOTIO(path, testScenes(), "My Timeline"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["name"] != "My Timeline" {
		t.Errorf("name = %v, want My Timeline", doc["name"])
	}

	tracks := doc["tracks"].(map[string]any)
	children := tracks["children"].([]any)
	if len(children) != 1 {
		t.Fatalf("expected one video track, got %d", len(children))
	}
	track := children[0].(map[string]any)
	clips := track["children"].([]any)
	if len(clips) != 2 {
		t.Fatalf("expected two clips (one per scene), got %d", len(clips))
	}
}
