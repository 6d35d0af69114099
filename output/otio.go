package output

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/scene"
)

// otioRationalTime mirrors OpenTimelineIO's RationalTime schema: a
// frame-based value and the rate it is counted at.
type otioRationalTime struct {
	OTIOSchema string  `json:"OTIO_SCHEMA"`
	Value      float64 `json:"value"`
	Rate       float64 `json:"rate"`
}

type otioTimeRange struct {
	OTIOSchema string           `json:"OTIO_SCHEMA"`
	StartTime  otioRationalTime `json:"start_time"`
	Duration   otioRationalTime `json:"duration"`
}

type otioClip struct {
	OTIOSchema  string        `json:"OTIO_SCHEMA"`
	Name        string        `json:"name"`
	SourceRange otioTimeRange `json:"source_range"`
}

type otioTrack struct {
	OTIOSchema string     `json:"OTIO_SCHEMA"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Children   []otioClip `json:"children"`
}

type otioStack struct {
	OTIOSchema string      `json:"OTIO_SCHEMA"`
	Name       string      `json:"name"`
	Children   []otioTrack `json:"children"`
}

type otioTimeline struct {
	OTIOSchema string    `json:"OTIO_SCHEMA"`
	Name       string    `json:"name"`
	Tracks     otioStack `json:"tracks"`
}

// SaveOTIO writes scenes as an OpenTimelineIO timeline JSON document
// with one video track containing one clip per scene, named "scene-N".
func SaveOTIO(path string, scenes []scene.Scene, timelineName string) error {
	track := otioTrack{
		OTIOSchema: "Track.1",
		Name:       "Video",
		Kind:       "Video",
	}
	for i, s := range scenes {
		rate := s.Start.Framerate().Float()
		startVal := float64(s.Start.ToFrames() - 1)
		track.Children = append(track.Children, otioClip{
			OTIOSchema: "Clip.1",
			Name:       sceneName(i),
			SourceRange: otioTimeRange{
				OTIOSchema: "TimeRange.1",
				StartTime:  otioRationalTime{OTIOSchema: "RationalTime.1", Value: startVal, Rate: rate},
				Duration:   otioRationalTime{OTIOSchema: "RationalTime.1", Value: float64(s.Len()), Rate: rate},
			},
		})
	}

	timeline := otioTimeline{
		OTIOSchema: "Timeline.1",
		Name:       timelineName,
		Tracks: otioStack{
			OTIOSchema: "Stack.1",
			Name:       "tracks",
			Children:   []otioTrack{track},
		},
	}

	data, err := json.MarshalIndent(timeline, "", "  ")
	if err != nil {
		return &errs.IoError{Op: "marshal otio timeline", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &errs.IoError{Op: "write otio timeline", Err: err}
	}
	return nil
}

func sceneName(i int) string {
	return "scene-" + strconv.Itoa(i+1)
}
