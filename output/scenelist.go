// Package output renders a finished scene list to the downstream
// formats a human or another tool consumes: a CSV summary, an EDL for
// NLE import, OpenTimelineIO JSON, an x264/x265 QP file, and extracted
// thumbnail images for each scene boundary.
package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/scene"
	"github.com/scenelab/scenedetect/timecode"
)

var sceneListHeader = []string{
	"Scene Number",
	"Start Frame", "Start Timecode", "Start Time (seconds)",
	"End Frame", "End Timecode", "End Time (seconds)",
	"Length (frames)", "Length (timecode)", "Length (seconds)",
}

// SceneListOptions controls SaveSceneListCSV's output.
type SceneListOptions struct {
	// SkipCuts omits the leading "Timecode List:" summary row that
	// otherwise precedes the header, for tools that expect a strict
	// single-header CSV.
	SkipCuts bool
}

// SaveSceneListCSV writes scenes to path as RFC 4180 CSV. Unless
// opts.SkipCuts, the first row is a "Timecode List:" row listing every
// scene boundary timecode, matching the legacy combined summary+table
// format; the header and per-scene rows always follow.
func SaveSceneListCSV(path string, scenes []scene.Scene, opts SceneListOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create scene list csv", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if !opts.SkipCuts {
		row := []string{"Timecode List:"}
		for _, s := range scenes {
			row = append(row, s.Start.ToString())
		}
		if err := w.Write(row); err != nil {
			return &errs.IoError{Op: "write scene list cuts row", Err: err}
		}
	}

	if err := w.Write(sceneListHeader); err != nil {
		return &errs.IoError{Op: "write scene list header", Err: err}
	}

	for i, s := range scenes {
		length := s.Len()
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(s.Start.ToFrames(), 10), s.Start.ToString(), formatSeconds(s.Start.ToSeconds()),
			strconv.FormatInt(s.End.ToFrames(), 10), s.End.ToString(), formatSeconds(s.End.ToSeconds()),
			strconv.FormatInt(length, 10), lengthTimecode(length, s.Start.Framerate()), formatSeconds(s.End.ToSeconds() - s.Start.ToSeconds()),
		}
		if err := w.Write(record); err != nil {
			return &errs.IoError{Op: "write scene list row", Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &errs.IoError{Op: "flush scene list csv", Err: err}
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// lengthTimecode renders a duration of frames at fps as HH:MM:SS.nnn,
// reusing Timecode's own formatting rather than reimplementing the
// modular arithmetic for a plain duration.
func lengthTimecode(frames int64, fps timecode.Framerate) string {
	return timecode.FromFrames(frames+1, fps).ToString()
}
