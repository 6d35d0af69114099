package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/scene"
	"github.com/scenelab/scenedetect/timecode"
)

// SaveEDL writes scenes as a CMX 3600 edit decision list, one cut-only
// event per scene, title taken from titlePrefix plus a 1-based scene
// number. EDL timecodes always use a non-drop HH:MM:SS:FF form (a colon
// before the frame count rather than a period), so the frame component
// is computed directly rather than reusing Timecode.ToString.
func SaveEDL(path string, scenes []scene.Scene, titlePrefix string) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create edl", Err: err}
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", titlePrefix)
	fmt.Fprintln(&b, "FCM: NON-DROP FRAME")
	fmt.Fprintln(&b)

	for i, s := range scenes {
		event := i + 1
		fmt.Fprintf(&b, "%03d  AX       V     C        %s %s %s %s\n",
			event,
			edlTimecode(s.Start), edlTimecode(s.End), edlTimecode(s.Start), edlTimecode(s.End),
		)
		fmt.Fprintf(&b, "* FROM CLIP NAME: %s %03d\n\n", titlePrefix, event)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return &errs.IoError{Op: "write edl", Err: err}
	}
	return nil
}

// edlTimecode formats t as HH:MM:SS:FF, the CMX 3600 convention,
// deriving the frame-of-second component from the rounded framerate
// since EDL does not carry fractional framerates.
func edlTimecode(t timecode.Timecode) string {
	fps := t.Framerate()
	nominal := int64(fps.Float() + 0.5)
	if nominal <= 0 {
		nominal = 1
	}
	totalFrames := t.ToFrames() - 1
	ff := totalFrames % nominal
	totalSec := totalFrames / nominal
	ss := totalSec % 60
	totalMin := totalSec / 60
	mm := totalMin % 60
	hh := totalMin / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}
