package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/scene"
)

// SaveQPFile writes a QP (quantization/keyframe) file in the format x264
// and x265 accept via -qpfile: one "<frame> <type>" line per forced
// keyframe, where type 'I' forces an IDR at that frame and 'K' forces a
// regular keyframe. Every scene's start frame becomes a forced IDR; the
// very first frame is included only if scenes[0] starts there (a
// separate leading cut would otherwise be redundant with the encoder's
// own first-frame keyframe).
func SaveQPFile(path string, scenes []scene.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create qp file", Err: err}
	}
	defer f.Close()

	var b strings.Builder
	for _, s := range scenes {
		fmt.Fprintf(&b, "%d I\n", s.Start.ToFrames()-1)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return &errs.IoError{Op: "write qp file", Err: err}
	}
	return nil
}
