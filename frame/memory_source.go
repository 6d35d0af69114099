package frame

import (
	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/timecode"
)

// MemorySource is a Source backed by a pre-built slice of Frames, used by
// tests and by short-lived tools that already have decoded frames in
// memory. It is seekable and reports an exact Duration.
type MemorySource struct {
	frames []*Frame
	fps    timecode.Framerate
	width  int
	height int
	pos    int
}

// NewMemorySource builds a MemorySource over frames, which must already
// carry monotonically increasing PTS values at fps.
func NewMemorySource(frames []*Frame, fps timecode.Framerate) *MemorySource {
	w, h := 0, 0
	if len(frames) > 0 {
		w, h = frames[0].Width, frames[0].Height
	}
	return &MemorySource{frames: frames, fps: fps, width: w, height: h}
}

func (s *MemorySource) Framerate() timecode.Framerate { return s.fps }

func (s *MemorySource) FrameSize() (int, int) { return s.width, s.height }

func (s *MemorySource) Duration() (timecode.Timecode, bool) {
	if len(s.frames) == 0 {
		return timecode.Timecode{}, false
	}
	return timecode.FromFrames(int64(len(s.frames))+1, s.fps), true
}

func (s *MemorySource) Position() timecode.Timecode {
	if s.pos >= len(s.frames) {
		if len(s.frames) == 0 {
			return timecode.FromFrames(1, s.fps)
		}
		return s.frames[len(s.frames)-1].PTS.AddFrames(1)
	}
	return s.frames[s.pos].PTS
}

func (s *MemorySource) CanSeek() bool { return true }

func (s *MemorySource) Seek(t timecode.Timecode) error {
	target := t.ToFrames()
	for i, f := range s.frames {
		if f.PTS.ToFrames() >= target {
			s.pos = i
			return nil
		}
	}
	s.pos = len(s.frames)
	return nil
}

func (s *MemorySource) Read() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, errs.ErrEndOfStream
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Advance skips n frames without returning them, used to emulate
// frame_skip at the source level in tests.
func (s *MemorySource) Advance(n int) {
	s.pos += n
	if s.pos > len(s.frames) {
		s.pos = len(s.frames)
	}
}

// FillSolid returns a Frame of the given size filled with one BGR color,
// used to synthesize constant-content test video.
func FillSolid(width, height int, b, g, r byte, pts timecode.Timecode) *Frame {
	f := New(width, height, pts)
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = b
		f.Pix[i+1] = g
		f.Pix[i+2] = r
	}
	return f
}

// FillPattern returns a Frame whose pixel value varies with position,
// useful for edge-detection and histogram tests that need non-trivial
// gradients rather than a flat color.
func FillPattern(width, height int, seed byte, pts timecode.Timecode) *Frame {
	f := New(width, height, pts)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := byte((x*7 + y*13 + int(seed)*29) % 256)
			f.Set(x, y, v, byte((int(v)+85)%256), byte((int(v)+170)%256))
		}
	}
	return f
}
