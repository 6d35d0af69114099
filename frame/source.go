package frame

import (
	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/timecode"
)

// Source is a polymorphic, single-consumer handle onto a decoded frame
// stream: a known framerate and resolution, an optional seek, and a
// blocking Read that yields frames in monotonic presentation order.
//
// Read returns errs.ErrEndOfStream when the stream is exhausted. A
// transient decode failure is reported as an *errs.DecodeError with
// Fatal=false (the caller should advance its frame counter and continue
// without a delivered Frame); Fatal=true means the source cannot
// recover and the job should stop.
type Source interface {
	// Framerate returns the nominal framerate. It is constant for the
	// lifetime of the source even when the underlying stream is VFR;
	// callers are responsible for stamping monotonic per-frame
	// timecodes from the nominal rate in that case.
	Framerate() timecode.Framerate

	// FrameSize returns the decoded frame width and height in pixels.
	FrameSize() (width, height int)

	// Duration returns the total stream duration and true, or the zero
	// value and false if the duration is unknown (e.g. a live source).
	Duration() (timecode.Timecode, bool)

	// Position returns the Timecode of the next frame Read will return.
	Position() timecode.Timecode

	// Seek moves the read position so the next Read returns the frame
	// at t, or the next frame present for a VFR source. Returns
	// errs.ErrUnsupportedOperation if the source is not seekable.
	Seek(t timecode.Timecode) error

	// Read blocks until the next frame is available, returns
	// errs.ErrEndOfStream at the end of the stream, or returns an
	// *errs.DecodeError on a decode failure.
	Read() (*Frame, error)
}

// Seekable reports whether src supports Seek, without attempting the
// seek (a source can implement Source while always returning
// errs.ErrUnsupportedOperation from Seek; this helper lets callers avoid
// the round trip when the answer is static).
type Seekable interface {
	CanSeek() bool
}

// TrySeek seeks src if it advertises seek support via Seekable,
// otherwise returns errs.ErrUnsupportedOperation without calling Seek.
func TrySeek(src Source, t timecode.Timecode) error {
	if s, ok := src.(Seekable); ok && !s.CanSeek() {
		return errs.ErrUnsupportedOperation
	}
	return src.Seek(t)
}
