package timecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scenelab/scenedetect/errs"
)

// Timecode identifies a frame position at a given framerate. The
// internal representation is a 0-based frame index; all public
// constructors and accessors speak in the 1-based convention used for
// display (frame 1 is the first frame of the video, at time 0). The
// comparison and arithmetic methods (Equal, Before, After, Add, Sub,
// DiffFrames) rebase the other operand to the receiver's framerate
// first; they do not reject mixed framerates. Rebase performs that
// conversion explicitly.
type Timecode struct {
	frames int64 // 0-based
	fps    Framerate
}

// Zero returns the Timecode at frame 1 (time 0) for the given framerate.
func Zero(fps Framerate) Timecode {
	return Timecode{frames: 0, fps: fps}
}

// FromFrames builds a Timecode from a 1-based frame number, matching the
// convention that frame 1 is the start of the video.
func FromFrames(n int64, fps Framerate) Timecode {
	return Timecode{frames: n - 1, fps: fps}
}

// FromSeconds builds a Timecode from a duration in seconds since the
// start of the video, rounding to the nearest frame half-up.
func FromSeconds(seconds float64, fps Framerate) Timecode {
	return Timecode{frames: secondsToFrameIndex(seconds, fps), fps: fps}
}

// secondsToFrameIndex converts a duration in seconds to a 0-based frame
// index: frame = round(seconds * fps), rounding half-up.
func secondsToFrameIndex(seconds float64, fps Framerate) int64 {
	exact := seconds * fps.Float()
	if exact < 0 {
		exact = 0
	}
	return int64(exact + 0.5)
}

// FromString parses a textual timecode in one of the formats accepted by
// the core: a bare frame count "N", a seconds value "N[.n]s" or "N.n",
// "HH:MM:SS[.nnn]", or "MM:SS[.nnn]".
func FromString(text string, fps Framerate) (Timecode, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Timecode{}, &errs.TimecodeParseError{Input: text, Reason: "empty string"}
	}

	if strings.Contains(s, ":") {
		return parseClock(s, fps)
	}

	if strings.HasSuffix(s, "s") {
		val, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		if err != nil {
			return Timecode{}, &errs.TimecodeParseError{Input: text, Reason: "invalid seconds value"}
		}
		return FromSeconds(val, fps), nil
	}

	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Timecode{}, &errs.TimecodeParseError{Input: text, Reason: "invalid seconds value"}
		}
		return FromSeconds(val, fps), nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Timecode{}, &errs.TimecodeParseError{Input: text, Reason: "invalid frame count"}
	}
	return FromFrames(n, fps), nil
}

// parseClock parses "HH:MM:SS[.nnn]" or "MM:SS[.nnn]".
func parseClock(s string, fps Framerate) (Timecode, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "expected HH:MM:SS.nnn or MM:SS.nnn"}
	}

	var hours, minutes int64
	var secField string
	switch len(parts) {
	case 3:
		h, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "invalid hours"}
		}
		hours = h
		m, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "invalid minutes"}
		}
		minutes = m
		secField = parts[2]
	case 2:
		m, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "invalid minutes"}
		}
		minutes = m
		secField = parts[1]
	}

	seconds, err := strconv.ParseFloat(secField, 64)
	if err != nil {
		return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "invalid seconds"}
	}
	if minutes < 0 || minutes >= 60 || seconds < 0 || seconds >= 60 {
		return Timecode{}, &errs.TimecodeParseError{Input: s, Reason: "minutes/seconds out of range"}
	}

	total := float64(hours)*3600 + float64(minutes)*60 + seconds
	return FromSeconds(total, fps), nil
}

// ToFrames returns the 1-based frame number.
func (t Timecode) ToFrames() int64 {
	return t.frames + 1
}

// ToSeconds returns the duration in seconds from the start of the video.
func (t Timecode) ToSeconds() float64 {
	return float64(t.frames) * float64(t.fps.Den) / float64(t.fps.Num)
}

// Framerate returns the framerate this Timecode was constructed with.
func (t Timecode) Framerate() Framerate {
	return t.fps
}

// ToString formats the Timecode as HH:MM:SS.nnn with millisecond
// precision, rounding half-up.
func (t Timecode) ToString() string {
	totalMs := int64(t.ToSeconds()*1000 + 0.5)
	if totalMs < 0 {
		totalMs = 0
	}
	ms := totalMs % 1000
	totalSec := totalMs / 1000
	s := totalSec % 60
	totalMin := totalSec / 60
	m := totalMin % 60
	h := totalMin / 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func (t Timecode) String() string {
	return t.ToString()
}

// Rebase converts the Timecode to an equivalent position at a different
// framerate, preserving the nearest frame.
func (t Timecode) Rebase(fps Framerate) Timecode {
	if t.fps.Equal(fps) {
		return Timecode{frames: t.frames, fps: fps}
	}
	return FromSeconds(t.ToSeconds(), fps)
}

// Equal compares frame indices; mixed framerates are first rebased.
func (t Timecode) Equal(o Timecode) bool {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.frames == o.frames
}

// Before reports whether t occurs strictly earlier than o.
func (t Timecode) Before(o Timecode) bool {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.frames < o.frames
}

// After reports whether t occurs strictly later than o.
func (t Timecode) After(o Timecode) bool {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.frames > o.frames
}

// AddFrames returns a Timecode n frames later (n may be negative).
// Subtraction saturates at frame 1 (0-based frame index 0); it never
// goes negative.
func (t Timecode) AddFrames(n int64) Timecode {
	f := t.frames + n
	if f < 0 {
		f = 0
	}
	return Timecode{frames: f, fps: t.fps}
}

// Add returns t shifted later by the frame count o represents (treating
// o as a duration rather than an absolute position), rebased to t's
// framerate first if needed. Frame counts are summed directly rather
// than round-tripped through seconds, matching how frame-indexed
// timecodes are conventionally added and avoiding compounding rounding
// error from a second half-up pass.
func (t Timecode) Add(o Timecode) Timecode {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.AddFrames(o.frames)
}

// Sub returns t minus the duration o represents, saturating at frame 1
// (never negative).
func (t Timecode) Sub(o Timecode) Timecode {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.AddFrames(-o.frames)
}

// AddOffset shifts t by a numeric offset: integer-valued offsets are
// interpreted as a frame count, fractional offsets as seconds.
func (t Timecode) AddOffset(offset float64) Timecode {
	if offset == float64(int64(offset)) {
		return t.AddFrames(int64(offset))
	}
	deltaFrames := secondsToFrameIndex(offset, t.fps)
	if offset < 0 {
		deltaFrames = -secondsToFrameIndex(-offset, t.fps)
	}
	return t.AddFrames(deltaFrames)
}

// DiffFrames returns the number of frames between t and o (t - o),
// positive if t is later, at t's framerate.
func (t Timecode) DiffFrames(o Timecode) int64 {
	if !t.fps.Equal(o.fps) {
		o = o.Rebase(t.fps)
	}
	return t.frames - o.frames
}
