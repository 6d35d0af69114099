// Package timecode converts among frame numbers, seconds, and
// HH:MM:SS.nnn strings at arbitrary framerates, including NTSC-style
// fractional rates such as 24000/1001, with exact rational arithmetic
// so repeated conversions never accumulate rounding drift.
package timecode

import (
	"fmt"

	"github.com/scenelab/scenedetect/errs"
)

// Framerate is a rational frames-per-second value, stored as a fraction
// rather than a float64 so NTSC rates (30000/1001, 24000/1001, ...) are
// exact instead of approximated.
type Framerate struct {
	Num int64
	Den int64
}

// Common framerates used throughout the detector and pipeline tests.
var (
	FPS24     = Framerate{Num: 24, Den: 1}
	FPS25     = Framerate{Num: 25, Den: 1}
	FPS30     = Framerate{Num: 30, Den: 1}
	FPS50     = Framerate{Num: 50, Den: 1}
	FPS60     = Framerate{Num: 60, Den: 1}
	NTSC2997  = Framerate{Num: 30000, Den: 1001}
	NTSC23976 = Framerate{Num: 24000, Den: 1001}
	NTSCFilm  = NTSC23976
	NTSCVideo = NTSC2997
)

// NewFramerate builds a Framerate from a numerator and denominator,
// rejecting non-positive values per the Timecode invariant that
// framerate must be > 0.
func NewFramerate(num, den int64) (Framerate, error) {
	if den <= 0 {
		return Framerate{}, &errs.ConfigError{Option: "framerate", Reason: fmt.Sprintf("denominator must be positive, got %d", den)}
	}
	if num <= 0 {
		return Framerate{}, &errs.ConfigError{Option: "framerate", Reason: fmt.Sprintf("numerator must be positive, got %d", num)}
	}
	return Framerate{Num: num, Den: den}, nil
}

// Float returns the framerate as a floating-point approximation. It is
// used for display and wherever frames meet floating-point seconds
// (FromSeconds and seconds parsing); frame-to-frame arithmetic stays on
// integer frame indices.
func (r Framerate) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Equal reports whether two framerates denote the same rate, independent
// of how the fraction is reduced (e.g. 30/1 and 60/2).
func (r Framerate) Equal(o Framerate) bool {
	return r.Num*o.Den == o.Num*r.Den
}

func (r Framerate) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
