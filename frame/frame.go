// Package frame defines the decoded-frame contract the rest of the core
// operates on: an immutable BGR pixel buffer with a known presentation
// Timecode, and the pull-based Source a detection job drains frames from.
package frame

import (
	"fmt"

	"github.com/scenelab/scenedetect/timecode"
)

// Frame is an immutable view of one decoded picture in BGR channel
// order. Detectors read pixels by offset, so channel order is a
// contract, not an accident: row r, column c, channel b/g/r lives at
// Pix[r*Stride + c*3 + {0,1,2}].
type Frame struct {
	Width  int
	Height int
	Stride int // bytes per row; Stride >= Width*3
	Pix    []byte
	PTS    timecode.Timecode
}

// New allocates a Frame with a tightly packed stride (Width*3).
func New(width, height int, pts timecode.Timecode) *Frame {
	stride := width * 3
	return &Frame{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
		PTS:    pts,
	}
}

// At returns the BGR triplet at (x, y).
func (f *Frame) At(x, y int) (b, g, r byte) {
	o := y*f.Stride + x*3
	return f.Pix[o], f.Pix[o+1], f.Pix[o+2]
}

// Set writes the BGR triplet at (x, y).
func (f *Frame) Set(x, y int, b, g, r byte) {
	o := y*f.Stride + x*3
	f.Pix[o] = b
	f.Pix[o+1] = g
	f.Pix[o+2] = r
}

// Clone returns a deep copy of f, for detectors that must retain pixel
// data past their process call (Frame references may not outlive a
// single dispatch iteration; detectors that need history must copy).
func (f *Frame) Clone() *Frame {
	cp := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Stride: f.Stride,
		Pix:    make([]byte, len(f.Pix)),
		PTS:    f.PTS,
	}
	copy(cp.Pix, f.Pix)
	return cp
}

// String implements fmt.Stringer for log lines.
func (f *Frame) String() string {
	return fmt.Sprintf("frame{%dx%d @ %s}", f.Width, f.Height, f.PTS)
}
