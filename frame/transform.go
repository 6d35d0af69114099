package frame

import (
	"fmt"

	"github.com/scenelab/scenedetect/errs"
)

// Rect is a crop region in source pixel coordinates.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

// Valid reports whether the rectangle has positive area and lies fully
// inside a width x height frame.
func (r Rect) Valid(width, height int) bool {
	return r.W > 0 && r.H > 0 &&
		r.X >= 0 && r.Y >= 0 &&
		r.X+r.W <= width && r.Y+r.H <= height
}

// ScaleMethod selects the sampling used when downscaling a frame.
type ScaleMethod int

const (
	// ScaleNearest picks the nearest source pixel. Cheapest, and the
	// historical default.
	ScaleNearest ScaleMethod = iota
	// ScaleLinear averages the source block each output pixel covers,
	// which keeps edge-detection scores more stable under camera motion.
	ScaleLinear
)

func (m ScaleMethod) String() string {
	switch m {
	case ScaleNearest:
		return "nearest"
	case ScaleLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// autoDownscaleTarget is the largest dimension, in pixels, that
// AutoDownscaleFactor aims for. Detector scores stabilize well before
// this resolution, so decoding work beyond it is wasted.
const autoDownscaleTarget = 400

// AutoDownscaleFactor returns the smallest integer factor that brings
// the larger of width/height to at most the auto target, never less
// than 1.
func AutoDownscaleFactor(width, height int) int {
	larger := width
	if height > larger {
		larger = height
	}
	if larger <= autoDownscaleTarget {
		return 1
	}
	return (larger + autoDownscaleTarget - 1) / autoDownscaleTarget
}

// Crop returns a new Frame holding the pixels of f inside r, preserving
// the presentation timecode. The returned frame owns its own pixel
// buffer; it is not a view into f.
func Crop(f *Frame, r Rect) (*Frame, error) {
	if !r.Valid(f.Width, f.Height) {
		return nil, &errs.ConfigError{
			Option: "crop",
			Reason: fmt.Sprintf("rectangle %dx%d+%d+%d outside %dx%d frame", r.W, r.H, r.X, r.Y, f.Width, f.Height),
		}
	}
	out := New(r.W, r.H, f.PTS)
	for y := 0; y < r.H; y++ {
		src := (r.Y+y)*f.Stride + r.X*3
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], f.Pix[src:src+r.W*3])
	}
	return out, nil
}

// Downscale returns f reduced by an integer factor using the given
// sampling method, preserving the presentation timecode. A factor of 1
// (or less) returns f unchanged.
func Downscale(f *Frame, factor int, method ScaleMethod) *Frame {
	if factor <= 1 {
		return f
	}
	w := f.Width / factor
	h := f.Height / factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := New(w, h, f.PTS)
	switch method {
	case ScaleLinear:
		downscaleLinear(f, out, factor)
	default:
		downscaleNearest(f, out, factor)
	}
	return out
}

func downscaleNearest(src, dst *Frame, factor int) {
	for y := 0; y < dst.Height; y++ {
		sy := y * factor
		for x := 0; x < dst.Width; x++ {
			b, g, r := src.At(x*factor, sy)
			dst.Set(x, y, b, g, r)
		}
	}
}

// downscaleLinear box-averages the factor x factor source block behind
// each output pixel, clamped at the right/bottom edges when the source
// dimensions are not exact multiples of factor.
func downscaleLinear(src, dst *Frame, factor int) {
	for y := 0; y < dst.Height; y++ {
		y0 := y * factor
		y1 := y0 + factor
		if y1 > src.Height {
			y1 = src.Height
		}
		for x := 0; x < dst.Width; x++ {
			x0 := x * factor
			x1 := x0 + factor
			if x1 > src.Width {
				x1 = src.Width
			}
			var sb, sg, sr, n int
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					b, g, r := src.At(sx, sy)
					sb += int(b)
					sg += int(g)
					sr += int(r)
					n++
				}
			}
			dst.Set(x, y, byte(sb/n), byte(sg/n), byte(sr/n))
		}
	}
}
