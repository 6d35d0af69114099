package frame

import (
	"testing"

	"github.com/scenelab/scenedetect/timecode"
)

func TestAutoDownscaleFactor(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want int
	}{
		{"already small", 320, 240, 1},
		{"exactly at target", 400, 300, 1},
		{"sd", 720, 480, 2},
		{"hd", 1920, 1080, 5},
		{"4k", 3840, 2160, 10},
		{"portrait", 1080, 1920, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoDownscaleFactor(tt.w, tt.h); got != tt.want {
				t.Errorf("AutoDownscaleFactor(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestCrop(t *testing.T) {
	fps := timecode.FPS30
	src := New(8, 6, timecode.FromFrames(5, fps))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, byte(x), byte(y), byte(x+y))
		}
	}

	out, err := Crop(src, Rect{X: 2, Y: 1, W: 4, H: 3})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if out.Width != 4 || out.Height != 3 {
		t.Fatalf("got %dx%d, want 4x3", out.Width, out.Height)
	}
	if !out.PTS.Equal(src.PTS) {
		t.Errorf("crop changed PTS: %s != %s", out.PTS, src.PTS)
	}
	b, g, r := out.At(0, 0)
	if b != 2 || g != 1 || r != 3 {
		t.Errorf("At(0,0) = (%d,%d,%d), want (2,1,3)", b, g, r)
	}
	b, g, r = out.At(3, 2)
	if b != 5 || g != 3 || r != 8 {
		t.Errorf("At(3,2) = (%d,%d,%d), want (5,3,8)", b, g, r)
	}

	// Mutating the crop must not touch the source.
	out.Set(0, 0, 99, 99, 99)
	if b, _, _ := src.At(2, 1); b != 2 {
		t.Error("crop aliases the source pixel buffer")
	}
}

func TestCropRejectsOutOfBounds(t *testing.T) {
	src := New(8, 6, timecode.Zero(timecode.FPS30))
	for _, r := range []Rect{
		{X: -1, Y: 0, W: 4, H: 4},
		{X: 0, Y: 0, W: 9, H: 4},
		{X: 6, Y: 0, W: 4, H: 4},
		{X: 0, Y: 0, W: 0, H: 4},
	} {
		if _, err := Crop(src, r); err == nil {
			t.Errorf("Crop(%+v) succeeded, want error", r)
		}
	}
}

func TestDownscaleNearest(t *testing.T) {
	fps := timecode.FPS30
	src := New(4, 4, timecode.FromFrames(1, fps))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := byte(y*4 + x)
			src.Set(x, y, v, v, v)
		}
	}
	out := Downscale(src, 2, ScaleNearest)
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", out.Width, out.Height)
	}
	// Nearest picks the top-left pixel of each 2x2 block.
	for _, tt := range []struct {
		x, y int
		want byte
	}{{0, 0, 0}, {1, 0, 2}, {0, 1, 8}, {1, 1, 10}} {
		if b, _, _ := out.At(tt.x, tt.y); b != tt.want {
			t.Errorf("At(%d,%d) = %d, want %d", tt.x, tt.y, b, tt.want)
		}
	}
}

func TestDownscaleLinear(t *testing.T) {
	src := New(4, 4, timecode.Zero(timecode.FPS30))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := byte(y*4 + x)
			src.Set(x, y, v, v, v)
		}
	}
	out := Downscale(src, 2, ScaleLinear)
	// Linear averages each 2x2 block: (0+1+4+5)/4 = 2 for the first.
	for _, tt := range []struct {
		x, y int
		want byte
	}{{0, 0, 2}, {1, 0, 4}, {0, 1, 10}, {1, 1, 12}} {
		if b, _, _ := out.At(tt.x, tt.y); b != tt.want {
			t.Errorf("At(%d,%d) = %d, want %d", tt.x, tt.y, b, tt.want)
		}
	}
}

func TestDownscaleFactorOneIsIdentity(t *testing.T) {
	src := New(4, 4, timecode.Zero(timecode.FPS30))
	if out := Downscale(src, 1, ScaleNearest); out != src {
		t.Error("factor 1 should return the source frame unchanged")
	}
	if out := Downscale(src, 0, ScaleNearest); out != src {
		t.Error("factor 0 should return the source frame unchanged")
	}
}
