package frame

import (
	"testing"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/timecode"
)

func TestFrameSetAt(t *testing.T) {
	f := New(4, 2, timecode.FromFrames(1, timecode.FPS30))
	f.Set(1, 1, 10, 20, 30)
	b, g, r := f.At(1, 1)
	if b != 10 || g != 20 || r != 30 {
		t.Errorf("At(1,1) = (%d,%d,%d), want (10,20,30)", b, g, r)
	}
}

func TestFrameClone(t *testing.T) {
	f := FillSolid(2, 2, 1, 2, 3, timecode.FromFrames(1, timecode.FPS30))
	cp := f.Clone()
	cp.Set(0, 0, 9, 9, 9)
	b, _, _ := f.At(0, 0)
	if b != 1 {
		t.Errorf("mutating clone affected original: b=%d", b)
	}
}

func TestMemorySourceReadUntilEnd(t *testing.T) {
	var frames []*Frame
	for i := 0; i < 3; i++ {
		pts := timecode.FromFrames(int64(i+1), timecode.FPS30)
		frames = append(frames, FillSolid(2, 2, 0, 0, 0, pts))
	}
	src := NewMemorySource(frames, timecode.FPS30)

	for i := 0; i < 3; i++ {
		f, err := src.Read()
		if err != nil {
			t.Fatalf("Read() #%d: %v", i, err)
		}
		if f.PTS.ToFrames() != int64(i+1) {
			t.Errorf("frame %d PTS = %d, want %d", i, f.PTS.ToFrames(), i+1)
		}
	}
	if _, err := src.Read(); err != errs.ErrEndOfStream {
		t.Errorf("Read() at end = %v, want ErrEndOfStream", err)
	}
}

func TestMemorySourceSeek(t *testing.T) {
	var frames []*Frame
	for i := 0; i < 10; i++ {
		pts := timecode.FromFrames(int64(i+1), timecode.FPS30)
		frames = append(frames, FillSolid(1, 1, 0, 0, 0, pts))
	}
	src := NewMemorySource(frames, timecode.FPS30)
	if err := src.Seek(timecode.FromFrames(5, timecode.FPS30)); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	f, err := src.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.PTS.ToFrames() != 5 {
		t.Errorf("after Seek(5), Read() gave frame %d", f.PTS.ToFrames())
	}
}
