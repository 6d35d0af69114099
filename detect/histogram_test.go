package detect

import (
	"testing"

	"github.com/scenelab/scenedetect/stats"
	"github.com/scenelab/scenedetect/timecode"
)

func TestHistogramDetectorNoCutOnIdenticalFrames(t *testing.T) {
	d, err := NewHistogramDetector(DefaultHistogramOptions())
	if err != nil {
		t.Fatal(err)
	}
	table := stats.NewManager(timecode.FPS30)

	f1 := solidFrame(8, 8, 40, 80, 120, 1, timecode.FPS30)
	f2 := solidFrame(8, 8, 40, 80, 120, 2, timecode.FPS30)

	if _, err := d.ProcessFrame(f1, table); err != nil {
		t.Fatal(err)
	}
	cuts, err := d.ProcessFrame(f2, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(cuts) != 0 {
		t.Fatalf("expected no cut on identical frames, got %d", len(cuts))
	}
}

func TestHistogramDetectorCutsOnDistributionShift(t *testing.T) {
	d, err := NewHistogramDetector(DefaultHistogramOptions())
	if err != nil {
		t.Fatal(err)
	}
	table := stats.NewManager(timecode.FPS30)

	dark := solidFrame(8, 8, 5, 5, 5, 1, timecode.FPS30)
	bright := solidFrame(8, 8, 250, 250, 250, 2, timecode.FPS30)

	if _, err := d.ProcessFrame(dark, table); err != nil {
		t.Fatal(err)
	}
	cuts, err := d.ProcessFrame(bright, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(cuts) != 1 {
		t.Fatalf("expected one cut on a dark->bright histogram shift, got %d", len(cuts))
	}
}

func TestNewHistogramDetectorRejectsBadBinCount(t *testing.T) {
	opts := DefaultHistogramOptions()
	opts.Bins = 7 // does not divide 256
	if _, err := NewHistogramDetector(opts); err == nil {
		t.Fatal("expected error for bin count that does not divide 256")
	}
}

func TestPearsonCorrelationIdenticalVectors(t *testing.T) {
	a := []float64{0.1, 0.2, 0.3, 0.4}
	if c := pearsonCorrelation(a, a); c < 0.999 {
		t.Errorf("self-correlation = %v, want ~1", c)
	}
}

func TestPearsonCorrelationZeroVariance(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{2, 3, 1, 5}
	if c := pearsonCorrelation(a, b); c != 0 {
		t.Errorf("zero-variance correlation = %v, want 0", c)
	}
}
