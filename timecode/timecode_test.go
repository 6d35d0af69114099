package timecode

import (
	"math/rand"
	"testing"
)

func TestFromFramesToFrames(t *testing.T) {
	tc := FromFrames(1, FPS30)
	if tc.ToFrames() != 1 {
		t.Errorf("ToFrames() = %d, want 1", tc.ToFrames())
	}
	if tc.ToSeconds() != 0 {
		t.Errorf("ToSeconds() = %v, want 0", tc.ToSeconds())
	}
}

func TestFromSecondsExactFramerate(t *testing.T) {
	tc := FromSeconds(10, FPS30)
	if got := tc.ToFrames(); got != 301 {
		t.Errorf("ToFrames() = %d, want 301", got)
	}
	if got := tc.ToString(); got != "00:00:10.000" {
		t.Errorf("ToString() = %q, want 00:00:10.000", got)
	}
}

func TestNTSCRoundTrip(t *testing.T) {
	// At 24000/1001 fps, round(60 * 24000/1001) = 1439 (0-based), i.e.
	// public frame 1440. This follows directly from the round-half-up
	// conversion rule; it does not match a decimal frame-number guess
	// because 24000/1001 never divides 60s evenly.
	tc, err := FromString("00:01:00.000", NTSC23976)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if got := tc.ToFrames(); got != 1440 {
		t.Errorf("ToFrames() = %d, want 1440", got)
	}

	back, err := FromString(tc.ToString(), NTSC23976)
	if err != nil {
		t.Fatalf("FromString(ToString()): %v", err)
	}
	if back.ToFrames() != tc.ToFrames() {
		t.Errorf("round-trip mismatch: got %d, want %d", back.ToFrames(), tc.ToFrames())
	}
}

func TestRoundTripRandomFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		n := int64(rng.Intn(2_000_000))
		tc := FromFrames(n+1, NTSC23976)
		s := tc.ToString()
		back, err := FromString(s, NTSC23976)
		if err != nil {
			t.Fatalf("FromString(%q): %v", s, err)
		}
		if back.ToFrames() != tc.ToFrames() {
			t.Errorf("frame %d: round trip gave %d via %q", tc.ToFrames(), back.ToFrames(), s)
		}
	}
}

func TestParseFormats(t *testing.T) {
	cases := []struct {
		in   string
		want int64 // expected 1-based frame at FPS30
	}{
		{"1", 1},
		{"301", 301},
		{"10s", 301},
		{"10.0s", 301},
		{"10.0", 301},
		{"00:00:10.000", 301},
		{"00:10.000", 301},
	}
	for _, c := range cases {
		tc, err := FromString(c.in, FPS30)
		if err != nil {
			t.Fatalf("FromString(%q): %v", c.in, err)
		}
		if got := tc.ToFrames(); got != c.want {
			t.Errorf("FromString(%q).ToFrames() = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "not-a-number", "1:2:3:4", "00:70:00.000"}
	for _, c := range cases {
		if _, err := FromString(c, FPS30); err == nil {
			t.Errorf("FromString(%q) expected error, got nil", c)
		}
	}
}

func TestAdditionAtIntegerFramerate(t *testing.T) {
	a, _ := FromString("00:00:30.000", FPS30)
	b, _ := FromString("00:00:30.000", FPS30)
	sum := a.Add(b)
	want, _ := FromString("00:01:00.000", FPS30)
	if sum.ToFrames() != want.ToFrames() {
		t.Errorf("sum.ToFrames() = %d, want %d", sum.ToFrames(), want.ToFrames())
	}
	if sum.ToString() != "00:01:00.000" {
		t.Errorf("sum.ToString() = %q, want 00:01:00.000", sum.ToString())
	}
}

func TestSubtractionSaturatesAtZero(t *testing.T) {
	a := FromFrames(5, FPS30)
	b := FromFrames(100, FPS30)
	diff := a.Sub(b)
	if diff.ToFrames() != 1 {
		t.Errorf("Sub() should saturate to frame 1, got %d", diff.ToFrames())
	}
}

func TestAddOffsetFramesVsSeconds(t *testing.T) {
	tc := FromFrames(1, FPS30)
	byFrames := tc.AddOffset(30) // integer -> frames
	if byFrames.ToFrames() != 31 {
		t.Errorf("AddOffset(30) = %d, want 31", byFrames.ToFrames())
	}
	bySeconds := tc.AddOffset(1.0000001) // fractional -> seconds, ~1 second (30 frames) at 30fps
	if bySeconds.ToFrames() != 31 {
		t.Errorf("AddOffset(1.0000001) = %d, want 31", bySeconds.ToFrames())
	}
}

func TestFramerateEqual(t *testing.T) {
	a := Framerate{Num: 30, Den: 1}
	b := Framerate{Num: 60, Den: 2}
	if !a.Equal(b) {
		t.Errorf("30/1 should equal 60/2")
	}
}

func TestRebase(t *testing.T) {
	tc := FromFrames(301, FPS30) // 10 seconds
	rebased := tc.Rebase(FPS60)
	if got := rebased.ToSeconds(); got != 10.0 {
		t.Errorf("Rebase() ToSeconds() = %v, want 10.0", got)
	}
}
