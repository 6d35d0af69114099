package detect

// rgbToHSV converts a BGR pixel to HSV using integer-only arithmetic
// (scaled by 1<<16 for the hue computation) so delta_hue/sat/lum stay
// bit-for-bit stable across platforms; a floating-point path would
// introduce platform-specific rounding in the fractional hue term. All
// three components are returned scaled to [0, 255].
func rgbToHSV(b, g, r byte) (h, s, v byte) {
	maxC := maxByte3(r, g, b)
	minC := minByte3(r, g, b)
	v = maxC

	delta := int(maxC) - int(minC)
	if maxC == 0 {
		s = 0
	} else {
		s = byte(delta * 255 / int(maxC))
	}

	if delta == 0 {
		h = 0
		return
	}

	// hue60 is the hue angle in units of 60 degrees, scaled by 1<<16 for
	// integer fixed-point precision, folded into [0, 6<<16).
	const scale = 1 << 16
	var hue60 int
	switch maxC {
	case r:
		hue60 = ((int(g) - int(b)) * scale) / delta
		hue60 %= 6 * scale
	case g:
		hue60 = ((int(b)-int(r))*scale)/delta + 2*scale
	default:
		hue60 = ((int(r)-int(g))*scale)/delta + 4*scale
	}
	if hue60 < 0 {
		hue60 += 6 * scale
	}

	// hue60 is in [0, 6<<16); map to degrees [0, 360) then to [0, 255].
	hueDeg := hue60 * 60 / scale
	h = byte((hueDeg * 255) / 360)
	return
}

// hueDistance returns the cylindrical (wrap-around) distance between two
// hue values on the scaled hue ring, where 255 stands for 360 degrees and
// so coincides with 0 (the ring has 255 steps). A hue near 0 and a hue
// near 255 are recognized as close rather than maximally different.
func hueDistance(a, b byte) byte {
	d := absInt(int(a) - int(b))
	if d > 127 {
		d = 255 - d
	}
	return byte(d)
}

// rgbToLuma returns the ITU-R BT.601 luma of a BGR pixel, used by the
// edge pipeline's grayscale conversion and the perceptual-hash
// detector.
func rgbToLuma(b, g, r byte) byte {
	y := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return clampByte(y)
}

// rgbToYCbCr converts a BGR pixel to Y'CbCr (ITU-R BT.601, full range),
// used by the histogram detector.
func rgbToYCbCr(b, g, r byte) (y, cb, cr byte) {
	fr, fg, fb := float64(r), float64(g), float64(b)
	y = clampByte(0.299*fr + 0.587*fg + 0.114*fb)
	cb = clampByte(128 - 0.168736*fr - 0.331264*fg + 0.5*fb)
	cr = clampByte(128 + 0.5*fr - 0.418688*fg - 0.081312*fb)
	return
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

func maxByte3(a, b, c byte) byte {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minByte3(a, b, c byte) byte {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
