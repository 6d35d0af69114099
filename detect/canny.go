package detect

import (
	"math"

	"github.com/scenelab/scenedetect/frame"
)

// grayImage is a single-channel 8-bit image used internally by the edge
// pipeline. It exists separately from frame.Frame because every stage
// (blur, gradient, suppression) needs a plain rectangular buffer rather
// than a BGR-interleaved one.
type grayImage struct {
	w, h int
	pix  []byte
}

func newGrayImage(w, h int) *grayImage {
	return &grayImage{w: w, h: h, pix: make([]byte, w*h)}
}

func (g *grayImage) at(x, y int) byte {
	if x < 0 {
		x = 0
	}
	if x >= g.w {
		x = g.w - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.h {
		y = g.h - 1
	}
	return g.pix[y*g.w+x]
}

// toLuma converts a BGR frame to grayscale using rgbToLuma.
func toLuma(f *frame.Frame) *grayImage {
	g := newGrayImage(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, gr, r := f.At(x, y)
			g.pix[y*f.Width+x] = rgbToLuma(b, gr, r)
		}
	}
	return g
}

// gaussianKernel1D builds a normalized 1-D Gaussian kernel of the given
// odd size and sigma.
func gaussianKernel1D(size int, sigma float64) []float64 {
	if size%2 == 0 {
		size++
	}
	half := size / 2
	k := make([]float64, size)
	sum := 0.0
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+half] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlur applies a separable Gaussian blur of the given kernel
// size and sigma.
func gaussianBlur(src *grayImage, size int, sigma float64) *grayImage {
	k := gaussianKernel1D(size, sigma)
	half := len(k) / 2

	tmp := newGrayImage(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			var acc float64
			for i, wgt := range k {
				acc += wgt * float64(src.at(x+i-half, y))
			}
			tmp.pix[y*src.w+x] = clampByte(acc)
		}
	}

	out := newGrayImage(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			var acc float64
			for i, wgt := range k {
				acc += wgt * float64(tmp.at(x, y+i-half))
			}
			out.pix[y*src.w+x] = clampByte(acc)
		}
	}
	return out
}

// sobelGradients computes the horizontal and vertical Sobel gradients.
func sobelGradients(src *grayImage) (gx, gy []float64) {
	gx = make([]float64, src.w*src.h)
	gy = make([]float64, src.w*src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			tl, tc, tr := float64(src.at(x-1, y-1)), float64(src.at(x, y-1)), float64(src.at(x+1, y-1))
			ml, _, mr := float64(src.at(x-1, y)), float64(src.at(x, y)), float64(src.at(x+1, y))
			bl, bc, br := float64(src.at(x-1, y+1)), float64(src.at(x, y+1)), float64(src.at(x+1, y+1))

			idx := y*src.w + x
			gx[idx] = (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy[idx] = (bl + 2*bc + br) - (tl + 2*tc + tr)
		}
	}
	return
}

// nonMaxSuppress thins gradient magnitude ridges to single-pixel width
// by zeroing any pixel whose magnitude is not a local maximum along its
// gradient direction.
func nonMaxSuppress(gx, gy []float64, w, h int) []float64 {
	mag := make([]float64, w*h)
	for i := range mag {
		mag[i] = math.Hypot(gx[i], gy[i])
	}

	out := make([]float64, w*h)
	at := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			m := mag[idx]
			if m == 0 {
				continue
			}
			angle := math.Atan2(gy[idx], gx[idx]) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}

			var n1, n2 float64
			switch {
			case angle < 22.5 || angle >= 157.5:
				n1, n2 = at(x-1, y), at(x+1, y)
			case angle < 67.5:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			case angle < 112.5:
				n1, n2 = at(x, y-1), at(x, y+1)
			default:
				n1, n2 = at(x+1, y-1), at(x-1, y+1)
			}

			if m >= n1 && m >= n2 {
				out[idx] = m
			}
		}
	}
	return out
}

// hysteresisThreshold classifies suppressed gradient magnitudes into a
// binary edge map: pixels above highThresh are strong edges; pixels
// above lowThresh that are 8-connected to a strong edge are promoted to
// edges as well.
func hysteresisThreshold(mag []float64, w, h int, lowThresh, highThresh float64) []bool {
	strong := make([]bool, w*h)
	weak := make([]bool, w*h)
	for i, m := range mag {
		if m >= highThresh {
			strong[i] = true
		} else if m >= lowThresh {
			weak[i] = true
		}
	}

	edges := make([]bool, w*h)
	copy(edges, strong)

	// Flood-fill promote weak pixels connected to a strong edge.
	var stack []int
	for i, s := range strong {
		if s {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%w, idx/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if weak[nidx] && !edges[nidx] {
					edges[nidx] = true
					stack = append(stack, nidx)
				}
			}
		}
	}
	return edges
}

// dilateBinary grows a binary edge map by a square kernel of the given
// odd size, so that edges at slightly different locations across
// consecutive frames still overlap.
func dilateBinary(edges []bool, w, h, size int) []bool {
	if size < 3 {
		size = 3
	}
	if size%2 == 0 {
		size++
	}
	half := size / 2

	out := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			found := false
			for dy := -half; dy <= half && !found; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -half; dx <= half; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if edges[ny*w+nx] {
						found = true
						break
					}
				}
			}
			out[y*w+x] = found
		}
	}
	return out
}

// autoKernelSize picks a dilation kernel from the frame dimensions:
// max(3, round(min(w,h)/200)), rounded up to the next odd number.
// Callers that need deterministic, test-fixed behavior should supply an
// explicit kernel size instead of calling this.
func autoKernelSize(w, h int) int {
	m := w
	if h < m {
		m = h
	}
	size := int(math.Round(float64(m) / 200))
	if size < 3 {
		size = 3
	}
	if size%2 == 0 {
		size++
	}
	return size
}

// cannyEdgeMap runs the full edge pipeline (blur, Sobel, non-max
// suppression, hysteresis) and returns a binary edge map as a byte slice
// of 0/255 values so mean-absolute-difference can be computed the same
// way as the other delta_* components.
func cannyEdgeMap(f *frame.Frame, kernelSize int, lowRatio, highRatio float64) []byte {
	gray := toLuma(f)
	sigma := float64(kernelSize) / 3
	if sigma <= 0 {
		sigma = 1
	}
	blurred := gaussianBlur(gray, kernelSize, sigma)
	gx, gy := sobelGradients(blurred)
	suppressed := nonMaxSuppress(gx, gy, f.Width, f.Height)

	maxMag := 0.0
	for _, m := range suppressed {
		if m > maxMag {
			maxMag = m
		}
	}
	high := maxMag * highRatio
	low := high * lowRatio

	edges := hysteresisThreshold(suppressed, f.Width, f.Height, low, high)
	edges = dilateBinary(edges, f.Width, f.Height, kernelSize)

	out := make([]byte, len(edges))
	for i, e := range edges {
		if e {
			out[i] = 255
		}
	}
	return out
}
