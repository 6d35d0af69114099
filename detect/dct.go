package detect

import "math"

// dct2D computes the 2-D discrete cosine transform (DCT-II) of a square
// size x size block of samples. size is expected to stay small (the
// perceptual-hash detector uses 32), so the direct O(size^4) summation
// is simpler and plenty fast rather than a separable FFT-based
// implementation.
func dct2D(block [][]float64, size int) [][]float64 {
	out := make([][]float64, size)
	for i := range out {
		out[i] = make([]float64, size)
	}

	coeff := func(k int) float64 {
		if k == 0 {
			return math.Sqrt(1.0 / float64(size))
		}
		return math.Sqrt(2.0 / float64(size))
	}

	// Precompute the cosine basis for each (index, frequency) pair once,
	// since it is reused size*size times.
	cos := make([][]float64, size)
	for x := 0; x < size; x++ {
		cos[x] = make([]float64, size)
		for u := 0; u < size; u++ {
			cos[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / float64(2*size))
		}
	}

	for u := 0; u < size; u++ {
		for v := 0; v < size; v++ {
			var sum float64
			for x := 0; x < size; x++ {
				rowSum := 0.0
				for y := 0; y < size; y++ {
					rowSum += block[x][y] * cos[y][v]
				}
				sum += rowSum * cos[x][u]
			}
			out[u][v] = coeff(u) * coeff(v) * sum
		}
	}
	return out
}
