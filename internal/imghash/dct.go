package imghash

import "math"

// dctMatrix returns the n x n orthonormal DCT-II basis, row k holding
// frequency k sampled at every input position.
func dctMatrix(n int) []float64 {
	m := make([]float64, n*n)
	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))
	for k := 0; k < n; k++ {
		s := scale
		if k == 0 {
			s = scale0
		}
		for i := 0; i < n; i++ {
			m[k*n+i] = s * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
	}
	return m
}

// dct2D applies a separable DCT-II to an n x n row-major block and returns
// only the top-left keep x keep coefficients.
func dct2D(in []float64, n, keep int) []float64 {
	basis := dctMatrix(n)

	// Rows: tmp[y][k] = sum_x in[y][x] * basis[k][x]
	tmp := make([]float64, n*keep)
	for y := 0; y < n; y++ {
		for k := 0; k < keep; k++ {
			var sum float64
			for x := 0; x < n; x++ {
				sum += in[y*n+x] * basis[k*n+x]
			}
			tmp[y*keep+k] = sum
		}
	}

	// Columns: out[v][k] = sum_y tmp[y][k] * basis[v][y]
	out := make([]float64, keep*keep)
	for v := 0; v < keep; v++ {
		for k := 0; k < keep; k++ {
			var sum float64
			for y := 0; y < n; y++ {
				sum += tmp[y*keep+k] * basis[v*n+y]
			}
			out[v*keep+k] = sum
		}
	}
	return out
}
