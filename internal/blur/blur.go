// Package blur implements the cascade Gaussian blur used to soften glyph,
// border, and shadow bitmaps: downscale, apply a small parametric kernel,
// upscale back, approximating an arbitrarily large-radius Gaussian within
// 8-bit output precision.
//
// This is a port of libass's ass_blur.c. The fixed-point tap positions and
// the uint16-truncating intermediate rounding in the expand/pre-blur
// kernels are carried over verbatim: they were fitted (via least squares
// against the target kernel's Fourier transform) to hit 8-bit precision
// with this exact bit width, so approximating them away would change the
// output the blur engine produces for the same radius.
package blur

import (
	"math"

	"github.com/go-ass/asscore/internal/bitmap"
)

var filterIndex = [3][4]int{{1, 2, 3, 4}, {1, 2, 3, 5}, {1, 2, 4, 6}}

// method picks which cascade stages (shrink/expand level, optional
// supplementary pre-filter, and one of three 9-tap parametric filters) best
// approximate a Gaussian of variance r2, plus that filter's fixed-point
// coefficients.
type method struct {
	level, prefilter, filter int
	coeff                    [4]int16
}

func calcGauss(res []float64, n int, r2 float64) {
	alpha := 0.5 / r2
	mul := math.Exp(-alpha)
	mul2 := mul * mul
	cur := math.Sqrt(alpha / math.Pi)
	res[0] = cur
	cur *= mul
	res[1] = cur
	for i := 2; i <= n; i++ {
		mul *= mul2
		cur *= mul
		res[i] = cur
	}
}

func coeffBlur121(coeff []float64, n int) {
	prev := coeff[1]
	for i := 0; i <= n; i++ {
		res := (prev + 2*coeff[i] + coeff[i+1]) / 4
		prev = coeff[i]
		coeff[i] = res
	}
}

func coeffFilter(coeff []float64, n int, kernel [4]float64) {
	prev1, prev2, prev3 := coeff[1], coeff[2], coeff[3]
	for i := 0; i <= n; i++ {
		res := coeff[i]*kernel[0] +
			(prev1+coeff[i+1])*kernel[1] +
			(prev2+coeff[i+2])*kernel[2] +
			(prev3+coeff[i+3])*kernel[3]
		prev3, prev2, prev1 = prev2, prev1, coeff[i]
		coeff[i] = res
	}
}

// calcMatrix builds the 4x4 least-squares matrix for the chosen tap
// positions from the filter's autocorrelation coefficients, then inverts
// its transpose in place via Gauss-Jordan elimination.
func calcMatrix(mat *[4][4]float64, matFreq []float64, index [4]int) {
	for i := 0; i < 4; i++ {
		mat[i][i] = matFreq[2*index[i]] + 3*matFreq[0] - 4*matFreq[index[i]]
		for j := i + 1; j < 4; j++ {
			v := matFreq[index[i]+index[j]] + matFreq[index[j]-index[i]] +
				2*(matFreq[0]-matFreq[index[i]]-matFreq[index[j]])
			mat[i][j] = v
			mat[j][i] = v
		}
	}

	for k := 0; k < 4; k++ {
		ip, jp := k, k
		z := 1 / mat[ip][jp]
		mat[ip][jp] = 1
		for i := 0; i < 4; i++ {
			if i == ip {
				continue
			}
			mul := mat[i][jp] * z
			mat[i][jp] = 0
			for j := 0; j < 4; j++ {
				mat[i][j] -= mat[ip][j] * mul
			}
		}
		for j := 0; j < 4; j++ {
			mat[ip][j] *= z
		}
	}
}

// calcCoeff solves the least-squares problem for the main filter's
// coefficients at the chosen tap positions, prefilter, and target variance.
func calcCoeff(mu []float64, index [4]int, prefilter int, r2, mul float64) {
	mul2 := mul * mul
	mul3 := mul2 * mul
	kernel := [4]float64{
		(5204 + 2520*mul + 1092*mul2 + 3280*mul3) / 12096,
		(2943 - 210*mul - 273*mul2 - 2460*mul3) / 12096,
		(486 - 924*mul - 546*mul2 + 984*mul3) / 12096,
		(17 - 126*mul + 273*mul2 - 164*mul3) / 12096,
	}

	matFreq := make([]float64, 14)
	copy(matFreq, kernel[:])
	n := 6
	coeffFilter(matFreq, n, kernel)
	for k := 0; k < 2*prefilter; k++ {
		n++
		coeffBlur121(matFreq, n)
	}

	vecFreq := make([]float64, 13)
	n = index[3] + prefilter + 3
	calcGauss(vecFreq, n, r2)
	n -= 3
	coeffFilter(vecFreq, n, kernel)
	for k := 0; k < prefilter; k++ {
		n--
		coeffBlur121(vecFreq, n)
	}

	var mat [4][4]float64
	calcMatrix(&mat, matFreq, index)

	var vec [4]float64
	for i := 0; i < 4; i++ {
		vec[i] = matFreq[0] - matFreq[index[i]] - vecFreq[0] + vecFreq[index[i]]
	}

	for i := 0; i < 4; i++ {
		res := 0.0
		for j := 0; j < 4; j++ {
			res += mat[i][j] * vec[j]
		}
		mu[i] = math.Max(0, res)
	}
}

func findMethod(r2 float64) method {
	var m method
	var mu [5]float64

	if r2 < 1.9 {
		if r2 < 0.5 {
			mu[2] = 0.085 * r2 * r2 * r2
			mu[1] = 0.5*r2 - 4*mu[2]
		} else {
			calcGauss(mu[:], 4, r2)
		}
	} else {
		mul := 1.0
		if r2 < 6.693 {
			switch {
			case r2 < 2.8:
				m.prefilter = 1
			case r2 < 4.4:
				m.prefilter = 2
			default:
				m.prefilter = 3
			}
			m.filter = m.prefilter - 1
		} else {
			_, exp := math.Frexp((r2 + 0.7) / 26.5)
			m.level = (exp + 3) >> 1
			mul = math.Pow(0.25, float64(m.level))
			r2 *= mul
			switch {
			case r2 < 3.15-1.5*mul:
				m.prefilter = 0
			case r2 < 5.3-5.2*mul:
				m.prefilter = 1
			default:
				m.prefilter = 2
			}
			m.filter = m.prefilter
		}
		calcCoeff(mu[1:], filterIndex[m.filter], m.prefilter, r2, mul)
	}

	for i := 1; i <= 4; i++ {
		m.coeff[i-1] = int16(0x10000*mu[i] + 0.5)
	}
	return m
}

// Blur applies an approximate Gaussian blur of standard deviation squared
// r2 to bm in place, reallocating it to its grown post-blur size and
// shifting its (Left, Top) placement by the accumulated halo.
func Blur(bm *bitmap.Bitmap, r2 float64) {
	if r2 <= 0 {
		return
	}
	m := findMethod(r2)

	w, h := bm.W, bm.H
	buf := stripeUnpack(bm.Buffer, bm.Stride, w, h)

	for i := 0; i < m.level; i++ {
		buf, h = shrinkVert(buf, w, h)
	}
	for i := 0; i < m.level; i++ {
		buf, w = shrinkHorz(buf, w, h)
	}
	if m.prefilter > 0 {
		buf, w = preBlurHorz[m.prefilter-1](buf, w, h)
	}
	buf, w = mainBlurHorz[m.filter](buf, w, h, m.coeff)
	for i := 0; i < m.level; i++ {
		buf, w = expandHorz(buf, w, h)
	}
	if m.prefilter > 0 {
		buf, h = preBlurVert[m.prefilter-1](buf, w, h)
	}
	buf, h = mainBlurVert[m.filter](buf, w, h, m.coeff)
	for i := 0; i < m.level; i++ {
		buf, h = expandVert(buf, w, h)
	}

	offset := ((m.prefilter+m.filter+8)<<uint(m.level) - 4)
	bm.Left -= offset
	bm.Top -= offset

	bm.Realloc(w, h)
	stripePack(bm.Buffer, bm.Stride, buf, w, h)
}
