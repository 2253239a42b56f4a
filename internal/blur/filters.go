package blur

// shrinkFunc contracts by factor 2 with kernel [1, 5, 10, 10, 5, 1].
func shrinkFunc(p1p, p1n, z0p, z0n, n1p, n1n int16) int16 {
	r := (int32(p1p) + int32(p1n) + int32(n1p) + int32(n1n)) >> 1
	r = (r + int32(z0p) + int32(z0n)) >> 1
	r = (r + int32(p1n) + int32(n1p)) >> 1
	return int16((r + int32(z0p) + int32(z0n) + 2) >> 2)
}

// expandFunc expands by factor 2 with kernels [5,10,1] and [1,10,5], tracking
// the reference implementation's uint16 truncation points exactly.
func expandFunc(p1, z0, n1 int16) (rp, rn int16) {
	rv := u16trunc(int32(p1) + int32(n1))
	rv = rv >> 1
	rv = rv + int32(z0)
	rv = u16trunc(rv)

	a := u16trunc(rv + int32(p1))
	a = a >> 1
	a = a + int32(z0) + 1
	a = u16trunc(a)
	rp = int16(a >> 1)

	b := u16trunc(rv + int32(n1))
	b = b >> 1
	b = b + int32(z0) + 1
	b = u16trunc(b)
	rn = int16(b >> 1)
	return
}

// preBlur1Func is a [1,2,1] 1D convolution.
func preBlur1Func(p1, z0, n1 int16) int16 {
	v := u16trunc(int32(p1) + int32(n1))
	v = v >> 1
	v = v + int32(z0) + 1
	v = u16trunc(v)
	return int16(v >> 1)
}

// preBlur2Func is a [1,4,6,4,1] 1D convolution.
func preBlur2Func(p2, p1, z0, n1, n2 int16) int16 {
	a := u16trunc(int32(p2) + int32(n2))
	a = a >> 1
	a = a + int32(z0)
	a = u16trunc(a)
	a = a >> 1
	r1 := u16trunc(a + int32(z0))

	r2 := u16trunc(int32(p1) + int32(n1))

	f := u16trunc(r1 + r2)
	f = f >> 1
	bits := 0x8000 & r1 & r2
	r := u16trunc(f | bits)

	h := u16trunc(r + 1)
	return int16(h >> 1)
}

// preBlur3Func is a [1,6,15,20,15,6,1] 1D convolution.
func preBlur3Func(p3, p2, p1, z0, n1, n2, n3 int16) int16 {
	t0 := u16trunc(int32(z0))
	t1 := u16trunc(int32(p1) + int32(n1))
	t2 := u16trunc(int32(p2) + int32(n2))
	t3 := u16trunc(int32(p3) + int32(n3))
	sum := 20*t0 + 15*t1 + 6*t2 + 1*t3 + 32
	return int16(sum >> 6)
}

// blurFunc is the generic 9-tap parametric filter; coeff holds c0..c3 with
// the center weight implied as 1 - 2*(c0+c1+c2+c3).
func blurFunc(p4, p3, p2, p1, z0, n1, n2, n3, n4 int16, coeff [4]int16) int16 {
	p1 = int16(int32(p1) - int32(z0))
	p2 = int16(int32(p2) - int32(z0))
	p3 = int16(int32(p3) - int32(z0))
	p4 = int16(int32(p4) - int32(z0))
	n1 = int16(int32(n1) - int32(z0))
	n2 = int16(int32(n2) - int32(z0))
	n3 = int16(int32(n3) - int32(z0))
	n4 = int16(int32(n4) - int32(z0))

	sum := (int32(p1)+int32(n1))*int32(coeff[0]) +
		(int32(p2)+int32(n2))*int32(coeff[1]) +
		(int32(p3)+int32(n3))*int32(coeff[2]) +
		(int32(p4)+int32(n4))*int32(coeff[3]) +
		0x8000
	return int16((sum >> 16) + int32(z0))
}

func shrinkHorz(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstWidth := (srcWidth + 5) >> 1
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [3 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			copyLine(buf[:], base+stripeWidth, src, offs+step, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = shrinkFunc(
					buf[base+2*k-4], buf[base+2*k-3],
					buf[base+2*k-2], buf[base+2*k-1],
					buf[base+2*k+0], buf[base+2*k+1])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		offs += step
	}
	return dst, dstWidth
}

func shrinkVert(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstHeight := (srcHeight + 5) >> 1
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p1p := getLine(src[srcPos:], offs-4*stripeWidth, step)
			p1n := getLine(src[srcPos:], offs-3*stripeWidth, step)
			z0p := getLine(src[srcPos:], offs-2*stripeWidth, step)
			z0n := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n1p := getLine(src[srcPos:], offs-0*stripeWidth, step)
			n1n := getLine(src[srcPos:], offs+1*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = shrinkFunc(p1p[k], p1n[k], z0p[k], z0n[k], n1p[k], n1n[k])
			}
			dstPos += stripeWidth
			offs += 2 * stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func expandHorz(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstWidth := 2*srcWidth + 4
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstOff := int64(0)

	writeHalf := func(dstBase int64, kLo, kHi int) {
		for k := kLo; k < kHi; k++ {
			rp, rn := expandFunc(buf[base+k-2], buf[base+k-1], buf[base+k])
			dst[dstBase+int64(2*k)] = rp
			dst[dstBase+int64(2*k+1)] = rn
		}
	}

	for x := stripeWidth; x < dstWidth; x += 2 * stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			writeHalf(dstOff, 0, stripeWidth/2)
			nextOff := dstOff + step - stripeWidth
			writeHalf(nextOff, stripeWidth/2, stripeWidth)
			dstOff += stripeWidth
			offs += stripeWidth
		}
		dstOff += step
	}

	if (dstWidth-1)&stripeWidth != 0 {
		return dst, dstWidth
	}

	for y := 0; y < srcHeight; y++ {
		copyLine(buf[:], base-stripeWidth, src, offs-step, size)
		copyLine(buf[:], base, src, offs, size)
		writeHalf(dstOff, 0, stripeWidth/2)
		dstOff += stripeWidth
		offs += stripeWidth
	}
	return dst, dstWidth
}

func expandVert(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstHeight := 2*srcHeight + 4
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := int64(0)
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y += 2 {
			p1 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				rp, rn := expandFunc(p1[k], z0[k], n1[k])
				dst[dstPos+int64(k)] = rp
				dst[dstPos+int64(k+stripeWidth)] = rn
			}
			dstPos += 2 * stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func preBlur1Horz(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstWidth := srcWidth + 2
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur1Func(buf[base+k-2], buf[base+k-1], buf[base+k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func preBlur1Vert(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstHeight := srcHeight + 2
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p1 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur1Func(p1[k], z0[k], n1[k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func preBlur2Horz(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstWidth := srcWidth + 4
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur2Func(buf[base+k-4], buf[base+k-3], buf[base+k-2], buf[base+k-1], buf[base+k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func preBlur2Vert(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstHeight := srcHeight + 4
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p2 := getLine(src[srcPos:], offs-4*stripeWidth, step)
			p1 := getLine(src[srcPos:], offs-3*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n2 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur2Func(p2[k], p1[k], z0[k], n1[k], n2[k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func preBlur3Horz(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstWidth := srcWidth + 6
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur3Func(
					buf[base+k-6], buf[base+k-5], buf[base+k-4], buf[base+k-3],
					buf[base+k-2], buf[base+k-1], buf[base+k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func preBlur3Vert(src []int16, srcWidth, srcHeight int) ([]int16, int) {
	dstHeight := srcHeight + 6
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p3 := getLine(src[srcPos:], offs-6*stripeWidth, step)
			p2 := getLine(src[srcPos:], offs-5*stripeWidth, step)
			p1 := getLine(src[srcPos:], offs-4*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-3*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			n2 := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n3 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = preBlur3Func(p3[k], p2[k], p1[k], z0[k], n1[k], n2[k], n3[k])
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func blur1234Horz(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstWidth := srcWidth + 8
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(
					buf[base+k-8], buf[base+k-7], buf[base+k-6], buf[base+k-5], buf[base+k-4],
					buf[base+k-3], buf[base+k-2], buf[base+k-1], buf[base+k-0], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func blur1234Vert(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstHeight := srcHeight + 8
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p4 := getLine(src[srcPos:], offs-8*stripeWidth, step)
			p3 := getLine(src[srcPos:], offs-7*stripeWidth, step)
			p2 := getLine(src[srcPos:], offs-6*stripeWidth, step)
			p1 := getLine(src[srcPos:], offs-5*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-4*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-3*stripeWidth, step)
			n2 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			n3 := getLine(src[srcPos:], offs-1*stripeWidth, step)
			n4 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(p4[k], p3[k], p2[k], p1[k], z0[k], n1[k], n2[k], n3[k], n4[k], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func blur1235Horz(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstWidth := srcWidth + 10
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(
					buf[base+k-10], buf[base+k-8], buf[base+k-7], buf[base+k-6], buf[base+k-5],
					buf[base+k-4], buf[base+k-3], buf[base+k-2], buf[base+k-0], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func blur1235Vert(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstHeight := srcHeight + 10
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p4 := getLine(src[srcPos:], offs-10*stripeWidth, step)
			p3 := getLine(src[srcPos:], offs-8*stripeWidth, step)
			p2 := getLine(src[srcPos:], offs-7*stripeWidth, step)
			p1 := getLine(src[srcPos:], offs-6*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-5*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-4*stripeWidth, step)
			n2 := getLine(src[srcPos:], offs-3*stripeWidth, step)
			n3 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			n4 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(p4[k], p3[k], p2[k], p1[k], z0[k], n1[k], n2[k], n3[k], n4[k], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

func blur1246Horz(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstWidth := srcWidth + 12
	size := int64(roundUp16(srcWidth)) * int64(srcHeight)
	step := int64(stripeWidth) * int64(srcHeight)
	dst := make([]int16, int64(roundUp16(dstWidth))*int64(srcHeight))

	const base = stripeWidth
	var buf [2 * stripeWidth]int16
	offs := int64(0)
	dstPos := 0
	for x := 0; x < dstWidth; x += stripeWidth {
		for y := 0; y < srcHeight; y++ {
			copyLine(buf[:], base-stripeWidth, src, offs-step, size)
			copyLine(buf[:], base, src, offs, size)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(
					buf[base+k-12], buf[base+k-10], buf[base+k-8], buf[base+k-7], buf[base+k-6],
					buf[base+k-5], buf[base+k-4], buf[base+k-2], buf[base+k-0], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
	}
	return dst, dstWidth
}

func blur1246Vert(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int) {
	dstHeight := srcHeight + 12
	step := int64(stripeWidth) * int64(srcHeight)
	nBlocks := roundUp16(srcWidth) / stripeWidth
	dst := make([]int16, int64(stripeWidth)*int64(dstHeight)*int64(nBlocks))

	srcPos := int64(0)
	dstPos := 0
	for bx := 0; bx < nBlocks; bx++ {
		offs := int64(0)
		for y := 0; y < dstHeight; y++ {
			p4 := getLine(src[srcPos:], offs-12*stripeWidth, step)
			p3 := getLine(src[srcPos:], offs-10*stripeWidth, step)
			p2 := getLine(src[srcPos:], offs-8*stripeWidth, step)
			p1 := getLine(src[srcPos:], offs-7*stripeWidth, step)
			z0 := getLine(src[srcPos:], offs-6*stripeWidth, step)
			n1 := getLine(src[srcPos:], offs-5*stripeWidth, step)
			n2 := getLine(src[srcPos:], offs-4*stripeWidth, step)
			n3 := getLine(src[srcPos:], offs-2*stripeWidth, step)
			n4 := getLine(src[srcPos:], offs-0*stripeWidth, step)
			for k := 0; k < stripeWidth; k++ {
				dst[dstPos+k] = blurFunc(p4[k], p3[k], p2[k], p1[k], z0[k], n1[k], n2[k], n3[k], n4[k], coeff)
			}
			dstPos += stripeWidth
			offs += stripeWidth
		}
		srcPos += step
	}
	return dst, dstHeight
}

type filterFunc func(src []int16, srcWidth, srcHeight int) ([]int16, int)
type paramFilterFunc func(src []int16, srcWidth, srcHeight int, coeff [4]int16) ([]int16, int)

var preBlurHorz = [3]filterFunc{preBlur1Horz, preBlur2Horz, preBlur3Horz}
var preBlurVert = [3]filterFunc{preBlur1Vert, preBlur2Vert, preBlur3Vert}
var mainBlurHorz = [3]paramFilterFunc{blur1234Horz, blur1235Horz, blur1246Horz}
var mainBlurVert = [3]paramFilterFunc{blur1234Vert, blur1235Vert, blur1246Vert}
