package blur

// stripeWidth is the number of int16 pixels in one vertical stripe column of
// the blur engine's intermediate format: 1 << (align_order - 1), with
// align_order = 5 to match bitmap.Align (32 bytes).
const stripeWidth = 16
const stripeMask = stripeWidth - 1

var zeroLine [stripeWidth]int16

// ditherLine supplies the two alternating dither rows stripe_pack mixes in
// before truncating 14-bit intermediate values back down to 8 bits.
var ditherLine = [2 * stripeWidth]int16{
	8, 40, 8, 40, 8, 40, 8, 40, 8, 40, 8, 40, 8, 40, 8, 40,
	56, 24, 56, 24, 56, 24, 56, 24, 56, 24, 56, 24, 56, 24, 56, 24,
}

func roundUp16(n int) int {
	return (n + stripeMask) &^ stripeMask
}

// u16trunc mimics a C (uint16_t) cast on an int expression: it truncates to
// the low 16 bits and reports the result as its promoted-to-int value (so
// callers can keep chaining arithmetic exactly like the reference code
// does after such a cast).
func u16trunc(x int32) int32 {
	return int32(uint16(x))
}

// getLine returns the stripe-width line at offs within buf, or the shared
// zero line when offs falls outside [0, size) — the fixed-point analogue of
// libass's get_line, which treats out-of-range reads (rows above/below a
// stripe block) as implicit zero padding.
func getLine(buf []int16, offs, size int64) []int16 {
	if offs >= 0 && offs < size {
		return buf[offs:]
	}
	return zeroLine[:]
}

func copyLine(dst []int16, dstOff int, src []int16, offs, size int64) {
	line := getLine(src, offs, size)
	copy(dst[dstOff:dstOff+stripeWidth], line[:stripeWidth])
}

// stripeUnpack converts an 8-bit row-major bitmap into the engine's striped
// 16-bit format (values scaled into [0, 0x4000]).
func stripeUnpack(src []byte, srcStride, width, height int) []int16 {
	dst := make([]int16, int64(roundUp16(width))*int64(height))
	srcPos := 0
	for y := 0; y < height; y++ {
		ptr := y * stripeWidth
		for x := 0; x < width; x += stripeWidth {
			for k := 0; k < stripeWidth; k++ {
				v := uint32(src[srcPos+x+k])
				dst[ptr+k] = int16((uint16(v<<7|v>>1) + 1) >> 1)
			}
			ptr += stripeWidth * height
		}
		srcPos += srcStride
	}
	return dst
}

// stripePack converts the striped 16-bit format back into an 8-bit row-major
// bitmap, dithering the truncation with ditherLine and zeroing the padding
// columns beyond width.
func stripePack(dst []byte, dstStride int, src []int16, width, height int) {
	srcPos := 0
	dstCol := 0
	for x := 0; x < width; x += stripeWidth {
		dstPos := dstCol
		for y := 0; y < height; y++ {
			ditherOff := (y & 1) * stripeWidth
			for k := 0; k < stripeWidth; k++ {
				v := src[srcPos+k]
				d := ditherLine[ditherOff+k]
				t := int32(v) - int32(v>>8) + int32(d)
				dst[dstPos+k] = byte(uint16(t) >> 6)
			}
			dstPos += dstStride
			srcPos += stripeWidth
		}
		dstCol += stripeWidth
	}

	base := roundUp16(width)
	left := dstStride - base
	for y := 0; y < height && left > 0; y++ {
		row := y*dstStride + base
		for x := 0; x < left; x++ {
			dst[row+x] = 0
		}
	}
}
