// Package bitmap holds the rectangular 8-bit alpha buffer shared by the
// rasterizer, blur engine, and frame composer: a (left, top) placement in
// pixel space, a (w, h) size, a row stride, and row-major coverage data.
package bitmap

import "github.com/go-ass/asscore/internal/buffer"

// Align is the byte alignment the reference engine uses for bitmap rows and
// the blur engine's striped intermediate buffers (C_ALIGN_ORDER = 5).
const Align = 32

// Bitmap is a rectangular 8-bit alpha buffer with its placement in the
// frame's pixel space. Buffer is h*Stride bytes, Stride padded up to Align
// so tile-sized reads that run past w stay within the allocation. Row
// access goes through a buffer.RenderingBuffer row accessor rather than
// hand-rolled stride arithmetic.
type Bitmap struct {
	Left, Top int
	W, H      int
	Stride    int
	Buffer    []byte

	rows buffer.RenderingBuffer[byte]
}

func alignUp(n int) int {
	return (n + Align - 1) &^ (Align - 1)
}

// New allocates a zeroed w x h bitmap at placement (0, 0).
func New(w, h int) *Bitmap {
	stride := alignUp(w)
	if stride == 0 {
		stride = Align
	}
	bm := &Bitmap{
		W:      w,
		H:      h,
		Stride: stride,
		Buffer: make([]byte, stride*h),
	}
	bm.rows.Attach(bm.Buffer, w, h, stride)
	return bm
}

// Realloc resizes bm to w x h in place, discarding its previous contents.
// It mirrors libass's realloc_bitmap, which the blur engine uses to grow a
// bitmap to its post-blur size before packing the result back into it.
func (bm *Bitmap) Realloc(w, h int) {
	stride := alignUp(w)
	if stride == 0 {
		stride = Align
	}
	need := stride * h
	if cap(bm.Buffer) < need {
		bm.Buffer = make([]byte, need)
	} else {
		bm.Buffer = bm.Buffer[:need]
		for i := range bm.Buffer {
			bm.Buffer[i] = 0
		}
	}
	bm.W, bm.H, bm.Stride = w, h, stride
	bm.rows.Attach(bm.Buffer, w, h, stride)
}

// Row returns the w-byte slice of row y (not the full padded stride).
func (bm *Bitmap) Row(y int) []byte {
	if bm.rows.Width() != bm.W || bm.rows.Height() != bm.H || bm.rows.Stride() != bm.Stride {
		bm.rows.Attach(bm.Buffer, bm.W, bm.H, bm.Stride)
	}
	return bm.rows.RowPtr(0, y, bm.W)
}

// Copy returns an independent copy of bm.
func (bm *Bitmap) Copy() *Bitmap {
	out := &Bitmap{Left: bm.Left, Top: bm.Top, W: bm.W, H: bm.H, Stride: bm.Stride}
	out.Buffer = append([]byte(nil), bm.Buffer...)
	return out
}
