// Package transform3d implements the glyph-pipeline 3-D transform:
// rotation about all three axes plus a shear, composed with the
// perspective divide that gives rotated glyphs their foreshortening.
//
// Grounded on libass's ass_render.c calc_transform_matrix/transform_3d:
// the matrix composition order (Rz . Shear, then Rx, then Ry, each
// folding the rotation-origin shift in and back out) and the
// perspective divisor w = max(z+dist, 1000) are carried over exactly,
// since visual fidelity depends on matching this formula bit-for-bit
// in the floating-point steps.
package transform3d

import (
	"math"

	"github.com/go-ass/asscore/internal/outline"
)

// Shift is the rotation-origin offset (the glyph's own basepoint, in 26.6
// fixed point) added before rotating and subtracted after.
type Shift struct {
	X, Y int32
}

// Params bundles the per-glyph rotation/shear/perspective inputs: Frx, Fry,
// Frz in radians; Fax, Fay are the already-scale-corrected shear factors;
// BlurScale is VSFilter's blur_scale (applied to the perspective distance,
// matching its own scale-forgetting quirk per the source comment); YShift
// is the glyph's ascender, used as the per-row origin offset.
type Params struct {
	Frx, Fry, Frz float64
	Fax, Fay      float64
	BlurScale     float64
	YShift        int32
}

// Identity reports whether Apply would be a no-op (no rotation and no
// shear), the same short-circuit the source takes.
func (p Params) Identity() bool {
	return p.Frx == 0 && p.Fry == 0 && p.Frz == 0 && p.Fax == 0 && p.Fay == 0
}

// matrix computes the 3x3 composed transform m such that
// [x' y' w]^T = m * [x y 1]^T, following calc_transform_matrix.
func matrix(shift Shift, p Params) [3][3]float64 {
	sx, cx := -math.Sin(p.Frx), math.Cos(p.Frx)
	sy, cy := math.Sin(p.Fry), math.Cos(p.Fry)
	sz, cz := -math.Sin(p.Frz), math.Cos(p.Frz)

	x1 := [3]float64{1, p.Fax, float64(shift.X) + p.Fax*float64(p.YShift)}
	y1 := [3]float64{p.Fay, 1, float64(shift.Y)}

	var x2, y2 [3]float64
	for i := 0; i < 3; i++ {
		x2[i] = x1[i]*cz - y1[i]*sz
		y2[i] = x1[i]*sz + y1[i]*cz
	}

	var y3, z3 [3]float64
	for i := 0; i < 3; i++ {
		y3[i] = y2[i] * cx
		z3[i] = y2[i] * sx
	}

	var x4, z4 [3]float64
	for i := 0; i < 3; i++ {
		x4[i] = x2[i]*cy - z3[i]*sy
		z4[i] = x2[i]*sy + z3[i]*cy
	}

	dist := 20000 * p.BlurScale
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		m[0][i] = x4[i] * dist
		m[1][i] = y3[i] * dist
		m[2][i] = z4[i]
	}
	m[2][2] += dist
	return m
}

// Apply rotates and shears every point of each outline in place around
// shift, then applies the perspective divide by w = max(z+dist, 1000),
// subtracting shift back out. A call with an identity Params is a no-op.
func Apply(shift Shift, outlines []*outline.Outline, p Params) {
	if p.Identity() {
		return
	}
	m := matrix(shift, p)

	for _, ol := range outlines {
		if ol == nil {
			continue
		}
		for i, pt := range ol.Points {
			x, y := float64(pt.X), float64(pt.Y)
			var v [3]float64
			for k := 0; k < 3; k++ {
				v[k] = m[k][0]*x + m[k][1]*y + m[k][2]
			}
			w := 1 / math.Max(v[2], 1000)
			ol.Points[i].X = lrint(v[0]*w) - shift.X
			ol.Points[i].Y = lrint(v[1]*w) - shift.Y
		}
	}
}

func lrint(v float64) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}
