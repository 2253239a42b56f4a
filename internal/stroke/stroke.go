// Package stroke implements the outline stroker: given a closed
// canonical outline and (x, y) border radii, it produces two outlines
// whose union under the non-zero winding rule approximates the
// mathematical offset curve to within a given precision.
//
// This is a direct port of libass's ass_outline.c stroker; its tunables
// (err_q, err_c, err_a, merge_cos, split_cos) are kept verbatim because
// border appearance is compared pixel-for-pixel against the reference
// renderer.
package stroke

import (
	"errors"
	"math"

	"github.com/go-ass/asscore/internal/outline"
)

// ErrOutOfRange reports a source point outside [outline.Min, outline.Max].
var ErrOutOfRange = errors.New("stroke: point out of range")

const maxSubdiv = 15

type dvec struct{ X, Y float64 }

func vecDot(a, b dvec) float64 { return a.X*b.X + a.Y*b.Y }
func vecCrs(a, b dvec) float64 { return a.X*b.Y - a.Y*b.X }
func vecLen(a dvec) float64    { return math.Sqrt(a.X*a.X + a.Y*a.Y) }

type normal struct {
	v   dvec
	len float64
}

// state carries all stroker working state, the Go analogue of libass's
// StrokerState, across the segment-by-segment walk of the source outline.
type state struct {
	result       [2]*outline.Outline
	contourFirst [2]int

	xbord, ybord   float64
	xscale, yscale float64
	eps            float64

	contourStart bool
	firstSkip    int
	lastSkip     int
	firstNormal  dvec
	lastNormal   dvec
	firstPoint   outline.Point

	mergeCos float64
	splitCos float64
	minLen   float64
	errQ     float64
	errC     float64
	errA     float64

	failed bool
}

func (s *state) fail() { s.failed = true }

func (s *state) emitPoint(pt outline.Point, offs dvec, segment byte, dir int) {
	if s.failed {
		return
	}
	dx := int32(s.xbord * offs.X)
	dy := int32(s.ybord * offs.Y)
	if dir&1 != 0 {
		res := outline.Point{X: pt.X + dx, Y: pt.Y + dy}
		if err := s.result[0].AddPoint(res, segment); err != nil {
			s.fail()
		}
	}
	if dir&2 != 0 {
		res := outline.Point{X: pt.X - dx, Y: pt.Y - dy}
		if err := s.result[1].AddPoint(res, segment); err != nil {
			s.fail()
		}
	}
}

func (s *state) fixFirstPoint(pt outline.Point, offs dvec, dir int) {
	dx := int32(s.xbord * offs.X)
	dy := int32(s.ybord * offs.Y)
	if dir&1 != 0 {
		s.result[0].Points[s.contourFirst[0]] = outline.Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	if dir&2 != 0 {
		s.result[1].Points[s.contourFirst[1]] = outline.Point{X: pt.X - dx, Y: pt.Y - dy}
	}
}

func (s *state) processArc(pt outline.Point, normal0, normal1 dvec, mul []float64, level, dir int) {
	center := dvec{
		X: (normal0.X + normal1.X) * mul[level],
		Y: (normal0.Y + normal1.Y) * mul[level],
	}
	if level != 0 {
		s.processArc(pt, normal0, center, mul, level-1, dir)
		s.processArc(pt, center, normal1, mul, level-1, dir)
		return
	}
	s.emitPoint(pt, normal0, outline.QuadraticSpline, dir)
	s.emitPoint(pt, center, 0, dir)
}

func (s *state) drawArc(pt outline.Point, normal0, normal1 dvec, c float64, dir int) {
	var mul [maxSubdiv + 1]float64

	var center dvec
	smallAngle := true
	if c < 0 {
		m := math.Sqrt(0.5)
		if dir&2 != 0 {
			m = -m
		}
		m /= math.Sqrt(1 - c)
		center = dvec{X: (normal1.Y - normal0.Y) * m, Y: (normal0.X - normal1.X) * m}
		c = math.Sqrt(math.Max(0, 0.5+0.5*c))
		smallAngle = false
	}

	pos := maxSubdiv
	for c < s.splitCos && pos != 0 {
		mul[pos] = math.Sqrt(0.5) / math.Sqrt(1+c)
		c = (1 + c) * mul[pos]
		pos--
	}
	mul[pos] = 1 / (1 + c)

	if smallAngle {
		s.processArc(pt, normal0, normal1, mul[pos:], maxSubdiv-pos, dir)
	} else {
		s.processArc(pt, normal0, center, mul[pos:], maxSubdiv-pos, dir)
		s.processArc(pt, center, normal1, mul[pos:], maxSubdiv-pos, dir)
	}
}

func (s *state) drawCircle(pt outline.Point, dir int) {
	var mul [maxSubdiv + 1]float64
	c := 0.0

	pos := maxSubdiv
	for c < s.splitCos && pos != 0 {
		mul[pos] = math.Sqrt(0.5) / math.Sqrt(1+c)
		c = (1 + c) * mul[pos]
		pos--
	}
	mul[pos] = 1 / (1 + c)

	n := [4]dvec{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	s.processArc(pt, n[0], n[1], mul[pos:], maxSubdiv-pos, dir)
	s.processArc(pt, n[1], n[2], mul[pos:], maxSubdiv-pos, dir)
	s.processArc(pt, n[2], n[3], mul[pos:], maxSubdiv-pos, dir)
	s.processArc(pt, n[3], n[0], mul[pos:], maxSubdiv-pos, dir)
}

func (s *state) startSegment(pt outline.Point, n dvec, dir int) {
	if s.contourStart {
		s.contourStart = false
		s.firstSkip, s.lastSkip = 0, 0
		s.firstNormal, s.lastNormal = n, n
		s.firstPoint = pt
		return
	}

	prev := s.lastNormal
	c := vecDot(prev, n)
	if c > s.mergeCos { // merge without cap
		m := 1 / (1 + c)
		s.lastNormal = dvec{X: (s.lastNormal.X + n.X) * m, Y: (s.lastNormal.Y + n.Y) * m}
		return
	}
	s.lastNormal = n

	// negative curvature: emit a circular cap on the side that would
	// otherwise self-intersect.
	sgn := vecCrs(prev, n)
	skipDir := 2
	if sgn < 0 {
		skipDir = 1
	}
	if dir&skipDir != 0 {
		s.emitPoint(pt, prev, outline.LineSegment, ^s.lastSkip&skipDir)
		s.emitPoint(pt, dvec{}, outline.LineSegment, skipDir)
	}
	s.lastSkip = skipDir

	dir &^= skipDir
	if dir != 0 {
		s.drawArc(pt, prev, n, c, dir)
	}
}

func (s *state) emitFirstPoint(pt outline.Point, segment byte, dir int) {
	s.lastSkip &^= dir
	s.emitPoint(pt, s.lastNormal, segment, dir)
}

func (s *state) prepareSkip(pt outline.Point, dir int, first bool) {
	if first {
		s.firstSkip |= dir
	} else {
		s.emitPoint(pt, s.lastNormal, outline.LineSegment, ^s.lastSkip&dir)
	}
	s.lastSkip |= dir
}

func (s *state) addLine(pt0, pt1 outline.Point, dir int) {
	dx := pt1.X - pt0.X
	dy := pt1.Y - pt0.Y
	if float64(dx) > -s.eps && float64(dx) < s.eps && float64(dy) > -s.eps && float64(dy) < s.eps {
		return
	}

	deriv := dvec{X: float64(dy) * s.yscale, Y: -float64(dx) * s.xscale}
	scale := 1 / vecLen(deriv)
	n := dvec{X: deriv.X * scale, Y: deriv.Y * scale}
	s.startSegment(pt0, n, dir)
	s.emitFirstPoint(pt0, outline.LineSegment, dir)
	s.lastNormal = n
}

func (s *state) estimateQuadraticError(c, sgn float64, n [2]normal, result *dvec) bool {
	if !((3+c)*(3+c) < s.errQ*(1+c)) {
		return false
	}

	mul := 1 / (1 + c)
	l0, l1 := 2*n[0].len, 2*n[1].len
	dot0, crs0 := l0+n[1].len*c, (l0*mul-n[1].len)*sgn
	dot1, crs1 := l1+n[0].len*c, (l1*mul-n[0].len)*sgn
	if !(math.Abs(crs0) < s.errA*dot0 && math.Abs(crs1) < s.errA*dot1) {
		return false
	}

	result.X = (n[0].v.X + n[1].v.X) * mul
	result.Y = (n[0].v.Y + n[1].v.Y) * mul
	return true
}

func (s *state) processQuadratic(pt [3]outline.Point, deriv [2]dvec, n [2]normal, dir int, first bool) {
	if s.failed {
		return
	}
	c := vecDot(n[0].v, n[1].v)
	sgn := vecCrs(n[0].v, n[1].v)
	checkDir := dir
	skipDir := 2
	if sgn < 0 {
		skipDir = 1
	}
	if dir&skipDir != 0 {
		absS := math.Abs(sgn)
		f0 := n[0].len*c + n[1].len
		f1 := n[1].len*c + n[0].len
		g0 := n[0].len * absS
		g1 := n[1].len * absS
		if f0 < absS && f1 < absS { // self-intersection
			d2 := (f0*n[1].len + f1*n[0].len) / 2
			if d2 < g0 && d2 < g1 {
				s.prepareSkip(pt[0], skipDir, first)
				if f0 < 0 || f1 < 0 {
					s.emitPoint(pt[0], dvec{}, outline.LineSegment, skipDir)
					s.emitPoint(pt[2], dvec{}, outline.LineSegment, skipDir)
				} else {
					mul := f0 / absS
					offs := dvec{X: n[0].v.X * mul, Y: n[0].v.Y * mul}
					s.emitPoint(pt[0], offs, outline.LineSegment, skipDir)
				}
				dir &^= skipDir
				if dir == 0 {
					s.lastNormal = n[1].v
					return
				}
			}
			checkDir ^= skipDir
		} else if c+g0 < 1 && c+g1 < 1 {
			checkDir ^= skipDir
		}
	}

	var result dvec
	if checkDir != 0 && s.estimateQuadraticError(c, sgn, n, &result) {
		s.emitFirstPoint(pt[0], outline.QuadraticSpline, checkDir)
		s.emitPoint(pt[1], result, 0, checkDir)
		dir &^= checkDir
		if dir == 0 {
			s.lastNormal = n[1].v
			return
		}
	}

	var next [5]outline.Point
	next[1] = outline.Point{X: pt[0].X + pt[1].X, Y: pt[0].Y + pt[1].Y}
	next[3] = outline.Point{X: pt[1].X + pt[2].X, Y: pt[1].Y + pt[2].Y}
	next[2] = outline.Point{X: (next[1].X + next[3].X + 2) >> 2, Y: (next[1].Y + next[3].Y + 2) >> 2}
	next[1].X >>= 1
	next[1].Y >>= 1
	next[3].X >>= 1
	next[3].Y >>= 1
	next[0] = pt[0]
	next[4] = pt[2]

	var nextDeriv [3]dvec
	nextDeriv[0] = dvec{X: deriv[0].X / 2, Y: deriv[0].Y / 2}
	nextDeriv[2] = dvec{X: deriv[1].X / 2, Y: deriv[1].Y / 2}
	nextDeriv[1] = dvec{X: (nextDeriv[0].X + nextDeriv[2].X) / 2, Y: (nextDeriv[0].Y + nextDeriv[2].Y) / 2}

	length := vecLen(nextDeriv[1])
	if length < s.minLen { // degenerate: drop to a cap-joined polyline
		s.emitFirstPoint(next[0], outline.LineSegment, dir)
		s.startSegment(next[2], n[1].v, dir)
		s.lastSkip &^= dir
		s.emitPoint(next[2], n[1].v, outline.LineSegment, dir)
		return
	}

	scale := 1 / length
	nextNormal := [3]normal{
		{v: n[0].v, len: n[0].len / 2},
		{v: dvec{X: nextDeriv[1].X * scale, Y: nextDeriv[1].Y * scale}, len: length},
		{v: n[1].v, len: n[1].len / 2},
	}
	s.processQuadratic([3]outline.Point{next[0], next[1], next[2]}, [2]dvec{nextDeriv[0], nextDeriv[1]}, [2]normal{nextNormal[0], nextNormal[1]}, dir, first)
	s.processQuadratic([3]outline.Point{next[2], next[3], next[4]}, [2]dvec{nextDeriv[1], nextDeriv[2]}, [2]normal{nextNormal[1], nextNormal[2]}, dir, false)
}

func (s *state) addQuadratic(pt [3]outline.Point, dir int) {
	dx0 := pt[1].X - pt[0].X
	dy0 := pt[1].Y - pt[0].Y
	if float64(dx0) > -s.eps && float64(dx0) < s.eps && float64(dy0) > -s.eps && float64(dy0) < s.eps {
		s.addLine(pt[0], pt[2], dir)
		return
	}
	dx1 := pt[2].X - pt[1].X
	dy1 := pt[2].Y - pt[1].Y
	if float64(dx1) > -s.eps && float64(dx1) < s.eps && float64(dy1) > -s.eps && float64(dy1) < s.eps {
		s.addLine(pt[0], pt[2], dir)
		return
	}

	deriv := [2]dvec{
		{X: float64(dy0) * s.yscale, Y: -float64(dx0) * s.xscale},
		{X: float64(dy1) * s.yscale, Y: -float64(dx1) * s.xscale},
	}
	len0 := vecLen(deriv[0])
	scale0 := 1 / len0
	len1 := vecLen(deriv[1])
	scale1 := 1 / len1
	n := [2]normal{
		{v: dvec{X: deriv[0].X * scale0, Y: deriv[0].Y * scale0}, len: len0},
		{v: dvec{X: deriv[1].X * scale1, Y: deriv[1].Y * scale1}, len: len1},
	}

	first := s.contourStart
	s.startSegment(pt[0], n[0].v, dir)
	s.processQuadratic(pt, deriv, n, dir, first)
}

// Cubic error-estimation flag bits, matching libass's FLAG_* constants.
const (
	flagIntersection = 1
	flagZero0        = 2
	flagZero1        = 4
	flagClip0        = 8
	flagClip1        = 16
	flagDir2         = 32
	flagCount        = 6

	maskIntersection = flagIntersection << flagCount
	maskZero0        = flagZero0 << flagCount
	maskZero1        = flagZero1 << flagCount
	maskClip0        = flagClip0 << flagCount
	maskClip1        = flagClip1 << flagCount
)

func (s *state) estimateCubicError(c, sgn float64, dc, ds [2]float64, n [2]normal, result *[2]dvec, checkFlags, dir int) int {
	t := (ds[0] + ds[1]) / (dc[0] + dc[1])
	c1 := 1 + c
	ss := sgn * sgn
	ts := t * sgn
	tt := t * t
	ttc := tt * c1
	ttcc := ttc * c1

	const w = 0.4
	f0 := [3]float64{
		10*w*(c-1) + 9*w*tt*c,
		2*(c-1) + 3*tt + 2*ts,
		2*(c-1) + 3*tt - 2*ts,
	}
	f1 := [3]float64{
		18 * w * (ss - ttc*c),
		2*ss - 6*ttc - 2*ts*(c+4),
		2*ss - 6*ttc + 2*ts*(c+4),
	}
	f2 := [3]float64{
		9 * w * (ttcc - ss) * c,
		3*ss + 3*ttcc + 6*ts*c1,
		3*ss + 3*ttcc - 6*ts*c1,
	}

	var aa, ab float64
	ch := math.Sqrt(c1 / 2)
	invRo0 := 1.5 * ch * (ch + 1)
	for i := 0; i < 3; i++ {
		a := 2*f2[i] + f1[i]*invRo0
		b := f2[i] - f0[i]*invRo0*invRo0
		aa += a * a
		ab += a * b
	}
	ro := ab / (aa*invRo0 + 1e-9)

	var err2 float64
	for i := 0; i < 3; i++ {
		err := f0[i] + ro*(f1[i]+ro*f2[i])
		err2 += err * err
	}
	if !(err2 < s.errC) {
		return 0
	}

	r := ro*c1 - 1
	ro0 := t*r - ro*sgn
	ro1 := t*r + ro*sgn

	checkDir := 1
	if checkFlags&flagDir2 != 0 {
		checkDir = 2
	}
	if dir&checkDir != 0 {
		testS, test0, test1 := sgn, ro0, ro1
		if checkFlags&flagDir2 != 0 {
			testS, test0, test1 = -testS, -test0, -test1
		}
		flags := 0
		if 2*testS*r < dc[0]+dc[1] {
			flags |= flagIntersection
		}
		if n[0].len-test0 < 0 {
			flags |= flagZero0
		}
		if n[1].len+test1 < 0 {
			flags |= flagZero1
		}
		if n[0].len+dc[0]+testS-test1*c < 0 {
			flags |= flagClip0
		}
		if n[1].len+dc[1]+testS+test0*c < 0 {
			flags |= flagClip1
		}
		if (flags^checkFlags)&(checkFlags>>flagCount) != 0 {
			dir &^= checkDir
			if dir == 0 {
				return 0
			}
		}
	}

	d0c, d0s := 2*dc[0], 2*ds[0]
	d1c, d1s := 2*dc[1], 2*ds[1]
	dot0, crs0 := d0c+3*n[0].len, d0s+3*ro0*n[0].len
	dot1, crs1 := d1c+3*n[1].len, d1s+3*ro1*n[1].len
	if !(math.Abs(crs0) < s.errA*dot0 && math.Abs(crs1) < s.errA*dot1) {
		return 0
	}

	cl0, sl0 := c*n[0].len, sgn*n[0].len
	cl1, sl1 := c*n[1].len, -sgn*n[1].len
	dot0 = d0c - ro0*d0s + cl0 + ro1*sl0 + cl1/3
	dot1 = d1c - ro1*d1s + cl1 + ro0*sl1 + cl0/3
	crs0 = d0s + ro0*d0c - sl0 + ro1*cl0 - sl1/3
	crs1 = d1s + ro1*d1c - sl1 + ro0*cl1 - sl0/3
	if !(math.Abs(crs0) < s.errA*dot0 && math.Abs(crs1) < s.errA*dot1) {
		return 0
	}

	result[0] = dvec{X: n[0].v.X + n[0].v.Y*ro0, Y: n[0].v.Y - n[0].v.X*ro0}
	result[1] = dvec{X: n[1].v.X + n[1].v.Y*ro1, Y: n[1].v.Y - n[1].v.X*ro1}
	return dir
}

func (s *state) processCubic(pt [4]outline.Point, deriv [3]dvec, n [2]normal, dir int, first bool) {
	if s.failed {
		return
	}
	c := vecDot(n[0].v, n[1].v)
	sgn := vecCrs(n[0].v, n[1].v)
	dc := [2]float64{vecDot(n[0].v, deriv[1]), vecDot(n[1].v, deriv[1])}
	ds := [2]float64{vecCrs(n[0].v, deriv[1]), vecCrs(n[1].v, deriv[1])}
	f0 := n[0].len*c + n[1].len + dc[1]
	f1 := n[1].len*c + n[0].len + dc[0]
	g0 := n[0].len*sgn - ds[1]
	g1 := n[1].len*sgn + ds[0]

	absS := sgn
	checkDir := dir
	skipDir := 2
	flags := flagIntersection | flagDir2
	if sgn < 0 {
		absS = -sgn
		skipDir = 1
		flags = 0
		g0 = -g0
		g1 = -g1
	}

	if !(dc[0]+dc[1] > 0) {
		checkDir = 0
	} else if dir&skipDir != 0 {
		if f0 < absS && f1 < absS { // self-intersection
			d2 := (f0+dc[1])*n[1].len + (f1+dc[0])*n[0].len
			d2 = (d2 + vecDot(deriv[1], deriv[1])) / 2
			if d2 < g0 && d2 < g1 {
				q := math.Sqrt(d2 / (2 - d2))
				h0 := (f0*q + g0) * n[1].len
				h1 := (f1*q + g1) * n[0].len
				q *= (4.0 / 3) * d2
				if h0 > q && h1 > q {
					s.prepareSkip(pt[0], skipDir, first)
					if f0 < 0 || f1 < 0 {
						s.emitPoint(pt[0], dvec{}, outline.LineSegment, skipDir)
						s.emitPoint(pt[3], dvec{}, outline.LineSegment, skipDir)
					} else {
						mul := f0 / absS
						offs := dvec{X: n[0].v.X * mul, Y: n[0].v.Y * mul}
						s.emitPoint(pt[0], offs, outline.LineSegment, skipDir)
					}
					dir &^= skipDir
					if dir == 0 {
						s.lastNormal = n[1].v
						return
					}
				}
			}
			checkDir ^= skipDir
		} else {
			if ds[0] < 0 {
				flags ^= maskIntersection
			}
			if ds[1] < 0 {
				flags ^= maskIntersection | flagIntersection
			}
			parallel := flags&maskIntersection != 0
			badness := 0
			if !parallel {
				badness = 1
			}
			if c+g0 < 1 {
				if parallel {
					flags ^= maskZero0 | flagZero0
					if c < 0 {
						flags ^= maskClip0
					}
					if f0 > absS {
						flags ^= flagZero0 | flagClip0
					}
				}
				badness++
			} else {
				flags ^= maskIntersection | flagIntersection
				if !parallel {
					flags ^= maskZero0
					if c > 0 {
						flags ^= maskClip0
					}
				}
			}
			if c+g1 < 1 {
				if parallel {
					flags ^= maskZero1 | flagZero1
					if c < 0 {
						flags ^= maskClip1
					}
					if f1 > absS {
						flags ^= flagZero1 | flagClip1
					}
				}
				badness++
			} else {
				flags ^= maskIntersection
				if !parallel {
					flags ^= maskZero1
					if c > 0 {
						flags ^= maskClip1
					}
				}
			}
			if badness > 2 {
				checkDir ^= skipDir
			}
		}
	}

	var result [2]dvec
	if checkDir != 0 {
		checkDir = s.estimateCubicError(c, sgn, dc, ds, n, &result, flags, checkDir)
	}
	if checkDir != 0 {
		s.emitFirstPoint(pt[0], outline.CubicSpline, checkDir)
		s.emitPoint(pt[1], result[0], 0, checkDir)
		s.emitPoint(pt[2], result[1], 0, checkDir)
		dir &^= checkDir
		if dir == 0 {
			s.lastNormal = n[1].v
			return
		}
	}

	var next [7]outline.Point
	var center outline.Point
	next[1] = outline.Point{X: pt[0].X + pt[1].X, Y: pt[0].Y + pt[1].Y}
	center = outline.Point{X: pt[1].X + pt[2].X + 2, Y: pt[1].Y + pt[2].Y + 2}
	next[5] = outline.Point{X: pt[2].X + pt[3].X, Y: pt[2].Y + pt[3].Y}
	next[2] = outline.Point{X: next[1].X + center.X, Y: next[1].Y + center.Y}
	next[4] = outline.Point{X: center.X + next[5].X, Y: center.Y + next[5].Y}
	next[3] = outline.Point{X: (next[2].X + next[4].X - 1) >> 3, Y: (next[2].Y + next[4].Y - 1) >> 3}
	next[2].X >>= 2
	next[2].Y >>= 2
	next[4].X >>= 2
	next[4].Y >>= 2
	next[1].X >>= 1
	next[1].Y >>= 1
	next[5].X >>= 1
	next[5].Y >>= 1
	next[0] = pt[0]
	next[6] = pt[3]

	var nextDeriv [5]dvec
	var centerDeriv dvec
	nextDeriv[0] = dvec{X: deriv[0].X / 2, Y: deriv[0].Y / 2}
	centerDeriv = dvec{X: deriv[1].X / 2, Y: deriv[1].Y / 2}
	nextDeriv[4] = dvec{X: deriv[2].X / 2, Y: deriv[2].Y / 2}
	nextDeriv[1] = dvec{X: (nextDeriv[0].X + centerDeriv.X) / 2, Y: (nextDeriv[0].Y + centerDeriv.Y) / 2}
	nextDeriv[3] = dvec{X: (centerDeriv.X + nextDeriv[4].X) / 2, Y: (centerDeriv.Y + nextDeriv[4].Y) / 2}
	nextDeriv[2] = dvec{X: (nextDeriv[1].X + nextDeriv[3].X) / 2, Y: (nextDeriv[1].Y + nextDeriv[3].Y) / 2}

	length := vecLen(nextDeriv[2])
	if length < s.minLen { // degenerate: split at the flat midpoint
		var nextNormal [4]normal
		nextNormal[0] = normal{v: n[0].v, len: n[0].len / 2}
		nextNormal[3] = normal{v: n[1].v, len: n[1].len / 2}

		nextDeriv[1] = dvec{X: nextDeriv[1].X + nextDeriv[2].X, Y: nextDeriv[1].Y + nextDeriv[2].Y}
		nextDeriv[3] = dvec{X: nextDeriv[3].X + nextDeriv[2].X, Y: nextDeriv[3].Y + nextDeriv[2].Y}
		nextDeriv[2] = dvec{}

		len1 := vecLen(nextDeriv[1])
		if len1 < s.minLen {
			nextNormal[1] = n[0]
		} else {
			sc := 1 / len1
			nextNormal[1] = normal{v: dvec{X: nextDeriv[1].X * sc, Y: nextDeriv[1].Y * sc}, len: len1}
		}

		len2 := vecLen(nextDeriv[3])
		if len2 < s.minLen {
			nextNormal[2] = n[1]
		} else {
			sc := 1 / len2
			nextNormal[2] = normal{v: dvec{X: nextDeriv[3].X * sc, Y: nextDeriv[3].Y * sc}, len: len2}
		}

		if len1 < s.minLen {
			s.emitFirstPoint(next[0], outline.LineSegment, dir)
		} else {
			s.processCubic([4]outline.Point{next[0], next[1], next[2], next[3]}, [3]dvec{nextDeriv[0], nextDeriv[1], {}}, [2]normal{nextNormal[0], nextNormal[1]}, dir, first)
		}
		s.startSegment(next[2], nextNormal[2].v, dir)
		if len2 < s.minLen {
			s.emitFirstPoint(next[3], outline.LineSegment, dir)
		} else {
			s.processCubic([4]outline.Point{next[3], next[4], next[5], next[6]}, [3]dvec{{}, nextDeriv[3], nextDeriv[4]}, [2]normal{nextNormal[2], nextNormal[3]}, dir, false)
		}
		return
	}

	scale := 1 / length
	nextNormal := [3]normal{
		{v: n[0].v, len: n[0].len / 2},
		{v: dvec{X: nextDeriv[2].X * scale, Y: nextDeriv[2].Y * scale}, len: length},
		{v: n[1].v, len: n[1].len / 2},
	}
	s.processCubic([4]outline.Point{next[0], next[1], next[2], next[3]}, [3]dvec{nextDeriv[0], nextDeriv[1], nextDeriv[2]}, [2]normal{nextNormal[0], nextNormal[1]}, dir, first)
	s.processCubic([4]outline.Point{next[3], next[4], next[5], next[6]}, [3]dvec{nextDeriv[2], nextDeriv[3], nextDeriv[4]}, [2]normal{nextNormal[1], nextNormal[2]}, dir, false)
}

func (s *state) addCubic(pt [4]outline.Point, dir int) {
	flags := 9

	dx0 := pt[1].X - pt[0].X
	dy0 := pt[1].Y - pt[0].Y
	if float64(dx0) > -s.eps && float64(dx0) < s.eps && float64(dy0) > -s.eps && float64(dy0) < s.eps {
		dx0 = pt[2].X - pt[0].X
		dy0 = pt[2].Y - pt[0].Y
		if float64(dx0) > -s.eps && float64(dx0) < s.eps && float64(dy0) > -s.eps && float64(dy0) < s.eps {
			s.addLine(pt[0], pt[3], dir)
			return
		}
		flags ^= 1
	}

	dx2 := pt[3].X - pt[2].X
	dy2 := pt[3].Y - pt[2].Y
	if float64(dx2) > -s.eps && float64(dx2) < s.eps && float64(dy2) > -s.eps && float64(dy2) < s.eps {
		dx2 = pt[3].X - pt[1].X
		dy2 = pt[3].Y - pt[1].Y
		if float64(dx2) > -s.eps && float64(dx2) < s.eps && float64(dy2) > -s.eps && float64(dy2) < s.eps {
			s.addLine(pt[0], pt[3], dir)
			return
		}
		flags ^= 4
	}

	if flags == 12 {
		s.addLine(pt[0], pt[3], dir)
		return
	}

	dx1 := pt[flags>>2].X - pt[flags&3].X
	dy1 := pt[flags>>2].Y - pt[flags&3].Y

	deriv := [3]dvec{
		{X: float64(dy0) * s.yscale, Y: -float64(dx0) * s.xscale},
		{X: float64(dy1) * s.yscale, Y: -float64(dx1) * s.xscale},
		{X: float64(dy2) * s.yscale, Y: -float64(dx2) * s.xscale},
	}
	len0 := vecLen(deriv[0])
	scale0 := 1 / len0
	len2 := vecLen(deriv[2])
	scale2 := 1 / len2
	n := [2]normal{
		{v: dvec{X: deriv[0].X * scale0, Y: deriv[0].Y * scale0}, len: len0},
		{v: dvec{X: deriv[2].X * scale2, Y: deriv[2].Y * scale2}, len: len2},
	}

	first := s.contourStart
	s.startSegment(pt[0], n[0].v, dir)
	s.processCubic(pt, deriv, n, dir, first)
}

func (s *state) closeContour(lastPoint outline.Point, dir int) {
	if s.contourStart {
		d := dir
		if d&3 == 3 {
			d = 1
		}
		s.drawCircle(lastPoint, d)
	} else {
		s.addLine(lastPoint, s.firstPoint, dir)
		s.startSegment(s.firstPoint, s.firstNormal, dir)
		s.emitPoint(s.firstPoint, s.firstNormal, outline.LineSegment, ^s.lastSkip&dir&s.firstSkip)
		if s.lastNormal.X != s.firstNormal.X || s.lastNormal.Y != s.firstNormal.Y {
			s.fixFirstPoint(s.firstPoint, s.lastNormal, ^s.lastSkip&dir&^s.firstSkip)
		}
		s.contourStart = true
	}
	if dir&1 != 0 {
		if err := s.result[0].CloseContour(); err != nil {
			s.fail()
		}
	}
	if dir&2 != 0 {
		if err := s.result[1].CloseContour(); err != nil {
			s.fail()
		}
	}
	s.contourFirst[0] = len(s.result[0].Points)
	s.contourFirst[1] = len(s.result[1].Points)
}

// Stroke strokes path with border radii (xbord, ybord) and allowable
// error eps, all in 26.6 fixed point, producing the outer (result0) and
// inner (result1) offset outlines. eps must not exceed max(xbord, ybord).
// Every point of path must lie within [outline.Min, outline.Max].
func Stroke(path *outline.Outline, xbord, ybord, eps int32) (result0, result1 *outline.Outline, err error) {
	if !path.InRange() {
		return nil, nil, ErrOutOfRange
	}
	rad := xbord
	if ybord > rad {
		rad = ybord
	}
	if rad < eps {
		rad = eps
	}

	s := &state{
		result: [2]*outline.Outline{outline.New(), outline.New()},
		xbord:  float64(xbord),
		ybord:  float64(ybord),
		eps:    float64(eps),
	}
	xscaleBase := float64(xbord)
	if xscaleBase < float64(eps) {
		xscaleBase = float64(eps)
	}
	yscaleBase := float64(ybord)
	if yscaleBase < float64(eps) {
		yscaleBase = float64(eps)
	}
	s.xscale = 1.0 / xscaleBase
	s.yscale = 1.0 / yscaleBase

	s.contourStart = true
	relErr := float64(eps) / float64(rad)
	s.mergeCos = 1 - relErr
	e := math.Sqrt(2 * relErr)
	s.splitCos = 1 + 8*relErr - 4*(1+relErr)*e
	s.minLen = relErr / 4
	s.errQ = 8 * (1 + relErr) * (1 + relErr)
	s.errC = 390 * relErr * relErr
	s.errA = e

	const dir = 3
	start := 0
	cur := 0
	for i := 0; i < len(path.Segments); i++ {
		n := int(path.Segments[i]) & outline.CountMask
		cur += n

		end := cur
		contourEnd := path.Segments[i]&outline.ContourEnd != 0
		if contourEnd {
			end = start
		}

		switch n {
		case outline.LineSegment:
			s.addLine(path.Points[cur-1], path.Points[end], dir)
		case outline.QuadraticSpline:
			s.addQuadratic([3]outline.Point{path.Points[cur-2], path.Points[cur-1], path.Points[end]}, dir)
		case outline.CubicSpline:
			s.addCubic([4]outline.Point{path.Points[cur-3], path.Points[cur-2], path.Points[cur-1], path.Points[end]}, dir)
		default:
			return nil, nil, ErrOutOfRange
		}
		if s.failed {
			return nil, nil, ErrOutOfRange
		}

		if contourEnd {
			s.closeContour(path.Points[end], dir)
			if s.failed {
				return nil, nil, ErrOutOfRange
			}
			start = cur
		}
	}

	return s.result[0], s.result[1], nil
}
