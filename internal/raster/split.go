package raster

// segmentMoveX shifts a segment's coordinate frame left by x, clamping the
// new x_min at 0 and dropping SEGFLAG_EXACT_TOP if the segment now touches
// the new origin along an exact left edge on the "up" diagonal.
func segmentMoveX(line *segment, x int32) {
	line.xMin -= x
	line.xMax -= x
	if line.xMin < 0 {
		line.xMin = 0
	}
	line.c -= int64(line.a) * int64(x)

	const test = segExactLeft | segULDR
	if line.xMin == 0 && line.flags&test == test {
		line.flags &^= segExactTop
	}
}

func segmentMoveY(line *segment, y int32) {
	line.yMin -= y
	line.yMax -= y
	if line.yMin < 0 {
		line.yMin = 0
	}
	line.c -= int64(line.b) * int64(y)

	const test = segExactTop | segULDR
	if line.yMin == 0 && line.flags&test == test {
		line.flags &^= segExactLeft
	}
}

// segmentSplitHorz splits line at x into itself (the x <= x part) and next
// (the x >= x part, re-based to x=0), swapping EXACT_TOP/EXACT_BOTTOM and,
// on the up-left/down-right diagonal, swapping which half keeps which
// pre-split flags.
func segmentSplitHorz(line, next *segment, x int32) {
	*next = *line
	next.c -= int64(line.a) * int64(x)
	next.xMin = 0
	next.xMax -= x
	line.xMax = x

	line.flags &^= segExactTop
	next.flags &^= segExactBottom
	if line.flags&segULDR != 0 {
		line.flags, next.flags = next.flags, line.flags
	}
	line.flags |= segExactRight
	next.flags |= segExactLeft
}

func segmentSplitVert(line, next *segment, y int32) {
	*next = *line
	next.c -= int64(line.b) * int64(y)
	next.yMin = 0
	next.yMax -= y
	line.yMax = y

	line.flags &^= segExactLeft
	next.flags &^= segExactRight
	if line.flags&segULDR != 0 {
		line.flags, next.flags = next.flags, line.flags
	}
	line.flags |= segExactBottom
	next.flags |= segExactTop
}

func segmentCheckLeft(line *segment, x int32) bool {
	if line.flags&segExactLeft != 0 {
		return line.xMin >= x
	}
	yy := line.yMax
	if line.flags&segULDR != 0 {
		yy = line.yMin
	}
	cc := line.c - int64(line.a)*int64(x) - int64(line.b)*int64(yy)
	if line.a < 0 {
		cc = -cc
	}
	return cc >= 0
}

func segmentCheckRight(line *segment, x int32) bool {
	if line.flags&segExactRight != 0 {
		return line.xMax <= x
	}
	yy := line.yMin
	if line.flags&segULDR != 0 {
		yy = line.yMax
	}
	cc := line.c - int64(line.a)*int64(x) - int64(line.b)*int64(yy)
	if line.a > 0 {
		cc = -cc
	}
	return cc >= 0
}

func segmentCheckTop(line *segment, y int32) bool {
	if line.flags&segExactTop != 0 {
		return line.yMin >= y
	}
	xx := line.xMax
	if line.flags&segULDR != 0 {
		xx = line.xMin
	}
	cc := line.c - int64(line.b)*int64(y) - int64(line.a)*int64(xx)
	if line.b < 0 {
		cc = -cc
	}
	return cc >= 0
}

func segmentCheckBottom(line *segment, y int32) bool {
	if line.flags&segExactBottom != 0 {
		return line.yMax <= y
	}
	xx := line.xMin
	if line.flags&segULDR != 0 {
		xx = line.xMax
	}
	cc := line.c - int64(line.b)*int64(y) - int64(line.a)*int64(xx)
	if line.b > 0 {
		cc = -cc
	}
	return cc >= 0
}

// splitHorzOneGroup partitions one group's segments by the vertical line
// x, returning the part at or left of x (clipped, "keep") and the part at
// or right of x (shifted to a new origin, "moved"), plus the bottom-edge
// winding-count delta the split crosses at that boundary. This is one
// group's worth of libass's polyline_split_horz loop body; SetOutline's
// two groups (fill outline, optional border outline) are processed through
// it independently since the loop's "group" tag only ever selects which
// winding bucket and output slice a segment lands in.
func splitHorzOneGroup(src []segment, x int32) (keep, moved []segment, windingDelta int) {
	for _, s := range src {
		delta := 0
		if s.yMin == 0 && s.flags&segExactTop != 0 {
			if s.a < 0 {
				delta = 1
			} else {
				delta = -1
			}
		}
		if segmentCheckRight(&s, x) {
			windingDelta += delta
			if s.xMin >= x {
				continue
			}
			d := s
			d.xMax = min32(d.xMax, x)
			keep = append(keep, d)
			continue
		}
		if segmentCheckLeft(&s, x) {
			d := s
			segmentMoveX(&d, x)
			moved = append(moved, d)
			continue
		}
		if s.flags&segULDR != 0 {
			windingDelta += delta
		}
		d0 := s
		var d1 segment
		segmentSplitHorz(&d0, &d1, x)
		keep = append(keep, d0)
		moved = append(moved, d1)
	}
	return
}

func splitVertOneGroup(src []segment, y int32) (keep, moved []segment, windingDelta int) {
	for _, s := range src {
		delta := 0
		if s.xMin == 0 && s.flags&segExactLeft != 0 {
			if s.b < 0 {
				delta = 1
			} else {
				delta = -1
			}
		}
		if segmentCheckBottom(&s, y) {
			windingDelta += delta
			if s.yMin >= y {
				continue
			}
			d := s
			d.yMax = min32(d.yMax, y)
			keep = append(keep, d)
			continue
		}
		if segmentCheckTop(&s, y) {
			d := s
			segmentMoveY(&d, y)
			moved = append(moved, d)
			continue
		}
		if s.flags&segULDR != 0 {
			windingDelta += delta
		}
		d0 := s
		var d1 segment
		segmentSplitVert(&d0, &d1, y)
		keep = append(keep, d0)
		moved = append(moved, d1)
	}
	return
}

// lineGroups is a tile-fill working set: two independently-wound segment
// groups (the fill outline and, when present, the border outline).
type lineGroups [2][]segment

// polylineSplitHorz splits both groups of lines at the vertical line x.
// winding is the accumulated winding at lines' bottom-left corner; it is
// read (not mutated) and a new value for the moved side is returned
// alongside it, matching libass's polyline_split_horz contract where the
// "index^0" recursion keeps the original winding and "index^1" gets the
// post-split one.
func polylineSplitHorz(lines lineGroups, winding [2]int, x int32) (keep, moved lineGroups, movedWinding [2]int) {
	movedWinding = winding
	for g := 0; g < 2; g++ {
		k, m, d := splitHorzOneGroup(lines[g], x)
		keep[g], moved[g] = k, m
		movedWinding[g] += d
	}
	return
}

func polylineSplitVert(lines lineGroups, winding [2]int, y int32) (keep, moved lineGroups, movedWinding [2]int) {
	movedWinding = winding
	for g := 0; g < 2; g++ {
		k, m, d := splitVertOneGroup(lines[g], y)
		keep[g], moved[g] = k, m
		movedWinding[g] += d
	}
	return
}
