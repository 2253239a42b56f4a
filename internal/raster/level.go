package raster

// Tile-classification flags, matching libass's FLAG_* bit for bit.
const (
	flagSolid   = 1
	flagComplex = 2
	flagReverse = 4
	flagGeneric = 8
)

// getFillFlags classifies one group's segment sub-list (0, 1, or 2+
// segments) plus its bottom-left winding count into a solid fill, a
// trivial single half-plane, or a generically-filled tile.
func getFillFlags(lines []segment, winding int) int {
	switch len(lines) {
	case 0:
		if winding != 0 {
			return flagSolid
		}
		return 0
	default:
		if len(lines) > 1 {
			return flagComplex | flagGeneric
		}
	}

	line := &lines[0]
	const test = segULDR | segExactLeft
	if ((line.flags&test != test)) == (line.flags&segDn == 0) {
		winding++
	}

	switch winding {
	case 0:
		return flagComplex | flagReverse
	case 1:
		return flagComplex
	default:
		return flagSolid
	}
}

// fillSolidRect fills every tile of a (possibly multi-tile) rectangle with
// a single solid color.
func (r *Rasterizer) fillSolidRect(buf []byte, width, height, stride int, set bool) {
	step := 1 << uint(r.TileOrder)
	tileStride := stride * step
	for y := 0; y < height; y += step {
		row := buf[y/step*tileStride:]
		for x := 0; x < width; x += step {
			r.Engine.FillSolid(row[x:], stride, set)
		}
	}
}

// fillHalfplaneRect fills a (possibly multi-tile) rectangle with the
// antialiased half-plane a*x + b*y < c, falling back to a per-tile solid
// fill for tiles the half-plane boundary doesn't cross.
func (r *Rasterizer) fillHalfplaneRect(buf []byte, width, height, stride int, a, b int32, c int64, scale int32) {
	step := 1 << uint(r.TileOrder)
	if width == step && height == step {
		r.Engine.FillHalfplane(buf, stride, a, b, c, scale)
		return
	}

	absA, absB := uint32(a), uint32(b)
	if a < 0 {
		absA = uint32(-a)
	}
	if b < 0 {
		absB = uint32(-b)
	}
	size := int64(absA+absB) << uint(r.TileOrder+5)
	offs := (int64(a) + int64(b)) * int64(1<<uint(r.TileOrder+5))

	tileStride := stride * step
	for y := 0; y < height; y += step {
		row := buf[y/step*tileStride:]
		for x := 0; x < width; x += step {
			xi, yi := int64(x/step), int64(y/step)
			cc := c - (int64(a)*xi+int64(b)*yi)*int64(1<<uint(r.TileOrder+6))
			offsC := offs - cc
			absC := offsC
			if absC < 0 {
				absC = -absC
			}
			if absC < size {
				r.Engine.FillHalfplane(row[x:], stride, a, b, cc, scale)
			} else {
				set := (uint32(offsC>>32) ^ uint32(scale)) & 0x80000000
				r.Engine.FillSolid(row[x:], stride, set != 0)
			}
		}
	}
}

// fillLevel rasterizes one (possibly recursive) quad-tree level for the
// width x height tile-aligned rectangle starting at buf, given the two
// segment groups and their bottom-left winding counts. It is the direct
// analogue of libass's rasterizer_fill_level, reworked to pass segment
// slices by value through the recursion instead of popping them from a
// pair of ping-pong buffers: Go's garbage collector removes the need for
// the source's manual buffer-lifetime bookkeeping, so each call simply
// allocates the slices its split needs.
func (r *Rasterizer) fillLevel(buf []byte, width, height, stride int, lines lineGroups, winding [2]int) {
	flags0 := getFillFlags(lines[0], winding[0])
	flags1 := getFillFlags(lines[1], winding[1])
	flags := (flags0 | flags1) ^ flagComplex

	if flags&(flagSolid|flagComplex) != 0 {
		r.fillSolidRect(buf, width, height, stride, flags&flagSolid != 0)
		return
	}

	if flags&flagGeneric == 0 && (flags0^flags1)&flagComplex != 0 {
		group := 0
		f := flags0
		if flags1&flagComplex != 0 {
			group = 1
			f = flags1
		}
		line := &lines[group][0]
		scale := line.scale
		if f&flagReverse != 0 {
			scale = -scale
		}
		r.fillHalfplaneRect(buf, width, height, stride, line.a, line.b, line.c, scale)
		return
	}

	full := 1 << uint(r.TileOrder)
	if width == full && height == full {
		switch {
		case flags1&flagComplex == 0:
			r.Engine.FillGeneric(buf, stride, lines[0], winding[0])
		case flags0&flagComplex == 0:
			r.Engine.FillGeneric(buf, stride, lines[1], winding[1])
		default:
			line0 := &lines[0][0]
			if flags0&flagGeneric != 0 {
				r.Engine.FillGeneric(buf, stride, lines[0], winding[0])
			} else {
				scale := line0.scale
				if flags0&flagReverse != 0 {
					scale = -scale
				}
				r.Engine.FillHalfplane(buf, stride, line0.a, line0.b, line0.c, scale)
			}
			line1 := &lines[1][0]
			if flags1&flagGeneric != 0 {
				r.Engine.FillGeneric(r.tile, full, lines[1], winding[1])
			} else {
				scale := line1.scale
				if flags1&flagReverse != 0 {
					scale = -scale
				}
				r.Engine.FillHalfplane(r.tile, full, line1.a, line1.b, line1.c, scale)
			}
			// XXX: better to use max instead of add
			r.Engine.AddBitmaps(buf, stride, r.tile, full, full, full)
		}
		return
	}

	var nextKeep, nextMoved lineGroups
	var windingMoved [2]int
	var buf1 []byte
	var width1, height1 int

	if width > height {
		splitW := 1 << uint(ilog2(uint32(width-1)))
		width1 = width - splitW
		buf1 = buf[splitW:]
		nextKeep, nextMoved, windingMoved = polylineSplitHorz(lines, winding, int32(splitW)<<6)
		width = splitW
		height1 = height
	} else {
		splitH := 1 << uint(ilog2(uint32(height-1)))
		height1 = height - splitH
		buf1 = buf[splitH*stride:]
		nextKeep, nextMoved, windingMoved = polylineSplitVert(lines, winding, int32(splitH)<<6)
		height = splitH
		width1 = width
	}

	r.fillLevel(buf, width, height, stride, nextKeep, winding)
	r.fillLevel(buf1, width1, height1, stride, nextMoved, windingMoved)
}

// Fill rasterizes the accumulated polyline into an 8-bit coverage buffer
// covering a width x height pixel rectangle (stride bytes per row) whose
// top-left pixel is at (x0, y0) in the polyline's coordinate space. width
// and height must be multiples of the tile size.
func (r *Rasterizer) Fill(buf []byte, x0, y0, width, height, stride int) {
	x0f := int32(x0) << 6
	y0f := int32(y0) << 6
	for i := range r.lines {
		l := &r.lines[i]
		l.xMin -= x0f
		l.xMax -= x0f
		l.yMin -= y0f
		l.yMax -= y0f
		l.c -= int64(l.a)*int64(x0f) + int64(l.b)*int64(y0f)
	}
	r.bbox.X1 -= x0f
	r.bbox.X2 -= x0f
	r.bbox.Y1 -= y0f
	r.bbox.Y2 -= y0f

	lines := lineGroups{
		append([]segment(nil), r.lines[:r.nFirst]...),
		append([]segment(nil), r.lines[r.nFirst:]...),
	}
	var winding [2]int

	sizeX := int32(width) << 6
	sizeY := int32(height) << 6

	if r.bbox.X2 >= sizeX {
		lines, _, _ = polylineSplitHorz(lines, winding, sizeX)
		winding = [2]int{}
	}
	if r.bbox.Y2 >= sizeY {
		lines, _, _ = polylineSplitVert(lines, winding, sizeY)
		winding = [2]int{}
	}
	if r.bbox.X1 <= 0 {
		_, lines, winding = polylineSplitHorz(lines, winding, 0)
	}
	if r.bbox.Y1 <= 0 {
		_, lines, winding = polylineSplitVert(lines, winding, 0)
	}

	r.fillLevel(buf, width, height, stride, lines, winding)
}
