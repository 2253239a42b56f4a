package compose

// resolveCollisions assigns each event group a vertical placement within
// its layer, following libass's fix_collisions: events with
// DetectCollisions false keep their previous Top if it's still free;
// everything else is placed by first-fit, preferring the top or bottom
// of the frame per its ShiftDirection. Placement deltas are applied
// directly to each group's fragments.
func (c *Composer) resolveCollisions(groups []eventGroup) {
	byLayer := map[int][]*eventGroup{}
	for i := range groups {
		byLayer[groups[i].layer] = append(byLayer[groups[i].layer], &groups[i])
	}
	for _, layerGroups := range byLayer {
		c.resolveLayer(layerGroups)
	}
}

type placedInterval struct{ top, bottom int }

func (c *Composer) resolveLayer(groups []*eventGroup) {
	var occupied []placedInterval
	var pending []*eventGroup

	for _, g := range groups {
		if !g.ev.DetectCollisions {
			bottom := g.ev.Top + g.height
			if !overlapsAny(occupied, g.ev.Top, bottom) {
				occupied = append(occupied, placedInterval{g.ev.Top, bottom})
				c.shiftGroup(g, g.ev.Top-g.top)
				continue
			}
		}
		pending = append(pending, g)
	}

	for _, g := range pending {
		var top int
		if g.ev.ShiftDirection == ShiftBottom {
			top = firstFitUpward(occupied, g.height, c.Settings.FrameHeight)
		} else {
			top = firstFitDownward(occupied, g.height)
		}
		occupied = append(occupied, placedInterval{top, top + g.height})
		g.ev.Top = top
		c.shiftGroup(g, top-g.top)
	}
}

func (c *Composer) shiftGroup(g *eventGroup, delta int) {
	if delta == 0 {
		return
	}
	for _, f := range g.frags {
		f.DstY += delta
	}
	g.top += delta
}

func overlapsAny(occ []placedInterval, top, bottom int) bool {
	for _, o := range occ {
		if top < o.bottom && bottom > o.top {
			return true
		}
	}
	return false
}

// firstFitDownward finds the lowest top >= 0 at which a height-tall
// interval fits without overlapping any occupied interval, preferring
// the top of the stack (ShiftTop).
func firstFitDownward(occ []placedInterval, height int) int {
	sorted := append([]placedInterval(nil), occ...)
	quickSortSlice(sorted, func(a, b placedInterval) bool { return a.top < b.top })
	cur := 0
	for _, o := range sorted {
		if o.top >= cur+height {
			break
		}
		if o.bottom > cur {
			cur = o.bottom
		}
	}
	return cur
}

// firstFitUpward finds the highest top at which a height-tall interval
// fits without overlapping any occupied interval, preferring the bottom
// of the frame (ShiftBottom).
func firstFitUpward(occ []placedInterval, height, frameHeight int) int {
	sorted := append([]placedInterval(nil), occ...)
	quickSortSlice(sorted, func(a, b placedInterval) bool { return a.top > b.top })
	cur := frameHeight - height
	for _, o := range sorted {
		if o.bottom <= cur {
			break
		}
		if o.top < cur+height {
			cur = o.top - height
		}
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}
