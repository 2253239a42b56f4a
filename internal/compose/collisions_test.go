package compose

import (
	"testing"

	"github.com/go-ass/asscore/internal/config"
)

func TestFirstFitDownwardPacksAboveGaps(t *testing.T) {
	if got := firstFitDownward(nil, 20); got != 0 {
		t.Fatalf("firstFitDownward(empty, 20) = %d, want 0", got)
	}
	occ := []placedInterval{{0, 10}, {20, 30}}
	if got := firstFitDownward(occ, 5); got != 10 {
		t.Fatalf("firstFitDownward = %d, want 10 (the gap between 10 and 20)", got)
	}
}

func TestFirstFitUpwardPacksFromBottom(t *testing.T) {
	if got := firstFitUpward(nil, 10, 100); got != 90 {
		t.Fatalf("firstFitUpward(empty, 10, 100) = %d, want 90", got)
	}
	occ := []placedInterval{{80, 100}}
	if got := firstFitUpward(occ, 10, 100); got != 70 {
		t.Fatalf("firstFitUpward = %d, want 70 (just above the occupied band)", got)
	}
}

func newTestComposer(frameHeight int) *Composer {
	return &Composer{Settings: &config.RenderSettings{FrameHeight: frameHeight}}
}

func TestResolveLayerStacksCollidingEvents(t *testing.T) {
	c := newTestComposer(200)
	e1 := &Event{DetectCollisions: true}
	e2 := &Event{DetectCollisions: true}
	groups := []eventGroup{
		{ev: e1, layer: 0, height: 20},
		{ev: e2, layer: 0, height: 20},
	}
	c.resolveCollisions(groups)
	if e1.Top != 0 {
		t.Fatalf("first colliding event Top = %d, want 0", e1.Top)
	}
	if e2.Top != 20 {
		t.Fatalf("second colliding event Top = %d, want 20 (stacked below the first)", e2.Top)
	}
}

func TestResolveLayerKeepsFixedTopWhenFree(t *testing.T) {
	c := newTestComposer(200)
	e := &Event{DetectCollisions: false, Top: 50}
	groups := []eventGroup{{ev: e, layer: 0, top: 0, height: 10}}
	c.resolveCollisions(groups)
	if e.Top != 50 {
		t.Fatalf("a DetectCollisions=false event with a free slot should keep its Top, got %d", e.Top)
	}
	if groups[0].top != 50 {
		t.Fatalf("the group's fragment offset should shift by Top-top, got top=%d", groups[0].top)
	}
}

func TestResolveLayerFallsThroughToFirstFitWhenOccupied(t *testing.T) {
	c := newTestComposer(200)
	eA := &Event{DetectCollisions: false, Top: 10}
	eB := &Event{DetectCollisions: false, Top: 15}
	groups := []eventGroup{
		{ev: eA, layer: 0, height: 20},
		{ev: eB, layer: 0, height: 20},
	}
	c.resolveCollisions(groups)
	if eA.Top != 10 {
		t.Fatalf("eA's requested slot was free, Top = %d, want 10", eA.Top)
	}
	if eB.Top == 15 {
		t.Fatalf("eB's requested slot overlapped eA's, it should have fallen through to first-fit")
	}
	if eB.Top != 30 {
		t.Fatalf("eB.Top = %d, want 30 (first gap below eA)", eB.Top)
	}
}
