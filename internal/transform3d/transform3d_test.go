package transform3d

import (
	"math"
	"testing"

	"github.com/go-ass/asscore/internal/outline"
)

func TestIdentityNoRotationNoShear(t *testing.T) {
	p := Params{}
	if !p.Identity() {
		t.Fatalf("zero Params should be Identity")
	}
	p.Frz = 0.1
	if p.Identity() {
		t.Fatalf("a nonzero rotation should not be Identity")
	}
}

func TestApplyIdentityIsNoop(t *testing.T) {
	ol := &outline.Outline{Points: []outline.Point{{X: 100, Y: 200}}}
	Apply(Shift{}, []*outline.Outline{ol}, Params{})
	if ol.Points[0].X != 100 || ol.Points[0].Y != 200 {
		t.Fatalf("Apply with an identity Params mutated points: got (%d,%d)", ol.Points[0].X, ol.Points[0].Y)
	}
}

func TestApplyHalfTurnAboutZ(t *testing.T) {
	ol := &outline.Outline{Points: []outline.Point{{X: 100, Y: 0}}}
	Apply(Shift{}, []*outline.Outline{ol}, Params{Frz: math.Pi, BlurScale: 1})
	if ol.Points[0].X != -100 || ol.Points[0].Y != 0 {
		t.Fatalf("180-degree z rotation of (100,0) = (%d,%d), want (-100,0)", ol.Points[0].X, ol.Points[0].Y)
	}
}

func TestApplySkipsNilOutline(t *testing.T) {
	Apply(Shift{}, []*outline.Outline{nil}, Params{Frz: 1})
}
