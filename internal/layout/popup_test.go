package layout

import (
	"math"
	"testing"

	"github.com/atomicstack/keypad-popup/internal/geom"
)

// bruteForce enumerates every aligned placement independently of SolvePopup.
func bruteForce(in PopupInput) (float32, bool) {
	width := in.Unit.X * float32(in.Options)
	rel := in.Origin.X - in.Container.Min.X
	found := false
	var bestX float32
	bestErr := math.Inf(1)
	for k := 0; k < in.Options; k++ {
		x := rel - float32(k)*in.Unit.X
		if x < 0 || x+width > in.Container.Dx() {
			continue
		}
		e := math.Abs(float64(x + width/2 - rel - in.Unit.X/2))
		if e < bestErr {
			bestErr, bestX, found = e, x, true
		}
	}
	y := in.Origin.Y - in.Container.Min.Y - in.Unit.Y - in.Gap - in.Caption
	if y < 0 || y+in.Unit.Y+in.Caption > in.Container.Dy() {
		return 0, false
	}
	return bestX, found
}

func TestSolvePopupCentersOverKey(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(0, 0, 300, 400),
		Origin:    geom.Pt(125, 200),
		Unit:      geom.Pt(50, 40),
		Options:   3,
		Gap:       8,
	}
	r, ok := SolvePopup(in)
	if !ok {
		t.Fatalf("expected a placement")
	}
	if r != geom.XYWH(75, 152, 150, 40) {
		t.Fatalf("expected centred popup, got %v", r)
	}
}

func TestSolvePopupRightEdge(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(0, 0, 300, 400),
		Origin:    geom.Pt(250, 200),
		Unit:      geom.Pt(50, 40),
		Options:   3,
	}
	r, ok := SolvePopup(in)
	if !ok {
		t.Fatalf("expected a placement")
	}
	if r.Min.X != 150 || r.Max.X != 300 {
		t.Fatalf("expected popup flush with the right edge, got %v", r)
	}
	want, _ := bruteForce(in)
	if r.Min.X != want {
		t.Fatalf("expected brute force offset %g, got %g", want, r.Min.X)
	}
}

func TestSolvePopupKeyPastContainerIsInfeasible(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(0, 0, 300, 400),
		Origin:    geom.Pt(280, 200),
		Unit:      geom.Pt(50, 40),
		Options:   3,
	}
	if _, ok := SolvePopup(in); ok {
		t.Fatalf("expected no placement: every aligned offset overflows")
	}
	if _, ok := bruteForce(in); ok {
		t.Fatalf("brute force disagrees")
	}
}

func TestSolvePopupNarrowContainer(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(0, 0, 100, 100),
		Origin:    geom.Pt(0, 50),
		Unit:      geom.Pt(50, 20),
		Options:   3,
	}
	if _, ok := SolvePopup(in); ok {
		t.Fatalf("expected no placement in a container narrower than the popup")
	}
	if _, ok := SolvePopup(PopupInput{Container: in.Container, Unit: in.Unit}); ok {
		t.Fatalf("expected no placement without options")
	}
}

func TestSolvePopupTieGoesToFirstCandidate(t *testing.T) {
	// With two options the midpoint error is half a unit for both offsets.
	in := PopupInput{
		Container: geom.XYWH(0, 0, 400, 100),
		Origin:    geom.Pt(100, 50),
		Unit:      geom.Pt(50, 20),
		Options:   2,
	}
	r, ok := SolvePopup(in)
	if !ok {
		t.Fatalf("expected a placement")
	}
	if r.Min.X != 100 {
		t.Fatalf("expected k=0 offset 100, got %g", r.Min.X)
	}
}

func TestSolvePopupCaptionAndContainerOffset(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(20, 10, 300, 400),
		Origin:    geom.Pt(70, 210),
		Unit:      geom.Pt(50, 40),
		Options:   1,
		Caption:   12,
		Gap:       8,
	}
	r, ok := SolvePopup(in)
	if !ok {
		t.Fatalf("expected a placement")
	}
	if r != geom.XYWH(50, 140, 50, 52) {
		t.Fatalf("unexpected frame %v", r)
	}
	cell := PopupCell(r, in.Unit, 0)
	if cell != geom.XYWH(50, 152, 50, 40) {
		t.Fatalf("expected option row under the caption, got %v", cell)
	}
}

func TestSolvePopupMatchesBruteForce(t *testing.T) {
	unit := geom.Pt(30, 20)
	for _, width := range []float32{90, 120, 210, 330} {
		container := geom.XYWH(15, 10, width, 200)
		for _, top := range []float32{15, 30, 40, 100, 205} {
			for options := 1; options <= 5; options++ {
				for col := float32(0); col*unit.X+unit.X <= width; col++ {
					in := PopupInput{
						Container: container,
						Origin:    geom.Pt(container.Min.X+col*unit.X, top),
						Unit:      unit,
						Options:   options,
						Caption:   5,
						Gap:       2,
					}
					want, wantOK := bruteForce(in)
					r, ok := SolvePopup(in)
					if ok != wantOK {
						t.Fatalf("width %g top %g options %d col %g: expected ok=%v, got %v", width, top, options, col, wantOK, ok)
					}
					if !ok {
						continue
					}
					if r.Min.X != want {
						t.Fatalf("width %g top %g options %d col %g: expected x=%g, got %g", width, top, options, col, want, r.Min.X)
					}
					if !r.Add(container.Min).In(container) {
						t.Fatalf("popup %v escapes container %v", r.Add(container.Min), container)
					}
				}
			}
		}
	}
}

func TestSolvePopupAboveContainerIsInfeasible(t *testing.T) {
	in := PopupInput{
		Container: geom.XYWH(0, 0, 300, 400),
		Origin:    geom.Pt(125, 20),
		Unit:      geom.Pt(50, 40),
		Options:   3,
		Gap:       8,
	}
	if r, ok := SolvePopup(in); ok {
		t.Fatalf("expected no placement above the container, got %v", r)
	}

	// The caption alone can push the popup out of a top row.
	in = PopupInput{
		Container: geom.XYWH(0, 0, 300, 400),
		Origin:    geom.Pt(125, 50),
		Unit:      geom.Pt(50, 40),
		Options:   3,
		Caption:   10,
	}
	r, ok := SolvePopup(in)
	if !ok || r != geom.XYWH(75, 0, 150, 50) {
		t.Fatalf("expected popup touching the top edge, got %v ok=%v", r, ok)
	}
	in.Caption = 11
	if r, ok := SolvePopup(in); ok {
		t.Fatalf("expected caption overflow to be infeasible, got %v", r)
	}
}
