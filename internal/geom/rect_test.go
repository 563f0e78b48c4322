package geom

import "testing"

func TestRect_ZeroIsInvalid(t *testing.T) {
	var r Rect
	if r.IsValid() {
		t.Fatalf("expected zero rect to be invalid")
	}
	if (Rect{Width: 10, Height: 0}).IsValid() {
		t.Fatalf("expected zero-height rect to be invalid")
	}
}

func TestRect_UnionIgnoresInvalid(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("expected %v, got %v", a, got)
	}
	b := Rect{X: -5, Y: 0, Width: 10, Height: 40}
	got := a.Union(b)
	want := Rect{X: -5, Y: 0, Width: 35, Height: 40}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRect_OverlapsEdgeTouchingIsFalse(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 10, Y: 0, Width: 10, Height: 10}
	if a.Overlaps(b) {
		t.Fatalf("rects sharing only an edge must not overlap")
	}
	c := Rect{X: 9, Y: 9, Width: 10, Height: 10}
	if !a.Overlaps(c) {
		t.Fatalf("expected overlap")
	}
}

func TestRect_Lerp(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 100, Y: 50, Width: 200, Height: 300}
	if got := a.Lerp(b, 0.5); got != (Rect{X: 50, Y: 25, Width: 150, Height: 200}) {
		t.Fatalf("unexpected midpoint %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Fatalf("expected end rect, got %v", got)
	}
}
