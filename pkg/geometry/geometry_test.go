package geometry

import "testing"

func TestRectContains(t *testing.T) {
	r := RectFromLTWH(10, 20, 100, 50)

	tests := []struct {
		name string
		pt   Offset
		want bool
	}{
		{"center", Offset{X: 60, Y: 45}, true},
		{"top left corner inclusive", Offset{X: 10, Y: 20}, true},
		{"right edge exclusive", Offset{X: 110, Y: 45}, false},
		{"bottom edge exclusive", Offset{X: 60, Y: 70}, false},
		{"outside left", Offset{X: 9, Y: 45}, false},
		{"outside above", Offset{X: 60, Y: 19}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.pt); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromLTWH(0, 0, 100, 100)
	b := RectFromLTWH(50, 50, 100, 100)

	if !a.Intersects(b) {
		t.Fatal("expected overlap")
	}
	got := a.Intersect(b)
	want := RectFromLTWH(50, 50, 50, 50)
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}

	c := RectFromLTWH(200, 200, 10, 10)
	if a.Intersects(c) {
		t.Error("disjoint rects reported as intersecting")
	}
	if !a.Intersect(c).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestRectTranslateAndUnion(t *testing.T) {
	r := RectFromLTWH(0, 0, 10, 10).Translate(5, 7)
	if r.Origin() != (Offset{X: 5, Y: 7}) {
		t.Errorf("Translate origin = %+v", r.Origin())
	}

	u := RectFromLTWH(0, 0, 10, 10).Union(RectFromLTWH(20, 5, 10, 10))
	want := RectFromLTWH(0, 0, 30, 15)
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestEdgeInsets(t *testing.T) {
	e := EdgeInsets{Left: 1, Top: 2, Right: 3, Bottom: 4}
	if e.Horizontal() != 4 || e.Vertical() != 6 {
		t.Errorf("Horizontal/Vertical = %v/%v", e.Horizontal(), e.Vertical())
	}

	s := e.Deflate(Size{Width: 100, Height: 50})
	if s.Width != 96 || s.Height != 44 {
		t.Errorf("Deflate = %+v", s)
	}

	if EdgeInsetsAll(5).Horizontal() != 10 {
		t.Error("EdgeInsetsAll")
	}
	if EdgeInsetsSymmetric(3, 7).Vertical() != 14 {
		t.Error("EdgeInsetsSymmetric")
	}
}

func TestFloatEqual(t *testing.T) {
	if !FloatEqual(1.0, 1.0+epsilon/2) {
		t.Error("values within epsilon should compare equal")
	}
	if FloatEqual(1.0, 1.001) {
		t.Error("values beyond epsilon should differ")
	}
}
