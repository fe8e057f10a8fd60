package style

import (
	"math"
	"testing"
)

func TestDimensionResolve(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name      string
		dim       Dimension
		container float64
		want      float64
		wantOK    bool
	}{
		{"points ignore container", Points(42), 100, 42, true},
		{"points with undefined container", Points(42), nan, 42, true},
		{"percent of container", Percent(50), 200, 100, true},
		{"percent of undefined container", Percent(50), nan, 0, false},
		{"auto never resolves", Auto(), 200, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.dim.Resolve(tt.container)
			if ok != tt.wantOK {
				t.Fatalf("Resolve ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensionIsDefinite(t *testing.T) {
	if !Points(10).IsDefinite(math.NaN()) {
		t.Error("points should be definite regardless of container")
	}
	if Percent(10).IsDefinite(math.NaN()) {
		t.Error("percent needs a definite container")
	}
	if !Percent(10).IsDefinite(100) {
		t.Error("percent with container should be definite")
	}
	if Auto().IsDefinite(100) {
		t.Error("auto is never definite")
	}
}

func TestStyleHash(t *testing.T) {
	base := Default()
	if base.Hash() != Default().Hash() {
		t.Fatal("identical styles must hash identically")
	}

	mutations := []struct {
		name   string
		mutate func(*Style)
	}{
		{"direction", func(s *Style) { s.Direction = DirectionColumn }},
		{"grow", func(s *Style) { s.Grow = 1 }},
		{"basis", func(s *Style) { s.Basis = Points(100) }},
		{"width", func(s *Style) { s.Width = Percent(50) }},
		{"padding", func(s *Style) { s.Padding.Left = 4 }},
		{"justify", func(s *Style) { s.Justify = JustifyCenter }},
		{"position", func(s *Style) { s.Position = PositionAbsolute }},
		{"align content", func(s *Style) { s.AlignContent = AlignContentCenter }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if s.Hash() == base.Hash() {
				t.Errorf("mutating %s did not change the hash", tt.name)
			}
		})
	}
}

func TestMainCrossDimension(t *testing.T) {
	s := Default()
	s.Width = Points(10)
	s.Height = Points(20)

	s.Direction = DirectionRow
	if s.MainDimension() != Points(10) || s.CrossDimension() != Points(20) {
		t.Error("row: main should be width, cross height")
	}

	s.Direction = DirectionColumn
	if s.MainDimension() != Points(20) || s.CrossDimension() != Points(10) {
		t.Error("column: main should be height, cross width")
	}

	s.Direction = DirectionRowReverse
	if s.MainDimension() != Points(10) {
		t.Error("row-reverse: main should be width")
	}
}

func TestEnumStrings(t *testing.T) {
	if DirectionRowReverse.String() != "row-reverse" {
		t.Errorf("Direction string = %q", DirectionRowReverse.String())
	}
	if JustifySpaceBetween.String() != "space-between" {
		t.Errorf("Justify string = %q", JustifySpaceBetween.String())
	}
	if AlignStretch.String() != "stretch" {
		t.Errorf("Align string = %q", AlignStretch.String())
	}
}
