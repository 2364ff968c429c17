package geometry

import (
	"math"
	"testing"
)

func TestPointOps(t *testing.T) {
	a := NewPoint2D(1, 2)
	b := NewPoint2D(4, 6)

	if d := a.Distance(b); !approx(d, 5) {
		t.Errorf("Distance = %v, want 5", d)
	}
	if s := a.Add(b); s != (Point2D{X: 5, Y: 8}) {
		t.Errorf("Add = %v", s)
	}
	if d := b.Sub(a); d != (Point2D{X: 3, Y: 4}) {
		t.Errorf("Sub = %v", d)
	}
	if m := a.Midpoint(b); m != (Point2D{X: 2.5, Y: 4}) {
		t.Errorf("Midpoint = %v", m)
	}
	if c := (Point2D{X: 1}).Cross(Point2D{Y: 1}); !approx(c, 1) {
		t.Errorf("Cross = %v, want 1", c)
	}
}

func TestRectFromCorners(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want Rect
	}{
		{"normal", Point2D{X: 1, Y: 2}, Point2D{X: 4, Y: 7}, Rect{X: 1, Y: 2, Width: 3, Height: 5}},
		{"reversed", Point2D{X: 4, Y: 7}, Point2D{X: 1, Y: 2}, Rect{X: 1, Y: 2, Width: 3, Height: 5}},
		{"degenerate", Point2D{X: 2, Y: 2}, Point2D{X: 2, Y: 2}, Rect{X: 2, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectFromCorners(tt.a, tt.b); got != tt.want {
				t.Errorf("RectFromCorners = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectVertices(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 2, Height: 1}
	v := r.Vertices()
	want := []Point2D{{0, 0}, {2, 0}, {2, 1}, {0, 1}}
	if len(v) != 4 {
		t.Fatalf("Vertices returned %d points", len(v))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Point2D
		want     float64
	}{
		{"unit square", []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"triangle", []Point2D{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"clockwise square", []Point2D{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, 4},
		{"too few", []Point2D{{0, 0}, {1, 1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.vertices); !approx(got, tt.want) {
				t.Errorf("PolygonArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox([]Point2D{{X: 3, Y: -1}, {X: -2, Y: 4}, {X: 1, Y: 1}})
	want := Rect{X: -2, Y: -1, Width: 5, Height: 5}
	if box != want {
		t.Errorf("BoundingBox = %v, want %v", box, want)
	}
}

func TestAffineTransform(t *testing.T) {
	// Zoom by 2 then translate: the pan/zoom mapping the viewer uses.
	view := Translation(10, 20).Compose(Scaling(2))
	p := view.Apply(Point2D{X: 3, Y: 4})
	if p != (Point2D{X: 16, Y: 28}) {
		t.Errorf("Apply = %v, want (16, 28)", p)
	}

	inv, ok := view.Inverse()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	back := inv.Apply(p)
	if !approx(back.X, 3) || !approx(back.Y, 4) {
		t.Errorf("round trip = %v, want (3, 4)", back)
	}

	if _, ok := (AffineTransform{}).Inverse(); ok {
		t.Error("zero transform should not invert")
	}

	if math.Abs(Identity().Apply(Point2D{X: 7, Y: 9}).X-7) > 1e-12 {
		t.Error("identity transform moved the point")
	}
}
