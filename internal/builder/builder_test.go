package builder

import (
	"math"
	"testing"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func TestBuildTwoPointTools(t *testing.T) {
	p0 := pt(0, 0)
	p1 := pt(10, 0)

	tests := []struct {
		name  string
		tool  tool.Tool
		check func(t *testing.T, e *entity.Entity)
	}{
		{"line", tool.Line, func(t *testing.T, e *entity.Entity) {
			if e.Type != entity.TypeLine || *e.Start != p0 || *e.End != p1 {
				t.Errorf("line = %+v", e)
			}
		}},
		{"rectangle", tool.Rectangle, func(t *testing.T, e *entity.Entity) {
			if e.Type != entity.TypeRectangle || !e.Closed || len(e.Vertices) != 4 {
				t.Errorf("rectangle = %+v", e)
			}
		}},
		{"circle radius point", tool.Circle, func(t *testing.T, e *entity.Entity) {
			if e.Type != entity.TypeCircle || *e.Center != p0 || !approx(e.Radius, 10) {
				t.Errorf("circle = %+v", e)
			}
		}},
		{"circle diameter point", tool.CircleDiameter, func(t *testing.T, e *entity.Entity) {
			if *e.Center != p0 || !approx(e.Radius, 5) {
				t.Errorf("circle = %+v", e)
			}
		}},
		{"circle 2 diameter points", tool.Circle2PDiameter, func(t *testing.T, e *entity.Entity) {
			if *e.Center != pt(5, 0) || !approx(e.Radius, 5) {
				t.Errorf("circle = %+v", e)
			}
		}},
		{"measure distance", tool.MeasureDistance, func(t *testing.T, e *entity.Entity) {
			if e.Type != entity.TypeLine || !e.Measurement || !approx(e.Value, 10) {
				t.Errorf("measurement = %+v", e)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Build(tt.tool, []geometry.Point2D{p0, p1}, "id-1", Options{})
			if e == nil {
				t.Fatal("Build returned nil for a complete 2-point tool")
			}
			if e.ID != "id-1" || !e.Visible {
				t.Errorf("identity/visibility not set: %+v", e)
			}
			tt.check(t, e)
		})
	}
}

// All 2-point tools must build from any two distinct points.
func TestBuildTwoPointToolsNeverNil(t *testing.T) {
	for _, tl := range []tool.Tool{
		tool.Line, tool.Rectangle, tool.Circle,
		tool.CircleDiameter, tool.Circle2PDiameter, tool.MeasureDistance,
	} {
		if e := Build(tl, []geometry.Point2D{pt(1, 2), pt(3, 4)}, "x", Options{}); e == nil {
			t.Errorf("Build(%q) = nil", tl)
		}
	}
}

func TestBuildIncompleteReturnsNil(t *testing.T) {
	tests := []struct {
		tool   tool.Tool
		points []geometry.Point2D
	}{
		{tool.Line, []geometry.Point2D{pt(0, 0)}},
		{tool.Circle3P, []geometry.Point2D{pt(0, 0), pt(1, 0)}},
		{tool.Polygon, []geometry.Point2D{pt(0, 0), pt(1, 0)}},
		{tool.Line, []geometry.Point2D{pt(0, 0), pt(1, 0), pt(2, 0)}}, // over-arity
		{tool.Tool("bogus"), []geometry.Point2D{pt(0, 0), pt(1, 0)}},
	}

	for _, tt := range tests {
		if e := Build(tt.tool, tt.points, "x", Options{}); e != nil {
			t.Errorf("Build(%q, %d pts) = %+v, want nil", tt.tool, len(tt.points), e)
		}
	}
}

func TestBuildCircle3P(t *testing.T) {
	e := Build(tool.Circle3P, []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 5)}, "c", Options{})
	if e == nil {
		t.Fatal("Build returned nil for non-collinear points")
	}
	for _, p := range []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 5)} {
		if d := e.Center.Distance(p); !approx(d, e.Radius) {
			t.Errorf("distance(center, %v) = %v, want %v", p, d, e.Radius)
		}
	}

	// Exactly collinear input is degenerate.
	if e := Build(tool.Circle3P, []geometry.Point2D{pt(0, 0), pt(5, 0), pt(10, 0)}, "c", Options{}); e != nil {
		t.Errorf("collinear Build = %+v, want nil", e)
	}
}

func TestBuildCircle2PRadius(t *testing.T) {
	pts := []geometry.Point2D{pt(-3, 0), pt(3, 0), pt(0, 10)}

	e := Build(tool.Circle2PRadius, pts, "c", Options{Radius: 5})
	if e == nil {
		t.Fatal("Build returned nil")
	}
	if !approx(e.Center.Y, 4) {
		t.Errorf("indicator did not pick the nearer center: %v", e.Center)
	}

	// Chord longer than the diameter has no solution.
	if e := Build(tool.Circle2PRadius, pts, "c", Options{Radius: 2}); e != nil {
		t.Errorf("impossible radius produced %+v", e)
	}

	// Unset radius falls back to the minimal circle (half the chord).
	if e := Build(tool.Circle2PRadius, pts, "c", Options{}); e == nil || !approx(e.Radius, 3) {
		t.Errorf("default radius entity = %+v, want radius 3", e)
	}
}

func TestBuildChordSagitta(t *testing.T) {
	e := Build(tool.CircleChordSag, []geometry.Point2D{pt(-3, 0), pt(3, 0), pt(0, 1)}, "c", Options{})
	if e == nil {
		t.Fatal("Build returned nil")
	}
	if !approx(e.Radius, 5) {
		t.Errorf("radius = %v, want 5", e.Radius)
	}

	// Sagitta point on the chord line is degenerate.
	if e := Build(tool.CircleChordSag, []geometry.Point2D{pt(-3, 0), pt(3, 0), pt(1, 0)}, "c", Options{}); e != nil {
		t.Errorf("degenerate sagitta produced %+v", e)
	}
}

func TestBuildBestFit(t *testing.T) {
	center := pt(2, 3)
	var pts []geometry.Point2D
	for i := 0; i < 6; i++ {
		pts = append(pts, geometry.PointOnCircle(center, 4, float64(i)))
	}

	e := Build(tool.CircleBestFit, pts, "fit", Options{})
	if e == nil {
		t.Fatal("Build returned nil")
	}
	if !approx(e.Center.X, 2) || !approx(e.Center.Y, 3) || !approx(e.Radius, 4) {
		t.Errorf("best fit = center %v radius %v", e.Center, e.Radius)
	}
}

func TestBuildArcFlip(t *testing.T) {
	pts := []geometry.Point2D{pt(-1, 0), pt(0, 1), pt(1, 0)}

	normal := Build(tool.Arc3P, pts, "a", Options{})
	flipped := Build(tool.Arc3P, pts, "a", Options{Flip: true})
	if normal == nil || flipped == nil {
		t.Fatal("Build returned nil for a valid arc")
	}
	if normal.Counterclockwise == flipped.Counterclockwise {
		t.Error("flip flag did not invert the sweep")
	}
	if normal.StartAngle != flipped.StartAngle || normal.EndAngle != flipped.EndAngle {
		t.Error("flip changed the arc angles")
	}
}

func TestBuildArcAnglesNormalized(t *testing.T) {
	e := Build(tool.ArcCenterStartEnd, []geometry.Point2D{pt(0, 0), pt(5, 0), pt(0, -5)}, "a", Options{})
	if e == nil {
		t.Fatal("Build returned nil")
	}
	for _, deg := range []float64{e.StartAngle, e.EndAngle} {
		if deg < 0 || deg >= 360 {
			t.Errorf("angle %v outside [0,360)", deg)
		}
	}
	if !approx(e.EndAngle, 270) {
		t.Errorf("end angle = %v, want 270", e.EndAngle)
	}
}

func TestBuildPolylineAndPolygon(t *testing.T) {
	pts := []geometry.Point2D{pt(0, 0), pt(4, 0), pt(4, 3)}

	open := Build(tool.Polyline, pts, "p", Options{})
	if open == nil || open.Closed || len(open.Vertices) != 3 {
		t.Fatalf("polyline = %+v", open)
	}

	closed := Build(tool.Polygon, pts, "p", Options{})
	if closed == nil || !closed.Closed {
		t.Fatalf("polygon = %+v", closed)
	}

	area := Build(tool.MeasureArea, pts, "p", Options{})
	if area == nil || !area.Measurement || !approx(area.Value, 6) {
		t.Fatalf("area measurement = %+v, want value 6", area)
	}

	// Builder must not alias the caller's point slice.
	pts[0] = pt(99, 99)
	if open.Vertices[0] != pt(0, 0) {
		t.Error("polyline vertices alias the input slice")
	}
}

func TestBuildAngleMeasurement(t *testing.T) {
	e := Build(tool.MeasureAngle, []geometry.Point2D{pt(10, 0), pt(0, 0), pt(0, 10)}, "ang", Options{})
	if e == nil {
		t.Fatal("Build returned nil")
	}
	if e.Type != entity.TypeAngle || !e.Measurement {
		t.Errorf("angle = %+v", e)
	}
	if !approx(e.Value, 90) {
		t.Errorf("angle value = %v, want 90", e.Value)
	}
	if e.Value < 0 || e.Value >= 360 {
		t.Errorf("angle %v outside [0,360)", e.Value)
	}
}
