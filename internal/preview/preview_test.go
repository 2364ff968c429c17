package preview

import (
	"reflect"
	"testing"

	"nestor-draft/internal/builder"
	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func gen(t tool.Tool, points []geometry.Point2D, cursor geometry.Point2D) *entity.Entity {
	return Generate(t, points, cursor, builder.Options{}, builder.Build)
}

func TestGenerateStartMarker(t *testing.T) {
	e := gen(tool.Line, nil, pt(5, 7))
	if e == nil || e.Type != entity.TypePoint {
		t.Fatalf("zero-point preview = %+v, want point marker", e)
	}
	if *e.Position != pt(5, 7) {
		t.Errorf("marker at %v, want cursor", e.Position)
	}
	if e.Measurement {
		t.Error("drawing tool marker flagged as measurement")
	}

	m := gen(tool.MeasureDistance, nil, pt(1, 1))
	if !m.Measurement {
		t.Error("measurement tool marker not flagged")
	}
}

func TestGenerateRubberBandForThreePointTool(t *testing.T) {
	// One collected point: line from the point to the cursor.
	e := gen(tool.Circle3P, []geometry.Point2D{pt(0, 0)}, pt(10, 10))
	if e == nil || e.Type != entity.TypeLine {
		t.Fatalf("1-point preview = %+v, want rubber-band line", e)
	}
	if *e.Start != pt(0, 0) || *e.End != pt(10, 10) {
		t.Errorf("rubber band = %v -> %v", e.Start, e.End)
	}
}

func TestGenerateDegenerateFallsBackToPolyline(t *testing.T) {
	points := []geometry.Point2D{pt(0, 0), pt(10, 0)}

	// Collinear cursor: no circle exists, expect a 3-vertex chain.
	e := gen(tool.Circle3P, points, pt(20, 0))
	if e == nil || e.Type != entity.TypePolyline {
		t.Fatalf("collinear preview = %+v, want polyline fallback", e)
	}
	if len(e.Vertices) != 3 {
		t.Errorf("fallback has %d vertices, want 3", len(e.Vertices))
	}

	// Valid cursor: the real construction appears.
	e = gen(tool.Circle3P, points, pt(5, 5))
	if e == nil || e.Type != entity.TypeCircle {
		t.Fatalf("valid preview = %+v, want circle", e)
	}
}

func TestGenerateTwoPointToolTracksCursor(t *testing.T) {
	e := gen(tool.Circle, []geometry.Point2D{pt(0, 0)}, pt(3, 4))
	if e == nil || e.Type != entity.TypeCircle {
		t.Fatalf("preview = %+v, want circle", e)
	}
	if e.Radius != 5 {
		t.Errorf("radius = %v, want 5", e.Radius)
	}
}

func TestGenerateManualFinishDelegatesToBuilder(t *testing.T) {
	points := []geometry.Point2D{pt(0, 0), pt(4, 0), pt(4, 3)}
	e := gen(tool.Polygon, points, pt(0, 3))
	if e == nil || e.Type != entity.TypePolyline || !e.Closed {
		t.Fatalf("polygon preview = %+v", e)
	}
	if len(e.Vertices) != 4 {
		t.Errorf("vertices = %d, want 4 (points + cursor)", len(e.Vertices))
	}
}

func TestGenerateUnknownTool(t *testing.T) {
	if e := gen(tool.Tool("bogus"), nil, pt(0, 0)); e != nil {
		t.Errorf("unknown tool preview = %+v, want nil", e)
	}
}

// Identical inputs must yield identical candidates so a stationary
// cursor never causes repaint churn.
func TestGenerateIdempotent(t *testing.T) {
	points := []geometry.Point2D{pt(0, 0), pt(10, 0)}
	a := Decorate(gen(tool.Circle3P, points, pt(5, 5)), tool.Circle3P, append(points, pt(5, 5)), false)
	b := Decorate(gen(tool.Circle3P, points, pt(5, 5)), tool.Circle3P, append(points, pt(5, 5)), false)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("previews differ:\n%+v\n%+v", a, b)
	}
}

func TestDecorateFlags(t *testing.T) {
	points := []geometry.Point2D{pt(0, 0)}
	cursor := pt(10, 0)
	e := Decorate(gen(tool.Line, points, cursor), tool.Line, append(points, cursor), false)

	if !e.Preview {
		t.Error("preview flag not set")
	}
	if e.ID != entity.PreviewID {
		t.Errorf("preview id = %q", e.ID)
	}
	if !e.ShowGrips || !e.ShowEdgeDistances {
		t.Error("line preview should show grips and edge distances")
	}
	if e.Style.LineType != entity.LineTypeDashed {
		t.Errorf("preview style = %+v", e.Style)
	}
}

func TestDecorateRestingDropsEdgeDistances(t *testing.T) {
	points := []geometry.Point2D{pt(0, 0), pt(5, 0)}
	e := Decorate(rubberBand(tool.Polyline, points), tool.Polyline, points, true)
	if e.ShowEdgeDistances {
		t.Error("resting preview should not carry edge distance labels")
	}
	if !e.ShowGrips {
		t.Error("resting preview should still show grips")
	}
}

func TestDecorateCloseGrip(t *testing.T) {
	three := []geometry.Point2D{pt(0, 0), pt(4, 0), pt(4, 3)}
	cursor := pt(0, 3)

	e := Decorate(gen(tool.Polygon, three, cursor), tool.Polygon, append(three, cursor), false)
	if !e.CloseGrip {
		t.Error("polygon with 3 collected points should offer a close grip")
	}

	two := three[:2]
	e = Decorate(gen(tool.Polygon, two, cursor), tool.Polygon, append(two, cursor), false)
	if e.CloseGrip {
		t.Error("close grip offered before a ring is possible")
	}

	// Open chains never close.
	e = Decorate(gen(tool.Polyline, three, cursor), tool.Polyline, append(three, cursor), false)
	if e.CloseGrip {
		t.Error("polyline should not offer a close grip")
	}
}

func TestDecorateArcGuides(t *testing.T) {
	points := []geometry.Point2D{pt(-1, 0), pt(0, 1)}
	cursor := pt(1, 0)
	all := append(points, cursor)

	chain := Decorate(gen(tool.Arc3P, points, cursor), tool.Arc3P, all, false)
	if chain.ConstructionLineMode != entity.GuideChain {
		t.Errorf("3-point arc guide mode = %q, want %q", chain.ConstructionLineMode, entity.GuideChain)
	}
	if len(chain.ConstructionVertices) != 3 {
		t.Errorf("construction vertices = %d, want 3", len(chain.ConstructionVertices))
	}

	centerPts := []geometry.Point2D{pt(0, 0), pt(5, 0)}
	radial := Decorate(gen(tool.ArcCenterStartEnd, centerPts, pt(0, 5)), tool.ArcCenterStartEnd, append(centerPts, pt(0, 5)), false)
	if radial.ConstructionLineMode != entity.GuideRadial {
		t.Errorf("center arc guide mode = %q, want %q", radial.ConstructionLineMode, entity.GuideRadial)
	}
}

func TestCell(t *testing.T) {
	var c Cell
	if c.Get() != nil {
		t.Fatal("fresh cell not empty")
	}
	e := &entity.Entity{ID: entity.PreviewID}
	c.Set(e)
	if c.Get() != e {
		t.Error("Get did not return the stored candidate")
	}
	c.Clear()
	if c.Get() != nil {
		t.Error("Clear left a candidate behind")
	}
}
