package canvas

import (
	"image/color"
	"math"
	"testing"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/preview"
	"nestor-draft/internal/scene"
	"nestor-draft/pkg/geometry"

	"fyne.io/fyne/v2"
)

func TestWorldScreenRoundTrip(t *testing.T) {
	dc := New()
	dc.panX = 10
	dc.panY = -5
	dc.zoom = 4

	x, y := dc.screenAt(geometry.Point2D{X: 15, Y: 0})
	if x != 20 || y != 20 {
		t.Fatalf("screen = (%d,%d), want (20,20)", x, y)
	}

	back := dc.worldAt(fyne.NewPos(float32(x), float32(y)))
	if math.Abs(back.X-15) > 1e-6 || math.Abs(back.Y-0) > 1e-6 {
		t.Fatalf("world = %v, want (15,0)", back)
	}
}

func TestDrawCommittedLine(t *testing.T) {
	dc := New()
	dc.showGrid = false
	dc.zoom = 1
	sc := scene.New()
	sc.Append(&entity.Entity{
		ID:      "l1",
		Type:    entity.TypeLine,
		Layer:   scene.DefaultLayerName,
		Visible: true,
		Style:   entity.Style{Color: "#ff0000", Width: 1, LineType: entity.LineTypeContinuous},
		Start:   &geometry.Point2D{X: 10, Y: 10},
		End:     &geometry.Point2D{X: 50, Y: 10},
	})
	dc.sc = sc

	out := dc.draw(100, 100)
	rgba := dc.lastOutput
	if out == nil || rgba == nil {
		t.Fatal("draw produced no output")
	}
	c := rgba.RGBAAt(30, 10)
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("line pixel = %+v, want red", c)
	}
	// Off the line: background.
	c = rgba.RGBAAt(30, 50)
	if c.R != backgroundColor.R {
		t.Fatalf("background pixel = %+v", c)
	}
}

func TestHiddenLayerSkipped(t *testing.T) {
	dc := New()
	dc.showGrid = false
	dc.zoom = 1
	sc := scene.New()
	sc.EnsureLayer("hidden")
	for i := range sc.Layers {
		if sc.Layers[i].Name == "hidden" {
			sc.Layers[i].Visible = false
		}
	}
	sc.Append(&entity.Entity{
		ID:      "l1",
		Type:    entity.TypeLine,
		Layer:   "hidden",
		Visible: true,
		Style:   entity.Style{Color: "#ff0000"},
		Start:   &geometry.Point2D{X: 10, Y: 10},
		End:     &geometry.Point2D{X: 50, Y: 10},
	})
	dc.sc = sc

	dc.draw(100, 100)
	c := dc.lastOutput.RGBAAt(30, 10)
	if c.R == 255 && c.G == 0 {
		t.Fatal("entity on hidden layer was rendered")
	}
}

func TestPreviewDrawnFromCell(t *testing.T) {
	dc := New()
	dc.showGrid = false
	dc.zoom = 1
	cell := &preview.Cell{}
	dc.SetPreviewCell(cell)

	dc.draw(100, 100)
	c := dc.lastOutput.RGBAAt(20, 20)
	if c.R != backgroundColor.R {
		t.Fatalf("empty cell rendered something: %+v", c)
	}

	e := &entity.Entity{
		ID:      entity.PreviewID,
		Type:    entity.TypeLine,
		Visible: true,
		Preview: true,
		Style:   entity.Style{Color: "#00ff00", Width: 1, LineType: entity.LineTypeContinuous},
		Start:   &geometry.Point2D{X: 0, Y: 20},
		End:     &geometry.Point2D{X: 99, Y: 20},
	}
	cell.Set(e)
	dc.draw(100, 100)
	c = dc.lastOutput.RGBAAt(20, 20)
	if c.G != 255 {
		t.Fatalf("preview pixel = %+v, want green", c)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"#000000", color.RGBA{A: 255}},
		{"junk", fallbackColor},
		{"", fallbackColor},
	}
	for _, tc := range cases {
		if got := parseColor(tc.in); got != tc.want {
			t.Errorf("parseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue(3.14159); got != "3.14 m" {
		t.Fatalf("formatValue = %q", got)
	}
}

func TestCharPatternCoverage(t *testing.T) {
	for _, ch := range "0123456789.-m " {
		if ch == ' ' {
			continue
		}
		if charPattern(ch) == [5]uint8{} {
			t.Errorf("no pattern for %q", ch)
		}
	}
	if charPattern('?') != ([5]uint8{}) {
		t.Error("unsupported char should render blank")
	}
}

func TestZoomClamped(t *testing.T) {
	dc := New()
	dc.SetZoom(0.001)
	if dc.Zoom() != minZoom {
		t.Fatalf("zoom = %g, want clamped to %g", dc.Zoom(), minZoom)
	}
	dc.SetZoom(1e9)
	if dc.Zoom() != maxZoom {
		t.Fatalf("zoom = %g, want clamped to %g", dc.Zoom(), maxZoom)
	}
}
