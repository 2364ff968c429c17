package prefs

import (
	"path/filepath"
	"testing"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	p := LoadFrom(path)
	p.SetString("style.color", "#ff0000")
	p.SetFloat("style.width", 2.5)
	p.SetBool("snap.enabled", true)
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q := LoadFrom(path)
	if q.String("style.color") != "#ff0000" {
		t.Fatalf("color = %q", q.String("style.color"))
	}
	if q.Float("style.width") != 2.5 {
		t.Fatalf("width = %g", q.Float("style.width"))
	}
	if !q.Bool("snap.enabled", false) {
		t.Fatal("bool lost on round trip")
	}
}

func TestFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	if p.FloatWithFallback("missing", 7) != 7 {
		t.Fatal("float fallback ignored")
	}
	if p.String("missing") != "" {
		t.Fatal("string default not empty")
	}
	if !p.Bool("missing", true) {
		t.Fatal("bool fallback ignored")
	}
}

func TestStyleSource(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	src := NewStyleSource(p)

	st := src.ResolveStyle(tool.Line, nil)
	if st != entity.DefaultStyle() {
		t.Fatalf("default style = %+v", st)
	}

	p.SetString(KeyStyleColor, "#112233")
	p.SetFloat(KeyStyleWidth, 3)
	st = src.ResolveStyle(tool.Line, nil)
	if st.Color != "#112233" || st.Width != 3 {
		t.Fatalf("overridden style = %+v", st)
	}

	m := src.ResolveStyle(tool.MeasureDistance, nil)
	if m.Color != entity.MeasurementStyle().Color {
		t.Fatalf("measurement style = %+v", m)
	}
	p.SetString(KeyMeasureColor, "#00ff00")
	m = src.ResolveStyle(tool.MeasureAngle, nil)
	if m.Color != "#00ff00" {
		t.Fatalf("measurement override = %+v", m)
	}
}
