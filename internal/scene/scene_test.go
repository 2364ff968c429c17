package scene

import (
	"testing"

	"nestor-draft/internal/entity"
	"nestor-draft/pkg/geometry"
)

func lineEntity(id string, x1, y1, x2, y2 float64) *entity.Entity {
	return &entity.Entity{
		ID:      id,
		Type:    entity.TypeLine,
		Layer:   DefaultLayerName,
		Visible: true,
		Start:   &geometry.Point2D{X: x1, Y: y1},
		End:     &geometry.Point2D{X: x2, Y: y2},
	}
}

func TestNewSceneHasDefaultLayer(t *testing.T) {
	s := New()
	if !s.HasLayer(DefaultLayerName) {
		t.Fatal("new scene is missing the default layer")
	}
	if s.Layers[0].LineType != entity.LineTypeContinuous {
		t.Errorf("default layer line type = %q", s.Layers[0].LineType)
	}
}

func TestEnsureLayerIdempotent(t *testing.T) {
	s := New()
	s.EnsureLayer("walls")
	s.EnsureLayer("walls")
	count := 0
	for _, l := range s.Layers {
		if l.Name == "walls" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("layer added %d times", count)
	}
}

func TestAppendGrowsBounds(t *testing.T) {
	s := New()
	s.Append(lineEntity("a", 0, 0, 10, 10))
	s.Append(lineEntity("b", -5, 2, 3, 20))

	want := geometry.Rect{X: -5, Y: 0, Width: 15, Height: 20}
	if s.Bounds != want {
		t.Errorf("bounds = %v, want %v", s.Bounds, want)
	}
}

func TestFindAndRemove(t *testing.T) {
	s := New()
	s.Append(lineEntity("a", 0, 0, 1, 1))
	s.Append(lineEntity("b", 2, 2, 3, 3))

	if s.Find("b") == nil {
		t.Fatal("Find failed for existing entity")
	}
	if !s.Remove("a") {
		t.Fatal("Remove failed for existing entity")
	}
	if s.Find("a") != nil {
		t.Error("removed entity still found")
	}
	if s.Remove("a") {
		t.Error("Remove reported success for missing entity")
	}
	if len(s.Entities) != 1 {
		t.Errorf("entity count = %d, want 1", len(s.Entities))
	}
}

func TestStoreEnsureLazyCreation(t *testing.T) {
	st := NewStore()
	if st.Scene("level-1") != nil {
		t.Fatal("empty store returned a scene")
	}

	s := st.Ensure("level-1")
	if s == nil {
		t.Fatal("Ensure returned nil")
	}
	if !s.HasLayer(DefaultLayerName) {
		t.Error("lazily created scene is missing the default layer")
	}
	if st.Ensure("level-1") != s {
		t.Error("Ensure created a second scene for the same level")
	}
	if st.Scene("level-1") != s {
		t.Error("Scene does not return the ensured scene")
	}
}

func TestStoreSetScene(t *testing.T) {
	st := NewStore()
	s := New()
	st.SetScene("ground", s)
	if st.Scene("ground") != s {
		t.Error("SetScene round trip failed")
	}
	if n := len(st.Levels()); n != 1 {
		t.Errorf("Levels count = %d, want 1", n)
	}
}
