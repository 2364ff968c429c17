// Package scene provides the persisted drawing model (entities grouped
// in layers per level) and the per-level store the commit pipeline
// writes through.
package scene

import (
	"sync"

	"nestor-draft/internal/entity"
	"nestor-draft/pkg/geometry"
)

// DefaultLayerName is the layer entities land on when no layer was
// chosen, matching the scene JSON convention.
const DefaultLayerName = "0"

// Layer is a named entity group with display defaults.
type Layer struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Visible  bool   `json:"visible"`
	Locked   bool   `json:"locked"`
	LineType string `json:"line_type"`
}

// Scene holds every committed entity of one level.
type Scene struct {
	Entities []*entity.Entity `json:"entities"`
	Layers   []Layer          `json:"layers"`
	Bounds   geometry.Rect    `json:"bounds"`
	Units    string           `json:"units"`
}

// New creates an empty scene with the default layer.
func New() *Scene {
	return &Scene{
		Entities: make([]*entity.Entity, 0),
		Layers: []Layer{{
			Name:     DefaultLayerName,
			Visible:  true,
			LineType: entity.LineTypeContinuous,
		}},
		Units: "meters",
	}
}

// HasLayer reports whether a layer with the given name exists.
func (s *Scene) HasLayer(name string) bool {
	for _, l := range s.Layers {
		if l.Name == name {
			return true
		}
	}
	return false
}

// EnsureLayer adds the named layer if it is missing.
func (s *Scene) EnsureLayer(name string) {
	if s.HasLayer(name) {
		return
	}
	s.Layers = append(s.Layers, Layer{
		Name:     name,
		Visible:  true,
		LineType: entity.LineTypeContinuous,
	})
}

// Append adds an entity and grows the scene bounds.
func (s *Scene) Append(e *entity.Entity) {
	s.Entities = append(s.Entities, e)
	box := e.Bounds()
	if len(s.Entities) == 1 {
		s.Bounds = box
	} else {
		s.Bounds = s.Bounds.Union(box)
	}
}

// Find returns the entity with the given id, or nil.
func (s *Scene) Find(id string) *entity.Entity {
	for _, e := range s.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remove deletes the entity with the given id. It reports whether an
// entity was removed.
func (s *Scene) Remove(id string) bool {
	for i, e := range s.Entities {
		if e.ID == id {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return true
		}
	}
	return false
}

// Store keeps one scene per level. Scene contents follow the engine's
// single-threaded read-modify-write discipline; the store's own map is
// guarded so UI code can hold a Store reference safely.
type Store struct {
	mu     sync.RWMutex
	scenes map[string]*Scene
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{scenes: make(map[string]*Scene)}
}

// Scene returns the scene for a level, or nil if none exists yet.
func (st *Store) Scene(levelID string) *Scene {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.scenes[levelID]
}

// SetScene writes back the scene for a level.
func (st *Store) SetScene(levelID string, s *Scene) {
	st.mu.Lock()
	st.scenes[levelID] = s
	st.mu.Unlock()
}

// Ensure returns the scene for a level, lazily creating an empty scene
// with the default layer when the level has none.
func (st *Store) Ensure(levelID string) *Scene {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenes[levelID]
	if !ok {
		s = New()
		st.scenes[levelID] = s
	}
	return s
}

// Levels returns the ids of every level holding a scene.
func (st *Store) Levels() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]string, 0, len(st.scenes))
	for id := range st.scenes {
		ids = append(ids, id)
	}
	return ids
}
