// Package app provides application lifecycle state: the per-level
// scene store, the event bus, the undo stack, and modification
// tracking.
package app

import (
	"errors"
	"sync"

	"nestor-draft/internal/scene"
	"nestor-draft/internal/tool"
)

// Event topics published through the state's bus.
const (
	TopicDrawingComplete  = "drawing:complete"
	TopicDrawingCancelled = "drawing:cancelled"
	TopicToolChanged      = "tool:changed"
	TopicModified         = "project:modified"
	TopicProjectLoaded    = "project:loaded"
	TopicProjectSaved     = "project:saved"
	TopicLevelChanged     = "level:changed"
	TopicUndoApplied      = "undo:applied"
)

// ErrNothingToUndo is returned when the undo stack is empty.
var ErrNothingToUndo = errors.New("app: nothing to undo")

// undoUnit is one undoable step: the entities a single completion (or
// one continuous-measurement session) added to a level.
type undoUnit struct {
	levelID   string
	entityIDs []string
}

// State holds the application state shared between the drafting engine
// and the UI.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Scenes, one per level
	Scenes *scene.Store

	activeLevel string
	lastTool    tool.Tool

	undo []undoUnit

	bus *Bus
}

// NewState creates the application state with an empty scene store.
func NewState() *State {
	return &State{
		Scenes:      scene.NewStore(),
		activeLevel: "default",
		bus:         NewBus(),
	}
}

// Bus returns the application event bus.
func (s *State) Bus() *Bus { return s.bus }

// On registers an event listener and returns its unsubscribe function.
func (s *State) On(topic string, l Listener) func() {
	return s.bus.On(topic, l)
}

// Emit publishes an event on the state's bus.
func (s *State) Emit(topic string, payload any) {
	s.bus.Publish(topic, payload)
}

// ActiveLevel returns the level drawings currently land on.
func (s *State) ActiveLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLevel
}

// SetActiveLevel switches the target level and emits an event.
func (s *State) SetActiveLevel(levelID string) {
	s.mu.Lock()
	changed := s.activeLevel != levelID
	s.activeLevel = levelID
	s.mu.Unlock()
	if changed {
		s.Emit(TopicLevelChanged, levelID)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(TopicModified, modified)
}

// IsModified reports whether unsaved changes exist.
func (s *State) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Modified
}

// RecordToolUse remembers the most recent committing tool.
func (s *State) RecordToolUse(t tool.Tool) {
	s.mu.Lock()
	changed := s.lastTool != t
	s.lastTool = t
	s.mu.Unlock()
	if changed {
		s.Emit(TopicToolChanged, t)
	}
}

// LastTool returns the most recent committing tool ("" when none).
func (s *State) LastTool() tool.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTool
}

// PushUndo records one undoable unit for the given level.
func (s *State) PushUndo(levelID string, entityIDs []string) {
	ids := make([]string, len(entityIDs))
	copy(ids, entityIDs)
	s.mu.Lock()
	s.undo = append(s.undo, undoUnit{levelID: levelID, entityIDs: ids})
	s.mu.Unlock()
	s.SetModified(true)
}

// AmendUndo merges entity ids into the most recent undo unit for the
// level, so a continuous-measurement session undoes as one step. When
// the top unit belongs to a different level it falls back to a push.
func (s *State) AmendUndo(levelID string, entityIDs []string) {
	s.mu.Lock()
	if n := len(s.undo); n > 0 && s.undo[n-1].levelID == levelID {
		s.undo[n-1].entityIDs = append(s.undo[n-1].entityIDs, entityIDs...)
		s.mu.Unlock()
		s.SetModified(true)
		return
	}
	s.mu.Unlock()
	s.PushUndo(levelID, entityIDs)
}

// UndoDepth returns the number of undoable units.
func (s *State) UndoDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.undo)
}

// Undo pops the most recent unit and removes its entities from the
// level's scene. It returns the removed entity ids.
func (s *State) Undo() ([]string, error) {
	s.mu.Lock()
	n := len(s.undo)
	if n == 0 {
		s.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	unit := s.undo[n-1]
	s.undo = s.undo[:n-1]
	s.mu.Unlock()

	if sc := s.Scenes.Scene(unit.levelID); sc != nil {
		for _, id := range unit.entityIDs {
			sc.Remove(id)
		}
		s.Scenes.SetScene(unit.levelID, sc)
	}
	s.SetModified(true)
	s.Emit(TopicUndoApplied, unit.entityIDs)
	return unit.entityIDs, nil
}
