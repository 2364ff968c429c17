// Package commit turns finished constructions into durable scene
// mutations. Every completed drawing funnels through here so that
// styling, layer placement, undo provenance, tool persistence and the
// completion event stay consistent no matter which tool produced the
// entity.
package commit

import (
	"errors"
	"fmt"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/scene"
	"nestor-draft/internal/tool"
)

// TopicDrawingComplete is the event topic published after a successful
// commit.
const TopicDrawingComplete = "drawing:complete"

var (
	// ErrNilEntity is returned when a commit is attempted without an
	// entity.
	ErrNilEntity = errors.New("commit: nil entity")
	// ErrMissingID is returned for entities without an identity.
	ErrMissingID = errors.New("commit: entity has no id")
	// ErrInvalidType is returned for entities of an unknown type.
	ErrInvalidType = errors.New("commit: invalid entity type")
)

// StyleResolver supplies the persistent style for a freshly committed
// entity. Measurement tools and drawing tools resolve differently.
type StyleResolver interface {
	ResolveStyle(t tool.Tool, e *entity.Entity) entity.Style
}

// ToolRecorder remembers the last tool that produced a commit, so the
// next session can re-arm it.
type ToolRecorder interface {
	RecordToolUse(t tool.Tool)
}

// Publisher delivers completion events to whoever subscribed.
type Publisher interface {
	Publish(topic string, payload any)
}

// Completion is the payload published on TopicDrawingComplete.
type Completion struct {
	Tool     tool.Tool
	LevelID  string
	EntityID string
	Entity   *entity.Entity
	// Entities is set instead of Entity for batch commits.
	Entities []*entity.Entity
	Scene    *scene.Scene
}

// Options tunes a single commit. The zero value runs the full
// pipeline.
type Options struct {
	// SuppressEvent skips the completion event. Used for the
	// intermediate pair commits of continuous measurements, which
	// announce themselves once per pair through CommitAll.
	SuppressEvent bool
	// SuppressToolRecord skips tool persistence.
	SuppressToolRecord bool
}

// Committer applies the commit pipeline against a scene store.
type Committer struct {
	store  *scene.Store
	styles StyleResolver
	tools  ToolRecorder
	bus    Publisher
	undo   func(levelID string, entityIDs []string)
}

// New wires a committer. styles, tools, bus and undo may each be nil;
// the corresponding pipeline step is then skipped.
func New(store *scene.Store, styles StyleResolver, tools ToolRecorder, bus Publisher, undo func(levelID string, entityIDs []string)) *Committer {
	return &Committer{store: store, styles: styles, tools: tools, bus: bus, undo: undo}
}

// Commit validates, styles and appends one entity, then runs the
// write-back, undo-provenance, tool-persistence and event steps.
func (c *Committer) Commit(levelID string, t tool.Tool, e *entity.Entity, opts Options) error {
	if err := c.place(levelID, t, e); err != nil {
		return err
	}
	c.finish(levelID, t, []*entity.Entity{e}, opts)
	return nil
}

// CommitAll commits a batch as one unit: every entity is validated and
// placed individually, then the shared pipeline steps run once. It is
// all-or-nothing on validation: the first invalid entity aborts the
// batch before anything is appended.
func (c *Committer) CommitAll(levelID string, t tool.Tool, entities []*entity.Entity, opts Options) error {
	for i, e := range entities {
		if err := c.validate(e); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	for _, e := range entities {
		if err := c.place(levelID, t, e); err != nil {
			return err
		}
	}
	c.finish(levelID, t, entities, opts)
	return nil
}

func (c *Committer) validate(e *entity.Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if e.ID == "" {
		return ErrMissingID
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
	}
	return nil
}

// place runs the per-entity steps: validation, style resolution and
// the layered append into the level's scene.
func (c *Committer) place(levelID string, t tool.Tool, e *entity.Entity) error {
	if err := c.validate(e); err != nil {
		return err
	}
	if c.styles != nil {
		e.Style = c.styles.ResolveStyle(t, e)
	}
	if e.Layer == "" {
		e.Layer = scene.DefaultLayerName
	}
	sc := c.store.Ensure(levelID)
	sc.EnsureLayer(e.Layer)
	sc.Append(e)
	c.store.SetScene(levelID, sc)
	return nil
}

// finish runs the shared tail of the pipeline.
func (c *Committer) finish(levelID string, t tool.Tool, entities []*entity.Entity, opts Options) {
	if c.undo != nil {
		ids := make([]string, len(entities))
		for i, e := range entities {
			ids[i] = e.ID
		}
		c.undo(levelID, ids)
	}
	if c.tools != nil && !opts.SuppressToolRecord {
		c.tools.RecordToolUse(t)
	}
	if c.bus != nil && !opts.SuppressEvent {
		ev := Completion{
			Tool:    t,
			LevelID: levelID,
			Scene:   c.store.Scene(levelID),
		}
		if len(entities) == 1 {
			ev.Entity = entities[0]
			ev.EntityID = entities[0].ID
		} else {
			ev.Entities = entities
		}
		c.bus.Publish(TopicDrawingComplete, ev)
	}
}
