// Package draft is the drawing facade: the single entry point the UI
// talks to. It drives the interaction state machine, keeps the preview
// side-channel fresh, and funnels finished constructions through the
// commit pipeline.
package draft

import (
	"github.com/google/uuid"

	"nestor-draft/internal/app"
	"nestor-draft/internal/builder"
	"nestor-draft/internal/commit"
	"nestor-draft/internal/entity"
	"nestor-draft/internal/interaction"
	"nestor-draft/internal/preview"
	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

// Drafter orchestrates one drawing construction at a time. All methods
// run synchronously on the caller's goroutine; the engine is
// single-threaded by contract, only the preview cell is shared with
// the render loop.
type Drafter struct {
	state     *app.State
	machine   *interaction.Machine
	cell      *preview.Cell
	committer *commit.Committer
	newID     func() string

	// transient per-construction controls
	flip   bool
	radius float64
	snap   interaction.SnapInfo

	// continuous-measurement session
	anchor          *geometry.Point2D
	sessionIDs      []string
	sessionLevel    string
	sessionEntities []*entity.Entity
}

// New wires a drafter against the application state. styles may be
// nil, in which case committed entities keep their construction style.
func New(state *app.State, styles commit.StyleResolver) *Drafter {
	d := &Drafter{
		state:   state,
		machine: interaction.New(),
		cell:    &preview.Cell{},
		newID:   uuid.NewString,
	}
	d.committer = commit.New(state.Scenes, styles, state, state.Bus(), d.recordUndo)
	return d
}

// Machine exposes the interaction machine for guard queries.
func (d *Drafter) Machine() *interaction.Machine { return d.machine }

// PreviewCell returns the side-channel the render loop polls.
func (d *Drafter) PreviewCell() *preview.Cell { return d.cell }

// PeekPreview returns the current preview entity, or nil.
func (d *Drafter) PeekPreview() *entity.Entity { return d.cell.Get() }

// SessionIDs returns the ids committed by the current continuous
// session, oldest first.
func (d *Drafter) SessionIDs() []string {
	out := make([]string, len(d.sessionIDs))
	copy(out, d.sessionIDs)
	return out
}

// SetSnap records snap metadata to attach to subsequent cursor moves.
// Coordinates arriving at the drafter are already snap-resolved.
func (d *Drafter) SetSnap(s interaction.SnapInfo) { d.snap = s }

// SetRadius fixes the radius used by the two-point-radius circle tool.
// Zero means "derive from the chord".
func (d *Drafter) SetRadius(r float64) { d.radius = r }

// FlipDirection toggles the construction direction for arc tools and
// refreshes the live preview. The flag resets on every new
// construction.
func (d *Drafter) FlipDirection() {
	d.flip = !d.flip
	if c := d.machine.Cursor(); c != nil {
		d.trackingPreview(*c)
	} else {
		d.restingPreview()
	}
}

// Start arms a tool, abandoning any in-progress construction. It
// reports whether the tool was accepted.
func (d *Drafter) Start(t tool.Tool) bool {
	if !tool.Known(t) {
		return false
	}
	switch d.machine.State() {
	case interaction.StateCollecting, interaction.StatePreviewing, interaction.StateCompleting:
		d.machine.Cancel()
		d.machine.Reset()
	case interaction.StateCompleted, interaction.StateCancelled:
		d.machine.Reset()
	}
	if !d.machine.SelectTool(t) {
		return false
	}
	d.flip = false
	d.radius = 0
	d.anchor = nil
	d.sessionIDs = nil
	d.sessionLevel = ""
	d.sessionEntities = nil
	d.cell.Clear()
	return true
}

// Point feeds one snapped click. It reports whether the construction
// completed and committed as a result.
func (d *Drafter) Point(p geometry.Point2D) bool {
	if !d.machine.CanAddPoint() {
		return false
	}
	if !d.machine.AddPoint(p) {
		return false
	}
	t := d.machine.Tool()
	spec := tool.SpecFor(t)

	if spec.Continuous {
		d.continuousPoint()
		return false
	}

	pts := d.machine.Points()
	if tool.Satisfied(t, len(pts)) {
		e := builder.Build(t, pts, d.newID(), d.options())
		if e == nil {
			// Degenerate geometry: drop the offending point and keep
			// collecting.
			d.machine.UndoPoint()
			d.restingPreview()
			return false
		}
		return d.complete(t, e)
	}

	d.restingPreview()
	return false
}

// MoveCursor feeds a snapped pointer position and refreshes the
// preview side-channel. It never touches persisted state.
func (d *Drafter) MoveCursor(p geometry.Point2D) {
	if d.machine.Tool() == "" {
		return
	}
	if !d.machine.MoveCursor(p, d.snap) {
		return
	}
	d.trackingPreview(p)
}

// Finish explicitly completes a manual-finish construction. It reports
// whether an entity (or session) was committed.
func (d *Drafter) Finish() bool {
	t := d.machine.Tool()
	if t == "" {
		return false
	}
	spec := tool.SpecFor(t)

	if spec.Continuous {
		return d.finishSession(t)
	}

	pts := d.machine.Points()
	if !tool.CanFinish(t, len(pts)) || !d.machine.CanComplete() {
		return false
	}
	e := builder.Build(t, pts, d.newID(), d.options())
	if e == nil {
		return false
	}
	return d.complete(t, e)
}

// Cancel abandons the in-progress construction. Entities already
// committed by a continuous session stay in the scene; only the
// uncommitted candidate is discarded.
func (d *Drafter) Cancel() bool {
	if !d.machine.Cancel() {
		return false
	}
	d.cell.Clear()
	d.anchor = nil
	d.flip = false
	d.machine.Reset()
	return true
}

// UndoLastPoint removes the most recent click and refreshes the
// resting preview.
func (d *Drafter) UndoLastPoint() bool {
	if !d.machine.UndoPoint() {
		return false
	}
	d.restingPreview()
	return true
}

// UndoSession removes every entity the current continuous session
// committed, atomically, and empties the session registry.
func (d *Drafter) UndoSession() bool {
	if len(d.sessionIDs) == 0 {
		return false
	}
	// Session commits amend into a single undo unit, which is the most
	// recent one since the session was the last thing to commit.
	if _, err := d.state.Undo(); err != nil {
		return false
	}
	d.sessionIDs = nil
	d.sessionEntities = nil
	d.anchor = nil
	return true
}

// options snapshots the transient construction controls.
func (d *Drafter) options() builder.Options {
	return builder.Options{Flip: d.flip, Radius: d.radius}
}

// continuousPoint handles a click for the continuous distance tool:
// every second click commits the pending pair immediately and the
// click becomes the new rubber-band anchor.
func (d *Drafter) continuousPoint() {
	t := d.machine.Tool()
	pts := d.machine.Points()
	if len(pts) >= 2 && len(pts)%2 == 0 {
		pair := []geometry.Point2D{pts[len(pts)-2], pts[len(pts)-1]}
		e := builder.Build(t, pair, d.newID(), d.options())
		if e != nil {
			level := d.state.ActiveLevel()
			err := d.committer.Commit(level, t, e, commit.Options{
				SuppressEvent:      true,
				SuppressToolRecord: true,
			})
			if err == nil {
				d.sessionEntities = append(d.sessionEntities, e)
			}
		}
		anchor := pair[1]
		d.anchor = &anchor
		d.machine.ReplacePoints(nil)
		d.machine.SetPendingState()
	}
	d.restingPreview()
}

// finishSession ends a continuous session: a dangling unpaired click
// is discarded, then the batch tail of the pipeline runs once for the
// whole session.
func (d *Drafter) finishSession(t tool.Tool) bool {
	committed := len(d.sessionEntities) > 0
	if committed {
		d.state.RecordToolUse(t)
		d.state.Emit(commit.TopicDrawingComplete, commit.Completion{
			Tool:     t,
			LevelID:  d.sessionLevel,
			Entities: d.sessionEntities,
			Scene:    d.state.Scenes.Scene(d.sessionLevel),
		})
	}
	d.cell.Clear()
	d.anchor = nil
	if d.machine.CanComplete() {
		d.machine.Complete()
	} else {
		d.machine.Cancel()
	}
	d.machine.Reset()
	d.sessionEntities = nil
	return committed
}

// complete runs the commit pipeline for a finished construction. The
// preview cell is cleared before any scene mutation so the render loop
// can never observe a stale candidate next to the committed entity.
func (d *Drafter) complete(t tool.Tool, e *entity.Entity) bool {
	d.cell.Clear()
	level := d.state.ActiveLevel()
	if err := d.committer.Commit(level, t, e, commit.Options{}); err != nil {
		return false
	}
	d.machine.Complete()
	d.machine.Reset()
	d.flip = false
	return true
}

// recordUndo is the committer's undo-provenance callback. Continuous
// session pairs merge into one undoable unit; everything else pushes
// its own.
func (d *Drafter) recordUndo(levelID string, ids []string) {
	if d.machine.Tool() != "" && tool.SpecFor(d.machine.Tool()).Continuous {
		if len(d.sessionIDs) == 0 {
			d.sessionLevel = levelID
			d.state.PushUndo(levelID, ids)
		} else {
			d.state.AmendUndo(levelID, ids)
		}
		d.sessionIDs = append(d.sessionIDs, ids...)
		return
	}
	d.state.PushUndo(levelID, ids)
}

// previewPoints returns the collected points the preview should build
// on. During a continuous session the anchor of the last committed
// pair stands in once the point list has been drained.
func (d *Drafter) previewPoints() []geometry.Point2D {
	pts := d.machine.Points()
	if len(pts) == 0 && d.anchor != nil {
		return []geometry.Point2D{*d.anchor}
	}
	return pts
}

// trackingPreview refreshes the cursor-following preview.
func (d *Drafter) trackingPreview(cursor geometry.Point2D) {
	t := d.machine.Tool()
	if t == "" || !d.machine.CanPreview() {
		return
	}
	pts := d.previewPoints()
	e := preview.Generate(t, pts, cursor, d.options(), builder.Build)
	if e == nil {
		d.cell.Clear()
		return
	}
	all := append(append([]geometry.Point2D{}, pts...), cursor)
	d.cell.Set(preview.Decorate(e, t, all, false))
}

// restingPreview recomputes the between-clicks preview anchored on the
// last collected point.
func (d *Drafter) restingPreview() {
	t := d.machine.Tool()
	if t == "" || !d.machine.CanPreview() {
		d.cell.Clear()
		return
	}
	pts := d.previewPoints()
	if len(pts) == 0 {
		d.cell.Clear()
		return
	}
	last := pts[len(pts)-1]
	e := preview.Generate(t, pts[:len(pts)-1], last, d.options(), builder.Build)
	if e == nil {
		d.cell.Clear()
		return
	}
	d.cell.Set(preview.Decorate(e, t, pts, true))
}
