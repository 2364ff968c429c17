// Package interaction owns the drafting interaction state machine:
// tool selection, point accumulation, cursor/snap bookkeeping, and
// every completion/cancel/reset transition. Transitions are data (a
// table of from/event/to rows with guards), so adding a tool behavior
// is a data change rather than new branching.
package interaction

import (
	"fmt"
	"time"

	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

// State enumerates the interaction states. Exactly one holds at a
// time.
type State int

const (
	StateIdle State = iota
	StateToolReady
	StateCollecting
	StatePreviewing
	StateCompleting
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateToolReady:
		return "tool-ready"
	case StateCollecting:
		return "collecting"
	case StatePreviewing:
		return "previewing"
	case StateCompleting:
		return "completing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Event enumerates the inputs the machine reacts to.
type Event int

const (
	EventSelectTool Event = iota
	EventDeselectTool
	EventAddPoint
	EventUndoPoint
	EventMoveCursor
	EventComplete
	EventCancel
	EventReset
	// eventMinPoints is fired internally once the point count reaches
	// the tool's minimum.
	eventMinPoints
)

func (e Event) String() string {
	switch e {
	case EventSelectTool:
		return "select-tool"
	case EventDeselectTool:
		return "deselect-tool"
	case EventAddPoint:
		return "add-point"
	case EventUndoPoint:
		return "undo-point"
	case EventMoveCursor:
		return "move-cursor"
	case EventComplete:
		return "complete"
	case EventCancel:
		return "cancel"
	case EventReset:
		return "reset"
	case eventMinPoints:
		return "min-points-reached"
	}
	return "unknown"
}

// SnapInfo records the snap metadata delivered with the last cursor or
// click position. The engine consumes already-snapped coordinates; the
// metadata only annotates them.
type SnapInfo struct {
	Snapped   bool
	SnapType  string
	SnapPoint *geometry.Point2D
}

// Context is the machine's payload: the active tool, the collected
// points, and the live cursor state.
type Context struct {
	Tool             tool.Tool
	Points           []geometry.Point2D
	Cursor           *geometry.Point2D
	Snap             SnapInfo
	MinPoints        int
	MaxPoints        int
	AllowsContinuous bool
	LastError        error
	LastTransition   time.Time
}

// capability is the per-state flag set backing the exposed guards.
type capability struct {
	addPoint bool
	complete bool
	cancel   bool
	preview  bool
}

var capabilities = map[State]capability{
	StateIdle:       {},
	StateToolReady:  {addPoint: true, cancel: true, preview: true},
	StateCollecting: {addPoint: true, cancel: true, preview: true},
	StatePreviewing: {addPoint: true, cancel: true, preview: true},
	StateCompleting: {addPoint: true, complete: true, cancel: true, preview: true},
	StateCompleted:  {},
	StateCancelled:  {},
}

// transition is one row of the table. Guards see the machine before
// any mutation; the first matching row wins.
type transition struct {
	from  State
	on    Event
	to    State
	guard func(*Machine) bool
}

var transitions = []transition{
	{from: StateIdle, on: EventSelectTool, to: StateToolReady},
	{from: StateToolReady, on: EventSelectTool, to: StateToolReady}, // tool switch
	{from: StateToolReady, on: EventAddPoint, to: StateCollecting},
	{from: StateToolReady, on: EventMoveCursor, to: StatePreviewing},
	{from: StateToolReady, on: EventDeselectTool, to: StateIdle},

	{from: StateCollecting, on: EventAddPoint, to: StateCollecting},
	{from: StateCollecting, on: EventUndoPoint, to: StateCollecting},
	{from: StateCollecting, on: EventMoveCursor, to: StateCollecting},
	{from: StateCollecting, on: eventMinPoints, to: StateCompleting},

	{from: StatePreviewing, on: EventAddPoint, to: StatePreviewing},
	{from: StatePreviewing, on: EventUndoPoint, to: StatePreviewing},
	{from: StatePreviewing, on: EventMoveCursor, to: StatePreviewing},
	{from: StatePreviewing, on: eventMinPoints, to: StateCompleting},

	// Manual-finish tools keep collecting past the minimum.
	{from: StateCompleting, on: EventAddPoint, to: StateCompleting},
	{from: StateCompleting, on: EventUndoPoint, to: StateCollecting, guard: belowMinAfterUndo},
	{from: StateCompleting, on: EventUndoPoint, to: StateCompleting},
	{from: StateCompleting, on: EventMoveCursor, to: StateCompleting},
	{from: StateCompleting, on: EventComplete, to: StateCompleted},

	{from: StateToolReady, on: EventCancel, to: StateCancelled},
	{from: StateCollecting, on: EventCancel, to: StateCancelled},
	{from: StatePreviewing, on: EventCancel, to: StateCancelled},
	{from: StateCompleting, on: EventCancel, to: StateCancelled},

	{from: StateCompleted, on: EventReset, to: StateToolReady},
	{from: StateCompleted, on: EventDeselectTool, to: StateIdle},
	{from: StateCancelled, on: EventReset, to: StateToolReady},
	{from: StateCancelled, on: EventDeselectTool, to: StateIdle},
}

func belowMinAfterUndo(m *Machine) bool {
	return len(m.ctx.Points)-1 < m.ctx.MinPoints
}

// historySize bounds the diagnostic transition ring buffer.
const historySize = 32

// Record is one retained transition for diagnostics.
type Record struct {
	From  State
	Event Event
	To    State
	At    time.Time
}

// Machine is the interaction state machine. It is not safe for
// concurrent use; the engine is single-threaded by design.
type Machine struct {
	state   State
	ctx     Context
	history []Record
	histPos int
}

// New creates a machine in the idle state.
func New() *Machine {
	return &Machine{
		state:   StateIdle,
		history: make([]Record, 0, historySize),
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Tool returns the active tool ("" when none).
func (m *Machine) Tool() tool.Tool { return m.ctx.Tool }

// Points returns the collected points. The slice is shared; callers
// must not mutate it.
func (m *Machine) Points() []geometry.Point2D { return m.ctx.Points }

// Cursor returns the live cursor position, or nil before any move.
func (m *Machine) Cursor() *geometry.Point2D { return m.ctx.Cursor }

// Snap returns the metadata of the last snapped position.
func (m *Machine) Snap() SnapInfo { return m.ctx.Snap }

// LastError returns the most recent guard rejection, if any.
func (m *Machine) LastError() error { return m.ctx.LastError }

// History returns the retained transitions, oldest first.
func (m *Machine) History() []Record {
	if len(m.history) < historySize {
		out := make([]Record, len(m.history))
		copy(out, m.history)
		return out
	}
	out := make([]Record, 0, historySize)
	out = append(out, m.history[m.histPos:]...)
	out = append(out, m.history[:m.histPos]...)
	return out
}

// CanAddPoint reports whether a point would be accepted now.
func (m *Machine) CanAddPoint() bool {
	if !capabilities[m.state].addPoint || m.ctx.Tool == "" {
		return false
	}
	return m.ctx.MaxPoints == tool.NoMax || len(m.ctx.Points) < m.ctx.MaxPoints
}

// CanComplete reports whether an explicit completion is allowed now.
func (m *Machine) CanComplete() bool { return capabilities[m.state].complete }

// CanCancel reports whether the construction can be cancelled now.
func (m *Machine) CanCancel() bool { return capabilities[m.state].cancel }

// CanPreview reports whether a preview entity may exist now.
func (m *Machine) CanPreview() bool { return capabilities[m.state].preview }

// SelectTool arms a tool, resetting any in-progress construction.
func (m *Machine) SelectTool(t tool.Tool) bool {
	if !tool.Known(t) {
		m.reject(EventSelectTool)
		return false
	}
	if !m.fire(EventSelectTool) {
		return false
	}
	spec := tool.SpecFor(t)
	m.ctx.Tool = t
	m.ctx.MinPoints = spec.MinPoints
	m.ctx.MaxPoints = spec.MaxPoints
	m.ctx.AllowsContinuous = spec.Continuous
	return true
}

// Deselect disarms the tool and returns to idle.
func (m *Machine) Deselect() bool {
	if !m.fire(EventDeselectTool) {
		return false
	}
	m.ctx.Tool = ""
	m.ctx.MinPoints = 0
	m.ctx.MaxPoints = 0
	m.ctx.AllowsContinuous = false
	return true
}

// AddPoint appends a point. It is the sole appender. Once the tool's
// minimum is reached the internal min-points event promotes the
// machine to the completing state.
func (m *Machine) AddPoint(p geometry.Point2D) bool {
	if !m.CanAddPoint() {
		m.reject(EventAddPoint)
		return false
	}
	if !m.fire(EventAddPoint) {
		return false
	}
	m.ctx.Points = append(m.ctx.Points, p)
	if len(m.ctx.Points) >= m.ctx.MinPoints {
		m.fire(eventMinPoints)
	}
	return true
}

// UndoPoint removes the most recent point. It is the sole remover.
func (m *Machine) UndoPoint() bool {
	if len(m.ctx.Points) == 0 {
		m.reject(EventUndoPoint)
		return false
	}
	if !m.fire(EventUndoPoint) {
		return false
	}
	m.ctx.Points = m.ctx.Points[:len(m.ctx.Points)-1]
	return true
}

// MoveCursor records the live cursor position and snap metadata.
func (m *Machine) MoveCursor(p geometry.Point2D, snap SnapInfo) bool {
	if !m.fire(EventMoveCursor) {
		return false
	}
	cur := p
	m.ctx.Cursor = &cur
	m.ctx.Snap = snap
	return true
}

// Complete finishes the construction.
func (m *Machine) Complete() bool {
	if !m.CanComplete() {
		m.reject(EventComplete)
		return false
	}
	return m.fire(EventComplete)
}

// Cancel abandons the in-progress construction.
func (m *Machine) Cancel() bool {
	if !m.CanCancel() {
		m.reject(EventCancel)
		return false
	}
	return m.fire(EventCancel)
}

// Reset re-arms the current tool after completion or cancellation.
func (m *Machine) Reset() bool {
	return m.fire(EventReset)
}

// ReplacePoints swaps the collected points wholesale. The facade uses
// it to retain the chain anchor between continuous-measurement pairs.
func (m *Machine) ReplacePoints(points []geometry.Point2D) {
	m.ctx.Points = points
}

// SetPendingState demotes a completing machine back to collecting
// after a continuous pair commit, keeping the session alive.
func (m *Machine) SetPendingState() {
	if m.state == StateCompleting {
		m.record(m.state, eventMinPoints, StateCollecting)
		m.state = StateCollecting
	}
}

// fire looks up the first matching transition row and applies it.
// Unmatched events are silent no-ops (guard rejections reflect an
// impossible UI state, not a user error).
func (m *Machine) fire(ev Event) bool {
	for _, tr := range transitions {
		if tr.from != m.state || tr.on != ev {
			continue
		}
		if tr.guard != nil && !tr.guard(m) {
			continue
		}
		m.record(m.state, ev, tr.to)
		m.enter(tr.to)
		return true
	}
	m.reject(ev)
	return false
}

// enter applies the target state's entry effects.
func (m *Machine) enter(to State) {
	from := m.state
	m.state = to
	m.ctx.LastError = nil
	m.ctx.LastTransition = time.Now()

	switch to {
	case StateToolReady:
		// Arm or re-arm: construction context resets atomically, the
		// tool binding survives.
		m.clearConstruction()
	case StateCompleted, StateCancelled:
		if from != to {
			m.clearConstruction()
		}
	case StateIdle:
		m.clearConstruction()
	}
}

func (m *Machine) clearConstruction() {
	m.ctx.Points = nil
	m.ctx.Cursor = nil
	m.ctx.Snap = SnapInfo{}
}

func (m *Machine) reject(ev Event) {
	m.ctx.LastError = fmt.Errorf("event %v not allowed in state %v", ev, m.state)
}

func (m *Machine) record(from State, ev Event, to State) {
	if len(m.history) < historySize {
		m.history = append(m.history, Record{From: from, Event: ev, To: to, At: time.Now()})
		return
	}
	m.history[m.histPos] = Record{From: from, Event: ev, To: to, At: time.Now()}
	m.histPos = (m.histPos + 1) % historySize
}
