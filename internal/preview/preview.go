// Package preview produces the transient cursor-tracking candidate
// shown while a construction is in progress. Unlike the builder it is
// lenient: it always renders some feedback, falling back to rubber-band
// geometry when the real construction is degenerate or incomplete.
package preview

import (
	"nestor-draft/internal/builder"
	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

// BuildFunc is the injected strict constructor, normally
// builder.Build. Injection keeps this package free of a hard builder
// dependency in tests.
type BuildFunc func(t tool.Tool, pts []geometry.Point2D, id string, opts builder.Options) *entity.Entity

// Generate computes the candidate entity for the current tool, the
// collected points, and the live cursor. Returns nil only when no tool
// is active or the tool is unknown.
func Generate(t tool.Tool, points []geometry.Point2D, cursor geometry.Point2D, opts builder.Options, build BuildFunc) *entity.Entity {
	if !tool.Known(t) {
		return nil
	}

	if len(points) == 0 {
		return startMarker(t, cursor)
	}

	all := make([]geometry.Point2D, 0, len(points)+1)
	all = append(all, points...)
	all = append(all, cursor)

	if candidate := tryBuild(t, all, opts, build); candidate != nil {
		return candidate
	}
	return rubberBand(t, all)
}

// tryBuild attempts the real construction with the cursor standing in
// as the provisional last point. Nil when the arity is not yet
// satisfied or the geometry is degenerate.
func tryBuild(t tool.Tool, all []geometry.Point2D, opts builder.Options, build BuildFunc) *entity.Entity {
	spec := tool.SpecFor(t)
	switch {
	case spec.MaxPoints != tool.NoMax && len(all) != spec.MinPoints:
		return nil
	case spec.MaxPoints == tool.NoMax && len(all) < spec.MinPoints:
		return nil
	}
	return build(t, all, entity.PreviewID, opts)
}

// startMarker is the zero-point dot that confirms the tool is armed.
func startMarker(t tool.Tool, cursor geometry.Point2D) *entity.Entity {
	return &entity.Entity{
		ID:          entity.PreviewID,
		Type:        entity.TypePoint,
		Position:    &cursor,
		Measurement: tool.SpecFor(t).Measurement,
	}
}

// rubberBand draws the collected points plus cursor as a provisional
// chain: a single line for two points, an open polyline beyond that.
func rubberBand(t tool.Tool, all []geometry.Point2D) *entity.Entity {
	e := &entity.Entity{
		ID:          entity.PreviewID,
		Measurement: tool.SpecFor(t).Measurement,
	}
	if len(all) == 2 {
		e.Type = entity.TypeLine
		e.Start = &all[0]
		e.End = &all[1]
		return e
	}
	e.Type = entity.TypePolyline
	e.Vertices = all
	return e
}

// Decorate stamps the preview flags onto a candidate. The points are
// the collected points including the cursor; resting marks the partial
// preview recomputed after a click (no live cursor), which keeps grips
// but drops the per-edge distance labels.
func Decorate(e *entity.Entity, t tool.Tool, all []geometry.Point2D, resting bool) *entity.Entity {
	if e == nil {
		return nil
	}
	spec := tool.SpecFor(t)

	e.ID = entity.PreviewID
	e.Preview = true
	e.Style = entity.PreviewStyle()
	if spec.Measurement {
		e.Measurement = true
	}

	switch e.Type {
	case entity.TypeLine, entity.TypePolyline, entity.TypeRectangle:
		e.ShowGrips = true
		e.ShowEdgeDistances = !resting
	case entity.TypeCircle, entity.TypeArc:
		e.ShowGrips = true
	}

	// Closable chains get a grip on the first vertex once a ring is
	// possible, so a click there closes the shape.
	collected := len(all)
	if !resting {
		collected-- // the cursor is not a committed point
	}
	if spec.Closed && spec.ManualFinish && collected >= 3 {
		e.CloseGrip = true
	}

	if tool.IsArc(t) {
		e.ConstructionVertices = all
		if tool.CenterBasedArc(t) {
			e.ConstructionLineMode = entity.GuideRadial
		} else {
			e.ConstructionLineMode = entity.GuideChain
		}
	}
	return e
}
