// Package builder turns a completed point sequence into a persisted
// entity. It is strict: unless the tool's completion contract is
// satisfied and the construction is geometrically valid, Build returns
// nil. Cursor-tracking fallbacks on degenerate input belong to the
// preview generator, never here.
package builder

import (
	"math"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
	"nestor-draft/pkg/geometry"
)

// Options carries construction inputs that are not click points.
type Options struct {
	// Flip inverts the arc sweep direction. It is XOR'd against the
	// kernel's natural sweep, identically at preview and commit time.
	Flip bool
	// Radius feeds the 2-points+radius circle tool (numeric input).
	// When zero, the minimal valid radius (half the chord) is used so
	// pointer-only flows still produce a circle.
	Radius float64
}

// Build constructs the entity for a tool from its ordered points, or
// nil when the contract or the geometry does not hold.
func Build(t tool.Tool, points []geometry.Point2D, id string, opts Options) *entity.Entity {
	spec := tool.SpecFor(t)
	if !tool.Known(t) || len(points) < spec.MinPoints {
		return nil
	}
	// Exact-arity tools take exactly MinPoints.
	if spec.MaxPoints != tool.NoMax && len(points) != spec.MinPoints {
		return nil
	}

	e := construct(t, points, opts)
	if e == nil {
		return nil
	}
	e.ID = id
	e.Visible = true
	if spec.Measurement {
		e.Measurement = true
	}
	return e
}

func construct(t tool.Tool, pts []geometry.Point2D, opts Options) *entity.Entity {
	switch t {
	case tool.Point:
		p := pts[0]
		return &entity.Entity{Type: entity.TypePoint, Position: &p}

	case tool.Line:
		return segment(pts[0], pts[1])

	case tool.MeasureDistance, tool.MeasureContDistance:
		// Continuous measurement commits one segment per completed
		// pair; the facade slices the pair out before calling Build.
		e := segment(pts[len(pts)-2], pts[len(pts)-1])
		e.Value = pts[len(pts)-2].Distance(pts[len(pts)-1])
		return e

	case tool.Rectangle:
		r := geometry.RectFromCorners(pts[0], pts[1])
		return &entity.Entity{
			Type:     entity.TypeRectangle,
			Vertices: r.Vertices(),
			Closed:   true,
		}

	case tool.Circle:
		return circleEntity(&geometry.Circle{Center: pts[0], Radius: pts[0].Distance(pts[1])})

	case tool.CircleDiameter:
		return circleEntity(&geometry.Circle{Center: pts[0], Radius: pts[0].Distance(pts[1]) / 2})

	case tool.Circle2PDiameter:
		return circleEntity(&geometry.Circle{
			Center: pts[0].Midpoint(pts[1]),
			Radius: pts[0].Distance(pts[1]) / 2,
		})

	case tool.Circle3P:
		return circleEntity(geometry.CircleFrom3Points(pts[0], pts[1], pts[2]))

	case tool.CircleChordSag:
		return circleEntity(geometry.CircleFromChordSagitta(pts[0], pts[1], pts[2]))

	case tool.Circle2PRadius:
		radius := opts.Radius
		if radius <= 0 {
			radius = pts[0].Distance(pts[1]) / 2
		}
		return circleEntity(geometry.CircleFrom2PointsRadius(pts[0], pts[1], radius, pts[2]))

	case tool.CircleBestFit:
		return circleEntity(geometry.CircleBestFit(pts))

	case tool.Arc3P:
		return arcEntity(geometry.ArcFrom3Points(pts[0], pts[1], pts[2]), opts.Flip)

	case tool.ArcCenterStartEnd:
		return arcEntity(geometry.ArcFromCenterStartEnd(pts[0], pts[1], pts[2]), opts.Flip)

	case tool.ArcStartCenterEnd:
		return arcEntity(geometry.ArcFromStartCenterEnd(pts[0], pts[1], pts[2]), opts.Flip)

	case tool.Polyline:
		return &entity.Entity{Type: entity.TypePolyline, Vertices: clonePoints(pts)}

	case tool.Polygon:
		return &entity.Entity{Type: entity.TypePolyline, Vertices: clonePoints(pts), Closed: true}

	case tool.MeasureArea:
		return &entity.Entity{
			Type:     entity.TypePolyline,
			Vertices: clonePoints(pts),
			Closed:   true,
			Value:    geometry.PolygonArea(pts),
		}

	case tool.MeasureAngle:
		a, vertex, b := pts[0], pts[1], pts[2]
		rad := geometry.AngleBetween(a.Sub(vertex), b.Sub(vertex))
		return &entity.Entity{
			Type:   entity.TypeAngle,
			Vertex: &vertex,
			ArmA:   &a,
			ArmB:   &b,
			Value:  geometry.NormalizeDegrees(rad * 180 / math.Pi),
		}
	}
	return nil
}

func segment(a, b geometry.Point2D) *entity.Entity {
	return &entity.Entity{Type: entity.TypeLine, Start: &a, End: &b}
}

func circleEntity(c *geometry.Circle) *entity.Entity {
	if c == nil {
		return nil
	}
	return &entity.Entity{Type: entity.TypeCircle, Center: &c.Center, Radius: c.Radius}
}

func arcEntity(a *geometry.Arc, flip bool) *entity.Entity {
	if a == nil {
		return nil
	}
	arc := *a
	if flip {
		arc = arc.Flipped()
	}
	return &entity.Entity{
		Type:             entity.TypeArc,
		Center:           &arc.Center,
		Radius:           arc.Radius,
		StartAngle:       geometry.NormalizeDegrees(arc.StartAngle * 180 / math.Pi),
		EndAngle:         geometry.NormalizeDegrees(arc.EndAngle * 180 / math.Pi),
		Counterclockwise: arc.Counterclockwise,
	}
}

func clonePoints(pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	copy(out, pts)
	return out
}
