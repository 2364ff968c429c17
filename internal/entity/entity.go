// Package entity defines the drawing and measurement entities produced
// by the construction engine, in the scene JSON shape shared with the
// export pipeline.
package entity

import (
	"math"

	"nestor-draft/pkg/geometry"
)

// Type tags the geometry variant an Entity carries.
type Type string

const (
	TypePoint     Type = "point"
	TypeLine      Type = "line"
	TypeCircle    Type = "circle"
	TypeArc       Type = "arc"
	TypePolyline  Type = "polyline"
	TypeRectangle Type = "rectangle"
	TypeAngle     Type = "angle"
)

// Valid reports whether t is a recognized entity type tag.
func (t Type) Valid() bool {
	switch t {
	case TypePoint, TypeLine, TypeCircle, TypeArc, TypePolyline, TypeRectangle, TypeAngle:
		return true
	}
	return false
}

// PreviewID is the reserved identity shared by all preview candidates.
// At most one preview exists at a time and it is never persisted, so
// the id does not need to be unique.
const PreviewID = "__preview__"

// GuideMode describes how an arc preview's construction guide lines
// connect the construction vertices.
type GuideMode string

const (
	// GuideChain joins the construction points as an open polyline
	// (3-point arcs).
	GuideChain GuideMode = "polyline"
	// GuideRadial joins each construction point back to the arc center
	// (center-based arcs).
	GuideRadial GuideMode = "radial"
)

// Entity is the tagged union over every drawable/measurable shape.
// Exactly the fields for its Type are populated; the rest stay zero.
//
// Arc angles are stored in degrees normalized to [0, 360); the geometry
// kernel works in radians internally.
type Entity struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Layer   string `json:"layer"`
	Visible bool   `json:"visible"`
	Style   Style  `json:"style"`

	// Point
	Position *geometry.Point2D `json:"position,omitempty"`

	// Line (also distance measurements)
	Start *geometry.Point2D `json:"start,omitempty"`
	End   *geometry.Point2D `json:"end,omitempty"`

	// Circle and arc
	Center           *geometry.Point2D `json:"center,omitempty"`
	Radius           float64           `json:"radius,omitempty"`
	StartAngle       float64           `json:"startAngle,omitempty"`
	EndAngle         float64           `json:"endAngle,omitempty"`
	Counterclockwise bool              `json:"counterclockwise,omitempty"`

	// Polyline, polygon, and rectangle
	Vertices []geometry.Point2D `json:"vertices,omitempty"`
	Closed   bool               `json:"closed,omitempty"`

	// Angle measurement: the angle at Vertex between the two arms.
	Vertex *geometry.Point2D `json:"vertex,omitempty"`
	ArmA   *geometry.Point2D `json:"armA,omitempty"`
	ArmB   *geometry.Point2D `json:"armB,omitempty"`

	// Measurement marks measurement entities; Value holds the measured
	// quantity (length, area, or degrees depending on Type).
	Measurement bool    `json:"measurement,omitempty"`
	Value       float64 `json:"value,omitempty"`

	// Transient preview decoration, never serialized.
	Preview              bool               `json:"-"`
	ShowGrips            bool               `json:"-"`
	ShowEdgeDistances    bool               `json:"-"`
	CloseGrip            bool               `json:"-"`
	ConstructionVertices []geometry.Point2D `json:"-"`
	ConstructionLineMode GuideMode          `json:"-"`
}

// Bounds returns the axis-aligned bounding box of the entity's
// geometry, ignoring stroke width.
func (e *Entity) Bounds() geometry.Rect {
	switch e.Type {
	case TypePoint:
		if e.Position != nil {
			return geometry.Rect{X: e.Position.X, Y: e.Position.Y}
		}
	case TypeLine:
		if e.Start != nil && e.End != nil {
			return geometry.RectFromCorners(*e.Start, *e.End)
		}
	case TypeCircle, TypeArc:
		if e.Center != nil {
			return geometry.Rect{
				X:      e.Center.X - e.Radius,
				Y:      e.Center.Y - e.Radius,
				Width:  2 * e.Radius,
				Height: 2 * e.Radius,
			}
		}
	case TypePolyline, TypeRectangle:
		return geometry.BoundingBox(e.Vertices)
	case TypeAngle:
		var pts []geometry.Point2D
		for _, p := range []*geometry.Point2D{e.ArmA, e.Vertex, e.ArmB} {
			if p != nil {
				pts = append(pts, *p)
			}
		}
		return geometry.BoundingBox(pts)
	}
	return geometry.Rect{}
}

// GripPoints returns the editable vertices shown when grips are on.
func (e *Entity) GripPoints() []geometry.Point2D {
	switch e.Type {
	case TypePoint:
		if e.Position != nil {
			return []geometry.Point2D{*e.Position}
		}
	case TypeLine:
		if e.Start != nil && e.End != nil {
			return []geometry.Point2D{*e.Start, *e.End}
		}
	case TypeCircle:
		if e.Center != nil {
			return []geometry.Point2D{*e.Center}
		}
	case TypeArc:
		if e.Center != nil {
			arc := e.Arc()
			return []geometry.Point2D{arc.StartPoint(), arc.EndPoint(), *e.Center}
		}
	case TypePolyline, TypeRectangle:
		return e.Vertices
	}
	return nil
}

// Arc converts an arc entity back to the kernel representation
// (radians).
func (e *Entity) Arc() geometry.Arc {
	var center geometry.Point2D
	if e.Center != nil {
		center = *e.Center
	}
	return geometry.Arc{
		Center:           center,
		Radius:           e.Radius,
		StartAngle:       e.StartAngle * math.Pi / 180,
		EndAngle:         e.EndAngle * math.Pi / 180,
		Counterclockwise: e.Counterclockwise,
	}
}
