// Package tool defines the closed set of drafting tools and their
// point-arity contracts.
package tool

import "sort"

// Tool identifies a drafting or measurement tool.
type Tool string

// Drawing tools.
const (
	Point             Tool = "point"
	Line              Tool = "line"
	Rectangle         Tool = "rectangle"
	Polyline          Tool = "polyline"
	Polygon           Tool = "polygon"
	Circle            Tool = "circle"
	CircleDiameter    Tool = "circle-diameter"
	Circle2PDiameter  Tool = "circle-2p-diameter"
	Circle3P          Tool = "circle-3p"
	CircleChordSag    Tool = "circle-chord-sagitta"
	Circle2PRadius    Tool = "circle-2p-radius"
	CircleBestFit     Tool = "circle-best-fit"
	Arc3P             Tool = "arc-3p"
	ArcCenterStartEnd Tool = "arc-center-start-end"
	ArcStartCenterEnd Tool = "arc-start-center-end"
)

// Measurement tools.
const (
	MeasureDistance     Tool = "measure-distance"
	MeasureContDistance Tool = "measure-continuous-distance"
	MeasureArea         Tool = "measure-area"
	MeasureAngle        Tool = "measure-angle"
)

// NoMax marks tools without an upper point bound.
const NoMax = -1

// Spec describes a tool's completion contract.
type Spec struct {
	MinPoints    int
	MaxPoints    int  // NoMax for unbounded
	ManualFinish bool // completes only on an explicit finish
	Continuous   bool // re-arms (or chains) after each commit
	Closed       bool // vertex chain closes back to the first point
	Measurement  bool // produces a measurement, not drawing geometry
}

// specs is the single authoritative contract table.
var specs = map[Tool]Spec{
	Point:             {MinPoints: 1, MaxPoints: 1},
	Line:              {MinPoints: 2, MaxPoints: 2},
	Rectangle:         {MinPoints: 2, MaxPoints: 2},
	Polyline:          {MinPoints: 2, MaxPoints: NoMax, ManualFinish: true},
	Polygon:           {MinPoints: 3, MaxPoints: NoMax, ManualFinish: true, Closed: true},
	Circle:            {MinPoints: 2, MaxPoints: 2},
	CircleDiameter:    {MinPoints: 2, MaxPoints: 2},
	Circle2PDiameter:  {MinPoints: 2, MaxPoints: 2},
	Circle3P:          {MinPoints: 3, MaxPoints: 3},
	CircleChordSag:    {MinPoints: 3, MaxPoints: 3},
	Circle2PRadius:    {MinPoints: 3, MaxPoints: 3},
	CircleBestFit:     {MinPoints: 3, MaxPoints: NoMax, ManualFinish: true},
	Arc3P:             {MinPoints: 3, MaxPoints: 3},
	ArcCenterStartEnd: {MinPoints: 3, MaxPoints: 3},
	ArcStartCenterEnd: {MinPoints: 3, MaxPoints: 3},

	MeasureDistance:     {MinPoints: 2, MaxPoints: 2, Measurement: true},
	MeasureContDistance: {MinPoints: 2, MaxPoints: NoMax, Continuous: true, Measurement: true},
	MeasureArea:         {MinPoints: 3, MaxPoints: NoMax, ManualFinish: true, Closed: true, Measurement: true},
	MeasureAngle:        {MinPoints: 3, MaxPoints: 3, Measurement: true},
}

// allTools lists every known tool in a stable order.
var allTools = []Tool{
	Point, Line, Rectangle, Polyline, Polygon,
	Circle, CircleDiameter, Circle2PDiameter,
	Circle3P, CircleChordSag, Circle2PRadius, CircleBestFit,
	Arc3P, ArcCenterStartEnd, ArcStartCenterEnd,
	MeasureDistance, MeasureContDistance, MeasureArea, MeasureAngle,
}

// Known reports whether t is a recognized tool.
func Known(t Tool) bool {
	_, ok := specs[t]
	return ok
}

// All returns every recognized tool, sorted by identifier.
func All() []Tool {
	tools := make([]Tool, 0, len(specs))
	for t := range specs {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i] < tools[j] })
	return tools
}

// SpecFor returns the contract for a tool. Unknown tools get a zero
// Spec, which no point sequence can satisfy.
func SpecFor(t Tool) Spec {
	return specs[t]
}

// IsArc reports whether the tool constructs an arc.
func IsArc(t Tool) bool {
	return t == Arc3P || t == ArcCenterStartEnd || t == ArcStartCenterEnd
}

// CenterBasedArc reports whether the tool's first or second point is an
// arc center, which changes how construction guides are drawn.
func CenterBasedArc(t Tool) bool {
	return t == ArcCenterStartEnd || t == ArcStartCenterEnd
}

// Satisfied reports whether n collected points meet the tool's
// completion contract for automatic completion. Manual-finish and
// continuous tools never auto-complete.
func Satisfied(t Tool, n int) bool {
	spec, ok := specs[t]
	if !ok {
		return false
	}
	if spec.ManualFinish || spec.Continuous {
		return false
	}
	return n >= spec.MinPoints
}

// CanFinish reports whether a manual-finish tool has enough points for
// an explicit finish.
func CanFinish(t Tool, n int) bool {
	spec, ok := specs[t]
	if !ok || !spec.ManualFinish {
		return false
	}
	return n >= spec.MinPoints
}
