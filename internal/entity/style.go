package entity

// Style holds the resolved visual attributes of a committed entity.
// While a construction is in progress the render layer reads a live
// preview style instead; Resolve in the commit pipeline produces the
// final values exactly once.
type Style struct {
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
	Opacity  float64 `json:"opacity"`
	LineType string  `json:"lineType"`
	Dash     float64 `json:"dash,omitempty"`
	Cap      string  `json:"cap,omitempty"`
	Join     string  `json:"join,omitempty"`
}

// Line type names follow the scene JSON contract.
const (
	LineTypeContinuous = "CONTINUOUS"
	LineTypeDashed     = "DASHED"
)

// DefaultStyle is the commit-time fallback when no resolver overrides
// apply.
func DefaultStyle() Style {
	return Style{
		Color:    "#ffffff",
		Width:    1,
		Opacity:  1,
		LineType: LineTypeContinuous,
		Cap:      "round",
		Join:     "round",
	}
}

// MeasurementStyle is the commit-time fallback for measurement
// entities.
func MeasurementStyle() Style {
	s := DefaultStyle()
	s.Color = "#00c8ff"
	return s
}

// PreviewStyle is the live style applied to cursor-tracking candidates.
func PreviewStyle() Style {
	return Style{
		Color:    "#8cb4ff",
		Width:    1,
		Opacity:  0.8,
		LineType: LineTypeDashed,
		Dash:     4,
	}
}
