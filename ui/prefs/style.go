package prefs

import (
	"nestor-draft/internal/entity"
	"nestor-draft/internal/tool"
)

// Preference keys for commit-time styling.
const (
	KeyStyleColor    = "style.color"
	KeyStyleWidth    = "style.width"
	KeyStyleLineType = "style.line_type"
	KeyMeasureColor  = "measure.color"
)

// StyleSource resolves commit-time entity styles from the user's
// preferences, falling back to the built-in defaults.
type StyleSource struct {
	p *Prefs
}

// NewStyleSource wraps the preferences as a style resolver.
func NewStyleSource(p *Prefs) *StyleSource {
	return &StyleSource{p: p}
}

// ResolveStyle returns the final style a committing entity gets.
// Measurements keep their own palette so they read as annotations,
// not geometry.
func (s *StyleSource) ResolveStyle(t tool.Tool, e *entity.Entity) entity.Style {
	if tool.SpecFor(t).Measurement {
		st := entity.MeasurementStyle()
		if c := s.p.String(KeyMeasureColor); c != "" {
			st.Color = c
		}
		return st
	}

	st := entity.DefaultStyle()
	if c := s.p.String(KeyStyleColor); c != "" {
		st.Color = c
	}
	st.Width = s.p.FloatWithFallback(KeyStyleWidth, st.Width)
	if lt := s.p.String(KeyStyleLineType); lt != "" {
		st.LineType = lt
	}
	return st
}
