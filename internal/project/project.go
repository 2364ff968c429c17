// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nestor-draft/internal/app"
	"nestor-draft/internal/scene"
)

// File represents a drafting project file (.ndraft). Scenes are stored
// inline; underlay images stay external and are referenced by path
// relative to the project file.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Units       string    `json:"units"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	ActiveLevel string                `json:"active_level"`
	Levels      map[string]*LevelData `json:"levels"`

	Settings Settings `json:"settings,omitempty"`
}

// LevelData is everything persisted per level.
type LevelData struct {
	Scene *scene.Scene `json:"scene"`

	// Underlay image path, relative to the project file.
	UnderlayPath    string  `json:"underlay,omitempty"`
	UnderlayOpacity float64 `json:"underlay_opacity,omitempty"`
}

// Settings holds user preferences stored with the project.
type Settings struct {
	SnapEnabled     bool    `json:"snap_enabled"`
	GridSpacing     float64 `json:"grid_spacing,omitempty"`
	DefaultLineType string  `json:"default_line_type,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:     1,
		Name:        name,
		Units:       "meters",
		Created:     now,
		Modified:    now,
		ActiveLevel: "default",
		Levels:      make(map[string]*LevelData),
		Settings: Settings{
			SnapEnabled: true,
			GridSpacing: 0.5,
		},
	}
}

// Load loads a project from a .ndraft file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	if proj.Levels == nil {
		proj.Levels = make(map[string]*LevelData)
	}
	if proj.Units == "" {
		proj.Units = "meters"
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetUnderlay records an underlay image for a level, stored relative
// to the project file when possible.
func (p *File) SetUnderlay(projectPath, levelID, imagePath string) {
	level := p.Levels[levelID]
	if level == nil {
		level = &LevelData{}
		p.Levels[levelID] = level
	}
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		level.UnderlayPath = imagePath
	} else {
		level.UnderlayPath = rel
	}
	p.Modified = time.Now()
}

// GetUnderlayPath returns the absolute path to a level's underlay
// image, or "" when the level has none.
func (p *File) GetUnderlayPath(projectPath, levelID string) string {
	level := p.Levels[levelID]
	if level == nil || level.UnderlayPath == "" {
		return ""
	}
	if filepath.IsAbs(level.UnderlayPath) {
		return level.UnderlayPath
	}
	return filepath.Join(filepath.Dir(projectPath), level.UnderlayPath)
}

// Capture snapshots the application state into a project file.
func Capture(s *app.State, name string) *File {
	p := New(name)
	p.ActiveLevel = s.ActiveLevel()
	for _, id := range s.Scenes.Levels() {
		p.Levels[id] = &LevelData{Scene: s.Scenes.Scene(id)}
	}
	return p
}

// Apply loads the project's scenes into the application state and
// emits the project-loaded event.
func (p *File) Apply(s *app.State, path string) {
	for id, level := range p.Levels {
		if level.Scene != nil {
			s.Scenes.SetScene(id, level.Scene)
		}
	}
	if p.ActiveLevel != "" {
		s.SetActiveLevel(p.ActiveLevel)
	}
	s.ProjectPath = path
	s.SetModified(false)
	s.Emit(app.TopicProjectLoaded, path)
}
