package mainwindow

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"nestor-draft/internal/app"
	"nestor-draft/internal/tool"
	"nestor-draft/ui/canvas"
)

func TestToolbarCoversAllTools(t *testing.T) {
	byTool := make(map[tool.Tool]string, len(toolButtons))
	byLabel := make(map[string]tool.Tool, len(toolButtons))
	for _, b := range toolButtons {
		if !tool.Known(b.tool) {
			t.Errorf("button %q references unknown tool %q", b.label, b.tool)
		}
		if prev, dup := byTool[b.tool]; dup {
			t.Errorf("tool %q has two buttons: %q and %q", b.tool, prev, b.label)
		}
		if prev, dup := byLabel[b.label]; dup {
			t.Errorf("label %q used for both %q and %q", b.label, prev, b.tool)
		}
		byTool[b.tool] = b.label
		byLabel[b.label] = b.tool
	}

	for _, tl := range tool.All() {
		if _, ok := byTool[tl]; !ok {
			t.Errorf("tool %q has no toolbar button", tl)
		}
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
}

func TestUnderlaySurvivesSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "plan.png")
	writeTestPNG(t, imgPath)
	projPath := filepath.Join(dir, "drawing.ndraft")

	mw := &MainWindow{
		state:        app.NewState(),
		canvas:       canvas.New(),
		underlayPath: map[string]string{"default": imgPath},
	}
	mw.state.Scenes.Ensure("default")

	proj := mw.captureProject(projPath)
	level := proj.Levels["default"]
	if level == nil || level.UnderlayPath != "plan.png" {
		t.Fatalf("captured underlay = %+v, want relative plan.png", level)
	}
	if err := proj.Save(projPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := &MainWindow{
		state:        app.NewState(),
		canvas:       canvas.New(),
		underlayPath: make(map[string]string),
	}
	reopened.restoreUnderlays(proj, projPath)
	if got := reopened.underlayPath["default"]; got != imgPath {
		t.Fatalf("restored path = %q, want %q", got, imgPath)
	}
}
