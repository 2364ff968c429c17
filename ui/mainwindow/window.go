// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"

	"nestor-draft/internal/app"
	"nestor-draft/internal/commit"
	"nestor-draft/internal/draft"
	"nestor-draft/internal/project"
	"nestor-draft/internal/scene"
	"nestor-draft/internal/tool"
	"nestor-draft/internal/underlay"
	"nestor-draft/internal/version"
	"nestor-draft/pkg/geometry"
	"nestor-draft/ui/canvas"
	"nestor-draft/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "lastDirectory"

// toolButtons maps toolbar labels to drafting tools, in display order.
var toolButtons = []struct {
	label string
	tool  tool.Tool
}{
	{"Point", tool.Point},
	{"Line", tool.Line},
	{"Rect", tool.Rectangle},
	{"Polyline", tool.Polyline},
	{"Polygon", tool.Polygon},
	{"Circle", tool.Circle},
	{"Circle Dia", tool.CircleDiameter},
	{"Circle 2P", tool.Circle2PDiameter},
	{"Circle 3P", tool.Circle3P},
	{"Chord-Sag", tool.CircleChordSag},
	{"2P Radius", tool.Circle2PRadius},
	{"Best Fit", tool.CircleBestFit},
	{"Arc 3P", tool.Arc3P},
	{"Arc CSE", tool.ArcCenterStartEnd},
	{"Arc SCE", tool.ArcStartCenterEnd},
	{"Dist", tool.MeasureDistance},
	{"Dist+", tool.MeasureContDistance},
	{"Area", tool.MeasureArea},
	{"Angle", tool.MeasureAngle},
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	drafter   *draft.Drafter
	canvas    *canvas.DraftCanvas
	prefs     *prefs.Prefs
	statusBar *widget.Label

	// Imported underlay image paths per level, persisted on save.
	underlayPath map[string]string

	unsubscribe []func()
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Nestor Draft")

	mw := &MainWindow{
		Window:       win,
		app:          fyneApp,
		state:        state,
		prefs:        p,
		drafter:      draft.New(state, prefs.NewStyleSource(p)),
		underlayPath: make(map[string]string),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1280, 860))
	return mw
}

// Drafter exposes the drawing facade, mainly for tests.
func (mw *MainWindow) Drafter() *draft.Drafter { return mw.drafter }

// setupUI creates the main layout: tool buttons, canvas, status bar.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New()
	mw.canvas.SetPreviewCell(mw.drafter.PreviewCell())
	mw.canvas.SetScene(mw.state.Scenes.Ensure(mw.state.ActiveLevel()))

	mw.canvas.OnLeftClick(func(p geometry.Point2D) {
		if mw.drafter.Point(p) {
			mw.canvas.Refresh()
		}
	})
	mw.canvas.OnRightClick(func(p geometry.Point2D) {
		if mw.drafter.Cancel() {
			mw.setStatus("Cancelled")
		}
	})
	mw.canvas.OnCursorMove(func(p geometry.Point2D) {
		mw.drafter.MoveCursor(p)
	})
	mw.canvas.OnZoomChange(func(z float64) {
		mw.setStatus(fmt.Sprintf("Zoom %.0f%%", z*5))
	})

	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

// createToolbar builds the drawing tool buttons and the construction
// actions.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	bar := container.NewHBox()
	for _, tb := range toolButtons {
		tb := tb
		bar.Add(widget.NewButton(tb.label, func() {
			if mw.drafter.Start(tb.tool) {
				mw.setStatus(fmt.Sprintf("Tool: %s", tb.tool))
			}
		}))
	}
	bar.Add(widget.NewSeparator())
	bar.Add(widget.NewButton("Finish", func() {
		if mw.drafter.Finish() {
			mw.canvas.Refresh()
		}
	}))
	bar.Add(widget.NewButton("Undo Pt", func() {
		mw.drafter.UndoLastPoint()
		mw.canvas.Refresh()
	}))
	bar.Add(widget.NewButton("Flip", func() {
		mw.drafter.FlipDirection()
		mw.canvas.Refresh()
	}))
	bar.Add(widget.NewButton("Undo", func() {
		if _, err := mw.state.Undo(); err == nil {
			mw.canvas.Refresh()
		}
	}))
	return bar
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Underlay...", mw.onImportUnderlay),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Drawing", mw.canvas.FitToScene),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers subscribes the status bar and canvas to state
// events. Unsubscribers are kept so Close can detach them.
func (mw *MainWindow) setupEventHandlers() {
	mw.unsubscribe = append(mw.unsubscribe,
		mw.state.On(app.TopicDrawingComplete, func(payload any) {
			if ev, ok := payload.(commit.Completion); ok {
				if ev.Entity != nil {
					mw.setStatus(fmt.Sprintf("Committed %s", ev.Entity.Type))
				} else {
					mw.setStatus(fmt.Sprintf("Committed %d measurements", len(ev.Entities)))
				}
			}
			mw.canvas.Refresh()
		}),
		mw.state.On(app.TopicUndoApplied, func(any) {
			mw.setStatus("Undone")
			mw.canvas.Refresh()
		}),
		mw.state.On(app.TopicLevelChanged, func(payload any) {
			if id, ok := payload.(string); ok {
				mw.canvas.SetScene(mw.state.Scenes.Ensure(id))
			}
		}),
		mw.state.On(app.TopicModified, func(payload any) {
			if modified, ok := payload.(bool); ok && modified {
				mw.SetTitle("Nestor Draft *")
			} else {
				mw.SetTitle("Nestor Draft")
			}
		}),
	)
}

// Close detaches event handlers before closing the window.
func (mw *MainWindow) Close() {
	for _, off := range mw.unsubscribe {
		off()
	}
	mw.Window.Close()
}

func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
}

func (mw *MainWindow) onNewProject() {
	fresh := scene.New()
	mw.state.Scenes.SetScene(mw.state.ActiveLevel(), fresh)
	mw.canvas.SetScene(fresh)
	mw.canvas.SetUnderlay(nil)
	mw.underlayPath = make(map[string]string)
	mw.state.SetModified(false)
	mw.setStatus("New project")
}

func (mw *MainWindow) onOpenProject() {
	dlg := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		proj, err := project.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		proj.Apply(mw.state, path)
		mw.canvas.SetScene(mw.state.Scenes.Ensure(mw.state.ActiveLevel()))
		mw.restoreUnderlays(proj, path)
		mw.prefs.SetString(prefKeyLastDir, path)
		mw.setStatus(fmt.Sprintf("Opened %s", proj.Name))
	}, mw.Window)
	dlg.SetFilter(storage.NewExtensionFileFilter([]string{".ndraft"}))
	dlg.Show()
}

func (mw *MainWindow) onSaveProjectAs() {
	dlg := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()

		proj := mw.captureProject(path)
		if err := proj.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.ProjectPath = path
		mw.state.SetModified(false)
		mw.state.Emit(app.TopicProjectSaved, path)
		mw.setStatus(fmt.Sprintf("Saved %s", path))
	}, mw.Window)
	dlg.SetFileName("drawing.ndraft")
	dlg.Show()
}

// captureProject snapshots the application state for saving to path,
// including imported underlay references.
func (mw *MainWindow) captureProject(path string) *project.File {
	proj := project.Capture(mw.state, "drawing")
	for level, img := range mw.underlayPath {
		proj.SetUnderlay(path, level, img)
	}
	return proj
}

// restoreUnderlays reloads underlay images referenced by an opened
// project and shows the active level's one.
func (mw *MainWindow) restoreUnderlays(proj *project.File, path string) {
	mw.canvas.SetUnderlay(nil)
	mw.underlayPath = make(map[string]string)
	for level := range proj.Levels {
		img := proj.GetUnderlayPath(path, level)
		if img == "" {
			continue
		}
		mw.underlayPath[level] = img
		if level != mw.state.ActiveLevel() {
			continue
		}
		layer, err := underlay.Load(img)
		if err != nil {
			mw.setStatus(fmt.Sprintf("Underlay missing: %s", img))
			continue
		}
		mw.canvas.SetUnderlay(layer)
	}
}

func (mw *MainWindow) onImportUnderlay() {
	dlg := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		layer, err := underlay.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.canvas.SetUnderlay(layer)
		mw.underlayPath[mw.state.ActiveLevel()] = path
		mw.state.SetModified(true)
		mw.setStatus(fmt.Sprintf("Underlay: %s", path))
	}, mw.Window)
	dlg.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	dlg.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("Nestor Draft",
		fmt.Sprintf("Interactive drafting and measurement\nVersion %s", version.String()),
		mw.Window)
}
