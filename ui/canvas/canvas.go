// Package canvas provides the drafting viewport with pan, zoom, and
// software entity rendering.
package canvas

import (
	"image"

	"nestor-draft/internal/preview"
	"nestor-draft/internal/scene"
	"nestor-draft/internal/underlay"
	"nestor-draft/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.5
	maxZoom  = 400.0
	zoomStep = 1.25
)

// DraftCanvas renders one level's scene plus the live preview. It polls
// the preview side-channel on every frame instead of subscribing to
// events; pointer moves are forwarded to the drafting engine which
// writes the fresh candidate back into the cell before the next draw.
type DraftCanvas struct {
	widget.BaseWidget

	sc       *scene.Scene
	cell     *preview.Cell
	underlay *underlay.Layer

	raster *fynecanvas.Raster

	// View transform: world origin at (panX, panY), zoom in pixels per
	// world unit.
	zoom float64
	panX float64
	panY float64

	dragging  bool
	dragLastX float32
	dragLastY float32

	onZoomChange func(zoom float64)
	onLeftClick  func(p geometry.Point2D)
	onRightClick func(p geometry.Point2D)
	onCursorMove func(p geometry.Point2D)

	showGrid    bool
	gridSpacing float64

	lastOutput *image.RGBA
}

// New creates an empty drafting canvas.
func New() *DraftCanvas {
	dc := &DraftCanvas{
		zoom:        20,
		showGrid:    true,
		gridSpacing: 1,
	}
	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels
	dc.ExtendBaseWidget(dc)
	return dc
}

// CreateRenderer implements fyne.Widget.
func (dc *DraftCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}

// SetScene swaps the scene being rendered.
func (dc *DraftCanvas) SetScene(sc *scene.Scene) {
	dc.sc = sc
	dc.Refresh()
}

// SetPreviewCell wires the side-channel the render loop polls.
func (dc *DraftCanvas) SetPreviewCell(cell *preview.Cell) {
	dc.cell = cell
}

// SetUnderlay sets the background raster traced over, or nil.
func (dc *DraftCanvas) SetUnderlay(layer *underlay.Layer) {
	dc.underlay = layer
	dc.Refresh()
}

// SetGrid configures the world-unit grid.
func (dc *DraftCanvas) SetGrid(show bool, spacing float64) {
	dc.showGrid = show
	if spacing > 0 {
		dc.gridSpacing = spacing
	}
	dc.Refresh()
}

// Zoom returns the current zoom in pixels per world unit.
func (dc *DraftCanvas) Zoom() float64 { return dc.zoom }

// SetZoom clamps and applies a zoom level.
func (dc *DraftCanvas) SetZoom(z float64) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	dc.zoom = z
	if dc.onZoomChange != nil {
		dc.onZoomChange(z)
	}
	dc.Refresh()
}

// ZoomIn increases the zoom level.
func (dc *DraftCanvas) ZoomIn() { dc.SetZoom(dc.zoom * zoomStep) }

// ZoomOut decreases the zoom level.
func (dc *DraftCanvas) ZoomOut() { dc.SetZoom(dc.zoom / zoomStep) }

// FitToScene adjusts pan and zoom so the scene bounds fill the view.
func (dc *DraftCanvas) FitToScene() {
	if dc.sc == nil {
		return
	}
	b := dc.sc.Bounds
	size := dc.Size()
	if b.Width <= 0 || b.Height <= 0 || size.Width <= 0 || size.Height <= 0 {
		return
	}
	zx := float64(size.Width) / b.Width
	zy := float64(size.Height) / b.Height
	z := zx
	if zy < zx {
		z = zy
	}
	dc.panX = b.X
	dc.panY = b.Y
	dc.SetZoom(z * 0.95)
}

// OnZoomChange sets a callback for zoom changes.
func (dc *DraftCanvas) OnZoomChange(cb func(zoom float64)) { dc.onZoomChange = cb }

// OnLeftClick sets the click callback. Coordinates are world units.
func (dc *DraftCanvas) OnLeftClick(cb func(p geometry.Point2D)) { dc.onLeftClick = cb }

// OnRightClick sets the right-click callback. Coordinates are world
// units.
func (dc *DraftCanvas) OnRightClick(cb func(p geometry.Point2D)) { dc.onRightClick = cb }

// OnCursorMove sets the hover callback. Coordinates are world units.
func (dc *DraftCanvas) OnCursorMove(cb func(p geometry.Point2D)) { dc.onCursorMove = cb }

// viewTransform maps world coordinates to output pixels for the
// current pan and zoom.
func (dc *DraftCanvas) viewTransform() geometry.AffineTransform {
	return geometry.Scaling(dc.zoom).Compose(geometry.Translation(-dc.panX, -dc.panY))
}

// worldAt converts a widget position into world coordinates.
func (dc *DraftCanvas) worldAt(pos fyne.Position) geometry.Point2D {
	// Zoom is clamped positive, so the view transform always inverts.
	inv, _ := dc.viewTransform().Inverse()
	return inv.Apply(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

// screenAt converts world coordinates into output pixels.
func (dc *DraftCanvas) screenAt(p geometry.Point2D) (int, int) {
	s := dc.viewTransform().Apply(p)
	return int(s.X), int(s.Y)
}

// Tapped forwards a left click as a world coordinate.
func (dc *DraftCanvas) Tapped(ev *fyne.PointEvent) {
	if dc.onLeftClick == nil {
		return
	}
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	dc.onLeftClick(dc.worldAt(ev.Position))
	dc.Refresh()
}

// TappedSecondary forwards a right click as a world coordinate.
func (dc *DraftCanvas) TappedSecondary(ev *fyne.PointEvent) {
	if dc.onRightClick == nil {
		return
	}
	dc.onRightClick(dc.worldAt(ev.Position))
	dc.Refresh()
}

// Dragged pans the view.
func (dc *DraftCanvas) Dragged(ev *fyne.DragEvent) {
	if !dc.dragging {
		dc.dragging = true
	} else {
		dc.panX -= float64(ev.Position.X-dc.dragLastX) / dc.zoom
		dc.panY -= float64(ev.Position.Y-dc.dragLastY) / dc.zoom
	}
	dc.dragLastX = ev.Position.X
	dc.dragLastY = ev.Position.Y
	dc.Refresh()
}

// DragEnd finishes a pan.
func (dc *DraftCanvas) DragEnd() {
	dc.dragging = false
}

// Scrolled zooms on the mouse wheel.
func (dc *DraftCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.ZoomOut()
	}
}

// MouseIn implements desktop.Hoverable.
func (dc *DraftCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved forwards hover positions so the drafting engine can
// refresh its preview, then repaints to pick the fresh candidate up
// from the side-channel.
func (dc *DraftCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if dc.onCursorMove == nil {
		return
	}
	dc.onCursorMove(dc.worldAt(ev.Position))
	dc.Refresh()
}

// MouseOut implements desktop.Hoverable.
func (dc *DraftCanvas) MouseOut() {}

// Refresh repaints the raster.
func (dc *DraftCanvas) Refresh() {
	dc.raster.Refresh()
	dc.BaseWidget.Refresh()
}

// RenderedOutput returns the last drawn frame, for tests and export.
func (dc *DraftCanvas) RenderedOutput() *image.RGBA {
	return dc.lastOutput
}
