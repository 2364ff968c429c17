// Package canvas: software drawing primitives for the drafting view.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"nestor-draft/internal/entity"
	"nestor-draft/internal/scene"
	"nestor-draft/pkg/colorutil"
	"nestor-draft/pkg/geometry"
)

var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	gridColor       = color.RGBA{R: 44, G: 44, B: 52, A: 255}
	gripColor       = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	closeGripColor  = color.RGBA{R: 0, G: 220, B: 120, A: 255}
	guideColor      = color.RGBA{R: 110, G: 110, B: 130, A: 255}
	labelColor      = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	fallbackColor   = colorutil.White
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9, used for
// measurement readouts next to the cursor.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

var symbolPatterns = map[rune][5]uint8{
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch == 'm' {
		ch = 'M'
	}
	if p, ok := symbolPatterns[ch]; ok {
		return p
	}
	return [5]uint8{}
}

// draw is the raster drawing function: underlay, grid, committed
// entities, then the polled preview candidate on top.
func (dc *DraftCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = backgroundColor.R
		output.Pix[i+1] = backgroundColor.G
		output.Pix[i+2] = backgroundColor.B
		output.Pix[i+3] = 255
	}

	if dc.underlay != nil && dc.underlay.Visible && dc.underlay.Image != nil {
		dc.compositeUnderlay(output, w, h)
	}
	if dc.showGrid {
		dc.drawGrid(output, w, h)
	}

	if dc.sc != nil {
		visible := layerVisibility(dc.sc)
		for _, e := range dc.sc.Entities {
			if e == nil || !e.Visible || !visible[e.Layer] {
				continue
			}
			dc.drawEntity(output, e)
		}
	}

	if dc.cell != nil {
		if pv := dc.cell.Get(); pv != nil {
			dc.drawEntity(output, pv)
			dc.drawDecorations(output, pv)
		}
	}

	dc.lastOutput = output
	return output
}

func layerVisibility(sc *scene.Scene) map[string]bool {
	m := make(map[string]bool, len(sc.Layers))
	for _, l := range sc.Layers {
		m[l.Name] = l.Visible
	}
	return m
}

// compositeUnderlay blits the background image with its opacity.
func (dc *DraftCanvas) compositeUnderlay(output *image.RGBA, w, h int) {
	ul := dc.underlay
	opacity := ul.Opacity
	if opacity <= 0 {
		return
	}
	src := ul.Image
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			world := geometry.Point2D{
				X: dc.panX + float64(x)/dc.zoom,
				Y: dc.panY + float64(y)/dc.zoom,
			}
			px, py := ul.WorldToPixel(world)
			if px < srcBounds.Min.X || px >= srcBounds.Max.X ||
				py < srcBounds.Min.Y || py >= srcBounds.Max.Y {
				continue
			}
			sr, sg, sb, _ := src.At(px, py).RGBA()
			i := output.PixOffset(x, y)
			output.Pix[i] = colorutil.Blend(output.Pix[i], uint8(sr>>8), opacity)
			output.Pix[i+1] = colorutil.Blend(output.Pix[i+1], uint8(sg>>8), opacity)
			output.Pix[i+2] = colorutil.Blend(output.Pix[i+2], uint8(sb>>8), opacity)
		}
	}
}

// drawGrid paints world-unit grid lines when they are at least a few
// pixels apart.
func (dc *DraftCanvas) drawGrid(output *image.RGBA, w, h int) {
	step := dc.gridSpacing * dc.zoom
	if step < 6 {
		return
	}
	startX := math.Ceil(dc.panX/dc.gridSpacing) * dc.gridSpacing
	for wx := startX; ; wx += dc.gridSpacing {
		x := int((wx - dc.panX) * dc.zoom)
		if x >= w {
			break
		}
		if x < 0 {
			continue
		}
		for y := 0; y < h; y++ {
			output.SetRGBA(x, y, gridColor)
		}
	}
	startY := math.Ceil(dc.panY/dc.gridSpacing) * dc.gridSpacing
	for wy := startY; ; wy += dc.gridSpacing {
		y := int((wy - dc.panY) * dc.zoom)
		if y >= h {
			break
		}
		if y < 0 {
			continue
		}
		for x := 0; x < w; x++ {
			output.SetRGBA(x, y, gridColor)
		}
	}
}

// drawEntity dispatches on the entity type.
func (dc *DraftCanvas) drawEntity(output *image.RGBA, e *entity.Entity) {
	col := parseColor(e.Style.Color)
	dashed := e.Style.LineType == entity.LineTypeDashed
	thickness := int(e.Style.Width)
	if thickness < 1 {
		thickness = 1
	}

	switch e.Type {
	case entity.TypePoint:
		if e.Position != nil {
			x, y := dc.screenAt(*e.Position)
			dc.drawCross(output, x, y, 4, col)
		}
	case entity.TypeLine:
		if e.Start != nil && e.End != nil {
			x1, y1 := dc.screenAt(*e.Start)
			x2, y2 := dc.screenAt(*e.End)
			dc.drawLine(output, x1, y1, x2, y2, col, thickness, dashed)
			if e.Measurement {
				mid := e.Start.Midpoint(*e.End)
				mx, my := dc.screenAt(mid)
				dc.drawLabel(output, formatValue(e.Value), mx, my-8)
			}
		}
	case entity.TypeCircle:
		if e.Center != nil {
			cx, cy := dc.screenAt(*e.Center)
			dc.drawCircleRing(output, cx, cy, e.Radius*dc.zoom, col, dashed)
		}
	case entity.TypeArc:
		if e.Center != nil {
			dc.drawArc(output, e, col, thickness, dashed)
		}
	case entity.TypePolyline, entity.TypeRectangle:
		dc.drawPolyline(output, e, col, thickness, dashed)
		if e.Measurement && e.Closed && len(e.Vertices) >= 3 {
			c := geometry.Centroid(e.Vertices)
			cx, cy := dc.screenAt(c)
			dc.drawLabel(output, formatValue(e.Value), cx, cy)
		}
	case entity.TypeAngle:
		dc.drawAngle(output, e, col, thickness)
	}
}

// drawDecorations paints preview-only adornments: grips, edge
// distances, construction guides, the close grip.
func (dc *DraftCanvas) drawDecorations(output *image.RGBA, e *entity.Entity) {
	if len(e.ConstructionVertices) > 0 {
		dc.drawGuides(output, e)
	}
	if e.ShowGrips {
		for _, g := range e.GripPoints() {
			x, y := dc.screenAt(g)
			dc.drawSquare(output, x, y, 3, gripColor)
		}
	}
	if e.ShowEdgeDistances {
		dc.drawEdgeDistances(output, e)
	}
	if e.CloseGrip && len(e.Vertices) > 0 {
		x, y := dc.screenAt(e.Vertices[0])
		dc.drawSquare(output, x, y, 5, closeGripColor)
	}
}

// drawGuides renders the construction skeleton of an arc preview:
// chained for three-point arcs, radial spokes for center-based ones.
func (dc *DraftCanvas) drawGuides(output *image.RGBA, e *entity.Entity) {
	pts := e.ConstructionVertices
	switch e.ConstructionLineMode {
	case entity.GuideRadial:
		if len(pts) < 2 {
			return
		}
		cx, cy := dc.screenAt(pts[0])
		for _, p := range pts[1:] {
			x, y := dc.screenAt(p)
			dc.drawLine(output, cx, cy, x, y, guideColor, 1, true)
		}
	default:
		for i := 1; i < len(pts); i++ {
			x1, y1 := dc.screenAt(pts[i-1])
			x2, y2 := dc.screenAt(pts[i])
			dc.drawLine(output, x1, y1, x2, y2, guideColor, 1, true)
		}
	}
}

// drawEdgeDistances labels each edge of a line or polyline preview
// with its world length.
func (dc *DraftCanvas) drawEdgeDistances(output *image.RGBA, e *entity.Entity) {
	var pts []geometry.Point2D
	switch {
	case e.Type == entity.TypeLine && e.Start != nil && e.End != nil:
		pts = []geometry.Point2D{*e.Start, *e.End}
	case len(e.Vertices) >= 2:
		pts = e.Vertices
	default:
		return
	}
	for i := 1; i < len(pts); i++ {
		mid := pts[i-1].Midpoint(pts[i])
		x, y := dc.screenAt(mid)
		dc.drawLabel(output, formatValue(pts[i-1].Distance(pts[i])), x, y-8)
	}
	if e.Closed && len(pts) >= 3 {
		mid := pts[len(pts)-1].Midpoint(pts[0])
		x, y := dc.screenAt(mid)
		dc.drawLabel(output, formatValue(pts[len(pts)-1].Distance(pts[0])), x, y-8)
	}
}

func (dc *DraftCanvas) drawPolyline(output *image.RGBA, e *entity.Entity, col color.RGBA, thickness int, dashed bool) {
	pts := e.Vertices
	if len(pts) == 0 {
		return
	}
	for i := 1; i < len(pts); i++ {
		x1, y1 := dc.screenAt(pts[i-1])
		x2, y2 := dc.screenAt(pts[i])
		dc.drawLine(output, x1, y1, x2, y2, col, thickness, dashed)
	}
	if e.Closed && len(pts) >= 3 {
		x1, y1 := dc.screenAt(pts[len(pts)-1])
		x2, y2 := dc.screenAt(pts[0])
		dc.drawLine(output, x1, y1, x2, y2, col, thickness, dashed)
	}
}

// drawArc tessellates the arc into short segments.
func (dc *DraftCanvas) drawArc(output *image.RGBA, e *entity.Entity, col color.RGBA, thickness int, dashed bool) {
	arc := e.Arc()
	start := arc.StartAngle
	end := arc.EndAngle
	sweep := end - start
	if arc.Counterclockwise {
		if sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		if sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}
	steps := int(math.Abs(sweep)*arc.Radius*dc.zoom/4) + 8
	prev := geometry.PointOnCircle(arc.Center, arc.Radius, start)
	for i := 1; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		next := geometry.PointOnCircle(arc.Center, arc.Radius, a)
		x1, y1 := dc.screenAt(prev)
		x2, y2 := dc.screenAt(next)
		dc.drawLine(output, x1, y1, x2, y2, col, thickness, dashed)
		prev = next
	}
	if e.Measurement {
		cx, cy := dc.screenAt(arc.Center)
		dc.drawLabel(output, formatValue(e.Value), cx, cy)
	}
}

// drawAngle renders the two arms and a small sweep arc at the vertex.
func (dc *DraftCanvas) drawAngle(output *image.RGBA, e *entity.Entity, col color.RGBA, thickness int) {
	if e.Vertex == nil || e.ArmA == nil || e.ArmB == nil {
		return
	}
	vx, vy := dc.screenAt(*e.Vertex)
	ax, ay := dc.screenAt(*e.ArmA)
	bx, by := dc.screenAt(*e.ArmB)
	dc.drawLine(output, vx, vy, ax, ay, col, thickness, false)
	dc.drawLine(output, vx, vy, bx, by, col, thickness, false)
	dc.drawLabel(output, formatValue(e.Value), vx+10, vy-10)
}

// drawLine draws a line using Bresenham's algorithm.
func (dc *DraftCanvas) drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dashed bool) {
	bounds := output.Bounds()
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	x, y := x1, y1
	step := 0
	for {
		if !dashed || step%8 < 5 {
			for tx := 0; tx < thickness; tx++ {
				for ty := 0; ty < thickness; ty++ {
					px, py := x+tx, y+ty
					if px >= bounds.Min.X && px < bounds.Max.X &&
						py >= bounds.Min.Y && py < bounds.Max.Y {
						output.SetRGBA(px, py, col)
					}
				}
			}
		}
		if x == x2 && y == y2 {
			break
		}
		step++
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// drawCircleRing draws a circle outline two pixels thick.
func (dc *DraftCanvas) drawCircleRing(output *image.RGBA, cx, cy int, r float64, col color.RGBA, dashed bool) {
	if r <= 0 {
		return
	}
	bounds := output.Bounds()
	outer := r + 1
	inner := r - 1
	minX := cx - int(outer) - 1
	maxX := cx + int(outer) + 1
	minY := cy - int(outer) - 1
	maxY := cy + int(outer) + 1
	outer2 := outer * outer
	inner2 := inner * inner

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			fx := float64(x - cx)
			fy := float64(y - cy)
			d2 := fx*fx + fy*fy
			if d2 > outer2 || d2 < inner2 {
				continue
			}
			if dashed {
				a := math.Atan2(fy, fx)
				if int(a*8/math.Pi+16)%2 == 1 {
					continue
				}
			}
			output.SetRGBA(x, y, col)
		}
	}
}

func (dc *DraftCanvas) drawCross(output *image.RGBA, x, y, size int, col color.RGBA) {
	bounds := output.Bounds()
	for d := -size; d <= size; d++ {
		if x+d >= bounds.Min.X && x+d < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x+d, y, col)
		}
		if x >= bounds.Min.X && x < bounds.Max.X && y+d >= bounds.Min.Y && y+d < bounds.Max.Y {
			output.SetRGBA(x, y+d, col)
		}
	}
}

func (dc *DraftCanvas) drawSquare(output *image.RGBA, x, y, half int, col color.RGBA) {
	bounds := output.Bounds()
	for py := y - half; py <= y+half; py++ {
		for px := x - half; px <= x+half; px++ {
			if px >= bounds.Min.X && px < bounds.Max.X &&
				py >= bounds.Min.Y && py < bounds.Max.Y {
				output.SetRGBA(px, py, col)
			}
		}
	}
}

// drawLabel renders text centered at (cx, cy) in the built-in 3x5
// font.
func (dc *DraftCanvas) drawLabel(output *image.RGBA, label string, cx, cy int) {
	if label == "" {
		return
	}
	bounds := output.Bounds()
	const charW, charH = 4, 5
	startX := cx - len(label)*charW/2
	startY := cy - charH/2

	for i, ch := range label {
		pattern := charPattern(ch)
		ox := startX + i*charW
		for row := 0; row < 5; row++ {
			for bit := 0; bit < 3; bit++ {
				if pattern[row]&(1<<(2-bit)) == 0 {
					continue
				}
				px := ox + bit
				py := startY + row
				if px >= bounds.Min.X && px < bounds.Max.X &&
					py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, labelColor)
				}
			}
		}
	}
}

// formatValue renders a measurement value with two decimals, in
// meters.
func formatValue(v float64) string {
	return fmt.Sprintf("%.2f m", v)
}

// parseColor parses a #rrggbb string, falling back to white.
func parseColor(s string) color.RGBA {
	c, ok := colorutil.ParseHex(s)
	if !ok {
		return fallbackColor
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
