//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gocanvaskit/internal/editor"
	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/hittest"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/tool"
)

// CanvasView renders the open document and feeds pointer, wheel and key
// events into the interaction manager. All coordinate math lives in the
// manager's Space; the widget only translates Fyne events into device
// coordinates.
type CanvasView struct {
	widget.BaseWidget

	cfg   tool.Config
	ed    *editor.Editor
	mgr   *tool.Manager
	space *geom.Space

	// Modifier state tracked from key down/up events; Fyne tap and drag
	// events do not carry modifiers.
	mod tool.Modifiers

	dragging bool
	lastDrag geom.Pt
	shape    desktop.Cursor
}

// NewCanvasView returns an empty view; call SetDocument to attach a document.
func NewCanvasView(cfg tool.Config) *CanvasView {
	v := &CanvasView{cfg: cfg, shape: desktop.DefaultCursor}
	v.ExtendBaseWidget(v)
	return v
}

// SetDocument replaces the edited document. A fresh editor and interaction
// manager are built around it; viewport state resets to identity.
func (v *CanvasView) SetDocument(doc *scene.Document, historyLimit int) {
	if doc == nil {
		v.ed = nil
		v.mgr = nil
		v.space = nil
		v.Refresh()
		return
	}
	sz := v.Size()
	container := geom.R(0, 0, float64(sz.Width), float64(sz.Height))
	if container.Empty() {
		container = geom.R(0, 0, 800, 600)
	}
	v.space = geom.NewSpace(container, doc.Size())
	v.ed = editor.New(doc, historyLimit)
	v.mgr = tool.NewManager(v.space, v.ed, v.cfg)
	v.Refresh()
}

// Editor exposes the composing layer, nil when no document is open.
func (v *CanvasView) Editor() *editor.Editor { return v.ed }

// Manager exposes the interaction manager, nil when no document is open.
func (v *CanvasView) Manager() *tool.Manager { return v.mgr }

func (v *CanvasView) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// Tapped treats a click as a zero-length gesture: down and up at the same
// device point. Selection changes happen in the select tool.
func (v *CanvasView) Tapped(e *fyne.PointEvent) {
	if v.mgr == nil {
		return
	}
	v.mgr.PointerDown(float64(e.Position.X), float64(e.Position.Y), v.mod)
	v.mgr.PointerUp(float64(e.Position.X), float64(e.Position.Y), v.mod)
	v.Refresh()
}

// Dragged starts the gesture on the first event, reconstructing the true
// down-point from the accumulated delta so the drag threshold measures from
// where the pointer actually went down.
func (v *CanvasView) Dragged(e *fyne.DragEvent) {
	if v.mgr == nil {
		return
	}
	if !v.dragging {
		v.dragging = true
		startX := float64(e.Position.X - e.Dragged.DX)
		startY := float64(e.Position.Y - e.Dragged.DY)
		v.mgr.PointerDown(startX, startY, v.mod)
	}
	v.lastDrag = geom.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	v.mgr.PointerMove(v.lastDrag.X, v.lastDrag.Y, v.mod)
	v.Refresh()
}

func (v *CanvasView) DragEnd() {
	if v.mgr == nil || !v.dragging {
		return
	}
	v.dragging = false
	v.mgr.PointerUp(v.lastDrag.X, v.lastDrag.Y, v.mod)
	v.Refresh()
}

// Scrolled forwards wheel ticks; the pan tool zooms around the cursor.
func (v *CanvasView) Scrolled(e *fyne.ScrollEvent) {
	if v.mgr == nil {
		return
	}
	v.mgr.Wheel(float64(e.Position.X), float64(e.Position.Y), float64(e.Scrolled.DY), v.mod)
	v.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (v *CanvasView) MouseIn(e *desktop.MouseEvent) { v.MouseMoved(e) }

// MouseMoved refreshes the cursor hint for the hovered position.
func (v *CanvasView) MouseMoved(e *desktop.MouseEvent) {
	if v.mgr == nil {
		v.shape = desktop.DefaultCursor
		return
	}
	v.shape = cursorShape(v.mgr.Cursor(float64(e.Position.X), float64(e.Position.Y)))
}

// MouseOut implements desktop.Hoverable.
func (v *CanvasView) MouseOut() { v.shape = desktop.DefaultCursor }

// Cursor implements desktop.Cursorable.
func (v *CanvasView) Cursor() desktop.Cursor { return v.shape }

// HandleKey routes key presses and releases. Modifier keys update the
// tracked modifier mask; editing keys go to the active tool.
func (v *CanvasView) HandleKey(name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		v.setMod(tool.ModShift, down)
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		v.setMod(tool.ModCtrl, down)
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		v.setMod(tool.ModAlt, down)
	}
	if v.mgr == nil {
		return
	}
	var k tool.Key
	switch name {
	case fyne.KeyDelete:
		k = tool.KeyDelete
	case fyne.KeyBackspace:
		k = tool.KeyBackspace
	case fyne.KeyEscape:
		k = tool.KeyEscape
	case fyne.KeySpace:
		k = tool.KeySpace
	default:
		return
	}
	v.mgr.Key(k, down, v.mod)
	v.Refresh()
}

func (v *CanvasView) setMod(m tool.Modifiers, down bool) {
	if down {
		v.mod |= m
	} else {
		v.mod &^= m
	}
}

// cursorShape maps the engine's cursor hints onto the cursors Fyne offers.
// The diagonal resize hints have no native counterpart and fall back to the
// crosshair.
func cursorShape(hint string) desktop.Cursor {
	switch hint {
	case "move", "grab":
		return desktop.PointerCursor
	case "ns-resize":
		return desktop.VResizeCursor
	case "ew-resize":
		return desktop.HResizeCursor
	case "nesw-resize", "nwse-resize":
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// CreateRenderer builds the layered visuals: background, document surface,
// object boxes, smart guides, then the selection overlay on top.
func (v *CanvasView) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})

	surface := canvas.NewRectangle(color.White)
	surface.StrokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	surface.StrokeWidth = 2

	bbox := canvas.NewRectangle(color.RGBA{})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1

	var handles [8]*canvas.Rectangle
	for i := range handles {
		handles[i] = canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
	}
	rot := canvas.NewCircle(color.RGBA{R: 255, G: 170, B: 0, A: 255})

	return &canvasViewRenderer{
		view:    v,
		bg:      bg,
		surface: surface,
		bbox:    bbox,
		handles: handles,
		rot:     rot,
	}
}

// canvasViewRenderer positions everything manually from the coordinate
// space; Fyne's layout system only supplies the container size.
type canvasViewRenderer struct {
	view    *CanvasView
	bg      *canvas.Rectangle
	surface *canvas.Rectangle

	// Object visual pools, grown on demand and hidden when surplus.
	boxes  []*canvas.Rectangle
	labels []*canvas.Text
	lines  []*canvas.Line

	bbox    *canvas.Rectangle
	handles [8]*canvas.Rectangle
	rot     *canvas.Circle

	objects []fyne.CanvasObject
}

func (r *canvasViewRenderer) Destroy()                     {}
func (r *canvasViewRenderer) MinSize() fyne.Size           { return r.view.PreferredSize() }
func (r *canvasViewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *canvasViewRenderer) Refresh() {
	r.Layout(r.view.Size())
	canvas.Refresh(r.view)
}

func (r *canvasViewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	v := r.view
	if v.space == nil || v.ed == nil {
		r.surface.Hide()
		r.hideOverlay()
		r.objects = []fyne.CanvasObject{r.bg}
		return
	}
	v.space.Container = geom.R(0, 0, float64(size.Width), float64(size.Height))

	doc := v.ed.Document()
	p0 := v.space.LogicalToDevice(geom.Pt{})
	p1 := v.space.LogicalToDevice(geom.Pt{X: doc.Width, Y: doc.Height})
	r.surface.Show()
	r.surface.Move(fyne.NewPos(float32(p0.X), float32(p0.Y)))
	r.surface.Resize(fyne.NewSize(float32(p1.X-p0.X), float32(p1.Y-p0.Y)))

	objs := make([]fyne.CanvasObject, 0, 16)
	objs = append(objs, r.bg, r.surface)

	// Device pixels per logical unit under the current zoom.
	devScale := 1.0
	if d := v.space.DistanceToLogical(1); d > 0 {
		devScale = 1 / d
	}

	usedBoxes, usedLabels := 0, 0
	for _, o := range doc.ZOrder() {
		if !o.Visible || o.Kind == scene.KindGroup {
			continue
		}
		box, ok := doc.ObjectBounds(o.ID)
		if !ok || box.Empty() {
			continue
		}
		q0 := v.space.LogicalToDevice(box.Min())
		q1 := v.space.LogicalToDevice(box.Max())
		pos := fyne.NewPos(float32(q0.X), float32(q0.Y))
		sz := fyne.NewSize(float32(q1.X-q0.X), float32(q1.Y-q0.Y))

		if o.Kind == scene.KindText && o.Text != nil {
			lbl := r.label(usedLabels)
			usedLabels++
			lbl.Text = o.Text.Content
			lbl.Color = toNRGBA(o.Text.Fill)
			lbl.TextSize = float32(o.Text.FontSize * devScale)
			lbl.Move(pos)
			lbl.Resize(sz)
			lbl.Show()
			objs = append(objs, lbl)
			continue
		}

		rc := r.box(usedBoxes)
		usedBoxes++
		rc.FillColor, rc.StrokeColor, rc.StrokeWidth = objectPaint(o, devScale)
		rc.Move(pos)
		rc.Resize(sz)
		rc.Show()
		objs = append(objs, rc)
	}
	for i := usedBoxes; i < len(r.boxes); i++ {
		r.boxes[i].Hide()
	}
	for i := usedLabels; i < len(r.labels); i++ {
		r.labels[i].Hide()
	}

	// Smart guides from the in-flight drag, if any.
	guides := v.mgr.Guides()
	for i, g := range guides {
		ln := r.line(i)
		a := v.space.LogicalToDevice(g.From)
		b := v.space.LogicalToDevice(g.To)
		ln.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
		ln.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
		ln.Show()
		objs = append(objs, ln)
	}
	for i := len(guides); i < len(r.lines); i++ {
		r.lines[i].Hide()
	}

	objs = r.layoutOverlay(objs)
	r.objects = objs
}

// layoutOverlay draws the selection box and its nine handles. Handle anchors
// come from the hit tester in the local frame and are rotated into place so
// the affordances track a rotated selection.
func (r *canvasViewRenderer) layoutOverlay(objs []fyne.CanvasObject) []fyne.CanvasObject {
	v := r.view
	anchors, rotation, ok := v.mgr.Tester().HandleAnchors()
	if !ok {
		r.hideOverlay()
		return objs
	}
	box, _, _ := v.ed.SelectionBounds()
	center := box.Center()

	q0 := v.space.LogicalToDevice(box.Min())
	q1 := v.space.LogicalToDevice(box.Max())
	r.bbox.Move(fyne.NewPos(float32(q0.X), float32(q0.Y)))
	r.bbox.Resize(fyne.NewSize(float32(q1.X-q0.X), float32(q1.Y-q0.Y)))
	r.bbox.Show()
	objs = append(objs, r.bbox)

	const handlePx = 8
	hi := 0
	for _, a := range anchors {
		p := v.space.LogicalToDevice(geom.RotateAround(a.Point, center, rotation))
		if a.Handle == hittest.HandleRotate {
			r.rot.Move(fyne.NewPos(float32(p.X)-6, float32(p.Y)-6))
			r.rot.Resize(fyne.NewSize(12, 12))
			r.rot.Show()
			continue
		}
		h := r.handles[hi]
		hi++
		h.Move(fyne.NewPos(float32(p.X)-handlePx/2, float32(p.Y)-handlePx/2))
		h.Resize(fyne.NewSize(handlePx, handlePx))
		h.Show()
	}
	for _, h := range r.handles {
		objs = append(objs, h)
	}
	objs = append(objs, r.rot)
	return objs
}

func (r *canvasViewRenderer) hideOverlay() {
	r.bbox.Hide()
	for _, h := range r.handles {
		h.Hide()
	}
	r.rot.Hide()
}

func (r *canvasViewRenderer) box(i int) *canvas.Rectangle {
	for i >= len(r.boxes) {
		rc := canvas.NewRectangle(color.RGBA{R: 220, G: 220, B: 220, A: 255})
		r.boxes = append(r.boxes, rc)
	}
	return r.boxes[i]
}

func (r *canvasViewRenderer) label(i int) *canvas.Text {
	for i >= len(r.labels) {
		r.labels = append(r.labels, canvas.NewText("", color.Black))
	}
	return r.labels[i]
}

func (r *canvasViewRenderer) line(i int) *canvas.Line {
	for i >= len(r.lines) {
		ln := canvas.NewLine(color.RGBA{R: 255, G: 64, B: 255, A: 220})
		ln.StrokeWidth = 1
		r.lines = append(r.lines, ln)
	}
	return r.lines[i]
}

// objectPaint picks the fill and stroke for a non-text object box.
func objectPaint(o *scene.Object, devScale float64) (fill, stroke color.Color, strokeW float32) {
	switch o.Kind {
	case scene.KindShape:
		if o.Shape == nil {
			return color.RGBA{}, color.Black, 1
		}
		w := float32(o.Shape.StrokeW * devScale)
		if o.Shape.StrokeW > 0 && w < 1 {
			w = 1
		}
		return toNRGBA(o.Shape.Fill), toNRGBA(o.Shape.Stroke), w
	case scene.KindImage:
		return color.RGBA{R: 200, G: 204, B: 210, A: 255}, color.RGBA{R: 90, G: 90, B: 90, A: 255}, 1
	default:
		return color.RGBA{}, color.RGBA{R: 90, G: 90, B: 90, A: 255}, 1
	}
}

func toNRGBA(c scene.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
