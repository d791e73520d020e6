/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"math"
	"testing"

	"gocanvaskit/internal/editor"
	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
)

// The fixture maps device and logical space 1:1 (container and surface both
// 1200x800), so event coordinates below read as logical positions.
func newFixture(cfg Config, objs ...*scene.Object) (*editor.Editor, *Manager) {
	doc := scene.NewDocument("t", 1200, 800)
	for _, o := range objs {
		doc.Add(o)
	}
	ed := editor.New(doc, 50)
	space := geom.NewSpace(geom.R(0, 0, 1200, 800), doc.Size())
	return ed, NewManager(space, ed, cfg)
}

func rect(id string, x, y, w, h float64, z int) *scene.Object {
	return &scene.Object{
		ID:        id,
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(x, y),
		Opacity:   1,
		Visible:   true,
		ZIndex:    z,
		Shape:     &scene.ShapeData{Shape: scene.ShapeRect, Width: w, Height: h},
	}
}

func click(m *Manager, x, y float64, mod Modifiers) {
	m.PointerDown(x, y, mod)
	m.PointerUp(x, y, mod)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func rectNear(a, b geom.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}

func TestClickSelection(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0), rect("r2", 400, 100, 100, 100, 1))

	click(m, 150, 150, 0)
	if sel := ed.Selection(); len(sel) != 1 || sel[0] != "r1" {
		t.Fatalf("selection = %v, want [r1]", sel)
	}
	if ed.CanUndo() {
		t.Fatalf("plain click must not commit")
	}

	// Shift-click adds, shift-click again removes.
	click(m, 450, 150, ModShift)
	if sel := ed.Selection(); len(sel) != 2 {
		t.Fatalf("selection = %v, want both", sel)
	}
	click(m, 150, 150, ModShift)
	if sel := ed.Selection(); len(sel) != 1 || sel[0] != "r2" {
		t.Fatalf("selection = %v, want [r2]", sel)
	}

	// Background click clears; with shift held it is preserved.
	click(m, 700, 700, ModShift)
	if len(ed.Selection()) != 1 {
		t.Fatalf("shift background click should keep the selection")
	}
	click(m, 700, 700, 0)
	if len(ed.Selection()) != 0 {
		t.Fatalf("background click should clear the selection")
	}
}

func TestDragThreshold(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	m.PointerDown(150, 150, 0)
	if !m.Interacting() {
		t.Fatalf("pointer down should set interacting")
	}
	m.PointerMove(152, 150, 0) // 2px, under the 3px threshold
	o, _ := ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("sub-threshold move must not drag, X = %v", o.Transform.X)
	}
	m.PointerUp(152, 150, 0)
	if ed.CanUndo() {
		t.Fatalf("micro-drag must not commit")
	}
	if m.Interacting() {
		t.Fatalf("pointer up should clear interacting")
	}

	// Crossing the threshold drags; many moves still yield one entry.
	m.PointerDown(150, 150, 0)
	for x := 155.0; x <= 250; x += 5 {
		m.PointerMove(x, 150, 0)
	}
	m.PointerUp(250, 150, 0)

	o, _ = ed.Object("r1")
	if o.Transform.X != 200 {
		t.Fatalf("dragged X = %v, want 200", o.Transform.X)
	}
	if !ed.Undo() {
		t.Fatalf("drag should have committed")
	}
	o, _ = ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("one undo should revert the whole drag, X = %v", o.Transform.X)
	}
	if ed.CanUndo() {
		t.Fatalf("the drag must be a single history entry")
	}
}

func TestMultiObjectDrag(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 50, 50, 0), rect("r2", 300, 300, 50, 50, 1))
	ed.SetSelection([]string{"r1", "r2"})

	m.PointerDown(125, 125, 0)
	m.PointerMove(145, 135, 0)
	m.PointerUp(145, 135, 0)

	a, _ := ed.Object("r1")
	b, _ := ed.Object("r2")
	if a.Transform.X != 120 || a.Transform.Y != 110 {
		t.Fatalf("r1 moved to (%v,%v), want (120,110)", a.Transform.X, a.Transform.Y)
	}
	if b.Transform.X != 320 || b.Transform.Y != 310 {
		t.Fatalf("r2 moved to (%v,%v), want (320,310)", b.Transform.X, b.Transform.Y)
	}
}

func TestResizeSEHandle(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(200, 200, 0) // SE handle
	m.PointerMove(250, 260, 0)
	m.PointerUp(250, 260, 0)

	box, _ := ed.ObjectBounds("r1")
	if !rectNear(box, geom.R(100, 100, 150, 160)) {
		t.Fatalf("resized box = %+v", box)
	}
	o, _ := ed.Object("r1")
	if !near(o.Transform.ScaleX, 1.5) || !near(o.Transform.ScaleY, 1.6) {
		t.Fatalf("scale = (%v,%v)", o.Transform.ScaleX, o.Transform.ScaleY)
	}
	if !ed.CanUndo() {
		t.Fatalf("resize should commit")
	}
}

func TestResizeNWHandleMovesOrigin(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(100, 100, 0) // NW handle
	m.PointerMove(80, 60, 0)
	m.PointerUp(80, 60, 0)

	box, _ := ed.ObjectBounds("r1")
	if !rectNear(box, geom.R(80, 60, 120, 140)) {
		t.Fatalf("resized box = %+v", box)
	}
}

func TestResizeClampsToMinSize(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(200, 200, 0) // SE handle
	m.PointerMove(50, 50, 0)   // collapse past the opposite corner
	m.PointerUp(50, 50, 0)

	box, _ := ed.ObjectBounds("r1")
	if !rectNear(box, geom.R(100, 100, 10, 10)) {
		t.Fatalf("clamped box = %+v, want 10x10 at origin", box)
	}
}

func TestResizeShiftPreservesAspect(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(200, 200, 0)
	m.PointerMove(300, 210, ModShift) // width grows 2x, height barely
	m.PointerUp(300, 210, ModShift)

	box, _ := ed.ObjectBounds("r1")
	if !rectNear(box, geom.R(100, 100, 200, 200)) {
		t.Fatalf("aspect-locked box = %+v, want square 200x200", box)
	}
}

func TestResizeShiftAspectRespectsMinSize(t *testing.T) {
	// A wide flat box shrunk with the aspect lock: the re-derived height
	// would fall to 6, but the minimum-size floor must hold.
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 200, 40, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(300, 140, 0) // SE handle
	m.PointerMove(130, 130, ModShift)
	m.PointerUp(130, 130, ModShift)

	box, _ := ed.ObjectBounds("r1")
	if !rectNear(box, geom.R(100, 100, 30, 10)) {
		t.Fatalf("clamped aspect box = %+v, want 30x10 at origin", box)
	}
	o, _ := ed.Object("r1")
	if !near(o.Transform.ScaleX, 0.15) || !near(o.Transform.ScaleY, 0.25) {
		t.Fatalf("scale = (%v,%v)", o.Transform.ScaleX, o.Transform.ScaleY)
	}
}

func TestRotateGesture(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(150, 76, 0) // rotate anchor above the top edge
	m.PointerMove(224, 150, 0)
	m.PointerUp(224, 150, 0)

	o, _ := ed.Object("r1")
	if !near(o.Transform.Rotation, 90) {
		t.Fatalf("rotation = %v, want 90", o.Transform.Rotation)
	}
	if !ed.CanUndo() {
		t.Fatalf("rotation should commit")
	}
}

func TestRotateSnapWithCtrl(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	ed.SetSelection([]string{"r1"})

	m.PointerDown(150, 76, ModCtrl)
	m.PointerMove(224, 163, ModCtrl) // nearly 100 degrees, snaps to 105
	m.PointerUp(224, 163, ModCtrl)

	o, _ := ed.Object("r1")
	if !near(o.Transform.Rotation, 105) {
		t.Fatalf("snapped rotation = %v, want 105", o.Transform.Rotation)
	}
}

func TestEscapeCancelsDragSilently(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	m.PointerDown(150, 150, 0)
	m.PointerMove(250, 150, 0)
	o, _ := ed.Object("r1")
	if o.Transform.X != 200 {
		t.Fatalf("drag in flight, X = %v", o.Transform.X)
	}

	m.Key(KeyEscape, true, 0)
	o, _ = ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("escape should restore gesture-start state, X = %v", o.Transform.X)
	}
	m.PointerUp(250, 150, 0)
	if ed.CanUndo() {
		t.Fatalf("cancelled gesture must not commit")
	}
	// Escape with no gesture clears the selection instead.
	m.Key(KeyEscape, true, 0)
	if len(ed.Selection()) != 0 {
		t.Fatalf("idle escape should clear the selection")
	}
}

func TestCancelGestureFromManager(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	m.PointerDown(150, 150, 0)
	m.PointerMove(250, 150, 0)
	m.CancelGesture()

	o, _ := ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("cancel should restore gesture-start state, X = %v", o.Transform.X)
	}
	if m.Interacting() {
		t.Fatalf("cancel should clear interacting")
	}
}

func TestToolSwitchCancelsGesture(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	m.PointerDown(150, 150, 0)
	m.PointerMove(250, 150, 0)
	m.SetTool(ToolPan)

	o, _ := ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("switching tools should cancel the drag, X = %v", o.Transform.X)
	}
	if m.ActiveTool() != ToolPan || m.Interacting() {
		t.Fatalf("tool = %v interacting = %v", m.ActiveTool(), m.Interacting())
	}
	if ed.CanUndo() {
		t.Fatalf("cancelled gesture must not commit")
	}
}

func TestLockedObjectSelectsButNeverMutates(t *testing.T) {
	locked := rect("r1", 100, 100, 100, 100, 0)
	locked.Locked = true
	ed, m := newFixture(DefaultConfig(), locked)

	m.PointerDown(150, 150, 0)
	m.PointerMove(250, 150, 0)
	m.PointerUp(250, 150, 0)

	if sel := ed.Selection(); len(sel) != 1 || sel[0] != "r1" {
		t.Fatalf("locked objects stay selectable, selection = %v", sel)
	}
	o, _ := ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("locked object moved to X = %v", o.Transform.X)
	}

	m.Key(KeyDelete, true, 0)
	if _, ok := ed.Object("r1"); !ok {
		t.Fatalf("locked object must survive delete")
	}
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 50, 50, 0), rect("r2", 300, 100, 50, 50, 1))
	ed.SetSelection([]string{"r1", "r2"})

	m.Key(KeyDelete, true, 0)
	if len(ed.Document().Objects) != 0 {
		t.Fatalf("delete should remove the selection")
	}
	if len(ed.Selection()) != 0 {
		t.Fatalf("selection should be cleared")
	}
	if !ed.Undo() {
		t.Fatalf("batched delete should be a single committed entry")
	}
	if len(ed.Document().Objects) != 2 {
		t.Fatalf("undo should restore both objects")
	}

	// Backspace is an alias; key release does nothing.
	ed.SetSelection([]string{"r1"})
	m.Key(KeyBackspace, false, 0)
	if _, ok := ed.Object("r1"); !ok {
		t.Fatalf("key release must not delete")
	}
	m.Key(KeyBackspace, true, 0)
	if _, ok := ed.Object("r1"); ok {
		t.Fatalf("backspace should delete the selection")
	}
}

func TestSpaceHeldPanInSelectTool(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	m.Key(KeySpace, true, 0)
	if got := m.Cursor(150, 150); got != "grab" {
		t.Fatalf("cursor with space held = %q, want grab", got)
	}
	m.PointerDown(150, 150, 0) // over the object, but space forces a pan
	m.PointerMove(200, 180, 0)
	if got := m.Cursor(200, 180); got != "grabbing" {
		t.Fatalf("cursor while panning = %q, want grabbing", got)
	}
	m.PointerUp(200, 180, 0)
	m.Key(KeySpace, false, 0)

	v := m.Viewport()
	if !near(v.PanX, 50) || !near(v.PanY, 30) {
		t.Fatalf("pan = (%v,%v), want (50,30)", v.PanX, v.PanY)
	}
	o, _ := ed.Object("r1")
	if o.Transform.X != 100 {
		t.Fatalf("panning must not move objects")
	}
	if ed.CanUndo() {
		t.Fatalf("panning must not commit")
	}
}

func TestPanToolDragAndZoom(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))
	m.SetTool(ToolPan)

	m.PointerDown(400, 400, 0)
	m.PointerMove(460, 430, 0)
	m.PointerUp(460, 430, 0)
	v := m.Viewport()
	if !near(v.PanX, 60) || !near(v.PanY, 30) {
		t.Fatalf("pan = (%v,%v), want (60,30)", v.PanX, v.PanY)
	}
	if ed.CanUndo() {
		t.Fatalf("pan tool never commits")
	}

	// Wheel zooms by the configured step, keeping the point under the cursor
	// fixed.
	anchorDev := geom.Pt{X: 300, Y: 300}
	before := m.Space().DeviceToLogical(anchorDev)
	m.Wheel(anchorDev.X, anchorDev.Y, 1, 0)
	if !near(m.Viewport().Zoom, 1.1) {
		t.Fatalf("zoom = %v, want 1.1", m.Viewport().Zoom)
	}
	after := m.Space().DeviceToLogical(anchorDev)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Fatalf("zoom anchor drifted: %+v vs %+v", before, after)
	}
	m.Wheel(anchorDev.X, anchorDev.Y, -1, 0)
	if !near(m.Viewport().Zoom, 1.0) {
		t.Fatalf("zoom after out = %v, want 1.0", m.Viewport().Zoom)
	}

	if got := m.Cursor(100, 100); got != "grab" {
		t.Fatalf("pan tool idle cursor = %q, want grab", got)
	}
}

func TestSmartGuidesDuringDrag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapEnabled = true
	ed, m := newFixture(cfg, rect("r1", 100, 100, 100, 100, 0), rect("r2", 300, 400, 50, 50, 1))

	m.PointerDown(150, 150, 0)
	m.PointerMove(346, 150, 0) // left edge lands at 296, within 6 of r2's 300

	o, _ := ed.Object("r1")
	if o.Transform.X != 300 {
		t.Fatalf("snapped X = %v, want 300", o.Transform.X)
	}
	guides := m.Guides()
	if len(guides) == 0 {
		t.Fatalf("expected smart guides while snapped")
	}
	if guides[0].Orientation != geom.GuideVertical || guides[0].Position != 300 {
		t.Fatalf("guide = %+v", guides[0])
	}

	m.PointerUp(346, 150, 0)
	if len(m.Guides()) != 0 {
		t.Fatalf("guides should clear at gesture end")
	}
}

func TestManagerCursorHints(t *testing.T) {
	ed, m := newFixture(DefaultConfig(), rect("r1", 100, 100, 100, 100, 0))

	if got := m.Cursor(150, 150); got != "move" {
		t.Fatalf("over object = %q, want move", got)
	}
	if got := m.Cursor(700, 700); got != "default" {
		t.Fatalf("over background = %q, want default", got)
	}
	ed.SetSelection([]string{"r1"})
	if got := m.Cursor(200, 200); got != "nwse-resize" {
		t.Fatalf("over SE handle = %q, want nwse-resize", got)
	}
	if got := m.Cursor(150, 76); got != "grab" {
		t.Fatalf("over rotate anchor = %q, want grab", got)
	}
}
