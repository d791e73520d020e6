/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"strings"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/hittest"
)

// SelectTool implements selection, drag, resize and rotate gestures, plus a
// temporary click-drag pan while the space key is held.
//
// State machine: idle -> pending -> {dragging | resizing | rotating} -> idle,
// with panning as an orthogonal sub-mode entered from idle while space is
// held. Every gesture issues silent updates on pointer moves and exactly one
// commit on pointer up; N move events never produce more than one history
// entry.
type SelectTool struct {
	canvas Canvas
	space  *geom.Space
	tester *hittest.Tester
	cfg    Config

	gesture   gestureKind
	pending   pendingState
	drag      dragState
	resize    resizeState
	rotate    rotateState
	pan       panState
	spaceHeld bool

	// guides holds the smart-guide lines of the latest drag frame for the
	// frontend to render.
	guides []geom.GuideLine
}

// NewSelectTool wires a select tool over the canvas, coordinate space and hit
// tester.
func NewSelectTool(canvas Canvas, space *geom.Space, tester *hittest.Tester, cfg Config) *SelectTool {
	return &SelectTool{canvas: canvas, space: space, tester: tester, cfg: cfg}
}

// Guides returns the smart-guide lines produced by the current drag frame.
func (t *SelectTool) Guides() []geom.GuideLine { return t.guides }

// Activate implements Tool.
func (t *SelectTool) Activate() {}

// Deactivate force-terminates any in-progress gesture, restoring the
// gesture-start state silently. No history entry is written.
func (t *SelectTool) Deactivate() {
	t.cancelGesture()
	t.spaceHeld = false
}

// OnPointerDown starts a gesture depending on what is under the pointer.
func (t *SelectTool) OnPointerDown(ev PointerEvent) {
	if t.gesture != gestureNone {
		// A second pointer-down mid-gesture means we lost the matching up
		// event; drop the stale gesture first.
		t.cancelGesture()
	}
	if t.spaceHeld {
		t.beginPan(ev)
		return
	}

	switch res := t.tester.HitTest(ev.Logical); res.Kind {
	case hittest.HitHandle:
		t.beginHandleGesture(res.Handle, ev)
	case hittest.HitObject:
		t.beginObjectGesture(res.ObjectID, ev)
	default:
		// Background: unmodified click clears the selection; shift keeps it
		// so ongoing multi-select toggling is not lost.
		if !ev.Mod.Shift() {
			t.canvas.SetSelection(nil)
		}
	}
}

// beginHandleGesture enters resizing or rotating. The geometry is driven by
// the first selected object's own bounds and rotation, also for multi-object
// selections.
func (t *SelectTool) beginHandleGesture(h hittest.HandleType, ev PointerEvent) {
	sel := t.canvas.Selection()
	if len(sel) == 0 {
		return
	}
	id := sel[0]
	o, ok := t.canvas.Object(id)
	if !ok || o.Locked {
		return
	}
	box, ok := t.canvas.ObjectBounds(id)
	if !ok || box.Empty() {
		return
	}
	if h == hittest.HandleRotate {
		center := box.Center()
		t.rotate = rotateState{
			id:         id,
			center:     center,
			startAngle: geom.AngleDeg(center, ev.Logical),
			origT:      o.Transform,
		}
		t.gesture = gestureRotating
		return
	}
	t.resize = resizeState{
		id:         id,
		handle:     h,
		start:      ev.Logical,
		origBounds: box,
		origT:      o.Transform,
	}
	t.gesture = gestureResizing
}

// beginObjectGesture updates the selection and arms a pending drag. Entry
// into dragging is deferred until the pointer crosses the drag threshold.
func (t *SelectTool) beginObjectGesture(id string, ev PointerEvent) {
	sel := t.canvas.Selection()
	selected := false
	for _, s := range sel {
		if s == id {
			selected = true
			break
		}
	}
	switch {
	case ev.Mod.Shift():
		if selected {
			next := make([]string, 0, len(sel)-1)
			for _, s := range sel {
				if s != id {
					next = append(next, s)
				}
			}
			t.canvas.SetSelection(next)
		} else {
			t.canvas.SetSelection(append(append([]string(nil), sel...), id))
		}
	case !selected:
		t.canvas.SetSelection([]string{id})
	}
	t.pending = pendingState{downDevice: ev.Device, downLogical: ev.Logical}
	t.gesture = gesturePending
}

// beginPan starts the temporary space-held pan.
func (t *SelectTool) beginPan(ev PointerEvent) {
	t.pan = panState{downDevice: ev.Device, panX: t.space.View.PanX, panY: t.space.View.PanY}
	t.gesture = gesturePanning
}

// OnPointerMove advances the active gesture. All mutations here are silent.
func (t *SelectTool) OnPointerMove(ev PointerEvent) {
	switch t.gesture {
	case gesturePending:
		if geom.Dist(ev.Device, t.pending.downDevice) < t.cfg.DragThreshold {
			return
		}
		t.promoteToDrag()
		t.applyDrag(ev)
	case gestureDragging:
		t.applyDrag(ev)
	case gestureResizing:
		t.applyResize(ev)
	case gestureRotating:
		t.applyRotate(ev)
	case gesturePanning:
		t.applyPan(ev)
	}
}

// promoteToDrag captures every selected object's transform at gesture start.
// Locked objects stay selected but are excluded from the drag set.
func (t *SelectTool) promoteToDrag() {
	sel := t.canvas.Selection()
	ds := dragState{start: t.pending.downLogical}
	for _, id := range sel {
		o, ok := t.canvas.Object(id)
		if !ok || o.Locked {
			continue
		}
		ds.ids = append(ds.ids, id)
		ds.startTs = append(ds.startTs, o.Transform)
	}
	if box, _, ok := t.canvas.SelectionBounds(); ok {
		ds.startBounds = box
		ds.hasBounds = true
	}
	if t.cfg.SnapEnabled && ds.hasBounds {
		ds.anchors = t.snapAnchors(sel)
	}
	t.drag = ds
	t.gesture = gestureDragging
}

// snapAnchors collects the boxes of all visible, non-selected objects once
// per gesture so pointer moves stay allocation-light.
func (t *SelectTool) snapAnchors(sel []string) []geom.Rect {
	selSet := make(map[string]bool, len(sel))
	for _, id := range sel {
		selSet[id] = true
	}
	var anchors []geom.Rect
	for _, o := range t.canvas.TopDown() {
		if !o.Visible || selSet[o.ID] {
			continue
		}
		if b, ok := t.canvas.ObjectBounds(o.ID); ok && !b.Empty() {
			anchors = append(anchors, b)
		}
	}
	return anchors
}

func (t *SelectTool) applyDrag(ev PointerEvent) {
	delta := ev.Logical.Sub(t.drag.start)
	if t.cfg.SnapEnabled && t.drag.hasBounds {
		moving := t.drag.startBounds
		moving.X += delta.X
		moving.Y += delta.Y
		snapped, guides := geom.Snap(moving, t.drag.anchors, t.cfg.Snap)
		delta.X += snapped.X - moving.X
		delta.Y += snapped.Y - moving.Y
		t.guides = guides
	}
	for i, id := range t.drag.ids {
		// An object may vanish mid-gesture through an external removal;
		// abort the rest of the gesture rather than erroring.
		if _, ok := t.canvas.Object(id); !ok {
			t.cancelGesture()
			return
		}
		nt := t.drag.startTs[i]
		nt.X += delta.X
		nt.Y += delta.Y
		t.canvas.UpdateTransformSilent(id, nt)
	}
	if delta.X != 0 || delta.Y != 0 {
		t.drag.moved = true
	}
}

func (t *SelectTool) applyResize(ev PointerEvent) {
	rs := &t.resize
	if _, ok := t.canvas.Object(rs.id); !ok {
		t.cancelGesture()
		return
	}
	// Rotate the pointer delta into the object's local frame.
	delta := ev.Logical.Sub(rs.start)
	d := geom.RotateAround(delta, geom.Pt{}, -rs.origT.Rotation)

	b := rs.origBounds
	x0, y0 := b.X, b.Y
	x1, y1 := b.X+b.W, b.Y+b.H
	h := string(rs.handle)
	if strings.Contains(h, "n") {
		y0 += d.Y
	}
	if strings.Contains(h, "s") {
		y1 += d.Y
	}
	if strings.Contains(h, "w") {
		x0 += d.X
	}
	if strings.Contains(h, "e") {
		x1 += d.X
	}

	newW, newH := x1-x0, y1-y0

	// Shift on a corner handle preserves the original aspect ratio: the
	// dimension that changed more wins and re-derives the other, adjusting
	// the moved edge's position.
	if ev.Mod.Shift() && isCorner(rs.handle) && b.W > 0 && b.H > 0 {
		rw := newW/b.W - 1
		rh := newH/b.H - 1
		if abs(rw) >= abs(rh) {
			newH = newW * b.H / b.W
			if strings.Contains(h, "n") {
				y0 = y1 - newH
			} else {
				y1 = y0 + newH
			}
		} else {
			newW = newH * b.W / b.H
			if strings.Contains(h, "w") {
				x0 = x1 - newW
			} else {
				x1 = x0 + newW
			}
		}
	}

	// Enforce the minimum size last, moving the dragged edge back; the floor
	// wins over the aspect lock, so a re-derived dimension can never collapse
	// below it.
	minSize := t.cfg.MinObjectSize
	if x1-x0 < minSize {
		if strings.Contains(h, "w") {
			x0 = x1 - minSize
		} else {
			x1 = x0 + minSize
		}
	}
	if y1-y0 < minSize {
		if strings.Contains(h, "n") {
			y0 = y1 - minSize
		} else {
			y1 = y0 + minSize
		}
	}
	newW, newH = x1-x0, y1-y0

	ratioW, ratioH := 1.0, 1.0
	if b.W > 0 {
		ratioW = newW / b.W
	}
	if b.H > 0 {
		ratioH = newH / b.H
	}

	// Scale factors multiply into the original scale; the anchor position is
	// recomputed by scaling its original offset from the box origin, which
	// keeps center-anchored kinds (circles, ellipses) in place.
	nt := rs.origT
	nt.ScaleX = rs.origT.ScaleX * ratioW
	nt.ScaleY = rs.origT.ScaleY * ratioH
	nt.X = x0 + (rs.origT.X-b.X)*ratioW
	nt.Y = y0 + (rs.origT.Y-b.Y)*ratioH

	t.canvas.UpdateTransformSilent(rs.id, nt)
	rs.moved = true
}

func (t *SelectTool) applyRotate(ev PointerEvent) {
	rt := &t.rotate
	o, ok := t.canvas.Object(rt.id)
	if !ok {
		t.cancelGesture()
		return
	}
	angle := geom.AngleDeg(rt.center, ev.Logical)
	rotation := rt.origT.Rotation + (angle - rt.startAngle)
	if ev.Mod.Ctrl() {
		rotation = geom.SnapDeg(rotation, t.cfg.RotateSnap)
	} else {
		rotation = geom.NormalizeDeg(rotation)
	}
	nt := o.Transform
	nt.Rotation = rotation
	t.canvas.UpdateTransformSilent(rt.id, nt)
	rt.moved = true
}

func (t *SelectTool) applyPan(ev PointerEvent) {
	perDevice := t.space.DistanceToLogical(1)
	t.space.View.PanX = t.pan.panX + (ev.Device.X-t.pan.downDevice.X)*perDevice
	t.space.View.PanY = t.pan.panY + (ev.Device.Y-t.pan.downDevice.Y)*perDevice
}

// OnPointerUp ends the gesture. Drags, resizes and rotations that changed
// anything commit exactly one history entry; everything else commits nothing.
func (t *SelectTool) OnPointerUp(PointerEvent) {
	switch t.gesture {
	case gestureDragging:
		if t.drag.moved {
			t.canvas.Commit()
		}
	case gestureResizing:
		if t.resize.moved {
			t.canvas.Commit()
		}
	case gestureRotating:
		if t.rotate.moved {
			t.canvas.Commit()
		}
	}
	t.reset()
}

// OnKey handles deletion, escape, and the space pan modifier.
func (t *SelectTool) OnKey(ev KeyEvent) {
	switch ev.Key {
	case KeySpace:
		if ev.Down {
			t.spaceHeld = true
		} else {
			t.spaceHeld = false
			if t.gesture == gesturePanning {
				t.reset()
			}
		}
	case KeyDelete, KeyBackspace:
		if !ev.Down {
			return
		}
		t.deleteSelection()
	case KeyEscape:
		if !ev.Down {
			return
		}
		if t.gesture != gestureNone {
			t.cancelGesture()
			return
		}
		t.canvas.SetSelection(nil)
	}
}

// deleteSelection removes every selected unlocked object, batched under a
// single history commit, and clears the selection.
func (t *SelectTool) deleteSelection() {
	sel := t.canvas.Selection()
	if len(sel) == 0 {
		return
	}
	removed := 0
	for _, id := range sel {
		if o, ok := t.canvas.Object(id); !ok || o.Locked {
			continue
		}
		if t.canvas.RemoveObject(id) {
			removed++
		}
	}
	t.canvas.SetSelection(nil)
	if removed > 0 {
		t.canvas.Commit()
	}
}

// OnWheel is not handled by the select tool; zooming belongs to the pan tool
// and the hosting container.
func (t *SelectTool) OnWheel(WheelEvent) {}

// Cursor reports the hint for the pointer position: grab cursors while
// panning, handle cursors over handles, move over objects.
func (t *SelectTool) Cursor(p geom.Pt) string {
	if t.gesture == gesturePanning {
		return "grabbing"
	}
	if t.spaceHeld {
		return "grab"
	}
	return t.tester.CursorAt(p)
}

// cancelGesture restores the gesture-start state silently and discards the
// ephemeral gesture state. No history entry is written.
func (t *SelectTool) cancelGesture() {
	switch t.gesture {
	case gestureDragging:
		for i, id := range t.drag.ids {
			if _, ok := t.canvas.Object(id); ok {
				t.canvas.UpdateTransformSilent(id, t.drag.startTs[i])
			}
		}
	case gestureResizing:
		if _, ok := t.canvas.Object(t.resize.id); ok {
			t.canvas.UpdateTransformSilent(t.resize.id, t.resize.origT)
		}
	case gestureRotating:
		if _, ok := t.canvas.Object(t.rotate.id); ok {
			t.canvas.UpdateTransformSilent(t.rotate.id, t.rotate.origT)
		}
	}
	t.reset()
}

// reset atomically clears all ephemeral gesture state.
func (t *SelectTool) reset() {
	t.gesture = gestureNone
	t.pending = pendingState{}
	t.drag = dragState{}
	t.resize = resizeState{}
	t.rotate = rotateState{}
	t.pan = panState{}
	t.guides = nil
}

func isCorner(h hittest.HandleType) bool {
	switch h {
	case hittest.HandleNW, hittest.HandleNE, hittest.HandleSW, hittest.HandleSE:
		return true
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
