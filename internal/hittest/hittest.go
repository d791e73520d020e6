/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package hittest resolves logical-space points to what sits under them:
// a selection handle, a graphical object, or empty background. Rotated
// objects are tested by rotating the point into the object's local frame
// rather than rotating the box.
package hittest

import (
	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
)

// DefaultHandleSize is the visual edge length of a handle in device pixels.
// The hit radius is 1.5 times this, converted to logical units.
const DefaultHandleSize = 8.0

// DefaultRotateOffset is the device-space distance of the rotate anchor above
// the selection box's top edge.
const DefaultRotateOffset = 24.0

// Scene is the read-only object and selection query surface the tester needs.
// *scene.Document satisfies it via the editor.
type Scene interface {
	// TopDown returns objects in descending zIndex order (topmost first).
	TopDown() []*scene.Object
	// ObjectBounds returns the local-frame box of the object, resolving
	// group boxes through the composing layer's union callback.
	ObjectBounds(id string) (geom.Rect, bool)
	// SelectionBounds returns the combined selection box and its rotation.
	SelectionBounds() (geom.Rect, float64, bool)
}

// ResultKind discriminates hit-test outcomes.
type ResultKind int

const (
	HitBackground ResultKind = iota
	HitObject
	HitHandle
)

// Result describes what a logical point resolved to.
type Result struct {
	Kind     ResultKind
	ObjectID string     // set for HitObject
	Handle   HandleType // set for HitHandle
}

// Tester performs hit tests against a scene under a coordinate space. The
// space supplies the device-to-logical distance conversion for handle radii.
type Tester struct {
	Space        *geom.Space
	Scene        Scene
	HandleSize   float64 // device px; zero means DefaultHandleSize
	RotateOffset float64 // device px; zero means DefaultRotateOffset
}

// NewTester wires a tester over a space and scene with default handle sizing.
func NewTester(space *geom.Space, sc Scene) *Tester {
	return &Tester{Space: space, Scene: sc, HandleSize: DefaultHandleSize, RotateOffset: DefaultRotateOffset}
}

func (t *Tester) handleSize() float64 {
	if t.HandleSize > 0 {
		return t.HandleSize
	}
	return DefaultHandleSize
}

// RotateOffsetLogical returns the rotate-anchor offset in logical units.
func (t *Tester) RotateOffsetLogical() float64 {
	off := t.RotateOffset
	if off <= 0 {
		off = DefaultRotateOffset
	}
	return t.Space.DistanceToLogical(off)
}

// HitTest resolves a logical-space point. Handles win over objects; the
// rotate handle is tested before the resize handles since it sits outside
// the box. Objects are tested topmost-first; invisible objects are skipped.
// Locked objects remain hit-testable so they can be selected; tools are
// responsible for refusing to mutate them.
func (t *Tester) HitTest(p geom.Pt) Result {
	if h, ok := t.hitHandle(p); ok {
		return Result{Kind: HitHandle, Handle: h}
	}
	for _, o := range t.Scene.TopDown() {
		if !o.Visible {
			continue
		}
		box, ok := t.Scene.ObjectBounds(o.ID)
		if !ok || box.Empty() {
			continue
		}
		// Rotate the point into the object's local frame.
		local := geom.RotateAround(p, box.Center(), -o.Transform.Rotation)
		if box.Contains(local) {
			return Result{Kind: HitObject, ObjectID: o.ID}
		}
	}
	return Result{Kind: HitBackground}
}

// hitHandle tests the point against the nine handle anchors of the current
// selection box, in the box's local (unrotated) frame.
func (t *Tester) hitHandle(p geom.Pt) (HandleType, bool) {
	box, rotation, ok := t.Scene.SelectionBounds()
	if !ok || box.Empty() {
		return "", false
	}
	local := geom.RotateAround(p, box.Center(), -rotation)
	radius := t.Space.DistanceToLogical(t.handleSize() * 1.5)
	r2 := radius * radius
	anchors := Handles(box, t.RotateOffsetLogical())
	for _, a := range anchors {
		if geom.DistSq(local, a.Point) <= r2 {
			return a.Handle, true
		}
	}
	return "", false
}

// HandleAnchors exposes the current selection's handle anchor points (local
// frame) for rendering, along with the selection rotation. ok is false with
// no selection box.
func (t *Tester) HandleAnchors() ([9]Anchor, float64, bool) {
	box, rotation, ok := t.Scene.SelectionBounds()
	if !ok || box.Empty() {
		return [9]Anchor{}, 0, false
	}
	return Handles(box, t.RotateOffsetLogical()), rotation, true
}

// CursorAt returns the cursor hint for the given logical point: handle
// cursors over handles, "move" over objects, "default" over background.
func (t *Tester) CursorAt(p geom.Pt) string {
	res := t.HitTest(p)
	switch res.Kind {
	case HitHandle:
		_, rotation, _ := t.Scene.SelectionBounds()
		return CursorFor(res.Handle, rotation)
	case HitObject:
		return "move"
	default:
		return "default"
	}
}
