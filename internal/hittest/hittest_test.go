/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package hittest

import (
	"testing"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
)

// identitySpace maps device and logical 1:1 so handle radii are easy to reason
// about (hit radius = 8 * 1.5 = 12 logical units).
func identitySpace() *geom.Space {
	return geom.NewSpace(geom.R(0, 0, 1200, 800), geom.Size{W: 1200, H: 800})
}

func addRect(d *scene.Document, id string, x, y, w, h float64, z int) *scene.Object {
	o := &scene.Object{
		ID:        id,
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(x, y),
		Opacity:   1,
		Visible:   true,
		ZIndex:    z,
		Shape:     &scene.ShapeData{Shape: scene.ShapeRect, Width: w, Height: h},
	}
	d.Add(o)
	return o
}

func newTestScene() (*scene.Document, *Tester) {
	d := scene.NewDocument("t", 1200, 800)
	return d, NewTester(identitySpace(), d)
}

func TestHitObjectTopmostFirst(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "below", 100, 100, 100, 100, 0)
	addRect(d, "above", 150, 150, 100, 100, 1)

	res := ht.HitTest(geom.Pt{X: 175, Y: 175}) // overlap region
	if res.Kind != HitObject || res.ObjectID != "above" {
		t.Fatalf("overlap hit = %+v, want above", res)
	}
	res = ht.HitTest(geom.Pt{X: 110, Y: 110})
	if res.Kind != HitObject || res.ObjectID != "below" {
		t.Fatalf("non-overlap hit = %+v, want below", res)
	}
	res = ht.HitTest(geom.Pt{X: 500, Y: 500})
	if res.Kind != HitBackground {
		t.Fatalf("background hit = %+v", res)
	}
}

func TestHitSkipsInvisibleKeepsLocked(t *testing.T) {
	d, ht := newTestScene()
	hidden := addRect(d, "hidden", 100, 100, 100, 100, 1)
	hidden.Visible = false
	locked := addRect(d, "locked", 100, 100, 100, 100, 0)
	locked.Locked = true

	res := ht.HitTest(geom.Pt{X: 150, Y: 150})
	if res.Kind != HitObject || res.ObjectID != "locked" {
		t.Fatalf("hit = %+v, want locked object underneath the hidden one", res)
	}
}

func TestHitRotatedObject(t *testing.T) {
	d, ht := newTestScene()
	o := addRect(d, "r", 100, 100, 100, 100, 0)
	o.Transform.Rotation = 45

	// Below the box center along the rotated diagonal: outside the unrotated
	// box but inside the rotated one.
	res := ht.HitTest(geom.Pt{X: 150, Y: 215})
	if res.Kind != HitObject || res.ObjectID != "r" {
		t.Fatalf("rotated diagonal point = %+v, want hit", res)
	}
	// The unrotated corner region is vacated by the rotation.
	res = ht.HitTest(geom.Pt{X: 102, Y: 102})
	if res.Kind != HitBackground {
		t.Fatalf("vacated corner = %+v, want background", res)
	}
}

func TestHandlesWinOverObjects(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "r", 100, 100, 100, 100, 0)
	d.SetSelection([]string{"r"})

	res := ht.HitTest(geom.Pt{X: 200, Y: 200}) // SE corner, inside the object too
	if res.Kind != HitHandle || res.Handle != HandleSE {
		t.Fatalf("SE corner = %+v, want SE handle", res)
	}
	res = ht.HitTest(geom.Pt{X: 150, Y: 100})
	if res.Kind != HitHandle || res.Handle != HandleN {
		t.Fatalf("top mid = %+v, want N handle", res)
	}
	// Rotate anchor sits 24 device px above the top edge.
	res = ht.HitTest(geom.Pt{X: 150, Y: 76})
	if res.Kind != HitHandle || res.Handle != HandleRotate {
		t.Fatalf("rotate anchor = %+v, want rotate handle", res)
	}
	// Center of the box is away from all handles.
	res = ht.HitTest(geom.Pt{X: 150, Y: 150})
	if res.Kind != HitObject {
		t.Fatalf("box center = %+v, want object", res)
	}
}

func TestRotateHandleTestedBeforeResize(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "r", 100, 100, 100, 100, 0)
	d.SetSelection([]string{"r"})

	// Equidistant (12 units) between the rotate anchor at y=76 and the N
	// handle at y=100: the rotate handle is tested first and wins.
	res := ht.HitTest(geom.Pt{X: 150, Y: 88})
	if res.Kind != HitHandle || res.Handle != HandleRotate {
		t.Fatalf("equidistant point = %+v, want rotate handle", res)
	}
}

func TestHandleRadiusScalesWithZoom(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "r", 100, 100, 100, 100, 0)
	d.SetSelection([]string{"r"})

	// 11 logical units from the SE anchor: inside the 12-unit radius at zoom 1.
	probe := geom.Pt{X: 211, Y: 200}
	if res := ht.HitTest(probe); res.Kind != HitHandle {
		t.Fatalf("at zoom 1: %+v, want handle", res)
	}
	// At zoom 2 the logical radius halves to 6 units and the probe misses.
	ht.Space.View.Zoom = 2
	if res := ht.HitTest(probe); res.Kind == HitHandle {
		t.Fatalf("at zoom 2 the probe should fall outside the handle radius")
	}
}

func TestHandleAnchorsLayout(t *testing.T) {
	anchors := Handles(geom.R(100, 100, 100, 100), 24)
	if anchors[0].Handle != HandleRotate {
		t.Fatalf("rotate anchor must come first, got %v", anchors[0].Handle)
	}
	if anchors[0].Point != (geom.Pt{X: 150, Y: 76}) {
		t.Fatalf("rotate anchor = %+v", anchors[0].Point)
	}
	want := map[HandleType]geom.Pt{
		HandleNW: {X: 100, Y: 100}, HandleN: {X: 150, Y: 100}, HandleNE: {X: 200, Y: 100},
		HandleW: {X: 100, Y: 150}, HandleE: {X: 200, Y: 150},
		HandleSW: {X: 100, Y: 200}, HandleS: {X: 150, Y: 200}, HandleSE: {X: 200, Y: 200},
	}
	for _, a := range anchors[1:] {
		if a.Point != want[a.Handle] {
			t.Fatalf("anchor %v = %+v, want %+v", a.Handle, a.Point, want[a.Handle])
		}
	}
	if got := AnchorFor(geom.R(100, 100, 100, 100), HandleSE, 24); got != (geom.Pt{X: 200, Y: 200}) {
		t.Fatalf("AnchorFor SE = %+v", got)
	}
}

func TestHandleAnchorsRequireSelection(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "r", 100, 100, 100, 100, 0)
	if _, _, ok := ht.HandleAnchors(); ok {
		t.Fatalf("no selection, no anchors")
	}
	d.SetSelection([]string{"r"})
	anchors, rotation, ok := ht.HandleAnchors()
	if !ok || rotation != 0 {
		t.Fatalf("anchors ok=%v rotation=%v", ok, rotation)
	}
	if anchors[0].Handle != HandleRotate {
		t.Fatalf("first anchor = %v", anchors[0].Handle)
	}
}

func TestCursorForRotationCycle(t *testing.T) {
	cases := []struct {
		h    HandleType
		deg  float64
		want string
	}{
		{HandleN, 0, "ns-resize"},
		{HandleS, 0, "ns-resize"},
		{HandleE, 0, "ew-resize"},
		{HandleSE, 0, "nwse-resize"},
		{HandleNE, 0, "nesw-resize"},
		{HandleN, 90, "ew-resize"},
		{HandleN, 45, "nesw-resize"},
		{HandleN, -90, "ew-resize"},
		{HandleSE, 90, "nesw-resize"},
		{HandleRotate, 123, "grab"},
	}
	for _, c := range cases {
		if got := CursorFor(c.h, c.deg); got != c.want {
			t.Fatalf("CursorFor(%v, %v) = %q, want %q", c.h, c.deg, got, c.want)
		}
	}
}

func TestCursorAt(t *testing.T) {
	d, ht := newTestScene()
	addRect(d, "r", 100, 100, 100, 100, 0)

	if got := ht.CursorAt(geom.Pt{X: 150, Y: 150}); got != "move" {
		t.Fatalf("over object = %q, want move", got)
	}
	if got := ht.CursorAt(geom.Pt{X: 600, Y: 600}); got != "default" {
		t.Fatalf("over background = %q, want default", got)
	}
	d.SetSelection([]string{"r"})
	if got := ht.CursorAt(geom.Pt{X: 200, Y: 200}); got != "nwse-resize" {
		t.Fatalf("over SE handle = %q, want nwse-resize", got)
	}
	if got := ht.CursorAt(geom.Pt{X: 150, Y: 76}); got != "grab" {
		t.Fatalf("over rotate anchor = %q, want grab", got)
	}
}
