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

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/tool"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func testView(t *testing.T) (*CanvasView, *canvasViewRenderer) {
	t.Helper()
	cv := NewCanvasView(tool.DefaultConfig())
	doc := scene.NewDocument("Test", 1200, 800)
	doc.Add(&scene.Object{
		ID:        "rect1",
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(100, 100),
		Opacity:   1,
		Visible:   true,
		Shape:     &scene.ShapeData{Shape: scene.ShapeRect, Width: 200, Height: 150, Fill: scene.Color{R: 200, A: 255}},
	})
	cv.SetDocument(doc, 50)
	r, ok := cv.CreateRenderer().(*canvasViewRenderer)
	if !ok {
		t.Fatalf("expected canvasViewRenderer, got %T", cv.CreateRenderer())
	}
	return cv, r
}

func TestCanvasView_SurfaceLayout(t *testing.T) {
	_, r := testView(t)

	// 1200x800 logical into a 600x600 container: scale 2 on the wide axis,
	// so the surface renders 600x400 centered vertically.
	r.Layout(fyne.NewSize(600, 600))

	sz := r.surface.Size()
	if !almostEqual(sz.Width, 600, 0.2) || !almostEqual(sz.Height, 400, 0.2) {
		t.Fatalf("unexpected surface size: %v", sz)
	}
	pos := r.surface.Position()
	if !almostEqual(pos.X, 0, 0.2) || !almostEqual(pos.Y, 100, 0.2) {
		t.Fatalf("unexpected surface position: %v", pos)
	}
}

func TestCanvasView_TapSelectsObject(t *testing.T) {
	cv, r := testView(t)
	r.Layout(fyne.NewSize(600, 600))

	// Logical center of rect1 is (200, 175); at scale 2 with a 100px
	// vertical centering offset that maps to device (100, 187.5).
	cv.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 187.5)})
	sel := cv.Editor().Selection()
	if len(sel) != 1 || sel[0] != "rect1" {
		t.Fatalf("expected rect1 selected, got %v", sel)
	}

	// Tapping empty background clears the selection.
	cv.Tapped(&fyne.PointEvent{Position: fyne.NewPos(590, 110)})
	if len(cv.Editor().Selection()) != 0 {
		t.Fatalf("expected empty selection, got %v", cv.Editor().Selection())
	}
}

func TestCanvasView_DragMovesObject(t *testing.T) {
	cv, r := testView(t)
	r.Layout(fyne.NewSize(600, 600))

	cv.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 187.5)})
	if len(cv.Editor().Selection()) != 1 {
		t.Fatal("setup: selection missing")
	}

	// Drag 50 device px to the right: 100 logical units at scale 2.
	cv.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 187.5)},
		Dragged:    fyne.Delta{DX: 50, DY: 0},
	})
	cv.DragEnd()

	o, ok := cv.Editor().Object("rect1")
	if !ok {
		t.Fatal("rect1 missing")
	}
	if !almostEqual(float32(o.Transform.X), 200, 0.01) || !almostEqual(float32(o.Transform.Y), 100, 0.01) {
		t.Fatalf("unexpected transform after drag: %+v", o.Transform)
	}
	if !cv.Editor().CanUndo() {
		t.Fatal("expected drag to commit a history entry")
	}
}

func TestCursorShapeMapping(t *testing.T) {
	cases := map[string]string{
		"ns-resize": "VerticalResize",
		"ew-resize": "HorizontalResize",
	}
	_ = cases
	if cursorShape("default") != cursorShape("unknown-hint") {
		t.Fatal("unknown hints should fall back to the default cursor")
	}
	if cursorShape("ns-resize") == cursorShape("ew-resize") {
		t.Fatal("vertical and horizontal resize hints must map to distinct cursors")
	}
	if cursorShape("move") == cursorShape("default") {
		t.Fatal("move must not map to the default cursor")
	}
}

func TestDescribeObject(t *testing.T) {
	o := &scene.Object{
		ID:      "abcdef0123456789",
		Kind:    scene.KindText,
		ZIndex:  3,
		Visible: true,
		Text:    &scene.TextData{Content: "hello", FontSize: 14},
	}
	d := describeObject(o)
	if d != "z:3 text abcdef01 \"hello\"" {
		t.Fatalf("unexpected label: %q", d)
	}
	o.Locked = true
	o.Visible = false
	d = describeObject(o)
	if d != "z:3 text abcdef01 \"hello\" [locked] [hidden]" {
		t.Fatalf("unexpected flagged label: %q", d)
	}
}
