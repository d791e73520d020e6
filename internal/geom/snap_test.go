/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestSnapEdgeAlignment(t *testing.T) {
	opts := SnapOptions{Threshold: 6, SnapToEdges: true}
	anchors := []Rect{R(100, 100, 50, 50)}

	// Left edge 4 units away from the anchor's left edge snaps onto it.
	snapped, guides := Snap(R(104, 300, 40, 40), anchors, opts)
	if snapped.X != 100 {
		t.Fatalf("snapped.X = %v, want 100", snapped.X)
	}
	if snapped.Y != 300 {
		t.Fatalf("Y should be untouched, got %v", snapped.Y)
	}
	if len(guides) != 1 {
		t.Fatalf("expected one guide, got %d", len(guides))
	}
	g := guides[0]
	if g.Orientation != GuideVertical || g.Kind != "edge" || g.Position != 100 {
		t.Fatalf("unexpected guide %+v", g)
	}
	// The guide spans both rects vertically.
	if g.From.Y != 100 || g.To.Y != 340 {
		t.Fatalf("guide extent %v..%v", g.From.Y, g.To.Y)
	}
}

func TestSnapCenterAlignment(t *testing.T) {
	opts := SnapOptions{Threshold: 6, SnapToCenters: true}
	anchors := []Rect{R(100, 100, 50, 50)} // center (125,125)

	snapped, guides := Snap(R(200, 102, 50, 40), anchors, opts) // cy = 122
	if snapped.Y != 105 {
		t.Fatalf("snapped.Y = %v, want 105 (centers aligned)", snapped.Y)
	}
	if len(guides) != 1 || guides[0].Orientation != GuideHorizontal || guides[0].Kind != "center" {
		t.Fatalf("unexpected guides %+v", guides)
	}
}

func TestSnapBothAxesIndependently(t *testing.T) {
	opts := SnapOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true}
	anchors := []Rect{R(100, 100, 50, 50)}

	snapped, guides := Snap(R(103, 153, 50, 50), anchors, opts)
	if snapped.X != 100 {
		t.Fatalf("snapped.X = %v, want 100", snapped.X)
	}
	if snapped.Y != 150 {
		t.Fatalf("snapped.Y = %v, want 150 (top to anchor bottom)", snapped.Y)
	}
	if len(guides) != 2 {
		t.Fatalf("expected guides on both axes, got %d", len(guides))
	}
}

func TestSnapOutsideThresholdNoChange(t *testing.T) {
	opts := SnapOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true}
	moving := R(120, 320, 40, 40)
	snapped, guides := Snap(moving, []Rect{R(100, 100, 50, 50)}, opts)
	if snapped != moving {
		t.Fatalf("rect moved without a candidate in range: %+v", snapped)
	}
	if len(guides) != 0 {
		t.Fatalf("unexpected guides %+v", guides)
	}
}

func TestSnapPicksClosestCandidate(t *testing.T) {
	opts := SnapOptions{Threshold: 6, SnapToEdges: true}
	anchors := []Rect{
		R(100, 0, 50, 10), // left edge at 100, 5 units away
		R(103, 50, 50, 10), // left edge at 103, 2 units away
	}
	snapped, _ := Snap(R(105, 300, 40, 40), anchors, opts)
	if snapped.X != 103 {
		t.Fatalf("snapped.X = %v, want 103 (closest wins)", snapped.X)
	}
}

func TestSnapDefaultThreshold(t *testing.T) {
	// Zero threshold falls back to 6 logical units.
	snapped, _ := Snap(R(105, 300, 40, 40), []Rect{R(100, 100, 50, 50)}, SnapOptions{SnapToEdges: true})
	if snapped.X != 100 {
		t.Fatalf("snapped.X = %v, want 100 with default threshold", snapped.X)
	}
}
