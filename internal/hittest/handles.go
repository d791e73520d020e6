/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package hittest

import (
	"math"

	"gocanvaskit/internal/geom"
)

// HandleType identifies one of the eight resize handles or the rotate handle
// of a selection box.
type HandleType string

const (
	HandleNW     HandleType = "nw"
	HandleN      HandleType = "n"
	HandleNE     HandleType = "ne"
	HandleW      HandleType = "w"
	HandleE      HandleType = "e"
	HandleSW     HandleType = "sw"
	HandleS      HandleType = "s"
	HandleSE     HandleType = "se"
	HandleRotate HandleType = "rotate"
)

// ResizeHandles lists the eight resize handles in a stable test order.
var ResizeHandles = [8]HandleType{
	HandleNW, HandleN, HandleNE,
	HandleW, HandleE,
	HandleSW, HandleS, HandleSE,
}

// Anchor is a handle and its anchor point in logical coordinates (local,
// unrotated frame of the selection box).
type Anchor struct {
	Handle HandleType
	Point  geom.Pt
}

// Handles computes the nine anchor points for a selection box: four corners,
// four edge midpoints, and the rotate anchor centered above the top edge at
// rotateOffset logical units.
func Handles(box geom.Rect, rotateOffset float64) [9]Anchor {
	x0, y0 := box.X, box.Y
	x1, y1 := box.X+box.W, box.Y+box.H
	cx, cy := box.X+box.W/2, box.Y+box.H/2
	return [9]Anchor{
		{HandleRotate, geom.Pt{X: cx, Y: y0 - rotateOffset}},
		{HandleNW, geom.Pt{X: x0, Y: y0}},
		{HandleN, geom.Pt{X: cx, Y: y0}},
		{HandleNE, geom.Pt{X: x1, Y: y0}},
		{HandleW, geom.Pt{X: x0, Y: cy}},
		{HandleE, geom.Pt{X: x1, Y: cy}},
		{HandleSW, geom.Pt{X: x0, Y: y1}},
		{HandleS, geom.Pt{X: cx, Y: y1}},
		{HandleSE, geom.Pt{X: x1, Y: y1}},
	}
}

// AnchorFor returns the anchor point of a single handle on the box.
func AnchorFor(box geom.Rect, h HandleType, rotateOffset float64) geom.Pt {
	for _, a := range Handles(box, rotateOffset) {
		if a.Handle == h {
			return a.Point
		}
	}
	return box.Center()
}

// cursorCycle is the 4-step cursor sequence a resize handle walks through as
// the element rotates: vertical, diagonal-ne, horizontal, diagonal-nw.
var cursorCycle = [4]string{"ns-resize", "nesw-resize", "ew-resize", "nwse-resize"}

// cursorBase is each resize handle's starting position in the cycle.
var cursorBase = map[HandleType]int{
	HandleN: 0, HandleS: 0,
	HandleNE: 1, HandleSW: 1,
	HandleE: 2, HandleW: 2,
	HandleNW: 3, HandleSE: 3,
}

// CursorFor maps a handle plus the selection's current rotation to a
// CSS-agnostic cursor hint. The rotation is normalized, divided into
// 45-degree steps, and the step count advances the handle's base position in the
// cursor cycle so the affordance visually follows the rotated box.
func CursorFor(h HandleType, rotationDeg float64) string {
	if h == HandleRotate {
		return "grab"
	}
	base, ok := cursorBase[h]
	if !ok {
		return "default"
	}
	steps := int(math.Round(geom.NormalizeDeg(rotationDeg)/45)) % 4
	return cursorCycle[(base+steps)%4]
}
