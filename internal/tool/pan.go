/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import "gocanvaskit/internal/geom"

// PanTool pans the viewport on click-drag and zooms on the wheel. It never
// mutates the document, so no gesture here ever commits a history entry.
//
// State machine: idle <-> panning.
type PanTool struct {
	space   *geom.Space
	cfg     Config
	panning bool
	pan     panState
}

// NewPanTool wires a pan tool over the coordinate space.
func NewPanTool(space *geom.Space, cfg Config) *PanTool {
	return &PanTool{space: space, cfg: cfg}
}

// Activate implements Tool.
func (t *PanTool) Activate() {}

// Deactivate ends any in-progress pan; the viewport keeps its current value.
func (t *PanTool) Deactivate() {
	t.panning = false
	t.pan = panState{}
}

// OnPointerDown always starts panning, recording the viewport pan at gesture
// start.
func (t *PanTool) OnPointerDown(ev PointerEvent) {
	t.pan = panState{downDevice: ev.Device, panX: t.space.View.PanX, panY: t.space.View.PanY}
	t.panning = true
}

// OnPointerMove updates the pan so the content appears to follow the cursor.
// The pan is derived from the device delta and the gesture-start pan, which
// keeps the mapping drift-free while the viewport changes under the pointer.
func (t *PanTool) OnPointerMove(ev PointerEvent) {
	if !t.panning {
		return
	}
	perDevice := t.space.DistanceToLogical(1)
	t.space.View.PanX = t.pan.panX + (ev.Device.X-t.pan.downDevice.X)*perDevice
	t.space.View.PanY = t.pan.panY + (ev.Device.Y-t.pan.downDevice.Y)*perDevice
}

// OnPointerUp ends the pan.
func (t *PanTool) OnPointerUp(PointerEvent) {
	t.panning = false
	t.pan = panState{}
}

// OnKey is a no-op for the pan tool.
func (t *PanTool) OnKey(KeyEvent) {}

// OnWheel zooms by a fixed step per tick, keeping the logical point under the
// cursor fixed (zoom-to-pointer).
func (t *PanTool) OnWheel(ev WheelEvent) {
	step := t.cfg.ZoomStep
	if step <= 0 {
		step = DefaultConfig().ZoomStep
	}
	if ev.DeltaY < 0 {
		step = -step
	}
	t.space.ZoomAt(ev.Device, t.space.View.Zoom+step)
}

// Cursor reports grab/grabbing hints.
func (t *PanTool) Cursor(geom.Pt) string {
	if t.panning {
		return "grabbing"
	}
	return "grab"
}
