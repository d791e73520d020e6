/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Viewport holds the current pan offset (in logical units) and zoom factor
// mapping logical space onto the visible container area.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Zoom bounds applied by ClampZoom. The range mirrors what the interactive
// canvas allows via the wheel.
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// ClampZoom limits z to the supported zoom range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Space maps raw device coordinates (pointer positions) to logical canvas
// coordinates and back. The logical surface is fitted into the container with
// an aspect-ratio-preserving "contain" mapping; the viewport then applies
// zoom and pan on top.
//
// Degenerate configurations (zero-size container or logical surface) never
// divide by zero: points map to the origin and distances pass through.
type Space struct {
	Container Rect // device-space rectangle the canvas is rendered into
	Logical   Size // logical surface size
	View      Viewport
}

// NewSpace returns a Space with a 1.0 zoom viewport.
func NewSpace(container Rect, logical Size) *Space {
	return &Space{Container: container, Logical: logical, View: Viewport{Zoom: 1}}
}

// fitScale returns logical units per device pixel for the contain mapping,
// plus the device-space centering offsets of the fitted surface inside the
// container. ok is false for degenerate inputs.
func (s *Space) fitScale() (scale, offX, offY float64, ok bool) {
	if s.Container.W <= 0 || s.Container.H <= 0 || s.Logical.W <= 0 || s.Logical.H <= 0 {
		return 0, 0, 0, false
	}
	sx := s.Logical.W / s.Container.W
	sy := s.Logical.H / s.Container.H
	scale = sx
	if sy > scale {
		scale = sy
	}
	// Centering offset for the non-dominant axis.
	offX = (s.Container.W - s.Logical.W/scale) / 2
	offY = (s.Container.H - s.Logical.H/scale) / 2
	return scale, offX, offY, true
}

// zoom returns the effective zoom, treating non-positive values as identity.
func (s *Space) zoom() float64 {
	if s.View.Zoom <= 0 {
		return 1
	}
	return s.View.Zoom
}

// DeviceToLogical maps a device-space point to logical coordinates under the
// current viewport. Degenerate spaces map everything to the origin.
func (s *Space) DeviceToLogical(p Pt) Pt {
	scale, offX, offY, ok := s.fitScale()
	if !ok {
		return Pt{}
	}
	z := s.zoom()
	lx := (p.X-s.Container.X-offX)*scale/z - s.View.PanX
	ly := (p.Y-s.Container.Y-offY)*scale/z - s.View.PanY
	return Pt{lx, ly}
}

// LogicalToDevice is the exact inverse of DeviceToLogical for non-degenerate
// spaces.
func (s *Space) LogicalToDevice(p Pt) Pt {
	scale, offX, offY, ok := s.fitScale()
	if !ok {
		return Pt{}
	}
	z := s.zoom()
	dx := (p.X+s.View.PanX)*z/scale + s.Container.X + offX
	dy := (p.Y+s.View.PanY)*z/scale + s.Container.Y + offY
	return Pt{dx, dy}
}

// DistanceToLogical converts a device-space distance (e.g. a hit radius in
// screen pixels) into logical units under the current zoom.
func (s *Space) DistanceToLogical(d float64) float64 {
	scale, _, _, ok := s.fitScale()
	if !ok {
		return d
	}
	return d * scale / s.zoom()
}

// ZoomAt changes the zoom to newZoom (clamped) while keeping the logical
// point that currently sits under the given device point fixed. It reports
// whether the zoom actually changed.
func (s *Space) ZoomAt(device Pt, newZoom float64) bool {
	newZoom = ClampZoom(newZoom)
	oldZoom := s.zoom()
	if newZoom == oldZoom {
		return false
	}
	anchor := s.DeviceToLogical(device)
	s.View.Zoom = newZoom
	// Re-derive pan so the anchor stays under the cursor.
	moved := s.DeviceToLogical(device)
	s.View.PanX += moved.X - anchor.X
	s.View.PanY += moved.Y - anchor.Y
	return true
}
