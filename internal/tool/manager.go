/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"log/slog"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/hittest"
	applog "gocanvaskit/internal/log"
)

// Kind names the built-in tools.
type Kind string

const (
	ToolSelect Kind = "select"
	ToolPan    Kind = "pan"
)

// Manager owns the viewport state, the active tool, and the interacting
// flag. It translates raw device events into logical-space events and
// dispatches them to the active tool. Input is single-threaded: every event
// is handled to completion before the next one.
type Manager struct {
	space       *geom.Space
	canvas      Canvas
	tester      *hittest.Tester
	tools       map[Kind]Tool
	kind        Kind
	active      Tool
	interacting bool
	log         *slog.Logger

	selectTool *SelectTool
}

// NewManager builds the manager with the two standard tools and the select
// tool active.
func NewManager(space *geom.Space, canvas Canvas, cfg Config) *Manager {
	tester := hittest.NewTester(space, canvas)
	sel := NewSelectTool(canvas, space, tester, cfg)
	pan := NewPanTool(space, cfg)
	m := &Manager{
		space:      space,
		canvas:     canvas,
		tester:     tester,
		tools:      map[Kind]Tool{ToolSelect: sel, ToolPan: pan},
		kind:       ToolSelect,
		active:     sel,
		log:        applog.WithComponent("tool"),
		selectTool: sel,
	}
	sel.Activate()
	return m
}

// Space exposes the coordinate space (container, logical size, viewport).
func (m *Manager) Space() *geom.Space { return m.space }

// Tester exposes the hit tester for frontends that render handles.
func (m *Manager) Tester() *hittest.Tester { return m.tester }

// Viewport returns the current pan/zoom state.
func (m *Manager) Viewport() geom.Viewport { return m.space.View }

// Guides returns the smart-guide lines of the current drag frame, if any.
func (m *Manager) Guides() []geom.GuideLine { return m.selectTool.Guides() }

// ActiveTool returns the active tool kind.
func (m *Manager) ActiveTool() Kind { return m.kind }

// SetTool switches the active tool. Switching force-terminates any
// in-progress gesture of the previous tool without committing.
func (m *Manager) SetTool(k Kind) {
	if k == m.kind {
		return
	}
	next, ok := m.tools[k]
	if !ok {
		m.log.Warn("unknown tool", slog.String("tool", string(k)))
		return
	}
	m.active.Deactivate()
	m.interacting = false
	m.kind = k
	m.active = next
	next.Activate()
	m.log.Debug("tool switched", slog.String("tool", string(k)))
}

// Interacting reports whether a pointer gesture is in flight.
func (m *Manager) Interacting() bool { return m.interacting }

// CancelGesture force-terminates any in-progress gesture, e.g. on pointer
// capture loss or window focus loss. The gesture-start state is restored
// silently and nothing is committed.
func (m *Manager) CancelGesture() {
	m.active.Deactivate()
	m.active.Activate()
	m.interacting = false
}

func (m *Manager) pointerEvent(deviceX, deviceY float64, mod Modifiers) PointerEvent {
	d := geom.Pt{X: deviceX, Y: deviceY}
	return PointerEvent{Device: d, Logical: m.space.DeviceToLogical(d), Mod: mod}
}

// PointerDown dispatches a pointer-down at device coordinates.
func (m *Manager) PointerDown(deviceX, deviceY float64, mod Modifiers) {
	m.interacting = true
	m.active.OnPointerDown(m.pointerEvent(deviceX, deviceY, mod))
}

// PointerMove dispatches a pointer-move.
func (m *Manager) PointerMove(deviceX, deviceY float64, mod Modifiers) {
	m.active.OnPointerMove(m.pointerEvent(deviceX, deviceY, mod))
}

// PointerUp dispatches a pointer-up and clears the interacting flag.
func (m *Manager) PointerUp(deviceX, deviceY float64, mod Modifiers) {
	m.active.OnPointerUp(m.pointerEvent(deviceX, deviceY, mod))
	m.interacting = false
}

// Key dispatches a key event to the active tool.
func (m *Manager) Key(key Key, down bool, mod Modifiers) {
	m.active.OnKey(KeyEvent{Key: key, Down: down, Mod: mod})
}

// Wheel dispatches a wheel event at device coordinates.
func (m *Manager) Wheel(deviceX, deviceY, deltaY float64, mod Modifiers) {
	d := geom.Pt{X: deviceX, Y: deviceY}
	m.active.OnWheel(WheelEvent{Device: d, Logical: m.space.DeviceToLogical(d), DeltaY: deltaY, Mod: mod})
}

// Cursor returns the active tool's cursor hint for a device position.
func (m *Manager) Cursor(deviceX, deviceY float64) string {
	return m.active.Cursor(m.space.DeviceToLogical(geom.Pt{X: deviceX, Y: deviceY}))
}
