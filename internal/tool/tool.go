/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tool contains the per-gesture state machines that turn pointer and
// keyboard events into geometric mutations, and the interaction manager that
// owns the viewport and dispatches device events to the active tool.
//
// Tools follow a two-phase mutation protocol: any number of silent updates
// while a gesture is in progress, then exactly one history commit at gesture
// end. Cancelling a gesture restores the gesture-start state silently and
// commits nothing.
package tool

import (
	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
)

// Modifiers is a bitmask of held modifier keys on an input event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }

// Key identifies the keyboard keys the tools react to.
type Key string

const (
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyEscape    Key = "escape"
	KeySpace     Key = "space"
)

// PointerEvent carries a pointer position in both device and logical
// coordinates; the manager performs the conversion once per event.
type PointerEvent struct {
	Device  geom.Pt
	Logical geom.Pt
	Mod     Modifiers
}

// KeyEvent is a key press (Down) or release.
type KeyEvent struct {
	Key  Key
	Down bool
	Mod  Modifiers
}

// WheelEvent is a scroll-wheel tick at a pointer position. DeltaY is positive
// for scrolling up.
type WheelEvent struct {
	Device  geom.Pt
	Logical geom.Pt
	DeltaY  float64
	Mod     Modifiers
}

// Tool is one interaction mode. The manager holds the active tool by
// interface and feeds it translated events. Deactivate force-terminates any
// in-progress gesture without committing.
type Tool interface {
	OnPointerDown(ev PointerEvent)
	OnPointerMove(ev PointerEvent)
	OnPointerUp(ev PointerEvent)
	OnKey(ev KeyEvent)
	OnWheel(ev WheelEvent)
	Activate()
	Deactivate()
	Cursor(p geom.Pt) string
}

// Canvas is the narrow mutation capability surface tools consume from the
// composing layer. UpdateTransformSilent mutates without a history entry;
// Commit captures one. RemoveObject is silent so removals can be batched
// under a single commit.
type Canvas interface {
	Object(id string) (*scene.Object, bool)
	UpdateTransformSilent(id string, t scene.Transform) bool
	RemoveObject(id string) bool
	Commit()
	Selection() []string
	SetSelection(ids []string)
	Size() geom.Size
	TopDown() []*scene.Object
	ObjectBounds(id string) (geom.Rect, bool)
	SelectionBounds() (geom.Rect, float64, bool)
}

// Config holds the interaction tuning knobs.
type Config struct {
	// DragThreshold is the device-space distance the pointer must travel
	// from the down-point before a click becomes a drag. Guards against
	// micro-drags producing history entries.
	DragThreshold float64
	// MinObjectSize is the logical floor for resized width/height.
	MinObjectSize float64
	// RotateSnap is the snap increment in degrees applied while the snap
	// modifier is held during rotation.
	RotateSnap float64
	// ZoomStep is the zoom change per wheel tick.
	ZoomStep float64
	// SnapEnabled turns on smart-guide snapping during drags.
	SnapEnabled bool
	// Snap configures the smart-guide candidates and threshold.
	Snap geom.SnapOptions
}

// DefaultConfig returns the standard interaction tuning.
func DefaultConfig() Config {
	return Config{
		DragThreshold: 3,
		MinObjectSize: 10,
		RotateSnap:    15,
		ZoomStep:      0.1,
		SnapEnabled:   false,
		Snap:          geom.SnapOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true},
	}
}
