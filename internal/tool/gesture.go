/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/hittest"
	"gocanvaskit/internal/scene"
)

// gestureKind discriminates the select tool's gesture states. Exactly one
// gesture is live at a time; its state struct is reset atomically on end or
// cancel and never left partially populated.
type gestureKind int

const (
	gestureNone gestureKind = iota
	// gesturePending: pointer is down on an object but has not crossed the
	// drag threshold yet.
	gesturePending
	gestureDragging
	gestureResizing
	gestureRotating
	gesturePanning
)

// pendingState remembers the down-point while waiting for the drag threshold.
type pendingState struct {
	downDevice  geom.Pt
	downLogical geom.Pt
}

// dragState captures a move gesture: the logical start point and every
// selected object's transform at gesture start, in selection order.
type dragState struct {
	start       geom.Pt
	ids         []string
	startTs     []scene.Transform
	startBounds geom.Rect   // combined selection box at start, for snapping
	hasBounds   bool
	anchors     []geom.Rect // other objects' boxes, for smart guides
	moved       bool
}

// resizeState captures a resize gesture on a single driving object.
type resizeState struct {
	id         string
	handle     hittest.HandleType
	start      geom.Pt
	origBounds geom.Rect
	origT      scene.Transform
	moved      bool
}

// rotateState captures a rotate gesture around a fixed center.
type rotateState struct {
	id         string
	center     geom.Pt
	startAngle float64
	origT      scene.Transform
	moved      bool
}

// panState captures a viewport pan (used by both the pan tool and the
// space-held temporary pan of the select tool).
type panState struct {
	downDevice geom.Pt
	panX, panY float64
}
