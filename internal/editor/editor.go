/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the composing layer over the scene document: it owns the
// undo history and sequences mutate -> snapshot -> notify for API calls,
// while exposing the silent/committing two-phase mutation protocol the
// interactive tools rely on (many silent writes during a gesture, exactly
// one commit at gesture end).
package editor

import (
	"log/slog"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/history"
	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/telemetry"
)

// Editor owns the live document and its history.
type Editor struct {
	doc       *scene.Document
	hist      *history.Store[*scene.Document]
	log       *slog.Logger
	listeners []func()
}

// New wraps a document and seeds the history with it as the baseline
// snapshot.
func New(doc *scene.Document, historyLimit int) *Editor {
	e := &Editor{
		doc:  doc,
		hist: history.NewStore[*scene.Document](historyLimit),
		log:  applog.WithComponent("editor"),
	}
	e.hist.Push(doc.Clone())
	return e
}

// Document exposes the live document for rendering and queries. Callers must
// not mutate it directly; all writes go through the editor.
func (e *Editor) Document() *scene.Document { return e.doc }

// OnChange registers a listener invoked after every committed change,
// selection replacement, and history restore.
func (e *Editor) OnChange(fn func()) { e.listeners = append(e.listeners, fn) }

func (e *Editor) notify() {
	for _, fn := range e.listeners {
		fn()
	}
}

// Object returns the live object with the given id.
func (e *Editor) Object(id string) (*scene.Object, bool) { return e.doc.Get(id) }

// Size returns the logical canvas size.
func (e *Editor) Size() geom.Size { return e.doc.Size() }

// Selection returns the current selection ids.
func (e *Editor) Selection() []string { return e.doc.Selection }

// SetSelection replaces the selection. Selection changes do not create
// history entries of their own; the selection is captured as part of the
// next committed snapshot.
func (e *Editor) SetSelection(ids []string) {
	e.doc.SetSelection(ids)
	e.notify()
}

// UpdateTransformSilent applies a transform without creating a history
// entry. Used for intermediate gesture frames; it is O(1) and never clones.
func (e *Editor) UpdateTransformSilent(id string, t scene.Transform) bool {
	o, ok := e.doc.Get(id)
	if !ok {
		return false
	}
	o.Transform = t
	return true
}

// UpdateTransform applies a transform and commits immediately. This is the
// non-interactive API variant.
func (e *Editor) UpdateTransform(id string, t scene.Transform) bool {
	if !e.UpdateTransformSilent(id, t) {
		return false
	}
	e.Commit()
	return true
}

// RemoveObject deletes an object without committing, so that callers can
// batch several removals under a single history entry. Missing ids are a
// no-op.
func (e *Editor) RemoveObject(id string) bool {
	return e.doc.Remove(id)
}

// DeleteObjects removes the given objects and commits once.
func (e *Editor) DeleteObjects(ids ...string) {
	removed := 0
	for _, id := range ids {
		if e.doc.Remove(id) {
			removed++
		}
	}
	if removed > 0 {
		e.Commit()
	}
}

// AddObject inserts an object on top of the z order and commits.
func (e *Editor) AddObject(o *scene.Object) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.ZIndex = e.doc.MaxZ() + 1
	e.doc.Add(o)
	e.Commit()
	return nil
}

// Commit deep-copies the current state into the history. This is the only
// O(object count) operation on the interactive path and runs once per
// gesture.
func (e *Editor) Commit() {
	e.hist.Push(e.doc.Clone())
	telemetry.Event("canvas_commit", nil)
	e.notify()
}

// Undo restores the previous snapshot. The restored snapshot is cloned again
// so the stored entry can never alias live state.
func (e *Editor) Undo() bool {
	snap, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.doc = snap.Clone()
	telemetry.Event("canvas_undo", nil)
	e.notify()
	return true
}

// Redo restores the most recently undone snapshot.
func (e *Editor) Redo() bool {
	snap, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.doc = snap.Clone()
	telemetry.Event("canvas_redo", nil)
	e.notify()
	return true
}

// CanUndo reports whether undo is available.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether redo is available.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// ResetHistory clears both stacks and re-seeds the current state as the
// baseline, e.g. after loading a document from disk.
func (e *Editor) ResetHistory() {
	e.hist.Clear()
	e.hist.Push(e.doc.Clone())
}

// TopDown implements the hit-test scene interface: objects in descending
// zIndex order.
func (e *Editor) TopDown() []*scene.Object { return e.doc.TopDown() }

// ObjectBounds resolves an object's local-frame box, including group unions.
func (e *Editor) ObjectBounds(id string) (geom.Rect, bool) { return e.doc.ObjectBounds(id) }

// SelectionBounds returns the combined selection box and handle rotation.
func (e *Editor) SelectionBounds() (geom.Rect, float64, bool) { return e.doc.SelectionBounds() }
