/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history provides a bounded undo/redo stack pair over opaque state
// snapshots. Snapshots are owned by the store once pushed; callers must hand
// in structurally independent copies and must copy again on restore so that
// later mutation of live state can never corrupt a stored entry.
package history

import "sync"

// DefaultLimit bounds the undo side when no explicit limit is configured.
const DefaultLimit = 50

// Store keeps two stacks of snapshots. The top of the undo stack is always
// the current state: "nothing to undo" means only that baseline remains.
// It is safe for concurrent use.
type Store[S any] struct {
	mu    sync.Mutex
	limit int
	undo  []S
	redo  []S
}

// NewStore creates a store bounded to limit undo entries (including the
// current baseline). Non-positive limits fall back to DefaultLimit.
func NewStore[S any](limit int) *Store[S] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store[S]{limit: limit}
}

// Push records a new current state. It clears the redo stack and evicts the
// oldest undo entries beyond the limit (FIFO).
func (s *Store[S]) Push(snapshot S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero S
	for i := range s.redo {
		// Zero the slots so discarded snapshots do not stay reachable
		// through the backing array.
		s.redo[i] = zero
	}
	s.redo = s.redo[:0]
	s.undo = append(s.undo, snapshot)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = append(s.undo[:0:0], s.undo[over:]...)
	}
}

// Undo moves the current state onto the redo stack and returns the restored
// previous state, which stays on top of the undo stack as the new current
// state. It reports false when only the baseline remains.
func (s *Store[S]) Undo() (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero S
	if len(s.undo) < 2 {
		return zero, false
	}
	top := s.undo[len(s.undo)-1]
	s.undo[len(s.undo)-1] = zero
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, top)
	return s.undo[len(s.undo)-1], true
}

// Redo pops the most recently undone state back onto the undo stack and
// returns it. It reports false when there is nothing to redo.
func (s *Store[S]) Redo() (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero S
	if len(s.redo) == 0 {
		return zero, false
	}
	top := s.redo[len(s.redo)-1]
	s.redo[len(s.redo)-1] = zero
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, top)
	return top, true
}

// CanUndo reports whether an undo step is available beyond the baseline.
func (s *Store[S]) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) >= 2
}

// CanRedo reports whether a redo step is available.
func (s *Store[S]) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Clear empties both stacks. Callers are responsible for pushing a fresh
// baseline snapshot afterwards.
func (s *Store[S]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}

// Stats returns current stack depths for diagnostics.
func (s *Store[S]) Stats() (undoDepth, redoDepth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}
