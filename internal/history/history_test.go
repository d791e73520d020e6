/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import "testing"

func TestBaselineDiscipline(t *testing.T) {
	s := NewStore[int](10)
	if s.CanUndo() || s.CanRedo() {
		t.Fatalf("empty store should have nothing to undo or redo")
	}
	if _, ok := s.Undo(); ok {
		t.Fatalf("undo on empty store should fail")
	}

	s.Push(1) // baseline
	if s.CanUndo() {
		t.Fatalf("baseline alone is not undoable")
	}
	s.Push(2)
	if !s.CanUndo() {
		t.Fatalf("one edit beyond baseline should be undoable")
	}

	got, ok := s.Undo()
	if !ok || got != 1 {
		t.Fatalf("undo = %v, %v; want 1, true", got, ok)
	}
	if s.CanUndo() {
		t.Fatalf("back at baseline, nothing left to undo")
	}
	if !s.CanRedo() {
		t.Fatalf("undone state should be redoable")
	}
}

func TestUndoRedoSequence(t *testing.T) {
	s := NewStore[int](10)
	for i := 1; i <= 4; i++ {
		s.Push(i)
	}
	// Walk back to the baseline.
	for want := 3; want >= 1; want-- {
		got, ok := s.Undo()
		if !ok || got != want {
			t.Fatalf("undo = %v, %v; want %v, true", got, ok, want)
		}
	}
	// Walk forward again.
	for want := 2; want <= 4; want++ {
		got, ok := s.Redo()
		if !ok || got != want {
			t.Fatalf("redo = %v, %v; want %v, true", got, ok, want)
		}
	}
	if _, ok := s.Redo(); ok {
		t.Fatalf("redo past the newest state should fail")
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := NewStore[int](10)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	s.Undo()
	s.Undo()
	if !s.CanRedo() {
		t.Fatalf("expected redo entries")
	}
	s.Push(99)
	if s.CanRedo() {
		t.Fatalf("push must clear the redo stack")
	}
	got, ok := s.Undo()
	if !ok || got != 1 {
		t.Fatalf("undo after branch = %v, %v; want 1, true", got, ok)
	}
}

func TestPushReleasesDiscardedRedoSnapshots(t *testing.T) {
	s := NewStore[*int](10)
	for _, v := range []int{0, 1, 2} {
		v := v
		s.Push(&v)
	}
	s.Undo()
	s.Undo()
	branch := 9
	s.Push(&branch)

	// The cleared redo backing array must not pin the discarded snapshots.
	for i, p := range s.redo[:cap(s.redo)] {
		if p != nil {
			t.Fatalf("redo slot %d still references a discarded snapshot", i)
		}
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	s := NewStore[int](3)
	for i := 1; i <= 5; i++ {
		s.Push(i)
	}
	undoDepth, _ := s.Stats()
	if undoDepth != 3 {
		t.Fatalf("undo depth = %d, want 3", undoDepth)
	}
	// Only the two most recent transitions survive; oldest entries evicted FIFO.
	if got, _ := s.Undo(); got != 4 {
		t.Fatalf("first undo = %v, want 4", got)
	}
	if got, _ := s.Undo(); got != 3 {
		t.Fatalf("second undo = %v, want 3", got)
	}
	if s.CanUndo() {
		t.Fatalf("evicted states must not be reachable")
	}
}

func TestNonPositiveLimitUsesDefault(t *testing.T) {
	s := NewStore[int](0)
	for i := 0; i < DefaultLimit+10; i++ {
		s.Push(i)
	}
	undoDepth, _ := s.Stats()
	if undoDepth != DefaultLimit {
		t.Fatalf("undo depth = %d, want %d", undoDepth, DefaultLimit)
	}
}

func TestClear(t *testing.T) {
	s := NewStore[int](10)
	s.Push(1)
	s.Push(2)
	s.Undo()
	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Fatalf("clear should empty both stacks")
	}
	u, r := s.Stats()
	if u != 0 || r != 0 {
		t.Fatalf("stats after clear = %d, %d", u, r)
	}
}
