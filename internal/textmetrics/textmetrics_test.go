/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import "testing"

func TestMeasureHeuristic(t *testing.T) {
	if err := RegisterFont(nil); err != nil {
		t.Fatalf("clear font: %v", err)
	}
	w, h := Measure("hello", 10)
	if w != 5*10*heuristicAdvance {
		t.Fatalf("w = %v", w)
	}
	if h != 10*lineHeight {
		t.Fatalf("h = %v", h)
	}
}

func TestMeasureEmptyAndZeroSize(t *testing.T) {
	if w, h := Measure("", 12); w != 0 || h != 0 {
		t.Fatalf("empty content: w=%v h=%v", w, h)
	}
	if w, h := Measure("x", 0); w != 0 || h != 0 {
		t.Fatalf("zero size: w=%v h=%v", w, h)
	}
}

func TestMeasureCountsRunesNotBytes(t *testing.T) {
	w1, _ := Measure("aaaa", 10)
	w2, _ := Measure("ääää", 10) // 4 runes, 8 bytes
	if w1 != w2 {
		t.Fatalf("rune width mismatch: %v vs %v", w1, w2)
	}
}

func TestRegisterFontRejectsGarbage(t *testing.T) {
	if err := RegisterFont([]byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
	if HasFont() {
		t.Fatalf("failed registration must not install a font")
	}
}
