/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textmetrics measures text extents for export layout. When a TTF/OTF
// font has been registered it measures real glyph advances via
// golang.org/x/image; otherwise it falls back to the same average-advance
// heuristic the scene bounds use, so interactive and exported geometry agree.
package textmetrics

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const (
	// heuristicAdvance approximates the average glyph advance as a fraction
	// of the font size.
	heuristicAdvance = 0.6
	// lineHeight is the line height as a multiple of the font size.
	lineHeight = 1.2
)

var (
	mu        sync.RWMutex
	parsed    *opentype.Font
	faceCache map[float64]font.Face
)

// RegisterFont parses TTF/OTF bytes and makes them the measuring font.
// Passing nil clears the registration and reverts to the heuristic.
func RegisterFont(data []byte) error {
	mu.Lock()
	defer mu.Unlock()
	if data == nil {
		parsed = nil
		faceCache = nil
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	parsed = f
	faceCache = make(map[float64]font.Face)
	return nil
}

// HasFont reports whether a real font is registered.
func HasFont() bool {
	mu.RLock()
	defer mu.RUnlock()
	return parsed != nil
}

// Measure returns the width and height of a single line of text at the given
// font size, in the same units as the font size.
func Measure(content string, fontSize float64) (w, h float64) {
	if fontSize <= 0 || content == "" {
		return 0, 0
	}
	h = fontSize * lineHeight

	face, err := faceFor(fontSize)
	if err != nil || face == nil {
		w = float64(len([]rune(content))) * fontSize * heuristicAdvance
		return w, h
	}
	adv := font.MeasureString(face, content)
	w = float64(adv) / 64.0
	return w, h
}

func faceFor(size float64) (font.Face, error) {
	mu.Lock()
	defer mu.Unlock()
	if parsed == nil {
		return nil, nil
	}
	if f, ok := faceCache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // size is already in target units
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	faceCache[size] = f
	return f, nil
}
