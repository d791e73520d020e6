/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Smart guides and snapping helpers for interactive tools. The helpers are
// UI-agnostic and deterministic so they can be unit-tested and reused by
// different frontends.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (in logical units) at which snapping
	// occurs. Typical UI values are 6-8 units.
	Threshold float64
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// GuideOrientation distinguishes vertical from horizontal guide lines.
type GuideOrientation string

const (
	GuideVertical   GuideOrientation = "vertical"
	GuideHorizontal GuideOrientation = "horizontal"
)

// GuideLine describes a visual guide generated during a snap alignment.
// Kind indicates which features aligned: "edge" or "center". From and To
// denote the guide extents for rendering.
type GuideLine struct {
	Orientation GuideOrientation
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

// Snap computes snapping adjustments for a moving rectangle against a set of
// anchor rectangles (typically the bounds of the other objects on the
// canvas). It returns the snapped rectangle and any guide lines to render for
// visual feedback. Snapping happens independently in X and Y.
func Snap(moving Rect, anchors []Rect, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var guides []GuideLine

	bestDX, bestDXDist, bestDXGuide := 0.0, math.Inf(1), GuideLine{}
	bestDY, bestDYDist, bestDYGuide := 0.0, math.Inf(1), GuideLine{}

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR, aT, aB := a.X, a.X+a.W, a.Y, a.Y+a.H
		aCX, aCY := a.X+a.W/2, a.Y+a.H/2

		if opts.SnapToEdges {
			consider(&bestDX, &bestDXDist, &bestDXGuide, mL-aL, opts.Threshold, verticalGuide(aL, moving, a, "edge"))
			consider(&bestDX, &bestDXDist, &bestDXGuide, mR-aR, opts.Threshold, verticalGuide(aR, moving, a, "edge"))
			consider(&bestDX, &bestDXDist, &bestDXGuide, mL-aR, opts.Threshold, verticalGuide(aR, moving, a, "edge"))
			consider(&bestDX, &bestDXDist, &bestDXGuide, mR-aL, opts.Threshold, verticalGuide(aL, moving, a, "edge"))

			consider(&bestDY, &bestDYDist, &bestDYGuide, mT-aT, opts.Threshold, horizontalGuide(aT, moving, a, "edge"))
			consider(&bestDY, &bestDYDist, &bestDYGuide, mB-aB, opts.Threshold, horizontalGuide(aB, moving, a, "edge"))
			consider(&bestDY, &bestDYDist, &bestDYGuide, mT-aB, opts.Threshold, horizontalGuide(aB, moving, a, "edge"))
			consider(&bestDY, &bestDYDist, &bestDYGuide, mB-aT, opts.Threshold, horizontalGuide(aT, moving, a, "edge"))
		}
		if opts.SnapToCenters {
			consider(&bestDX, &bestDXDist, &bestDXGuide, mCX-aCX, opts.Threshold, verticalGuide(aCX, moving, a, "center"))
			consider(&bestDY, &bestDYDist, &bestDYGuide, mCY-aCY, opts.Threshold, horizontalGuide(aCY, moving, a, "center"))
		}
	}

	snapped := moving
	if bestDXDist <= opts.Threshold {
		snapped.X = moving.X - bestDX
		guides = append(guides, bestDXGuide)
	}
	if bestDYDist <= opts.Threshold {
		snapped.Y = moving.Y - bestDY
		guides = append(guides, bestDYGuide)
	}
	return snapped, guides
}

func consider(best *float64, bestDist *float64, bestGuide *GuideLine, delta, threshold float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	if dist < *bestDist {
		*bestDist = dist
		*best = delta
		*bestGuide = g
	}
}

func verticalGuide(x float64, a, b Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	return GuideLine{
		Orientation: GuideVertical,
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func horizontalGuide(y float64, a, b Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	return GuideLine{
		Orientation: GuideHorizontal,
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
