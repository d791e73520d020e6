/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom provides basic 2D geometry and the device/logical coordinate
// mapping used by the interactive canvas. Values use float64 so that inverse
// transforms and angle math stay precise across pan/zoom round trips.
package geom

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Add returns p translated by q.
func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Pt) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// DistSq returns the squared Euclidean distance between two points.
func DistSq(a, b Pt) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// RotateAround rotates p by deg degrees around center.
func RotateAround(p, center Pt, deg float64) Pt {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Pt{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// NormalizeDeg maps an angle in degrees into [0, 360).
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SnapDeg rounds deg to the nearest multiple of step and normalizes the
// result into [0, 360). A non-positive step returns deg unchanged.
func SnapDeg(deg, step float64) float64 {
	if step <= 0 {
		return NormalizeDeg(deg)
	}
	return NormalizeDeg(math.Round(deg/step) * step)
}

// AngleDeg returns the angle in degrees of the vector from origin to p,
// measured with atan2 conventions.
func AngleDeg(origin, p Pt) float64 {
	return math.Atan2(p.Y-origin.Y, p.X-origin.X) * 180 / math.Pi
}
