/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "gocanvaskit/internal/geom"

// Bounding boxes are axis-aligned in the object's local (unrotated) frame.
// Rotation is applied around the box center by the hit tester and the
// renderer, never here.

const (
	// textAdvance approximates the average glyph advance as a fraction of
	// the font size. Real text measurement lives in textmetrics and is used
	// by the exporters only.
	textAdvance = 0.6
	// textLineHeight approximates line height as a multiple of the font size.
	textLineHeight = 1.2

	// pathPlaceholderSize is the fixed local box edge used for path shapes;
	// exact path bounds would need full path parsing.
	pathPlaceholderSize = 100.0
)

// Bounds returns the object's local-frame bounding box in logical units.
// Groups have no intrinsic box; the composing layer unions their children
// (see Document.GroupBounds), so ok is false here for groups and for
// malformed objects.
func (o *Object) Bounds() (geom.Rect, bool) {
	t := o.Transform
	switch o.Kind {
	case KindImage:
		if o.Image == nil {
			return geom.Rect{}, false
		}
		return geom.R(t.X, t.Y, o.Image.Width*t.ScaleX, o.Image.Height*t.ScaleY), true
	case KindText:
		if o.Text == nil {
			return geom.Rect{}, false
		}
		w := float64(len([]rune(o.Text.Content))) * o.Text.FontSize * textAdvance * t.ScaleX
		h := o.Text.FontSize * textLineHeight * t.ScaleY
		x := t.X
		switch o.Text.Anchor {
		case AnchorMiddle:
			x -= w / 2
		case AnchorEnd:
			x -= w
		}
		// The anchor sits on the baseline; the box extends one font size up.
		y := t.Y - o.Text.FontSize*t.ScaleY
		return geom.R(x, y, w, h), true
	case KindShape:
		if o.Shape == nil {
			return geom.Rect{}, false
		}
		switch o.Shape.Shape {
		case ShapeRect:
			return geom.R(t.X, t.Y, o.Shape.Width*t.ScaleX, o.Shape.Height*t.ScaleY), true
		case ShapeCircle:
			r := o.Shape.RadiusX
			return geom.R(t.X-r*t.ScaleX, t.Y-r*t.ScaleY, 2*r*t.ScaleX, 2*r*t.ScaleY), true
		case ShapeEllipse:
			rx, ry := o.Shape.RadiusX, o.Shape.RadiusY
			return geom.R(t.X-rx*t.ScaleX, t.Y-ry*t.ScaleY, 2*rx*t.ScaleX, 2*ry*t.ScaleY), true
		case ShapePath:
			return geom.R(t.X, t.Y, pathPlaceholderSize*t.ScaleX, pathPlaceholderSize*t.ScaleY), true
		}
		return geom.Rect{}, false
	case KindGroup:
		return geom.Rect{}, false
	}
	return geom.Rect{}, false
}

// GroupBounds computes the union of the local boxes of a group's children.
// Missing children are skipped; nested groups recurse. Group references may
// form cycles in documents loaded from disk, so visited group ids are tracked
// and revisited groups contribute nothing. ok is false when no child
// contributes a box.
func (d *Document) GroupBounds(g *Object) (geom.Rect, bool) {
	return d.groupBounds(g, make(map[string]bool))
}

func (d *Document) groupBounds(g *Object, seen map[string]bool) (geom.Rect, bool) {
	if g.Kind != KindGroup || g.Group == nil || seen[g.ID] {
		return geom.Rect{}, false
	}
	seen[g.ID] = true
	var box geom.Rect
	found := false
	for _, id := range g.Group.Children {
		child, ok := d.Objects[id]
		if !ok {
			continue
		}
		var cb geom.Rect
		var cok bool
		if child.Kind == KindGroup {
			cb, cok = d.groupBounds(child, seen)
		} else {
			cb, cok = child.Bounds()
		}
		if !cok {
			continue
		}
		if !found {
			box = cb
			found = true
		} else {
			box = box.Union(cb)
		}
	}
	return box, found
}

// ObjectBounds resolves the local-frame box for any object in the document,
// delegating groups to GroupBounds.
func (d *Document) ObjectBounds(id string) (geom.Rect, bool) {
	o, ok := d.Objects[id]
	if !ok {
		return geom.Rect{}, false
	}
	if o.Kind == KindGroup {
		return d.GroupBounds(o)
	}
	return o.Bounds()
}

// SelectionBounds returns the combined local-frame box of the selection and
// the rotation used for its handles. For a multi-object selection the box is
// the union of the members' boxes and the rotation is taken from the first
// selected object, matching how resize and rotate gestures are driven.
func (d *Document) SelectionBounds() (geom.Rect, float64, bool) {
	if len(d.Selection) == 0 {
		return geom.Rect{}, 0, false
	}
	var box geom.Rect
	rotation := 0.0
	found := false
	for i, id := range d.Selection {
		b, ok := d.ObjectBounds(id)
		if !ok {
			continue
		}
		if i == 0 {
			if o, ok := d.Objects[id]; ok {
				rotation = o.Transform.Rotation
			}
		}
		if !found {
			box = b
			found = true
		} else {
			box = box.Union(b)
		}
	}
	return box, rotation, found
}
