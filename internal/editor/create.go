/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"

	"gocanvaskit/internal/scene"
)

// Object creation helpers for the non-interactive API. Each helper commits a
// single history entry via AddObject.

// AddRect adds an axis-aligned rectangle anchored at its top-left corner.
func (e *Editor) AddRect(x, y, w, h float64, fill scene.Color) (*scene.Object, error) {
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(x, y),
		Opacity:   1,
		Visible:   true,
		Shape:     &scene.ShapeData{Shape: scene.ShapeRect, Width: w, Height: h, Fill: fill},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddCircle adds a circle anchored at its center.
func (e *Editor) AddCircle(cx, cy, r float64, fill scene.Color) (*scene.Object, error) {
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(cx, cy),
		Opacity:   1,
		Visible:   true,
		Shape:     &scene.ShapeData{Shape: scene.ShapeCircle, RadiusX: r, RadiusY: r, Fill: fill},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddEllipse adds an ellipse anchored at its center.
func (e *Editor) AddEllipse(cx, cy, rx, ry float64, fill scene.Color) (*scene.Object, error) {
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(cx, cy),
		Opacity:   1,
		Visible:   true,
		Shape:     &scene.ShapeData{Shape: scene.ShapeEllipse, RadiusX: rx, RadiusY: ry, Fill: fill},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddText adds a text object with its baseline anchor at x,y.
func (e *Editor) AddText(x, y float64, content string, fontSize float64) (*scene.Object, error) {
	if fontSize <= 0 {
		fontSize = 16
	}
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindText,
		Transform: scene.NewTransform(x, y),
		Opacity:   1,
		Visible:   true,
		Text:      &scene.TextData{Content: content, FontSize: fontSize, Anchor: scene.AnchorStart, Fill: scene.Color{A: 255}},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddImage adds an image reference with its natural size, anchored top-left.
func (e *Editor) AddImage(x, y float64, href string, w, h float64) (*scene.Object, error) {
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindImage,
		Transform: scene.NewTransform(x, y),
		Opacity:   1,
		Visible:   true,
		Image:     &scene.ImageData{Href: href, Width: w, Height: h},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}

// GroupObjects creates a group object referencing the given children.
// Children keep their own table entries; the group holds weak references.
func (e *Editor) GroupObjects(ids ...string) (*scene.Object, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("group needs at least one child")
	}
	children := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := e.doc.Get(id); !ok {
			return nil, fmt.Errorf("group child %s does not exist", id)
		}
		children = append(children, id)
	}
	o := &scene.Object{
		ID:        scene.NewID(),
		Kind:      scene.KindGroup,
		Transform: scene.NewTransform(0, 0),
		Opacity:   1,
		Visible:   true,
		Group:     &scene.GroupData{Children: children},
	}
	if err := e.AddObject(o); err != nil {
		return nil, err
	}
	return o, nil
}
