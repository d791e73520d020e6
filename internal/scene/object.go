/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene defines the canvas object model: graphical objects with
// transforms, the flat object table with selection, and the deep-copy
// snapshots consumed by the undo history.
//
// Objects are a tagged union over Kind; every consumer switches exhaustively
// on the tag so that adding a kind forces a compile-visible update of each
// switch site.
package scene

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"gocanvaskit/internal/geom"
)

// Kind discriminates the graphical object variants.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindShape Kind = "shape"
	KindGroup Kind = "group"
)

// ShapeKind discriminates the shape sub-variants.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeCircle  ShapeKind = "circle"
	ShapeEllipse ShapeKind = "ellipse"
	ShapePath    ShapeKind = "path"
)

// TextAnchor controls horizontal alignment of text relative to its anchor point.
type TextAnchor string

const (
	AnchorStart  TextAnchor = "start"
	AnchorMiddle TextAnchor = "middle"
	AnchorEnd    TextAnchor = "end"
)

// Transform places an object on the canvas. X/Y is an anchor point whose
// meaning depends on the kind (top-left for images and rects, center for
// circles and ellipses, the text-anchor point for text). Rotation is in
// degrees about the object's own geometric center.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

// NewTransform returns an identity-scaled transform at x,y.
func NewTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ImageData holds the image-kind payload. Width/Height are the natural
// (unscaled) dimensions in logical units.
type ImageData struct {
	Href   string  `json:"href"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextData holds the text-kind payload. The anchor point of the transform is
// on the baseline.
type TextData struct {
	Content  string     `json:"content"`
	FontSize float64    `json:"fontSize"`
	Anchor   TextAnchor `json:"anchor"`
	Fill     Color      `json:"fill"`
}

// ShapeData holds the shape-kind payload. Width/Height apply to rects,
// RadiusX/RadiusY to circles (equal) and ellipses, PathData to paths.
type ShapeData struct {
	Shape    ShapeKind `json:"shape"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	RadiusX  float64   `json:"radiusX,omitempty"`
	RadiusY  float64   `json:"radiusY,omitempty"`
	PathData string    `json:"pathData,omitempty"`
	Fill     Color     `json:"fill"`
	Stroke   Color     `json:"stroke"`
	StrokeW  float64   `json:"strokeWidth"`
}

// GroupData holds an ordered list of child object ids. The list is a weak
// reference set: children live in the same flat object table and may be
// removed independently.
type GroupData struct {
	Children []string `json:"children"`
}

// Object is one graphical object. Exactly one of the kind payload pointers is
// non-nil, matching Kind.
type Object struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	Transform Transform  `json:"transform"`
	Opacity   float64    `json:"opacity"`
	ZIndex    int        `json:"zIndex"`
	Locked    bool       `json:"locked"`
	Visible   bool       `json:"visible"`
	Clip      *geom.Rect `json:"clip,omitempty"`

	Image *ImageData `json:"image,omitempty"`
	Text  *TextData  `json:"text,omitempty"`
	Shape *ShapeData `json:"shape,omitempty"`
	Group *GroupData `json:"group,omitempty"`
}

// Clone returns a structurally independent deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	if o.Clip != nil {
		clip := *o.Clip
		c.Clip = &clip
	}
	switch o.Kind {
	case KindImage:
		if o.Image != nil {
			img := *o.Image
			c.Image = &img
		}
	case KindText:
		if o.Text != nil {
			txt := *o.Text
			c.Text = &txt
		}
	case KindShape:
		if o.Shape != nil {
			sh := *o.Shape
			c.Shape = &sh
		}
	case KindGroup:
		if o.Group != nil {
			g := GroupData{Children: append([]string(nil), o.Group.Children...)}
			c.Group = &g
		}
	}
	return &c
}

// Validate checks that the kind tag and payload agree.
func (o *Object) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("object has no id")
	}
	switch o.Kind {
	case KindImage:
		if o.Image == nil {
			return fmt.Errorf("object %s: image kind without image data", o.ID)
		}
	case KindText:
		if o.Text == nil {
			return fmt.Errorf("object %s: text kind without text data", o.ID)
		}
	case KindShape:
		if o.Shape == nil {
			return fmt.Errorf("object %s: shape kind without shape data", o.ID)
		}
	case KindGroup:
		if o.Group == nil {
			return fmt.Errorf("object %s: group kind without group data", o.ID)
		}
	default:
		return fmt.Errorf("object %s: unknown kind %q", o.ID, o.Kind)
	}
	return nil
}

// NewID returns a random 16-hex-digit object id.
func NewID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is not survivable in any useful way here
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
