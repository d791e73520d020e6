/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"sort"

	"gocanvaskit/internal/geom"
)

// Document is the full canvas state: a flat object table, the current
// selection, and the logical surface size. It is not safe for concurrent use;
// the interaction layer owns it single-threaded.
type Document struct {
	Name      string             `json:"name"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Objects   map[string]*Object `json:"objects"`
	Selection []string           `json:"selection"`
}

// NewDocument creates an empty document with the given logical size.
func NewDocument(name string, w, h float64) *Document {
	return &Document{Name: name, Width: w, Height: h, Objects: make(map[string]*Object)}
}

// Size returns the logical surface size.
func (d *Document) Size() geom.Size { return geom.Size{W: d.Width, H: d.Height} }

// Get returns the object with the given id.
func (d *Document) Get(id string) (*Object, bool) {
	o, ok := d.Objects[id]
	return o, ok
}

// Add inserts the object into the table, replacing any previous object with
// the same id.
func (d *Document) Add(o *Object) {
	d.Objects[o.ID] = o
}

// Remove deletes the object and eagerly drops it from the selection so the
// selection never references a missing object.
func (d *Document) Remove(id string) bool {
	if _, ok := d.Objects[id]; !ok {
		return false
	}
	delete(d.Objects, id)
	d.Selection = removeString(d.Selection, id)
	return true
}

// SetSelection replaces the selection, dropping ids that do not reference an
// existing object.
func (d *Document) SetSelection(ids []string) {
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := d.Objects[id]; ok {
			sel = append(sel, id)
		}
	}
	d.Selection = sel
}

// Selected reports whether the object id is in the current selection.
func (d *Document) Selected(id string) bool {
	for _, s := range d.Selection {
		if s == id {
			return true
		}
	}
	return false
}

// ZOrder returns all objects sorted by ascending zIndex (paint order). Ties
// break on id for determinism.
func (d *Document) ZOrder() []*Object {
	objs := make([]*Object, 0, len(d.Objects))
	for _, o := range d.Objects {
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].ZIndex != objs[j].ZIndex {
			return objs[i].ZIndex < objs[j].ZIndex
		}
		return objs[i].ID < objs[j].ID
	})
	return objs
}

// TopDown returns all objects sorted by descending zIndex (hit-test order).
func (d *Document) TopDown() []*Object {
	objs := d.ZOrder()
	for i, j := 0, len(objs)-1; i < j; i, j = i+1, j-1 {
		objs[i], objs[j] = objs[j], objs[i]
	}
	return objs
}

// MaxZ returns the highest zIndex in use, or -1 for an empty document.
func (d *Document) MaxZ() int {
	maxZ := -1
	for _, o := range d.Objects {
		if o.ZIndex > maxZ {
			maxZ = o.ZIndex
		}
	}
	return maxZ
}

// Clone returns a structurally independent deep copy of the whole document.
// Snapshots handed to the history must never alias live state.
func (d *Document) Clone() *Document {
	c := &Document{
		Name:      d.Name,
		Width:     d.Width,
		Height:    d.Height,
		Objects:   make(map[string]*Object, len(d.Objects)),
		Selection: append([]string(nil), d.Selection...),
	}
	for id, o := range d.Objects {
		c.Objects[id] = o.Clone()
	}
	return c
}

func removeString(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
