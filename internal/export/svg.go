/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders canvas documents to SVG, PDF, and PNG files under
// the document's exports folder.
package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/textmetrics"
)

// SVGOptions controls SVG export behavior.
//   - DPI defines the physical pixel size; width/height attributes use pixels
//     derived from DPI while the viewBox keeps logical units.
//   - Background fills the full surface before objects are drawn.
type SVGOptions struct {
	DPI        int
	Background scene.Color
	// IncludeHidden also renders objects with Visible=false.
	IncludeHidden bool
}

// ExportSVG writes the document as a single SVG file at outPath. A relative
// outPath is resolved under baseDir.
func ExportSVG(doc *scene.Document, baseDir, outPath string, opt SVGOptions) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	data, err := RenderSVG(doc, opt)
	if err != nil {
		return err
	}
	path := resolveOut(baseDir, outPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// RenderSVG produces the SVG bytes for the document.
func RenderSVG(doc *scene.Document, opt SVGOptions) ([]byte, error) {
	dpi := opt.DPI
	if dpi <= 0 {
		dpi = 96
	}
	scale := float64(dpi) / 96.0
	pxW := int(math.Round(doc.Width * scale))
	pxH := int(math.Round(doc.Height * scale))

	bg := opt.Background
	if bg == (scene.Color{}) {
		bg = scene.Color{R: 255, G: 255, B: 255, A: 255}
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, doc.Width, doc.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", doc.Width, doc.Height, svgColor(bg))

	for _, o := range doc.ZOrder() {
		if !o.Visible && !opt.IncludeHidden {
			continue
		}
		if o.Kind == scene.KindGroup {
			// children are in the flat table and render themselves
			continue
		}
		writeObjectSVG(wf, o)
	}

	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func writeObjectSVG(wf func(string, ...any), o *scene.Object) {
	t := o.Transform
	open := ""
	if t.Rotation != 0 {
		if b, ok := o.Bounds(); ok {
			c := b.Center()
			open = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", t.Rotation, c.X, c.Y)
		}
	}
	opacity := ""
	if o.Opacity > 0 && o.Opacity < 1 {
		opacity = fmt.Sprintf(" opacity=\"%g\"", o.Opacity)
	}
	wf("  <g%s%s>\n", open, opacity)
	switch o.Kind {
	case scene.KindImage:
		if o.Image != nil {
			wf("    <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"/>\n",
				t.X, t.Y, o.Image.Width*t.ScaleX, o.Image.Height*t.ScaleY, escAttr(o.Image.Href))
		}
	case scene.KindText:
		if o.Text != nil {
			anchor := "start"
			switch o.Text.Anchor {
			case scene.AnchorMiddle:
				anchor = "middle"
			case scene.AnchorEnd:
				anchor = "end"
			}
			w, _ := textmetrics.Measure(o.Text.Content, o.Text.FontSize)
			wf("    <text x=\"%g\" y=\"%g\" font-size=\"%g\" text-anchor=\"%s\" textLength=\"%g\" fill=\"%s\">%s</text>\n",
				t.X, t.Y, o.Text.FontSize*t.ScaleY, anchor, w*t.ScaleX, svgColor(o.Text.Fill), escText(o.Text.Content))
		}
	case scene.KindShape:
		if o.Shape != nil {
			writeShapeSVG(wf, o)
		}
	}
	wf("  </g>\n")
}

func writeShapeSVG(wf func(string, ...any), o *scene.Object) {
	t := o.Transform
	s := o.Shape
	style := fmt.Sprintf("fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"", svgColor(s.Fill), svgColor(s.Stroke), s.StrokeW)
	switch s.Shape {
	case scene.ShapeRect:
		wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" %s/>\n",
			t.X, t.Y, s.Width*t.ScaleX, s.Height*t.ScaleY, style)
	case scene.ShapeCircle:
		if t.ScaleX == t.ScaleY {
			wf("    <circle cx=\"%g\" cy=\"%g\" r=\"%g\" %s/>\n", t.X, t.Y, s.RadiusX*t.ScaleX, style)
		} else {
			wf("    <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s/>\n",
				t.X, t.Y, s.RadiusX*t.ScaleX, s.RadiusX*t.ScaleY, style)
		}
	case scene.ShapeEllipse:
		wf("    <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" %s/>\n",
			t.X, t.Y, s.RadiusX*t.ScaleX, s.RadiusY*t.ScaleY, style)
	case scene.ShapePath:
		wf("    <path transform=\"translate(%g %g) scale(%g %g)\" d=\"%s\" %s/>\n",
			t.X, t.Y, t.ScaleX, t.ScaleY, escAttr(s.PathData), style)
	}
}

func svgColor(c scene.Color) string {
	if c.A == 0 {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func resolveOut(baseDir, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(baseDir, "exports", outPath)
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// objectBox returns the local-frame box used to place guides and rotation pivots.
func objectBox(doc *scene.Document, o *scene.Object) (geom.Rect, bool) {
	if o.Kind == scene.KindGroup {
		return doc.GroupBounds(o)
	}
	return o.Bounds()
}
