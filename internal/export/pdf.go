/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"gocanvaskit/internal/scene"
)

// PDFOptions controls PDF export behavior. Units are points; logical canvas
// units map 1:1 to points. Vector text uses the built-in Helvetica for
// portability; font embedding can be added later.
type PDFOptions struct {
	Background    scene.Color
	IncludeHidden bool
}

// ExportPDF writes the document as a single-page PDF at outPath. A relative
// outPath is resolved under baseDir.
func ExportPDF(doc *scene.Document, baseDir, outPath string, opt PDFOptions) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	bg := opt.Background
	if bg == (scene.Color{}) {
		bg = scene.Color{R: 255, G: 255, B: 255, A: 255}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: doc.Width, Ht: doc.Height},
		OrientationStr: "",
	})
	pdf.SetTitle(doc.Name, false)
	pdf.SetAuthor("GoCanvasKit", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: doc.Width, Ht: doc.Height})

	setFillColor(pdf, bg)
	pdf.Rect(0, 0, doc.Width, doc.Height, "F")

	for _, o := range doc.ZOrder() {
		if !o.Visible && !opt.IncludeHidden {
			continue
		}
		if o.Kind == scene.KindGroup {
			continue
		}
		drawObjectPDF(pdf, doc, o)
	}

	path := resolveOut(baseDir, outPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawObjectPDF(pdf *gofpdf.Fpdf, doc *scene.Document, o *scene.Object) {
	t := o.Transform
	rotated := t.Rotation != 0
	if rotated {
		if b, ok := objectBox(doc, o); ok {
			c := b.Center()
			pdf.TransformBegin()
			// gofpdf rotates counter-clockwise for positive angles
			pdf.TransformRotate(-t.Rotation, c.X, c.Y)
		} else {
			rotated = false
		}
	}
	if o.Opacity > 0 && o.Opacity < 1 {
		pdf.SetAlpha(o.Opacity, "Normal")
	}

	switch o.Kind {
	case scene.KindImage:
		if o.Image != nil {
			// Placeholder frame; image bytes are referenced by href and may
			// live outside the document tree.
			pdf.SetDrawColor(128, 128, 128)
			pdf.SetLineWidth(0.5)
			pdf.Rect(t.X, t.Y, o.Image.Width*t.ScaleX, o.Image.Height*t.ScaleY, "D")
		}
	case scene.KindText:
		if o.Text != nil {
			setTextColor(pdf, o.Text.Fill)
			size := o.Text.FontSize * t.ScaleY
			pdf.SetFontSize(size)
			x := t.X
			w := pdf.GetStringWidth(o.Text.Content)
			switch o.Text.Anchor {
			case scene.AnchorMiddle:
				x -= w / 2
			case scene.AnchorEnd:
				x -= w
			}
			pdf.Text(x, t.Y, o.Text.Content)
		}
	case scene.KindShape:
		if o.Shape != nil {
			drawShapePDF(pdf, o)
		}
	}

	if o.Opacity > 0 && o.Opacity < 1 {
		pdf.SetAlpha(1, "Normal")
	}
	if rotated {
		pdf.TransformEnd()
	}
}

func drawShapePDF(pdf *gofpdf.Fpdf, o *scene.Object) {
	t := o.Transform
	s := o.Shape
	setFillColor(pdf, s.Fill)
	setDrawColor(pdf, s.Stroke)
	pdf.SetLineWidth(s.StrokeW)
	mode := "FD"
	if s.Fill.A == 0 {
		mode = "D"
	}
	switch s.Shape {
	case scene.ShapeRect:
		pdf.Rect(t.X, t.Y, s.Width*t.ScaleX, s.Height*t.ScaleY, mode)
	case scene.ShapeCircle:
		pdf.Ellipse(t.X, t.Y, s.RadiusX*t.ScaleX, s.RadiusX*t.ScaleY, 0, mode)
	case scene.ShapeEllipse:
		pdf.Ellipse(t.X, t.Y, s.RadiusX*t.ScaleX, s.RadiusY*t.ScaleY, 0, mode)
	case scene.ShapePath:
		// Paths are not traced into PDF yet; draw the placeholder box.
		if b, ok := o.Bounds(); ok {
			pdf.Rect(b.X, b.Y, b.W, b.H, "D")
		}
	}
}

func setFillColor(pdf *gofpdf.Fpdf, c scene.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDrawColor(pdf *gofpdf.Fpdf, c scene.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c scene.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
