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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gocanvaskit/internal/geom"
	"gocanvaskit/internal/scene"
)

// PNGOptions controls PNG export behavior.
//   - DPI: output pixel density; logical units are treated as 1/96 inch.
//   - Background fills the surface before objects are drawn.
type PNGOptions struct {
	DPI           int
	Background    scene.Color
	IncludeHidden bool
}

// ExportPNG writes the document as a raster preview at outPath. A relative
// outPath is resolved under baseDir. The renderer favors robustness over
// typography: shapes are point-sampled (rotation included) and text is drawn
// with a bitmap face.
func ExportPNG(doc *scene.Document, baseDir, outPath string, opt PNGOptions) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	img, err := RenderPNG(doc, opt)
	if err != nil {
		return err
	}
	path := resolveOut(baseDir, outPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// RenderPNG rasterizes the document into an RGBA image.
func RenderPNG(doc *scene.Document, opt PNGOptions) (*image.RGBA, error) {
	dpi := opt.DPI
	if dpi <= 0 {
		dpi = 96
	}
	scale := float64(dpi) / 96.0
	pixW := int(math.Round(doc.Width * scale))
	pixH := int(math.Round(doc.Height * scale))
	if pixW <= 0 || pixH <= 0 {
		return nil, fmt.Errorf("document surface %gx%g rasterizes to nothing", doc.Width, doc.Height)
	}

	bg := opt.Background
	if bg == (scene.Color{}) {
		bg = scene.Color{R: 255, G: 255, B: 255, A: 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(bg)}, image.Point{}, draw.Src)

	for _, o := range doc.ZOrder() {
		if !o.Visible && !opt.IncludeHidden {
			continue
		}
		if o.Kind == scene.KindGroup {
			continue
		}
		drawObjectPNG(img, doc, o, scale)
	}
	return img, nil
}

func drawObjectPNG(img *image.RGBA, doc *scene.Document, o *scene.Object, scale float64) {
	switch o.Kind {
	case scene.KindImage:
		if b, ok := o.Bounds(); ok {
			samplePaint(img, b, o.Transform.Rotation, scale, func(p geom.Pt) (color.RGBA, bool) {
				if onBoxEdge(b, p, 1/scale) {
					return color.RGBA{128, 128, 128, 255}, true
				}
				return color.RGBA{}, false
			})
		}
	case scene.KindText:
		if o.Text != nil {
			drawTextPNG(img, o, scale)
		}
	case scene.KindShape:
		if o.Shape != nil {
			drawShapePNG(img, o, scale)
		}
	}
}

func drawShapePNG(img *image.RGBA, o *scene.Object, scale float64) {
	s := o.Shape
	b, ok := o.Bounds()
	if !ok {
		return
	}
	fill := toRGBA(s.Fill)
	stroke := toRGBA(s.Stroke)
	edge := s.StrokeW
	if edge <= 0 {
		edge = 1 / scale
	}

	switch s.Shape {
	case scene.ShapeRect, scene.ShapePath:
		samplePaint(img, b, o.Transform.Rotation, scale, func(p geom.Pt) (color.RGBA, bool) {
			if s.Stroke.A > 0 && onBoxEdge(b, p, edge) {
				return stroke, true
			}
			if s.Fill.A > 0 {
				return fill, true
			}
			return color.RGBA{}, false
		})
	case scene.ShapeCircle, scene.ShapeEllipse:
		c := b.Center()
		rx := b.W / 2
		ry := b.H / 2
		if rx <= 0 || ry <= 0 {
			return
		}
		samplePaint(img, b, o.Transform.Rotation, scale, func(p geom.Pt) (color.RGBA, bool) {
			dx := (p.X - c.X) / rx
			dy := (p.Y - c.Y) / ry
			d := dx*dx + dy*dy
			if d > 1 {
				return color.RGBA{}, false
			}
			if s.Stroke.A > 0 && d > (1-edge/math.Min(rx, ry))*(1-edge/math.Min(rx, ry)) {
				return stroke, true
			}
			if s.Fill.A > 0 {
				return fill, true
			}
			return color.RGBA{}, false
		})
	}
}

// samplePaint walks the device pixels covering the (possibly rotated) logical
// box, maps each pixel center back into the unrotated local frame, and asks
// paint for a color.
func samplePaint(img *image.RGBA, box geom.Rect, rotation, scale float64, paint func(geom.Pt) (color.RGBA, bool)) {
	c := box.Center()
	// device-space bounds of the rotated box
	corners := [4]geom.Pt{
		{X: box.X, Y: box.Y},
		{X: box.X + box.W, Y: box.Y},
		{X: box.X, Y: box.Y + box.H},
		{X: box.X + box.W, Y: box.Y + box.H},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		r := geom.RotateAround(p, c, rotation)
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X)
		maxY = math.Max(maxY, r.Y)
	}
	x0 := int(math.Floor(minX * scale))
	y0 := int(math.Floor(minY * scale))
	x1 := int(math.Ceil(maxX * scale))
	y1 := int(math.Ceil(maxY * scale))
	bounds := img.Bounds()
	for y := max(y0, bounds.Min.Y); y <= min(y1, bounds.Max.Y-1); y++ {
		for x := max(x0, bounds.Min.X); x <= min(x1, bounds.Max.X-1); x++ {
			// pixel center in logical units, inverse-rotated into the local frame
			lp := geom.Pt{X: (float64(x) + 0.5) / scale, Y: (float64(y) + 0.5) / scale}
			local := geom.RotateAround(lp, c, -rotation)
			if !box.Contains(local) {
				continue
			}
			if col, ok := paint(local); ok {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// onBoxEdge reports whether p lies within edge units of the box border.
func onBoxEdge(b geom.Rect, p geom.Pt, edge float64) bool {
	return p.X <= b.X+edge || p.X >= b.X+b.W-edge ||
		p.Y <= b.Y+edge || p.Y >= b.Y+b.H-edge
}

// drawTextPNG renders text with a fixed bitmap face. Rotation is ignored for
// raster previews.
func drawTextPNG(img *image.RGBA, o *scene.Object, scale float64) {
	t := o.Transform
	x := t.X
	b, ok := o.Bounds()
	if ok {
		x = b.X
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(toRGBA(o.Text.Fill)),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(int(math.Round(x * scale))),
			Y: fixed.I(int(math.Round(t.Y * scale))),
		},
	}
	d.DrawString(o.Text.Content)
}

func toRGBA(c scene.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
