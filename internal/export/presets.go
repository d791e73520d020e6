/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gocanvaskit/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs go under <document>/exports/<preset>/.
//   - Files are named <doc-name>.(svg|pdf|png) inside format subfolders.
type BatchOptions struct {
	Preset      PresetName
	Formats     []string // allowed: svg, pdf, png; empty means preset defaults
	DPIOverride int      // when > 0 overrides raster/vector DPI where applicable
	OutDir      string
}

// BatchExport runs exports according to the given preset.
func BatchExport(dh *storage.DocumentHandle, opt BatchOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	if dh.Doc == nil {
		return fmt.Errorf("document handle holds no document")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(dh.Root, "exports", baseOut)
	}

	name := sanitizeName(dh.Doc.Name)
	dpi := presetDPI(opt.Preset)
	if opt.DPIOverride > 0 {
		dpi = opt.DPIOverride
	}

	for _, f := range formats {
		switch f {
		case "svg":
			out := filepath.Join(baseOut, "svg", name+".svg")
			if err := ExportSVG(dh.Doc, dh.Root, out, SVGOptions{DPI: dpi}); err != nil {
				return fmt.Errorf("svg export: %w", err)
			}
		case "pdf":
			out := filepath.Join(baseOut, "pdf", name+".pdf")
			if err := ExportPDF(dh.Doc, dh.Root, out, PDFOptions{}); err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
		case "png":
			out := filepath.Join(baseOut, "png", name+".png")
			if err := ExportPNG(dh.Doc, dh.Root, out, PNGOptions{DPI: dpi}); err != nil {
				return fmt.Errorf("png export: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"svg", "png"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"svg"}
	}
}

func presetDPI(p PresetName) int {
	switch p {
	case PresetPrint:
		return 300
	default:
		return 96
	}
}

func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "canvas"
	}
	repl := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")
	return repl.Replace(s)
}
