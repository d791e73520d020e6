/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gocanvaskit/internal/crash"
	"gocanvaskit/internal/export"
	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/storage"
	"gocanvaskit/internal/ui"
	"gocanvaskit/internal/version"
)

func usage() {
	fmt.Println("GoCanvasKit — interactive canvas toolkit")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gocanvaskit version|-v|--version             Show version")
	fmt.Println("  gocanvaskit init <dir> <name> [w] [h]         Create a new document at <dir>")
	fmt.Println("  gocanvaskit open <dir>                        Open document at <dir> and print summary")
	fmt.Println("  gocanvaskit save <dir>                        Re-save document at <dir> (creates backup)")
	fmt.Println("  gocanvaskit export <dir> <preset>             Batch-export with preset: web | print")
	fmt.Println("  gocanvaskit search <dir> <query>              Full-text search over text objects")
	fmt.Println("  gocanvaskit ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var dh *storage.DocumentHandle
	defer func() { crash.Recover(dh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GoCanvasKit — interactive canvas toolkit")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			width, height := 1200.0, 800.0
			if len(args) >= 5 {
				if v, err := strconv.ParseFloat(args[4], 64); err == nil && v > 0 {
					width = v
				}
			}
			if len(args) >= 6 {
				if v, err := strconv.ParseFloat(args[5], 64); err == nil && v > 0 {
					height = v
				}
			}
			abs, _ := filepath.Abs(dir)
			l.Info("init document", slog.String("root", abs), slog.String("name", name))
			h, err := storage.Init(abs, scene.NewDocument(name, width, height))
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Println("Created document at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Printf("Opened document: %s\n", h.Doc.Name)
			fmt.Printf("Size: %.0fx%.0f\n", h.Doc.Width, h.Doc.Height)
			fmt.Printf("Objects: %d\n", len(h.Doc.Objects))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := storage.UpdateIndex(ctx, h.Root, h.Doc); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			cancel()
			fmt.Println("Saved document and created a backup of the previous manifest (if any).")
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and <preset>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			preset := export.PresetName(args[3])
			if preset != export.PresetWeb && preset != export.PresetPrint {
				fmt.Printf("unknown preset %q (want web or print)\n", args[3])
				os.Exit(2)
			}
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			l.Info("batch export", slog.String("root", abs), slog.String("preset", string(preset)))
			if err := export.BatchExport(h, export.BatchOptions{Preset: preset}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(abs, "exports", string(preset)))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			query := args[3]
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			// The index may not exist yet for documents created elsewhere.
			if _, err := storage.DetectAndRebuildIndex(ctx, abs, h.Doc); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ids, err := storage.SearchText(ctx, abs, query)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, id := range ids {
				line := id
				if o, ok := h.Doc.Get(id); ok && o.Text != nil {
					line = fmt.Sprintf("%s  %q", id, o.Text.Content)
				}
				fmt.Println(line)
			}
			fmt.Printf("%d results\n", len(ids))
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
