//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gocanvaskit/internal/config"
	"gocanvaskit/internal/crash"
	"gocanvaskit/internal/export"
	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/storage"
	"gocanvaskit/internal/tool"
	"gocanvaskit/internal/version"
)

// Run starts the Fyne-based desktop canvas editor. docDir optionally names a
// document directory to open immediately.
func Run(docDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	var dh *storage.DocumentHandle
	var saver *storage.Autosaver
	defer func() { crash.Recover(dh) }()

	fyneApp := app.NewWithID("gocanvaskit")
	w := fyneApp.NewWindow("GoCanvasKit")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	toolCfg := tool.DefaultConfig()
	if cfg.Canvas.DragThresholdPx > 0 {
		toolCfg.DragThreshold = cfg.Canvas.DragThresholdPx
	}
	if cfg.Canvas.MinObjectSize > 0 {
		toolCfg.MinObjectSize = cfg.Canvas.MinObjectSize
	}
	if cfg.Canvas.RotateSnapDeg > 0 {
		toolCfg.RotateSnap = cfg.Canvas.RotateSnapDeg
	}
	if cfg.Canvas.ZoomStep > 0 {
		toolCfg.ZoomStep = cfg.Canvas.ZoomStep
	}
	toolCfg.SnapEnabled = cfg.Canvas.SmartGuides
	historyLimit := cfg.Canvas.HistoryLimit

	status := widget.NewLabel("Ready")
	cv := NewCanvasView(toolCfg)

	// Object list (left pane), topmost first.
	objectDisplay := []string{}
	objectIDs := []string{}
	objectList := widget.NewList(
		func() int { return len(objectDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(objectDisplay) {
				o.(*widget.Label).SetText(objectDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	refreshObjects := func() {
		objectDisplay = objectDisplay[:0]
		objectIDs = objectIDs[:0]
		if cv.Editor() != nil {
			for _, o := range cv.Editor().TopDown() {
				objectDisplay = append(objectDisplay, describeObject(o))
				objectIDs = append(objectIDs, o.ID)
			}
		}
		objectList.Refresh()
	}
	objectList.OnSelected = func(id widget.ListItemID) {
		if cv.Editor() == nil || id < 0 || int(id) >= len(objectIDs) {
			return
		}
		cv.Editor().SetSelection([]string{objectIDs[id]})
		cv.Refresh()
	}

	// Tool switcher and history buttons.
	var undoBtn, redoBtn *widget.Button
	updateHistoryButtons := func() {
		if cv.Editor() == nil {
			undoBtn.Disable()
			redoBtn.Disable()
			return
		}
		if cv.Editor().CanUndo() {
			undoBtn.Enable()
		} else {
			undoBtn.Disable()
		}
		if cv.Editor().CanRedo() {
			redoBtn.Enable()
		} else {
			redoBtn.Disable()
		}
	}
	undoBtn = widget.NewButton("Undo", func() {
		if cv.Editor() != nil && cv.Editor().Undo() {
			status.SetText("Undo")
			cv.Refresh()
		}
	})
	redoBtn = widget.NewButton("Redo", func() {
		if cv.Editor() != nil && cv.Editor().Redo() {
			status.SetText("Redo")
			cv.Refresh()
		}
	})
	toolSwitch := widget.NewRadioGroup([]string{"Select", "Pan"}, func(sel string) {
		if cv.Manager() == nil {
			return
		}
		switch sel {
		case "Pan":
			cv.Manager().SetTool(tool.ToolPan)
		default:
			cv.Manager().SetTool(tool.ToolSelect)
		}
	})
	toolSwitch.Horizontal = true
	toolSwitch.SetSelected("Select")

	// Full-text search over the document index (right pane).
	searchItems := []string{}
	searchIDs := []string{}
	searchList := widget.NewList(
		func() int { return len(searchItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(searchItems[i]) },
	)
	searchList.OnSelected = func(id widget.ListItemID) {
		if cv.Editor() == nil || id < 0 || int(id) >= len(searchIDs) {
			return
		}
		cv.Editor().SetSelection([]string{searchIDs[id]})
		cv.Refresh()
	}
	searchBox := widget.NewEntry()
	searchBox.SetPlaceHolder("Search text objects (Ctrl+K)")
	runSearch := func(q string) {
		qq := strings.TrimSpace(q)
		if qq == "" || dh == nil {
			searchItems = searchItems[:0]
			searchIDs = searchIDs[:0]
			searchList.Refresh()
			return
		}
		status.SetText("Searching")
		go func(root, text string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			ids, serr := storage.SearchText(ctx, root, text)
			fyne.Do(func() {
				if serr != nil {
					l.Error("search failed", slog.Any("err", serr))
					status.SetText("Search failed.")
					return
				}
				searchItems = searchItems[:0]
				searchIDs = searchIDs[:0]
				doc := cv.Editor().Document()
				for _, id := range ids {
					label := id
					if o, ok := doc.Get(id); ok {
						label = describeObject(o)
					}
					searchItems = append(searchItems, label)
					searchIDs = append(searchIDs, id)
				}
				searchList.Refresh()
				status.SetText(fmt.Sprintf("%d results", len(ids)))
			})
		}(dh.Root, qq)
	}
	searchBox.OnSubmitted = func(s string) { runSearch(s) }

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Objects"), widget.NewSeparator()), nil, nil, nil,
		objectList,
	)
	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("Search"), searchBox), nil, nil, nil,
		searchList,
	)
	topBar := container.NewHBox(toolSwitch, widget.NewSeparator(), undoBtn, redoBtn)
	editorPane := container.NewBorder(topBar, nil, left, right, container.NewMax(cv))
	editorContent := container.NewBorder(nil, status, nil, nil, editorPane)
	root := container.NewMax(editorContent)
	w.SetContent(root)

	// Forward declarations for view switchers used before they are built.
	var showEditor func()
	var showDashboard func()
	var closeDocItem *fyne.MenuItem

	attachDocument := func(h *storage.DocumentHandle) {
		if saver != nil {
			saver.Stop()
			saver = nil
		}
		dh = h
		cv.SetDocument(h.Doc, historyLimit)

		interval := time.Duration(cfg.Canvas.AutosaveInterval) * time.Second
		saver = storage.NewAutosaver(dh, interval, storage.DefaultSnapshotKeep)
		// Snapshots are captured here on the UI thread; the autosaver's
		// background loop only ever marshals the captured copy.
		cv.Editor().OnChange(func() {
			dh.Doc = cv.Editor().Document()
			saver.Capture(dh.Doc)
			refreshObjects()
			updateHistoryButtons()
		})
		refreshObjects()
		updateHistoryButtons()
		saver.Capture(h.Doc)
		if serr := saver.Start(); serr != nil {
			l.Warn("autosaver not started", slog.Any("err", serr))
		}

		// Index health check off the UI thread; rebuilds if the sqlite file
		// is corrupt or missing.
		go func(root string, doc *scene.Document) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if rebuilt, ierr := storage.DetectAndRebuildIndex(ctx, root, doc); ierr != nil {
				l.Warn("index check failed", slog.Any("err", ierr))
			} else if rebuilt {
				l.Info("search index rebuilt", slog.String("root", root))
			}
		}(h.Root, h.Doc)

		w.SetTitle(fmt.Sprintf("GoCanvasKit - %s", h.Doc.Name))
		closeDocItem.Disabled = false
		addRecentDocument(prefs, h.Root)
		showEditor()
	}

	saveDocument := func() error {
		if dh == nil {
			return fmt.Errorf("no document open")
		}
		dh.Doc = cv.Editor().Document()
		if serr := storage.Save(dh); serr != nil {
			return serr
		}
		go func(root string, doc *scene.Document) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if ierr := storage.UpdateIndex(ctx, root, doc); ierr != nil {
				l.Warn("index update failed", slog.Any("err", ierr))
			}
		}(dh.Root, dh.Doc)
		return nil
	}

	// File menu.
	newItem := fyne.NewMenuItem("New…", func() {
		l.Info("menu: new document")
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, derr error) {
			if derr != nil {
				l.Error("new dialog error", slog.Any("err", derr))
				return
			}
			if uri == nil {
				return
			}
			abs := uri.Path()
			nameEntry := widget.NewEntry()
			nameEntry.SetPlaceHolder("Canvas Name")
			wEntry := widget.NewEntry()
			wEntry.SetText("1200")
			hEntry := widget.NewEntry()
			hEntry.SetText("800")
			form := dialog.NewForm("New Canvas", "Create", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Name", nameEntry),
				widget.NewFormItem("Width", wEntry),
				widget.NewFormItem("Height", hEntry),
			}, func(ok bool) {
				if !ok {
					return
				}
				name := strings.TrimSpace(nameEntry.Text)
				if name == "" {
					dialog.ShowInformation("New Canvas", "Please enter a canvas name.", w)
					return
				}
				cw, errW := strconv.ParseFloat(strings.TrimSpace(wEntry.Text), 64)
				ch, errH := strconv.ParseFloat(strings.TrimSpace(hEntry.Text), 64)
				if errW != nil || errH != nil || cw <= 0 || ch <= 0 {
					dialog.ShowError(fmt.Errorf("width and height must be positive numbers"), w)
					return
				}
				h, ierr := storage.Init(abs, scene.NewDocument(name, cw, ch))
				if ierr != nil {
					l.Error("init document failed", slog.Any("err", ierr))
					dialog.ShowError(ierr, w)
					return
				}
				attachDocument(h)
				status.SetText("Created document: " + abs)
			}, w)
			form.Show()
		}, w)
		fd.Show()
	})
	openItem := fyne.NewMenuItem("Open…", func() {
		l.Info("menu: open document")
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, derr error) {
			if derr != nil {
				l.Error("open dialog error", slog.Any("err", derr))
				return
			}
			if uri == nil {
				return
			}
			abs := uri.Path()
			h, oerr := storage.Open(abs)
			if oerr != nil {
				l.Error("open document failed", slog.Any("err", oerr))
				dialog.ShowError(oerr, w)
				return
			}
			attachDocument(h)
			status.SetText("Opened document: " + abs)
		}, w)
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save", func() {
		l.Info("menu: save")
		if dh == nil {
			dialog.ShowInformation("Save", "No document open.", w)
			return
		}
		if serr := saveDocument(); serr != nil {
			l.Error("save failed", slog.Any("err", serr))
			dialog.ShowError(serr, w)
			return
		}
		status.SetText("Saved document.")
	})
	saveAsItem := fyne.NewMenuItem("Save As…", func() {
		if dh == nil {
			dialog.ShowInformation("Save As", "No document open.", w)
			return
		}
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, derr error) {
			if derr != nil || uri == nil {
				return
			}
			dh.Doc = cv.Editor().Document()
			if serr := storage.SaveAs(dh, uri.Path()); serr != nil {
				dialog.ShowError(serr, w)
				return
			}
			addRecentDocument(prefs, dh.Root)
			status.SetText("Saved document to " + dh.Root)
		}, w)
		fd.Show()
	})
	closeDocItem = fyne.NewMenuItem("Close Document", func() {
		if dh == nil {
			return
		}
		l.Info("menu: close document")
		if saver != nil {
			saver.Stop()
			saver = nil
		}
		dh = nil
		cv.SetDocument(nil, historyLimit)
		refreshObjects()
		updateHistoryButtons()
		searchItems = searchItems[:0]
		searchIDs = searchIDs[:0]
		searchList.Refresh()
		w.SetTitle("GoCanvasKit")
		status.SetText("Document closed.")
		closeDocItem.Disabled = true
		showDashboard()
	})
	closeDocItem.Disabled = true
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	closeDocItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}
	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem, saveAsItem, fyne.NewMenuItemSeparator(), closeDocItem)

	// Edit menu.
	undoItem := fyne.NewMenuItem("Undo", func() {
		if cv.Editor() != nil && cv.Editor().Undo() {
			cv.Refresh()
		}
	})
	redoItem := fyne.NewMenuItem("Redo", func() {
		if cv.Editor() != nil && cv.Editor().Redo() {
			cv.Refresh()
		}
	})
	deleteItem := fyne.NewMenuItem("Delete Selected", func() {
		if cv.Editor() == nil {
			return
		}
		sel := cv.Editor().Selection()
		if len(sel) == 0 {
			dialog.ShowInformation("Delete Selected", "Nothing selected.", w)
			return
		}
		cv.Editor().DeleteObjects(sel...)
		cv.Refresh()
		status.SetText("Deleted selection")
	})
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), deleteItem)

	// Insert menu: new objects land at the canvas center.
	center := func() (float64, float64) {
		doc := cv.Editor().Document()
		return doc.Width / 2, doc.Height / 2
	}
	insertRectItem := fyne.NewMenuItem("Rectangle", func() {
		if cv.Editor() == nil {
			return
		}
		cx, cy := center()
		if _, ierr := cv.Editor().AddRect(cx-70, cy-45, 140, 90, scene.Color{R: 235, G: 235, B: 235, A: 255}); ierr != nil {
			dialog.ShowError(ierr, w)
			return
		}
		cv.Refresh()
		status.SetText("Inserted rectangle")
	})
	insertEllipseItem := fyne.NewMenuItem("Ellipse", func() {
		if cv.Editor() == nil {
			return
		}
		cx, cy := center()
		if _, ierr := cv.Editor().AddEllipse(cx, cy, 70, 50, scene.Color{R: 235, G: 235, B: 235, A: 255}); ierr != nil {
			dialog.ShowError(ierr, w)
			return
		}
		cv.Refresh()
		status.SetText("Inserted ellipse")
	})
	insertCircleItem := fyne.NewMenuItem("Circle", func() {
		if cv.Editor() == nil {
			return
		}
		cx, cy := center()
		if _, ierr := cv.Editor().AddCircle(cx, cy, 50, scene.Color{R: 235, G: 235, B: 235, A: 255}); ierr != nil {
			dialog.ShowError(ierr, w)
			return
		}
		cv.Refresh()
		status.SetText("Inserted circle")
	})
	insertTextItem := fyne.NewMenuItem("Text…", func() {
		if cv.Editor() == nil {
			return
		}
		contentEntry := widget.NewEntry()
		contentEntry.SetPlaceHolder("Text content")
		sizeEntry := widget.NewEntry()
		sizeEntry.SetText("16")
		form := dialog.NewForm("Insert Text", "Insert", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Content", contentEntry),
			widget.NewFormItem("Font Size", sizeEntry),
		}, func(ok bool) {
			if !ok {
				return
			}
			size, perr := strconv.ParseFloat(strings.TrimSpace(sizeEntry.Text), 64)
			if perr != nil || size <= 0 {
				size = 16
			}
			cx, cy := center()
			if _, ierr := cv.Editor().AddText(cx, cy, contentEntry.Text, size); ierr != nil {
				dialog.ShowError(ierr, w)
				return
			}
			cv.Refresh()
			status.SetText("Inserted text")
		}, w)
		form.Show()
	})
	insertImageItem := fyne.NewMenuItem("Image…", func() {
		if cv.Editor() == nil || dh == nil {
			return
		}
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, derr error) {
			if derr != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			href := path
			if rel, rerr := filepath.Rel(dh.Root, path); rerr == nil && !strings.HasPrefix(rel, "..") {
				href = rel
			}
			cx, cy := center()
			if _, ierr := cv.Editor().AddImage(cx-100, cy-75, href, 200, 150); ierr != nil {
				dialog.ShowError(ierr, w)
				return
			}
			cv.Refresh()
			status.SetText("Inserted image: " + filepath.Base(path))
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".svg"}))
		fd.Show()
	})
	insertMenu := fyne.NewMenu("Insert", insertRectItem, insertEllipseItem, insertCircleItem, insertTextItem, insertImageItem)

	// Export menu.
	exportSingle := func(title, ext string, run func(outPath string) error) {
		if dh == nil {
			dialog.ShowInformation(title, "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, derr error) {
			if derr != nil {
				dialog.ShowError(derr, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if rerr := run(outPath); rerr != nil {
				dialog.ShowError(rerr, w)
			} else {
				dialog.ShowInformation(title, "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName(sanitizedDocName(cv.Editor().Document().Name) + ext)
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{ext}))
		save.Show()
	}
	exportSVGItem := fyne.NewMenuItem("Export as SVG…", func() {
		exportSingle("Export SVG", ".svg", func(out string) error {
			return export.ExportSVG(cv.Editor().Document(), dh.Root, out, export.SVGOptions{})
		})
	})
	exportPNGItem := fyne.NewMenuItem("Export as PNG…", func() {
		exportSingle("Export PNG", ".png", func(out string) error {
			return export.ExportPNG(cv.Editor().Document(), dh.Root, out, export.PNGOptions{})
		})
	})
	exportPDFItem := fyne.NewMenuItem("Export as PDF…", func() {
		exportSingle("Export PDF", ".pdf", func(out string) error {
			return export.ExportPDF(cv.Editor().Document(), dh.Root, out, export.PDFOptions{})
		})
	})
	exportPreset := func(p export.PresetName) {
		if dh == nil {
			dialog.ShowInformation("Export Preset", "No document open.", w)
			return
		}
		dh.Doc = cv.Editor().Document()
		if rerr := export.BatchExport(dh, export.BatchOptions{Preset: p}); rerr != nil {
			dialog.ShowError(rerr, w)
			return
		}
		dialog.ShowInformation("Export Preset", fmt.Sprintf("Exported %q preset under %s", p, filepath.Join(dh.Root, "exports")), w)
	}
	exportWebItem := fyne.NewMenuItem("Web Preset (SVG+PNG)", func() { exportPreset(export.PresetWeb) })
	exportPrintItem := fyne.NewMenuItem("Print Preset (PDF+PNG 300dpi)", func() { exportPreset(export.PresetPrint) })
	exportMenu := fyne.NewMenu("Export", exportSVGItem, exportPNGItem, exportPDFItem, fyne.NewMenuItemSeparator(), exportWebItem, exportPrintItem)

	aboutItem := fyne.NewMenuItem("About GoCanvasKit", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("GoCanvasKit\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, insertMenu, exportMenu, aboutMenu))

	// Key routing: modifiers and editing keys feed the canvas view.
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { cv.HandleKey(ev.Name, true) })
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { cv.HandleKey(ev.Name, false) })
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyK, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		w.Canvas().Focus(searchBox)
	})

	// Dashboard shown when no document is open.
	showEditor = func() {
		root.Objects = []fyne.CanvasObject{editorContent}
		root.Refresh()
	}
	buildDashboard := func() fyne.CanvasObject {
		title := widget.NewLabel("Canvas Dashboard")
		title.TextStyle = fyne.TextStyle{Bold: true}
		newBtn := widget.NewButton("New Canvas…", func() { newItem.Action() })
		openBtn := widget.NewButton("Open Canvas…", func() { openItem.Action() })
		recent := loadRecentDocuments(prefs)
		recList := widget.NewList(
			func() int { return len(recent) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) {
				if i >= 0 && int(i) < len(recent) {
					o.(*widget.Label).SetText(recent[i])
				} else {
					o.(*widget.Label).SetText("")
				}
			},
		)
		recList.OnSelected = func(id widget.ListItemID) {
			if id < 0 || int(id) >= len(recent) {
				return
			}
			h, oerr := storage.Open(recent[id])
			if oerr != nil {
				dialog.ShowError(oerr, w)
				return
			}
			attachDocument(h)
		}
		header := widget.NewLabel("Recent Documents")
		return container.NewBorder(
			container.NewVBox(title, widget.NewSeparator(), container.NewHBox(newBtn, openBtn)),
			nil, nil, nil,
			container.NewBorder(header, nil, nil, nil, recList),
		)
	}
	var dashboard fyne.CanvasObject
	showDashboard = func() {
		dashboard = buildDashboard()
		root.Objects = []fyne.CanvasObject{dashboard}
		root.Refresh()
	}

	// Persist preferences on close.
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if saver != nil {
			saver.Stop()
		}
		w.Close()
	})

	if docDir != "" {
		if h, oerr := storage.Open(docDir); oerr != nil {
			l.Error("auto-open document failed", slog.Any("err", oerr))
		} else {
			attachDocument(h)
		}
	}
	if dh == nil {
		showDashboard()
	}

	w.ShowAndRun()
	return nil
}

// describeObject builds the one-line object list label.
func describeObject(o *scene.Object) string {
	short := o.ID
	if len(short) > 8 {
		short = short[:8]
	}
	d := fmt.Sprintf("z:%d %s %s", o.ZIndex, o.Kind, short)
	switch {
	case o.Kind == scene.KindText && o.Text != nil:
		preview := o.Text.Content
		if len(preview) > 24 {
			preview = preview[:24]
		}
		d += " " + strconv.Quote(preview)
	case o.Kind == scene.KindShape && o.Shape != nil:
		d += " (" + string(o.Shape.Shape) + ")"
	case o.Kind == scene.KindImage && o.Image != nil:
		d += " " + filepath.Base(o.Image.Href)
	}
	if o.Locked {
		d += " [locked]"
	}
	if !o.Visible {
		d += " [hidden]"
	}
	return d
}

func sanitizedDocName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "canvas"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// Recent document persistence for the dashboard.
const recentPrefsKey = "recent.documents"
const recentMax = 10

func loadRecentDocuments(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	if items == nil {
		items = []string{}
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentDocuments(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentDocument(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentDocuments(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentDocuments(p, out)
}
