/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocanvaskit/internal/scene"
)

func testDocument(name string) *scene.Document {
	doc := scene.NewDocument(name, 1000, 800)
	rect := &scene.Object{
		ID:        "rect1",
		Kind:      scene.KindShape,
		Transform: scene.NewTransform(100, 100),
		Opacity:   1,
		Visible:   true,
		Shape:     &scene.ShapeData{Shape: scene.ShapeRect, Width: 200, Height: 150},
	}
	txt := &scene.Object{
		ID:        "text1",
		Kind:      scene.KindText,
		Transform: scene.NewTransform(300, 60),
		Opacity:   1,
		ZIndex:    1,
		Visible:   true,
		Text:      &scene.TextData{Content: "hello canvas", FontSize: 16, Anchor: scene.AnchorStart},
	}
	doc.Add(rect)
	doc.Add(txt)
	return doc
}

func TestInitScaffoldsAndWritesManifest(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Scaffold"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	for _, d := range []string{"assets", "exports", BackupsDirName} {
		if st, err := os.Stat(filepath.Join(root, d)); err != nil || !st.IsDir() {
			t.Fatalf("missing subdir %s", d)
		}
	}
	if _, err := os.Stat(dh.ManifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, testDocument("RoundTrip")); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	dh, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if dh.Doc.Name != "RoundTrip" {
		t.Fatalf("name = %q", dh.Doc.Name)
	}
	if len(dh.Doc.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(dh.Doc.Objects))
	}
	o, ok := dh.Doc.Get("text1")
	if !ok || o.Text == nil || o.Text.Content != "hello canvas" {
		t.Fatalf("text object not restored: %+v", o)
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Backup"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	dh.Doc.Name = "Backup v2"
	if err := Save(dh); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	n := 0
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ManifestFileName+".") && strings.HasSuffix(e.Name(), ".bak") {
			n++
		}
	}
	if n == 0 {
		t.Fatalf("no manifest backup created")
	}
}

func TestOpenFallsBackToBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Corruptible"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	// Force a backup of the good manifest, then corrupt the live one.
	if err := Save(dh); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(dh.ManifestPath, []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover via backup, got: %v", err)
	}
	if opened.Doc.Name != "Corruptible" {
		t.Fatalf("recovered name = %q", opened.Doc.Name)
	}
}

func TestOpenRejectsSchemaViolation(t *testing.T) {
	root := t.TempDir()
	// Valid JSON that violates the schema: zero-sized surface, no objects key.
	bad := []byte(`{"name":"bad","width":0,"height":600}`)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), bad, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("Open must fail on schema violation with no backups")
	}
}

func TestManifestConformsToSchema(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Schema"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	data, err := os.ReadFile(dh.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := ValidateManifest(data); err != nil {
		t.Fatalf("written manifest does not validate: %v", err)
	}
}

func TestSaveAsMovesRoot(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Movable"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "moved")
	if err := SaveAs(dh, newRoot); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	if dh.Root != newRoot {
		t.Fatalf("handle root = %q", dh.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest not at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	dh, err := Init(root, testDocument("Crash Snapshot"))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}

	path, err := AutosaveCrashSnapshot(dh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got scene.Document
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Name != "Crash Snapshot" {
		t.Fatalf("snapshot content mismatch: got %q", got.Name)
	}
}
