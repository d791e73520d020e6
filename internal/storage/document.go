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
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gocanvaskit/internal/scene"
)

const (
	ManifestFileName = "canvas.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded under a document root.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

// DocumentHandle keeps track of the canvas document loaded/saved from disk.
// Root is the document directory containing canvas.json and subfolders.
// Doc holds the in-memory representation of the manifest.
type DocumentHandle struct {
	Root         string
	ManifestPath string
	Doc          *scene.Document
}

// Init creates a new document directory at root (creating it if it doesn't
// exist), scaffolds the standard subfolders, and writes the manifest
// transactionally.
func Init(root string, doc *scene.Document) (*DocumentHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if doc == nil {
		return nil, errors.New("nil document")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create document root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	dh := &DocumentHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Doc:          doc,
	}
	if err := Save(dh); err != nil {
		return nil, err
	}
	return dh, nil
}

// Open loads an existing document from the given root directory. The manifest
// is validated against the embedded schema; if the current manifest cannot be
// read, parsed, or validated, the latest backup is tried.
func Open(root string) (*DocumentHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		doc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Root: root, ManifestPath: mpath, Doc: doc}, nil
	}
	doc, perr := parseManifest(b)
	if perr != nil {
		bdoc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", perr, berr)
		}
		return &DocumentHandle{Root: root, ManifestPath: mpath, Doc: bdoc}, nil
	}
	return &DocumentHandle{Root: root, ManifestPath: mpath, Doc: doc}, nil
}

// parseManifest validates raw manifest bytes against the embedded schema and
// unmarshals them into a document.
func parseManifest(b []byte) (*scene.Document, error) {
	if err := ValidateManifest(b); err != nil {
		return nil, err
	}
	var d scene.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	if d.Objects == nil {
		d.Objects = make(map[string]*scene.Object)
	}
	for _, o := range d.Objects {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	// drop selection entries pointing at missing objects
	d.SetSelection(d.Selection)
	return &d, nil
}

// Save writes the current DocumentHandle.Doc to disk with transactional
// semantics and a timestamped backup of the previous manifest (if present).
func Save(dh *DocumentHandle) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	if dh.Root == "" || dh.ManifestPath == "" {
		return errors.New("invalid DocumentHandle: missing paths")
	}
	data, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(dh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current manifest exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(dh.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp)
		if cerr := copyFile(dh.ManifestPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(dh.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(dh.ManifestPath); err == nil {
		_ = os.Remove(dh.ManifestPath)
	}
	if rerr := os.Rename(temp, dh.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if
// needed, and updates the handle.
func SaveAs(dh *DocumentHandle, newRoot string) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	dh.Root = newRoot
	dh.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(dh)
}

// AutosaveCrashSnapshot writes the in-memory document to a timestamped file in
// the backups directory without touching the manifest. Used by the crash
// handler, where the manifest may be mid-write.
func AutosaveCrashSnapshot(dh *DocumentHandle) (string, error) {
	if dh == nil {
		return "", errors.New("nil DocumentHandle")
	}
	data, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')
	bdir := filepath.Join(dh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return path, fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped manifest backup.
func openFromLatestBackup(root string) (*scene.Document, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := parseManifest(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return doc, nil
}
