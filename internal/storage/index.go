/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-document ephemeral/index data under the document root.
	IndexDirName  = ".gck"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the document's embedded index database file.
func IndexPath(docRoot string) string {
	return filepath.Join(docRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-document SQLite index exists at
// .gck/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist. The returned *sql.DB is ready for use.
func InitOrOpenIndex(docRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", docRoot),
	)
	if strings.TrimSpace(docRoot) == "" {
		return nil, errors.New("document root is required")
	}
	if err := os.MkdirAll(filepath.Join(docRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .gck dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gck dir: %w", err)
	}

	path := IndexPath(docRoot)
	// Use a URI with shared cache and busy timeout. Forward slashes for the SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Embedded usage: a single connection avoids writer contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_objects_kind ON objects(kind);`,
				`CREATE INDEX IF NOT EXISTS idx_objects_z ON objects(z_index);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			// unknown future step
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Object catalog derived from the manifest; one row per canvas object.
		`CREATE TABLE IF NOT EXISTS objects (
			object_id TEXT    PRIMARY KEY,
			kind      TEXT    NOT NULL,
			z_index   INTEGER NOT NULL,
			x         REAL    NOT NULL,
			y         REAL    NOT NULL,
			rotation  REAL    NOT NULL,
			visible   INTEGER NOT NULL,
			locked    INTEGER NOT NULL,
			text      TEXT
		);`,

		// Contentless FTS5 over text object content, fed via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_objects USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Autosave/history snapshots of the whole document.
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY,
			ts        TEXT    NOT NULL,
			reason    TEXT    NOT NULL,
			doc_blob  BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers keep the contentless FTS in sync with objects.text.
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS objects_ai AFTER INSERT ON objects BEGIN
			INSERT INTO fts_objects(rowid, text) VALUES (new.rowid, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS objects_ad AFTER DELETE ON objects BEGIN
			INSERT INTO fts_objects(fts_objects, rowid, text) VALUES ('delete', old.rowid, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS objects_au AFTER UPDATE OF text ON objects BEGIN
			INSERT INTO fts_objects(fts_objects, rowid, text) VALUES ('delete', old.rowid, old.text);
			INSERT INTO fts_objects(rowid, text) VALUES (new.rowid, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// UpdateIndex replaces the object catalog content from the given document.
func UpdateIndex(ctx context.Context, docRoot string, doc *scene.Document) error {
	db, err := InitOrOpenIndex(docRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildObjectsFromDocument(ctx, db, doc)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from
// the manifest. Meta/version tables are preserved. The index is derived from
// canvas.json, so this is always safe.
func RebuildIndex(ctx context.Context, docRoot string, doc *scene.Document) error {
	db, err := InitOrOpenIndex(docRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TRIGGER IF EXISTS objects_ai;",
		"DROP TRIGGER IF EXISTS objects_ad;",
		"DROP TRIGGER IF EXISTS objects_au;",
		"DROP TABLE IF EXISTS objects;",
		"DROP TABLE IF EXISTS fts_objects;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	if err := runMigrations(ctx, db); err != nil {
		return err
	}
	return rebuildObjectsFromDocument(ctx, db, doc)
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds
// the index if needed. It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, docRoot string, doc *scene.Document) (bool, error) {
	path := IndexPath(docRoot)
	db, err := InitOrOpenIndex(docRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, docRoot, doc); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM objects LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, docRoot, doc); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .gck/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// SearchText returns ids of text objects whose content matches the FTS query,
// most relevant first.
func SearchText(ctx context.Context, docRoot string, query string) ([]string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	db, err := InitOrOpenIndex(docRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, `
		SELECT o.object_id
		FROM fts_objects f
		JOIN objects o ON o.rowid = f.rowid
		WHERE fts_objects MATCH ?
		ORDER BY rank;`, q)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rebuildObjectsFromDocument replaces the objects table content from the document.
func rebuildObjectsFromDocument(ctx context.Context, db *sql.DB, doc *scene.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM objects;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear objects: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO objects(object_id, kind, z_index, x, y, rotation, visible, locked, text) VALUES(?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	if doc != nil {
		for _, o := range doc.ZOrder() {
			var text sql.NullString
			if o.Kind == scene.KindText && o.Text != nil {
				if s := strings.TrimSpace(o.Text.Content); s != "" {
					text = sql.NullString{String: s, Valid: true}
				}
			}
			if _, err := ins.ExecContext(ctx, o.ID, string(o.Kind), o.ZIndex,
				o.Transform.X, o.Transform.Y, o.Transform.Rotation,
				boolToInt(o.Visible), boolToInt(o.Locked), text); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert object: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
