/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"gocanvaskit/internal/scene"
)

// Snapshot reasons recorded alongside document blobs in the index.
const (
	SnapshotReasonAutosave = "autosave"
	SnapshotReasonManual   = "manual"
	SnapshotReasonCrash    = "crash"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(ts, reason, doc_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, doc_blob FROM snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, reason, doc_blob FROM snapshots ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC LIMIT ?
)`

// SnapshotRecord is one stored document snapshot.
type SnapshotRecord struct {
	TS     time.Time
	Reason string
	Blob   []byte
}

// SaveSnapshot serializes the given document and persists it with a timestamp
// and reason into the handle's per-document index. Callers that snapshot off
// the document's owning goroutine must pass an independent copy.
func SaveSnapshot(ctx context.Context, dh *DocumentHandle, doc *scene.Document, reason string, ts time.Time) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	if doc == nil {
		doc = dh.Doc
	}
	if reason == "" {
		reason = SnapshotReasonManual
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), reason, blob)
	return err
}

// GetLatestSnapshot returns the latest snapshot blob or nil if none exists.
func GetLatestSnapshot(ctx context.Context, dh *DocumentHandle) ([]byte, time.Time, error) {
	if dh == nil {
		return nil, time.Time{}, errors.New("nil DocumentHandle")
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return blob, time.Time{}, nil // return blob even if ts parse fails
	}
	return blob, ts, nil
}

// ListSnapshots returns up to limit most recent snapshots.
func ListSnapshots(ctx context.Context, dh *DocumentHandle, limit int) ([]SnapshotRecord, error) {
	if dh == nil {
		return nil, errors.New("nil DocumentHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []SnapshotRecord
	for rows.Next() {
		var tsStr, reason string
		var blob []byte
		if err := rows.Scan(&tsStr, &reason, &blob); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, SnapshotRecord{TS: ts, Reason: reason, Blob: blob})
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneOldSnapshots(ctx context.Context, dh *DocumentHandle, keepLast int) (int64, error) {
	if dh == nil {
		return 0, errors.New("nil DocumentHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
