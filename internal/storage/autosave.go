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
	"errors"
	"log/slog"
	"sync"
	"time"

	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/scene"
)

// DefaultSnapshotKeep bounds the autosave snapshot log in the index.
const DefaultSnapshotKeep = 20

// Autosaver periodically writes captured document snapshots into the index.
// The background loop never touches the live document: Capture deep-copies it
// on the caller's goroutine and ticks marshal only that copy, so in-flight
// edits on the owning thread cannot race the serializer. Safe to Start/Stop
// once each.
type Autosaver struct {
	dh       *DocumentHandle
	interval time.Duration
	keep     int
	log      *slog.Logger

	mu      sync.Mutex
	pending *scene.Document

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewAutosaver builds an autosaver for the handle. interval <= 0 disables it
// (Start becomes a no-op).
func NewAutosaver(dh *DocumentHandle, interval time.Duration, keep int) *Autosaver {
	if keep <= 0 {
		keep = DefaultSnapshotKeep
	}
	return &Autosaver{
		dh:       dh,
		interval: interval,
		keep:     keep,
		log:      applog.WithComponent("autosave"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Capture records a deep copy of the document for the next tick, replacing
// any copy not yet written. Must be called from the goroutine that owns the
// document.
func (a *Autosaver) Capture(doc *scene.Document) {
	if doc == nil {
		return
	}
	clone := doc.Clone()
	a.mu.Lock()
	a.pending = clone
	a.mu.Unlock()
}

// Start launches the background loop.
func (a *Autosaver) Start() error {
	if a.dh == nil {
		return errors.New("autosaver needs a document handle")
	}
	if a.interval <= 0 {
		close(a.done)
		return nil
	}
	go a.loop()
	return nil
}

// Stop terminates the loop and waits for the current tick to finish.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
	<-a.done
}

func (a *Autosaver) loop() {
	defer close(a.done)
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-t.C:
			a.tick()
		}
	}
}

func (a *Autosaver) tick() {
	a.mu.Lock()
	doc := a.pending
	a.pending = nil
	a.mu.Unlock()
	if doc == nil {
		return // nothing captured since the last write
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := SaveSnapshot(ctx, a.dh, doc, SnapshotReasonAutosave, time.Now()); err != nil {
		a.log.Warn("autosave snapshot failed", slog.Any("err", err))
		return
	}
	if _, err := PruneOldSnapshots(ctx, a.dh, a.keep); err != nil {
		a.log.Warn("prune snapshots failed", slog.Any("err", err))
	}
	a.log.Debug("autosave snapshot written")
}
