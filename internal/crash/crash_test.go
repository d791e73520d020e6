/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocanvaskit/internal/scene"
	"gocanvaskit/internal/storage"
)

func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	root := t.TempDir()
	dh, err := storage.Init(root, scene.NewDocument("Crash Doc", 800, 600))
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}

	exitCode := -1
	origExit := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = origExit }()

	func() {
		defer Recover(dh)
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}

	ents, err := os.ReadDir(filepath.Join(root, storage.BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var haveReport, haveSnapshot bool
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			haveReport = true
			b, err := os.ReadFile(filepath.Join(root, storage.BackupsDirName, e.Name()))
			if err != nil {
				t.Fatalf("read report: %v", err)
			}
			if !strings.Contains(string(b), "Panic: boom") {
				t.Fatalf("report missing panic value:\n%s", b)
			}
		}
		if strings.HasPrefix(e.Name(), "autosave-") && strings.HasSuffix(e.Name(), ".json") {
			haveSnapshot = true
		}
	}
	if !haveReport {
		t.Fatalf("no crash report written")
	}
	if !haveSnapshot {
		t.Fatalf("no autosave snapshot written")
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	origExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	defer func() { exitFn = origExit }()

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("Recover must not exit when there is no panic")
	}
}
