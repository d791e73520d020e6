/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// lastJSONLine returns the final non-empty line of the file parsed as JSON.
func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) == 0 || lines[len(lines)-1] == "" {
		t.Fatalf("log file has no lines")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("parse log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestFileSinkWritesStructuredJSON(t *testing.T) {
	// The sink keeps the file handle open, so place it in the system temp dir
	// rather than t.TempDir (Windows cleanup would race the open handle).
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("gck_log_%d.json", time.Now().UnixNano()))

	Init(Options{Level: "debug", Format: "json", File: fpath})
	l := WithOperation(WithComponent("testcomp"), "op1")
	l.Info("hello world", slog.String("k", "v"))

	time.Sleep(50 * time.Millisecond) // let the write settle

	m := lastJSONLine(t, fpath)
	if m["app"] != "gocanvaskit" {
		t.Fatalf("app attr = %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("ver attr missing or not a string: %v", m["ver"])
	}
	for key, want := range map[string]string{"component": "testcomp", "op": "op1", "msg": "hello world", "k": "v"} {
		if m[key] != want {
			t.Fatalf("%s = %v, want %q", key, m[key], want)
		}
	}
}
