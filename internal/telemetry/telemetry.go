/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, strictly opt-in usage events (gesture
// commits, undo/redo counts) and optional crash reports. Senders never block
// the input path: events go through a bounded queue and are dropped when it
// is full or when no endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "gocanvaskit/internal/log"
	"gocanvaskit/internal/version"
)

// Config controls the telemetry client. Everything defaults to off.
//
// Environment variables read by FromEnv:
//   - GCK_TELEMETRY_OPT_IN: truthy value enables event sending
//   - GCK_TELEMETRY_URL: endpoint that receives JSON events via POST
//   - GCK_CRASH_UPLOAD_URL: endpoint that receives crash reports
//   - GCK_TELEMETRY_TIMEOUT_MS: per-request timeout, default 1500
//   - GCK_TELEMETRY_DEBUG: log send attempts at debug level
//
// Without an endpoint every call is a no-op, opt-in or not.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

const (
	defaultTimeout = 1500 * time.Millisecond
	queueCapacity  = 64
)

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:        truthy(os.Getenv("GCK_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("GCK_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("GCK_CRASH_UPLOAD_URL")),
		Timeout:      defaultTimeout,
		DebugLogging: os.Getenv("GCK_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("GCK_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if d, err := time.ParseDuration(ms + "ms"); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client queues events and posts them from a single background goroutine.
type Client struct {
	cfg   Config
	log   *slog.Logger
	httpc *http.Client
	queue chan map[string]any
	done  chan struct{}
	stop  sync.Once
}

// New constructs a client and starts its sender goroutine.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:   cfg,
		log:   applog.WithComponent("telemetry"),
		httpc: &http.Client{Timeout: cfg.Timeout},
		queue: make(chan map[string]any, queueCapacity),
		done:  make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-c.done:
				return
			case ev := <-c.queue:
				c.post(c.cfg.EventsURL, "application/json", mustJSON(ev), "event")
			}
		}
	}()
	return c
}

// Enabled reports whether events will actually be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event enqueues a named event with optional non-PII properties. It never
// blocks; a full queue drops the event.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		ev[k] = v
	}
	select {
	case c.queue <- ev:
	default:
	}
}

// UploadCrash posts a serialized crash report, fire-and-forget. Crash uploads
// bypass the event queue so a dying process gets one direct attempt.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	body := append([]byte(nil), report...)
	go c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", body, "crash report")
}

// Flush waits up to half a second for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for len(c.queue) > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the sender goroutine. Queued events are discarded.
func (c *Client) Close() { c.stop.Do(func() { close(c.done) }) }

func (c *Client) post(url, contentType string, body []byte, what string) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.httpc.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("send failed", slog.String("what", what), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("sent", slog.String("what", what))
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

// Package-level default client, initialized lazily from the environment.
var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault initializes the default client from env on first use.
func InitDefault() {
	defaultOnce.Do(func() { NewDefault(FromEnv()) })
}

// NewDefault installs a client built from cfg as the package default.
func NewDefault(cfg Config) { defaultClient = New(cfg) }

// Enabled reports whether the default client is sending events.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Event sends through the default client.
func Event(name string, props map[string]any) {
	InitDefault()
	defaultClient.Event(name, props)
}

// UploadCrash sends through the default client.
func UploadCrash(report []byte) {
	InitDefault()
	defaultClient.UploadCrash(report)
}
