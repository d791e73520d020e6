/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config holds the user-editable application configuration persisted
// to a YAML file in the user scope. Environment variables are treated as
// read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// CanvasConfig tunes the interaction engine. Zeroes mean "use the default".
type CanvasConfig struct {
	HistoryLimit     int     `yaml:"history_limit"`
	DragThresholdPx  float64 `yaml:"drag_threshold_px"`
	MinObjectSize    float64 `yaml:"min_object_size"`
	RotateSnapDeg    float64 `yaml:"rotate_snap_deg"`
	ZoomStep         float64 `yaml:"zoom_step"`
	SmartGuides      bool    `yaml:"smart_guides"`
	AutosaveInterval int     `yaml:"autosave_interval_sec"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Canvas: CanvasConfig{
			HistoryLimit:     50,
			DragThresholdPx:  3,
			MinObjectSize:    10,
			RotateSnapDeg:    15,
			ZoomStep:         0.1,
			SmartGuides:      false,
			AutosaveInterval: 120,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn = "GCK_TELEMETRY_OPT_IN"
	EnvHistoryLimit   = "GCK_HISTORY_LIMIT"
	EnvSmartGuides    = "GCK_SMART_GUIDES"
	EnvLogLevel       = "GCK_LOG_LEVEL"
	EnvLogFormat      = "GCK_LOG_FORMAT"
	EnvLogFile        = "GCK_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoCanvasKit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoCanvasKit")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gocanvaskit")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.Canvas.SmartGuides = src.Canvas.SmartGuides
	if src.Canvas.HistoryLimit > 0 {
		dst.Canvas.HistoryLimit = src.Canvas.HistoryLimit
	}
	if src.Canvas.DragThresholdPx > 0 {
		dst.Canvas.DragThresholdPx = src.Canvas.DragThresholdPx
	}
	if src.Canvas.MinObjectSize > 0 {
		dst.Canvas.MinObjectSize = src.Canvas.MinObjectSize
	}
	if src.Canvas.RotateSnapDeg > 0 {
		dst.Canvas.RotateSnapDeg = src.Canvas.RotateSnapDeg
	}
	if src.Canvas.ZoomStep > 0 {
		dst.Canvas.ZoomStep = src.Canvas.ZoomStep
	}
	if src.Canvas.AutosaveInterval > 0 {
		dst.Canvas.AutosaveInterval = src.Canvas.AutosaveInterval
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryLimit)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.HistoryLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSmartGuides)); v != "" {
		cfg.Canvas.SmartGuides = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "canvas.history_limit":
		if os.Getenv(EnvHistoryLimit) != "" {
			return EnvHistoryLimit, true
		}
	case "canvas.smart_guides":
		if os.Getenv(EnvSmartGuides) != "" {
			return EnvSmartGuides, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
