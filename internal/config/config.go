// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/scamtrap-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete scamtrap configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend is the agent service connection
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Speech controls spoken replies
	Speech SpeechConfig `toml:"speech" json:"speech"`

	// Session controls the initial session state
	Session SessionConfig `toml:"session" json:"session"`

	// Vault controls the intelligence audit log
	Vault VaultConfig `toml:"vault" json:"vault"`

	// Export controls transcript export
	Export ExportConfig `toml:"export" json:"export"`

	// Log controls the diagnostic log file
	Log LogConfig `toml:"log" json:"log"`

	// UI controls the rendering surface
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains agent service settings.
type BackendConfig struct {
	// URL is the service base URL; a trailing slash is ignored
	URL string `toml:"url" json:"url"`
	// Endpoint is the chat path
	Endpoint string `toml:"endpoint" json:"endpoint"`
	// RequestTimeoutSecs bounds each round trip; 0 disables the timeout
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
}

// SpeechConfig contains text-to-speech settings.
type SpeechConfig struct {
	// Enabled speaks every reply (the operator can still toggle it)
	Enabled bool `toml:"enabled" json:"enabled"`
	// Command is an explicit TTS program; empty autodetects
	Command string `toml:"command" json:"command"`
	// Voice is passed to engines that support voice selection
	Voice string `toml:"voice" json:"voice"`
	// Rate is words per minute; 0 keeps the engine default
	Rate int `toml:"rate" json:"rate"`
}

// SessionConfig contains session start settings.
type SessionConfig struct {
	// StartInHoneypot arms the honeypot persona before the first message
	StartInHoneypot bool `toml:"start_in_honeypot" json:"start_in_honeypot"`
}

// VaultConfig contains intelligence vault settings.
type VaultConfig struct {
	// Enabled records every snapshot to the vault database
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database file
	Path string `toml:"path" json:"path"`
}

// ExportConfig contains transcript export settings.
type ExportConfig struct {
	// Dir is where transcripts are written
	Dir string `toml:"dir" json:"dir"`
	// Format is "md" or "json"
	Format string `toml:"format" json:"format"`
	// OpenAfter opens the exported file in the default application
	OpenAfter bool `toml:"open_after" json:"open_after"`
}

// LogConfig contains diagnostic log settings.
type LogConfig struct {
	// Enabled writes the event log to Path
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the log file
	Path string `toml:"path" json:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Plain uses the line-oriented REPL instead of the full-screen UI
	Plain bool `toml:"plain" json:"plain"`
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:                "http://127.0.0.1:8000",
			Endpoint:           "/chat",
			RequestTimeoutSecs: 0, // no timeout
		},

		Speech: SpeechConfig{
			Enabled: true,
		},

		Vault: VaultConfig{
			Enabled: false,
			Path:    "~/.scamtrap/vault.db",
		},

		Export: ExportConfig{
			Dir:    ".",
			Format: "md",
		},

		Log: LogConfig{
			Enabled: true,
			Path:    "~/.scamtrap/scamtrap.log",
		},

		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// RequestTimeout returns the backend timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the scamtrap configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".scamtrap"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ensureSecurePermissions tightens config file permissions to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.scamtrap/config.toml, falling back to
// config.json and then to defaults. Environment overrides are applied last.
// A file that fails to parse yields defaults plus the load error.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads a specific file over the defaults, then applies
// environment overrides and validates. Files ending in .json are JSON,
// everything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills empty values with defaults. Booleans are left alone:
// false is a valid explicit choice.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.Endpoint == "" {
		c.Backend.Endpoint = defaults.Backend.Endpoint
	}
	if !strings.HasPrefix(c.Backend.Endpoint, "/") {
		c.Backend.Endpoint = "/" + c.Backend.Endpoint
	}
	if c.Vault.Path == "" {
		c.Vault.Path = defaults.Vault.Path
	}
	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Log.Path
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# scamtrap configuration file\n")
	buf.WriteString("# Generated by scamtrap - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Limits enforced by Validate.
const (
	MaxRequestTimeoutSecs = 3600
	MinSpeechRate         = 80
	MaxSpeechRate         = 500
)

// Validate validates the configuration and returns ValidateErrors when
// anything is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil {
		errs = append(errs, ValidationError{"backend.url", fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"backend.url", "scheme must be http or https"})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{"backend.url", "missing host"})
	}

	if !strings.HasPrefix(c.Backend.Endpoint, "/") {
		errs = append(errs, ValidationError{"backend.endpoint", "must start with /"})
	}

	if c.Backend.RequestTimeoutSecs < 0 || c.Backend.RequestTimeoutSecs > MaxRequestTimeoutSecs {
		errs = append(errs, ValidationError{"backend.request_timeout_secs",
			fmt.Sprintf("must be between 0 and %d", MaxRequestTimeoutSecs)})
	}

	if c.Speech.Rate != 0 && (c.Speech.Rate < MinSpeechRate || c.Speech.Rate > MaxSpeechRate) {
		errs = append(errs, ValidationError{"speech.rate",
			fmt.Sprintf("must be 0 or between %d and %d", MinSpeechRate, MaxSpeechRate)})
	}

	if c.Vault.Enabled && c.Vault.Path == "" {
		errs = append(errs, ValidationError{"vault.path", "required when the vault is enabled"})
	}

	switch strings.ToLower(c.Export.Format) {
	case "md", "markdown", "json":
	default:
		errs = append(errs, ValidationError{"export.format", "must be md, markdown or json"})
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be dark, light or auto"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SCAMTRAP_BACKEND_URL: overrides backend.url
//   - SCAMTRAP_VOICE: "1"/"true" or "0"/"false", overrides speech.enabled
//   - SCAMTRAP_TTS_COMMAND: overrides speech.command
//   - SCAMTRAP_VAULT: boolean, overrides vault.enabled
//   - SCAMTRAP_LOG: boolean, overrides log.enabled
//   - SCAMTRAP_HONEYPOT: boolean, overrides session.start_in_honeypot
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SCAMTRAP_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v, ok := envBool("SCAMTRAP_VOICE"); ok {
		c.Speech.Enabled = v
	}
	if v := os.Getenv("SCAMTRAP_TTS_COMMAND"); v != "" {
		c.Speech.Command = v
	}
	if v, ok := envBool("SCAMTRAP_VAULT"); ok {
		c.Vault.Enabled = v
	}
	if v, ok := envBool("SCAMTRAP_LOG"); ok {
		c.Log.Enabled = v
	}
	if v, ok := envBool("SCAMTRAP_HONEYPOT"); ok {
		c.Session.StartInHoneypot = v
	}
}

// envBool reads a boolean environment variable. ok is false when unset.
func envBool(key string) (value bool, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	return parseBool(raw), true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "speech.rate").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup resolves a dot-notation key to a leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts snake_case or kebab-case to a Go field name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets field from value with string conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"backend.url",
		"backend.endpoint",
		"backend.request_timeout_secs",
		"speech.enabled",
		"speech.command",
		"speech.voice",
		"speech.rate",
		"session.start_in_honeypot",
		"vault.enabled",
		"vault.path",
		"export.dir",
		"export.format",
		"export.open_after",
		"log.enabled",
		"log.path",
		"ui.plain",
		"ui.theme",
	}
}

// Clone creates a copy of the configuration. Config holds no reference
// types, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
