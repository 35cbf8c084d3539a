// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SCAMTRAP_BACKEND_URL", "SCAMTRAP_VOICE", "SCAMTRAP_TTS_COMMAND",
		"SCAMTRAP_VAULT", "SCAMTRAP_LOG", "SCAMTRAP_HONEYPOT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
	assert.Equal(t, "/chat", cfg.Backend.Endpoint)
	assert.Zero(t, cfg.Backend.RequestTimeoutSecs)
	assert.Zero(t, cfg.RequestTimeout())
	assert.True(t, cfg.Speech.Enabled, "voice is on by default")
	assert.False(t, cfg.Session.StartInHoneypot)
	assert.False(t, cfg.Vault.Enabled)
	assert.Equal(t, "md", cfg.Export.Format)
	assert.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{URL: "http://agent.local:9000///", Endpoint: "api/chat"}}
	cfg.SetDefaults()

	assert.Equal(t, "http://agent.local:9000", cfg.Backend.URL)
	assert.Equal(t, "/api/chat", cfg.Backend.Endpoint)
	assert.Equal(t, "md", cfg.Export.Format)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.NotEmpty(t, cfg.Vault.Path)
	assert.False(t, cfg.Speech.Enabled, "booleans are never defaulted")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://x" }, "backend.url"},
		{"missing host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"endpoint", func(c *Config) { c.Backend.Endpoint = "chat" }, "backend.endpoint"},
		{"negative timeout", func(c *Config) { c.Backend.RequestTimeoutSecs = -1 }, "backend.request_timeout_secs"},
		{"huge timeout", func(c *Config) { c.Backend.RequestTimeoutSecs = 99999 }, "backend.request_timeout_secs"},
		{"rate", func(c *Config) { c.Speech.Rate = 10 }, "speech.rate"},
		{"vault path", func(c *Config) { c.Vault.Enabled = true; c.Vault.Path = "" }, "vault.path"},
		{"export format", func(c *Config) { c.Export.Format = "pdf" }, "export.format"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCAMTRAP_BACKEND_URL", "https://agent.example")
	t.Setenv("SCAMTRAP_VOICE", "off")
	t.Setenv("SCAMTRAP_TTS_COMMAND", "espeak-ng")
	t.Setenv("SCAMTRAP_VAULT", "1")
	t.Setenv("SCAMTRAP_LOG", "false")
	t.Setenv("SCAMTRAP_HONEYPOT", "yes")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://agent.example", cfg.Backend.URL)
	assert.False(t, cfg.Speech.Enabled)
	assert.Equal(t, "espeak-ng", cfg.Speech.Command)
	assert.True(t, cfg.Vault.Enabled)
	assert.False(t, cfg.Log.Enabled)
	assert.True(t, cfg.Session.StartInHoneypot)
}

func TestApplyEnvOverrides_Unset(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://10.0.0.5:8000"
	cfg.Backend.RequestTimeoutSecs = 30
	cfg.Speech.Enabled = false
	cfg.Speech.Rate = 180
	cfg.Vault.Enabled = true
	require.NoError(t, SaveTOML(cfg, path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 30*time.Second, loaded.RequestTimeout())
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"http://agent:1234/\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://agent:1234", cfg.Backend.URL)
	assert.Equal(t, "/chat", cfg.Backend.Endpoint)
	assert.True(t, cfg.Speech.Enabled)
}

func TestLoadFromPath_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveJSON(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[backend\nurl ="), 0600))
	_, err := LoadFromPath(broken)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[ui]\ntheme = \"neon\"\n"), 0600))
	_, err = LoadFromPath(invalid)
	assert.Error(t, err)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("backend.url")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", v)

	require.NoError(t, cfg.Set("speech.rate", "200"))
	assert.Equal(t, 200, cfg.Speech.Rate)

	require.NoError(t, cfg.Set("speech.enabled", "false"))
	assert.False(t, cfg.Speech.Enabled)

	require.NoError(t, cfg.Set("session.start_in_honeypot", true))
	assert.True(t, cfg.Session.StartInHoneypot)

	require.NoError(t, cfg.Set("backend.request-timeout-secs", 15))
	assert.Equal(t, 15, cfg.Backend.RequestTimeoutSecs)

	assert.Error(t, cfg.Set("speech.rate", "fast"))
	assert.Error(t, cfg.Set("nope.key", "x"))
	assert.Error(t, cfg.Set("backend", "x"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestGetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".scamtrap", "vault.db"), ExpandPath("~/.scamtrap/vault.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}

func TestClone(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Backend.URL = "http://other:1"
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			assert.NotNil(t, Global())
		}()
	}
	wg.Wait()
}
