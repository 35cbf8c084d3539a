// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	changes := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(c *Config) { changes <- c })
	require.NoError(t, err)
	defer w.Close()

	// an invalid edit is skipped
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))
	select {
	case <-changes:
		t.Fatal("invalid config was delivered")
	case <-time.After(200 * time.Millisecond):
	}

	cfg := Default()
	cfg.Speech.Voice = "en-gb"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case got := <-changes:
		assert.Equal(t, "en-gb", got.Speech.Voice)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after change")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	changes := make(chan *Config, 1)
	w, err := Watch(path, 20*time.Millisecond, func(c *Config) { changes <- c })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0600))
	select {
	case <-changes:
		t.Fatal("change to another file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, err := Watch(path, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatch_MissingDir(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "missing", "config.toml"), 0, nil)
	assert.Error(t, err)
}
