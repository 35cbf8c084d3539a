// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/scamtrap-tui/internal/config"
)

func TestRunConfig_Get(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	require.NoError(t, RunConfig(&buf, cfg, "", Args{Raw: []string{"get", "backend.url"}}))
	assert.Equal(t, "http://127.0.0.1:8000\n", buf.String())
}

func TestRunConfig_GetUnknownKey(t *testing.T) {
	err := RunConfig(&bytes.Buffer{}, config.Default(), "", Args{Raw: []string{"get", "backend.nope"}})
	require.ErrorIs(t, err, ErrNoSuchKey)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestRunConfig_SetWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	var buf bytes.Buffer

	require.NoError(t, RunConfig(&buf, cfg, path, Args{Raw: []string{"set", "speech.rate", "160"}}))
	assert.Contains(t, buf.String(), "speech.rate = 160")
	assert.Equal(t, 160, cfg.Speech.Rate)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 160, loaded.Speech.Rate)
}

func TestRunConfig_SetInvalidLeavesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()

	err := RunConfig(&bytes.Buffer{}, cfg, path, Args{Raw: []string{"set", "ui.theme", "neon"}})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.NoFileExists(t, path)
}

func TestRunConfig_SetMissingValue(t *testing.T) {
	err := RunConfig(&bytes.Buffer{}, config.Default(), "", Args{Raw: []string{"set", "ui.theme"}})
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestRunConfig_PathAndKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunConfig(&buf, config.Default(), "/tmp/scamtrap.toml", Args{Raw: []string{"path"}}))
	assert.Equal(t, "/tmp/scamtrap.toml\n", buf.String())

	buf.Reset()
	require.NoError(t, RunConfig(&buf, config.Default(), "", Args{Raw: []string{"keys"}}))
	keys := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, config.GetAllKeys(), keys)
}

func TestRunConfig_ShowTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunConfig(&buf, config.Default(), "", Args{}))
	assert.Contains(t, buf.String(), "[backend]")
	assert.Contains(t, buf.String(), `theme = "auto"`)
}
