// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/scamtrap-tui/internal/config"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"list", "--limit", "20", "--session=sess_1", "--json", "--verbose=false", "extra"})

	assert.Equal(t, "list", p.Subcommand())
	assert.Equal(t, "20", p.Flag("limit"))
	assert.Equal(t, "sess_1", p.Flag("--session"))
	assert.True(t, p.BoolFlag("json"))
	assert.False(t, p.BoolFlag("verbose"))
	assert.True(t, p.HasFlag("verbose"))
	assert.False(t, p.HasFlag("missing"))
	assert.Equal(t, []string{"list", "extra"}, p.PositionalFrom(0))
	assert.Equal(t, "", p.Positional(5))
	assert.Nil(t, p.PositionalFrom(9))

	n, err := p.FlagInt("limit")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = p.FlagInt("missing")
	assert.Error(t, err)
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
}

func TestArgParser_Empty(t *testing.T) {
	p := NewArgParser(nil)
	assert.Equal(t, "", p.Subcommand())
	assert.Nil(t, p.PositionalFrom(0))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"on", "YES", "true", "1", " y "} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"off", "no", "false", "0", "N"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestParsePositiveInt(t *testing.T) {
	v, err := ParsePositiveInt("7", "--limit")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	for _, s := range []string{"", "x", "0", "-3"} {
		_, err := ParsePositiveInt(s, "--limit")
		assert.Error(t, err, s)
	}
}

// =============================================================================
// COMMAND PARSING TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(t *testing.T, a Args)
	}{
		{name: "no args starts tui", argv: nil, wantCmd: CmdTUI},
		{
			name:    "plain without command starts repl",
			argv:    []string{"--plain"},
			wantCmd: CmdChat,
			check:   func(t *testing.T, a Args) { assert.True(t, a.Plain) },
		},
		{
			name:    "global flags",
			argv:    []string{"--honeypot", "--no-voice", "--backend", "http://10.0.0.2:8000", "--config=/tmp/c.toml"},
			wantCmd: CmdTUI,
			check: func(t *testing.T, a Args) {
				assert.True(t, a.Honeypot)
				assert.True(t, a.NoVoice)
				assert.Equal(t, "http://10.0.0.2:8000", a.BackendURL)
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
			},
		},
		{name: "chat", argv: []string{"chat"}, wantCmd: CmdChat},
		{
			name:    "vault with flags after command",
			argv:    []string{"vault", "list", "--limit", "5", "--json"},
			wantCmd: CmdVault,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "list", a.Subcommand)
				assert.True(t, a.JSON)
				assert.Equal(t, []string{"list", "--limit", "5"}, a.Raw)
			},
		},
		{
			name:    "config set",
			argv:    []string{"config", "set", "speech.rate", "160"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "set", a.Subcommand)
				assert.Equal(t, []string{"set", "speech.rate", "160"}, a.Raw)
			},
		},
		{name: "version flag", argv: []string{"--version"}, wantCmd: CmdVersion},
		{name: "help", argv: []string{"help"}, wantCmd: CmdHelp},
		{
			name:    "unknown",
			argv:    []string{"vualt"},
			wantCmd: CmdUnknown,
			check:   func(t *testing.T, a Args) { assert.Equal(t, "vualt", a.Unknown) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "vault", CmdVault.String())
	assert.Equal(t, "unknown", CmdUnknown.String())
}

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"vualt", "vault"},
		{"chta", "chat"},
		{"confg", "config"},
		{"helpp", "help"},
		{"chat", ""},
		{"x", ""},
		{"zzzzzzzz", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestCommand(tt.input), tt.input)
	}
}

func TestUnknownCommandMessage(t *testing.T) {
	assert.Contains(t, UnknownCommandMessage("vualt"), "Did you mean: scamtrap vault?")
	assert.NotContains(t, UnknownCommandMessage("zzzzzzzz"), "Did you mean")
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 1, levenshteinDistance("chat", "cat"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", ErrMissingArgument("TERM", ""), ExitUsageError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"missing key", fmt.Errorf("%w: nope", ErrNoSuchKey), ExitNotFoundError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetExitCode(tt.err), tt.name)
	}
}

func TestDisplayError_JSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "vault list", errors.New("disk gone"), true)
	assert.Contains(t, buf.String(), `"success": false`)
	assert.Contains(t, buf.String(), `"error": "disk gone"`)
	assert.Contains(t, buf.String(), `"command": "vault list"`)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "scamtrap "+Version)
}
