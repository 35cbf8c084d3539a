// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		SessionID: "sess_1234",
		StartedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Mode:      model.ModeHoneypot,
		Messages: []model.ChatMessage{
			model.NewUserMessage("Your account is blocked, pay to x@ybl"),
			model.NewAssistantMessage("Oh no! Which bank are you calling from?"),
		},
		Intelligence: &model.IntelligenceSnapshot{
			UPIIDs:        []string{"x@ybl"},
			PhishingLinks: []string{"http://kyc|update.example"},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"md", ".md", false},
		{"Markdown", ".md", false},
		{"", ".md", false},
		{"json", ".json", false},
		{"html", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := NewExporter(tt.format, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, e.FileExtension())
		})
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "session: sess_1234")
	assert.Contains(t, md, "mode: honeypot")
	assert.Contains(t, md, "- **Engine**: HONEYPOT-V1")
	assert.Contains(t, md, "## Extracted Intelligence")
	assert.Contains(t, md, "| UPI IDs | `x@ybl` |")
	assert.Contains(t, md, "| Phishing Links | `http://kyc\\|update.example` |")
	assert.Contains(t, md, "### You <sub>")
	assert.Contains(t, md, "### Agent <sub>")
	assert.Contains(t, md, "Which bank are you calling from?")
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	tr := sampleTranscript()
	tr.Intelligence = nil
	out, err := NewMarkdownExporter(&Options{}).Export(tr)
	require.NoError(t, err)

	md := string(out)
	assert.False(t, strings.HasPrefix(md, "---\n"))
	assert.NotContains(t, md, "Session Information")
	assert.NotContains(t, md, "Extracted Intelligence")
	assert.Contains(t, md, "### You\n\n")
}

func TestExport_Empty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(&Transcript{SessionID: "s"})
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = NewJSONExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestJSONExport(t *testing.T) {
	tr := sampleTranscript()
	out, err := NewJSONExporter(nil).Export(tr)
	require.NoError(t, err)

	var doc struct {
		SessionID string `json:"session_id"`
		Mode      string `json:"mode"`
		Messages  []struct {
			ID      string `json:"id"`
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Intelligence *model.IntelligenceSnapshot `json:"extracted_intelligence"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "sess_1234", doc.SessionID)
	assert.Equal(t, "honeypot", doc.Mode)
	require.Len(t, doc.Messages, 2)
	assert.Equal(t, "user", doc.Messages[0].Role)
	assert.Equal(t, tr.Messages[0].ID, doc.Messages[0].ID)
	assert.Equal(t, "assistant", doc.Messages[1].Role)
	assert.Equal(t, tr.Intelligence, doc.Intelligence)
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = filepath.Join(dir, "exports")

	path, err := ToFile(sampleTranscript(), "json", opts)
	require.NoError(t, err)

	assert.Equal(t, opts.OutputDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "scamtrap_sess_1234_"))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	_, err = ToFile(sampleTranscript(), "pdf", opts)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sess_1", "sess_1"},
		{"a/b\\c:d", "a-b-c-d"},
		{"with space", "with_space"},
		{"", "session"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := Filename(&Transcript{SessionID: "sess_x"}, ".md", now)
	assert.Equal(t, "scamtrap_sess_x_20250102_030405.md", got)
}
