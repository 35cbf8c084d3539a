// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. Message and intelligence field
// names match the chat wire format so a transcript can be replayed against
// the agent service.
type JSONExporter struct {
	options *Options
}

// jsonMessage is one exported message.
type jsonMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// jsonTranscript is the exported document.
type jsonTranscript struct {
	SessionID    string                      `json:"session_id"`
	Mode         string                      `json:"mode"`
	StartedAt    *time.Time                  `json:"started_at,omitempty"`
	ExportedAt   time.Time                   `json:"exported_at"`
	Messages     []jsonMessage               `json:"messages"`
	Intelligence *model.IntelligenceSnapshot `json:"extracted_intelligence,omitempty"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a transcript to JSON format.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := validate(t); err != nil {
		return nil, err
	}

	doc := jsonTranscript{
		SessionID:  t.SessionID,
		Mode:       t.Mode.String(),
		ExportedAt: time.Now(),
		Messages:   make([]jsonMessage, 0, len(t.Messages)),
	}
	if e.options.IncludeMetadata && !t.StartedAt.IsZero() {
		started := t.StartedAt
		doc.StartedAt = &started
	}
	for _, m := range t.Messages {
		jm := jsonMessage{ID: m.ID, Role: m.Role.String(), Content: m.Content}
		if e.options.IncludeTimestamps && !m.Timestamp.IsZero() {
			ts := m.Timestamp
			jm.Timestamp = &ts
		}
		doc.Messages = append(doc.Messages, jm)
	}
	if e.options.IncludeIntelligence {
		doc.Intelligence = t.Intelligence.Clone()
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
