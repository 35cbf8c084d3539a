// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope for every --json output.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write writes the response as indented JSON.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// RESPONSE DATA TYPES
// =============================================================================

// VaultRecordData is one snapshot in `vault list --json`.
type VaultRecordData struct {
	ID           int64               `json:"id"`
	SessionID    string              `json:"session_id"`
	RecordedAt   string              `json:"recorded_at"`
	Count        int                 `json:"count"`
	Intelligence map[string][]string `json:"intelligence"`
}

// VaultHitData is one match in `vault search --json`.
type VaultHitData struct {
	SnapshotID int64  `json:"snapshot_id"`
	SessionID  string `json:"session_id"`
	RecordedAt string `json:"recorded_at"`
	Category   string `json:"category"`
	Value      string `json:"value"`
}

// VaultStatsData is `vault stats --json`.
type VaultStatsData struct {
	Path       string `json:"path"`
	Snapshots  int    `json:"snapshots"`
	Indicators int    `json:"indicators"`
	Sessions   int    `json:"sessions"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ConfigValueData is `config get --json`.
type ConfigValueData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// VersionData is `version --json`.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}
