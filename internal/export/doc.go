// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes session transcripts to disk.
//
// # Key Types
//
//   - Transcript: messages, mode and last intelligence snapshot of a session
//   - Exporter: format interface (Markdown, JSON)
//   - Options: export configuration options
//
// # Usage
//
//	t := export.Transcript{SessionID: id, Messages: msgs}
//	path, err := export.ToFile(&t, "md", export.DefaultOptions())
package export
