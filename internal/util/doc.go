// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across scamtrap.
//
//   - TruncateRunesNoEllipsis, TruncateWidth, PadWidth: display-safe string shaping
//   - IntToString: numeric formatting
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
