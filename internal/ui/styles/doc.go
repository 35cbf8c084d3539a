// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for scamtrap.
//
// All colors are lipgloss.AdaptiveColor values so they follow the terminal
// background. Theme detects the color profile with termenv and lets the
// operator force a light or dark palette.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	header := theme.Header.Render("SCAMTRAP")
//	badge := theme.EngineBadge(model.ModeHoneypot).Render("HONEYPOT-V1")
package styles
