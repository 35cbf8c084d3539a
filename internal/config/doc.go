// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for scamtrap.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation and hot reload.
//
// Configuration file locations (in order of precedence):
//   - ~/.scamtrap/config.toml
//   - ~/.scamtrap/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg := config.Global()
//	w, err := config.Watch(path, 0, func(c *config.Config) { apply(c) })
//	defer w.Close()
package config
