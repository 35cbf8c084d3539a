// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vault keeps an append-only SQLite log of intelligence snapshots.
//
// Every snapshot a honeypot reply carries is stored as its JSON payload plus
// one indicator row per harvested value, so identifiers can be searched
// across sessions. The vault is opt-in and never feeds back into a session.
//
// # Usage
//
//	v, err := vault.Open(ctx, "~/.scamtrap/vault.db")
//	defer v.Close()
//	recs, err := v.List(ctx, vault.ListOptions{Limit: 20})
//	hits, err := v.Search(ctx, "ybl")
package vault
