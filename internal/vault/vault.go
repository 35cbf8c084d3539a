// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// Common errors
var (
	ErrClosed    = errors.New("vault is closed")
	ErrEmptyPath = errors.New("vault path cannot be empty")
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// =============================================================================
// TYPES
// =============================================================================

// Record is one stored snapshot.
type Record struct {
	ID         int64
	SessionID  string
	RecordedAt time.Time
	Snapshot   *model.IntelligenceSnapshot
}

// Indicator is one harvested value found by Search.
type Indicator struct {
	SnapshotID int64
	SessionID  string
	RecordedAt time.Time
	Category   string
	Value      string
}

// ListOptions filters List.
type ListOptions struct {
	// SessionID restricts results to one session when set.
	SessionID string

	// Limit caps the number of records (default: DefaultListLimit)
	Limit int
}

// Stats summarizes the vault contents.
type Stats struct {
	Snapshots  int
	Indicators int
	Sessions   int
	DBSize     int64
}

// =============================================================================
// VAULT
// =============================================================================

// Vault is an SQLite-backed snapshot log. It is safe for concurrent use.
type Vault struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Open opens or creates the vault database at path.
func Open(ctx context.Context, path string) (*Vault, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Vault{db: db, path: path}, nil
}

// Path returns the database file path.
func (v *Vault) Path() string {
	return v.path
}

// Close closes the database.
func (v *Vault) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.db == nil {
		return nil
	}
	err := v.db.Close()
	v.db = nil
	return err
}

// RecordIntelligence stores snap for sessionID. Empty snapshots are stored
// too: an empty snapshot still replaced the previous one in the session.
func (v *Vault) RecordIntelligence(ctx context.Context, sessionID string, snap *model.IntelligenceSnapshot) error {
	if snap == nil {
		return nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db == nil {
		return ErrClosed
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (session_id, recorded_at, item_count, payload) VALUES (?, ?, ?, ?)",
		sessionID, time.Now().UnixNano(), snap.Count(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO indicators (snapshot_id, category, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare indicator insert: %w", err)
	}
	defer stmt.Close()

	for _, cat := range snap.Categories() {
		for _, value := range cat.Values {
			if _, err := stmt.ExecContext(ctx, id, cat.Key, value); err != nil {
				return fmt.Errorf("failed to insert indicator: %w", err)
			}
		}
	}

	return tx.Commit()
}

// List returns stored snapshots, newest first.
func (v *Vault) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := "SELECT id, session_id, recorded_at, payload FROM snapshots"
	args := []any{}
	if opts.SessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, opts.SessionID)
	}
	query += " ORDER BY recorded_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.db == nil {
		return nil, ErrClosed
	}

	rows, err := v.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			recorded int64
			payload  string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &recorded, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		rec.RecordedAt = time.Unix(0, recorded)
		rec.Snapshot = &model.IntelligenceSnapshot{}
		if err := json.Unmarshal([]byte(payload), rec.Snapshot); err != nil {
			return nil, fmt.Errorf("snapshot %d has a corrupt payload: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Search finds indicators whose value contains term (case-insensitive).
func (v *Vault) Search(ctx context.Context, term string) ([]Indicator, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.db == nil {
		return nil, ErrClosed
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT i.snapshot_id, s.session_id, s.recorded_at, i.category, i.value
		FROM indicators i
		JOIN snapshots s ON s.id = i.snapshot_id
		WHERE i.value LIKE ? ESCAPE '\'
		ORDER BY s.recorded_at DESC, i.snapshot_id DESC`,
		"%"+escapeLike(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search indicators: %w", err)
	}
	defer rows.Close()

	var hits []Indicator
	for rows.Next() {
		var (
			hit      Indicator
			recorded int64
		)
		if err := rows.Scan(&hit.SnapshotID, &hit.SessionID, &recorded, &hit.Category, &hit.Value); err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		hit.RecordedAt = time.Unix(0, recorded)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Stats returns vault statistics.
func (v *Vault) Stats(ctx context.Context) (Stats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.db == nil {
		return Stats{}, ErrClosed
	}

	var s Stats
	err := v.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT session_id) FROM snapshots").Scan(&s.Snapshots, &s.Sessions)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count snapshots: %w", err)
	}
	if err := v.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indicators").Scan(&s.Indicators); err != nil {
		return Stats{}, fmt.Errorf("failed to count indicators: %w", err)
	}

	if info, err := os.Stat(v.path); err == nil {
		s.DBSize = info.Size()
	}
	return s, nil
}

// escapeLike escapes LIKE wildcards in s.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
