// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/scamtrap-tui/internal/config"
	"github.com/jeranaias/scamtrap-tui/internal/vault"
)

const vaultUsage = "scamtrap vault [list|search TERM|stats]"

// VaultStore is the read side of the intelligence vault.
type VaultStore interface {
	List(ctx context.Context, opts vault.ListOptions) ([]vault.Record, error)
	Search(ctx context.Context, term string) ([]vault.Indicator, error)
	Stats(ctx context.Context) (vault.Stats, error)
	Path() string
}

// HandleVault opens the configured vault and runs the vault command.
func HandleVault(ctx context.Context, w io.Writer, cfg *config.Config, args Args) error {
	v, err := vault.Open(ctx, config.ExpandPath(cfg.Vault.Path))
	if err != nil {
		return &CommandError{Command: "vault", Action: "open", Reason: "cannot open vault", Err: err}
	}
	defer v.Close()
	return RunVault(ctx, w, v, args)
}

// RunVault dispatches a vault subcommand against store.
func RunVault(ctx context.Context, w io.Writer, store VaultStore, args Args) error {
	p := NewArgParser(args.Raw)

	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		limit := 0
		if p.HasFlag("limit") {
			n, err := ParsePositiveInt(p.Flag("limit"), "--limit")
			if err != nil {
				return &UsageError{Message: err.Error(), Usage: vaultUsage}
			}
			limit = n
		}
		return vaultList(ctx, w, store, vault.ListOptions{SessionID: p.Flag("session"), Limit: limit}, args.JSON)

	case "search", "find":
		term := strings.Join(p.PositionalFrom(1), " ")
		if strings.TrimSpace(term) == "" {
			return ErrMissingArgument("TERM", "scamtrap vault search TERM")
		}
		return vaultSearch(ctx, w, store, term, args.JSON)

	case "stats", "status":
		return vaultStats(ctx, w, store, args.JSON)

	default:
		return ErrUnknownSubcommand("vault", sub, []string{"list", "search", "stats"})
	}
}

func vaultList(ctx context.Context, w io.Writer, store VaultStore, opts vault.ListOptions, jsonMode bool) error {
	records, err := store.List(ctx, opts)
	if err != nil {
		return &CommandError{Command: "vault", Action: "list", Reason: "query failed", Err: err}
	}

	if jsonMode {
		data := make([]VaultRecordData, 0, len(records))
		for _, r := range records {
			intel := make(map[string][]string)
			for _, cat := range r.Snapshot.Categories() {
				if len(cat.Values) > 0 {
					intel[cat.Key] = cat.Values
				}
			}
			data = append(data, VaultRecordData{
				ID:           r.ID,
				SessionID:    r.SessionID,
				RecordedAt:   r.RecordedAt.UTC().Format(time.RFC3339),
				Count:        r.Snapshot.Count(),
				Intelligence: intel,
			})
		}
		return NewJSONResponse("vault list", data).Write(w)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No intelligence recorded yet."))
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Intelligence snapshots (%d)", len(records))))
	for _, r := range records {
		fmt.Fprintln(w, RenderSeparator(60))
		fmt.Fprintf(w, "#%d  %s  %s  %d items\n",
			r.ID, DimStyle.Render(formatTime(r.RecordedAt)), r.SessionID, r.Snapshot.Count())
		for _, cat := range r.Snapshot.Categories() {
			if len(cat.Values) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", RenderLabel(cat.Label), IntelStyle.Render(strings.Join(cat.Values, ", ")))
		}
	}
	return nil
}

func vaultSearch(ctx context.Context, w io.Writer, store VaultStore, term string, jsonMode bool) error {
	hits, err := store.Search(ctx, term)
	if err != nil {
		return &CommandError{Command: "vault", Action: "search", Reason: "query failed", Err: err}
	}

	if jsonMode {
		data := make([]VaultHitData, 0, len(hits))
		for _, h := range hits {
			data = append(data, VaultHitData{
				SnapshotID: h.SnapshotID,
				SessionID:  h.SessionID,
				RecordedAt: h.RecordedAt.UTC().Format(time.RFC3339),
				Category:   h.Category,
				Value:      h.Value,
			})
		}
		return NewJSONResponse("vault search", data).Write(w)
	}

	if len(hits) == 0 {
		fmt.Fprintf(w, "No identifiers matching %q.\n", term)
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s  %-15s %s  %s\n",
			DimStyle.Render(formatTime(h.RecordedAt)), h.Category, IntelStyle.Render(h.Value), DimStyle.Render(h.SessionID))
	}
	return nil
}

func vaultStats(ctx context.Context, w io.Writer, store VaultStore, jsonMode bool) error {
	s, err := store.Stats(ctx)
	if err != nil {
		return &CommandError{Command: "vault", Action: "stats", Reason: "query failed", Err: err}
	}

	if jsonMode {
		return NewJSONResponse("vault stats", VaultStatsData{
			Path:       store.Path(),
			Snapshots:  s.Snapshots,
			Indicators: s.Indicators,
			Sessions:   s.Sessions,
			SizeBytes:  s.DBSize,
		}).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Vault"))
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Path"), store.Path())
	fmt.Fprintf(w, "%s %d\n", RenderLabel("Sessions"), s.Sessions)
	fmt.Fprintf(w, "%s %d\n", RenderLabel("Snapshots"), s.Snapshots)
	fmt.Fprintf(w, "%s %d\n", RenderLabel("Identifiers"), s.Indicators)
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Size"), formatBytes(s.DBSize))
	return nil
}
