// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/scamtrap-tui/internal/config"
)

// ErrNoSuchKey is returned for config keys that do not exist.
var ErrNoSuchKey = errors.New("no such config key")

// LoadConfig loads the config from path, or from the default locations when
// path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(config.ExpandPath(path))
	}
	return config.Load()
}

// ResolveConfigPath returns the file config changes are written to.
func ResolveConfigPath(path string) (string, error) {
	if path != "" {
		return config.ExpandPath(path), nil
	}
	return config.ConfigPathTOML()
}

// HandleConfig loads the configuration and runs the config command.
func HandleConfig(w io.Writer, args Args) error {
	cfg, err := LoadConfig(args.ConfigPath)
	if err != nil {
		if cfg == nil {
			return err
		}
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+err.Error())
	}
	path, err := ResolveConfigPath(args.ConfigPath)
	if err != nil {
		return err
	}
	return RunConfig(w, cfg, path, args)
}

// RunConfig dispatches a config subcommand. set writes the result to path.
func RunConfig(w io.Writer, cfg *config.Config, path string, args Args) error {
	p := NewArgParser(args.Raw)

	switch sub := p.Subcommand(); sub {
	case "", "show":
		if args.JSON {
			return NewJSONResponse("config show", cfg).Write(w)
		}
		return toml.NewEncoder(w).Encode(cfg)

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("KEY", "scamtrap config get KEY")
		}
		if !slices.Contains(config.GetAllKeys(), key) {
			return fmt.Errorf("%w: %s", ErrNoSuchKey, key)
		}
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config get", ConfigValueData{Key: key, Value: value}).Write(w)
		}
		fmt.Fprintln(w, value)
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.Positional(2) == "" {
			return ErrMissingArgument("KEY VALUE", "scamtrap config set KEY VALUE")
		}
		if !slices.Contains(config.GetAllKeys(), key) {
			return fmt.Errorf("%w: %s", ErrNoSuchKey, key)
		}

		updated := cfg.Clone()
		if err := updated.Set(key, value); err != nil {
			return &UsageError{Message: fmt.Sprintf("cannot set %s: %v", key, err)}
		}
		updated.SetDefaults()
		if err := updated.Validate(); err != nil {
			return err
		}
		if err := saveConfig(updated, path); err != nil {
			return &CommandError{Command: "config", Action: "set", Reason: "cannot save", Err: err}
		}
		*cfg = *updated

		fmt.Fprintln(w, SuccessStyle.Render("[OK]")+fmt.Sprintf(" %s = %s (%s)", key, value, path))
		return nil

	case "path":
		fmt.Fprintln(w, path)
		return nil

	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(w, k)
		}
		return nil

	default:
		return ErrUnknownSubcommand("config", sub, []string{"show", "get", "set", "path", "keys"})
	}
}

func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
