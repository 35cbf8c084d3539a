// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// =============================================================================
// COMMAND SYNTHESIZER
// =============================================================================

// Options configures the command-backed synthesizer.
type Options struct {
	// Command is an explicit TTS binary. Empty means autodetect.
	Command string

	// Voice is passed to engines that support voice selection.
	Voice string

	// Rate is the speaking rate in words per minute (0 = engine default).
	Rate int
}

// CommandSynthesizer speaks through a local text-to-speech program
// (espeak-ng, espeak, spd-say or say on Unix; System.Speech on Windows).
// Cancelling the context passed to Speak kills the process.
type CommandSynthesizer struct {
	mu   sync.RWMutex
	opts Options
	path string
}

// NewCommandSynthesizer resolves a TTS program for opts.
func NewCommandSynthesizer(opts Options) *CommandSynthesizer {
	s := &CommandSynthesizer{}
	s.SetOptions(opts)
	return s
}

// SetOptions replaces the options and re-resolves the program.
func (s *CommandSynthesizer) SetOptions(opts Options) {
	path, _ := findSpeechExecutable(opts.Command)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.path = path
}

// Available reports whether a TTS program was found.
func (s *CommandSynthesizer) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path != ""
}

// Program returns the resolved program path, or "" when unavailable.
func (s *CommandSynthesizer) Program() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Speak runs the TTS program for text and waits for it to exit.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	s.mu.RLock()
	path, opts := s.path, s.opts
	s.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("no speech program available")
	}

	args, useStdin := commandArgs(engineName(path), opts, text)
	cmd := exec.CommandContext(ctx, path, args...)
	if useStdin {
		cmd.Stdin = strings.NewReader(text)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speech program %s: %w", filepath.Base(path), err)
	}
	return nil
}

// findSpeechExecutable returns the explicit command if it resolves, or the
// first platform candidate found in PATH.
func findSpeechExecutable(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("speech program %q not found: %w", explicit, err)
		}
		return path, nil
	}

	for _, name := range candidateCommands() {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no speech program found, tried: %s", strings.Join(candidateCommands(), ", "))
}

// engineName normalizes a program path to its bare lower-case name.
func engineName(path string) string {
	name := strings.ToLower(filepath.Base(path))
	return strings.TrimSuffix(name, ".exe")
}
