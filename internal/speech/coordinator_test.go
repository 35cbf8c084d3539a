// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSynth blocks each Speak call until released or cancelled.
type fakeSynth struct {
	available bool

	mu        sync.Mutex
	started   []string
	cancelled []string
	release   chan struct{}
	failWith  error
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{available: true, release: make(chan struct{})}
}

func (f *fakeSynth) Available() bool { return f.available }

func (f *fakeSynth) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.started = append(f.started, text)
	release, failWith := f.release, f.failWith
	f.mu.Unlock()

	select {
	case <-release:
		return failWith
	case <-ctx.Done():
		f.mu.Lock()
		f.cancelled = append(f.cancelled, text)
		f.mu.Unlock()
		return ctx.Err()
	}
}

func (f *fakeSynth) Started() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.started...)
}

func (f *fakeSynth) Cancelled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cancelled...)
}

func signal() (chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	return ch, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestCoordinator_NaturalEnd(t *testing.T) {
	synth := newFakeSynth()
	c := NewCoordinator(synth)

	started, onStart := signal()
	ended, onEnd := signal()

	c.Speak("hello", onStart, onEnd)
	waitFor(t, started, "start")
	assert.True(t, c.Speaking())

	close(synth.release)
	waitFor(t, ended, "end")

	assert.Eventually(t, func() bool { return !c.Speaking() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hello"}, synth.Started())
}

func TestCoordinator_SpeakCancelsPrevious(t *testing.T) {
	synth := newFakeSynth()
	c := NewCoordinator(synth)

	startedA, onStartA := signal()
	endACalled := false
	var endMu sync.Mutex

	c.Speak("a", onStartA, func() {
		endMu.Lock()
		endACalled = true
		endMu.Unlock()
	})
	waitFor(t, startedA, "start of a")

	startedB, onStartB := signal()
	endedB, onEndB := signal()
	c.Speak("b", onStartB, onEndB)
	waitFor(t, startedB, "start of b")

	assert.Eventually(t, func() bool {
		return len(synth.Cancelled()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a"}, synth.Cancelled())

	close(synth.release)
	waitFor(t, endedB, "end of b")

	endMu.Lock()
	defer endMu.Unlock()
	assert.False(t, endACalled, "cancelled utterance must not report completion")
}

func TestCoordinator_StopSuppressesEnd(t *testing.T) {
	synth := newFakeSynth()
	c := NewCoordinator(synth)

	started, onStart := signal()
	ended, onEnd := signal()

	c.Speak("hello", onStart, onEnd)
	waitFor(t, started, "start")

	c.Stop()
	assert.False(t, c.Speaking())

	assert.Eventually(t, func() bool {
		return len(synth.Cancelled()) == 1
	}, time.Second, 5*time.Millisecond)

	select {
	case <-ended:
		t.Fatal("onEnd fired after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCoordinator_StopIdempotent(t *testing.T) {
	c := NewCoordinator(newFakeSynth())

	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
	assert.False(t, c.Speaking())
}

func TestCoordinator_Unavailable(t *testing.T) {
	tests := []struct {
		name  string
		synth Synthesizer
	}{
		{"nil synthesizer", nil},
		{"unsupported platform", &fakeSynth{available: false, release: make(chan struct{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(tt.synth)
			require.False(t, c.Available())

			called := false
			c.Speak("hello", func() { called = true }, func() { called = true })
			c.Speak("again", nil, nil)
			c.Stop()

			assert.False(t, c.Speaking())
			assert.False(t, called)
		})
	}
}

func TestCoordinator_FailedPlaybackSkipsEnd(t *testing.T) {
	synth := newFakeSynth()
	synth.failWith = errors.New("audio device busy")
	c := NewCoordinator(synth)

	started, onStart := signal()
	ended, onEnd := signal()

	c.Speak("hello", onStart, onEnd)
	waitFor(t, started, "start")
	close(synth.release)

	assert.Eventually(t, func() bool { return !c.Speaking() }, time.Second, 5*time.Millisecond)
	select {
	case <-ended:
		t.Fatal("onEnd fired for failed playback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCoordinator_NilCallbacks(t *testing.T) {
	synth := newFakeSynth()
	c := NewCoordinator(synth)

	c.Speak("hello", nil, nil)
	assert.Eventually(t, func() bool { return len(synth.Started()) == 1 }, time.Second, 5*time.Millisecond)

	close(synth.release)
	assert.Eventually(t, func() bool { return !c.Speaking() }, time.Second, 5*time.Millisecond)
}
