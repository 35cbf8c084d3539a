// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// =============================================================================
// CLIENT CONFIG TESTS
// =============================================================================

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, "http://127.0.0.1:8000/chat", c.URL())

	c = NewClient(&ClientConfig{BaseURL: "https://agent.example.com/", Endpoint: "chat"})
	assert.Equal(t, "https://agent.example.com/chat", c.URL())
}

func TestHistoryFromMessages(t *testing.T) {
	msgs := []model.ChatMessage{
		model.NewUserMessage("hi"),
		model.NewAssistantMessage("hello"),
	}
	got := HistoryFromMessages(msgs)
	assert.Equal(t, []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}, got)
}

// =============================================================================
// WIRE PROTOCOL TESTS
// =============================================================================

func TestClient_ChatRequestShape(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agent_reply":"ok"}`))
	}))
	defer server.Close()

	c := NewClient(&ClientConfig{BaseURL: server.URL})

	_, err := c.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, gotBody, "agent_type")
	assert.Len(t, gotBody["messages"], 1)

	_, err = c.Chat(context.Background(), ChatRequest{
		Messages:  []Message{{Role: "user", Content: "hi"}},
		AgentType: model.AgentTypeHoneypot,
	})
	require.NoError(t, err)
	assert.Equal(t, "honeypot", gotBody["agent_type"])
}

func TestClient_ChatStreamed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, part := range []string{"The ", "quick fox", " jumps."} {
			w.Write([]byte(part))
			flusher.Flush()
		}
	}))
	defer server.Close()

	var chunks []string
	c := NewClient(&ClientConfig{
		BaseURL: server.URL,
		OnChunk: func(chunk string) { chunks = append(chunks, chunk) },
	})

	reply, err := c.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "The quick fox jumps.", reply.Text)
	assert.False(t, reply.Structured)
	assert.NotEmpty(t, chunks)
}

func TestClient_ChatStreamedEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var chunks []string
	c := NewClient(&ClientConfig{
		BaseURL: server.URL,
		OnChunk: func(chunk string) { chunks = append(chunks, chunk) },
	})

	reply, err := c.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "", reply.Text)
	assert.Nil(t, reply.Intelligence)
	assert.Empty(t, chunks)
}

func TestClient_ChatStructuredSkipsChunkObserver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agent_reply":"Hello","extracted_intelligence":{"upi_ids":["x@ybl"]}}`))
	}))
	defer server.Close()

	called := false
	c := NewClient(&ClientConfig{
		BaseURL: server.URL,
		OnChunk: func(string) { called = true },
	})

	reply, err := c.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", reply.Text)
	assert.True(t, reply.Structured)
	assert.Equal(t, []string{"x@ybl"}, reply.Intelligence.UPIIDs)
	assert.False(t, called)
}

func TestClient_ChatNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"agent_reply":"ignored"}`))
	}))
	defer server.Close()

	reply, err := NewClient(&ClientConfig{BaseURL: server.URL}).Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.True(t, IsTransport(err))
}

func TestClient_ChatConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(&ClientConfig{BaseURL: url}).Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClient_ChatContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(&ClientConfig{BaseURL: server.URL}).Chat(ctx, ChatRequest{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestError_Kinds(t *testing.T) {
	err := transportError("dial failed", context.Canceled)
	assert.Equal(t, "dial failed: context canceled", err.Error())
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsTransport(err))
	assert.False(t, IsDecode(err))
	assert.Equal(t, "transport", KindOf(err).String())
	assert.Equal(t, KindUnknown, KindOf(context.Canceled))
}
