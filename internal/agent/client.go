// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultEndpoint is the chat endpoint path.
const DefaultEndpoint = "/chat"

// ClientConfig holds configuration options for the agent client.
type ClientConfig struct {
	// BaseURL is the agent service base URL (default: http://127.0.0.1:8000).
	// A trailing slash is trimmed.
	BaseURL string

	// Endpoint is the chat path (default: /chat)
	Endpoint string

	// HTTPClient overrides the transport. The default client has no timeout;
	// callers bound a request with the context they pass to Chat.
	HTTPClient *http.Client

	// OnChunk, when set, observes decoded chunks of streamed replies.
	OnChunk ChunkCallback
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:  DefaultBaseURL,
		Endpoint: DefaultEndpoint,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the agent service.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new agent client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if !strings.HasPrefix(config.Endpoint, "/") {
		config.Endpoint = "/" + config.Endpoint
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// URL returns the full chat endpoint URL.
func (c *Client) URL() string {
	return c.config.BaseURL + c.config.Endpoint
}

// Chat posts the request and returns the decoded reply.
// Any failure is an *Error of kind transport, decode or application.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*Reply, error) {
	if chatReq.Messages == nil {
		chatReq.Messages = []Message{}
	}
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, transportError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, transportError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("chat request failed", err)
	}
	defer drainAndClose(resp.Body)

	// Non-2xx is a transport failure regardless of body content
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportError("chat request failed: "+resp.Status, nil)
	}

	contentType := resp.Header.Get("Content-Type")
	log.Printf("CHAT_RESPONSE | status=%d content_type=%q structured=%t",
		resp.StatusCode, contentType, IsStructured(contentType))

	return decode(ctx, resp, c.config.OnChunk)
}

// Helper to drain response body
func drainAndClose(r io.ReadCloser) {
	if r == nil {
		return
	}
	io.Copy(io.Discard, r)
	r.Close()
}
