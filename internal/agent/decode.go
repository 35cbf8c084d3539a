// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"unicode"
)

// jsonMediaToken selects the structured path when present in Content-Type.
const jsonMediaToken = "application/json"

// =============================================================================
// RESPONSE DECODER
// =============================================================================

// IsStructured reports whether a Content-Type header selects the structured
// path. Any header containing the application/json token qualifies.
func IsStructured(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), jsonMediaToken)
}

// Decode normalizes a completed 2xx response into a Reply.
//
// Structured responses must be a single JSON object. A non-empty error field
// yields an application error; a missing or empty agent_reply yields
// PlaceholderReply. Every other response is read as a text stream, trimmed
// of trailing whitespace only. Streamed bodies are not inspected for error
// or intelligence fields.
//
// Decode consumes the body; it is a one-shot operation.
func Decode(ctx context.Context, resp *http.Response) (*Reply, error) {
	return decode(ctx, resp, nil)
}

// decode is Decode with an optional observer for streamed chunks.
func decode(ctx context.Context, resp *http.Response, onChunk ChunkCallback) (*Reply, error) {
	if resp == nil {
		return nil, decodeError("no response", nil)
	}
	contentType := resp.Header.Get("Content-Type")
	if IsStructured(contentType) {
		return decodeStructured(resp.Body)
	}
	return decodeStream(ctx, resp.Body, contentType, onChunk)
}

func decodeStructured(body io.Reader) (*Reply, error) {
	if body == nil {
		return nil, decodeError("no response body", nil)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, transportError("failed to read response body", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, decodeError("structured response is not a JSON object", nil)
	}

	var payload StructuredReply
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, decodeError("failed to decode response", err)
	}

	if payload.Error != "" {
		return nil, &Error{Kind: KindApplication, Message: payload.Error}
	}

	text, err := replyText(payload.AgentReply)
	if err != nil {
		return nil, err
	}

	return &Reply{
		Text:         text,
		Intelligence: payload.ExtractedIntelligence,
		Structured:   true,
	}, nil
}

// replyText extracts agent_reply, rejecting values that are not strings.
func replyText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return PlaceholderReply, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", decodeError("agent_reply is not a string", err)
	}
	if text == "" {
		return PlaceholderReply, nil
	}
	return text, nil
}

func decodeStream(ctx context.Context, body io.Reader, contentType string, onChunk ChunkCallback) (*Reply, error) {
	// http.NoBody is an empty stream, not a missing one
	if body == nil {
		return nil, decodeError("no response body", nil)
	}

	charset := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			charset = params["charset"]
		}
	}

	reader := NewStreamReader(body, encodingFor(charset))
	if err := reader.Process(ctx, onChunk); err != nil {
		return nil, transportError("failed to read response stream", err)
	}
	log.Printf("CHAT_STREAM_END | chunks=%d chars=%d", reader.Chunks(), len(reader.Text()))

	return &Reply{
		Text: strings.TrimRightFunc(reader.Text(), unicode.IsSpace),
	}, nil
}
