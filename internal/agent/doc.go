// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the HTTP client for the conversational agent service.
//
// The service answers POST /chat either with a single structured JSON object
// or with an incrementally delivered plain-text body. Decode inspects the
// response and normalizes both shapes into one Reply value.
//
// # Key Types
//
//   - Client: HTTP client for the /chat endpoint
//   - ChatRequest: Request body (history plus optional agent_type)
//   - Reply: Normalized agent reply (text, optional intelligence)
//   - StreamReader: Incremental text decoder for streamed bodies
//   - Error: Typed failure (transport, decode, application)
//
// # Usage
//
//	client := agent.NewClient(&agent.ClientConfig{BaseURL: "http://127.0.0.1:8000"})
//	reply, err := client.Chat(ctx, agent.ChatRequest{
//	    Messages: []agent.Message{{Role: "user", Content: "Hello"}},
//	})
//	if err != nil {
//	    // every failure kind is handled the same way by the session
//	}
//	fmt.Println(reply.Text)
package agent
