// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// streamBufferSize is the size of a single read from the response body.
const streamBufferSize = 4096

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader decodes a streamed text body chunk by chunk.
//
// Bytes pass through a golang.org/x/text decoder, so a code point split
// across two network chunks is emitted once, whole. Invalid sequences become
// U+FFFD. There is no size limit: the whole body is accumulated.
type StreamReader struct {
	reader io.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	chunks      int
}

// NewStreamReader creates a stream reader for r using enc.
// A nil enc means UTF-8.
func NewStreamReader(r io.Reader, enc encoding.Encoding) *StreamReader {
	if enc == nil {
		enc = unicode.UTF8
	}
	return &StreamReader{
		reader: transform.NewReader(r, enc.NewDecoder()),
	}
}

// ChunkCallback receives each decoded chunk in arrival order.
type ChunkCallback func(chunk string)

// Process reads the stream until end-of-stream, calling onChunk (if non-nil)
// for every decoded chunk. Blocks until the stream is complete or the
// context is cancelled.
func (s *StreamReader) Process(ctx context.Context, onChunk ChunkCallback) error {
	buf := make([]byte, streamBufferSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.reader.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			s.accumulator.WriteString(chunk)
			s.chunks++
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Text returns all accumulated content.
func (s *StreamReader) Text() string {
	return s.accumulator.String()
}

// Chunks returns the number of decoded chunks delivered so far.
func (s *StreamReader) Chunks() int {
	return s.chunks
}

// encodingFor resolves a charset label to an encoding, falling back to UTF-8
// for empty or unknown labels.
func encodingFor(charset string) encoding.Encoding {
	if charset == "" {
		return unicode.UTF8
	}
	enc, err := htmlindex.Get(charset)
	if err != nil || enc == nil {
		return unicode.UTF8
	}
	return enc
}
