// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// ensure NATS implements Extractor at compile time.
var _ Extractor = (*NATS)(nil)

// Conn is the subset of nats.Conn used by the NATS extractor.
type Conn interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
	Status() nats.Status
}

// request is the wire payload sent to the extractor worker.
type request struct {
	// Image is the raw upload, base64-encoded by the JSON codec.
	Image []byte `json:"image"`
}

// response is the wire payload returned by the extractor worker.
type response struct {
	// Found reports whether a face was detected at all.
	Found bool `json:"found"`
	// Confidence is the detector score for the dominant face.
	Confidence float64 `json:"confidence"`
	// Embedding is the L2-normalized face vector.
	Embedding []float32 `json:"embedding"`
	// Error carries a worker-side failure description.
	Error string `json:"error,omitempty"`
}

// NATS calls a remote extractor worker over request/reply.
type NATS struct {
	conn    Conn
	subject string
	logger  *slog.Logger
}

// NewNATS creates a new NATS extractor on the given subject.
func NewNATS(
	logger *slog.Logger,
	conn Conn,
	subject string,
) *NATS {
	return &NATS{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

// Loaded reports whether the NATS connection is up.
func (n *NATS) Loaded() bool {
	return n.conn.Status() == nats.CONNECTED
}

// DetectAndEmbed sends the image to the extractor worker and maps the
// reply onto the extractor error taxonomy. The caller bounds the call
// with ctx; a timeout surfaces as ErrUnavailable.
func (n *NATS) DetectAndEmbed(
	ctx context.Context,
	image []byte,
) ([]float32, error) {
	data, err := json.Marshal(request{Image: image})
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}

	msg, err := n.conn.RequestWithContext(ctx, n.subject, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	var resp response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal extract response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Error)
	}

	if !resp.Found {
		return nil, ErrNoFace
	}

	if resp.Confidence < ConfidenceThreshold {
		return nil, ErrLowConfidence
	}

	if len(resp.Embedding) != EmbeddingSize {
		return nil, fmt.Errorf(
			"%w: embedding length %d, want %d",
			ErrUnavailable,
			len(resp.Embedding),
			EmbeddingSize,
		)
	}

	return resp.Embedding, nil
}
