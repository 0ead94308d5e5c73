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

// Package extractor is the boundary to the face detection and embedding
// model. The model itself is an external collaborator; this package only
// transports images in and embeddings out.
package extractor

import (
	"context"
	"errors"
)

// ConfidenceThreshold is the minimum detector confidence for a face to
// count as found.
const ConfidenceThreshold = 0.6

// EmbeddingSize is the fixed length of extracted embeddings.
const EmbeddingSize = 128

// ErrNoFace is returned when no face is detected in the image.
var ErrNoFace = errors.New("no face detected")

// ErrLowConfidence is returned when a face is detected below the
// confidence threshold.
var ErrLowConfidence = errors.New("face confidence too low")

// ErrUnavailable is returned when the extraction backend cannot serve
// the request.
var ErrUnavailable = errors.New("extraction backend unavailable")

// Extractor detects the dominant face in an image and returns its
// L2-normalized embedding.
type Extractor interface {
	// DetectAndEmbed extracts the face embedding from raw image bytes.
	DetectAndEmbed(ctx context.Context, image []byte) ([]float32, error)
	// Loaded reports whether the extraction backend is ready.
	Loaded() bool
}
