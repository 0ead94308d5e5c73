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

// Package embedding compares face embeddings and selects best matches.
package embedding

// Candidate pairs an identity key with its enrolled embedding.
type Candidate struct {
	// Username identifies the enrolled subject.
	Username string
	// Role is carried through for the authorization response.
	Role string
	// Vector is the enrolled face embedding.
	Vector []float32
}

// Cosine returns the cosine similarity of two equal-length embeddings.
//
// Inputs are contractually L2-normalized by the extractor, so this is a
// plain dot product; vectors are not re-normalized here. Mismatched
// lengths score 0.
func Cosine(
	a []float32,
	b []float32,
) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	return dot
}

// MatchBest scans candidates in slice order and returns the one with the
// highest similarity to the query, along with its score. The strict
// greater-than keeps the first maximum encountered, so iteration order
// makes tie-breaking deterministic. Returns nil when candidates is empty.
func MatchBest(
	query []float32,
	candidates []Candidate,
) (*Candidate, float64) {
	bestScore := -1.0
	var best *Candidate

	for i := range candidates {
		score := Cosine(query, candidates[i].Vector)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil {
		return nil, -1.0
	}

	return best, bestScore
}
