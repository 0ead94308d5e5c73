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
	"bytes"
	"context"
	"image"
	"math"
)

// ensure Stub implements Extractor at compile time.
var _ Extractor = (*Stub)(nil)

// Stub derives a deterministic embedding from coarse pixel statistics.
// The same image always maps to the same vector, so enroll-then-verify
// round-trips work without a model. Development and test use only.
type Stub struct{}

// NewStub creates a new Stub.
func NewStub() *Stub {
	return &Stub{}
}

// Loaded always reports ready.
func (s *Stub) Loaded() bool {
	return true
}

// DetectAndEmbed tiles the greyscale image into EmbeddingSize blocks,
// takes mean-centered block intensities, and L2-normalizes the result.
// A flat frame carries no signal and is treated as having no face.
func (s *Stub) DetectAndEmbed(
	_ context.Context,
	data []byte,
) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNoFace
	}

	cells := blockMeans(img, EmbeddingSize)

	var sum float64
	for _, v := range cells {
		sum += v
	}
	avg := sum / float64(len(cells))

	var norm float64
	for i, v := range cells {
		cells[i] = v - avg
		norm += cells[i] * cells[i]
	}
	norm = math.Sqrt(norm)

	if norm < 1e-9 {
		return nil, ErrNoFace
	}

	out := make([]float32, len(cells))
	for i, v := range cells {
		out[i] = float32(v / norm)
	}

	return out, nil
}

// blockMeans splits the image into n cells on a 8x(n/8) grid and returns
// each cell's mean intensity.
func blockMeans(
	img image.Image,
	n int,
) []float64 {
	const rows = 8
	cols := n / rows

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	sums := make([]float64, n)
	counts := make([]int, n)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			grey := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0

			row := y * rows / h
			col := x * cols / w
			idx := row*cols + col

			sums[idx] += grey
			counts[idx]++
		}
	}

	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}

	return sums
}
