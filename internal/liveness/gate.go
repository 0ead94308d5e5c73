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

// Package liveness classifies images as live captures from pixel statistics.
//
// This is a basic quality gate (exposure and focus), not an anti-spoofing
// guarantee.
package liveness

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the capture formats clients upload.
	_ "image/jpeg"
	_ "image/png"
)

// Result is the outcome of a liveness assessment.
type Result struct {
	// Live is true when all quality checks pass.
	Live bool
	// Reason describes the first failing check; empty when live.
	Reason string
	// Sharpness is the Laplacian-variance focus score.
	Sharpness float64
	// Brightness is the mean greyscale intensity.
	Brightness float64
}

// Gate assesses images against fixed quality thresholds. Stateless.
type Gate struct {
	minSharpness  float64
	minBrightness float64
	maxBrightness float64
}

// NewGate creates a new Gate with the given thresholds.
func NewGate(
	minSharpness float64,
	minBrightness float64,
	maxBrightness float64,
) *Gate {
	return &Gate{
		minSharpness:  minSharpness,
		minBrightness: minBrightness,
		maxBrightness: maxBrightness,
	}
}

// Decode decodes raw upload bytes into an image.
func Decode(
	data []byte,
) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

// Assess runs the quality checks, short-circuiting on the first failure.
// A completely flat frame fails the exposure checks before the focus
// check, so a black test card reports "too dark" rather than "too blurry".
func (g *Gate) Assess(
	img image.Image,
) Result {
	grey := greyscale(img)

	brightness := mean(grey)
	sharpness := laplacianVariance(grey)

	res := Result{
		Sharpness:  sharpness,
		Brightness: brightness,
	}

	switch {
	case brightness < g.minBrightness:
		res.Reason = "image too dark"
	case brightness > g.maxBrightness:
		res.Reason = "image too bright / potential glare"
	case sharpness < g.minSharpness:
		res.Reason = fmt.Sprintf("image too blurry (score: %.1f)", sharpness)
	default:
		res.Live = true
	}

	return res
}

// greyscale converts the image to a row-major float intensity matrix using
// the ITU-R BT.601 luma weights.
func greyscale(
	img image.Image,
) [][]float64 {
	bounds := img.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()

	grey := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels; scale to 0..255.
			row[x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
		grey[y] = row
	}

	return grey
}

// mean returns the average intensity.
func mean(
	grey [][]float64,
) float64 {
	if len(grey) == 0 || len(grey[0]) == 0 {
		return 0
	}

	var sum float64
	for _, row := range grey {
		for _, v := range row {
			sum += v
		}
	}

	return sum / float64(len(grey)*len(grey[0]))
}

// laplacianVariance applies the 3x3 Laplacian kernel to the interior
// pixels and returns the variance of the response. Flat frames score 0;
// sharp edges score high.
func laplacianVariance(
	grey [][]float64,
) float64 {
	h := len(grey)
	if h < 3 {
		return 0
	}
	w := len(grey[0])
	if w < 3 {
		return 0
	}

	n := (h - 2) * (w - 2)
	responses := make([]float64, 0, n)

	var sum float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := grey[y-1][x] + grey[y+1][x] + grey[y][x-1] + grey[y][x+1] - 4*grey[y][x]
			responses = append(responses, v)
			sum += v
		}
	}

	avg := sum / float64(n)

	var variance float64
	for _, v := range responses {
		d := v - avg
		variance += d * d
	}

	return variance / float64(n)
}
