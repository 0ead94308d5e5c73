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

package liveness_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/liveness"
)

type GatePublicTestSuite struct {
	suite.Suite

	gate *liveness.Gate
}

func (s *GatePublicTestSuite) SetupTest() {
	s.gate = liveness.NewGate(20, 40, 220)
}

// flatImage returns a w x h greyscale image with every pixel set to v.
func flatImage(
	w int,
	h int,
	v uint8,
) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}

	return img
}

// checkerImage returns a w x h checkerboard alternating between lo and
// hi, giving mid brightness and strong edge response.
func checkerImage(
	w int,
	h int,
	lo uint8,
	hi uint8,
) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if (x+y)%2 == 0 {
				v = hi
			}
			img.Pix[y*img.Stride+x] = v
		}
	}

	return img
}

func (s *GatePublicTestSuite) TestAssess() {
	tests := []struct {
		name       string
		img        image.Image
		wantLive   bool
		wantReason string
	}{
		{
			name:       "all black fails too dark",
			img:        flatImage(100, 100, 0),
			wantLive:   false,
			wantReason: "image too dark",
		},
		{
			name:       "all white fails too bright",
			img:        flatImage(100, 100, 255),
			wantLive:   false,
			wantReason: "image too bright / potential glare",
		},
		{
			name:       "flat midtone fails too blurry",
			img:        flatImage(100, 100, 128),
			wantLive:   false,
			wantReason: "image too blurry (score: 0.0)",
		},
		{
			name:     "midtone with edges passes",
			img:      checkerImage(100, 100, 64, 192),
			wantLive: true,
		},
		{
			name:       "just below min brightness fails dark",
			img:        flatImage(100, 100, 39),
			wantLive:   false,
			wantReason: "image too dark",
		},
		{
			name:       "at min brightness clears exposure",
			img:        flatImage(100, 100, 40),
			wantLive:   false,
			wantReason: "image too blurry (score: 0.0)",
		},
		{
			name:       "at max brightness clears exposure",
			img:        flatImage(100, 100, 220),
			wantLive:   false,
			wantReason: "image too blurry (score: 0.0)",
		},
		{
			name:       "just above max brightness fails bright",
			img:        flatImage(100, 100, 221),
			wantLive:   false,
			wantReason: "image too bright / potential glare",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			res := s.gate.Assess(tc.img)

			s.Equal(tc.wantLive, res.Live)
			if !tc.wantLive {
				s.Equal(tc.wantReason, res.Reason)
			} else {
				s.Empty(res.Reason)
			}
		})
	}
}

func (s *GatePublicTestSuite) TestAssessReportsScores() {
	res := s.gate.Assess(flatImage(50, 50, 128))

	s.InDelta(128.0, res.Brightness, 0.5)
	s.InDelta(0.0, res.Sharpness, 0.001)
}

func (s *GatePublicTestSuite) TestDecode() {
	var buf bytes.Buffer
	err := png.Encode(&buf, flatImage(10, 10, 128))
	s.Require().NoError(err)

	img, err := liveness.Decode(buf.Bytes())

	s.NoError(err)
	s.Equal(10, img.Bounds().Dx())
}

func (s *GatePublicTestSuite) TestDecodeGarbage() {
	_, err := liveness.Decode([]byte("not an image"))

	s.Error(err)
}

func TestGatePublicTestSuite(t *testing.T) {
	suite.Run(t, new(GatePublicTestSuite))
}
