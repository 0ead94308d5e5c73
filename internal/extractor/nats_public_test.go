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

package extractor_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/extractor"
)

// fakeConn scripts a single request/reply exchange.
type fakeConn struct {
	reply   []byte
	err     error
	status  nats.Status
	subject string
}

func (f *fakeConn) RequestWithContext(
	_ context.Context,
	subj string,
	_ []byte,
) (*nats.Msg, error) {
	f.subject = subj
	if f.err != nil {
		return nil, f.err
	}

	return &nats.Msg{Data: f.reply}, nil
}

func (f *fakeConn) Status() nats.Status {
	return f.status
}

type NATSPublicTestSuite struct {
	suite.Suite
}

func (s *NATSPublicTestSuite) newExtractor(
	conn *fakeConn,
) *extractor.NATS {
	return extractor.NewNATS(slog.Default(), conn, "facegate.extract")
}

func (s *NATSPublicTestSuite) TestDetectAndEmbed() {
	embedding := make([]float32, extractor.EmbeddingSize)
	embedding[0] = 1

	reply := `{"found":true,"confidence":0.95,"embedding":[1`
	for i := 1; i < extractor.EmbeddingSize; i++ {
		reply += ",0"
	}
	reply += `]}`

	conn := &fakeConn{reply: []byte(reply)}
	vec, err := s.newExtractor(conn).DetectAndEmbed(context.Background(), []byte("img"))

	s.NoError(err)
	s.Equal(embedding, vec)
	s.Equal("facegate.extract", conn.subject)
}

func (s *NATSPublicTestSuite) TestDetectAndEmbedErrors() {
	tests := []struct {
		name    string
		conn    *fakeConn
		wantErr error
	}{
		{
			name:    "no face detected",
			conn:    &fakeConn{reply: []byte(`{"found":false}`)},
			wantErr: extractor.ErrNoFace,
		},
		{
			name:    "confidence below threshold",
			conn:    &fakeConn{reply: []byte(`{"found":true,"confidence":0.5,"embedding":[1]}`)},
			wantErr: extractor.ErrLowConfidence,
		},
		{
			name:    "worker reported error",
			conn:    &fakeConn{reply: []byte(`{"error":"model not loaded"}`)},
			wantErr: extractor.ErrUnavailable,
		},
		{
			name:    "transport failure",
			conn:    &fakeConn{err: errors.New("nats: timeout")},
			wantErr: extractor.ErrUnavailable,
		},
		{
			name:    "wrong embedding length",
			conn:    &fakeConn{reply: []byte(`{"found":true,"confidence":0.9,"embedding":[1,2,3]}`)},
			wantErr: extractor.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.newExtractor(tc.conn).DetectAndEmbed(context.Background(), []byte("img"))

			s.ErrorIs(err, tc.wantErr)
		})
	}
}

func (s *NATSPublicTestSuite) TestLoaded() {
	s.True(s.newExtractor(&fakeConn{status: nats.CONNECTED}).Loaded())
	s.False(s.newExtractor(&fakeConn{status: nats.CLOSED}).Loaded())
}

func TestNATSPublicTestSuite(t *testing.T) {
	suite.Run(t, new(NATSPublicTestSuite))
}
