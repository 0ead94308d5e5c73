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

package challenge_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/challenge"
)

type ManagerPublicTestSuite struct {
	suite.Suite

	now     time.Time
	manager *challenge.Manager
}

func (s *ManagerPublicTestSuite) SetupTest() {
	s.now = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.manager = challenge.NewManager(
		60*time.Second,
		challenge.WithNow(func() time.Time { return s.now }),
	)
}

func (s *ManagerPublicTestSuite) TestIssue() {
	ch := s.manager.Issue()

	s.NotEmpty(ch.Token)
	s.Equal(s.now, ch.IssuedAt)
	s.Equal(1, s.manager.Live())
}

func (s *ManagerPublicTestSuite) TestIssueUniqueTokens() {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ch := s.manager.Issue()
		s.False(seen[ch.Token])
		seen[ch.Token] = true
	}

	s.Equal(100, s.manager.Live())
}

func (s *ManagerPublicTestSuite) TestConsume() {
	tests := []struct {
		name     string
		setup    func() string
		advance  time.Duration
		wantErr  bool
		wantLive int
	}{
		{
			name: "valid token consumes once",
			setup: func() string {
				return s.manager.Issue().Token
			},
			wantErr:  false,
			wantLive: 0,
		},
		{
			name: "unknown token fails",
			setup: func() string {
				return "never-issued"
			},
			wantErr:  true,
			wantLive: 0,
		},
		{
			name: "token at ttl boundary still consumes",
			setup: func() string {
				return s.manager.Issue().Token
			},
			advance:  60 * time.Second,
			wantErr:  false,
			wantLive: 0,
		},
		{
			name: "token one second past ttl fails",
			setup: func() string {
				return s.manager.Issue().Token
			},
			advance:  61 * time.Second,
			wantErr:  true,
			wantLive: 0,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			token := tc.setup()
			s.now = s.now.Add(tc.advance)

			err := s.manager.Consume(token)

			if tc.wantErr {
				s.ErrorIs(err, challenge.ErrInvalidNonce)
			} else {
				s.NoError(err)
			}
			s.Equal(tc.wantLive, s.manager.Live())
		})
	}
}

func (s *ManagerPublicTestSuite) TestConsumeIsSingleUse() {
	token := s.manager.Issue().Token

	s.NoError(s.manager.Consume(token))
	s.ErrorIs(s.manager.Consume(token), challenge.ErrInvalidNonce)
}

func (s *ManagerPublicTestSuite) TestConsumeConcurrentExactlyOneWins() {
	token := s.manager.Issue().Token

	const goroutines = 16

	var wg sync.WaitGroup
	results := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.manager.Consume(token)
		}()
	}
	wg.Wait()
	close(results)

	var oks, errs int
	for err := range results {
		if err == nil {
			oks++
		} else {
			errs++
		}
	}

	s.Equal(1, oks)
	s.Equal(goroutines-1, errs)
}

func (s *ManagerPublicTestSuite) TestIssuePurgesExpired() {
	s.manager.Issue()
	s.manager.Issue()
	s.Equal(2, s.manager.Live())

	s.now = s.now.Add(61 * time.Second)
	s.manager.Issue()

	s.Equal(1, s.manager.Live())
}

func TestManagerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerPublicTestSuite))
}
