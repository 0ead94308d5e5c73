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

package authtoken_test

import (
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/authtoken"
)

const signingKey = "test-signing-key"

type TokenPublicTestSuite struct {
	suite.Suite

	token *authtoken.Token
}

func (s *TokenPublicTestSuite) SetupTest() {
	s.token = authtoken.New(slog.Default())
}

func (s *TokenPublicTestSuite) TestGenerateAndValidate() {
	signed, err := s.token.Generate(signingKey, []string{"admin"}, "ops", nil)
	s.Require().NoError(err)

	claims, err := s.token.Validate(signed, signingKey)

	s.NoError(err)
	s.Equal("ops", claims.Subject)
	s.Equal("facegate", claims.Issuer)
	s.Equal([]string{"admin"}, claims.Roles)
	s.Empty(claims.Permissions)
}

func (s *TokenPublicTestSuite) TestGenerateEmptySigningKey() {
	_, err := s.token.Generate("", []string{"admin"}, "ops", nil)

	s.Error(err)
}

func (s *TokenPublicTestSuite) TestGenerateWithDirectPermissions() {
	signed, err := s.token.Generate(
		signingKey,
		[]string{"read"},
		"ops",
		[]string{authtoken.PermThreatSimulate},
	)
	s.Require().NoError(err)

	claims, err := s.token.Validate(signed, signingKey)

	s.NoError(err)
	s.Equal([]string{authtoken.PermThreatSimulate}, claims.Permissions)
}

func (s *TokenPublicTestSuite) TestValidateWrongKey() {
	signed, err := s.token.Generate(signingKey, []string{"admin"}, "ops", nil)
	s.Require().NoError(err)

	_, err = s.token.Validate(signed, "other-key")

	s.Error(err)
}

func (s *TokenPublicTestSuite) TestValidateMalformed() {
	_, err := s.token.Validate("not.a.token", signingKey)

	s.Error(err)
}

func (s *TokenPublicTestSuite) TestValidateRejectsUnsignedToken() {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &authtoken.CustomClaims{
		Roles: []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ops",
		},
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.token.Validate(tokenString, signingKey)

	s.ErrorContains(err, "unexpected signing method")
}

func (s *TokenPublicTestSuite) TestValidateRejectsMissingRoles() {
	claims := &authtoken.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ops",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signingKey))
	s.Require().NoError(err)

	_, err = s.token.Validate(tokenString, signingKey)

	s.Error(err)
}

func (s *TokenPublicTestSuite) TestResolvePermissions() {
	tests := []struct {
		name        string
		roles       []string
		direct      []string
		customRoles map[string][]string
		want        []string
		wantMissing []string
	}{
		{
			name:  "admin gets everything",
			roles: []string{"admin"},
			want:  authtoken.AllPermissions,
		},
		{
			name:        "read is read only",
			roles:       []string{"read"},
			want:        []string{authtoken.PermAuditRead},
			wantMissing: []string{authtoken.PermThreatSimulate},
		},
		{
			name:  "roles union",
			roles: []string{"read", "analyst"},
			want:  []string{authtoken.PermAuditRead, authtoken.PermThreatSimulate},
		},
		{
			name:        "direct permissions override roles",
			roles:       []string{"admin"},
			direct:      []string{authtoken.PermAuditExport},
			want:        []string{authtoken.PermAuditExport},
			wantMissing: []string{authtoken.PermAuditRead},
		},
		{
			name:  "custom role shadows built-in",
			roles: []string{"read"},
			customRoles: map[string][]string{
				"read": {authtoken.PermThreatSimulate},
			},
			want:        []string{authtoken.PermThreatSimulate},
			wantMissing: []string{authtoken.PermAuditRead},
		},
		{
			name:        "unknown role resolves to nothing",
			roles:       []string{"superuser"},
			wantMissing: authtoken.AllPermissions,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			resolved := authtoken.ResolvePermissions(tc.roles, tc.direct, tc.customRoles)

			for _, p := range tc.want {
				s.True(authtoken.HasPermission(resolved, p), p)
			}
			for _, p := range tc.wantMissing {
				s.False(authtoken.HasPermission(resolved, p), p)
			}
		})
	}
}

func (s *TokenPublicTestSuite) TestAllowedRoles() {
	s.Equal([]string{"admin", "analyst", "read"}, authtoken.AllowedRoles())
}

func TestTokenPublicTestSuite(t *testing.T) {
	suite.Run(t, new(TokenPublicTestSuite))
}
