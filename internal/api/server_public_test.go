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

package api_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/facegate-io/facegate/internal/api"
	apiauth "github.com/facegate-io/facegate/internal/api/auth"
	"github.com/facegate-io/facegate/internal/audit"
	"github.com/facegate-io/facegate/internal/authtoken"
	"github.com/facegate-io/facegate/internal/challenge"
	"github.com/facegate-io/facegate/internal/config"
	"github.com/facegate-io/facegate/internal/extractor"
	"github.com/facegate-io/facegate/internal/identity"
	"github.com/facegate-io/facegate/internal/liveness"
	"github.com/facegate-io/facegate/internal/lockout"
	"github.com/facegate-io/facegate/internal/metrics"
	"github.com/facegate-io/facegate/internal/threatsim"
	"github.com/facegate-io/facegate/internal/verify"
)

const signingKey = "test-signing-key"

type ServerPublicTestSuite struct {
	suite.Suite

	server   *api.Server
	auditLog *audit.Log
	tokens   *authtoken.Token
}

func (s *ServerPublicTestSuite) SetupTest() {
	var cfg config.Config
	s.Require().NoError(config.Validate(&cfg))
	cfg.API.Server.Security.SigningKey = signingKey

	logger := slog.Default()
	m := metrics.New()
	s.auditLog = audit.NewLog(logger, cfg.Audit.Capacity)
	s.tokens = authtoken.New(logger)

	lockouts := lockout.NewPolicy(
		cfg.Lockout.MaxFailures,
		cfg.Lockout.Window,
		cfg.Lockout.Cooldown,
	)
	ext := extractor.NewStub()

	orchestrator := verify.New(logger, verify.Options{
		Challenges:          challenge.NewManager(cfg.Challenge.TTL),
		Gate:                liveness.NewGate(cfg.Liveness.MinSharpness, cfg.Liveness.MinBrightness, cfg.Liveness.MaxBrightness),
		Extractor:           ext,
		Identities:          identity.NewStore(),
		Audit:               s.auditLog,
		Lockouts:            lockouts,
		Metrics:             m,
		SimilarityThreshold: cfg.Verification.SimilarityThreshold,
		ExtractTimeout:      cfg.Verification.Extractor.Timeout,
	})
	engine := threatsim.New(logger, s.auditLog, m)

	s.server = api.New(cfg, logger)
	s.server.RegisterHandlers(
		s.server.GetAuthHandler(orchestrator),
		s.server.GetAuditHandler(s.auditLog),
		s.server.GetStatusHandler(lockouts),
		s.server.GetHealthHandler(ext, time.Now(), "test"),
		s.server.GetThreatHandler(engine),
		s.server.GetMetricsHandler(m),
	)
}

// facePNG encodes a checkerboard over a gradient: enough edges for the
// liveness gate and enough block-level signal for the stub extractor.
func (s *ServerPublicTestSuite) facePNG() []byte {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := 64 + x
			if (x+y)%2 == 0 {
				v += 64
			}
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}

	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))

	return buf.Bytes()
}

// darkPNG encodes an all-black frame.
func (s *ServerPublicTestSuite) darkPNG() []byte {
	img := image.NewGray(image.Rect(0, 0, 64, 64))

	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))

	return buf.Bytes()
}

// multipartBody builds a multipart form with the given fields, plus an
// image part when image is non-nil.
func (s *ServerPublicTestSuite) multipartBody(
	fields map[string]string,
	img []byte,
) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		s.Require().NoError(w.WriteField(name, value))
	}
	if img != nil {
		fw, err := w.CreateFormFile("image", "face.png")
		s.Require().NoError(err)
		_, err = fw.Write(img)
		s.Require().NoError(err)
	}
	s.Require().NoError(w.Close())

	return &buf, w.FormDataContentType()
}

func (s *ServerPublicTestSuite) do(
	req *http.Request,
) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Echo.ServeHTTP(rec, req)

	return rec
}

func (s *ServerPublicTestSuite) postForm(
	path string,
	fields map[string]string,
	img []byte,
) *httptest.ResponseRecorder {
	body, contentType := s.multipartBody(fields, img)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echoHeaderContentType, contentType)

	return s.do(req)
}

const echoHeaderContentType = "Content-Type"

func (s *ServerPublicTestSuite) decode(
	rec *httptest.ResponseRecorder,
	v interface{},
) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

// register creates a user through the API and asserts success.
func (s *ServerPublicTestSuite) register(
	username string,
	role string,
) {
	rec := s.postForm("/auth/register", map[string]string{
		"username": username,
		"role":     role,
	}, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
}

// enrollFace registers and enrolls username with the standard face image.
func (s *ServerPublicTestSuite) enrollFace(
	username string,
) {
	s.register(username, "user")
	rec := s.postForm("/auth/enroll", map[string]string{
		"username": username,
	}, s.facePNG())
	s.Require().Equal(http.StatusOK, rec.Code)
}

// nonce requests a fresh challenge through the API.
func (s *ServerPublicTestSuite) nonce() string {
	rec := s.do(httptest.NewRequest(http.MethodPost, "/auth/challenge", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp apiauth.ChallengeResponse
	s.decode(rec, &resp)

	return resp.Nonce
}

func (s *ServerPublicTestSuite) bearer(
	req *http.Request,
	roles ...string,
) {
	token, err := s.tokens.Generate(signingKey, roles, "ops", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func (s *ServerPublicTestSuite) TestHealthGet() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp map[string]interface{}
	s.decode(rec, &resp)
	s.Equal("online", resp["status"])
	s.Equal(true, resp["models_loaded"])
	s.Equal("test", resp["version"])
}

func (s *ServerPublicTestSuite) TestStatusGet() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/status", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp map[string]interface{}
	s.decode(rec, &resp)
	s.Equal(false, resp["locked"])
	s.Equal(float64(0), resp["failures"])
}

func (s *ServerPublicTestSuite) TestChallengePost() {
	rec := s.do(httptest.NewRequest(http.MethodPost, "/auth/challenge", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp apiauth.ChallengeResponse
	s.decode(rec, &resp)
	s.NotEmpty(resp.Nonce)
	s.Greater(resp.Timestamp, 0.0)
}

func (s *ServerPublicTestSuite) TestRegisterPost() {
	rec := s.postForm("/auth/register", map[string]string{
		"username": "alice",
		"role":     "admin",
	}, nil)

	s.Equal(http.StatusOK, rec.Code)

	var resp apiauth.RegisterResponse
	s.decode(rec, &resp)
	s.NotEmpty(resp.ID)
	s.Equal("alice", resp.Username)
	s.Equal("admin", resp.Role)
	s.Greater(resp.CreatedAt, 0.0)
}

func (s *ServerPublicTestSuite) TestRegisterPostDuplicate() {
	s.register("alice", "admin")

	rec := s.postForm("/auth/register", map[string]string{
		"username": "alice",
		"role":     "user",
	}, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Username already exists")
}

func (s *ServerPublicTestSuite) TestRegisterPostMissingFields() {
	rec := s.postForm("/auth/register", map[string]string{
		"username": "alice",
	}, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerPublicTestSuite) TestEnrollPost() {
	s.register("alice", "admin")

	rec := s.postForm("/auth/enroll", map[string]string{
		"username": "alice",
	}, s.facePNG())

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "User alice enrolled successfully.")
}

func (s *ServerPublicTestSuite) TestEnrollPostUnknownUser() {
	rec := s.postForm("/auth/enroll", map[string]string{
		"username": "ghost",
	}, s.facePNG())

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "User not found")
}

func (s *ServerPublicTestSuite) TestEnrollPostQualityFailure() {
	s.register("alice", "admin")

	rec := s.postForm("/auth/enroll", map[string]string{
		"username": "alice",
	}, s.darkPNG())

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Image Quality Check Failed: image too dark")
}

func (s *ServerPublicTestSuite) TestEnrollPostMissingImage() {
	s.register("alice", "admin")

	rec := s.postForm("/auth/enroll", map[string]string{
		"username": "alice",
	}, nil)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerPublicTestSuite) TestVerifyPost() {
	s.enrollFace("alice")

	rec := s.postForm("/auth/verify", map[string]string{
		"nonce": s.nonce(),
	}, s.facePNG())

	s.Equal(http.StatusOK, rec.Code)

	var decision verify.Decision
	s.decode(rec, &decision)
	s.True(decision.Authorized)
	s.Equal("Welcome, alice", decision.Message)
	s.Require().NotNil(decision.User)
	s.Equal("alice", decision.User.Username)
}

func (s *ServerPublicTestSuite) TestVerifyPostMissingNonce() {
	rec := s.postForm("/auth/verify", map[string]string{}, s.facePNG())

	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(rec.Body.String(), "Invalid or expired challenge (Replay Attack Protection)")
}

func (s *ServerPublicTestSuite) TestVerifyPostReplayedNonce() {
	s.enrollFace("alice")
	nonce := s.nonce()

	first := s.postForm("/auth/verify", map[string]string{
		"nonce": nonce,
	}, s.facePNG())
	s.Require().Equal(http.StatusOK, first.Code)

	second := s.postForm("/auth/verify", map[string]string{
		"nonce": nonce,
	}, s.facePNG())

	s.Equal(http.StatusForbidden, second.Code)
	s.Contains(second.Body.String(), "Replay Attack Protection")
}

func (s *ServerPublicTestSuite) TestVerifyPostUnrecognizedFace() {
	s.enrollFace("alice")

	// An unenrolled pattern: vertical gradient instead of horizontal.
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := 64 + y
			if (x+y)%2 == 0 {
				v += 64
			}
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))

	rec := s.postForm("/auth/verify", map[string]string{
		"nonce": s.nonce(),
	}, buf.Bytes())

	s.Equal(http.StatusOK, rec.Code)

	var decision verify.Decision
	s.decode(rec, &decision)
	s.False(decision.Authorized)
	s.Nil(decision.User)
}

func (s *ServerPublicTestSuite) TestVerifyPostLockout() {
	s.enrollFace("alice")

	for i := 0; i < 3; i++ {
		rec := s.postForm("/auth/verify", map[string]string{
			"nonce": "stale-nonce",
		}, s.facePNG())
		s.Require().Equal(http.StatusForbidden, rec.Code)
	}

	rec := s.postForm("/auth/verify", map[string]string{
		"nonce": s.nonce(),
	}, s.facePNG())

	s.Equal(http.StatusLocked, rec.Code)
	s.Contains(rec.Body.String(), "Too many failed attempts")

	status := s.do(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	s.Contains(status.Body.String(), `"locked":true`)
}

func (s *ServerPublicTestSuite) TestAuditLogsGetRequiresToken() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/audit/logs", nil))

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Bearer token required")
}

func (s *ServerPublicTestSuite) TestAuditLogsGetRejectsBadToken() {
	req := httptest.NewRequest(http.MethodGet, "/audit/logs", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := s.do(req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Invalid token")
}

func (s *ServerPublicTestSuite) TestAuditLogsGet() {
	s.register("alice", "admin")

	req := httptest.NewRequest(http.MethodGet, "/audit/logs?limit=10", nil)
	s.bearer(req, "read")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Events []audit.Event `json:"events"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
	}
	s.decode(rec, &resp)
	s.Equal(1, resp.Total)
	s.Equal(10, resp.Limit)
	s.Require().Len(resp.Events, 1)
	s.Equal(audit.EventRegistration, resp.Events[0].EventType)
}

func (s *ServerPublicTestSuite) TestAuditSummaryGet() {
	s.register("alice", "admin")

	req := httptest.NewRequest(http.MethodGet, "/audit/summary", nil)
	s.bearer(req, "admin")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "total_auths_1h")
	s.Contains(rec.Body.String(), "active_threats")
}

func (s *ServerPublicTestSuite) TestThreatSimulatePost() {
	body := strings.NewReader(`{
		"attack_type": "REPLAY",
		"target_user": "alice",
		"security_level": "HIGH"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/threat/simulate", body)
	req.Header.Set(echoHeaderContentType, "application/json")
	s.bearer(req, "analyst")

	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)

	var result threatsim.Result
	s.decode(rec, &result)
	s.False(result.Success)
	s.Equal("Replay Blocked: Nonce validation rejected reuse of old packet.", result.Message)
	s.Equal(3, s.auditLog.Size())
}

func (s *ServerPublicTestSuite) TestThreatSimulatePostInsufficientRole() {
	body := strings.NewReader(`{
		"attack_type": "REPLAY",
		"target_user": "alice",
		"security_level": "HIGH"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/threat/simulate", body)
	req.Header.Set(echoHeaderContentType, "application/json")
	s.bearer(req, "read")

	rec := s.do(req)

	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(rec.Body.String(), "Insufficient permissions")
}

func (s *ServerPublicTestSuite) TestThreatSimulatePostInvalidLevel() {
	body := strings.NewReader(`{
		"attack_type": "REPLAY",
		"target_user": "alice",
		"security_level": "EXTREME"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/threat/simulate", body)
	req.Header.Set(echoHeaderContentType, "application/json")
	s.bearer(req, "analyst")

	rec := s.do(req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerPublicTestSuite) TestMetricsGet() {
	s.do(httptest.NewRequest(http.MethodPost, "/auth/challenge", nil))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "facegate_challenges_issued_total 1")
}

func TestServerPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ServerPublicTestSuite))
}
