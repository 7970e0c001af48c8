package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/repo/memory"
	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type recordingNotifier struct {
	resetURLs []string
}

func (n *recordingNotifier) SendWelcome(context.Context, string, string) {}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, _ string, resetURL string) {
	n.resetURLs = append(n.resetURLs, resetURL)
}

func (n *recordingNotifier) SendIssueCreated(context.Context, string, model.Issue) {}

func (n *recordingNotifier) SendProfileUpdated(context.Context, string) {}

func newTestAuthService(t *testing.T, store *memory.Store, notifier *recordingNotifier) *authsvc.Service {
	t.Helper()

	tokens, err := authsvc.NewTokenManager("test-secret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return authsvc.NewService(store, tokens, notifier, authsvc.Config{
		ResetTokenTTL: 10 * time.Minute,
		BcryptCost:    bcrypt.MinCost,
	}, zap.NewNop())
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: userID}))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	t.Helper()

	var env testEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, rr.Body.String())
	}
	return env
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}
