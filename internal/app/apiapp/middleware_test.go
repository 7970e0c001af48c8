package apiapp

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	ratesvc "github.com/ArnavSingha/ApniSec/internal/services/rate"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/handlers"
)

func newTestTokens(t *testing.T) *authsvc.TokenManager {
	t.Helper()

	tokens, err := authsvc.NewTokenManager("test-secret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return tokens
}

func withSessionCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: token})
	return req
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	mw := RequireSession(newTestTokens(t), zap.NewNop())

	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called without a cookie")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/issues", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
	if body := rr.Body.String(); !strings.Contains(body, authsvc.MsgTokenMissing) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRequireSessionRejectsForeignToken(t *testing.T) {
	other, err := authsvc.NewTokenManager("other-secret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	token, _, err := other.Sign("user-1")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	mw := RequireSession(newTestTokens(t), zap.NewNop())
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called on invalid token")
	})).ServeHTTP(rr, withSessionCookie(httptest.NewRequest(http.MethodGet, "/issues", nil), token))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
	if body := rr.Body.String(); !strings.Contains(body, authsvc.MsgTokenInvalid) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRequireSessionPutsIdentityOnContext(t *testing.T) {
	tokens := newTestTokens(t)
	token, _, err := tokens.Sign("user-42")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var got authsvc.Identity
	rr := httptest.NewRecorder()
	RequireSession(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = authsvc.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, withSessionCookie(httptest.NewRequest(http.MethodGet, "/issues", nil), token))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
	if got.UserID != "user-42" || got.TokenID == "" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestRateLimitSetsHeadersAndBlocks(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	limiter := ratesvc.NewLimiter(ratesvc.NewMemoryStore(), ratesvc.DefaultConfig, map[string]ratesvc.Config{
		"login": {Limit: 2, Window: time.Minute},
	}, zap.NewNop()).WithClock(func() time.Time { return now })

	handler := RateLimit(limiter, "login", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i, wantRemaining := range []string{"1", "0"} {
		rr := send()
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d want %d", i+1, rr.Code, http.StatusOK)
		}
		if got := rr.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: remaining got %s want %s", i+1, got, wantRemaining)
		}
	}

	rr := send()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "2" || rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected headers on 429: %v", rr.Header())
	}
	wantReset := strconv.FormatInt(now.Add(time.Minute).Unix(), 10)
	if got := rr.Header().Get("X-RateLimit-Reset"); got != wantReset {
		t.Fatalf("unexpected reset header: got %s want %s", got, wantReset)
	}
	if body := rr.Body.String(); !strings.Contains(body, msgTooManyRequests) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestClientIPIgnoresForwardingHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	if got := clientIP(req); got != "198.51.100.7" {
		t.Fatalf("unexpected ip from remote addr: %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	if got := clientIP(req); got != "198.51.100.7" {
		t.Fatalf("forwarded header must not replace the socket address: %s", got)
	}

	req.RemoteAddr = ""
	if got := clientIP(req); got != "unknown" {
		t.Fatalf("unexpected ip for empty remote addr: %s", got)
	}
}

func TestTrustedRealIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "127.0.0.1"})
	if err != nil {
		t.Fatalf("parse proxies: %v", err)
	}

	var seen string
	handler := TrustedRealIP(proxies)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = clientIP(r)
	}))

	cases := []struct {
		name   string
		remote string
		want   string
	}{
		{name: "untrusted peer keeps socket address", remote: "203.0.113.9:5555", want: "203.0.113.9"},
		{name: "trusted cidr peer", remote: "10.1.2.3:5555", want: "198.51.100.20"},
		{name: "trusted single ip peer", remote: "127.0.0.1:5555", want: "198.51.100.20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = tc.remote
			req.Header.Set("X-Forwarded-For", "198.51.100.20, 10.1.2.3")
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if seen != tc.want {
				t.Fatalf("client ip: got %s want %s", seen, tc.want)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := ParseTrustedProxies([]string{"10.0.0.0/8", "proxy.internal"}); err == nil {
		t.Fatalf("expected error for hostname entry")
	}
	if _, err := ParseTrustedProxies([]string{"10.0.0.0/33"}); err == nil {
		t.Fatalf("expected error for bad cidr")
	}

	proxies, err := ParseTrustedProxies(nil)
	if err != nil {
		t.Fatalf("empty list: %v", err)
	}
	if proxies.Trusts("127.0.0.1:80") {
		t.Fatalf("empty list must trust nobody")
	}
}

func TestRateLimitCannotBeResetByForwardedFor(t *testing.T) {
	limiter := ratesvc.NewLimiter(ratesvc.NewMemoryStore(), ratesvc.DefaultConfig, map[string]ratesvc.Config{
		"login": {Limit: 5, Window: time.Minute},
	}, zap.NewNop())

	handler := TrustedRealIP(nil)(RateLimit(limiter, "login", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	blocked := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	if blocked != 45 {
		t.Fatalf("rotating X-Forwarded-For must not reset the window: blocked %d of 50", blocked)
	}
}

func TestPageGuardRedirects(t *testing.T) {
	tokens := newTestTokens(t)
	token, _, err := tokens.Sign("user-1")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		token    string
		location string
	}{
		{name: "dashboard signed out", path: "/dashboard", location: "/login"},
		{name: "nested dashboard signed out", path: "/dashboard/issues", location: "/login"},
		{name: "profile with bad token", path: "/profile", token: "garbage", location: "/login"},
		{name: "login signed in", path: "/login", token: token, location: "/dashboard"},
		{name: "reset signed in", path: "/reset-password", token: token, location: "/dashboard"},
		{name: "dashboard signed in", path: "/dashboard", token: token},
		{name: "login signed out", path: "/login"},
		{name: "dashboards prefix is not dashboard", path: "/dashboards", location: ""},
	}

	guard := PageGuard(tokens)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req = withSessionCookie(req, tc.token)
			}
			rr := httptest.NewRecorder()
			guard.ServeHTTP(rr, req)

			if tc.location == "" {
				if rr.Code != http.StatusOK {
					t.Fatalf("expected pass-through, got %d", rr.Code)
				}
				return
			}
			if rr.Code != http.StatusFound || rr.Header().Get("Location") != tc.location {
				t.Fatalf("unexpected redirect: %d %q", rr.Code, rr.Header().Get("Location"))
			}
		})
	}
}
