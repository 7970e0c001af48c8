package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArnavSingha/ApniSec/internal/app/apiapp"
	"github.com/ArnavSingha/ApniSec/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Storage.Driver = config.DriverMemory
	cfg.Auth.JWTSecret = "integration-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func call(t *testing.T, client *http.Client, method, url string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp.StatusCode, env
}

func TestHealthz(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newServer(t)
	client := newClient(t)
	api := ts.URL + "/api"

	status, env := call(t, client, http.MethodPost, api+"/auth/register", map[string]string{
		"name": "Ada Lovelace", "email": "ada@apnisec.test", "password": "analytical",
	})
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("register: got %d %+v", status, env)
	}

	status, _ = call(t, client, http.MethodPost, api+"/auth/register", map[string]string{
		"name": "Ada Again", "email": "ADA@apnisec.test", "password": "analytical",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register: got %d want %d", status, http.StatusConflict)
	}

	status, _ = call(t, client, http.MethodGet, api+"/auth/me", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("me after register without login: got %d want %d", status, http.StatusUnauthorized)
	}

	status, wrongPassword := call(t, client, http.MethodPost, api+"/auth/login", map[string]string{
		"email": "ada@apnisec.test", "password": "difference-engine",
	})
	_, unknownEmail := call(t, client, http.MethodPost, api+"/auth/login", map[string]string{
		"email": "nobody@apnisec.test", "password": "difference-engine",
	})
	if status != http.StatusUnauthorized || wrongPassword.Message != unknownEmail.Message {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword.Message, unknownEmail.Message)
	}

	status, env = call(t, client, http.MethodPost, api+"/auth/login", map[string]string{
		"email": "ada@apnisec.test", "password": "analytical",
	})
	if status != http.StatusOK || env.Message != "Login successful" {
		t.Fatalf("login: got %d %+v", status, env)
	}

	status, env = call(t, client, http.MethodGet, api+"/auth/me", nil)
	if status != http.StatusOK {
		t.Fatalf("me: got %d %+v", status, env)
	}
	var me struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "ada@apnisec.test" {
		t.Fatalf("unexpected me: %+v", me)
	}

	status, env = call(t, client, http.MethodPost, api+"/issues", map[string]string{
		"title": "Open security group", "type": "Cloud Security", "description": "0.0.0.0/0 on 22",
	})
	if status != http.StatusCreated {
		t.Fatalf("create issue: got %d %+v", status, env)
	}

	resp, err := client.Get(ts.URL + "/login")
	if err != nil {
		t.Fatalf("get login page: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("signed-in login page: got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	status, _ = call(t, client, http.MethodPost, api+"/auth/logout", nil)
	if status != http.StatusOK {
		t.Fatalf("logout: got %d", status)
	}

	status, env = call(t, client, http.MethodGet, api+"/auth/me", nil)
	if status != http.StatusUnauthorized || env.Success {
		t.Fatalf("me after logout: got %d %+v", status, env)
	}

	resp, err = client.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("get dashboard page: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("signed-out dashboard: got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}
