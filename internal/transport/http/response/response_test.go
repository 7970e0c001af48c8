package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Note created successfully", map[string]string{"id": "n1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	payload := decode(t, rec)
	if payload["success"] != true || payload["message"] != "Note created successfully" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
	data, ok := payload["data"].(map[string]any)
	if !ok || data["id"] != "n1" {
		t.Fatalf("unexpected data: %v", payload["data"])
	}
}

func TestSuccessWithNilDataSendsEmptyObject(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, "Logout successful", nil)

	payload := decode(t, rec)
	if _, ok := payload["data"].(map[string]any); !ok {
		t.Fatalf("expected empty object data, got %v", payload["data"])
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)

	Error(rec, req, zap.New(core), errors.New("mongo: socket closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	payload := decode(t, rec)
	if payload["success"] != false || payload["message"] != "Internal Server Error" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
	if logs.Len() != 1 {
		t.Fatalf("internal error must be logged")
	}
}

func TestErrorSurfacesExpectedErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()

	Error(rec, nil, zap.New(core), apperr.Validation("Invalid request body", "unknown field \"role\""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	payload := decode(t, rec)
	if payload["message"] != "Invalid request body" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
	if errs, ok := payload["errors"].([]any); !ok || len(errs) != 1 {
		t.Fatalf("expected details in errors, got %v", payload["errors"])
	}
	if logs.Len() != 0 {
		t.Fatalf("expected errors must not be logged as failures")
	}
}
