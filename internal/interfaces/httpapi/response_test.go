package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"feed unavailable", fmt.Errorf("%w: timeout", usecase.ErrFeedUnavailable), http.StatusServiceUnavailable, "feedUnavailable"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"team not found", usecase.ErrTeamNotFound, http.StatusNotFound, "notFound"},
		{"match not found", match.ErrNotFound, http.StatusNotFound, "notFound"},
		{"duplicate match", match.ErrDuplicateID, http.StatusConflict, "alreadyExists"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, mapped.HTTPStatus)
			}
			if mapped.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, mapped.Reason)
			}
		})
	}
}
