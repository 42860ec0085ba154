package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if env := decode(t, rec); !env.Success {
		t.Error("expected success envelope")
	}
}

func TestFromError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	err := apperrors.Validation("Validation failed", apperrors.FieldError{Field: "title", Message: "title is required"})

	FromError(rec, req, logger.Nop(), err, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Success || env.Error != "Validation failed" || len(env.Details) != 1 {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestFromError_HidesUnexpectedInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	err := apperrors.Unexpected("Failed to fetch projects", errors.New("dial tcp: refused"))

	rec := httptest.NewRecorder()
	FromError(rec, req, logger.Nop(), err, true)
	if env := decode(t, rec); env.Error != "Internal server error" {
		t.Errorf("expected hidden message, got %q", env.Error)
	}

	rec = httptest.NewRecorder()
	FromError(rec, req, logger.Nop(), err, false)
	if env := decode(t, rec); env.Error != "Failed to fetch projects" {
		t.Errorf("expected message in development, got %q", env.Error)
	}
}

func TestFromError_ConflictIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)

	FromError(rec, req, logger.Nop(), apperrors.Conflict("User already exists", nil), false)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Error != "Internal server error" {
		t.Errorf("expected generic message, got %q", env.Error)
	}
}
