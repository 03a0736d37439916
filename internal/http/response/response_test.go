package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

func record(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	return w, envelope
}

func TestRespondFromError_APIError(t *testing.T) {
	w, envelope := record(t, func(c *gin.Context) {
		RespondFromError(c, apierr.NotFound("formation"))
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if envelope.Error.Code != apierr.CodeNotFound {
		t.Fatalf("expected code not_found, got %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "formation not found" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestRespondFromError_MasksInternalDetail(t *testing.T) {
	w, envelope := record(t, func(c *gin.Context) {
		RespondFromError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("infrastructure detail leaked: %q", envelope.Error.Message)
	}
	if envelope.Error.Code != apierr.CodeInternal {
		t.Fatalf("expected code internal, got %q", envelope.Error.Code)
	}
}

func TestRespondError(t *testing.T) {
	w, envelope := record(t, func(c *gin.Context) {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("rating must be between 1 and 5"))
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if envelope.Error.Code != apierr.CodeInvalidInput || envelope.Error.Message != "rating must be between 1 and 5" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}
