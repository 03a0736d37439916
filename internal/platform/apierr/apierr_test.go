package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFrom_PassesThroughAPIErrors(t *testing.T) {
	orig := NotFound("formation")
	got := From(orig)
	if got != orig {
		t.Fatalf("expected the same *Error back, got %+v", got)
	}
	if got.Status != http.StatusNotFound || got.Code != CodeNotFound {
		t.Fatalf("unexpected mapping: %+v", got)
	}
}

func TestFrom_UnwrapsWrappedAPIErrors(t *testing.T) {
	wrapped := fmt.Errorf("issue certificate: %w", NotEligible("formation not completed"))
	got := From(wrapped)
	if got.Status != http.StatusConflict || got.Code != CodeNotEligible {
		t.Fatalf("expected the wrapped conflict to surface, got %+v", got)
	}
}

func TestFrom_WrapsUnknownErrorsAsInternal(t *testing.T) {
	got := From(errors.New("connection refused"))
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("expected internal mapping, got %+v", got)
	}
}

func TestFrom_Nil(t *testing.T) {
	if got := From(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{NotEnrolled(), http.StatusForbidden, CodeNotEnrolled},
		{Duplicate(CodeDuplicateReview, "already reviewed"), http.StatusConflict, CodeDuplicateReview},
		{Unauthorized("missing token"), http.StatusUnauthorized, CodeUnauthorized},
		{Forbidden("nope"), http.StatusForbidden, CodeForbidden},
		{Invalid("bad rating"), http.StatusBadRequest, CodeInvalidInput},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status || tc.err.Code != tc.code {
			t.Errorf("constructor mismatch: got %d/%s want %d/%s", tc.err.Status, tc.err.Code, tc.status, tc.code)
		}
	}
}
