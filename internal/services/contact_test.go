package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

func TestContactSubmit_Validation(t *testing.T) {
	log := testutil.Logger(t)
	// Validation runs before any repo or mailer call, so nil deps suffice.
	svc := NewContactService(log, nil, nil, "", "noreply@example.com")
	ctx := context.Background()

	cases := []struct {
		name string
		in   ContactInput
	}{
		{"missing name", ContactInput{Email: "a@example.com", Message: "hi"}},
		{"bad email", ContactInput{Name: "A", Email: "not-an-email", Message: "hi"}},
		{"missing message", ContactInput{Name: "A", Email: "a@example.com"}},
		{"oversized message", ContactInput{Name: "A", Email: "a@example.com", Message: strings.Repeat("x", 5001)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.in)
			var ae *apierr.Error
			if !errors.As(err, &ae) || ae.Code != apierr.CodeInvalidInput {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}
}
