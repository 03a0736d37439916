package services

import (
	"context"
	"errors"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

func TestEnroll_CreateThenFetch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.enrollmentService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)

	first, err := svc.Enroll(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if !first.Created {
		t.Fatalf("expected created=true on first enroll")
	}

	second, err := svc.Enroll(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if second.Created {
		t.Fatalf("expected created=false on repeat enroll")
	}
	if second.Enrollment.ID != first.Enrollment.ID {
		t.Fatalf("repeat enroll returned a different row: %s vs %s", second.Enrollment.ID, first.Enrollment.ID)
	}
}

func TestEnroll_UnpublishedFormationIsInvisible(t *testing.T) {
	env := newTestEnv(t)
	svc := env.enrollmentService()

	user := env.seedUser(t)
	draft := env.seedFormation(t, false)

	_, err := svc.Enroll(context.Background(), user.ID, draft.Slug)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for a draft formation, got %v", err)
	}
}
