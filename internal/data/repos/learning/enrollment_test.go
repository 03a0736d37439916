package learning

import (
	"context"
	"testing"
	"time"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
)

func TestEnrollmentRepo_CreateIgnoreConflict(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewEnrollmentRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)

	first := &types.UserEnrollment{
		ID:          uuid.New(),
		UserID:      user.ID,
		FormationID: formation.ID,
		EnrolledAt:  time.Now().UTC(),
	}
	created, err := repo.CreateIgnoreConflict(ctx, tx, first)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first insert")
	}

	duplicate := &types.UserEnrollment{
		ID:          uuid.New(),
		UserID:      user.ID,
		FormationID: formation.ID,
		EnrolledAt:  time.Now().UTC(),
	}
	created, err = repo.CreateIgnoreConflict(ctx, tx, duplicate)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on duplicate insert")
	}

	existing, err := repo.GetByUserAndFormation(ctx, tx, user.ID, formation.ID)
	if err != nil {
		t.Fatalf("get existing: %v", err)
	}
	if existing == nil || existing.ID != first.ID {
		t.Fatalf("expected the first row to survive, got %+v", existing)
	}
}

func TestEnrollmentRepo_GetByUserAndFormation_Missing(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)

	repo := NewEnrollmentRepo(tx, log)
	row, err := repo.GetByUserAndFormation(context.Background(), tx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil for missing enrollment, got %+v", row)
	}
}
