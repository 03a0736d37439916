package learning

import (
	"context"
	"testing"
	"time"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
)

func TestCertificateRepo_CreateIgnoreConflict_OncePerEnrollment(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewCertificateRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)
	enrollment := seedEnrollment(t, tx, user.ID, formation.ID)

	first := &types.Certificate{
		ID:                uuid.New(),
		UserID:            user.ID,
		FormationID:       formation.ID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: "CERT-AAAAAAAAAAAA-2026",
		IssuedAt:          time.Now().UTC(),
		FinalScore:        100,
		IsVerified:        true,
	}
	created, err := repo.CreateIgnoreConflict(ctx, tx, first)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first insert")
	}

	replay := &types.Certificate{
		ID:                uuid.New(),
		UserID:            user.ID,
		FormationID:       formation.ID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: "CERT-BBBBBBBBBBBB-2026",
		IssuedAt:          time.Now().UTC(),
	}
	created, err = repo.CreateIgnoreConflict(ctx, tx, replay)
	if err != nil {
		t.Fatalf("replay insert: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for a second certificate on the same enrollment")
	}

	winner, err := repo.GetByEnrollmentID(ctx, tx, enrollment.ID)
	if err != nil {
		t.Fatalf("get by enrollment: %v", err)
	}
	if winner == nil || winner.CertificateNumber != first.CertificateNumber {
		t.Fatalf("expected the first certificate to survive, got %+v", winner)
	}
}

func TestCertificateRepo_NumberLookups(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewCertificateRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)
	enrollment := seedEnrollment(t, tx, user.ID, formation.ID)

	number := "CERT-0123456789AB-2026"
	cert := &types.Certificate{
		ID:                uuid.New(),
		UserID:            user.ID,
		FormationID:       formation.ID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: number,
		IssuedAt:          time.Now().UTC(),
	}
	if _, err := repo.CreateIgnoreConflict(ctx, tx, cert); err != nil {
		t.Fatalf("insert: %v", err)
	}

	exists, err := repo.NumberExists(ctx, tx, number)
	if err != nil {
		t.Fatalf("number exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected number %q to exist", number)
	}

	found, err := repo.GetByNumber(ctx, tx, number)
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if found == nil || found.ID != cert.ID {
		t.Fatalf("expected certificate %s, got %+v", cert.ID, found)
	}

	missing, err := repo.GetByNumber(ctx, tx, "CERT-FFFFFFFFFFFF-1999")
	if err != nil {
		t.Fatalf("get missing number: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown number, got %+v", missing)
	}
}
