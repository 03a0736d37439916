package learning

import (
	"context"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedReview(t *testing.T, tx *gorm.DB, userID, formationID uuid.UUID, rating int) *types.FormationReview {
	t.Helper()
	row := &types.FormationReview{
		ID:          uuid.New(),
		UserID:      userID,
		FormationID: formationID,
		Rating:      rating,
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return row
}

func TestReviewRepo_AggregateByFormationID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewReviewRepo(tx, log)
	formation := seedFormation(t, tx, true)

	agg, err := repo.AggregateByFormationID(ctx, tx, formation.ID)
	if err != nil {
		t.Fatalf("aggregate empty: %v", err)
	}
	if agg.Average != 0 || agg.Count != 0 {
		t.Fatalf("expected {0, 0} for a formation without reviews, got %+v", agg)
	}

	seedReview(t, tx, seedUser(t, tx).ID, formation.ID, 4)
	seedReview(t, tx, seedUser(t, tx).ID, formation.ID, 5)

	agg, err = repo.AggregateByFormationID(ctx, tx, formation.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Count != 2 {
		t.Fatalf("expected count 2, got %d", agg.Count)
	}
	if agg.Average != 4.5 {
		t.Fatalf("expected average 4.5, got %v", agg.Average)
	}
}

func TestReviewRepo_CreateIgnoreConflict_OnePerUserAndFormation(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewReviewRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)

	first := &types.FormationReview{ID: uuid.New(), UserID: user.ID, FormationID: formation.ID, Rating: 5}
	created, err := repo.CreateIgnoreConflict(ctx, tx, first)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first insert")
	}

	second := &types.FormationReview{ID: uuid.New(), UserID: user.ID, FormationID: formation.ID, Rating: 1}
	created, err = repo.CreateIgnoreConflict(ctx, tx, second)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for a second review by the same user")
	}
}

func TestReviewRepo_IncrementHelpful(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewReviewRepo(tx, log)
	formation := seedFormation(t, tx, true)
	review := seedReview(t, tx, seedUser(t, tx).ID, formation.ID, 3)

	if err := repo.IncrementHelpful(ctx, tx, review.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := repo.IncrementHelpful(ctx, tx, review.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{review.ID})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(rows) != 1 || rows[0].HelpfulCount != 2 {
		t.Fatalf("expected helpful_count 2, got %+v", rows)
	}
}
