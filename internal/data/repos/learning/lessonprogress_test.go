package learning

import (
	"context"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
)

func TestLessonProgressRepo_CountCompletedForFormation(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewLessonProgressRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)
	enrollment := seedEnrollment(t, tx, user.ID, formation.ID)

	done := seedLesson(t, tx, formation.ID, true)
	pending := seedLesson(t, tx, formation.ID, true)
	removed := seedLesson(t, tx, formation.ID, true)
	retracted := seedLesson(t, tx, formation.ID, true)

	seedLessonProgress(t, tx, user.ID, done.ID, enrollment.ID, true, 300)
	seedLessonProgress(t, tx, user.ID, pending.ID, enrollment.ID, false, 120)
	seedLessonProgress(t, tx, user.ID, removed.ID, enrollment.ID, true, 200)
	seedLessonProgress(t, tx, user.ID, retracted.ID, enrollment.ID, true, 180)

	// A lesson removed from the formation takes its completion out of the
	// tally even though the progress row survives.
	if err := tx.Delete(&types.FormationLesson{}, "id = ?", removed.ID).Error; err != nil {
		t.Fatalf("soft delete lesson: %v", err)
	}
	// So does an unpublished one. The denominator only counts published
	// lessons, so leaving this completion in would push the ratio past 1.
	if err := tx.Model(&types.FormationLesson{}).Where("id = ?", retracted.ID).
		Update("is_published", false).Error; err != nil {
		t.Fatalf("unpublish lesson: %v", err)
	}

	count, err := repo.CountCompletedForFormation(ctx, tx, enrollment.ID, formation.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 completed lesson, got %d", count)
	}
}

func TestLessonProgressRepo_SumWatchTimeForEnrollment(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewLessonProgressRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)
	enrollment := seedEnrollment(t, tx, user.ID, formation.ID)

	seedLessonProgress(t, tx, user.ID, seedLesson(t, tx, formation.ID, true).ID, enrollment.ID, true, 300)
	seedLessonProgress(t, tx, user.ID, seedLesson(t, tx, formation.ID, true).ID, enrollment.ID, false, 45)

	total, err := repo.SumWatchTimeForEnrollment(ctx, tx, enrollment.ID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 345 {
		t.Fatalf("expected 345 watched seconds, got %d", total)
	}

	empty, err := repo.SumWatchTimeForEnrollment(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("sum empty: %v", err)
	}
	if empty != 0 {
		t.Fatalf("expected 0 for unknown enrollment, got %d", empty)
	}
}
