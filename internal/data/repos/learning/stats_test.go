package learning

import (
	"context"
	"testing"
	"time"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
)

func TestStatsRepo_EnrollmentTotals(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewStatsRepo(tx, log)
	user := seedUser(t, tx)

	first := seedEnrollment(t, tx, user.ID, seedFormation(t, tx, true).ID)
	now := time.Now().UTC()
	if err := tx.Model(&types.UserEnrollment{}).Where("id = ?", first.ID).Updates(map[string]interface{}{
		"progress_percentage": 100.0,
		"is_completed":        true,
		"completed_at":        now,
		"time_spent_seconds":  600,
	}).Error; err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	second := seedEnrollment(t, tx, user.ID, seedFormation(t, tx, true).ID)
	if err := tx.Model(&types.UserEnrollment{}).Where("id = ?", second.ID).Updates(map[string]interface{}{
		"progress_percentage": 50.0,
		"time_spent_seconds":  200,
	}).Error; err != nil {
		t.Fatalf("set progress: %v", err)
	}

	totals, err := repo.EnrollmentTotals(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Enrollments != 2 {
		t.Fatalf("expected 2 enrollments, got %d", totals.Enrollments)
	}
	if totals.Completed != 1 {
		t.Fatalf("expected 1 completed, got %d", totals.Completed)
	}
	if totals.AverageProgress != 75 {
		t.Fatalf("expected average progress 75, got %v", totals.AverageProgress)
	}
	if totals.TimeSpentSeconds != 800 {
		t.Fatalf("expected 800 spent seconds, got %d", totals.TimeSpentSeconds)
	}
}

func TestStatsRepo_EnrollmentTotals_NoRows(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)

	repo := NewStatsRepo(tx, log)
	totals, err := repo.EnrollmentTotals(context.Background(), tx, uuid.New())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Enrollments != 0 || totals.Completed != 0 || totals.AverageProgress != 0 || totals.TimeSpentSeconds != 0 {
		t.Fatalf("expected zero totals for unknown user, got %+v", totals)
	}
}

func TestStatsRepo_WatchTimeSince(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewStatsRepo(tx, log)
	user := seedUser(t, tx)
	formation := seedFormation(t, tx, true)
	enrollment := seedEnrollment(t, tx, user.ID, formation.ID)

	seedLessonProgress(t, tx, user.ID, seedLesson(t, tx, formation.ID, true).ID, enrollment.ID, true, 240)
	seedLessonProgress(t, tx, user.ID, seedLesson(t, tx, formation.ID, true).ID, enrollment.ID, false, 60)

	since := time.Now().UTC().AddDate(0, 0, -6).Truncate(24 * time.Hour)
	total, err := repo.WatchTimeSince(ctx, tx, user.ID, since)
	if err != nil {
		t.Fatalf("watch time: %v", err)
	}
	if total != 300 {
		t.Fatalf("expected 300 watched seconds this week, got %d", total)
	}

	// Rows touched before the window do not count.
	future := time.Now().UTC().Add(time.Hour)
	total, err = repo.WatchTimeSince(ctx, tx, user.ID, future)
	if err != nil {
		t.Fatalf("watch time: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0 outside the window, got %d", total)
	}
}
