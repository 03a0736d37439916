package services

import (
	"context"
	"errors"
	"testing"
	"time"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

func completeLesson() LessonProgressInput {
	return LessonProgressInput{
		PositionSeconds:      300,
		WatchTimeSeconds:     300,
		CompletionPercentage: 100,
		IsCompleted:          true,
	}
}

func TestRecordLessonProgress_RecomputesEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	lessons := env.seedLessons(t, formation.ID, 4)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	for _, lesson := range lessons[:2] {
		if _, err := svc.RecordLessonProgress(ctx, user.ID, lesson.ID, completeLesson()); err != nil {
			t.Fatalf("record progress: %v", err)
		}
	}

	got := env.reloadEnrollment(t, enrollment.ID)
	if got.ProgressPercentage != 50 {
		t.Fatalf("expected 50%%, got %v", got.ProgressPercentage)
	}
	if got.IsCompleted {
		t.Fatalf("enrollment must not complete at 50%%")
	}
	if got.CompletedAt != nil {
		t.Fatalf("completed_at must stay nil at 50%%")
	}
	if got.StartedAt == nil || got.LastAccessedAt == nil {
		t.Fatalf("expected started_at and last_accessed_at to be stamped")
	}

	for _, lesson := range lessons[2:] {
		if _, err := svc.RecordLessonProgress(ctx, user.ID, lesson.ID, completeLesson()); err != nil {
			t.Fatalf("record progress: %v", err)
		}
	}

	got = env.reloadEnrollment(t, enrollment.ID)
	if got.ProgressPercentage != 100 {
		t.Fatalf("expected 100%%, got %v", got.ProgressPercentage)
	}
	if !got.IsCompleted {
		t.Fatalf("enrollment must complete at 100%%")
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at must be set on completion")
	}
	if got.TimeSpentSeconds != 4*300 {
		t.Fatalf("expected 1200 spent seconds, got %d", got.TimeSpentSeconds)
	}
}

func TestRecordLessonProgress_RegressionClearsCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	lessons := env.seedLessons(t, formation.ID, 2)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	for _, lesson := range lessons {
		if _, err := svc.RecordLessonProgress(ctx, user.ID, lesson.ID, completeLesson()); err != nil {
			t.Fatalf("record progress: %v", err)
		}
	}
	if got := env.reloadEnrollment(t, enrollment.ID); !got.IsCompleted {
		t.Fatalf("expected a completed enrollment to start from")
	}

	// Un-completing a lesson walks the enrollment back out of completed.
	regression := LessonProgressInput{CompletionPercentage: 40, IsCompleted: false}
	row, err := svc.RecordLessonProgress(ctx, user.ID, lessons[0].ID, regression)
	if err != nil {
		t.Fatalf("record regression: %v", err)
	}
	if row.IsCompleted || row.CompletedAt != nil {
		t.Fatalf("lesson progress must drop its completion markers, got %+v", row)
	}

	got := env.reloadEnrollment(t, enrollment.ID)
	if got.ProgressPercentage != 50 {
		t.Fatalf("expected 50%% after regression, got %v", got.ProgressPercentage)
	}
	if got.IsCompleted {
		t.Fatalf("enrollment must leave completed after regression")
	}
	if got.CompletedAt != nil {
		t.Fatalf("completed_at must be cleared after regression")
	}
}

func TestRecomputeEnrollment_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	lessons := env.seedLessons(t, formation.ID, 2)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	if _, err := svc.RecordLessonProgress(ctx, user.ID, lessons[0].ID, completeLesson()); err != nil {
		t.Fatalf("record progress: %v", err)
	}

	// Recomputing without intervening writes must not move anything.
	first, err := svc.RecomputeEnrollment(ctx, enrollment.ID)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.RecomputeEnrollment(ctx, enrollment.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if first.ProgressPercentage != 50 || second.ProgressPercentage != 50 {
		t.Fatalf("expected 50%% on both recomputes, got %v then %v",
			first.ProgressPercentage, second.ProgressPercentage)
	}
	if second.IsCompleted || second.CompletedAt != nil {
		t.Fatalf("a half-done enrollment must stay incomplete, got %+v", second)
	}

	if _, err := svc.RecordLessonProgress(ctx, user.ID, lessons[1].ID, completeLesson()); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	completedAt := env.reloadEnrollment(t, enrollment.ID).CompletedAt
	if completedAt == nil {
		t.Fatalf("expected completed_at after finishing the formation")
	}

	// Recomputing an already-completed enrollment keeps the original stamp.
	if _, err := svc.RecomputeEnrollment(ctx, enrollment.ID); err != nil {
		t.Fatalf("recompute completed enrollment: %v", err)
	}
	got := env.reloadEnrollment(t, enrollment.ID)
	if got.ProgressPercentage != 100 || !got.IsCompleted {
		t.Fatalf("recompute must keep the enrollment completed, got %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(*completedAt) {
		t.Fatalf("completed_at moved on recompute: had %v, got %v", completedAt, got.CompletedAt)
	}
}

func TestRecordLessonProgress_RegressionLeavesCertificateStanding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()
	certs := env.certificateService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	lessons := env.seedLessons(t, formation.ID, 2)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	for _, lesson := range lessons {
		if _, err := svc.RecordLessonProgress(ctx, user.ID, lesson.ID, completeLesson()); err != nil {
			t.Fatalf("record progress: %v", err)
		}
	}
	issued, err := certs.Issue(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("issue certificate: %v", err)
	}
	if !issued.Created {
		t.Fatalf("expected a fresh certificate")
	}

	regression := LessonProgressInput{CompletionPercentage: 40, IsCompleted: false}
	if _, err := svc.RecordLessonProgress(ctx, user.ID, lessons[0].ID, regression); err != nil {
		t.Fatalf("record regression: %v", err)
	}

	// The enrollment walks back out of completed but the issued certificate
	// is never revoked.
	got := env.reloadEnrollment(t, enrollment.ID)
	if got.IsCompleted || got.CompletedAt != nil {
		t.Fatalf("enrollment must drop its completion markers, got %+v", got)
	}
	if got.CertificateIssuedAt == nil || got.CertificateURL == "" {
		t.Fatalf("certificate stamps must survive the regression, got %+v", got)
	}

	kept, err := env.certificates.GetByEnrollmentID(ctx, env.tx, enrollment.ID)
	if err != nil {
		t.Fatalf("reload certificate: %v", err)
	}
	if kept == nil || kept.CertificateNumber != issued.Certificate.CertificateNumber {
		t.Fatalf("expected certificate %q to survive, got %+v",
			issued.Certificate.CertificateNumber, kept)
	}
}

func TestRecordLessonProgress_ZeroLessonFormationNeverCompletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	updated, err := svc.RecomputeEnrollment(ctx, enrollment.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if updated.ProgressPercentage != 0 || updated.IsCompleted {
		t.Fatalf("an empty formation must stay at 0%% incomplete, got %+v", updated)
	}
}

func TestRecordLessonProgress_RequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	lessons := env.seedLessons(t, formation.ID, 1)

	_, err := svc.RecordLessonProgress(ctx, user.ID, lessons[0].ID, completeLesson())
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotEnrolled {
		t.Fatalf("expected not_enrolled, got %v", err)
	}
}

func TestSubmitExercise_RecomputeOnlyOnCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	exercise := env.seedExercise(t, formation.ID)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)

	inProgress := ExerciseSubmitInput{SubmittedCode: "package main", Status: types.ExerciseInProgress}
	if _, err := svc.SubmitExercise(ctx, user.ID, exercise.ID, inProgress); err != nil {
		t.Fatalf("submit in_progress: %v", err)
	}
	if got := env.reloadEnrollment(t, enrollment.ID); got.ProgressPercentage != 0 {
		t.Fatalf("in_progress churn must not move the percentage, got %v", got.ProgressPercentage)
	}

	done := ExerciseSubmitInput{SubmittedCode: "package main\n\nfunc main() {}", Status: types.ExerciseCompleted}
	row, err := svc.SubmitExercise(ctx, user.ID, exercise.ID, done)
	if err != nil {
		t.Fatalf("submit completed: %v", err)
	}
	if row.CompletedAt == nil {
		t.Fatalf("expected completed_at on the submission row")
	}

	got := env.reloadEnrollment(t, enrollment.ID)
	if got.ProgressPercentage != 100 || !got.IsCompleted {
		t.Fatalf("the only exercise done must complete the enrollment, got %+v", got)
	}

	// Replaying the completed submission keeps the original completion time.
	again, err := svc.SubmitExercise(ctx, user.ID, exercise.ID, done)
	if err != nil {
		t.Fatalf("resubmit completed: %v", err)
	}
	if again.CompletedAt == nil {
		t.Fatalf("completed_at must survive replays")
	}
	// The reloaded timestamp loses sub-microsecond precision in Postgres.
	if drift := again.CompletedAt.Sub(*row.CompletedAt); drift < -time.Millisecond || drift > time.Millisecond {
		t.Fatalf("completed_at moved on replay: first %v then %v", row.CompletedAt, again.CompletedAt)
	}
}

func TestSubmitExercise_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := env.progressService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	exercise := env.seedExercise(t, formation.ID)
	env.seedEnrollment(t, user.ID, formation.ID)

	_, err := svc.SubmitExercise(context.Background(), user.ID, exercise.ID, ExerciseSubmitInput{Status: "graded"})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}
