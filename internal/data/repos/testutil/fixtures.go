package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      types.RoleUser,
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedFormation(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, published bool) *types.Formation {
	tb.Helper()
	f := &types.Formation{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       "formation",
		Level:       "beginner",
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed formation: %v", err)
	}
	return f
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, formationID uuid.UUID, sortOrder int) *types.FormationChapter {
	tb.Helper()
	c := &types.FormationChapter{
		ID:          uuid.New(),
		FormationID: formationID,
		Title:       fmt.Sprintf("chapter %d", sortOrder),
		SortOrder:   sortOrder,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, formationID uuid.UUID, chapterID *uuid.UUID, sortOrder int, published bool) *types.FormationLesson {
	tb.Helper()
	l := &types.FormationLesson{
		ID:          uuid.New(),
		FormationID: formationID,
		ChapterID:   chapterID,
		Title:       fmt.Sprintf("lesson %d", sortOrder),
		SortOrder:   sortOrder,
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, formationID uuid.UUID, displayOrder int) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{
		ID:           uuid.New(),
		FormationID:  formationID,
		Title:        fmt.Sprintf("exercise %d", displayOrder),
		DisplayOrder: displayOrder,
		IsPublished:  true,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return e
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) *types.UserEnrollment {
	tb.Helper()
	e := &types.UserEnrollment{
		ID:          uuid.New(),
		UserID:      userID,
		FormationID: formationID,
		EnrolledAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedLessonProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID, enrollmentID uuid.UUID, completed bool, watchSeconds int) *types.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.LessonProgress{
		ID:               uuid.New(),
		UserID:           userID,
		LessonID:         lessonID,
		EnrollmentID:     enrollmentID,
		StartedAt:        now,
		WatchTimeSeconds: watchSeconds,
	}
	if completed {
		p.IsCompleted = true
		p.CompletionPercentage = 100
		p.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
