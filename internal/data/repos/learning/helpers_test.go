package learning

import (
	"context"
	"fmt"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	email := fmt.Sprintf("learner-%s@example.com", uuid.NewString()[:8])
	return testutil.SeedUser(t, context.Background(), tx, email)
}

func seedFormation(t *testing.T, tx *gorm.DB, published bool) *types.Formation {
	t.Helper()
	slug := fmt.Sprintf("formation-%s", uuid.NewString()[:8])
	return testutil.SeedFormation(t, context.Background(), tx, slug, published)
}

func seedLesson(t *testing.T, tx *gorm.DB, formationID uuid.UUID, published bool) *types.FormationLesson {
	t.Helper()
	return testutil.SeedLesson(t, context.Background(), tx, formationID, nil, 1, published)
}

func seedEnrollment(t *testing.T, tx *gorm.DB, userID, formationID uuid.UUID) *types.UserEnrollment {
	t.Helper()
	return testutil.SeedEnrollment(t, context.Background(), tx, userID, formationID)
}

func seedLessonProgress(t *testing.T, tx *gorm.DB, userID, lessonID, enrollmentID uuid.UUID, completed bool, watchSeconds int) *types.LessonProgress {
	t.Helper()
	return testutil.SeedLessonProgress(t, context.Background(), tx, userID, lessonID, enrollmentID, completed, watchSeconds)
}
