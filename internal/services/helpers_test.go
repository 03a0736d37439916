package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	"github.com/codeforma/codeforma-backend/internal/data/repos/testutil"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// testEnv binds every repo and the tx runner to one rolled-back transaction
// so service tests leave no rows behind.
type testEnv struct {
	tx     *gorm.DB
	log    *logger.Logger
	runner db.TxRunner

	formations   catalogrepo.FormationRepo
	chapters     catalogrepo.ChapterRepo
	lessons      catalogrepo.LessonRepo
	exercises    catalogrepo.ExerciseRepo
	enrollments  learningrepo.EnrollmentRepo
	lessonProg   learningrepo.LessonProgressRepo
	exerciseProg learningrepo.ExerciseProgressRepo
	certificates learningrepo.CertificateRepo
	reviews      learningrepo.ReviewRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	return &testEnv{
		tx:           tx,
		log:          log,
		runner:       db.NewGormTxRunner(tx),
		formations:   catalogrepo.NewFormationRepo(tx, log),
		chapters:     catalogrepo.NewChapterRepo(tx, log),
		lessons:      catalogrepo.NewLessonRepo(tx, log),
		exercises:    catalogrepo.NewExerciseRepo(tx, log),
		enrollments:  learningrepo.NewEnrollmentRepo(tx, log),
		lessonProg:   learningrepo.NewLessonProgressRepo(tx, log),
		exerciseProg: learningrepo.NewExerciseProgressRepo(tx, log),
		certificates: learningrepo.NewCertificateRepo(tx, log),
		reviews:      learningrepo.NewReviewRepo(tx, log),
	}
}

func (e *testEnv) progressService() ProgressService {
	return NewProgressService(e.log, e.runner, e.formations, e.chapters, e.lessons, e.exercises, e.enrollments, e.lessonProg, e.exerciseProg)
}

func (e *testEnv) certificateService() CertificateService {
	return NewCertificateService(e.log, e.runner, e.formations, e.enrollments, e.certificates, "http://localhost:8080")
}

func (e *testEnv) reviewService() ReviewService {
	return NewReviewService(e.log, e.runner, e.formations, e.enrollments, e.reviews)
}

func (e *testEnv) enrollmentService() EnrollmentService {
	return NewEnrollmentService(e.tx, e.log, e.formations, e.enrollments)
}

func (e *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	email := fmt.Sprintf("learner-%s@example.com", uuid.NewString()[:8])
	return testutil.SeedUser(t, context.Background(), e.tx, email)
}

func (e *testEnv) seedFormation(t *testing.T, published bool) *types.Formation {
	t.Helper()
	slug := fmt.Sprintf("formation-%s", uuid.NewString()[:8])
	return testutil.SeedFormation(t, context.Background(), e.tx, slug, published)
}

func (e *testEnv) seedLessons(t *testing.T, formationID uuid.UUID, n int) []*types.FormationLesson {
	t.Helper()
	rows := make([]*types.FormationLesson, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, testutil.SeedLesson(t, context.Background(), e.tx, formationID, nil, i+1, true))
	}
	return rows
}

func (e *testEnv) seedExercise(t *testing.T, formationID uuid.UUID) *types.Exercise {
	t.Helper()
	return testutil.SeedExercise(t, context.Background(), e.tx, formationID, 1)
}

func (e *testEnv) seedEnrollment(t *testing.T, userID, formationID uuid.UUID) *types.UserEnrollment {
	t.Helper()
	return testutil.SeedEnrollment(t, context.Background(), e.tx, userID, formationID)
}

func (e *testEnv) reloadEnrollment(t *testing.T, id uuid.UUID) *types.UserEnrollment {
	t.Helper()
	var row types.UserEnrollment
	if err := e.tx.Where("id = ?", id).First(&row).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	return &row
}

func (e *testEnv) reloadFormation(t *testing.T, id uuid.UUID) *types.Formation {
	t.Helper()
	var row types.Formation
	if err := e.tx.Where("id = ?", id).First(&row).Error; err != nil {
		t.Fatalf("reload formation: %v", err)
	}
	return &row
}
