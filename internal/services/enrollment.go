package services

import (
	"context"
	"fmt"
	"time"

	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollResult reports whether Enroll actually created the enrollment or
// found a pre-existing one for the same (user, formation) pair.
type EnrollResult struct {
	Enrollment *types.UserEnrollment `json:"enrollment"`
	Created    bool                  `json:"created"`
}

type EnrollmentService interface {
	// Enroll is create-or-fetch: a duplicate request resolves to the existing
	// row at the unique index rather than failing, and Created reports which
	// happened so the handler can answer 201 or 409 accordingly.
	Enroll(ctx context.Context, userID uuid.UUID, formationSlug string) (*EnrollResult, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.UserEnrollment, error)
	GetForFormation(ctx context.Context, userID uuid.UUID, formationID uuid.UUID) (*types.UserEnrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	formationRepo  catalogrepo.FormationRepo
	enrollmentRepo learningrepo.EnrollmentRepo
}

func NewEnrollmentService(
	db *gorm.DB,
	log *logger.Logger,
	formationRepo catalogrepo.FormationRepo,
	enrollmentRepo learningrepo.EnrollmentRepo,
) EnrollmentService {
	serviceLog := log.With("service", "EnrollmentService")
	return &enrollmentService{
		db:             db,
		log:            serviceLog,
		formationRepo:  formationRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (es *enrollmentService) Enroll(ctx context.Context, userID uuid.UUID, formationSlug string) (*EnrollResult, error) {
	formation, err := es.formationRepo.GetBySlug(ctx, nil, formationSlug)
	if err != nil {
		return nil, fmt.Errorf("get formation: %w", err)
	}
	if formation == nil || !formation.IsPublished {
		return nil, apierr.NotFound("formation")
	}

	row := &types.UserEnrollment{
		ID:          uuid.New(),
		UserID:      userID,
		FormationID: formation.ID,
		EnrolledAt:  time.Now().UTC(),
	}
	created, err := es.enrollmentRepo.CreateIgnoreConflict(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	if created {
		return &EnrollResult{Enrollment: row, Created: true}, nil
	}

	// Lost to an earlier enrollment (possibly a concurrent request); hand
	// back the winner.
	existing, err := es.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, formation.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch existing enrollment: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("enrollment conflict but no existing row for user %s formation %s", userID, formation.ID)
	}
	return &EnrollResult{Enrollment: existing, Created: false}, nil
}

func (es *enrollmentService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.UserEnrollment, error) {
	enrollments, err := es.enrollmentRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func (es *enrollmentService) GetForFormation(ctx context.Context, userID uuid.UUID, formationID uuid.UUID) (*types.UserEnrollment, error) {
	enrollment, err := es.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, formationID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apierr.NotEnrolled()
	}
	return enrollment, nil
}
