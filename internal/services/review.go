package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/dbctx"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewService interface {
	// Create enforces one review per enrolled learner per formation and
	// recomputes the formation's denormalized rating before returning.
	Create(ctx context.Context, userID uuid.UUID, formationSlug string, in ReviewInput) (*types.FormationReview, error)
	Update(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, in ReviewInput) (*types.FormationReview, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error
	MarkHelpful(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID) (*types.FormationReview, error)
	ListForFormation(ctx context.Context, formationSlug string) ([]*types.FormationReview, error)
}

type reviewService struct {
	log            *logger.Logger
	runner         db.TxRunner
	formationRepo  catalogrepo.FormationRepo
	enrollmentRepo learningrepo.EnrollmentRepo
	reviewRepo     learningrepo.ReviewRepo
}

func NewReviewService(
	log *logger.Logger,
	runner db.TxRunner,
	formationRepo catalogrepo.FormationRepo,
	enrollmentRepo learningrepo.EnrollmentRepo,
	reviewRepo learningrepo.ReviewRepo,
) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		log:            serviceLog,
		runner:         runner,
		formationRepo:  formationRepo,
		enrollmentRepo: enrollmentRepo,
		reviewRepo:     reviewRepo,
	}
}

func (rs *reviewService) Create(ctx context.Context, userID uuid.UUID, formationSlug string, in ReviewInput) (*types.FormationReview, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apierr.Invalid("rating must be between 1 and 5")
	}

	formation, err := rs.formationRepo.GetBySlug(ctx, nil, formationSlug)
	if err != nil {
		return nil, fmt.Errorf("get formation: %w", err)
	}
	if formation == nil || !formation.IsPublished {
		return nil, apierr.NotFound("formation")
	}

	enrollment, err := rs.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, formation.ID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apierr.NotEnrolled()
	}

	review := &types.FormationReview{
		ID:          uuid.New(),
		UserID:      userID,
		FormationID: formation.ID,
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
	}

	err = rs.runner.InTx(ctx, func(dbc dbctx.Context) error {
		created, cErr := rs.reviewRepo.CreateIgnoreConflict(dbc.Ctx, dbc.Tx, review)
		if cErr != nil {
			return fmt.Errorf("create review: %w", cErr)
		}
		if !created {
			return apierr.Duplicate(apierr.CodeDuplicateReview, "formation already reviewed")
		}
		return rs.recomputeFormation(dbc.Ctx, dbc.Tx, formation.ID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (rs *reviewService) Update(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, in ReviewInput) (*types.FormationReview, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apierr.Invalid("rating must be between 1 and 5")
	}

	review, err := rs.reviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apierr.Forbidden("only the author can edit a review")
	}

	err = rs.runner.InTx(ctx, func(dbc dbctx.Context) error {
		if uErr := rs.reviewRepo.UpdateFields(dbc.Ctx, dbc.Tx, reviewID, map[string]interface{}{
			"rating":  in.Rating,
			"comment": strings.TrimSpace(in.Comment),
		}); uErr != nil {
			return fmt.Errorf("update review: %w", uErr)
		}
		return rs.recomputeFormation(dbc.Ctx, dbc.Tx, review.FormationID)
	})
	if err != nil {
		return nil, err
	}

	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)
	return review, nil
}

func (rs *reviewService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error {
	review, err := rs.reviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && !isAdmin {
		return apierr.Forbidden("only the author can delete a review")
	}

	return rs.runner.InTx(ctx, func(dbc dbctx.Context) error {
		if dErr := rs.reviewRepo.FullDeleteByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{reviewID}); dErr != nil {
			return fmt.Errorf("delete review: %w", dErr)
		}
		return rs.recomputeFormation(dbc.Ctx, dbc.Tx, review.FormationID)
	})
}

func (rs *reviewService) MarkHelpful(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID) (*types.FormationReview, error) {
	review, err := rs.reviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID == userID {
		return nil, apierr.New(http.StatusForbidden, apierr.CodeSelfVote, fmt.Errorf("cannot mark own review helpful"))
	}

	if err := rs.reviewRepo.IncrementHelpful(ctx, nil, reviewID); err != nil {
		return nil, fmt.Errorf("increment helpful count: %w", err)
	}
	review.HelpfulCount++
	return review, nil
}

func (rs *reviewService) ListForFormation(ctx context.Context, formationSlug string) ([]*types.FormationReview, error) {
	formation, err := rs.formationRepo.GetBySlug(ctx, nil, formationSlug)
	if err != nil {
		return nil, fmt.Errorf("get formation: %w", err)
	}
	if formation == nil || !formation.IsPublished {
		return nil, apierr.NotFound("formation")
	}
	reviews, err := rs.reviewRepo.ListByFormationID(ctx, nil, formation.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (rs *reviewService) reviewByID(ctx context.Context, id uuid.UUID) (*types.FormationReview, error) {
	reviews, err := rs.reviewRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	if len(reviews) == 0 {
		return nil, apierr.NotFound("review")
	}
	return reviews[0], nil
}

// recomputeFormation pulls the full aggregate every time. O(n) per write,
// fine at review volumes, and immune to drift from missed increments.
func (rs *reviewService) recomputeFormation(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) error {
	agg, err := rs.reviewRepo.AggregateByFormationID(ctx, tx, formationID)
	if err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	if err := rs.formationRepo.UpdateFields(ctx, tx, formationID, map[string]interface{}{
		"rating":        agg.Average,
		"reviews_count": agg.Count,
	}); err != nil {
		return fmt.Errorf("write rating aggregate: %w", err)
	}
	return nil
}
