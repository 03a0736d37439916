package learning

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate holds the recomputed denormalized rating fields for one
// formation: mean rating rounded to one decimal and the live review count.
type RatingAggregate struct {
	Average float64
	Count   int64
}

type ReviewRepo interface {
	// CreateIgnoreConflict inserts the review unless the user already
	// reviewed the formation. Returns true when a row was actually inserted.
	CreateIgnoreConflict(ctx context.Context, tx *gorm.DB, row *types.FormationReview) (bool, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationReview, error)
	GetByUserAndFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) (*types.FormationReview, error)
	ListByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) ([]*types.FormationReview, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	IncrementHelpful(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// AggregateByFormationID averages ratings over live rows only. A
	// formation with no reviews aggregates to {0, 0}.
	AggregateByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (*RatingAggregate, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (r *reviewRepo) CreateIgnoreConflict(ctx context.Context, tx *gorm.DB, row *types.FormationReview) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return false, nil
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "formation_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationReview
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reviewRepo) GetByUserAndFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) (*types.FormationReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || formationID == uuid.Nil {
		return nil, nil
	}

	var result types.FormationReview
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND formation_id = ?", userID, formationID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *reviewRepo) ListByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) ([]*types.FormationReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationReview
	if formationID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("formation_id = ?", formationID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reviewRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.FormationReview{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *reviewRepo) IncrementHelpful(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.FormationReview{}).
		Where("id = ?", id).
		Update("helpful_count", gorm.Expr("helpful_count + 1")).Error
}

func (r *reviewRepo) AggregateByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (*RatingAggregate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	agg := &RatingAggregate{}
	if formationID == uuid.Nil {
		return agg, nil
	}

	row := struct {
		Average float64
		Count   int64
	}{}
	if err := transaction.WithContext(ctx).
		Model(&types.FormationReview{}).
		Where("formation_id = ?", formationID).
		Select("COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average, COUNT(*) AS count").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	agg.Average = row.Average
	agg.Count = row.Count
	return agg, nil
}

// FullDeleteByIDs removes review rows outright. A soft delete would keep the
// (user, formation) unique index occupied and block the learner from ever
// reviewing the formation again.
func (r *reviewRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.FormationReview{}).Error
}
