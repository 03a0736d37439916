package catalog

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExerciseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Exercise) ([]*types.Exercise, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error)
	GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.Exercise, error)
	CountPublished(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	repoLog := baseLog.With("repo", "ExerciseRepo")
	return &exerciseRepo{db: db, log: repoLog}
}

func (r *exerciseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Exercise) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Exercise{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *exerciseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Exercise
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

func (r *exerciseRepo) GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Exercise
	if formationID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("formation_id = ?", formationID).
		Order("display_order ASC")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exerciseRepo) CountPublished(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if formationID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("formation_id = ? AND is_published = ?", formationID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *exerciseRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *exerciseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Exercise{}).Error
}
