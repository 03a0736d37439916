package catalog

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.FormationLesson) ([]*types.FormationLesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationLesson, error)
	GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.FormationLesson, error)
	CountPublished(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.FormationLesson) ([]*types.FormationLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.FormationLesson{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationLesson
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

func (r *lessonRepo) GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.FormationLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationLesson
	if formationID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("formation_id = ?", formationID).
		Order("sort_order ASC")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) CountPublished(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if formationID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.FormationLesson{}).
		Where("formation_id = ? AND is_published = ?", formationID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.FormationLesson{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *lessonRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.FormationLesson{}).Error
}
