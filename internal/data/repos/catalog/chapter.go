package catalog

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.FormationChapter) ([]*types.FormationChapter, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationChapter, error)
	GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.FormationChapter, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	repoLog := baseLog.With("repo", "ChapterRepo")
	return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.FormationChapter) ([]*types.FormationChapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.FormationChapter{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chapterRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormationChapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationChapter
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

func (r *chapterRepo) GetByFormationID(ctx context.Context, tx *gorm.DB, formationID uuid.UUID, publishedOnly bool) ([]*types.FormationChapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FormationChapter
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

func (r *chapterRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.FormationChapter{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *chapterRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.FormationChapter{}).Error
}
