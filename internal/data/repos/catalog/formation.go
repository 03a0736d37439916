package catalog

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Formation) ([]*types.Formation, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Formation, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Formation, error)
	List(ctx context.Context, tx *gorm.DB, publishedOnly bool) ([]*types.Formation, error)
	SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type formationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormationRepo(db *gorm.DB, baseLog *logger.Logger) FormationRepo {
	repoLog := baseLog.With("repo", "FormationRepo")
	return &formationRepo{db: db, log: repoLog}
}

func (r *formationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Formation) ([]*types.Formation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Formation{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *formationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Formation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Formation
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

func (r *formationRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Formation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if slug == "" {
		return nil, nil
	}

	var result types.Formation
	err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *formationRepo) List(ctx context.Context, tx *gorm.DB, publishedOnly bool) ([]*types.Formation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var results []*types.Formation
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *formationRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Formation{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *formationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Formation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *formationRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Formation{}).Error
}
