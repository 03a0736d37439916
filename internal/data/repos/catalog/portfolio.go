package catalog

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Project) ([]*types.Project, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Project, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB, featuredOnly bool) ([]*types.Project, error)
	ReplaceTechnologies(ctx context.Context, tx *gorm.DB, project *types.Project, techs []*types.Technology) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Project) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Project{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *projectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Project
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Technologies").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if slug == "" {
		return nil, nil
	}

	var result types.Project
	err := transaction.WithContext(ctx).
		Preload("Technologies").
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

func (r *projectRepo) List(ctx context.Context, tx *gorm.DB, featuredOnly bool) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Preload("Technologies").
		Order("sort_order ASC, created_at DESC")
	if featuredOnly {
		q = q.Where("is_featured = ?", true)
	}

	var results []*types.Project
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) ReplaceTechnologies(ctx context.Context, tx *gorm.DB, project *types.Project, techs []*types.Technology) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if project == nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(project).
		Association("Technologies").
		Replace(techs)
}

func (r *projectRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *projectRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Project{}).Error
}

type TechnologyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Technology) ([]*types.Technology, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Technology, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Technology, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type technologyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechnologyRepo(db *gorm.DB, baseLog *logger.Logger) TechnologyRepo {
	repoLog := baseLog.With("repo", "TechnologyRepo")
	return &technologyRepo{db: db, log: repoLog}
}

func (r *technologyRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Technology) ([]*types.Technology, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Technology{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *technologyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Technology, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Technology
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

func (r *technologyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Technology, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Technology
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *technologyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Technology{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *technologyRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Technology{}).Error
}
