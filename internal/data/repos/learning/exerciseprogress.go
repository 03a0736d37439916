package learning

import (
	"context"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExerciseProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserExerciseProgress) ([]*types.UserExerciseProgress, error)
	GetByUserAndExercise(ctx context.Context, tx *gorm.DB, userID, exerciseID uuid.UUID) (*types.UserExerciseProgress, error)
	ListByUserAndFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) ([]*types.UserExerciseProgress, error)
	// CountCompletedForFormation counts the user's completed exercise rows
	// whose exercise is still a live published member of the formation,
	// mirroring the lesson progress join so stale rows never inflate the tally.
	CountCompletedForFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type exerciseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseProgressRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseProgressRepo {
	repoLog := baseLog.With("repo", "ExerciseProgressRepo")
	return &exerciseProgressRepo{db: db, log: repoLog}
}

func (r *exerciseProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserExerciseProgress) ([]*types.UserExerciseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.UserExerciseProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *exerciseProgressRepo) GetByUserAndExercise(ctx context.Context, tx *gorm.DB, userID, exerciseID uuid.UUID) (*types.UserExerciseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || exerciseID == uuid.Nil {
		return nil, nil
	}

	var result types.UserExerciseProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *exerciseProgressRepo) ListByUserAndFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) ([]*types.UserExerciseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserExerciseProgress
	if userID == uuid.Nil || formationID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN exercises ON exercises.id = user_exercise_progress.exercise_id AND exercises.deleted_at IS NULL").
		Where("user_exercise_progress.user_id = ? AND exercises.formation_id = ?", userID, formationID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exerciseProgressRepo) CountCompletedForFormation(ctx context.Context, tx *gorm.DB, userID, formationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || formationID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserExerciseProgress{}).
		Joins("JOIN exercises ON exercises.id = user_exercise_progress.exercise_id AND exercises.deleted_at IS NULL AND exercises.is_published = true").
		Where("user_exercise_progress.user_id = ? AND user_exercise_progress.status = ? AND exercises.formation_id = ?",
			userID, types.ExerciseCompleted, formationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *exerciseProgressRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.UserExerciseProgress{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *exerciseProgressRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.UserExerciseProgress{}).Error
}
