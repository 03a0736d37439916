package learning

import (
	"context"
	"time"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.LessonProgress) ([]*types.LessonProgress, error)
	GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LessonProgress, error)
	// CountCompletedForFormation counts this enrollment's completed rows whose
	// lesson is still a live published member of the formation. The join keeps
	// progress on lessons since removed or unpublished out of the tally, so
	// the count never exceeds the published-lesson denominator.
	CountCompletedForFormation(ctx context.Context, tx *gorm.DB, enrollmentID, formationID uuid.UUID) (int64, error)
	SumWatchTimeForEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	CompletedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.LessonProgress, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

func (r *lessonProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.LessonProgress) ([]*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.LessonProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonProgressRepo) GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, nil
	}

	var result types.LessonProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *lessonProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonProgress
	if enrollmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) CountCompletedForFormation(ctx context.Context, tx *gorm.DB, enrollmentID, formationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if enrollmentID == uuid.Nil || formationID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Joins("JOIN formation_lessons ON formation_lessons.id = lesson_progress.lesson_id AND formation_lessons.deleted_at IS NULL AND formation_lessons.is_published = true").
		Where("lesson_progress.enrollment_id = ? AND lesson_progress.is_completed = ? AND formation_lessons.formation_id = ?",
			enrollmentID, true, formationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonProgressRepo) SumWatchTimeForEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if enrollmentID == uuid.Nil {
		return 0, nil
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("enrollment_id = ?", enrollmentID).
		Select("COALESCE(SUM(watch_time_seconds), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *lessonProgressRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *lessonProgressRepo) CompletedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND completed_at >= ?", userID, true, since).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.LessonProgress{}).Error
}
