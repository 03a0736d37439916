package learning

import (
	"context"
	"time"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentTotals is the one-row aggregate over a learner's enrollments.
type EnrollmentTotals struct {
	Enrollments      int64
	Completed        int64
	AverageProgress  float64
	TimeSpentSeconds int64
}

type StatsRepo interface {
	EnrollmentTotals(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*EnrollmentTotals, error)
	CountCertificates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// WatchTimeSince sums watch time over progress rows updated at or after
	// the cutoff, regardless of completion state.
	WatchTimeSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
}

type statsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepo(db *gorm.DB, baseLog *logger.Logger) StatsRepo {
	repoLog := baseLog.With("repo", "StatsRepo")
	return &statsRepo{db: db, log: repoLog}
}

func (r *statsRepo) EnrollmentTotals(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*EnrollmentTotals, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	totals := &EnrollmentTotals{}
	if userID == uuid.Nil {
		return totals, nil
	}

	var row struct {
		Enrollments      int64
		Completed        int64
		AverageProgress  float64
		TimeSpentSeconds int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.UserEnrollment{}).
		Select(
			"COUNT(*) AS enrollments, "+
				"COUNT(*) FILTER (WHERE is_completed) AS completed, "+
				"COALESCE(AVG(progress_percentage), 0) AS average_progress, "+
				"COALESCE(SUM(time_spent_seconds), 0) AS time_spent_seconds").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	totals.Enrollments = row.Enrollments
	totals.Completed = row.Completed
	totals.AverageProgress = row.AverageProgress
	totals.TimeSpentSeconds = row.TimeSpentSeconds
	return totals, nil
}

func (r *statsRepo) CountCertificates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *statsRepo) WatchTimeSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return 0, nil
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Select("COALESCE(SUM(watch_time_seconds), 0)").
		Where("user_id = ? AND updated_at >= ?", userID, since).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
