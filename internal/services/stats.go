package services

import (
	"context"
	"fmt"
	"math"
	"time"

	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	Enrollments         int64   `json:"enrollments"`
	CompletedFormations int64   `json:"completed_formations"`
	AverageProgress     float64 `json:"average_progress"`
	Certificates        int64   `json:"certificates"`
	TotalWatchSeconds   int64   `json:"total_watch_seconds"`
}

// DayStat is one bucket of the weekly view, keyed by calendar day.
type DayStat struct {
	Date             string `json:"date"`
	LessonsCompleted int    `json:"lessons_completed"`
	WatchSeconds     int    `json:"watch_seconds"`
}

type WeeklyStats struct {
	Days              []DayStat `json:"days"`
	LessonsCompleted  int       `json:"lessons_completed"`
	TotalWatchSeconds int64     `json:"total_watch_seconds"`
}

type StatsService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
	Weekly(ctx context.Context, userID uuid.UUID) (*WeeklyStats, error)
}

type statsService struct {
	log            *logger.Logger
	statsRepo      learningrepo.StatsRepo
	lessonProgRepo learningrepo.LessonProgressRepo
}

func NewStatsService(
	log *logger.Logger,
	statsRepo learningrepo.StatsRepo,
	lessonProgRepo learningrepo.LessonProgressRepo,
) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		log:            serviceLog,
		statsRepo:      statsRepo,
		lessonProgRepo: lessonProgRepo,
	}
}

func (ss *statsService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	var (
		totals *learningrepo.EnrollmentTotals
		certs  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := ss.statsRepo.EnrollmentTotals(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("enrollment totals: %w", err)
		}
		totals = t
		return nil
	})
	g.Go(func() error {
		c, err := ss.statsRepo.CountCertificates(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("count certificates: %w", err)
		}
		certs = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DashboardStats{
		Enrollments:         totals.Enrollments,
		CompletedFormations: totals.Completed,
		AverageProgress:     math.Round(totals.AverageProgress*100) / 100,
		Certificates:        certs,
		TotalWatchSeconds:   totals.TimeSpentSeconds,
	}, nil
}

func (ss *statsService) Weekly(ctx context.Context, userID uuid.UUID) (*WeeklyStats, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)

	var (
		completions []DayStat
		completed   int
		watchTotal  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := ss.lessonProgRepo.CompletedSince(gctx, nil, userID, since)
		if err != nil {
			return fmt.Errorf("completed lessons: %w", err)
		}
		buckets := emptyWeek(since)
		completed = bucketCompletions(buckets, rows)
		completions = buckets.days
		return nil
	})
	g.Go(func() error {
		total, err := ss.statsRepo.WatchTimeSince(gctx, nil, userID, since)
		if err != nil {
			return fmt.Errorf("watch time: %w", err)
		}
		watchTotal = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &WeeklyStats{
		Days:              completions,
		LessonsCompleted:  completed,
		TotalWatchSeconds: watchTotal,
	}, nil
}

type weekBuckets struct {
	days  []DayStat
	index map[string]int
}

// emptyWeek pre-fills seven zero buckets so the response always covers the
// full window even on days with no activity.
func emptyWeek(start time.Time) weekBuckets {
	wb := weekBuckets{
		days:  make([]DayStat, 7),
		index: make(map[string]int, 7),
	}
	for i := 0; i < 7; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		wb.days[i] = DayStat{Date: key}
		wb.index[key] = i
	}
	return wb
}

// bucketCompletions folds completed rows into their UTC calendar day and
// returns how many landed inside the window. Drivers hand timestamps back in
// the session zone, so the key is normalized before the lookup.
func bucketCompletions(buckets weekBuckets, rows []*types.LessonProgress) int {
	completed := 0
	for _, row := range rows {
		if row.CompletedAt == nil {
			continue
		}
		key := row.CompletedAt.UTC().Format("2006-01-02")
		idx, ok := buckets.index[key]
		if !ok {
			continue
		}
		buckets.days[idx].LessonsCompleted++
		buckets.days[idx].WatchSeconds += row.WatchTimeSeconds
		completed++
	}
	return completed
}
