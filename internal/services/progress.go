package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/dbctx"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonProgressInput struct {
	PositionSeconds      int              `json:"position_seconds"`
	WatchTimeSeconds     int              `json:"watch_time_seconds"`
	CompletionPercentage float64          `json:"completion_percentage"`
	IsCompleted          bool             `json:"is_completed"`
	Notes                string           `json:"notes"`
	Bookmarks            []types.Bookmark `json:"bookmarks"`
}

type ExerciseSubmitInput struct {
	SubmittedCode string `json:"submitted_code"`
	Status        string `json:"status"`
}

// ChapterProgress is one row of the formation progress projection.
type ChapterProgress struct {
	ChapterID        uuid.UUID `json:"chapter_id"`
	Title            string    `json:"title"`
	TotalLessons     int       `json:"total_lessons"`
	CompletedLessons int       `json:"completed_lessons"`
}

type FormationProgressView struct {
	Enrollment *types.UserEnrollment `json:"enrollment"`
	Chapters   []*ChapterProgress    `json:"chapters"`
}

// ProgressService owns the lesson/exercise progress write path: the upsert,
// the enrollment touch and the synchronous completion recompute all commit or
// roll back together.
type ProgressService interface {
	RecordLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, in LessonProgressInput) (*types.LessonProgress, error)
	SubmitExercise(ctx context.Context, userID, exerciseID uuid.UUID, in ExerciseSubmitInput) (*types.UserExerciseProgress, error)
	// RecomputeEnrollment re-derives the enrollment's percentage and
	// completion flags from lesson progress. Idempotent.
	RecomputeEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*types.UserEnrollment, error)
	FormationProgress(ctx context.Context, userID uuid.UUID, formationSlug string) (*FormationProgressView, error)
}

type progressService struct {
	log              *logger.Logger
	runner           db.TxRunner
	formationRepo    catalogrepo.FormationRepo
	chapterRepo      catalogrepo.ChapterRepo
	lessonRepo       catalogrepo.LessonRepo
	exerciseRepo     catalogrepo.ExerciseRepo
	enrollmentRepo   learningrepo.EnrollmentRepo
	lessonProgRepo   learningrepo.LessonProgressRepo
	exerciseProgRepo learningrepo.ExerciseProgressRepo
}

func NewProgressService(
	log *logger.Logger,
	runner db.TxRunner,
	formationRepo catalogrepo.FormationRepo,
	chapterRepo catalogrepo.ChapterRepo,
	lessonRepo catalogrepo.LessonRepo,
	exerciseRepo catalogrepo.ExerciseRepo,
	enrollmentRepo learningrepo.EnrollmentRepo,
	lessonProgRepo learningrepo.LessonProgressRepo,
	exerciseProgRepo learningrepo.ExerciseProgressRepo,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		log:              serviceLog,
		runner:           runner,
		formationRepo:    formationRepo,
		chapterRepo:      chapterRepo,
		lessonRepo:       lessonRepo,
		exerciseRepo:     exerciseRepo,
		enrollmentRepo:   enrollmentRepo,
		lessonProgRepo:   lessonProgRepo,
		exerciseProgRepo: exerciseProgRepo,
	}
}

func (ps *progressService) RecordLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, in LessonProgressInput) (*types.LessonProgress, error) {
	lessons, err := ps.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("lesson")
	}
	lesson := lessons[0]

	enrollment, err := ps.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, lesson.FormationID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apierr.NotEnrolled()
	}

	bookmarks, err := marshalBookmarks(in.Bookmarks)
	if err != nil {
		return nil, apierr.Invalid("invalid bookmarks payload")
	}

	var result *types.LessonProgress
	err = ps.runner.InTx(ctx, func(dbc dbctx.Context) error {
		now := time.Now().UTC()

		row, gErr := ps.lessonProgRepo.GetByUserAndLesson(dbc.Ctx, dbc.Tx, userID, lessonID)
		if gErr != nil {
			return fmt.Errorf("load lesson progress: %w", gErr)
		}

		if row == nil {
			row = &types.LessonProgress{
				ID:                   uuid.New(),
				UserID:               userID,
				LessonID:             lessonID,
				EnrollmentID:         enrollment.ID,
				StartedAt:            now,
				LastPositionSeconds:  in.PositionSeconds,
				WatchTimeSeconds:     in.WatchTimeSeconds,
				CompletionPercentage: in.CompletionPercentage,
				IsCompleted:          in.IsCompleted,
				Notes:                in.Notes,
				Bookmarks:            bookmarks,
			}
			if in.IsCompleted {
				row.CompletedAt = &now
			}
			if _, cErr := ps.lessonProgRepo.Create(dbc.Ctx, dbc.Tx, []*types.LessonProgress{row}); cErr != nil {
				return fmt.Errorf("create lesson progress: %w", cErr)
			}
		} else {
			fields := map[string]interface{}{
				"last_position_seconds": in.PositionSeconds,
				"watch_time_seconds":    in.WatchTimeSeconds,
				"completion_percentage": in.CompletionPercentage,
				"is_completed":          in.IsCompleted,
				"notes":                 in.Notes,
				"bookmarks":             bookmarks,
			}
			// completed_at moves only on transitions so the original
			// completion time survives repeat submissions.
			if in.IsCompleted && !row.IsCompleted {
				fields["completed_at"] = now
				row.CompletedAt = &now
			}
			if !in.IsCompleted {
				fields["completed_at"] = nil
				row.CompletedAt = nil
			}
			if uErr := ps.lessonProgRepo.UpdateFields(dbc.Ctx, dbc.Tx, row.ID, fields); uErr != nil {
				return fmt.Errorf("update lesson progress: %w", uErr)
			}
			row.LastPositionSeconds = in.PositionSeconds
			row.WatchTimeSeconds = in.WatchTimeSeconds
			row.CompletionPercentage = in.CompletionPercentage
			row.IsCompleted = in.IsCompleted
			row.Notes = in.Notes
			row.Bookmarks = bookmarks
		}

		// Resume state advances on every write, completed or not.
		touch := map[string]interface{}{
			"last_accessed_at":  now,
			"current_lesson_id": lessonID,
		}
		if enrollment.StartedAt == nil {
			touch["started_at"] = now
		}
		watched, wErr := ps.lessonProgRepo.SumWatchTimeForEnrollment(dbc.Ctx, dbc.Tx, enrollment.ID)
		if wErr != nil {
			return fmt.Errorf("sum watch time: %w", wErr)
		}
		touch["time_spent_seconds"] = watched
		if uErr := ps.enrollmentRepo.UpdateFields(dbc.Ctx, dbc.Tx, enrollment.ID, touch); uErr != nil {
			return fmt.Errorf("touch enrollment: %w", uErr)
		}

		if _, rErr := ps.recomputeLessons(dbc.Ctx, dbc.Tx, enrollment.ID, lesson.FormationID); rErr != nil {
			return rErr
		}

		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ps *progressService) SubmitExercise(ctx context.Context, userID, exerciseID uuid.UUID, in ExerciseSubmitInput) (*types.UserExerciseProgress, error) {
	switch in.Status {
	case types.ExerciseNotStarted, types.ExerciseInProgress, types.ExerciseCompleted:
	default:
		return nil, apierr.Invalid("invalid exercise status")
	}

	exercises, err := ps.exerciseRepo.GetByIDs(ctx, nil, []uuid.UUID{exerciseID})
	if err != nil {
		return nil, fmt.Errorf("load exercise: %w", err)
	}
	if len(exercises) == 0 {
		return nil, apierr.NotFound("exercise")
	}
	exercise := exercises[0]

	enrollment, err := ps.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, exercise.FormationID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apierr.NotEnrolled()
	}

	var result *types.UserExerciseProgress
	err = ps.runner.InTx(ctx, func(dbc dbctx.Context) error {
		now := time.Now().UTC()

		row, gErr := ps.exerciseProgRepo.GetByUserAndExercise(dbc.Ctx, dbc.Tx, userID, exerciseID)
		if gErr != nil {
			return fmt.Errorf("load exercise progress: %w", gErr)
		}

		becameCompleted := false
		if row == nil {
			row = &types.UserExerciseProgress{
				ID:            uuid.New(),
				UserID:        userID,
				ExerciseID:    exerciseID,
				Status:        in.Status,
				SubmittedCode: in.SubmittedCode,
				StartedAt:     &now,
			}
			if in.Status == types.ExerciseCompleted {
				row.CompletedAt = &now
				becameCompleted = true
			}
			if _, cErr := ps.exerciseProgRepo.Create(dbc.Ctx, dbc.Tx, []*types.UserExerciseProgress{row}); cErr != nil {
				return fmt.Errorf("create exercise progress: %w", cErr)
			}
		} else {
			fields := map[string]interface{}{
				"status":         in.Status,
				"submitted_code": in.SubmittedCode,
			}
			if in.Status == types.ExerciseCompleted && row.Status != types.ExerciseCompleted {
				fields["completed_at"] = now
				row.CompletedAt = &now
				becameCompleted = true
			}
			if in.Status != types.ExerciseCompleted {
				fields["completed_at"] = nil
				row.CompletedAt = nil
			}
			if uErr := ps.exerciseProgRepo.UpdateFields(dbc.Ctx, dbc.Tx, row.ID, fields); uErr != nil {
				return fmt.Errorf("update exercise progress: %w", uErr)
			}
			row.Status = in.Status
			row.SubmittedCode = in.SubmittedCode
		}

		if uErr := ps.enrollmentRepo.UpdateFields(dbc.Ctx, dbc.Tx, enrollment.ID, map[string]interface{}{
			"last_accessed_at": now,
		}); uErr != nil {
			return fmt.Errorf("touch enrollment: %w", uErr)
		}

		// The skills track recomputes only when a submission crosses into
		// completed; in_progress churn does not move enrollment percentage.
		if becameCompleted {
			if _, rErr := ps.recomputeExercises(dbc.Ctx, dbc.Tx, enrollment.ID, userID, exercise.FormationID); rErr != nil {
				return rErr
			}
		}

		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ps *progressService) RecomputeEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*types.UserEnrollment, error) {
	var result *types.UserEnrollment
	err := ps.runner.InTx(ctx, func(dbc dbctx.Context) error {
		enrollments, gErr := ps.enrollmentRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{enrollmentID})
		if gErr != nil {
			return fmt.Errorf("load enrollment: %w", gErr)
		}
		if len(enrollments) == 0 {
			return apierr.NotFound("enrollment")
		}
		enrollment := enrollments[0]

		updated, rErr := ps.recomputeLessons(dbc.Ctx, dbc.Tx, enrollment.ID, enrollment.FormationID)
		if rErr != nil {
			return rErr
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recomputeLessons derives the enrollment's completion from live published
// lessons: percentage keeps full float precision for the >=100 threshold
// test, completion_rate carries the 2-decimal display mirror.
func (ps *progressService) recomputeLessons(ctx context.Context, tx *gorm.DB, enrollmentID, formationID uuid.UUID) (*types.UserEnrollment, error) {
	total, err := ps.lessonRepo.CountPublished(ctx, tx, formationID)
	if err != nil {
		return nil, fmt.Errorf("count published lessons: %w", err)
	}
	completed, err := ps.lessonProgRepo.CountCompletedForFormation(ctx, tx, enrollmentID, formationID)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}
	return ps.applyCompletion(ctx, tx, enrollmentID, total, completed)
}

func (ps *progressService) recomputeExercises(ctx context.Context, tx *gorm.DB, enrollmentID, userID, formationID uuid.UUID) (*types.UserEnrollment, error) {
	total, err := ps.exerciseRepo.CountPublished(ctx, tx, formationID)
	if err != nil {
		return nil, fmt.Errorf("count published exercises: %w", err)
	}
	completed, err := ps.exerciseProgRepo.CountCompletedForFormation(ctx, tx, userID, formationID)
	if err != nil {
		return nil, fmt.Errorf("count completed exercises: %w", err)
	}
	return ps.applyCompletion(ctx, tx, enrollmentID, total, completed)
}

func (ps *progressService) applyCompletion(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, total, completed int64) (*types.UserEnrollment, error) {
	enrollments, err := ps.enrollmentRepo.GetByIDs(ctx, tx, []uuid.UUID{enrollmentID})
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, apierr.NotFound("enrollment")
	}
	enrollment := enrollments[0]

	// An empty formation can never auto-complete.
	var percentage float64
	if total > 0 {
		percentage = float64(completed) / float64(total) * 100
	}
	isCompleted := percentage >= 100

	fields := map[string]interface{}{
		"progress_percentage": percentage,
		"completion_rate":     math.Round(percentage*100) / 100,
		"is_completed":        isCompleted,
	}
	now := time.Now().UTC()
	switch {
	case isCompleted && !enrollment.IsCompleted:
		fields["completed_at"] = now
		enrollment.CompletedAt = &now
	case !isCompleted && enrollment.IsCompleted:
		fields["completed_at"] = nil
		enrollment.CompletedAt = nil
	}

	if err := ps.enrollmentRepo.UpdateFields(ctx, tx, enrollmentID, fields); err != nil {
		return nil, fmt.Errorf("write recompute: %w", err)
	}

	enrollment.ProgressPercentage = percentage
	enrollment.CompletionRate = math.Round(percentage*100) / 100
	enrollment.IsCompleted = isCompleted
	return enrollment, nil
}

func (ps *progressService) FormationProgress(ctx context.Context, userID uuid.UUID, formationSlug string) (*FormationProgressView, error) {
	formation, err := ps.formationRepo.GetBySlug(ctx, nil, formationSlug)
	if err != nil {
		return nil, fmt.Errorf("get formation: %w", err)
	}
	if formation == nil {
		return nil, apierr.NotFound("formation")
	}

	enrollment, err := ps.enrollmentRepo.GetByUserAndFormation(ctx, nil, userID, formation.ID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apierr.NotEnrolled()
	}

	chapters, err := ps.chapterRepo.GetByFormationID(ctx, nil, formation.ID, true)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	lessons, err := ps.lessonRepo.GetByFormationID(ctx, nil, formation.ID, true)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	progressRows, err := ps.lessonProgRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("load lesson progress: %w", err)
	}

	completedByLesson := make(map[uuid.UUID]bool, len(progressRows))
	for _, p := range progressRows {
		if p.IsCompleted {
			completedByLesson[p.LessonID] = true
		}
	}

	view := &FormationProgressView{Enrollment: enrollment}
	byChapter := make(map[uuid.UUID]*ChapterProgress, len(chapters))
	for _, c := range chapters {
		cp := &ChapterProgress{ChapterID: c.ID, Title: c.Title}
		byChapter[c.ID] = cp
		view.Chapters = append(view.Chapters, cp)
	}
	for _, l := range lessons {
		if l.ChapterID == nil {
			continue
		}
		cp, ok := byChapter[*l.ChapterID]
		if !ok {
			continue
		}
		cp.TotalLessons++
		if completedByLesson[l.ID] {
			cp.CompletedLessons++
		}
	}
	return view, nil
}

func marshalBookmarks(in []types.Bookmark) (datatypes.JSON, error) {
	if in == nil {
		in = []types.Bookmark{}
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
