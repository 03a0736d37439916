package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/codeforma/codeforma-backend/internal/requestdata"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormationDetail is the public course page payload: the formation with its
// published chapters (lessons nested, ordered) plus lessons that hang
// directly off the formation and the formation's exercises.
type FormationDetail struct {
	Formation     *types.Formation          `json:"formation"`
	Chapters      []*types.FormationChapter `json:"chapters"`
	OrphanLessons []*types.FormationLesson  `json:"orphan_lessons,omitempty"`
	Exercises     []*types.Exercise         `json:"exercises,omitempty"`
}

type FormationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
}

type ChapterInput struct {
	Title       string `json:"title"`
	SortOrder   int    `json:"sort_order"`
	IsPublished bool   `json:"is_published"`
}

type LessonInput struct {
	ChapterID       *uuid.UUID `json:"chapter_id,omitempty"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	VideoURL        string     `json:"video_url"`
	DurationSeconds int        `json:"duration_seconds"`
	SortOrder       int        `json:"sort_order"`
	IsPublished     bool       `json:"is_published"`
	IsFree          bool       `json:"is_free"`
}

type ExerciseInput struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	StarterCode  string `json:"starter_code"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  bool   `json:"is_published"`
}

type CatalogService interface {
	ListFormations(ctx context.Context, publishedOnly bool) ([]*types.Formation, error)
	GetFormationBySlug(ctx context.Context, slug string, publishedOnly bool) (*FormationDetail, error)

	CreateFormation(ctx context.Context, in FormationInput) (*types.Formation, error)
	UpdateFormation(ctx context.Context, id uuid.UUID, in FormationInput) (*types.Formation, error)
	DeleteFormation(ctx context.Context, id uuid.UUID) error

	CreateChapter(ctx context.Context, formationID uuid.UUID, in ChapterInput) (*types.FormationChapter, error)
	UpdateChapter(ctx context.Context, id uuid.UUID, in ChapterInput) (*types.FormationChapter, error)
	DeleteChapter(ctx context.Context, id uuid.UUID) error

	CreateLesson(ctx context.Context, formationID uuid.UUID, in LessonInput) (*types.FormationLesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, in LessonInput) (*types.FormationLesson, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) error

	CreateExercise(ctx context.Context, formationID uuid.UUID, in ExerciseInput) (*types.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, in ExerciseInput) (*types.Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	formationRepo catalogrepo.FormationRepo
	chapterRepo   catalogrepo.ChapterRepo
	lessonRepo    catalogrepo.LessonRepo
	exerciseRepo  catalogrepo.ExerciseRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	formationRepo catalogrepo.FormationRepo,
	chapterRepo catalogrepo.ChapterRepo,
	lessonRepo catalogrepo.LessonRepo,
	exerciseRepo catalogrepo.ExerciseRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:            db,
		log:           serviceLog,
		formationRepo: formationRepo,
		chapterRepo:   chapterRepo,
		lessonRepo:    lessonRepo,
		exerciseRepo:  exerciseRepo,
	}
}

func (cs *catalogService) ListFormations(ctx context.Context, publishedOnly bool) ([]*types.Formation, error) {
	formations, err := cs.formationRepo.List(ctx, nil, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	return formations, nil
}

func (cs *catalogService) GetFormationBySlug(ctx context.Context, slug string, publishedOnly bool) (*FormationDetail, error) {
	formation, err := cs.formationRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("get formation by slug: %w", err)
	}
	if formation == nil || (publishedOnly && !formation.IsPublished) {
		return nil, apierr.NotFound("formation")
	}

	chapters, err := cs.chapterRepo.GetByFormationID(ctx, nil, formation.ID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	lessons, err := cs.lessonRepo.GetByFormationID(ctx, nil, formation.ID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	exercises, err := cs.exerciseRepo.GetByFormationID(ctx, nil, formation.ID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}

	byChapter := make(map[uuid.UUID][]*types.FormationLesson)
	var orphans []*types.FormationLesson
	for _, l := range lessons {
		if l.ChapterID == nil {
			orphans = append(orphans, l)
			continue
		}
		byChapter[*l.ChapterID] = append(byChapter[*l.ChapterID], l)
	}
	for _, c := range chapters {
		c.Lessons = byChapter[c.ID]
	}

	return &FormationDetail{
		Formation:     formation,
		Chapters:      chapters,
		OrphanLessons: orphans,
		Exercises:     exercises,
	}, nil
}

func (cs *catalogService) CreateFormation(ctx context.Context, in FormationInput) (*types.Formation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title required")
	}

	slug, err := cs.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	formation := &types.Formation{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Level:       strings.TrimSpace(in.Level),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		IsPublished: in.IsPublished,
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		authorID := rd.UserID
		formation.AuthorID = &authorID
	}

	if _, err := cs.formationRepo.Create(ctx, nil, []*types.Formation{formation}); err != nil {
		return nil, fmt.Errorf("create formation: %w", err)
	}
	return formation, nil
}

func (cs *catalogService) UpdateFormation(ctx context.Context, id uuid.UUID, in FormationInput) (*types.Formation, error) {
	existing, err := cs.formationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"description":  strings.TrimSpace(in.Description),
		"level":        strings.TrimSpace(in.Level),
		"image_url":    strings.TrimSpace(in.ImageURL),
		"is_published": in.IsPublished,
	}
	if title := strings.TrimSpace(in.Title); title != "" && title != existing.Title {
		fields["title"] = title
	}

	if err := cs.formationRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update formation: %w", err)
	}
	return cs.formationByID(ctx, id)
}

func (cs *catalogService) DeleteFormation(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.formationByID(ctx, id); err != nil {
		return err
	}
	return cs.formationRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (cs *catalogService) CreateChapter(ctx context.Context, formationID uuid.UUID, in ChapterInput) (*types.FormationChapter, error) {
	if _, err := cs.formationByID(ctx, formationID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title required")
	}

	chapter := &types.FormationChapter{
		ID:          uuid.New(),
		FormationID: formationID,
		Title:       title,
		SortOrder:   in.SortOrder,
		IsPublished: in.IsPublished,
	}
	if _, err := cs.chapterRepo.Create(ctx, nil, []*types.FormationChapter{chapter}); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return chapter, nil
}

func (cs *catalogService) UpdateChapter(ctx context.Context, id uuid.UUID, in ChapterInput) (*types.FormationChapter, error) {
	chapters, err := cs.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	if len(chapters) == 0 {
		return nil, apierr.NotFound("chapter")
	}

	fields := map[string]interface{}{
		"sort_order":   in.SortOrder,
		"is_published": in.IsPublished,
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		fields["title"] = title
	}
	if err := cs.chapterRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update chapter: %w", err)
	}

	chapters, err = cs.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil || len(chapters) == 0 {
		return nil, fmt.Errorf("reload chapter: %w", err)
	}
	return chapters[0], nil
}

func (cs *catalogService) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	chapters, err := cs.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("load chapter: %w", err)
	}
	if len(chapters) == 0 {
		return apierr.NotFound("chapter")
	}
	return cs.chapterRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (cs *catalogService) CreateLesson(ctx context.Context, formationID uuid.UUID, in LessonInput) (*types.FormationLesson, error) {
	if _, err := cs.formationByID(ctx, formationID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title required")
	}
	if in.ChapterID != nil {
		chapters, err := cs.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.ChapterID})
		if err != nil {
			return nil, fmt.Errorf("load chapter: %w", err)
		}
		if len(chapters) == 0 || chapters[0].FormationID != formationID {
			return nil, apierr.Invalid("chapter does not belong to this formation")
		}
	}

	lesson := &types.FormationLesson{
		ID:              uuid.New(),
		FormationID:     formationID,
		ChapterID:       in.ChapterID,
		Title:           title,
		Content:         in.Content,
		VideoURL:        strings.TrimSpace(in.VideoURL),
		DurationSeconds: in.DurationSeconds,
		SortOrder:       in.SortOrder,
		IsPublished:     in.IsPublished,
		IsFree:          in.IsFree,
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := cs.lessonRepo.Create(ctx, tx, []*types.FormationLesson{lesson}); cErr != nil {
			return fmt.Errorf("create lesson: %w", cErr)
		}
		return cs.syncTotalLessons(ctx, tx, formationID)
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (cs *catalogService) UpdateLesson(ctx context.Context, id uuid.UUID, in LessonInput) (*types.FormationLesson, error) {
	lessons, err := cs.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("lesson")
	}
	lesson := lessons[0]

	fields := map[string]interface{}{
		"content":          in.Content,
		"video_url":        strings.TrimSpace(in.VideoURL),
		"duration_seconds": in.DurationSeconds,
		"sort_order":       in.SortOrder,
		"is_published":     in.IsPublished,
		"is_free":          in.IsFree,
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		fields["title"] = title
	}
	if in.ChapterID != nil {
		chapters, cErr := cs.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.ChapterID})
		if cErr != nil {
			return nil, fmt.Errorf("load chapter: %w", cErr)
		}
		if len(chapters) == 0 || chapters[0].FormationID != lesson.FormationID {
			return nil, apierr.Invalid("chapter does not belong to this formation")
		}
		fields["chapter_id"] = *in.ChapterID
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := cs.lessonRepo.UpdateFields(ctx, tx, id, fields); uErr != nil {
			return fmt.Errorf("update lesson: %w", uErr)
		}
		// Publish state may have flipped, which shifts the denormalized
		// published-lesson count.
		return cs.syncTotalLessons(ctx, tx, lesson.FormationID)
	})
	if err != nil {
		return nil, err
	}

	lessons, err = cs.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil || len(lessons) == 0 {
		return nil, fmt.Errorf("reload lesson: %w", err)
	}
	return lessons[0], nil
}

func (cs *catalogService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	lessons, err := cs.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return apierr.NotFound("lesson")
	}
	formationID := lessons[0].FormationID

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := cs.lessonRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{id}); dErr != nil {
			return fmt.Errorf("delete lesson: %w", dErr)
		}
		return cs.syncTotalLessons(ctx, tx, formationID)
	})
}

func (cs *catalogService) CreateExercise(ctx context.Context, formationID uuid.UUID, in ExerciseInput) (*types.Exercise, error) {
	if _, err := cs.formationByID(ctx, formationID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title required")
	}

	exercise := &types.Exercise{
		ID:           uuid.New(),
		FormationID:  formationID,
		Title:        title,
		Instructions: in.Instructions,
		StarterCode:  in.StarterCode,
		DisplayOrder: in.DisplayOrder,
		IsPublished:  in.IsPublished,
	}
	if _, err := cs.exerciseRepo.Create(ctx, nil, []*types.Exercise{exercise}); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, nil
}

func (cs *catalogService) UpdateExercise(ctx context.Context, id uuid.UUID, in ExerciseInput) (*types.Exercise, error) {
	exercises, err := cs.exerciseRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load exercise: %w", err)
	}
	if len(exercises) == 0 {
		return nil, apierr.NotFound("exercise")
	}

	fields := map[string]interface{}{
		"instructions":  in.Instructions,
		"starter_code":  in.StarterCode,
		"display_order": in.DisplayOrder,
		"is_published":  in.IsPublished,
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		fields["title"] = title
	}
	if err := cs.exerciseRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update exercise: %w", err)
	}

	exercises, err = cs.exerciseRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil || len(exercises) == 0 {
		return nil, fmt.Errorf("reload exercise: %w", err)
	}
	return exercises[0], nil
}

func (cs *catalogService) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	exercises, err := cs.exerciseRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("load exercise: %w", err)
	}
	if len(exercises) == 0 {
		return apierr.NotFound("exercise")
	}
	return cs.exerciseRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (cs *catalogService) formationByID(ctx context.Context, id uuid.UUID) (*types.Formation, error) {
	formations, err := cs.formationRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load formation: %w", err)
	}
	if len(formations) == 0 {
		return nil, apierr.NotFound("formation")
	}
	return formations[0], nil
}

// syncTotalLessons refreshes the formation's denormalized published-lesson
// count. The count feeds course cards only; progress math recounts live.
func (cs *catalogService) syncTotalLessons(ctx context.Context, tx *gorm.DB, formationID uuid.UUID) error {
	total, err := cs.lessonRepo.CountPublished(ctx, tx, formationID)
	if err != nil {
		return fmt.Errorf("count published lessons: %w", err)
	}
	if err := cs.formationRepo.UpdateFields(ctx, tx, formationID, map[string]interface{}{"total_lessons": total}); err != nil {
		return fmt.Errorf("sync total_lessons: %w", err)
	}
	return nil
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugCleanRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug slugifies the title and, on collision, appends a short random
// suffix until the slug is free.
func (cs *catalogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		base = "formation"
	}
	slug := base
	for i := 0; i < 5; i++ {
		exists, err := cs.formationRepo.SlugExists(ctx, nil, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
	}
	return "", fmt.Errorf("could not allocate unique slug for %q", title)
}
