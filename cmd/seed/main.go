// Command seed loads a YAML catalog fixture and upserts it into the database.
// Intended for local development; rerunning it is safe because every row is
// matched by slug or title before insert.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
)

type fixture struct {
	Formations   []formationFixture  `yaml:"formations"`
	Technologies []technologyFixture `yaml:"technologies"`
	Projects     []projectFixture    `yaml:"projects"`
}

type formationFixture struct {
	Slug        string            `yaml:"slug"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Level       string            `yaml:"level"`
	Published   bool              `yaml:"published"`
	Chapters    []chapterFixture  `yaml:"chapters"`
	Exercises   []exerciseFixture `yaml:"exercises"`
}

type chapterFixture struct {
	Title     string          `yaml:"title"`
	SortOrder int             `yaml:"sort_order"`
	Published bool            `yaml:"published"`
	Lessons   []lessonFixture `yaml:"lessons"`
}

type lessonFixture struct {
	Title           string `yaml:"title"`
	Content         string `yaml:"content"`
	VideoURL        string `yaml:"video_url"`
	DurationSeconds int    `yaml:"duration_seconds"`
	SortOrder       int    `yaml:"sort_order"`
	Published       bool   `yaml:"published"`
	Free            bool   `yaml:"free"`
}

type exerciseFixture struct {
	Title        string `yaml:"title"`
	Instructions string `yaml:"instructions"`
	StarterCode  string `yaml:"starter_code"`
	DisplayOrder int    `yaml:"display_order"`
	Published    bool   `yaml:"published"`
}

type technologyFixture struct {
	Name    string `yaml:"name"`
	Slug    string `yaml:"slug"`
	IconURL string `yaml:"icon_url"`
}

type projectFixture struct {
	Slug         string   `yaml:"slug"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	DemoURL      string   `yaml:"demo_url"`
	RepoURL      string   `yaml:"repo_url"`
	Featured     bool     `yaml:"featured"`
	SortOrder    int      `yaml:"sort_order"`
	Technologies []string `yaml:"technologies"`
}

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	path := "seed/catalog.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("read fixture", "path", path, "error", err)
	}
	var fix fixture
	if err := yaml.Unmarshal(raw, &fix); err != nil {
		log.Fatal("parse fixture", "path", path, "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("init postgres", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("automigrate", "error", err)
	}

	ctx := context.Background()
	gdb := pg.DB()

	if err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		techBySlug, err := seedTechnologies(tx, fix.Technologies)
		if err != nil {
			return err
		}
		if err := seedProjects(tx, fix.Projects, techBySlug); err != nil {
			return err
		}
		return seedFormations(tx, fix.Formations)
	}); err != nil {
		log.Fatal("seed failed", "error", err)
	}

	log.Info("seed complete",
		"formations", len(fix.Formations),
		"technologies", len(fix.Technologies),
		"projects", len(fix.Projects),
	)
}

func seedTechnologies(tx *gorm.DB, fixtures []technologyFixture) (map[string]*types.Technology, error) {
	out := make(map[string]*types.Technology, len(fixtures))
	for _, f := range fixtures {
		tech := &types.Technology{
			ID:      uuid.New(),
			Name:    f.Name,
			Slug:    f.Slug,
			IconURL: f.IconURL,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon_url"}),
		}).Create(tech).Error; err != nil {
			return nil, fmt.Errorf("seed technology %q: %w", f.Slug, err)
		}
		var row types.Technology
		if err := tx.Where("slug = ?", f.Slug).First(&row).Error; err != nil {
			return nil, fmt.Errorf("reload technology %q: %w", f.Slug, err)
		}
		out[f.Slug] = &row
	}
	return out, nil
}

func seedProjects(tx *gorm.DB, fixtures []projectFixture, techBySlug map[string]*types.Technology) error {
	for _, f := range fixtures {
		project := &types.Project{
			ID:          uuid.New(),
			Slug:        f.Slug,
			Title:       f.Title,
			Description: f.Description,
			DemoURL:     f.DemoURL,
			RepoURL:     f.RepoURL,
			IsFeatured:  f.Featured,
			SortOrder:   f.SortOrder,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "demo_url", "repo_url", "is_featured", "sort_order"}),
		}).Create(project).Error; err != nil {
			return fmt.Errorf("seed project %q: %w", f.Slug, err)
		}
		var row types.Project
		if err := tx.Where("slug = ?", f.Slug).First(&row).Error; err != nil {
			return fmt.Errorf("reload project %q: %w", f.Slug, err)
		}
		var techs []*types.Technology
		for _, slug := range f.Technologies {
			tech, ok := techBySlug[slug]
			if !ok {
				return fmt.Errorf("project %q references unknown technology %q", f.Slug, slug)
			}
			techs = append(techs, tech)
		}
		if len(techs) > 0 {
			if err := tx.Model(&row).Association("Technologies").Replace(techs); err != nil {
				return fmt.Errorf("attach technologies to %q: %w", f.Slug, err)
			}
		}
	}
	return nil
}

func seedFormations(tx *gorm.DB, fixtures []formationFixture) error {
	for _, f := range fixtures {
		formation := &types.Formation{
			ID:          uuid.New(),
			Slug:        f.Slug,
			Title:       f.Title,
			Description: f.Description,
			Level:       f.Level,
			IsPublished: f.Published,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "level", "is_published"}),
		}).Create(formation).Error; err != nil {
			return fmt.Errorf("seed formation %q: %w", f.Slug, err)
		}
		var row types.Formation
		if err := tx.Where("slug = ?", f.Slug).First(&row).Error; err != nil {
			return fmt.Errorf("reload formation %q: %w", f.Slug, err)
		}

		totalPublished := 0
		for _, cf := range f.Chapters {
			chapter, err := upsertChapter(tx, row.ID, cf)
			if err != nil {
				return err
			}
			for _, lf := range cf.Lessons {
				if err := upsertLesson(tx, row.ID, &chapter.ID, lf); err != nil {
					return err
				}
				if lf.Published {
					totalPublished++
				}
			}
		}
		for _, ef := range f.Exercises {
			if err := upsertExercise(tx, row.ID, ef); err != nil {
				return err
			}
		}

		if err := tx.Model(&types.Formation{}).
			Where("id = ?", row.ID).
			Update("total_lessons", totalPublished).Error; err != nil {
			return fmt.Errorf("update lesson count for %q: %w", f.Slug, err)
		}
	}
	return nil
}

func upsertChapter(tx *gorm.DB, formationID uuid.UUID, f chapterFixture) (*types.FormationChapter, error) {
	var existing types.FormationChapter
	err := tx.Where("formation_id = ? AND title = ?", formationID, f.Title).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{"sort_order": f.SortOrder, "is_published": f.Published}
		if uErr := tx.Model(&existing).Updates(updates).Error; uErr != nil {
			return nil, fmt.Errorf("update chapter %q: %w", f.Title, uErr)
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("lookup chapter %q: %w", f.Title, err)
	}
	chapter := &types.FormationChapter{
		ID:          uuid.New(),
		FormationID: formationID,
		Title:       f.Title,
		SortOrder:   f.SortOrder,
		IsPublished: f.Published,
	}
	if err := tx.Create(chapter).Error; err != nil {
		return nil, fmt.Errorf("create chapter %q: %w", f.Title, err)
	}
	return chapter, nil
}

func upsertLesson(tx *gorm.DB, formationID uuid.UUID, chapterID *uuid.UUID, f lessonFixture) error {
	var existing types.FormationLesson
	err := tx.Where("formation_id = ? AND title = ?", formationID, f.Title).First(&existing).Error
	if err == nil {
		return tx.Model(&existing).Updates(map[string]interface{}{
			"chapter_id":       chapterID,
			"content":          f.Content,
			"video_url":        f.VideoURL,
			"duration_seconds": f.DurationSeconds,
			"sort_order":       f.SortOrder,
			"is_published":     f.Published,
			"is_free":          f.Free,
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("lookup lesson %q: %w", f.Title, err)
	}
	lesson := &types.FormationLesson{
		ID:              uuid.New(),
		FormationID:     formationID,
		ChapterID:       chapterID,
		Title:           f.Title,
		Content:         f.Content,
		VideoURL:        f.VideoURL,
		DurationSeconds: f.DurationSeconds,
		SortOrder:       f.SortOrder,
		IsPublished:     f.Published,
		IsFree:          f.Free,
	}
	if err := tx.Create(lesson).Error; err != nil {
		return fmt.Errorf("create lesson %q: %w", f.Title, err)
	}
	return nil
}

func upsertExercise(tx *gorm.DB, formationID uuid.UUID, f exerciseFixture) error {
	var existing types.Exercise
	err := tx.Where("formation_id = ? AND title = ?", formationID, f.Title).First(&existing).Error
	if err == nil {
		return tx.Model(&existing).Updates(map[string]interface{}{
			"instructions":  f.Instructions,
			"starter_code":  f.StarterCode,
			"display_order": f.DisplayOrder,
			"is_published":  f.Published,
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("lookup exercise %q: %w", f.Title, err)
	}
	exercise := &types.Exercise{
		ID:           uuid.New(),
		FormationID:  formationID,
		Title:        f.Title,
		Instructions: f.Instructions,
		StarterCode:  f.StarterCode,
		DisplayOrder: f.DisplayOrder,
		IsPublished:  f.Published,
	}
	if err := tx.Create(exercise).Error; err != nil {
		return fmt.Errorf("create exercise %q: %w", f.Title, err)
	}
	return nil
}
