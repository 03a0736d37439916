package services

import (
	"context"
	"fmt"
	"strings"

	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
)

type ProjectInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"image_url"`
	DemoURL       string      `json:"demo_url"`
	RepoURL       string      `json:"repo_url"`
	IsFeatured    bool        `json:"is_featured"`
	SortOrder     int         `json:"sort_order"`
	TechnologyIDs []uuid.UUID `json:"technology_ids"`
}

type TechnologyInput struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url"`
}

type PortfolioService interface {
	ListProjects(ctx context.Context, featuredOnly bool) ([]*types.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*types.Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (*types.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, in ProjectInput) (*types.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	ListTechnologies(ctx context.Context) ([]*types.Technology, error)
	CreateTechnology(ctx context.Context, in TechnologyInput) (*types.Technology, error)
	UpdateTechnology(ctx context.Context, id uuid.UUID, in TechnologyInput) (*types.Technology, error)
	DeleteTechnology(ctx context.Context, id uuid.UUID) error
}

type portfolioService struct {
	log            *logger.Logger
	projectRepo    catalogrepo.ProjectRepo
	technologyRepo catalogrepo.TechnologyRepo
}

func NewPortfolioService(
	log *logger.Logger,
	projectRepo catalogrepo.ProjectRepo,
	technologyRepo catalogrepo.TechnologyRepo,
) PortfolioService {
	serviceLog := log.With("service", "PortfolioService")
	return &portfolioService{
		log:            serviceLog,
		projectRepo:    projectRepo,
		technologyRepo: technologyRepo,
	}
}

func (ps *portfolioService) ListProjects(ctx context.Context, featuredOnly bool) ([]*types.Project, error) {
	projects, err := ps.projectRepo.List(ctx, nil, featuredOnly)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (ps *portfolioService) GetProjectBySlug(ctx context.Context, slug string) (*types.Project, error) {
	project, err := ps.projectRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, apierr.NotFound("project")
	}
	return project, nil
}

func (ps *portfolioService) CreateProject(ctx context.Context, in ProjectInput) (*types.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title is required")
	}

	techs, err := ps.resolveTechnologies(ctx, in.TechnologyIDs)
	if err != nil {
		return nil, err
	}

	slug := slugify(title)
	if existing, gErr := ps.projectRepo.GetBySlug(ctx, nil, slug); gErr != nil {
		return nil, fmt.Errorf("check slug: %w", gErr)
	} else if existing != nil {
		slug = fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8])
	}

	project := &types.Project{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		DemoURL:     in.DemoURL,
		RepoURL:     in.RepoURL,
		IsFeatured:  in.IsFeatured,
		SortOrder:   in.SortOrder,
	}
	if _, err := ps.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if len(techs) > 0 {
		if err := ps.projectRepo.ReplaceTechnologies(ctx, nil, project, techs); err != nil {
			return nil, fmt.Errorf("attach technologies: %w", err)
		}
		project.Technologies = techs
	}
	return project, nil
}

func (ps *portfolioService) UpdateProject(ctx context.Context, id uuid.UUID, in ProjectInput) (*types.Project, error) {
	project, err := ps.projectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.Invalid("title is required")
	}

	techs, err := ps.resolveTechnologies(ctx, in.TechnologyIDs)
	if err != nil {
		return nil, err
	}

	if err := ps.projectRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"title":       title,
		"description": strings.TrimSpace(in.Description),
		"image_url":   in.ImageURL,
		"demo_url":    in.DemoURL,
		"repo_url":    in.RepoURL,
		"is_featured": in.IsFeatured,
		"sort_order":  in.SortOrder,
	}); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := ps.projectRepo.ReplaceTechnologies(ctx, nil, project, techs); err != nil {
		return nil, fmt.Errorf("replace technologies: %w", err)
	}

	project.Title = title
	project.Description = strings.TrimSpace(in.Description)
	project.ImageURL = in.ImageURL
	project.DemoURL = in.DemoURL
	project.RepoURL = in.RepoURL
	project.IsFeatured = in.IsFeatured
	project.SortOrder = in.SortOrder
	project.Technologies = techs
	return project, nil
}

func (ps *portfolioService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := ps.projectByID(ctx, id); err != nil {
		return err
	}
	if err := ps.projectRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (ps *portfolioService) ListTechnologies(ctx context.Context) ([]*types.Technology, error) {
	techs, err := ps.technologyRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	return techs, nil
}

func (ps *portfolioService) CreateTechnology(ctx context.Context, in TechnologyInput) (*types.Technology, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Invalid("name is required")
	}
	tech := &types.Technology{
		ID:      uuid.New(),
		Name:    name,
		Slug:    slugify(name),
		IconURL: in.IconURL,
	}
	if _, err := ps.technologyRepo.Create(ctx, nil, []*types.Technology{tech}); err != nil {
		return nil, fmt.Errorf("create technology: %w", err)
	}
	return tech, nil
}

func (ps *portfolioService) UpdateTechnology(ctx context.Context, id uuid.UUID, in TechnologyInput) (*types.Technology, error) {
	techs, err := ps.technologyRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load technology: %w", err)
	}
	if len(techs) == 0 {
		return nil, apierr.NotFound("technology")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Invalid("name is required")
	}
	if err := ps.technologyRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"name":     name,
		"slug":     slugify(name),
		"icon_url": in.IconURL,
	}); err != nil {
		return nil, fmt.Errorf("update technology: %w", err)
	}
	tech := techs[0]
	tech.Name = name
	tech.Slug = slugify(name)
	tech.IconURL = in.IconURL
	return tech, nil
}

func (ps *portfolioService) DeleteTechnology(ctx context.Context, id uuid.UUID) error {
	techs, err := ps.technologyRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("load technology: %w", err)
	}
	if len(techs) == 0 {
		return apierr.NotFound("technology")
	}
	if err := ps.technologyRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete technology: %w", err)
	}
	return nil
}

func (ps *portfolioService) projectByID(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	projects, err := ps.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return nil, apierr.NotFound("project")
	}
	return projects[0], nil
}

func (ps *portfolioService) resolveTechnologies(ctx context.Context, ids []uuid.UUID) ([]*types.Technology, error) {
	if len(ids) == 0 {
		return []*types.Technology{}, nil
	}
	techs, err := ps.technologyRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve technologies: %w", err)
	}
	if len(techs) != len(ids) {
		return nil, apierr.Invalid("unknown technology id")
	}
	return techs, nil
}
