package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type ProjectHandler struct {
	portfolioService services.PortfolioService
}

func NewProjectHandler(portfolioService services.PortfolioService) *ProjectHandler {
	return &ProjectHandler{portfolioService: portfolioService}
}

func (ph *ProjectHandler) List(c *gin.Context) {
	featuredOnly := c.Query("featured") == "true"
	projects, err := ph.portfolioService.ListProjects(c.Request.Context(), featuredOnly)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projects})
}

func (ph *ProjectHandler) GetBySlug(c *gin.Context) {
	project, err := ph.portfolioService.GetProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, project)
}

func (ph *ProjectHandler) Create(c *gin.Context) {
	var req services.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	project, err := ph.portfolioService.CreateProject(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, project)
}

func (ph *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	project, err := ph.portfolioService.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, project)
}

func (ph *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ph.portfolioService.DeleteProject(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (ph *ProjectHandler) ListTechnologies(c *gin.Context) {
	techs, err := ph.portfolioService.ListTechnologies(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"technologies": techs})
}

func (ph *ProjectHandler) CreateTechnology(c *gin.Context) {
	var req services.TechnologyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	tech, err := ph.portfolioService.CreateTechnology(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, tech)
}

func (ph *ProjectHandler) UpdateTechnology(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.TechnologyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	tech, err := ph.portfolioService.UpdateTechnology(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, tech)
}

func (ph *ProjectHandler) DeleteTechnology(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ph.portfolioService.DeleteTechnology(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}
