package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type FormationHandler struct {
	catalogService services.CatalogService
}

func NewFormationHandler(catalogService services.CatalogService) *FormationHandler {
	return &FormationHandler{catalogService: catalogService}
}

// List serves the public catalog: published formations only. Admin listing
// goes through ListAll.
func (fh *FormationHandler) List(c *gin.Context) {
	formations, err := fh.catalogService.ListFormations(c.Request.Context(), true)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formations": formations})
}

func (fh *FormationHandler) GetBySlug(c *gin.Context) {
	detail, err := fh.catalogService.GetFormationBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (fh *FormationHandler) ListAll(c *gin.Context) {
	formations, err := fh.catalogService.ListFormations(c.Request.Context(), false)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formations": formations})
}

func (fh *FormationHandler) GetBySlugAdmin(c *gin.Context) {
	detail, err := fh.catalogService.GetFormationBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (fh *FormationHandler) Create(c *gin.Context) {
	var req services.FormationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	formation, err := fh.catalogService.CreateFormation(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, formation)
}

func (fh *FormationHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.FormationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	formation, err := fh.catalogService.UpdateFormation(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, formation)
}

func (fh *FormationHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := fh.catalogService.DeleteFormation(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (fh *FormationHandler) CreateChapter(c *gin.Context) {
	formationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ChapterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	chapter, err := fh.catalogService.CreateChapter(c.Request.Context(), formationID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, chapter)
}

func (fh *FormationHandler) UpdateChapter(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ChapterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	chapter, err := fh.catalogService.UpdateChapter(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, chapter)
}

func (fh *FormationHandler) DeleteChapter(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := fh.catalogService.DeleteChapter(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (fh *FormationHandler) CreateLesson(c *gin.Context) {
	formationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.LessonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	lesson, err := fh.catalogService.CreateLesson(c.Request.Context(), formationID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, lesson)
}

func (fh *FormationHandler) UpdateLesson(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.LessonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	lesson, err := fh.catalogService.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, lesson)
}

func (fh *FormationHandler) DeleteLesson(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := fh.catalogService.DeleteLesson(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (fh *FormationHandler) CreateExercise(c *gin.Context) {
	formationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	exercise, err := fh.catalogService.CreateExercise(c.Request.Context(), formationID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, exercise)
}

func (fh *FormationHandler) UpdateExercise(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	exercise, err := fh.catalogService.UpdateExercise(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, exercise)
}

func (fh *FormationHandler) DeleteExercise(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := fh.catalogService.DeleteExercise(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}
