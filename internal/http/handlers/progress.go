package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
	metrics         *observability.Metrics
}

func NewProgressHandler(progressService services.ProgressService, metrics *observability.Metrics) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, metrics: metrics}
}

func (ph *ProgressHandler) RecordLessonProgress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.LessonProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	progress, err := ph.progressService.RecordLessonProgress(c.Request.Context(), userID, lessonID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if progress.IsCompleted {
		ph.metrics.IncLessonCompleted()
	}
	response.RespondOK(c, progress)
}

func (ph *ProgressHandler) SubmitExercise(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ExerciseSubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	progress, err := ph.progressService.SubmitExercise(c.Request.Context(), userID, exerciseID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	ph.metrics.IncExerciseSubmission(progress.Status)
	response.RespondOK(c, progress)
}

func (ph *ProgressHandler) FormationProgress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	view, err := ph.progressService.FormationProgress(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, view)
}
