package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
	metrics           *observability.Metrics
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, metrics *observability.Metrics) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, metrics: metrics}
}

func (eh *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	result, err := eh.enrollmentService.Enroll(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if result.Created {
		eh.metrics.IncEnrollment()
		response.RespondCreated(c, result.Enrollment)
		return
	}
	// The existing row wins the conflict; the client re-reads it via
	// GET /api/enrollments instead of retrying the write.
	response.RespondError(c, http.StatusConflict, apierr.CodeDuplicateEnrollment,
		errors.New("already enrolled in this formation"))
}

func (eh *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	enrollments, err := eh.enrollmentService.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": enrollments})
}
