package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	metrics       *observability.Metrics
}

func NewReviewHandler(reviewService services.ReviewService, metrics *observability.Metrics) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, metrics: metrics}
}

func (rh *ReviewHandler) ListForFormation(c *gin.Context) {
	reviews, err := rh.reviewService.ListForFormation(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

func (rh *ReviewHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	review, err := rh.reviewService.Create(c.Request.Context(), userID, c.Param("slug"), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	rh.metrics.IncReview("create")
	response.RespondCreated(c, review)
}

func (rh *ReviewHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	review, err := rh.reviewService.Update(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	rh.metrics.IncReview("update")
	response.RespondOK(c, review)
}

func (rh *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := rh.reviewService.Delete(c.Request.Context(), userID, callerIsAdmin(c), reviewID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	rh.metrics.IncReview("delete")
	response.RespondNoContent(c)
}

func (rh *ReviewHandler) MarkHelpful(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	review, err := rh.reviewService.MarkHelpful(c.Request.Context(), userID, reviewID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, review)
}
