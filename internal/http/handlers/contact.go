package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type ContactHandler struct {
	contactService services.ContactService
	metrics        *observability.Metrics
}

func NewContactHandler(contactService services.ContactService, metrics *observability.Metrics) *ContactHandler {
	return &ContactHandler{contactService: contactService, metrics: metrics}
}

func (ch *ContactHandler) Submit(c *gin.Context) {
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	msg, err := ch.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	ch.metrics.IncContactMessage()
	response.RespondCreated(c, msg)
}

func (ch *ContactHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	messages, err := ch.contactService.List(c.Request.Context(), unreadOnly)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": messages})
}

func (ch *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.contactService.MarkRead(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ContactHandler) MarkReplied(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.contactService.MarkReplied(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.contactService.Delete(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondNoContent(c)
}
