package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (sh *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stats, err := sh.statsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (sh *StatsHandler) Weekly(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stats, err := sh.statsService.Weekly(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
