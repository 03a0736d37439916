package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/requestdata"
)

var errNoIdentity = errors.New("no authenticated user")

// callerID pulls the authenticated user out of the request context. Routes
// behind RequireAuth always have one; a miss means a wiring bug, answered as
// a 401 rather than a panic.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondFromError(c, apierr.Unauthorized(errNoIdentity.Error()))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func callerIsAdmin(c *gin.Context) bool {
	rd := requestdata.GetRequestData(c.Request.Context())
	return rd != nil && rd.Role == types.RoleAdmin
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondFromError(c, apierr.Invalid("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
