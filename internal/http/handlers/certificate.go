package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/codeforma/codeforma-backend/internal/http/response"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type CertificateHandler struct {
	certificateService services.CertificateService
	metrics            *observability.Metrics
}

func NewCertificateHandler(certificateService services.CertificateService, metrics *observability.Metrics) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService, metrics: metrics}
}

// Issue answers 201 on a fresh certificate and 200 on replay with the same
// body, so clients can retry without special casing.
func (ch *CertificateHandler) Issue(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	result, err := ch.certificateService.Issue(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if result.Created {
		ch.metrics.IncCertificateIssued()
		response.RespondCreated(c, result.Certificate)
		return
	}
	response.RespondOK(c, result.Certificate)
}

func (ch *CertificateHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	certs, err := ch.certificateService.GetMine(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificates": certs})
}

func (ch *CertificateHandler) Verify(c *gin.Context) {
	cert, err := ch.certificateService.Verify(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, cert)
}
