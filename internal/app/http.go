package app

import (
	"github.com/gin-gonic/gin"

	httpsrv "github.com/codeforma/codeforma-backend/internal/http"
	httpH "github.com/codeforma/codeforma-backend/internal/http/handlers"
	httpMW "github.com/codeforma/codeforma-backend/internal/http/middleware"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	User        *httpH.UserHandler
	Formation   *httpH.FormationHandler
	Enrollment  *httpH.EnrollmentHandler
	Progress    *httpH.ProgressHandler
	Certificate *httpH.CertificateHandler
	Review      *httpH.ReviewHandler
	Contact     *httpH.ContactHandler
	Project     *httpH.ProjectHandler
	Stats       *httpH.StatsHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Auth:        httpH.NewAuthHandler(services.Auth),
		User:        httpH.NewUserHandler(services.User),
		Formation:   httpH.NewFormationHandler(services.Catalog),
		Enrollment:  httpH.NewEnrollmentHandler(services.Enrollment, metrics),
		Progress:    httpH.NewProgressHandler(services.Progress, metrics),
		Certificate: httpH.NewCertificateHandler(services.Certificate, metrics),
		Review:      httpH.NewReviewHandler(services.Review, metrics),
		Contact:     httpH.NewContactHandler(services.Contact, metrics),
		Project:     httpH.NewProjectHandler(services.Portfolio),
		Stats:       httpH.NewStatsHandler(services.Stats),
	}
}

func wireRouter(log *logger.Logger, metrics *observability.Metrics, handlers Handlers, middleware Middleware, mediaRoot string) *gin.Engine {
	return httpsrv.NewRouter(httpsrv.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AuthMiddleware: middleware.Auth,

		HealthHandler:      handlers.Health,
		AuthHandler:        handlers.Auth,
		UserHandler:        handlers.User,
		FormationHandler:   handlers.Formation,
		EnrollmentHandler:  handlers.Enrollment,
		ProgressHandler:    handlers.Progress,
		CertificateHandler: handlers.Certificate,
		ReviewHandler:      handlers.Review,
		ContactHandler:     handlers.Contact,
		ProjectHandler:     handlers.Project,
		StatsHandler:       handlers.Stats,

		MediaRoot: mediaRoot,
	})
}
