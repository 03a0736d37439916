package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	httpH "github.com/codeforma/codeforma-backend/internal/http/handlers"
	httpMW "github.com/codeforma/codeforma-backend/internal/http/middleware"
	"github.com/codeforma/codeforma-backend/internal/observability"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler      *httpH.HealthHandler
	AuthHandler        *httpH.AuthHandler
	UserHandler        *httpH.UserHandler
	FormationHandler   *httpH.FormationHandler
	EnrollmentHandler  *httpH.EnrollmentHandler
	ProgressHandler    *httpH.ProgressHandler
	CertificateHandler *httpH.CertificateHandler
	ReviewHandler      *httpH.ReviewHandler
	ContactHandler     *httpH.ContactHandler
	ProjectHandler     *httpH.ProjectHandler
	StatsHandler       *httpH.StatsHandler

	// MediaRoot, when set, is served read-only under /media.
	MediaRoot string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("codeforma"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MediaRoot != "" {
		r.Static("/media", cfg.MediaRoot)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.FormationHandler != nil {
			api.GET("/formations", cfg.FormationHandler.List)
			api.GET("/formations/:slug", cfg.FormationHandler.GetBySlug)
		}
		if cfg.ReviewHandler != nil {
			api.GET("/formations/:slug/reviews", cfg.ReviewHandler.ListForFormation)
		}
		if cfg.ProjectHandler != nil {
			api.GET("/projects", cfg.ProjectHandler.List)
			api.GET("/projects/:slug", cfg.ProjectHandler.GetBySlug)
			api.GET("/technologies", cfg.ProjectHandler.ListTechnologies)
		}
		if cfg.ContactHandler != nil {
			api.POST("/contact", cfg.ContactHandler.Submit)
		}
		if cfg.CertificateHandler != nil {
			api.GET("/certificates/verify/:number", cfg.CertificateHandler.Verify)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/user", cfg.UserHandler.Me)
			protected.PUT("/user", cfg.UserHandler.UpdateProfile)
			protected.PUT("/user/password", cfg.UserHandler.ChangePassword)
			protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
		}

		if cfg.EnrollmentHandler != nil {
			protected.POST("/formations/:slug/enroll", cfg.EnrollmentHandler.Enroll)
			protected.GET("/enrollments", cfg.EnrollmentHandler.ListMine)
		}

		if cfg.ProgressHandler != nil {
			protected.POST("/lessons/:id/progress", cfg.ProgressHandler.RecordLessonProgress)
			protected.POST("/exercises/:id/submit", cfg.ProgressHandler.SubmitExercise)
			protected.GET("/progress/formations/:slug", cfg.ProgressHandler.FormationProgress)
		}

		if cfg.CertificateHandler != nil {
			protected.POST("/formations/:slug/certificate", cfg.CertificateHandler.Issue)
			protected.GET("/certificates", cfg.CertificateHandler.ListMine)
		}

		if cfg.ReviewHandler != nil {
			protected.POST("/formations/:slug/reviews", cfg.ReviewHandler.Create)
			protected.PUT("/reviews/:id", cfg.ReviewHandler.Update)
			protected.DELETE("/reviews/:id", cfg.ReviewHandler.Delete)
			protected.POST("/reviews/:id/helpful", cfg.ReviewHandler.MarkHelpful)
		}

		if cfg.StatsHandler != nil {
			protected.GET("/stats/dashboard", cfg.StatsHandler.Dashboard)
			protected.GET("/stats/weekly", cfg.StatsHandler.Weekly)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAuth())
			admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin, types.RoleInstructor))
		}

		if cfg.FormationHandler != nil {
			admin.GET("/formations", cfg.FormationHandler.ListAll)
			admin.GET("/formations/:slug", cfg.FormationHandler.GetBySlugAdmin)
			admin.POST("/formations", cfg.FormationHandler.Create)
			admin.PUT("/formations/:id", cfg.FormationHandler.Update)
			admin.DELETE("/formations/:id", cfg.FormationHandler.Delete)

			admin.POST("/formations/:id/chapters", cfg.FormationHandler.CreateChapter)
			admin.PUT("/chapters/:id", cfg.FormationHandler.UpdateChapter)
			admin.DELETE("/chapters/:id", cfg.FormationHandler.DeleteChapter)

			admin.POST("/formations/:id/lessons", cfg.FormationHandler.CreateLesson)
			admin.PUT("/lessons/:id", cfg.FormationHandler.UpdateLesson)
			admin.DELETE("/lessons/:id", cfg.FormationHandler.DeleteLesson)

			admin.POST("/formations/:id/exercises", cfg.FormationHandler.CreateExercise)
			admin.PUT("/exercises/:id", cfg.FormationHandler.UpdateExercise)
			admin.DELETE("/exercises/:id", cfg.FormationHandler.DeleteExercise)
		}

		if cfg.ContactHandler != nil {
			admin.GET("/messages", cfg.ContactHandler.List)
			admin.PUT("/messages/:id/read", cfg.ContactHandler.MarkRead)
			admin.PUT("/messages/:id/replied", cfg.ContactHandler.MarkReplied)
			admin.DELETE("/messages/:id", cfg.ContactHandler.Delete)
		}

		if cfg.ProjectHandler != nil {
			admin.POST("/projects", cfg.ProjectHandler.Create)
			admin.PUT("/projects/:id", cfg.ProjectHandler.Update)
			admin.DELETE("/projects/:id", cfg.ProjectHandler.Delete)

			admin.POST("/technologies", cfg.ProjectHandler.CreateTechnology)
			admin.PUT("/technologies/:id", cfg.ProjectHandler.UpdateTechnology)
			admin.DELETE("/technologies/:id", cfg.ProjectHandler.DeleteTechnology)
		}
	}

	return r
}
