package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/codeforma/codeforma-backend/internal/platform/media"
	"github.com/codeforma/codeforma-backend/internal/platform/sendgrid"
	"github.com/codeforma/codeforma-backend/internal/services"
)

type Services struct {
	Media       media.Store
	Avatar      services.AvatarService
	Auth        services.AuthService
	User        services.UserService
	Catalog     services.CatalogService
	Enrollment  services.EnrollmentService
	Progress    services.ProgressService
	Certificate services.CertificateService
	Review      services.ReviewService
	Contact     services.ContactService
	Portfolio   services.PortfolioService
	Stats       services.StatsService
}

func wireServices(gdb *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	mediaStore, err := media.NewFromEnv(log)
	if err != nil {
		return Services{}, fmt.Errorf("init media store: %w", err)
	}

	avatarService, err := services.NewAvatarService(log, mediaStore)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	// A missing SendGrid key disables the notification email, not the app.
	mailer, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("sendgrid unavailable, contact notifications disabled", "error", err)
		mailer = nil
	}

	runner := db.NewGormTxRunner(gdb)

	authService := services.NewAuthService(
		gdb, log,
		repos.User, repos.UserToken, avatarService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(gdb, log, repos.User, repos.UserToken, avatarService)
	catalogService := services.NewCatalogService(gdb, log, repos.Formation, repos.Chapter, repos.Lesson, repos.Exercise)
	enrollmentService := services.NewEnrollmentService(gdb, log, repos.Formation, repos.Enrollment)
	progressService := services.NewProgressService(
		log, runner,
		repos.Formation, repos.Chapter, repos.Lesson, repos.Exercise,
		repos.Enrollment, repos.LessonProgress, repos.ExerciseProgress,
	)
	certificateService := services.NewCertificateService(
		log, runner,
		repos.Formation, repos.Enrollment, repos.Certificate,
		cfg.PublicBaseURL,
	)
	reviewService := services.NewReviewService(log, runner, repos.Formation, repos.Enrollment, repos.Review)
	contactService := services.NewContactService(log, repos.Message, mailer, cfg.ContactNotifyEmail, cfg.ContactFromEmail)
	portfolioService := services.NewPortfolioService(log, repos.Project, repos.Technology)
	statsService := services.NewStatsService(log, repos.Stats, repos.LessonProgress)

	return Services{
		Media:       mediaStore,
		Avatar:      avatarService,
		Auth:        authService,
		User:        userService,
		Catalog:     catalogService,
		Enrollment:  enrollmentService,
		Progress:    progressService,
		Certificate: certificateService,
		Review:      reviewService,
		Contact:     contactService,
		Portfolio:   portfolioService,
		Stats:       statsService,
	}, nil
}
