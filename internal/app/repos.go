package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	contactrepo "github.com/codeforma/codeforma-backend/internal/data/repos/contact"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	userrepo "github.com/codeforma/codeforma-backend/internal/data/repos/user"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo

	Formation  catalogrepo.FormationRepo
	Chapter    catalogrepo.ChapterRepo
	Lesson     catalogrepo.LessonRepo
	Exercise   catalogrepo.ExerciseRepo
	Project    catalogrepo.ProjectRepo
	Technology catalogrepo.TechnologyRepo

	Enrollment       learningrepo.EnrollmentRepo
	LessonProgress   learningrepo.LessonProgressRepo
	ExerciseProgress learningrepo.ExerciseProgressRepo
	Certificate      learningrepo.CertificateRepo
	Review           learningrepo.ReviewRepo
	Stats            learningrepo.StatsRepo

	Message contactrepo.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),

		Formation:  catalogrepo.NewFormationRepo(db, log),
		Chapter:    catalogrepo.NewChapterRepo(db, log),
		Lesson:     catalogrepo.NewLessonRepo(db, log),
		Exercise:   catalogrepo.NewExerciseRepo(db, log),
		Project:    catalogrepo.NewProjectRepo(db, log),
		Technology: catalogrepo.NewTechnologyRepo(db, log),

		Enrollment:       learningrepo.NewEnrollmentRepo(db, log),
		LessonProgress:   learningrepo.NewLessonProgressRepo(db, log),
		ExerciseProgress: learningrepo.NewExerciseProgressRepo(db, log),
		Certificate:      learningrepo.NewCertificateRepo(db, log),
		Review:           learningrepo.NewReviewRepo(db, log),
		Stats:            learningrepo.NewStatsRepo(db, log),

		Message: contactrepo.NewMessageRepo(db, log),
	}
}
