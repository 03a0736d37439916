package db

import (
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Core identity + auth
		// =========================
		&types.User{},
		&types.UserToken{},

		// =========================
		// Catalog (formations + portfolio)
		// =========================
		&types.Formation{},
		&types.FormationChapter{},
		&types.FormationLesson{},
		&types.Exercise{},
		&types.Technology{},
		&types.Project{},

		// =========================
		// Learner progress + artifacts
		// =========================
		&types.UserEnrollment{},
		&types.LessonProgress{},
		&types.UserExerciseProgress{},
		&types.Certificate{},
		&types.FormationReview{},

		// =========================
		// Contact
		// =========================
		&types.ContactMessage{},
	)
}
