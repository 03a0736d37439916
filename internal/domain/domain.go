// Package domain re-exports the per-area model types under one import so
// repos and services can refer to them as types.X.
package domain

import (
	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/contact"
	"github.com/codeforma/codeforma-backend/internal/domain/learning"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = user.UserToken

	Formation        = catalog.Formation
	FormationChapter = catalog.FormationChapter
	FormationLesson  = catalog.FormationLesson
	Exercise         = catalog.Exercise
	Technology       = catalog.Technology
	Project          = catalog.Project

	UserEnrollment       = learning.UserEnrollment
	LessonProgress       = learning.LessonProgress
	Bookmark             = learning.Bookmark
	UserExerciseProgress = learning.UserExerciseProgress
	Certificate          = learning.Certificate
	FormationReview      = learning.FormationReview

	ContactMessage = contact.Message
)

const (
	RoleUser       = user.RoleUser
	RoleInstructor = user.RoleInstructor
	RoleAdmin      = user.RoleAdmin

	ExerciseNotStarted = learning.ExerciseNotStarted
	ExerciseInProgress = learning.ExerciseInProgress
	ExerciseCompleted  = learning.ExerciseCompleted
)
