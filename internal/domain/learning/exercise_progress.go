package learning

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExerciseNotStarted = "not_started"
	ExerciseInProgress = "in_progress"
	ExerciseCompleted  = "completed"
)

type UserExerciseProgress struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_user_exercise,unique" json:"user_id"`
	User       *user.User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExerciseID uuid.UUID         `gorm:"type:uuid;not null;index:idx_user_exercise,unique" json:"exercise_id"`
	Exercise   *catalog.Exercise `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`

	Status        string     `gorm:"column:status;not null;default:'not_started';index" json:"status"`
	SubmittedCode string     `gorm:"column:submitted_code;type:text" json:"submitted_code,omitempty"`
	StartedAt     *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserExerciseProgress) TableName() string { return "user_exercise_progress" }
