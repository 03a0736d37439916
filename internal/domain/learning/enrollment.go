package learning

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserEnrollment links a learner to a formation, at most once per pair.
//
// Invariants maintained by the progress recompute:
//   - IsCompleted == true iff ProgressPercentage >= 100
//   - CompletedAt is non-nil iff IsCompleted is true
//
// ProgressPercentage keeps full float precision; CompletionRate is the
// 2-decimal informational mirror used for display and certificate scores.
type UserEnrollment struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_user_formation,unique" json:"user_id"`
	User        *user.User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	FormationID uuid.UUID          `gorm:"type:uuid;not null;index:idx_user_formation,unique" json:"formation_id"`
	Formation   *catalog.Formation `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`

	EnrolledAt     time.Time  `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	LastAccessedAt *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`

	ProgressPercentage float64 `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	CompletionRate     float64 `gorm:"column:completion_rate;not null;default:0" json:"completion_rate"`
	TimeSpentSeconds   int     `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`

	// CurrentLessonID is a weak "resume here" reference; it never owns the
	// lesson and is not a foreign key on purpose (lessons may move or vanish).
	CurrentLessonID *uuid.UUID `gorm:"type:uuid;column:current_lesson_id" json:"current_lesson_id,omitempty"`

	IsCompleted bool       `gorm:"column:is_completed;not null;default:false;index" json:"is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CertificateIssuedAt *time.Time `gorm:"column:certificate_issued_at" json:"certificate_issued_at,omitempty"`
	CertificateURL      string     `gorm:"column:certificate_url" json:"certificate_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserEnrollment) TableName() string { return "user_enrollments" }
