package learning

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bookmark is one entry of the bookmarks JSON column: a playback position
// with an optional note, kept in insertion order.
type Bookmark struct {
	TimeSeconds int    `json:"time"`
	Note        string `json:"note,omitempty"`
}

// LessonProgress records one learner's position and completion state for one
// lesson. Owned by exactly one enrollment; deleting the enrollment cascades.
type LessonProgress struct {
	ID           uuid.UUID                `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID                `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"user_id"`
	User         *user.User               `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID     uuid.UUID                `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"lesson_id"`
	Lesson       *catalog.FormationLesson `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	EnrollmentID uuid.UUID                `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *UserEnrollment          `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`

	StartedAt            time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	LastPositionSeconds  int            `gorm:"column:last_position_seconds;not null;default:0" json:"last_position_seconds"`
	WatchTimeSeconds     int            `gorm:"column:watch_time_seconds;not null;default:0" json:"watch_time_seconds"`
	CompletionPercentage float64        `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`
	IsCompleted          bool           `gorm:"column:is_completed;not null;default:false;index" json:"is_completed"`
	CompletedAt          *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes                string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Bookmarks            datatypes.JSON `gorm:"type:jsonb;column:bookmarks" json:"bookmarks"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
