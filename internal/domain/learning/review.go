package learning

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormationReview: one review per learner per formation, enrollment required.
// HelpfulCount only ever grows and the author cannot vote on their own review.
type FormationReview struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_review_user_formation,unique" json:"user_id"`
	User        *user.User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	FormationID uuid.UUID          `gorm:"type:uuid;not null;index:idx_review_user_formation,unique" json:"formation_id"`
	Formation   *catalog.Formation `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`

	Rating       int    `gorm:"column:rating;not null" json:"rating"`
	Comment      string `gorm:"column:comment;type:text" json:"comment,omitempty"`
	HelpfulCount int    `gorm:"column:helpful_count;not null;default:0" json:"helpful_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FormationReview) TableName() string { return "formation_reviews" }
