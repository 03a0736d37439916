package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Exercise struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FormationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"formation_id"`
	Formation   *Formation `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`

	Title        string `gorm:"column:title;not null" json:"title"`
	Instructions string `gorm:"column:instructions;type:text" json:"instructions,omitempty"`
	StarterCode  string `gorm:"column:starter_code;type:text" json:"starter_code,omitempty"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0;index" json:"display_order"`
	IsPublished  bool   `gorm:"column:is_published;not null;default:false;index" json:"is_published"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string { return "exercises" }
