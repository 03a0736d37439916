package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormationChapter struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FormationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"formation_id"`
	Formation   *Formation `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0;index" json:"sort_order"`
	IsPublished bool       `gorm:"column:is_published;not null;default:false" json:"is_published"`

	Lessons []*FormationLesson `gorm:"foreignKey:ChapterID" json:"lessons,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FormationChapter) TableName() string { return "formation_chapters" }
