package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormationLesson belongs to a chapter, or directly to the formation when
// ChapterID is nil (orphan lessons). FormationID is always set so progress
// queries can join lessons to their formation without traversing chapters.
type FormationLesson struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FormationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"formation_id"`
	Formation   *Formation        `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`
	ChapterID   *uuid.UUID        `gorm:"type:uuid;index" json:"chapter_id,omitempty"`
	Chapter     *FormationChapter `gorm:"constraint:OnDelete:SET NULL;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`

	Title           string `gorm:"column:title;not null" json:"title"`
	Content         string `gorm:"column:content;type:text" json:"content,omitempty"`
	VideoURL        string `gorm:"column:video_url" json:"video_url,omitempty"`
	DurationSeconds int    `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	SortOrder       int    `gorm:"column:sort_order;not null;default:0;index" json:"sort_order"`
	IsPublished     bool   `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	IsFree          bool   `gorm:"column:is_free;not null;default:false" json:"is_free"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FormationLesson) TableName() string { return "formation_lessons" }
