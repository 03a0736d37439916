package catalog

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Formation is a course: an ordered set of chapters, lessons and exercises.
// rating / reviews_count / total_lessons are denormalized caches maintained
// synchronously on write; the authoritative values always come from child rows.
type Formation struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthorID    *uuid.UUID `gorm:"type:uuid;index" json:"author_id,omitempty"`
	Author      *user.User `gorm:"constraint:OnDelete:SET NULL;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Slug        string     `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Level       string     `gorm:"column:level" json:"level"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url,omitempty"`
	IsPublished bool       `gorm:"column:is_published;not null;default:false;index" json:"is_published"`

	Rating       float64 `gorm:"column:rating;not null;default:0" json:"rating"`
	ReviewsCount int     `gorm:"column:reviews_count;not null;default:0" json:"reviews_count"`
	TotalLessons int     `gorm:"column:total_lessons;not null;default:0" json:"total_lessons"`

	Chapters  []*FormationChapter `gorm:"foreignKey:FormationID" json:"chapters,omitempty"`
	Exercises []*Exercise         `gorm:"foreignKey:FormationID" json:"exercises,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Formation) TableName() string { return "formations" }
