package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Technology struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null" json:"name"`
	Slug    string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	IconURL string    `gorm:"column:icon_url" json:"icon_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Technology) TableName() string { return "technologies" }

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url,omitempty"`
	DemoURL     string    `gorm:"column:demo_url" json:"demo_url,omitempty"`
	RepoURL     string    `gorm:"column:repo_url" json:"repo_url,omitempty"`
	IsFeatured  bool      `gorm:"column:is_featured;not null;default:false;index" json:"is_featured"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	Technologies []*Technology `gorm:"many2many:project_technologies" json:"technologies,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "projects" }
