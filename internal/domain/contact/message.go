package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null" json:"name"`
	Email   string    `gorm:"column:email;not null" json:"email"`
	Subject string    `gorm:"column:subject" json:"subject,omitempty"`
	Body    string    `gorm:"column:body;type:text;not null" json:"body"`

	IsRead    bool       `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	RepliedAt *time.Time `gorm:"column:replied_at" json:"replied_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Message) TableName() string { return "contact_messages" }
