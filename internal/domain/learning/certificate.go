package learning

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/domain/catalog"
	"github.com/codeforma/codeforma-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is the completion artifact for one enrollment, created at most
// once. The unique enrollment_id index is the idempotency guarantee of
// record; CertificateNumber is unique by construction (random token + year).
type Certificate struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_cert_user_formation,unique" json:"user_id"`
	User         *user.User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	FormationID  uuid.UUID          `gorm:"type:uuid;not null;index:idx_cert_user_formation,unique" json:"formation_id"`
	Formation    *catalog.Formation `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormationID;references:ID" json:"formation,omitempty"`
	EnrollmentID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"enrollment_id"`
	Enrollment   *UserEnrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`

	CertificateNumber string    `gorm:"column:certificate_number;uniqueIndex;not null" json:"certificate_number"`
	IssuedAt          time.Time `gorm:"column:issued_at;not null" json:"issued_at"`
	FinalScore        float64   `gorm:"column:final_score;not null;default:0" json:"final_score"`
	IsVerified        bool      `gorm:"column:is_verified;not null;default:false" json:"is_verified"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Certificate) TableName() string { return "certificates" }
