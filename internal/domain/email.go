package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailNotFound    = errors.New("email not found")
	ErrTokenInvalid     = errors.New("verification token invalid or expired")
	ErrEmailNotVerified = errors.New("email not verified")
)

// Email is a viewer address collected for email-gated courses.
// Verification tokens live in redis, not here.
type Email struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Address  string    `gorm:"uniqueIndex;not null"`
	Verified bool      `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Email) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
