package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification rows are the delivery mechanism: targeted to a user, a role, or
// everyone. There is no push/email fan-out.
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID     `json:"user_id" gorm:"type:uuid;index"`
	Role      *string        `json:"role" gorm:"index"`
	CreatedBy *uuid.UUID     `json:"created_by" gorm:"type:uuid"`
	Title     string         `json:"title" gorm:"not null"`
	Message   string         `json:"message" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null;default:'info'"`       // info, warning, error, success, security
	Priority  string         `json:"priority" gorm:"not null;default:'medium'"` // low, medium, high, urgent
	IsGlobal  bool           `json:"is_global" gorm:"default:false"`
	IsRead    bool           `json:"is_read" gorm:"default:false"`
	ActionURL string         `json:"action_url"`
	Metadata  datatypes.JSON `json:"metadata"`
	ExpiresAt *time.Time     `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type CreateNotificationRequest struct {
	UserID    *uuid.UUID     `json:"user_id"`
	Role      *string        `json:"role"`
	Title     string         `json:"title" validate:"required"`
	Message   string         `json:"message" validate:"required"`
	Type      string         `json:"type"`
	Priority  string         `json:"priority"`
	IsGlobal  bool           `json:"is_global"`
	ActionURL string         `json:"action_url"`
	Metadata  datatypes.JSON `json:"metadata"`
	ExpiresAt *time.Time     `json:"expires_at"`
}
