package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatSession struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerUserID uuid.UUID `json:"owner_user_id" gorm:"type:uuid;index;not null"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid"`
	Scope       string    `json:"scope" gorm:"not null;default:'personal'"`
	Status      string    `json:"status" gorm:"not null;default:'open'"` // open, closed
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID   uuid.UUID      `json:"session_id" gorm:"type:uuid;index;not null"`
	SenderType  string         `json:"sender_type" gorm:"not null"` // user, agent
	SenderID    *uuid.UUID     `json:"sender_id" gorm:"type:uuid"`
	Content     datatypes.JSON `json:"content"`
	Intent      string         `json:"intent"`
	ContextUsed datatypes.JSON `json:"context_used"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}
