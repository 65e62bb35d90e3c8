package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryLeadership  = "leadership"
	CategoryWellness    = "wellness"
	CategoryDevelopment = "development"
	CategoryPerformance = "performance"
	CategoryCareer      = "career"

	PlanStatusDraft      = "rascunho"
	PlanStatusInProgress = "em_andamento"
	PlanStatusPaused     = "pausado"
	PlanStatusDone       = "concluido"
	PlanStatusCanceled   = "cancelado"

	PriorityLow    = "baixa"
	PriorityMedium = "media"
	PriorityHigh   = "alta"
)

var ValidCategories = []string{
	CategoryWellness,
	CategoryLeadership,
	CategoryDevelopment,
	CategoryPerformance,
	CategoryCareer,
}

var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type ActionPlan struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	DiagnosticID *uuid.UUID `json:"diagnostic_id" gorm:"type:uuid;index"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Category     string     `json:"category" gorm:"not null;default:'wellness'"`
	Status       string     `json:"status" gorm:"not null;default:'rascunho'"`
	Priority     string     `json:"priority" gorm:"not null;default:'media'"`
	Progress     int        `json:"progress" gorm:"default:0"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Goals      []Goal      `json:"goals" gorm:"foreignKey:ActionPlanID;constraint:OnDelete:CASCADE"`
	Diagnostic *Diagnostic `json:"diagnostic,omitempty" gorm:"foreignKey:DiagnosticID"`
	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (p *ActionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Action plan DTOs
type GoalInput struct {
	ID          *uuid.UUID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Progress    int        `json:"progress"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

type CreateActionPlanRequest struct {
	Title        string      `json:"title" validate:"required"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Status       string      `json:"status"`
	Priority     string      `json:"priority"`
	Progress     int         `json:"progress"`
	StartDate    *time.Time  `json:"start_date"`
	DueDate      *time.Time  `json:"due_date"`
	DiagnosticID *uuid.UUID  `json:"diagnostic_id"`
	Goals        []GoalInput `json:"goals"`
}

type UpdateActionPlanRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	Progress    *int         `json:"progress"`
	StartDate   *time.Time   `json:"start_date"`
	DueDate     *time.Time   `json:"due_date"`
	Goals       *[]GoalInput `json:"goals"`
}

type PlanFilters struct {
	Status   []string
	Category []string
	Priority []string
}
