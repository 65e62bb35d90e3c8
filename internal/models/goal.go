package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GoalStatusPending    = "pendente"
	GoalStatusInProgress = "andamento"
	GoalStatusDone       = "concluida"
	GoalStatusCanceled   = "cancelada"
)

type Goal struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ActionPlanID uuid.UUID  `json:"action_plan_id" gorm:"type:uuid;index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Status       string     `json:"status" gorm:"not null;default:'pendente'"` // pendente, andamento, concluida, cancelada
	Priority     string     `json:"priority" gorm:"not null;default:'media'"`
	Progress     int        `json:"progress" gorm:"default:0"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
