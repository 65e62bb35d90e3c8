package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionnaireResponse is one answered question. A full submission is the set
// of rows sharing (user_id, questionnaire_id).
type QuestionnaireResponse struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	QuestionnaireID uuid.UUID `json:"questionnaire_id" gorm:"type:uuid;index;not null"`
	QuestionID      uuid.UUID `json:"question_id" gorm:"type:uuid;not null"`
	Response        string    `json:"response" gorm:"not null"`
	Score           *int      `json:"score"`
	CompletedAt     time.Time `json:"completed_at" gorm:"autoCreateTime"`

	Questionnaire *Questionnaire `json:"questionnaire,omitempty" gorm:"foreignKey:QuestionnaireID"`
	Question      *Question      `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (r *QuestionnaireResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
