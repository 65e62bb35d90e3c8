package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeScale          = "scale"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
	QuestionTypeYesNo          = "yes_no"
)

type Questionnaire struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Type        string     `json:"type" gorm:"not null;default:'geral'"`
	IsActive    bool       `json:"is_active" gorm:"default:false"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionnaireID;constraint:OnDelete:CASCADE"`

	// Populated on read, not a column.
	ResponseCount int64 `json:"responseCount" gorm:"-"`
}

func (q *Questionnaire) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	QuestionnaireID uuid.UUID        `json:"questionnaire_id" gorm:"type:uuid;index;not null"`
	Question        string           `json:"question" gorm:"not null"`
	Type            string           `json:"type" gorm:"not null"` // scale, multiple_choice, text, yes_no
	Order           int              `json:"order" gorm:"not null;default:0"`
	Required        bool             `json:"required" gorm:"default:true"`
	IsActive        bool             `json:"is_active" gorm:"default:true"`
	Options         []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuestionOption struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:uuid;index;not null"`
	Value      string    `json:"value" gorm:"not null"`
	Label      string    `json:"label" gorm:"not null"`
	Score      int       `json:"score" gorm:"default:1"`
	Order      int       `json:"order" gorm:"not null;default:0"`
}

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Questionnaire DTOs
type OptionInput struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Score *int   `json:"score"`
	Order int    `json:"order"`
}

type QuestionInput struct {
	Question string        `json:"question"`
	Type     string        `json:"type"`
	Order    int           `json:"order"`
	Required *bool         `json:"required"`
	IsActive *bool         `json:"is_active"`
	Options  []OptionInput `json:"options"`
}

type CreateQuestionnaireRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	IsActive    bool            `json:"is_active"`
	Questions   []QuestionInput `json:"questions"`
}

type UpdateQuestionnaireRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Type        *string          `json:"type"`
	IsActive    *bool            `json:"is_active"`
	Questions   *[]QuestionInput `json:"questions"`
}

// RespondRequest maps question id to the submitted answer.
type RespondRequest struct {
	Responses map[string]string `json:"responses" validate:"required"`
}
