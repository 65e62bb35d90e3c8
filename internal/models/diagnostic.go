package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DiagnosticProcessing = "processing"
	DiagnosticCompleted  = "completed"
	DiagnosticFailed     = "failed" // declared for schema parity; no pipeline path sets it
)

// AnalysisData is the free-form payload stored alongside the AI fields. The
// basic score survives here even when the AI result overwrites score_intelligent.
type AnalysisData struct {
	BasicScore        int    `json:"basic_score"`
	Category          string `json:"category"`
	TotalQuestions    int    `json:"totalQuestions"`
	AnsweredQuestions int    `json:"answeredQuestions"`
	AIAnalysis        string `json:"ai_analysis,omitempty"`
	Error             string `json:"error,omitempty"`
}

type Diagnostic struct {
	ID               uuid.UUID                            `json:"id" gorm:"type:uuid;primaryKey"`
	QuestionnaireID  uuid.UUID                            `json:"questionnaire_id" gorm:"type:uuid;index;not null"`
	UserID           uuid.UUID                            `json:"user_id" gorm:"type:uuid;index;not null"`
	Status           string                               `json:"status" gorm:"not null;default:'processing'"` // processing, completed, failed
	ScoreIntelligent int                                  `json:"score_intelligent"`
	Insights         datatypes.JSONSlice[string]          `json:"insights"`
	Recommendations  datatypes.JSONSlice[string]          `json:"recommendations"`
	AreasFocus       datatypes.JSONSlice[string]          `json:"areas_focus"`
	AnalysisData     datatypes.JSONType[AnalysisData]     `json:"analysis_data"`
	GeneratedAt      time.Time                            `json:"generated_at" gorm:"autoCreateTime"`
	CompletedAt      *time.Time                           `json:"completed_at"`

	Questionnaire *Questionnaire `json:"questionnaire,omitempty" gorm:"foreignKey:QuestionnaireID"`
	User          *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (d *Diagnostic) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
