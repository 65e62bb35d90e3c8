package services

import (
	"errors"

	"github.com/workchoque/workchoque-api/internal/ai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicateResponse = errors.New("questionnaire already answered")
	ErrInactive          = errors.New("questionnaire inactive")
	ErrValidation        = errors.New("validation failed")
)

// Global service instances, set up once at boot.
var (
	Questionnaires *QuestionnaireService
	ActionPlans    *ActionPlanService
	Notifications  *NotificationService
	Agent          *AgentService
)

func Init(db *gorm.DB, client *ai.Client, log *zap.Logger) {
	ActionPlans = NewActionPlanService(db, client, log)
	Questionnaires = NewQuestionnaireService(db, client, ActionPlans, log)
	Notifications = NewNotificationService(db)
	Agent = NewAgentService(db, client, log)
}
