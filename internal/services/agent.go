package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analyzer is the raw text gateway the agent talks through.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// AgentService backs the wellbeing chat agent: one open session per user,
// context-aware prompts built from the latest diagnostic and action plan.
type AgentService struct {
	db  *gorm.DB
	ai  Analyzer
	log *zap.Logger
}

func NewAgentService(db *gorm.DB, analyzer Analyzer, log *zap.Logger) *AgentService {
	return &AgentService{db: db, ai: analyzer, log: log}
}

type AgentAction struct {
	Label  string `json:"label"`
	Route  string `json:"route"`
	Intent string `json:"intent"`
}

type AgentResponse struct {
	DirectAnswer       string        `json:"direct_answer"`
	SimpleExplanation  string        `json:"simple_explanation"`
	PlanConnection     string        `json:"plan_connection,omitempty"`
	RecommendedActions []AgentAction `json:"recommended_actions"`
	Motivation         string        `json:"motivation"`
	FollowUpQuestion   string        `json:"follow_up_question"`
	ContextUsed        []string      `json:"context_used"`
}

type agentContext struct {
	Diagnostic *models.Diagnostic `json:"diagnostic,omitempty"`
	ActionPlan *models.ActionPlan `json:"actionPlan,omitempty"`
}

// EnsureSession returns the user's open session, creating one if absent.
func (s *AgentService) EnsureSession(userID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.Where("owner_user_id = ? AND status = ?", userID, "open").First(&session).Error
	if err == nil {
		return &session, nil
	}

	session = models.ChatSession{
		OwnerUserID: userID,
		CreatedBy:   userID,
		Scope:       "personal",
		Status:      "open",
		Title:       "Sessão do Agente",
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *AgentService) Chat(ctx context.Context, userID uuid.UUID, message string) (*AgentResponse, error) {
	session, err := s.EnsureSession(userID)
	if err != nil {
		return nil, err
	}

	userContent, _ := json.Marshal(map[string]string{"text": message})
	userMsg := models.ChatMessage{
		SessionID:  session.ID,
		SenderType: "user",
		SenderID:   &userID,
		Content:    datatypes.JSON(userContent),
	}
	if err := s.db.Create(&userMsg).Error; err != nil {
		return nil, err
	}

	agentCtx := s.loadContext(userID)
	prompt := buildAgentPrompt(agentCtx, message)

	var response AgentResponse
	text, err := s.ai.Analyze(ctx, prompt)
	if err != nil {
		s.log.Warn("agent: gateway failed, using fallback reply", zap.Error(err))
		response = fallbackAgentResponse("OK")
	} else {
		response = parseAgentResponse(text)
	}

	agentContent, _ := json.Marshal(response)
	contextUsed, _ := json.Marshal(response.ContextUsed)
	intent := ""
	if len(response.RecommendedActions) > 0 {
		intent = response.RecommendedActions[0].Intent
	}
	agentMsg := models.ChatMessage{
		SessionID:   session.ID,
		SenderType:  "agent",
		Content:     datatypes.JSON(agentContent),
		Intent:      intent,
		ContextUsed: datatypes.JSON(contextUsed),
	}
	if err := s.db.Create(&agentMsg).Error; err != nil {
		return nil, err
	}

	return &response, nil
}

func (s *AgentService) loadContext(userID uuid.UUID) agentContext {
	var agentCtx agentContext

	var diagnostic models.Diagnostic
	err := s.db.Where("user_id = ? AND status = ?", userID, models.DiagnosticCompleted).
		Order("generated_at DESC").First(&diagnostic).Error
	if err == nil {
		agentCtx.Diagnostic = &diagnostic
	}

	var plan models.ActionPlan
	err = s.db.Preload("Goals").Where("user_id = ?", userID).
		Order("created_at DESC").First(&plan).Error
	if err == nil {
		agentCtx.ActionPlan = &plan
	}

	return agentCtx
}

func buildAgentPrompt(agentCtx agentContext, userMessage string) string {
	contextJSON, _ := json.Marshal(agentCtx)
	return strings.TrimSpace(fmt.Sprintf(`
Você é o Agente WorkChoque. Siga regras: mentor experiente, linguagem simples, empático, orientado para ação; nunca invente dados; sempre inclua próximos passos com rotas; saída JSON com: direct_answer, simple_explanation, plan_connection, recommended_actions, motivation, follow_up_question, context_used.

CONTEXT:
%s

USER_MESSAGE:
%s

OUTPUT_SCHEMA:
{
  "direct_answer": "...",
  "simple_explanation": "...",
  "plan_connection": "...",
  "recommended_actions": [
    { "label": "Continuar Plano", "route": "/planos-acao", "intent": "continue_plan" }
  ],
  "motivation": "...",
  "follow_up_question": "...",
  "context_used": ["diagnostic","actionPlan"]
}`, contextJSON, userMessage))
}

func parseAgentResponse(text string) AgentResponse {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var response AgentResponse
		if err := json.Unmarshal([]byte(text[start:end+1]), &response); err == nil {
			return response
		}
	}
	return fallbackAgentResponse(text)
}

func fallbackAgentResponse(text string) AgentResponse {
	return AgentResponse{
		DirectAnswer:       text,
		SimpleExplanation:  "Sugestões geradas com base nos seus dados atuais.",
		RecommendedActions: []AgentAction{},
		Motivation:         "Vamos avançar passo a passo.",
		FollowUpQuestion:   "Deseja focar em metas ou conteúdos agora?",
		ContextUsed:        []string{},
	}
}
