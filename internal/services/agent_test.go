package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workchoque/workchoque-api/internal/models"
	"go.uber.org/zap"
)

type fakeAnalyzer struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func TestChatParsesStructuredReply(t *testing.T) {
	analyzer := &fakeAnalyzer{text: `Claro!
{
  "direct_answer": "Seu plano está em 40%.",
  "simple_explanation": "Duas metas concluídas de cinco.",
  "recommended_actions": [{"label": "Continuar Plano", "route": "/planos-acao", "intent": "continue_plan"}],
  "motivation": "Bom ritmo!",
  "follow_up_question": "Quer revisar a próxima meta?",
  "context_used": ["actionPlan"]
}`}
	db := newTestDB(t)
	svc := NewAgentService(db, analyzer, zap.NewNop())
	userID := uuid.New()

	response, err := svc.Chat(context.Background(), userID, "Como está meu plano?")
	require.NoError(t, err)
	assert.Equal(t, "Seu plano está em 40%.", response.DirectAnswer)
	require.Len(t, response.RecommendedActions, 1)
	assert.Equal(t, "continue_plan", response.RecommendedActions[0].Intent)

	var messages []models.ChatMessage
	require.NoError(t, db.Order("created_at").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].SenderType)
	assert.Equal(t, "agent", messages[1].SenderType)
	assert.Equal(t, "continue_plan", messages[1].Intent)
}

func TestChatReusesOpenSession(t *testing.T) {
	analyzer := &fakeAnalyzer{text: `{"direct_answer": "oi"}`}
	db := newTestDB(t)
	svc := NewAgentService(db, analyzer, zap.NewNop())
	userID := uuid.New()

	_, err := svc.Chat(context.Background(), userID, "primeira")
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), userID, "segunda")
	require.NoError(t, err)

	var sessions int64
	db.Model(&models.ChatSession{}).Where("owner_user_id = ?", userID).Count(&sessions)
	assert.EqualValues(t, 1, sessions)
}

func TestChatFallsBackWhenGatewayFails(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("all models failed")}
	db := newTestDB(t)
	svc := NewAgentService(db, analyzer, zap.NewNop())

	response, err := svc.Chat(context.Background(), uuid.New(), "olá")
	require.NoError(t, err)
	assert.NotEmpty(t, response.Motivation)
	assert.Empty(t, response.RecommendedActions)
}

func TestChatFallsBackOnUnparseableReply(t *testing.T) {
	analyzer := &fakeAnalyzer{text: "resposta solta sem estrutura"}
	db := newTestDB(t)
	svc := NewAgentService(db, analyzer, zap.NewNop())

	response, err := svc.Chat(context.Background(), uuid.New(), "olá")
	require.NoError(t, err)
	assert.Equal(t, "resposta solta sem estrutura", response.DirectAnswer)
}

func TestChatPromptCarriesDiagnosticContext(t *testing.T) {
	analyzer := &fakeAnalyzer{text: `{"direct_answer": "ok"}`}
	db := newTestDB(t)
	svc := NewAgentService(db, analyzer, zap.NewNop())
	userID := uuid.New()
	createCompletedDiagnostic(t, db, userID)

	_, err := svc.Chat(context.Background(), userID, "como estou?")
	require.NoError(t, err)
	require.Len(t, analyzer.prompts, 1)
	assert.Contains(t, analyzer.prompts[0], "diagnostic")
	assert.Contains(t, analyzer.prompts[0], "como estou?")
}
