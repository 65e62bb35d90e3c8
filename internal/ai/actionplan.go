package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlanInput is the diagnostic summary the plan prompt is built from.
type PlanInput struct {
	DiagnosticID   uuid.UUID
	Title          string
	Description    string
	Insights       string
	Recommendation string
	AreasFocus     string
	Score          int
	GeneratedAt    string
	Status         string
	UserName       string
	UserEmail      string
}

type PlanTask struct {
	Description string
	Priority    string
	Area        string
	// DueInDays is nil when the model omitted it or answered with a
	// non-numeric value.
	DueInDays *int
}

type PlanResult struct {
	Title       string
	Description string
	Tasks       []PlanTask
}

// GenerateActionPlan asks the model for a structured remediation plan. Unlike
// the diagnostic path, a malformed answer is an error: the caller decides
// whether to swallow it.
func (c *Client) GenerateActionPlan(ctx context.Context, input PlanInput) (PlanResult, error) {
	text, err := c.Analyze(ctx, buildActionPlanPrompt(input))
	if err != nil {
		return PlanResult{}, err
	}
	return ParseActionPlanResponse(text)
}

func buildActionPlanPrompt(input PlanInput) string {
	return fmt.Sprintf(`Você é um consultor empresarial especializado em desenvolvimento organizacional.
Com base no diagnóstico abaixo, crie um Plano de Ação detalhado com tarefas específicas, prazos e prioridades.

DIAGNÓSTICO:
Título: %s
Descrição: %s
Status: %s
Data de geração: %s
Pontuação: %d
Insights:
%s
Recomendações:
%s
Áreas de foco: %s
Usuário: %s <%s>

INSTRUÇÕES:
1. Analise as áreas de melhoria identificadas no diagnóstico
2. Crie um plano de ação prático e realista
3. Inclua prazos realistas (em dias a partir de hoje)
4. Defina prioridades claras (alta, média, baixa)
5. Agrupe as tarefas por área de negócio
6. Inclua métricas de sucesso para cada tarefa

FORMATO DA RESPOSTA (em JSON):
{
  "titulo": "Título do Plano de Ação",
  "descricao": "Descrição geral do plano com objetivos claros",
  "status": "pendente",
  "progresso": 0,
  "tarefas": [
    {
      "descricao": "Descrição detalhada da tarefa",
      "prioridade": "alta|media|baixa",
      "area": "wellness|leadership|development|performance|career",
      "prazoDias": 30
    }
  ]
}`,
		input.Title, input.Description, input.Status, input.GeneratedAt,
		input.Score, input.Insights, input.Recommendation, input.AreasFocus,
		input.UserName, input.UserEmail)
}

// ParseActionPlanResponse parses the substring between the first '{' and last
// '}'. Missing title, description or task array is a hard error; per-task
// fields are coerced leniently.
func ParseActionPlanResponse(text string) (PlanResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return PlanResult{}, fmt.Errorf("no JSON object in AI response")
	}

	var parsed struct {
		Titulo    string            `json:"titulo"`
		Descricao string            `json:"descricao"`
		Tarefas   []json.RawMessage `json:"tarefas"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return PlanResult{}, fmt.Errorf("parsing AI plan: %w", err)
	}
	if parsed.Titulo == "" || parsed.Descricao == "" || parsed.Tarefas == nil {
		return PlanResult{}, fmt.Errorf("AI plan missing required fields")
	}

	result := PlanResult{
		Title:       parsed.Titulo,
		Description: parsed.Descricao,
		Tasks:       make([]PlanTask, 0, len(parsed.Tarefas)),
	}
	for _, raw := range parsed.Tarefas {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		task := PlanTask{
			Description: stringField(fields, "descricao"),
			Priority:    stringField(fields, "prioridade"),
			Area:        stringField(fields, "area"),
		}
		if raw, ok := fields["prazoDias"]; ok {
			var days float64
			if json.Unmarshal(raw, &days) == nil {
				d := int(days)
				task.DueInDays = &d
			}
		}
		result.Tasks = append(result.Tasks, task)
	}
	return result, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
