package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiagnosticResponse(t *testing.T) {
	t.Run("well formed answer", func(t *testing.T) {
		text := `Segue a análise solicitada:
{
  "insights": ["clima em queda"],
  "recommendations": ["feedback quinzenal"],
  "areas_focus": ["RH & Pessoas"],
  "score_intelligent": 72,
  "analysis_summary": "Resumo da análise."
}`
		result := ParseDiagnosticResponse(text)
		assert.Equal(t, []string{"clima em queda"}, result.Insights)
		assert.Equal(t, []string{"feedback quinzenal"}, result.Recommendations)
		assert.Equal(t, []string{"RH & Pessoas"}, result.AreasFocus)
		assert.Equal(t, 72, result.ScoreIntelligent)
		assert.Equal(t, "Resumo da análise.", result.AnalysisSummary)
	})

	t.Run("fields degrade independently", func(t *testing.T) {
		text := `{"insights": "not an array", "score_intelligent": "not a number"}`
		result := ParseDiagnosticResponse(text)
		assert.Empty(t, result.Insights)
		assert.Empty(t, result.Recommendations)
		assert.Empty(t, result.AreasFocus)
		assert.Equal(t, 50, result.ScoreIntelligent)
		assert.Equal(t, text, result.AnalysisSummary)
	})

	t.Run("fractional score is truncated", func(t *testing.T) {
		result := ParseDiagnosticResponse(`{"score_intelligent": 72.9}`)
		assert.Equal(t, 72, result.ScoreIntelligent)
	})

	t.Run("no JSON at all yields sentinel result", func(t *testing.T) {
		text := "Desculpe, não consegui analisar."
		result := ParseDiagnosticResponse(text)
		assert.Equal(t, []string{"Análise gerada pela IA"}, result.Insights)
		assert.Equal(t, 50, result.ScoreIntelligent)
		assert.Equal(t, text, result.AnalysisSummary)
	})
}

func TestParseActionPlanResponse(t *testing.T) {
	t.Run("well formed plan", func(t *testing.T) {
		text := `Aqui está o plano:
{
  "titulo": "Plano de Clima",
  "descricao": "Melhorar o clima organizacional",
  "tarefas": [
    {"descricao": "Rodar pesquisa de pulso", "prioridade": "alta", "area": "wellness", "prazoDias": 30},
    {"descricao": "Treinar líderes", "prioridade": "media", "area": "leadership"}
  ]
}
Espero que ajude.`
		result, err := ParseActionPlanResponse(text)
		require.NoError(t, err)
		assert.Equal(t, "Plano de Clima", result.Title)
		require.Len(t, result.Tasks, 2)
		require.NotNil(t, result.Tasks[0].DueInDays)
		assert.Equal(t, 30, *result.Tasks[0].DueInDays)
		assert.Nil(t, result.Tasks[1].DueInDays)
		assert.Equal(t, "leadership", result.Tasks[1].Area)
	})

	t.Run("missing title is an error", func(t *testing.T) {
		_, err := ParseActionPlanResponse(`{"descricao": "x", "tarefas": []}`)
		assert.Error(t, err)
	})

	t.Run("missing task array is an error", func(t *testing.T) {
		_, err := ParseActionPlanResponse(`{"titulo": "x", "descricao": "y"}`)
		assert.Error(t, err)
	})

	t.Run("empty task array is valid", func(t *testing.T) {
		result, err := ParseActionPlanResponse(`{"titulo": "x", "descricao": "y", "tarefas": []}`)
		require.NoError(t, err)
		assert.Empty(t, result.Tasks)
	})

	t.Run("no JSON object is an error", func(t *testing.T) {
		_, err := ParseActionPlanResponse("sem plano")
		assert.Error(t, err)
	})

	t.Run("non numeric deadline is dropped", func(t *testing.T) {
		result, err := ParseActionPlanResponse(`{"titulo": "x", "descricao": "y", "tarefas": [{"descricao": "t", "prazoDias": "trinta"}]}`)
		require.NoError(t, err)
		require.Len(t, result.Tasks, 1)
		assert.Nil(t, result.Tasks[0].DueInDays)
	})
}
