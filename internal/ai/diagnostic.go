package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/workchoque/workchoque-api/internal/models"
)

// DiagnosticResult is the structured outcome of an AI diagnostic analysis.
type DiagnosticResult struct {
	Insights         []string `json:"insights"`
	Recommendations  []string `json:"recommendations"`
	AreasFocus       []string `json:"areas_focus"`
	ScoreIntelligent int      `json:"score_intelligent"`
	AnalysisSummary  string   `json:"analysis_summary"`
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// GenerateDiagnostic builds the analysis prompt, calls the gateway and parses
// the answer. Parsing never fails: malformed output degrades field by field
// down to a sentinel result. The only error returned is a gateway failure.
func (c *Client) GenerateDiagnostic(ctx context.Context, questionnaire *models.Questionnaire, responses []models.QuestionnaireResponse) (DiagnosticResult, error) {
	prompt := buildDiagnosticPrompt(questionnaire, responses)
	text, err := c.Analyze(ctx, prompt)
	if err != nil {
		return DiagnosticResult{}, err
	}
	return ParseDiagnosticResponse(text), nil
}

func buildDiagnosticPrompt(questionnaire *models.Questionnaire, responses []models.QuestionnaireResponse) string {
	questionnaireType := strings.ToLower(questionnaire.Type)
	if questionnaireType == "" {
		questionnaireType = "geral"
	}
	description := questionnaire.Description
	if description == "" {
		description = "Não informada"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Você é um consultor empresarial especializado em diagnóstico organizacional.
Analise as respostas do questionário "%s" e forneça um diagnóstico empresarial focado nas 8 áreas essenciais de negócio.

QUESTIONÁRIO:
Título: %s
Tipo: %s
Descrição: %s

RESPOSTAS DO USUÁRIO:
`, questionnaire.Title, questionnaire.Title, questionnaireType, description)

	for i, response := range responses {
		questionText := "Pergunta não encontrada"
		questionType := "unknown"
		for _, q := range questionnaire.Questions {
			if q.ID == response.QuestionID {
				questionText = q.Question
				questionType = q.Type
				break
			}
		}
		score := "N/A"
		if response.Score != nil {
			score = fmt.Sprintf("%d", *response.Score)
		}
		fmt.Fprintf(&b, `
%d. Pergunta: %s
   Resposta: %s
   Tipo: %s
   Score: %s`, i+1, questionText, response.Response, questionType, score)
	}

	b.WriteString(businessAreasPrompt)
	b.WriteString(`

FORMATO DE RESPOSTA OBRIGATÓRIO:
Responda EXATAMENTE no seguinte formato JSON:
{
  "insights": ["insight 1", "insight 2", "insight 3"],
  "recommendations": ["recomendação 1", "recomendação 2", "recomendação 3"],
  "areas_focus": ["área 1", "área 2", "área 3"],
  "score_intelligent": 75,
  "analysis_summary": "Resumo detalhado da análise em 2-3 parágrafos"
}

IMPORTANTE:
- O score_intelligent deve ser um número de 0 a 100 baseado no impacto empresarial geral
- Forneça insights específicos para as áreas empresariais identificadas
- As recomendações devem ser ações concretas que a empresa pode implementar
- As áreas de foco devem ser das 8 áreas essenciais empresariais (ex: "RH & Pessoas", "Financeiro & Contábil")
- Priorize insights que impactem diretamente nos resultados do negócio`)

	return b.String()
}

const businessAreasPrompt = `

ANALISE O IMPACTO DAS RESPOSTAS NAS 8 ÁREAS ESSENCIAIS EMPRESARIAIS:

1. FINANCEIRO & CONTÁBIL
   - Gestão de caixa, contas a pagar/receber, orçamento, custos, impostos

2. RECURSOS HUMANOS (RH) & PESSOAS
   - Recrutamento, retenção, clima organizacional, treinamento, cultura

3. MARKETING & COMUNICAÇÃO
   - Posicionamento de marca, publicidade, redes sociais, relacionamento com clientes

4. COMERCIAL & VENDAS
   - Estratégias de prospecção, funil de vendas, CRM, atendimento ao cliente

5. OPERAÇÕES & PRODUÇÃO
   - Processos internos, logística, estoque, qualidade

6. TECNOLOGIA DA INFORMAÇÃO (TI) & INOVAÇÃO
   - Infraestrutura digital, sistemas de gestão, segurança da informação

7. JURÍDICO & COMPLIANCE
   - Contratos, legislação trabalhista, LGPD, ética nos negócios

8. ESTRATÉGIA & GESTÃO
   - Planejamento estratégico, governança, métricas (KPIs), tomada de decisão

INSTRUÇÕES ESPECÍFICAS:
- Identifique quais dessas 8 áreas são mais impactadas pelas respostas
- Forneça insights específicos para cada área relevante
- Sugira ações concretas que a empresa pode tomar
- Priorize as áreas que precisam de atenção imediata`

// ParseDiagnosticResponse extracts the first JSON block from the model output
// and coerces each field independently. Anything missing or mistyped falls
// back to its default; a completely unparseable answer yields the sentinel
// result with the raw text as summary.
func ParseDiagnosticResponse(text string) DiagnosticResult {
	if block := jsonBlockRe.FindString(text); block != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(block), &fields); err == nil {
			result := DiagnosticResult{
				Insights:         stringSliceField(fields, "insights"),
				Recommendations:  stringSliceField(fields, "recommendations"),
				AreasFocus:       stringSliceField(fields, "areas_focus"),
				ScoreIntelligent: 50,
				AnalysisSummary:  text,
			}
			if raw, ok := fields["score_intelligent"]; ok {
				var score float64
				if json.Unmarshal(raw, &score) == nil {
					result.ScoreIntelligent = int(score)
				}
			}
			if raw, ok := fields["analysis_summary"]; ok {
				var summary string
				if json.Unmarshal(raw, &summary) == nil {
					result.AnalysisSummary = summary
				}
			}
			return result
		}
	}

	return DiagnosticResult{
		Insights:         []string{"Análise gerada pela IA"},
		Recommendations:  []string{"Consulte um especialista para recomendações específicas"},
		AreasFocus:       []string{"Áreas identificadas na análise"},
		ScoreIntelligent: 50,
		AnalysisSummary:  text,
	}
}

func stringSliceField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return []string{}
	}
	return values
}
