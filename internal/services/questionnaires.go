package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/ai"
	"github.com/workchoque/workchoque-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiagnosticGenerator is the AI dependency of the submission pipeline.
type DiagnosticGenerator interface {
	GenerateDiagnostic(ctx context.Context, questionnaire *models.Questionnaire, responses []models.QuestionnaireResponse) (ai.DiagnosticResult, error)
}

// QuestionnaireService runs the submission pipeline: persist answers, compute
// the basic score, drive the diagnostic through processing→completed and
// trigger plan generation.
type QuestionnaireService struct {
	db    *gorm.DB
	ai    DiagnosticGenerator
	plans *ActionPlanService
	log   *zap.Logger
}

func NewQuestionnaireService(db *gorm.DB, generator DiagnosticGenerator, plans *ActionPlanService, log *zap.Logger) *QuestionnaireService {
	return &QuestionnaireService{db: db, ai: generator, plans: plans, log: log}
}

type DiagnosticSummary struct {
	ID              uuid.UUID `json:"id"`
	Score           int       `json:"score"`
	Category        string    `json:"category"`
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	AreasFocus      []string  `json:"areas_focus"`
}

type RespondResult struct {
	Message     string            `json:"message"`
	Diagnostic  DiagnosticSummary `json:"diagnostic"`
	Responses   int               `json:"responses"`
	CompletedAt time.Time         `json:"completedAt"`
}

// Respond handles the authenticated submission entry point. A prior response
// for this (user, questionnaire) pair is a hard error.
func (s *QuestionnaireService) Respond(ctx context.Context, questionnaireID, userID uuid.UUID, req models.RespondRequest) (*RespondResult, error) {
	questionnaire, err := s.activeQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.QuestionnaireResponse{}).
		Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("%w: each user may answer only once", ErrDuplicateResponse)
	}

	return s.process(ctx, questionnaire, userID, req)
}

// TransferFromPublic claims anonymous pre-signup answers for a fresh account.
// It never rejects on duplication: prior responses and diagnostics for the
// pair are purged first.
func (s *QuestionnaireService) TransferFromPublic(ctx context.Context, questionnaireID, userID uuid.UUID, req models.RespondRequest) (*RespondResult, error) {
	questionnaire, err := s.activeQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Delete(&models.QuestionnaireResponse{}).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Delete(&models.Diagnostic{}).Error; err != nil {
		return nil, err
	}

	return s.process(ctx, questionnaire, userID, req)
}

func (s *QuestionnaireService) activeQuestionnaire(id uuid.UUID) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := s.db.Preload("Questions.Options").
		Where("id = ? AND is_active = ?", id, true).
		First(&questionnaire).Error
	if err != nil {
		return nil, fmt.Errorf("%w: questionnaire not found or inactive", ErrNotFound)
	}
	return &questionnaire, nil
}

func (s *QuestionnaireService) process(ctx context.Context, questionnaire *models.Questionnaire, userID uuid.UUID, req models.RespondRequest) (*RespondResult, error) {
	responses := make([]models.QuestionnaireResponse, 0, len(req.Responses))
	totalScale := 0

	for questionIDStr, answer := range req.Responses {
		questionID, err := uuid.Parse(questionIDStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid question id %q", ErrValidation, questionIDStr)
		}

		var question *models.Question
		for i := range questionnaire.Questions {
			if questionnaire.Questions[i].ID == questionID {
				question = &questionnaire.Questions[i]
				break
			}
		}
		if question == nil {
			return nil, fmt.Errorf("%w: question %s not in questionnaire", ErrNotFound, questionIDStr)
		}

		response := models.QuestionnaireResponse{
			UserID:          userID,
			QuestionnaireID: questionnaire.ID,
			QuestionID:      questionID,
			Response:        answer,
		}
		if question.Type == models.QuestionTypeScale {
			if score, ok := numericAnswer(answer); ok {
				response.Score = &score
				totalScale += score
			}
		}

		if err := s.db.Create(&response).Error; err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	// Basic score assumes a 0-5 scale and is deliberately unclamped.
	answered := len(responses)
	basicScore := 0
	if answered > 0 {
		basicScore = int(math.Round(float64(totalScale*100) / float64(answered*5)))
	}
	category := ScoreCategory(basicScore)

	analysis := models.AnalysisData{
		BasicScore:        basicScore,
		Category:          category,
		TotalQuestions:    answered,
		AnsweredQuestions: answered,
	}

	diagnostic := &models.Diagnostic{
		QuestionnaireID:  questionnaire.ID,
		UserID:           userID,
		Status:           models.DiagnosticProcessing,
		ScoreIntelligent: basicScore,
		Insights:         datatypes.NewJSONSlice([]string{"Analisando respostas..."}),
		Recommendations:  datatypes.NewJSONSlice([]string{"Gerando recomendações..."}),
		AreasFocus:       datatypes.NewJSONSlice([]string{"Processando..."}),
		AnalysisData:     datatypes.NewJSONType(analysis),
	}
	createErr := s.db.Create(diagnostic).Error

	var aiResult ai.DiagnosticResult
	aiErr := createErr
	if createErr == nil {
		aiResult, aiErr = s.ai.GenerateDiagnostic(ctx, questionnaire, responses)
	}

	var result *RespondResult
	if aiErr == nil {
		now := time.Now()
		analysis.AIAnalysis = aiResult.AnalysisSummary
		err := s.db.Model(diagnostic).Updates(map[string]interface{}{
			"status":            models.DiagnosticCompleted,
			"score_intelligent": aiResult.ScoreIntelligent,
			"insights":          datatypes.NewJSONSlice(aiResult.Insights),
			"recommendations":   datatypes.NewJSONSlice(aiResult.Recommendations),
			"areas_focus":       datatypes.NewJSONSlice(aiResult.AreasFocus),
			"analysis_data":     datatypes.NewJSONType(analysis),
			"completed_at":      &now,
		}).Error
		if err != nil {
			aiErr = err
		} else {
			result = &RespondResult{
				Message: "Diagnóstico processado com sucesso",
				Diagnostic: DiagnosticSummary{
					ID:              diagnostic.ID,
					Score:           aiResult.ScoreIntelligent,
					Category:        ScoreCategory(aiResult.ScoreIntelligent),
					Insights:        aiResult.Insights,
					Recommendations: aiResult.Recommendations,
					AreasFocus:      aiResult.AreasFocus,
				},
				Responses:   answered,
				CompletedAt: now,
			}
		}
	}

	if result == nil {
		// AI unavailable (or the diagnostic row could not be written):
		// complete with the rule-based analysis instead. The pipeline never
		// surfaces a failed diagnostic.
		s.log.Error("ai diagnostic failed, using basic fallback", zap.Error(aiErr))
		fallback, err := s.completeWithFallback(diagnostic, createErr == nil, questionnaire.ID, userID, analysis, basicScore, category, answered)
		if err != nil {
			return nil, err
		}
		result = fallback
	}

	// Plan generation failures never roll back the completed diagnostic.
	if _, err := s.plans.GenerateFromDiagnostic(ctx, result.Diagnostic.ID, userID); err != nil {
		s.log.Error("automatic action plan generation failed",
			zap.String("diagnosticId", result.Diagnostic.ID.String()),
			zap.Error(err))
	}

	return result, nil
}

func (s *QuestionnaireService) completeWithFallback(diagnostic *models.Diagnostic, created bool, questionnaireID, userID uuid.UUID, analysis models.AnalysisData, basicScore int, category string, answered int) (*RespondResult, error) {
	recommendations, areas := BasicInsights(category)
	now := time.Now()
	analysis.Error = "IA indisponível, usando análise básica"

	updated := false
	if created {
		err := s.db.Model(diagnostic).Updates(map[string]interface{}{
			"status":            models.DiagnosticCompleted,
			"score_intelligent": basicScore,
			"insights":          datatypes.NewJSONSlice(recommendations),
			"recommendations":   datatypes.NewJSONSlice(recommendations),
			"areas_focus":       datatypes.NewJSONSlice(areas),
			"analysis_data":     datatypes.NewJSONType(analysis),
			"completed_at":      &now,
		}).Error
		updated = err == nil
	}

	if !updated {
		diagnostic = &models.Diagnostic{
			QuestionnaireID:  questionnaireID,
			UserID:           userID,
			Status:           models.DiagnosticCompleted,
			ScoreIntelligent: basicScore,
			Insights:         datatypes.NewJSONSlice(recommendations),
			Recommendations:  datatypes.NewJSONSlice(recommendations),
			AreasFocus:       datatypes.NewJSONSlice(areas),
			AnalysisData:     datatypes.NewJSONType(analysis),
			CompletedAt:      &now,
		}
		if err := s.db.Create(diagnostic).Error; err != nil {
			return nil, err
		}
	}

	return &RespondResult{
		Message: "Diagnóstico processado com análise básica",
		Diagnostic: DiagnosticSummary{
			ID:              diagnostic.ID,
			Score:           basicScore,
			Category:        category,
			Insights:        recommendations,
			Recommendations: recommendations,
			AreasFocus:      areas,
		},
		Responses:   answered,
		CompletedAt: now,
	}, nil
}

func numericAnswer(answer string) (int, bool) {
	var value float64
	if _, err := fmt.Sscanf(answer, "%g", &value); err != nil {
		return 0, false
	}
	return int(value), true
}

func ScoreCategory(score int) string {
	switch {
	case score >= 80:
		return "Excelente"
	case score >= 60:
		return "Bom"
	case score >= 40:
		return "Regular"
	default:
		return "Crítico"
	}
}

// BasicInsights is the rule-based stand-in used when the AI is unavailable.
func BasicInsights(category string) (recommendations, areas []string) {
	switch category {
	case "Excelente":
		return []string{
			"Continue mantendo os padrões atuais",
			"Compartilhe as melhores práticas com outras equipes",
			"Monitore regularmente para manter a excelência",
		}, []string{}
	case "Bom":
		return []string{
			"Identifique áreas específicas para melhorar",
			"Implemente feedback regular da equipe",
			"Foque em comunicação e reconhecimento",
		}, []string{"Comunicação", "Reconhecimento"}
	case "Regular":
		return []string{
			"Priorize melhorias na comunicação",
			"Implemente programa de reconhecimento",
			"Avalie políticas de trabalho",
		}, []string{"Comunicação", "Reconhecimento", "Ambiente de trabalho"}
	default:
		return []string{
			"Ação imediata necessária",
			"Revisão completa das políticas",
			"Suporte profissional recomendado",
		}, []string{"Todas as áreas avaliadas"}
	}
}
