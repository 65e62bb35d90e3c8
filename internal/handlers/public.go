package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/database"
	"github.com/workchoque/workchoque-api/internal/models"
	"github.com/workchoque/workchoque-api/internal/services"
	"gorm.io/gorm"
)

// GetActiveQuestionnaire is the unauthenticated landing-page lookup. Returns
// null instead of 404 when no questionnaire is active.
func GetActiveQuestionnaire(c *fiber.Ctx) error {
	var questionnaire models.Questionnaire
	err := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order(`"order" ASC`) }).
		Preload("Questions.Options").
		Where("is_active = ?", true).
		First(&questionnaire).Error
	if err != nil {
		return c.JSON(nil)
	}
	return c.JSON(questionnaire)
}

// RespondPublic scores visitor answers without persisting anything. Uses the
// max-possible-score formula, which differs from the authenticated pipeline's
// /5 formula on purpose.
func RespondPublic(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	var req models.RespondRequest
	if err := c.BodyParser(&req); err != nil || len(req.Responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var questionnaire models.Questionnaire
	err = database.DB.Preload("Questions.Options").First(&questionnaire, "id = ?", id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Questionnaire not found",
		})
	}
	if !questionnaire.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Questionnaire is not active",
		})
	}

	score := publicBasicScore(req.Responses, questionnaire.Questions)
	category := services.ScoreCategory(score)
	now := time.Now()

	return c.JSON(fiber.Map{
		"message":  "Diagnóstico calculado com sucesso",
		"score":    score,
		"category": category,
		"questionnaire": fiber.Map{
			"id":    questionnaire.ID,
			"title": questionnaire.Title,
			"type":  questionnaire.Type,
		},
		"responses":   len(req.Responses),
		"completedAt": now,
		"tempData": fiber.Map{
			"questionnaire_id": id,
			"answers":          req.Responses,
			"score":            score,
			"category":         category,
			"completedAt":      now.Format(time.RFC3339),
		},
	})
}

func publicBasicScore(responses map[string]string, questions []models.Question) int {
	totalScore := 0
	maxPossibleScore := 0

	for _, question := range questions {
		answer, ok := responses[question.ID.String()]
		if !ok {
			continue
		}

		switch question.Type {
		case models.QuestionTypeScale:
			// 0-10 scales use the value directly
			if value, err := strconv.Atoi(answer); err == nil {
				totalScore += value
			}
			maxPossibleScore += 10
		case models.QuestionTypeMultipleChoice:
			if len(question.Options) == 0 {
				continue
			}
			maxOption := 0
			for _, opt := range question.Options {
				if opt.Score > maxOption {
					maxOption = opt.Score
				}
				if opt.Value == answer {
					totalScore += opt.Score
				}
			}
			maxPossibleScore += maxOption
		default:
			if value, err := strconv.Atoi(answer); err == nil {
				totalScore += value
			} else {
				totalScore += 3
			}
			maxPossibleScore += 10
		}
	}

	if maxPossibleScore == 0 {
		return 0
	}
	return int(math.Round(float64(totalScore*100) / float64(maxPossibleScore)))
}
