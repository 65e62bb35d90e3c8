package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/database"
	"github.com/workchoque/workchoque-api/internal/middleware"
	"github.com/workchoque/workchoque-api/internal/models"
	"github.com/workchoque/workchoque-api/internal/services"
	"gorm.io/gorm"
)

func CreateQuestionnaire(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateQuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	questionnaire := models.Questionnaire{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		IsActive:    req.IsActive,
		CreatedBy:   userID,
	}
	if questionnaire.Type == "" {
		questionnaire.Type = "geral"
	}

	if err := database.DB.Create(&questionnaire).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create questionnaire",
		})
	}

	if err := createQuestions(questionnaire.ID, req.Questions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create questions",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(loadQuestionnaire(questionnaire.ID))
}

func createQuestions(questionnaireID uuid.UUID, inputs []models.QuestionInput) error {
	for _, input := range inputs {
		question := models.Question{
			QuestionnaireID: questionnaireID,
			Question:        input.Question,
			Type:            input.Type,
			Order:           input.Order,
			Required:        input.Required == nil || *input.Required,
			IsActive:        input.IsActive == nil || *input.IsActive,
		}
		if err := database.DB.Create(&question).Error; err != nil {
			return err
		}

		for _, opt := range input.Options {
			score := 1
			if opt.Score != nil {
				score = *opt.Score
			}
			option := models.QuestionOption{
				QuestionID: question.ID,
				Value:      opt.Value,
				Label:      opt.Label,
				Score:      score,
				Order:      opt.Order,
			}
			if err := database.DB.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func loadQuestionnaire(id uuid.UUID) *models.Questionnaire {
	var questionnaire models.Questionnaire
	err := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order(`"order" ASC`) }).
		Preload("Questions.Options").
		First(&questionnaire, "id = ?", id).Error
	if err != nil {
		return nil
	}
	database.DB.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ?", id).
		Count(&questionnaire.ResponseCount)
	return &questionnaire
}

func GetQuestionnaires(c *fiber.Ctx) error {
	role := middleware.GetUserRole(c)

	query := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order(`"order" ASC`) }).
		Preload("Questions.Options").
		Order("created_at DESC")
	// Only masters see inactive questionnaires
	if role != models.RoleMaster {
		query = query.Where("is_active = ?", true)
	}

	var questionnaires []models.Questionnaire
	if err := query.Find(&questionnaires).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load questionnaires",
		})
	}

	for i := range questionnaires {
		database.DB.Model(&models.QuestionnaireResponse{}).
			Where("questionnaire_id = ?", questionnaires[i].ID).
			Count(&questionnaires[i].ResponseCount)
	}

	return c.JSON(questionnaires)
}

func GetQuestionnaire(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	questionnaire := loadQuestionnaire(id)
	if questionnaire == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Questionnaire not found",
		})
	}
	return c.JSON(questionnaire)
}

func UpdateQuestionnaire(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	var questionnaire models.Questionnaire
	if err := database.DB.First(&questionnaire, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Questionnaire not found",
		})
	}

	// Master, or the admin that created it
	if role != models.RoleMaster && questionnaire.CreatedBy != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You cannot edit this questionnaire",
		})
	}

	var req models.UpdateQuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&questionnaire).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update questionnaire",
			})
		}
	}

	// Supplied questions replace the existing set wholesale.
	if req.Questions != nil {
		var questionIDs []uuid.UUID
		database.DB.Model(&models.Question{}).
			Where("questionnaire_id = ?", id).Pluck("id", &questionIDs)
		if len(questionIDs) > 0 {
			database.DB.Where("question_id IN ?", questionIDs).Delete(&models.QuestionOption{})
		}
		database.DB.Where("questionnaire_id = ?", id).Delete(&models.Question{})

		if err := createQuestions(id, *req.Questions); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to recreate questions",
			})
		}
	}

	return c.JSON(loadQuestionnaire(id))
}

func DeleteQuestionnaire(c *fiber.Ctx) error {
	role := middleware.GetUserRole(c)
	if role != models.RoleMaster {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only master users can delete questionnaires",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	var questionnaire models.Questionnaire
	if err := database.DB.First(&questionnaire, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Questionnaire not found",
		})
	}

	// Questionnaires with recorded responses are immutable
	var responseCount int64
	database.DB.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ?", id).Count(&responseCount)
	if responseCount > 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Cannot delete a questionnaire with existing responses",
		})
	}

	if err := database.DB.Delete(&questionnaire).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete questionnaire",
		})
	}

	return c.JSON(fiber.Map{"message": "Questionnaire deleted"})
}

func ToggleQuestionnaireActive(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	var questionnaire models.Questionnaire
	if err := database.DB.First(&questionnaire, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Questionnaire not found",
		})
	}

	if role != models.RoleMaster && questionnaire.CreatedBy != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You cannot toggle this questionnaire",
		})
	}

	var questionCount int64
	database.DB.Model(&models.Question{}).
		Where("questionnaire_id = ?", id).Count(&questionCount)
	if questionCount == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "A questionnaire needs at least one question to be activated",
		})
	}

	if questionnaire.IsActive {
		database.DB.Model(&questionnaire).Update("is_active", false)
	} else {
		// Activation deactivates every other questionnaire
		database.DB.Model(&models.Questionnaire{}).
			Where("is_active = ?", true).Update("is_active", false)
		database.DB.Model(&questionnaire).Update("is_active", true)
	}

	return c.JSON(loadQuestionnaire(id))
}

func RespondQuestionnaire(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

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

	result, err := services.Questionnaires.Respond(c.Context(), id, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func TransferQuestionnaire(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

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

	result, err := services.Questionnaires.TransferFromPublic(c.Context(), id, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func QuestionnaireStatistics(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid questionnaire ID",
		})
	}

	var totalResponses int64
	database.DB.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ?", id).Count(&totalResponses)

	var averageScore float64
	database.DB.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ? AND score IS NOT NULL", id).
		Select("COALESCE(AVG(score), 0)").Scan(&averageScore)

	var uniqueRespondents int64
	database.DB.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ?", id).
		Distinct("user_id").Count(&uniqueRespondents)

	return c.JSON(fiber.Map{
		"totalResponses":    totalResponses,
		"averageScore":      averageScore,
		"uniqueRespondents": uniqueRespondents,
	})
}

func GetMyResponses(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var responses []models.QuestionnaireResponse
	err := database.DB.
		Preload("Questionnaire").Preload("Question").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&responses).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load responses",
		})
	}
	return c.JSON(responses)
}
