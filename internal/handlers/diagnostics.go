package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/database"
	"github.com/workchoque/workchoque-api/internal/middleware"
	"github.com/workchoque/workchoque-api/internal/models"
)

func GetMyDiagnostics(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var diagnostics []models.Diagnostic
	err := database.DB.
		Preload("Questionnaire").
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		Find(&diagnostics).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load diagnostics",
		})
	}
	return c.JSON(diagnostics)
}

func GetDiagnostic(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid diagnostic ID",
		})
	}

	var diagnostic models.Diagnostic
	err = database.DB.
		Preload("Questionnaire").
		Where("id = ? AND user_id = ?", id, userID).
		First(&diagnostic).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Diagnostic not found",
		})
	}
	return c.JSON(diagnostic)
}

func GetAllDiagnosticsAdmin(c *fiber.Ctx) error {
	var diagnostics []models.Diagnostic
	err := database.DB.
		Preload("Questionnaire").Preload("User").
		Order("generated_at DESC").
		Find(&diagnostics).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load diagnostics",
		})
	}
	return c.JSON(diagnostics)
}
