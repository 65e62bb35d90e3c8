package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workchoque/workchoque-api/internal/middleware"
	"github.com/workchoque/workchoque-api/internal/models"
	"github.com/workchoque/workchoque-api/internal/services"
)

func AgentChat(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	response, err := services.Agent.Chat(c.Context(), userID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}
