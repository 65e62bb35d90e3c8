package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/middleware"
	"github.com/workchoque/workchoque-api/internal/models"
	"github.com/workchoque/workchoque-api/internal/services"
)

func CreateActionPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateActionPlanRequest
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

	plan, err := services.ActionPlans.Create(req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func planFilters(c *fiber.Ctx) models.PlanFilters {
	return models.PlanFilters{
		Status:   queryList(c, "status"),
		Category: queryList(c, "category"),
		Priority: queryList(c, "priority"),
	}
}

func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func GetActionPlans(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	plans, err := services.ActionPlans.FindAllByUser(userID, planFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plans)
}

func GetAllActionPlansAdmin(c *fiber.Ctx) error {
	plans, err := services.ActionPlans.FindAllGlobal(planFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plans)
}

func GetActionPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	plan, err := services.ActionPlans.FindOne(id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

func UpdateActionPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	var req models.UpdateActionPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := services.ActionPlans.Update(id, req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

func DeleteActionPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	if err := services.ActionPlans.Delete(id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// GenerateActionPlan is the direct plan-generation entry point. Unlike the
// submission pipeline, generation errors surface to the caller here.
func GenerateActionPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	diagnosticID, err := uuid.Parse(c.Query("diagnosticId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or missing diagnosticId",
		})
	}

	plan, err := services.ActionPlans.GenerateFromDiagnostic(c.Context(), diagnosticID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func GetActionPlanStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	stats, err := services.ActionPlans.Stats(&userID, planFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func GetGlobalActionPlanStats(c *fiber.Ctx) error {
	stats, err := services.ActionPlans.Stats(nil, planFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
