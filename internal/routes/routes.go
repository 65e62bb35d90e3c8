package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workchoque/workchoque-api/internal/handlers"
	"github.com/workchoque/workchoque-api/internal/middleware"
	"github.com/workchoque/workchoque-api/internal/models"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	// Anonymous assessment flow, no token required
	public := api.Group("/public")
	public.Get("/questionnaires/active", handlers.GetActiveQuestionnaire)
	public.Post("/questionnaires/:id/respond", handlers.RespondPublic)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleMaster)

	questionnaires := protected.Group("/questionnaires")
	questionnaires.Get("/responses/me", handlers.GetMyResponses)
	questionnaires.Get("/", handlers.GetQuestionnaires)
	questionnaires.Post("/", staff, handlers.CreateQuestionnaire)
	questionnaires.Get("/:id", handlers.GetQuestionnaire)
	questionnaires.Put("/:id", staff, handlers.UpdateQuestionnaire)
	questionnaires.Delete("/:id", staff, handlers.DeleteQuestionnaire)
	questionnaires.Post("/:id/toggle-active", staff, handlers.ToggleQuestionnaireActive)
	questionnaires.Get("/:id/statistics", staff, handlers.QuestionnaireStatistics)
	questionnaires.Post("/:id/respond", handlers.RespondQuestionnaire)
	questionnaires.Post("/:id/transfer", handlers.TransferQuestionnaire)

	diagnostics := protected.Group("/diagnostics")
	diagnostics.Get("/", handlers.GetMyDiagnostics)
	diagnostics.Get("/:id", handlers.GetDiagnostic)

	plans := protected.Group("/action-plans")
	plans.Get("/stats", handlers.GetActionPlanStats)
	plans.Post("/generate", handlers.GenerateActionPlan)
	plans.Get("/", handlers.GetActionPlans)
	plans.Post("/", handlers.CreateActionPlan)
	plans.Get("/:id", handlers.GetActionPlan)
	plans.Put("/:id", handlers.UpdateActionPlan)
	plans.Delete("/:id", handlers.DeleteActionPlan)

	notifications := protected.Group("/notifications")
	notifications.Get("/unread-count", handlers.GetUnreadCount)
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllNotificationsRead)

	protected.Post("/agent/chat", handlers.AgentChat)

	admin := protected.Group("/admin", staff)
	admin.Get("/diagnostics", handlers.GetAllDiagnosticsAdmin)
	admin.Get("/action-plans", handlers.GetAllActionPlansAdmin)
	admin.Get("/action-plans/stats", handlers.GetGlobalActionPlanStats)
	admin.Post("/notifications", handlers.CreateNotification)
}
