package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/ai"
	"github.com/workchoque/workchoque-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanGenerator is the AI dependency of plan generation.
type PlanGenerator interface {
	GenerateActionPlan(ctx context.Context, input ai.PlanInput) (ai.PlanResult, error)
}

type ActionPlanService struct {
	db  *gorm.DB
	ai  PlanGenerator
	log *zap.Logger
}

func NewActionPlanService(db *gorm.DB, generator PlanGenerator, log *zap.Logger) *ActionPlanService {
	return &ActionPlanService{db: db, ai: generator, log: log}
}

func (s *ActionPlanService) Create(req models.CreateActionPlanRequest, userID uuid.UUID) (*models.ActionPlan, error) {
	plan := models.ActionPlan{
		UserID:       userID,
		DiagnosticID: req.DiagnosticID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     MapCategory(req.Category),
		Status:       defaultString(req.Status, models.PlanStatusDraft),
		Priority:     MapPriority(req.Priority),
		Progress:     req.Progress,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
	}
	if err := s.db.Create(&plan).Error; err != nil {
		return nil, err
	}

	// Plan first to obtain its id, then the goals. Deliberately two writes,
	// matching the generation path.
	if len(req.Goals) > 0 {
		goals := make([]models.Goal, 0, len(req.Goals))
		for _, g := range req.Goals {
			goals = append(goals, goalFromInput(g, plan.ID))
		}
		if err := s.db.Create(&goals).Error; err != nil {
			return nil, err
		}
	}

	return s.reload(plan.ID)
}

func (s *ActionPlanService) reload(id uuid.UUID) (*models.ActionPlan, error) {
	var plan models.ActionPlan
	err := s.db.Preload("Goals").Preload("Diagnostic").Preload("User").
		First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *ActionPlanService) FindAllByUser(userID uuid.UUID, filters models.PlanFilters) ([]models.ActionPlan, error) {
	var plans []models.ActionPlan
	err := applyPlanFilters(s.db.Where("user_id = ?", userID), filters).
		Preload("Goals").Preload("Diagnostic").
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (s *ActionPlanService) FindAllGlobal(filters models.PlanFilters) ([]models.ActionPlan, error) {
	var plans []models.ActionPlan
	err := applyPlanFilters(s.db, filters).
		Preload("Goals").Preload("Diagnostic").Preload("User").
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func applyPlanFilters(tx *gorm.DB, filters models.PlanFilters) *gorm.DB {
	if len(filters.Status) > 0 {
		tx = tx.Where("status IN ?", filters.Status)
	}
	if len(filters.Category) > 0 {
		tx = tx.Where("category IN ?", filters.Category)
	}
	if len(filters.Priority) > 0 {
		tx = tx.Where("priority IN ?", filters.Priority)
	}
	return tx
}

func (s *ActionPlanService) FindOne(id, userID uuid.UUID) (*models.ActionPlan, error) {
	plan, err := s.reload(id)
	if err != nil {
		return nil, fmt.Errorf("%w: action plan %s", ErrNotFound, id)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: action plan belongs to another user", ErrForbidden)
	}
	return plan, nil
}

func (s *ActionPlanService) FindOneAdmin(id uuid.UUID) (*models.ActionPlan, error) {
	plan, err := s.reload(id)
	if err != nil {
		return nil, fmt.Errorf("%w: action plan %s", ErrNotFound, id)
	}
	return plan, nil
}

func (s *ActionPlanService) Update(id uuid.UUID, req models.UpdateActionPlanRequest, userID uuid.UUID) (*models.ActionPlan, error) {
	if err := s.verifyOwnership(id, userID); err != nil {
		return nil, err
	}

	if req.Goals != nil {
		if err := s.reconcileGoals(id, *req.Goals); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = MapCategory(*req.Category)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = MapPriority(*req.Priority)
	}
	if req.Progress != nil {
		updates["progress"] = *req.Progress
	}
	if req.StartDate != nil {
		updates["start_date"] = req.StartDate
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.ActionPlan{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.reload(id)
}

func (s *ActionPlanService) Delete(id, userID uuid.UUID) error {
	if err := s.verifyOwnership(id, userID); err != nil {
		return err
	}
	if err := s.db.Where("action_plan_id = ?", id).Delete(&models.Goal{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.ActionPlan{}, "id = ?", id).Error
}

func (s *ActionPlanService) verifyOwnership(planID, userID uuid.UUID) error {
	var plan models.ActionPlan
	if err := s.db.Select("id", "user_id").First(&plan, "id = ?", planID).Error; err != nil {
		return fmt.Errorf("%w: action plan %s", ErrNotFound, planID)
	}
	if plan.UserID != userID {
		return fmt.Errorf("%w: action plan belongs to another user", ErrForbidden)
	}
	return nil
}

// reconcileGoals makes the stored goal set match the supplied one exactly.
// Supplied entries with a known id are updates, unknown or missing ids are
// creates, stored ids absent from the supplied set are deletes. All three run
// in one transaction; partial failure rolls everything back.
func (s *ActionPlanService) reconcileGoals(planID uuid.UUID, goals []models.GoalInput) error {
	var existing []models.Goal
	if err := s.db.Select("id").Where("action_plan_id = ?", planID).Find(&existing).Error; err != nil {
		return err
	}

	existingIDs := make(map[uuid.UUID]bool, len(existing))
	for _, g := range existing {
		existingIDs[g.ID] = true
	}

	suppliedIDs := make(map[uuid.UUID]bool)
	var toUpdate, toCreate []models.GoalInput
	for _, g := range goals {
		if g.ID != nil && existingIDs[*g.ID] {
			suppliedIDs[*g.ID] = true
			toUpdate = append(toUpdate, g)
		} else {
			toCreate = append(toCreate, g)
		}
	}

	var toDelete []uuid.UUID
	for id := range existingIDs {
		if !suppliedIDs[id] {
			toDelete = append(toDelete, id)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(toDelete) > 0 {
			if err := tx.Where("id IN ? AND action_plan_id = ?", toDelete, planID).
				Delete(&models.Goal{}).Error; err != nil {
				return err
			}
		}

		for _, g := range toUpdate {
			updates := map[string]interface{}{
				"title":       g.Title,
				"description": g.Description,
				"status":      defaultString(g.Status, models.GoalStatusPending),
				"priority":    MapPriority(g.Priority),
				"progress":    g.Progress,
				"start_date":  g.StartDate,
				"due_date":    g.DueDate,
			}
			if err := tx.Model(&models.Goal{}).Where("id = ?", *g.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if len(toCreate) > 0 {
			rows := make([]models.Goal, 0, len(toCreate))
			for _, g := range toCreate {
				rows = append(rows, goalFromInput(g, planID))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GenerateFromDiagnostic builds an action plan from a completed diagnostic.
// Idempotent: an existing plan for (diagnostic, user) is returned unchanged.
// AI and parse failures propagate; the submission pipeline decides whether to
// swallow them.
func (s *ActionPlanService) GenerateFromDiagnostic(ctx context.Context, diagnosticID, userID uuid.UUID) (*models.ActionPlan, error) {
	var existing models.ActionPlan
	err := s.db.Preload("Goals").Preload("Diagnostic").
		Where("diagnostic_id = ? AND user_id = ?", diagnosticID, userID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	var diagnostic models.Diagnostic
	err = s.db.Preload("Questionnaire").Preload("User").
		First(&diagnostic, "id = ?", diagnosticID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: diagnostic %s", ErrNotFound, diagnosticID)
	}

	input := ai.PlanInput{
		DiagnosticID:   diagnostic.ID,
		Score:          diagnostic.ScoreIntelligent,
		Insights:       strings.Join(diagnostic.Insights, "\n"),
		Recommendation: strings.Join(diagnostic.Recommendations, "\n"),
		AreasFocus:     strings.Join(diagnostic.AreasFocus, ", "),
		GeneratedAt:    diagnostic.GeneratedAt.Format(time.RFC3339),
		Status:         diagnostic.Status,
		Title:          "Diagnóstico",
	}
	if diagnostic.Questionnaire != nil {
		input.Title = diagnostic.Questionnaire.Title
		input.Description = diagnostic.Questionnaire.Description
	}
	if diagnostic.User != nil {
		input.UserName = diagnostic.User.Name
		input.UserEmail = diagnostic.User.Email
	}

	result, err := s.ai.GenerateActionPlan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("generating action plan: %w", err)
	}

	today := startOfToday()
	maxDays := 30
	goals := make([]models.GoalInput, 0, len(result.Tasks))
	for i, task := range result.Tasks {
		days := 7
		if task.DueInDays != nil {
			days = *task.DueInDays
		}
		if days > maxDays {
			maxDays = days
		}
		due := today.AddDate(0, 0, days)
		goals = append(goals, models.GoalInput{
			Title:       goalTitle(i+1, task.Description),
			Description: defaultString(task.Description, "Descrição não fornecida"),
			Status:      models.GoalStatusPending,
			Priority:    MapPriority(task.Priority),
			DueDate:     &due,
		})
	}

	// Every generated plan carries at least one goal.
	if len(goals) == 0 {
		due := today.AddDate(0, 0, 7)
		goals = append(goals, models.GoalInput{
			Title:       "Revisar diagnóstico e definir metas iniciais",
			Description: "Analisar os resultados do diagnóstico e estabelecer metas iniciais de tratamento",
			Status:      models.GoalStatusPending,
			Priority:    models.PriorityHigh,
			DueDate:     &due,
		})
	}

	category := models.CategoryWellness
	priority := models.PriorityMedium
	if len(result.Tasks) > 0 {
		category = MapCategory(result.Tasks[0].Area)
		priority = MapPriority(result.Tasks[0].Priority)
	}

	planDue := today.AddDate(0, 0, maxDays)
	req := models.CreateActionPlanRequest{
		Title:        defaultString(result.Title, "Plano de Ação - "+input.Title),
		Description:  defaultString(result.Description, "Plano gerado em "+today.Format("02/01/2006")),
		Category:     category,
		Status:       models.PlanStatusDraft,
		Priority:     priority,
		Progress:     0,
		StartDate:    &today,
		DueDate:      &planDue,
		DiagnosticID: &diagnosticID,
		Goals:        goals,
	}

	return s.Create(req, userID)
}

func goalTitle(n int, description string) string {
	text := description
	if text == "" {
		text = "Nova meta"
	}
	runes := []rune(text)
	if len(runes) > 60 {
		text = string(runes[:60]) + "..."
	}
	return fmt.Sprintf("Meta %d: %s", n, text)
}

func goalFromInput(g models.GoalInput, planID uuid.UUID) models.Goal {
	return models.Goal{
		ActionPlanID: planID,
		Title:        g.Title,
		Description:  g.Description,
		Status:       defaultString(g.Status, models.GoalStatusPending),
		Priority:     MapPriority(g.Priority),
		Progress:     g.Progress,
		StartDate:    g.StartDate,
		DueDate:      g.DueDate,
	}
}

func MapCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	for _, valid := range models.ValidCategories {
		if normalized == valid {
			return valid
		}
	}
	return models.CategoryWellness
}

func MapPriority(priority string) string {
	normalized := strings.ToLower(strings.TrimSpace(priority))
	for _, valid := range models.ValidPriorities {
		if normalized == valid {
			return valid
		}
	}
	return models.PriorityMedium
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
