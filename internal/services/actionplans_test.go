package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workchoque/workchoque-api/internal/ai"
	"github.com/workchoque/workchoque-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newPlanService(t *testing.T, gen *fakePlanGen) (*gorm.DB, *ActionPlanService) {
	t.Helper()
	db := newTestDB(t)
	return db, NewActionPlanService(db, gen, zap.NewNop())
}

func createCompletedDiagnostic(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Diagnostic {
	t.Helper()
	questionnaire := models.Questionnaire{Title: "Clima", Type: "clima", IsActive: true}
	require.NoError(t, db.Create(&questionnaire).Error)

	now := time.Now()
	diagnostic := models.Diagnostic{
		QuestionnaireID:  questionnaire.ID,
		UserID:           userID,
		Status:           models.DiagnosticCompleted,
		ScoreIntelligent: 55,
		Insights:         datatypes.NewJSONSlice([]string{"insight"}),
		Recommendations:  datatypes.NewJSONSlice([]string{"recomendação"}),
		AreasFocus:       datatypes.NewJSONSlice([]string{"Comunicação"}),
		CompletedAt:      &now,
	}
	require.NoError(t, db.Create(&diagnostic).Error)
	return &diagnostic
}

func TestGenerateFromDiagnosticIsIdempotent(t *testing.T) {
	days := 10
	gen := &fakePlanGen{result: ai.PlanResult{
		Title:       "Plano de Melhoria",
		Description: "Agir sobre o diagnóstico",
		Tasks: []ai.PlanTask{
			{Description: "Mapear processos de comunicação", Priority: "alta", Area: "leadership", DueInDays: &days},
		},
	}}
	db, svc := newPlanService(t, gen)
	userID := uuid.New()
	diagnostic := createCompletedDiagnostic(t, db, userID)

	first, err := svc.GenerateFromDiagnostic(context.Background(), diagnostic.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Plano de Melhoria", first.Title)
	assert.Equal(t, models.CategoryLeadership, first.Category)
	assert.Equal(t, models.PriorityHigh, first.Priority)
	assert.Equal(t, models.PlanStatusDraft, first.Status)
	require.Len(t, first.Goals, 1)
	assert.Equal(t, "Meta 1: Mapear processos de comunicação", first.Goals[0].Title)

	second, err := svc.GenerateFromDiagnostic(context.Background(), diagnostic.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateFromDiagnosticAlwaysHasAGoal(t *testing.T) {
	gen := &fakePlanGen{result: ai.PlanResult{
		Title:       "Plano Vazio",
		Description: "Sem tarefas sugeridas",
		Tasks:       nil,
	}}
	db, svc := newPlanService(t, gen)
	userID := uuid.New()
	diagnostic := createCompletedDiagnostic(t, db, userID)

	plan, err := svc.GenerateFromDiagnostic(context.Background(), diagnostic.ID, userID)
	require.NoError(t, err)
	require.Len(t, plan.Goals, 1)
	assert.Equal(t, "Revisar diagnóstico e definir metas iniciais", plan.Goals[0].Title)
	assert.Equal(t, models.PriorityHigh, plan.Goals[0].Priority)
}

func TestGenerateFromDiagnosticTruncatesLongGoalTitles(t *testing.T) {
	long := "Estabelecer um programa contínuo de acompanhamento e desenvolvimento de lideranças"
	gen := &fakePlanGen{result: ai.PlanResult{
		Title:       "Plano",
		Description: "Descrição",
		Tasks:       []ai.PlanTask{{Description: long, Priority: "media", Area: "development"}},
	}}
	db, svc := newPlanService(t, gen)
	userID := uuid.New()
	diagnostic := createCompletedDiagnostic(t, db, userID)

	plan, err := svc.GenerateFromDiagnostic(context.Background(), diagnostic.ID, userID)
	require.NoError(t, err)
	require.Len(t, plan.Goals, 1)
	assert.Equal(t, "Meta 1: "+string([]rune(long)[:60])+"...", plan.Goals[0].Title)
}

func TestFindOneEnforcesOwnership(t *testing.T) {
	_, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()

	plan, err := svc.Create(models.CreateActionPlanRequest{Title: "Meu plano"}, owner)
	require.NoError(t, err)

	_, err = svc.FindOne(plan.ID, owner)
	require.NoError(t, err)

	_, err = svc.FindOne(plan.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.FindOne(uuid.New(), owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReconcilesGoals(t *testing.T) {
	db, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()

	plan, err := svc.Create(models.CreateActionPlanRequest{
		Title: "Plano",
		Goals: []models.GoalInput{
			{Title: "Meta A"},
			{Title: "Meta B"},
			{Title: "Meta C"},
		},
	}, owner)
	require.NoError(t, err)
	require.Len(t, plan.Goals, 3)

	var keepID uuid.UUID
	for _, g := range plan.Goals {
		if g.Title == "Meta B" {
			keepID = g.ID
		}
	}
	require.NotEqual(t, uuid.Nil, keepID)

	updated := "Meta B revisada"
	goals := []models.GoalInput{
		{ID: &keepID, Title: updated, Status: models.GoalStatusInProgress, Progress: 40},
		{Title: "Meta D"},
	}
	result, err := svc.Update(plan.ID, models.UpdateActionPlanRequest{Goals: &goals}, owner)
	require.NoError(t, err)
	require.Len(t, result.Goals, 2)

	titles := map[string]models.Goal{}
	for _, g := range result.Goals {
		titles[g.Title] = g
	}
	require.Contains(t, titles, updated)
	require.Contains(t, titles, "Meta D")
	assert.Equal(t, keepID, titles[updated].ID)
	assert.Equal(t, models.GoalStatusInProgress, titles[updated].Status)
	assert.Equal(t, 40, titles[updated].Progress)

	var remaining int64
	db.Model(&models.Goal{}).Where("action_plan_id = ?", plan.ID).Count(&remaining)
	assert.EqualValues(t, 2, remaining)
}

func TestDeleteRemovesGoals(t *testing.T) {
	db, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()

	plan, err := svc.Create(models.CreateActionPlanRequest{
		Title: "Plano",
		Goals: []models.GoalInput{{Title: "Meta A"}},
	}, owner)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(plan.ID, owner))

	var goals int64
	db.Model(&models.Goal{}).Where("action_plan_id = ?", plan.ID).Count(&goals)
	assert.EqualValues(t, 0, goals)
}

func TestFindAllByUserFilters(t *testing.T) {
	_, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()

	_, err := svc.Create(models.CreateActionPlanRequest{Title: "A", Status: models.PlanStatusInProgress, Category: models.CategoryLeadership}, owner)
	require.NoError(t, err)
	_, err = svc.Create(models.CreateActionPlanRequest{Title: "B", Status: models.PlanStatusDone, Category: models.CategoryWellness}, owner)
	require.NoError(t, err)

	plans, err := svc.FindAllByUser(owner, models.PlanFilters{Status: []string{models.PlanStatusInProgress}})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "A", plans[0].Title)

	plans, err = svc.FindAllByUser(owner, models.PlanFilters{})
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	plans, err = svc.FindAllByUser(uuid.New(), models.PlanFilters{})
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestMapCategoryAndPriority(t *testing.T) {
	assert.Equal(t, models.CategoryLeadership, MapCategory("Leadership"))
	assert.Equal(t, models.CategoryWellness, MapCategory("bem-estar"))
	assert.Equal(t, models.CategoryWellness, MapCategory(""))

	assert.Equal(t, models.PriorityHigh, MapPriority(" ALTA "))
	assert.Equal(t, models.PriorityMedium, MapPriority("urgente"))
	assert.Equal(t, models.PriorityMedium, MapPriority(""))
}
