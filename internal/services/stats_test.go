package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workchoque/workchoque-api/internal/models"
)

func TestStatsPerUser(t *testing.T) {
	_, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()
	other := uuid.New()
	past := time.Now().AddDate(0, 0, -3)

	_, err := svc.Create(models.CreateActionPlanRequest{
		Title:    "Em andamento",
		Status:   models.PlanStatusInProgress,
		Category: models.CategoryLeadership,
		Priority: models.PriorityHigh,
		Progress: 50,
		DueDate:  &past,
		Goals: []models.GoalInput{
			{Title: "Feita", Status: models.GoalStatusDone, Progress: 100},
			{Title: "Pendente", Status: models.GoalStatusPending},
		},
	}, owner)
	require.NoError(t, err)

	_, err = svc.Create(models.CreateActionPlanRequest{
		Title:    "Concluído",
		Status:   models.PlanStatusDone,
		Category: models.CategoryWellness,
		Progress: 100,
	}, owner)
	require.NoError(t, err)

	// Another user's plan stays out of scoped stats.
	_, err = svc.Create(models.CreateActionPlanRequest{Title: "Alheio", Status: models.PlanStatusInProgress}, other)
	require.NoError(t, err)

	stats, err := svc.Stats(&owner, models.PlanFilters{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Summary.Total)
	assert.EqualValues(t, 1, stats.Summary.Active)
	assert.EqualValues(t, 1, stats.Summary.Completed)
	assert.EqualValues(t, 1, stats.Summary.Overdue)
	assert.EqualValues(t, 0, stats.Summary.Canceled)

	assert.InDelta(t, 75.0, stats.Progress.AvgPlanProgress, 0.01)
	assert.InDelta(t, 50.0, stats.Progress.AvgGoalProgress, 0.01)

	assert.EqualValues(t, 2, stats.Goals.Total)
	assert.EqualValues(t, 1, stats.Goals.Completed)
	assert.EqualValues(t, 1, stats.Goals.Pending)
	assert.EqualValues(t, 0, stats.Goals.InProgress)
}

func TestStatsGlobalScope(t *testing.T) {
	_, svc := newPlanService(t, &fakePlanGen{})

	_, err := svc.Create(models.CreateActionPlanRequest{Title: "A"}, uuid.New())
	require.NoError(t, err)
	_, err = svc.Create(models.CreateActionPlanRequest{Title: "B"}, uuid.New())
	require.NoError(t, err)

	stats, err := svc.Stats(nil, models.PlanFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Summary.Total)
}

func TestStatsDistribution(t *testing.T) {
	_, svc := newPlanService(t, &fakePlanGen{})
	owner := uuid.New()

	for _, category := range []string{models.CategoryWellness, models.CategoryWellness, models.CategoryCareer} {
		_, err := svc.Create(models.CreateActionPlanRequest{Title: "p", Category: category}, owner)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(&owner, models.PlanFilters{})
	require.NoError(t, err)

	byCategory := map[string]int64{}
	for _, entry := range stats.Distribution.ByCategory {
		byCategory[entry.Key] = entry.Count
	}
	assert.EqualValues(t, 2, byCategory[models.CategoryWellness])
	assert.EqualValues(t, 1, byCategory[models.CategoryCareer])
}
