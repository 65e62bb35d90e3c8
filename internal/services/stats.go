package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/models"
	"gorm.io/gorm"
)

type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type PlanStats struct {
	Summary struct {
		Total     int64 `json:"total"`
		Active    int64 `json:"active"`
		Completed int64 `json:"completed"`
		Overdue   int64 `json:"overdue"`
		Canceled  int64 `json:"canceled"`
	} `json:"summary"`
	Progress struct {
		AvgPlanProgress float64 `json:"avgPlanProgress"`
		AvgGoalProgress float64 `json:"avgGoalProgress"`
	} `json:"progress"`
	Goals struct {
		Total      int64 `json:"total"`
		Completed  int64 `json:"completed"`
		InProgress int64 `json:"inProgress"`
		Pending    int64 `json:"pending"`
		Overdue    int64 `json:"overdue"`
	} `json:"goals"`
	Distribution struct {
		ByStatus   []KeyCount `json:"byStatus"`
		ByCategory []KeyCount `json:"byCategory"`
		ByPriority []KeyCount `json:"byPriority"`
	} `json:"distribution"`
}

// Stats aggregates plan and goal counters. A nil userID means global scope.
func (s *ActionPlanService) Stats(userID *uuid.UUID, filters models.PlanFilters) (*PlanStats, error) {
	now := time.Now()
	stats := &PlanStats{}

	planScope := func() *gorm.DB {
		tx := applyPlanFilters(s.db.Model(&models.ActionPlan{}), filters)
		if userID != nil {
			tx = tx.Where("user_id = ?", *userID)
		}
		return tx
	}
	goalScope := func() *gorm.DB {
		tx := s.db.Model(&models.Goal{}).
			Joins("JOIN action_plans ON action_plans.id = goals.action_plan_id")
		if userID != nil {
			tx = tx.Where("action_plans.user_id = ?", *userID)
		}
		return tx
	}

	if err := planScope().Count(&stats.Summary.Total).Error; err != nil {
		return nil, err
	}
	planScope().Where("status = ?", models.PlanStatusInProgress).Count(&stats.Summary.Active)
	planScope().Where("status = ?", models.PlanStatusDone).Count(&stats.Summary.Completed)
	planScope().Where("status = ?", models.PlanStatusCanceled).Count(&stats.Summary.Canceled)
	planScope().Where("due_date < ? AND status <> ?", now, models.PlanStatusDone).
		Count(&stats.Summary.Overdue)

	planScope().Select("COALESCE(AVG(progress), 0)").Scan(&stats.Progress.AvgPlanProgress)
	goalScope().Select("COALESCE(AVG(goals.progress), 0)").Scan(&stats.Progress.AvgGoalProgress)

	goalScope().Count(&stats.Goals.Total)
	goalScope().Where("goals.status = ?", models.GoalStatusDone).Count(&stats.Goals.Completed)
	goalScope().Where("goals.status = ?", models.GoalStatusInProgress).Count(&stats.Goals.InProgress)
	goalScope().Where("goals.status = ?", models.GoalStatusPending).Count(&stats.Goals.Pending)
	goalScope().Where("goals.due_date < ? AND goals.status <> ?", now, models.GoalStatusDone).
		Count(&stats.Goals.Overdue)

	for _, group := range []struct {
		column string
		target *[]KeyCount
	}{
		{"status", &stats.Distribution.ByStatus},
		{"category", &stats.Distribution.ByCategory},
		{"priority", &stats.Distribution.ByPriority},
	} {
		if err := planScope().
			Select(group.column + " AS key, COUNT(*) AS count").
			Group(group.column).
			Scan(group.target).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}
