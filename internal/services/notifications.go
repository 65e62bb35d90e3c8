package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workchoque/workchoque-api/internal/models"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(req models.CreateNotificationRequest, createdBy uuid.UUID) (*models.Notification, error) {
	notification := models.Notification{
		UserID:    req.UserID,
		Role:      req.Role,
		CreatedBy: &createdBy,
		Title:     req.Title,
		Message:   req.Message,
		Type:      defaultString(req.Type, "info"),
		Priority:  defaultString(req.Priority, "medium"),
		IsGlobal:  req.IsGlobal,
		ActionURL: req.ActionURL,
		Metadata:  req.Metadata,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// visibleTo scopes notifications to the requesting user: targeted rows, rows
// for their role, and global ones, excluding expired entries.
func (s *NotificationService) visibleTo(userID uuid.UUID, role string) *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("(user_id = ? OR role = ? OR is_global = ?)", userID, role, true).
		Where("(expires_at IS NULL OR expires_at > ?)", time.Now())
}

func (s *NotificationService) ListForUser(userID uuid.UUID, role string, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.visibleTo(userID, role).
		Order(priorityOrder).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// Urgent first; the priority column is text, so declared order is explicit.
const priorityOrder = "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END"

func (s *NotificationService) UnreadCount(userID uuid.UUID, role string) (int64, error) {
	var count int64
	err := s.visibleTo(userID, role).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (s *NotificationService) MarkRead(id, userID uuid.UUID, role string) error {
	result := s.visibleTo(userID, role).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID, role string) (int64, error) {
	result := s.visibleTo(userID, role).Where("is_read = ?", false).Update("is_read", true)
	return result.RowsAffected, result.Error
}
