package repositories

import (
	"time"

	"github.com/socio-irdl/socio/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	DeleteNotification(senderID, receiverID, actionType, postID string) error
	DeleteNotificationsByPost(postID string) error
	GetByReceiverID(receiverID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(receiverID string) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(receiverID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository
// backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return r.db.Create(notification).Error
}

// DeleteNotification removes the live notification matching the
// (sender, receiver, action type, post) natural key. postID is empty for
// follow notifications. Deleting a row that is already gone is not an error.
func (r *postgresNotificationRepository) DeleteNotification(senderID, receiverID, actionType, postID string) error {
	return r.db.Where("sender_id = ? AND receiver_id = ? AND action_type = ? AND post_id = ?",
		senderID, receiverID, actionType, postID).
		Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) DeleteNotificationsByPost(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) GetByReceiverID(receiverID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("receiver_id = ?", receiverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(receiverID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = false", receiverID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(receiverID string) error {
	return r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = false", receiverID).Update("is_read", true).Error
}
