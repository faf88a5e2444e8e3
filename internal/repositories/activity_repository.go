package repositories

import (
	"github.com/socio-irdl/socio/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for activity log operations
type ActivityRepository interface {
	CreateActivity(activity *models.Activity) error
	DeleteActivity(userID, postID, actionType string) error
	DeleteActivitiesByPost(postID string) error
	DeleteActivityByID(id uint) error
	GetActivitiesByUser(userID string) ([]models.Activity, error)
}

type postgresActivityRepository struct {
	db *gorm.DB
}

// NewPostgresActivityRepository creates a new ActivityRepository backed by
// PostgreSQL
func NewPostgresActivityRepository(db *gorm.DB) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) CreateActivity(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// DeleteActivity removes the activity matching the (user, post, action)
// natural key. Deleting a row that is already gone is not an error.
func (r *postgresActivityRepository) DeleteActivity(userID, postID, actionType string) error {
	return r.db.Where("user_id = ? AND post_id = ? AND action_type = ?", userID, postID, actionType).
		Delete(&models.Activity{}).Error
}

func (r *postgresActivityRepository) DeleteActivitiesByPost(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Activity{}).Error
}

func (r *postgresActivityRepository) DeleteActivityByID(id uint) error {
	return r.db.Delete(&models.Activity{}, id).Error
}

func (r *postgresActivityRepository) GetActivitiesByUser(userID string) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.Where("user_id = ?", userID).Order("timestamp ASC").Find(&activities).Error
	return activities, err
}
