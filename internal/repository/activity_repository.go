package repository

import (
	"errors"
	"fmt"

	"github.com/confcfp/cfp-server/internal/database"
	"github.com/confcfp/cfp-server/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateActivity is returned when inserting the activity row fails.
	ErrCreateActivity = errors.New("activity repository: create activity failed")
	// ErrCreateActivityContent is returned when inserting localized contents fails.
	ErrCreateActivityContent = errors.New("activity repository: create activity content failed")
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create inserts the activity and then its contents; either both land or neither does.
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		contents := activity.Contents

		if err := tx.Omit("Contents").Create(activity).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateActivity, err)
		}

		if len(contents) > 0 {
			for i := range contents {
				contents[i].ActivityID = activity.ID
			}
			if err := tx.Create(&contents).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateActivityContent, err)
			}
		}

		activity.Contents = contents
		return nil
	})
}

// FindByID finds an activity by ID with optional preloading
func (r *GormActivityRepository) FindByID(id string, preload ...string) (*models.Activity, error) {
	var activity models.Activity
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// FindBySlug finds an activity by slug with optional preloading
func (r *GormActivityRepository) FindBySlug(slug string, preload ...string) (*models.Activity, error) {
	var activity models.Activity
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("slug = ?", slug).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// ExistsBySlug reports whether the slug is already taken
func (r *GormActivityRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Activity{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every activity, newest first
func (r *GormActivityRepository) List() ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := r.db.Scopes(database.Newest).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
