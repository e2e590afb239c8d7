package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
)

type FriendshipStatusRepository struct {
	db *gorm.DB
}

func NewFriendshipStatusRepository(db *gorm.DB) *FriendshipStatusRepository {
	return &FriendshipStatusRepository{db: db}
}

func (r *FriendshipStatusRepository) CreateStatus(ctx context.Context, name string) (*models.FriendshipStatus, error) {
	status := models.FriendshipStatus{Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&status).Error
	})
	if err != nil {
		logger.Error("failed to create friendship status", "name", name, "error", err)
		return nil, translateError(err, "failed to create friendship status")
	}
	logger.Debug("friendship status created", "status_id", status.ID)
	return &status, nil
}

func (r *FriendshipStatusRepository) GetStatus(ctx context.Context, id uint) (*models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := r.db.WithContext(ctx).First(&status, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get friendship status")
	}
	return &status, nil
}

func (r *FriendshipStatusRepository) ListStatuses(ctx context.Context) ([]models.FriendshipStatus, error) {
	var statuses []models.FriendshipStatus
	if err := r.db.WithContext(ctx).Order("id").Find(&statuses).Error; err != nil {
		return nil, translateError(err, "failed to list friendship statuses")
	}
	return statuses, nil
}

func (r *FriendshipStatusRepository) UpdateStatus(ctx context.Context, id uint, name *string) (*models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&status, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("friendship status")
			}
			return err
		}
		if name == nil {
			return nil
		}
		status.Name = *name
		return tx.Save(&status).Error
	})
	if err != nil {
		logger.Error("failed to update friendship status", "status_id", id, "error", err)
		return nil, translateError(err, "failed to update friendship status")
	}
	logger.Debug("friendship status updated", "status_id", id)
	return &status, nil
}

// DeleteStatus fails with a reference error while any friendship still uses the status.
func (r *FriendshipStatusRepository) DeleteStatus(ctx context.Context, id uint) (*models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&status, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("friendship status")
			}
			return err
		}
		return tx.Delete(&models.FriendshipStatus{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete friendship status", "status_id", id, "error", err)
		return nil, translateError(err, "failed to delete friendship status")
	}
	logger.Debug("friendship status deleted", "status_id", id)
	return &status, nil
}
