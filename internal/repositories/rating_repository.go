package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) CreateRating(ctx context.Context, payload *models.RatingCreate) (*models.Rating, error) {
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid rating")
	}

	rating := models.Rating{Value: payload.Rating, UserID: payload.UserID, ExerciseID: payload.ExerciseID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rating).Error
	})
	if err != nil {
		logger.Error("failed to create rating", "exercise_id", payload.ExerciseID, "error", err)
		return nil, translateError(err, "failed to create rating")
	}

	logger.Debug("rating created", "rating_id", rating.ID)
	return &rating, nil
}

func (r *RatingRepository) GetRating(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get rating")
	}
	return &rating, nil
}

func (r *RatingRepository) ListRatingsForExercise(ctx context.Context, exerciseID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).Where("exercise_id = ?", exerciseID).Order("id").Find(&ratings).Error; err != nil {
		return nil, translateError(err, "failed to list ratings")
	}
	return ratings, nil
}

func (r *RatingRepository) UpdateRating(ctx context.Context, id uint, patch *models.RatingUpdate) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rating, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rating")
			}
			return err
		}
		if patch.Rating == nil {
			return nil
		}
		rating.Value = *patch.Rating
		return tx.Save(&rating).Error
	})
	if err != nil {
		logger.Error("failed to update rating", "rating_id", id, "error", err)
		return nil, translateError(err, "failed to update rating")
	}

	logger.Debug("rating updated", "rating_id", id)
	return &rating, nil
}

func (r *RatingRepository) DeleteRating(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rating, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rating")
			}
			return err
		}
		return tx.Delete(&models.Rating{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete rating", "rating_id", id, "error", err)
		return nil, translateError(err, "failed to delete rating")
	}

	logger.Debug("rating deleted", "rating_id", id)
	return &rating, nil
}
