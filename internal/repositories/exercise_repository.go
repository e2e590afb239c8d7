package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// CreateExercise inserts the exercise and attaches its tags, creating missing ones.
func (r *ExerciseRepository) CreateExercise(ctx context.Context, payload *models.ExerciseCreate) (*models.Exercise, error) {
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid exercise")
	}

	exercise := models.Exercise{
		Name:        payload.Name,
		Description: payload.Description,
		VideoURL:    payload.VideoURL,
		UserID:      payload.UserID,
		WorkoutID:   payload.WorkoutID,
		Sets:        payload.Sets,
		Repetition:  payload.Repetition,
		Duration:    payload.Duration,
		Weight:      payload.Weight,
		RPE:         payload.RPE,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&exercise).Error; err != nil {
			return err
		}
		tags, err := attachTags(tx, exercise.ID, payload.Tags)
		if err != nil {
			return err
		}
		exercise.Tags = tags
		return nil
	})
	if err != nil {
		logger.Error("failed to create exercise", "error", err)
		return nil, translateError(err, "failed to create exercise")
	}

	logger.Debug("exercise created", "exercise_id", exercise.ID, "tags", len(exercise.Tags))
	return &exercise, nil
}

func attachTags(tx *gorm.DB, exerciseID uint, names []string) ([]models.Tag, error) {
	tags, err := resolveTags(tx, names)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return tags, nil
	}

	links := make([]models.ExerciseTag, len(tags))
	for i, tag := range tags {
		links[i] = models.ExerciseTag{ExerciseID: exerciseID, TagID: tag.ID}
	}
	if err := tx.Create(&links).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *ExerciseRepository) GetExercise(ctx context.Context, id uint) (*models.Exercise, error) {
	var exercise models.Exercise
	err := r.db.WithContext(ctx).Preload("Tags").First(&exercise, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get exercise")
	}
	return &exercise, nil
}

func (r *ExerciseRepository) ListExercisesForWorkout(ctx context.Context, workoutID uint) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := r.db.WithContext(ctx).
		Where("workout_id = ?", workoutID).
		Preload("Tags").
		Order("id").
		Find(&exercises).Error
	if err != nil {
		return nil, translateError(err, "failed to list exercises")
	}
	return exercises, nil
}

// UpdateExercise applies the patch. A non-nil tag list replaces the current tags.
func (r *ExerciseRepository) UpdateExercise(ctx context.Context, id uint, patch *models.ExerciseUpdate) (*models.Exercise, error) {
	var exercise models.Exercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tags").First(&exercise, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("exercise")
			}
			return err
		}

		patch.Apply(&exercise)
		if err := tx.Omit(clause.Associations).Save(&exercise).Error; err != nil {
			return err
		}

		if patch.Tags == nil {
			return nil
		}
		if err := tx.Where("exercise_id = ?", id).Delete(&models.ExerciseTag{}).Error; err != nil {
			return err
		}
		tags, err := attachTags(tx, id, patch.Tags)
		if err != nil {
			return err
		}
		exercise.Tags = tags
		return nil
	})
	if err != nil {
		logger.Error("failed to update exercise", "exercise_id", id, "error", err)
		return nil, translateError(err, "failed to update exercise")
	}

	logger.Debug("exercise updated", "exercise_id", id)
	return &exercise, nil
}

// DeleteExercise removes the exercise, its tag links and its ratings. Tags themselves stay.
func (r *ExerciseRepository) DeleteExercise(ctx context.Context, id uint) (*models.Exercise, error) {
	var exercise models.Exercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tags").First(&exercise, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("exercise")
			}
			return err
		}
		return tx.Delete(&models.Exercise{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete exercise", "exercise_id", id, "error", err)
		return nil, translateError(err, "failed to delete exercise")
	}

	logger.Debug("exercise deleted", "exercise_id", id)
	return &exercise, nil
}
