package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func preloadDates(db *gorm.DB) *gorm.DB {
	return db.Order("workout_dates.date, workout_dates.id")
}

// CreateWorkout inserts the workout and its dates as one unit.
func (r *WorkoutRepository) CreateWorkout(ctx context.Context, payload *models.WorkoutCreate) (*models.Workout, error) {
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid workout")
	}

	workout := models.Workout{
		Name:      payload.Name,
		UserID:    payload.UserID,
		IsPrivate: true,
	}
	if payload.IsPrivate != nil {
		workout.IsPrivate = *payload.IsPrivate
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&workout).Error; err != nil {
			return err
		}
		if len(payload.Dates) == 0 {
			workout.Dates = []models.WorkoutDate{}
			return nil
		}

		dates := make([]models.WorkoutDate, len(payload.Dates))
		for i, d := range payload.Dates {
			dates[i] = models.WorkoutDate{WorkoutID: workout.ID, Date: d.Date, Completed: d.Completed}
		}
		if err := tx.Create(&dates).Error; err != nil {
			return err
		}
		workout.Dates = dates
		return nil
	})
	if err != nil {
		logger.Error("failed to create workout", "user_id", payload.UserID, "error", err)
		return nil, translateError(err, "failed to create workout")
	}

	logger.Debug("workout created", "workout_id", workout.ID, "dates", len(workout.Dates))
	return &workout, nil
}

// GetWorkout loads the workout together with its dates and exercises.
func (r *WorkoutRepository) GetWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.WithContext(ctx).
		Preload("Dates", preloadDates).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("exercises.id") }).
		Preload("Exercises.Tags").
		First(&workout, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get workout")
	}
	return &workout, nil
}

func (r *WorkoutRepository) ListWorkoutsForUser(ctx context.Context, userID uint) ([]models.Workout, error) {
	var workouts []models.Workout
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Dates", preloadDates).
		Order("id").
		Find(&workouts).Error
	if err != nil {
		return nil, translateError(err, "failed to list workouts")
	}
	return workouts, nil
}

func (r *WorkoutRepository) UpdateWorkout(ctx context.Context, id uint, patch *models.WorkoutUpdate) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&workout, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("workout")
			}
			return err
		}
		patch.Apply(&workout)
		if err := tx.Omit(clause.Associations).Save(&workout).Error; err != nil {
			return err
		}
		return tx.Where("workout_id = ?", id).Order("date, id").Find(&workout.Dates).Error
	})
	if err != nil {
		logger.Error("failed to update workout", "workout_id", id, "error", err)
		return nil, translateError(err, "failed to update workout")
	}

	logger.Debug("workout updated", "workout_id", id)
	return &workout, nil
}

// DeleteWorkout removes the workout; its dates and exercises go with it.
func (r *WorkoutRepository) DeleteWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Dates", preloadDates).First(&workout, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("workout")
			}
			return err
		}
		return tx.Delete(&models.Workout{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete workout", "workout_id", id, "error", err)
		return nil, translateError(err, "failed to delete workout")
	}

	logger.Debug("workout deleted", "workout_id", id)
	return &workout, nil
}

func (r *WorkoutRepository) AddWorkoutDate(ctx context.Context, workoutID uint, payload *models.WorkoutDateCreate) (*models.WorkoutDate, error) {
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid workout date")
	}

	date := models.WorkoutDate{WorkoutID: workoutID, Date: payload.Date, Completed: payload.Completed}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Workout{}).Where("id = ?", workoutID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("workout")
		}
		return tx.Create(&date).Error
	})
	if err != nil {
		logger.Error("failed to add workout date", "workout_id", workoutID, "error", err)
		return nil, translateError(err, "failed to add workout date")
	}

	logger.Debug("workout date added", "workout_id", workoutID, "date_id", date.ID)
	return &date, nil
}

// UpdateWorkoutDate patches a date that must belong to the given workout.
func (r *WorkoutRepository) UpdateWorkoutDate(ctx context.Context, workoutID, dateID uint, patch *models.WorkoutDateUpdate) (*models.WorkoutDate, error) {
	var date models.WorkoutDate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).First(&date, dateID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("workout date")
			}
			return err
		}
		patch.Apply(&date)
		return tx.Save(&date).Error
	})
	if err != nil {
		logger.Error("failed to update workout date", "date_id", dateID, "error", err)
		return nil, translateError(err, "failed to update workout date")
	}

	logger.Debug("workout date updated", "date_id", dateID)
	return &date, nil
}

func (r *WorkoutRepository) DeleteWorkoutDate(ctx context.Context, workoutID, dateID uint) (*models.WorkoutDate, error) {
	var date models.WorkoutDate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).First(&date, dateID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("workout date")
			}
			return err
		}
		return tx.Delete(&models.WorkoutDate{}, dateID).Error
	})
	if err != nil {
		logger.Error("failed to delete workout date", "date_id", dateID, "error", err)
		return nil, translateError(err, "failed to delete workout date")
	}

	logger.Debug("workout date deleted", "date_id", dateID)
	return &date, nil
}
