package handlers

import (
	"context"
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/security"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

// checkWorkoutAccess fails when the caller may not attach exercises to workoutID.
// Private workouts of other users look missing. A missing workout is left to the foreign key.
func (h *HandlerManager) checkWorkoutAccess(ctx context.Context, actor *models.User, workoutID *uint) error {
	if workoutID == nil {
		return nil
	}
	workout, err := h.WorkoutRepo.GetWorkout(ctx, *workoutID)
	if err != nil || workout == nil {
		return err
	}
	if !canViewWorkout(actor, workout) {
		return errors.New(errors.ErrCodeNotFound, "workout not found")
	}
	if !canActFor(actor, workout.UserID) {
		return errors.New(errors.ErrCodeForbidden, "not allowed to modify this workout")
	}
	return nil
}

// loadVisibleExercise resolves :id to an exercise the caller can see. Exercises
// of private workouts look missing to everyone but the owner and admins.
func (h *HandlerManager) loadVisibleExercise(c *gin.Context) (*models.Exercise, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	ctx := c.Request.Context()
	exercise, err := h.ExerciseRepo.GetExercise(ctx, id)
	if !found(c, exercise, err, "exercise") {
		return nil, false
	}
	if exercise.WorkoutID == nil {
		return exercise, true
	}

	workout, err := h.WorkoutRepo.GetWorkout(ctx, *exercise.WorkoutID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return nil, false
	}
	if workout != nil && !canViewWorkout(middleware.CurrentUser(c), workout) {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "exercise not found"))
		return nil, false
	}
	return exercise, true
}

func (h *HandlerManager) canEditExercise(ctx context.Context, actor *models.User, e *models.Exercise) (bool, error) {
	if actor.IsAdmin() || (e.UserID != nil && *e.UserID == actor.ID) {
		return true, nil
	}
	if e.WorkoutID == nil {
		return false, nil
	}
	workout, err := h.WorkoutRepo.GetWorkout(ctx, *e.WorkoutID)
	if err != nil || workout == nil {
		return false, err
	}
	return workout.UserID == actor.ID, nil
}

func (h *HandlerManager) loadEditableExercise(c *gin.Context) (*models.Exercise, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	ctx := c.Request.Context()
	exercise, err := h.ExerciseRepo.GetExercise(ctx, id)
	if !found(c, exercise, err, "exercise") {
		return nil, false
	}

	allowed, err := h.canEditExercise(ctx, middleware.CurrentUser(c), exercise)
	if err != nil {
		middleware.AbortWithError(c, err)
		return nil, false
	}
	if !allowed {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "not allowed to modify this exercise"))
		return nil, false
	}
	return exercise, true
}

func sanitizeTags(tags []string) {
	for i := range tags {
		tags[i] = cleanName(tags[i])
	}
}

func (h *HandlerManager) HandleCreateExercise(c *gin.Context) {
	var payload models.ExerciseCreate
	if !bindJSON(c, &payload) {
		return
	}

	actor := middleware.CurrentUser(c)
	if payload.UserID == nil {
		payload.UserID = &actor.ID
	}
	if !requireSelfOrAdmin(c, *payload.UserID) {
		return
	}
	ctx := c.Request.Context()
	if err := h.checkWorkoutAccess(ctx, actor, payload.WorkoutID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	payload.Name = cleanName(payload.Name)
	payload.Description = security.SanitizeText(payload.Description)
	sanitizeTags(payload.Tags)

	exercise, err := h.ExerciseRepo.CreateExercise(ctx, &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("exercise created", "exercise_id", exercise.ID, "tags", len(exercise.Tags))
	c.JSON(http.StatusOK, exercise)
}

func (h *HandlerManager) HandleGetExercise(c *gin.Context) {
	exercise, ok := h.loadVisibleExercise(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *HandlerManager) HandleUpdateExercise(c *gin.Context) {
	exercise, ok := h.loadEditableExercise(c)
	if !ok {
		return
	}
	var patch models.ExerciseUpdate
	if !bindJSON(c, &patch) {
		return
	}
	ctx := c.Request.Context()
	if err := h.checkWorkoutAccess(ctx, middleware.CurrentUser(c), patch.WorkoutID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	cleanOptionalName(patch.Name)
	security.SanitizeOptional(patch.Description)
	sanitizeTags(patch.Tags)

	updated, err := h.ExerciseRepo.UpdateExercise(ctx, exercise.ID, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HandlerManager) HandleDeleteExercise(c *gin.Context) {
	exercise, ok := h.loadEditableExercise(c)
	if !ok {
		return
	}

	deleted, err := h.ExerciseRepo.DeleteExercise(c.Request.Context(), exercise.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *HandlerManager) HandleListExerciseRatings(c *gin.Context) {
	exercise, ok := h.loadVisibleExercise(c)
	if !ok {
		return
	}

	ratings, err := h.RatingRepo.ListRatingsForExercise(c.Request.Context(), exercise.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}
