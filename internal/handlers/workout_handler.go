package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

func canViewWorkout(actor *models.User, w *models.Workout) bool {
	return !w.IsPrivate || canActFor(actor, w.UserID)
}

// loadWorkout resolves :id to a workout the caller can see. Private workouts
// of other users look missing. With edit set, the caller must also own it.
func (h *HandlerManager) loadWorkout(c *gin.Context, edit bool) (*models.Workout, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	workout, err := h.WorkoutRepo.GetWorkout(c.Request.Context(), id)
	if !found(c, workout, err, "workout") {
		return nil, false
	}

	actor := middleware.CurrentUser(c)
	if !canViewWorkout(actor, workout) {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "workout not found"))
		return nil, false
	}
	if edit && !canActFor(actor, workout.UserID) {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "not allowed to modify this workout"))
		return nil, false
	}
	return workout, true
}

func (h *HandlerManager) HandleCreateWorkout(c *gin.Context) {
	var payload models.WorkoutCreate
	if !bindJSON(c, &payload) {
		return
	}
	if payload.UserID == 0 {
		payload.UserID = middleware.CurrentUser(c).ID
	}
	if !requireSelfOrAdmin(c, payload.UserID) {
		return
	}
	payload.Name = cleanName(payload.Name)

	workout, err := h.WorkoutRepo.CreateWorkout(c.Request.Context(), &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("workout created", "workout_id", workout.ID, "user_id", workout.UserID)
	c.JSON(http.StatusOK, workout)
}

func (h *HandlerManager) HandleGetWorkout(c *gin.Context) {
	workout, ok := h.loadWorkout(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *HandlerManager) HandleUpdateWorkout(c *gin.Context) {
	workout, ok := h.loadWorkout(c, true)
	if !ok {
		return
	}
	var patch models.WorkoutUpdate
	if !bindJSON(c, &patch) {
		return
	}
	cleanOptionalName(patch.Name)

	updated, err := h.WorkoutRepo.UpdateWorkout(c.Request.Context(), workout.ID, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HandlerManager) HandleDeleteWorkout(c *gin.Context) {
	workout, ok := h.loadWorkout(c, true)
	if !ok {
		return
	}

	deleted, err := h.WorkoutRepo.DeleteWorkout(c.Request.Context(), workout.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("workout deleted", "workout_id", deleted.ID)
	c.JSON(http.StatusOK, deleted)
}

func (h *HandlerManager) HandleAddWorkoutDate(c *gin.Context) {
	workout, ok := h.loadWorkout(c, true)
	if !ok {
		return
	}
	var payload models.WorkoutDateCreate
	if !bindJSON(c, &payload) {
		return
	}

	date, err := h.WorkoutRepo.AddWorkoutDate(c.Request.Context(), workout.ID, &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, date)
}

func (h *HandlerManager) HandleUpdateWorkoutDate(c *gin.Context) {
	workout, ok := h.loadWorkout(c, true)
	if !ok {
		return
	}
	dateID, ok := idParam(c, "date_id")
	if !ok {
		return
	}
	var patch models.WorkoutDateUpdate
	if !bindJSON(c, &patch) {
		return
	}

	date, err := h.WorkoutRepo.UpdateWorkoutDate(c.Request.Context(), workout.ID, dateID, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, date)
}

func (h *HandlerManager) HandleDeleteWorkoutDate(c *gin.Context) {
	workout, ok := h.loadWorkout(c, true)
	if !ok {
		return
	}
	dateID, ok := idParam(c, "date_id")
	if !ok {
		return
	}

	date, err := h.WorkoutRepo.DeleteWorkoutDate(c.Request.Context(), workout.ID, dateID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, date)
}

func (h *HandlerManager) HandleListWorkoutExercises(c *gin.Context) {
	workout, ok := h.loadWorkout(c, false)
	if !ok {
		return
	}

	exercises, err := h.ExerciseRepo.ListExercisesForWorkout(c.Request.Context(), workout.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}
