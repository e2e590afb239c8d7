package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleRegister creates a USER account. The account type is never taken from the body.
func (h *HandlerManager) HandleRegister(c *gin.Context) {
	var payload models.UserCreate
	if !bindJSON(c, &payload) {
		return
	}
	payload.Name = cleanName(payload.Name)

	user, err := h.UserRepo.CreateUser(c.Request.Context(), &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusOK, user)
}

func (h *HandlerManager) HandleGetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserRepo.GetUser(c.Request.Context(), id)
	if !found(c, user, err, "user") {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *HandlerManager) HandleUpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !requireSelfOrAdmin(c, id) {
		return
	}

	var patch models.UserUpdate
	if !bindJSON(c, &patch) {
		return
	}
	cleanOptionalName(patch.Name)

	user, err := h.UserRepo.UpdateUser(c.Request.Context(), id, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *HandlerManager) HandleDeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !requireSelfOrAdmin(c, id) {
		return
	}

	user, err := h.UserRepo.DeleteUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("user deleted", "user_id", id, "by", middleware.CurrentUser(c).ID)
	c.JSON(http.StatusOK, user)
}

type disabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// HandleSetUserDisabled is admin only.
func (h *HandlerManager) HandleSetUserDisabled(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req disabledRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.UserRepo.SetDisabled(ctx, id, *req.Disabled); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	user, err := h.UserRepo.GetUser(ctx, id)
	if !found(c, user, err, "user") {
		return
	}

	logger.Info("user disabled flag changed", "user_id", id, "disabled", *req.Disabled, "by", middleware.CurrentUser(c).ID)
	c.JSON(http.StatusOK, user)
}

func (h *HandlerManager) HandleListUserFriendships(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !requireSelfOrAdmin(c, id) {
		return
	}

	friendships, err := h.FriendRepo.ListFriendshipsForUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendships)
}

// HandleListUserWorkouts hides private workouts from everyone but the owner and admins.
func (h *HandlerManager) HandleListUserWorkouts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	workouts, err := h.WorkoutRepo.ListWorkoutsForUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	visible := make([]models.Workout, 0, len(workouts))
	for i := range workouts {
		if canViewWorkout(actor, &workouts[i]) {
			visible = append(visible, workouts[i])
		}
	}
	c.JSON(http.StatusOK, visible)
}
