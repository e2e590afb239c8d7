package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

func isParticipant(actor *models.User, f *models.Friendship) bool {
	return actor.IsAdmin() || actor.ID == f.UserID || actor.ID == f.FriendID
}

// loadFriendship fetches the friendship and checks the caller is part of it.
func (h *HandlerManager) loadFriendship(c *gin.Context) (*models.Friendship, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	friendship, err := h.FriendRepo.GetFriendship(c.Request.Context(), id)
	if !found(c, friendship, err, "friendship") {
		return nil, false
	}
	if !isParticipant(middleware.CurrentUser(c), friendship) {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "friendship not found"))
		return nil, false
	}
	return friendship, true
}

// HandleCreateFriendship sends a request from the caller's friend code.
// Only admins may create on behalf of others or skip straight to ACCEPTED.
func (h *HandlerManager) HandleCreateFriendship(c *gin.Context) {
	var payload models.FriendshipCreate
	if !bindJSON(c, &payload) {
		return
	}

	actor := middleware.CurrentUser(c)
	if payload.RequestorFriendCode == "" {
		payload.RequestorFriendCode = actor.FriendCode
	}
	if !actor.IsAdmin() {
		if payload.RequestorFriendCode != actor.FriendCode {
			middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "requestor must be the current user"))
			return
		}
		if payload.Status != "" && payload.Status != models.FriendshipStatusPending {
			middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "new friendships start as PENDING"))
			return
		}
	}

	friendship, err := h.FriendRepo.CreateFriendship(c.Request.Context(), &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("friendship requested", "friendship_id", friendship.ID, "user_id", friendship.UserID, "friend_id", friendship.FriendID)
	c.JSON(http.StatusOK, friendship)
}

func (h *HandlerManager) HandleGetFriendship(c *gin.Context) {
	friendship, ok := h.loadFriendship(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// HandleGetFriendshipBetween looks up the edge from :id to :friend_id.
func (h *HandlerManager) HandleGetFriendshipBetween(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	friendID, ok := idParam(c, "friend_id")
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c)
	if actor.ID != userID && actor.ID != friendID && !actor.IsAdmin() {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "friendship not found"))
		return
	}

	friendship, err := h.FriendRepo.GetFriendshipBetween(c.Request.Context(), userID, friendID)
	if !found(c, friendship, err, "friendship") {
		return
	}
	c.JSON(http.StatusOK, friendship)
}

func (h *HandlerManager) HandleUpdateFriendship(c *gin.Context) {
	friendship, ok := h.loadFriendship(c)
	if !ok {
		return
	}
	var patch models.FriendshipUpdate
	if !bindJSON(c, &patch) {
		return
	}
	actor := middleware.CurrentUser(c)
	if patch.Status != nil && *patch.Status != friendship.Status.Name &&
		actor.ID != friendship.FriendID && !actor.IsAdmin() {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "only the receiver can accept a friendship"))
		return
	}

	updated, err := h.FriendRepo.UpdateFriendship(c.Request.Context(), friendship.ID, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// HandleAcceptFriendship lets the receiving side accept a pending request.
func (h *HandlerManager) HandleAcceptFriendship(c *gin.Context) {
	friendship, ok := h.loadFriendship(c)
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c)
	if actor.ID != friendship.FriendID && !actor.IsAdmin() {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "only the receiver can accept a friendship"))
		return
	}

	accepted, err := h.FriendRepo.AcceptFriendship(c.Request.Context(), friendship.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("friendship accepted", "friendship_id", accepted.ID)
	c.JSON(http.StatusOK, accepted)
}

func (h *HandlerManager) HandleDeleteFriendship(c *gin.Context) {
	friendship, ok := h.loadFriendship(c)
	if !ok {
		return
	}

	deleted, err := h.FriendRepo.DeleteFriendship(c.Request.Context(), friendship.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

type statusRequest struct {
	Name string `json:"name" binding:"required"`
}

type statusPatch struct {
	Name *string `json:"name"`
}

func (h *HandlerManager) HandleCreateFriendshipStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.StatusRepo.CreateStatus(c.Request.Context(), req.Name)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *HandlerManager) HandleListFriendshipStatuses(c *gin.Context) {
	statuses, err := h.StatusRepo.ListStatuses(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *HandlerManager) HandleGetFriendshipStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.StatusRepo.GetStatus(c.Request.Context(), id)
	if !found(c, status, err, "friendship status") {
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *HandlerManager) HandleUpdateFriendshipStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var patch statusPatch
	if !bindJSON(c, &patch) {
		return
	}
	status, err := h.StatusRepo.UpdateStatus(c.Request.Context(), id, patch.Name)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *HandlerManager) HandleDeleteFriendshipStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.StatusRepo.DeleteStatus(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
