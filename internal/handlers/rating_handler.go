package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *HandlerManager) loadEditableRating(c *gin.Context) (*models.Rating, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	rating, err := h.RatingRepo.GetRating(c.Request.Context(), id)
	if !found(c, rating, err, "rating") {
		return nil, false
	}
	if !requireSelfOrAdmin(c, rating.UserID) {
		return nil, false
	}
	return rating, true
}

// HandleCreateRating rates as the caller unless an admin names another user.
func (h *HandlerManager) HandleCreateRating(c *gin.Context) {
	var payload models.RatingCreate
	if !bindJSON(c, &payload) {
		return
	}
	if payload.UserID == 0 {
		payload.UserID = middleware.CurrentUser(c).ID
	}
	if !requireSelfOrAdmin(c, payload.UserID) {
		return
	}

	rating, err := h.RatingRepo.CreateRating(c.Request.Context(), &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *HandlerManager) HandleGetRating(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rating, err := h.RatingRepo.GetRating(c.Request.Context(), id)
	if !found(c, rating, err, "rating") {
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *HandlerManager) HandleUpdateRating(c *gin.Context) {
	rating, ok := h.loadEditableRating(c)
	if !ok {
		return
	}
	var patch models.RatingUpdate
	if !bindJSON(c, &patch) {
		return
	}

	updated, err := h.RatingRepo.UpdateRating(c.Request.Context(), rating.ID, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HandlerManager) HandleDeleteRating(c *gin.Context) {
	rating, ok := h.loadEditableRating(c)
	if !ok {
		return
	}

	deleted, err := h.RatingRepo.DeleteRating(c.Request.Context(), rating.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}
