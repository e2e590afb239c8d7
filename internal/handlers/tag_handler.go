package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/repositories"
	"github.com/gin-gonic/gin"
)

func (h *HandlerManager) HandleCreateTag(c *gin.Context) {
	var payload models.TagCreate
	if !bindJSON(c, &payload) {
		return
	}
	payload.Name = cleanName(payload.Name)

	tag, err := h.TagRepo.CreateTag(c.Request.Context(), &payload)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *HandlerManager) HandleListTags(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", repositories.DefaultTagLimit)
	if !ok {
		return
	}

	tags, err := h.TagRepo.ListTags(c.Request.Context(), skip, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *HandlerManager) HandleGetTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.TagRepo.GetTag(c.Request.Context(), id)
	if !found(c, tag, err, "tag") {
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *HandlerManager) HandleUpdateTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var patch models.TagUpdate
	if !bindJSON(c, &patch) {
		return
	}
	cleanOptionalName(patch.Name)

	tag, err := h.TagRepo.UpdateTag(c.Request.Context(), id, &patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *HandlerManager) HandleDeleteTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.TagRepo.DeleteTag(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
