package handlers

import (
	"strconv"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/security"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/utils"
	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.AbortWithError(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid request body"))
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeValidation, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeValidation, "invalid "+name))
		return 0, false
	}
	return v, true
}

// found writes a NOT_FOUND response when the lookup came back empty.
func found[T any](c *gin.Context, v *T, err error, entity string) bool {
	if err != nil {
		middleware.AbortWithError(c, err)
		return false
	}
	if v == nil {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, entity+" not found"))
		return false
	}
	return true
}

func canActFor(actor *models.User, userID uint) bool {
	return actor.ID == userID || actor.IsAdmin()
}

func requireSelfOrAdmin(c *gin.Context, userID uint) bool {
	if canActFor(middleware.CurrentUser(c), userID) {
		return true
	}
	middleware.AbortWithError(c, errors.New(errors.ErrCodeForbidden, "not allowed to act for this user"))
	return false
}

// cleanName strips markup and collapses whitespace in short display names.
func cleanName(name string) string {
	return utils.NormalizeName(security.SanitizeText(name))
}

func cleanOptionalName(name *string) {
	if name != nil {
		*name = cleanName(*name)
	}
}
