package middleware

import (
	"context"
	"strings"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// UserResolver turns a bearer token into the user it was issued to.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token for an enabled user.
func RequireAuth(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "not authenticated"))
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeUnauthorized) {
				c.Header("WWW-Authenticate", "Bearer")
			}
			AbortWithError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			AbortWithError(c, errors.New(errors.ErrCodeForbidden, "admin privileges required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
