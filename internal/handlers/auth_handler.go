package handlers

import (
	"net/http"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

// loginForm is the OAuth2 password grant body. Username carries the email.
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// HandleLogin issues an access token for valid credentials.
func (h *HandlerManager) HandleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.AbortWithError(c, errors.Wrap(err, errors.ErrCodeValidation, "username and password are required"))
		return
	}

	token, err := h.AuthSvc.Login(c.Request.Context(), form.Username, form.Password)
	if h.Metrics != nil {
		h.Metrics.LoginAttempt(err == nil)
	}
	if err != nil {
		logger.Warn("login failed", "client_ip", c.ClientIP())
		c.Header("WWW-Authenticate", "Bearer")
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *HandlerManager) HandleMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
