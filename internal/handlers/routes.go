package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/database"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	healthTimeout = 2 * time.Second
	ServiceName   = "fitness-api"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			// Credentials cannot be combined with a wildcard origin
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *HandlerManager) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		otelgin.Middleware(ServiceName),
		middleware.RequestLogger(),
		h.Metrics.Middleware(),
		cors.New(corsConfig(h.Config.CORSOrigins)),
	)

	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := r.Group("", h.Limiter.IPMiddleware())
	api.POST("/token", h.HandleLogin)
	api.POST("/user/", h.HandleRegister)

	authed := api.Group("", middleware.RequireAuth(h.AuthSvc), h.Limiter.UserMiddleware())
	admin := middleware.RequireAdmin()

	authed.GET("/user/me", h.HandleMe)
	authed.GET("/user/:id", h.HandleGetUser)
	authed.PUT("/user/:id", h.HandleUpdateUser)
	authed.DELETE("/user/:id", h.HandleDeleteUser)
	authed.PUT("/user/:id/disabled", admin, h.HandleSetUserDisabled)
	authed.GET("/user/:id/friendships", h.HandleListUserFriendships)
	authed.GET("/user/:id/friendships/:friend_id", h.HandleGetFriendshipBetween)
	authed.GET("/user/:id/workouts", h.HandleListUserWorkouts)

	authed.GET("/friendship_status/", h.HandleListFriendshipStatuses)
	authed.GET("/friendship_status/:id", h.HandleGetFriendshipStatus)
	authed.POST("/friendship_status/", admin, h.HandleCreateFriendshipStatus)
	authed.PUT("/friendship_status/:id", admin, h.HandleUpdateFriendshipStatus)
	authed.DELETE("/friendship_status/:id", admin, h.HandleDeleteFriendshipStatus)

	authed.POST("/friendship/", h.HandleCreateFriendship)
	authed.GET("/friendship/:id", h.HandleGetFriendship)
	authed.PUT("/friendship/:id", h.HandleUpdateFriendship)
	authed.DELETE("/friendship/:id", h.HandleDeleteFriendship)
	authed.POST("/friendship/:id/accept", h.HandleAcceptFriendship)

	authed.POST("/workout/", h.HandleCreateWorkout)
	authed.GET("/workout/:id", h.HandleGetWorkout)
	authed.PUT("/workout/:id", h.HandleUpdateWorkout)
	authed.DELETE("/workout/:id", h.HandleDeleteWorkout)
	authed.POST("/workout/:id/dates", h.HandleAddWorkoutDate)
	authed.PUT("/workout/:id/dates/:date_id", h.HandleUpdateWorkoutDate)
	authed.DELETE("/workout/:id/dates/:date_id", h.HandleDeleteWorkoutDate)
	authed.GET("/workout/:id/exercises", h.HandleListWorkoutExercises)

	authed.POST("/exercise/", h.HandleCreateExercise)
	authed.GET("/exercise/:id", h.HandleGetExercise)
	authed.PUT("/exercise/:id", h.HandleUpdateExercise)
	authed.DELETE("/exercise/:id", h.HandleDeleteExercise)
	authed.GET("/exercise/:id/ratings", h.HandleListExerciseRatings)

	authed.POST("/tag/", h.HandleCreateTag)
	authed.GET("/tags/", h.HandleListTags)
	authed.GET("/tag/:id", h.HandleGetTag)
	authed.PUT("/tag/:id", admin, h.HandleUpdateTag)
	authed.DELETE("/tag/:id", admin, h.HandleDeleteTag)

	authed.POST("/rating/", h.HandleCreateRating)
	authed.GET("/rating/:id", h.HandleGetRating)
	authed.PUT("/rating/:id", h.HandleUpdateRating)
	authed.DELETE("/rating/:id", h.HandleDeleteRating)

	return r
}

func (h *HandlerManager) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.DB); err != nil {
		logger.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
