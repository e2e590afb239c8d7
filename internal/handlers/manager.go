package handlers

import (
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/config"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/middleware"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/repositories"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/services"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/metrics"
	"gorm.io/gorm"
)

type HandlerManager struct {
	Config       *config.Config
	DB           *gorm.DB
	UserRepo     *repositories.UserRepository
	FriendRepo   *repositories.FriendshipRepository
	StatusRepo   *repositories.FriendshipStatusRepository
	WorkoutRepo  *repositories.WorkoutRepository
	ExerciseRepo *repositories.ExerciseRepository
	TagRepo      *repositories.TagRepository
	RatingRepo   *repositories.RatingRepository
	AuthSvc      *services.AuthService
	Metrics      *metrics.Metrics
	Limiter      *middleware.RateLimiter
}

func NewHandlerManager(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, limiter *middleware.RateLimiter) *HandlerManager {
	userRepo := repositories.NewUserRepository(db)

	return &HandlerManager{
		Config:       cfg,
		DB:           db,
		UserRepo:     userRepo,
		FriendRepo:   repositories.NewFriendshipRepository(db),
		StatusRepo:   repositories.NewFriendshipStatusRepository(db),
		WorkoutRepo:  repositories.NewWorkoutRepository(db),
		ExerciseRepo: repositories.NewExerciseRepository(db),
		TagRepo:      repositories.NewTagRepository(db),
		RatingRepo:   repositories.NewRatingRepository(db),
		AuthSvc:      services.NewAuthService(userRepo, cfg.SecretKey, cfg.Algorithm, cfg.GetAccessTokenTTL()),
		Metrics:      m,
		Limiter:      limiter,
	}
}
