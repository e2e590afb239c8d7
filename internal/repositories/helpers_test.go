package repositories

import (
	"context"
	"testing"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/database"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func userPayload(name, email string) *models.UserCreate {
	return &models.UserCreate{
		Name:     name,
		Email:    email,
		Password: "p",
		Height:   180,
		Weight:   75,
		Gender:   models.GenderMale,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).CreateUser(context.Background(), userPayload(name, email))
	require.NoError(t, err)
	return user
}

func createTestWorkout(t *testing.T, db *gorm.DB, userID uint, dates ...models.Date) *models.Workout {
	t.Helper()
	payload := &models.WorkoutCreate{Name: "Leg day", UserID: userID}
	for _, d := range dates {
		payload.Dates = append(payload.Dates, models.WorkoutDateCreate{Date: d})
	}
	workout, err := NewWorkoutRepository(db).CreateWorkout(context.Background(), payload)
	require.NoError(t, err)
	return workout
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
