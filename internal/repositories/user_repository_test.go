package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/security"
	apperrors "github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	birth := models.NewDate(1990, 5, 17)
	payload := userPayload("A", "a@x.com")
	payload.BirthDate = &birth
	payload.ExtraData = map[string]interface{}{
		"goal":   "marathon",
		"shoes":  []interface{}{"road", "trail"},
		"nested": map[string]interface{}{"pb": 3.5},
	}

	user, err := repo.CreateUser(ctx, payload)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Len(t, user.FriendCode, 6)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, user.FriendCode)
	assert.Equal(t, models.AccountTypeUser, user.AccountType)
	assert.False(t, user.Disabled)
	assert.NotEqual(t, "p", user.PasswordHash)
	assert.True(t, security.VerifyPassword("p", user.PasswordHash))

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 180.0, got.Height)
	assert.Equal(t, 75.0, got.Weight)
	assert.Equal(t, models.GenderMale, got.Gender)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "1990-05-17", got.BirthDate.String())
	assert.Equal(t, payload.ExtraData, got.ExtraData)

	byEmail, err := repo.GetUserByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "A", byEmail.Name)

	byCode, err := repo.GetUserByFriendCode(ctx, user.FriendCode)
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, user.ID, byCode.ID)
}

func TestUserRepository_GetMissingReturnsNil(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user, err := repo.GetUser(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.GetUserByFriendCode(ctx, "ZZZZZZ")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_CreateValidation(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	payload := userPayload("A", "a@x.com")
	payload.Gender = "UNKNOWN"
	_, err := repo.CreateUser(context.Background(), payload)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation), "got %v", err)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "A", "a@x.com")

	_, err := repo.CreateUser(context.Background(), userPayload("B", "a@x.com"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists), "got %v", err)
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}, "1 = 1"))
}

func TestUserRepository_FriendCodeCollisionRedraws(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	first := createTestUser(t, db, "A", "a@x.com")

	draws := []string{first.FriendCode, first.FriendCode, "NEW123"}
	calls := 0
	repo.codeGen = func() (string, error) {
		code := draws[calls]
		calls++
		return code, nil
	}

	second, err := repo.CreateUser(context.Background(), userPayload("B", "b@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "NEW123", second.FriendCode)
	assert.Equal(t, 3, calls)
}

func TestUserRepository_FriendCodeExhaustion(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	first := createTestUser(t, db, "A", "a@x.com")

	calls := 0
	repo.codeGen = func() (string, error) {
		calls++
		return first.FriendCode, nil
	}

	_, err := repo.CreateUser(context.Background(), userPayload("B", "b@x.com"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternalError), "got %v", err)
	assert.Equal(t, MaxFriendCodeAttempts, calls)
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}, "1 = 1"))
}

func TestUserRepository_FriendCodeGeneratorError(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	repo.codeGen = func() (string, error) { return "", errors.New("entropy gone") }

	_, err := repo.GenerateFriendCode(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternalError), "got %v", err)
}

func TestUserRepository_GenerateFriendCodeDistinct(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	existing := createTestUser(t, db, "A", "a@x.com")

	seen := map[string]bool{existing.FriendCode: true}
	for i := 0; i < 50; i++ {
		code, err := repo.GenerateFriendCode(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, existing.FriendCode, code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestUserRepository_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "A", "a@x.com")

	name := "X"
	updated, err := repo.UpdateUser(ctx, user.ID, &models.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Name)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Name)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Height, got.Height)
	assert.Equal(t, user.Weight, got.Weight)
	assert.Equal(t, user.Gender, got.Gender)
	assert.Equal(t, user.FriendCode, got.FriendCode)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "A", "a@x.com")

	pw := "new-password"
	_, err := repo.UpdateUser(ctx, user.ID, &models.UserUpdate{Password: &pw})
	require.NoError(t, err)

	_, ok := repo.AuthenticateUser(ctx, "a@x.com", "p")
	assert.False(t, ok)
	_, ok = repo.AuthenticateUser(ctx, "a@x.com", "new-password")
	assert.True(t, ok)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	name := "X"

	_, err := repo.UpdateUser(context.Background(), 99, &models.UserUpdate{Name: &name})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound), "got %v", err)
}

func TestUserRepository_UpdateEmailConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "A", "a@x.com")
	b := createTestUser(t, db, "B", "b@x.com")

	email := "a@x.com"
	_, err := repo.UpdateUser(context.Background(), b.ID, &models.UserUpdate{Email: &email})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists), "got %v", err)
}

func TestUserRepository_Authenticate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	createTestUser(t, db, "A", "a@x.com")

	user, ok := repo.AuthenticateUser(ctx, "a@x.com", "p")
	assert.True(t, ok)
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user.Email)

	user, ok = repo.AuthenticateUser(ctx, "a@x.com", "wrong")
	assert.False(t, ok)
	assert.Nil(t, user)

	user, ok = repo.AuthenticateUser(ctx, "missing@x.com", "p")
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := createTestUser(t, db, "A", "a@x.com")
	b := createTestUser(t, db, "B", "b@x.com")
	workout := createTestWorkout(t, db, a.ID, models.NewDate(2024, 1, 1))

	_, err := NewFriendshipRepository(db).CreateFriendship(ctx, &models.FriendshipCreate{
		RequestorFriendCode: a.FriendCode,
		ReceiverFriendCode:  b.FriendCode,
	})
	require.NoError(t, err)

	library, err := NewExerciseRepository(db).CreateExercise(ctx, &models.ExerciseCreate{Name: "Plank", UserID: &a.ID})
	require.NoError(t, err)

	snapshot, err := repo.DeleteUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, snapshot.ID)
	assert.Equal(t, "a@x.com", snapshot.Email)

	gone, err := repo.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Zero(t, countRows(t, db, &models.Workout{}, "user_id = ?", a.ID))
	assert.Zero(t, countRows(t, db, &models.WorkoutDate{}, "workout_id = ?", workout.ID))
	assert.Zero(t, countRows(t, db, &models.Friendship{}, "user_id = ? OR friend_id = ?", a.ID, a.ID))

	// Library exercises outlive their author
	kept, err := NewExerciseRepository(db).GetExercise(ctx, library.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Nil(t, kept.UserID)

	_, err = repo.DeleteUser(ctx, a.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound), "got %v", err)
}

func TestUserRepository_SetDisabled(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "A", "a@x.com")

	require.NoError(t, repo.SetDisabled(ctx, user.ID, true))
	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled)
	assert.Equal(t, "A", got.Name)

	require.NoError(t, repo.SetDisabled(ctx, user.ID, false))
	got, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.Disabled)

	err = repo.SetDisabled(ctx, 999, true)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound), "got %v", err)
}
