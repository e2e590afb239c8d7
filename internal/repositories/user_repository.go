package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/security"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxFriendCodeAttempts bounds the redraws when a generated friend code is taken.
const MaxFriendCodeAttempts = 32

// dummyHash is compared against when no user matches, so a miss costs one bcrypt round like a hit.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoO5rGCxQ4sVJTGsMdFsGfGMm0qK2HYPvS"

type UserRepository struct {
	db      *gorm.DB
	codeGen func() (string, error)
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, codeGen: utils.GenerateFriendCode}
}

// CreateUser registers a user with a fresh friend code and a hashed password.
func (r *UserRepository) CreateUser(ctx context.Context, payload *models.UserCreate) (*models.User, error) {
	payload.Email = utils.NormalizeEmail(payload.Email)
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid user")
	}

	hash, err := security.HashPassword(payload.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Name:         payload.Name,
		Email:        payload.Email,
		Height:       payload.Height,
		Weight:       payload.Weight,
		Gender:       payload.Gender,
		BirthDate:    payload.BirthDate,
		PasswordHash: hash,
		AccountType:  models.AccountTypeUser,
		ExtraData:    payload.ExtraData,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New(errors.ErrCodeAlreadyExists, "email already registered")
		}

		code, err := r.generateFriendCode(tx)
		if err != nil {
			return err
		}
		user.FriendCode = code

		return tx.Omit(clause.Associations).Create(user).Error
	})
	if err != nil {
		logger.Error("failed to create user", "email", user.Email, "error", err)
		return nil, translateError(err, "failed to create user")
	}

	logger.Debug("user created", "user_id", user.ID)
	return user, nil
}

// GenerateFriendCode returns a friend code not currently held by any user.
func (r *UserRepository) GenerateFriendCode(ctx context.Context) (string, error) {
	code, err := r.generateFriendCode(r.db.WithContext(ctx))
	if err != nil {
		return "", translateError(err, "failed to generate friend code")
	}
	return code, nil
}

func (r *UserRepository) generateFriendCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < MaxFriendCodeAttempts; attempt++ {
		code, err := r.codeGen()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to draw friend code")
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("friend_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		logger.Debug("friend code collision, redrawing", "attempt", attempt+1)
	}
	return "", errors.New(errors.ErrCodeInternalError, "friend code space exhausted")
}

// GetUser returns nil without an error when the user does not exist.
func (r *UserRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", utils.NormalizeEmail(email))
}

func (r *UserRepository) GetUserByFriendCode(ctx context.Context, code string) (*models.User, error) {
	return r.findOne(ctx, "friend_code = ?", code)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get user")
	}
	return &user, nil
}

// UpdateUser applies only the fields present in the patch.
func (r *UserRepository) UpdateUser(ctx context.Context, id uint, patch *models.UserUpdate) (*models.User, error) {
	var newHash string
	if patch.Password != nil {
		if *patch.Password == "" || len(*patch.Password) > 72 {
			return nil, errors.New(errors.ErrCodeValidation, "password must be between 1 and 72 bytes")
		}
		hash, err := security.HashPassword(*patch.Password)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
		}
		newHash = hash
	}
	if patch.Email != nil {
		email := utils.NormalizeEmail(*patch.Email)
		patch.Email = &email
	}

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("user")
			}
			return err
		}

		patch.Apply(&user)
		if newHash != "" {
			user.PasswordHash = newHash
		}

		return tx.Omit(clause.Associations).Save(&user).Error
	})
	if err != nil {
		logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, translateError(err, "failed to update user")
	}

	logger.Debug("user updated", "user_id", id)
	return &user, nil
}

// SetDisabled switches a user's account off or back on. Disabled users cannot use their tokens.
func (r *UserRepository) SetDisabled(ctx context.Context, id uint, disabled bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Validation hooks would run against the empty model, so skip them for this single column
		result := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.User{}).Where("id = ?", id).Update("disabled", disabled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound("user")
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to change user state", "user_id", id, "error", err)
		return translateError(err, "failed to change user state")
	}

	logger.Info("user state changed", "user_id", id, "disabled", disabled)
	return nil
}

// DeleteUser removes the user and, through storage cascades, everything it owns.
func (r *UserRepository) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("user")
			}
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete user", "user_id", id, "error", err)
		return nil, translateError(err, "failed to delete user")
	}

	logger.Debug("user deleted", "user_id", id)
	return &user, nil
}

// AuthenticateUser returns the user when the credentials match and false otherwise.
// It never tells the caller which of email or password was wrong.
func (r *UserRepository) AuthenticateUser(ctx context.Context, email, password string) (*models.User, bool) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Error("authentication lookup failed", "error", err)
		return nil, false
	}
	if user == nil {
		security.VerifyPassword(password, dummyHash)
		return nil, false
	}
	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, false
	}
	return user, true
}
