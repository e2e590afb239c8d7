package repositories

import (
	"context"
	stderrors "errors"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// CreateFriendship links the two users behind the given friend codes.
func (r *FriendshipRepository) CreateFriendship(ctx context.Context, payload *models.FriendshipCreate) (*models.Friendship, error) {
	if err := payload.Validate(); err != nil {
		return nil, translateError(err, "invalid friendship")
	}
	statusName := payload.Status
	if statusName == "" {
		statusName = models.FriendshipStatusPending
	}

	var friendship models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requestor, err := userIDByFriendCode(tx, payload.RequestorFriendCode)
		if err != nil {
			return err
		}
		receiver, err := userIDByFriendCode(tx, payload.ReceiverFriendCode)
		if err != nil {
			return err
		}
		status, err := statusByName(tx, statusName)
		if err != nil {
			return err
		}

		// Only the ordered pair is unique; a mirrored edge is allowed but worth knowing about
		var mirrored int64
		if err := tx.Model(&models.Friendship{}).
			Where("user_id = ? AND friend_id = ?", receiver, requestor).
			Count(&mirrored).Error; err != nil {
			return err
		}
		if mirrored > 0 {
			logger.Warn("creating friendship whose mirrored edge already exists", "user_id", requestor, "friend_id", receiver)
		}

		friendship = models.Friendship{UserID: requestor, FriendID: receiver, StatusID: status.ID}
		if err := tx.Omit(clause.Associations).Create(&friendship).Error; err != nil {
			if isUniqueViolation(err) {
				return errors.Wrap(err, errors.ErrCodeAlreadyExists, "friendship already exists")
			}
			return err
		}
		friendship.Status = *status
		return nil
	})
	if err != nil {
		logger.Error("failed to create friendship", "error", err)
		return nil, translateError(err, "failed to create friendship")
	}

	logger.Debug("friendship created", "friendship_id", friendship.ID)
	return &friendship, nil
}

func (r *FriendshipRepository) GetFriendship(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).Preload("Status").First(&friendship, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get friendship")
	}
	return &friendship, nil
}

// GetFriendshipBetween finds the edge from userID to friendID. The mirrored edge is a different friendship.
func (r *FriendshipRepository) GetFriendshipBetween(ctx context.Context, userID, friendID uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Preload("Status").
		First(&friendship).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get friendship")
	}
	return &friendship, nil
}

// UpdateFriendship changes the status. PENDING -> ACCEPTED is the only transition.
func (r *FriendshipRepository) UpdateFriendship(ctx context.Context, id uint, patch *models.FriendshipUpdate) (*models.Friendship, error) {
	if patch.Status != nil && !models.IsValidFriendshipStatus(*patch.Status) {
		return nil, errors.New(errors.ErrCodeValidation, "friendship status must be PENDING or ACCEPTED")
	}

	var friendship models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Status").First(&friendship, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("friendship")
			}
			return err
		}
		if patch.Status == nil {
			return nil
		}

		if !models.CanTransition(friendship.Status.Name, *patch.Status) {
			return errors.New(errors.ErrCodeValidation, "cannot move friendship from "+friendship.Status.Name+" to "+*patch.Status)
		}
		status, err := statusByName(tx, *patch.Status)
		if err != nil {
			return err
		}

		friendship.StatusID = status.ID
		friendship.Status = *status
		return tx.Omit(clause.Associations).Save(&friendship).Error
	})
	if err != nil {
		logger.Error("failed to update friendship", "friendship_id", id, "error", err)
		return nil, translateError(err, "failed to update friendship")
	}

	logger.Debug("friendship updated", "friendship_id", id, "status", friendship.Status.Name)
	return &friendship, nil
}

// AcceptFriendship moves a pending friendship to ACCEPTED.
func (r *FriendshipRepository) AcceptFriendship(ctx context.Context, id uint) (*models.Friendship, error) {
	accepted := models.FriendshipStatusAccepted
	return r.UpdateFriendship(ctx, id, &models.FriendshipUpdate{Status: &accepted})
}

func (r *FriendshipRepository) DeleteFriendship(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Status").First(&friendship, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("friendship")
			}
			return err
		}
		return tx.Delete(&models.Friendship{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete friendship", "friendship_id", id, "error", err)
		return nil, translateError(err, "failed to delete friendship")
	}

	logger.Debug("friendship deleted", "friendship_id", id)
	return &friendship, nil
}

// ListFriendshipsForUser returns every edge the user sits on, in either direction.
func (r *FriendshipRepository) ListFriendshipsForUser(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Preload("Status").
		Order("id").
		Find(&friendships).Error
	if err != nil {
		return nil, translateError(err, "failed to list friendships")
	}
	return friendships, nil
}

func userIDByFriendCode(tx *gorm.DB, code string) (uint, error) {
	var user models.User
	err := tx.Select("id").Where("friend_code = ?", code).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errors.New(errors.ErrCodeReference, "no user with friend code "+code)
	}
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func statusByName(tx *gorm.DB, name string) (*models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := tx.Where("name = ?", name).First(&status).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeReference, "friendship status "+name+" does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}
