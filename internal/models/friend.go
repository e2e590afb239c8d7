package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus is the lookup table behind Friendship.StatusID.
type FriendshipStatus struct {
	ID   uint   `gorm:"primaryKey" json:"status_id"`
	Name string `gorm:"type:varchar(20);uniqueIndex;not null;check:chk_friendship_statuses_name,name IN ('PENDING','ACCEPTED')" json:"name"`
}

// Friendship status names
const (
	FriendshipStatusPending  = "PENDING"
	FriendshipStatusAccepted = "ACCEPTED"
)

func IsValidFriendshipStatus(name string) bool {
	return name == FriendshipStatusPending || name == FriendshipStatusAccepted
}

func (s *FriendshipStatus) BeforeSave(tx *gorm.DB) error {
	if !IsValidFriendshipStatus(s.Name) {
		return fmt.Errorf("%w: friendship status must be PENDING or ACCEPTED", gorm.ErrInvalidData)
	}
	return nil
}

func (FriendshipStatus) TableName() string {
	return "friendship_statuses"
}

// Friendship is a directed edge from UserID to FriendID. Only the ordered pair is unique.
type Friendship struct {
	ID        uint             `gorm:"primaryKey" json:"friendship_id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"user_id"`
	User      User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FriendID  uint             `gorm:"not null;uniqueIndex:idx_friendship_pair;index" json:"friend_id"`
	Friend    User             `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE" json:"-"`
	StatusID  uint             `gorm:"not null" json:"status_id"`
	Status    FriendshipStatus `gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT" json:"status"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.UserID == f.FriendID {
		return fmt.Errorf("%w: a user cannot befriend themselves", gorm.ErrInvalidData)
	}
	return nil
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendshipCreate requests a friendship between two friend codes.
type FriendshipCreate struct {
	RequestorFriendCode string `json:"requestor_friend_code"`
	ReceiverFriendCode  string `json:"receiver_friend_code"`
	// Status defaults to PENDING.
	Status string `json:"status"`
}

func (p *FriendshipCreate) Validate() error {
	if p.RequestorFriendCode == "" || p.ReceiverFriendCode == "" {
		return fmt.Errorf("%w: both friend codes are required", gorm.ErrInvalidData)
	}
	if p.RequestorFriendCode == p.ReceiverFriendCode {
		return fmt.Errorf("%w: a user cannot befriend themselves", gorm.ErrInvalidData)
	}
	if p.Status != "" && !IsValidFriendshipStatus(p.Status) {
		return fmt.Errorf("%w: friendship status must be PENDING or ACCEPTED", gorm.ErrInvalidData)
	}
	return nil
}

type FriendshipUpdate struct {
	Status *string `json:"status"`
}

// CanTransition reports whether a friendship may move from one status to another.
// PENDING -> ACCEPTED is the only transition; staying put is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == FriendshipStatusPending && to == FriendshipStatusAccepted
}
