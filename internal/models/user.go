package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint                   `gorm:"primaryKey" json:"user_id"`
	Name         string                 `gorm:"type:varchar(50);not null" json:"name"`
	Email        string                 `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Height       float64                `gorm:"not null" json:"height"`
	Weight       float64                `gorm:"not null" json:"weight"`
	Gender       string                 `gorm:"type:varchar(10);not null;check:chk_users_gender,gender IN ('MALE','FEMALE','OTHER')" json:"gender"`
	BirthDate    *Date                  `json:"birth_date,omitempty"`
	FriendCode   string                 `gorm:"type:varchar(6);uniqueIndex;not null" json:"friend_code"`
	PasswordHash string                 `gorm:"type:varchar(500);not null" json:"-"`
	AccountType  string                 `gorm:"type:varchar(10);not null;check:chk_users_account_type,account_type IN ('ADMIN','USER')" json:"account_type"`
	Disabled     bool                   `gorm:"not null;default:false" json:"disabled"`
	ExtraData    map[string]interface{} `gorm:"type:json;serializer:json" json:"extra_data,omitempty"`
	CreatedAt    time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"autoUpdateTime" json:"updated_at"`

	Workouts  []Workout  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Exercises []Exercise `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Ratings   []Rating   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

const (
	AccountTypeAdmin = "ADMIN"
	AccountTypeUser  = "USER"
)

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if err := validateName(u.Name); err != nil {
		return err
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if err := validateBodyMetrics(u.Height, u.Weight); err != nil {
		return err
	}
	if !IsValidGender(u.Gender) {
		return fmt.Errorf("%w: gender must be MALE, FEMALE or OTHER", gorm.ErrInvalidData)
	}
	if u.AccountType != AccountTypeAdmin && u.AccountType != AccountTypeUser {
		return fmt.Errorf("%w: account type must be ADMIN or USER", gorm.ErrInvalidData)
	}
	if len(u.FriendCode) != 6 {
		return fmt.Errorf("%w: friend code must be 6 characters", gorm.ErrInvalidData)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", gorm.ErrInvalidData)
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.AccountType == AccountTypeAdmin
}

func IsValidGender(gender string) bool {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserCreate is the registration payload.
type UserCreate struct {
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Password  string                 `json:"password"`
	Height    float64                `json:"height"`
	Weight    float64                `json:"weight"`
	Gender    string                 `json:"gender"`
	BirthDate *Date                  `json:"birth_date"`
	ExtraData map[string]interface{} `json:"extra_data"`
}

func (p *UserCreate) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := validateEmail(p.Email); err != nil {
		return err
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password is required", gorm.ErrInvalidData)
	}
	if len(p.Password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", gorm.ErrInvalidData)
	}
	if err := validateBodyMetrics(p.Height, p.Weight); err != nil {
		return err
	}
	if !IsValidGender(p.Gender) {
		return fmt.Errorf("%w: gender must be MALE, FEMALE or OTHER", gorm.ErrInvalidData)
	}
	return nil
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Name      *string                `json:"name"`
	Email     *string                `json:"email"`
	Password  *string                `json:"password"`
	Height    *float64               `json:"height"`
	Weight    *float64               `json:"weight"`
	Gender    *string                `json:"gender"`
	BirthDate *Date                  `json:"birth_date"`
	ExtraData map[string]interface{} `json:"extra_data"`
}

// Apply merges the present fields into u. The password is handled by the caller
// because it has to be hashed first.
func (p *UserUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Height != nil {
		u.Height = *p.Height
	}
	if p.Weight != nil {
		u.Weight = *p.Weight
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.BirthDate != nil {
		d := *p.BirthDate
		u.BirthDate = &d
	}
	if p.ExtraData != nil {
		u.ExtraData = p.ExtraData
	}
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", gorm.ErrInvalidData)
	}
	if len(name) > 50 {
		return fmt.Errorf("%w: name must be at most 50 characters", gorm.ErrInvalidData)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 255 {
		return fmt.Errorf("%w: email must be at most 255 characters", gorm.ErrInvalidData)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email %q", gorm.ErrInvalidData, email)
	}
	return nil
}

func validateBodyMetrics(height, weight float64) error {
	if height <= 0 {
		return fmt.Errorf("%w: height must be positive", gorm.ErrInvalidData)
	}
	if weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", gorm.ErrInvalidData)
	}
	return nil
}
