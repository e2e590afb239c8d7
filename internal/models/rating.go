package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	MinRating = 0
	MaxRating = 5
)

type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"rating_id"`
	Value      float64   `gorm:"column:rating;not null" json:"rating"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ExerciseID uint      `gorm:"not null;index" json:"exercise_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Rating) BeforeSave(tx *gorm.DB) error {
	return validateRating(r.Value)
}

func (Rating) TableName() string {
	return "ratings"
}

type RatingCreate struct {
	Rating     float64 `json:"rating"`
	UserID     uint    `json:"user_id"`
	ExerciseID uint    `json:"exercise_id"`
}

func (p *RatingCreate) Validate() error {
	if p.UserID == 0 || p.ExerciseID == 0 {
		return fmt.Errorf("%w: user_id and exercise_id are required", gorm.ErrInvalidData)
	}
	return validateRating(p.Rating)
}

type RatingUpdate struct {
	Rating *float64 `json:"rating"`
}

func validateRating(v float64) error {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", gorm.ErrInvalidData, MinRating, MaxRating)
	}
	return nil
}
