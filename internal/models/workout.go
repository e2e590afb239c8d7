package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Workout struct {
	ID        uint          `gorm:"primaryKey" json:"workout_id"`
	Name      string        `gorm:"type:varchar(50);not null" json:"name"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	IsPrivate bool          `gorm:"not null" json:"is_private"`
	Dates     []WorkoutDate `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"dates"`
	Exercises []Exercise    `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *Workout) BeforeSave(tx *gorm.DB) error {
	return validateName(w.Name)
}

func (Workout) TableName() string {
	return "workouts"
}

// WorkoutDate is one scheduled occurrence of a workout.
type WorkoutDate struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	WorkoutID uint `gorm:"not null;index" json:"workout_id"`
	Date      Date `gorm:"not null" json:"date"`
	Completed bool `gorm:"not null;default:false" json:"completed"`
}

func (d *WorkoutDate) BeforeSave(tx *gorm.DB) error {
	if d.Date.IsZero() {
		return fmt.Errorf("%w: workout date is required", gorm.ErrInvalidData)
	}
	return nil
}

func (WorkoutDate) TableName() string {
	return "workout_dates"
}

type WorkoutDateCreate struct {
	Date      Date `json:"date"`
	Completed bool `json:"completed"`
}

func (p *WorkoutDateCreate) Validate() error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: workout date is required", gorm.ErrInvalidData)
	}
	return nil
}

type WorkoutDateUpdate struct {
	Date      *Date `json:"date"`
	Completed *bool `json:"completed"`
}

func (p *WorkoutDateUpdate) Apply(d *WorkoutDate) {
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Completed != nil {
		d.Completed = *p.Completed
	}
}

type WorkoutCreate struct {
	Name   string `json:"name"`
	UserID uint   `json:"user_id"`
	// IsPrivate defaults to true when omitted.
	IsPrivate *bool               `json:"is_private"`
	Dates     []WorkoutDateCreate `json:"dates"`
}

func (p *WorkoutCreate) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if p.UserID == 0 {
		return fmt.Errorf("%w: user_id is required", gorm.ErrInvalidData)
	}
	for i := range p.Dates {
		if err := p.Dates[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WorkoutUpdate is a partial update; nil fields are left unchanged.
type WorkoutUpdate struct {
	Name      *string `json:"name"`
	IsPrivate *bool   `json:"is_private"`
}

func (p *WorkoutUpdate) Apply(w *Workout) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.IsPrivate != nil {
		w.IsPrivate = *p.IsPrivate
	}
}
