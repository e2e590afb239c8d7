package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Exercise either belongs to a workout or, with no workout, is a library entry authored by a user.
type Exercise struct {
	ID          uint     `gorm:"primaryKey" json:"exercise_id"`
	Name        string   `gorm:"type:varchar(50);not null" json:"name"`
	Description string   `gorm:"type:varchar(500)" json:"description"`
	VideoURL    string   `gorm:"type:varchar(500)" json:"video_url"`
	UserID      *uint    `gorm:"index" json:"user_id"`
	WorkoutID   *uint    `gorm:"index" json:"workout_id"`
	Sets        int      `gorm:"column:sets;not null" json:"set"`
	Repetition  int      `gorm:"not null" json:"repetition"`
	Duration    int      `gorm:"not null" json:"duration"`
	Weight      *float64 `json:"weight"`
	RPE         *int     `gorm:"column:rpe" json:"rpe"`
	Tags        []Tag    `gorm:"many2many:exercise_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ratings     []Rating `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Exercise) BeforeSave(tx *gorm.DB) error {
	if err := validateName(e.Name); err != nil {
		return err
	}
	return validateExerciseFields(e.Description, e.VideoURL, e.Sets, e.Repetition, e.Duration, e.Weight, e.RPE)
}

func (Exercise) TableName() string {
	return "exercises"
}

// ExerciseTag is the join row between exercises and tags.
type ExerciseTag struct {
	ExerciseID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID      uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ExerciseTag) TableName() string {
	return "exercise_tags"
}

type ExerciseCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	VideoURL    string   `json:"video_url"`
	UserID      *uint    `json:"user_id"`
	WorkoutID   *uint    `json:"workout_id"`
	Sets        int      `json:"set"`
	Repetition  int      `json:"repetition"`
	Duration    int      `json:"duration"`
	Weight      *float64 `json:"weight"`
	RPE         *int     `json:"rpe"`
	Tags        []string `json:"tags"`
}

func (p *ExerciseCreate) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	return validateExerciseFields(p.Description, p.VideoURL, p.Sets, p.Repetition, p.Duration, p.Weight, p.RPE)
}

// ExerciseUpdate is a partial update. A non-nil Tags replaces the tag set.
type ExerciseUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	VideoURL    *string  `json:"video_url"`
	WorkoutID   *uint    `json:"workout_id"`
	Sets        *int     `json:"set"`
	Repetition  *int     `json:"repetition"`
	Duration    *int     `json:"duration"`
	Weight      *float64 `json:"weight"`
	RPE         *int     `json:"rpe"`
	Tags        []string `json:"tags"`
}

func (p *ExerciseUpdate) Apply(e *Exercise) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.VideoURL != nil {
		e.VideoURL = *p.VideoURL
	}
	if p.WorkoutID != nil {
		id := *p.WorkoutID
		e.WorkoutID = &id
	}
	if p.Sets != nil {
		e.Sets = *p.Sets
	}
	if p.Repetition != nil {
		e.Repetition = *p.Repetition
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Weight != nil {
		w := *p.Weight
		e.Weight = &w
	}
	if p.RPE != nil {
		r := *p.RPE
		e.RPE = &r
	}
}

func validateExerciseFields(description, videoURL string, sets, reps, duration int, weight *float64, rpe *int) error {
	if len(description) > 500 {
		return fmt.Errorf("%w: description must be at most 500 characters", gorm.ErrInvalidData)
	}
	if len(videoURL) > 500 {
		return fmt.Errorf("%w: video_url must be at most 500 characters", gorm.ErrInvalidData)
	}
	if videoURL != "" && !strings.HasPrefix(videoURL, "http://") && !strings.HasPrefix(videoURL, "https://") {
		return fmt.Errorf("%w: video_url must be an http(s) URL", gorm.ErrInvalidData)
	}
	if sets < 0 || reps < 0 || duration < 0 {
		return fmt.Errorf("%w: set, repetition and duration must not be negative", gorm.ErrInvalidData)
	}
	if weight != nil && (*weight < 0 || math.IsNaN(*weight)) {
		return fmt.Errorf("%w: weight must not be negative", gorm.ErrInvalidData)
	}
	if rpe != nil && (*rpe < 1 || *rpe > 10) {
		return fmt.Errorf("%w: rpe must be between 1 and 10", gorm.ErrInvalidData)
	}
	return nil
}
