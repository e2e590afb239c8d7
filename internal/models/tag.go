package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"tag_id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	_, err := NormalizeTagName(t.Name)
	return err
}

func (Tag) TableName() string {
	return "tags"
}

// NormalizeTagName trims a tag name and checks it fits the column.
func NormalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: tag name is required", gorm.ErrInvalidData)
	}
	if len(name) > 50 {
		return "", fmt.Errorf("%w: tag name must be at most 50 characters", gorm.ErrInvalidData)
	}
	return name, nil
}

type TagCreate struct {
	Name string `json:"name"`
}

type TagUpdate struct {
	Name *string `json:"name"`
}
