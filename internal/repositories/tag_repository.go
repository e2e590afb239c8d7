package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"gorm.io/gorm"
)

const (
	DefaultTagLimit = 100
	MaxTagLimit     = 500
)

var savepointSeq atomic.Uint64

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// ResolveOrCreateTags returns one tag per distinct name, in first-seen order,
// creating the ones that do not exist yet.
func (r *TagRepository) ResolveOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tags, err = resolveTags(tx, names)
		return err
	})
	if err != nil {
		logger.Error("failed to resolve tags", "names", names, "error", err)
		return nil, translateError(err, "failed to resolve tags")
	}
	return tags, nil
}

func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, raw := range names {
		name, err := models.NormalizeTagName(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		err = tx.Where("name = ?", name).First(&tag).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			tag, err = insertOrFetchTag(tx, name)
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// insertOrFetchTag inserts name under a savepoint. A uniqueness conflict means a
// concurrent request created the tag first, so the savepoint is rolled back and
// the winner's row is read instead.
func insertOrFetchTag(tx *gorm.DB, name string) (models.Tag, error) {
	sp := fmt.Sprintf("tag_insert_%d", savepointSeq.Add(1))
	if err := tx.SavePoint(sp).Error; err != nil {
		return models.Tag{}, err
	}

	tag := models.Tag{Name: name}
	err := tx.Create(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !isUniqueViolation(err) {
		return models.Tag{}, err
	}

	logger.Debug("tag created concurrently, reusing it", "name", name)
	if err := tx.RollbackTo(sp).Error; err != nil {
		return models.Tag{}, err
	}
	tag = models.Tag{}
	if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// CreateTag inserts a tag. Unlike tag resolution, a duplicate name is reported.
func (r *TagRepository) CreateTag(ctx context.Context, payload *models.TagCreate) (*models.Tag, error) {
	name, err := models.NormalizeTagName(payload.Name)
	if err != nil {
		return nil, translateError(err, "invalid tag")
	}

	tag := models.Tag{Name: name}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tag).Error
	})
	if err != nil {
		logger.Error("failed to create tag", "name", name, "error", err)
		return nil, translateError(err, "failed to create tag")
	}
	logger.Debug("tag created", "tag_id", tag.ID)
	return &tag, nil
}

func (r *TagRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "failed to get tag")
	}
	return &tag, nil
}

// ListTags pages through tags by id. A non-positive limit falls back to the default.
func (r *TagRepository) ListTags(ctx context.Context, skip, limit int) ([]models.Tag, error) {
	if skip < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "skip must not be negative")
	}
	if limit <= 0 {
		limit = DefaultTagLimit
	}
	if limit > MaxTagLimit {
		limit = MaxTagLimit
	}

	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&tags).Error; err != nil {
		return nil, translateError(err, "failed to list tags")
	}
	return tags, nil
}

func (r *TagRepository) UpdateTag(ctx context.Context, id uint, patch *models.TagUpdate) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("tag")
			}
			return err
		}
		if patch.Name == nil {
			return nil
		}
		name, err := models.NormalizeTagName(*patch.Name)
		if err != nil {
			return err
		}
		tag.Name = name
		return tx.Save(&tag).Error
	})
	if err != nil {
		logger.Error("failed to update tag", "tag_id", id, "error", err)
		return nil, translateError(err, "failed to update tag")
	}
	logger.Debug("tag updated", "tag_id", id)
	return &tag, nil
}

// DeleteTag removes the tag and detaches it from every exercise.
func (r *TagRepository) DeleteTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("tag")
			}
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
	if err != nil {
		logger.Error("failed to delete tag", "tag_id", id, "error", err)
		return nil, translateError(err, "failed to delete tag")
	}
	logger.Debug("tag deleted", "tag_id", id)
	return &tag, nil
}
