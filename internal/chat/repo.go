package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
)

// Repository exposes persistence helpers for group chat and read
// watermarks.
type Repository interface {
	GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error)
	GetMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error)
	InsertMessage(ctx context.Context, message *models.Message) error
	ListSince(ctx context.Context, groupID uuid.UUID, since time.Time, limit int) ([]models.Message, error)
	LatestMessageAt(ctx context.Context, groupID uuid.UUID) (*time.Time, error)
	SetCreatorWatermark(ctx context.Context, groupID, creatorID uuid.UUID, at time.Time) (int64, error)
	SetMemberWatermark(ctx context.Context, groupID, userID uuid.UUID, at time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a chat repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repositoryImpl) GetMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.WithContext(ctx).
		First(&member, "group_id = ? AND user_id = ?", groupID, userID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repositoryImpl) InsertMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repositoryImpl) ListSince(ctx context.Context, groupID uuid.UUID, since time.Time, limit int) ([]models.Message, error) {
	query := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if !since.IsZero() {
		query = query.Where("created_at > ?", since)
	}

	var rows []models.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) LatestMessageAt(ctx context.Context, groupID uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("group_id = ?", groupID).
		Select("MAX(created_at)").
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (r *repositoryImpl) SetCreatorWatermark(ctx context.Context, groupID, creatorID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ? AND creator_id = ?", groupID, creatorID).
		UpdateColumn("last_chat_read_at", at)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) SetMemberWatermark(ctx context.Context, groupID, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		UpdateColumn("last_chat_read_at", at)
	return result.RowsAffected, result.Error
}
