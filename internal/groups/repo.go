package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	"github.com/HAHAtool/ShareBasket/pkg/enums"
	"github.com/HAHAtool/ShareBasket/pkg/pagination"
)

// Repository exposes persistence helpers for groups and memberships.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, group *models.Group) error
	Get(ctx context.Context, groupID uuid.UUID) (*models.Group, error)
	// ClaimShare performs the guarded decrement. It reports false when
	// the group is closed, sold out, or gone by the time the UPDATE
	// lands.
	ClaimShare(ctx context.Context, groupID uuid.UUID) (bool, error)
	InsertMember(ctx context.Context, member *models.GroupMember) error
	ClearNewJoin(ctx context.Context, groupID, creatorID uuid.UUID) (int64, error)
	Close(ctx context.Context, groupID, creatorID uuid.UUID) (int64, error)
	ListActive(ctx context.Context, params listActiveParams) ([]models.Group, *pagination.Cursor, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, status *enums.GroupStatus) ([]models.Group, error)
	ListByMember(ctx context.Context, userID uuid.UUID, status *enums.GroupStatus) ([]models.Group, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a groups repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listActiveParams struct {
	StoreID uuid.UUID
	Limit   int
	Cursor  *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repositoryImpl) Get(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Store").
		First(&group, "id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repositoryImpl) ClaimShare(ctx context.Context, groupID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE groups
		    SET remaining_units = remaining_units - 1,
		        has_new_join = ?
		  WHERE id = ? AND status = ? AND remaining_units > 0`,
		true, groupID, enums.GroupStatusActive,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) InsertMember(ctx context.Context, member *models.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repositoryImpl) ClearNewJoin(ctx context.Context, groupID, creatorID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ? AND creator_id = ?", groupID, creatorID).
		UpdateColumn("has_new_join", false)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) Close(ctx context.Context, groupID, creatorID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ? AND creator_id = ? AND status = ?", groupID, creatorID, enums.GroupStatusActive).
		UpdateColumns(map[string]any{
			"status":       enums.GroupStatusClosed,
			"has_new_join": false,
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) ListActive(ctx context.Context, params listActiveParams) ([]models.Group, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Preload("Store").
		Where("status = ?", enums.GroupStatusActive)
	if params.StoreID != uuid.Nil {
		query = query.Where("store_id = ?", params.StoreID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Group
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) ListByCreator(ctx context.Context, creatorID uuid.UUID, status *enums.GroupStatus) ([]models.Group, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Preload("Store").
		Where("creator_id = ?", creatorID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Group
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByMember(ctx context.Context, userID uuid.UUID, status *enums.GroupStatus) ([]models.Group, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Preload("Store").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID)
	if status != nil {
		query = query.Where("groups.status = ?", *status)
	}

	var rows []models.Group
	if err := query.Order("groups.created_at DESC, groups.id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
