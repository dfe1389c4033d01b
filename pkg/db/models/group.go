package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/HAHAtool/ShareBasket/pkg/enums"
)

// Group is one bulk-pack offer: the organizer's retained portion plus
// the claimable shares, with the claim lifecycle state.
type Group struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID       uuid.UUID         `gorm:"column:creator_id;type:uuid;not null"`
	CreatorNickname string            `gorm:"column:creator_nickname;type:text;not null"`
	StoreID         uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	ItemName        string            `gorm:"column:item_name;type:text;not null"`
	TotalPrice      int               `gorm:"column:total_price;not null"`
	TotalUnits      int               `gorm:"column:total_units;not null"`
	UnitPrice       int               `gorm:"column:unit_price;not null"`
	SelfUnits       int               `gorm:"column:self_units;not null"`
	RemainingUnits  int               `gorm:"column:remaining_units;not null"`
	Status          enums.GroupStatus `gorm:"column:status;type:group_status;not null;default:'active'"`
	HasNewJoin      bool              `gorm:"column:has_new_join;not null;default:false"`
	LastChatReadAt  *time.Time        `gorm:"column:last_chat_read_at;type:timestamptz"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Store *Store `gorm:"foreignKey:StoreID"`
}
