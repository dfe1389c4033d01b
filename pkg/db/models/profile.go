package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile stores the display data keyed by the identity provider's
// stable user id. The nickname is denormalized onto groups, members and
// messages at write time, so renames do not rewrite history.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null"`
	Nickname  string    `gorm:"column:nickname;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
