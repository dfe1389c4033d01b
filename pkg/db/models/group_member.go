package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupMember records one user's claim on one group. Rows are never
// updated (except the chat watermark) and never deleted; they double as
// the claim audit history. The composite primary key makes a repeated
// claim for the same (group, user) pair a unique violation.
type GroupMember struct {
	GroupID        uuid.UUID  `gorm:"column:group_id;type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	Nickname       string     `gorm:"column:nickname;type:text;not null"`
	LastChatReadAt *time.Time `gorm:"column:last_chat_read_at;type:timestamptz"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
