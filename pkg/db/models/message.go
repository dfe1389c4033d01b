package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat entry in a group's pickup-coordination channel.
// Append-only, ordered by (created_at, id).
type Message struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID        uuid.UUID `gorm:"column:group_id;type:uuid;not null"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null"`
	SenderNickname string    `gorm:"column:sender_nickname;type:text;not null"`
	Body           string    `gorm:"column:body;type:text;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
