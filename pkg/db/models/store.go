package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a warehouse branch groups are pinned to. Reference data.
type Store struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchName string    `gorm:"column:branch_name;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
