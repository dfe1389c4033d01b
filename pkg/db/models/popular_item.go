package models

import (
	"time"

	"github.com/google/uuid"
)

// PopularItem is a curated product suggestion for the publish form.
type PopularItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
