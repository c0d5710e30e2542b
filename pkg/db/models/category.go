package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog category. Exactly one row carries is_default and
// receives products the classifier could not place.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
