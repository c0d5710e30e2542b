package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRule is a learned substring-to-category mapping. Rules apply in
// (priority desc, usage_count desc) order; usage_count only ever grows.
type CategoryRule struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Term       string    `gorm:"column:term;not null;index"`
	Priority   int       `gorm:"column:priority;not null;default:0"`
	UsageCount int64     `gorm:"column:usage_count;not null;default:0"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
