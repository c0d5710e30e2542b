package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

// ProductSynonym maps a learned raw string onto a catalog product so the
// same text resolves without another fuzzy pass.
type ProductSynonym struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	RawText        string              `gorm:"column:raw_text;not null"`
	NormalizedText string              `gorm:"column:normalized_text;not null;uniqueIndex"`
	Source         enums.SynonymSource `gorm:"column:source;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
