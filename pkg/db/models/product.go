package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

// Product is the canonical, deduplicated catalog record. Rows are never
// hard-deleted: a merged-away product stays inactive with merged_into_id
// pointing at the survivor.
type Product struct {
	ID             uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string      `gorm:"column:name;not null"`
	NormalizedName string      `gorm:"column:normalized_name;not null;index"`
	Unit           *enums.Unit `gorm:"column:unit"`
	StoreCode      *string     `gorm:"column:store_code;uniqueIndex"`
	CategoryID     *uuid.UUID  `gorm:"column:category_id;type:uuid"`
	Category       *Category   `gorm:"foreignKey:CategoryID"`

	NeedsNameReview     bool `gorm:"column:needs_name_review;not null;default:false"`
	NeedsCategoryReview bool `gorm:"column:needs_category_review;not null;default:false"`

	Active       bool       `gorm:"column:active;not null;default:true"`
	MergedIntoID *uuid.UUID `gorm:"column:merged_into_id;type:uuid"`

	// LastMatchedAt breaks fuzzy-score ties in favor of recently used rows.
	LastMatchedAt *time.Time `gorm:"column:last_matched_at"`

	Synonyms  []ProductSynonym `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Confirmed reports whether the product has passed (or never needed) name
// review and participates in exact and fuzzy matching.
func (p *Product) Confirmed() bool {
	return p != nil && p.Active && !p.NeedsNameReview
}
