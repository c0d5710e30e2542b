package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

// ListItem is one resolved row within a shopping list. One row is written
// per parsed source line, including lines whose resolution failed.
type ListItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListID    uuid.UUID  `gorm:"column:list_id;type:uuid;not null;index"`
	ProductID *uuid.UUID `gorm:"column:product_id;type:uuid;index"`
	Product   *Product   `gorm:"foreignKey:ProductID"`

	Position   int              `gorm:"column:position;not null"`
	Quantity   decimal.Decimal  `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit       *enums.Unit      `gorm:"column:unit"`
	UnitPrice  *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	TotalPrice *decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`

	RawText          string                 `gorm:"column:raw_text;not null"`
	RawName          string                 `gorm:"column:raw_name;not null"`
	ResolvedName     *string                `gorm:"column:resolved_name"`
	ResolvedCategory *string                `gorm:"column:resolved_category"`
	MatchScore       *int                   `gorm:"column:match_score"`
	ResolutionStatus enums.ResolutionStatus `gorm:"column:resolution_status;not null"`

	Purchased bool      `gorm:"column:purchased;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Subtotal returns the item's contribution to the list total: the explicit
// total price when present, otherwise unit price times quantity.
func (i *ListItem) Subtotal() *decimal.Decimal {
	if i == nil {
		return nil
	}
	if i.TotalPrice != nil {
		v := *i.TotalPrice
		return &v
	}
	if i.UnitPrice != nil {
		v := i.UnitPrice.Mul(i.Quantity)
		return &v
	}
	return nil
}
