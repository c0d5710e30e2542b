package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

// PriceHistory is an append-only price observation for a product.
type PriceHistory struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	UnitPrice  decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ObservedAt time.Time         `gorm:"column:observed_at;not null;index"`
	Source     enums.PriceSource `gorm:"column:source;not null"`
	StoreID    *uuid.UUID        `gorm:"column:store_id;type:uuid"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
