package lists

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
)

// Repository handles shopping list and line item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shopping list operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new list in pending state.
func (r *Repository) Create(ctx context.Context, list *models.ShoppingList) error {
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	if list.Status == "" {
		list.Status = enums.ListStatusPending
	}
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID loads a list together with its items, ordered by position.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// FindPendingIDs returns up to limit pending list IDs, oldest first.
func (r *Repository) FindPendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("status = ?", enums.ListStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ids []uuid.UUID
	err := q.Pluck("id", &ids).Error
	return ids, err
}

// CompleteProcessing commits a successful run in one transaction: the list
// row moves to processed with its items and price observations written
// together. The status guard keeps a concurrently finished list untouched.
func (r *Repository) CompleteProcessing(
	ctx context.Context,
	list *models.ShoppingList,
	items []models.ListItem,
	prices []models.PriceHistory,
) error {
	processedAt := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ShoppingList{}).
			Where("id = ? AND status = ?", list.ID, enums.ListStatusPending).
			Updates(map[string]any{
				"status":        enums.ListStatusProcessed,
				"processed_at":  processedAt,
				"purchase_date": list.PurchaseDate,
				"store_id":      list.StoreID,
				"warnings":      list.Warnings,
				"error_message": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "list left pending state during processing")
		}

		for i := range items {
			if items[i].ID == uuid.Nil {
				items[i].ID = uuid.New()
			}
			items[i].ListID = list.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		for i := range prices {
			if prices[i].ID == uuid.Nil {
				prices[i].ID = uuid.New()
			}
		}
		if len(prices) > 0 {
			if err := tx.Create(&prices).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkFailed moves a pending list to failed with the given message. Lists
// already in a terminal state are left as they are.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	processedAt := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ? AND status = ?", id, enums.ListStatusPending).
		Updates(map[string]any{
			"status":        enums.ListStatusFailed,
			"processed_at":  processedAt,
			"error_message": message,
		}).Error
}

// FailOlderThan marks pending lists created before the cutoff as failed and
// returns how many moved. Used by the periodic cleanup job.
func (r *Repository) FailOlderThan(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("status = ? AND created_at < ?", enums.ListStatusPending, cutoff).
		Updates(map[string]any{
			"status":        enums.ListStatusFailed,
			"processed_at":  time.Now().UTC(),
			"error_message": message,
		})
	return result.RowsAffected, result.Error
}

// SetItemPurchased toggles the purchased flag on one line item. This is the
// only mutation allowed on items of a processed list.
func (r *Repository) SetItemPurchased(ctx context.Context, itemID uuid.UUID, purchased bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ListItem{}).
		Where("id = ?", itemID).
		Update("purchased", purchased)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, gorm.ErrRecordNotFound, "list item not found")
	}
	return nil
}

// IsNotFound reports whether err is the record-missing case.
func IsNotFound(err error) bool {
	return stdErrors.Is(err, gorm.ErrRecordNotFound)
}
