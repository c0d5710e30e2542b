package lists

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
)

// CreateInput carries a new list submission from the ingestion surface.
// PurchaseDate is the scraped invoice issue date when the caller has one.
type CreateInput struct {
	Name         string `validate:"required,min=1,max=200"`
	RawText      string `validate:"required"`
	EntryType    string `validate:"required"`
	PurchaseDate *time.Time
}

var createValidator = validator.New()

// NewShoppingList validates a submission and builds the pending list row
// the worker will later pick up.
func NewShoppingList(input CreateInput) (*models.ShoppingList, error) {
	if err := createValidator.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid list submission").WithDetails(err.Error())
	}
	entryType, err := enums.ParseListEntryType(input.EntryType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown entry type")
	}
	return &models.ShoppingList{
		ID:           uuid.New(),
		Name:         input.Name,
		RawText:      input.RawText,
		EntryType:    entryType,
		Status:       enums.ListStatusPending,
		PurchaseDate: input.PurchaseDate,
	}, nil
}
