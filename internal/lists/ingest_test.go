package lists

import (
	"testing"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
)

func TestNewShoppingListBuildsPendingRow(t *testing.T) {
	list, err := NewShoppingList(CreateInput{
		Name:      "feira da semana",
		RawText:   "Arroz\nFeijao",
		EntryType: "simple_list",
	})
	if err != nil {
		t.Fatalf("new shopping list: %v", err)
	}
	if list.Status != enums.ListStatusPending {
		t.Fatalf("expected pending status, got %s", list.Status)
	}
	if list.EntryType != enums.ListEntryTypeSimpleList {
		t.Fatalf("unexpected entry type %s", list.EntryType)
	}
}

func TestNewShoppingListRejectsMissingFields(t *testing.T) {
	_, err := NewShoppingList(CreateInput{EntryType: "simple_list"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewShoppingListRejectsUnknownEntryType(t *testing.T) {
	_, err := NewShoppingList(CreateInput{
		Name:      "feira",
		RawText:   "Arroz",
		EntryType: "receipt",
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
