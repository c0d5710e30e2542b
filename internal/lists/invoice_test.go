package lists

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
)

func TestReadInvoiceParsesItemLine(t *testing.T) {
	issued := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	inv, err := ReadInvoice("SUPERMERCADO BOM PRECO\nAR004808;ARROZ BRANCO 5KG;1;KG;25.90;25.90", issued)
	if err != nil {
		t.Fatalf("read invoice: %v", err)
	}
	if inv.CompanyName != "SUPERMERCADO BOM PRECO" {
		t.Fatalf("unexpected company name %q", inv.CompanyName)
	}
	if !inv.IssueDate.Equal(issued) {
		t.Fatalf("issue date not carried through, got %s", inv.IssueDate)
	}
	if len(inv.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(inv.Lines))
	}

	line := inv.Lines[0]
	if line.StoreCode != "AR004808" {
		t.Fatalf("unexpected store code %q", line.StoreCode)
	}
	if line.Name != "ARROZ BRANCO 5KG" {
		t.Fatalf("unexpected name %q", line.Name)
	}
	if line.Unit != enums.UnitQuilograma {
		t.Fatalf("expected Quilograma, got %s", line.Unit)
	}
	want, _ := decimal.NewFromString("25.90")
	if !line.UnitPrice.Equal(want) {
		t.Fatalf("expected unit price 25.90, got %s", line.UnitPrice)
	}
	if !line.TotalPrice.Equal(want) {
		t.Fatalf("expected total price 25.90, got %s", line.TotalPrice)
	}
	if !line.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected quantity 1, got %s", line.Quantity)
	}
}

func TestReadInvoiceAcceptsCommaDecimals(t *testing.T) {
	inv, err := ReadInvoice("MERCADO\nLT01;LEITE INTEGRAL;2;L;4,59;9,18", time.Now().UTC())
	if err != nil {
		t.Fatalf("read invoice: %v", err)
	}
	if len(inv.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(inv.Lines))
	}
	want, _ := decimal.NewFromString("4.59")
	if !inv.Lines[0].UnitPrice.Equal(want) {
		t.Fatalf("expected unit price 4.59, got %s", inv.Lines[0].UnitPrice)
	}
}

func TestReadInvoiceUnknownUnitFailsOnlyThatLine(t *testing.T) {
	text := "MERCADO\nAB1;FARINHA;1;SACO;10.00;10.00\nCD2;FEIJAO PRETO;1;KG;8.50;8.50"
	inv, err := ReadInvoice(text, time.Now().UTC())
	if err != nil {
		t.Fatalf("read invoice: %v", err)
	}
	if len(inv.Lines) != 1 {
		t.Fatalf("expected the good line to survive, got %d lines", len(inv.Lines))
	}
	if inv.Lines[0].Name != "FEIJAO PRETO" {
		t.Fatalf("wrong surviving line %q", inv.Lines[0].Name)
	}
	if len(inv.LineErrors) != 1 {
		t.Fatalf("expected 1 line error, got %d", len(inv.LineErrors))
	}
	if inv.LineErrors[0].Reason == "" {
		t.Fatal("line error must carry a reason")
	}
}

func TestReadInvoiceEmptyTextIsStructuralError(t *testing.T) {
	_, err := ReadInvoice("\n   \n", time.Now().UTC())
	if err == nil {
		t.Fatal("expected an error for empty invoice text")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReadInvoiceWrongFieldCountIsStructuralError(t *testing.T) {
	_, err := ReadInvoice("MERCADO\nisto nao e uma linha de nota", time.Now().UTC())
	if err == nil {
		t.Fatal("expected an error for an unreadable grammar")
	}
}

func TestReadInvoiceUnreadableNumberFailsOnlyThatLine(t *testing.T) {
	inv, err := ReadInvoice("MERCADO\nAB1;FARINHA;muitos;KG;10.00;10.00", time.Now().UTC())
	if err != nil {
		t.Fatalf("read invoice: %v", err)
	}
	if len(inv.Lines) != 0 || len(inv.LineErrors) != 1 {
		t.Fatalf("expected a single line error, got %d lines and %d errors",
			len(inv.Lines), len(inv.LineErrors))
	}
}
