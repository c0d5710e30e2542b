package lists

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
)

func TestAnalyzeFreeTextLeadingQuantityAndUnit(t *testing.T) {
	lines := AnalyzeFreeText("2kg Banana\nArroz")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	first := lines[0]
	if first.Name != "Banana" {
		t.Fatalf("expected name Banana, got %q", first.Name)
	}
	if !first.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected quantity 2, got %s", first.Quantity)
	}
	if first.Unit == nil || *first.Unit != enums.UnitQuilograma {
		t.Fatalf("expected unit Quilograma, got %v", first.Unit)
	}

	second := lines[1]
	if second.Name != "Arroz" {
		t.Fatalf("expected name Arroz, got %q", second.Name)
	}
	if !second.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected default quantity 1, got %s", second.Quantity)
	}
	if second.Unit != nil {
		t.Fatalf("expected no unit, got %v", *second.Unit)
	}
}

func TestAnalyzeFreeTextSeparatedUnitToken(t *testing.T) {
	lines := AnalyzeFreeText("1,5 l Leite Integral")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.Name != "Leite Integral" {
		t.Fatalf("expected name without unit token, got %q", line.Name)
	}
	want, _ := decimal.NewFromString("1.5")
	if !line.Quantity.Equal(want) {
		t.Fatalf("expected quantity 1.5, got %s", line.Quantity)
	}
	if line.Unit == nil || *line.Unit != enums.UnitLitro {
		t.Fatalf("expected unit Litro, got %v", line.Unit)
	}
}

func TestAnalyzeFreeTextTrailingQuantity(t *testing.T) {
	lines := AnalyzeFreeText("Banana Prata 2kg")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.Name != "Banana Prata" {
		t.Fatalf("expected name Banana Prata, got %q", line.Name)
	}
	if !line.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected quantity 2, got %s", line.Quantity)
	}
	if line.Unit == nil || *line.Unit != enums.UnitQuilograma {
		t.Fatalf("expected unit Quilograma, got %v", line.Unit)
	}
}

func TestAnalyzeFreeTextDropsEmptyLines(t *testing.T) {
	lines := AnalyzeFreeText("\n   \n...\nArroz\n\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the real line to survive, got %d", len(lines))
	}
	if lines[0].Name != "Arroz" {
		t.Fatalf("unexpected name %q", lines[0].Name)
	}
}

func TestAnalyzeFreeTextPreservesOrder(t *testing.T) {
	lines := AnalyzeFreeText("Arroz\nFeijao\nMacarrao")
	want := []string{"Arroz", "Feijao", "Macarrao"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, name := range want {
		if lines[i].Name != name {
			t.Fatalf("expected %q at position %d, got %q", name, i, lines[i].Name)
		}
	}
}

func TestAnalyzeFreeTextNumericNameSuffixIsNotQuantity(t *testing.T) {
	lines := AnalyzeFreeText("Doce 7Belo")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Name != "Doce 7Belo" {
		t.Fatalf("expected name kept intact, got %q", lines[0].Name)
	}
	if !lines[0].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected default quantity, got %s", lines[0].Quantity)
	}
}

func TestAnalyzeFreeTextKeepsRawText(t *testing.T) {
	lines := AnalyzeFreeText("  2kg Banana  ")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].RawText != "2kg Banana" {
		t.Fatalf("expected trimmed raw text, got %q", lines[0].RawText)
	}
}
