package textutil

import "testing"

func TestNormalizeStripsDiacriticsAndUppercases(t *testing.T) {
	cases := map[string]string{
		"Feijão Carioca":        "FEIJAO CARIOCA",
		"açúcar  cristal":       "ACUCAR CRISTAL",
		"  Pão de Queijo ":      "PAO DE QUEIJO",
		"IOGURTE NATURAL 170G":  "IOGURTE NATURAL 170G",
		"maçã-fuji (importada)": "MACA FUJI IMPORTADA",
		"café;torrado..moído":   "CAFE TORRADO MOIDO",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Arroz Branco 5kg",
		"açaí c/ granola",
		"ÁGUA MINERAL S/ GÁS 1,5L",
		"",
		"   ",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeEmptyResults(t *testing.T) {
	for _, input := range []string{"", "  ", "--", "..;;"} {
		if got := Normalize(input); got != "" {
			t.Fatalf("Normalize(%q) = %q, want empty", input, got)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("feijão", "FEIJAO") {
		t.Fatal("expected accent-insensitive equality")
	}
	if Equal("arroz", "feijao") {
		t.Fatal("expected different keys to differ")
	}
}
