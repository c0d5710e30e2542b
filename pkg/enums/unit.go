package enums

import (
	"fmt"
	"strings"
)

// Unit represents the closed set of units of measure carried on catalog
// products and list items.
type Unit string

const (
	UnitUnidade    Unit = "Unidade"
	UnitQuilograma Unit = "Quilograma"
	UnitGrama      Unit = "Grama"
	UnitLitro      Unit = "Litro"
	UnitPacote     Unit = "Pacote"
	UnitBandeja    Unit = "Bandeja"
	UnitMaco       Unit = "Maco"
	UnitGarrafa    Unit = "Garrafa"
	UnitCaixa      Unit = "Caixa"
)

var validUnits = []Unit{
	UnitUnidade,
	UnitQuilograma,
	UnitGrama,
	UnitLitro,
	UnitPacote,
	UnitBandeja,
	UnitMaco,
	UnitGarrafa,
	UnitCaixa,
}

// unitByCode maps receipt/free-text abbreviations onto the enumeration.
var unitByCode = map[string]Unit{
	"UN":  UnitUnidade,
	"UND": UnitUnidade,
	"KG":  UnitQuilograma,
	"G":   UnitGrama,
	"GR":  UnitGrama,
	"L":   UnitLitro,
	"LT":  UnitLitro,
	"PCT": UnitPacote,
	"PC":  UnitPacote,
	"BDJ": UnitBandeja,
	"MC":  UnitMaco,
	"GF":  UnitGarrafa,
	"GRF": UnitGarrafa,
	"CX":  UnitCaixa,
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitCode converts a receipt unit code (KG, UN, PCT, ...) into a Unit.
func ParseUnitCode(code string) (Unit, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	normalized = strings.TrimSuffix(normalized, ".")
	if unit, ok := unitByCode[normalized]; ok {
		return unit, nil
	}
	return "", fmt.Errorf("unknown unit code %q", code)
}

// IsUnitCode reports whether the token maps to a known unit abbreviation.
func IsUnitCode(code string) bool {
	_, err := ParseUnitCode(code)
	return err == nil
}
