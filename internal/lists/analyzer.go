package lists

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

// RawLine is one parsed entry of a free-text shopping list.
type RawLine struct {
	RawText  string
	Name     string
	Quantity decimal.Decimal
	Unit     *enums.Unit
}

// quantityToken matches a decimal amount optionally fused with a unit
// abbreviation ("2", "1,5", "2kg").
var quantityToken = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)([A-Za-z]+)?\.?$`)

// AnalyzeFreeText parses human-written list lines into raw line records.
// A leading or trailing numeric token becomes the quantity (default 1); a
// known unit abbreviation fused with or following the quantity becomes the
// unit. Lines that normalize to empty are dropped silently. Input order is
// preserved.
func AnalyzeFreeText(text string) []RawLine {
	var out []RawLine
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parsed, ok := analyzeLine(trimmed)
		if !ok {
			continue
		}
		out = append(out, parsed)
	}
	return out
}

func analyzeLine(line string) (RawLine, bool) {
	fields := strings.Fields(line)
	quantity := decimal.NewFromInt(1)
	var unit *enums.Unit

	if len(fields) > 1 {
		if qty, u, ok := parseQuantityToken(fields[0]); ok {
			quantity = qty
			unit = u
			fields = fields[1:]
			if unit == nil && len(fields) > 1 && enums.IsUnitCode(fields[0]) {
				parsedUnit, _ := enums.ParseUnitCode(fields[0])
				unit = &parsedUnit
				fields = fields[1:]
			}
		} else if qty, u, ok := parseQuantityToken(fields[len(fields)-1]); ok {
			quantity = qty
			unit = u
			fields = fields[:len(fields)-1]
			if unit == nil && len(fields) > 1 && enums.IsUnitCode(fields[len(fields)-1]) {
				parsedUnit, _ := enums.ParseUnitCode(fields[len(fields)-1])
				unit = &parsedUnit
				fields = fields[:len(fields)-1]
			}
		}
	}

	name := strings.Join(fields, " ")
	if textutil.Normalize(name) == "" {
		return RawLine{}, false
	}
	return RawLine{
		RawText:  line,
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
	}, true
}

// parseQuantityToken splits a token like "2", "1,5" or "2kg" into quantity
// and optional unit. A non-unit alphabetic suffix rejects the token so
// names such as "7Belo" stay intact.
func parseQuantityToken(token string) (decimal.Decimal, *enums.Unit, bool) {
	match := quantityToken.FindStringSubmatch(token)
	if match == nil {
		return decimal.Decimal{}, nil, false
	}
	var unit *enums.Unit
	if match[2] != "" {
		parsed, err := enums.ParseUnitCode(match[2])
		if err != nil {
			return decimal.Decimal{}, nil, false
		}
		unit = &parsed
	}
	qty, err := parseDecimal(match[1])
	if err != nil {
		return decimal.Decimal{}, nil, false
	}
	return qty, unit, true
}

// parseDecimal accepts both decimal comma and decimal dot.
func parseDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
}
