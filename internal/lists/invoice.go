package lists

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
)

// invoiceFieldCount is the fixed grammar of an item line: store code, name,
// quantity, unit code, unit price, total price.
const invoiceFieldCount = 6

// InvoiceLine is one typed item row read from an invoice block. Position is
// the zero-based index among the block's item lines.
type InvoiceLine struct {
	Position   int
	RawText    string
	StoreCode  string
	Name       string
	Quantity   decimal.Decimal
	Unit       enums.Unit
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// LineError records a single item line that could not be read. It does not
// abort the invoice.
type LineError struct {
	Position int
	RawText  string
	Reason   string
}

// Invoice is the parsed form of an NFC-e text block. The issue date comes
// from the upstream scraper, already UTC-normalized.
type Invoice struct {
	CompanyName string
	IssueDate   time.Time
	Lines       []InvoiceLine
	LineErrors  []LineError
}

// ReadInvoice parses a scraped invoice text block. The first non-blank line
// is the issuing company's name; every following non-blank line must carry
// the six semicolon-separated item fields. Lines with an unknown unit code
// or an unreadable number are collected as line errors; a line with the
// wrong field count means the block itself is not in the expected grammar
// and fails the whole read.
func ReadInvoice(text string, issueDate time.Time) (*Invoice, error) {
	rawLines := strings.Split(text, "\n")

	companyIdx := -1
	for i, line := range rawLines {
		if strings.TrimSpace(line) != "" {
			companyIdx = i
			break
		}
	}
	if companyIdx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice text is empty")
	}

	inv := &Invoice{
		CompanyName: strings.TrimSpace(rawLines[companyIdx]),
		IssueDate:   issueDate,
	}

	position := 0
	for _, raw := range rawLines[companyIdx+1:] {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		line, lineErr, err := readInvoiceLine(trimmed)
		if err != nil {
			return nil, err
		}
		if lineErr != nil {
			lineErr.Position = position
			inv.LineErrors = append(inv.LineErrors, *lineErr)
		} else {
			line.Position = position
			inv.Lines = append(inv.Lines, *line)
		}
		position++
	}
	return inv, nil
}

func readInvoiceLine(trimmed string) (*InvoiceLine, *LineError, error) {
	fields := strings.Split(trimmed, ";")
	if len(fields) != invoiceFieldCount {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invoice line has %d fields, want %d", len(fields), invoiceFieldCount))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	unit, err := enums.ParseUnitCode(fields[3])
	if err != nil {
		return nil, &LineError{
			RawText: trimmed,
			Reason:  fmt.Sprintf("unknown unit code %q", fields[3]),
		}, nil
	}

	quantity, err := parseDecimal(fields[2])
	if err != nil {
		return nil, &LineError{RawText: trimmed, Reason: "unreadable quantity"}, nil
	}
	unitPrice, err := parseDecimal(fields[4])
	if err != nil {
		return nil, &LineError{RawText: trimmed, Reason: "unreadable unit price"}, nil
	}
	totalPrice, err := parseDecimal(fields[5])
	if err != nil {
		return nil, &LineError{RawText: trimmed, Reason: "unreadable total price"}, nil
	}

	return &InvoiceLine{
		RawText:    trimmed,
		StoreCode:  fields[0],
		Name:       fields[1],
		Quantity:   quantity,
		Unit:       unit,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	}, nil, nil
}
