package enums

import "fmt"

// ListEntryType distinguishes how a shopping list's raw text is parsed.
type ListEntryType string

const (
	ListEntryTypeSimpleList ListEntryType = "simple_list"
	ListEntryTypeInvoice    ListEntryType = "invoice"
)

var validListEntryTypes = []ListEntryType{
	ListEntryTypeSimpleList,
	ListEntryTypeInvoice,
}

// String implements fmt.Stringer.
func (t ListEntryType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ListEntryType.
func (t ListEntryType) IsValid() bool {
	for _, candidate := range validListEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseListEntryType converts raw input into a ListEntryType.
func ParseListEntryType(value string) (ListEntryType, error) {
	for _, candidate := range validListEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid list entry type %q", value)
}

// ListStatus tracks a shopping list through its processing lifecycle.
// Transitions are pending -> processed or pending -> failed, both terminal.
type ListStatus string

const (
	ListStatusPending   ListStatus = "pending"
	ListStatusProcessed ListStatus = "processed"
	ListStatusFailed    ListStatus = "failed"
)

// String implements fmt.Stringer.
func (s ListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListStatus.
func (s ListStatus) IsValid() bool {
	switch s {
	case ListStatusPending, ListStatusProcessed, ListStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s ListStatus) IsTerminal() bool {
	return s == ListStatusProcessed || s == ListStatusFailed
}
