package enums

// ResolutionStatus records how a raw product name was linked to the catalog.
type ResolutionStatus string

const (
	ResolutionMatchedExact   ResolutionStatus = "matched_exact"
	ResolutionMatchedSynonym ResolutionStatus = "matched_synonym"
	ResolutionMatchedFuzzy   ResolutionStatus = "matched_fuzzy"
	ResolutionCreatedPending ResolutionStatus = "created_pending"
	ResolutionFailed         ResolutionStatus = "failed"
)

// String implements fmt.Stringer.
func (s ResolutionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ResolutionStatus.
func (s ResolutionStatus) IsValid() bool {
	switch s {
	case ResolutionMatchedExact, ResolutionMatchedSynonym, ResolutionMatchedFuzzy,
		ResolutionCreatedPending, ResolutionFailed:
		return true
	}
	return false
}

// SynonymSource tags how a product synonym was learned.
type SynonymSource string

const (
	SynonymSourceFuzzy  SynonymSource = "fuzzy"
	SynonymSourceManual SynonymSource = "manual"
)

// String implements fmt.Stringer.
func (s SynonymSource) String() string {
	return string(s)
}

// PriceSource tags where a price history observation came from.
type PriceSource string

const (
	PriceSourceInvoice PriceSource = "invoice"
	PriceSourceManual  PriceSource = "manual"
)

// String implements fmt.Stringer.
func (s PriceSource) String() string {
	return string(s)
}
