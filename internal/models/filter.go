package models

// PropertyFilter is the closed set of predicates the reporting engine will
// evaluate. The natural-language interpreter produces one of these; anything
// it cannot express is rejected at that boundary rather than smuggled in as
// an open-ended dictionary. All populated fields compose with logical AND.
type PropertyFilter struct {
	ServiceTypes []ServiceType    `json:"service_types,omitempty"`
	UnitStatuses []UnitStatusType `json:"unit_statuses,omitempty"`
	Regions      []string         `json:"regions,omitempty"`
	Provider     string           `json:"provider,omitempty"`

	// AttentionOnly keeps only properties with at least one expired or
	// action-required compliance item, or an overdue maintenance job.
	AttentionOnly bool `json:"attention_only,omitempty"`

	// FreeText substring-matches over id, name, address and provider.
	FreeText string `json:"free_text,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f PropertyFilter) IsZero() bool {
	return len(f.ServiceTypes) == 0 &&
		len(f.UnitStatuses) == 0 &&
		len(f.Regions) == 0 &&
		f.Provider == "" &&
		!f.AttentionOnly &&
		f.FreeText == ""
}

// GroupField selects the partition key for grouped reports.
type GroupField string

const (
	GroupByRegion      GroupField = "region"
	GroupByServiceType GroupField = "service_type"
	GroupByProvider    GroupField = "provider"
	GroupByLegalEntity GroupField = "legal_entity"

	// GroupByStatus partitions by the property's worst live compliance
	// status, so the most at-risk bucket surfaces first on dashboards.
	GroupByStatus GroupField = "status"
)
