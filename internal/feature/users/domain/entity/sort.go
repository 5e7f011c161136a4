package entity

import "strings"

// SortField is a column the user list may be ordered by.
type SortField string

// SortOrder is the direction of a user list ordering.
type SortOrder string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "created_at"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// DefaultSort is applied when the requested ordering is missing or unknown.
var DefaultSort = Sort{Field: SortByID, Order: OrderDesc}

var allowedSortFields = map[SortField]struct{}{
	SortByID:        {},
	SortByName:      {},
	SortByEmail:     {},
	SortByCreatedAt: {},
}

// Sort describes how the user list is ordered.
type Sort struct {
	Field SortField
	Order SortOrder
}

// Desc reports whether the ordering is descending.
func (s Sort) Desc() bool {
	return s.Order == OrderDesc
}

// ParseSort converts raw query values into a Sort.
// Unknown fields fall back to id and unknown directions to desc, independently.
func ParseSort(field, order string) Sort {
	s := DefaultSort

	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if _, ok := allowedSortFields[f]; ok {
		s.Field = f
	}

	switch o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o {
	case OrderAsc, OrderDesc:
		s.Order = o
	}
	return s
}
