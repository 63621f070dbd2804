package domain

import (
	"errors"
	"math"
)

// ErrInvalidFilter signals a filter that cannot be evaluated.
var ErrInvalidFilter = errors.New("invalid beer filter")

// Field names a beer attribute that can be searched and ordered on.
type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldBrand      Field = "brand"
	FieldPrice      Field = "price"
	FieldType       Field = "type"
	FieldPercentage Field = "percentage"
)

// Fields lists every searchable field.
func Fields() []Field {
	return []Field{FieldID, FieldName, FieldBrand, FieldPrice, FieldType, FieldPercentage}
}

// Valid reports whether f names a searchable field.
func (f Field) Valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// Filter describes a paginated, searchable and ordered catalog query.
// CurrentPage is 1-based.
type Filter struct {
	CurrentPage  int
	ItemsPerPage int
	Ascending    bool
	SearchField  Field
	SearchText   string
}

// Field returns the search field, defaulting to FieldID when unset.
func (f Filter) Field() Field {
	if f.SearchField == "" {
		return FieldID
	}
	return f.SearchField
}

// Offset is the number of matching beers preceding the current page.
func (f Filter) Offset() int {
	return (f.CurrentPage - 1) * f.ItemsPerPage
}

// Validate checks that the filter can be evaluated by a repository.
func (f Filter) Validate() error {
	if f.CurrentPage < 1 || f.ItemsPerPage < 1 {
		return ErrInvalidFilter
	}
	// Offset must fit in an int.
	if f.CurrentPage-1 > math.MaxInt/f.ItemsPerPage {
		return ErrInvalidFilter
	}
	if !f.Field().Valid() {
		return ErrInvalidFilter
	}
	return nil
}

// FilteredBeers is one page of a filtered query plus the total number of matches.
type FilteredBeers struct {
	Beers      []*Beer
	TotalCount int64
}
