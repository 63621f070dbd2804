package mapper

import (
	"fmt"
	"strings"

	catalogdomain "github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

// Beer is the HTTP representation of a catalog entry.
type Beer struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand"`
	Percentage float64  `json:"percentage"`
	Price      *float64 `json:"price,omitempty"`
	Type       string   `json:"type,omitempty"`
}

// FilteredBeers is one page of a catalog search.
type FilteredBeers struct {
	Beers        []Beer `json:"beers"`
	TotalCount   int64  `json:"totalCount"`
	CurrentPage  int    `json:"currentPage"`
	ItemsPerPage int    `json:"itemsPerPage"`
}

// ParseType maps a transport type name onto the domain type. Matching ignores case.
func ParseType(value string) (catalogdomain.Type, error) {
	beerType := catalogdomain.Type(strings.ToLower(strings.TrimSpace(value)))
	if !beerType.Valid() {
		return "", fmt.Errorf("unknown beer type %q", value)
	}
	return beerType, nil
}

// ToDomainBeer converts a transport beer into the catalog domain model.
// An empty type is allowed; any other value must name a known type.
func ToDomainBeer(beer Beer) (*catalogdomain.Beer, error) {
	result := &catalogdomain.Beer{
		ID:         beer.ID,
		Name:       beer.Name,
		Brand:      beer.Brand,
		Percentage: beer.Percentage,
		Price:      beer.Price,
	}
	if beer.Type != "" {
		beerType, err := ParseType(beer.Type)
		if err != nil {
			return nil, err
		}
		result.Type = beerType
	}
	return result, nil
}

// FromDomainBeer converts a domain beer to the transport representation.
func FromDomainBeer(beer *catalogdomain.Beer) Beer {
	if beer == nil {
		return Beer{}
	}
	return Beer{
		ID:         beer.ID,
		Name:       beer.Name,
		Brand:      beer.Brand,
		Percentage: beer.Percentage,
		Price:      beer.Price,
		Type:       string(beer.Type),
	}
}

func FromDomainBeers(beers []*catalogdomain.Beer) []Beer {
	result := make([]Beer, 0, len(beers))
	for _, beer := range beers {
		result = append(result, FromDomainBeer(beer))
	}
	return result
}

// FromDomainFiltered converts a filtered page, echoing the requested paging.
func FromDomainFiltered(page *catalogdomain.FilteredBeers, filter catalogdomain.Filter) FilteredBeers {
	out := FilteredBeers{Beers: []Beer{}, CurrentPage: filter.CurrentPage, ItemsPerPage: filter.ItemsPerPage}
	if page == nil {
		return out
	}
	out.Beers = FromDomainBeers(page.Beers)
	out.TotalCount = page.TotalCount
	return out
}
